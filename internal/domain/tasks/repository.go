package tasks

import (
	"context"
	"errors"
)

// ErrTaskNotFound is returned by repositories when no task matches.
var ErrTaskNotFound = errors.New("task not found")

// TaskRepository is the persistence port for tasks. Implementations
// return ErrTaskNotFound (possibly wrapped) when a lookup misses.
type TaskRepository interface {
	Save(ctx context.Context, task *Task) error
	FindByID(ctx context.Context, id string) (*Task, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*Task, error)
	Delete(ctx context.Context, id string) error
}
