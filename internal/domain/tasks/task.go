// Package tasks holds the task domain model used by the demo application
// that exercises the dispatch pipeline end to end.
package tasks

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Status of a task
type Status string

const (
	StatusOpen      Status = "open"
	StatusCompleted Status = "completed"
)

// Task is a unit of work owned by a single principal.
type Task struct {
	ID          string
	OwnerID     string
	Title       string
	Notes       string
	Status      Status
	CreatedAt   time.Time
	CompletedAt *time.Time
}

// NewTask creates an open task with a fresh id.
func NewTask(ownerID, title, notes string) (*Task, error) {
	if ownerID == "" {
		return nil, fmt.Errorf("task owner cannot be empty")
	}
	if title == "" {
		return nil, fmt.Errorf("task title cannot be empty")
	}

	return &Task{
		ID:        uuid.NewString(),
		OwnerID:   ownerID,
		Title:     title,
		Notes:     notes,
		Status:    StatusOpen,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// Complete marks the task completed. Completing an already completed task
// is a conflict.
func (t *Task) Complete(now time.Time) error {
	if t.Status == StatusCompleted {
		return fmt.Errorf("task %s is already completed", t.ID)
	}
	t.Status = StatusCompleted
	completedAt := now.UTC()
	t.CompletedAt = &completedAt
	return nil
}

// IsOwnedBy reports whether the task belongs to the given principal.
func (t *Task) IsOwnedBy(principalID string) bool {
	return t.OwnerID == principalID
}
