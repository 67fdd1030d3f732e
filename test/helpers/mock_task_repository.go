package helpers

import (
	"context"
	"fmt"
	"sync"

	"github.com/andrescamacho/dispatch-go/internal/domain/tasks"
)

// MockTaskRepository is an in-memory tasks.TaskRepository for tests.
// Safe for concurrent use. FailNext forces the next call to fail, for
// exercising unexpected-failure paths.
type MockTaskRepository struct {
	mu       sync.Mutex
	byID     map[string]*tasks.Task
	FailNext error
}

// NewMockTaskRepository creates an empty mock repository
func NewMockTaskRepository() *MockTaskRepository {
	return &MockTaskRepository{byID: make(map[string]*tasks.Task)}
}

func (r *MockTaskRepository) takeFailure() error {
	err := r.FailNext
	r.FailNext = nil
	return err
}

// Save stores a copy of the task
func (r *MockTaskRepository) Save(ctx context.Context, task *tasks.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.takeFailure(); err != nil {
		return err
	}

	clone := *task
	r.byID[task.ID] = &clone
	return nil
}

// FindByID returns a copy of the stored task
func (r *MockTaskRepository) FindByID(ctx context.Context, id string) (*tasks.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.takeFailure(); err != nil {
		return nil, err
	}

	task, ok := r.byID[id]
	if !ok {
		return nil, fmt.Errorf("task %s: %w", id, tasks.ErrTaskNotFound)
	}
	clone := *task
	return &clone, nil
}

// ListByOwner returns copies of all tasks owned by ownerID
func (r *MockTaskRepository) ListByOwner(ctx context.Context, ownerID string) ([]*tasks.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.takeFailure(); err != nil {
		return nil, err
	}

	var found []*tasks.Task
	for _, task := range r.byID {
		if task.OwnerID == ownerID {
			clone := *task
			found = append(found, &clone)
		}
	}
	return found, nil
}

// Delete removes a task
func (r *MockTaskRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.takeFailure(); err != nil {
		return err
	}

	if _, ok := r.byID[id]; !ok {
		return fmt.Errorf("task %s: %w", id, tasks.ErrTaskNotFound)
	}
	delete(r.byID, id)
	return nil
}
