package queries

import (
	"context"
	"fmt"

	domain "github.com/andrescamacho/dispatch-go/internal/domain/tasks"
	"github.com/andrescamacho/dispatch-go/pkg/outcome"
)

// ListTasksQuery lists all tasks of one owner.
type ListTasksQuery struct {
	OwnerID string
}

// ListTasksResponse carries the owner's tasks, newest first as returned
// by the repository.
type ListTasksResponse struct {
	Tasks []TaskView
}

// ListTasksHandler lists tasks by owner.
type ListTasksHandler struct {
	taskRepo domain.TaskRepository
}

// NewListTasksHandler creates a new list tasks handler.
func NewListTasksHandler(taskRepo domain.TaskRepository) *ListTasksHandler {
	return &ListTasksHandler{taskRepo: taskRepo}
}

// Handle lists the owner's tasks.
func (h *ListTasksHandler) Handle(ctx context.Context, query ListTasksQuery) outcome.Outcome[ListTasksResponse] {
	found, err := h.taskRepo.ListByOwner(ctx, query.OwnerID)
	if err != nil {
		return outcome.Failure[ListTasksResponse](
			outcome.UnexpectedError(fmt.Sprintf("listing tasks: %v", err)))
	}

	views := make([]TaskView, len(found))
	for i, task := range found {
		views[i] = toView(task)
	}
	return outcome.Success(ListTasksResponse{Tasks: views})
}
