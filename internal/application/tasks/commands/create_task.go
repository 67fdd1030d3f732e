package commands

import (
	"context"
	"fmt"

	domain "github.com/andrescamacho/dispatch-go/internal/domain/tasks"
	"github.com/andrescamacho/dispatch-go/pkg/outcome"
)

// CreateTaskCommand creates a new open task for its owner.
type CreateTaskCommand struct {
	OwnerID string
	Title   string
	Notes   string
}

// CreateTaskResponse contains the id of the created task.
type CreateTaskResponse struct {
	TaskID string
}

// CreateTaskHandler persists a new task.
type CreateTaskHandler struct {
	taskRepo domain.TaskRepository
}

// NewCreateTaskHandler creates a new create task handler.
func NewCreateTaskHandler(taskRepo domain.TaskRepository) *CreateTaskHandler {
	return &CreateTaskHandler{taskRepo: taskRepo}
}

// Handle creates and saves the task.
func (h *CreateTaskHandler) Handle(ctx context.Context, cmd CreateTaskCommand) outcome.Outcome[CreateTaskResponse] {
	task, err := domain.NewTask(cmd.OwnerID, cmd.Title, cmd.Notes)
	if err != nil {
		return outcome.Failure[CreateTaskResponse](
			outcome.ValidationError("invalid task: %v", err))
	}

	if err := h.taskRepo.Save(ctx, task); err != nil {
		return outcome.Failure[CreateTaskResponse](
			outcome.UnexpectedError(fmt.Sprintf("saving task: %v", err)))
	}

	return outcome.Success(CreateTaskResponse{TaskID: task.ID})
}
