package queries

import (
	"context"
	"errors"
	"fmt"
	"time"

	domain "github.com/andrescamacho/dispatch-go/internal/domain/tasks"
	"github.com/andrescamacho/dispatch-go/pkg/outcome"
)

// GetTaskQuery fetches a single task by id.
type GetTaskQuery struct {
	TaskID string
}

// TaskView is the read model returned by task queries.
type TaskView struct {
	ID          string
	OwnerID     string
	Title       string
	Notes       string
	Status      string
	CreatedAt   time.Time
	CompletedAt *time.Time
}

// GetTaskHandler resolves a task into its read model.
type GetTaskHandler struct {
	taskRepo domain.TaskRepository
}

// NewGetTaskHandler creates a new get task handler.
func NewGetTaskHandler(taskRepo domain.TaskRepository) *GetTaskHandler {
	return &GetTaskHandler{taskRepo: taskRepo}
}

// Handle looks up the task.
func (h *GetTaskHandler) Handle(ctx context.Context, query GetTaskQuery) outcome.Outcome[TaskView] {
	task, err := h.taskRepo.FindByID(ctx, query.TaskID)
	if err != nil {
		if errors.Is(err, domain.ErrTaskNotFound) {
			return outcome.Failure[TaskView](
				outcome.NotFoundError("task %s not found", query.TaskID))
		}
		return outcome.Failure[TaskView](
			outcome.UnexpectedError(fmt.Sprintf("loading task: %v", err)))
	}

	return outcome.Success(toView(task))
}

func toView(task *domain.Task) TaskView {
	return TaskView{
		ID:          task.ID,
		OwnerID:     task.OwnerID,
		Title:       task.Title,
		Notes:       task.Notes,
		Status:      string(task.Status),
		CreatedAt:   task.CreatedAt,
		CompletedAt: task.CompletedAt,
	}
}
