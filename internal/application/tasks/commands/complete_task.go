package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	domain "github.com/andrescamacho/dispatch-go/internal/domain/tasks"
	"github.com/andrescamacho/dispatch-go/pkg/outcome"
)

// CompleteTaskCommand marks a task as completed. Authorization requires
// the caller to own the task or hold the tasks.admin permission; the
// ownership rule is an async repository lookup wired in the application
// policy set.
type CompleteTaskCommand struct {
	TaskID string
}

// CompleteTaskResponse reports when the task was completed.
type CompleteTaskResponse struct {
	TaskID      string
	CompletedAt time.Time
}

// CompleteTaskHandler loads, completes and saves the task, composing the
// fallible steps railway-style.
type CompleteTaskHandler struct {
	taskRepo domain.TaskRepository
	now      func() time.Time
}

// NewCompleteTaskHandler creates a new complete task handler.
func NewCompleteTaskHandler(taskRepo domain.TaskRepository) *CompleteTaskHandler {
	return &CompleteTaskHandler{taskRepo: taskRepo, now: time.Now}
}

// Handle completes the task identified by the command.
func (h *CompleteTaskHandler) Handle(ctx context.Context, cmd CompleteTaskCommand) outcome.Outcome[CompleteTaskResponse] {
	loaded := loadTask(ctx, h.taskRepo, cmd.TaskID)

	completed := outcome.Then(loaded, func(task *domain.Task) outcome.Outcome[*domain.Task] {
		if err := task.Complete(h.now()); err != nil {
			return outcome.Failure[*domain.Task](outcome.ConflictError("%v", err))
		}
		return outcome.Success(task)
	})

	return outcome.Then(completed, func(task *domain.Task) outcome.Outcome[CompleteTaskResponse] {
		if err := h.taskRepo.Save(ctx, task); err != nil {
			return outcome.Failure[CompleteTaskResponse](
				outcome.UnexpectedError(fmt.Sprintf("saving task: %v", err)))
		}
		return outcome.Success(CompleteTaskResponse{
			TaskID:      task.ID,
			CompletedAt: *task.CompletedAt,
		})
	})
}

// loadTask translates repository misses into a not_found outcome. Shared
// by the command handlers and the application policy rules.
func loadTask(ctx context.Context, repo domain.TaskRepository, id string) outcome.Outcome[*domain.Task] {
	task, err := repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrTaskNotFound) {
			return outcome.Failure[*domain.Task](
				outcome.NotFoundError("task %s not found", id))
		}
		return outcome.Failure[*domain.Task](
			outcome.UnexpectedError(fmt.Sprintf("loading task: %v", err)))
	}
	return outcome.Success(task)
}
