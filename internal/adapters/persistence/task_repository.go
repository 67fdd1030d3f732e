package persistence

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/andrescamacho/dispatch-go/internal/domain/tasks"
)

// GormTaskRepository implements tasks.TaskRepository using GORM
type GormTaskRepository struct {
	db *gorm.DB
}

// NewGormTaskRepository creates a new GORM task repository
func NewGormTaskRepository(db *gorm.DB) *GormTaskRepository {
	return &GormTaskRepository{db: db}
}

// Save persists a task (create or update)
func (r *GormTaskRepository) Save(ctx context.Context, task *tasks.Task) error {
	model := taskToModel(task)

	result := r.db.WithContext(ctx).Save(model)
	if result.Error != nil {
		return fmt.Errorf("failed to save task: %w", result.Error)
	}
	return nil
}

// FindByID retrieves a task by ID
func (r *GormTaskRepository) FindByID(ctx context.Context, id string) (*tasks.Task, error) {
	var model TaskModel
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&model)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("task %s: %w", id, tasks.ErrTaskNotFound)
		}
		return nil, fmt.Errorf("failed to find task: %w", result.Error)
	}

	return modelToTask(&model), nil
}

// ListByOwner retrieves all tasks of one owner, newest first
func (r *GormTaskRepository) ListByOwner(ctx context.Context, ownerID string) ([]*tasks.Task, error) {
	var models []TaskModel
	result := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&models)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", result.Error)
	}

	found := make([]*tasks.Task, len(models))
	for i := range models {
		found[i] = modelToTask(&models[i])
	}
	return found, nil
}

// Delete removes a task by ID
func (r *GormTaskRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&TaskModel{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete task: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("task %s: %w", id, tasks.ErrTaskNotFound)
	}
	return nil
}

// taskToModel converts domain task to database model
func taskToModel(task *tasks.Task) *TaskModel {
	return &TaskModel{
		ID:          task.ID,
		OwnerID:     task.OwnerID,
		Title:       task.Title,
		Notes:       task.Notes,
		Status:      string(task.Status),
		CreatedAt:   task.CreatedAt,
		CompletedAt: task.CompletedAt,
	}
}

// modelToTask converts database model to domain task
func modelToTask(model *TaskModel) *tasks.Task {
	return &tasks.Task{
		ID:          model.ID,
		OwnerID:     model.OwnerID,
		Title:       model.Title,
		Notes:       model.Notes,
		Status:      tasks.Status(model.Status),
		CreatedAt:   model.CreatedAt,
		CompletedAt: model.CompletedAt,
	}
}
