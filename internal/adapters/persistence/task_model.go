package persistence

import "time"

// TaskModel is the database representation of a task
type TaskModel struct {
	ID          string `gorm:"primaryKey"`
	OwnerID     string `gorm:"index;not null"`
	Title       string `gorm:"not null"`
	Notes       string
	Status      string `gorm:"not null"`
	CreatedAt   time.Time
	CompletedAt *time.Time
}

// TableName specifies the table name for GORM
func (TaskModel) TableName() string {
	return "tasks"
}
