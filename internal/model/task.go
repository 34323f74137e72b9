package model

import "time"

// Task is a user-owned todo item, optionally linked to categories through
// the TaskCategory join table.
type Task struct {
	ID          uint       `json:"id" gorm:"primaryKey"`
	Title       string     `json:"title" gorm:"size:255;not null"`
	Description string     `json:"description" gorm:"type:text"`
	Completed   bool       `json:"completed" gorm:"default:false;index"`
	DueDate     *time.Time `json:"dueDate" gorm:"index"`
	UserID      uint       `json:"userId" gorm:"not null;index"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`

	Categories []TaskCategory `json:"categories" gorm:"foreignKey:TaskID"`
}

// TaskCategory links one task to one category. Rows are removed whenever
// either parent is deleted; category replacement on task update rewrites
// all rows for the task.
type TaskCategory struct {
	TaskID     uint     `json:"taskId" gorm:"primaryKey;autoIncrement:false"`
	CategoryID uint     `json:"categoryId" gorm:"primaryKey;autoIncrement:false"`
	Category   Category `json:"category" gorm:"foreignKey:CategoryID"`
}
