package model

import "time"

// DefaultCategoryColor is applied when a category is created without a color.
const DefaultCategoryColor = "#3b82f6"

// Category is a named, colored label owned by a single user.
// (name, user_id) is unique per user; the check lives in the service layer
// so the collision maps to a domain error instead of a driver error.
type Category struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"size:100;not null;uniqueIndex:idx_categories_user_name"`
	Color     string    `json:"color" gorm:"size:20;not null;default:'#3b82f6'"`
	UserID    uint      `json:"userId" gorm:"not null;uniqueIndex:idx_categories_user_name"`
	CreatedAt time.Time `json:"createdAt"`
}

// CategoryWithCount is a Category row augmented with the number of tasks
// linked to it. Scanned from the grouped LEFT JOIN listing query.
type CategoryWithCount struct {
	Category
	TaskCount int64 `json:"-" gorm:"column:task_count"`
}
