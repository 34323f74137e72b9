package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/wkatir/todo-express-react-vite-ts-tailwind/internal/model"
)

// Task filter status values.
const (
	StatusCompleted = "completed"
	StatusPending   = "pending"
)

// Sort keys accepted by TaskFilter. Anything else falls back to SortCreatedAt.
const (
	SortCreatedAt = "createdAt"
	SortTitle     = "title"
	SortDueDate   = "dueDate"
)

// TaskFilter is the normalized set of predicates for a task listing.
// Page and Limit are expected to be positive; normalization happens in the
// service layer before the filter reaches the repository.
type TaskFilter struct {
	Status     string // StatusCompleted, StatusPending or "" for all
	Search     string
	CategoryID uint // 0 means no category restriction
	Overdue    bool
	SortBy     string
	Order      string // "asc" or "desc"
	Page       int
	Limit      int
	Now        time.Time // reference time for the overdue predicate
}

// sortColumns whitelists sortable columns; never interpolate raw input into ORDER BY.
var sortColumns = map[string]string{
	SortCreatedAt: "created_at",
	SortTitle:     "title",
	SortDueDate:   "due_date",
}

// TaskRepository defines task persistence operations, all scoped by user id.
type TaskRepository interface {
	Create(ctx context.Context, task *model.Task) error
	Save(ctx context.Context, task *model.Task) error
	FindByID(ctx context.Context, userID, id uint) (*model.Task, error)
	Delete(ctx context.Context, userID, id uint) error
	List(ctx context.Context, userID uint, filter TaskFilter) ([]model.Task, int64, error)
	ReplaceCategories(ctx context.Context, taskID uint, categoryIDs []uint) error
	CountByUser(ctx context.Context, userID uint) (int64, error)
	CountCompleted(ctx context.Context, userID uint) (int64, error)
	CountOverdue(ctx context.Context, userID uint, now time.Time) (int64, error)
	CountCreatedPerDay(ctx context.Context, userID uint, from time.Time) (map[string]int64, error)
}

type taskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new task repository.
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &taskRepository{db: db}
}

func (r *taskRepository) Create(ctx context.Context, task *model.Task) error {
	return r.db.WithContext(ctx).Omit("Categories").Create(task).Error
}

func (r *taskRepository) Save(ctx context.Context, task *model.Task) error {
	return r.db.WithContext(ctx).Omit("Categories").Save(task).Error
}

func (r *taskRepository) FindByID(ctx context.Context, userID, id uint) (*model.Task, error) {
	var task model.Task
	err := r.db.WithContext(ctx).
		Preload("Categories.Category").
		Where("id = ? AND user_id = ?", id, userID).
		First(&task).Error
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// Delete removes a task and its join rows in one transaction.
func (r *taskRepository) Delete(ctx context.Context, userID, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("task_id = ?", id).Delete(&model.TaskCategory{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ? AND user_id = ?", id, userID).Delete(&model.Task{}).Error
	})
}

// List returns one page of tasks plus the total count for the same filter.
// Both queries come from a single predicate builder so they cannot drift,
// and they run concurrently since both are read-only.
func (r *taskRepository) List(ctx context.Context, userID uint, filter TaskFilter) ([]model.Task, int64, error) {
	base := func() *gorm.DB {
		q := r.db.WithContext(ctx).Model(&model.Task{}).
			Where("tasks.user_id = ?", userID)

		// Overdue wins over status: it always implies pending, so the
		// status predicate is dropped entirely when overdue is set.
		if !filter.Overdue {
			switch filter.Status {
			case StatusCompleted:
				q = q.Where("tasks.completed = ?", true)
			case StatusPending:
				q = q.Where("tasks.completed = ?", false)
			}
		}

		if filter.Search != "" {
			pattern := "%" + escapeLike(filter.Search) + "%"
			q = q.Where("tasks.title LIKE ? OR tasks.description LIKE ?", pattern, pattern)
		}

		if filter.CategoryID != 0 {
			q = q.Joins("JOIN task_categories ON task_categories.task_id = tasks.id").
				Where("task_categories.category_id = ?", filter.CategoryID)
		}

		if filter.Overdue {
			q = q.Where("tasks.due_date IS NOT NULL AND tasks.due_date < ?", filter.Now).
				Where("tasks.completed = ?", false)
		}

		return q
	}

	var (
		tasks []model.Task
		total int64
	)

	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		return base().Count(&total).Error
	})
	g.Go(func() error {
		offset := (filter.Page - 1) * filter.Limit
		return base().
			Order(orderClause(filter)).
			Limit(filter.Limit).
			Offset(offset).
			Preload("Categories.Category").
			Find(&tasks).Error
	})
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}

	return tasks, total, nil
}

// escapeLike neutralizes LIKE metacharacters so user input matches
// literally: a search for "50%" must not act as a wildcard.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// orderClause builds the ORDER BY from whitelisted columns, with id as a
// tie-break so pages stay stable when sort keys collide.
func orderClause(filter TaskFilter) string {
	column, ok := sortColumns[filter.SortBy]
	if !ok {
		column = "created_at"
	}
	direction := "DESC"
	if filter.Order == "asc" {
		direction = "ASC"
	}
	return fmt.Sprintf("tasks.%s %s, tasks.id %s", column, direction, direction)
}

// ReplaceCategories rewrites all join rows for a task: delete everything,
// then insert the new set. Deliberately two sequential writes without a
// wrapping transaction; a concurrent reader may briefly see zero categories.
func (r *taskRepository) ReplaceCategories(ctx context.Context, taskID uint, categoryIDs []uint) error {
	if err := r.db.WithContext(ctx).Where("task_id = ?", taskID).Delete(&model.TaskCategory{}).Error; err != nil {
		return err
	}
	if len(categoryIDs) == 0 {
		return nil
	}
	joins := make([]model.TaskCategory, 0, len(categoryIDs))
	for _, categoryID := range categoryIDs {
		joins = append(joins, model.TaskCategory{TaskID: taskID, CategoryID: categoryID})
	}
	return r.db.WithContext(ctx).Create(&joins).Error
}

func (r *taskRepository) CountByUser(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Task{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count, err
}

func (r *taskRepository) CountCompleted(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Task{}).
		Where("user_id = ? AND completed = ?", userID, true).
		Count(&count).Error
	return count, err
}

func (r *taskRepository) CountOverdue(ctx context.Context, userID uint, now time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Task{}).
		Where("user_id = ? AND completed = ? AND due_date IS NOT NULL AND due_date < ?", userID, false, now).
		Count(&count).Error
	return count, err
}

// CountCreatedPerDay groups task creation counts by calendar day (server
// timezone, matching the loc of the MySQL connection) from the given instant.
// Keys are formatted as YYYY-MM-DD.
func (r *taskRepository) CountCreatedPerDay(ctx context.Context, userID uint, from time.Time) (map[string]int64, error) {
	var rows []struct {
		Day   string
		Total int64
	}
	err := r.db.WithContext(ctx).Model(&model.Task{}).
		Select("DATE_FORMAT(created_at, '%Y-%m-%d') AS day, COUNT(*) AS total").
		Where("user_id = ? AND created_at >= ?", userID, from).
		Group("day").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	perDay := make(map[string]int64, len(rows))
	for _, row := range rows {
		perDay[row.Day] = row.Total
	}
	return perDay, nil
}
