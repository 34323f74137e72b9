package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"gorm.io/gorm"

	"github.com/wkatir/todo-express-react-vite-ts-tailwind/internal/cache"
	apperrors "github.com/wkatir/todo-express-react-vite-ts-tailwind/internal/errors"
	"github.com/wkatir/todo-express-react-vite-ts-tailwind/internal/model"
	"github.com/wkatir/todo-express-react-vite-ts-tailwind/internal/repository"
)

const (
	defaultPage  = 1
	defaultLimit = 10
)

// ListTasksInput carries the raw query parameters of a task listing.
// Everything is a string on purpose: invalid page/limit/categoryId values
// are coerced to safe defaults instead of failing the request.
type ListTasksInput struct {
	Status     string
	Search     string
	CategoryID string
	Overdue    string
	SortBy     string
	Order      string
	Page       string
	Limit      string
}

// CreateTaskInput carries a new task. DueDate is an optional ISO-8601 string.
type CreateTaskInput struct {
	Title       string
	Description string
	DueDate     string
	CategoryIDs []uint
}

// UpdateTaskInput is a partial update: nil fields are left untouched.
// DueDate distinguishes omitted (nil) from cleared (pointer to "").
// CategoryIDs nil keeps associations; a pointer to an empty slice clears them.
type UpdateTaskInput struct {
	Title       *string
	Description *string
	Completed   *bool
	DueDate     *string
	CategoryIDs *[]uint
}

// Pagination describes one page of a task listing.
type Pagination struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int64 `json:"totalPages"`
}

// TaskService handles task CRUD and the filtered listing.
type TaskService interface {
	List(ctx context.Context, userID uint, in ListTasksInput) ([]model.Task, Pagination, error)
	Create(ctx context.Context, userID uint, in CreateTaskInput) (*model.Task, error)
	Update(ctx context.Context, userID, id uint, in UpdateTaskInput) (*model.Task, error)
	Delete(ctx context.Context, userID, id uint) error
}

type taskService struct {
	taskRepo     repository.TaskRepository
	categoryRepo repository.CategoryRepository
	cache        *cache.Client
}

// NewTaskService creates a new task service.
func NewTaskService(taskRepo repository.TaskRepository, categoryRepo repository.CategoryRepository, cacheClient *cache.Client) TaskService {
	return &taskService{
		taskRepo:     taskRepo,
		categoryRepo: categoryRepo,
		cache:        cacheClient,
	}
}

// List returns a filtered, sorted page of tasks plus pagination metadata.
func (s *taskService) List(ctx context.Context, userID uint, in ListTasksInput) ([]model.Task, Pagination, error) {
	filter := normalizeFilter(in, time.Now())

	tasks, total, err := s.taskRepo.List(ctx, userID, filter)
	if err != nil {
		return nil, Pagination{}, fmt.Errorf("list tasks: %w", err)
	}
	if tasks == nil {
		tasks = []model.Task{}
	}

	return tasks, Pagination{
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages(total, filter.Limit),
	}, nil
}

// Create stores a task and its category links, then reloads it so the
// response carries the linked categories.
func (s *taskService) Create(ctx context.Context, userID uint, in CreateTaskInput) (*model.Task, error) {
	dueDate, err := parseDueDate(in.DueDate)
	if err != nil {
		return nil, err
	}
	categoryIDs := dedupeIDs(in.CategoryIDs)
	if err := s.checkCategoriesOwned(ctx, userID, categoryIDs); err != nil {
		return nil, err
	}

	task := &model.Task{
		Title:       in.Title,
		Description: in.Description,
		DueDate:     dueDate,
		UserID:      userID,
	}
	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}

	if len(categoryIDs) > 0 {
		if err := s.taskRepo.ReplaceCategories(ctx, task.ID, categoryIDs); err != nil {
			return nil, fmt.Errorf("link categories: %w", err)
		}
	}

	s.invalidateStats(ctx, userID)
	return s.taskRepo.FindByID(ctx, userID, task.ID)
}

// Update applies a field-by-field merge: only supplied fields change.
func (s *taskService) Update(ctx context.Context, userID, id uint, in UpdateTaskInput) (*model.Task, error) {
	task, err := s.taskRepo.FindByID(ctx, userID, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.ErrTaskNotFound
		}
		return nil, fmt.Errorf("find task: %w", err)
	}

	var categoryIDs []uint
	if in.CategoryIDs != nil {
		categoryIDs = dedupeIDs(*in.CategoryIDs)
		if err := s.checkCategoriesOwned(ctx, userID, categoryIDs); err != nil {
			return nil, err
		}
	}

	if in.Title != nil {
		task.Title = *in.Title
	}
	if in.Description != nil {
		task.Description = *in.Description
	}
	if in.Completed != nil {
		task.Completed = *in.Completed
	}
	if in.DueDate != nil {
		dueDate, err := parseDueDate(*in.DueDate)
		if err != nil {
			return nil, err
		}
		task.DueDate = dueDate
	}

	if err := s.taskRepo.Save(ctx, task); err != nil {
		return nil, fmt.Errorf("save task: %w", err)
	}

	if in.CategoryIDs != nil {
		if err := s.taskRepo.ReplaceCategories(ctx, task.ID, categoryIDs); err != nil {
			return nil, fmt.Errorf("replace categories: %w", err)
		}
	}

	s.invalidateStats(ctx, userID)
	return s.taskRepo.FindByID(ctx, userID, task.ID)
}

// Delete removes a task and its join rows. Not-owned ids look like 404.
func (s *taskService) Delete(ctx context.Context, userID, id uint) error {
	if _, err := s.taskRepo.FindByID(ctx, userID, id); err != nil {
		if err == gorm.ErrRecordNotFound {
			return apperrors.ErrTaskNotFound
		}
		return fmt.Errorf("find task: %w", err)
	}
	if err := s.taskRepo.Delete(ctx, userID, id); err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	s.invalidateStats(ctx, userID)
	return nil
}

func (s *taskService) checkCategoriesOwned(ctx context.Context, userID uint, categoryIDs []uint) error {
	if len(categoryIDs) == 0 {
		return nil
	}
	owned, err := s.categoryRepo.CountOwned(ctx, userID, categoryIDs)
	if err != nil {
		return fmt.Errorf("check category ownership: %w", err)
	}
	if owned != int64(len(categoryIDs)) {
		return apperrors.ErrCategoryNotFound
	}
	return nil
}

func (s *taskService) invalidateStats(ctx context.Context, userID uint) {
	_ = s.cache.Delete(ctx, statsCacheKey(userID))
}

// normalizeFilter coerces raw query parameters into a safe filter.
// Bad page/limit fall back to 1/10, unknown sort keys to createdAt desc,
// and a malformed categoryId is ignored as if absent.
func normalizeFilter(in ListTasksInput, now time.Time) repository.TaskFilter {
	filter := repository.TaskFilter{
		Search: in.Search,
		SortBy: repository.SortCreatedAt,
		Order:  "desc",
		Page:   defaultPage,
		Limit:  defaultLimit,
		Now:    now,
	}

	// overdue=true always implies pending, overriding whatever status
	// said (last writer wins), so the status filter is dropped here.
	filter.Overdue = in.Overdue == "true"

	if !filter.Overdue {
		switch in.Status {
		case repository.StatusCompleted, repository.StatusPending:
			filter.Status = in.Status
		}
	}

	switch in.SortBy {
	case repository.SortCreatedAt, repository.SortTitle, repository.SortDueDate:
		filter.SortBy = in.SortBy
	}
	if in.Order == "asc" {
		filter.Order = "asc"
	}

	if page, err := strconv.Atoi(in.Page); err == nil && page > 0 {
		filter.Page = page
	}
	if limit, err := strconv.Atoi(in.Limit); err == nil && limit > 0 {
		filter.Limit = limit
	}
	if categoryID, err := strconv.Atoi(in.CategoryID); err == nil && categoryID > 0 {
		filter.CategoryID = uint(categoryID)
	}

	return filter
}

// dedupeIDs drops repeated ids while keeping first-seen order: a payload
// like [1,1] must neither fail the ownership count nor collide with the
// join table's composite key.
func dedupeIDs(ids []uint) []uint {
	if len(ids) < 2 {
		return ids
	}
	seen := make(map[uint]struct{}, len(ids))
	deduped := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		deduped = append(deduped, id)
	}
	return deduped
}

func totalPages(total int64, limit int) int64 {
	if total == 0 {
		return 0
	}
	return (total + int64(limit) - 1) / int64(limit)
}

// parseDueDate accepts RFC 3339 timestamps or bare YYYY-MM-DD dates.
// The empty string means "no due date".
func parseDueDate(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}
	if t, err := time.ParseInLocation("2006-01-02", raw, time.Local); err == nil {
		return &t, nil
	}
	return nil, apperrors.ErrInvalidDueDate
}
