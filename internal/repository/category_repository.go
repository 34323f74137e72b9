package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/wkatir/todo-express-react-vite-ts-tailwind/internal/model"
)

// CategoryRepository defines category persistence operations. Every lookup
// is scoped by user id; an id owned by another user behaves like a missing row.
type CategoryRepository interface {
	Create(ctx context.Context, category *model.Category) error
	Save(ctx context.Context, category *model.Category) error
	FindByID(ctx context.Context, userID, id uint) (*model.Category, error)
	FindByName(ctx context.Context, userID uint, name string) (*model.Category, error)
	ListWithCounts(ctx context.Context, userID uint) ([]model.CategoryWithCount, error)
	Delete(ctx context.Context, userID, id uint) error
	CountOwned(ctx context.Context, userID uint, ids []uint) (int64, error)
}

type categoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository creates a new category repository.
func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) Create(ctx context.Context, category *model.Category) error {
	return r.db.WithContext(ctx).Create(category).Error
}

func (r *categoryRepository) Save(ctx context.Context, category *model.Category) error {
	return r.db.WithContext(ctx).Save(category).Error
}

func (r *categoryRepository) FindByID(ctx context.Context, userID, id uint) (*model.Category, error) {
	var category model.Category
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&category).Error
	if err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepository) FindByName(ctx context.Context, userID uint, name string) (*model.Category, error) {
	var category model.Category
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND name = ?", userID, name).
		First(&category).Error
	if err != nil {
		return nil, err
	}
	return &category, nil
}

// ListWithCounts returns all categories of a user ordered by name, each with
// its task count. The LEFT JOIN keeps zero-task categories in the result.
func (r *categoryRepository) ListWithCounts(ctx context.Context, userID uint) ([]model.CategoryWithCount, error) {
	var categories []model.CategoryWithCount
	err := r.db.WithContext(ctx).Model(&model.Category{}).
		Select("categories.*, COUNT(task_categories.task_id) AS task_count").
		Joins("LEFT JOIN task_categories ON task_categories.category_id = categories.id").
		Where("categories.user_id = ?", userID).
		Group("categories.id").
		Order("categories.name ASC").
		Scan(&categories).Error
	if err != nil {
		return nil, err
	}
	return categories, nil
}

// Delete removes a category and its join rows in one transaction, so tasks
// lose the label but are never deleted themselves.
func (r *categoryRepository) Delete(ctx context.Context, userID, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("category_id = ?", id).Delete(&model.TaskCategory{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ? AND user_id = ?", id, userID).Delete(&model.Category{}).Error
	})
}

// CountOwned reports how many of the given ids belong to the user. Used to
// reject task links to another user's categories before writing join rows.
func (r *categoryRepository) CountOwned(ctx context.Context, userID uint, ids []uint) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Category{}).
		Where("user_id = ? AND id IN ?", userID, ids).
		Count(&count).Error
	return count, err
}
