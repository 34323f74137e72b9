package service

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/wkatir/todo-express-react-vite-ts-tailwind/internal/cache"
	apperrors "github.com/wkatir/todo-express-react-vite-ts-tailwind/internal/errors"
	"github.com/wkatir/todo-express-react-vite-ts-tailwind/internal/model"
	"github.com/wkatir/todo-express-react-vite-ts-tailwind/internal/repository"
)

// CreateCategoryInput carries a new category. Color is optional.
type CreateCategoryInput struct {
	Name  string
	Color string
}

// UpdateCategoryInput is a partial update: nil fields are left untouched.
type UpdateCategoryInput struct {
	Name  *string
	Color *string
}

// CategoryService handles category CRUD with per-user name uniqueness.
type CategoryService interface {
	List(ctx context.Context, userID uint) ([]model.CategoryWithCount, error)
	Create(ctx context.Context, userID uint, in CreateCategoryInput) (*model.Category, error)
	Update(ctx context.Context, userID, id uint, in UpdateCategoryInput) (*model.Category, error)
	Delete(ctx context.Context, userID, id uint) error
}

type categoryService struct {
	categoryRepo repository.CategoryRepository
	cache        *cache.Client
}

// NewCategoryService creates a new category service.
func NewCategoryService(categoryRepo repository.CategoryRepository, cacheClient *cache.Client) CategoryService {
	return &categoryService{
		categoryRepo: categoryRepo,
		cache:        cacheClient,
	}
}

// List returns the user's categories ordered by name, each with its task count.
func (s *categoryService) List(ctx context.Context, userID uint) ([]model.CategoryWithCount, error) {
	categories, err := s.categoryRepo.ListWithCounts(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	if categories == nil {
		categories = []model.CategoryWithCount{}
	}
	return categories, nil
}

// Create stores a category, rejecting a name the user already has.
func (s *categoryService) Create(ctx context.Context, userID uint, in CreateCategoryInput) (*model.Category, error) {
	if err := s.checkNameFree(ctx, userID, in.Name, 0); err != nil {
		return nil, err
	}

	color := in.Color
	if color == "" {
		color = model.DefaultCategoryColor
	}

	category := &model.Category{
		Name:   in.Name,
		Color:  color,
		UserID: userID,
	}
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}

	s.invalidateStats(ctx, userID)
	return category, nil
}

// Update applies a partial merge; renaming onto an existing name is rejected.
func (s *categoryService) Update(ctx context.Context, userID, id uint, in UpdateCategoryInput) (*model.Category, error) {
	category, err := s.categoryRepo.FindByID(ctx, userID, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.ErrCategoryNotFound
		}
		return nil, fmt.Errorf("find category: %w", err)
	}

	if in.Name != nil && *in.Name != category.Name {
		if err := s.checkNameFree(ctx, userID, *in.Name, category.ID); err != nil {
			return nil, err
		}
		category.Name = *in.Name
	}
	if in.Color != nil {
		category.Color = *in.Color
	}

	if err := s.categoryRepo.Save(ctx, category); err != nil {
		return nil, fmt.Errorf("save category: %w", err)
	}

	s.invalidateStats(ctx, userID)
	return category, nil
}

// Delete removes a category; its join rows go with it, tasks stay.
func (s *categoryService) Delete(ctx context.Context, userID, id uint) error {
	if _, err := s.categoryRepo.FindByID(ctx, userID, id); err != nil {
		if err == gorm.ErrRecordNotFound {
			return apperrors.ErrCategoryNotFound
		}
		return fmt.Errorf("find category: %w", err)
	}
	if err := s.categoryRepo.Delete(ctx, userID, id); err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	s.invalidateStats(ctx, userID)
	return nil
}

// checkNameFree enforces per-user name uniqueness. excludeID skips the
// category being renamed so saving an unchanged name stays legal.
func (s *categoryService) checkNameFree(ctx context.Context, userID uint, name string, excludeID uint) error {
	existing, err := s.categoryRepo.FindByName(ctx, userID, name)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil
		}
		return fmt.Errorf("check category name: %w", err)
	}
	if existing.ID != excludeID {
		return apperrors.ErrDuplicateCategory
	}
	return nil
}

func (s *categoryService) invalidateStats(ctx context.Context, userID uint) {
	_ = s.cache.Delete(ctx, statsCacheKey(userID))
}
