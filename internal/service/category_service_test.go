package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	apperrors "github.com/wkatir/todo-express-react-vite-ts-tailwind/internal/errors"
	"github.com/wkatir/todo-express-react-vite-ts-tailwind/internal/model"
)

func TestCategoryService_Create(t *testing.T) {
	t.Run("new name gets the default color", func(t *testing.T) {
		mockCategories := new(MockCategoryRepository)
		mockCategories.On("FindByName", mock.Anything, uint(7), "Work").Return(nil, gorm.ErrRecordNotFound)
		mockCategories.On("Create", mock.Anything, mock.MatchedBy(func(category *model.Category) bool {
			return category.Name == "Work" && category.Color == model.DefaultCategoryColor && category.UserID == 7
		})).Return(nil)

		svc := NewCategoryService(mockCategories, nil)
		category, err := svc.Create(context.Background(), 7, CreateCategoryInput{Name: "Work"})

		assert.NoError(t, err)
		assert.Equal(t, model.DefaultCategoryColor, category.Color)
		mockCategories.AssertExpectations(t)
	})

	t.Run("duplicate name for the same user fails", func(t *testing.T) {
		mockCategories := new(MockCategoryRepository)
		mockCategories.On("FindByName", mock.Anything, uint(7), "Work").Return(&model.Category{ID: 3, Name: "Work", UserID: 7}, nil)

		svc := NewCategoryService(mockCategories, nil)
		_, err := svc.Create(context.Background(), 7, CreateCategoryInput{Name: "Work"})

		assert.Equal(t, apperrors.ErrDuplicateCategory, err)
		mockCategories.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("same name is fine for another user", func(t *testing.T) {
		mockCategories := new(MockCategoryRepository)
		mockCategories.On("FindByName", mock.Anything, uint(8), "Work").Return(nil, gorm.ErrRecordNotFound)
		mockCategories.On("Create", mock.Anything, mock.Anything).Return(nil)

		svc := NewCategoryService(mockCategories, nil)
		_, err := svc.Create(context.Background(), 8, CreateCategoryInput{Name: "Work", Color: "#112233"})

		assert.NoError(t, err)
		mockCategories.AssertExpectations(t)
	})
}

func TestCategoryService_Update(t *testing.T) {
	strPtr := func(s string) *string { return &s }

	t.Run("rename onto an existing name fails", func(t *testing.T) {
		mockCategories := new(MockCategoryRepository)
		mockCategories.On("FindByID", mock.Anything, uint(7), uint(1)).Return(&model.Category{ID: 1, Name: "Home", UserID: 7}, nil)
		mockCategories.On("FindByName", mock.Anything, uint(7), "Work").Return(&model.Category{ID: 2, Name: "Work", UserID: 7}, nil)

		svc := NewCategoryService(mockCategories, nil)
		_, err := svc.Update(context.Background(), 7, 1, UpdateCategoryInput{Name: strPtr("Work")})

		assert.Equal(t, apperrors.ErrDuplicateCategory, err)
		mockCategories.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("color-only update keeps the name", func(t *testing.T) {
		mockCategories := new(MockCategoryRepository)
		mockCategories.On("FindByID", mock.Anything, uint(7), uint(1)).Return(&model.Category{ID: 1, Name: "Home", Color: "#000000", UserID: 7}, nil)
		mockCategories.On("Save", mock.Anything, mock.MatchedBy(func(category *model.Category) bool {
			return category.Name == "Home" && category.Color == "#ffffff"
		})).Return(nil)

		svc := NewCategoryService(mockCategories, nil)
		category, err := svc.Update(context.Background(), 7, 1, UpdateCategoryInput{Color: strPtr("#ffffff")})

		assert.NoError(t, err)
		assert.Equal(t, "Home", category.Name)
		mockCategories.AssertNotCalled(t, "FindByName", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("not owned looks missing", func(t *testing.T) {
		mockCategories := new(MockCategoryRepository)
		mockCategories.On("FindByID", mock.Anything, uint(8), uint(1)).Return(nil, gorm.ErrRecordNotFound)

		svc := NewCategoryService(mockCategories, nil)
		_, err := svc.Update(context.Background(), 8, 1, UpdateCategoryInput{Name: strPtr("Stolen")})

		assert.Equal(t, apperrors.ErrCategoryNotFound, err)
	})
}

func TestCategoryService_Delete(t *testing.T) {
	t.Run("existing category", func(t *testing.T) {
		mockCategories := new(MockCategoryRepository)
		mockCategories.On("FindByID", mock.Anything, uint(7), uint(1)).Return(&model.Category{ID: 1, UserID: 7}, nil)
		mockCategories.On("Delete", mock.Anything, uint(7), uint(1)).Return(nil)

		svc := NewCategoryService(mockCategories, nil)
		assert.NoError(t, svc.Delete(context.Background(), 7, 1))
		mockCategories.AssertExpectations(t)
	})

	t.Run("missing category", func(t *testing.T) {
		mockCategories := new(MockCategoryRepository)
		mockCategories.On("FindByID", mock.Anything, uint(7), uint(9)).Return(nil, gorm.ErrRecordNotFound)

		svc := NewCategoryService(mockCategories, nil)
		assert.Equal(t, apperrors.ErrCategoryNotFound, svc.Delete(context.Background(), 7, 9))
		mockCategories.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything, mock.Anything)
	})
}
