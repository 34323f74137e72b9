package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	apperrors "github.com/wkatir/todo-express-react-vite-ts-tailwind/internal/errors"
	"github.com/wkatir/todo-express-react-vite-ts-tailwind/internal/model"
	"github.com/wkatir/todo-express-react-vite-ts-tailwind/internal/service"
)

// CategoryHandler handles category endpoints.
type CategoryHandler struct {
	categoryService service.CategoryService
}

// NewCategoryHandler creates a new category handler.
func NewCategoryHandler(categoryService service.CategoryService) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService}
}

// CreateCategoryRequest represents a category creation request.
type CreateCategoryRequest struct {
	Name  string `json:"name" validate:"required"`
	Color string `json:"color"`
}

// UpdateCategoryRequest represents a partial category update.
type UpdateCategoryRequest struct {
	Name  *string `json:"name"`
	Color *string `json:"color"`
}

// categoryListItem mirrors the listing payload the frontend consumes:
// the category row plus a Prisma-style `_count.tasks` object.
type categoryListItem struct {
	model.Category
	Count struct {
		Tasks int64 `json:"tasks"`
	} `json:"_count"`
}

// CategoryResponse wraps a single category with a human readable message.
type CategoryResponse struct {
	Message  string          `json:"message"`
	Category *model.Category `json:"category"`
}

// List godoc
// @Summary List categories with task counts
// @Tags categories
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /categories [get]
func (h *CategoryHandler) List(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	categories, err := h.categoryService.List(c.Request().Context(), userID)
	if err != nil {
		return respondError(c, err)
	}

	items := make([]categoryListItem, 0, len(categories))
	for _, category := range categories {
		item := categoryListItem{Category: category.Category}
		item.Count.Tasks = category.TaskCount
		items = append(items, item)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"categories": items,
	})
}

// Create godoc
// @Summary Create a category
// @Tags categories
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateCategoryRequest true "Category data"
// @Success 201 {object} CategoryResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /categories [post]
func (h *CategoryHandler) Create(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	var req CreateCategoryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return respondValidation(c, err)
	}

	category, err := h.categoryService.Create(c.Request().Context(), userID, service.CreateCategoryInput{
		Name:  req.Name,
		Color: req.Color,
	})
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusCreated, CategoryResponse{
		Message:  "Category created successfully",
		Category: category,
	})
}

// Update godoc
// @Summary Partially update a category
// @Tags categories
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Category id"
// @Param request body UpdateCategoryRequest true "Fields to change"
// @Success 200 {object} CategoryResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /categories/{id} [put]
func (h *CategoryHandler) Update(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	categoryID, ok := parseIDParam(c)
	if !ok {
		return respondError(c, apperrors.ErrCategoryNotFound)
	}

	var req UpdateCategoryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Name != nil && *req.Name == "" {
		return c.JSON(http.StatusBadRequest, apperrors.ValidationErrorResponse{
			Errors: []apperrors.FieldError{{Field: "name", Message: "name cannot be empty"}},
		})
	}

	category, err := h.categoryService.Update(c.Request().Context(), userID, categoryID, service.UpdateCategoryInput{
		Name:  req.Name,
		Color: req.Color,
	})
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, CategoryResponse{
		Message:  "Category updated successfully",
		Category: category,
	})
}

// Delete godoc
// @Summary Delete a category
// @Tags categories
// @Produce json
// @Security BearerAuth
// @Param id path int true "Category id"
// @Success 200 {object} map[string]string
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /categories/{id} [delete]
func (h *CategoryHandler) Delete(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	categoryID, ok := parseIDParam(c)
	if !ok {
		return respondError(c, apperrors.ErrCategoryNotFound)
	}

	if err := h.categoryService.Delete(c.Request().Context(), userID, categoryID); err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "Category deleted successfully",
	})
}
