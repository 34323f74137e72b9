package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	apperrors "github.com/wkatir/todo-express-react-vite-ts-tailwind/internal/errors"
	"github.com/wkatir/todo-express-react-vite-ts-tailwind/internal/model"
	"github.com/wkatir/todo-express-react-vite-ts-tailwind/internal/service"
)

// TaskHandler handles task endpoints, including the stats aggregate.
type TaskHandler struct {
	taskService  service.TaskService
	statsService service.StatsService
}

// NewTaskHandler creates a new task handler.
func NewTaskHandler(taskService service.TaskService, statsService service.StatsService) *TaskHandler {
	return &TaskHandler{
		taskService:  taskService,
		statsService: statsService,
	}
}

// CreateTaskRequest represents a task creation request.
type CreateTaskRequest struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
	DueDate     string `json:"dueDate"`
	CategoryIDs []uint `json:"categoryIds"`
}

// UpdateTaskRequest represents a partial task update. Omitted fields stay
// untouched; dueDate "" clears the due date; categoryIds [] clears the links.
type UpdateTaskRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Completed   *bool   `json:"completed"`
	DueDate     *string `json:"dueDate"`
	CategoryIDs *[]uint `json:"categoryIds"`
}

// TaskListResponse is the paginated task listing payload.
type TaskListResponse struct {
	Tasks      []model.Task       `json:"tasks"`
	Pagination service.Pagination `json:"pagination"`
}

// TaskResponse wraps a single task with a human readable message.
type TaskResponse struct {
	Message string      `json:"message"`
	Task    *model.Task `json:"task"`
}

// List godoc
// @Summary List tasks with filtering, sorting and pagination
// @Tags tasks
// @Produce json
// @Security BearerAuth
// @Param status query string false "completed, pending or all"
// @Param search query string false "substring match on title or description"
// @Param categoryId query int false "restrict to one category"
// @Param overdue query bool false "only incomplete tasks past their due date"
// @Param sortBy query string false "createdAt, title or dueDate"
// @Param order query string false "asc or desc"
// @Param page query int false "1-based page"
// @Param limit query int false "page size"
// @Success 200 {object} TaskListResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /tasks [get]
func (h *TaskHandler) List(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	tasks, pagination, err := h.taskService.List(c.Request().Context(), userID, service.ListTasksInput{
		Status:     c.QueryParam("status"),
		Search:     c.QueryParam("search"),
		CategoryID: c.QueryParam("categoryId"),
		Overdue:    c.QueryParam("overdue"),
		SortBy:     c.QueryParam("sortBy"),
		Order:      c.QueryParam("order"),
		Page:       c.QueryParam("page"),
		Limit:      c.QueryParam("limit"),
	})
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, TaskListResponse{
		Tasks:      tasks,
		Pagination: pagination,
	})
}

// Stats godoc
// @Summary Dashboard aggregates for the current user
// @Tags tasks
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.StatsSummary
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /tasks/stats [get]
func (h *TaskHandler) Stats(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	summary, err := h.statsService.Summary(c.Request().Context(), userID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, summary)
}

// Create godoc
// @Summary Create a task
// @Tags tasks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateTaskRequest true "Task data"
// @Success 201 {object} TaskResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /tasks [post]
func (h *TaskHandler) Create(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	var req CreateTaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return respondValidation(c, err)
	}

	task, err := h.taskService.Create(c.Request().Context(), userID, service.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
		CategoryIDs: req.CategoryIDs,
	})
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusCreated, TaskResponse{
		Message: "Task created successfully",
		Task:    task,
	})
}

// Update godoc
// @Summary Partially update a task
// @Tags tasks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Task id"
// @Param request body UpdateTaskRequest true "Fields to change"
// @Success 200 {object} TaskResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /tasks/{id} [put]
func (h *TaskHandler) Update(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	taskID, ok := parseIDParam(c)
	if !ok {
		return respondError(c, apperrors.ErrTaskNotFound)
	}

	var req UpdateTaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Title != nil && *req.Title == "" {
		return c.JSON(http.StatusBadRequest, apperrors.ValidationErrorResponse{
			Errors: []apperrors.FieldError{{Field: "title", Message: "title cannot be empty"}},
		})
	}

	task, err := h.taskService.Update(c.Request().Context(), userID, taskID, service.UpdateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Completed:   req.Completed,
		DueDate:     req.DueDate,
		CategoryIDs: req.CategoryIDs,
	})
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, TaskResponse{
		Message: "Task updated successfully",
		Task:    task,
	})
}

// Delete godoc
// @Summary Delete a task
// @Tags tasks
// @Produce json
// @Security BearerAuth
// @Param id path int true "Task id"
// @Success 200 {object} map[string]string
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /tasks/{id} [delete]
func (h *TaskHandler) Delete(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	taskID, ok := parseIDParam(c)
	if !ok {
		return respondError(c, apperrors.ErrTaskNotFound)
	}

	if err := h.taskService.Delete(c.Request().Context(), userID, taskID); err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "Task deleted successfully",
	})
}

// parseIDParam reads the :id path parameter. A non-numeric id behaves like
// a missing resource rather than a malformed request.
func parseIDParam(c echo.Context) (uint, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return 0, false
	}
	return uint(id), true
}
