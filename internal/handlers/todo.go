package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/betodolist/betodolist-api/internal/database"
	apierrors "github.com/betodolist/betodolist-api/internal/errors"
	"github.com/betodolist/betodolist-api/internal/middleware"
	"github.com/betodolist/betodolist-api/internal/models"
)

// TodoHandler coordinates the flat per-user todo HTTP handlers. Todos are
// private to their owner; another user's todo id behaves as if it did not
// exist.
type TodoHandler struct{}

// NewTodoHandler creates a new TodoHandler.
func NewTodoHandler() *TodoHandler {
	return &TodoHandler{}
}

// ListTodos returns the caller's todos, newest first.
func (h *TodoHandler) ListTodos(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	var todos []models.Todo
	err := database.GetDB().
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&todos).Error
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch todos")
		return
	}

	c.JSON(http.StatusOK, todos)
}

// CreateTodo creates a todo for the caller.
func (h *TodoHandler) CreateTodo(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	type CreateTodoRequest struct {
		Title       string     `json:"title" binding:"required"`
		Description *string    `json:"description"`
		DueDate     *time.Time `json:"due_date"`
	}

	var req CreateTodoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "title is required")
		return
	}

	todo := models.Todo{
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
	}
	if err := database.GetDB().Create(&todo).Error; err != nil {
		apierrors.InternalError(c, "Failed to create todo")
		return
	}

	c.JSON(http.StatusCreated, todo)
}

// UpdateTodo patches a todo owned by the caller.
func (h *TodoHandler) UpdateTodo(c *gin.Context) {
	todo, ok := h.loadOwnedTodo(c)
	if !ok {
		return
	}

	type UpdateTodoRequest struct {
		Title       *string    `json:"title"`
		Description *string    `json:"description"`
		DueDate     *time.Time `json:"due_date"`
		Completed   *bool      `json:"completed"`
	}

	var req UpdateTodoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "")
		return
	}

	if req.Title != nil {
		todo.Title = *req.Title
	}
	if req.Description != nil {
		todo.Description = req.Description
	}
	if req.DueDate != nil {
		todo.DueDate = req.DueDate
	}
	if req.Completed != nil {
		todo.Completed = *req.Completed
	}
	if err := database.GetDB().Save(todo).Error; err != nil {
		apierrors.InternalError(c, "Failed to update todo")
		return
	}

	c.JSON(http.StatusOK, todo)
}

// DeleteTodo removes a todo owned by the caller.
func (h *TodoHandler) DeleteTodo(c *gin.Context) {
	todo, ok := h.loadOwnedTodo(c)
	if !ok {
		return
	}

	if err := database.GetDB().Delete(todo).Error; err != nil {
		apierrors.InternalError(c, "Failed to delete todo")
		return
	}

	c.Status(http.StatusNoContent)
}

// loadOwnedTodo fetches the todo scoped to the caller; a foreign todo id is
// indistinguishable from a missing one.
func (h *TodoHandler) loadOwnedTodo(c *gin.Context) (*models.Todo, bool) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return nil, false
	}
	todoID, ok := paramID(c, "todoId")
	if !ok {
		return nil, false
	}

	var todo models.Todo
	err := database.GetDB().
		Where("id = ? AND user_id = ?", todoID, userID).
		First(&todo).Error
	if err != nil {
		apierrors.NotFound(c, "Todo not found")
		return nil, false
	}
	return &todo, true
}
