package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm/clause"

	"github.com/betodolist/betodolist-api/internal/database"
	apierrors "github.com/betodolist/betodolist-api/internal/errors"
	"github.com/betodolist/betodolist-api/internal/middleware"
	"github.com/betodolist/betodolist-api/internal/models"
	"github.com/betodolist/betodolist-api/internal/ws"
)

// AssigneeHandler coordinates task assignee HTTP handlers. Assigning a user
// pushes a fire-and-forget notification to that user's live connections.
type AssigneeHandler struct {
	notifier ws.Notifier
}

// NewAssigneeHandler creates a new AssigneeHandler.
func NewAssigneeHandler(notifier ws.Notifier) *AssigneeHandler {
	return &AssigneeHandler{notifier: notifier}
}

// ListAssignees returns a task's assignees with user details.
func (h *AssigneeHandler) ListAssignees(c *gin.Context) {
	task, exists := middleware.GetTask(c)
	if !exists {
		apierrors.InternalError(c, "Task not found in context")
		return
	}

	var assignees []models.TaskAssignee
	err := database.GetDB().
		Where("task_id = ?", task.ID).
		Preload("User").
		Find(&assignees).Error
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch assignees")
		return
	}

	c.JSON(http.StatusOK, assignees)
}

// AddAssignee assigns a project member to the task. Re-assigning an existing
// pair is a no-op. The assigned user gets a task_assigned event; delivery is
// never awaited and never fails the request.
func (h *AssigneeHandler) AddAssignee(c *gin.Context) {
	task, exists := middleware.GetTask(c)
	if !exists {
		apierrors.InternalError(c, "Task not found in context")
		return
	}
	callerID, _ := middleware.GetUserID(c)

	type AddAssigneeRequest struct {
		UserID uint64 `json:"user_id" binding:"required"`
	}

	var req AddAssigneeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "user_id is required")
		return
	}

	var membership models.ProjectMember
	err := database.GetDB().
		Where("project_id = ? AND user_id = ?", task.ProjectID, req.UserID).
		First(&membership).Error
	if err != nil {
		apierrors.BadRequest(c, "User is not a member of this project")
		return
	}

	assignee := models.TaskAssignee{TaskID: task.ID, UserID: req.UserID}
	err = database.GetDB().
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&assignee).Error
	if err != nil {
		apierrors.InternalError(c, "Failed to assign user")
		return
	}

	if h.notifier != nil {
		go h.notifier.Notify(req.UserID, "task_assigned", map[string]interface{}{
			"task_id":     task.ID,
			"project_id":  task.ProjectID,
			"title":       task.Title,
			"assigned_by": callerID,
			"timestamp":   time.Now().UTC(),
		})
	}

	c.JSON(http.StatusCreated, assignee)
}

// RemoveAssignee unassigns a user from the task.
func (h *AssigneeHandler) RemoveAssignee(c *gin.Context) {
	task, exists := middleware.GetTask(c)
	if !exists {
		apierrors.InternalError(c, "Task not found in context")
		return
	}
	targetUserID, ok := paramID(c, "userId")
	if !ok {
		return
	}

	err := database.GetDB().
		Where("task_id = ? AND user_id = ?", task.ID, targetUserID).
		Delete(&models.TaskAssignee{}).Error
	if err != nil {
		apierrors.InternalError(c, "Failed to remove assignee")
		return
	}

	c.Status(http.StatusNoContent)
}
