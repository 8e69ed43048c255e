package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm/clause"

	"github.com/betodolist/betodolist-api/internal/authz"
	"github.com/betodolist/betodolist-api/internal/database"
	apierrors "github.com/betodolist/betodolist-api/internal/errors"
	"github.com/betodolist/betodolist-api/internal/middleware"
	"github.com/betodolist/betodolist-api/internal/models"
)

// LabelHandler coordinates project label HTTP handlers. Labels belong to a
// project; attaching one to a task requires both to be in the same project.
type LabelHandler struct {
	authz *authz.Service
}

// NewLabelHandler creates a new LabelHandler.
func NewLabelHandler(authzService *authz.Service) *LabelHandler {
	return &LabelHandler{authz: authzService}
}

// ListLabels returns the project's labels.
func (h *LabelHandler) ListLabels(c *gin.Context) {
	projectID, _ := middleware.GetProjectID(c)

	var labels []models.TaskLabel
	err := database.GetDB().
		Where("project_id = ?", projectID).
		Order("id ASC").
		Find(&labels).Error
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch labels")
		return
	}

	c.JSON(http.StatusOK, labels)
}

// CreateLabel creates a label in the project. Admin or owner only.
func (h *LabelHandler) CreateLabel(c *gin.Context) {
	projectID, _ := middleware.GetProjectID(c)

	type CreateLabelRequest struct {
		Name  string `json:"name" binding:"required"`
		Color string `json:"color" binding:"required"`
	}

	var req CreateLabelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "name and color are required")
		return
	}

	label := models.TaskLabel{
		ProjectID: projectID,
		Name:      req.Name,
		Color:     req.Color,
	}
	if err := database.GetDB().Create(&label).Error; err != nil {
		apierrors.InternalError(c, "Failed to create label")
		return
	}

	c.JSON(http.StatusCreated, label)
}

// UpdateLabel patches a label's name and color. Admin or owner only.
func (h *LabelHandler) UpdateLabel(c *gin.Context) {
	labelID, ok := paramID(c, "labelId")
	if !ok {
		return
	}

	_, _, ok = requireResolvedAccess(c, h.authz, authz.TierAdminOrOwner, func() (uint64, error) {
		return h.authz.ProjectFromLabel(labelID)
	})
	if !ok {
		return
	}

	type UpdateLabelRequest struct {
		Name  *string `json:"name"`
		Color *string `json:"color"`
	}

	var req UpdateLabelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "")
		return
	}

	var label models.TaskLabel
	if err := database.GetDB().First(&label, labelID).Error; err != nil {
		apierrors.NotFound(c, "Label not found")
		return
	}

	if req.Name != nil {
		label.Name = *req.Name
	}
	if req.Color != nil {
		label.Color = *req.Color
	}
	if err := database.GetDB().Save(&label).Error; err != nil {
		apierrors.InternalError(c, "Failed to update label")
		return
	}

	c.JSON(http.StatusOK, label)
}

// DeleteLabel removes a label and all its task assignments. Admin or owner
// only.
func (h *LabelHandler) DeleteLabel(c *gin.Context) {
	labelID, ok := paramID(c, "labelId")
	if !ok {
		return
	}

	_, _, ok = requireResolvedAccess(c, h.authz, authz.TierAdminOrOwner, func() (uint64, error) {
		return h.authz.ProjectFromLabel(labelID)
	})
	if !ok {
		return
	}

	db := database.GetDB()
	if err := db.Where("label_id = ?", labelID).
		Delete(&models.TaskLabelMap{}).Error; err != nil {
		apierrors.InternalError(c, "Failed to delete label assignments")
		return
	}
	if err := db.Delete(&models.TaskLabel{}, labelID).Error; err != nil {
		apierrors.InternalError(c, "Failed to delete label")
		return
	}

	c.Status(http.StatusNoContent)
}

// ListTaskLabels returns the labels attached to a task.
func (h *LabelHandler) ListTaskLabels(c *gin.Context) {
	task, exists := middleware.GetTask(c)
	if !exists {
		apierrors.InternalError(c, "Task not found in context")
		return
	}

	var labels []models.TaskLabel
	err := database.GetDB().
		Joins("JOIN task_label_map ON task_label_map.label_id = task_labels.id").
		Where("task_label_map.task_id = ?", task.ID).
		Find(&labels).Error
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch task labels")
		return
	}

	c.JSON(http.StatusOK, labels)
}

// AssignLabel attaches a label to a task. The label must belong to the same
// project as the task; assigning an already attached label is a no-op that
// still returns 201.
func (h *LabelHandler) AssignLabel(c *gin.Context) {
	task, exists := middleware.GetTask(c)
	if !exists {
		apierrors.InternalError(c, "Task not found in context")
		return
	}
	labelID, ok := paramID(c, "labelId")
	if !ok {
		return
	}

	var label models.TaskLabel
	if err := database.GetDB().First(&label, labelID).Error; err != nil {
		apierrors.NotFound(c, "Label not found")
		return
	}
	if label.ProjectID != task.ProjectID {
		apierrors.BadRequest(c, "Label belongs to a different project")
		return
	}

	mapping := models.TaskLabelMap{TaskID: task.ID, LabelID: label.ID}
	err := database.GetDB().
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&mapping).Error
	if err != nil {
		apierrors.InternalError(c, "Failed to assign label")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"task_id": task.ID, "label_id": label.ID})
}

// UnassignLabel detaches a label from a task.
func (h *LabelHandler) UnassignLabel(c *gin.Context) {
	task, exists := middleware.GetTask(c)
	if !exists {
		apierrors.InternalError(c, "Task not found in context")
		return
	}
	labelID, ok := paramID(c, "labelId")
	if !ok {
		return
	}

	err := database.GetDB().
		Where("task_id = ? AND label_id = ?", task.ID, labelID).
		Delete(&models.TaskLabelMap{}).Error
	if err != nil {
		apierrors.InternalError(c, "Failed to unassign label")
		return
	}

	c.Status(http.StatusNoContent)
}
