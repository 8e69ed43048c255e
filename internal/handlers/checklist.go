package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/betodolist/betodolist-api/internal/authz"
	"github.com/betodolist/betodolist-api/internal/database"
	apierrors "github.com/betodolist/betodolist-api/internal/errors"
	"github.com/betodolist/betodolist-api/internal/middleware"
	"github.com/betodolist/betodolist-api/internal/models"
)

// ChecklistHandler coordinates checklist and checklist item HTTP handlers.
// Items resolve their project through item -> checklist -> task -> project.
type ChecklistHandler struct {
	authz *authz.Service
}

// NewChecklistHandler creates a new ChecklistHandler.
func NewChecklistHandler(authzService *authz.Service) *ChecklistHandler {
	return &ChecklistHandler{authz: authzService}
}

// ListChecklists returns a task's checklists with their items.
func (h *ChecklistHandler) ListChecklists(c *gin.Context) {
	task, exists := middleware.GetTask(c)
	if !exists {
		apierrors.InternalError(c, "Task not found in context")
		return
	}

	var checklists []models.TaskChecklist
	err := database.GetDB().
		Where("task_id = ?", task.ID).
		Preload("Items").
		Order("id ASC").
		Find(&checklists).Error
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch checklists")
		return
	}

	c.JSON(http.StatusOK, checklists)
}

// CreateChecklist adds a checklist to a task.
func (h *ChecklistHandler) CreateChecklist(c *gin.Context) {
	task, exists := middleware.GetTask(c)
	if !exists {
		apierrors.InternalError(c, "Task not found in context")
		return
	}

	type CreateChecklistRequest struct {
		Title string `json:"title" binding:"required"`
	}

	var req CreateChecklistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "title is required")
		return
	}

	checklist := models.TaskChecklist{
		TaskID: task.ID,
		Title:  req.Title,
	}
	if err := database.GetDB().Create(&checklist).Error; err != nil {
		apierrors.InternalError(c, "Failed to create checklist")
		return
	}

	c.JSON(http.StatusCreated, checklist)
}

// UpdateChecklist renames a checklist.
func (h *ChecklistHandler) UpdateChecklist(c *gin.Context) {
	checklistID, ok := paramID(c, "checklistId")
	if !ok {
		return
	}

	_, _, ok = requireResolvedAccess(c, h.authz, authz.TierMember, func() (uint64, error) {
		return h.authz.ProjectFromChecklist(checklistID)
	})
	if !ok {
		return
	}

	type UpdateChecklistRequest struct {
		Title string `json:"title" binding:"required"`
	}

	var req UpdateChecklistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "title is required")
		return
	}

	var checklist models.TaskChecklist
	if err := database.GetDB().First(&checklist, checklistID).Error; err != nil {
		apierrors.NotFound(c, "Checklist not found")
		return
	}

	checklist.Title = req.Title
	if err := database.GetDB().Save(&checklist).Error; err != nil {
		apierrors.InternalError(c, "Failed to update checklist")
		return
	}

	c.JSON(http.StatusOK, checklist)
}

// DeleteChecklist removes a checklist and its items.
func (h *ChecklistHandler) DeleteChecklist(c *gin.Context) {
	checklistID, ok := paramID(c, "checklistId")
	if !ok {
		return
	}

	_, _, ok = requireResolvedAccess(c, h.authz, authz.TierMember, func() (uint64, error) {
		return h.authz.ProjectFromChecklist(checklistID)
	})
	if !ok {
		return
	}

	db := database.GetDB()
	if err := db.Where("checklist_id = ?", checklistID).
		Delete(&models.TaskChecklistItem{}).Error; err != nil {
		apierrors.InternalError(c, "Failed to delete checklist items")
		return
	}
	if err := db.Delete(&models.TaskChecklist{}, checklistID).Error; err != nil {
		apierrors.InternalError(c, "Failed to delete checklist")
		return
	}

	c.Status(http.StatusNoContent)
}

// AddItem appends an item to a checklist.
func (h *ChecklistHandler) AddItem(c *gin.Context) {
	checklistID, ok := paramID(c, "checklistId")
	if !ok {
		return
	}

	_, _, ok = requireResolvedAccess(c, h.authz, authz.TierMember, func() (uint64, error) {
		return h.authz.ProjectFromChecklist(checklistID)
	})
	if !ok {
		return
	}

	type AddItemRequest struct {
		Title string `json:"title" binding:"required"`
	}

	var req AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "title is required")
		return
	}

	item := models.TaskChecklistItem{
		ChecklistID: checklistID,
		Title:       req.Title,
	}
	if err := database.GetDB().Create(&item).Error; err != nil {
		apierrors.InternalError(c, "Failed to create item")
		return
	}

	c.JSON(http.StatusCreated, item)
}

// UpdateItem patches an item's title and completion flag.
func (h *ChecklistHandler) UpdateItem(c *gin.Context) {
	itemID, ok := paramID(c, "itemId")
	if !ok {
		return
	}

	_, _, ok = requireResolvedAccess(c, h.authz, authz.TierMember, func() (uint64, error) {
		return h.authz.ProjectFromChecklistItem(itemID)
	})
	if !ok {
		return
	}

	type UpdateItemRequest struct {
		Title     *string `json:"title"`
		Completed *bool   `json:"completed"`
	}

	var req UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "")
		return
	}

	var item models.TaskChecklistItem
	if err := database.GetDB().First(&item, itemID).Error; err != nil {
		apierrors.NotFound(c, "Item not found")
		return
	}

	if req.Title != nil {
		item.Title = *req.Title
	}
	if req.Completed != nil {
		item.Completed = *req.Completed
	}
	if err := database.GetDB().Save(&item).Error; err != nil {
		apierrors.InternalError(c, "Failed to update item")
		return
	}

	c.JSON(http.StatusOK, item)
}

// DeleteItem removes a checklist item.
func (h *ChecklistHandler) DeleteItem(c *gin.Context) {
	itemID, ok := paramID(c, "itemId")
	if !ok {
		return
	}

	_, _, ok = requireResolvedAccess(c, h.authz, authz.TierMember, func() (uint64, error) {
		return h.authz.ProjectFromChecklistItem(itemID)
	})
	if !ok {
		return
	}

	if err := database.GetDB().Delete(&models.TaskChecklistItem{}, itemID).Error; err != nil {
		apierrors.InternalError(c, "Failed to delete item")
		return
	}

	c.Status(http.StatusNoContent)
}
