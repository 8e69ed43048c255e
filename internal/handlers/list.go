package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/betodolist/betodolist-api/internal/authz"
	apierrors "github.com/betodolist/betodolist-api/internal/errors"
	"github.com/betodolist/betodolist-api/internal/middleware"
	"github.com/betodolist/betodolist-api/internal/services"
)

// ListHandler coordinates list (column) HTTP handlers.
type ListHandler struct {
	listService *services.ListService
	authz       *authz.Service
}

// NewListHandler creates a new ListHandler.
func NewListHandler(listService *services.ListService, authzService *authz.Service) *ListHandler {
	return &ListHandler{
		listService: listService,
		authz:       authzService,
	}
}

// GetLists returns the project's columns ordered by position.
func (h *ListHandler) GetLists(c *gin.Context) {
	projectID, _ := middleware.GetProjectID(c)

	lists, err := h.listService.ListLists(projectID)
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch lists")
		return
	}

	c.JSON(http.StatusOK, lists)
}

// CreateList creates a column. A duplicate title within the project returns
// the existing column (200) instead of erroring.
func (h *ListHandler) CreateList(c *gin.Context) {
	projectID, _ := middleware.GetProjectID(c)

	type CreateListRequest struct {
		Title    string `json:"title" binding:"required"`
		Position *int   `json:"position"`
	}

	var req CreateListRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "title is required")
		return
	}

	list, created, err := h.listService.CreateList(services.CreateListInput{
		ProjectID: projectID,
		Title:     req.Title,
		Position:  req.Position,
	})
	if err != nil {
		apierrors.InternalError(c, "Failed to create list")
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, list)
}

// ReorderLists applies a batch of {id, position} updates. Updates are
// applied independently; a mid-batch failure leaves earlier updates in
// place.
func (h *ListHandler) ReorderLists(c *gin.Context) {
	projectID, _ := middleware.GetProjectID(c)

	type ReorderRequest struct {
		Order []services.ReorderItem `json:"order" binding:"required"`
	}

	var req ReorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "order must be an array")
		return
	}

	if err := h.listService.ReorderLists(projectID, req.Order); err != nil {
		apierrors.InternalError(c, "Failed to reorder lists")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// UpdateList patches a column's title and position.
func (h *ListHandler) UpdateList(c *gin.Context) {
	listID, ok := paramID(c, "listId")
	if !ok {
		return
	}

	_, _, ok = requireResolvedAccess(c, h.authz, authz.TierMember, func() (uint64, error) {
		return h.authz.ProjectFromList(listID)
	})
	if !ok {
		return
	}

	type UpdateListRequest struct {
		Title    *string `json:"title"`
		Position *int    `json:"position"`
	}

	var req UpdateListRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "")
		return
	}

	list, err := h.listService.UpdateList(listID, services.UpdateListInput{
		Title:    req.Title,
		Position: req.Position,
	})
	if err != nil {
		if errors.Is(err, services.ErrListNotFound) {
			apierrors.NotFound(c, err.Error())
		} else {
			apierrors.InternalError(c, "")
		}
		return
	}

	c.JSON(http.StatusOK, list)
}

// DeleteList deletes a column and orphans its tasks.
func (h *ListHandler) DeleteList(c *gin.Context) {
	listID, ok := paramID(c, "listId")
	if !ok {
		return
	}

	_, _, ok = requireResolvedAccess(c, h.authz, authz.TierMember, func() (uint64, error) {
		return h.authz.ProjectFromList(listID)
	})
	if !ok {
		return
	}

	if err := h.listService.DeleteList(listID); err != nil {
		apierrors.InternalError(c, "")
		return
	}

	c.Status(http.StatusNoContent)
}
