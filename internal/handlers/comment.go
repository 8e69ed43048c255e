package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/betodolist/betodolist-api/internal/authz"
	"github.com/betodolist/betodolist-api/internal/database"
	apierrors "github.com/betodolist/betodolist-api/internal/errors"
	"github.com/betodolist/betodolist-api/internal/middleware"
	"github.com/betodolist/betodolist-api/internal/models"
	"github.com/betodolist/betodolist-api/internal/utils"
)

// CommentHandler coordinates task comment HTTP handlers. Any member may read
// and add comments; editing and deleting are restricted to the author.
type CommentHandler struct {
	authz *authz.Service
}

// NewCommentHandler creates a new CommentHandler.
func NewCommentHandler(authzService *authz.Service) *CommentHandler {
	return &CommentHandler{authz: authzService}
}

// ListComments returns a page of the task's comments, oldest first, with
// authors.
func (h *CommentHandler) ListComments(c *gin.Context) {
	task, exists := middleware.GetTask(c)
	if !exists {
		apierrors.InternalError(c, "Task not found in context")
		return
	}
	params := utils.GetPaginationParams(c)

	var comments []models.TaskComment
	err := database.GetDB().
		Where("task_id = ?", task.ID).
		Preload("User").
		Order("created_at ASC").
		Scopes(database.Paginate(params)).
		Find(&comments).Error
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch comments")
		return
	}

	c.JSON(http.StatusOK, comments)
}

// AddComment adds a comment to a task, authored by the caller.
func (h *CommentHandler) AddComment(c *gin.Context) {
	task, exists := middleware.GetTask(c)
	if !exists {
		apierrors.InternalError(c, "Task not found in context")
		return
	}
	userID, _ := middleware.GetUserID(c)

	type AddCommentRequest struct {
		Content string `json:"content" binding:"required"`
	}

	var req AddCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "content is required")
		return
	}

	comment := models.TaskComment{
		TaskID:  task.ID,
		UserID:  userID,
		Content: req.Content,
	}
	if err := database.GetDB().Create(&comment).Error; err != nil {
		apierrors.InternalError(c, "Failed to create comment")
		return
	}

	c.JSON(http.StatusCreated, comment)
}

// UpdateComment edits a comment's content. Only the author may edit, even
// when the caller is the project owner.
func (h *CommentHandler) UpdateComment(c *gin.Context) {
	comment, ok := h.loadAuthorizedComment(c)
	if !ok {
		return
	}

	type UpdateCommentRequest struct {
		Content string `json:"content" binding:"required"`
	}

	var req UpdateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "content is required")
		return
	}

	comment.Content = req.Content
	if err := database.GetDB().Save(comment).Error; err != nil {
		apierrors.InternalError(c, "Failed to update comment")
		return
	}

	c.JSON(http.StatusOK, comment)
}

// DeleteComment removes a comment. Author only.
func (h *CommentHandler) DeleteComment(c *gin.Context) {
	comment, ok := h.loadAuthorizedComment(c)
	if !ok {
		return
	}

	if err := database.GetDB().Delete(comment).Error; err != nil {
		apierrors.InternalError(c, "Failed to delete comment")
		return
	}

	c.Status(http.StatusNoContent)
}

// loadAuthorizedComment resolves the comment, checks project membership,
// then enforces authorship. A member who is not the author gets 403.
func (h *CommentHandler) loadAuthorizedComment(c *gin.Context) (*models.TaskComment, bool) {
	commentID, ok := paramID(c, "commentId")
	if !ok {
		return nil, false
	}

	_, userID, ok := requireResolvedAccess(c, h.authz, authz.TierMember, func() (uint64, error) {
		return h.authz.ProjectFromComment(commentID)
	})
	if !ok {
		return nil, false
	}

	var comment models.TaskComment
	if err := database.GetDB().First(&comment, commentID).Error; err != nil {
		apierrors.NotFound(c, "Comment not found")
		return nil, false
	}

	if comment.UserID != userID {
		apierrors.Forbidden(c, "Only the comment author can modify it")
		return nil, false
	}

	return &comment, true
}
