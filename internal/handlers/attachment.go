package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/betodolist/betodolist-api/internal/authz"
	"github.com/betodolist/betodolist-api/internal/database"
	apierrors "github.com/betodolist/betodolist-api/internal/errors"
	"github.com/betodolist/betodolist-api/internal/middleware"
	"github.com/betodolist/betodolist-api/internal/models"
	"github.com/betodolist/betodolist-api/internal/storage"
)

// AttachmentHandler coordinates task attachment HTTP handlers. The database
// row is the source of truth; the blob store is best effort on delete.
type AttachmentHandler struct {
	authz     *authz.Service
	blobStore storage.BlobStore
}

// NewAttachmentHandler creates a new AttachmentHandler.
func NewAttachmentHandler(authzService *authz.Service, blobStore storage.BlobStore) *AttachmentHandler {
	return &AttachmentHandler{
		authz:     authzService,
		blobStore: blobStore,
	}
}

// ListAttachments returns a task's attachments.
func (h *AttachmentHandler) ListAttachments(c *gin.Context) {
	task, exists := middleware.GetTask(c)
	if !exists {
		apierrors.InternalError(c, "Task not found in context")
		return
	}

	var attachments []models.TaskAttachment
	err := database.GetDB().
		Where("task_id = ?", task.ID).
		Order("id ASC").
		Find(&attachments).Error
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch attachments")
		return
	}

	c.JSON(http.StatusOK, attachments)
}

// UploadAttachment stores a multipart file in the blob store and records it
// against the task.
func (h *AttachmentHandler) UploadAttachment(c *gin.Context) {
	task, exists := middleware.GetTask(c)
	if !exists {
		apierrors.InternalError(c, "Task not found in context")
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		apierrors.BadRequest(c, "file is required")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		apierrors.InternalError(c, "Failed to read upload")
		return
	}
	defer file.Close()

	url, size, err := h.blobStore.Put(file, fileHeader.Filename)
	if err != nil {
		apierrors.InternalError(c, "Failed to store file")
		return
	}

	attachment := models.TaskAttachment{
		TaskID:   task.ID,
		FileURL:  url,
		FileName: fileHeader.Filename,
		Size:     size,
	}
	if err := database.GetDB().Create(&attachment).Error; err != nil {
		if delErr := h.blobStore.Delete(url); delErr != nil {
			log.Printf("orphaned blob %s: %v", url, delErr)
		}
		apierrors.InternalError(c, "Failed to record attachment")
		return
	}

	c.JSON(http.StatusCreated, attachment)
}

// DeleteAttachment removes the attachment row, then tries to delete the
// blob. A blob store failure is logged and does not fail the request.
func (h *AttachmentHandler) DeleteAttachment(c *gin.Context) {
	attachmentID, ok := paramID(c, "attachmentId")
	if !ok {
		return
	}

	_, _, ok = requireResolvedAccess(c, h.authz, authz.TierMember, func() (uint64, error) {
		return h.authz.ProjectFromAttachment(attachmentID)
	})
	if !ok {
		return
	}

	var attachment models.TaskAttachment
	if err := database.GetDB().First(&attachment, attachmentID).Error; err != nil {
		apierrors.NotFound(c, "Attachment not found")
		return
	}

	if err := database.GetDB().Delete(&attachment).Error; err != nil {
		apierrors.InternalError(c, "Failed to delete attachment")
		return
	}

	if err := h.blobStore.Delete(attachment.FileURL); err != nil {
		log.Printf("failed to delete blob %s: %v", attachment.FileURL, err)
	}

	c.Status(http.StatusNoContent)
}
