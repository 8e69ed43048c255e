package middleware

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/betodolist/betodolist-api/internal/authz"
	"github.com/betodolist/betodolist-api/internal/constants"
	"github.com/betodolist/betodolist-api/internal/database"
	apierrors "github.com/betodolist/betodolist-api/internal/errors"
	"github.com/betodolist/betodolist-api/internal/models"
)

// RequireTaskAccess resolves the :taskId route parameter to its owning
// project and authorizes the current user as a member. The task is stored in
// context for the handler.
func RequireTaskAccess(svc *authz.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		taskID, err := strconv.ParseUint(c.Param("taskId"), 10, 64)
		if err != nil || taskID == 0 {
			apierrors.BadRequest(c, "Invalid task id")
			c.Abort()
			return
		}

		userID, exists := GetUserID(c)
		if !exists {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		var task models.ProjectTask
		if err := database.GetDB().First(&task, taskID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				apierrors.NotFound(c, "Task not found")
			} else {
				apierrors.InternalError(c, "")
			}
			c.Abort()
			return
		}

		if err := svc.Authorize(task.ProjectID, userID, authz.TierMember); err != nil {
			if errors.Is(err, authz.ErrForbidden) {
				apierrors.Forbidden(c, "")
			} else {
				apierrors.InternalError(c, "")
			}
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyTask, task)
		c.Next()
	}
}

// GetTask retrieves the resolved task from context.
func GetTask(c *gin.Context) (models.ProjectTask, bool) {
	v, exists := c.Get(constants.ContextKeyTask)
	if !exists {
		return models.ProjectTask{}, false
	}
	task, ok := v.(models.ProjectTask)
	return task, ok
}
