package middleware

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/betodolist/betodolist-api/internal/authz"
	"github.com/betodolist/betodolist-api/internal/constants"
	apierrors "github.com/betodolist/betodolist-api/internal/errors"
	"github.com/betodolist/betodolist-api/internal/models"
)

// RequireProjectAccess resolves the :id route parameter to a project, checks
// it exists, then authorizes the current user at the given tier. The project
// id and the caller's role are stored in context. Resolution runs before
// authorization: a missing project is 404, an existing project the user is
// not (sufficiently) a member of is 403.
func RequireProjectAccess(svc *authz.Service, tier authz.Tier) gin.HandlerFunc {
	return func(c *gin.Context) {
		projectID, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil || projectID == 0 {
			apierrors.BadRequest(c, "Invalid project id")
			c.Abort()
			return
		}

		userID, exists := GetUserID(c)
		if !exists {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		if err := svc.ProjectExists(projectID); err != nil {
			if errors.Is(err, authz.ErrNotFound) {
				apierrors.NotFound(c, "Project not found")
			} else {
				apierrors.InternalError(c, "")
			}
			c.Abort()
			return
		}

		role, err := svc.RoleOf(projectID, userID)
		if err != nil {
			if errors.Is(err, authz.ErrForbidden) {
				apierrors.Forbidden(c, "")
			} else {
				apierrors.InternalError(c, "")
			}
			c.Abort()
			return
		}
		if err := svc.Authorize(projectID, userID, tier); err != nil {
			apierrors.Forbidden(c, "")
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyProjectID, projectID)
		c.Set(constants.ContextKeyProjectRole, role)
		c.Next()
	}
}

// GetProjectID retrieves the resolved project id from context.
func GetProjectID(c *gin.Context) (uint64, bool) {
	v, exists := c.Get(constants.ContextKeyProjectID)
	if !exists {
		return 0, false
	}
	id, ok := v.(uint64)
	return id, ok
}

// GetProjectRole retrieves the caller's role in the resolved project.
func GetProjectRole(c *gin.Context) (models.ProjectRole, bool) {
	v, exists := c.Get(constants.ContextKeyProjectRole)
	if !exists {
		return "", false
	}
	role, ok := v.(models.ProjectRole)
	return role, ok
}
