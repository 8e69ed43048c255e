package handlers

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/betodolist/betodolist-api/internal/authz"
	apierrors "github.com/betodolist/betodolist-api/internal/errors"
	"github.com/betodolist/betodolist-api/internal/middleware"
)

// requireResolvedAccess is the gate for routes addressed by a leaf resource
// id (/comments/:id, /lists/:listId, ...). It resolves the resource to its
// owning project, then authorizes the current user at the required tier.
// Resolution failures map to 404, denials to 403, and the ordering is fixed:
// resolve first, authorize second. On failure the response is already
// written and ok is false.
func requireResolvedAccess(c *gin.Context, svc *authz.Service, tier authz.Tier, resolve func() (uint64, error)) (projectID, userID uint64, ok bool) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return 0, 0, false
	}

	projectID, err := resolve()
	if err != nil {
		if errors.Is(err, authz.ErrNotFound) {
			apierrors.NotFound(c, "")
		} else {
			apierrors.InternalError(c, "")
		}
		return 0, 0, false
	}

	if err := svc.Authorize(projectID, userID, tier); err != nil {
		if errors.Is(err, authz.ErrForbidden) {
			apierrors.Forbidden(c, "")
		} else {
			apierrors.InternalError(c, "")
		}
		return 0, 0, false
	}

	return projectID, userID, true
}

// paramID parses a numeric path parameter; 0 and garbage are both invalid.
func paramID(c *gin.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		apierrors.BadRequest(c, "Invalid "+name)
		return 0, false
	}
	return id, true
}
