package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/betodolist/betodolist-api/internal/dto"
	apierrors "github.com/betodolist/betodolist-api/internal/errors"
	"github.com/betodolist/betodolist-api/internal/middleware"
	"github.com/betodolist/betodolist-api/internal/models"
	"github.com/betodolist/betodolist-api/internal/services"
)

// ProjectHandler coordinates project and membership HTTP handlers.
type ProjectHandler struct {
	projectService *services.ProjectService
}

// NewProjectHandler creates a new ProjectHandler.
func NewProjectHandler(projectService *services.ProjectService) *ProjectHandler {
	return &ProjectHandler{
		projectService: projectService,
	}
}

// ListMyProjects returns all projects the user belongs to, with role.
func (h *ProjectHandler) ListMyProjects(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	memberships, err := h.projectService.ListMyProjects(userID)
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch projects")
		return
	}

	projects := make([]dto.ProjectWithRoleDTO, len(memberships))
	for i, m := range memberships {
		projects[i] = dto.ToProjectWithRoleDTO(m)
	}
	c.JSON(http.StatusOK, projects)
}

// CreateProject creates a project owned by the caller and seeds its default
// columns.
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	type CreateProjectRequest struct {
		Name        string  `json:"name" binding:"required"`
		Description *string `json:"description"`
	}

	var req CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "name is required")
		return
	}

	project, err := h.projectService.CreateProject(services.CreateProjectInput{
		Name:        req.Name,
		Description: req.Description,
		OwnerID:     userID,
	})
	if err != nil {
		apierrors.InternalError(c, "Failed to create project")
		return
	}

	c.JSON(http.StatusCreated, project)
}

// GetProject returns project details with owner and members.
func (h *ProjectHandler) GetProject(c *gin.Context) {
	projectID, _ := middleware.GetProjectID(c)

	project, err := h.projectService.GetProject(projectID)
	if err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusOK, project)
}

// ListMembers returns the project roster.
func (h *ProjectHandler) ListMembers(c *gin.Context) {
	projectID, _ := middleware.GetProjectID(c)

	members, err := h.projectService.ListMembers(projectID)
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch members")
		return
	}

	memberDTOs := make([]dto.ProjectMemberDTO, len(members))
	for i, m := range members {
		memberDTOs[i] = dto.ToProjectMemberDTO(m)
	}
	c.JSON(http.StatusOK, memberDTOs)
}

// AddMember adds a user to the project. Re-adding an existing member is
// idempotent (200); a role in the request updates the stored role.
func (h *ProjectHandler) AddMember(c *gin.Context) {
	projectID, _ := middleware.GetProjectID(c)

	type AddMemberRequest struct {
		UserID uint64             `json:"user_id" binding:"required"`
		Role   models.ProjectRole `json:"role"`
	}

	var req AddMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "user_id is required")
		return
	}

	member, created, err := h.projectService.AddMember(services.AddMemberInput{
		ProjectID: projectID,
		UserID:    req.UserID,
		Role:      req.Role,
	})
	if err != nil {
		respondProjectError(c, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, member)
}

// InviteByEmail adds a registered user to the project by email.
func (h *ProjectHandler) InviteByEmail(c *gin.Context) {
	projectID, _ := middleware.GetProjectID(c)

	type InviteRequest struct {
		Email string             `json:"email" binding:"required,email"`
		Role  models.ProjectRole `json:"role"`
	}

	var req InviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "email is required")
		return
	}

	member, created, err := h.projectService.InviteByEmail(projectID, req.Email, req.Role)
	if err != nil {
		respondProjectError(c, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, gin.H{"user_id": member.UserID, "role": member.Role})
}

// ChangeMemberRole sets an existing member's role.
func (h *ProjectHandler) ChangeMemberRole(c *gin.Context) {
	projectID, _ := middleware.GetProjectID(c)
	targetUserID, ok := paramID(c, "userId")
	if !ok {
		return
	}

	type ChangeRoleRequest struct {
		Role models.ProjectRole `json:"role" binding:"required"`
	}

	var req ChangeRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "role is required")
		return
	}

	if err := h.projectService.ChangeMemberRole(projectID, targetUserID, req.Role); err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user_id": targetUserID, "role": req.Role})
}

// RemoveMember removes a member from the project.
func (h *ProjectHandler) RemoveMember(c *gin.Context) {
	projectID, _ := middleware.GetProjectID(c)
	targetUserID, ok := paramID(c, "userId")
	if !ok {
		return
	}

	if err := h.projectService.RemoveMember(projectID, targetUserID); err != nil {
		respondProjectError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// LeaveProject removes the caller from the project; the sole-member owner
// leaving deletes the project entirely.
func (h *ProjectHandler) LeaveProject(c *gin.Context) {
	projectID, _ := middleware.GetProjectID(c)
	userID, _ := middleware.GetUserID(c)

	if err := h.projectService.LeaveProject(projectID, userID); err != nil {
		respondProjectError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// GetSettings returns the project's display settings. Any member may view.
func (h *ProjectHandler) GetSettings(c *gin.Context) {
	projectID, _ := middleware.GetProjectID(c)

	project, err := h.projectService.GetProject(projectID)
	if err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToProjectSettingsDTO(*project))
}

// UpdateSettings patches the project's display settings.
func (h *ProjectHandler) UpdateSettings(c *gin.Context) {
	projectID, _ := middleware.GetProjectID(c)

	type UpdateSettingsRequest struct {
		Color         *string `json:"color"`
		BackgroundURL *string `json:"background_url"`
	}

	var req UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "")
		return
	}

	project, err := h.projectService.UpdateSettings(projectID, services.UpdateSettingsInput{
		Color:         req.Color,
		BackgroundURL: req.BackgroundURL,
	})
	if err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToProjectSettingsDTO(*project))
}

// ArchiveProject hides the project without deleting it.
func (h *ProjectHandler) ArchiveProject(c *gin.Context) {
	h.setArchived(c, true)
}

// UnarchiveProject makes an archived project active again.
func (h *ProjectHandler) UnarchiveProject(c *gin.Context) {
	h.setArchived(c, false)
}

func (h *ProjectHandler) setArchived(c *gin.Context, archived bool) {
	projectID, _ := middleware.GetProjectID(c)

	project, err := h.projectService.SetArchived(projectID, archived)
	if err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"archived_at": project.ArchivedAt})
}

func respondProjectError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrProjectNotFound),
		errors.Is(err, services.ErrMemberNotFound),
		errors.Is(err, services.ErrNotMember),
		errors.Is(err, services.ErrUserNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrInvalidRole):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrOwnerMustTransfer),
		errors.Is(err, services.ErrOwnerRoleReserved):
		apierrors.InvalidOperation(c, err.Error())
	default:
		apierrors.InternalError(c, "")
	}
}
