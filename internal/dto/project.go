package dto

import (
	"time"

	"github.com/betodolist/betodolist-api/internal/models"
)

// ProjectWithRoleDTO is a project annotated with the requesting user's role.
type ProjectWithRoleDTO struct {
	models.Project
	Role models.ProjectRole `json:"role"`
}

// ProjectMemberDTO represents one membership row with its user expanded.
type ProjectMemberDTO struct {
	UserID  uint64             `json:"user_id"`
	Role    models.ProjectRole `json:"role"`
	AddedAt time.Time          `json:"added_at"`
	User    UserDTO            `json:"user"`
}

// ToProjectWithRoleDTO converts a membership to a project-with-role
func ToProjectWithRoleDTO(member models.ProjectMember) ProjectWithRoleDTO {
	return ProjectWithRoleDTO{
		Project: member.Project,
		Role:    member.Role,
	}
}

// ToProjectMemberDTO converts a member row to its response shape
func ToProjectMemberDTO(member models.ProjectMember) ProjectMemberDTO {
	return ProjectMemberDTO{
		UserID:  member.UserID,
		Role:    member.Role,
		AddedAt: member.AddedAt,
		User:    ToUserDTO(member.User),
	}
}

// ProjectSettingsDTO is the settings slice of a project.
type ProjectSettingsDTO struct {
	ID            uint64     `json:"id"`
	Color         *string    `json:"color"`
	BackgroundURL *string    `json:"background_url"`
	ArchivedAt    *time.Time `json:"archived_at"`
}

// ToProjectSettingsDTO extracts the settings slice of a project
func ToProjectSettingsDTO(project models.Project) ProjectSettingsDTO {
	return ProjectSettingsDTO{
		ID:            project.ID,
		Color:         project.Color,
		BackgroundURL: project.BackgroundURL,
		ArchivedAt:    project.ArchivedAt,
	}
}
