package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/betodolist/betodolist-api/internal/models"
	"github.com/betodolist/betodolist-api/internal/repository"
)

var (
	ErrProjectNotFound = errors.New("project not found")
	ErrMemberNotFound  = errors.New("member not found")
	ErrNotMember       = errors.New("not a project member")
	ErrInvalidRole     = errors.New("invalid role")
	// ErrOwnerMustTransfer is returned when the owner tries to leave a
	// project that still has other members. No transfer operation exists;
	// this is a known gap.
	ErrOwnerMustTransfer = errors.New("owner must transfer ownership before leaving the project")
	// ErrOwnerRoleReserved is returned when a membership operation would
	// grant the owner role or strip it from the owner. The owner row is
	// created with the project and removed only when the project is deleted.
	ErrOwnerRoleReserved = errors.New("the owner role cannot be granted or removed through membership operations")
)

// ProjectService handles project lifecycle and membership business logic.
type ProjectService struct {
	projectRepo repository.ProjectRepository
	listRepo    repository.ListRepository
	userRepo    repository.UserRepository
}

// NewProjectService creates a new ProjectService.
func NewProjectService(projectRepo repository.ProjectRepository, listRepo repository.ListRepository, userRepo repository.UserRepository) *ProjectService {
	return &ProjectService{
		projectRepo: projectRepo,
		listRepo:    listRepo,
		userRepo:    userRepo,
	}
}

// CreateProjectInput represents input for creating a project.
type CreateProjectInput struct {
	Name        string
	Description *string
	OwnerID     uint64
}

// CreateProject creates a project, makes the creator its owner, and seeds the
// default columns. Seeding failure is logged and never surfaced; the project
// is valid without its default lists.
func (s *ProjectService) CreateProject(input CreateProjectInput) (*models.Project, error) {
	project := &models.Project{
		OwnerID:     input.OwnerID,
		Name:        input.Name,
		Description: input.Description,
	}
	member := &models.ProjectMember{UserID: input.OwnerID}

	if err := s.projectRepo.CreateWithOwner(project, member); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	s.seedDefaultLists(project.ID)

	return s.projectRepo.FindByID(project.ID, "Owner")
}

func (s *ProjectService) seedDefaultLists(projectID uint64) {
	defaults := []models.ProjectList{
		{ProjectID: projectID, Title: "To Do", Position: 0},
		{ProjectID: projectID, Title: "In Progress", Position: 1},
		{ProjectID: projectID, Title: "Done", Position: 2},
	}
	for i := range defaults {
		if err := s.listRepo.Create(&defaults[i]); err != nil {
			log.Printf("Failed to seed default lists for project %d: %v", projectID, err)
			return
		}
	}
}

// ListMyProjects returns the projects the user belongs to, with role.
func (s *ProjectService) ListMyProjects(userID uint64) ([]models.ProjectMember, error) {
	memberships, err := s.projectRepo.ListMembershipsByUserID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	return memberships, nil
}

// GetProject returns a project with owner and members preloaded.
func (s *ProjectService) GetProject(projectID uint64) (*models.Project, error) {
	project, err := s.projectRepo.FindByID(projectID, "Owner", "Members", "Members.User")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}
	return project, nil
}

// ListMembers returns the project roster, oldest membership first.
func (s *ProjectService) ListMembers(projectID uint64) ([]models.ProjectMember, error) {
	members, err := s.projectRepo.ListMembers(projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	return members, nil
}

// AddMemberInput represents input for adding or re-adding a member.
type AddMemberInput struct {
	ProjectID uint64
	UserID    uint64
	Role      models.ProjectRole
}

// AddMember adds a user to a project, idempotently. Adding an existing
// member with a different role updates the role instead. Reports whether a
// new membership was created. The owner role is never granted or demoted
// here; a project keeps exactly one owner row for its whole lifetime.
func (s *ProjectService) AddMember(input AddMemberInput) (*models.ProjectMember, bool, error) {
	role := input.Role
	if role == "" {
		role = models.RoleMember
	}
	if !role.Valid() {
		return nil, false, ErrInvalidRole
	}
	if role == models.RoleOwner {
		return nil, false, ErrOwnerRoleReserved
	}

	member := &models.ProjectMember{
		ProjectID: input.ProjectID,
		UserID:    input.UserID,
		Role:      role,
	}
	created, err := s.projectRepo.UpsertMember(member)
	if err != nil {
		return nil, false, fmt.Errorf("failed to add member: %w", err)
	}

	if !created && input.Role != "" && member.Role != input.Role {
		if member.Role == models.RoleOwner {
			return nil, false, ErrOwnerRoleReserved
		}
		if err := s.projectRepo.UpdateMemberRole(input.ProjectID, input.UserID, input.Role); err != nil {
			return nil, false, fmt.Errorf("failed to update member role: %w", err)
		}
		member.Role = input.Role
	}

	return member, created, nil
}

// InviteByEmail resolves an email to a user and adds them as a member.
func (s *ProjectService) InviteByEmail(projectID uint64, email string, role models.ProjectRole) (*models.ProjectMember, bool, error) {
	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, ErrUserNotFound
		}
		return nil, false, fmt.Errorf("failed to find user: %w", err)
	}

	return s.AddMember(AddMemberInput{
		ProjectID: projectID,
		UserID:    user.ID,
		Role:      role,
	})
}

// ChangeMemberRole sets an existing member's role between admin and member.
// Neither promoting to owner nor demoting the owner is allowed. Concurrent
// changes on the same member are last-write-wins.
func (s *ProjectService) ChangeMemberRole(projectID, userID uint64, role models.ProjectRole) error {
	if !role.Valid() {
		return ErrInvalidRole
	}
	if role == models.RoleOwner {
		return ErrOwnerRoleReserved
	}
	member, err := s.projectRepo.FindMember(projectID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMemberNotFound
		}
		return fmt.Errorf("failed to find member: %w", err)
	}
	if member.Role == models.RoleOwner {
		return ErrOwnerRoleReserved
	}
	if err := s.projectRepo.UpdateMemberRole(projectID, userID, role); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMemberNotFound
		}
		return fmt.Errorf("failed to change member role: %w", err)
	}
	return nil
}

// RemoveMember removes a member from a project. The owner cannot be removed;
// the only owner exit is LeaveProject, which deletes the project.
func (s *ProjectService) RemoveMember(projectID, userID uint64) error {
	member, err := s.projectRepo.FindMember(projectID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMemberNotFound
		}
		return fmt.Errorf("failed to find member: %w", err)
	}
	if member.Role == models.RoleOwner {
		return ErrOwnerRoleReserved
	}
	if err := s.projectRepo.RemoveMember(projectID, userID); err != nil {
		return fmt.Errorf("failed to remove member: %w", err)
	}
	return nil
}

// LeaveProject removes the caller from the project. A non-owner leaves
// unconditionally. The owner may leave only as the sole remaining member, in
// which case the whole project is deleted with all its children; otherwise
// ErrOwnerMustTransfer. This is the only path that removes an owner row, and
// it takes the project with it, so a live project always has exactly one
// owner.
func (s *ProjectService) LeaveProject(projectID, userID uint64) error {
	membership, err := s.projectRepo.FindMember(projectID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotMember
		}
		return fmt.Errorf("failed to find membership: %w", err)
	}

	if membership.Role != models.RoleOwner {
		if err := s.projectRepo.RemoveMember(projectID, userID); err != nil {
			return fmt.Errorf("failed to leave project: %w", err)
		}
		return nil
	}

	count, err := s.projectRepo.CountMembers(projectID)
	if err != nil {
		return fmt.Errorf("failed to count members: %w", err)
	}
	if count > 1 {
		return ErrOwnerMustTransfer
	}

	if err := s.projectRepo.DeleteCascade(projectID); err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	return nil
}

// UpdateSettingsInput carries the patchable settings fields; nil means the
// field was absent from the request.
type UpdateSettingsInput struct {
	Color         *string
	BackgroundURL *string
}

// UpdateSettings patches the project's display settings.
func (s *ProjectService) UpdateSettings(projectID uint64, input UpdateSettingsInput) (*models.Project, error) {
	project, err := s.projectRepo.FindByID(projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}

	if input.Color != nil {
		project.Color = input.Color
	}
	if input.BackgroundURL != nil {
		project.BackgroundURL = input.BackgroundURL
	}

	if err := s.projectRepo.Update(project); err != nil {
		return nil, fmt.Errorf("failed to update settings: %w", err)
	}
	return project, nil
}

// SetArchived toggles the reversible archived state.
func (s *ProjectService) SetArchived(projectID uint64, archived bool) (*models.Project, error) {
	project, err := s.projectRepo.FindByID(projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}

	if archived {
		now := time.Now()
		project.ArchivedAt = &now
	} else {
		project.ArchivedAt = nil
	}

	if err := s.projectRepo.Update(project); err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}
	return project, nil
}
