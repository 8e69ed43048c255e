package repository

import (
	"github.com/betodolist/betodolist-api/internal/models"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(email string) (*models.User, error)
}

// ProjectRepository defines the interface for project and membership data access
type ProjectRepository interface {
	// CreateWithOwner creates a project and its owner membership row within a
	// single transaction.
	CreateWithOwner(project *models.Project, member *models.ProjectMember) error

	// FindByID finds a project by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Project, error)

	// ListMembershipsByUserID lists all memberships of a user with their
	// projects preloaded, most recently updated project first.
	ListMembershipsByUserID(userID uint64) ([]models.ProjectMember, error)

	// Update updates a project
	Update(project *models.Project) error

	// DeleteCascade deletes a project and every child row (lists, tasks,
	// comments, attachments, checklists, labels, assignees, members) in one
	// transaction.
	DeleteCascade(id uint64) error

	// UpsertMember inserts a membership or returns the existing one.
	// Reports whether a row was created.
	UpsertMember(member *models.ProjectMember) (bool, error)

	// UpdateMemberRole sets the role of an existing member
	UpdateMemberRole(projectID, userID uint64, role models.ProjectRole) error

	// RemoveMember removes a member from a project
	RemoveMember(projectID, userID uint64) error

	// FindMember finds a specific project member
	FindMember(projectID, userID uint64) (*models.ProjectMember, error)

	// ListMembers lists all members of a project with users preloaded
	ListMembers(projectID uint64) ([]models.ProjectMember, error)

	// CountMembers counts the members of a project
	CountMembers(projectID uint64) (int64, error)
}

// ListRepository defines the interface for project list data access
type ListRepository interface {
	// Create creates a new list
	Create(list *models.ProjectList) error

	// FindByID finds a list by ID
	FindByID(id uint64) (*models.ProjectList, error)

	// FindByProjectAndTitle finds a list by its (project, title) pair
	FindByProjectAndTitle(projectID uint64, title string) (*models.ProjectList, error)

	// ListByProject lists a project's lists ordered by position, then creation
	ListByProject(projectID uint64) ([]models.ProjectList, error)

	// MaxPosition returns the highest position in a project and whether any
	// list exists.
	MaxPosition(projectID uint64) (int, bool, error)

	// Update updates a list
	Update(list *models.ProjectList) error

	// DeleteAndOrphanTasks deletes a list after detaching its tasks
	// (list_id = NULL). Tasks are never deleted.
	DeleteAndOrphanTasks(id uint64) error

	// UpdatePosition sets the position of one list, scoped to a project
	UpdatePosition(projectID, listID uint64, position int) error
}

// TaskRepository defines the interface for project task data access
type TaskRepository interface {
	// Create creates a new task
	Create(task *models.ProjectTask) error

	// FindByID finds a task by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.ProjectTask, error)

	// ListByProject lists a project's tasks newest first, paginated
	ListByProject(projectID uint64, offset, limit int) ([]models.ProjectTask, int64, error)

	// Update updates a task
	Update(task *models.ProjectTask) error

	// Delete deletes a task
	Delete(id uint64) error
}
