// Package authz is the single authorization gate for every project-scoped
// operation. Callers resolve their target resource to a project id (see
// resolver.go), then ask Authorize whether the acting user holds the required
// role tier in that project. Decisions are never cached across requests; the
// project_members table is the sole source of truth.
package authz

import (
	"errors"

	"gorm.io/gorm"

	"github.com/betodolist/betodolist-api/internal/models"
)

// Tier is the minimum role required for an operation, ordered weakest first.
type Tier int

const (
	// TierMember admits any role in the project.
	TierMember Tier = iota
	// TierAdminOrOwner admits admins and the owner.
	TierAdminOrOwner
	// TierOwnerOnly admits the owner alone. Used only on the
	// delete-project-by-leaving path.
	TierOwnerOnly
)

var (
	// ErrNotFound means the resource, or a link in its ownership chain, does
	// not exist. Resolution is checked before authorization.
	ErrNotFound = errors.New("authz: resource not found")
	// ErrForbidden means the user exists outside the project or holds an
	// insufficient role.
	ErrForbidden = errors.New("authz: access denied")
)

// Service answers role lookups and tier checks against the membership store.
type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// RoleOf returns the user's role in the project, or ErrForbidden when no
// membership row exists.
func (s *Service) RoleOf(projectID, userID uint64) (models.ProjectRole, error) {
	var member models.ProjectMember
	err := s.db.Where("project_id = ? AND user_id = ?", projectID, userID).
		First(&member).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrForbidden
		}
		return "", err
	}
	return member.Role, nil
}

// Authorize decides whether userID may perform an operation requiring the
// given tier in projectID. Returns nil on ALLOW, ErrForbidden on DENY, or a
// store error.
func (s *Service) Authorize(projectID, userID uint64, tier Tier) error {
	role, err := s.RoleOf(projectID, userID)
	if err != nil {
		return err
	}
	if !tierSatisfied(role, tier) {
		return ErrForbidden
	}
	return nil
}

func tierSatisfied(role models.ProjectRole, tier Tier) bool {
	switch tier {
	case TierMember:
		return role.Valid()
	case TierAdminOrOwner:
		return role == models.RoleOwner || role == models.RoleAdmin
	case TierOwnerOnly:
		return role == models.RoleOwner
	default:
		return false
	}
}
