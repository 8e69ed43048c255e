package models

import "time"

type ProjectRole string

const (
	RoleOwner  ProjectRole = "owner"
	RoleAdmin  ProjectRole = "admin"
	RoleMember ProjectRole = "member"
)

// Valid reports whether r is one of the known roles.
func (r ProjectRole) Valid() bool {
	return r == RoleOwner || r == RoleAdmin || r == RoleMember
}

// ProjectMember maps a user to a project with a role. A live project has
// exactly one member with RoleOwner; the membership operations refuse to
// grant the owner role or take it away.
type ProjectMember struct {
	ProjectID uint64      `gorm:"primarykey" json:"project_id"`
	UserID    uint64      `gorm:"primarykey" json:"user_id"`
	Role      ProjectRole `gorm:"type:varchar(20);not null;default:'member'" json:"role"`
	AddedAt   time.Time   `gorm:"autoCreateTime" json:"added_at"`

	// Relations
	Project Project `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	User    User    `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
