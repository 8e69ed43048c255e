package models

import (
	"time"
)

// ProjectList is an ordered column within a project. Position is a
// display-ordering integer, dense-ish but not guaranteed contiguous.
type ProjectList struct {
	ID        uint64    `gorm:"primarykey" json:"id"`
	ProjectID uint64    `gorm:"not null;uniqueIndex:idx_project_lists_project_title" json:"project_id"`
	Title     string    `gorm:"type:varchar(200);not null;uniqueIndex:idx_project_lists_project_title" json:"title"`
	Position  int       `gorm:"not null;default:0" json:"position"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Project Project       `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	Tasks   []ProjectTask `gorm:"foreignKey:ListID" json:"tasks,omitempty"`
}
