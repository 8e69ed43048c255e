package models

import (
	"time"
)

type Project struct {
	ID            uint64     `gorm:"primarykey" json:"id"`
	OwnerID       uint64     `gorm:"not null;index" json:"owner_id"`
	Name          string     `gorm:"type:varchar(200);not null" json:"name"`
	Description   *string    `gorm:"type:text" json:"description"`
	Color         *string    `gorm:"type:varchar(20)" json:"color"`
	BackgroundURL *string    `gorm:"type:varchar(500)" json:"background_url"`
	ArchivedAt    *time.Time `json:"archived_at"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`

	// Relations
	Owner   User            `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	Members []ProjectMember `gorm:"foreignKey:ProjectID" json:"members,omitempty"`
	Lists   []ProjectList   `gorm:"foreignKey:ProjectID" json:"lists,omitempty"`
	Tasks   []ProjectTask   `gorm:"foreignKey:ProjectID" json:"tasks,omitempty"`
	Labels  []TaskLabel     `gorm:"foreignKey:ProjectID" json:"labels,omitempty"`
}
