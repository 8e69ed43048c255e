package models

import "time"

type TaskChecklist struct {
	ID        uint64    `gorm:"primarykey" json:"id"`
	TaskID    uint64    `gorm:"not null;index" json:"task_id"`
	Title     string    `gorm:"type:varchar(200);not null" json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Task  ProjectTask         `gorm:"foreignKey:TaskID" json:"task,omitempty"`
	Items []TaskChecklistItem `gorm:"foreignKey:ChecklistID" json:"items,omitempty"`
}

// TaskChecklistItem resolves its owning project through
// item -> checklist -> task -> project.
type TaskChecklistItem struct {
	ID          uint64    `gorm:"primarykey" json:"id"`
	ChecklistID uint64    `gorm:"not null;index" json:"checklist_id"`
	Title       string    `gorm:"type:varchar(200);not null" json:"title"`
	Completed   bool      `gorm:"not null;default:false" json:"completed"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Relations
	Checklist TaskChecklist `gorm:"foreignKey:ChecklistID" json:"checklist,omitempty"`
}
