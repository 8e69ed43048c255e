package models

import "time"

// TaskLabel belongs to a project; it can only be attached to tasks of the
// same project.
type TaskLabel struct {
	ID        uint64    `gorm:"primarykey" json:"id"`
	ProjectID uint64    `gorm:"not null;index" json:"project_id"`
	Name      string    `gorm:"type:varchar(100);not null" json:"name"`
	Color     string    `gorm:"type:varchar(20);not null" json:"color"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Project Project `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
}

// TaskLabelMap is the (task, label) association. The composite primary key
// makes label assignment an atomic upsert-or-ignore.
type TaskLabelMap struct {
	TaskID  uint64 `gorm:"primarykey" json:"task_id"`
	LabelID uint64 `gorm:"primarykey" json:"label_id"`
}

func (TaskLabelMap) TableName() string {
	return "task_label_map"
}
