package models

import "time"

// TaskComment is editable and deletable only by its author.
type TaskComment struct {
	ID        uint64    `gorm:"primarykey" json:"id"`
	TaskID    uint64    `gorm:"not null;index" json:"task_id"`
	UserID    uint64    `gorm:"not null" json:"user_id"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`

	// Relations
	Task ProjectTask `gorm:"foreignKey:TaskID" json:"task,omitempty"`
	User User        `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
