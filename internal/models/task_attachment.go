package models

import "time"

// TaskAttachment references an externally stored blob. Deleting the row
// triggers a best-effort blob delete; a blob-store failure never blocks the
// row removal.
type TaskAttachment struct {
	ID        uint64    `gorm:"primarykey" json:"id"`
	TaskID    uint64    `gorm:"not null;index" json:"task_id"`
	FileURL   string    `gorm:"type:varchar(500);not null" json:"file_url"`
	FileName  string    `gorm:"type:varchar(255);not null" json:"file_name"`
	Size      int64     `gorm:"not null;default:0" json:"size"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`

	// Relations
	Task ProjectTask `gorm:"foreignKey:TaskID" json:"task,omitempty"`
}
