package models

// TaskAssignee is the many-to-many assignee relation. The composite primary
// key makes concurrent assignment of the same pair idempotent.
type TaskAssignee struct {
	TaskID uint64 `gorm:"primarykey" json:"task_id"`
	UserID uint64 `gorm:"primarykey" json:"user_id"`

	// Relations
	Task ProjectTask `gorm:"foreignKey:TaskID" json:"task,omitempty"`
	User User        `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
