package models

import (
	"time"
)

type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "todo"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusDone       TaskStatus = "done"
)

// Valid reports whether s is one of the known statuses. Transitions between
// statuses are unrestricted.
func (s TaskStatus) Valid() bool {
	return s == TaskStatusTodo || s == TaskStatusInProgress || s == TaskStatusDone
}

type TaskPriority string

const (
	PriorityLow    TaskPriority = "low"
	PriorityMedium TaskPriority = "medium"
	PriorityHigh   TaskPriority = "high"
)

func (p TaskPriority) Valid() bool {
	return p == PriorityLow || p == PriorityMedium || p == PriorityHigh
}

// ProjectTask belongs to exactly one project and optionally one list.
// AssigneeID is a denormalized single-assignee pointer kept alongside the
// task_assignees relation; the two are independent.
type ProjectTask struct {
	ID          uint64       `gorm:"primarykey" json:"id"`
	ProjectID   uint64       `gorm:"not null;index" json:"project_id"`
	ListID      *uint64      `gorm:"index" json:"list_id"`
	Title       string       `gorm:"type:varchar(255);not null" json:"title"`
	Description *string      `gorm:"type:text" json:"description"`
	Status      TaskStatus   `gorm:"type:varchar(20);not null;default:'todo'" json:"status"`
	AssigneeID  *uint64      `json:"assignee_id"`
	DueDate     *time.Time   `json:"due_date"`
	Priority    TaskPriority `gorm:"type:varchar(10);not null;default:'medium'" json:"priority"`
	ReminderAt  *time.Time   `json:"reminder_at"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`

	// Relations
	Project     Project           `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	List        *ProjectList      `gorm:"foreignKey:ListID" json:"list,omitempty"`
	Comments    []TaskComment     `gorm:"foreignKey:TaskID" json:"comments,omitempty"`
	Attachments []TaskAttachment  `gorm:"foreignKey:TaskID" json:"attachments,omitempty"`
	Checklists  []TaskChecklist   `gorm:"foreignKey:TaskID" json:"checklists,omitempty"`
	Assignees   []TaskAssignee    `gorm:"foreignKey:TaskID" json:"assignees,omitempty"`
}
