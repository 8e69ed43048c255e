package constants

import "time"

// Context keys set by middleware and read by handlers
const (
	ContextKeyUserID      = "user_id"
	ContextKeyProjectID   = "project_id"
	ContextKeyProjectRole = "project_role"
	ContextKeyTask        = "task"
)

// Token settings
const (
	TokenTTL = 7 * 24 * time.Hour
)

// Pagination settings
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)
