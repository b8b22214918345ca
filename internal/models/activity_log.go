package models

import "time"

const (
	EntityUser     = "user"
	EntityClient   = "client"
	EntityProject  = "project"
	EntityTask     = "task"
	EntityTemplate = "template"
)

const (
	ActionCreated   = "created"
	ActionUpdated   = "updated"
	ActionDeleted   = "deleted"
	ActionCompleted = "completed"
	ActionAssigned  = "assigned"
)

// ActivityLog is append-only: rows are written by every mutation and are
// never updated or deleted.
type ActivityLog struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uint      `gorm:"not null;index" json:"user_id"`
	EntityType string    `gorm:"not null" json:"entity_type"`
	EntityID   uint      `gorm:"not null" json:"entity_id"`
	Action     string    `gorm:"not null" json:"action"`
	Details    string    `json:"details,omitempty"`
	CreatedAt  time.Time `gorm:"index" json:"created_at"`
}
