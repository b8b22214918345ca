package models

import "time"

// TaskTemplate is one entry of a template's ordered task list. The list is
// persisted as a JSON column; the serializer boundary stays inside the
// storage layer.
type TaskTemplate struct {
	Title          string  `json:"title"`
	Description    string  `json:"description,omitempty"`
	Priority       string  `json:"priority,omitempty"`
	EstimatedHours float64 `json:"estimated_hours,omitempty"`
}

type ProjectTemplate struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Name         string         `gorm:"not null" json:"name"`
	Description  string         `json:"description,omitempty"`
	Area         string         `gorm:"not null;index" json:"area"`
	DefaultTasks []TaskTemplate `gorm:"serializer:json" json:"default_tasks"`
	IsActive     bool           `gorm:"not null;default:true" json:"is_active"`
	CreatedBy    uint           `gorm:"not null" json:"created_by"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}
