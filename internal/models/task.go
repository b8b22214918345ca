package models

import "time"

const (
	TaskStatusPending    = "pending"
	TaskStatusInProgress = "in_progress"
	TaskStatusCompleted  = "completed"
	TaskStatusBlocked    = "blocked"
)

const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

type Task struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	ProjectID      uint       `gorm:"not null;index" json:"project_id"`
	Title          string     `gorm:"not null" json:"title"`
	Description    string     `json:"description,omitempty"`
	Area           string     `gorm:"not null;index" json:"area"`
	AssignedTo     *uint      `gorm:"index" json:"assigned_to,omitempty"`
	Status         string     `gorm:"not null;default:pending" json:"status"`
	Priority       string     `gorm:"not null;default:medium" json:"priority"`
	DueDate        *time.Time `gorm:"type:date" json:"due_date,omitempty"`
	CompletedAt    *time.Time `json:"completed_at,omitempty"`
	EstimatedHours *float64   `json:"estimated_hours,omitempty"`
	Notes          string     `json:"notes,omitempty"`
	CreatedBy      uint       `gorm:"not null" json:"created_by"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// IsOverdue reports whether the task is past due relative to today.
// Completed tasks are never overdue.
func (task *Task) IsOverdue(today time.Time) bool {
	if task == nil || task.Status == TaskStatusCompleted || task.DueDate == nil {
		return false
	}
	return task.DueDate.Before(today)
}

func IsValidTaskStatus(status string) bool {
	switch status {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted, TaskStatusBlocked:
		return true
	}
	return false
}

func IsValidPriority(priority string) bool {
	switch priority {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// PriorityRank orders priorities for due-date/priority sorting; higher
// means more urgent.
func PriorityRank(priority string) int {
	switch priority {
	case PriorityUrgent:
		return 3
	case PriorityHigh:
		return 2
	case PriorityMedium:
		return 1
	case PriorityLow:
		return 0
	}
	return 0
}
