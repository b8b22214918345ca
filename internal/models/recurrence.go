package models

import "time"

const (
	FrequencyMonthly   = "monthly"
	FrequencyQuarterly = "quarterly"
	FrequencyYearly    = "yearly"
)

// TaskRecurrence stores a project's renewal cadence. The next execution
// date is informational: nothing in the system acts on it automatically.
type TaskRecurrence struct {
	ID                uint       `gorm:"primaryKey" json:"id"`
	ProjectID         uint       `gorm:"not null;uniqueIndex" json:"project_id"`
	Frequency         string     `gorm:"not null" json:"frequency"`
	NextExecutionDate time.Time  `gorm:"type:date;not null" json:"next_execution_date"`
	LastExecutionDate *time.Time `gorm:"type:date" json:"last_execution_date,omitempty"`
	IsActive          bool       `gorm:"not null;default:true" json:"is_active"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

func IsValidFrequency(frequency string) bool {
	switch frequency {
	case FrequencyMonthly, FrequencyQuarterly, FrequencyYearly:
		return true
	}
	return false
}

// NextExecutionFrom computes the next execution date for a frequency
// starting from the given moment.
func NextExecutionFrom(now time.Time, frequency string) time.Time {
	switch frequency {
	case FrequencyMonthly:
		return now.AddDate(0, 1, 0)
	case FrequencyQuarterly:
		return now.AddDate(0, 3, 0)
	case FrequencyYearly:
		return now.AddDate(1, 0, 0)
	}
	return now
}
