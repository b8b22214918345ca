package db

import (
	"github.com/doviland/gestionale/internal/models"
	"gorm.io/gorm"
)

type ActivityRepository struct {
	database *gorm.DB
}

func NewActivityRepository(database *gorm.DB) *ActivityRepository {
	return &ActivityRepository{database: database}
}

// Append inserts one log entry. There is deliberately no update or delete
// path on this repository.
func (repo *ActivityRepository) Append(entry *models.ActivityLog) error {
	return repo.database.Create(entry).Error
}

// ActivityEntry is a log row enriched with the actor's display name.
type ActivityEntry struct {
	models.ActivityLog
	UserName string `gorm:"column:user_name" json:"user_name"`
}

// Recent returns the newest entries, actor name included.
func (repo *ActivityRepository) Recent(limit int) ([]ActivityEntry, error) {
	entries := make([]ActivityEntry, 0, limit)
	if err := repo.database.Model(&models.ActivityLog{}).
		Select("activity_logs.*, users.name AS user_name").
		Joins("LEFT JOIN users ON users.id = activity_logs.user_id").
		Order("activity_logs.created_at DESC, activity_logs.id DESC").
		Limit(limit).
		Scan(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}
