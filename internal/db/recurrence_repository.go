package db

import (
	"errors"
	"time"

	"github.com/doviland/gestionale/internal/models"
	"gorm.io/gorm"
)

type RecurrenceRepository struct {
	database *gorm.DB
}

func NewRecurrenceRepository(database *gorm.DB) *RecurrenceRepository {
	return &RecurrenceRepository{database: database}
}

func (repo *RecurrenceRepository) FindActiveByProject(projectID uint) (models.TaskRecurrence, error) {
	var recurrence models.TaskRecurrence
	if err := repo.database.
		Where("project_id = ? AND is_active = ?", projectID, true).
		First(&recurrence).Error; err != nil {
		return models.TaskRecurrence{}, err
	}
	return recurrence, nil
}

// Upsert keeps at most one recurrence row per project: an existing row is
// rewritten and reactivated, otherwise a fresh one is inserted.
func (repo *RecurrenceRepository) Upsert(projectID uint, frequency string, nextExecution time.Time) error {
	return repo.database.Transaction(func(tx *gorm.DB) error {
		var existing models.TaskRecurrence
		err := tx.Where("project_id = ?", projectID).First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return tx.Create(&models.TaskRecurrence{
				ProjectID:         projectID,
				Frequency:         frequency,
				NextExecutionDate: nextExecution,
				IsActive:          true,
			}).Error
		}
		if err != nil {
			return err
		}

		return tx.Model(&existing).Updates(map[string]any{
			"frequency":           frequency,
			"next_execution_date": nextExecution,
			"is_active":           true,
		}).Error
	})
}
