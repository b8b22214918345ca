package services

import (
	"github.com/doviland/gestionale/internal/models"
	"github.com/rs/zerolog"
)

type ActivityStore interface {
	Append(entry *models.ActivityLog) error
}

// ActivityLogger appends who-did-what-when entries for every mutation.
// Log writes happen after the mutation and outside its transaction, so a
// failed append must not fail the request; it is reported and dropped.
type ActivityLogger struct {
	activities ActivityStore
	logger     zerolog.Logger
}

func NewActivityLogger(activities ActivityStore, logger zerolog.Logger) *ActivityLogger {
	return &ActivityLogger{activities: activities, logger: logger}
}

func (recorder *ActivityLogger) Record(actorID uint, entityType string, entityID uint, action string, details string) {
	entry := models.ActivityLog{
		UserID:     actorID,
		EntityType: entityType,
		EntityID:   entityID,
		Action:     action,
		Details:    details,
	}
	if err := recorder.activities.Append(&entry); err != nil {
		recorder.logger.Warn().
			Err(err).
			Str("entity_type", entityType).
			Uint("entity_id", entityID).
			Str("action", action).
			Msg("activity log append failed")
	}
}
