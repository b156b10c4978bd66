package services

import (
	"errors"
	"log"

	"huddle/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PreferenceService struct {
	db *gorm.DB
}

func NewPreferenceService(db *gorm.DB) *PreferenceService {
	return &PreferenceService{db: db}
}

// Resolve returns the user's notification preference, falling back to the
// defaults (immediate, everything on) when no row exists. A lookup failure is
// logged and also falls back to the defaults so one broken read never blocks
// scheduling for other recipients.
func (s *PreferenceService) Resolve(username string) models.NotificationPreference {
	var pref models.NotificationPreference
	if err := s.db.Where("username = ?", username).First(&pref).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("Warning: Preference lookup failed for %s, using defaults: %v", username, err)
		}
		return models.DefaultPreference(username)
	}

	if !pref.Cadence.Valid() {
		log.Printf("Warning: Unknown cadence %q for %s, treating as immediate", pref.Cadence, username)
		pref.Cadence = models.CadenceImmediate
	}
	return pref
}

// Upsert saves the user's preference, replacing any existing row.
func (s *PreferenceService) Upsert(username string, req models.UpdatePreferenceRequest) (models.NotificationPreference, error) {
	pref := models.NotificationPreference{
		Username:          username,
		Cadence:           req.Cadence,
		ChatNotifications: *req.ChatNotifications,
		EventUpdates:      *req.EventUpdates,
	}

	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "username"}},
		DoUpdates: clause.AssignmentColumns([]string{"cadence", "chat_notifications", "event_updates", "updated_at"}),
	}).Create(&pref).Error
	if err != nil {
		return models.NotificationPreference{}, err
	}
	return pref, nil
}
