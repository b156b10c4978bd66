package services

import (
	"fmt"
	"log"
	"time"

	"huddle/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SchedulerService struct {
	db    *gorm.DB
	prefs *PreferenceService
}

func NewSchedulerService(db *gorm.DB, prefs *PreferenceService) *SchedulerService {
	return &SchedulerService{db: db, prefs: prefs}
}

// ScheduleForMessage creates notification rows for everyone who should hear
// about a newly posted chat message: the event organiser plus approved
// signups, minus the sender. Each recipient's preference is snapshotted at
// scheduling time. Returns how many rows were created.
//
// Inserts go through ON CONFLICT DO NOTHING on (user_id, chat_message_id), so
// running this twice for the same message never produces duplicate rows.
func (s *SchedulerService) ScheduleForMessage(msg *models.ChatMessage) (int, error) {
	now := time.Now().UTC()

	var event models.Event
	if err := s.db.Where("id = ?", msg.EventID).First(&event).Error; err != nil {
		return 0, fmt.Errorf("failed to load event %s: %w", msg.EventID, err)
	}

	var signups []models.EventSignup
	if err := s.db.Where("event_id = ? AND status = ?", event.ID, models.SignupApproved).Find(&signups).Error; err != nil {
		return 0, fmt.Errorf("failed to load signups for event %s: %w", event.ID, err)
	}

	sender := senderUsername(msg, &event)

	created := 0
	for _, username := range recipients(&event, signups, sender) {
		pref := s.prefs.Resolve(username)
		if !pref.ChatNotifications || pref.Cadence == models.CadenceNever {
			continue
		}

		due, ok := NextBoundary(pref.Cadence, now)
		if !ok {
			continue
		}

		// Daily/weekly recipients get one outstanding notification per event
		// per window, no matter how many messages arrive before it is sent.
		if pref.Cadence != models.CadenceImmediate {
			var pending int64
			err := s.db.Model(&models.Notification{}).
				Where("user_id = ? AND event_id = ? AND sent_at IS NULL AND scheduled_for = ?", username, event.ID, due).
				Count(&pending).Error
			if err != nil {
				log.Printf("Warning: Failed to check pending notifications for %s: %v", username, err)
				continue
			}
			if pending > 0 {
				continue
			}
		}

		notification := models.Notification{
			UserID:        username,
			ChatMessageID: msg.ID,
			EventID:       event.ID,
			ScheduledFor:  due,
		}
		result := s.db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "chat_message_id"}},
			DoNothing: true,
		}).Create(&notification)
		if result.Error != nil {
			log.Printf("Warning: Failed to create notification for %s on message %d: %v", username, msg.ID, result.Error)
			continue
		}
		if result.RowsAffected > 0 {
			created++
		}
	}

	return created, nil
}

// senderUsername resolves which account posted the message. Messages sent on
// behalf of the organisation are posted by the organiser, so the organiser is
// the one excluded from notification.
func senderUsername(msg *models.ChatMessage, event *models.Event) string {
	if msg.SenderUsername != nil && *msg.SenderUsername != "" {
		return *msg.SenderUsername
	}
	if msg.SenderOrg != nil && *msg.SenderOrg != "" {
		return event.OrganiserID
	}
	return ""
}

// recipients builds the notification audience: organiser first, then approved
// signups, deduplicated, with the sender excluded
func recipients(event *models.Event, signups []models.EventSignup, sender string) []string {
	seen := make(map[string]bool)
	var out []string

	add := func(username string) {
		if username == "" || username == sender || seen[username] {
			return
		}
		seen[username] = true
		out = append(out, username)
	}

	add(event.OrganiserID)
	for _, signup := range signups {
		add(signup.Username)
	}
	return out
}
