package models

import "time"

// Cadence is a user's configured notification frequency class
type Cadence string

const (
	CadenceImmediate Cadence = "immediate"
	CadenceDaily     Cadence = "daily"
	CadenceWeekly    Cadence = "weekly"
	CadenceNever     Cadence = "never"
)

// Valid reports whether the cadence is one of the known classes
func (c Cadence) Valid() bool {
	switch c {
	case CadenceImmediate, CadenceDaily, CadenceWeekly, CadenceNever:
		return true
	}
	return false
}

// NotificationPreference holds a user's delivery cadence and opt-in flags.
// Absence of a row means the defaults apply; see DefaultPreference.
type NotificationPreference struct {
	// No column defaults here: false must round-trip as false, and GORM
	// omits zero-valued fields that carry a default tag.
	Username          string    `gorm:"primaryKey;size:30" json:"username"`
	Cadence           Cadence   `gorm:"size:10;not null" json:"cadence"`
	ChatNotifications bool      `gorm:"not null" json:"chat_notifications"`
	EventUpdates      bool      `gorm:"not null" json:"event_updates"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// DefaultPreference is what a user gets when they never saved preferences:
// immediate delivery with everything switched on.
func DefaultPreference(username string) NotificationPreference {
	return NotificationPreference{
		Username:          username,
		Cadence:           CadenceImmediate,
		ChatNotifications: true,
		EventUpdates:      true,
	}
}

// UpdatePreferenceRequest represents the data needed to upsert preferences
type UpdatePreferenceRequest struct {
	Cadence           Cadence `json:"cadence" binding:"required,oneof=immediate daily weekly never"`
	ChatNotifications *bool   `json:"chat_notifications" binding:"required"`
	EventUpdates      *bool   `json:"event_updates" binding:"required"`
}
