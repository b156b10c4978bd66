package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// SignupStatus values for an event signup
const (
	SignupApproved = "approved"
	SignupPending  = "pending"
)

// Event represents a gathering that members chat about and get notified for
type Event struct {
	ID           string         `gorm:"primaryKey;size:50" json:"id"`
	Name         string         `gorm:"size:100;not null" json:"name"`
	Organisation string         `gorm:"size:100" json:"organisation"` // optional organising body, used when messages are posted on its behalf
	DateTime     time.Time      `gorm:"not null;index" json:"date_time"`
	Venue        datatypes.JSON `gorm:"type:jsonb" json:"venue"`
	Description  string         `gorm:"type:text" json:"description"`
	OrganiserID  string         `gorm:"size:30;not null;index" json:"organiser_id"`
	Signups      []EventSignup  `gorm:"foreignKey:EventID" json:"signups,omitempty"`
	CreatedAt    time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"not null" json:"updated_at"`
}

// BeforeCreate hook is called before creating a new event
func (e *Event) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	now := time.Now()
	if e.CreatedAt.IsZero() {
		e.CreatedAt = now
	}
	if e.UpdatedAt.IsZero() {
		e.UpdatedAt = now
	}
	return nil
}

// EventSignup represents a user's membership in an event
type EventSignup struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	EventID   string    `gorm:"size:50;not null;uniqueIndex:idx_signup_event_user,priority:1" json:"event_id"`
	Username  string    `gorm:"size:30;not null;uniqueIndex:idx_signup_event_user,priority:2" json:"username"`
	Status    string    `gorm:"size:10;not null;default:approved" json:"status"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

// BeforeCreate hook for event signups
func (s *EventSignup) BeforeCreate(tx *gorm.DB) error {
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now()
	}
	if s.Status == "" {
		s.Status = SignupApproved
	}
	return nil
}

// CreateEventRequest represents the data needed to create a new event
type CreateEventRequest struct {
	Name         string         `json:"name" binding:"required,max=100"`
	Organisation string         `json:"organisation" binding:"max=100"`
	DateTime     time.Time      `json:"date_time" binding:"required"`
	Venue        datatypes.JSON `json:"venue"`
	Description  string         `json:"description" binding:"required"`
}
