package models

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

// ChatMessage represents a chat message posted on an event. Messages are
// immutable once created; the notification pipeline only ever reads them.
type ChatMessage struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	EventID        string    `gorm:"size:50;not null;index:idx_chat_message_event_created" json:"event_id"`
	SenderUsername *string   `gorm:"size:30;index" json:"sender_username,omitempty"`
	SenderOrg      *string   `gorm:"size:100" json:"sender_org,omitempty"`
	Anonymous      bool      `gorm:"not null;default:false" json:"anonymous"`
	Body           string    `gorm:"type:text;not null" json:"body"`
	CreatedAt      time.Time `gorm:"not null;index:idx_chat_message_event_created" json:"created_at"`

	// Relationships
	Event Event `gorm:"foreignKey:EventID" json:"event,omitempty"`
}

// BeforeCreate hook enforces the sender invariant: exactly one of user or
// organisation, never both, never neither. Anonymous messages still carry
// the sender for audit.
func (m *ChatMessage) BeforeCreate(tx *gorm.DB) error {
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}
	hasUser := m.SenderUsername != nil && *m.SenderUsername != ""
	hasOrg := m.SenderOrg != nil && *m.SenderOrg != ""
	if hasUser == hasOrg {
		return errors.New("chat message must have exactly one sender: user or organisation")
	}
	return nil
}

// DisplayName returns the sender name recipients see. Anonymous senders are
// stored for audit but always render as "Anonymous".
func (m *ChatMessage) DisplayName() string {
	if m.Anonymous {
		return "Anonymous"
	}
	if m.SenderOrg != nil && *m.SenderOrg != "" {
		return *m.SenderOrg
	}
	if m.SenderUsername != nil && *m.SenderUsername != "" {
		return *m.SenderUsername
	}
	return "Anonymous"
}

// SendMessageRequest represents the data needed to post a message
type SendMessageRequest struct {
	Body           string `json:"body" binding:"required,max=2000"`
	AsOrganisation bool   `json:"as_organisation"`
	Anonymous      bool   `json:"anonymous"`
}
