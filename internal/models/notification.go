package models

import (
	"time"

	"gorm.io/gorm"
)

// Notification is a pending or delivered email notification for one chat
// message and one recipient. Rows are created by the scheduler and move from
// pending (sent_at null) to sent exactly once, via the dispatcher's claim and
// mark steps. The unique index on (user_id, chat_message_id) is what makes
// duplicate scheduling triggers harmless.
type Notification struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	UserID        string     `gorm:"size:30;not null;uniqueIndex:idx_notification_user_message,priority:1" json:"user_id"`
	ChatMessageID uint       `gorm:"not null;uniqueIndex:idx_notification_user_message,priority:2" json:"chat_message_id"`
	EventID       string     `gorm:"size:50;not null;index" json:"event_id"`
	ScheduledFor  time.Time  `gorm:"not null;index" json:"scheduled_for"`
	SentAt        *time.Time `gorm:"index" json:"sent_at"`
	EmailSent     bool       `gorm:"not null" json:"email_sent"`
	ClaimedAt     *time.Time `json:"-"` // dispatch lease, not part of the API surface
	Attempts      int        `gorm:"not null" json:"attempts"`
	CreatedAt     time.Time  `gorm:"not null" json:"created_at"`
}

// BeforeCreate hook is called before creating a new notification
func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}
	return nil
}

// Pending reports whether the notification still awaits delivery.
func (n *Notification) Pending() bool {
	return n.SentAt == nil
}
