package services

import (
	"time"

	"huddle/internal/models"

	"gorm.io/gorm"
)

// NotificationStats is a read-only snapshot of the notification table, used by
// monitoring and to gate dispatch ticks that have nothing to do
type NotificationStats struct {
	DuePending       int64 `json:"due_pending"`
	ScheduledPending int64 `json:"scheduled_pending"`
	TotalSent        int64 `json:"total_sent"`
}

type StatsService struct {
	db *gorm.DB
}

func NewStatsService(db *gorm.DB) *StatsService {
	return &StatsService{db: db}
}

// NotificationStats counts pending and delivered notifications. Pure read, no
// side effects, safe to call at any frequency.
func (s *StatsService) NotificationStats() (NotificationStats, error) {
	now := time.Now().UTC()
	var stats NotificationStats

	if err := s.db.Model(&models.Notification{}).
		Where("sent_at IS NULL AND scheduled_for <= ?", now).
		Count(&stats.DuePending).Error; err != nil {
		return NotificationStats{}, err
	}

	if err := s.db.Model(&models.Notification{}).
		Where("sent_at IS NULL AND scheduled_for > ?", now).
		Count(&stats.ScheduledPending).Error; err != nil {
		return NotificationStats{}, err
	}

	if err := s.db.Model(&models.Notification{}).
		Where("email_sent = ?", true).
		Count(&stats.TotalSent).Error; err != nil {
		return NotificationStats{}, err
	}

	return stats, nil
}
