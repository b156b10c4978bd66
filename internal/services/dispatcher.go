package services

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"huddle/internal/models"

	"gorm.io/gorm"
)

// DispatchSummary is what a dispatch tick reports back to its trigger
type DispatchSummary struct {
	Processed int `json:"processed"`
	Sent      int `json:"sent"`
	Failed    int `json:"failed"`
}

type dispatchOutcome int

const (
	outcomeSkipped dispatchOutcome = iota // another tick owns the row
	outcomeSent
	outcomeFailed
)

// DispatcherService drains due notifications. It owns no timer; an external
// trigger (cron, the HTTP entrypoint) invokes RunOnce. Overlapping invocations
// are safe: the per-row claim decides which tick gets to send each row, and
// sent_at is the single source of truth for "done".
type DispatcherService struct {
	db         *gorm.DB
	sender     EmailSender
	stats      *StatsService
	workers    int
	claimLease time.Duration
	batchLimit int
}

func NewDispatcherService(db *gorm.DB, sender EmailSender, stats *StatsService) *DispatcherService {
	return &DispatcherService{
		db:         db,
		sender:     sender,
		stats:      stats,
		workers:    5,
		claimLease: 2 * time.Minute,
		batchLimit: 500,
	}
}

// RunOnce performs one dispatch tick and returns its summary. If the stats
// query reports nothing due, it returns immediately without touching the
// provider.
func (d *DispatcherService) RunOnce(ctx context.Context) (DispatchSummary, error) {
	var summary DispatchSummary

	stats, err := d.stats.NotificationStats()
	if err != nil {
		return summary, fmt.Errorf("failed to read notification stats: %w", err)
	}
	if stats.DuePending == 0 {
		return summary, nil
	}

	now := time.Now().UTC()
	var due []models.Notification
	if err := d.db.Where("sent_at IS NULL AND scheduled_for <= ?", now).
		Order("scheduled_for ASC").
		Limit(d.batchLimit).
		Find(&due).Error; err != nil {
		return summary, fmt.Errorf("failed to query due notifications: %w", err)
	}

	jobs := make(chan models.Notification)
	var wg sync.WaitGroup
	var mu sync.Mutex

	for i := 0; i < d.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for notification := range jobs {
				outcome := d.process(ctx, notification)
				mu.Lock()
				switch outcome {
				case outcomeSent:
					summary.Processed++
					summary.Sent++
				case outcomeFailed:
					summary.Processed++
					summary.Failed++
				}
				mu.Unlock()
			}
		}()
	}

feed:
	for _, notification := range due {
		select {
		case <-ctx.Done():
			break feed
		case jobs <- notification:
		}
	}
	close(jobs)
	wg.Wait()

	if summary.Processed > 0 {
		log.Printf("Dispatch tick complete: processed=%d sent=%d failed=%d", summary.Processed, summary.Sent, summary.Failed)
	}
	return summary, nil
}

// process takes one due notification through claim, render, send and mark
func (d *DispatcherService) process(ctx context.Context, notification models.Notification) dispatchOutcome {
	claimed, err := d.claim(notification.ID)
	if err != nil {
		log.Printf("Error: Failed to claim notification %d: %v", notification.ID, err)
		return outcomeFailed
	}
	if !claimed {
		return outcomeSkipped
	}

	content, err := d.render(notification)
	if err != nil {
		log.Printf("Warning: Skipping notification %d: %v", notification.ID, err)
		return outcomeFailed
	}

	providerID, err := d.sender.Send(ctx, content.toEmail, content.toName, content.subject, content.plain, content.html)
	if err != nil {
		d.recordFailure(notification.ID)
		log.Printf("Error: Delivery failed for notification %d: %v", notification.ID, err)
		return outcomeFailed
	}

	if err := d.markSent(notification.ID); err != nil {
		// The email went out but the row is still pending, so the next tick
		// may re-send it. Accepted at-least-once window; sent_at stays the
		// source of truth.
		log.Printf("Error: Failed to mark notification %d sent (provider message %s): %v", notification.ID, providerID, err)
		return outcomeFailed
	}
	return outcomeSent
}

// claim takes a short lease on the row. Only one concurrent tick can win the
// update because it is a single conditional UPDATE; a crashed claimant's row
// becomes claimable again once the lease expires.
func (d *DispatcherService) claim(id uint) (bool, error) {
	now := time.Now().UTC()
	result := d.db.Model(&models.Notification{}).
		Where("id = ? AND sent_at IS NULL AND (claimed_at IS NULL OR claimed_at < ?)", id, now.Add(-d.claimLease)).
		Update("claimed_at", now)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// markSent records successful delivery. Idempotent: once sent_at is set the
// conditional UPDATE matches nothing, so calling it again (for example after a
// restart mid-batch) changes nothing.
func (d *DispatcherService) markSent(id uint) error {
	return d.db.Model(&models.Notification{}).
		Where("id = ? AND sent_at IS NULL", id).
		Updates(map[string]interface{}{
			"sent_at":    time.Now().UTC(),
			"email_sent": true,
		}).Error
}

// recordFailure bumps the attempt counter. Observability only; failed rows are
// retried on the next tick regardless.
func (d *DispatcherService) recordFailure(id uint) {
	err := d.db.Model(&models.Notification{}).
		Where("id = ?", id).
		UpdateColumn("attempts", gorm.Expr("attempts + 1")).Error
	if err != nil {
		log.Printf("Warning: Failed to record delivery attempt for notification %d: %v", id, err)
	}
}

type deliveryContent struct {
	toEmail string
	toName  string
	subject string
	plain   string
	html    string
}

// render resolves the recipient address and builds the email for one
// notification. Any failure here skips just this item.
func (d *DispatcherService) render(notification models.Notification) (deliveryContent, error) {
	var account models.Account
	if err := d.db.Where("username = ?", notification.UserID).First(&account).Error; err != nil {
		return deliveryContent{}, fmt.Errorf("failed to resolve recipient %s: %w", notification.UserID, err)
	}

	var message models.ChatMessage
	if err := d.db.Where("id = ?", notification.ChatMessageID).First(&message).Error; err != nil {
		return deliveryContent{}, fmt.Errorf("failed to load chat message %d: %w", notification.ChatMessageID, err)
	}

	var event models.Event
	if err := d.db.Where("id = ?", notification.EventID).First(&event).Error; err != nil {
		return deliveryContent{}, fmt.Errorf("failed to load event %s: %w", notification.EventID, err)
	}

	sender := message.DisplayName()
	return deliveryContent{
		toEmail: account.Email,
		toName:  account.DisplayName,
		subject: fmt.Sprintf("New message in %s", event.Name),
		plain: fmt.Sprintf("Hello %s, %s wrote in '%s': %s",
			account.DisplayName, sender, event.Name, message.Body),
		html: fmt.Sprintf("<p>Hello %s,</p><p><strong>%s</strong> wrote in '<strong>%s</strong>':</p><p>%s</p>",
			account.DisplayName, sender, event.Name, message.Body),
	}, nil
}
