package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"huddle/internal/database"
	"huddle/internal/models"
	"huddle/internal/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// isEventMember reports whether the user may read and post on the event chat
func isEventMember(db *gorm.DB, event *models.Event, username string) bool {
	if event.OrganiserID == username {
		return true
	}
	var count int64
	if err := db.Model(&models.EventSignup{}).
		Where("event_id = ? AND username = ? AND status = ?", event.ID, username, models.SignupApproved).
		Count(&count).Error; err != nil {
		log.Printf("Warning: Failed to check membership for %s on event %s: %v", username, event.ID, err)
		return false
	}
	return count > 0
}

// messageView is what recipients see: sender identity is replaced by the
// display name, so anonymous messages stay anonymous
type messageView struct {
	ID        uint      `json:"id"`
	EventID   string    `json:"event_id"`
	Sender    string    `json:"sender"`
	Body      string    `json:"body"`
	Anonymous bool      `json:"anonymous"`
	CreatedAt time.Time `json:"created_at"`
}

// GetEventMessages handles fetching chat messages for an event
func GetEventMessages(c *gin.Context) {
	eventID := c.Param("event_id")
	requester := c.GetString("username")

	if requester == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	db := database.GetDB()

	var event models.Event
	if err := db.Where("id = ?", eventID).First(&event).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
			return
		}
		handleError(c, http.StatusInternalServerError, "Failed to fetch event", err)
		return
	}

	if !isEventMember(db, &event, requester) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Not authorized to view event messages"})
		return
	}

	// Pagination: newest first, optionally only messages before a given id
	limit := 50
	if limitStr := c.Query("limit"); limitStr != "" {
		if parsed, err := strconv.Atoi(limitStr); err == nil && parsed > 0 && parsed <= 100 {
			limit = parsed
		}
	}

	query := db.Where("event_id = ?", eventID)
	if beforeStr := c.Query("before"); beforeStr != "" {
		if before, err := strconv.ParseUint(beforeStr, 10, 32); err == nil {
			query = query.Where("id < ?", uint(before))
		}
	}

	var messages []models.ChatMessage
	if err := query.Order("created_at DESC").Limit(limit).Find(&messages).Error; err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to fetch messages", err)
		return
	}

	views := make([]messageView, 0, len(messages))
	for i := range messages {
		views = append(views, messageView{
			ID:        messages[i].ID,
			EventID:   messages[i].EventID,
			Sender:    messages[i].DisplayName(),
			Body:      messages[i].Body,
			Anonymous: messages[i].Anonymous,
			CreatedAt: messages[i].CreatedAt,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"messages": views,
		"count":    len(views),
	})
}

// SendEventMessage handles posting a chat message to an event. After the
// message is persisted, notification scheduling runs synchronously; a
// scheduling failure is logged but never fails the post itself.
func SendEventMessage(c *gin.Context) {
	eventID := c.Param("event_id")
	requester := c.GetString("username")

	if requester == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	var request models.SendMessageRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		handleError(c, http.StatusBadRequest, "Invalid message content", err)
		return
	}

	db := database.GetDB()

	var event models.Event
	if err := db.Where("id = ?", eventID).First(&event).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
			return
		}
		handleError(c, http.StatusInternalServerError, "Failed to fetch event", err)
		return
	}

	if !isEventMember(db, &event, requester) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Not authorized to post to this event"})
		return
	}

	message := models.ChatMessage{
		EventID:   eventID,
		Body:      request.Body,
		Anonymous: request.Anonymous,
	}
	if request.AsOrganisation {
		// Only the organiser can speak for the organising body
		if event.OrganiserID != requester {
			c.JSON(http.StatusForbidden, gin.H{"error": "Only the organiser can post as the organisation"})
			return
		}
		if event.Organisation == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Event has no organisation to post as"})
			return
		}
		message.SenderOrg = &event.Organisation
	} else {
		message.SenderUsername = &requester
	}

	if err := db.Create(&message).Error; err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to send message", err)
		return
	}

	scheduler := services.NewSchedulerService(db, services.NewPreferenceService(db))
	scheduled, err := scheduler.ScheduleForMessage(&message)
	if err != nil {
		log.Printf("Warning: Failed to schedule notifications for message %d: %v", message.ID, err)
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": messageView{
			ID:        message.ID,
			EventID:   message.EventID,
			Sender:    message.DisplayName(),
			Body:      message.Body,
			Anonymous: message.Anonymous,
			CreatedAt: message.CreatedAt,
		},
		"notifications_scheduled": scheduled,
	})
}
