package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"huddle/internal/database"
	"huddle/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CreateEvent handles the creation of a new event
func CreateEvent(c *gin.Context) {
	var request models.CreateEventRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		handleError(c, http.StatusBadRequest, fmt.Sprintf("Invalid input: %s", err.Error()), err)
		return
	}

	// Validate that DateTime is in the future
	if request.DateTime.Before(time.Now()) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Event date must be in the future"})
		return
	}

	organiser := c.GetString("username")
	if organiser == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	db := database.GetDB()

	// Make sure the organiser has an account to come back to
	var account models.Account
	if err := db.Where("username = ?", organiser).First(&account).Error; err != nil {
		handleError(c, http.StatusNotFound, "Organiser account not found", err)
		return
	}

	event := models.Event{
		Name:         request.Name,
		Organisation: request.Organisation,
		DateTime:     request.DateTime,
		Venue:        request.Venue,
		Description:  request.Description,
		OrganiserID:  organiser,
	}
	if err := db.Create(&event).Error; err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to create event", err)
		return
	}

	c.JSON(http.StatusCreated, event)
}

// GetEvent returns a single event with its signups
func GetEvent(c *gin.Context) {
	eventID := c.Param("event_id")

	db := database.GetDB()

	var event models.Event
	if err := db.Preload("Signups").Where("id = ?", eventID).First(&event).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
			return
		}
		handleError(c, http.StatusInternalServerError, "Failed to fetch event", err)
		return
	}

	c.JSON(http.StatusOK, event)
}

// SignupForEvent registers the requester for an event. Signups are
// auto-approved; re-signing up is a no-op.
func SignupForEvent(c *gin.Context) {
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

	if event.OrganiserID == requester {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Organiser is already part of the event"})
		return
	}

	signup := models.EventSignup{
		EventID:  eventID,
		Username: requester,
		Status:   models.SignupApproved,
	}
	result := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "event_id"}, {Name: "username"}},
		DoNothing: true,
	}).Create(&signup)
	if result.Error != nil {
		handleError(c, http.StatusInternalServerError, "Failed to sign up", result.Error)
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusOK, gin.H{"message": "Already signed up"})
		return
	}

	log.Printf("User %s signed up for event %s", requester, eventID)
	c.JSON(http.StatusCreated, signup)
}
