package handlers

import (
	"fmt"
	"net/http"

	"huddle/internal/database"
	"huddle/internal/models"
	"huddle/internal/services"

	"github.com/gin-gonic/gin"
)

// GetPreferences returns the requester's notification preferences. Users who
// never saved any get the defaults, same as the scheduler sees them.
func GetPreferences(c *gin.Context) {
	username := c.GetString("username")
	if username == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	prefs := services.NewPreferenceService(database.GetDB())
	c.JSON(http.StatusOK, prefs.Resolve(username))
}

// UpdatePreferences upserts the requester's notification preferences
func UpdatePreferences(c *gin.Context) {
	username := c.GetString("username")
	if username == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	var request models.UpdatePreferenceRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		handleError(c, http.StatusBadRequest, fmt.Sprintf("Invalid input: %s", err.Error()), err)
		return
	}

	prefs := services.NewPreferenceService(database.GetDB())
	saved, err := prefs.Upsert(username, request)
	if err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to save preferences", err)
		return
	}

	c.JSON(http.StatusOK, saved)
}
