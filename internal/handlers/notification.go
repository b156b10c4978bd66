package handlers

import (
	"net/http"
	"sync"

	"huddle/internal/database"
	"huddle/internal/services"

	"github.com/gin-gonic/gin"
)

var (
	dispatcherOnce sync.Once
	dispatcher     *services.DispatcherService
)

// Dispatcher returns the shared dispatcher instance. Shared so the SendGrid
// rate limiter spans every trigger source (HTTP and cron alike).
func Dispatcher() *services.DispatcherService {
	dispatcherOnce.Do(func() {
		db := database.GetDB()
		dispatcher = services.NewDispatcherService(db, services.NewEmailService(), services.NewStatsService(db))
	})
	return dispatcher
}

// DispatchNotifications is the dispatch entrypoint for external triggers.
// Safe to call on overlap; concurrent ticks sort out ownership per row.
func DispatchNotifications(c *gin.Context) {
	summary, err := Dispatcher().RunOnce(c.Request.Context())
	if err != nil {
		handleError(c, http.StatusInternalServerError, "Dispatch tick failed", err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// NotificationStats is the read-only monitoring entrypoint
func NotificationStats(c *gin.Context) {
	stats := services.NewStatsService(database.GetDB())
	snapshot, err := stats.NotificationStats()
	if err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to read notification stats", err)
		return
	}
	c.JSON(http.StatusOK, snapshot)
}
