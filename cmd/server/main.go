package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"huddle/internal/auth"
	"huddle/internal/database"
	"huddle/internal/handlers"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
)

// This is our main function - the entry point of our application
func main() {
	// Load .env in development; production sets real environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Initialize database
	if err := database.InitDB(); err != nil {
		log.Fatal("Failed to initialize database:", err)
	}

	// Initialize Gin router
	router := gin.Default()

	// Configure trusted proxies
	router.SetTrustedProxies([]string{"127.0.0.1"})

	// Allow the frontend origin when configured
	if frontend := os.Getenv("FRONTEND_URL"); frontend != "" {
		corsConfig := cors.DefaultConfig()
		corsConfig.AllowOrigins = []string{frontend}
		corsConfig.AllowCredentials = true
		corsConfig.AddAllowHeaders("Authorization", "X-Auth-Username")
		router.Use(cors.New(corsConfig))
	}

	// Basic routes
	router.GET("/", handlers.HomeHandler)
	router.GET("/health", handlers.HealthHandler)

	// Account routes (no auth required)
	router.POST("/accounts", handlers.CreateAccount)
	router.GET("/accounts/:username", handlers.GetAccount)

	// Public event routes
	router.GET("/public/events/:event_id", handlers.GetEvent)

	// Protected routes (auth required)
	protected := router.Group("")
	protected.Use(auth.AuthMiddleware())
	{
		protected.POST("/events", handlers.CreateEvent)
		protected.POST("/events/:event_id/signups", handlers.SignupForEvent)
		protected.GET("/events/:event_id/messages", handlers.GetEventMessages)
		protected.POST("/events/:event_id/messages", handlers.SendEventMessage)
		protected.GET("/preferences", handlers.GetPreferences)
		protected.PUT("/preferences", handlers.UpdatePreferences)
	}

	// Internal routes for the external dispatch trigger and monitoring
	internal := router.Group("/internal")
	internal.Use(auth.ServiceAuthMiddleware())
	{
		internal.POST("/notifications/dispatch", handlers.DispatchNotifications)
		internal.GET("/notifications/stats", handlers.NotificationStats)
	}

	// Optional in-process trigger for deployments without an external cron.
	// The dispatcher itself stays trigger-agnostic either way.
	if spec := os.Getenv("DISPATCH_CRON"); spec != "" {
		startDispatchCron(spec)
	}

	// Start the server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	fmt.Printf("Server starting on port %s...\n", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatal(err)
	}
}

// startDispatchCron registers a cron entry that invokes the same dispatch
// entrypoint an external trigger would hit
func startDispatchCron(spec string) {
	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 4*time.Minute)
		defer cancel()

		summary, err := handlers.Dispatcher().RunOnce(ctx)
		if err != nil {
			log.Printf("Error: Dispatch tick failed: %v", err)
			return
		}
		if summary.Processed > 0 {
			log.Printf("Cron dispatch: processed=%d sent=%d failed=%d", summary.Processed, summary.Sent, summary.Failed)
		}
	})
	if err != nil {
		log.Fatalf("Invalid DISPATCH_CRON %q: %v", spec, err)
	}
	c.Start()
	log.Printf("Dispatch cron started with schedule %q", spec)
}
