package cmd

import (
	"log"
	"os"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/omshejul/cli-tools-frontend/config"
	"github.com/omshejul/cli-tools-frontend/handlers"
	"github.com/omshejul/cli-tools-frontend/middleware"
	"github.com/omshejul/cli-tools-frontend/services"
	"github.com/omshejul/cli-tools-frontend/websocket"
)

// StartWebServer starts the bridge server fronting the processing API
func StartWebServer(port int) {
	// Set production mode if not specified
	if mode := os.Getenv("GIN_MODE"); mode != "" {
		gin.SetMode(mode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize services
	hub := websocket.NewHub()
	go hub.Run()

	apiClient := services.NewAPIClient(config.GetProcessorEndpoint())
	sessionManager := services.NewSessionManager(apiClient, hub)
	fileService := services.NewFileService()

	// Initialize handlers
	downloadHandler := handlers.NewDownloadHandler(sessionManager, hub)
	mediaHandler := handlers.NewMediaHandler(apiClient)
	fileHandler := handlers.NewFileHandler(fileService)
	healthHandler := handlers.NewHealthHandler(apiClient)
	settingsHandler := handlers.NewSettingsHandler()

	// Setup router
	r := gin.Default()

	// Apply middleware
	r.Use(middleware.CORS())
	r.Use(middleware.Logging())
	r.Use(middleware.Security())

	// Setup routes
	setupRoutes(r, downloadHandler, mediaHandler, fileHandler, healthHandler, settingsHandler)

	// Start server
	portStr := strconv.Itoa(port)
	if serverPort := os.Getenv("SERVER_PORT"); serverPort != "" {
		portStr = serverPort
	}

	log.Printf("cli-tools frontend starting on port %s", portStr)
	log.Printf("Processing endpoint: %s", config.GetProcessorEndpoint())
	if err := r.Run(":" + portStr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// setupRoutes configures all the HTTP routes
func setupRoutes(r *gin.Engine, downloadHandler *handlers.DownloadHandler, mediaHandler *handlers.MediaHandler, fileHandler *handlers.FileHandler, healthHandler *handlers.HealthHandler, settingsHandler *handlers.SettingsHandler) {
	// Health check endpoint
	r.GET("/health", healthHandler.HealthCheck)

	// API routes group
	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/status", healthHandler.APIStatus)

		// Proxy lookups against the processing service
		apiGroup.POST("/formats", mediaHandler.ListFormats)
		apiGroup.POST("/info", mediaHandler.GetInfo)

		// Download session endpoints
		apiGroup.POST("/download", downloadHandler.StartDownload)
		downloadsGroup := apiGroup.Group("/downloads")
		{
			downloadsGroup.GET("", downloadHandler.GetAllSessions)
			downloadsGroup.GET("/:sessionId", downloadHandler.GetSession)
			downloadsGroup.DELETE("/:sessionId", downloadHandler.CancelSession)
		}

		// WebSocket relay endpoints for real-time progress
		wsGroup := apiGroup.Group("/ws")
		{
			// Relay for a specific session's progress
			wsGroup.GET("/downloads/:sessionId", downloadHandler.HandleWebSocketConnection)

			// Relay for all sessions' progress
			wsGroup.GET("/downloads", downloadHandler.HandleWebSocketAllConnection)
		}

		// Finished download browsing and streaming endpoints
		apiGroup.GET("/files", fileHandler.ListFiles)
		apiGroup.GET("/files/stream/*filepath", fileHandler.StreamFile)

		// Settings endpoints
		apiGroup.GET("/settings", settingsHandler.GetSettings)
		apiGroup.POST("/settings", settingsHandler.UpdateSettings)
	}
}
