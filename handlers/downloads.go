package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/omshejul/cli-tools-frontend/services"
	"github.com/omshejul/cli-tools-frontend/websocket"
)

// DownloadHandler handles download session endpoints
type DownloadHandler struct {
	sessions services.SessionManager
	hub      websocket.Hub
}

// NewDownloadHandler creates a new download handler
func NewDownloadHandler(sm services.SessionManager, hub websocket.Hub) *DownloadHandler {
	return &DownloadHandler{
		sessions: sm,
		hub:      hub,
	}
}

// startDownloadRequest is the body accepted by StartDownload
type startDownloadRequest struct {
	URL       string `json:"url" binding:"required"`
	FormatID  string `json:"format_id"`
	AudioOnly bool   `json:"audio_only"`
}

// StartDownload submits a media URL to the processing service and opens
// a progress session for it
func (h *DownloadHandler) StartDownload(c *gin.Context) {
	var req startDownloadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "url is required",
		})
		return
	}

	session, err := h.sessions.StartSession(c.Request.Context(), req.URL, req.FormatID, req.AudioOnly)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{
			"error":   "failed to start download",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Download started successfully",
		"session": session,
	})
}

// GetAllSessions returns all download sessions
func (h *DownloadHandler) GetAllSessions(c *gin.Context) {
	sessions := h.sessions.GetAllSessions()
	c.JSON(http.StatusOK, gin.H{
		"sessions": sessions,
		"total":    len(sessions),
	})
}

// GetSession returns a specific download session by ID
func (h *DownloadHandler) GetSession(c *gin.Context) {
	sessionID := c.Param("sessionId")
	session, exists := h.sessions.GetSession(sessionID)
	if !exists {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "session not found",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"session": session,
	})
}

// CancelSession cancels a download session
func (h *DownloadHandler) CancelSession(c *gin.Context) {
	sessionID := c.Param("sessionId")
	cancelled := h.sessions.CancelSession(sessionID)
	if !cancelled {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "session cannot be cancelled (not found or already finished)",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "session cancelled successfully",
	})
}

// HandleWebSocketConnection relays progress for a specific session to a
// browser connection
func (h *DownloadHandler) HandleWebSocketConnection(c *gin.Context) {
	sessionID := c.Param("sessionId")
	if sessionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "session ID is required"})
		return
	}

	// Check if session exists
	_, exists := h.sessions.GetSession(sessionID)
	if !exists {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}

	upgrader := websocket.GetUpgrader()
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	client := websocket.NewClient(h.hub, conn, sessionID)
	h.hub.RegisterClient(client)

	// Start client pumps
	client.StartPumps()
}

// HandleWebSocketAllConnection relays progress for every session to a
// browser connection
func (h *DownloadHandler) HandleWebSocketAllConnection(c *gin.Context) {
	upgrader := websocket.GetUpgrader()
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	client := websocket.NewClient(h.hub, conn, "all")
	h.hub.RegisterClient(client)

	// Start client pumps
	client.StartPumps()
}
