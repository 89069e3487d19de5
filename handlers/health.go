package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/omshejul/cli-tools-frontend/config"
	"github.com/omshejul/cli-tools-frontend/services"
)

// HealthHandler handles health check endpoints
type HealthHandler struct {
	api services.APIClient
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(api services.APIClient) *HealthHandler {
	return &HealthHandler{
		api: api,
	}
}

// HealthCheck returns the health status of the service
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"service":   "cli-tools-frontend",
		"version":   "1.0.0",
		"timestamp": time.Now().Unix(),
	})
}

// APIStatus returns the status of the bridge and the remote processing
// service it fronts
func (h *HealthHandler) APIStatus(c *gin.Context) {
	response := gin.H{
		"message":       "cli-tools frontend is running",
		"endpoint":      h.api.BaseURL(),
		"save_location": config.GetSaveLocation(),
	}

	remote, err := h.api.Status(c.Request.Context())
	if err != nil {
		response["remote"] = gin.H{"status": "unreachable", "details": err.Error()}
	} else {
		response["remote"] = remote
	}

	c.JSON(http.StatusOK, response)
}
