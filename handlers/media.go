package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/omshejul/cli-tools-frontend/services"
	"github.com/omshejul/cli-tools-frontend/types"
)

// MediaHandler proxies format and info lookups to the processing service
type MediaHandler struct {
	api services.APIClient
}

// NewMediaHandler creates a new media handler
func NewMediaHandler(api services.APIClient) *MediaHandler {
	return &MediaHandler{
		api: api,
	}
}

// ListFormats returns the available formats for a media URL
func (h *MediaHandler) ListFormats(c *gin.Context) {
	var req types.MediaRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.URL == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "url is required",
		})
		return
	}

	formats, err := h.api.Formats(c.Request.Context(), req.URL)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{
			"error":   "format lookup failed",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, formats)
}

// GetInfo returns metadata for a media URL
func (h *MediaHandler) GetInfo(c *gin.Context) {
	var req types.MediaRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.URL == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "url is required",
		})
		return
	}

	info, err := h.api.Info(c.Request.Context(), req.URL)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{
			"error":   "info lookup failed",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, info)
}
