package handlers

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/omshejul/cli-tools-frontend/config"
)

// SettingsHandler handles settings-related endpoints
type SettingsHandler struct{}

// NewSettingsHandler creates a new settings handler
func NewSettingsHandler() *SettingsHandler {
	return &SettingsHandler{}
}

// validateSaveLocation validates that the path exists and is writable
func validateSaveLocation(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Try to create the directory
			if err := os.MkdirAll(path, 0755); err != nil {
				return err
			}
		} else {
			return err
		}
	} else if !info.IsDir() {
		return os.ErrInvalid
	}

	// Test write permissions by creating a temporary file
	testFile := filepath.Join(path, ".cli-tools-write-test")
	file, err := os.Create(testFile)
	if err != nil {
		return err
	}
	file.Close()
	os.Remove(testFile)

	return nil
}

// GetSettings returns the current settings
func (h *SettingsHandler) GetSettings(c *gin.Context) {
	c.JSON(http.StatusOK, config.UserSettings{
		ProcessorEndpoint: config.GetProcessorEndpoint(),
		SaveLocation:      config.GetSaveLocation(),
	})
}

// UpdateSettings updates the user settings
func (h *SettingsHandler) UpdateSettings(c *gin.Context) {
	var newSettings config.UserSettings
	if err := c.ShouldBindJSON(&newSettings); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid settings format",
			"details": err.Error(),
		})
		return
	}

	if newSettings.ProcessorEndpoint != "" {
		if !strings.HasPrefix(newSettings.ProcessorEndpoint, "http://") &&
			!strings.HasPrefix(newSettings.ProcessorEndpoint, "https://") {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "processor endpoint must be an http or https URL",
			})
			return
		}
	}

	if newSettings.SaveLocation != "" {
		if err := validateSaveLocation(newSettings.SaveLocation); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "Invalid save location",
				"details": err.Error(),
			})
			return
		}
	}

	if err := config.SaveUserSettings(newSettings); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to save settings",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Settings updated successfully",
		"settings": newSettings,
	})
}
