package config

import (
	"encoding/json"
	"os"
	"path/filepath"
)

var Env = map[string]string{
	"PROCESSOR_ENDPOINT": os.Getenv("PROCESSOR_ENDPOINT"),
	"SAVE_LOCATION":      os.Getenv("SAVE_LOCATION"),
}

// GetProcessorEndpoint returns the base URL of the remote processing
// API. The streaming channel derives its ws:// target from this value.
func GetProcessorEndpoint() string {
	if settings := loadUserSettings(); settings.ProcessorEndpoint != "" {
		return settings.ProcessorEndpoint
	}

	endpoint := Env["PROCESSOR_ENDPOINT"]
	if endpoint != "" {
		return endpoint
	}
	return "http://localhost:8000"
}

// GetSaveLocation returns where finished downloads are stored locally.
func GetSaveLocation() string {
	if settings := loadUserSettings(); settings.SaveLocation != "" {
		return settings.SaveLocation
	}

	if customPath := Env["SAVE_LOCATION"]; customPath != "" {
		return customPath
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if can't get home dir
		return filepath.Join(".", "downloads")
	}

	return filepath.Join(homeDir, "Downloads", "cli-tools")
}

// UserSettings represents the user's personal settings
type UserSettings struct {
	ProcessorEndpoint string `json:"processorEndpoint,omitempty"`
	SaveLocation      string `json:"saveLocation,omitempty"`
}

// GetSettingsFilePath returns the path to the settings file
func GetSettingsFilePath() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".cli-tools-settings.json")
}

// loadUserSettings loads persisted settings, returning the zero value
// when the file is missing or unreadable.
func loadUserSettings() UserSettings {
	var settings UserSettings

	settingsPath := GetSettingsFilePath()
	if _, err := os.Stat(settingsPath); os.IsNotExist(err) {
		return settings
	}

	data, err := os.ReadFile(settingsPath)
	if err != nil {
		return settings
	}

	if err := json.Unmarshal(data, &settings); err != nil {
		return UserSettings{}
	}

	return settings
}

// SaveUserSettings persists settings to the user's settings file.
func SaveUserSettings(settings UserSettings) error {
	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(GetSettingsFilePath(), data, 0644)
}
