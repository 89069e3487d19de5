package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omshejul/cli-tools-frontend/config"
)

func TestGetSettings(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	router, _ := newTestRouter(t)

	w := performJSON(router, "GET", "/api/settings", "")
	require.Equal(t, http.StatusOK, w.Code)

	var settings config.UserSettings
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &settings))
	assert.NotEmpty(t, settings.ProcessorEndpoint)
	assert.NotEmpty(t, settings.SaveLocation)
}

func TestUpdateSettingsRoundTrip(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	saveDir := t.TempDir()

	router, _ := newTestRouter(t)

	body, err := json.Marshal(config.UserSettings{
		ProcessorEndpoint: "http://processor:9000",
		SaveLocation:      saveDir,
	})
	require.NoError(t, err)

	w := performJSON(router, "POST", "/api/settings", string(body))
	require.Equal(t, http.StatusOK, w.Code)

	// The update must be visible on the next read
	w = performJSON(router, "GET", "/api/settings", "")
	require.Equal(t, http.StatusOK, w.Code)

	var settings config.UserSettings
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &settings))
	assert.Equal(t, "http://processor:9000", settings.ProcessorEndpoint)
	assert.Equal(t, saveDir, settings.SaveLocation)
}

func TestUpdateSettingsRejectsBadEndpoint(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	router, _ := newTestRouter(t)

	w := performJSON(router, "POST", "/api/settings", `{"processorEndpoint":"ftp://processor:9000"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateSettingsRejectsMalformedBody(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	router, _ := newTestRouter(t)

	w := performJSON(router, "POST", "/api/settings", `{"saveLocation":42}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
