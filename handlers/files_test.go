package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omshejul/cli-tools-frontend/config"
)

// setupSaveLocation points the save location at a fresh directory by
// writing a settings file under a per-test home.
func setupSaveLocation(t *testing.T) string {
	t.Helper()
	t.Setenv("HOME", t.TempDir())

	dir := t.TempDir()
	require.NoError(t, config.SaveUserSettings(config.UserSettings{SaveLocation: dir}))
	return dir
}

// streamTestContent is 1000 distinct-ish bytes so range assertions can
// tell head from tail
func streamTestContent() []byte {
	data := make([]byte, 1000)
	for i := range data {
		data[i] = byte(i % 251)
	}
	return data
}

func performRange(router *gin.Engine, path, rangeHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("GET", path, nil)
	if rangeHeader != "" {
		req.Header.Set("Range", rangeHeader)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestListFilesEndpoint(t *testing.T) {
	dir := setupSaveLocation(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "clip.mp4"), streamTestContent(), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "song.mp3"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644))

	router, _ := newTestRouter(t)

	w := performJSON(router, "GET", "/api/files", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Count int `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Count)
}

func TestStreamFileFull(t *testing.T) {
	dir := setupSaveLocation(t)
	content := streamTestContent()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "clip.mp4"), content, 0o644))

	router, _ := newTestRouter(t)

	w := performRange(router, "/api/files/stream/clip.mp4", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "video/mp4", w.Header().Get("Content-Type"))
	assert.Equal(t, "bytes", w.Header().Get("Accept-Ranges"))
	assert.Equal(t, content, w.Body.Bytes())
}

func TestStreamFileBoundedRange(t *testing.T) {
	dir := setupSaveLocation(t)
	content := streamTestContent()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "clip.mp4"), content, 0o644))

	router, _ := newTestRouter(t)

	w := performRange(router, "/api/files/stream/clip.mp4", "bytes=100-199")
	require.Equal(t, http.StatusPartialContent, w.Code)
	assert.Equal(t, "bytes 100-199/1000", w.Header().Get("Content-Range"))
	assert.Equal(t, "100", w.Header().Get("Content-Length"))
	assert.Equal(t, content[100:200], w.Body.Bytes())
}

func TestStreamFileOpenEndedRange(t *testing.T) {
	dir := setupSaveLocation(t)
	content := streamTestContent()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "clip.mp4"), content, 0o644))

	router, _ := newTestRouter(t)

	w := performRange(router, "/api/files/stream/clip.mp4", "bytes=950-")
	require.Equal(t, http.StatusPartialContent, w.Code)
	assert.Equal(t, "bytes 950-999/1000", w.Header().Get("Content-Range"))
	assert.Equal(t, content[950:], w.Body.Bytes())
}

func TestStreamFileSuffixRange(t *testing.T) {
	dir := setupSaveLocation(t)
	content := streamTestContent()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "clip.mp4"), content, 0o644))

	router, _ := newTestRouter(t)

	// bytes=-100 means the last 100 bytes, not the first 100
	w := performRange(router, "/api/files/stream/clip.mp4", "bytes=-100")
	require.Equal(t, http.StatusPartialContent, w.Code)
	assert.Equal(t, "bytes 900-999/1000", w.Header().Get("Content-Range"))
	assert.Equal(t, "100", w.Header().Get("Content-Length"))
	assert.Equal(t, content[900:], w.Body.Bytes())
}

func TestStreamFileSuffixRangeLargerThanFile(t *testing.T) {
	dir := setupSaveLocation(t)
	content := streamTestContent()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "clip.mp4"), content, 0o644))

	router, _ := newTestRouter(t)

	w := performRange(router, "/api/files/stream/clip.mp4", "bytes=-5000")
	require.Equal(t, http.StatusPartialContent, w.Code)
	assert.Equal(t, "bytes 0-999/1000", w.Header().Get("Content-Range"))
	assert.Equal(t, content, w.Body.Bytes())
}

func TestStreamFileUnsatisfiableRange(t *testing.T) {
	dir := setupSaveLocation(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "clip.mp4"), streamTestContent(), 0o644))

	router, _ := newTestRouter(t)

	w := performRange(router, "/api/files/stream/clip.mp4", "bytes=5000-")
	assert.Equal(t, http.StatusRequestedRangeNotSatisfiable, w.Code)

	w = performRange(router, "/api/files/stream/clip.mp4", "bytes=-0")
	assert.Equal(t, http.StatusRequestedRangeNotSatisfiable, w.Code)
}

func TestStreamFileTraversalRejected(t *testing.T) {
	setupSaveLocation(t)

	router, _ := newTestRouter(t)

	req := httptest.NewRequest("GET", "/api/files/stream/x", nil)
	req.URL.Path = "/api/files/stream/../secret.mp4"
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestStreamFileUnknownExtensionRejected(t *testing.T) {
	dir := setupSaveLocation(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("plain"), 0o644))

	router, _ := newTestRouter(t)

	w := performRange(router, "/api/files/stream/notes.txt", "")
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestStreamFileNotFound(t *testing.T) {
	setupSaveLocation(t)

	router, _ := newTestRouter(t)

	w := performRange(router, "/api/files/stream/missing.mp4", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestStreamFileNestedPath(t *testing.T) {
	dir := setupSaveLocation(t)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "music"), 0o755))
	content := streamTestContent()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "music", "song.mp3"), content, 0o644))

	router, _ := newTestRouter(t)

	w := performRange(router, "/api/files/stream/music/song.mp3", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "audio/mpeg", w.Header().Get("Content-Type"))
	assert.Equal(t, fmt.Sprintf("%d", len(content)), w.Header().Get("Content-Length"))
}
