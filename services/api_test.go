package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omshejul/cli-tools-frontend/types"
)

// newFakeRemote builds a minimal stand-in for the processing service's
// HTTP API.
func newFakeRemote(t *testing.T) *httptest.Server {
	mux := http.NewServeMux()

	mux.HandleFunc("/status", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(types.RemoteStatus{Status: "ok", Version: "1.2.3", Queue: 2})
	})

	mux.HandleFunc("/formats", func(w http.ResponseWriter, r *http.Request) {
		var req types.MediaRequest
		json.NewDecoder(r.Body).Decode(&req)
		if req.URL == "" {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]string{"error": "unsupported URL"})
			return
		}
		json.NewEncoder(w).Encode(types.FormatsResponse{
			Title: "Test Clip",
			Formats: []types.FormatInfo{
				{FormatID: "137", Ext: "mp4", Resolution: "1080p"},
				{FormatID: "140", Ext: "m4a", AudioOnly: true},
			},
		})
	})

	mux.HandleFunc("/info", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(types.MediaInfo{Title: "Test Clip", Uploader: "tester", Duration: 61.5})
	})

	mux.HandleFunc("/download", func(w http.ResponseWriter, r *http.Request) {
		var req types.DownloadRequest
		json.NewDecoder(r.Body).Decode(&req)
		if req.ClientID == "" {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]string{"error": "client_id is required"})
			return
		}
		json.NewEncoder(w).Encode(types.DownloadResponse{
			Accepted:     true,
			Filename:     "clip.mp4",
			DownloadPath: "download/clip.mp4",
		})
	})

	mux.HandleFunc("/download/clip.mp4", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("fake media bytes"))
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestStatus(t *testing.T) {
	server := newFakeRemote(t)
	client := NewAPIClient(server.URL)

	status, err := client.Status(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ok", status.Status)
	assert.Equal(t, "1.2.3", status.Version)
	assert.Equal(t, 2, status.Queue)
}

func TestFormats(t *testing.T) {
	server := newFakeRemote(t)
	client := NewAPIClient(server.URL)

	formats, err := client.Formats(context.Background(), "https://example.com/watch?v=abc")
	require.NoError(t, err)
	assert.Equal(t, "Test Clip", formats.Title)
	require.Len(t, formats.Formats, 2)
	assert.Equal(t, "137", formats.Formats[0].FormatID)
	assert.True(t, formats.Formats[1].AudioOnly)
}

func TestFormatsRemoteError(t *testing.T) {
	server := newFakeRemote(t)
	client := NewAPIClient(server.URL)

	_, err := client.Formats(context.Background(), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported URL")
}

func TestInfo(t *testing.T) {
	server := newFakeRemote(t)
	client := NewAPIClient(server.URL)

	info, err := client.Info(context.Background(), "https://example.com/watch?v=abc")
	require.NoError(t, err)
	assert.Equal(t, "Test Clip", info.Title)
	assert.Equal(t, 61.5, info.Duration)
}

func TestDownload(t *testing.T) {
	server := newFakeRemote(t)
	client := NewAPIClient(server.URL)

	resp, err := client.Download(context.Background(), types.DownloadRequest{
		URL:      "https://example.com/watch?v=abc",
		ClientID: "client_abc123def",
	})
	require.NoError(t, err)
	assert.True(t, resp.Accepted)
	assert.Equal(t, "clip.mp4", resp.Filename)
	assert.Equal(t, "download/clip.mp4", resp.DownloadPath)
}

func TestDownloadMissingClientID(t *testing.T) {
	server := newFakeRemote(t)
	client := NewAPIClient(server.URL)

	_, err := client.Download(context.Background(), types.DownloadRequest{URL: "https://example.com"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "client_id is required")
}

func TestFetchFile(t *testing.T) {
	server := newFakeRemote(t)
	client := NewAPIClient(server.URL)

	destDir := t.TempDir()
	saved, err := client.FetchFile(context.Background(), "download/clip.mp4", destDir)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(destDir, "clip.mp4"), saved)
	data, err := os.ReadFile(saved)
	require.NoError(t, err)
	assert.Equal(t, "fake media bytes", string(data))
}

func TestFetchFileExpiredLink(t *testing.T) {
	server := newFakeRemote(t)
	client := NewAPIClient(server.URL)

	_, err := client.FetchFile(context.Background(), "download/gone.mp4", t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expired")
}

func TestRemoteUnreachable(t *testing.T) {
	client := NewAPIClient("http://127.0.0.1:1")

	_, err := client.Status(context.Background())
	require.Error(t, err)
}
