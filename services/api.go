package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/omshejul/cli-tools-frontend/types"
)

// APIClient interface defines the calls consumed from the remote
// processing service
type APIClient interface {
	Status(ctx context.Context) (*types.RemoteStatus, error)
	Formats(ctx context.Context, mediaURL string) (*types.FormatsResponse, error)
	Info(ctx context.Context, mediaURL string) (*types.MediaInfo, error)
	Download(ctx context.Context, req types.DownloadRequest) (*types.DownloadResponse, error)
	FetchFile(ctx context.Context, downloadPath, destDir string) (string, error)
	BaseURL() string
}

// apiClient implements APIClient over plain HTTP
type apiClient struct {
	baseURL string
	client  *http.Client
}

// NewAPIClient creates a client for the processing service at baseURL
func NewAPIClient(baseURL string) APIClient {
	return &apiClient{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// BaseURL returns the configured base address of the processing service
func (a *apiClient) BaseURL() string {
	return a.baseURL
}

// Status checks the processing service's liveness
func (a *apiClient) Status(ctx context.Context) (*types.RemoteStatus, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+"/status", nil)
	if err != nil {
		return nil, err
	}

	var status types.RemoteStatus
	if err := a.do(req, &status); err != nil {
		return nil, fmt.Errorf("status check failed: %w", err)
	}
	return &status, nil
}

// Formats lists the downloadable renditions of a media URL
func (a *apiClient) Formats(ctx context.Context, mediaURL string) (*types.FormatsResponse, error) {
	var formats types.FormatsResponse
	if err := a.postJSON(ctx, "/formats", types.MediaRequest{URL: mediaURL}, &formats); err != nil {
		return nil, fmt.Errorf("failed to list formats: %w", err)
	}
	return &formats, nil
}

// Info fetches media metadata for a URL
func (a *apiClient) Info(ctx context.Context, mediaURL string) (*types.MediaInfo, error) {
	var info types.MediaInfo
	if err := a.postJSON(ctx, "/info", types.MediaRequest{URL: mediaURL}, &info); err != nil {
		return nil, fmt.Errorf("failed to fetch media info: %w", err)
	}
	return &info, nil
}

// Download submits a media URL for processing. Progress arrives on the
// streaming channel identified by req.ClientID.
func (a *apiClient) Download(ctx context.Context, req types.DownloadRequest) (*types.DownloadResponse, error) {
	var resp types.DownloadResponse
	if err := a.postJSON(ctx, "/download", req, &resp); err != nil {
		return nil, fmt.Errorf("failed to submit download: %w", err)
	}
	return &resp, nil
}

// FetchFile retrieves a finished download from its expiring link and
// saves it under destDir, returning the saved path.
func (a *apiClient) FetchFile(ctx context.Context, downloadPath, destDir string) (string, error) {
	fileURL := downloadPath
	if !strings.HasPrefix(fileURL, "http://") && !strings.HasPrefix(fileURL, "https://") {
		fileURL = a.baseURL + "/" + strings.TrimPrefix(downloadPath, "/")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fileURL, nil)
	if err != nil {
		return "", err
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("file fetch returned %s (link may have expired)", resp.Status)
	}

	if err := os.MkdirAll(destDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create save location: %w", err)
	}

	destPath := filepath.Join(destDir, path.Base(downloadPath))
	out, err := os.Create(destPath)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, resp.Body); err != nil {
		os.Remove(destPath)
		return "", fmt.Errorf("failed to save file: %w", err)
	}

	return destPath, nil
}

// postJSON sends a JSON body to the processing service and decodes the
// JSON response into target
func (a *apiClient) postJSON(ctx context.Context, endpoint string, body, target interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+endpoint, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	return a.do(req, target)
}

// do executes the request and decodes the response, surfacing the
// remote error message on non-2xx answers when one is present
func (a *apiClient) do(req *http.Request, target interface{}) error {
	resp, err := a.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var remoteErr struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(data, &remoteErr) == nil && remoteErr.Error != "" {
			return fmt.Errorf("remote service: %s", remoteErr.Error)
		}
		return fmt.Errorf("remote service returned %s", resp.Status)
	}

	if target != nil {
		if err := json.Unmarshal(data, target); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}
