package services

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/omshejul/cli-tools-frontend/progress"
	"github.com/omshejul/cli-tools-frontend/types"
	"github.com/omshejul/cli-tools-frontend/websocket"
)

// SessionManager interface defines the methods for managing download sessions
type SessionManager interface {
	StartSession(ctx context.Context, mediaURL, formatID string, audioOnly bool) (*types.DownloadSession, error)
	GetSession(id string) (*types.DownloadSession, bool)
	GetAllSessions() []*types.DownloadSession
	CancelSession(id string) bool
}

// sessionManager owns one streaming channel per active download session
// and relays delivered events into the browser hub
type sessionManager struct {
	api      APIClient
	hub      websocket.Hub
	sessions map[string]*types.DownloadSession
	channels map[string]*progress.Channel
	mu       sync.RWMutex
}

// NewSessionManager creates a new session manager
func NewSessionManager(api APIClient, hub websocket.Hub) SessionManager {
	return &sessionManager{
		api:      api,
		hub:      hub,
		sessions: make(map[string]*types.DownloadSession),
		channels: make(map[string]*progress.Channel),
	}
}

// StartSession opens a streaming channel, submits the download to the
// processing service, and begins tracking its events
func (sm *sessionManager) StartSession(ctx context.Context, mediaURL, formatID string, audioOnly bool) (*types.DownloadSession, error) {
	channel := progress.NewChannel(sm.api.BaseURL())

	session := &types.DownloadSession{
		ID:        uuid.New().String(),
		ClientID:  channel.ClientID(),
		URL:       mediaURL,
		FormatID:  formatID,
		AudioOnly: audioOnly,
		Status:    types.SessionStatusQueued,
		CreatedAt: time.Now(),
	}

	channel.OnProgress(func(event types.ProgressEvent) {
		sm.applyEvent(session.ID, event)
	})
	channel.OnConnectionChange(func(connected bool) {
		log.Printf("Session %s channel connected=%v", session.ID, connected)
	})

	// Register before submitting so events delivered right after the
	// submission are not dropped, and connect the channel before the job
	// is submitted, or the first events race the connection.
	sm.mu.Lock()
	sm.sessions[session.ID] = session
	sm.channels[session.ID] = channel
	sm.mu.Unlock()

	channel.Connect()

	resp, err := sm.api.Download(ctx, types.DownloadRequest{
		URL:       mediaURL,
		FormatID:  formatID,
		ClientID:  channel.ClientID(),
		AudioOnly: audioOnly,
	})
	if err != nil || !resp.Accepted {
		channel.Disconnect()
		sm.mu.Lock()
		delete(sm.sessions, session.ID)
		delete(sm.channels, session.ID)
		sm.mu.Unlock()
		if err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("download rejected: %s", resp.Message)
	}

	sm.mu.Lock()
	if session.Filename == "" {
		session.Filename = resp.Filename
	}
	if session.DownloadPath == "" {
		session.DownloadPath = resp.DownloadPath
	}
	snapshot := *session
	sm.mu.Unlock()

	return &snapshot, nil
}

// GetSession retrieves a snapshot of a session by ID. Callers get a
// copy so they can read it while events keep arriving.
func (sm *sessionManager) GetSession(id string) (*types.DownloadSession, bool) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	session, exists := sm.sessions[id]
	if !exists {
		return nil, false
	}
	snapshot := *session
	return &snapshot, true
}

// GetAllSessions returns snapshots of all sessions
func (sm *sessionManager) GetAllSessions() []*types.DownloadSession {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	sessions := make([]*types.DownloadSession, 0, len(sm.sessions))
	for _, session := range sm.sessions {
		snapshot := *session
		sessions = append(sessions, &snapshot)
	}
	return sessions
}

// CancelSession tears down a session's channel and marks it cancelled.
// Sessions that already reached a terminal state are left untouched.
func (sm *sessionManager) CancelSession(id string) bool {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	session, exists := sm.sessions[id]
	if !exists {
		return false
	}

	switch session.Status {
	case types.SessionStatusCompleted, types.SessionStatusFailed, types.SessionStatusCancelled:
		return false
	}

	if channel, ok := sm.channels[id]; ok {
		channel.Disconnect()
		delete(sm.channels, id)
	}

	session.Status = types.SessionStatusCancelled
	now := time.Now()
	session.CompletedAt = &now
	return true
}

// applyEvent folds a delivered event into the session record and relays
// it to browser clients
func (sm *sessionManager) applyEvent(sessionID string, event types.ProgressEvent) {
	sm.mu.Lock()

	session, exists := sm.sessions[sessionID]
	if !exists {
		sm.mu.Unlock()
		return
	}

	now := time.Now()
	switch event.Status {
	case types.StatusDownloading:
		if session.StartedAt == nil {
			session.StartedAt = &now
		}
		session.Status = types.SessionStatusDownloading
		session.Progress = event.Progress
		if event.Title != "" {
			session.Title = event.Title
		}

	case types.StatusProcessing:
		session.Status = types.SessionStatusProcessing

	case types.StatusComplete:
		session.Status = types.SessionStatusCompleted
		session.Progress = 100.0
		if event.Filename != "" {
			session.Filename = event.Filename
		}
		session.CompletedAt = &now

	case types.StatusError:
		session.Status = types.SessionStatusFailed
		session.Error = event.Message
		session.CompletedAt = &now
	}

	var channel *progress.Channel
	if event.Status == types.StatusComplete || event.Status == types.StatusError {
		channel = sm.channels[sessionID]
		delete(sm.channels, sessionID)
	}
	sm.mu.Unlock()

	if channel != nil {
		channel.Disconnect()
	}

	if sm.hub != nil {
		sm.hub.BroadcastEvent(sessionID, event)
	}
}
