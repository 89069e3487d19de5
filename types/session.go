package types

import "time"

// SessionStatus represents the current state of a download session.
type SessionStatus string

const (
	SessionStatusQueued      SessionStatus = "queued"
	SessionStatusDownloading SessionStatus = "downloading"
	SessionStatusProcessing  SessionStatus = "processing"
	SessionStatusCompleted   SessionStatus = "completed"
	SessionStatusFailed      SessionStatus = "failed"
	SessionStatusCancelled   SessionStatus = "cancelled"
)

// DownloadSession tracks one submitted media URL from acceptance to the
// terminal event delivered over its streaming channel.
type DownloadSession struct {
	ID           string        `json:"id"`
	ClientID     string        `json:"clientId"`
	URL          string        `json:"url"`
	FormatID     string        `json:"formatId,omitempty"`
	AudioOnly    bool          `json:"audioOnly,omitempty"`
	Status       SessionStatus `json:"status"`
	Title        string        `json:"title,omitempty"`
	Progress     float64       `json:"progress"` // 0-100 percentage
	Filename     string        `json:"filename,omitempty"`
	DownloadPath string        `json:"downloadPath,omitempty"`
	Error        string        `json:"error,omitempty"`
	CreatedAt    time.Time     `json:"createdAt"`
	StartedAt    *time.Time    `json:"startedAt,omitempty"`
	CompletedAt  *time.Time    `json:"completedAt,omitempty"`
}
