package types

// EventStatus identifies the kind of progress update sent by the
// processing service during a job's lifecycle.
type EventStatus string

const (
	StatusDownloading EventStatus = "downloading"
	StatusProcessing  EventStatus = "processing"
	StatusComplete    EventStatus = "complete"
	StatusError       EventStatus = "error"
	StatusLog         EventStatus = "log"
)

// LogLevel is the severity attached to log events.
type LogLevel string

const (
	LogLevelDebug   LogLevel = "debug"
	LogLevelInfo    LogLevel = "info"
	LogLevelWarning LogLevel = "warning"
	LogLevelError   LogLevel = "error"
)

// ProgressEvent is a status or log message emitted by the remote
// processing service over the streaming channel. Which optional fields
// are populated depends on Status.
type ProgressEvent struct {
	Status          EventStatus `json:"status"`
	Title           string      `json:"title,omitempty"`
	DownloadedBytes int64       `json:"downloaded_bytes,omitempty"`
	TotalBytes      int64       `json:"total_bytes,omitempty"`
	Speed           float64     `json:"speed,omitempty"`           // bytes per second
	ETA             int         `json:"eta,omitempty"`             // seconds remaining
	Progress        float64     `json:"progress,omitempty"`        // 0-100 percentage
	Message         string      `json:"message,omitempty"`
	Filename        string      `json:"filename,omitempty"`
	Type            string      `json:"type,omitempty"`            // media type of the finished file
	Size            int64       `json:"size,omitempty"`            // finished file size in bytes
	Level           LogLevel    `json:"level,omitempty"`           // only set when Status == "log"
}
