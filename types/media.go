package types

// MediaFile represents a finished download discovered in the save location.
type MediaFile struct {
	Filename string         `json:"filename"`
	Path     string         `json:"path"`
	Size     int64          `json:"size"`
	Format   string         `json:"format"` // "mp4", "mp3", "m4a", etc.
	Metadata *AudioMetadata `json:"metadata,omitempty"`
}

// AudioMetadata holds tags extracted from audio downloads.
type AudioMetadata struct {
	Title       string `json:"title,omitempty"`
	Artist      string `json:"artist,omitempty"`
	Album       string `json:"album,omitempty"`
	Duration    string `json:"duration,omitempty"`
	TrackNumber int    `json:"trackNumber,omitempty"`
}
