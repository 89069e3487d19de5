package types

// MediaRequest is the body for format and info lookups against the
// processing API.
type MediaRequest struct {
	URL string `json:"url"`
}

// FormatInfo describes one downloadable rendition of a media item.
type FormatInfo struct {
	FormatID   string  `json:"format_id"`
	Ext        string  `json:"ext"`
	Resolution string  `json:"resolution,omitempty"`
	FPS        float64 `json:"fps,omitempty"`
	Filesize   int64   `json:"filesize,omitempty"`
	Note       string  `json:"format_note,omitempty"`
	AudioOnly  bool    `json:"audio_only,omitempty"`
}

// FormatsResponse is the processing API's answer to POST /formats.
type FormatsResponse struct {
	Title   string       `json:"title"`
	Formats []FormatInfo `json:"formats"`
}

// MediaInfo is the metadata returned by POST /info.
type MediaInfo struct {
	Title      string  `json:"title"`
	Uploader   string  `json:"uploader,omitempty"`
	Duration   float64 `json:"duration,omitempty"`
	Thumbnail  string  `json:"thumbnail,omitempty"`
	WebpageURL string  `json:"webpage_url,omitempty"`
}

// DownloadRequest submits a media URL for processing. ClientID ties the
// job to a streaming channel so progress events reach the right session.
type DownloadRequest struct {
	URL       string `json:"url"`
	FormatID  string `json:"format_id,omitempty"`
	ClientID  string `json:"client_id"`
	AudioOnly bool   `json:"audio_only,omitempty"`
}

// DownloadResponse is the processing API's acknowledgement of an
// accepted download. DownloadPath is an expiring link where the
// finished file can be fetched once a complete event arrives.
type DownloadResponse struct {
	Accepted     bool   `json:"accepted"`
	Filename     string `json:"filename,omitempty"`
	DownloadPath string `json:"download_path,omitempty"`
	Message      string `json:"message,omitempty"`
}

// RemoteStatus is the processing API's GET /status payload.
type RemoteStatus struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
	Queue   int    `json:"queue,omitempty"`
}
