package models

import "time"

// FileDownloadEventWindow is the span within which repeat downloads of the
// same path by the same session are not recorded again.
const FileDownloadEventWindow = 5 * time.Minute

// FileDownloadEvent records one protected file download.
type FileDownloadEvent struct {
	ID         int64     `json:"id"`
	ResourceID int64     `json:"resourceId"`
	Path       string    `json:"path"`
	SessionKey string    `json:"sessionKey"`
	At         time.Time `json:"at"`
}

// PathDownloadCount is a per-path aggregate of download events.
type PathDownloadCount struct {
	Path      string `json:"path"`
	Downloads int64  `json:"downloads"`
}
