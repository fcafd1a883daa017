// Package dto contains data transfer objects for the download domain
package dto

import "time"

// StartCommandRequest represents a /start command
type StartCommandRequest struct {
	ChatID   int64
	Username string
}

// CommandResponse represents a text reply to a command
type CommandResponse struct {
	Message string
}

// DownloadRequestedEvent is consumed from Kafka to trigger a download remotely
type DownloadRequestedEvent struct {
	ChatID int64  `json:"chat_id"`
	URL    string `json:"url"`
	Mode   string `json:"mode,omitempty"`
}

// DownloadFinishedEvent is published to Kafka when a pipeline run ends
type DownloadFinishedEvent struct {
	ID         string    `json:"id"`
	ChatID     int64     `json:"chat_id"`
	VideoID    string    `json:"video_id"`
	Mode       string    `json:"mode"`
	State      string    `json:"state"`
	Bytes      int64     `json:"bytes"`
	SizeMB     int64     `json:"size_mb"`
	Error      string    `json:"error,omitempty"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}
