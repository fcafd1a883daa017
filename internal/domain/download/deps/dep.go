// Package deps contains interface definitions for the download domain dependencies
package deps

import (
	"context"
	"os"

	"github.com/Agshin2004/yt-video-downloader-bot/internal/domain/download/entities"
)

// Messenger defines interface for talking to a chat.
// It is implemented by the Telegram handlers, which breaks the cyclic
// dependency between UseCase and the delivery layer.
type Messenger interface {
	// SendMessage sends an HTML message, optionally with an inline keyboard, and returns its ID
	SendMessage(ctx context.Context, chatID int64, text string, keyboard *entities.Keyboard) (messageID int, err error)

	// DeleteMessage deletes a message from the chat
	DeleteMessage(ctx context.Context, chatID int64, messageID int) error

	// SendVideo uploads a finished file as a video
	SendVideo(ctx context.Context, chatID int64, file *entities.MediaFile) error

	// SendAudio uploads a finished file as audio
	SendAudio(ctx context.Context, chatID int64, file *entities.MediaFile) error

	// SendSticker sends a sticker by file ID
	SendSticker(ctx context.Context, chatID int64, stickerID string) error

	// AnswerCallback acknowledges a callback query
	AnswerCallback(ctx context.Context, callbackID string, text string) error
}

// VideoHost defines interface for the video hosting platform
type VideoHost interface {
	// FetchMetadata returns video details and the list of formats
	FetchMetadata(ctx context.Context, videoID string) (*entities.VideoMetadata, error)

	// OpenStream opens the best stream for the given mode
	OpenStream(ctx context.Context, videoID string, mode entities.Mode) (*entities.Stream, error)
}

// MediaStore defines interface for temporary media files
type MediaStore interface {
	// Create creates a uniquely named file for the chat
	Create(chatID int64, mode entities.Mode, ext string) (*os.File, error)

	// Remove deletes a file, a missing file is not an error
	Remove(path string) error

	// Size returns the size of a file in bytes
	Size(path string) (int64, error)
}

// HistoryRepository defines interface for download history data access
type HistoryRepository interface {
	// Save saves a finished pipeline run
	Save(ctx context.Context, record *entities.DownloadRecord) error

	// ListByChat returns the latest records of a chat, newest first
	ListByChat(ctx context.Context, chatID int64, limit int) ([]entities.DownloadRecord, error)

	// Stats aggregates all records
	Stats(ctx context.Context) (*entities.DownloadStats, error)
}

// EventPublisher defines interface for publishing download events
type EventPublisher interface {
	// PublishDownloadFinished publishes the outcome of a pipeline run
	PublishDownloadFinished(ctx context.Context, record *entities.DownloadRecord) error

	// Close closes the publisher
	Close() error
}

// Archive defines interface for keeping copies of delivered files
type Archive interface {
	// Store uploads the file and returns its object key
	Store(ctx context.Context, chatID int64, file *entities.MediaFile) (string, error)
}

// SystemProbe defines interface for reading host figures
type SystemProbe interface {
	// Snapshot returns current CPU, memory and disk usage of dir's volume
	Snapshot(ctx context.Context, dir string) (*entities.SystemSnapshot, error)
}

// MetricsRecorder defines interface for recording domain metrics
type MetricsRecorder interface {
	RecordEvent(kind string)
	RecordRateLimited()
	RecordMetadataFetch(result string, durationSeconds float64)
	RecordOptionsRejected()
	PipelineStarted()
	PipelineFinished(mode, state, errorType string)
	RecordTransition(state string)
	RecordDownload(mode string, bytes int64, durationSeconds float64)
	RecordCleanupError(target string)
}
