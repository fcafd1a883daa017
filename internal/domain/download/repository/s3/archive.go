// Package s3 archives delivered files in object storage
package s3

import (
	"context"
	"fmt"
	"path"
	"path/filepath"
	"time"

	"github.com/Agshin2004/yt-video-downloader-bot/internal/domain/download/deps"
	"github.com/Agshin2004/yt-video-downloader-bot/internal/domain/download/entities"
)

// Uploader puts a local file into the bucket
type Uploader interface {
	PutFile(ctx context.Context, objectKey, path, contentType string) error
}

type archive struct {
	uploader Uploader
	now      func() time.Time
}

// NewArchive creates an archive on top of an uploader
func NewArchive(uploader Uploader) deps.Archive {
	return &archive{uploader: uploader, now: time.Now}
}

// Store uploads the file under downloads/{chat_id}/{YYYY}/{MM}/{DD}/{name}
func (a *archive) Store(ctx context.Context, chatID int64, file *entities.MediaFile) (string, error) {
	now := a.now().UTC()
	key := path.Join(
		"downloads",
		fmt.Sprintf("%d", chatID),
		now.Format("2006"),
		now.Format("01"),
		now.Format("02"),
		filepath.Base(file.Path),
	)

	if err := a.uploader.PutFile(ctx, key, file.Path, contentType(file)); err != nil {
		return "", err
	}
	return key, nil
}

func contentType(file *entities.MediaFile) string {
	switch filepath.Ext(file.Path) {
	case ".mp4":
		return "video/mp4"
	case ".webm":
		if file.Mode == entities.ModeAudio {
			return "audio/webm"
		}
		return "video/webm"
	case ".m4a":
		return "audio/mp4"
	default:
		return "application/octet-stream"
	}
}

// NoopArchive is used when object storage is not configured
type NoopArchive struct{}

// Store does nothing
func (NoopArchive) Store(context.Context, int64, *entities.MediaFile) (string, error) {
	return "", nil
}
