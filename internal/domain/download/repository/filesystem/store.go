// Package filesystem keeps temporary media files on local disk
package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/Agshin2004/yt-video-downloader-bot/internal/domain/download/deps"
	"github.com/Agshin2004/yt-video-downloader-bot/internal/domain/download/entities"
)

// Store implements deps.MediaStore
type Store struct {
	dir    string
	now    func() time.Time
	logger zerolog.Logger
}

// NewStore creates the directory if needed and returns a store rooted at dir
func NewStore(dir string, logger zerolog.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create temp dir %s: %w", dir, err)
	}

	return &Store{
		dir:    dir,
		now:    time.Now,
		logger: logger,
	}, nil
}

var _ deps.MediaStore = (*Store)(nil)

// Create opens a new file named <mode>_<chatID>_<unixNano>_<random><ext>.
// The random part keeps names unique for two requests of the same chat
// within one clock tick.
func (s *Store) Create(chatID int64, mode entities.Mode, ext string) (*os.File, error) {
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}

	pattern := fmt.Sprintf("%s_%d_%d_*%s", mode, chatID, s.now().UnixNano(), ext)
	file, err := os.CreateTemp(s.dir, pattern)
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file: %w", err)
	}

	s.logger.Debug().Str("path", file.Name()).Int64("chat_id", chatID).Msg("Temporary file created")
	return file, nil
}

// Remove deletes the file at path. A file that is already gone is not an error.
func (s *Store) Remove(path string) error {
	if path == "" {
		return nil
	}

	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove %s: %w", path, err)
	}

	s.logger.Debug().Str("path", path).Msg("Temporary file removed")
	return nil
}

// Size returns the size of the file in bytes
func (s *Store) Size(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	return info.Size(), nil
}

// Dir returns the directory files are created in
func (s *Store) Dir() string {
	return s.dir
}

// HealthCheck reports whether the directory is still usable
func (s *Store) HealthCheck(_ context.Context) error {
	info, err := os.Stat(s.dir)
	if err != nil {
		return fmt.Errorf("temp dir unavailable: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("temp dir %s is not a directory", s.dir)
	}
	return nil
}
