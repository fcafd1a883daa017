// Package formats picks streams out of a format listing
package formats

import (
	"math"
	"strings"

	"github.com/Agshin2004/yt-video-downloader-bot/internal/domain/download/entities"
)

const bytesPerMB = 1024 * 1024

// SizeMB converts bytes to whole megabytes, rounding half up
func SizeMB(bytes int64) int64 {
	return int64(math.Round(float64(bytes) / bytesPerMB))
}

// BestCombined returns the highest quality format carrying both audio and
// video. With requireSize only formats with a declared content length count.
func BestCombined(list []entities.Format, requireSize bool) (entities.Format, bool) {
	var (
		best  entities.Format
		found bool
	)

	for _, f := range list {
		if !f.HasAudio() || !f.HasVideo() {
			continue
		}
		if requireSize && f.ContentLength <= 0 {
			continue
		}
		if !found || betterVideo(f, best) {
			best, found = f, true
		}
	}

	return best, found
}

// BestAudio returns the audio-only format with the highest bitrate,
// preferring mp4 containers on ties.
func BestAudio(list []entities.Format) (entities.Format, bool) {
	var (
		best  entities.Format
		found bool
	)

	for _, f := range list {
		if !f.HasAudio() || f.HasVideo() {
			continue
		}
		if !found || betterAudio(f, best) {
			best, found = f, true
		}
	}

	return best, found
}

// Extension returns the file extension for a format in the given mode
func Extension(f entities.Format, mode entities.Mode) string {
	mime := strings.ToLower(f.MimeType)
	switch {
	case strings.Contains(mime, "webm"):
		return ".webm"
	case mode == entities.ModeAudio:
		return ".m4a"
	default:
		return ".mp4"
	}
}

func betterVideo(candidate, current entities.Format) bool {
	if candidate.Height != current.Height {
		return candidate.Height > current.Height
	}
	return candidate.Bitrate > current.Bitrate
}

func betterAudio(candidate, current entities.Format) bool {
	if candidate.Bitrate != current.Bitrate {
		return candidate.Bitrate > current.Bitrate
	}
	return isMP4(candidate) && !isMP4(current)
}

func isMP4(f entities.Format) bool {
	return strings.HasPrefix(strings.ToLower(f.MimeType), "audio/mp4") ||
		strings.HasPrefix(strings.ToLower(f.MimeType), "video/mp4")
}
