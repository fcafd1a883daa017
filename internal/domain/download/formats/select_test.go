package formats

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Agshin2004/yt-video-downloader-bot/internal/domain/download/entities"
)

var listing = []entities.Format{
	{ItagNo: 18, MimeType: `video/mp4; codecs="avc1.42001E, mp4a.40.2"`, Width: 640, Height: 360, AudioChannels: 2, Bitrate: 500_000, ContentLength: 20 * bytesPerMB},
	{ItagNo: 22, MimeType: `video/mp4; codecs="avc1.64001F, mp4a.40.2"`, Width: 1280, Height: 720, AudioChannels: 2, Bitrate: 1_500_000},
	{ItagNo: 137, MimeType: `video/mp4; codecs="avc1.640028"`, Width: 1920, Height: 1080, Bitrate: 4_000_000, ContentLength: 200 * bytesPerMB},
	{ItagNo: 140, MimeType: `audio/mp4; codecs="mp4a.40.2"`, AudioChannels: 2, Bitrate: 130_000, ContentLength: 3 * bytesPerMB},
	{ItagNo: 251, MimeType: `audio/webm; codecs="opus"`, AudioChannels: 2, Bitrate: 130_000, ContentLength: 3 * bytesPerMB},
	{ItagNo: 250, MimeType: `audio/webm; codecs="opus"`, AudioChannels: 2, Bitrate: 70_000},
}

func TestBestCombined(t *testing.T) {
	best, ok := BestCombined(listing, true)
	assert.True(t, ok)
	assert.Equal(t, 18, best.ItagNo, "only itag 18 has both tracks and a size")

	best, ok = BestCombined(listing, false)
	assert.True(t, ok)
	assert.Equal(t, 22, best.ItagNo)

	_, ok = BestCombined(listing[2:], false)
	assert.False(t, ok)
}

func TestBestAudio(t *testing.T) {
	best, ok := BestAudio(listing)
	assert.True(t, ok)
	assert.Equal(t, 140, best.ItagNo, "mp4 wins the bitrate tie")

	_, ok = BestAudio(listing[:3])
	assert.False(t, ok)
}

func TestSizeMB(t *testing.T) {
	tests := []struct {
		bytes int64
		want  int64
	}{
		{0, 0},
		{bytesPerMB / 2, 1},
		{bytesPerMB/2 - 1, 0},
		{50 * bytesPerMB, 50},
		{600 * bytesPerMB, 600},
		{50*bytesPerMB + bytesPerMB/2 - 1, 50},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, SizeMB(tt.bytes), tt.bytes)
	}
}

func TestExtension(t *testing.T) {
	assert.Equal(t, ".mp4", Extension(listing[0], entities.ModeVideo))
	assert.Equal(t, ".m4a", Extension(listing[3], entities.ModeAudio))
	assert.Equal(t, ".webm", Extension(listing[4], entities.ModeAudio))
}
