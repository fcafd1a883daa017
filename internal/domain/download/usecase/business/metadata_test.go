package business

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Agshin2004/yt-video-downloader-bot/internal/domain/download/consts"
	"github.com/Agshin2004/yt-video-downloader-bot/internal/domain/download/entities"
	downloaderrors "github.com/Agshin2004/yt-video-downloader-bot/internal/domain/download/errors"
)

func TestPresentOptions_SizeThreshold(t *testing.T) {
	tests := []struct {
		sizeMB   int64
		admitted bool
	}{
		{sizeMB: 1, admitted: true},
		{sizeMB: 49, admitted: true},
		{sizeMB: 50, admitted: true},
		{sizeMB: 51, admitted: false},
		{sizeMB: 600, admitted: false},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%dMB", tt.sizeMB), func(t *testing.T) {
			env := newTestEnv(t, nil)
			env.host.fetchMetadataFunc = func(_ context.Context, videoID string) (*entities.VideoMetadata, error) {
				return metadataWithSize(videoID, tt.sizeMB), nil
			}

			err := env.uc.PresentOptions(context.Background(), testChatID, testVideoID)

			require.Len(t, env.messenger.sent, 1)
			if tt.admitted {
				require.NoError(t, err)
				assert.NotNil(t, env.messenger.sent[0].Keyboard)
				assert.Contains(t, env.messenger.sent[0].Text, fmt.Sprintf("<u>%dMB</u>", tt.sizeMB))
			} else {
				assert.ErrorIs(t, err, downloaderrors.ErrFileTooBig)
				assert.Nil(t, env.messenger.sent[0].Keyboard)
				assert.Equal(t, consts.MsgTooBig, env.messenger.sent[0].Text)
				assert.Equal(t, 1, env.metrics.rejected)
			}
		})
	}
}

func TestPresentOptions_MetadataFailure(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "unavailable", err: downloaderrors.NewUnavailableError(errors.New("private")), want: downloaderrors.MsgVideoUnavailable},
		{name: "untyped", err: errors.New("boom"), want: downloaderrors.MsgUpstreamFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, nil)
			env.host.fetchMetadataFunc = func(context.Context, string) (*entities.VideoMetadata, error) {
				return nil, tt.err
			}

			err := env.uc.PresentOptions(context.Background(), testChatID, testVideoID)

			require.Error(t, err)
			assert.Equal(t, []string{tt.want}, env.messenger.texts())
			assert.Nil(t, env.messenger.sent[0].Keyboard)
			assert.Empty(t, env.leftovers(t))
		})
	}
}

func TestFetchMetadata_NoCombinedFormat(t *testing.T) {
	env := newTestEnv(t, nil)
	env.host.fetchMetadataFunc = func(_ context.Context, videoID string) (*entities.VideoMetadata, error) {
		meta := metadataWithSize(videoID, 10)
		meta.Formats = meta.Formats[1:]
		return meta, nil
	}

	_, err := env.uc.FetchMetadata(context.Background(), testVideoID)
	assert.ErrorIs(t, err, downloaderrors.ErrNoSuitableFormat)
}

func TestFormatMetadata(t *testing.T) {
	meta := &entities.VideoMetadata{
		Title:     "Rock & Roll",
		SizeMB:    12,
		Likes:     1500,
		Duration:  90 * time.Second,
		Author:    "Band",
		AuthorURL: "https://www.youtube.com/@band",
		Uploaded:  time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC),
	}

	want := "<b>Rock &amp; Roll</b>\n\n" +
		"<u>12MB</u>\n\n" +
		consts.MsgSelectOptions + "\n\n" +
		"Likes: 1500\n" +
		"Duration: 1.50 minutes\n" +
		"Author: Band https://www.youtube.com/@band\n" +
		"Upload Date: 2024-03-09"

	assert.Equal(t, want, FormatMetadata(meta))
}

func TestFormatMetadata_UnknownFields(t *testing.T) {
	text := FormatMetadata(&entities.VideoMetadata{Title: "x", Likes: -1})

	assert.Contains(t, text, "Likes: n/a")
	assert.Contains(t, text, "Upload Date: unknown")
}

func TestEscapeHTML(t *testing.T) {
	assert.Equal(t, `Tom &amp; Jerry &lt;b&gt;&#34;live&#34; &#39;24`, EscapeHTML(`Tom & Jerry <b>"live" '24`))
}
