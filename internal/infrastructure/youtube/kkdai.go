package youtube

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/kkdai/youtube/v2"
	"github.com/rs/zerolog"

	"github.com/Agshin2004/yt-video-downloader-bot/internal/domain/download/deps"
	"github.com/Agshin2004/yt-video-downloader-bot/internal/domain/download/entities"
	downloaderrors "github.com/Agshin2004/yt-video-downloader-bot/internal/domain/download/errors"
	"github.com/Agshin2004/yt-video-downloader-bot/internal/domain/download/formats"
)

// ResponseHeaderTimeout bounds waiting for YouTube to start answering.
// Whole downloads are bounded by the caller's context instead.
const ResponseHeaderTimeout = 30 * time.Second

// Client implements deps.VideoHost on top of github.com/kkdai/youtube
type Client struct {
	client *youtube.Client
	logger zerolog.Logger
}

// NewClient creates a YouTube client
func NewClient(logger zerolog.Logger) *Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.ResponseHeaderTimeout = ResponseHeaderTimeout

	return &Client{
		client: &youtube.Client{
			HTTPClient: &http.Client{Transport: transport},
		},
		logger: logger,
	}
}

var _ deps.VideoHost = (*Client)(nil)

// FetchMetadata returns video details. Likes are not exposed by this backend.
func (c *Client) FetchMetadata(ctx context.Context, videoID string) (*entities.VideoMetadata, error) {
	video, err := c.client.GetVideoContext(ctx, videoID)
	if err != nil {
		c.logger.Warn().Err(err).Str("video_id", videoID).Msg("Failed to fetch video metadata")
		return nil, classifyError(err)
	}

	meta := &entities.VideoMetadata{
		ID:       video.ID,
		Title:    video.Title,
		Likes:    -1,
		Duration: video.Duration,
		Author:   video.Author,
		Uploaded: video.PublishDate,
		Formats:  convertFormats(video.Formats),
	}
	if video.ChannelHandle != "" {
		meta.AuthorURL = "https://www.youtube.com/" + video.ChannelHandle
	} else if video.ChannelID != "" {
		meta.AuthorURL = "https://www.youtube.com/channel/" + video.ChannelID
	}

	return meta, nil
}

// OpenStream opens the best stream for mode
func (c *Client) OpenStream(ctx context.Context, videoID string, mode entities.Mode) (*entities.Stream, error) {
	video, err := c.client.GetVideoContext(ctx, videoID)
	if err != nil {
		return nil, classifyError(err)
	}

	var (
		chosen entities.Format
		ok     bool
	)
	converted := convertFormats(video.Formats)
	switch mode {
	case entities.ModeAudio:
		chosen, ok = formats.BestAudio(converted)
		if !ok {
			return nil, downloaderrors.ErrNoAudioFormat
		}
	default:
		chosen, ok = formats.BestCombined(converted, false)
		if !ok {
			return nil, downloaderrors.ErrNoSuitableFormat
		}
	}

	format := video.Formats.Itag(chosen.ItagNo)
	if len(format) == 0 {
		return nil, downloaderrors.ErrNoSuitableFormat
	}

	body, size, err := c.client.GetStreamContext(ctx, video, &format[0])
	if err != nil {
		c.logger.Warn().Err(err).Str("video_id", videoID).Int("itag", chosen.ItagNo).Msg("Failed to open stream")
		return nil, classifyError(err)
	}

	c.logger.Debug().
		Str("video_id", videoID).
		Str("mode", string(mode)).
		Int("itag", chosen.ItagNo).
		Int64("size", size).
		Msg("Stream opened")

	return &entities.Stream{
		Body:     body,
		Format:   chosen,
		Size:     size,
		Title:    video.Title,
		Author:   video.Author,
		Duration: video.Duration,
	}, nil
}

func convertFormats(list youtube.FormatList) []entities.Format {
	out := make([]entities.Format, 0, len(list))
	for _, f := range list {
		bitrate := f.Bitrate
		if bitrate == 0 {
			bitrate = f.AverageBitrate
		}
		out = append(out, entities.Format{
			ItagNo:        f.ItagNo,
			MimeType:      f.MimeType,
			QualityLabel:  f.QualityLabel,
			Bitrate:       bitrate,
			Width:         f.Width,
			Height:        f.Height,
			AudioChannels: f.AudioChannels,
			ContentLength: f.ContentLength,
		})
	}
	return out
}

// classifyError maps library errors onto upstream errors with user messages
func classifyError(err error) error {
	var statusErr *youtube.ErrPlayabiltyStatus
	switch {
	case errors.Is(err, youtube.ErrLoginRequired),
		errors.Is(err, youtube.ErrVideoPrivate),
		errors.Is(err, youtube.ErrNotPlayableInEmbed),
		errors.As(err, &statusErr):
		return downloaderrors.NewUnavailableError(err)
	case errors.Is(err, youtube.ErrInvalidCharactersInVideoID),
		errors.Is(err, youtube.ErrVideoIDMinLength):
		return downloaderrors.NewUnavailableError(err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) || errors.Is(err, context.DeadlineExceeded) {
		return downloaderrors.NewNetworkError(err)
	}

	return downloaderrors.NewUpstreamError(fmt.Errorf("youtube: %w", err))
}
