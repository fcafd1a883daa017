package business

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/Agshin2004/yt-video-downloader-bot/internal/domain/download/callback"
	"github.com/Agshin2004/yt-video-downloader-bot/internal/domain/download/consts"
	"github.com/Agshin2004/yt-video-downloader-bot/internal/domain/download/entities"
	downloaderrors "github.com/Agshin2004/yt-video-downloader-bot/internal/domain/download/errors"
	"github.com/Agshin2004/yt-video-downloader-bot/internal/domain/download/formats"
	pkgerrors "github.com/Agshin2004/yt-video-downloader-bot/pkg/errors"
)

// FetchMetadata queries the platform once and picks the best combined
// format with a declared size. There is no retry.
func (uc *UseCase) FetchMetadata(ctx context.Context, videoID string) (*entities.VideoMetadata, error) {
	started := uc.now()

	meta, err := uc.host.FetchMetadata(ctx, videoID)
	if err != nil {
		uc.metrics.RecordMetadataFetch("error", uc.now().Sub(started).Seconds())
		if !pkgerrors.IsUpstreamError(err) {
			err = downloaderrors.NewUpstreamError(err)
		}
		return nil, err
	}

	best, ok := formats.BestCombined(meta.Formats, true)
	if !ok {
		uc.metrics.RecordMetadataFetch("no_format", uc.now().Sub(started).Seconds())
		return nil, downloaderrors.ErrNoSuitableFormat
	}

	meta.Best = best
	meta.SizeMB = formats.SizeMB(best.ContentLength)
	uc.metrics.RecordMetadataFetch("ok", uc.now().Sub(started).Seconds())

	return meta, nil
}

// PresentOptions sends the metadata message with the two option buttons,
// or exactly one error message when the video cannot be offered.
func (uc *UseCase) PresentOptions(ctx context.Context, chatID int64, videoID string) error {
	meta, err := uc.admit(ctx, chatID, videoID)
	if err != nil {
		return err
	}

	keyboard := OptionsKeyboard(chatID, videoID)
	if _, err := uc.sender.SendMessage(ctx, chatID, FormatMetadata(meta), keyboard); err != nil {
		return fmt.Errorf("failed to send options: %w", err)
	}

	uc.logger.Info().
		Int64("chat_id", chatID).
		Str("video_id", videoID).
		Int64("size_mb", meta.SizeMB).
		Msg("Download options presented")

	return nil
}

// admit fetches metadata and runs the pre-download size check. On failure the
// chat has already received the matching message.
func (uc *UseCase) admit(ctx context.Context, chatID int64, videoID string) (*entities.VideoMetadata, error) {
	meta, err := uc.FetchMetadata(ctx, videoID)
	if err != nil {
		uc.logger.Warn().Err(err).Int64("chat_id", chatID).Str("video_id", videoID).Msg("Metadata fetch failed")
		uc.notify(ctx, chatID, pkgerrors.UserMessage(err, consts.MsgMetadataFailed))
		return nil, err
	}

	if meta.SizeMB > uc.settings.MaxFileSizeMB {
		uc.metrics.RecordOptionsRejected()
		uc.logger.Info().
			Int64("chat_id", chatID).
			Str("video_id", videoID).
			Int64("size_mb", meta.SizeMB).
			Int64("max_mb", uc.settings.MaxFileSizeMB).
			Msg("Video rejected by size limit")
		uc.notify(ctx, chatID, consts.MsgTooBig)
		return nil, downloaderrors.ErrFileTooBig
	}

	return meta, nil
}

// OptionsKeyboard builds the video/audio buttons for a chat
func OptionsKeyboard(chatID int64, videoID string) *entities.Keyboard {
	video := entities.RequestContext{ChatID: chatID, VideoID: videoID, Mode: entities.ModeVideo}
	audio := entities.RequestContext{ChatID: chatID, VideoID: videoID, Mode: entities.ModeAudio}

	return &entities.Keyboard{
		Rows: [][]entities.Button{{
			{Text: consts.ButtonVideo, CallbackData: callback.Encode(video)},
			{Text: consts.ButtonAudio, CallbackData: callback.Encode(audio)},
		}},
	}
}

// FormatMetadata renders the HTML metadata message
func FormatMetadata(meta *entities.VideoMetadata) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "<b>%s</b>\n\n", EscapeHTML(meta.Title))
	fmt.Fprintf(&sb, "<u>%dMB</u>\n\n", meta.SizeMB)
	sb.WriteString(consts.MsgSelectOptions)
	sb.WriteString("\n\n")

	likes := "n/a"
	if meta.Likes >= 0 {
		likes = fmt.Sprintf("%d", meta.Likes)
	}
	fmt.Fprintf(&sb, "Likes: %s\n", likes)
	fmt.Fprintf(&sb, "Duration: %.2f minutes\n", meta.Duration.Minutes())

	author := strings.TrimSpace(meta.Author + " " + meta.AuthorURL)
	fmt.Fprintf(&sb, "Author: %s\n", EscapeHTML(author))

	uploaded := "unknown"
	if !meta.Uploaded.IsZero() {
		uploaded = meta.Uploaded.Format("2006-01-02")
	}
	fmt.Fprintf(&sb, "Upload Date: %s", uploaded)

	return sb.String()
}

// EscapeHTML escapes user supplied text for HTML parse mode
func EscapeHTML(s string) string {
	return html.EscapeString(s)
}
