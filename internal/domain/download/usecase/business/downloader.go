package business

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"

	"github.com/gosimple/slug"

	"github.com/Agshin2004/yt-video-downloader-bot/internal/domain/download/entities"
	downloaderrors "github.com/Agshin2004/yt-video-downloader-bot/internal/domain/download/errors"
	"github.com/Agshin2004/yt-video-downloader-bot/internal/domain/download/formats"
	pkgerrors "github.com/Agshin2004/yt-video-downloader-bot/pkg/errors"
)

// maxUploadNameLength keeps attachment names readable
const maxUploadNameLength = 64

// Download streams the media for req into a new temporary file and returns it
// once the whole stream is written. Any failure removes the partial file.
// The call is bounded by the configured download timeout.
func (uc *UseCase) Download(ctx context.Context, req entities.RequestContext) (*entities.MediaFile, error) {
	ctx, cancel := context.WithTimeout(ctx, uc.settings.DownloadTimeout)
	defer cancel()

	started := uc.now()
	log := uc.logger.With().
		Int64("chat_id", req.ChatID).
		Str("video_id", req.VideoID).
		Str("mode", string(req.Mode)).
		Logger()

	stream, err := uc.host.OpenStream(ctx, req.VideoID, req.Mode)
	if err != nil {
		if !pkgerrors.IsUpstreamError(err) {
			err = downloaderrors.NewUpstreamError(err)
		}
		return nil, err
	}
	defer stream.Body.Close()

	ext := formats.Extension(stream.Format, req.Mode)
	file, err := uc.store.Create(req.ChatID, req.Mode, ext)
	if err != nil {
		return nil, downloaderrors.NewWriteError(err)
	}
	path := file.Name()

	written, copyErr := io.Copy(file, stream.Body)
	closeErr := file.Close()

	if copyErr != nil || closeErr != nil {
		uc.removeFile(path)

		err := classifyCopyError(ctx, copyErr, closeErr)
		log.Error().Err(err).Int64("bytes", written).Msg("Download failed, partial file removed")
		return nil, err
	}

	uc.metrics.RecordDownload(string(req.Mode), written, uc.now().Sub(started).Seconds())
	log.Info().Int64("bytes", written).Str("path", path).Msg("Download finished")

	return &entities.MediaFile{
		Path:       path,
		Mode:       req.Mode,
		Bytes:      written,
		Title:      stream.Title,
		Author:     stream.Author,
		Duration:   stream.Duration,
		UploadName: uploadName(stream.Title, req.VideoID, ext),
	}, nil
}

// classifyCopyError tells local write failures from stream failures
func classifyCopyError(ctx context.Context, copyErr, closeErr error) error {
	if copyErr == nil {
		return downloaderrors.NewWriteError(closeErr)
	}

	if ctx.Err() != nil {
		return downloaderrors.NewNetworkError(fmt.Errorf("download interrupted: %w", copyErr))
	}

	var pathErr *fs.PathError
	if errors.As(copyErr, &pathErr) {
		return downloaderrors.NewWriteError(copyErr)
	}

	return downloaderrors.NewNetworkError(copyErr)
}

// removeFile deletes a temporary file, failures are logged and counted only
func (uc *UseCase) removeFile(path string) {
	if err := uc.store.Remove(path); err != nil {
		uc.metrics.RecordCleanupError("file")
		uc.logger.Error().Err(err).Str("path", path).Msg("Failed to remove temporary file")
	}
}

// uploadName builds the attachment name from the title
func uploadName(title, videoID, ext string) string {
	name := slug.Make(title)
	if len(name) > maxUploadNameLength {
		name = name[:maxUploadNameLength]
	}
	if name == "" {
		name = videoID
	}
	return name + ext
}
