package business

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/Agshin2004/yt-video-downloader-bot/internal/domain/download/consts"
	"github.com/Agshin2004/yt-video-downloader-bot/internal/domain/download/entities"
	downloaderrors "github.com/Agshin2004/yt-video-downloader-bot/internal/domain/download/errors"
	"github.com/Agshin2004/yt-video-downloader-bot/internal/domain/download/formats"
	pkgerrors "github.com/Agshin2004/yt-video-downloader-bot/pkg/errors"
)

// pipelineRun is the state of one Delivery Pipeline execution
type pipelineRun struct {
	uc     *UseCase
	req    entities.RequestContext
	state  entities.State
	err    error
	record *entities.DownloadRecord
	log    zerolog.Logger
}

// RunPipeline drives one request through
// NOTIFIED_START -> DOWNLOADING -> SIZE_CHECK -> SENDING -> DONE,
// with ERROR reachable from every state. The temporary file, if one was
// written, does not exist anymore when RunPipeline returns.
func (uc *UseCase) RunPipeline(ctx context.Context, req entities.RequestContext) *entities.DownloadRecord {
	run := &pipelineRun{
		uc:  uc,
		req: req,
		record: &entities.DownloadRecord{
			ID:        uc.newID(),
			ChatID:    req.ChatID,
			VideoID:   req.VideoID,
			Mode:      string(req.Mode),
			StartedAt: uc.now(),
		},
	}
	run.log = uc.logger.With().
		Str("request_id", run.record.ID).
		Int64("chat_id", req.ChatID).
		Str("video_id", req.VideoID).
		Str("mode", string(req.Mode)).
		Logger()

	uc.metrics.PipelineStarted()
	defer run.finish()

	run.execute(ctx)
	return run.record
}

func (r *pipelineRun) execute(ctx context.Context) {
	uc := r.uc
	chatID := r.req.ChatID

	r.transition(entities.StateNotifiedStart)
	startID, err := uc.sender.SendMessage(ctx, chatID, consts.MsgDownloadStarted, nil)
	if err != nil {
		r.fail(err)
		return
	}

	r.transition(entities.StateDownloading)
	file, err := uc.Download(ctx, r.req)
	if err != nil {
		uc.deleteMessage(ctx, chatID, startID)
		uc.notify(ctx, chatID, downloadFailureMessage(err, r.req.Mode))
		r.fail(err)
		return
	}
	defer uc.removeFile(file.Path)
	r.record.Bytes = file.Bytes
	r.record.SizeMB = formats.SizeMB(file.Bytes)

	// the start message goes before the finished one appears
	uc.deleteMessage(ctx, chatID, startID)
	finishedID := uc.notify(ctx, chatID, finishedMessage(r.req.Mode))

	if r.req.Mode == entities.ModeVideo {
		r.transition(entities.StateSizeCheck)

		size, err := uc.store.Size(file.Path)
		if err != nil {
			uc.deleteMessage(ctx, chatID, finishedID)
			uc.notify(ctx, chatID, consts.MsgDownloadFailed)
			r.fail(downloaderrors.NewWriteError(err))
			return
		}

		sizeMB := formats.SizeMB(size)
		r.record.SizeMB = sizeMB
		if sizeMB > uc.settings.MaxFileSizeMB {
			r.log.Info().
				Int64("size_mb", sizeMB).
				Int64("max_mb", uc.settings.MaxFileSizeMB).
				Msg("Downloaded file exceeds size limit")
			uc.deleteMessage(ctx, chatID, finishedID)
			uc.notify(ctx, chatID, consts.MsgTooBig)
			r.fail(downloaderrors.ErrFileTooBig)
			return
		}
	}

	r.transition(entities.StateSending)
	var sendErr error
	if r.req.Mode == entities.ModeAudio {
		sendErr = uc.sender.SendAudio(ctx, chatID, file)
	} else {
		sendErr = uc.sender.SendVideo(ctx, chatID, file)
	}
	uc.deleteMessage(ctx, chatID, finishedID)

	if sendErr != nil {
		uc.notify(ctx, chatID, consts.MsgSendFailed)
		r.fail(sendErr)
		return
	}

	if key, err := uc.archive.Store(ctx, chatID, file); err != nil {
		r.log.Warn().Err(err).Msg("Failed to archive delivered file")
	} else if key != "" {
		r.log.Debug().Str("key", key).Msg("Delivered file archived")
	}

	r.transition(entities.StateDone)
}

func (r *pipelineRun) transition(state entities.State) {
	r.log.Debug().Str("from", string(r.state)).Str("to", string(state)).Msg("Pipeline transition")
	r.state = state
	r.uc.metrics.RecordTransition(string(state))
}

func (r *pipelineRun) fail(err error) {
	r.err = err
	r.record.Error = err.Error()
	r.log.Warn().Err(err).Str("state", string(r.state)).Msg("Pipeline failed")
	r.transition(entities.StateError)
}

// finish records the outcome. It runs after every deferred cleanup of execute.
func (r *pipelineRun) finish() {
	uc := r.uc
	if !r.state.Terminal() {
		// execute panicked, the runner logs the panic itself
		r.record.Error = "pipeline aborted"
		r.transition(entities.StateError)
	}

	r.record.State = string(r.state)
	r.record.FinishedAt = uc.now()

	errorType := ""
	if r.state == entities.StateError {
		errorType = "unknown"
		if t, ok := pkgerrors.TypeOf(r.err); ok {
			errorType = t.String()
		}
	}
	uc.metrics.PipelineFinished(r.record.Mode, r.record.State, errorType)

	ctx, cancel := context.WithTimeout(context.Background(), bookkeepingTimeout)
	defer cancel()

	if err := uc.history.Save(ctx, r.record); err != nil {
		r.log.Warn().Err(err).Msg("Failed to save download history")
	}
	if err := uc.events.PublishDownloadFinished(ctx, r.record); err != nil {
		r.log.Warn().Err(err).Msg("Failed to publish download event")
	}

	r.log.Info().
		Str("state", r.record.State).
		Int64("bytes", r.record.Bytes).
		Dur("took", r.record.FinishedAt.Sub(r.record.StartedAt)).
		Msg("Pipeline finished")
}

func finishedMessage(mode entities.Mode) string {
	if mode == entities.ModeAudio {
		return consts.MsgFinishedAudio
	}
	return consts.MsgFinishedVideo
}

// downloadFailureMessage shows platform messages as is and hides local failures
func downloadFailureMessage(err error, mode entities.Mode) string {
	fallback := consts.MsgDownloadFailed
	if mode == entities.ModeAudio {
		fallback = consts.MsgAudioFailed
	}
	if pkgerrors.IsUpstreamError(err) {
		return pkgerrors.UserMessage(err, fallback)
	}
	return fallback
}
