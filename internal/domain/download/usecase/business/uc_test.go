package business

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Agshin2004/yt-video-downloader-bot/internal/domain/download/callback"
	"github.com/Agshin2004/yt-video-downloader-bot/internal/domain/download/consts"
	"github.com/Agshin2004/yt-video-downloader-bot/internal/domain/download/dto"
	"github.com/Agshin2004/yt-video-downloader-bot/internal/domain/download/entities"
	downloaderrors "github.com/Agshin2004/yt-video-downloader-bot/internal/domain/download/errors"
	pkgerrors "github.com/Agshin2004/yt-video-downloader-bot/pkg/errors"
)

func TestHandleStart(t *testing.T) {
	env := newTestEnv(t, nil)

	err := env.uc.HandleStart(context.Background(), &dto.StartCommandRequest{ChatID: testChatID, Username: "<bob>"})
	require.NoError(t, err)

	assert.Equal(t, []string{consts.StartSticker}, env.messenger.stickers)
	assert.Equal(t, []string{"Welcome, <b><em>&lt;bob&gt;</em></b>\nSend YouTube link to download the video."}, env.messenger.texts())
}

func TestHandleStart_NoUsername(t *testing.T) {
	env := newTestEnv(t, nil)

	require.NoError(t, env.uc.HandleStart(context.Background(), &dto.StartCommandRequest{ChatID: testChatID}))
	assert.Contains(t, env.messenger.texts()[0], "friend")
}

func TestHandleText_NoLink(t *testing.T) {
	env := newTestEnv(t, nil)

	err := env.uc.HandleText(context.Background(), testChatID, "hello there")

	assert.ErrorIs(t, err, downloaderrors.ErrNoVideoLink)
	assert.Equal(t, []string{consts.MsgUnknownText}, env.messenger.texts())
}

func TestHandleText_PresentsOptions(t *testing.T) {
	env := newTestEnv(t, nil)

	err := env.uc.HandleText(context.Background(), testChatID, "look https://youtu.be/"+testVideoID+" nice")
	require.NoError(t, err)

	require.Len(t, env.messenger.sent, 1)
	msg := env.messenger.sent[0]
	require.NotNil(t, msg.Keyboard)
	require.Len(t, msg.Keyboard.Rows, 1)
	assert.Equal(t, "o_video_"+testVideoID+"_4242", msg.Keyboard.Rows[0][0].CallbackData)
	assert.Equal(t, "o_audio_"+testVideoID+"_4242", msg.Keyboard.Rows[0][1].CallbackData)
	assert.Empty(t, env.leftovers(t))
}

func TestHandleOption_StartsPipeline(t *testing.T) {
	env := newTestEnv(t, nil)
	token := callback.Encode(videoRequest())

	err := env.uc.HandleOption(context.Background(), testChatID, "cb-1", 77, token)
	require.NoError(t, err)
	env.uc.runner.Wait()

	assert.Equal(t, []string{consts.MsgOptionAccepted}, env.messenger.answers)
	assert.Contains(t, env.messenger.deletedIDs(), 77)
	assert.Len(t, env.messenger.deliveredFiles(), 1)
	assert.Empty(t, env.leftovers(t))
}

func TestHandleOption_RejectsBadTokens(t *testing.T) {
	tests := []struct {
		name   string
		chatID int64
		data   string
		want   error
	}{
		{name: "garbage", chatID: testChatID, data: "garbage", want: downloaderrors.ErrMalformedToken},
		{name: "unknown mode", chatID: testChatID, data: "o_gif_" + testVideoID + "_4242", want: downloaderrors.ErrUnknownMode},
		{name: "short id", chatID: testChatID, data: "o_video_abc_4242", want: downloaderrors.ErrMalformedToken},
		{name: "other chat", chatID: 1001, data: "o_video_" + testVideoID + "_4242", want: downloaderrors.ErrChatMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, nil)

			err := env.uc.HandleOption(context.Background(), tt.chatID, "cb", 5, tt.data)
			env.uc.runner.Wait()

			assert.ErrorIs(t, err, tt.want)
			assert.True(t, pkgerrors.IsInputError(err))
			assert.Equal(t, []string{consts.MsgBadOption}, env.messenger.answers)
			assert.Empty(t, env.messenger.texts())
			assert.Empty(t, env.messenger.deletedIDs())
			assert.Empty(t, env.messenger.deliveredFiles())
		})
	}
}

func TestHandleRemoteRequest(t *testing.T) {
	t.Run("with mode downloads right away", func(t *testing.T) {
		env := newTestEnv(t, nil)

		err := env.uc.HandleRemoteRequest(context.Background(), &dto.DownloadRequestedEvent{
			ChatID: testChatID,
			URL:    "https://www.youtube.com/watch?v=" + testVideoID,
			Mode:   "audio",
		})
		require.NoError(t, err)
		env.uc.runner.Wait()

		require.Len(t, env.messenger.deliveredFiles(), 1)
		assert.Equal(t, entities.ModeAudio, env.messenger.deliveredFiles()[0].Mode)
	})

	t.Run("without mode presents options", func(t *testing.T) {
		env := newTestEnv(t, nil)

		err := env.uc.HandleRemoteRequest(context.Background(), &dto.DownloadRequestedEvent{ChatID: testChatID, URL: testVideoID})
		require.NoError(t, err)

		require.Len(t, env.messenger.sent, 1)
		assert.NotNil(t, env.messenger.sent[0].Keyboard)
	})

	t.Run("bad mode", func(t *testing.T) {
		env := newTestEnv(t, nil)

		err := env.uc.HandleRemoteRequest(context.Background(), &dto.DownloadRequestedEvent{ChatID: testChatID, URL: testVideoID, Mode: "gif"})
		assert.ErrorIs(t, err, downloaderrors.ErrUnknownMode)
	})

	t.Run("too big is refused before download", func(t *testing.T) {
		env := newTestEnv(t, nil)
		env.host.fetchMetadataFunc = func(_ context.Context, videoID string) (*entities.VideoMetadata, error) {
			return metadataWithSize(videoID, 51), nil
		}
		env.host.openStreamFunc = func(context.Context, string, entities.Mode) (*entities.Stream, error) {
			t.Error("stream must not be opened")
			return nil, errors.New("unexpected")
		}

		err := env.uc.HandleRemoteRequest(context.Background(), &dto.DownloadRequestedEvent{ChatID: testChatID, URL: testVideoID, Mode: "video"})
		env.uc.runner.Wait()

		assert.ErrorIs(t, err, downloaderrors.ErrFileTooBig)
		assert.Equal(t, []string{consts.MsgTooBig}, env.messenger.texts())
	})
}

func TestHandleStats(t *testing.T) {
	t.Run("non-owner is refused", func(t *testing.T) {
		env := newTestEnv(t, nil)

		err := env.uc.HandleStats(context.Background(), testChatID)

		assert.ErrorIs(t, err, downloaderrors.ErrNotOwner)
		assert.Equal(t, []string{consts.MsgNotAllowed}, env.messenger.texts())
	})

	t.Run("owner gets history and system figures", func(t *testing.T) {
		env := newTestEnv(t, nil)
		env.probe.snapshot = &entities.SystemSnapshot{CPUPercent: 12.5, Goroutines: 9, Uptime: 90 * time.Minute}
		require.NoError(t, env.history.Save(context.Background(), &entities.DownloadRecord{ID: "a", State: "DONE", Bytes: 1 << 30}))

		require.NoError(t, env.uc.HandleStats(context.Background(), 1))

		text := env.messenger.texts()[0]
		assert.Contains(t, text, "Total: 1")
		assert.Contains(t, text, "DONE: 1")
		assert.Contains(t, text, "Delivered: 1.00 GB")
		assert.Contains(t, text, "CPU: 12.5%")
		assert.Contains(t, text, "Uptime: 1h30m0s")
	})

	t.Run("probe failure still reports history", func(t *testing.T) {
		env := newTestEnv(t, nil)
		env.probe.err = errors.New("no /proc")

		require.NoError(t, env.uc.HandleStats(context.Background(), 1))

		text := env.messenger.texts()[0]
		assert.Contains(t, text, "Total: 0")
		assert.NotContains(t, text, "System")
	})
}
