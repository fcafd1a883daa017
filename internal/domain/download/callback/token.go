// Package callback encodes and decodes inline button tokens.
//
// Token format: o_<mode>_<videoId>_<chatId>. The video identifier may itself
// contain underscores, so the token is split from both ends: the mode is the
// field after the prefix and the chat ID is the field after the last
// underscore.
package callback

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Agshin2004/yt-video-downloader-bot/internal/domain/download/consts"
	"github.com/Agshin2004/yt-video-downloader-bot/internal/domain/download/entities"
	downloaderrors "github.com/Agshin2004/yt-video-downloader-bot/internal/domain/download/errors"
	"github.com/Agshin2004/yt-video-downloader-bot/internal/domain/download/linkparser"
)

// MaxTokenLength is the Telegram limit for callback data
const MaxTokenLength = 64

// Encode builds the token for a button
func Encode(req entities.RequestContext) string {
	return fmt.Sprintf("%s%s_%s_%d", consts.CallbackPrefix, req.Mode, req.VideoID, req.ChatID)
}

// Decode parses a token coming back from Telegram. Any malformed token
// yields an input error and a zero RequestContext.
func Decode(data string) (entities.RequestContext, error) {
	if len(data) > MaxTokenLength || !strings.HasPrefix(data, consts.CallbackPrefix) {
		return entities.RequestContext{}, downloaderrors.ErrMalformedToken
	}

	rest := strings.TrimPrefix(data, consts.CallbackPrefix)

	modeEnd := strings.IndexByte(rest, '_')
	if modeEnd <= 0 {
		return entities.RequestContext{}, downloaderrors.ErrMalformedToken
	}
	mode := entities.Mode(rest[:modeEnd])
	if !mode.Valid() {
		return entities.RequestContext{}, downloaderrors.ErrUnknownMode
	}
	rest = rest[modeEnd+1:]

	chatStart := strings.LastIndexByte(rest, '_')
	if chatStart <= 0 {
		return entities.RequestContext{}, downloaderrors.ErrMalformedToken
	}

	videoID := rest[:chatStart]
	if !linkparser.IsVideoID(videoID) {
		return entities.RequestContext{}, downloaderrors.ErrMalformedToken
	}

	chatID, err := strconv.ParseInt(rest[chatStart+1:], 10, 64)
	if err != nil || chatID == 0 {
		return entities.RequestContext{}, downloaderrors.ErrMalformedToken
	}

	return entities.RequestContext{
		ChatID:  chatID,
		VideoID: videoID,
		Mode:    mode,
	}, nil
}
