// Package errors contains domain-specific errors for the download domain
package errors

import (
	pkgerrors "github.com/Agshin2004/yt-video-downloader-bot/pkg/errors"
)

// Domain errors for download operations
var (
	ErrNoVideoLink      = pkgerrors.NewInputError("no YouTube link found")
	ErrMalformedToken   = pkgerrors.NewInputError("malformed callback token")
	ErrUnknownMode      = pkgerrors.NewInputError("unknown download mode")
	ErrChatMismatch     = pkgerrors.NewInputError("callback token belongs to another chat")
	ErrFileTooBig       = pkgerrors.NewPolicyError("Video size is too big. Please choose a smaller video.")
	ErrRateLimited      = pkgerrors.NewPolicyError("Too many requests, please slow down.")
	ErrNotOwner         = pkgerrors.NewPolicyError("This command is not available.")
	ErrNoSuitableFormat = pkgerrors.NewUpstreamError("No downloadable format with both audio and video was found.", nil)
	ErrNoAudioFormat    = pkgerrors.NewUpstreamError("No audio-only format was found for this video.", nil)
)

// Upstream error messages shown to users
const (
	MsgVideoUnavailable = "This video is unavailable (private, age-restricted or removed)."
	MsgNetworkFailure   = "Could not reach YouTube, please try again."
	MsgUpstreamFailure  = "YouTube returned an error for this video. Please try again."
)

// NewUnavailableError wraps a platform error saying the video cannot be played
func NewUnavailableError(cause error) error {
	return pkgerrors.NewUpstreamError(MsgVideoUnavailable, cause)
}

// NewNetworkError wraps a transport failure talking to the platform
func NewNetworkError(cause error) error {
	return pkgerrors.NewUpstreamError(MsgNetworkFailure, cause)
}

// NewUpstreamError wraps any other platform failure
func NewUpstreamError(cause error) error {
	return pkgerrors.NewUpstreamError(MsgUpstreamFailure, cause)
}

// NewWriteError wraps a failure writing the temporary file
func NewWriteError(cause error) error {
	return pkgerrors.NewIOError("failed to write temporary file", cause)
}
