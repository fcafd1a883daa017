package youtube

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/Agshin2004/yt-video-downloader-bot/internal/domain/download/deps"
	"github.com/Agshin2004/yt-video-downloader-bot/internal/domain/download/entities"
	downloaderrors "github.com/Agshin2004/yt-video-downloader-bot/internal/domain/download/errors"
	"github.com/Agshin2004/yt-video-downloader-bot/internal/domain/download/formats"
)

const watchURL = "https://www.youtube.com/watch?v="

// YtDlp implements deps.VideoHost by running the yt-dlp binary
type YtDlp struct {
	binary string
	logger zerolog.Logger

	// output runs a command and returns its stdout, replaced in tests
	output func(ctx context.Context, name string, args ...string) ([]byte, error)
}

// NewYtDlp creates a backend that runs binary
func NewYtDlp(binary string, logger zerolog.Logger) *YtDlp {
	return &YtDlp{
		binary: binary,
		logger: logger,
		output: runOutput,
	}
}

var _ deps.VideoHost = (*YtDlp)(nil)

type ytdlpFormat struct {
	FormatID       string  `json:"format_id"`
	Ext            string  `json:"ext"`
	ACodec         string  `json:"acodec"`
	VCodec         string  `json:"vcodec"`
	Width          int     `json:"width"`
	Height         int     `json:"height"`
	AudioChannels  int     `json:"audio_channels"`
	Filesize       int64   `json:"filesize"`
	FilesizeApprox int64   `json:"filesize_approx"`
	TBR            float64 `json:"tbr"`
	FormatNote     string  `json:"format_note"`
}

type ytdlpInfo struct {
	ID         string        `json:"id"`
	Title      string        `json:"title"`
	LikeCount  *int64        `json:"like_count"`
	Duration   float64       `json:"duration"`
	Uploader   string        `json:"uploader"`
	ChannelURL string        `json:"channel_url"`
	UploadDate string        `json:"upload_date"`
	Formats    []ytdlpFormat `json:"formats"`
}

// FetchMetadata runs yt-dlp --dump-json
func (y *YtDlp) FetchMetadata(ctx context.Context, videoID string) (*entities.VideoMetadata, error) {
	out, err := y.output(ctx, y.binary, "--dump-json", "--no-playlist", "--no-warnings", watchURL+videoID)
	if err != nil {
		y.logger.Warn().Err(err).Str("video_id", videoID).Msg("yt-dlp metadata failed")
		return nil, classifyYtDlpError(ctx, err)
	}

	return parseInfo(out)
}

func parseInfo(data []byte) (*entities.VideoMetadata, error) {
	var info ytdlpInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, downloaderrors.NewUpstreamError(fmt.Errorf("decode yt-dlp output: %w", err))
	}

	meta := &entities.VideoMetadata{
		ID:        info.ID,
		Title:     info.Title,
		Likes:     -1,
		Duration:  time.Duration(info.Duration * float64(time.Second)),
		Author:    info.Uploader,
		AuthorURL: info.ChannelURL,
		Formats:   make([]entities.Format, 0, len(info.Formats)),
	}
	if info.LikeCount != nil {
		meta.Likes = *info.LikeCount
	}
	if uploaded, err := time.Parse("20060102", info.UploadDate); err == nil {
		meta.Uploaded = uploaded
	}

	for _, f := range info.Formats {
		itag, err := strconv.Atoi(f.FormatID)
		if err != nil {
			continue
		}

		format := entities.Format{
			ItagNo:        itag,
			MimeType:      mimeFromExt(f),
			QualityLabel:  f.FormatNote,
			Bitrate:       int(f.TBR * 1000),
			ContentLength: f.Filesize,
		}
		if format.ContentLength == 0 {
			format.ContentLength = f.FilesizeApprox
		}
		if f.VCodec != "" && f.VCodec != "none" {
			format.Width, format.Height = f.Width, f.Height
		}
		if f.ACodec != "" && f.ACodec != "none" {
			format.AudioChannels = f.AudioChannels
			if format.AudioChannels == 0 {
				format.AudioChannels = 2
			}
		}
		meta.Formats = append(meta.Formats, format)
	}

	return meta, nil
}

func mimeFromExt(f ytdlpFormat) string {
	kind := "video"
	if f.VCodec == "none" {
		kind = "audio"
	}
	return kind + "/" + f.Ext
}

// OpenStream picks a format from the listing and pipes yt-dlp stdout
func (y *YtDlp) OpenStream(ctx context.Context, videoID string, mode entities.Mode) (*entities.Stream, error) {
	meta, err := y.FetchMetadata(ctx, videoID)
	if err != nil {
		return nil, err
	}

	var (
		chosen entities.Format
		ok     bool
	)
	if mode == entities.ModeAudio {
		if chosen, ok = formats.BestAudio(meta.Formats); !ok {
			return nil, downloaderrors.ErrNoAudioFormat
		}
	} else if chosen, ok = formats.BestCombined(meta.Formats, false); !ok {
		return nil, downloaderrors.ErrNoSuitableFormat
	}

	cmd := exec.CommandContext(ctx, y.binary,
		"-f", strconv.Itoa(chosen.ItagNo),
		"-o", "-",
		"--no-playlist",
		"--no-part",
		"--quiet",
		watchURL+videoID,
	)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, downloaderrors.NewUpstreamError(fmt.Errorf("yt-dlp stdout pipe: %w", err))
	}
	if err := cmd.Start(); err != nil {
		return nil, downloaderrors.NewUpstreamError(fmt.Errorf("start yt-dlp: %w", err))
	}

	return &entities.Stream{
		Body:     &processReader{ReadCloser: stdout, cmd: cmd, stderr: &stderr},
		Format:   chosen,
		Size:     chosen.ContentLength,
		Title:    meta.Title,
		Author:   meta.Author,
		Duration: meta.Duration,
	}, nil
}

// processReader reports a failing yt-dlp exit as a read error
type processReader struct {
	io.ReadCloser
	cmd    *exec.Cmd
	stderr *bytes.Buffer
	once   sync.Once
	err    error
}

func (p *processReader) Read(b []byte) (int, error) {
	n, err := p.ReadCloser.Read(b)
	if errors.Is(err, io.EOF) {
		if werr := p.wait(); werr != nil {
			return n, werr
		}
	}
	return n, err
}

func (p *processReader) Close() error {
	_ = p.ReadCloser.Close()
	if err := p.wait(); err != nil && !strings.Contains(err.Error(), "signal: killed") {
		return err
	}
	return nil
}

func (p *processReader) wait() error {
	p.once.Do(func() {
		if err := p.cmd.Wait(); err != nil {
			p.err = fmt.Errorf("yt-dlp: %w: %s", err, strings.TrimSpace(p.stderr.String()))
		}
	})
	return p.err
}

func runOutput(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("%w: %s", err, strings.TrimSpace(stderr.String()))
	}
	return out, nil
}

func classifyYtDlpError(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return downloaderrors.NewNetworkError(err)
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "private video"),
		strings.Contains(msg, "video unavailable"),
		strings.Contains(msg, "sign in to confirm"),
		strings.Contains(msg, "age-restricted"),
		strings.Contains(msg, "inappropriate for some users"):
		return downloaderrors.NewUnavailableError(err)
	case strings.Contains(msg, "unable to download"),
		strings.Contains(msg, "timed out"),
		strings.Contains(msg, "connection"):
		return downloaderrors.NewNetworkError(err)
	default:
		return downloaderrors.NewUpstreamError(err)
	}
}
