// Package youtube contains video hosting backends
package youtube

import (
	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"github.com/Agshin2004/yt-video-downloader-bot/config"
	"github.com/Agshin2004/yt-video-downloader-bot/internal/domain/download/deps"
)

// Module provides the configured deps.VideoHost
var Module = fx.Module("youtube",
	fx.Provide(provideVideoHost),
)

// provideVideoHost selects the backend from DOWNLOAD_BACKEND
func provideVideoHost(cfg *config.DownloadConfig, logger zerolog.Logger) deps.VideoHost {
	log := logger.With().Str("component", "youtube").Str("backend", cfg.Backend).Logger()

	if cfg.Backend == config.BackendYtDlp {
		log.Info().Str("binary", cfg.YtDlpPath).Msg("Using yt-dlp backend")
		return NewYtDlp(cfg.YtDlpPath, log)
	}

	log.Info().Msg("Using built-in YouTube backend")
	return NewClient(log)
}
