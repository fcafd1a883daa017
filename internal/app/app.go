// Package app contains application bootstrap
package app

import (
	"go.uber.org/fx"

	"github.com/Agshin2004/yt-video-downloader-bot/config"
	"github.com/Agshin2004/yt-video-downloader-bot/internal/domain"
	"github.com/Agshin2004/yt-video-downloader-bot/internal/infrastructure"
)

// CreateApp creates fx application with all modules
func CreateApp() fx.Option {
	return fx.Options(
		// Configuration
		fx.Provide(config.Out),

		// Infrastructure (logger, telegram bot, youtube, storage, servers)
		infrastructure.Module,

		// Domain (download business logic)
		domain.Module,
	)
}
