// Package infrastructure contains infrastructure layer components
package infrastructure

import (
	"go.uber.org/fx"

	"github.com/Agshin2004/yt-video-downloader-bot/internal/infrastructure/database"
	"github.com/Agshin2004/yt-video-downloader-bot/internal/infrastructure/grpc"
	httpfx "github.com/Agshin2004/yt-video-downloader-bot/internal/infrastructure/http"
	"github.com/Agshin2004/yt-video-downloader-bot/internal/infrastructure/logger"
	"github.com/Agshin2004/yt-video-downloader-bot/internal/infrastructure/metrics"
	"github.com/Agshin2004/yt-video-downloader-bot/internal/infrastructure/s3"
	"github.com/Agshin2004/yt-video-downloader-bot/internal/infrastructure/sysinfo"
	"github.com/Agshin2004/yt-video-downloader-bot/internal/infrastructure/telegram"
	"github.com/Agshin2004/yt-video-downloader-bot/internal/infrastructure/youtube"
)

// Module provides all infrastructure components for fx dependency injection
var Module = fx.Module("infrastructure",
	logger.Module,
	database.Module,
	metrics.Module,
	s3.Module,
	sysinfo.Module,
	youtube.Module,
	telegram.Module,
	httpfx.Module,
	grpc.Module,
)
