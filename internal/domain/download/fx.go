// Package download contains the download domain module
package download

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"go.uber.org/fx"
	"google.golang.org/grpc/health"
	"gorm.io/gorm"

	"github.com/Agshin2004/yt-video-downloader-bot/config"
	httpDelivery "github.com/Agshin2004/yt-video-downloader-bot/internal/domain/download/delivery/http"
	kafkaDelivery "github.com/Agshin2004/yt-video-downloader-bot/internal/domain/download/delivery/kafka"
	telegramDelivery "github.com/Agshin2004/yt-video-downloader-bot/internal/domain/download/delivery/telegram"
	"github.com/Agshin2004/yt-video-downloader-bot/internal/domain/download/deps"
	"github.com/Agshin2004/yt-video-downloader-bot/internal/domain/download/repository/filesystem"
	kafkaRepo "github.com/Agshin2004/yt-video-downloader-bot/internal/domain/download/repository/kafka"
	"github.com/Agshin2004/yt-video-downloader-bot/internal/domain/download/repository/memory"
	"github.com/Agshin2004/yt-video-downloader-bot/internal/domain/download/repository/postgres"
	s3Repo "github.com/Agshin2004/yt-video-downloader-bot/internal/domain/download/repository/s3"
	"github.com/Agshin2004/yt-video-downloader-bot/internal/domain/download/usecase/business"
	"github.com/Agshin2004/yt-video-downloader-bot/internal/domain/download/workers"
	grpcInfra "github.com/Agshin2004/yt-video-downloader-bot/internal/infrastructure/grpc"
	"github.com/Agshin2004/yt-video-downloader-bot/internal/infrastructure/http/server"
	"github.com/Agshin2004/yt-video-downloader-bot/internal/infrastructure/metrics"
	s3Infra "github.com/Agshin2004/yt-video-downloader-bot/internal/infrastructure/s3"
	"github.com/Agshin2004/yt-video-downloader-bot/internal/infrastructure/telegram"
)

const (
	// historyCapacity bounds the in-memory history used without a database
	historyCapacity = 1000

	healthInterval = 15 * time.Second
)

// Module provides download domain components for fx dependency injection
var Module = fx.Module("download",
	// Repository
	fx.Provide(provideStore),
	fx.Provide(provideMediaStore),
	fx.Provide(provideHistoryRepository),
	fx.Provide(provideProducer),
	fx.Provide(providePublisher),
	fx.Provide(provideArchive),
	fx.Provide(provideMetricsRecorder),

	// UseCase
	fx.Provide(business.NewSettings),
	fx.Provide(business.NewRunner),
	fx.Provide(business.NewUseCase),

	// Delivery - Telegram (needs raw bot from infrastructure)
	fx.Provide(provideTelegramHandlers),
	fx.Provide(telegramDelivery.NewDispatcher),
	fx.Provide(telegramDelivery.NewRouter),

	// Delivery - Kafka
	fx.Provide(kafkaDelivery.NewHandlers),

	// Delivery - HTTP
	fx.Provide(httpDelivery.NewHealthHandler),
	fx.Provide(httpDelivery.NewRouter),

	// Workers
	workers.Module,

	// Wire cyclic dependency and register routes
	fx.Invoke(wireAndRegister),
	fx.Invoke(registerHTTPRoutes),
	fx.Invoke(watchHealth),
)

// provideStore creates the temp file store under DOWNLOAD_TEMP_DIR
func provideStore(cfg *config.DownloadConfig, logger zerolog.Logger) (*filesystem.Store, error) {
	return filesystem.NewStore(cfg.TempDir, logger.With().Str("component", "store").Logger())
}

func provideMediaStore(store *filesystem.Store) deps.MediaStore {
	return store
}

// provideHistoryRepository uses PostgreSQL when a database is configured
func provideHistoryRepository(db *gorm.DB, logger zerolog.Logger) deps.HistoryRepository {
	if db == nil {
		logger.Info().Int("capacity", historyCapacity).Msg("Using in-memory download history")
		return memory.NewHistoryRepository(historyCapacity)
	}
	return postgres.NewHistoryRepository(db)
}

// provideProducer creates the Kafka producer, nil when Kafka is not configured
func provideProducer(lc fx.Lifecycle, cfg *config.KafkaConfig, logger zerolog.Logger) (*kafkaRepo.Producer, error) {
	if !cfg.Enabled() {
		logger.Info().Msg("Kafka disabled, download events are not published")
		return nil, nil
	}

	producer, err := kafkaRepo.NewProducer(cfg, logger.With().Str("component", "kafka-producer").Logger())
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return producer.Close()
		},
	})

	return producer, nil
}

func providePublisher(producer *kafkaRepo.Producer) deps.EventPublisher {
	if producer == nil {
		return kafkaRepo.NoopPublisher{}
	}
	return producer
}

// provideArchive archives delivered files to S3 when it is configured
func provideArchive(client *s3Infra.Client) deps.Archive {
	if client == nil {
		return s3Repo.NoopArchive{}
	}
	return s3Repo.NewArchive(client)
}

func provideMetricsRecorder(m *metrics.Metrics) deps.MetricsRecorder {
	return m
}

// provideTelegramHandlers creates Telegram handlers with raw bot
func provideTelegramHandlers(uc *business.UseCase, bot *telegram.Bot, logger zerolog.Logger) *telegramDelivery.Handlers {
	return telegramDelivery.NewHandlers(uc, bot.Raw(), logger.With().Str("component", "telegram-handlers").Logger())
}

// wireAndRegister resolves cyclic dependency and registers routes
func wireAndRegister(
	lc fx.Lifecycle,
	uc *business.UseCase,
	runner *business.Runner,
	handlers *telegramDelivery.Handlers,
	router *telegramDelivery.Router,
	bot *telegram.Bot,
	logger zerolog.Logger,
) {
	// Handlers implements deps.Messenger interface
	// This resolves the cyclic dependency: UseCase -> Messenger <- Handlers -> UseCase
	uc.SetSender(handlers)

	router.RegisterRoutes(bot.Raw())
	bot.OnError(router.HandleError)

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := router.RegisterCommands(ctx, bot.Raw()); err != nil {
				logger.Warn().Err(err).Msg("Failed to register bot commands")
			}
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info().Msg("Waiting for in-flight downloads")
			return runner.Stop(ctx)
		},
	})
}

// registerHTTPRoutes registers download HTTP routes on the server
func registerHTTPRoutes(srv *server.Server, router *httpDelivery.Router) {
	router.RegisterRoutes(srv.Router)
}

// watchHealth mirrors the health checks into the gRPC health service
func watchHealth(lc fx.Lifecycle, healthServer *health.Server, handler *httpDelivery.HealthHandler) {
	ctx, cancel := context.WithCancel(context.Background())

	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			go handler.Watch(ctx, healthInterval, func(serving bool) {
				grpcInfra.SetServing(healthServer, serving)
			})
			return nil
		},
		OnStop: func(_ context.Context) error {
			cancel()
			return nil
		},
	})
}
