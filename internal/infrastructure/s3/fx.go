// Package s3 contains S3 storage infrastructure
package s3

import (
	"context"

	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"github.com/Agshin2004/yt-video-downloader-bot/config"
)

// Module provides the S3 client for fx dependency injection.
// The client is nil when S3_ENDPOINT is not configured.
var Module = fx.Module("s3",
	fx.Provide(NewClientFx),
)

// NewClientFx creates the S3 client and makes sure the bucket exists on start
func NewClientFx(lc fx.Lifecycle, cfg *config.S3Config, logger zerolog.Logger) (*Client, error) {
	if !cfg.Enabled() {
		logger.Info().Msg("S3 archive disabled")
		return nil, nil
	}

	log := logger.With().Str("component", "s3").Logger()
	client, err := NewClient(cfg, log)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := client.EnsureBucket(ctx); err != nil {
				log.Warn().Err(err).Msg("failed to ensure S3 bucket, archiving may fail")
			}
			return nil
		},
	})

	return client, nil
}
