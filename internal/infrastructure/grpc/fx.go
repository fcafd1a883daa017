// Package grpc runs the gRPC health service
package grpc

import (
	"context"
	"net"

	"github.com/rs/zerolog"
	"go.uber.org/fx"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/Agshin2004/yt-video-downloader-bot/config"
)

var Module = fx.Module(
	"grpc",
	fx.Provide(NewGRPCServer),
	fx.Invoke(registerGRPCServer),
)

type GRPCServerResult struct {
	fx.Out
	Server *grpc.Server
	Health *health.Server
}

func NewGRPCServer() GRPCServerResult {
	server := grpc.NewServer()
	healthServer := health.NewServer()
	healthpb.RegisterHealthServer(server, healthServer)

	return GRPCServerResult{
		Server: server,
		Health: healthServer,
	}
}

func registerGRPCServer(
	lc fx.Lifecycle,
	cfg *config.ServiceConfig,
	server *grpc.Server,
	healthServer *health.Server,
	log zerolog.Logger,
) error {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			lis, err := net.Listen("tcp", ":"+cfg.GRPCPort)
			if err != nil {
				log.Error().Err(err).Str("port", cfg.GRPCPort).Msg("failed to listen for gRPC")
				return err
			}

			go func() {
				log.Info().Str("port", cfg.GRPCPort).Msg("gRPC server started")
				if err := server.Serve(lis); err != nil {
					log.Error().Err(err).Msg("gRPC server failed")
				}
			}()

			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("stopping gRPC server...")
			healthServer.Shutdown()
			server.GracefulStop()
			log.Info().Msg("gRPC server stopped")
			return nil
		},
	})

	return nil
}

// SetServing updates the overall status reported by the health service
func SetServing(healthServer *health.Server, serving bool) {
	status := healthpb.HealthCheckResponse_NOT_SERVING
	if serving {
		status = healthpb.HealthCheckResponse_SERVING
	}
	healthServer.SetServingStatus("", status)
}
