// Package server contains the fasthttp server for metrics and health endpoints
package server

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/fasthttp/router"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
)

const (
	readTimeout  = 5 * time.Second
	writeTimeout = 10 * time.Second
	idleTimeout  = 2 * time.Minute
)

// Server serves the ops endpoints of the bot
type Server struct {
	server *fasthttp.Server
	Router *router.Router
	addr   string
	logger zerolog.Logger
}

// NewServer creates a new fasthttp server listening on port
func NewServer(name, port string, logger zerolog.Logger) *Server {
	s := &Server{
		Router: router.New(),
		addr:   net.JoinHostPort("", port),
		logger: logger,
	}
	s.Router.PanicHandler = s.handlePanic

	s.server = &fasthttp.Server{
		Handler:      s.Router.Handler,
		Name:         name,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}

	return s
}

// RegisterMetrics exposes the Prometheus registry on /metrics
func (s *Server) RegisterMetrics() {
	s.Router.GET("/metrics", fasthttpadaptor.NewFastHTTPHandler(promhttp.Handler()))
}

// Start binds the port and serves in the background.
// A busy port fails the call instead of the goroutine.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.addr, err)
	}

	s.logger.Info().Str("addr", ln.Addr().String()).Msg("HTTP server started")

	go func() {
		if err := s.server.Serve(ln); err != nil {
			s.logger.Error().Err(err).Msg("HTTP server error")
		}
	}()

	return nil
}

// Shutdown gracefully shuts down the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.server.ShutdownWithContext(ctx); err != nil {
		return fmt.Errorf("failed to shutdown HTTP server: %w", err)
	}

	s.logger.Info().Msg("HTTP server stopped")
	return nil
}

func (s *Server) handlePanic(ctx *fasthttp.RequestCtx, recovered interface{}) {
	s.logger.Error().
		Interface("panic", recovered).
		Str("path", string(ctx.Path())).
		Msg("HTTP handler panicked")
	ctx.Error(fasthttp.StatusMessage(fasthttp.StatusInternalServerError), fasthttp.StatusInternalServerError)
}
