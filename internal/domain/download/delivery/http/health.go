// Package http contains the health endpoint of the download domain
package http

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"
	"go.uber.org/fx"
	"gorm.io/gorm"

	"github.com/Agshin2004/yt-video-downloader-bot/internal/domain/download/repository/filesystem"
	kafkaRepo "github.com/Agshin2004/yt-video-downloader-bot/internal/domain/download/repository/kafka"
)

const checkTimeout = 3 * time.Second

var errProducerClosed = errors.New("kafka producer is not healthy")

// HealthStatus represents the overall health status
type HealthStatus string

const (
	HealthStatusHealthy   HealthStatus = "healthy"
	HealthStatusDegraded  HealthStatus = "degraded"
	HealthStatusUnhealthy HealthStatus = "unhealthy"
)

// ComponentHealth represents health status of a single component
type ComponentHealth struct {
	Name    string `json:"name"`
	Healthy bool   `json:"healthy"`
	Message string `json:"message,omitempty"`
}

// HealthResponse represents the JSON response for health check
type HealthResponse struct {
	Status     HealthStatus      `json:"status"`
	Timestamp  time.Time         `json:"timestamp"`
	Components []ComponentHealth `json:"components"`
}

// HealthChecker is a component that can report its health
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// Component names a checked dependency
type Component struct {
	Name     string
	Checker  HealthChecker
	Critical bool
}

// HealthHandler handles HTTP health check requests
type HealthHandler struct {
	components []Component
	logger     zerolog.Logger
}

// HealthHandlerParams defines parameters for HealthHandler with optional dependencies
type HealthHandlerParams struct {
	fx.In

	Store    *filesystem.Store
	Producer *kafkaRepo.Producer `optional:"true"`
	DB       *gorm.DB            `optional:"true"`
	Logger   zerolog.Logger
}

// NewHealthHandler creates a new health check handler.
// The temp directory is critical, Kafka and the database only degrade the service.
func NewHealthHandler(params HealthHandlerParams) *HealthHandler {
	components := []Component{{Name: "media_store", Checker: params.Store, Critical: true}}
	if params.Producer != nil {
		components = append(components, Component{Name: "kafka_producer", Checker: producerChecker{params.Producer}})
	}
	if params.DB != nil {
		components = append(components, Component{Name: "database", Checker: dbChecker{params.DB}})
	}

	return newHealthHandler(components, params.Logger)
}

func newHealthHandler(components []Component, logger zerolog.Logger) *HealthHandler {
	return &HealthHandler{
		components: components,
		logger:     logger,
	}
}

// Handle handles the health check request for fasthttp
func (h *HealthHandler) Handle(ctx *fasthttp.RequestCtx) {
	checkCtx, cancel := context.WithTimeout(context.Background(), checkTimeout)
	defer cancel()

	components, status := h.check(checkCtx)

	response := HealthResponse{
		Status:     status,
		Timestamp:  time.Now().UTC(),
		Components: components,
	}

	statusCode := fasthttp.StatusOK
	if status == HealthStatusUnhealthy {
		statusCode = fasthttp.StatusServiceUnavailable
	}

	logEvent := h.logger.Debug()
	if status == HealthStatusUnhealthy {
		logEvent = h.logger.Warn()
	} else if status == HealthStatusDegraded {
		logEvent = h.logger.Info()
	}
	logEvent.
		Str("status", string(status)).
		Int("status_code", statusCode).
		Interface("components", components).
		Msg("Health check completed")

	ctx.SetContentType("application/json")
	ctx.SetStatusCode(statusCode)

	body, err := json.Marshal(response)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to encode health check response")
		ctx.SetStatusCode(fasthttp.StatusInternalServerError)
		return
	}

	ctx.SetBody(body)
}

func (h *HealthHandler) check(ctx context.Context) ([]ComponentHealth, HealthStatus) {
	components := make([]ComponentHealth, 0, len(h.components))
	status := HealthStatusHealthy

	for _, c := range h.components {
		health := ComponentHealth{Name: c.Name, Healthy: true}
		if err := c.Checker.HealthCheck(ctx); err != nil {
			health.Healthy = false
			health.Message = err.Error()

			if c.Critical {
				status = HealthStatusUnhealthy
			} else if status == HealthStatusHealthy {
				status = HealthStatusDegraded
			}
		}
		components = append(components, health)
	}

	return components, status
}

type producerChecker struct {
	producer *kafkaRepo.Producer
}

func (c producerChecker) HealthCheck(context.Context) error {
	if !c.producer.IsHealthy() {
		return errProducerClosed
	}
	return nil
}

type dbChecker struct {
	db *gorm.DB
}

func (c dbChecker) HealthCheck(ctx context.Context) error {
	sqlDB, err := c.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Serving reports whether no critical component is down
func (h *HealthHandler) Serving(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	_, status := h.check(ctx)
	return status != HealthStatusUnhealthy
}

// Watch calls report with the serving state every interval until ctx is done
func (h *HealthHandler) Watch(ctx context.Context, interval time.Duration, report func(serving bool)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	report(h.Serving(ctx))
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			report(h.Serving(ctx))
		}
	}
}
