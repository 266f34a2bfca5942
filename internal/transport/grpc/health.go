// Package grpc exposes the gRPC health service of the sales service, driven by database reachability.
package grpc

import (
	"context"
	"log/slog"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// ServiceName is the name reported alongside the overall ("") health status.
const ServiceName = "salesledger.v1.SalesService"

// Pinger is satisfied by *pgxpool.Pool.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthReporter keeps the grpc health status in line with the database:
// SERVING while pings succeed, NOT_SERVING otherwise.
type HealthReporter struct {
	server   *health.Server
	pinger   Pinger
	interval time.Duration
	logger   *slog.Logger
	serving  bool
}

func NewHealthReporter(pinger Pinger, interval time.Duration, logger *slog.Logger) *HealthReporter {
	h := &HealthReporter{
		server:   health.NewServer(),
		pinger:   pinger,
		interval: interval,
		logger:   logger.With("component", "grpc_health"),
	}
	h.set(healthpb.HealthCheckResponse_NOT_SERVING)
	return h
}

// Register registers the health service with s. It matches server.RegistrationFunc.
func (h *HealthReporter) Register(s *grpc.Server) {
	healthpb.RegisterHealthServer(s, h.server)
}

// Run refreshes the status every interval until ctx is cancelled, then marks the service
// as shutting down so clients stop routing to it.
func (h *HealthReporter) Run(ctx context.Context) error {
	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()
	h.Refresh(ctx)
	for {
		select {
		case <-ctx.Done():
			h.server.Shutdown()
			return nil
		case <-ticker.C:
			h.Refresh(ctx)
		}
	}
}

// Refresh pings the database once and updates the status. A ping is bounded by the interval.
func (h *HealthReporter) Refresh(ctx context.Context) {
	pingCtx, cancel := context.WithTimeout(ctx, h.interval)
	defer cancel()
	err := h.pinger.Ping(pingCtx)
	switch {
	case err != nil && h.serving:
		h.logger.WarnContext(ctx, "Database unreachable, reporting NOT_SERVING", "error", err)
		h.set(healthpb.HealthCheckResponse_NOT_SERVING)
	case err == nil && !h.serving:
		h.logger.InfoContext(ctx, "Database reachable, reporting SERVING")
		h.set(healthpb.HealthCheckResponse_SERVING)
	}
}

func (h *HealthReporter) set(status healthpb.HealthCheckResponse_ServingStatus) {
	h.serving = status == healthpb.HealthCheckResponse_SERVING
	h.server.SetServingStatus("", status)
	h.server.SetServingStatus(ServiceName, status)
}
