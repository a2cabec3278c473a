package grpc

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/keepalive"

	"github.com/EgehanKilicarslan/bookreview/internal/worker"
)

// ServiceName is the health service name reported alongside the overall ("") status
const ServiceName = "bookreview.v1.API"

// HealthServer reports serving status over the standard grpc.health.v1 service
type HealthServer struct {
	server  *health.Server
	serving atomic.Bool
	logger  *slog.Logger
}

// NewHealthServer creates a health server that starts out NOT_SERVING
func NewHealthServer(logger *slog.Logger) *HealthServer {
	h := &HealthServer{
		server: health.NewServer(),
		logger: logger,
	}
	h.server.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
	h.server.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_NOT_SERVING)
	return h
}

// NewServer builds the gRPC server and registers the health service on it
func NewServer(h *HealthServer) *grpc.Server {
	s := grpc.NewServer(
		grpc.KeepaliveParams(keepalive.ServerParameters{
			Time:    30 * time.Second,
			Timeout: 10 * time.Second,
		}),
	)
	healthpb.RegisterHealthServer(s, h.server)
	return s
}

// SetServing updates both the overall and the API status
func (h *HealthServer) SetServing(serving bool) {
	status := healthpb.HealthCheckResponse_NOT_SERVING
	if serving {
		status = healthpb.HealthCheckResponse_SERVING
	}

	if previous := h.serving.Swap(serving); previous != serving {
		h.logger.Info("🩺 [Health] Serving status changed", "status", status.String())
	}

	h.server.SetServingStatus("", status)
	h.server.SetServingStatus(ServiceName, status)
}

// StartReporter runs check on the pool every interval and mirrors its result
func (h *HealthServer) StartReporter(pool *worker.Pool, interval time.Duration, check func(ctx context.Context) error) {
	pool.Every(interval, func(ctx context.Context) {
		err := check(ctx)
		if pool.Context().Err() != nil {
			return
		}
		if err != nil {
			h.logger.Warn("⚠️ [Health] Dependency check failed", "error", err)
		}
		h.SetServing(err == nil)
	})
}

// Shutdown marks everything NOT_SERVING and ignores later updates
func (h *HealthServer) Shutdown() {
	h.logger.Info("🛑 [Health] Marking services as not serving")
	h.server.Shutdown()
}
