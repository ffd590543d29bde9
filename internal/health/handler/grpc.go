package handler

import (
	"context"
	"time"

	"github.com/hashicorp/go-hclog"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// DefaultMonitorInterval is how often Monitor re-probes dependencies.
const DefaultMonitorInterval = 10 * time.Second

// Refresh probes once and publishes the result for the overall ("") service.
func Refresh(ctx context.Context, c *Checker, srv *health.Server, log hclog.Logger) healthpb.HealthCheckResponse_ServingStatus {
	status := healthpb.HealthCheckResponse_SERVING
	if err := c.Check(ctx); err != nil {
		if log != nil {
			log.Warn("health check failed", "error", err)
		}
		status = healthpb.HealthCheckResponse_NOT_SERVING
	}
	srv.SetServingStatus("", status)
	return status
}

// Monitor refreshes srv every interval until ctx is done, then marks it NOT_SERVING.
func Monitor(ctx context.Context, c *Checker, srv *health.Server, interval time.Duration, log hclog.Logger) {
	if interval <= 0 {
		interval = DefaultMonitorInterval
	}
	Refresh(ctx, c, srv, log)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			srv.Shutdown()
			return
		case <-ticker.C:
			Refresh(ctx, c, srv, log)
		}
	}
}
