package grpc

import (
	"context"
	"time"

	"github.com/DRSN-tech/storefront/pkg/logger"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// ServiceName — имя сервиса в ответах grpc.health.v1.Health.
const ServiceName = "storefront"

// Pinger описывает зависимость, без которой сервис не готов обслуживать запросы.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthChecker периодически пингует хранилища и выставляет статус health-сервера.
type HealthChecker struct {
	server   *health.Server
	deps     map[string]Pinger
	interval time.Duration
	logger   logger.Logger
}

func NewHealthChecker(server *health.Server, deps map[string]Pinger, interval time.Duration, logger logger.Logger) *HealthChecker {
	return &HealthChecker{
		server:   server,
		deps:     deps,
		interval: interval,
		logger:   logger,
	}
}

// Check пингует все зависимости и возвращает итоговый статус.
func (h *HealthChecker) Check(ctx context.Context) healthpb.HealthCheckResponse_ServingStatus {
	status := healthpb.HealthCheckResponse_SERVING
	for name, dep := range h.deps {
		pingCtx, cancel := context.WithTimeout(ctx, h.interval/2)
		err := dep.Ping(pingCtx)
		cancel()
		if err != nil {
			h.logger.Warnf("health: %s is unavailable: %v", name, err)
			status = healthpb.HealthCheckResponse_NOT_SERVING
		}
	}

	h.server.SetServingStatus("", status)
	h.server.SetServingStatus(ServiceName, status)
	return status
}

// Run проверяет зависимости до отмены ctx.
func (h *HealthChecker) Run(ctx context.Context) {
	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	h.Check(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			h.Check(ctx)
		}
	}
}
