package handler

import (
	"context"
	"net/http"
	"time"

	"libraryapi/commons/error_handler"
	"libraryapi/commons/handler"
	"libraryapi/internal/dto"
	"libraryapi/internal/logger"
)

// HealthCheck probes one backing store.
type HealthCheck func(ctx context.Context) error

type HealthHandler struct {
	logger      logger.Logger
	serviceName string
	checks      map[string]HealthCheck
}

func NewHealthHandler(log logger.Logger, serviceName string, checks map[string]HealthCheck) *HealthHandler {
	return &HealthHandler{
		logger:      log.With(logger.String("component", "health_handler")),
		serviceName: serviceName,
		checks:      checks,
	}
}

func (h *HealthHandler) HealthService(
	ctx context.Context,
	ioutil *handler.RequestIo[dto.EmptyRequest],
) (dto.HealthResponse, *error_handler.ErrorCollection) {
	h.logger.Debug("health check requested")

	response := dto.HealthResponse{
		Status:  "healthy",
		Service: h.serviceName,
	}

	if len(h.checks) == 0 {
		return response, nil
	}

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	response.Checks = make(map[string]string, len(h.checks))
	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			h.logger.Warn("health check failed", logger.String("check", name), logger.Error(err))
			response.Checks[name] = "unhealthy"
			response.Status = "unhealthy"
			continue
		}
		response.Checks[name] = "healthy"
	}

	if response.Status != "healthy" {
		ioutil.SetStatus(http.StatusServiceUnavailable)
	}

	return response, nil
}
