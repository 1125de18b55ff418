package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/deppfellow/peopledb/internal/config"
	"github.com/deppfellow/peopledb/internal/middleware"
	"github.com/deppfellow/peopledb/internal/server"
	"github.com/labstack/echo/v4"
)

// DefaultHealthCheckTimeout bounds the store ping when the observability
// config does not set one.
const DefaultHealthCheckTimeout = 5 * time.Second

const (
	statusHealthy   = "healthy"
	statusUnhealthy = "unhealthy"
)

// HealthHandler reports whether the process is up and the store reachable.
type HealthHandler struct {
	Handler
}

func NewHealthHandler(s *server.Server) *HealthHandler {
	return &HealthHandler{
		Handler: NewHandler(s),
	}
}

type CheckResult struct {
	Status       string `json:"status"`
	Driver       string `json:"driver,omitempty"`
	ResponseTime string `json:"response_time"`
	Error        string `json:"error,omitempty"`
}

type HealthResponse struct {
	Status      string                 `json:"status"`
	Timestamp   time.Time              `json:"timestamp"`
	Environment string                 `json:"environment"`
	Checks      map[string]CheckResult `json:"checks"`
}

// CheckHealth answers 200 when every check passes and 503 otherwise. The
// body lists each check either way.
func (h *HealthHandler) CheckHealth(c echo.Context) error {
	start := time.Now()
	logger := middleware.GetLogger(c).With().Str("operation", "health_check").Logger()

	resp := HealthResponse{
		Status:      statusHealthy,
		Timestamp:   start.UTC(),
		Environment: h.server.Config.Primary.Env,
		Checks:      make(map[string]CheckResult),
	}
	for _, name := range h.checks() {
		switch name {
		case config.HealthCheckDatabase:
			resp.Checks[name] = h.checkDatabase(c.Request().Context())
		}
	}

	for name, check := range resp.Checks {
		if check.Status == statusHealthy {
			continue
		}
		resp.Status = statusUnhealthy

		logger.Error().
			Str("check", name).
			Str("error", check.Error).
			Str("response_time", check.ResponseTime).
			Msg("health check failed")

		h.recordHealthError(name, map[string]interface{}{
			"error_type":    name + "_unhealthy",
			"error_message": check.Error,
		})
	}

	logger.Debug().
		Str("status", resp.Status).
		Dur("total_duration", time.Since(start)).
		Msg("health check finished")

	if resp.Status != statusHealthy {
		return c.JSON(http.StatusServiceUnavailable, resp)
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *HealthHandler) checkDatabase(parent context.Context) CheckResult {
	ctx, cancel := context.WithTimeout(parent, h.timeout())
	defer cancel()

	start := time.Now()
	err := h.server.DB.Ping(ctx)

	result := CheckResult{
		Status:       statusHealthy,
		Driver:       h.server.Config.Database.Driver,
		ResponseTime: time.Since(start).String(),
	}
	if err != nil {
		result.Status = statusUnhealthy
		result.Error = err.Error()
	}
	return result
}

// recordHealthError sends a HealthCheckError custom event when New Relic
// is enabled.
func (h *HealthHandler) recordHealthError(checkType string, attrs map[string]interface{}) {
	app := h.server.LoggerService.GetApplication()
	if app == nil {
		return
	}

	attrs["check_type"] = checkType
	attrs["operation"] = "health_check"
	app.RecordCustomEvent("HealthCheckError", attrs)
}

func (h *HealthHandler) checks() []string {
	if obs := h.server.Config.Observability; obs != nil && len(obs.HealthChecks.Checks) > 0 {
		return obs.HealthChecks.Checks
	}
	return []string{config.HealthCheckDatabase}
}

func (h *HealthHandler) timeout() time.Duration {
	if obs := h.server.Config.Observability; obs != nil && obs.HealthChecks.Timeout > 0 {
		return obs.HealthChecks.Timeout
	}
	return DefaultHealthCheckTimeout
}
