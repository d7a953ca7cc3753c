package handler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/deppfellow/survey/internal/middleware"
	"github.com/deppfellow/survey/internal/server"
	"github.com/deppfellow/survey/internal/service"
	"github.com/labstack/echo/v4"
)

// MsgDatabaseUnavailable is reported for a failed database check. The
// driver error only goes to the log and New Relic.
const MsgDatabaseUnavailable = "database unavailable"

// HealthHandler serves /status for load balancers and uptime monitors.
type HealthHandler struct {
	Handler
	surveyService *service.SurveyService
}

func NewHealthHandler(s *server.Server, surveyService *service.SurveyService) *HealthHandler {
	return &HealthHandler{
		Handler:       NewHandler(s),
		surveyService: surveyService,
	}
}

// CheckHealth returns 200 when the database answers a ping and a count
// of stored surveys, 503 otherwise. With health checks disabled it only
// reports liveness.
func (h *HealthHandler) CheckHealth(c echo.Context) error {
	start := time.Now()

	logger := middleware.GetLogger(c).With().
		Str("operation", "health_check").
		Logger()

	checks := make(map[string]interface{})
	response := map[string]interface{}{
		"status":      "healthy",
		"timestamp":   time.Now().UTC(),
		"environment": h.server.Config.Primary.Env,
		"driver":      h.server.Config.Database.Driver,
		"checks":      checks,
	}

	healthCfg := h.server.Config.Observability.HealthChecks
	if !healthCfg.Enabled {
		return c.JSON(http.StatusOK, response)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), healthCfg.Timeout)
	defer cancel()

	dbStart := time.Now()
	count, err := h.checkDatabase(ctx)
	if err != nil {
		checks["database"] = map[string]interface{}{
			"status":        "unhealthy",
			"response_time": time.Since(dbStart).String(),
			"error":         MsgDatabaseUnavailable,
		}

		logger.Error().
			Err(err).
			Dur("response_time", time.Since(dbStart)).
			Msg("database health check failed")

		h.recordHealthError("database", "database_unhealthy", time.Since(dbStart), err)

		response["status"] = "unhealthy"
		logger.Warn().
			Dur("total_duration", time.Since(start)).
			Msg("health check failed")

		return c.JSON(http.StatusServiceUnavailable, response)
	}

	checks["database"] = map[string]interface{}{
		"status":        "healthy",
		"response_time": time.Since(dbStart).String(),
		"surveys":       count,
	}

	logger.Debug().
		Dur("total_duration", time.Since(start)).
		Int64("surveys", count).
		Msg("health check passed")

	if err := c.JSON(http.StatusOK, response); err != nil {
		return fmt.Errorf("failed to write JSON response: %w", err)
	}
	return nil
}

// checkDatabase pings and then counts surveys, so a database that accepts
// connections but can't read the table still reports unhealthy.
func (h *HealthHandler) checkDatabase(ctx context.Context) (int64, error) {
	if err := h.server.DB.Ping(ctx); err != nil {
		return 0, err
	}
	return h.surveyService.Count(ctx)
}

// recordHealthError sends a HealthCheckError custom event when New Relic runs.
func (h *HealthHandler) recordHealthError(checkType, errorType string, elapsed time.Duration, err error) {
	if h.server.LoggerService == nil || h.server.LoggerService.GetApplication() == nil {
		return
	}

	h.server.LoggerService.GetApplication().RecordCustomEvent(
		"HealthCheckError",
		map[string]interface{}{
			"check_type":       checkType,
			"operation":        "health_check",
			"error_type":       errorType,
			"response_time_ms": elapsed.Milliseconds(),
			"error_message":    err.Error(),
		},
	)
}
