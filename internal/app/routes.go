package app

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/keyxmakerx/chronicle-dates/internal/plugins/calendar"
)

// healthCheckTimeout bounds the dependency pings of /healthz.
const healthCheckTimeout = 2 * time.Second

// RegisterRoutes sets up all application routes. It registers the health
// check directly and delegates to the calendar plugin for everything else.
func (a *App) RegisterRoutes() {
	e := a.Echo

	// Health check endpoint for container health monitoring.
	e.GET("/healthz", a.healthz)

	// --- Plugin Routes ---
	calendar.RegisterRoutes(e, calendar.NewHandler(a.Calendars), a.Limiter)
}

// healthz reports 503 when the database, or Redis when configured, does
// not answer a ping.
func (a *App) healthz(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), healthCheckTimeout)
	defer cancel()

	status := map[string]string{"status": "ok", "database": "ok"}
	code := http.StatusOK

	if a.DB != nil {
		if err := a.DB.PingContext(ctx); err != nil {
			status["database"] = "unavailable"
			status["status"] = "degraded"
			code = http.StatusServiceUnavailable
		}
	}
	if a.Redis != nil {
		status["redis"] = "ok"
		if err := a.Redis.Ping(ctx).Err(); err != nil {
			status["redis"] = "unavailable"
			status["status"] = "degraded"
			code = http.StatusServiceUnavailable
		}
	}
	return c.JSON(code, status)
}
