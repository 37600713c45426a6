package calendar

import (
	"github.com/labstack/echo/v4"

	"github.com/keyxmakerx/chronicle-dates/internal/middleware"
)

// RegisterRoutes sets up all calendar-related routes. The parse and preview
// endpoints run the parser on every call and share the per-IP limiter.
func RegisterRoutes(e *echo.Echo, h *Handler, limiter *middleware.RateLimiter) {
	limit := limiter.Middleware()

	api := e.Group("/api/v1")

	// Calendars.
	api.POST("/calendars", h.CreateCalendarAPI)
	api.GET("/calendars", h.ListCalendarsAPI)
	api.POST("/calendars/import", h.ImportAPI)
	api.GET("/calendars/:id", h.GetCalendarAPI)
	api.PUT("/calendars/:id", h.UpdateCalendarAPI)
	api.DELETE("/calendars/:id", h.DeleteCalendarAPI)
	api.GET("/calendars/:id/export", h.ExportAPI)

	// Parsing.
	api.GET("/calendars/:id/formats", h.FormatsAPI)
	api.POST("/calendars/:id/parse", h.ParseAPI, limit)

	// Events.
	api.POST("/calendars/:id/events", h.CreateEventAPI)
	api.GET("/calendars/:id/events", h.ListEventsAPI)
	api.GET("/calendars/:id/events/:eid", h.GetEventAPI)
	api.PUT("/calendars/:id/events/:eid", h.UpdateEventAPI)
	api.DELETE("/calendars/:id/events/:eid", h.DeleteEventAPI)

	// HTMX live preview for date fields.
	e.GET("/calendars/:id/date-preview", h.DatePreview, limit)
}
