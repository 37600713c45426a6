package calendar

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"regexp"
	"strings"

	"github.com/labstack/echo/v4"
	"gopkg.in/yaml.v3"

	"github.com/keyxmakerx/chronicle-dates/internal/apperror"
	"github.com/keyxmakerx/chronicle-dates/internal/middleware"
)

// maxImportSize caps import uploads.
const maxImportSize = 10 * 1024 * 1024

// Handler processes HTTP requests for calendars, their events and date
// parsing.
type Handler struct {
	svc CalendarService
}

// NewHandler creates a new calendar Handler.
func NewHandler(svc CalendarService) *Handler {
	return &Handler{svc: svc}
}

// --- Calendars ---

// CreateCalendarAPI creates a calendar.
// POST /api/v1/calendars
func (h *Handler) CreateCalendarAPI(c echo.Context) error {
	var input CalendarInput
	if err := c.Bind(&input); err != nil {
		return apperror.NewBadRequest("invalid request body")
	}

	cal, err := h.svc.CreateCalendar(c.Request().Context(), input)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, cal)
}

// ListCalendarsAPI lists all calendars.
// GET /api/v1/calendars
func (h *Handler) ListCalendarsAPI(c echo.Context) error {
	cals, err := h.svc.ListCalendars(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, cals)
}

// GetCalendarAPI returns a calendar.
// GET /api/v1/calendars/:id
func (h *Handler) GetCalendarAPI(c echo.Context) error {
	cal, err := h.svc.GetCalendar(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, cal)
}

// UpdateCalendarAPI replaces a calendar's name and definition.
// PUT /api/v1/calendars/:id
func (h *Handler) UpdateCalendarAPI(c echo.Context) error {
	var input CalendarInput
	if err := c.Bind(&input); err != nil {
		return apperror.NewBadRequest("invalid request body")
	}

	cal, err := h.svc.UpdateCalendar(c.Request().Context(), c.Param("id"), input)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, cal)
}

// DeleteCalendarAPI deletes a calendar and its events.
// DELETE /api/v1/calendars/:id
func (h *Handler) DeleteCalendarAPI(c echo.Context) error {
	if err := h.svc.DeleteCalendar(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// --- Parsing ---

// FormatsAPI returns the month name variants the calendar's parser accepts.
// GET /api/v1/calendars/:id/formats
func (h *Handler) FormatsAPI(c echo.Context) error {
	formats, err := h.svc.Formats(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, formats)
}

// ParseAPI parses a date expression without storing it.
// POST /api/v1/calendars/:id/parse
func (h *Handler) ParseAPI(c echo.Context) error {
	var req ParseRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewBadRequest("invalid request body")
	}

	result, err := h.svc.Parse(c.Request().Context(), c.Param("id"), req.Text)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

// DatePreview renders the live confirmation under a date field. Text that
// does not parse is reported inline with a 200 so the fragment always swaps.
// GET /calendars/:id/date-preview?text=
func (h *Handler) DatePreview(c echo.Context) error {
	text := c.QueryParam("text")
	if strings.TrimSpace(text) == "" {
		return middleware.Render(c, http.StatusOK, DatePreviewFragment("", ""))
	}

	result, err := h.svc.Parse(c.Request().Context(), c.Param("id"), text)
	if err != nil {
		var appErr *apperror.AppError
		if errors.As(err, &appErr) && appErr.Code == http.StatusUnprocessableEntity {
			return middleware.Render(c, http.StatusOK, DatePreviewFragment("", appErr.Message))
		}
		return err
	}
	return middleware.Render(c, http.StatusOK, DatePreviewFragment(result.Description, ""))
}

// --- Events ---

// CreateEventAPI creates an event.
// POST /api/v1/calendars/:id/events
func (h *Handler) CreateEventAPI(c echo.Context) error {
	var input EventInput
	if err := c.Bind(&input); err != nil {
		return apperror.NewBadRequest("invalid request body")
	}

	evt, err := h.svc.CreateEvent(c.Request().Context(), c.Param("id"), input)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, evt)
}

// ListEventsAPI lists a calendar's events in chronological order.
// GET /api/v1/calendars/:id/events
func (h *Handler) ListEventsAPI(c echo.Context) error {
	events, err := h.svc.ListEvents(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, events)
}

// GetEventAPI returns an event.
// GET /api/v1/calendars/:id/events/:eid
func (h *Handler) GetEventAPI(c echo.Context) error {
	evt, err := h.svc.GetEvent(c.Request().Context(), c.Param("id"), c.Param("eid"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, evt)
}

// UpdateEventAPI replaces an event.
// PUT /api/v1/calendars/:id/events/:eid
func (h *Handler) UpdateEventAPI(c echo.Context) error {
	var input EventInput
	if err := c.Bind(&input); err != nil {
		return apperror.NewBadRequest("invalid request body")
	}

	evt, err := h.svc.UpdateEvent(c.Request().Context(), c.Param("id"), c.Param("eid"), input)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, evt)
}

// DeleteEventAPI deletes an event.
// DELETE /api/v1/calendars/:id/events/:eid
func (h *Handler) DeleteEventAPI(c echo.Context) error {
	if err := h.svc.DeleteEvent(c.Request().Context(), c.Param("id"), c.Param("eid")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// --- Import/export ---

var unsafeFilenameChars = regexp.MustCompile(`[^a-z0-9]+`)

// exportFilename derives a download name from the calendar name.
func exportFilename(name, ext string) string {
	base := strings.Trim(unsafeFilenameChars.ReplaceAllString(strings.ToLower(name), "-"), "-")
	if base == "" {
		base = "calendar"
	}
	return base + "-dates." + ext
}

// ExportAPI returns the calendar and its events as a downloadable file,
// JSON by default or YAML with ?format=yaml.
// GET /api/v1/calendars/:id/export
func (h *Handler) ExportAPI(c echo.Context) error {
	export, err := h.svc.Export(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}

	if c.QueryParam("format") == "yaml" {
		out, err := yaml.Marshal(export)
		if err != nil {
			return apperror.NewInternal(fmt.Errorf("encoding export as yaml: %w", err))
		}
		c.Response().Header().Set("Content-Disposition",
			fmt.Sprintf(`attachment; filename="%s"`, exportFilename(export.Calendar.Name, "yaml")))
		return c.Blob(http.StatusOK, "application/yaml", out)
	}

	c.Response().Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="%s"`, exportFilename(export.Calendar.Name, "json")))
	return c.JSON(http.StatusOK, export)
}

// ImportAPI creates a calendar from an uploaded file (multipart "file" field)
// or a raw JSON/YAML body. ?name= overrides the calendar name in the file.
// POST /api/v1/calendars/import
func (h *Handler) ImportAPI(c echo.Context) error {
	var data []byte
	file, fileErr := c.FormFile("file")
	if fileErr == nil {
		src, err := file.Open()
		if err != nil {
			return apperror.NewBadRequest("could not read uploaded file")
		}
		defer src.Close()
		data, err = io.ReadAll(io.LimitReader(src, maxImportSize))
		if err != nil {
			return apperror.NewBadRequest("could not read uploaded file")
		}
	} else {
		var err error
		data, err = io.ReadAll(io.LimitReader(c.Request().Body, maxImportSize))
		if err != nil || len(data) == 0 {
			return apperror.NewBadRequest("no file uploaded and no request body")
		}
	}

	cal, err := h.svc.Import(c.Request().Context(), data, c.QueryParam("name"))
	if err != nil {
		if apperror.SafeCode(err) >= http.StatusInternalServerError {
			slog.Error("import: failed to apply", slog.Any("error", err))
		}
		return err
	}
	return c.JSON(http.StatusCreated, cal)
}
