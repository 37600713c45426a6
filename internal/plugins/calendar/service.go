package calendar

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/keyxmakerx/chronicle-dates/internal/apperror"
	"github.com/keyxmakerx/chronicle-dates/internal/dateparse"
	"github.com/keyxmakerx/chronicle-dates/internal/sanitize"
)

// CalendarService defines business logic for calendars and their events.
type CalendarService interface {
	// Calendar CRUD.
	CreateCalendar(ctx context.Context, input CalendarInput) (*Calendar, error)
	GetCalendar(ctx context.Context, id string) (*Calendar, error)
	ListCalendars(ctx context.Context) ([]Calendar, error)
	UpdateCalendar(ctx context.Context, id string, input CalendarInput) (*Calendar, error)
	DeleteCalendar(ctx context.Context, id string) error

	// Parsing.
	Formats(ctx context.Context, id string) (*FormatsResponse, error)
	Parse(ctx context.Context, id, text string) (*ParseResult, error)

	// Events.
	CreateEvent(ctx context.Context, calendarID string, input EventInput) (*Event, error)
	GetEvent(ctx context.Context, calendarID, id string) (*Event, error)
	UpdateEvent(ctx context.Context, calendarID, id string, input EventInput) (*Event, error)
	DeleteEvent(ctx context.Context, calendarID, id string) error
	ListEvents(ctx context.Context, calendarID string) ([]Event, error)

	// Import/export.
	Export(ctx context.Context, calendarID string) (*DatesExport, error)
	Import(ctx context.Context, data []byte, name string) (*Calendar, error)
	ImportIfMissing(ctx context.Context, data []byte) (*Calendar, bool, error)
}

// cachedParser is a compiled parser for one version of a calendar.
type cachedParser struct {
	fingerprint string
	parser      *dateparse.Parser
}

// calendarService is the default CalendarService implementation.
type calendarService struct {
	repo  CalendarRepository
	cache ParseCache
	now   func() time.Time

	mu      sync.RWMutex
	parsers map[string]cachedParser // keyed by calendar ID
}

// NewCalendarService creates a CalendarService backed by the given repository
// and parse cache.
func NewCalendarService(repo CalendarRepository, cache ParseCache) CalendarService {
	if cache == nil {
		cache = NewNoopParseCache()
	}
	return &calendarService{
		repo:    repo,
		cache:   cache,
		now:     time.Now,
		parsers: make(map[string]cachedParser),
	}
}

// --- Calendars ---

// CreateCalendar validates and stores a new calendar.
func (s *calendarService) CreateCalendar(ctx context.Context, input CalendarInput) (*Calendar, error) {
	name, def, err := s.validateCalendar(input)
	if err != nil {
		return nil, err
	}

	now := s.timestamp()
	cal := &Calendar{
		ID:         uuid.NewString(),
		Name:       name,
		Definition: def,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.repo.Create(ctx, cal); err != nil {
		return nil, fmt.Errorf("creating calendar: %w", err)
	}

	slog.Info("calendar created",
		slog.String("calendar_id", cal.ID),
		slog.Int("months", len(def.MonthNames)),
	)
	return cal, nil
}

// GetCalendar retrieves a calendar by ID.
func (s *calendarService) GetCalendar(ctx context.Context, id string) (*Calendar, error) {
	cal, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("getting calendar: %w", err)
	}
	if cal == nil {
		return nil, apperror.NewNotFound("calendar not found")
	}
	return cal, nil
}

// ListCalendars returns every calendar.
func (s *calendarService) ListCalendars(ctx context.Context) ([]Calendar, error) {
	cals, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing calendars: %w", err)
	}
	if cals == nil {
		cals = []Calendar{}
	}
	return cals, nil
}

// UpdateCalendar replaces a calendar's name and definition. Stored event
// dates keep their month and day numbers, so the update is refused when any
// of them would fall outside the new definition.
func (s *calendarService) UpdateCalendar(ctx context.Context, id string, input CalendarInput) (*Calendar, error) {
	cal, err := s.GetCalendar(ctx, id)
	if err != nil {
		return nil, err
	}
	name, def, err := s.validateCalendar(input)
	if err != nil {
		return nil, err
	}

	p, err := dateparse.New(def)
	if err != nil {
		return nil, apperror.NewInternal(err)
	}
	events, err := s.repo.ListEvents(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("listing events: %w", err)
	}
	for _, evt := range events {
		if err := p.CheckBounds(evt.Date); err != nil {
			return nil, apperror.NewConflict(fmt.Sprintf(
				"event %q (%s) does not fit the updated calendar: %v", evt.Name, evt.DateText, err))
		}
	}

	cal.Name = name
	cal.Definition = def
	cal.UpdatedAt = s.timestamp()
	if err := s.repo.Update(ctx, cal); err != nil {
		return nil, fmt.Errorf("updating calendar: %w", err)
	}
	s.forgetParser(id)
	return cal, nil
}

// DeleteCalendar removes a calendar and all of its events.
func (s *calendarService) DeleteCalendar(ctx context.Context, id string) error {
	if _, err := s.GetCalendar(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("deleting calendar: %w", err)
	}
	s.forgetParser(id)

	slog.Info("calendar deleted", slog.String("calendar_id", id))
	return nil
}

// validateCalendar sanitizes a calendar input and checks its definition. The
// returned definition has its defaults filled in.
func (s *calendarService) validateCalendar(input CalendarInput) (string, dateparse.CalendarConfig, error) {
	name := sanitize.PlainText(input.Name)
	if name == "" {
		return "", dateparse.CalendarConfig{}, apperror.NewValidation("calendar name is required")
	}
	if utf8.RuneCountInString(name) > maxNameLength {
		return "", dateparse.CalendarConfig{}, apperror.NewValidation(
			fmt.Sprintf("calendar name must be at most %d characters", maxNameLength))
	}

	def := input.Definition
	if def.MonthNames != nil {
		def.MonthNames = sanitizeNames(def.MonthNames)
	}
	if def.WeekdayNames != nil {
		def.WeekdayNames = sanitizeNames(def.WeekdayNames)
	}
	if err := validateMonths(def); err != nil {
		return "", dateparse.CalendarConfig{}, err
	}
	model, err := dateparse.NewCalendarModel(def)
	if err != nil {
		return "", dateparse.CalendarConfig{}, apperror.NewValidation(err.Error())
	}
	return name, model.Config(), nil
}

// validateMonths applies the editor's rules on top of the parser's own:
// stored calendars need at least one month, every month and weekday needs a
// name and every month at least one day. Missing fields are left for
// NewCalendarModel to report.
func validateMonths(def dateparse.CalendarConfig) error {
	if def.MonthNames != nil && len(def.MonthNames) == 0 {
		return apperror.NewValidation("calendar must have at least one month")
	}
	for i, name := range def.MonthNames {
		if name == "" {
			return apperror.NewValidation(fmt.Sprintf("month %d: name is required", i+1))
		}
		if i < len(def.MonthDays) && def.MonthDays[i] < 1 {
			return apperror.NewValidation(fmt.Sprintf("month %q must have at least one day", name))
		}
	}
	for i, name := range def.WeekdayNames {
		if name == "" {
			return apperror.NewValidation(fmt.Sprintf("weekday %d: name is required", i+1))
		}
	}
	return nil
}

func sanitizeNames(names []string) []string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = sanitize.PlainText(n)
	}
	return out
}

// --- Parsing ---

// Formats lists the month name variants a calendar's parser accepts.
func (s *calendarService) Formats(ctx context.Context, id string) (*FormatsResponse, error) {
	cal, err := s.GetCalendar(ctx, id)
	if err != nil {
		return nil, err
	}
	p, _, err := s.parserFor(cal)
	if err != nil {
		return nil, err
	}
	weekdays := p.Calendar().WeekdayNames()
	if weekdays == nil {
		weekdays = []string{}
	}
	return &FormatsResponse{
		CalendarID: cal.ID,
		Months:     p.Formats().Formats(),
		Weekdays:   weekdays,
		Seasons:    dateparse.Seasons(),
	}, nil
}

// Parse parses free text against a calendar without storing anything.
func (s *calendarService) Parse(ctx context.Context, id, text string) (*ParseResult, error) {
	cal, err := s.GetCalendar(ctx, id)
	if err != nil {
		return nil, err
	}
	text = sanitize.DateText(text)
	p, d, err := s.parse(ctx, cal, text)
	if err != nil {
		return nil, err
	}
	return &ParseResult{Text: text, Date: d, Description: p.Describe(d)}, nil
}

// parse runs text through the calendar's parser, consulting the parse cache
// first. Cache failures are logged and otherwise ignored.
func (s *calendarService) parse(ctx context.Context, cal *Calendar, text string) (*dateparse.Parser, *dateparse.ParsedDate, error) {
	p, fingerprint, err := s.parserFor(cal)
	if err != nil {
		return nil, nil, err
	}

	if d, ok, err := s.cache.Get(ctx, fingerprint, text); err != nil {
		slog.Warn("parse cache read failed",
			slog.String("calendar_id", cal.ID),
			slog.Any("error", err),
		)
	} else if ok {
		return p, d, nil
	}

	d, err := p.Parse(text)
	if err != nil {
		return nil, nil, dateError(err)
	}

	if err := s.cache.Set(ctx, fingerprint, text, d); err != nil {
		slog.Warn("parse cache write failed",
			slog.String("calendar_id", cal.ID),
			slog.Any("error", err),
		)
	}
	return p, d, nil
}

// parserFor returns the compiled parser for the calendar's current
// definition, building it on first use and whenever the definition changes.
func (s *calendarService) parserFor(cal *Calendar) (*dateparse.Parser, string, error) {
	fingerprint, err := Fingerprint(cal.Definition)
	if err != nil {
		return nil, "", apperror.NewInternal(err)
	}

	s.mu.RLock()
	cached, ok := s.parsers[cal.ID]
	s.mu.RUnlock()
	if ok && cached.fingerprint == fingerprint {
		return cached.parser, fingerprint, nil
	}

	p, err := dateparse.New(cal.Definition)
	if err != nil {
		// Stored definitions were validated on write.
		return nil, "", apperror.NewInternal(fmt.Errorf("compiling parser for calendar %s: %w", cal.ID, err))
	}
	slog.Debug("date parser compiled",
		slog.String("calendar_id", cal.ID),
		slog.String("fingerprint", fingerprint),
	)

	s.mu.Lock()
	s.parsers[cal.ID] = cachedParser{fingerprint: fingerprint, parser: p}
	s.mu.Unlock()
	return p, fingerprint, nil
}

func (s *calendarService) forgetParser(id string) {
	s.mu.Lock()
	delete(s.parsers, id)
	s.mu.Unlock()
}

// dateError maps a parse failure to the error shown to the user.
func dateError(err error) error {
	var perr *dateparse.ParseError
	if errors.As(err, &perr) && perr.Unexpected() {
		return apperror.NewInternal(err)
	}
	switch {
	case errors.Is(err, dateparse.ErrEmptyInput):
		return apperror.NewValidation("date is required")
	case errors.Is(err, dateparse.ErrInvalidDate) && perr != nil && perr.Err != nil:
		return apperror.NewValidation(fmt.Sprintf("%s (%v)", err.Error(), perr.Err))
	case errors.Is(err, dateparse.ErrUnparseable):
		return apperror.NewValidation(err.Error())
	}
	return apperror.NewInternal(err)
}

// --- Events ---

// CreateEvent parses the event's date text and stores the event.
func (s *calendarService) CreateEvent(ctx context.Context, calendarID string, input EventInput) (*Event, error) {
	cal, err := s.GetCalendar(ctx, calendarID)
	if err != nil {
		return nil, err
	}

	now := s.timestamp()
	evt := &Event{
		ID:         uuid.NewString(),
		CalendarID: cal.ID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.applyEventInput(ctx, cal, evt, input); err != nil {
		return nil, err
	}
	if err := s.repo.CreateEvent(ctx, evt); err != nil {
		return nil, fmt.Errorf("creating event: %w", err)
	}
	return evt, nil
}

// GetEvent retrieves an event of a calendar.
func (s *calendarService) GetEvent(ctx context.Context, calendarID, id string) (*Event, error) {
	cal, err := s.GetCalendar(ctx, calendarID)
	if err != nil {
		return nil, err
	}
	evt, err := s.repo.GetEvent(ctx, calendarID, id)
	if err != nil {
		return nil, fmt.Errorf("getting event: %w", err)
	}
	if evt == nil {
		return nil, apperror.NewNotFound("event not found")
	}
	if err := s.describe(cal, evt); err != nil {
		return nil, err
	}
	return evt, nil
}

// UpdateEvent replaces an event's fields, re-parsing its date text.
func (s *calendarService) UpdateEvent(ctx context.Context, calendarID, id string, input EventInput) (*Event, error) {
	cal, err := s.GetCalendar(ctx, calendarID)
	if err != nil {
		return nil, err
	}
	evt, err := s.repo.GetEvent(ctx, calendarID, id)
	if err != nil {
		return nil, fmt.Errorf("getting event: %w", err)
	}
	if evt == nil {
		return nil, apperror.NewNotFound("event not found")
	}

	if err := s.applyEventInput(ctx, cal, evt, input); err != nil {
		return nil, err
	}
	evt.UpdatedAt = s.timestamp()
	if err := s.repo.UpdateEvent(ctx, evt); err != nil {
		return nil, fmt.Errorf("updating event: %w", err)
	}
	return evt, nil
}

// DeleteEvent removes an event.
func (s *calendarService) DeleteEvent(ctx context.Context, calendarID, id string) error {
	evt, err := s.repo.GetEvent(ctx, calendarID, id)
	if err != nil {
		return fmt.Errorf("getting event: %w", err)
	}
	if evt == nil {
		return apperror.NewNotFound("event not found")
	}
	if err := s.repo.DeleteEvent(ctx, calendarID, id); err != nil {
		return fmt.Errorf("deleting event: %w", err)
	}
	return nil
}

// ListEvents returns a calendar's events in chronological order.
func (s *calendarService) ListEvents(ctx context.Context, calendarID string) ([]Event, error) {
	cal, err := s.GetCalendar(ctx, calendarID)
	if err != nil {
		return nil, err
	}
	events, err := s.repo.ListEvents(ctx, calendarID)
	if err != nil {
		return nil, fmt.Errorf("listing events: %w", err)
	}
	if events == nil {
		events = []Event{}
	}
	for i := range events {
		if err := s.describe(cal, &events[i]); err != nil {
			return nil, err
		}
	}
	return events, nil
}

// applyEventInput validates input and copies it onto evt, parsing the date.
func (s *calendarService) applyEventInput(ctx context.Context, cal *Calendar, evt *Event, input EventInput) error {
	name := sanitize.PlainText(input.Name)
	if name == "" {
		return apperror.NewValidation("event name is required")
	}
	if utf8.RuneCountInString(name) > maxNameLength {
		return apperror.NewValidation(fmt.Sprintf("event name must be at most %d characters", maxNameLength))
	}
	dateText := sanitize.DateText(input.Date)
	if utf8.RuneCountInString(dateText) > maxDateTextLength {
		return apperror.NewValidation(fmt.Sprintf("date must be at most %d characters", maxDateTextLength))
	}

	p, d, err := s.parse(ctx, cal, dateText)
	if err != nil {
		return err
	}

	evt.Name = name
	evt.Description = sanitize.HTML(input.Description)
	evt.DateText = dateText
	evt.Date = d
	evt.DateDescription = p.Describe(d)
	return nil
}

// describe fills in the confirmation text of a stored event.
func (s *calendarService) describe(cal *Calendar, evt *Event) error {
	p, _, err := s.parserFor(cal)
	if err != nil {
		return err
	}
	evt.DateDescription = p.Describe(evt.Date)
	return nil
}

// --- Import/export ---

// Export builds the export envelope of a calendar and its events.
func (s *calendarService) Export(ctx context.Context, calendarID string) (*DatesExport, error) {
	cal, err := s.GetCalendar(ctx, calendarID)
	if err != nil {
		return nil, err
	}
	events, err := s.repo.ListEvents(ctx, calendarID)
	if err != nil {
		return nil, fmt.Errorf("listing events: %w", err)
	}
	return BuildExport(cal, events), nil
}

// Import creates a calendar, and its events, from an import file. name
// overrides the calendar name found in the file. Nothing is stored unless
// every event date parses.
func (s *calendarService) Import(ctx context.Context, data []byte, name string) (*Calendar, error) {
	result, err := DetectAndParse(data)
	if err != nil {
		return nil, apperror.NewBadRequest(err.Error())
	}
	return s.importResult(ctx, result, importName(name, result.CalendarName))
}

// ImportIfMissing imports a calendar unless one with the same name already
// exists. It reports whether a calendar was created.
func (s *calendarService) ImportIfMissing(ctx context.Context, data []byte) (*Calendar, bool, error) {
	result, err := DetectAndParse(data)
	if err != nil {
		return nil, false, apperror.NewBadRequest(err.Error())
	}
	name := importName("", result.CalendarName)

	existing, err := s.repo.GetByName(ctx, sanitize.PlainText(name))
	if err != nil {
		return nil, false, fmt.Errorf("checking existing calendar: %w", err)
	}
	if existing != nil {
		return existing, false, nil
	}

	cal, err := s.importResult(ctx, result, name)
	if err != nil {
		return nil, false, err
	}
	return cal, true, nil
}

func (s *calendarService) importResult(ctx context.Context, result *ImportResult, name string) (*Calendar, error) {
	name, def, err := s.validateCalendar(CalendarInput{Name: name, Definition: result.Definition})
	if err != nil {
		return nil, err
	}

	now := s.timestamp()
	cal := &Calendar{
		ID:         uuid.NewString(),
		Name:       name,
		Definition: def,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	events := make([]Event, 0, len(result.Events))
	for _, imported := range result.Events {
		evt := Event{
			ID:         uuid.NewString(),
			CalendarID: cal.ID,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		input := EventInput{Name: imported.Name, Description: imported.Description, Date: imported.Date}
		if err := s.applyEventInput(ctx, cal, &evt, input); err != nil {
			var appErr *apperror.AppError
			if errors.As(err, &appErr) && appErr.Code < 500 {
				return nil, apperror.NewValidation(fmt.Sprintf("event %q: %s", imported.Name, appErr.Message))
			}
			return nil, err
		}
		events = append(events, evt)
	}

	if err := s.repo.CreateWithEvents(ctx, cal, events); err != nil {
		return nil, fmt.Errorf("importing calendar: %w", err)
	}

	slog.Info("calendar imported",
		slog.String("calendar_id", cal.ID),
		slog.String("format", string(result.Format)),
		slog.Int("events", len(events)),
	)
	return cal, nil
}

// timestamp is the current time at the precision the repository stores.
func (s *calendarService) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Millisecond)
}
