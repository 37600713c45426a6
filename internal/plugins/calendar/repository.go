package calendar

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/keyxmakerx/chronicle-dates/internal/dateparse"
)

// CalendarRepository defines persistence operations for calendars and events.
// Lookups return (nil, nil) when the row does not exist.
type CalendarRepository interface {
	// Calendars.
	Create(ctx context.Context, cal *Calendar) error
	CreateWithEvents(ctx context.Context, cal *Calendar, events []Event) error
	GetByID(ctx context.Context, id string) (*Calendar, error)
	GetByName(ctx context.Context, name string) (*Calendar, error)
	List(ctx context.Context) ([]Calendar, error)
	Update(ctx context.Context, cal *Calendar) error
	Delete(ctx context.Context, id string) error

	// Events.
	CreateEvent(ctx context.Context, evt *Event) error
	GetEvent(ctx context.Context, calendarID, id string) (*Event, error)
	UpdateEvent(ctx context.Context, evt *Event) error
	DeleteEvent(ctx context.Context, calendarID, id string) error
	ListEvents(ctx context.Context, calendarID string) ([]Event, error)
}

// calendarRepo is the SQL implementation of CalendarRepository. Queries use
// "?" placeholders and portable types, so the same code runs on MariaDB in
// production and on SQLite in tests.
type calendarRepo struct {
	db *sql.DB
}

// NewCalendarRepository creates a calendar repository on db.
func NewCalendarRepository(db *sql.DB) CalendarRepository {
	return &calendarRepo{db: db}
}

// execer is satisfied by both *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// --- Calendars ---

const calendarCols = `id, name, definition, created_at, updated_at`

func scanCalendar(scanner interface{ Scan(...any) error }) (*Calendar, error) {
	var (
		cal                  Calendar
		definition           string
		createdAt, updatedAt int64
	)
	err := scanner.Scan(&cal.ID, &cal.Name, &definition, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(definition), &cal.Definition); err != nil {
		return nil, fmt.Errorf("decoding definition of calendar %s: %w", cal.ID, err)
	}
	cal.CreatedAt = fromMillis(createdAt)
	cal.UpdatedAt = fromMillis(updatedAt)
	return &cal, nil
}

// Create inserts a new calendar.
func (r *calendarRepo) Create(ctx context.Context, cal *Calendar) error {
	return insertCalendar(ctx, r.db, cal)
}

// CreateWithEvents inserts a calendar and its events in one transaction.
// Used by import so a half-imported calendar is never visible.
func (r *calendarRepo) CreateWithEvents(ctx context.Context, cal *Calendar, events []Event) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := insertCalendar(ctx, tx, cal); err != nil {
		return err
	}
	for i := range events {
		if err := insertEvent(ctx, tx, &events[i]); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func insertCalendar(ctx context.Context, db execer, cal *Calendar) error {
	definition, err := json.Marshal(cal.Definition)
	if err != nil {
		return fmt.Errorf("encoding calendar definition: %w", err)
	}
	_, err = db.ExecContext(ctx,
		`INSERT INTO calendars (`+calendarCols+`) VALUES (?, ?, ?, ?, ?)`,
		cal.ID, cal.Name, string(definition), toMillis(cal.CreatedAt), toMillis(cal.UpdatedAt),
	)
	return err
}

// GetByID returns a calendar by its ID.
func (r *calendarRepo) GetByID(ctx context.Context, id string) (*Calendar, error) {
	return scanCalendar(r.db.QueryRowContext(ctx,
		`SELECT `+calendarCols+` FROM calendars WHERE id = ?`, id))
}

// GetByName returns the first calendar with the given name.
func (r *calendarRepo) GetByName(ctx context.Context, name string) (*Calendar, error) {
	return scanCalendar(r.db.QueryRowContext(ctx,
		`SELECT `+calendarCols+` FROM calendars WHERE name = ? ORDER BY created_at LIMIT 1`, name))
}

// List returns all calendars, oldest first.
func (r *calendarRepo) List(ctx context.Context) ([]Calendar, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+calendarCols+` FROM calendars ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cals []Calendar
	for rows.Next() {
		cal, err := scanCalendar(rows)
		if err != nil {
			return nil, err
		}
		cals = append(cals, *cal)
	}
	return cals, rows.Err()
}

// Update replaces a calendar's name and definition.
func (r *calendarRepo) Update(ctx context.Context, cal *Calendar) error {
	definition, err := json.Marshal(cal.Definition)
	if err != nil {
		return fmt.Errorf("encoding calendar definition: %w", err)
	}
	_, err = r.db.ExecContext(ctx,
		`UPDATE calendars SET name = ?, definition = ?, updated_at = ? WHERE id = ?`,
		cal.Name, string(definition), toMillis(cal.UpdatedAt), cal.ID,
	)
	return err
}

// Delete removes a calendar and its events.
func (r *calendarRepo) Delete(ctx context.Context, id string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM calendar_events WHERE calendar_id = ?`, id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM calendars WHERE id = ?`, id); err != nil {
		return err
	}
	return tx.Commit()
}

// --- Events ---

const eventCols = `id, calendar_id, name, description, date_text, date_json,
        date_precision, sort_year, created_at, updated_at`

func scanEvent(scanner interface{ Scan(...any) error }) (*Event, error) {
	var (
		evt                  Event
		dateJSON, precision  string
		sortYear             int
		createdAt, updatedAt int64
	)
	err := scanner.Scan(&evt.ID, &evt.CalendarID, &evt.Name, &evt.Description, &evt.DateText,
		&dateJSON, &precision, &sortYear, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	// Stored dates go through FromJSON so a row written by an older build
	// with an unknown precision fails loudly instead of decoding as EXACT.
	var raw map[string]any
	if err := json.Unmarshal([]byte(dateJSON), &raw); err != nil {
		return nil, fmt.Errorf("decoding date of event %s: %w", evt.ID, err)
	}
	if evt.Date, err = dateparse.FromJSON(raw); err != nil {
		return nil, fmt.Errorf("restoring date of event %s: %w", evt.ID, err)
	}
	evt.CreatedAt = fromMillis(createdAt)
	evt.UpdatedAt = fromMillis(updatedAt)
	return &evt, nil
}

// CreateEvent inserts a new event.
func (r *calendarRepo) CreateEvent(ctx context.Context, evt *Event) error {
	return insertEvent(ctx, r.db, evt)
}

func insertEvent(ctx context.Context, db execer, evt *Event) error {
	dateJSON, err := encodeDate(evt.Date)
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx,
		`INSERT INTO calendar_events (`+eventCols+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		evt.ID, evt.CalendarID, evt.Name, evt.Description, evt.DateText,
		dateJSON, evt.Date.Precision.String(), evt.SortYear(),
		toMillis(evt.CreatedAt), toMillis(evt.UpdatedAt),
	)
	return err
}

// GetEvent returns an event of the given calendar.
func (r *calendarRepo) GetEvent(ctx context.Context, calendarID, id string) (*Event, error) {
	return scanEvent(r.db.QueryRowContext(ctx,
		`SELECT `+eventCols+` FROM calendar_events WHERE calendar_id = ? AND id = ?`,
		calendarID, id))
}

// UpdateEvent replaces an event's fields and date.
func (r *calendarRepo) UpdateEvent(ctx context.Context, evt *Event) error {
	dateJSON, err := encodeDate(evt.Date)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx,
		`UPDATE calendar_events
		 SET name = ?, description = ?, date_text = ?, date_json = ?,
		     date_precision = ?, sort_year = ?, updated_at = ?
		 WHERE calendar_id = ? AND id = ?`,
		evt.Name, evt.Description, evt.DateText, dateJSON,
		evt.Date.Precision.String(), evt.SortYear(), toMillis(evt.UpdatedAt),
		evt.CalendarID, evt.ID,
	)
	return err
}

// DeleteEvent removes an event.
func (r *calendarRepo) DeleteEvent(ctx context.Context, calendarID, id string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM calendar_events WHERE calendar_id = ? AND id = ?`, calendarID, id)
	return err
}

// ListEvents returns a calendar's events in chronological order of year,
// then creation.
func (r *calendarRepo) ListEvents(ctx context.Context, calendarID string) ([]Event, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+eventCols+` FROM calendar_events
		 WHERE calendar_id = ?
		 ORDER BY sort_year, created_at, id`, calendarID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		evt, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, *evt)
	}
	return events, rows.Err()
}

// --- Helpers ---

func encodeDate(d *dateparse.ParsedDate) (string, error) {
	if d == nil {
		return "", errors.New("event has no parsed date")
	}
	b, err := json.Marshal(dateparse.ToJSON(d))
	if err != nil {
		return "", fmt.Errorf("encoding event date: %w", err)
	}
	return string(b), nil
}

// Timestamps are stored as Unix milliseconds.
func toMillis(t time.Time) int64 { return t.UnixMilli() }

func fromMillis(ms int64) time.Time { return time.UnixMilli(ms).UTC() }
