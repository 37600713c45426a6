// Package calendar stores user-defined calendars and the dated events
// written against them. Event dates are free text ("3rd day of Harvest Moon,
// 3019"); the service parses them with the calendar's dateparse.Parser on
// every write and keeps the structured result next to the original text.
package calendar

import (
	"time"

	"github.com/keyxmakerx/chronicle-dates/internal/dateparse"
)

// Field limits, matching the column sizes in the migrations.
const (
	maxNameLength     = 200
	maxDateTextLength = 500
)

// Calendar is a named calendar definition.
type Calendar struct {
	ID         string                   `json:"id"`
	Name       string                   `json:"name"`
	Definition dateparse.CalendarConfig `json:"definition"`
	CreatedAt  time.Time                `json:"created_at"`
	UpdatedAt  time.Time                `json:"updated_at"`
}

// Event is something that happened on a calendar date. DateText is what the
// author typed; Date is its parse.
type Event struct {
	ID          string                `json:"id"`
	CalendarID  string                `json:"calendar_id"`
	Name        string                `json:"name"`
	Description string                `json:"description"`
	DateText    string                `json:"date_text"`
	Date        *dateparse.ParsedDate `json:"date"`
	CreatedAt   time.Time             `json:"created_at"`
	UpdatedAt   time.Time             `json:"updated_at"`

	// DateDescription is the confirmation text for Date. Filled in by the
	// service, not stored.
	DateDescription string `json:"date_description"`
}

// SortYear is the year events are ordered by. Range dates sort by their
// start.
func (e *Event) SortYear() int {
	if e.Date == nil {
		return 0
	}
	if e.Date.RangeStart != nil {
		return e.Date.RangeStart.Year
	}
	return e.Date.Year
}

// --- Request DTOs ---

// CalendarInput is the body of create and update calendar requests.
type CalendarInput struct {
	Name       string                   `json:"name"`
	Definition dateparse.CalendarConfig `json:"definition"`
}

// EventInput is the body of create and update event requests.
type EventInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Date        string `json:"date"`
}

// ParseRequest is the body of a parse request.
type ParseRequest struct {
	Text string `json:"text"`
}

// --- Responses ---

// ParseResult is a parsed date expression together with its confirmation
// text.
type ParseResult struct {
	Text        string                `json:"text"`
	Date        *dateparse.ParsedDate `json:"date"`
	Description string                `json:"description"`
}

// FormatsResponse lists the month name variants the parser accepts.
type FormatsResponse struct {
	CalendarID string                  `json:"calendar_id"`
	Months     []dateparse.MonthFormat `json:"months"`
	Weekdays   []string                `json:"weekdays"`
	Seasons    []string                `json:"seasons"`
}
