package dateparse

import (
	"encoding/json"
	"strings"
)

// CalendarConfig is the calendar definition as supplied by a user or a stored
// record. Required keys are pointers or nil-able slices so that a missing key
// can be told apart from an empty one.
type CalendarConfig struct {
	MonthNames   []string `json:"month_names" yaml:"month_names"`
	MonthDays    []int    `json:"month_days" yaml:"month_days"`
	YearLength   *int     `json:"year_length" yaml:"year_length"`
	WeekdayNames []string `json:"weekday_names,omitempty" yaml:"weekday_names,omitempty"`
	CurrentYear  *int     `json:"current_year,omitempty" yaml:"current_year,omitempty"`
}

// CalendarModel is a validated, immutable calendar definition.
type CalendarModel struct {
	monthNames   []string
	monthDays    []int
	yearLength   int
	weekdayNames []string
	currentYear  int
}

// NewCalendarModel validates cfg and returns the model. It checks only that
// the required fields are present, that names and day counts pair up and
// that the day counts add up to the year length. Zero-day months and blank
// names are accepted; hosts that need stricter rules apply them before
// calling. Every failure wraps ErrConfig.
func NewCalendarModel(cfg CalendarConfig) (*CalendarModel, error) {
	var missing []string
	if cfg.MonthNames == nil {
		missing = append(missing, "month_names")
	}
	if cfg.MonthDays == nil {
		missing = append(missing, "month_days")
	}
	if cfg.YearLength == nil {
		missing = append(missing, "year_length")
	}
	if len(missing) > 0 {
		return nil, configErrorf("missing required calendar fields: %s", strings.Join(missing, ", "))
	}

	if len(cfg.MonthNames) != len(cfg.MonthDays) {
		return nil, configErrorf("number of months (%d) must match number of month day counts (%d)",
			len(cfg.MonthNames), len(cfg.MonthDays))
	}
	sum := 0
	for _, days := range cfg.MonthDays {
		sum += days
	}
	if sum != *cfg.YearLength {
		return nil, configErrorf("sum of month days (%d) must match year length (%d)", sum, *cfg.YearLength)
	}

	m := &CalendarModel{
		monthNames:   append([]string(nil), cfg.MonthNames...),
		monthDays:    append([]int(nil), cfg.MonthDays...),
		yearLength:   *cfg.YearLength,
		weekdayNames: append([]string(nil), cfg.WeekdayNames...),
		currentYear:  1,
	}
	if cfg.CurrentYear != nil {
		m.currentYear = *cfg.CurrentYear
	}
	return m, nil
}

// CalendarFromMap validates a loosely typed calendar mapping, such as one
// decoded from a request body or a graph-store property. Values of the wrong
// type are reported as ErrConfig.
func CalendarFromMap(data map[string]any) (*CalendarModel, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, configErrorf("encode calendar: %v", err)
	}
	var cfg CalendarConfig
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return nil, configErrorf("decode calendar: %v", err)
	}
	return NewCalendarModel(cfg)
}

// MonthCount returns the number of months in a year.
func (m *CalendarModel) MonthCount() int { return len(m.monthNames) }

// MonthName returns the name of the 1-based month, or "" when out of range.
func (m *CalendarModel) MonthName(month int) string {
	if month < 1 || month > len(m.monthNames) {
		return ""
	}
	return m.monthNames[month-1]
}

// MonthNames returns a copy of the month names in calendar order.
func (m *CalendarModel) MonthNames() []string {
	return append([]string(nil), m.monthNames...)
}

// DaysInMonth returns the length of the 1-based month, or 0 when out of range.
func (m *CalendarModel) DaysInMonth(month int) int {
	if month < 1 || month > len(m.monthDays) {
		return 0
	}
	return m.monthDays[month-1]
}

// YearLength returns the number of days in a year.
func (m *CalendarModel) YearLength() int { return m.yearLength }

// WeekdayNames returns a copy of the weekday names, nil when none are defined.
func (m *CalendarModel) WeekdayNames() []string {
	if len(m.weekdayNames) == 0 {
		return nil
	}
	return append([]string(nil), m.weekdayNames...)
}

// CurrentYear is the year relative dates are anchored to.
func (m *CalendarModel) CurrentYear() int { return m.currentYear }

// Config returns the definition the model was built from, with the current
// year filled in.
func (m *CalendarModel) Config() CalendarConfig {
	yl, cy := m.yearLength, m.currentYear
	return CalendarConfig{
		MonthNames:   m.MonthNames(),
		MonthDays:    append([]int(nil), m.monthDays...),
		YearLength:   &yl,
		WeekdayNames: m.WeekdayNames(),
		CurrentYear:  &cy,
	}
}

// checkDay reports whether month/day fall inside the calendar.
func (m *CalendarModel) checkDay(month, day int) error {
	if month < 1 || month > len(m.monthNames) {
		return invalidDatef("month %d is outside 1..%d", month, len(m.monthNames))
	}
	if day < 1 || day > m.monthDays[month-1] {
		return invalidDatef("%d %s has only %d days", day, m.monthNames[month-1], m.monthDays[month-1])
	}
	return nil
}
