package calendar

// Import accepts three formats, as JSON or YAML:
//
//   - a bare calendar definition (month_names, month_days, year_length, ...)
//     with an optional top-level "name";
//   - this service's own export envelope (chronicle-dates-v1);
//   - a Chronicle calendar export (chronicle-calendar-v1). Its months are
//     taken in sort order and its numeric event dates are converted to text
//     so they go through the parser like any other event.
//
// Features of a Chronicle calendar the date parser has no use for (moons,
// eras, leap years, time of day) are dropped.

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/keyxmakerx/chronicle-dates/internal/dateparse"
)

// ImportFormat identifies which format was detected.
type ImportFormat string

const (
	FormatDefinition ImportFormat = "definition"
	FormatDates      ImportFormat = "chronicle-dates"
	FormatChronicle  ImportFormat = "chronicle-calendar"
	FormatUnknown    ImportFormat = "unknown"
)

const chronicleCalendarFormat = "chronicle-calendar-v1"

// ImportResult holds the parsed calendar data ready to be stored.
type ImportResult struct {
	Format       ImportFormat             `json:"format"`
	CalendarName string                   `json:"calendar_name"`
	Definition   dateparse.CalendarConfig `json:"definition"`
	Events       []ImportedEvent          `json:"events"`
}

// ImportedEvent is an event whose date has not been parsed yet.
type ImportedEvent struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Date        string `json:"date"`
}

// DetectAndParse auto-detects the format of raw bytes and parses them into an
// ImportResult. Input starting with '{' is read as JSON, anything else as
// YAML.
func DetectAndParse(data []byte) (*ImportResult, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, fmt.Errorf("import file is empty")
	}
	isJSON := data[0] == '{'

	var raw map[string]any
	if err := decode(data, isJSON, &raw); err != nil {
		return nil, fmt.Errorf("reading import file: %w", err)
	}

	switch detectFormat(raw) {
	case FormatDates:
		return parseDatesExport(data, isJSON)
	case FormatChronicle:
		return parseChronicle(data, isJSON)
	case FormatDefinition:
		return parseDefinition(data, isJSON)
	default:
		return nil, fmt.Errorf("unrecognized calendar format: expected a calendar definition, %s or %s",
			ExportFormat, chronicleCalendarFormat)
	}
}

func decode(data []byte, isJSON bool, v any) error {
	if isJSON {
		return json.Unmarshal(data, v)
	}
	return yaml.Unmarshal(data, v)
}

// detectFormat inspects the top-level keys to determine the format.
func detectFormat(raw map[string]any) ImportFormat {
	if f, ok := raw["format"].(string); ok {
		switch f {
		case ExportFormat:
			return FormatDates
		case chronicleCalendarFormat:
			return FormatChronicle
		}
		return FormatUnknown
	}
	if _, ok := raw["month_names"]; ok {
		return FormatDefinition
	}
	return FormatUnknown
}

// --- Bare definition ---

type namedDefinition struct {
	Name                     string `json:"name" yaml:"name"`
	dateparse.CalendarConfig `yaml:",inline"`
}

func parseDefinition(data []byte, isJSON bool) (*ImportResult, error) {
	var def namedDefinition
	if err := decode(data, isJSON, &def); err != nil {
		return nil, fmt.Errorf("parsing calendar definition: %w", err)
	}
	return &ImportResult{
		Format:       FormatDefinition,
		CalendarName: def.Name,
		Definition:   def.CalendarConfig,
	}, nil
}

// --- chronicle-dates-v1 ---

func parseDatesExport(data []byte, isJSON bool) (*ImportResult, error) {
	var export DatesExport
	if err := decode(data, isJSON, &export); err != nil {
		return nil, fmt.Errorf("parsing %s export: %w", ExportFormat, err)
	}
	if export.Version != 1 {
		return nil, fmt.Errorf("unsupported %s version %d", ExportFormat, export.Version)
	}

	result := &ImportResult{
		Format:       FormatDates,
		CalendarName: export.Calendar.Name,
		Definition:   export.Calendar.CalendarConfig,
	}
	for _, evt := range export.Events {
		result.Events = append(result.Events, ImportedEvent{
			Name:        evt.Name,
			Description: evt.Description,
			Date:        evt.Date,
		})
	}
	return result, nil
}

// --- chronicle-calendar-v1 ---

type chronicleExport struct {
	Format   string            `json:"format" yaml:"format"`
	Version  int               `json:"version" yaml:"version"`
	Calendar chronicleCalendar `json:"calendar" yaml:"calendar"`
	Events   []chronicleEvent  `json:"events" yaml:"events"`
}

type chronicleCalendar struct {
	Name        string             `json:"name" yaml:"name"`
	CurrentYear int                `json:"current_year" yaml:"current_year"`
	Months      []chronicleMonth   `json:"months" yaml:"months"`
	Weekdays    []chronicleWeekday `json:"weekdays" yaml:"weekdays"`
}

type chronicleMonth struct {
	Name      string `json:"name" yaml:"name"`
	Days      int    `json:"days" yaml:"days"`
	SortOrder int    `json:"sort_order" yaml:"sort_order"`
}

type chronicleWeekday struct {
	Name      string `json:"name" yaml:"name"`
	SortOrder int    `json:"sort_order" yaml:"sort_order"`
}

type chronicleEvent struct {
	Name        string  `json:"name" yaml:"name"`
	Description *string `json:"description" yaml:"description"`
	Year        int     `json:"year" yaml:"year"`
	Month       int     `json:"month" yaml:"month"`
	Day         int     `json:"day" yaml:"day"`
	EndYear     *int    `json:"end_year" yaml:"end_year"`
	EndMonth    *int    `json:"end_month" yaml:"end_month"`
	EndDay      *int    `json:"end_day" yaml:"end_day"`
}

func parseChronicle(data []byte, isJSON bool) (*ImportResult, error) {
	var export chronicleExport
	if err := decode(data, isJSON, &export); err != nil {
		return nil, fmt.Errorf("parsing %s export: %w", chronicleCalendarFormat, err)
	}
	cal := export.Calendar
	if len(cal.Months) == 0 {
		return nil, fmt.Errorf("%s export has no months", chronicleCalendarFormat)
	}

	months := append([]chronicleMonth(nil), cal.Months...)
	sort.SliceStable(months, func(i, j int) bool { return months[i].SortOrder < months[j].SortOrder })
	weekdays := append([]chronicleWeekday(nil), cal.Weekdays...)
	sort.SliceStable(weekdays, func(i, j int) bool { return weekdays[i].SortOrder < weekdays[j].SortOrder })

	def := dateparse.CalendarConfig{
		MonthNames: make([]string, len(months)),
		MonthDays:  make([]int, len(months)),
	}
	yearLength := 0
	for i, m := range months {
		def.MonthNames[i] = m.Name
		def.MonthDays[i] = m.Days
		yearLength += m.Days
	}
	def.YearLength = &yearLength
	for _, wd := range weekdays {
		def.WeekdayNames = append(def.WeekdayNames, wd.Name)
	}
	if cal.CurrentYear != 0 {
		currentYear := cal.CurrentYear
		def.CurrentYear = &currentYear
	}

	result := &ImportResult{
		Format:       FormatChronicle,
		CalendarName: cal.Name,
		Definition:   def,
	}
	for _, evt := range export.Events {
		text, err := chronicleDateText(evt, def.MonthNames)
		if err != nil {
			return nil, fmt.Errorf("event %q: %w", evt.Name, err)
		}
		imported := ImportedEvent{Name: evt.Name, Date: text}
		if evt.Description != nil {
			imported.Description = *evt.Description
		}
		result.Events = append(result.Events, imported)
	}
	return result, nil
}

// chronicleDateText renders a Chronicle event date as parser input. Years
// are zero-padded because the parser only reads four-digit years in full
// dates. An end date in the same month becomes a day range; any other end
// date is dropped.
func chronicleDateText(evt chronicleEvent, monthNames []string) (string, error) {
	if evt.Month < 1 || evt.Month > len(monthNames) {
		return "", fmt.Errorf("month %d is outside 1..%d", evt.Month, len(monthNames))
	}
	if evt.Year < 0 || evt.Year > 9999 {
		return "", fmt.Errorf("year %d cannot be written as a four-digit year", evt.Year)
	}
	month := monthNames[evt.Month-1]

	if evt.EndYear != nil && evt.EndMonth != nil && evt.EndDay != nil &&
		*evt.EndYear == evt.Year && *evt.EndMonth == evt.Month && *evt.EndDay > evt.Day {
		return fmt.Sprintf("From %d to %d %s %04d", evt.Day, *evt.EndDay, month, evt.Year), nil
	}
	return fmt.Sprintf("%d %s %04d", evt.Day, month, evt.Year), nil
}

// importName picks the name for an imported calendar: the explicit override,
// then the name in the file, then a generic one.
func importName(override, fromFile string) string {
	if name := strings.TrimSpace(override); name != "" {
		return name
	}
	if name := strings.TrimSpace(fromFile); name != "" {
		return name
	}
	return "Imported calendar"
}
