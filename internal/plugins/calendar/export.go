package calendar

import (
	"github.com/keyxmakerx/chronicle-dates/internal/dateparse"
)

// ExportFormat is the format tag of this service's export envelope.
const ExportFormat = "chronicle-dates-v1"

// DatesExport is the export envelope: the calendar definition plus its
// events. Events are exported as the text authors typed, so an import
// re-parses them against the imported definition.
type DatesExport struct {
	Format   string         `json:"format" yaml:"format"`
	Version  int            `json:"version" yaml:"version"`
	Calendar ExportCalendar `json:"calendar" yaml:"calendar"`
	Events   []ExportEvent  `json:"events,omitempty" yaml:"events,omitempty"`
}

// ExportCalendar is a named calendar definition.
type ExportCalendar struct {
	Name                     string `json:"name" yaml:"name"`
	dateparse.CalendarConfig `yaml:",inline"`
}

// ExportEvent is an event in an export. Parsed is informational for
// consumers of the JSON form and is ignored on import.
type ExportEvent struct {
	Name        string                `json:"name" yaml:"name"`
	Description string                `json:"description,omitempty" yaml:"description,omitempty"`
	Date        string                `json:"date" yaml:"date"`
	Parsed      *dateparse.ParsedDate `json:"parsed,omitempty" yaml:"-"`
}

// BuildExport creates the export envelope for a calendar and its events.
func BuildExport(cal *Calendar, events []Event) *DatesExport {
	export := &DatesExport{
		Format:  ExportFormat,
		Version: 1,
		Calendar: ExportCalendar{
			Name:           cal.Name,
			CalendarConfig: cal.Definition,
		},
	}
	for _, evt := range events {
		export.Events = append(export.Events, ExportEvent{
			Name:        evt.Name,
			Description: evt.Description,
			Date:        evt.DateText,
			Parsed:      evt.Date,
		})
	}
	return export
}
