package calendar

import (
	"strings"
	"testing"
)

func TestDetectAndParse_DefinitionYAML(t *testing.T) {
	data := `
name: Shire Reckoning
month_names: [Afteryule, Solmath]
month_days: [30, 30]
year_length: 60
weekday_names: [Sterday, Sunday]
`
	result, err := DetectAndParse([]byte(data))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Format != FormatDefinition || result.CalendarName != "Shire Reckoning" {
		t.Errorf("unexpected result %+v", result)
	}
	if *result.Definition.YearLength != 60 || result.Definition.CurrentYear != nil {
		t.Errorf("unexpected definition %+v", result.Definition)
	}
	if len(result.Definition.WeekdayNames) != 2 || len(result.Events) != 0 {
		t.Errorf("unexpected weekdays %v or events %v", result.Definition.WeekdayNames, result.Events)
	}
}

func TestDetectAndParse_ChronicleYAML(t *testing.T) {
	data := `
format: chronicle-calendar-v1
version: 1
calendar:
  name: Harptos
  months:
    - {name: Hammer, days: 30, sort_order: 0}
    - {name: Alturiak, days: 30, sort_order: 1}
events:
  - {name: Founding, year: 7, month: 2, day: 9}
  - {name: Siege, year: 1300, month: 1, day: 10, end_year: 1300, end_month: 2, end_day: 2}
`
	result, err := DetectAndParse([]byte(data))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Format != FormatChronicle || result.Definition.CurrentYear != nil {
		t.Errorf("unexpected result %+v", result)
	}
	want := []string{"9 Alturiak 0007", "10 Hammer 1300"}
	for i, evt := range result.Events {
		if evt.Date != want[i] {
			t.Errorf("event %d: expected %q, got %q", i, want[i], evt.Date)
		}
	}
}

func TestDetectAndParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
		want string
	}{
		{"empty", "  \n", "empty"},
		{"not a mapping", "- a\n- b\n", "reading import file"},
		{"bad json", `{"month_names": [`, "reading import file"},
		{"unknown format", `{"format": "simple-calendar"}`, "unrecognized calendar format"},
		{"bad version", `{"format": "chronicle-dates-v1", "version": 2}`, "unsupported"},
		{"chronicle without months", `{"format": "chronicle-calendar-v1", "calendar": {"name": "x"}}`, "no months"},
		{"chronicle month out of range",
			`{"format": "chronicle-calendar-v1", "calendar": {"months": [{"name": "A", "days": 5}]},
			  "events": [{"name": "Lost", "year": 1, "month": 2, "day": 1}]}`, `event "Lost"`},
		{"chronicle year too large",
			`{"format": "chronicle-calendar-v1", "calendar": {"months": [{"name": "A", "days": 5}]},
			  "events": [{"name": "Far", "year": 12000, "month": 1, "day": 1}]}`, "four-digit"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DetectAndParse([]byte(tt.data))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}

func TestChronicleDateText(t *testing.T) {
	months := []string{"Hammer", "Alturiak"}
	intp := func(v int) *int { return &v }

	tests := []struct {
		name string
		evt  chronicleEvent
		want string
	}{
		{"single day", chronicleEvent{Year: 1492, Month: 1, Day: 5}, "5 Hammer 1492"},
		{"padded year", chronicleEvent{Year: 12, Month: 2, Day: 1}, "1 Alturiak 0012"},
		{"same month range", chronicleEvent{Year: 1492, Month: 1, Day: 5, EndYear: intp(1492), EndMonth: intp(1), EndDay: intp(9)},
			"From 5 to 9 Hammer 1492"},
		{"end before start", chronicleEvent{Year: 1492, Month: 1, Day: 5, EndYear: intp(1492), EndMonth: intp(1), EndDay: intp(2)},
			"5 Hammer 1492"},
		{"cross year", chronicleEvent{Year: 1492, Month: 2, Day: 5, EndYear: intp(1493), EndMonth: intp(2), EndDay: intp(9)},
			"5 Alturiak 1492"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := chronicleDateText(tt.evt, months)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestImportName(t *testing.T) {
	if got := importName(" Override ", "File"); got != "Override" {
		t.Errorf("expected override, got %q", got)
	}
	if got := importName("", " File "); got != "File" {
		t.Errorf("expected file name, got %q", got)
	}
	if got := importName("", ""); got != "Imported calendar" {
		t.Errorf("expected fallback name, got %q", got)
	}
}
