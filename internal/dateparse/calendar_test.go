package dateparse

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestNewCalendarModel_Valid(t *testing.T) {
	m, err := NewCalendarModel(standardCalendar())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.MonthCount() != 6 {
		t.Errorf("expected 6 months, got %d", m.MonthCount())
	}
	if m.YearLength() != 365 {
		t.Errorf("expected year length 365, got %d", m.YearLength())
	}
	if m.CurrentYear() != 3019 {
		t.Errorf("expected current year 3019, got %d", m.CurrentYear())
	}
	if m.MonthName(4) != "Harvest Moon" {
		t.Errorf("expected month 4 to be Harvest Moon, got %q", m.MonthName(4))
	}
	if m.MonthName(0) != "" || m.MonthName(7) != "" {
		t.Error("expected empty names for out-of-range months")
	}
	if m.DaysInMonth(3) != 61 || m.DaysInMonth(9) != 0 {
		t.Errorf("unexpected DaysInMonth: %d, %d", m.DaysInMonth(3), m.DaysInMonth(9))
	}
	if len(m.WeekdayNames()) != 7 {
		t.Errorf("expected 7 weekdays, got %d", len(m.WeekdayNames()))
	}
}

func TestNewCalendarModel_CopiesInput(t *testing.T) {
	cfg := standardCalendar()
	m, err := NewCalendarModel(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cfg.MonthNames[0] = "Changed"
	if m.MonthName(1) != "Wintermarch" {
		t.Errorf("model shares the caller's slice: month 1 is %q", m.MonthName(1))
	}

	names := m.MonthNames()
	names[0] = "Changed"
	if m.MonthName(1) != "Wintermarch" {
		t.Error("MonthNames returned the model's own slice")
	}
}

func TestNewCalendarModel_Defaults(t *testing.T) {
	cfg := standardCalendar()
	cfg.WeekdayNames = nil
	cfg.CurrentYear = nil

	m, err := NewCalendarModel(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.CurrentYear() != 1 {
		t.Errorf("expected default current year 1, got %d", m.CurrentYear())
	}
	if m.WeekdayNames() != nil {
		t.Errorf("expected nil weekdays, got %v", m.WeekdayNames())
	}
}

func TestNewCalendarModel_Errors(t *testing.T) {
	yl := func(n int) *int { return &n }

	tests := []struct {
		name    string
		cfg     CalendarConfig
		message string
	}{
		{
			name:    "missing everything",
			cfg:     CalendarConfig{},
			message: "missing required calendar fields: month_names, month_days, year_length",
		},
		{
			name:    "missing year length",
			cfg:     CalendarConfig{MonthNames: []string{"A"}, MonthDays: []int{30}},
			message: "missing required calendar fields: year_length",
		},
		{
			name:    "length mismatch",
			cfg:     CalendarConfig{MonthNames: []string{"A", "B"}, MonthDays: []int{30}, YearLength: yl(30)},
			message: "number of months (2) must match number of month day counts (1)",
		},
		{
			name:    "sum mismatch",
			cfg:     CalendarConfig{MonthNames: []string{"A", "B"}, MonthDays: []int{30, 30}, YearLength: yl(365)},
			message: "sum of month days (60) must match year length (365)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCalendarModel(tt.cfg)
			if !errors.Is(err, ErrConfig) {
				t.Fatalf("expected ErrConfig, got %v", err)
			}
			if !strings.Contains(err.Error(), tt.message) {
				t.Errorf("expected message containing %q, got %q", tt.message, err.Error())
			}
		})
	}
}

func TestNewCalendarModel_Permissive(t *testing.T) {
	yl := func(n int) *int { return &n }

	tests := []struct {
		name string
		cfg  CalendarConfig
	}{
		{"no months", CalendarConfig{MonthNames: []string{}, MonthDays: []int{}, YearLength: yl(0)}},
		{"zero-day month", CalendarConfig{
			MonthNames: []string{"Intercalary", "Longyear"}, MonthDays: []int{0, 365}, YearLength: yl(365)}},
		{"blank month name", CalendarConfig{MonthNames: []string{"A", " "}, MonthDays: []int{30, 30}, YearLength: yl(60)}},
		{"duplicate blank names", CalendarConfig{MonthNames: []string{"", ""}, MonthDays: []int{30, 30}, YearLength: yl(60)}},
		{"blank weekday", CalendarConfig{
			MonthNames: []string{"A"}, MonthDays: []int{30}, YearLength: yl(30),
			WeekdayNames: []string{"Oneday", ""},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := New(tt.cfg)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := p.Calendar().MonthCount(); got != len(tt.cfg.MonthNames) {
				t.Errorf("expected %d months, got %d", len(tt.cfg.MonthNames), got)
			}
			d, err := p.Parse("Year 3019")
			if err != nil || d.Precision != PrecisionYear {
				t.Errorf("expected a year date, got %v, %v", d, err)
			}
		})
	}
}

func TestParse_ZeroDayMonth(t *testing.T) {
	yl := 365
	p, err := New(CalendarConfig{
		MonthNames: []string{"Intercalary", "Longyear"},
		MonthDays:  []int{0, 365},
		YearLength: &yl,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	d, err := p.Parse("Intercalary 3019")
	if err != nil || d.Precision != PrecisionMonth || *d.Month != 1 {
		t.Errorf("expected month precision for the empty month, got %v, %v", d, err)
	}
	if _, err := p.Parse("1 Intercalary 3019"); !errors.Is(err, ErrInvalidDate) {
		t.Errorf("expected ErrInvalidDate for a day in a zero-day month, got %v", err)
	}
}

func TestParse_BlankMonthNeverMatches(t *testing.T) {
	yl := 60
	p, err := New(CalendarConfig{MonthNames: []string{"A", ""}, MonthDays: []int{30, 30}, YearLength: &yl})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	d, err := p.Parse("3019")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Precision != PrecisionYear || d.Month != nil {
		t.Errorf("expected a bare year, got %s", d)
	}
}

func TestNew_ConfigErrorsSurface(t *testing.T) {
	cfg := standardCalendar()
	cfg.MonthDays = cfg.MonthDays[:5]
	if _, err := New(cfg); !errors.Is(err, ErrConfig) {
		t.Errorf("expected ErrConfig from New, got %v", err)
	}
}

func TestCalendarFromMap(t *testing.T) {
	m, err := CalendarFromMap(map[string]any{
		"month_names":   []any{"Wintermarch", "Springtide"},
		"month_days":    []any{30.0, 30},
		"year_length":   60,
		"weekday_names": []string{"Starday"},
		"current_year":  3019,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.MonthCount() != 2 || m.CurrentYear() != 3019 {
		t.Errorf("unexpected model: %+v", m.Config())
	}

	_, err = CalendarFromMap(map[string]any{
		"month_names": "Wintermarch",
		"month_days":  []int{30},
		"year_length": 30,
	})
	if !errors.Is(err, ErrConfig) {
		t.Errorf("expected ErrConfig for a mistyped field, got %v", err)
	}

	_, err = CalendarFromMap(map[string]any{"month_names": []string{"A"}})
	if !errors.Is(err, ErrConfig) {
		t.Errorf("expected ErrConfig for missing fields, got %v", err)
	}
}

func TestCalendarModel_ConfigRoundTrip(t *testing.T) {
	m, err := NewCalendarModel(standardCalendar())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	again, err := NewCalendarModel(m.Config())
	if err != nil {
		t.Fatalf("unexpected error rebuilding from Config: %v", err)
	}
	if !reflect.DeepEqual(m, again) {
		t.Errorf("Config round trip changed the model: %+v vs %+v", m, again)
	}
}

func TestCalendarModel_CheckDay(t *testing.T) {
	m, err := NewCalendarModel(standardCalendar())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, tt := range []struct {
		month, day int
		ok         bool
	}{
		{1, 1, true},
		{1, 60, true},
		{1, 61, false},
		{3, 61, true},
		{4, 62, true},
		{1, 0, false},
		{0, 1, false},
		{7, 1, false},
	} {
		err := m.checkDay(tt.month, tt.day)
		if tt.ok && err != nil {
			t.Errorf("checkDay(%d, %d): unexpected error %v", tt.month, tt.day, err)
		}
		if !tt.ok && !errors.Is(err, ErrInvalidDate) {
			t.Errorf("checkDay(%d, %d): expected ErrInvalidDate, got %v", tt.month, tt.day, err)
		}
	}
}
