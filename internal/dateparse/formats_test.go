package dateparse

import (
	"strings"
	"testing"
)

func abbrevsFor(t *testing.T, names ...string) []string {
	t.Helper()
	days := make([]int, len(names))
	for i := range days {
		days[i] = 10
	}
	yl := 10 * len(names)
	m, err := NewCalendarModel(CalendarConfig{MonthNames: names, MonthDays: days, YearLength: &yl})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	r := NewMonthFormatRegistry(m)
	out := make([]string, 0, len(names))
	for _, f := range r.Formats() {
		out = append(out, f.Abbrev)
	}
	return out
}

func TestAbbreviations(t *testing.T) {
	tests := []struct {
		name   string
		months []string
		want   []string
	}{
		{
			name:   "single words",
			months: []string{"Wintermarch", "Springtide", "Summerday", "Harvest Moon", "Fallmist", "Deepwinter"},
			want:   []string{"Win", "Spr", "Sum", "HM", "Fal", "Dee"},
		},
		{
			name:   "multi-word initials with collisions",
			months: []string{"First Moon", "Second Moon", "Third Moon", "Fourth Moon", "Fifth Moon"},
			want:   []string{"FM", "SM", "TM", "Fon", "Fin"},
		},
		{
			name:   "collisions ignore case",
			months: []string{"Winter", "WINDY"},
			want:   []string{"Win", "WIY"},
		},
		{
			name:   "fallback chain down to numeric suffix",
			months: []string{"Marra", "Marta", "Marza", "Marzaa", "Marzaaa"},
			want:   []string{"Mar", "Maa", "Mrz", "Mar3", "Mar4"},
		},
		{
			name:   "too few consonants skips to suffix",
			months: []string{"Aea", "Aeaa"},
			want:   []string{"Aea", "Aea3"},
		},
		{
			name:   "short names",
			months: []string{"Ab", "Ab"},
			want:   []string{"Ab", "Abb"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := abbrevsFor(t, tt.months...)
			if strings.Join(got, ",") != strings.Join(tt.want, ",") {
				t.Errorf("abbreviations = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAbbreviationsAreUnique(t *testing.T) {
	got := abbrevsFor(t, "Moon", "Moon", "Moon", "Moon", "Moon", "Moon")
	seen := map[string]bool{}
	for _, a := range got {
		key := strings.ToLower(a)
		if seen[key] {
			t.Fatalf("duplicate abbreviation %q in %v", a, got)
		}
		seen[key] = true
	}
}

func TestAbbreviations_BlankNames(t *testing.T) {
	got := abbrevsFor(t, "", "", "Moon")
	want := []string{"", "3", "Moo"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("month %d: expected %q, got %q", i+1, want[i], got[i])
		}
	}
}

func TestMonthFormatRegistry_Lookup(t *testing.T) {
	m, err := NewCalendarModel(standardCalendar())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	r := NewMonthFormatRegistry(m)

	for name, want := range map[string]int{
		"Harvest Moon": 4,
		"harvest moon": 4,
		"HARVEST MOON": 4,
		"HM":           4,
		"hm":           4,
		"Win":          1,
		"deepwinter":   6,
	} {
		got, ok := r.Lookup(name)
		if !ok || got != want {
			t.Errorf("Lookup(%q) = %d, %v; want %d", name, got, ok, want)
		}
	}

	if _, ok := r.Lookup("Nonexistent"); ok {
		t.Error("expected Lookup to miss an unknown name")
	}

	f, ok := r.Format(4)
	if !ok {
		t.Fatal("expected format for month 4")
	}
	want := MonthFormat{Index: 4, Full: "Harvest Moon", Lower: "harvest moon", Upper: "HARVEST MOON", Abbrev: "HM"}
	if f != want {
		t.Errorf("Format(4) = %+v, want %+v", f, want)
	}
	if _, ok := r.Format(0); ok {
		t.Error("expected no format for month 0")
	}
}

func TestMonthFormatRegistry_LaterMonthWins(t *testing.T) {
	yl := 20
	m, err := NewCalendarModel(CalendarConfig{
		MonthNames: []string{"Harvest Moon", "Hm"},
		MonthDays:  []int{10, 10},
		YearLength: &yl,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	r := NewMonthFormatRegistry(m)

	// Month 1 abbreviates to "HM", which is also month 2's full name.
	if f, _ := r.Format(1); f.Abbrev != "HM" {
		t.Fatalf("expected month 1 abbreviation HM, got %q", f.Abbrev)
	}
	if f, _ := r.Format(2); f.Abbrev != "Hmm" {
		t.Errorf("expected month 2 abbreviation Hmm, got %q", f.Abbrev)
	}
	if got, _ := r.Lookup("hm"); got != 2 {
		t.Errorf("Lookup(hm) = %d, want 2", got)
	}
	if got, _ := r.Lookup("harvest moon"); got != 1 {
		t.Errorf("Lookup(harvest moon) = %d, want 1", got)
	}
}
