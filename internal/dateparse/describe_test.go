package dateparse

import "testing"

func TestDescribe(t *testing.T) {
	p := newTestParser(t, standardCalendar())

	tests := []struct {
		input string
		want  string
	}{
		{"3rd day of Harvest Moon, 3019", "Day 3 of Harvest Moon, Year 3019"},
		{"harvest moon 3019", "Harvest Moon, Year 3019"},
		{"Year 3019", "Year 3019"},
		{"Early spring 3019", "Spring of Year 3019"},
		{"2 days after Battle of Hornburg", "2 days after battle of hornburg"},
		{"1 day before the Council", "1 day before the council"},
		{"During the Siege", "During the siege"},
		{"Around Harvest Moon 3019", "Around Harvest Moon, Year 3019"},
		{"about 15th Wintermarch 3019", "Around Day 15 of Wintermarch, Year 3019"},
		{"Sometime during 3019", "Sometime in Year 3019"},
		{"Between Harvest Moon and Wintermarch 3019", "Harvest Moon, Year 3019 to Wintermarch, Year 3019"},
		{"From 1st to 15th Summerday 3019", "Day 1 of Summerday, Year 3019 to Day 15 of Summerday, Year 3019"},
	}

	for _, tt := range tests {
		d, err := p.Parse(tt.input)
		if err != nil {
			t.Errorf("Parse(%q): unexpected error: %v", tt.input, err)
			continue
		}
		if got := p.Describe(d); got != tt.want {
			t.Errorf("Describe(Parse(%q)) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestDescribe_Fallbacks(t *testing.T) {
	p := newTestParser(t, standardCalendar())

	if got := p.Describe(nil); got != "" {
		t.Errorf("Describe(nil) = %q, want empty", got)
	}
	if got := p.Describe(monthOnly(12, 9)); got != "Month 9, Year 12" {
		t.Errorf("unexpected description for unknown month: %q", got)
	}
	if got := p.Describe(&ParsedDate{Year: 5, Precision: PrecisionExact}); got != "Year 5" {
		t.Errorf("unexpected description for incomplete exact date: %q", got)
	}
}
