package sanitize

import (
	"strings"
	"testing"
)

func TestHTML(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		contains string
		absent   string
	}{
		{"keeps formatting", "<p>The <strong>siege</strong> ends</p>", "<strong>siege</strong>", ""},
		{"drops scripts", `<p>ok</p><script>alert(1)</script>`, "<p>ok</p>", "<script"},
		{"drops handlers", `<p onclick="steal()">hi</p>`, "hi", "onclick"},
		{"drops javascript links", `<a href="javascript:alert(1)">x</a>`, "x", "javascript:"},
		{"keeps tables", `<table><tr><td colspan="2">a</td></tr></table>`, `colspan="2"`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := HTML(tt.input)
			if !strings.Contains(got, tt.contains) {
				t.Errorf("HTML(%q) = %q, want it to contain %q", tt.input, got, tt.contains)
			}
			if tt.absent != "" && strings.Contains(got, tt.absent) {
				t.Errorf("HTML(%q) = %q, must not contain %q", tt.input, got, tt.absent)
			}
		})
	}

	if HTML("") != "" {
		t.Error("expected empty output for empty input")
	}
}

func TestPlainText(t *testing.T) {
	for input, want := range map[string]string{
		"Harvest Moon":                  "Harvest Moon",
		"  Harvest   Moon \n":           "Harvest Moon",
		"<b>Battle</b> of Hornburg":     "Battle of Hornburg",
		"<script>alert(1)</script>Fall": "Fall",
		"Tom &amp; Jerry":               "Tom & Jerry",
		"":                              "",
	} {
		if got := PlainText(input); got != want {
			t.Errorf("PlainText(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestDateText(t *testing.T) {
	for input, want := range map[string]string{
		"  3rd day of   Harvest Moon, 3019 ": "3rd day of Harvest Moon, 3019",
		"2 days after <The Sundering>":       "2 days after <The Sundering>",
		"Year\x00 3019\x1b":                  "Year 3019",
		"during the\tLong\nNight":            "during the Long Night",
		"":                                   "",
	} {
		if got := DateText(input); got != want {
			t.Errorf("DateText(%q) = %q, want %q", input, got, want)
		}
	}
}
