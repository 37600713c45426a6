package dateparse

import (
	"strconv"
	"strings"
	"unicode"
)

// MonthFormat holds the display variants of one month name.
type MonthFormat struct {
	Index  int    `json:"index"`
	Full   string `json:"full"`
	Lower  string `json:"lower"`
	Upper  string `json:"upper"`
	Abbrev string `json:"abbrev"`
}

// MonthFormatRegistry maps every variant of every month name to its 1-based
// month index. Built once per parser and read-only afterwards.
type MonthFormatRegistry struct {
	formats []MonthFormat
	lookup  map[string]int
}

// NewMonthFormatRegistry derives the month variants for a calendar.
// Abbreviations are unique within the registry, compared case-insensitively.
func NewMonthFormatRegistry(m *CalendarModel) *MonthFormatRegistry {
	r := &MonthFormatRegistry{
		formats: make([]MonthFormat, 0, len(m.monthNames)),
		lookup:  make(map[string]int, len(m.monthNames)*4),
	}

	used := make(map[string]struct{}, len(m.monthNames))
	for i, name := range m.monthNames {
		abbrev := uniqueAbbrev(name, used)
		used[strings.ToLower(abbrev)] = struct{}{}
		r.formats = append(r.formats, MonthFormat{
			Index:  i + 1,
			Full:   name,
			Lower:  strings.ToLower(name),
			Upper:  strings.ToUpper(name),
			Abbrev: abbrev,
		})
	}

	// Later months win when two variants collide.
	for _, f := range r.formats {
		for _, v := range []string{f.Full, f.Lower, f.Upper, f.Abbrev} {
			r.lookup[strings.ToLower(v)] = f.Index
		}
	}
	return r
}

// Lookup returns the month index for any variant of a month name.
func (r *MonthFormatRegistry) Lookup(name string) (int, bool) {
	idx, ok := r.lookup[strings.ToLower(name)]
	return idx, ok
}

// Format returns the variants of the 1-based month.
func (r *MonthFormatRegistry) Format(month int) (MonthFormat, bool) {
	if month < 1 || month > len(r.formats) {
		return MonthFormat{}, false
	}
	return r.formats[month-1], true
}

// Formats returns all month variants in calendar order.
func (r *MonthFormatRegistry) Formats() []MonthFormat {
	return append([]MonthFormat(nil), r.formats...)
}

// baseAbbrev is the first-choice abbreviation: initials for multi-word
// names, the first three letters otherwise.
func baseAbbrev(name string) string {
	words := strings.Fields(name)
	if len(words) > 1 {
		var b strings.Builder
		for _, w := range words {
			b.WriteRune([]rune(w)[0])
		}
		return b.String()
	}
	return prefix([]rune(name), 3)
}

// uniqueAbbrev picks an abbreviation for name that is not in used. The
// fallbacks run in a fixed order; the numeric suffix shares the retry
// counter, so the first suffixed candidate ends in 3.
func uniqueAbbrev(name string, used map[string]struct{}) string {
	runes := []rune(name)
	base := baseAbbrev(name)
	abbrev := base

	taken := func(s string) bool {
		_, ok := used[strings.ToLower(s)]
		return ok
	}

	for counter := 1; taken(abbrev); counter++ {
		switch counter {
		case 1:
			if len(runes) > 0 {
				abbrev = prefix(runes, 2) + string(runes[len(runes)-1])
			}
		case 2:
			if len(runes) == 0 {
				continue
			}
			var consonants []rune
			for _, r := range runes[1:] {
				if unicode.IsLetter(r) && !isVowel(r) {
					consonants = append(consonants, r)
				}
			}
			if len(consonants) >= 2 {
				abbrev = string([]rune{runes[0], consonants[0], consonants[1]})
			}
		default:
			abbrev = base + strconv.Itoa(counter)
		}
	}
	return abbrev
}

func prefix(runes []rune, n int) string {
	if len(runes) < n {
		n = len(runes)
	}
	return string(runes[:n])
}

func isVowel(r rune) bool {
	switch unicode.ToLower(r) {
	case 'a', 'e', 'i', 'o', 'u':
		return true
	}
	return false
}
