package dateparse

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Describe renders d as the short confirmation shown under a date field,
// e.g. "Day 3 of Harvest Moon, Year 3019".
func (p *Parser) Describe(d *ParsedDate) string {
	if d == nil {
		return ""
	}
	switch d.Precision {
	case PrecisionExact:
		if d.Month != nil && d.Day != nil {
			return fmt.Sprintf("Day %d of %s, Year %d", *d.Day, p.monthLabel(*d.Month), d.Year)
		}
	case PrecisionMonth:
		if d.Month != nil {
			return fmt.Sprintf("%s, Year %d", p.monthLabel(*d.Month), d.Year)
		}
	case PrecisionSeason:
		if d.Season != nil {
			return fmt.Sprintf("%s of Year %d", capitalize(*d.Season), d.Year)
		}
	case PrecisionRelative:
		return describeRelative(d)
	case PrecisionFuzzy:
		switch {
		case d.Month != nil && d.Day != nil:
			return fmt.Sprintf("Around Day %d of %s, Year %d", *d.Day, p.monthLabel(*d.Month), d.Year)
		case d.Month != nil:
			return fmt.Sprintf("Around %s, Year %d", p.monthLabel(*d.Month), d.Year)
		}
		return fmt.Sprintf("Sometime in Year %d", d.Year)
	case PrecisionRange:
		if d.RangeStart != nil && d.RangeEnd != nil {
			return p.Describe(d.RangeStart) + " to " + p.Describe(d.RangeEnd)
		}
	}
	return fmt.Sprintf("Year %d", d.Year)
}

func describeRelative(d *ParsedDate) string {
	event := ""
	if d.RelativeTo != nil {
		event = *d.RelativeTo
	}
	days := 0
	if d.RelativeDays != nil {
		days = *d.RelativeDays
	}

	direction := "after"
	if days < 0 {
		direction, days = "before", -days
	}
	switch days {
	case 0:
		return "During " + event
	case 1:
		return fmt.Sprintf("1 day %s %s", direction, event)
	}
	return fmt.Sprintf("%d days %s %s", days, direction, event)
}

func (p *Parser) monthLabel(month int) string {
	if name := p.cal.MonthName(month); name != "" {
		return name
	}
	return fmt.Sprintf("Month %d", month)
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:])
}
