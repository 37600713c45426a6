package dateparse

import (
	"fmt"
	"strconv"
	"strings"
)

// Confidence values for fuzzy dates.
const (
	confidenceApproximate = 0.8
	confidenceSometime    = 0.5
)

// extract dispatches a match to its category's extractor.
func (p *Parser) extract(m *match) (*ParsedDate, error) {
	switch m.pattern.category {
	case CategoryExact:
		return p.extractExact(m)
	case CategoryMonthYear:
		return p.extractMonthYear(m)
	case CategoryYear:
		return p.extractYear(m)
	case CategorySeason:
		return p.extractSeason(m)
	case CategoryRelative:
		return p.extractRelative(m)
	case CategoryFuzzy:
		return p.extractFuzzy(m)
	case CategoryRange:
		return p.extractRange(m)
	}
	return nil, fmt.Errorf("no extractor for category %s", m.pattern.category)
}

func newDate(year int, precision Precision) *ParsedDate {
	return &ParsedDate{Year: year, Precision: precision, Confidence: 1.0}
}

// extractExact needs a four-digit year: "Harvest Moon 3019" also matches
// "Month Day Year" as day 30 of year 19, and must fall through to month_year.
func (p *Parser) extractExact(m *match) (*ParsedDate, error) {
	year, err := fourDigitYear(m)
	if err != nil {
		return nil, err
	}
	month, err := p.fullMonthToken(m, capMonth)
	if err != nil {
		return nil, err
	}
	day, err := numberToken(m, capDay)
	if err != nil {
		return nil, err
	}
	if err := p.cal.checkDay(month, day); err != nil {
		return nil, err
	}

	d := newDate(year, PrecisionExact)
	d.Month = intPtr(month)
	d.Day = intPtr(day)
	return d, nil
}

func (p *Parser) extractMonthYear(m *match) (*ParsedDate, error) {
	year, err := numberToken(m, capYear)
	if err != nil {
		return nil, err
	}
	month, err := p.fullMonthToken(m, capMonth)
	if err != nil {
		return nil, err
	}
	d := newDate(year, PrecisionMonth)
	d.Month = intPtr(month)
	return d, nil
}

func (p *Parser) extractYear(m *match) (*ParsedDate, error) {
	year, err := numberToken(m, capYear)
	if err != nil {
		return nil, err
	}
	return newDate(year, PrecisionYear), nil
}

func (p *Parser) extractSeason(m *match) (*ParsedDate, error) {
	year, err := numberToken(m, capYear)
	if err != nil {
		return nil, err
	}
	season, ok := m.get(capSeason)
	if !ok {
		return nil, noMatchf("no season in %q", m.text)
	}
	d := newDate(year, PrecisionSeason)
	d.Season = stringPtr(strings.ToLower(season))
	return d, nil
}

// extractRelative anchors the date to the calendar's current year; the
// referenced event's own date is not known here.
func (p *Parser) extractRelative(m *match) (*ParsedDate, error) {
	event, ok := m.get(capEvent)
	if !ok || event == "" {
		return nil, noMatchf("no reference event in %q", m.text)
	}

	offset := 0
	if _, counted := m.get(capCount); counted {
		days, err := numberToken(m, capCount)
		if err != nil {
			return nil, err
		}
		direction, _ := m.get(capDirection)
		if strings.EqualFold(direction, "before") {
			days = -days
		}
		offset = days
	}

	d := newDate(p.cal.CurrentYear(), PrecisionRelative)
	d.RelativeTo = stringPtr(strings.TrimSpace(strings.ToLower(event)))
	d.RelativeDays = intPtr(offset)
	return d, nil
}

func (p *Parser) extractFuzzy(m *match) (*ParsedDate, error) {
	year, err := fourDigitYear(m)
	if err != nil {
		return nil, err
	}

	d := newDate(year, PrecisionFuzzy)
	if name, ok := m.get(capMonth); ok {
		month, found := p.formats.Lookup(name)
		if !found {
			return nil, noMatchf("unknown month %q", name)
		}
		d.Month = intPtr(month)
	}
	if _, ok := m.get(capDay); ok {
		day, err := numberToken(m, capDay)
		if err != nil {
			return nil, err
		}
		d.Day = intPtr(day)
	}
	if d.Month != nil && d.Day != nil {
		if err := p.cal.checkDay(*d.Month, *d.Day); err != nil {
			return nil, err
		}
	}

	d.Confidence = m.pattern.confidence
	return d, nil
}

func (p *Parser) extractRange(m *match) (*ParsedDate, error) {
	year, err := fourDigitYear(m)
	if err != nil {
		return nil, err
	}

	var months, days []int
	for _, name := range m.order {
		switch name {
		case capMonth, capMonth2:
			month, ok := p.formats.Lookup(m.groups[name])
			if !ok {
				return nil, noMatchf("unknown month %q", m.groups[name])
			}
			months = append(months, month)
		case capDay, capDay2:
			day, err := numberToken(m, name)
			if err != nil {
				return nil, err
			}
			days = append(days, day)
		}
	}

	var start, end *ParsedDate
	if len(days) == 2 {
		if len(months) == 0 {
			return nil, noMatchf("day range without a month in %q", m.text)
		}
		for _, day := range days {
			if err := p.cal.checkDay(months[0], day); err != nil {
				return nil, err
			}
		}
		start = newDate(year, PrecisionExact)
		start.Month, start.Day = intPtr(months[0]), intPtr(days[0])
		end = newDate(year, PrecisionExact)
		end.Month, end.Day = intPtr(months[0]), intPtr(days[1])
	} else {
		if len(months) < 2 {
			return nil, noMatchf("month range needs two months in %q", m.text)
		}
		start = newDate(year, PrecisionMonth)
		start.Month = intPtr(months[0])
		end = newDate(year, PrecisionMonth)
		end.Month = intPtr(months[1])
	}

	d := newDate(year, PrecisionRange)
	d.RangeStart, d.RangeEnd = start, end
	return d, nil
}

// fullMonthToken resolves a month capture against the calendar's full month
// names only; abbreviations are not accepted here.
func (p *Parser) fullMonthToken(m *match, name string) (int, error) {
	token, ok := m.get(name)
	if !ok {
		return 0, noMatchf("no month in %q", m.text)
	}
	for i, full := range p.cal.monthNames {
		if strings.EqualFold(full, token) {
			return i + 1, nil
		}
	}
	return 0, noMatchf("%q is not a month of this calendar", token)
}

// numberToken parses a numeric capture, dropping any ordinal suffix.
func numberToken(m *match, name string) (int, error) {
	token, ok := m.get(name)
	if !ok {
		return 0, noMatchf("no %s in %q", name, m.text)
	}
	token = strings.TrimRight(strings.ToLower(token), "stndrh")
	n, err := strconv.Atoi(token)
	if err != nil {
		return 0, noMatchf("bad %s %q", name, token)
	}
	return n, nil
}

// fourDigitYear requires the year token to be exactly four digits.
func fourDigitYear(m *match) (int, error) {
	token, ok := m.get(capYear)
	if !ok || len(token) != 4 {
		return 0, noMatchf("no 4-digit year in %q", m.text)
	}
	return numberToken(m, capYear)
}
