package dateparse

import (
	"errors"
	"fmt"
	"strings"
)

// Parser turns free-text date expressions into ParsedDates for one calendar.
// A Parser is immutable once built and safe for concurrent use.
type Parser struct {
	cal     *CalendarModel
	formats *MonthFormatRegistry
	groups  []patternGroup
}

// New validates the calendar definition and builds a parser for it. Calendar
// problems are reported as errors wrapping ErrConfig.
func New(cfg CalendarConfig) (*Parser, error) {
	cal, err := NewCalendarModel(cfg)
	if err != nil {
		return nil, err
	}
	return NewFromModel(cal)
}

// NewFromModel builds a parser for an already validated calendar.
func NewFromModel(cal *CalendarModel) (*Parser, error) {
	groups, err := compilePatterns(cal)
	if err != nil {
		return nil, err
	}
	return &Parser{
		cal:     cal,
		formats: NewMonthFormatRegistry(cal),
		groups:  groups,
	}, nil
}

// Calendar returns the calendar the parser validates against.
func (p *Parser) Calendar() *CalendarModel { return p.cal }

// Formats returns the month name variants derived for the calendar.
func (p *Parser) Formats() *MonthFormatRegistry { return p.formats }

// Parse classifies text and extracts a date from it.
//
// Pattern groups are tried in priority order (exact, month_year, year,
// season, relative, fuzzy, range) and patterns top to bottom within a group.
// A pattern whose tokens fail validation, such as a day past the end of its
// month, is skipped so a looser pattern further down can still match. When
// nothing applies the returned *ParseError wraps the last such failure.
func (p *Parser) Parse(text string) (*ParsedDate, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, &ParseError{Input: text, empty: true}
	}

	var last error
	for _, group := range p.groups {
		for _, pat := range group.patterns {
			m, ok := matchPattern(pat, trimmed)
			if !ok {
				continue
			}
			d, err := p.attempt(m)
			if err == nil {
				return d, nil
			}
			if !isSoftFailure(err) {
				return nil, &ParseError{Input: text, Err: err, unexpected: true}
			}
			last = err
		}
	}
	return nil, &ParseError{Input: text, Err: last}
}

// attempt runs the extractor for one regex match. Extractor panics are
// converted into hard errors so one bad rule cannot take the caller down.
func (p *Parser) attempt(m *match) (d *ParsedDate, err error) {
	defer func() {
		if r := recover(); r != nil {
			d, err = nil, fmt.Errorf("%s extractor: %v", m.pattern.category, r)
		}
	}()

	d, err = p.extract(m)
	if err != nil {
		return nil, err
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return d, nil
}

// isSoftFailure reports whether err only means "this pattern did not apply".
func isSoftFailure(err error) bool {
	return errors.Is(err, ErrInvalidDate) || errors.Is(err, ErrUnparseable)
}

// ToJSON serializes d; see the package-level ToJSON.
func (p *Parser) ToJSON(d *ParsedDate) map[string]any {
	return ToJSON(d)
}

// FromJSON restores a date serialized by ToJSON and checks its month and day
// against the parser's calendar.
func (p *Parser) FromJSON(data map[string]any) (*ParsedDate, error) {
	d, err := FromJSON(data)
	if err != nil || d == nil {
		return d, err
	}
	if err := p.CheckBounds(d); err != nil {
		return nil, err
	}
	return d, nil
}

// CheckBounds verifies that every month and day in d, range endpoints
// included, lies inside the parser's calendar.
func (p *Parser) CheckBounds(d *ParsedDate) error {
	if d.Month != nil {
		if *d.Month < 1 || *d.Month > p.cal.MonthCount() {
			return invalidDatef("month %d is outside 1..%d", *d.Month, p.cal.MonthCount())
		}
		if d.Day != nil {
			if err := p.cal.checkDay(*d.Month, *d.Day); err != nil {
				return err
			}
		}
	}
	for _, child := range []*ParsedDate{d.RangeStart, d.RangeEnd} {
		if child == nil {
			continue
		}
		if err := p.CheckBounds(child); err != nil {
			return err
		}
	}
	return nil
}
