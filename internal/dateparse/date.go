package dateparse

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Precision is the granularity a parsed date was expressed at.
type Precision int

// Precision values. The zero value is PrecisionExact.
const (
	PrecisionExact Precision = iota
	PrecisionMonth
	PrecisionYear
	PrecisionFuzzy
	PrecisionRelative
	PrecisionSeason
	PrecisionRange
)

var precisionNames = [...]string{
	PrecisionExact:    "EXACT",
	PrecisionMonth:    "MONTH",
	PrecisionYear:     "YEAR",
	PrecisionFuzzy:    "FUZZY",
	PrecisionRelative: "RELATIVE",
	PrecisionSeason:   "SEASON",
	PrecisionRange:    "RANGE",
}

// String returns the precision's serialized name, e.g. "EXACT".
func (p Precision) String() string {
	if p.valid() {
		return precisionNames[p]
	}
	return fmt.Sprintf("Precision(%d)", int(p))
}

func (p Precision) valid() bool {
	return p >= PrecisionExact && p <= PrecisionRange
}

// ParsePrecision maps a serialized name back to its Precision. Names are
// matched exactly, as written by String.
func ParsePrecision(name string) (Precision, error) {
	for i, n := range precisionNames {
		if n == name {
			return Precision(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownPrecision, name)
}

// MarshalText implements encoding.TextMarshaler.
func (p Precision) MarshalText() ([]byte, error) {
	if !p.valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownPrecision, int(p))
	}
	return []byte(precisionNames[p]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Precision) UnmarshalText(text []byte) error {
	v, err := ParsePrecision(string(text))
	if err != nil {
		return err
	}
	*p = v
	return nil
}

// ParsedDate is the structured result of parsing a date expression. Optional
// components are nil when the expression did not carry them. Range dates own
// their endpoints; nesting is never cyclic.
type ParsedDate struct {
	Year         int         `json:"year"`
	Month        *int        `json:"month"`
	Day          *int        `json:"day"`
	Precision    Precision   `json:"precision"`
	RelativeTo   *string     `json:"relative_to"`
	RelativeDays *int        `json:"relative_days"`
	Confidence   float64     `json:"confidence"`
	Season       *string     `json:"season"`
	RangeStart   *ParsedDate `json:"range_start"`
	RangeEnd     *ParsedDate `json:"range_end"`
}

// Validate checks the invariants tied to the date's precision. It does not
// know the calendar, so month and day bounds are the parser's job.
func (d *ParsedDate) Validate() error {
	switch d.Precision {
	case PrecisionExact:
		if (d.Month == nil || d.Day == nil) && d.RangeStart == nil && d.RangeEnd == nil {
			return invalidDatef("exact dates must have month and day")
		}
	case PrecisionRelative:
		if d.RelativeTo == nil {
			return invalidDatef("relative dates must specify reference event")
		}
	case PrecisionSeason:
		if d.Season == nil {
			return invalidDatef("season dates must specify season")
		}
	case PrecisionRange:
		if d.RangeStart == nil || d.RangeEnd == nil {
			return invalidDatef("range dates must specify start and end")
		}
	case PrecisionMonth, PrecisionYear, PrecisionFuzzy:
	default:
		return fmt.Errorf("%w: %d", ErrUnknownPrecision, int(d.Precision))
	}

	for _, child := range []*ParsedDate{d.RangeStart, d.RangeEnd} {
		if child == nil {
			continue
		}
		if err := child.Validate(); err != nil {
			return fmt.Errorf("range endpoint: %w", err)
		}
	}
	return nil
}

// String renders the date in a compact debugging form.
func (d *ParsedDate) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s{year:%d", d.Precision, d.Year)
	if d.Month != nil {
		fmt.Fprintf(&b, " month:%d", *d.Month)
	}
	if d.Day != nil {
		fmt.Fprintf(&b, " day:%d", *d.Day)
	}
	if d.Season != nil {
		fmt.Fprintf(&b, " season:%s", *d.Season)
	}
	if d.RelativeTo != nil {
		fmt.Fprintf(&b, " relative_to:%q", *d.RelativeTo)
	}
	if d.RelativeDays != nil {
		fmt.Fprintf(&b, " relative_days:%d", *d.RelativeDays)
	}
	if d.Precision == PrecisionFuzzy {
		fmt.Fprintf(&b, " confidence:%g", d.Confidence)
	}
	if d.RangeStart != nil {
		fmt.Fprintf(&b, " from:%s", d.RangeStart)
	}
	if d.RangeEnd != nil {
		fmt.Fprintf(&b, " to:%s", d.RangeEnd)
	}
	b.WriteByte('}')
	return b.String()
}

// UnmarshalJSON decodes the ToJSON shape. A missing confidence defaults to
// 1.0 and the decoded date must pass Validate.
func (d *ParsedDate) UnmarshalJSON(data []byte) error {
	type plain ParsedDate
	aux := plain{Confidence: 1.0}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*d = ParsedDate(aux)
	return d.Validate()
}

func intPtr(v int) *int {
	return &v
}

func stringPtr(v string) *string {
	return &v
}
