package dateparse

import (
	"encoding/json"
	"fmt"
	"math"
)

// ToJSON converts d into the nested mapping stored alongside dated records.
// Every key is always present; absent components map to nil.
func ToJSON(d *ParsedDate) map[string]any {
	if d == nil {
		return nil
	}
	return map[string]any{
		"year":          d.Year,
		"month":         optionalInt(d.Month),
		"day":           optionalInt(d.Day),
		"precision":     d.Precision.String(),
		"relative_to":   optionalString(d.RelativeTo),
		"relative_days": optionalInt(d.RelativeDays),
		"confidence":    d.Confidence,
		"season":        optionalString(d.Season),
		"range_start":   nestedJSON(d.RangeStart),
		"range_end":     nestedJSON(d.RangeEnd),
	}
}

// FromJSON rebuilds a ParsedDate from a ToJSON mapping, including mappings
// that went through encoding/json and came back with float64 numbers. A nil
// mapping yields a nil date. Unknown precision names wrap ErrUnknownPrecision.
func FromJSON(data map[string]any) (*ParsedDate, error) {
	if data == nil {
		return nil, nil
	}

	name, _ := data["precision"].(string)
	precision, err := ParsePrecision(name)
	if err != nil {
		return nil, err
	}

	year, ok, err := intField(data, "year")
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, invalidDatef("missing year")
	}

	d := &ParsedDate{Year: year, Precision: precision, Confidence: 1.0}
	for _, f := range []struct {
		key string
		dst **int
	}{
		{"month", &d.Month},
		{"day", &d.Day},
		{"relative_days", &d.RelativeDays},
	} {
		v, ok, err := intField(data, f.key)
		if err != nil {
			return nil, err
		}
		if ok {
			*f.dst = intPtr(v)
		}
	}

	if d.RelativeTo, err = stringField(data, "relative_to"); err != nil {
		return nil, err
	}
	if d.Season, err = stringField(data, "season"); err != nil {
		return nil, err
	}

	if raw, ok := data["confidence"]; ok && raw != nil {
		c, err := toFloat(raw)
		if err != nil {
			return nil, fmt.Errorf("confidence: %w", err)
		}
		d.Confidence = c
	}

	if d.RangeStart, err = nestedField(data, "range_start"); err != nil {
		return nil, err
	}
	if d.RangeEnd, err = nestedField(data, "range_end"); err != nil {
		return nil, err
	}

	if err := d.Validate(); err != nil {
		return nil, err
	}
	return d, nil
}

func optionalInt(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}

func optionalString(v *string) any {
	if v == nil {
		return nil
	}
	return *v
}

func nestedJSON(d *ParsedDate) any {
	if d == nil {
		return nil
	}
	return ToJSON(d)
}

func intField(data map[string]any, key string) (int, bool, error) {
	raw, ok := data[key]
	if !ok || raw == nil {
		return 0, false, nil
	}
	f, err := toFloat(raw)
	if err != nil {
		return 0, false, fmt.Errorf("%s: %w", key, err)
	}
	if f != math.Trunc(f) {
		return 0, false, fmt.Errorf("%s: %v is not a whole number", key, raw)
	}
	return int(f), true, nil
}

func stringField(data map[string]any, key string) (*string, error) {
	raw, ok := data[key]
	if !ok || raw == nil {
		return nil, nil
	}
	s, ok := raw.(string)
	if !ok {
		return nil, fmt.Errorf("%s: expected string, got %T", key, raw)
	}
	return stringPtr(s), nil
}

func nestedField(data map[string]any, key string) (*ParsedDate, error) {
	raw, ok := data[key]
	if !ok || raw == nil {
		return nil, nil
	}
	child, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%s: expected object, got %T", key, raw)
	}
	d, err := FromJSON(child)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

func toFloat(v any) (float64, error) {
	switch n := v.(type) {
	case int:
		return float64(n), nil
	case int32:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case float32:
		return float64(n), nil
	case float64:
		return n, nil
	case json.Number:
		return n.Float64()
	}
	return 0, fmt.Errorf("expected number, got %T", v)
}
