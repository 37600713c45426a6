package dateparse

import (
	"errors"
	"fmt"
)

// Error kinds. Match them with errors.Is; the concrete error usually carries
// more context (the offending field, the input text).
var (
	// ErrConfig reports a malformed calendar definition.
	ErrConfig = errors.New("invalid calendar configuration")

	// ErrEmptyInput reports a date string that is empty after trimming.
	ErrEmptyInput = errors.New("empty date string")

	// ErrUnparseable reports text that no pattern could turn into a date.
	ErrUnparseable = errors.New("unparseable date")

	// ErrInvalidDate reports a month or day outside the calendar's bounds,
	// or a ParsedDate that breaks its own precision invariants.
	ErrInvalidDate = errors.New("invalid date")

	// ErrUnknownPrecision reports an unrecognized precision name.
	ErrUnknownPrecision = errors.New("unknown precision")
)

// ParseError is returned by Parser.Parse. Its message always names the
// original input so it can be shown next to the field the user typed in.
// It matches ErrUnparseable, and ErrEmptyInput when the input was blank.
type ParseError struct {
	// Input is the text exactly as passed to Parse.
	Input string

	// Err is the last per-pattern failure, or the unexpected failure that
	// aborted parsing. Nil when no pattern matched at all.
	Err error

	empty      bool
	unexpected bool
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e.unexpected {
		return fmt.Sprintf("Failed to parse '%s': %v", e.Input, e.Err)
	}
	return "Could not parse date: " + e.Input
}

// Is lets errors.Is match the error kinds this ParseError stands for.
func (e *ParseError) Is(target error) bool {
	switch target {
	case ErrUnparseable:
		return true
	case ErrEmptyInput:
		return e.empty
	}
	return false
}

// Unexpected reports whether parsing was aborted by a failure other than a
// pattern not applying, such as a panicking extractor.
func (e *ParseError) Unexpected() bool {
	return e.unexpected
}

// Unwrap returns the underlying per-pattern failure.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// configErrorf builds an ErrConfig-wrapping error.
func configErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrConfig, fmt.Sprintf(format, args...))
}

// invalidDatef builds an ErrInvalidDate-wrapping error.
func invalidDatef(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidDate, fmt.Sprintf(format, args...))
}

// noMatchf reports that a pattern matched textually but its tokens did not
// yield a date. The parser treats it like a regex miss.
func noMatchf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrUnparseable, fmt.Sprintf(format, args...))
}
