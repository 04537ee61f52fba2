package forecast

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingElement marks a document that lacks part of the
	// weatherdata > product > time > location structure.
	ErrMissingElement = errors.New("missing element")
	// ErrNoTimeNodes marks a product without any forecast time nodes.
	ErrNoTimeNodes = errors.New("product has no time nodes")
	// ErrBadWindow marks a time node whose from/to attributes are absent,
	// unparsable or out of order.
	ErrBadWindow = errors.New("invalid time window")
)

// ParseError reports that a forecast payload could not be turned into a
// document. Err keeps the underlying parser or structure diagnostic.
type ParseError struct {
	Msg string
	Err error
}

func (e *ParseError) Error() string {
	if e.Err == nil {
		return "forecast: " + e.Msg
	}
	return fmt.Sprintf("forecast: %s: %v", e.Msg, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// InvalidTimeError reports a lookup instant that cannot be read as a
// calendar time.
type InvalidTimeError struct {
	Input string
}

func (e *InvalidTimeError) Error() string {
	if e.Input == "" {
		return "forecast: invalid date provided for weather lookup"
	}
	return fmt.Sprintf("forecast: invalid date provided for weather lookup: %q", e.Input)
}
