package model

import "fmt"

// ErrorKind discriminates failures of the series engine.
// Keep these values stable; they are surfaced as API error codes.
type ErrorKind string

const (
	KindInvalidResolution ErrorKind = "INVALID_RESOLUTION"
	KindInvalidTimestamp  ErrorKind = "INVALID_TIMESTAMP"
	KindInvalidResponse   ErrorKind = "INVALID_RESPONSE"
)

// SeriesError carries the kind of failure plus the text needed to explain
// it (the offending resolution, timestamp, or the raw upstream body).
type SeriesError struct {
	Kind   ErrorKind
	Detail string
}

func (e *SeriesError) Error() string {
	switch e.Kind {
	case KindInvalidResolution:
		return fmt.Sprintf("invalid resolution: %q", e.Detail)
	case KindInvalidTimestamp:
		return fmt.Sprintf("invalid timestamp: %q", e.Detail)
	default:
		return fmt.Sprintf("invalid response: %s", e.Detail)
	}
}

// Is reports a match for any SeriesError of the same kind, so the sentinels
// below work with errors.Is regardless of Detail.
func (e *SeriesError) Is(target error) bool {
	t, ok := target.(*SeriesError)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

var (
	ErrInvalidResolution = &SeriesError{Kind: KindInvalidResolution}
	ErrInvalidTimestamp  = &SeriesError{Kind: KindInvalidTimestamp}
	ErrInvalidResponse   = &SeriesError{Kind: KindInvalidResponse}
)

func InvalidResolution(s string) error {
	return &SeriesError{Kind: KindInvalidResolution, Detail: s}
}

func InvalidTimestamp(s string) error {
	return &SeriesError{Kind: KindInvalidTimestamp, Detail: s}
}

func InvalidResponse(s string) error {
	return &SeriesError{Kind: KindInvalidResponse, Detail: s}
}
