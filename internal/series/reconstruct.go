package series

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"renewable-surplus/internal/model"
)

// shortLayout is the provider's period-start form without seconds.
const shortLayout = "2006-01-02T15:04Z"

// ParseResolution parses an ISO 8601 "PT<n>M" step. Only whole minutes are
// supported; hour, day and week forms are rejected.
func ParseResolution(s string) (time.Duration, error) {
	if !strings.HasPrefix(s, "PT") || !strings.HasSuffix(s, "M") {
		return 0, model.InvalidResolution(s)
	}
	digits := s[2 : len(s)-1]
	if digits == "" {
		return 0, model.InvalidResolution(s)
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return 0, model.InvalidResolution(s)
		}
	}
	mins, err := strconv.Atoi(digits)
	if err != nil || mins <= 0 {
		return 0, model.InvalidResolution(s)
	}
	return time.Duration(mins) * time.Minute, nil
}

// ParseTimestamp parses a period start. "2023-08-14T00:00Z" (no seconds) and
// full RFC 3339 are accepted; the result is in UTC.
func ParseTimestamp(s string) (time.Time, error) {
	if len(s) == len(shortLayout) && strings.HasSuffix(s, "Z") {
		t, err := time.Parse(shortLayout, s)
		if err != nil {
			return time.Time{}, model.InvalidTimestamp(s)
		}
		return t.UTC(), nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, model.InvalidTimestamp(s)
	}
	return t.UTC(), nil
}

// Reconstruct converts a period's positional points into absolute
// timestamps: start + resolution*(position-1). Order and wire positions are
// preserved.
func Reconstruct(p model.Period) ([]model.TimestampedPoint, error) {
	step, err := ParseResolution(p.Resolution)
	if err != nil {
		return nil, err
	}
	start, err := ParseTimestamp(p.TimeInterval.Start)
	if err != nil {
		return nil, err
	}

	// Offsets beyond what a time.Duration can hold are rejected rather than
	// wrapped.
	maxSteps := int64(math.MaxInt64 / step)
	out := make([]model.TimestampedPoint, 0, len(p.Points))
	for _, pt := range p.Points {
		n := int64(pt.Position) - 1
		if n > maxSteps || n < -maxSteps {
			return nil, model.InvalidTimestamp(fmt.Sprintf("%s + position %d at %s", p.TimeInterval.Start, pt.Position, p.Resolution))
		}
		out = append(out, model.TimestampedPoint{
			Timestamp: start.Add(step * time.Duration(n)),
			Position:  pt.Position,
			Quantity:  pt.Quantity,
		})
	}
	return out, nil
}
