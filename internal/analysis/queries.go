package analysis

import (
	"time"

	"renewable-surplus/internal/model"
)

// FindMax scans for the greatest surplus using a strict greater-than, so the
// first (earliest, for sorted input) of several equal maxima is kept. Ties on
// unsorted input are broken by timestamp.
func FindMax(points []model.SurplusPoint) (model.SurplusPoint, bool) {
	if len(points) == 0 {
		return model.SurplusPoint{}, false
	}
	best := points[0]
	for _, p := range points[1:] {
		if p.Surplus > best.Surplus ||
			(p.Surplus == best.Surplus && p.Timestamp.Before(best.Timestamp)) {
			best = p
		}
	}
	return best, true
}

// MinMaxPoints returns the full points holding the smallest and largest
// quantity. The earliest point wins a tie.
func MinMaxPoints(points []model.TimestampedPoint) (lo, hi model.TimestampedPoint, ok bool) {
	if len(points) == 0 {
		return lo, hi, false
	}
	lo, hi = points[0], points[0]
	for _, p := range points[1:] {
		if p.Quantity < lo.Quantity || (p.Quantity == lo.Quantity && p.Timestamp.Before(lo.Timestamp)) {
			lo = p
		}
		if p.Quantity > hi.Quantity || (p.Quantity == hi.Quantity && p.Timestamp.Before(hi.Timestamp)) {
			hi = p
		}
	}
	return lo, hi, true
}

// FilterNight keeps points between 22:00 and 06:00 UTC.
func FilterNight(points []model.SurplusPoint) []model.SurplusPoint {
	return FilterWindow(points, NightWindow{})
}

// FilterNextHours keeps points in [now, now+hours].
func FilterNextHours(points []model.SurplusPoint, now time.Time, hours int) []model.SurplusPoint {
	return FilterBetween(points, now, now.Add(time.Duration(hours)*time.Hour))
}

// FilterBetween keeps points whose timestamp lies in the closed [from, to].
func FilterBetween(points []model.SurplusPoint, from, to time.Time) []model.SurplusPoint {
	out := make([]model.SurplusPoint, 0, len(points))
	for _, p := range points {
		if p.Timestamp.Before(from) || p.Timestamp.After(to) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// FilterExcess keeps points whose surplus is positive and at least minPct
// percent of generation.
func FilterExcess(points []model.SurplusPoint, minPct float64) []model.SurplusPoint {
	out := make([]model.SurplusPoint, 0, len(points))
	for _, p := range points {
		if p.HasExcess() && p.Percentage() > minPct {
			out = append(out, p)
		}
	}
	return out
}
