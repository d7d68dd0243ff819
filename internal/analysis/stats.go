package analysis

import (
	"math"
	"sort"

	"renewable-surplus/internal/model"
)

// Stats summarises a value series.
type Stats struct {
	Count int     `json:"count"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Sum   float64 `json:"sum"`
	Mean  float64 `json:"mean"`
	P05   float64 `json:"p05"`
	P95   float64 `json:"p95"`
}

// SurplusSummary describes a joined series over its whole span.
type SurplusSummary struct {
	Count       int     `json:"count"`
	ExcessCount int     `json:"excess_count"`
	Generation  Stats   `json:"generation"`
	Load        Stats   `json:"load"`
	Surplus     Stats   `json:"surplus"`
	MeanPercent float64 `json:"mean_surplus_percentage"`
}

// Summarize returns zero Stats for an empty input.
func Summarize(values []float64) Stats {
	s := Stats{}
	if len(values) == 0 {
		return s
	}
	s.Count = len(values)

	minv := math.Inf(1)
	maxv := math.Inf(-1)
	sorted := make([]float64, 0, len(values))
	for _, v := range values {
		sorted = append(sorted, v)
		s.Sum += v
		if v < minv {
			minv = v
		}
		if v > maxv {
			maxv = v
		}
	}
	sort.Float64s(sorted)
	s.Min = minv
	s.Max = maxv
	s.Mean = s.Sum / float64(len(values))
	s.P05 = percentileSorted(sorted, 0.05)
	s.P95 = percentileSorted(sorted, 0.95)
	return s
}

func SummarizeSurplus(points []model.SurplusPoint) SurplusSummary {
	gen := make([]float64, 0, len(points))
	load := make([]float64, 0, len(points))
	surplus := make([]float64, 0, len(points))
	out := SurplusSummary{Count: len(points)}
	pctSum := 0.0
	for _, p := range points {
		gen = append(gen, p.Generation)
		load = append(load, p.Load)
		surplus = append(surplus, p.Surplus)
		pctSum += p.Percentage()
		if p.HasExcess() {
			out.ExcessCount++
		}
	}
	out.Generation = Summarize(gen)
	out.Load = Summarize(load)
	out.Surplus = Summarize(surplus)
	if len(points) > 0 {
		out.MeanPercent = pctSum / float64(len(points))
	}
	return out
}

// Quantities extracts the quantity column of a reconstructed series.
func Quantities(points []model.TimestampedPoint) []float64 {
	out := make([]float64, len(points))
	for i, p := range points {
		out[i] = p.Quantity
	}
	return out
}

func percentileSorted(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	// Linear interpolation between order stats.
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}
