package model

import "time"

// TimestampedPoint is one reconstructed point with an absolute timestamp.
// After aggregation Position is the 1-based index in the merged series, not
// the wire position.
type TimestampedPoint struct {
	Timestamp time.Time
	Position  int
	Quantity  float64
}

// SurplusPoint is generation and load matched on the same instant.
// Quantities are in MW as delivered by the provider; no unit conversion.
type SurplusPoint struct {
	Timestamp  time.Time
	Generation float64
	Load       float64
	Surplus    float64 // Generation - Load
}

func NewSurplusPoint(ts time.Time, generation, load float64) SurplusPoint {
	return SurplusPoint{
		Timestamp:  ts,
		Generation: generation,
		Load:       load,
		Surplus:    generation - load,
	}
}

// Percentage returns the surplus as a percentage of generation.
// Only exact-zero generation is guarded; tiny generation values produce
// large percentages.
func (s SurplusPoint) Percentage() float64 {
	if s.Generation == 0 {
		return 0
	}
	return (s.Surplus / s.Generation) * 100
}

func (s SurplusPoint) HasExcess() bool {
	return s.Surplus > 0
}

// RenewablePenetration is generation as a percentage of load.
func (s SurplusPoint) RenewablePenetration() float64 {
	if s.Load == 0 {
		return 0
	}
	return (s.Generation / s.Load) * 100
}
