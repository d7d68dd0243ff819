package analysis

import (
	"time"

	"renewable-surplus/internal/model"
	"renewable-surplus/internal/series"
)

// Extreme is one aggregated instant at a series minimum or maximum.
type Extreme struct {
	Timestamp time.Time `json:"timestamp"`
	MW        float64   `json:"mw"`
}

// ForecastSummary describes a single forecast document before it is joined.
// The Raw fields run over wire points of every sub-series and ignore
// timestamps; Aggregated, Lowest and Highest run over the per-instant sums.
type ForecastSummary struct {
	RawPoints  int      `json:"raw_points"`
	RawTotal   float64  `json:"raw_total_mw"`
	RawAverage float64  `json:"raw_average_mw"`
	RawMin     float64  `json:"raw_min_mw"`
	RawMax     float64  `json:"raw_max_mw"`
	Aggregated Stats    `json:"aggregated"`
	Lowest     *Extreme `json:"lowest,omitempty"`
	Highest    *Extreme `json:"highest,omitempty"`
}

// SummarizeForecast fails only when the document's periods cannot be
// reconstructed. An empty document gives a zero summary.
func SummarizeForecast(doc *model.MarketDocument) (ForecastSummary, error) {
	out := ForecastSummary{
		RawPoints:  doc.PointCount(),
		RawTotal:   doc.TotalQuantity(),
		RawAverage: doc.AverageQuantity(),
	}
	if lo, hi, ok := doc.MinMax(); ok {
		out.RawMin, out.RawMax = lo, hi
	}
	points, err := series.Aggregate(doc)
	if err != nil {
		return ForecastSummary{}, err
	}
	out.Aggregated = Summarize(Quantities(points))
	if lo, hi, ok := MinMaxPoints(points); ok {
		out.Lowest = &Extreme{Timestamp: lo.Timestamp, MW: lo.Quantity}
		out.Highest = &Extreme{Timestamp: hi.Timestamp, MW: hi.Quantity}
	}
	return out, nil
}
