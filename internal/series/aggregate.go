package series

import (
	"sort"
	"time"

	"renewable-surplus/internal/model"
)

// Aggregate merges every sub-series of a document into one chronological
// series. Quantities that land on the same instant are summed and positions
// are renumbered from 1 in timestamp order.
//
// A malformed period in any sub-series fails the whole document.
func Aggregate(doc *model.MarketDocument) ([]model.TimestampedPoint, error) {
	if doc == nil {
		return []model.TimestampedPoint{}, nil
	}

	byTime := make(map[time.Time]float64)
	for i := range doc.TimeSeries {
		points, err := Reconstruct(doc.TimeSeries[i].Period)
		if err != nil {
			return nil, err
		}
		for _, p := range points {
			byTime[p.Timestamp] += p.Quantity
		}
	}

	out := make([]model.TimestampedPoint, 0, len(byTime))
	for ts, qty := range byTime {
		out = append(out, model.TimestampedPoint{Timestamp: ts, Quantity: qty})
	}
	// Map iteration order is random; sorted output is a postcondition.
	sort.Slice(out, func(i, j int) bool {
		return out[i].Timestamp.Before(out[j].Timestamp)
	})
	for i := range out {
		out[i].Position = i + 1
	}
	return out, nil
}
