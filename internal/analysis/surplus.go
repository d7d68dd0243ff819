package analysis

import (
	"sort"
	"time"

	"renewable-surplus/internal/model"
	"renewable-surplus/internal/series"
)

// JoinSurplus matches generation and load on exact timestamp equality and
// returns generation minus load for every shared instant, sorted by time.
// Instants present in only one input are dropped; there is no outer join.
func JoinSurplus(generation, load []model.TimestampedPoint) []model.SurplusPoint {
	loadAt := make(map[time.Time]float64, len(load))
	for _, p := range load {
		loadAt[p.Timestamp.UTC()] = p.Quantity
	}

	out := make([]model.SurplusPoint, 0, len(generation))
	for _, g := range generation {
		ts := g.Timestamp.UTC()
		l, ok := loadAt[ts]
		if !ok {
			continue
		}
		out = append(out, model.NewSurplusPoint(ts, g.Quantity, l))
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.Before(out[j].Timestamp)
	})
	return out
}

// MaxSurplus returns the point with the greatest surplus. On an exact tie
// the earliest timestamp wins. An empty series is an InvalidResponse.
func MaxSurplus(points []model.SurplusPoint) (model.SurplusPoint, error) {
	best, ok := FindMax(points)
	if !ok {
		return model.SurplusPoint{}, model.InvalidResponse("no matching data points found")
	}
	return best, nil
}

func JoinSurplusMax(generation, load []model.TimestampedPoint) (model.SurplusPoint, error) {
	return MaxSurplus(JoinSurplus(generation, load))
}

// SurplusSeries aggregates both documents and joins them.
func SurplusSeries(genDoc, loadDoc *model.MarketDocument) ([]model.SurplusPoint, error) {
	gen, err := series.Aggregate(genDoc)
	if err != nil {
		return nil, err
	}
	load, err := series.Aggregate(loadDoc)
	if err != nil {
		return nil, err
	}
	return JoinSurplus(gen, load), nil
}

func MaxSurplusFromDocuments(genDoc, loadDoc *model.MarketDocument) (model.SurplusPoint, error) {
	joined, err := SurplusSeries(genDoc, loadDoc)
	if err != nil {
		return model.SurplusPoint{}, err
	}
	return MaxSurplus(joined)
}
