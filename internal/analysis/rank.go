package analysis

import (
	"sort"

	"renewable-surplus/internal/model"
)

// TopSurplus returns up to n points sorted by descending surplus, earliest
// first among equals. The input is not modified.
func TopSurplus(points []model.SurplusPoint, n int) []model.SurplusPoint {
	out := make([]model.SurplusPoint, len(points))
	copy(out, points)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Surplus != out[j].Surplus {
			return out[i].Surplus > out[j].Surplus
		}
		return out[i].Timestamp.Before(out[j].Timestamp)
	})
	if n >= 0 && n < len(out) {
		out = out[:n]
	}
	return out
}
