package report

import (
	"fmt"
	"io"

	"renewable-surplus/internal/analysis"
	"renewable-surplus/internal/model"
)

const (
	overviewHours   = 10
	highSurplusPct  = 10.0
	highSurplusRows = 5
	csvPreviewRows  = 24
)

// PrintPeak prints the single best hour.
func PrintPeak(w io.Writer, p model.SurplusPoint) {
	fmt.Fprintln(w, "Peak Renewable Energy Availability:")
	fmt.Fprintf(w, "  Time: %s\n", p.Timestamp.UTC().Format("2006-01-02 15:04:05 UTC"))
	fmt.Fprintf(w, "  Generation: %.2f MW\n", p.Generation)
	fmt.Fprintf(w, "  Load: %.2f MW\n", p.Load)
	fmt.Fprintf(w, "  Surplus: %.2f MW\n", p.Surplus)
	fmt.Fprintf(w, "  Surplus %%: %.2f%%\n", p.Percentage())
}

// PrintSeries prints an overview of the first hours, the high-surplus
// periods and a CSV preview.
func PrintSeries(w io.Writer, points []model.SurplusPoint) {
	fmt.Fprintf(w, "Total data points: %d\n", len(points))
	fmt.Fprintf(w, "\nFirst %d hours:\n", overviewHours)
	for _, p := range head(points, overviewHours) {
		indicator := "✗"
		if p.HasExcess() {
			indicator = "✓"
		}
		fmt.Fprintf(w, "  %s %s | Gen: %7.2f MW | Load: %7.2f MW | Surplus: %+7.2f MW\n",
			p.Timestamp.UTC().Format("2006-01-02 15:04"), indicator, p.Generation, p.Load, p.Surplus)
	}

	high := analysis.FilterExcess(points, highSurplusPct)
	fmt.Fprintf(w, "\n=== Periods with >%.0f%% Renewable Surplus ===\n(%d hours)\n", highSurplusPct, len(high))
	for _, p := range head(high, highSurplusRows) {
		fmt.Fprintf(w, "  %s | Surplus: %.2f MW (%.1f%%)\n",
			p.Timestamp.UTC().Format("2006-01-02 15:04"), p.Surplus, p.Percentage())
	}

	fmt.Fprintln(w, "\n=== CSV Export ===")
	_ = WriteSurplusCSV(w, head(points, csvPreviewRows))
}

// PrintForecastSummary prints one raw forecast: wire-point figures first,
// then the per-instant extremes.
func PrintForecastSummary(w io.Writer, label string, s analysis.ForecastSummary) {
	fmt.Fprintf(w, "%s: %d raw points | avg %.2f MW | raw min %.2f MW | raw max %.2f MW\n",
		label, s.RawPoints, s.RawAverage, s.RawMin, s.RawMax)
	if s.Lowest == nil || s.Highest == nil {
		fmt.Fprintln(w, "  no data")
		return
	}
	fmt.Fprintf(w, "  lowest %.2f MW at %s | highest %.2f MW at %s\n",
		s.Lowest.MW, s.Lowest.Timestamp.UTC().Format("2006-01-02 15:04"),
		s.Highest.MW, s.Highest.Timestamp.UTC().Format("2006-01-02 15:04"))
}

func head(points []model.SurplusPoint, n int) []model.SurplusPoint {
	if len(points) < n {
		return points
	}
	return points[:n]
}
