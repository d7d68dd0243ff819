package report

import (
	"encoding/csv"
	"io"
	"os"

	"github.com/shopspring/decimal"

	"renewable-surplus/internal/model"
)

var csvHeader = []string{
	"timestamp",
	"generation_mw",
	"load_mw",
	"surplus_mw",
	"surplus_pct",
}

// WriteSurplusCSV writes one row per point: RFC 3339 UTC timestamp and
// values rounded to two decimals.
func WriteSurplusCSV(out io.Writer, points []model.SurplusPoint) error {
	w := csv.NewWriter(out)
	if err := w.Write(csvHeader); err != nil {
		return err
	}
	for _, p := range points {
		row := []string{
			fmtTime(p.Timestamp),
			fmtFixed(p.Generation),
			fmtFixed(p.Load),
			fmtFixed(p.Surplus),
			fmtFixed(p.Percentage()),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func WriteSurplusCSVFile(path string, points []model.SurplusPoint) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteSurplusCSV(f, points); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func fmtFixed(x float64) string {
	return decimal.NewFromFloat(x).StringFixed(2)
}
