package report

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"

	"renewable-surplus/internal/analysis"
	"renewable-surplus/internal/model"
)

// BuildSurplusPDF renders a summary header followed by the series table.
func BuildSurplusPDF(meta Meta, points []model.SurplusPoint) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Arial", "", 12)
	pdf.AddPage()

	pdf.Cell(0, 8, meta.Title())
	pdf.Ln(10)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Zone: %s", meta.ZoneCode))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Period: %s - %s", fmtTime(meta.Start), fmtTime(meta.End)))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Generated: %s", fmtTime(meta.GeneratedAt)))
	pdf.Ln(5)

	sum := analysis.SummarizeSurplus(points)
	pdf.Ln(4)
	pdf.Cell(0, 6, fmt.Sprintf("Data points: %d (%d with excess)", sum.Count, sum.ExcessCount))
	pdf.Ln(5)
	if best, ok := analysis.FindMax(points); ok {
		pdf.Cell(0, 6, fmt.Sprintf("Peak surplus: %.2f MW at %s (%.2f%%)",
			best.Surplus, best.Timestamp.UTC().Format("2006-01-02 15:04 UTC"), best.Percentage()))
		pdf.Ln(5)
	}
	pdf.Ln(3)

	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(45, 6, "Time (UTC)", "1", 0, "C", false, 0, "")
	pdf.CellFormat(35, 6, "Generation (MW)", "1", 0, "C", false, 0, "")
	pdf.CellFormat(35, 6, "Load (MW)", "1", 0, "C", false, 0, "")
	pdf.CellFormat(35, 6, "Surplus (MW)", "1", 0, "C", false, 0, "")
	pdf.CellFormat(25, 6, "Surplus %", "1", 0, "C", false, 0, "")
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 10)
	for _, p := range points {
		pdf.CellFormat(45, 6, p.Timestamp.UTC().Format("2006-01-02 15:04"), "1", 0, "C", false, 0, "")
		pdf.CellFormat(35, 6, fmtFixed(p.Generation), "1", 0, "R", false, 0, "")
		pdf.CellFormat(35, 6, fmtFixed(p.Load), "1", 0, "R", false, 0, "")
		pdf.CellFormat(35, 6, fmtFixed(p.Surplus), "1", 0, "R", false, 0, "")
		pdf.CellFormat(25, 6, fmtFixed(p.Percentage()), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
