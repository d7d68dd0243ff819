package report

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"renewable-surplus/internal/analysis"
	"renewable-surplus/internal/model"
)

// BuildSurplusXLSX renders a workbook with a summary sheet and the full series.
func BuildSurplusXLSX(meta Meta, points []model.SurplusPoint) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	summarySheet := "summary"
	seriesSheet := "series"
	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(seriesSheet); err != nil {
		return nil, err
	}

	sum := analysis.SummarizeSurplus(points)
	rows := [][]any{
		{meta.Title()},
		{},
		{"Country", meta.CountryCode},
		{"Zone", meta.ZoneCode},
		{"Period start", fmtTime(meta.Start)},
		{"Period end", fmtTime(meta.End)},
		{"Generated", fmtTime(meta.GeneratedAt)},
		{"Data points", sum.Count},
		{"Hours with excess", sum.ExcessCount},
		{"Max surplus (MW)", sum.Surplus.Max},
		{"Min surplus (MW)", sum.Surplus.Min},
		{"Mean surplus (MW)", sum.Surplus.Mean},
		{"Mean generation (MW)", sum.Generation.Mean},
		{"Mean load (MW)", sum.Load.Mean},
		{"Mean surplus %", sum.MeanPercent},
	}
	if best, ok := analysis.FindMax(points); ok {
		rows = append(rows, []any{"Peak at", fmtTime(best.Timestamp)})
	}
	for i, r := range rows {
		if len(r) == 0 {
			continue
		}
		cell := fmt.Sprintf("A%d", i+1)
		if err := f.SetSheetRow(summarySheet, cell, &r); err != nil {
			return nil, err
		}
	}

	header := []any{"Timestamp (UTC)", "Generation (MW)", "Load (MW)", "Surplus (MW)", "Surplus %", "Excess"}
	if err := f.SetSheetRow(seriesSheet, "A1", &header); err != nil {
		return nil, err
	}
	for i, p := range points {
		row := []any{fmtTime(p.Timestamp), p.Generation, p.Load, p.Surplus, p.Percentage(), p.HasExcess()}
		if err := f.SetSheetRow(seriesSheet, fmt.Sprintf("A%d", i+2), &row); err != nil {
			return nil, err
		}
	}
	_ = f.SetColWidth(seriesSheet, "A", "A", 22)
	_ = f.SetColWidth(summarySheet, "A", "A", 24)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
