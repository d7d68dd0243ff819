package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"renewable-surplus/internal/analysis"
	"renewable-surplus/internal/data"
	"renewable-surplus/internal/forecast"
	"renewable-surplus/internal/logger"
	"renewable-surplus/internal/model"
	"renewable-surplus/internal/report"
)

// Demo:
// - Fetch (or load from disk) Belgium's generation and load forecasts
// - Find the hour of peak renewable surplus
// - Print the series overview, the >10% surplus periods and a CSV preview
func main() {
	zone := flag.String("zone", "10YBE----------2", "EIC bidding zone code")
	start := flag.String("start", "202308152200", "Period start (YYYYMMDDHHmm, UTC)")
	end := flag.String("end", "202308162200", "Period end (YYYYMMDDHHmm, UTC)")
	genFile := flag.String("gen-file", "", "Saved generation forecast XML (skips the API)")
	loadFile := flag.String("load-file", "", "Saved load forecast XML (skips the API)")
	outCSV := flag.String("out", "", "Optional path to write the full series CSV")
	flag.Parse()

	series, err := loadSeries(*zone, *start, *end, *genFile, *loadFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}

	fmt.Println("=== Finding Maximum Renewable Energy Surplus ===")
	fmt.Println()
	best, err := analysis.MaxSurplus(series)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
	report.PrintPeak(os.Stdout, best)

	fmt.Println("\n=== Full Renewable Surplus Time Series ===")
	fmt.Println()
	report.PrintSeries(os.Stdout, series)

	if *outCSV != "" {
		if err := report.WriteSurplusCSVFile(*outCSV, series); err != nil {
			fmt.Fprintln(os.Stderr, "error:", err)
			os.Exit(1)
		}
		fmt.Printf("\nWrote %d points to %s\n", len(series), *outCSV)
	}
}

func loadSeries(zone, start, end, genFile, loadFile string) ([]model.SurplusPoint, error) {
	if genFile != "" && loadFile != "" {
		gen, err := data.LoadDocumentXML(genFile)
		if err != nil {
			return nil, err
		}
		load, err := data.LoadDocumentXML(loadFile)
		if err != nil {
			return nil, err
		}
		return analysis.SurplusSeries(gen, load)
	}

	apiKey := os.Getenv("ENTSOE_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("ENTSOE_API_KEY environment variable not set (or pass -gen-file and -load-file)")
	}
	from, err := data.ParsePeriod(start)
	if err != nil {
		return nil, err
	}
	to, err := data.ParsePeriod(end)
	if err != nil {
		return nil, err
	}

	log, err := logger.New("warn", true)
	if err != nil {
		return nil, err
	}
	defer func() { _ = log.Sync() }()

	client := data.NewEntsoeClient(apiKey, os.Getenv("ENTSOE_BASE_URL"), data.WithLogger(log.Named("entsoe").Sugar()))
	svc := forecast.NewService(client, forecast.WithLogger(log.Named("forecast").Sugar()))

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	return svc.SurplusSeries(ctx, zone, from, to)
}
