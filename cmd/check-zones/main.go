package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"renewable-surplus/internal/config"
	"renewable-surplus/internal/data"
	"renewable-surplus/internal/logger"
	"renewable-surplus/internal/model"
	"renewable-surplus/internal/series"
)

func main() {
	var (
		cfgPath     = flag.String("config", os.Getenv("CONFIG_FILE"), "Path to YAML config (optional; env vars override)")
		outputPath  = flag.String("output", "", "Output file path (default: availability_file from config)")
		days        = flag.Int("days", 1, "Number of days to look back")
		concurrency = flag.Int("concurrency", 4, "Parallel requests")
	)
	flag.Parse()
	if err := validateFlags(*days, *concurrency); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	if *outputPath == "" {
		*outputPath = cfg.AvailabilityFile
	}

	log, err := logger.New(cfg.Logging.Level, true)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	client := data.NewEntsoeClient(cfg.Entsoe.APIKey, cfg.Entsoe.BaseURL,
		data.WithLogger(log.Named("entsoe").Sugar()),
		data.WithTimeout(cfg.Entsoe.Timeout),
	)

	end := time.Now().UTC().Truncate(time.Hour)
	start := end.AddDate(0, 0, -*days)

	countries := data.ListCountries()
	fmt.Printf("Checking %d countries from %s to %s...\n",
		len(countries), start.Format("2006-01-02 15:04"), end.Format("2006-01-02 15:04"))

	zones := checkZones(context.Background(), client, countries, start, end, *concurrency)

	report := &data.AvailabilityReport{
		DocumentType: data.DocumentTypeLoadForecast,
		PeriodStart:  data.FormatPeriod(start),
		PeriodEnd:    data.FormatPeriod(end),
		UpdatedAt:    time.Now().UTC().Format(time.RFC3339),
		Zones:        zones,
	}
	if err := data.SaveAvailability(report, *outputPath); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to save availability report: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Successfully checked %d/%d zones with data\n", len(report.AvailableCountries()), len(zones))
	fmt.Printf("Saved availability report to %s\n", *outputPath)
}

// validateFlags rejects values errgroup.SetLimit or the look-back window
// cannot work with. A zero limit blocks every goroutine forever.
func validateFlags(days, concurrency int) error {
	if days < 1 {
		return fmt.Errorf("-days must be at least 1, got %d", days)
	}
	if concurrency < 1 {
		return fmt.Errorf("-concurrency must be at least 1, got %d", concurrency)
	}
	return nil
}

// checkZones fetches the load forecast of each country's primary zone. A
// failing zone is recorded, not fatal.
func checkZones(ctx context.Context, client *data.EntsoeClient, countries []string, start, end time.Time, concurrency int) []data.ZoneAvailability {
	out := make([]data.ZoneAvailability, len(countries))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i, country := range countries {
		i := i
		zone, _ := data.PrimaryZone(country)
		g.Go(func() error {
			out[i] = checkZone(gctx, client, zone, start, end)
			if out[i].Available() {
				fmt.Printf("  ✓ %s: %d points (%s)\n", zone, out[i].Points, out[i].Resolution)
			} else {
				fmt.Printf("  ⚠️  %s: %s\n", zone, out[i].Error)
			}
			return nil
		})
	}
	_ = g.Wait()
	return out
}

func checkZone(ctx context.Context, client *data.EntsoeClient, zone data.BiddingZone, start, end time.Time) data.ZoneAvailability {
	res := data.ZoneAvailability{
		Country:   zone.Country,
		Code:      zone.Code,
		Name:      zone.Name,
		CheckedAt: time.Now().UTC().Format(time.RFC3339),
	}
	doc, err := client.FetchLoadForecast(ctx, zone.Code, data.FormatPeriod(start), data.FormatPeriod(end))
	if err != nil {
		res.Error = describe(err)
		return res
	}
	points, err := series.Aggregate(doc)
	if err != nil {
		res.Error = err.Error()
		return res
	}
	res.Points = len(points)
	if len(doc.TimeSeries) > 0 {
		res.Resolution = doc.TimeSeries[0].Period.Resolution
	}
	if res.Points == 0 {
		res.Error = "no points in response"
	}
	return res
}

func describe(err error) string {
	var se *model.SeriesError
	if errors.As(err, &se) {
		if reason, ok := data.ReasonText(se.Detail); ok {
			return reason
		}
	}
	return err.Error()
}
