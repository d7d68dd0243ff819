package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"renewable-surplus/internal/analysis"
	"renewable-surplus/internal/data"
	"renewable-surplus/internal/forecast"
	"renewable-surplus/internal/logger"
	"renewable-surplus/internal/model"
)

// source selects where a command reads its two documents from.
type source struct {
	Country  string
	Zone     string
	Start    string
	End      string
	GenFile  string
	LoadFile string
}

func addSourceFlags(cmd *cobra.Command, s *source) {
	f := cmd.Flags()
	f.StringVar(&s.Country, "country", "", "Two-letter country code; uses its primary bidding zone")
	f.StringVar(&s.Zone, "zone", "", "EIC bidding zone code (overrides --country)")
	f.StringVar(&s.Start, "start", "", "Period start YYYYMMDDHHmm UTC (default: now)")
	f.StringVar(&s.End, "end", "", "Period end YYYYMMDDHHmm UTC (default: start + 24h)")
	f.StringVar(&s.GenFile, "gen-file", "", "Saved generation forecast XML (offline mode)")
	f.StringVar(&s.LoadFile, "load-file", "", "Saved load forecast XML (offline mode)")
}

func (s source) offline() bool {
	return s.GenFile != "" || s.LoadFile != ""
}

// resolvedSource is what a command reports about the data it used.
type resolvedSource struct {
	Zone  data.BiddingZone
	Start time.Time
	End   time.Time

	Generation *model.MarketDocument
	Load       *model.MarketDocument
}

func (s source) resolve() (resolvedSource, error) {
	var r resolvedSource
	switch {
	case s.Zone != "":
		z, ok := data.ZoneByCode(s.Zone)
		if !ok {
			z = data.BiddingZone{Code: s.Zone, Name: s.Zone}
		}
		r.Zone = z
	case s.Country != "":
		z, ok := data.PrimaryZone(s.Country)
		if !ok {
			return r, fmt.Errorf("unknown country code %q (see 'surplus countries')", s.Country)
		}
		r.Zone = z
	default:
		return r, fmt.Errorf("one of --country, --zone or --gen-file/--load-file is required")
	}

	r.Start = time.Now().UTC().Truncate(time.Hour)
	if s.Start != "" {
		t, err := data.ParsePeriod(s.Start)
		if err != nil {
			return r, err
		}
		r.Start = t
	}
	r.End = r.Start.Add(24 * time.Hour)
	if s.End != "" {
		t, err := data.ParsePeriod(s.End)
		if err != nil {
			return r, err
		}
		r.End = t
	}
	if !r.Start.Before(r.End) {
		return r, fmt.Errorf("--start must be before --end")
	}
	return r, nil
}

// load returns the surplus series for the selected source.
func (s source) load(ctx context.Context, v *viper.Viper) ([]model.SurplusPoint, resolvedSource, error) {
	log, err := logger.New(v.GetString("log-level"), true)
	if err != nil {
		return nil, resolvedSource{}, err
	}
	defer func() { _ = log.Sync() }()

	if s.offline() {
		return s.loadFiles()
	}

	r, err := s.resolve()
	if err != nil {
		return nil, r, err
	}
	svc := newService(v, log)
	pair, points, err := svc.SeriesWithDocuments(ctx, r.Zone.Code, r.Start, r.End)
	if err != nil {
		return nil, r, err
	}
	r.Generation, r.Load = pair.Generation, pair.Load
	return points, r, nil
}

func (s source) loadFiles() ([]model.SurplusPoint, resolvedSource, error) {
	var r resolvedSource
	if s.GenFile == "" || s.LoadFile == "" {
		return nil, r, fmt.Errorf("--gen-file and --load-file must be given together")
	}
	gen, err := data.LoadDocumentXML(s.GenFile)
	if err != nil {
		return nil, r, err
	}
	load, err := data.LoadDocumentXML(s.LoadFile)
	if err != nil {
		return nil, r, err
	}
	points, err := analysis.SurplusSeries(gen, load)
	if err != nil {
		return nil, r, err
	}

	domain := ""
	if len(load.TimeSeries) > 0 {
		domain = load.TimeSeries[0].Domain()
	}
	r.Generation, r.Load = gen, load
	r.Zone = data.BiddingZone{Code: domain, Name: domain}
	if z, ok := data.ZoneByCode(domain); ok {
		r.Zone = z
	}
	if len(points) > 0 {
		r.Start = points[0].Timestamp
		r.End = points[len(points)-1].Timestamp
	}
	return points, r, nil
}

func newService(v *viper.Viper, log *zap.Logger) *forecast.Service {
	client := data.NewEntsoeClient(
		strings.TrimSpace(v.GetString("api-key")),
		v.GetString("base-url"),
		data.WithLogger(log.Named("entsoe").Sugar()),
	)
	return forecast.NewService(client, forecast.WithLogger(log.Named("forecast").Sugar()))
}
