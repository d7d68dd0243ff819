package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"renewable-surplus/internal/analysis"
	"renewable-surplus/internal/data"
	"renewable-surplus/internal/model"
	"renewable-surplus/internal/report"
)

func newMaxCmd(v *viper.Viper) *cobra.Command {
	var (
		src   source
		night bool
	)
	cmd := &cobra.Command{
		Use:   "max",
		Short: "Print the hour with the greatest renewable surplus",
		RunE: func(cmd *cobra.Command, args []string) error {
			points, r, err := src.load(cmd.Context(), v)
			if err != nil {
				return err
			}
			if night {
				points = analysis.FilterNight(points)
			}
			best, err := analysis.MaxSurplus(points)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Zone: %s [%s]\n\n", r.Zone, r.Zone.Code)
			report.PrintPeak(out, best)
			return nil
		},
	}
	addSourceFlags(cmd, &src)
	cmd.Flags().BoolVar(&night, "night", false, "Only consider night hours (22:00-06:00 UTC)")
	return cmd
}

func newSeriesCmd(v *viper.Viper) *cobra.Command {
	var src source
	cmd := &cobra.Command{
		Use:   "series",
		Short: "Print the surplus series overview and high-surplus periods",
		RunE: func(cmd *cobra.Command, args []string) error {
			points, r, err := src.load(cmd.Context(), v)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Zone: %s [%s]\n\n", r.Zone, r.Zone.Code)
			report.PrintSeries(out, points)

			sum := analysis.SummarizeSurplus(points)
			fmt.Fprintf(out, "\nSurplus MW: min %.2f | p05 %.2f | mean %.2f | p95 %.2f | max %.2f\n",
				sum.Surplus.Min, sum.Surplus.P05, sum.Surplus.Mean, sum.Surplus.P95, sum.Surplus.Max)

			fmt.Fprintln(out, "\n=== Raw Forecasts ===")
			for _, f := range []struct {
				label string
				doc   *model.MarketDocument
			}{{"Generation", r.Generation}, {"Load", r.Load}} {
				fs, err := analysis.SummarizeForecast(f.doc)
				if err != nil {
					return err
				}
				report.PrintForecastSummary(out, f.label, fs)
			}
			return nil
		},
	}
	addSourceFlags(cmd, &src)
	return cmd
}

func newExportCmd(v *viper.Viper) *cobra.Command {
	var (
		src    source
		format string
		out    string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the surplus series to CSV, XLSX or PDF",
		RunE: func(cmd *cobra.Command, args []string) error {
			format = strings.ToLower(format)
			if out == "" {
				out = filepath.Join("results", "surplus."+format)
			}
			points, r, err := src.load(cmd.Context(), v)
			if err != nil {
				return err
			}
			meta := report.Meta{
				CountryCode: r.Zone.Country,
				CountryName: r.Zone.Name,
				ZoneCode:    r.Zone.Code,
				Start:       r.Start,
				End:         r.End,
				GeneratedAt: time.Now().UTC(),
			}

			if err := os.MkdirAll(filepath.Dir(out), 0755); err != nil {
				return err
			}
			switch format {
			case "csv":
				err = report.WriteSurplusCSVFile(out, points)
			case "xlsx", "pdf":
				var body []byte
				if format == "xlsx" {
					body, err = report.BuildSurplusXLSX(meta, points)
				} else {
					body, err = report.BuildSurplusPDF(meta, points)
				}
				if err == nil {
					err = os.WriteFile(out, body, 0644)
				}
			default:
				return fmt.Errorf("unknown format %q (csv, xlsx, pdf)", format)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d points to %s\n", len(points), out)
			return nil
		},
	}
	addSourceFlags(cmd, &src)
	cmd.Flags().StringVar(&format, "format", "csv", "Output format: csv, xlsx, pdf")
	cmd.Flags().StringVar(&out, "out", "", "Output path (default results/surplus.<format>)")
	return cmd
}

func newCountriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "countries",
		Short: "List country codes with known bidding zones",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, c := range data.ListCountries() {
				z, _ := data.PrimaryZone(c)
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", c, z.Name)
			}
			return nil
		},
	}
}

func newZonesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "zones COUNTRY",
		Short: "List the bidding zones of a country (first is primary)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			zones, ok := data.ZonesByCountry(args[0])
			if !ok {
				return fmt.Errorf("no bidding zones for country %q", args[0])
			}
			for _, z := range zones {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", z.Code, z)
			}
			return nil
		},
	}
}
