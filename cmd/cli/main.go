package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	v := viper.New()

	root := &cobra.Command{
		Use:   "surplus",
		Short: "Renewable surplus from ENTSO-E day-ahead forecasts",
		Long: `Joins the day-ahead wind and solar generation forecast (A71) with the
total load forecast (A65) of a bidding zone and reports generation minus load.

Data comes either live from the ENTSO-E Transparency Platform
(--country or --zone, --start, --end; token in ENTSOE_API_KEY) or from
saved XML responses (--gen-file and --load-file).`,
		SilenceUsage: true,
	}

	pf := root.PersistentFlags()
	pf.String("log-level", "warn", "Log level (debug, info, warn, error)")
	pf.String("api-key", "", "ENTSO-E security token (default $ENTSOE_API_KEY)")
	pf.String("base-url", "", "ENTSO-E API base URL (default $ENTSOE_BASE_URL or the public endpoint)")
	for _, name := range []string{"log-level", "api-key", "base-url"} {
		_ = v.BindPFlag(name, pf.Lookup(name))
	}
	_ = v.BindEnv("api-key", "ENTSOE_API_KEY")
	_ = v.BindEnv("base-url", "ENTSOE_BASE_URL")
	_ = v.BindEnv("log-level", "LOG_LEVEL")

	root.AddCommand(
		newMaxCmd(v),
		newSeriesCmd(v),
		newExportCmd(v),
		newCountriesCmd(),
		newZonesCmd(),
	)
	return root
}
