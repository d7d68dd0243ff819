package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"renewable-surplus/internal/api"
	"renewable-surplus/internal/config"
	"renewable-surplus/internal/data"
	"renewable-surplus/internal/forecast"
	"renewable-surplus/internal/logger"
	"renewable-surplus/internal/metrics"
)

func main() {
	cfgPath := flag.String("config", os.Getenv("CONFIG_FILE"), "Path to YAML config (optional; env vars override)")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Logging.Level, cfg.Logging.DevMode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()
	sugar := log.Sugar()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	client := data.NewEntsoeClient(cfg.Entsoe.APIKey, cfg.Entsoe.BaseURL,
		data.WithLogger(log.Named("entsoe").Sugar()),
		data.WithMetrics(m),
		data.WithTimeout(cfg.Entsoe.Timeout),
	)
	svc := forecast.NewService(client,
		forecast.WithLogger(log.Named("forecast").Sugar()),
		forecast.WithBufferHours(cfg.Lookahead.BufferHours),
	)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := api.NewRouter(api.Deps{
		Service:          svc,
		Logger:           log,
		Metrics:          m,
		Gatherer:         reg,
		Lookahead:        cfg.Lookahead,
		AvailabilityFile: cfg.AvailabilityFile,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf("0.0.0.0:%d", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		sugar.Infow("Starting API server",
			"addr", srv.Addr,
			"env", cfg.Server.Env,
			"entsoe_base_url", cfg.Entsoe.BaseURL,
			"example", fmt.Sprintf("curl http://localhost:%d/api/v1/renewable-surplus/DE/night", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			sugar.Fatalw("Failed to start server", "error", err)
		}
	}()

	<-ctx.Done()
	sugar.Infow("Shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		sugar.Errorw("Graceful shutdown failed", "error", err)
	}
	log.Info("Server stopped", zap.String("addr", srv.Addr))
}
