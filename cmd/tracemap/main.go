package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"visual_traceroute/tracemap/internal/config"
	"visual_traceroute/tracemap/internal/db"
	"visual_traceroute/tracemap/internal/httpapi"
	"visual_traceroute/tracemap/internal/metrics"
	"visual_traceroute/tracemap/internal/session"
	"visual_traceroute/tracemap/internal/traceclient"
)

func main() {
	cfg, err := config.FromEnv(os.Getenv)
	logger := httpapi.NewLogger(os.Stdout, cfg.LogLevel)
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid configuration")
	}

	settings, err := config.LoadMapSettings(cfg.MapConfig)
	if err != nil {
		logger.Fatal().Err(err).Str("path", cfg.MapConfig).Msg("failed to load map settings")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := metrics.New()
	opts := session.Options{Observer: m}

	var pool *db.Pool
	if cfg.DatabaseURL != "" {
		p, err := db.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect to database")
		}
		defer p.Close()
		pool = p
		opts.Recorder = db.NewRecorder(pool.Queries())
	}

	client, err := traceclient.New(traceclient.Options{
		Endpoint:     cfg.TraceEndpoint,
		Timeout:      cfg.TraceTimeout,
		RateInterval: cfg.TraceRateInterval,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid traceroute endpoint")
	}

	ctrl := session.NewController(logger, client, session.NewStore(), opts)

	h := httpapi.NewHandler(logger, ctrl, httpapi.Options{
		Pool:     pool,
		Metrics:  m,
		Settings: &settings,
	})
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           h.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info().
			Str("addr", cfg.HTTPAddr).
			Str("trace_endpoint", cfg.TraceEndpoint).
			Bool("history", pool != nil).
			Msg("tracemap listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("http server error")
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
	logger.Info().Msg("shutdown complete")
}
