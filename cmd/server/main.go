// Syllabus - Media Discovery and Rating Enrichment
// Copyright 2026 kunw4r
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kunw4r/syllabus

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kunw4r/syllabus/internal/api"
	"github.com/kunw4r/syllabus/internal/cache"
	"github.com/kunw4r/syllabus/internal/config"
	"github.com/kunw4r/syllabus/internal/enrich"
	"github.com/kunw4r/syllabus/internal/kvstore"
	"github.com/kunw4r/syllabus/internal/logging"
	"github.com/kunw4r/syllabus/internal/middleware"
	"github.com/kunw4r/syllabus/internal/seed"
	"github.com/kunw4r/syllabus/internal/sources"
	"github.com/kunw4r/syllabus/internal/supervisor"
	"github.com/kunw4r/syllabus/internal/supervisor/services"
	ws "github.com/kunw4r/syllabus/internal/websocket"
)

// perfMonSamples bounds the rolling request window behind /health.
const perfMonSamples = 1000

var configPath string

var rootCmd = &cobra.Command{
	Use:          "server",
	Short:        "Serve rated charts and enrichment over HTTP",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return run(cmd.Context())
	},
}

func init() {
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "", "Config file path (default: $CONFIG_PATH or ./config.yaml)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gocyclo // sequential setup steps
func run(parent context.Context) error {
	// Load configuration first to get logging settings
	cfg, err := config.LoadWithKoanf(configPath)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to load configuration")
		return err
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
	})

	logging.Info().
		Str("addr", cfg.Server.Addr()).
		Str("storage", cfg.Storage.Backend).
		Int("omdb_keys", len(cfg.OMDb.APIKeys)).
		Bool("jikan", cfg.Jikan.Enabled).
		Bool("seed", cfg.Seed.Enabled).
		Msg("Starting Syllabus with supervisor tree")

	store, err := kvstore.Open(kvstore.Options{
		Backend:    kvstore.Backend(cfg.Storage.Backend),
		Path:       cfg.Storage.Path,
		SyncWrites: cfg.Storage.SyncWrites,
		QuotaBytes: cfg.Storage.QuotaBytes,
	})
	if err != nil {
		logging.Error().Err(err).Msg("Failed to open storage")
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing storage")
		}
	}()
	logging.Info().Str("backend", cfg.Storage.Backend).Str("path", cfg.Storage.Path).Msg("Storage opened")

	scores := cache.NewScoreStore(store)
	ratings := cache.NewRatingCache(store)
	charts := cache.NewChartCache(store, cache.ChartConfig{
		Version: cfg.Chart.Version,
		TTL:     cfg.Chart.TTL,
	})

	omdb := sources.NewOMDbClient(&cfg.OMDb)
	tmdb := sources.NewTMDBClient(&cfg.TMDB)
	var anime enrich.AnimeSource
	if cfg.Jikan.Enabled {
		anime = sources.NewJikanClient(&cfg.Jikan)
	}
	if omdb.Keys().Size() == 0 {
		logging.Warn().Msg("No OMDb keys configured, only stored scores will be served")
	}

	orchestrator := enrich.New(scores, ratings, charts, omdb, anime, enrich.OptionsFromConfig(&cfg.Enrich))

	wsHub := ws.NewHub()
	perfMon := middleware.NewPerformanceMonitor(perfMonSamples, middleware.DefaultSlowThreshold)

	handler := api.NewHandler(api.Dependencies{
		Scores:      scores,
		Ratings:     ratings,
		Charts:      charts,
		Enricher:    orchestrator,
		Catalog:     tmdb,
		Hub:         wsHub,
		Keys:        omdb.Keys(),
		PerfMon:     perfMon,
		CORSOrigins: cfg.Security.CORSOrigins,
	})
	router := api.NewRouter(handler, api.NewChiMiddlewareFromConfig(&cfg.Security), perfMon)

	server := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           router.SetupChi(),
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
	}

	// === SUPERVISOR TREE ===

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		FailureThreshold: 5,
		ShutdownTimeout:  cfg.Server.ShutdownTimeout,
	})
	if err != nil {
		logging.Error().Err(err).Msg("Failed to create supervisor tree")
		return err
	}

	// Data layer services
	if cfg.Seed.Enabled && cfg.Seed.URL != "" {
		loader := seed.NewLoader(&cfg.Seed, scores, store)
		tree.AddDataService(services.NewSeedRefreshService(loader, cfg.Seed.RefreshInterval))
		logging.Info().Str("url", cfg.Seed.URL).Dur("interval", cfg.Seed.RefreshInterval).Msg("Seed refresh service added")
	}
	tree.AddDataService(services.NewKeyResetService(omdb.Keys()))

	// API layer services
	tree.AddAPIService(services.NewWebSocketHubService(wsHub))
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	// === START SUPERVISOR TREE ===

	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logging.Info().Msg("Starting supervisor tree...")
	errCh := tree.ServeBackground(ctx)

	// The channel delivers exactly one result and is never closed.
	var serveErr error
	select {
	case <-ctx.Done():
		logging.Info().Msg("Shutdown signal received, waiting for supervisor to finish...")
		serveErr = <-errCh
	case serveErr = <-errCh:
	}
	if serveErr != nil && !errors.Is(serveErr, context.Canceled) {
		logging.Error().Err(serveErr).Msg("Supervisor tree error")
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	if len(unstopped) > 0 {
		logging.Warn().Int("count", len(unstopped)).Msg("Services failed to stop within timeout")
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
		}
	}

	logging.Info().Msg("Application stopped gracefully")
	return nil
}
