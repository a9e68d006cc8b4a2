// Syllabus - Media Discovery and Rating Enrichment
// Copyright 2026 kunw4r
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kunw4r/syllabus

// Command enrichjob builds the static score seed consumed by the server.
//
// It walks TMDB discover pages, rates every title not already in the seed
// with OMDb (rotating through OMDB_API_KEYS as keys hit their daily limit)
// and MyAnimeList for anime, and writes the seed atomically.
//
//	TMDB_API_KEY=... OMDB_API_KEYS=k1,k2,k3 enrichjob --pages 10 --max-calls 2500
//	enrichjob --tv-only --seed-path public/scores.json
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/kunw4r/syllabus/internal/batch"
	"github.com/kunw4r/syllabus/internal/config"
	"github.com/kunw4r/syllabus/internal/logging"
	"github.com/kunw4r/syllabus/internal/sources"
)

var (
	configPath string
	maxCalls   int
	pages      int
	saveEvery  int
	seedPath   string
	moviesOnly bool
	tvOnly     bool
)

var rootCmd = &cobra.Command{
	Use:          "enrichjob",
	Short:        "Build the static score seed",
	Long:         "Walk TMDB discover pages and rate every title missing from the seed file with OMDb and MyAnimeList.",
	SilenceUsage: true,
	RunE:         run,
}

func init() {
	f := rootCmd.Flags()
	f.StringVarP(&configPath, "config", "c", "", "Config file path (default: $CONFIG_PATH or ./config.yaml)")
	f.IntVar(&maxCalls, "max-calls", 0, "OMDb call budget for this run (default from config)")
	f.IntVar(&pages, "pages", 0, "Discover pages per media type (default from config)")
	f.IntVar(&saveEvery, "save-every", 0, "Checkpoint the seed after this many new entries (default from config)")
	f.StringVar(&seedPath, "seed-path", "", "Seed file to read and update (default from config)")
	f.BoolVar(&moviesOnly, "movies-only", false, "Only walk movies")
	f.BoolVar(&tvOnly, "tv-only", false, "Only walk TV shows")
	rootCmd.MarkFlagsMutuallyExclusive("movies-only", "tv-only")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, _ []string) error {
	cfg, err := config.LoadWithKoanf(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
	})

	opts := batch.OptionsFromConfig(&cfg.Batch)
	applyFlags(cmd, &opts)

	omdb := sources.NewOMDbClient(&cfg.OMDb)
	tmdb := sources.NewTMDBClient(&cfg.TMDB)
	var anime batch.AnimeSource
	if cfg.Jikan.Enabled {
		anime = sources.NewJikanClient(&cfg.Jikan)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	stats, err := batch.NewRunner(tmdb, omdb, anime, opts).Run(ctx)
	if stats != nil {
		out, _ := json.MarshalIndent(stats, "", "  ")
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
	}
	if err != nil && ctx.Err() == nil {
		return err
	}
	if ctx.Err() != nil {
		logging.Warn().Msg("Interrupted, progress saved")
	}
	return nil
}

func applyFlags(cmd *cobra.Command, opts *batch.Options) {
	flags := cmd.Flags()
	if flags.Changed("max-calls") {
		opts.MaxCalls = maxCalls
	}
	if flags.Changed("pages") {
		opts.Pages = pages
	}
	if flags.Changed("save-every") {
		opts.SaveEvery = saveEvery
	}
	if flags.Changed("seed-path") {
		opts.SeedPath = seedPath
	}
	switch {
	case moviesOnly:
		opts.Scope = batch.ScopeMovies
	case tvOnly:
		opts.Scope = batch.ScopeTV
	}
}
