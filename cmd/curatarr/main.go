// Curatarr - Personalized Plex Recommendations
// Copyright 2026 Curatarr contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/curatarr/curatarr

// Command curatarr serves personalized recommendations built from Plex watch
// history over HTTP.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/curatarr/curatarr/internal/config"
	"github.com/curatarr/curatarr/internal/history"
	"github.com/curatarr/curatarr/internal/logging"
	"github.com/curatarr/curatarr/internal/metastore"
	"github.com/curatarr/curatarr/internal/metrics"
	"github.com/curatarr/curatarr/internal/profilestore"
	"github.com/curatarr/curatarr/internal/recommend"
	"github.com/curatarr/curatarr/internal/recommend/scoring"
	"github.com/curatarr/curatarr/internal/server"
)

func main() {
	if err := run(); err != nil {
		logging.Fatal().Err(err).Msg("curatarr failed")
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})
	logging.Info().
		Str("metadata_path", cfg.Store.MetadataPath).
		Str("profile_path", cfg.Store.ProfilePath).
		Str("history_path", cfg.Store.HistoryPath).
		Msg("starting curatarr")

	metadata, err := metastore.Open(cfg.Store.MetadataPath)
	if err != nil {
		return err
	}
	defer func() {
		if err := metadata.Close(); err != nil {
			logging.Error().Err(err).Msg("close metadata store")
		}
	}()

	profiles, err := profilestore.Open(cfg.Store.ProfilePath)
	if err != nil {
		return err
	}

	recorder := metrics.NewRecorder(prometheus.DefaultRegisterer)

	engine, err := recommend.NewEngine(
		&cfg.Recommend,
		history.NewFileSource(cfg.Store.HistoryPath),
		metadata,
		profiles,
		map[recommend.MediaType]recommend.Scorer{
			recommend.MediaTypeMovie: scoring.NewSimilarityScorer(&cfg.Recommend, recommend.MediaTypeMovie),
			recommend.MediaTypeTV:    scoring.NewSimilarityScorer(&cfg.Recommend, recommend.MediaTypeTV),
		},
		recorder,
	)
	if err != nil {
		return fmt.Errorf("build engine: %w", err)
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      server.New(cfg.Server, engine).Router(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logging.Info().Str("addr", srv.Addr).Msg("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case sig := <-stop:
		logging.Info().Str("signal", sig.String()).Msg("shutting down")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}
	return nil
}
