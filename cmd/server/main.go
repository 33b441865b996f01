// NewsForge Ranking Core - Search & Recommendation Fusion Engine
// Copyright 2026 Sabq (sabq4org)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sabq4org/newsforge-ai-cms-sub005

// Package main is the entry point for the NewsForge ranking service.
//
// The service fuses independent relevance signals (keyword, semantic,
// ensemble, trend) into one ranked result list for search and
// recommendation surfaces, under a bounded latency budget and tolerant of
// partial signal failure.
//
// # Startup Order
//
//  1. Configuration: Koanf v2 layered loading (defaults, YAML, NEWSFORGE_* env)
//  2. Logging: zerolog, JSON or console format
//  3. Content store: in-memory candidate snapshot
//  4. Query log: BadgerDB-backed recent-query persistence (optional)
//  5. Relevance client: external semantic service behind a circuit breaker
//     (optional, enabled when relevance.base_url is set)
//  6. Ranking engine: provider registration and result cache
//  7. Supervision: suture tree running the HTTP server and query log janitor
//
// # Signal Handling
//
// SIGINT and SIGTERM trigger graceful shutdown: the HTTP server drains
// in-flight requests, then the query log flushes and closes.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/sabq4org/newsforge-ai-cms-sub005/internal/api"
	"github.com/sabq4org/newsforge-ai-cms-sub005/internal/config"
	"github.com/sabq4org/newsforge-ai-cms-sub005/internal/content"
	"github.com/sabq4org/newsforge-ai-cms-sub005/internal/logging"
	"github.com/sabq4org/newsforge-ai-cms-sub005/internal/querylog"
	"github.com/sabq4org/newsforge-ai-cms-sub005/internal/ranking"
	"github.com/sabq4org/newsforge-ai-cms-sub005/internal/ranking/providers"
	"github.com/sabq4org/newsforge-ai-cms-sub005/internal/relevance"
	"github.com/sabq4org/newsforge-ai-cms-sub005/internal/supervisor"
)

func main() {
	if err := run(); err != nil {
		logging.Fatal().Err(err).Msg("Service failed")
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	logging.Init(cfg.Logging)
	logger := logging.Logger()
	logger.Info().
		Str("host", cfg.Server.Host).
		Int("port", cfg.Server.Port).
		Msg("Starting NewsForge ranking service")

	store := content.NewMemoryStore(logger)
	if cfg.Content.SnapshotPath != "" {
		if err := content.LoadSnapshotFile(store, cfg.Content.SnapshotPath); err != nil {
			return fmt.Errorf("seed content store: %w", err)
		}
	} else {
		logger.Warn().Msg("No content snapshot configured, store starts empty and fills over the ingest API")
	}
	profiles := content.NewMemoryProfileStore()

	engine, err := ranking.NewEngine(&cfg.Ranking, store, logger)
	if err != nil {
		return fmt.Errorf("create ranking engine: %w", err)
	}

	engine.RegisterProvider(providers.NewKeyword())
	engine.RegisterProvider(providers.NewTrend(nil))
	engine.RegisterProvider(providers.NewEnsemble())

	var relClient *relevance.Client
	if cfg.Relevance.BaseURL != "" {
		relClient, err = relevance.NewClient(cfg.Relevance, logger)
		if err != nil {
			return fmt.Errorf("create relevance client: %w", err)
		}
		engine.RegisterProvider(providers.NewSemantic(relClient, logger))
	} else {
		logger.Warn().Msg("Relevance service not configured, semantic provider disabled")
	}

	var qlog *querylog.Log
	if cfg.QueryLog.Dir != "" {
		qlog, err = querylog.Open(cfg.QueryLog, logger)
		if err != nil {
			return fmt.Errorf("open query log: %w", err)
		}
		defer func() {
			if err := qlog.Close(); err != nil {
				logger.Error().Err(err).Msg("Query log close failed")
			}
		}()
		engine.SetQueryRecorder(qlog)
	} else {
		logger.Warn().Msg("Query log directory not configured, query logging disabled")
	}

	var breaker api.BreakerStater
	if relClient != nil {
		breaker = relClient
	}
	handler := api.NewHandler(engine, store, profiles, qlog, breaker, logger)
	router := api.NewRouter(handler, api.RouterConfig{
		CORSOrigins: cfg.Server.CORSOrigins,
		RateLimit:   cfg.Server.RateLimit,
	})

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	tree := supervisor.NewTree(logging.NewSlogLogger(), supervisor.DefaultConfig())
	tree.Add(supervisor.NewHTTPService(server, cfg.Server.ShutdownTimeout))
	if qlog != nil {
		tree.Add(supervisor.NewJanitorService("querylog-gc", qlog.RunGC))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info().Str("addr", server.Addr).Msg("Service ready")
	if err := tree.Serve(ctx); err != nil && ctx.Err() == nil {
		return fmt.Errorf("supervision tree: %w", err)
	}

	logger.Info().Msg("Shutdown complete")
	return nil
}
