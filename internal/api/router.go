// NewsForge Ranking Core - Search & Recommendation Fusion Engine
// Copyright 2026 Sabq (sabq4org)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sabq4org/newsforge-ai-cms-sub005

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sabq4org/newsforge-ai-cms-sub005/internal/metrics"
)

// RouterConfig holds router-level settings.
type RouterConfig struct {
	// CORSOrigins lists allowed origins; empty disables cross-origin access.
	CORSOrigins []string

	// RateLimit is the per-IP request limit per minute.
	RateLimit int
}

// NewRouter builds the service router with the full middleware stack.
func NewRouter(h *Handler, cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)

	if len(cfg.CORSOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   cfg.CORSOrigins,
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
			AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
			AllowCredentials: false,
			MaxAge:           300,
		}))
	}

	r.Get("/health", h.Health)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		if cfg.RateLimit > 0 {
			r.Use(httprate.LimitByIP(cfg.RateLimit, time.Minute))
		}
		r.Use(instrument)

		r.Post("/rank", h.Rank)
		r.Get("/rank/config", h.RankConfig)
		r.Get("/rank/status", h.RankStatus)
		r.Get("/queries/recent", h.RecentQueries)

		r.Route("/content", func(r chi.Router) {
			r.Get("/{id}", h.GetContent)
			r.Put("/{id}", h.UpsertContent)
			r.Delete("/{id}", h.DeleteContent)
		})

		r.Route("/profiles", func(r chi.Router) {
			r.Get("/{user_id}", h.GetProfile)
			r.Put("/{user_id}", h.UpsertProfile)
		})
	})

	return r
}

// instrument records Prometheus metrics per API request.
func instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		endpoint := chi.RouteContext(r.Context()).RoutePattern()
		if endpoint == "" {
			endpoint = r.URL.Path
		}
		metrics.RecordAPIRequest(r.Method, endpoint, ww.Status(), time.Since(start))
	})
}
