// NewsForge Ranking Core - Search & Recommendation Fusion Engine
// Copyright 2026 Sabq (sabq4org)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sabq4org/newsforge-ai-cms-sub005

// Package api exposes the ranking service over HTTP: the rank operation,
// configuration and status introspection, the recent-query log, and
// health. Responses use a uniform JSON envelope.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/sabq4org/newsforge-ai-cms-sub005/internal/content"
	"github.com/sabq4org/newsforge-ai-cms-sub005/internal/metrics"
	"github.com/sabq4org/newsforge-ai-cms-sub005/internal/querylog"
	"github.com/sabq4org/newsforge-ai-cms-sub005/internal/ranking"
)

// BreakerStater reports an outbound circuit breaker state for the status
// endpoint.
type BreakerStater interface {
	BreakerState() string
}

// ContentStore is the content surface the API consumes: reads for ranking
// and lookups, writes for the CMS ingest push.
type ContentStore interface {
	content.Store
	Upsert(item ranking.CandidateItem) error
	Delete(id string)
}

// ProfileStore is the user profile surface: reads to resolve request
// personalization, writes for the CMS ingest push.
type ProfileStore interface {
	content.UserProfileStore
	Upsert(profile ranking.UserContext) error
	Delete(userID string)
}

// Handler carries the dependencies of all HTTP handlers.
type Handler struct {
	engine    *ranking.Engine
	store     ContentStore
	profiles  ProfileStore
	queries   *querylog.Log
	relevance BreakerStater
	logger    zerolog.Logger
	started   time.Time
}

// NewHandler creates the handler set. profiles, queries, and relevance may
// be nil when those subsystems are disabled.
func NewHandler(engine *ranking.Engine, store ContentStore, profiles ProfileStore, queries *querylog.Log, relevance BreakerStater, logger zerolog.Logger) *Handler {
	return &Handler{
		engine:    engine,
		store:     store,
		profiles:  profiles,
		queries:   queries,
		relevance: relevance,
		logger:    logger.With().Str("component", "api").Logger(),
		started:   time.Now(),
	}
}

// rankPayload mirrors ranking.Request for validation before the engine
// sees it. SortMode is validated as its wire string.
type rankPayload struct {
	QueryText  string `validate:"max=512"`
	MaxResults int    `validate:"omitempty,min=1,max=100"`
	SortMode   string `validate:"omitempty,sortmode"`
}

// Rank handles POST /api/v1/rank.
func (h *Handler) Rank(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req ranking.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_JSON", "Request body is not valid JSON", err)
		return
	}

	payload := rankPayload{
		QueryText:  req.QueryText,
		MaxResults: req.MaxResults,
		SortMode:   req.SortMode.String(),
	}
	// An unknown sort mode decodes to an invalid marker whose String() is
	// "unknown", which the sortmode validator rejects.
	if apiErr := validateRequest(&payload); apiErr != nil {
		metrics.RecordRankRequest("invalid", false, 0, time.Since(start))
		writeEnvelope(w, http.StatusBadRequest, &apiResponse{
			Status:   "error",
			Error:    apiErr,
			Metadata: envelopeMeta{Timestamp: time.Now().UTC()},
		})
		return
	}

	// A request carrying only a user ID is resolved against the profile
	// store; explicit personalization fields in the request win.
	if h.profiles != nil && req.UserContext != nil && req.UserContext.UserID != "" &&
		len(req.UserContext.PreferredCategories) == 0 && len(req.UserContext.RecentQueries) == 0 {
		if profile, ok := h.profiles.Profile(r.Context(), req.UserContext.UserID); ok {
			req.UserContext = &profile
		}
	}

	resp, err := h.engine.Rank(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, ranking.ErrInvalidRequest):
			metrics.RecordRankRequest("invalid", false, 0, time.Since(start))
			respondError(w, http.StatusBadRequest, "INVALID_REQUEST", err.Error(), nil)
		case errors.Is(err, ranking.ErrNoProviders):
			metrics.RecordRankRequest("error", false, 0, time.Since(start))
			respondError(w, http.StatusServiceUnavailable, "NO_PROVIDERS", "No signal providers are configured", err)
		default:
			metrics.RecordRankRequest("error", false, 0, time.Since(start))
			respondError(w, http.StatusInternalServerError, "RANKING_FAILED", "Ranking failed", err)
		}
		return
	}

	metrics.RecordRankRequest(resp.Status.String(), resp.Metadata.CacheHit, len(resp.Results), time.Since(start))
	metrics.CacheEntries.Set(float64(h.engine.CacheSize()))

	h.logger.Debug().
		Str("request_id", resp.Metadata.RequestID).
		Str("status", resp.Status.String()).
		Int("results", len(resp.Results)).
		Bool("cache_hit", resp.Metadata.CacheHit).
		Int64("latency_ms", resp.Metadata.LatencyMS).
		Msg("Ranking request served")

	respondJSON(w, http.StatusOK, resp.Metadata.RequestID, resp)
}

// RankConfig handles GET /api/v1/rank/config.
func (h *Handler) RankConfig(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, "", h.engine.Config())
}

// rankStatus is the status endpoint payload.
type rankStatus struct {
	Metrics          ranking.Metrics `json:"metrics"`
	CacheEntries     int             `json:"cache_entries"`
	ContentVersion   string          `json:"content_version"`
	RelevanceBreaker string          `json:"relevance_breaker,omitempty"`
	UptimeSeconds    int64           `json:"uptime_seconds"`
}

// RankStatus handles GET /api/v1/rank/status.
func (h *Handler) RankStatus(w http.ResponseWriter, r *http.Request) {
	status := rankStatus{
		Metrics:        h.engine.Metrics(),
		CacheEntries:   h.engine.CacheSize(),
		ContentVersion: h.store.Version(),
		UptimeSeconds:  int64(time.Since(h.started).Seconds()),
	}
	if h.relevance != nil {
		status.RelevanceBreaker = h.relevance.BreakerState()
	}
	respondJSON(w, http.StatusOK, "", status)
}

// RecentQueries handles GET /api/v1/queries/recent.
func (h *Handler) RecentQueries(w http.ResponseWriter, r *http.Request) {
	if h.queries == nil {
		respondError(w, http.StatusServiceUnavailable, "QUERYLOG_DISABLED", "Query logging is disabled", nil)
		return
	}

	limit := getIntParam(r, "limit", 20)
	if limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	entries, err := h.queries.Recent(ctx, limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "QUERYLOG_SCAN_FAILED", "Failed to read recent queries", err)
		return
	}
	if entries == nil {
		entries = []querylog.Entry{}
	}
	respondJSON(w, http.StatusOK, "", entries)
}

// Health handles GET /health.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, "", map[string]interface{}{
		"status":         "ok",
		"uptime_seconds": int64(time.Since(h.started).Seconds()),
	})
}
