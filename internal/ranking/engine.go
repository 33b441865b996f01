// NewsForge Ranking Core - Search & Recommendation Fusion Engine
// Copyright 2026 Sabq (sabq4org)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sabq4org/newsforge-ai-cms-sub005

package ranking

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/sabq4org/newsforge-ai-cms-sub005/internal/metrics"
)

// CandidateSource supplies the candidate pool a request is ranked over and
// the content-store version used for cache invalidation.
type CandidateSource interface {
	// Candidates returns up to limit items eligible for ranking.
	Candidates(ctx context.Context, limit int) ([]CandidateItem, error)
	// Version identifies the current content snapshot. It changes whenever
	// content is created, updated, or deleted.
	Version() string
}

// QueryRecorder receives the query text of each ranked request. Recording is
// fire-and-forget: implementations must not block and failures must not
// affect ranking.
type QueryRecorder interface {
	Record(queryText string)
}

// Engine fuses signal-provider scores into a single ranked result list.
//
// Providers run concurrently with individual timeouts under a global request
// deadline. A provider that errors or misses its deadline is skipped, never
// fatal: the remaining providers' weights are renormalized so one slow
// provider degrades quality, not availability.
type Engine struct {
	config *Config
	logger zerolog.Logger
	source CandidateSource
	cache  *resultCache

	mu        sync.RWMutex
	providers []Provider

	recorder QueryRecorder

	requestCount      atomic.Int64
	cacheHits         atomic.Int64
	cacheMisses       atomic.Int64
	coalescedRequests atomic.Int64
	noSignalResponses atomic.Int64

	failureMu        sync.Mutex
	providerFailures map[string]int64
}

// NewEngine creates a ranking engine. Providers are registered separately
// via RegisterProvider.
func NewEngine(cfg *Config, source CandidateSource, logger zerolog.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("ranking config: %w", err)
	}
	if source == nil {
		return nil, fmt.Errorf("candidate source is required")
	}

	return &Engine{
		config:           cfg,
		logger:           logger.With().Str("component", "ranking_engine").Logger(),
		source:           source,
		cache:            newResultCache(cfg.Cache),
		providerFailures: make(map[string]int64),
	}, nil
}

// RegisterProvider adds a signal provider. Providers with no configuration
// entry or a disabled entry are accepted but never invoked.
func (e *Engine) RegisterProvider(p Provider) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.providers = append(e.providers, p)
	e.logger.Info().Str("provider", p.Name()).Msg("Signal provider registered")
}

// SetQueryRecorder installs an optional recorder for query texts.
func (e *Engine) SetQueryRecorder(r QueryRecorder) {
	e.recorder = r
}

// Config returns a copy of the engine configuration.
func (e *Engine) Config() *Config {
	return e.config.Clone()
}

// Rank validates, scores, fuses, filters, and sorts a ranking request.
//
// The only hard failure is an invalid request; every provider-side problem
// degrades to a partial or no-signal response instead.
func (e *Engine) Rank(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	e.requestCount.Add(1)

	if err := e.validateRequest(&req); err != nil {
		return nil, err
	}
	if req.RequestID == "" {
		req.RequestID = uuid.NewString()
	}

	active := e.activeProviders()
	if len(active) == 0 {
		return nil, ErrNoProviders
	}

	if e.recorder != nil && req.QueryText != "" {
		e.recorder.Record(req.QueryText)
	}

	if !e.config.Cache.Enabled {
		resp, err := e.compute(ctx, req, active)
		if err != nil {
			return nil, err
		}
		e.finishResponse(resp, req.RequestID, false, start)
		return resp, nil
	}

	version := e.source.Version()
	e.cache.syncVersion(version)

	ids := make([]string, len(active))
	for i, p := range active {
		ids[i] = p.provider.Name()
	}
	key := fingerprint(req, ids, version)

	if cached := e.cache.get(key); cached != nil {
		e.cacheHits.Add(1)
		metrics.CacheHits.Inc()
		e.finishResponse(cached, req.RequestID, true, start)
		return cached, nil
	}
	e.cacheMisses.Add(1)
	metrics.CacheMisses.Inc()

	resp, shared, err := e.cache.do(key, func() (*Response, error) {
		computed, err := e.compute(ctx, req, active)
		if err != nil {
			return nil, err
		}
		e.cache.put(key, computed)
		return computed, nil
	})
	if err != nil {
		return nil, err
	}
	if shared {
		e.coalescedRequests.Add(1)
		metrics.CoalescedRequests.Inc()
	}
	e.finishResponse(resp, req.RequestID, false, start)
	return resp, nil
}

// Metrics returns a snapshot of the engine counters.
func (e *Engine) Metrics() Metrics {
	e.failureMu.Lock()
	failures := make(map[string]int64, len(e.providerFailures))
	for name, count := range e.providerFailures {
		failures[name] = count
	}
	e.failureMu.Unlock()

	return Metrics{
		RequestCount:      e.requestCount.Load(),
		CacheHits:         e.cacheHits.Load(),
		CacheMisses:       e.cacheMisses.Load(),
		CoalescedRequests: e.coalescedRequests.Load(),
		ProviderFailures:  failures,
		NoSignalResponses: e.noSignalResponses.Load(),
	}
}

// CacheSize reports the number of cached responses.
func (e *Engine) CacheSize() int {
	return e.cache.len()
}

func (e *Engine) validateRequest(req *Request) error {
	if req.MaxResults < 0 {
		return fmt.Errorf("%w: maxResults must be positive, got %d", ErrInvalidRequest, req.MaxResults)
	}
	if req.MaxResults == 0 {
		// An omitted field; an explicit negative is a caller bug.
		req.MaxResults = e.config.Limits.DefaultMaxResults
	}
	if req.MaxResults > e.config.Limits.MaxMaxResults {
		return fmt.Errorf("%w: maxResults %d exceeds limit %d",
			ErrInvalidRequest, req.MaxResults, e.config.Limits.MaxMaxResults)
	}
	if req.SortMode < SortRelevance || req.SortMode > SortPopularity {
		return fmt.Errorf("%w: unknown sort mode", ErrInvalidRequest)
	}
	if dr := req.Filters.DateRange; dr != nil {
		if !dr.From.IsZero() && !dr.To.IsZero() && dr.From.After(dr.To) {
			return fmt.Errorf("%w: date range from is after to", ErrInvalidRequest)
		}
	}
	return nil
}

// activeProvider pairs a registered provider with its configuration.
type activeProvider struct {
	provider Provider
	cfg      ProviderConfig
}

// activeProviders returns enabled, configured providers in registration order.
func (e *Engine) activeProviders() []activeProvider {
	e.mu.RLock()
	defer e.mu.RUnlock()

	active := make([]activeProvider, 0, len(e.providers))
	for _, p := range e.providers {
		cfg, ok := e.config.ProviderConfig(p.Name())
		if !ok || !cfg.Enabled {
			continue
		}
		active = append(active, activeProvider{provider: p, cfg: cfg})
	}
	return active
}

// providerResult is a single provider's fan-out outcome.
type providerResult struct {
	name   string
	scores []SignalScore
	err    error
}

// compute runs the full scoring pipeline for a cache miss.
func (e *Engine) compute(ctx context.Context, req Request, active []activeProvider) (*Response, error) {
	reqCtx, cancel := context.WithTimeout(ctx, e.config.Limits.RequestTimeout)
	defer cancel()

	candidates, err := e.source.Candidates(reqCtx, e.config.Limits.MaxCandidates)
	if err != nil {
		return nil, fmt.Errorf("fetch candidates: %w", err)
	}

	results := e.collectSignals(reqCtx, candidates, req, active)

	var contributed []string
	var scores []SignalScore
	weights := make(map[string]float64, len(active))
	for _, ap := range active {
		weights[ap.provider.Name()] = ap.cfg.Weight
	}
	for _, res := range results {
		if res.err != nil {
			e.recordFailure(res.name)
			metrics.ProviderOutcomesTotal.WithLabelValues(res.name, "failed").Inc()
			e.logger.Warn().
				Err(res.err).
				Str("provider", res.name).
				Str("request_id", req.RequestID).
				Msg("Signal provider failed, continuing without it")
			continue
		}
		if len(res.scores) == 0 {
			metrics.ProviderOutcomesTotal.WithLabelValues(res.name, "empty").Inc()
			continue
		}
		metrics.ProviderOutcomesTotal.WithLabelValues(res.name, "contributed").Inc()
		contributed = append(contributed, res.name)
		scores = append(scores, res.scores...)
	}

	status := StatusOK
	switch {
	case len(contributed) == 0:
		status = StatusNoSignals
		e.noSignalResponses.Add(1)
	case len(contributed) < len(active):
		status = StatusPartial
	}

	items := make(map[string]CandidateItem, len(candidates))
	for _, c := range candidates {
		items[c.ID] = c
	}

	groups := groupByCandidate(scores)
	fused := fuseGroups(groups, weights, e.logger)
	total := len(fused)

	fused = applyFilters(fused, items, req.Filters)
	matched := len(fused)

	sortFused(fused, items, req.SortMode)

	return &Response{
		Results:           buildResults(fused, items, req.MaxResults),
		TotalCandidates:   total,
		MatchedCandidates: matched,
		Status:            status,
		Metadata: ResponseMetadata{
			ProvidersUsed: contributed,
		},
	}, nil
}

// collectSignals fans out to every active provider and gathers results until
// all complete or the request deadline fires. Stragglers keep running until
// their own context cancels but their results are discarded, never merged.
func (e *Engine) collectSignals(ctx context.Context, candidates []CandidateItem, req Request, active []activeProvider) []providerResult {
	out := make(chan providerResult, len(active))

	for _, ap := range active {
		go func(ap activeProvider) {
			provCtx, cancel := context.WithTimeout(ctx, ap.cfg.Timeout)
			defer cancel()

			started := time.Now()
			scores, err := ap.provider.Compute(provCtx, candidates, req)
			if err == nil && provCtx.Err() != nil {
				err = provCtx.Err()
			}
			metrics.ProviderDuration.WithLabelValues(ap.provider.Name()).Observe(time.Since(started).Seconds())
			e.logger.Debug().
				Str("provider", ap.provider.Name()).
				Dur("duration", time.Since(started)).
				Int("signals", len(scores)).
				Msg("Signal provider finished")

			out <- providerResult{name: ap.provider.Name(), scores: scores, err: err}
		}(ap)
	}

	results := make([]providerResult, 0, len(active))
	for range active {
		select {
		case res := <-out:
			results = append(results, res)
		case <-ctx.Done():
			e.logger.Warn().
				Str("request_id", req.RequestID).
				Int("received", len(results)).
				Int("expected", len(active)).
				Msg("Request deadline reached before all providers finished")
			return results
		}
	}
	return results
}

func (e *Engine) recordFailure(name string) {
	e.failureMu.Lock()
	e.providerFailures[name]++
	e.failureMu.Unlock()
}

// finishResponse stamps per-request metadata onto a response copy.
func (e *Engine) finishResponse(resp *Response, requestID string, cacheHit bool, start time.Time) {
	resp.Metadata.RequestID = requestID
	resp.Metadata.CacheHit = cacheHit
	resp.Metadata.LatencyMS = time.Since(start).Milliseconds()
	resp.Metadata.Timestamp = time.Now().UTC()
}
