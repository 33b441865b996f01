// NewsForge Ranking Core - Search & Recommendation Fusion Engine
// Copyright 2026 Sabq (sabq4org)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sabq4org/newsforge-ai-cms-sub005

// Package relevance is the HTTP client for the external semantic relevance
// service. The service owns embeddings and model inference; this package
// owns transport: circuit breaking, outbound rate limiting, and response
// decoding. Schema validation of individual entries is left to the
// semantic provider.
package relevance

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/sabq4org/newsforge-ai-cms-sub005/internal/ranking"
	"github.com/sabq4org/newsforge-ai-cms-sub005/internal/ranking/providers"
)

// Config holds relevance client parameters.
type Config struct {
	// BaseURL is the relevance service endpoint, e.g. "http://relevance:9090".
	BaseURL string `json:"base_url" koanf:"base_url"`

	// RequestTimeout bounds one HTTP call. The provider timeout is the
	// effective ceiling; this guards against a missing provider deadline.
	// Default: 1s.
	RequestTimeout time.Duration `json:"request_timeout" koanf:"request_timeout"`

	// RateLimit is the maximum outbound requests per second. Default: 50.
	RateLimit float64 `json:"rate_limit" koanf:"rate_limit"`

	// RateBurst is the outbound burst size. Default: 10.
	RateBurst int `json:"rate_burst" koanf:"rate_burst"`

	// BreakerFailureThreshold is the consecutive-failure count that opens
	// the circuit. Default: 5.
	BreakerFailureThreshold uint32 `json:"breaker_failure_threshold" koanf:"breaker_failure_threshold"`

	// BreakerTimeout is how long the circuit stays open before probing.
	// Default: 30s.
	BreakerTimeout time.Duration `json:"breaker_timeout" koanf:"breaker_timeout"`
}

// DefaultConfig returns production defaults for the given base URL.
func DefaultConfig(baseURL string) Config {
	return Config{
		BaseURL:                 baseURL,
		RequestTimeout:          time.Second,
		RateLimit:               50,
		RateBurst:               10,
		BreakerFailureThreshold: 5,
		BreakerTimeout:          30 * time.Second,
	}
}

// scoreRequest is the wire request to the relevance service.
type scoreRequest struct {
	Query      string               `json:"query"`
	Candidates []scoreCandidate     `json:"candidates"`
	User       *ranking.UserContext `json:"user,omitempty"`
}

type scoreCandidate struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Excerpt string `json:"excerpt"`
}

// scoreResponse is the wire response from the relevance service.
type scoreResponse struct {
	Scores []providers.RelevanceScore `json:"scores"`
}

// Client calls the relevance service over HTTP behind a circuit breaker and
// an outbound rate limiter.
type Client struct {
	cfg     Config
	http    *http.Client
	breaker *gobreaker.CircuitBreaker[[]providers.RelevanceScore]
	limiter *rate.Limiter
	logger  zerolog.Logger
}

var _ providers.RelevanceClient = (*Client)(nil)

// NewClient creates a relevance client.
func NewClient(cfg Config, logger zerolog.Logger) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("relevance: base_url is required")
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = time.Second
	}
	if cfg.RateLimit <= 0 {
		cfg.RateLimit = 50
	}
	if cfg.RateBurst <= 0 {
		cfg.RateBurst = 10
	}
	if cfg.BreakerFailureThreshold == 0 {
		cfg.BreakerFailureThreshold = 5
	}
	if cfg.BreakerTimeout <= 0 {
		cfg.BreakerTimeout = 30 * time.Second
	}

	clientLogger := logger.With().Str("component", "relevance_client").Logger()

	settings := gobreaker.Settings{
		Name:    "relevance",
		Timeout: cfg.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.BreakerFailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			clientLogger.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("Relevance circuit breaker state changed")
		},
	}

	return &Client{
		cfg:     cfg,
		http:    &http.Client{Timeout: cfg.RequestTimeout},
		breaker: gobreaker.NewCircuitBreaker[[]providers.RelevanceScore](settings),
		limiter: rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.RateBurst),
		logger:  clientLogger,
	}, nil
}

// Relevance implements providers.RelevanceClient.
func (c *Client) Relevance(ctx context.Context, query string, candidates []ranking.CandidateItem, user *ranking.UserContext) ([]providers.RelevanceScore, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("relevance: rate limit wait: %w", err)
	}

	return c.breaker.Execute(func() ([]providers.RelevanceScore, error) {
		return c.score(ctx, query, candidates, user)
	})
}

func (c *Client) score(ctx context.Context, query string, candidates []ranking.CandidateItem, user *ranking.UserContext) ([]providers.RelevanceScore, error) {
	wire := scoreRequest{Query: query, User: user, Candidates: make([]scoreCandidate, len(candidates))}
	for i, cand := range candidates {
		wire.Candidates[i] = scoreCandidate{ID: cand.ID, Title: cand.Title, Excerpt: cand.Excerpt}
	}

	body, err := json.Marshal(wire)
	if err != nil {
		return nil, fmt.Errorf("relevance: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/v1/score", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("relevance: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("relevance: request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// Drain so the connection can be reused.
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096)) //nolint:errcheck
		return nil, fmt.Errorf("relevance: service returned %d", resp.StatusCode)
	}

	var decoded scoreResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("relevance: decode response: %w", err)
	}
	return decoded.Scores, nil
}

// BreakerState reports the circuit breaker state for the status endpoint.
func (c *Client) BreakerState() string {
	return c.breaker.State().String()
}
