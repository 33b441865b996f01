// NewsForge Ranking Core - Search & Recommendation Fusion Engine
// Copyright 2026 Sabq (sabq4org)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sabq4org/newsforge-ai-cms-sub005

package ranking

import (
	"fmt"
	"time"
)

// ProviderConfig holds the per-provider fusion parameters.
type ProviderConfig struct {
	// ProviderID matches the provider's Name().
	ProviderID string `json:"provider_id" koanf:"provider_id"`

	// Weight is the provider's relative contribution to fusion. Must be
	// positive for an enabled provider. Weights need not sum to 1; fusion
	// renormalizes over the providers that actually scored each candidate.
	Weight float64 `json:"weight" koanf:"weight"`

	// Timeout bounds a single Compute call. The global request deadline is
	// the hard ceiling regardless of this value.
	Timeout time.Duration `json:"timeout" koanf:"timeout"`

	// Enabled controls whether the provider participates at all.
	Enabled bool `json:"enabled" koanf:"enabled"`
}

// LimitsConfig contains operational limits.
type LimitsConfig struct {
	// RequestTimeout is the global deadline for one ranking request.
	// Stragglers past this deadline are cancelled and never merged.
	// Default: 2s.
	RequestTimeout time.Duration `json:"request_timeout" koanf:"request_timeout"`

	// DefaultMaxResults is used when a request leaves MaxResults unset.
	// The engine rejects explicit negative values.
	// Default: 20.
	DefaultMaxResults int `json:"default_max_results" koanf:"default_max_results"`

	// MaxMaxResults caps the per-request MaxResults.
	// Default: 100.
	MaxMaxResults int `json:"max_max_results" koanf:"max_max_results"`

	// MaxCandidates caps the candidate set fetched from the content store.
	// Default: 1000.
	MaxCandidates int `json:"max_candidates" koanf:"max_candidates"`
}

// CacheConfig contains result cache parameters.
type CacheConfig struct {
	// Enabled controls whether caching and coalescing are active.
	// Default: true.
	Enabled bool `json:"enabled" koanf:"enabled"`

	// TTL is the cache entry time-to-live. Short by design: it matches the
	// UI debounce window, not a durability requirement.
	// Default: 2s.
	TTL time.Duration `json:"ttl" koanf:"ttl"`

	// MaxEntries is the maximum number of cached entries.
	// Default: 1024.
	MaxEntries int `json:"max_entries" koanf:"max_entries"`
}

// Config contains all configuration for the fusion engine.
type Config struct {
	// Providers holds the per-provider fusion parameters, keyed implicitly
	// by ProviderID. Providers registered on the engine without an entry
	// here are disabled.
	Providers []ProviderConfig `json:"providers" koanf:"providers"`

	// Limits contains operational limits.
	Limits LimitsConfig `json:"limits" koanf:"limits"`

	// Cache contains result cache parameters.
	Cache CacheConfig `json:"cache" koanf:"cache"`
}

// Provider IDs of the built-in providers.
const (
	ProviderKeyword  = "keyword"
	ProviderSemantic = "semantic"
	ProviderEnsemble = "ensemble"
	ProviderTrend    = "trend"
)

// DefaultConfig returns a Config with production defaults: all built-in
// providers enabled, keyword weighted highest.
func DefaultConfig() *Config {
	return &Config{
		Providers: []ProviderConfig{
			{ProviderID: ProviderKeyword, Weight: 0.35, Timeout: 500 * time.Millisecond, Enabled: true},
			{ProviderID: ProviderSemantic, Weight: 0.30, Timeout: 1200 * time.Millisecond, Enabled: true},
			{ProviderID: ProviderEnsemble, Weight: 0.20, Timeout: 800 * time.Millisecond, Enabled: true},
			{ProviderID: ProviderTrend, Weight: 0.15, Timeout: 300 * time.Millisecond, Enabled: true},
		},
		Limits: LimitsConfig{
			RequestTimeout:    2 * time.Second,
			DefaultMaxResults: 20,
			MaxMaxResults:     100,
			MaxCandidates:     1000,
		},
		Cache: CacheConfig{
			Enabled:    true,
			TTL:        2 * time.Second,
			MaxEntries: 1024,
		},
	}
}

// ProviderConfig returns the configuration entry for the given provider ID.
// The second return is false when no entry exists.
func (c *Config) ProviderConfig(id string) (ProviderConfig, bool) {
	for _, pc := range c.Providers {
		if pc.ProviderID == id {
			return pc, true
		}
	}
	return ProviderConfig{}, false
}

// EnabledProviderIDs returns the IDs of enabled providers in config order.
// The slice participates in the cache fingerprint, so order stability matters.
func (c *Config) EnabledProviderIDs() []string {
	ids := make([]string, 0, len(c.Providers))
	for _, pc := range c.Providers {
		if pc.Enabled {
			ids = append(ids, pc.ProviderID)
		}
	}
	return ids
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	seen := make(map[string]struct{}, len(c.Providers))
	for _, pc := range c.Providers {
		if pc.ProviderID == "" {
			return fmt.Errorf("providers: empty provider_id")
		}
		if _, dup := seen[pc.ProviderID]; dup {
			return fmt.Errorf("providers: duplicate provider_id %q", pc.ProviderID)
		}
		seen[pc.ProviderID] = struct{}{}

		if pc.Enabled && pc.Weight <= 0 {
			return fmt.Errorf("providers.%s: weight must be positive, got %f", pc.ProviderID, pc.Weight)
		}
		if pc.Enabled && pc.Timeout <= 0 {
			return fmt.Errorf("providers.%s: timeout must be positive, got %v", pc.ProviderID, pc.Timeout)
		}
	}

	if c.Limits.RequestTimeout <= 0 {
		return fmt.Errorf("limits.request_timeout must be positive, got %v", c.Limits.RequestTimeout)
	}
	if c.Limits.DefaultMaxResults < 1 {
		return fmt.Errorf("limits.default_max_results must be positive, got %d", c.Limits.DefaultMaxResults)
	}
	if c.Limits.MaxMaxResults < c.Limits.DefaultMaxResults {
		return fmt.Errorf("limits.max_max_results must be >= limits.default_max_results, got %d < %d",
			c.Limits.MaxMaxResults, c.Limits.DefaultMaxResults)
	}
	if c.Limits.MaxCandidates < 1 {
		return fmt.Errorf("limits.max_candidates must be positive, got %d", c.Limits.MaxCandidates)
	}

	if c.Cache.Enabled {
		if c.Cache.TTL <= 0 {
			return fmt.Errorf("cache.ttl must be positive, got %v", c.Cache.TTL)
		}
		if c.Cache.MaxEntries < 1 {
			return fmt.Errorf("cache.max_entries must be positive, got %d", c.Cache.MaxEntries)
		}
	}

	return nil
}

// Clone returns a deep copy of the configuration.
func (c *Config) Clone() *Config {
	providers := make([]ProviderConfig, len(c.Providers))
	copy(providers, c.Providers)

	return &Config{
		Providers: providers,
		Limits:    c.Limits,
		Cache:     c.Cache,
	}
}
