// NewsForge Ranking Core - Search & Recommendation Fusion Engine
// Copyright 2026 Sabq (sabq4org)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sabq4org/newsforge-ai-cms-sub005

package ranking

import (
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()

	t.Run("validates", func(t *testing.T) {
		if err := cfg.Validate(); err != nil {
			t.Errorf("default config invalid: %v", err)
		}
	})

	t.Run("all built-in providers enabled", func(t *testing.T) {
		ids := cfg.EnabledProviderIDs()
		want := []string{ProviderKeyword, ProviderSemantic, ProviderEnsemble, ProviderTrend}
		if len(ids) != len(want) {
			t.Fatalf("enabled providers = %v, want %v", ids, want)
		}
		for i := range want {
			if ids[i] != want[i] {
				t.Errorf("provider[%d] = %s, want %s", i, ids[i], want[i])
			}
		}
	})

	t.Run("keyword weighted highest", func(t *testing.T) {
		kw, _ := cfg.ProviderConfig(ProviderKeyword)
		for _, pc := range cfg.Providers {
			if pc.ProviderID != ProviderKeyword && pc.Weight > kw.Weight {
				t.Errorf("provider %s weight %f exceeds keyword %f", pc.ProviderID, pc.Weight, kw.Weight)
			}
		}
	})

	t.Run("provider timeouts fit the request deadline", func(t *testing.T) {
		for _, pc := range cfg.Providers {
			if pc.Timeout >= cfg.Limits.RequestTimeout {
				t.Errorf("provider %s timeout %v >= request timeout %v", pc.ProviderID, pc.Timeout, cfg.Limits.RequestTimeout)
			}
		}
	})
}

func TestConfigValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:   "valid default",
			mutate: func(c *Config) {},
		},
		{
			name: "duplicate provider id",
			mutate: func(c *Config) {
				c.Providers = append(c.Providers, c.Providers[0])
			},
			wantErr: true,
		},
		{
			name: "empty provider id",
			mutate: func(c *Config) {
				c.Providers[0].ProviderID = ""
			},
			wantErr: true,
		},
		{
			name: "enabled provider with zero weight",
			mutate: func(c *Config) {
				c.Providers[0].Weight = 0
			},
			wantErr: true,
		},
		{
			name: "disabled provider may carry zero weight",
			mutate: func(c *Config) {
				c.Providers[0].Enabled = false
				c.Providers[0].Weight = 0
			},
		},
		{
			name: "enabled provider with zero timeout",
			mutate: func(c *Config) {
				c.Providers[0].Timeout = 0
			},
			wantErr: true,
		},
		{
			name: "zero request timeout",
			mutate: func(c *Config) {
				c.Limits.RequestTimeout = 0
			},
			wantErr: true,
		},
		{
			name: "max results cap below default",
			mutate: func(c *Config) {
				c.Limits.MaxMaxResults = c.Limits.DefaultMaxResults - 1
			},
			wantErr: true,
		},
		{
			name: "zero cache ttl while enabled",
			mutate: func(c *Config) {
				c.Cache.TTL = 0
			},
			wantErr: true,
		},
		{
			name: "disabled cache skips cache checks",
			mutate: func(c *Config) {
				c.Cache.Enabled = false
				c.Cache.TTL = 0
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfigClone(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	clone := cfg.Clone()

	clone.Providers[0].Weight = 99
	clone.Limits.RequestTimeout = time.Hour

	if cfg.Providers[0].Weight == 99 {
		t.Error("clone shares provider slice with original")
	}
	if cfg.Limits.RequestTimeout == time.Hour {
		t.Error("clone shares limits with original")
	}
}

func TestProviderConfigLookup(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	if _, ok := cfg.ProviderConfig(ProviderSemantic); !ok {
		t.Error("semantic provider missing from default config")
	}
	if _, ok := cfg.ProviderConfig("nope"); ok {
		t.Error("lookup of unknown provider succeeded")
	}
}
