// NewsForge Ranking Core - Search & Recommendation Fusion Engine
// Copyright 2026 Sabq (sabq4org)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sabq4org/newsforge-ai-cms-sub005

// Package ranking implements the signal-fusion engine behind unified search
// and recommendation ranking.
//
// # Architecture
//
// Independent signal providers score a shared candidate pool concurrently:
//
//   - Keyword: weighted field matching against the query text
//   - Semantic: relevance scores from an external similarity service
//   - Ensemble: nested fusion of lightweight heuristic sub-scorers
//   - Trend: recency decay combined with engagement velocity
//
// Each provider emits raw scores on its own declared scale. The engine
// normalizes every score to [0, 1], groups signals by candidate, and fuses
// them with weighted averaging over the providers that actually scored each
// candidate. A candidate scored by only two of four providers is averaged
// over those two providers' weights, never penalized with implicit zeros.
//
// # Failure Semantics
//
// Providers run under individual timeouts inside a global request deadline.
// A provider that errors, times out, or returns nothing is skipped and the
// response status degrades from "ok" to "partial", or to
// "no_signals_available" when nothing contributed. The only hard error a
// caller sees is an invalid request.
//
// # Caching
//
// Responses are cached under a fingerprint of the request inputs, the
// enabled provider set, and the content-store version. Identical concurrent
// requests coalesce onto a single in-flight computation; a content-store
// version change invalidates the cache wholesale.
//
// # Usage
//
//	cfg := ranking.DefaultConfig()
//	engine, err := ranking.NewEngine(cfg, store, logger)
//
//	engine.RegisterProvider(providers.NewKeyword())
//	engine.RegisterProvider(providers.NewTrend(time.Now))
//
//	resp, err := engine.Rank(ctx, ranking.Request{
//	    QueryText:  "solar eclipse",
//	    MaxResults: 20,
//	})
//
// # Thread Safety
//
// The engine is safe for concurrent use. Provider registration and ranking
// may interleave; configuration is immutable after construction.
package ranking
