// NewsForge Ranking Core - Search & Recommendation Fusion Engine
// Copyright 2026 Sabq (sabq4org)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sabq4org/newsforge-ai-cms-sub005

// Package providers contains the built-in signal providers for the ranking
// engine: keyword field matching, semantic relevance via an external
// service, a nested heuristic ensemble, and trend scoring.
//
// Each provider is an independent ranking.Provider implementation with no
// shared state. Providers declare their own raw score scale and attach
// reasoning strings to every score they emit; the engine normalizes and
// fuses from there.
package providers
