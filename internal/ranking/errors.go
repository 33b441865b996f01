// NewsForge Ranking Core - Search & Recommendation Fusion Engine
// Copyright 2026 Sabq (sabq4org)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sabq4org/newsforge-ai-cms-sub005

package ranking

import "errors"

// Sentinel errors for the ranking engine.
//
// ErrInvalidRequest is the only error a caller sees as a hard failure; every
// other condition degrades toward fewer signals. Provider timeouts and errors
// are absorbed per provider, and a total absence of signals is reported as a
// StatusNoSignals response, not an error.
var (
	// ErrInvalidRequest indicates a request rejected before any provider ran:
	// non-positive max results, unknown sort mode, or a malformed filter.
	ErrInvalidRequest = errors.New("invalid ranking request")

	// ErrNoProviders indicates the engine has no enabled providers at all.
	// This is a configuration defect, not a per-request condition.
	ErrNoProviders = errors.New("no enabled signal providers")
)
