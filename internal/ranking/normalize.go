// NewsForge Ranking Core - Search & Recommendation Fusion Engine
// Copyright 2026 Sabq (sabq4org)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sabq4org/newsforge-ai-cms-sub005

package ranking

// normalizeScore maps a signal's raw score from its declared scale onto
// [0, 1]. A raw score outside the declared scale is rejected: the caller
// drops the signal with a warning and the request continues. Confidence is
// clamped into [0, 1] rather than rejected, since a slightly out-of-range
// confidence from an external service is recoverable.
func normalizeScore(s SignalScore) (norm, conf float64, ok bool) {
	if s.Scale.Max <= s.Scale.Min {
		return 0, 0, false
	}
	if !s.Scale.Contains(s.RawScore) {
		return 0, 0, false
	}

	norm = (s.RawScore - s.Scale.Min) / (s.Scale.Max - s.Scale.Min)
	conf = clamp01(s.Confidence)
	return norm, conf, true
}

// clamp01 clamps v into [0, 1].
func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
