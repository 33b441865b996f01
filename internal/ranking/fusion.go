// NewsForge Ranking Core - Search & Recommendation Fusion Engine
// Copyright 2026 Sabq (sabq4org)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sabq4org/newsforge-ai-cms-sub005

package ranking

import "github.com/rs/zerolog"

// fusedCandidate is an intermediate fusion product, before filtering and
// ranking.
type fusedCandidate struct {
	id         string
	score      float64
	confidence float64
	reasoning  []string
}

// fuseGroups combines the grouped, still-raw signal scores per candidate
// into one fused score and confidence using available-weight
// renormalization:
//
//	fused(c) = Σ_i (norm_i(c) * w_i) / Σ_i w_i
//
// summed over only the providers that returned a score for c. A candidate
// unseen by an optional provider is judged on the providers that did see it
// rather than penalized with an implicit zero. Candidates whose every signal
// is dropped during normalization are excluded entirely.
//
// Signals from providers missing from weights (disabled mid-flight or
// unknown) are skipped. Out-of-scale raw scores are dropped with a warning.
func fuseGroups(groups map[string][]SignalScore, weights map[string]float64, logger zerolog.Logger) []fusedCandidate {
	fused := make([]fusedCandidate, 0, len(groups))

	for id, signals := range groups {
		var scoreSum, confSum, weightSum float64
		var reasoning [][]string

		for _, s := range signals {
			w, ok := weights[s.ProviderID]
			if !ok || w <= 0 {
				continue
			}

			norm, conf, ok := normalizeScore(s)
			if !ok {
				logger.Warn().
					Str("provider", s.ProviderID).
					Str("candidate", s.CandidateID).
					Float64("raw_score", s.RawScore).
					Float64("scale_min", s.Scale.Min).
					Float64("scale_max", s.Scale.Max).
					Msg("dropping signal with raw score outside declared scale")
				continue
			}

			scoreSum += norm * w
			confSum += conf * w
			weightSum += w
			reasoning = append(reasoning, s.Reasoning)
		}

		// Zero surviving signals: the candidate is excluded, never
		// zero-scored by omission.
		if weightSum == 0 {
			continue
		}

		fused = append(fused, fusedCandidate{
			id:         id,
			score:      clamp01(scoreSum / weightSum),
			confidence: clamp01(confSum / weightSum),
			reasoning:  dedupeReasoning(reasoning...),
		})
	}

	return fused
}
