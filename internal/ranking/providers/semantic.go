// NewsForge Ranking Core - Search & Recommendation Fusion Engine
// Copyright 2026 Sabq (sabq4org)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sabq4org/newsforge-ai-cms-sub005

package providers

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/sabq4org/newsforge-ai-cms-sub005/internal/ranking"
)

// RelevanceScore is one entry returned by the external relevance service.
type RelevanceScore struct {
	CandidateID string   `json:"candidate_id"`
	Score       float64  `json:"score"`
	Confidence  float64  `json:"confidence"`
	Reasoning   []string `json:"reasoning,omitempty"`
}

// RelevanceClient scores candidates against a query using an external
// similarity service. Implementations own transport, retries, and breaker
// behavior; the provider only consumes the scored entries.
type RelevanceClient interface {
	Relevance(ctx context.Context, query string, candidates []ranking.CandidateItem, user *ranking.UserContext) ([]RelevanceScore, error)
}

// Semantic delegates scoring to an external relevance service and acts as
// the validation boundary for whatever comes back: unknown candidate IDs
// and empty entries dropped with a warning, scores clamped to the unit
// scale. A malformed entry never aborts the request.
type Semantic struct {
	client RelevanceClient
	logger zerolog.Logger
}

// NewSemantic creates the semantic relevance provider.
func NewSemantic(client RelevanceClient, logger zerolog.Logger) *Semantic {
	return &Semantic{
		client: client,
		logger: logger.With().Str("provider", ranking.ProviderSemantic).Logger(),
	}
}

var _ ranking.Provider = (*Semantic)(nil)

// Name implements ranking.Provider.
func (s *Semantic) Name() string {
	return ranking.ProviderSemantic
}

// Compute implements ranking.Provider.
func (s *Semantic) Compute(ctx context.Context, candidates []ranking.CandidateItem, req ranking.Request) ([]ranking.SignalScore, error) {
	if len(candidates) == 0 {
		return nil, nil
	}

	entries, err := s.client.Relevance(ctx, req.QueryText, candidates, req.UserContext)
	if err != nil {
		return nil, fmt.Errorf("relevance service: %w", err)
	}

	known := make(map[string]struct{}, len(candidates))
	for _, c := range candidates {
		known[c.ID] = struct{}{}
	}

	scores := make([]ranking.SignalScore, 0, len(entries))
	for _, e := range entries {
		if e.CandidateID == "" {
			s.logger.Warn().Msg("Dropping relevance entry with empty candidate ID")
			continue
		}
		if _, ok := known[e.CandidateID]; !ok {
			s.logger.Warn().
				Str("candidate", e.CandidateID).
				Msg("Dropping relevance entry for candidate outside the request pool")
			continue
		}

		raw := e.Score
		if raw < ranking.ScaleUnit.Min || raw > ranking.ScaleUnit.Max {
			s.logger.Warn().
				Str("candidate", e.CandidateID).
				Float64("score", raw).
				Msg("Clamping out-of-range relevance score")
			raw = clamp(raw, ranking.ScaleUnit.Min, ranking.ScaleUnit.Max)
		}

		reasoning := e.Reasoning
		if len(reasoning) == 0 {
			reasoning = []string{"semantic similarity to query"}
		}

		scores = append(scores, ranking.SignalScore{
			ProviderID:  ranking.ProviderSemantic,
			CandidateID: e.CandidateID,
			RawScore:    raw,
			Scale:       ranking.ScaleUnit,
			Confidence:  clamp(e.Confidence, 0, 1),
			Reasoning:   reasoning,
		})
	}
	return scores, nil
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
