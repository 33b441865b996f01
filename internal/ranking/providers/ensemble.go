// NewsForge Ranking Core - Search & Recommendation Fusion Engine
// Copyright 2026 Sabq (sabq4org)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sabq4org/newsforge-ai-cms-sub005

package providers

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/sabq4org/newsforge-ai-cms-sub005/internal/ranking"
)

// SubScore is one sub-scorer's opinion about one candidate, on the unit
// scale.
type SubScore struct {
	CandidateID string
	Score       float64
	Confidence  float64
	Reasoning   []string
}

// SubScorer is a lightweight heuristic or model inside the ensemble.
// Sub-scorers may skip candidates they have no opinion on.
type SubScorer interface {
	Name() string
	Score(ctx context.Context, candidates []ranking.CandidateItem, req ranking.Request) ([]SubScore, error)
}

// Ensemble runs several sub-scorers and fuses their output into one signal
// per candidate before the engine ever sees it: an equal-weighted average
// of sub-scores, the average of sub-confidences, and the deduplicated union
// of sub-reasoning. A candidate skipped by some sub-scorers is averaged
// over the sub-scorers that did score it.
type Ensemble struct {
	subs []SubScorer
}

// NewEnsemble creates an ensemble over the given sub-scorers. With none
// given, the default heuristic set is used.
func NewEnsemble(subs ...SubScorer) *Ensemble {
	if len(subs) == 0 {
		subs = DefaultSubScorers()
	}
	return &Ensemble{subs: subs}
}

// DefaultSubScorers returns the built-in heuristic sub-scorers.
func DefaultSubScorers() []SubScorer {
	return []SubScorer{
		CategoryAffinity{},
		QueryHistoryAffinity{},
		DepthHeuristic{},
	}
}

var _ ranking.Provider = (*Ensemble)(nil)

// Name implements ranking.Provider.
func (e *Ensemble) Name() string {
	return ranking.ProviderEnsemble
}

// Compute implements ranking.Provider. Sub-scorers run sequentially; the
// ensemble's own timeout budget covers the whole set.
func (e *Ensemble) Compute(ctx context.Context, candidates []ranking.CandidateItem, req ranking.Request) ([]ranking.SignalScore, error) {
	type accum struct {
		scoreSum float64
		confSum  float64
		count    int
		reasons  map[string]struct{}
	}
	byCandidate := make(map[string]*accum)

	for _, sub := range e.subs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		subScores, err := sub.Score(ctx, candidates, req)
		if err != nil {
			return nil, fmt.Errorf("sub-scorer %s: %w", sub.Name(), err)
		}
		for _, s := range subScores {
			a := byCandidate[s.CandidateID]
			if a == nil {
				a = &accum{reasons: make(map[string]struct{})}
				byCandidate[s.CandidateID] = a
			}
			a.scoreSum += clamp(s.Score, 0, 1)
			a.confSum += clamp(s.Confidence, 0, 1)
			a.count++
			for _, r := range s.Reasoning {
				a.reasons[r] = struct{}{}
			}
		}
	}

	scores := make([]ranking.SignalScore, 0, len(byCandidate))
	for id, a := range byCandidate {
		reasoning := make([]string, 0, len(a.reasons))
		for r := range a.reasons {
			reasoning = append(reasoning, r)
		}
		sort.Strings(reasoning)

		scores = append(scores, ranking.SignalScore{
			ProviderID:  ranking.ProviderEnsemble,
			CandidateID: id,
			RawScore:    a.scoreSum / float64(a.count),
			Scale:       ranking.ScaleUnit,
			Confidence:  a.confSum / float64(a.count),
			Reasoning:   reasoning,
		})
	}

	// Map iteration order is random; the engine sorts fused output, but
	// stable provider output keeps logs and tests sane.
	sort.Slice(scores, func(i, j int) bool {
		return scores[i].CandidateID < scores[j].CandidateID
	})
	return scores, nil
}

// CategoryAffinity scores candidates whose category matches the reader's
// preferred sections. Without user context it has no opinion.
type CategoryAffinity struct{}

func (CategoryAffinity) Name() string { return "category_affinity" }

func (CategoryAffinity) Score(ctx context.Context, candidates []ranking.CandidateItem, req ranking.Request) ([]SubScore, error) {
	if req.UserContext == nil || len(req.UserContext.PreferredCategories) == 0 {
		return nil, nil
	}
	preferred := make(map[string]struct{}, len(req.UserContext.PreferredCategories))
	for _, c := range req.UserContext.PreferredCategories {
		preferred[strings.ToLower(c)] = struct{}{}
	}

	out := make([]SubScore, 0, len(candidates))
	for _, c := range candidates {
		score := 0.0
		reasoning := []string{"outside preferred sections"}
		if _, ok := preferred[strings.ToLower(c.Category)]; ok {
			score = 1.0
			reasoning = []string{fmt.Sprintf("in preferred section %q", c.Category)}
		}
		out = append(out, SubScore{
			CandidateID: c.ID,
			Score:       score,
			Confidence:  0.6,
			Reasoning:   reasoning,
		})
	}
	return out, nil
}

// QueryHistoryAffinity scores candidates by token overlap between the
// title and the reader's recent queries. Without recent queries it has no
// opinion.
type QueryHistoryAffinity struct{}

func (QueryHistoryAffinity) Name() string { return "query_history_affinity" }

func (QueryHistoryAffinity) Score(ctx context.Context, candidates []ranking.CandidateItem, req ranking.Request) ([]SubScore, error) {
	if req.UserContext == nil || len(req.UserContext.RecentQueries) == 0 {
		return nil, nil
	}
	tokens := make(map[string]struct{})
	for _, q := range req.UserContext.RecentQueries {
		for _, tok := range strings.Fields(strings.ToLower(q)) {
			tokens[tok] = struct{}{}
		}
	}
	if len(tokens) == 0 {
		return nil, nil
	}

	out := make([]SubScore, 0, len(candidates))
	for _, c := range candidates {
		titleTokens := strings.Fields(strings.ToLower(c.Title))
		matches := 0
		for _, tok := range titleTokens {
			if _, ok := tokens[tok]; ok {
				matches++
			}
		}
		score := 0.0
		if len(titleTokens) > 0 {
			score = float64(matches) / float64(len(titleTokens))
		}
		out = append(out, SubScore{
			CandidateID: c.ID,
			Score:       score,
			Confidence:  0.5,
			Reasoning:   []string{fmt.Sprintf("%d title tokens overlap recent searches", matches)},
		})
	}
	return out, nil
}

// DepthHeuristic favors substantial articles: a longer excerpt and richer
// tagging suggest reported depth over wire-copy filler.
type DepthHeuristic struct{}

func (DepthHeuristic) Name() string { return "depth_heuristic" }

func (DepthHeuristic) Score(ctx context.Context, candidates []ranking.CandidateItem, req ranking.Request) ([]SubScore, error) {
	out := make([]SubScore, 0, len(candidates))
	for _, c := range candidates {
		excerptPart := float64(len(c.Excerpt)) / 280
		if excerptPart > 1 {
			excerptPart = 1
		}
		tagPart := float64(len(c.Tags)) / 5
		if tagPart > 1 {
			tagPart = 1
		}
		out = append(out, SubScore{
			CandidateID: c.ID,
			Score:       0.7*excerptPart + 0.3*tagPart,
			Confidence:  0.4,
			Reasoning:   []string{"editorial depth estimate"},
		})
	}
	return out, nil
}
