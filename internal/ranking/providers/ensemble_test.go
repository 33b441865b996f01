// NewsForge Ranking Core - Search & Recommendation Fusion Engine
// Copyright 2026 Sabq (sabq4org)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sabq4org/newsforge-ai-cms-sub005

package providers

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/sabq4org/newsforge-ai-cms-sub005/internal/ranking"
)

// stubScorer implements SubScorer for testing.
type stubScorer struct {
	name   string
	scores []SubScore
	err    error
}

func (s stubScorer) Name() string { return s.name }

func (s stubScorer) Score(ctx context.Context, candidates []ranking.CandidateItem, req ranking.Request) ([]SubScore, error) {
	return s.scores, s.err
}

func TestEnsembleEqualWeightAverage(t *testing.T) {
	t.Parallel()

	ens := NewEnsemble(
		stubScorer{name: "one", scores: []SubScore{
			{CandidateID: "a", Score: 0.8, Confidence: 1.0, Reasoning: []string{"strong topical fit"}},
		}},
		stubScorer{name: "two", scores: []SubScore{
			{CandidateID: "a", Score: 0.4, Confidence: 0.6, Reasoning: []string{"moderate freshness"}},
		}},
	)

	scores, err := ens.Compute(context.Background(),
		[]ranking.CandidateItem{{ID: "a"}}, ranking.Request{})
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if len(scores) != 1 {
		t.Fatalf("got %d scores, want exactly one fused signal per candidate", len(scores))
	}

	s := scores[0]
	if math.Abs(s.RawScore-0.6) > 1e-9 {
		t.Errorf("raw score = %v, want 0.6 (equal-weight average)", s.RawScore)
	}
	if math.Abs(s.Confidence-0.8) > 1e-9 {
		t.Errorf("confidence = %v, want 0.8 (average)", s.Confidence)
	}
	if len(s.Reasoning) != 2 {
		t.Errorf("reasoning = %v, want union of both sub-scorers", s.Reasoning)
	}
}

func TestEnsembleAveragesOverAvailableSubScorers(t *testing.T) {
	t.Parallel()

	// "two" skips candidate b entirely; b is averaged over "one" alone.
	ens := NewEnsemble(
		stubScorer{name: "one", scores: []SubScore{
			{CandidateID: "a", Score: 0.8, Confidence: 0.5, Reasoning: []string{"r1"}},
			{CandidateID: "b", Score: 0.3, Confidence: 0.5, Reasoning: []string{"r1"}},
		}},
		stubScorer{name: "two", scores: []SubScore{
			{CandidateID: "a", Score: 0.2, Confidence: 0.5, Reasoning: []string{"r2"}},
		}},
	)

	scores, err := ens.Compute(context.Background(),
		[]ranking.CandidateItem{{ID: "a"}, {ID: "b"}}, ranking.Request{})
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}

	byID := make(map[string]ranking.SignalScore)
	for _, s := range scores {
		byID[s.CandidateID] = s
	}
	if got := byID["a"].RawScore; math.Abs(got-0.5) > 1e-9 {
		t.Errorf("a = %v, want 0.5", got)
	}
	if got := byID["b"].RawScore; math.Abs(got-0.3) > 1e-9 {
		t.Errorf("b = %v, want 0.3 (averaged over the one sub-scorer that saw it)", got)
	}
}

func TestEnsembleDeduplicatesReasoning(t *testing.T) {
	t.Parallel()

	ens := NewEnsemble(
		stubScorer{name: "one", scores: []SubScore{
			{CandidateID: "a", Score: 0.5, Confidence: 0.5, Reasoning: []string{"recent", "popular"}},
		}},
		stubScorer{name: "two", scores: []SubScore{
			{CandidateID: "a", Score: 0.5, Confidence: 0.5, Reasoning: []string{"recent"}},
		}},
	)

	scores, err := ens.Compute(context.Background(),
		[]ranking.CandidateItem{{ID: "a"}}, ranking.Request{})
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if len(scores[0].Reasoning) != 2 {
		t.Errorf("reasoning = %v, want deduplicated union of 2", scores[0].Reasoning)
	}
}

func TestEnsembleSubScorerErrorPropagates(t *testing.T) {
	t.Parallel()

	ens := NewEnsemble(stubScorer{name: "broken", err: errors.New("model offline")})
	_, err := ens.Compute(context.Background(),
		[]ranking.CandidateItem{{ID: "a"}}, ranking.Request{})
	if err == nil {
		t.Error("expected sub-scorer error to surface as a provider failure")
	}
}

func TestEnsembleDeterministicOutput(t *testing.T) {
	t.Parallel()

	ens := NewEnsemble(stubScorer{name: "one", scores: []SubScore{
		{CandidateID: "c", Score: 0.1, Confidence: 0.5, Reasoning: []string{"r"}},
		{CandidateID: "a", Score: 0.2, Confidence: 0.5, Reasoning: []string{"r"}},
		{CandidateID: "b", Score: 0.3, Confidence: 0.5, Reasoning: []string{"r"}},
	}})

	for run := 0; run < 5; run++ {
		scores, err := ens.Compute(context.Background(), nil, ranking.Request{})
		if err != nil {
			t.Fatalf("Compute: %v", err)
		}
		if scores[0].CandidateID != "a" || scores[1].CandidateID != "b" || scores[2].CandidateID != "c" {
			t.Fatalf("run %d: output order %v not stable", run, scores)
		}
	}
}

func TestCategoryAffinity(t *testing.T) {
	t.Parallel()

	candidates := []ranking.CandidateItem{
		{ID: "a", Category: "science"},
		{ID: "b", Category: "sports"},
	}

	t.Run("no user context means no opinion", func(t *testing.T) {
		t.Parallel()
		scores, err := CategoryAffinity{}.Score(context.Background(), candidates, ranking.Request{})
		if err != nil {
			t.Fatalf("Score: %v", err)
		}
		if len(scores) != 0 {
			t.Errorf("got %d scores, want 0", len(scores))
		}
	})

	t.Run("preferred category scores full", func(t *testing.T) {
		t.Parallel()
		req := ranking.Request{UserContext: &ranking.UserContext{
			PreferredCategories: []string{"Science"},
		}}
		scores, err := CategoryAffinity{}.Score(context.Background(), candidates, req)
		if err != nil {
			t.Fatalf("Score: %v", err)
		}
		if len(scores) != 2 {
			t.Fatalf("got %d scores, want 2", len(scores))
		}
		if scores[0].Score != 1 || scores[1].Score != 0 {
			t.Errorf("scores = %v, %v, want 1 and 0", scores[0].Score, scores[1].Score)
		}
	})
}

func TestQueryHistoryAffinity(t *testing.T) {
	t.Parallel()

	candidates := []ranking.CandidateItem{
		{ID: "a", Title: "solar eclipse tonight"},
		{ID: "b", Title: "market report"},
	}
	req := ranking.Request{UserContext: &ranking.UserContext{
		RecentQueries: []string{"solar eclipse"},
	}}

	scores, err := QueryHistoryAffinity{}.Score(context.Background(), candidates, req)
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	if len(scores) != 2 {
		t.Fatalf("got %d scores, want 2", len(scores))
	}
	if scores[0].Score <= scores[1].Score {
		t.Errorf("overlap scored %v, non-overlap %v", scores[0].Score, scores[1].Score)
	}
}
