// NewsForge Ranking Core - Search & Recommendation Fusion Engine
// Copyright 2026 Sabq (sabq4org)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sabq4org/newsforge-ai-cms-sub005

package providers

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/sabq4org/newsforge-ai-cms-sub005/internal/ranking"
)

// mockRelevanceClient implements RelevanceClient for testing.
type mockRelevanceClient struct {
	entries []RelevanceScore
	err     error
}

func (m *mockRelevanceClient) Relevance(ctx context.Context, query string, candidates []ranking.CandidateItem, user *ranking.UserContext) ([]RelevanceScore, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.entries, nil
}

func TestSemanticPassesThroughValidEntries(t *testing.T) {
	t.Parallel()

	client := &mockRelevanceClient{entries: []RelevanceScore{
		{CandidateID: "a", Score: 0.82, Confidence: 0.9, Reasoning: []string{"embedding similarity"}},
	}}
	sem := NewSemantic(client, zerolog.Nop())

	scores, err := sem.Compute(context.Background(),
		[]ranking.CandidateItem{{ID: "a"}},
		ranking.Request{QueryText: "q"})
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if len(scores) != 1 {
		t.Fatalf("got %d scores, want 1", len(scores))
	}
	if scores[0].RawScore != 0.82 || scores[0].Confidence != 0.9 {
		t.Errorf("score = %+v, want passthrough of valid entry", scores[0])
	}
	if scores[0].Scale != ranking.ScaleUnit {
		t.Errorf("scale = %+v, want unit", scores[0].Scale)
	}
}

func TestSemanticDropsMalformedEntries(t *testing.T) {
	t.Parallel()

	client := &mockRelevanceClient{entries: []RelevanceScore{
		{CandidateID: "", Score: 0.5, Confidence: 0.9},
		{CandidateID: "unknown", Score: 0.5, Confidence: 0.9},
		{CandidateID: "a", Score: 0.7, Confidence: 0.9},
	}}
	sem := NewSemantic(client, zerolog.Nop())

	scores, err := sem.Compute(context.Background(),
		[]ranking.CandidateItem{{ID: "a"}},
		ranking.Request{QueryText: "q"})
	if err != nil {
		t.Fatalf("malformed entries must not abort the request: %v", err)
	}
	if len(scores) != 1 || scores[0].CandidateID != "a" {
		t.Errorf("scores = %+v, want only the valid entry", scores)
	}
}

func TestSemanticClampsOutOfRangeScores(t *testing.T) {
	t.Parallel()

	client := &mockRelevanceClient{entries: []RelevanceScore{
		{CandidateID: "a", Score: 1.8, Confidence: 2.0},
		{CandidateID: "b", Score: -0.4, Confidence: -1.0},
	}}
	sem := NewSemantic(client, zerolog.Nop())

	scores, err := sem.Compute(context.Background(),
		[]ranking.CandidateItem{{ID: "a"}, {ID: "b"}},
		ranking.Request{QueryText: "q"})
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if scores[0].RawScore != 1 || scores[0].Confidence != 1 {
		t.Errorf("entry a = %+v, want clamped to 1", scores[0])
	}
	if scores[1].RawScore != 0 || scores[1].Confidence != 0 {
		t.Errorf("entry b = %+v, want clamped to 0", scores[1])
	}
}

func TestSemanticServiceErrorPropagates(t *testing.T) {
	t.Parallel()

	client := &mockRelevanceClient{err: errors.New("circuit open")}
	sem := NewSemantic(client, zerolog.Nop())

	_, err := sem.Compute(context.Background(),
		[]ranking.CandidateItem{{ID: "a"}},
		ranking.Request{QueryText: "q"})
	if err == nil {
		t.Error("expected service error to propagate to the engine")
	}
}

func TestSemanticFillsMissingReasoning(t *testing.T) {
	t.Parallel()

	client := &mockRelevanceClient{entries: []RelevanceScore{
		{CandidateID: "a", Score: 0.5, Confidence: 0.8},
	}}
	sem := NewSemantic(client, zerolog.Nop())

	scores, err := sem.Compute(context.Background(),
		[]ranking.CandidateItem{{ID: "a"}},
		ranking.Request{QueryText: "q"})
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if len(scores[0].Reasoning) == 0 {
		t.Error("score emitted without reasoning")
	}
}
