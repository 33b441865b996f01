// NewsForge Ranking Core - Search & Recommendation Fusion Engine
// Copyright 2026 Sabq (sabq4org)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sabq4org/newsforge-ai-cms-sub005

package ranking

import (
	"testing"
	"time"
)

func filterFixture() ([]fusedCandidate, map[string]CandidateItem) {
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	items := map[string]CandidateItem{
		"a1": {ID: "a1", Category: "science", Author: "lina", PublishedAt: base, Popularity: Popularity{Views: 100}},
		"a2": {ID: "a2", Category: "science", Author: "omar", PublishedAt: base.Add(-72 * time.Hour), Popularity: Popularity{Views: 900}},
		"a3": {ID: "a3", Category: "sports", Author: "lina", PublishedAt: base.Add(-24 * time.Hour), Popularity: Popularity{Views: 400}},
	}
	fused := []fusedCandidate{
		{id: "a1", score: 0.9},
		{id: "a2", score: 0.7},
		{id: "a3", score: 0.8},
	}
	return fused, items
}

func TestApplyFilters(t *testing.T) {
	t.Parallel()

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		filters Filters
		wantIDs []string
	}{
		{
			name:    "no filters keeps all",
			wantIDs: []string{"a1", "a2", "a3"},
		},
		{
			name:    "category",
			filters: Filters{Category: "science"},
			wantIDs: []string{"a1", "a2"},
		},
		{
			name:    "author",
			filters: Filters{Author: "lina"},
			wantIDs: []string{"a1", "a3"},
		},
		{
			name: "date range",
			filters: Filters{DateRange: &DateRange{
				From: base.Add(-48 * time.Hour),
				To:   base.Add(time.Hour),
			}},
			wantIDs: []string{"a1", "a3"},
		},
		{
			name:    "combined filters intersect",
			filters: Filters{Category: "science", Author: "lina"},
			wantIDs: []string{"a1"},
		},
		{
			name:    "no match yields empty",
			filters: Filters{Category: "finance"},
			wantIDs: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			fused, items := filterFixture()
			got := applyFilters(fused, items, tt.filters)
			if len(got) != len(tt.wantIDs) {
				t.Fatalf("got %d candidates, want %d", len(got), len(tt.wantIDs))
			}
			for i, want := range tt.wantIDs {
				if got[i].id != want {
					t.Errorf("candidate[%d] = %s, want %s", i, got[i].id, want)
				}
			}
		})
	}
}

func TestApplyFiltersDropsMissingMetadata(t *testing.T) {
	t.Parallel()

	fused := []fusedCandidate{{id: "gone", score: 0.9}, {id: "a1", score: 0.5}}
	items := map[string]CandidateItem{"a1": {ID: "a1"}}

	got := applyFilters(fused, items, Filters{})
	if len(got) != 1 || got[0].id != "a1" {
		t.Errorf("got %+v, want only a1", got)
	}
}

func TestSortFused(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mode    SortMode
		wantIDs []string
	}{
		{name: "relevance", mode: SortRelevance, wantIDs: []string{"a1", "a3", "a2"}},
		{name: "date newest first", mode: SortDate, wantIDs: []string{"a1", "a3", "a2"}},
		{name: "popularity by views", mode: SortPopularity, wantIDs: []string{"a2", "a3", "a1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			fused, items := filterFixture()
			sortFused(fused, items, tt.mode)
			for i, want := range tt.wantIDs {
				if fused[i].id != want {
					t.Errorf("position %d = %s, want %s", i, fused[i].id, want)
				}
			}
		})
	}
}

func TestSortFusedTieBreaksByID(t *testing.T) {
	t.Parallel()

	fused := []fusedCandidate{
		{id: "z", score: 0.5},
		{id: "a", score: 0.5},
		{id: "m", score: 0.5},
	}
	items := map[string]CandidateItem{"a": {}, "m": {}, "z": {}}

	sortFused(fused, items, SortRelevance)
	if fused[0].id != "a" || fused[1].id != "m" || fused[2].id != "z" {
		t.Errorf("tied candidates ordered %s, %s, %s, want a, m, z", fused[0].id, fused[1].id, fused[2].id)
	}
}

func TestBuildResultsTruncatesAndRanks(t *testing.T) {
	t.Parallel()

	fused := []fusedCandidate{
		{id: "a1", score: 0.9, reasoning: []string{"matched title"}},
		{id: "a2", score: 0.8},
		{id: "a3", score: 0.7},
	}
	items := map[string]CandidateItem{
		"a1": {ID: "a1", Title: "first"},
		"a2": {ID: "a2", Title: "second"},
		"a3": {ID: "a3", Title: "third"},
	}

	results := buildResults(fused, items, 2)
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	for i, r := range results {
		if r.Rank != i+1 {
			t.Errorf("result %d rank = %d, want %d", i, r.Rank, i+1)
		}
	}
	if results[0].Item.Title != "first" {
		t.Errorf("item metadata not attached: %+v", results[0].Item)
	}
	if len(results[0].ContributingSignals) != 1 {
		t.Errorf("reasoning not carried through: %+v", results[0].ContributingSignals)
	}
}
