// NewsForge Ranking Core - Search & Recommendation Fusion Engine
// Copyright 2026 Sabq (sabq4org)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sabq4org/newsforge-ai-cms-sub005

package ranking

import "sort"

// applyFilters removes fused candidates that fail the request filters.
// Filtering happens strictly after fusion and does not alter the scores of
// surviving candidates. Candidates without item metadata (evicted from the
// store mid-request) are removed as well.
func applyFilters(fused []fusedCandidate, items map[string]CandidateItem, f Filters) []fusedCandidate {
	out := make([]fusedCandidate, 0, len(fused))
	for _, c := range fused {
		item, ok := items[c.id]
		if !ok {
			continue
		}
		if f.Category != "" && item.Category != f.Category {
			continue
		}
		if f.Author != "" && item.Author != f.Author {
			continue
		}
		if f.DateRange != nil && !f.DateRange.Contains(item.PublishedAt) {
			continue
		}
		out = append(out, c)
	}
	return out
}

// sortFused orders fused candidates by the requested sort mode. Every mode
// tie-breaks by candidate ID ascending so that identical inputs always
// produce an identical total order.
func sortFused(fused []fusedCandidate, items map[string]CandidateItem, mode SortMode) {
	sort.Slice(fused, func(i, j int) bool {
		a, b := fused[i], fused[j]

		switch mode {
		case SortDate:
			ta, tb := items[a.id].PublishedAt, items[b.id].PublishedAt
			if !ta.Equal(tb) {
				return ta.After(tb)
			}
		case SortPopularity:
			va, vb := items[a.id].Popularity.Views, items[b.id].Popularity.Views
			if va != vb {
				return va > vb
			}
		default: // SortRelevance
			if a.score != b.score {
				return a.score > b.score
			}
		}

		return a.id < b.id
	})
}

// buildResults truncates the sorted fused candidates to maxResults and
// assigns dense 1-based ranks.
func buildResults(fused []fusedCandidate, items map[string]CandidateItem, maxResults int) []FusedResult {
	if len(fused) > maxResults {
		fused = fused[:maxResults]
	}

	results := make([]FusedResult, len(fused))
	for i, c := range fused {
		results[i] = FusedResult{
			CandidateID:         c.id,
			FusedScore:          c.score,
			Confidence:          c.confidence,
			ContributingSignals: c.reasoning,
			Rank:                i + 1,
			Item:                items[c.id],
		}
	}
	return results
}
