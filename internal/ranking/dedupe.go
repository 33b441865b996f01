// NewsForge Ranking Core - Search & Recommendation Fusion Engine
// Copyright 2026 Sabq (sabq4org)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sabq4org/newsforge-ai-cms-sub005

package ranking

import "sort"

// groupByCandidate groups signal scores by candidate ID. This is a pure
// grouping step ahead of fusion: individual scores are never altered, and
// duplicate observations of the same candidate (retried provider output,
// multiple providers) simply land in the same group.
func groupByCandidate(scores []SignalScore) map[string][]SignalScore {
	groups := make(map[string][]SignalScore)
	for _, s := range scores {
		groups[s.CandidateID] = append(groups[s.CandidateID], s)
	}
	return groups
}

// dedupeReasoning returns the sorted, deduplicated union of reasoning
// strings. Sorting keeps contributing signals deterministic across runs,
// since provider completion order is not.
func dedupeReasoning(groups ...[]string) []string {
	seen := make(map[string]struct{})
	for _, g := range groups {
		for _, r := range g {
			if r == "" {
				continue
			}
			seen[r] = struct{}{}
		}
	}

	out := make([]string, 0, len(seen))
	for r := range seen {
		out = append(out, r)
	}
	sort.Strings(out)
	return out
}
