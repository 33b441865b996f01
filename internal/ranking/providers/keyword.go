// NewsForge Ranking Core - Search & Recommendation Fusion Engine
// Copyright 2026 Sabq (sabq4org)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sabq4org/newsforge-ai-cms-sub005

package providers

import (
	"context"
	"fmt"
	"strings"

	"github.com/sabq4org/newsforge-ai-cms-sub005/internal/ranking"
)

// Field weights for keyword matching. A match in the title dominates;
// byline matches barely register. The sum is capped at 100, the declared
// scale maximum.
const (
	keywordWeightTitle    = 50.0
	keywordWeightExcerpt  = 30.0
	keywordWeightTags     = 20.0
	keywordWeightCategory = 15.0
	keywordWeightAuthor   = 10.0

	keywordScoreCap = 100.0
)

// Keyword scores candidates by case-insensitive substring matching across
// weighted fields. It scores every candidate it is given, emitting an
// explicit zero when nothing matches: reporting "no evidence" is this
// provider's job, omission is not.
type Keyword struct{}

// NewKeyword creates the keyword match provider.
func NewKeyword() *Keyword {
	return &Keyword{}
}

var _ ranking.Provider = (*Keyword)(nil)

// Name implements ranking.Provider.
func (k *Keyword) Name() string {
	return ranking.ProviderKeyword
}

// Compute implements ranking.Provider. With no query text the provider has
// no opinion and returns no signals.
func (k *Keyword) Compute(ctx context.Context, candidates []ranking.CandidateItem, req ranking.Request) ([]ranking.SignalScore, error) {
	query := strings.ToLower(strings.TrimSpace(req.QueryText))
	if query == "" {
		return nil, nil
	}

	scores := make([]ranking.SignalScore, 0, len(candidates))
	for _, c := range candidates {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		raw, reasoning := scoreFields(c, query)
		if raw > keywordScoreCap {
			raw = keywordScoreCap
		}
		if len(reasoning) == 0 {
			reasoning = []string{"no keyword match"}
		}

		scores = append(scores, ranking.SignalScore{
			ProviderID:  ranking.ProviderKeyword,
			CandidateID: c.ID,
			RawScore:    raw,
			Scale:       ranking.ScalePercent,
			Confidence:  keywordConfidence(raw),
			Reasoning:   reasoning,
		})
	}
	return scores, nil
}

// scoreFields sums the weights of fields containing the query.
func scoreFields(c ranking.CandidateItem, query string) (float64, []string) {
	var raw float64
	var reasoning []string

	if strings.Contains(strings.ToLower(c.Title), query) {
		raw += keywordWeightTitle
		reasoning = append(reasoning, "matched title")
	}
	if strings.Contains(strings.ToLower(c.Excerpt), query) {
		raw += keywordWeightExcerpt
		reasoning = append(reasoning, "matched excerpt")
	}
	for _, tag := range c.Tags {
		if strings.Contains(strings.ToLower(tag), query) {
			raw += keywordWeightTags
			reasoning = append(reasoning, fmt.Sprintf("matched tag %q", tag))
			break
		}
	}
	if strings.Contains(strings.ToLower(c.Category), query) {
		raw += keywordWeightCategory
		reasoning = append(reasoning, "matched category")
	}
	if strings.Contains(strings.ToLower(c.Author), query) {
		raw += keywordWeightAuthor
		reasoning = append(reasoning, "matched author")
	}
	return raw, reasoning
}

// keywordConfidence maps the raw score to a confidence. Exact field matches
// are strong evidence; a zero score is a confident "no match", not doubt.
func keywordConfidence(raw float64) float64 {
	if raw == 0 {
		return 0.9
	}
	return 0.7 + 0.3*(raw/keywordScoreCap)
}
