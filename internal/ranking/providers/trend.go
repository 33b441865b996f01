// NewsForge Ranking Core - Search & Recommendation Fusion Engine
// Copyright 2026 Sabq (sabq4org)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sabq4org/newsforge-ai-cms-sub005

package providers

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/sabq4org/newsforge-ai-cms-sub005/internal/ranking"
)

const (
	// trendHalfLife is the recency half-life: an article loses half its
	// recency component every 24 hours.
	trendHalfLife = 24 * time.Hour

	// trendMinAge floors the age used for velocity so a just-published
	// article does not divide by a near-zero interval.
	trendMinAge = time.Hour
)

// Trend scores candidates by recency and engagement velocity: an
// exponential decay on article age multiplied by the candidate's engagement
// rate normalized against the hottest candidate in the pool. Scores are on
// the unit scale.
type Trend struct {
	now func() time.Time
}

// NewTrend creates the trend provider. The clock is injectable for tests;
// pass nil for the real clock.
func NewTrend(now func() time.Time) *Trend {
	if now == nil {
		now = time.Now
	}
	return &Trend{now: now}
}

var _ ranking.Provider = (*Trend)(nil)

// Name implements ranking.Provider.
func (t *Trend) Name() string {
	return ranking.ProviderTrend
}

// Compute implements ranking.Provider.
func (t *Trend) Compute(ctx context.Context, candidates []ranking.CandidateItem, req ranking.Request) ([]ranking.SignalScore, error) {
	if len(candidates) == 0 {
		return nil, nil
	}
	now := t.now()

	// Velocity is normalized against the pool maximum, so it is computed in
	// a first pass before any score is emitted.
	velocities := make([]float64, len(candidates))
	var maxVelocity float64
	for i, c := range candidates {
		velocities[i] = engagementVelocity(c, now)
		if velocities[i] > maxVelocity {
			maxVelocity = velocities[i]
		}
	}

	scores := make([]ranking.SignalScore, 0, len(candidates))
	for i, c := range candidates {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		decay := recencyDecay(now.Sub(c.PublishedAt))
		velocity := 0.0
		if maxVelocity > 0 {
			velocity = velocities[i] / maxVelocity
		}
		raw := decay * velocity

		scores = append(scores, ranking.SignalScore{
			ProviderID:  ranking.ProviderTrend,
			CandidateID: c.ID,
			RawScore:    raw,
			Scale:       ranking.ScaleUnit,
			Confidence:  trendConfidence(c),
			Reasoning: []string{
				fmt.Sprintf("recency decay %.2f at age %s", decay, now.Sub(c.PublishedAt).Round(time.Minute)),
				fmt.Sprintf("engagement velocity %.2f of pool maximum", velocity),
			},
		})
	}
	return scores, nil
}

// recencyDecay returns exp-decay in (0, 1] with trendHalfLife.
// Future publication timestamps clamp to 1.
func recencyDecay(age time.Duration) float64 {
	if age <= 0 {
		return 1
	}
	return math.Exp(-math.Ln2 * age.Hours() / trendHalfLife.Hours())
}

// engagementVelocity is weighted engagement per hour of age. Shares signal
// stronger intent than likes, likes stronger than views.
func engagementVelocity(c ranking.CandidateItem, now time.Time) float64 {
	age := now.Sub(c.PublishedAt)
	if age < trendMinAge {
		age = trendMinAge
	}
	engagement := float64(c.Popularity.Views) +
		2*float64(c.Popularity.Likes) +
		3*float64(c.Popularity.Shares)
	return engagement / age.Hours()
}

// trendConfidence grows with sample size: engagement counters over tiny
// audiences are noisy.
func trendConfidence(c ranking.CandidateItem) float64 {
	views := float64(c.Popularity.Views)
	// Saturates around a few thousand views.
	conf := 0.4 + 0.6*(views/(views+1000))
	if conf > 1 {
		conf = 1
	}
	return conf
}
