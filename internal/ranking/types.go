// NewsForge Ranking Core - Search & Recommendation Fusion Engine
// Copyright 2026 Sabq (sabq4org)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sabq4org/newsforge-ai-cms-sub005

package ranking

import (
	"context"
	"time"
)

// Scale declares the numeric range of a provider's raw scores.
// Raw scores are mapped from this range onto [0, 1] before fusion.
type Scale struct {
	// Min is the lowest valid raw score.
	Min float64 `json:"min"`

	// Max is the highest valid raw score. Must be greater than Min.
	Max float64 `json:"max"`
}

// Common declared scales.
var (
	// ScaleUnit is the identity scale; raw scores are already in [0, 1].
	ScaleUnit = Scale{Min: 0, Max: 1}

	// ScalePercent is a 0-100 scale, e.g. keyword field-weight sums.
	ScalePercent = Scale{Min: 0, Max: 100}
)

// Contains reports whether a raw score lies within the declared scale.
func (s Scale) Contains(raw float64) bool {
	return raw >= s.Min && raw <= s.Max
}

// Popularity holds engagement counters for a candidate item.
type Popularity struct {
	// Views is the total view count.
	Views int64 `json:"views"`

	// Likes is the total like count.
	Likes int64 `json:"likes"`

	// Shares is the total share count.
	Shares int64 `json:"shares"`
}

// CandidateItem is a content item under consideration for ranking.
// Items are owned by the content store and read-only to this package.
type CandidateItem struct {
	// ID is the unique content identifier.
	ID string `json:"id"`

	// Title is the article headline.
	Title string `json:"title"`

	// Excerpt is the article summary or lead paragraph.
	Excerpt string `json:"excerpt"`

	// Category is the section the article belongs to.
	Category string `json:"category"`

	// Author is the byline.
	Author string `json:"author"`

	// PublishedAt is the publication timestamp.
	PublishedAt time.Time `json:"published_at"`

	// Popularity holds engagement counters.
	Popularity Popularity `json:"popularity"`

	// Tags is a slice of editorial tags.
	Tags []string `json:"tags,omitempty"`
}

// SignalScore is one provider's opinion about one candidate: a raw score on
// the provider's declared scale, a confidence in [0, 1], and human-readable
// reasoning. Scores are created per request and discarded after fusion.
type SignalScore struct {
	// ProviderID identifies the provider that produced the score.
	ProviderID string `json:"provider_id"`

	// CandidateID identifies the scored candidate.
	CandidateID string `json:"candidate_id"`

	// RawScore is the score on the provider's declared scale.
	RawScore float64 `json:"raw_score"`

	// Scale is the declared range of RawScore.
	Scale Scale `json:"scale"`

	// Confidence is the provider's confidence in this score (0-1).
	Confidence float64 `json:"confidence"`

	// Reasoning lists human-readable explanations for the score.
	// Explainability is mandatory: providers must populate it for every score.
	Reasoning []string `json:"reasoning"`
}

// UserContext carries the explicit personalization context for a request.
// It is passed in the request rather than pulled from ambient state.
type UserContext struct {
	// UserID identifies the reader, if known.
	UserID string `json:"user_id,omitempty"`

	// PreferredCategories lists sections the reader engages with most.
	PreferredCategories []string `json:"preferred_categories,omitempty"`

	// RecentQueries lists the reader's recent search terms.
	RecentQueries []string `json:"recent_queries,omitempty"`
}

// DateRange bounds candidate publication timestamps, inclusive.
// A zero From or To leaves that side unbounded.
type DateRange struct {
	From time.Time `json:"from,omitempty"`
	To   time.Time `json:"to,omitempty"`
}

// Contains reports whether t falls within the range.
func (r DateRange) Contains(t time.Time) bool {
	if !r.From.IsZero() && t.Before(r.From) {
		return false
	}
	if !r.To.IsZero() && t.After(r.To) {
		return false
	}
	return true
}

// Filters narrows the fused result set. Filters apply strictly after fusion
// and never alter the scores of candidates that remain.
type Filters struct {
	// Category keeps only candidates in this category when non-empty.
	Category string `json:"category,omitempty"`

	// Author keeps only candidates with this byline when non-empty.
	Author string `json:"author,omitempty"`

	// DateRange keeps only candidates published within the range when set.
	DateRange *DateRange `json:"date_range,omitempty"`
}

// SortMode specifies the ordering of fused results.
type SortMode int

const (
	// SortRelevance orders by fused score descending.
	SortRelevance SortMode = iota
	// SortDate orders by publication time descending.
	SortDate
	// SortPopularity orders by view count descending.
	SortPopularity
)

// String returns the wire name of the sort mode.
func (m SortMode) String() string {
	switch m {
	case SortRelevance:
		return "relevance"
	case SortDate:
		return "date"
	case SortPopularity:
		return "popularity"
	default:
		return "unknown"
	}
}

// ParseSortMode maps a wire name to a SortMode.
// Returns false for unknown names.
func ParseSortMode(s string) (SortMode, bool) {
	switch s {
	case "relevance", "":
		return SortRelevance, true
	case "date":
		return SortDate, true
	case "popularity":
		return SortPopularity, true
	default:
		return SortRelevance, false
	}
}

// MarshalJSON encodes the sort mode as its wire name.
func (m SortMode) MarshalJSON() ([]byte, error) {
	return []byte(`"` + m.String() + `"`), nil
}

// UnmarshalJSON decodes a sort mode from its wire name.
// Unknown names are preserved as SortRelevance and rejected later by
// request validation, so decoding itself never fails the request early.
func (m *SortMode) UnmarshalJSON(data []byte) error {
	name := string(data)
	if len(name) >= 2 && name[0] == '"' {
		name = name[1 : len(name)-1]
	}
	mode, ok := ParseSortMode(name)
	if !ok {
		*m = sortModeInvalid
		return nil
	}
	*m = mode
	return nil
}

// sortModeInvalid marks an unrecognized wire value; rejected by Validate.
const sortModeInvalid SortMode = -1

// Request is a ranking request. Everything it produces is request-scoped
// and ephemeral.
type Request struct {
	// QueryText is the free-text search query, if any.
	QueryText string `json:"query_text,omitempty"`

	// UserContext is the explicit personalization context, if any.
	UserContext *UserContext `json:"user_context,omitempty"`

	// Filters narrows the fused result set.
	Filters Filters `json:"filters,omitempty"`

	// SortMode selects the result ordering. Defaults to relevance.
	SortMode SortMode `json:"sort_mode,omitempty"`

	// MaxResults caps the number of returned results. Must be positive.
	MaxResults int `json:"max_results"`

	// RequestID is a unique identifier for tracing.
	RequestID string `json:"request_id,omitempty"`
}

// FusedResult is one ranked candidate after fusion.
type FusedResult struct {
	// CandidateID identifies the candidate.
	CandidateID string `json:"candidate_id"`

	// FusedScore is the weighted combination of normalized signals (0-1).
	FusedScore float64 `json:"fused_score"`

	// Confidence is the weighted combination of signal confidences (0-1).
	Confidence float64 `json:"confidence"`

	// ContributingSignals is the deduplicated union of reasoning strings
	// from every provider that contributed to this candidate's score.
	ContributingSignals []string `json:"contributing_signals"`

	// Rank is the 1-based dense position in the final ordering.
	Rank int `json:"rank"`

	// Item is the candidate metadata, echoed for the caller's convenience.
	Item CandidateItem `json:"item"`
}

// Status reports how many enabled providers contributed to a response.
type Status int

const (
	// StatusOK means every enabled provider contributed signals.
	StatusOK Status = iota
	// StatusPartial means at least one but not all providers contributed.
	StatusPartial
	// StatusNoSignals means no provider produced any signal.
	StatusNoSignals
)

// String returns the wire name of the status.
func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusPartial:
		return "partial"
	case StatusNoSignals:
		return "no_signals_available"
	default:
		return "unknown"
	}
}

// MarshalJSON encodes the status as its wire name.
func (s Status) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

// Response is the outcome of one ranking request.
type Response struct {
	// Results is the ordered, truncated result list.
	Results []FusedResult `json:"results"`

	// TotalCandidates is the number of fused candidates before filtering,
	// i.e. every candidate that received at least one signal.
	TotalCandidates int `json:"total_candidates"`

	// MatchedCandidates is the number of fused candidates that survived
	// filtering, before truncation. Callers paginate against this.
	MatchedCandidates int `json:"matched_candidates"`

	// Status reports provider coverage for this response.
	Status Status `json:"status"`

	// Metadata contains timing and diagnostic information.
	Metadata ResponseMetadata `json:"metadata"`
}

// ResponseMetadata contains timing and diagnostic information.
type ResponseMetadata struct {
	// RequestID is the unique request identifier.
	RequestID string `json:"request_id"`

	// ProvidersUsed lists the providers that contributed signals.
	ProvidersUsed []string `json:"providers_used"`

	// LatencyMS is the total ranking latency in milliseconds.
	LatencyMS int64 `json:"latency_ms"`

	// CacheHit indicates whether the result was served from cache.
	CacheHit bool `json:"cache_hit"`

	// Timestamp is when the response was generated.
	Timestamp time.Time `json:"timestamp"`
}

// Provider computes relevance signals for a candidate set.
//
// Implementations must be pure functions of (candidates, request): no shared
// state with other providers, no mutation of the candidate slice, and a
// reasoning entry for every score they emit. Compute must honor context
// cancellation; the engine bounds each call with the provider's configured
// timeout and the global request deadline.
type Provider interface {
	// Name returns the provider identifier (e.g. "keyword", "trend").
	Name() string

	// Compute scores the given candidates for the request.
	// A provider that evaluated a candidate and found no evidence returns an
	// explicit zero score for it rather than omitting it; omission means the
	// provider has no opinion and the candidate is judged on the remaining
	// providers only.
	Compute(ctx context.Context, candidates []CandidateItem, req Request) ([]SignalScore, error)
}

// Metrics is a snapshot of engine counters for observability.
type Metrics struct {
	// RequestCount is the total number of ranking requests.
	RequestCount int64 `json:"request_count"`

	// CacheHits is the number of cache hits.
	CacheHits int64 `json:"cache_hits"`

	// CacheMisses is the number of cache misses.
	CacheMisses int64 `json:"cache_misses"`

	// CoalescedRequests is the number of requests served by joining an
	// in-flight identical computation.
	CoalescedRequests int64 `json:"coalesced_requests"`

	// ProviderFailures counts failed or timed-out provider calls by provider.
	ProviderFailures map[string]int64 `json:"provider_failures"`

	// NoSignalResponses counts responses with no contributing provider.
	NoSignalResponses int64 `json:"no_signal_responses"`
}
