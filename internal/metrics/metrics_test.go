// NewsForge Ranking Core - Search & Recommendation Fusion Engine
// Copyright 2026 Sabq (sabq4org)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sabq4org/newsforge-ai-cms-sub005

package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordRankRequest(t *testing.T) {
	before := testutil.ToFloat64(RankRequestsTotal.WithLabelValues("ok"))
	RecordRankRequest("ok", false, 12, 25*time.Millisecond)
	after := testutil.ToFloat64(RankRequestsTotal.WithLabelValues("ok"))
	if after != before+1 {
		t.Errorf("rank_requests_total{status=ok} = %v, want %v", after, before+1)
	}
}

func TestRecordAPIRequest(t *testing.T) {
	before := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("POST", "/api/v1/rank", "200"))
	RecordAPIRequest("POST", "/api/v1/rank", 200, 10*time.Millisecond)
	after := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("POST", "/api/v1/rank", "200"))
	if after != before+1 {
		t.Errorf("api_requests_total = %v, want %v", after, before+1)
	}
}

func TestProviderOutcomeLabels(t *testing.T) {
	before := testutil.ToFloat64(ProviderOutcomesTotal.WithLabelValues("keyword", "contributed"))
	ProviderOutcomesTotal.WithLabelValues("keyword", "contributed").Inc()
	after := testutil.ToFloat64(ProviderOutcomesTotal.WithLabelValues("keyword", "contributed"))
	if after != before+1 {
		t.Errorf("provider outcome counter = %v, want %v", after, before+1)
	}
}
