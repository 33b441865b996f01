// NewsForge Ranking Core - Search & Recommendation Fusion Engine
// Copyright 2026 Sabq (sabq4org)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sabq4org/newsforge-ai-cms-sub005

package validation

import (
	"strings"
	"testing"
)

type rankPayload struct {
	MaxResults int    `validate:"omitempty,min=1,max=100"`
	SortMode   string `validate:"omitempty,sortmode"`
	Query      string `validate:"max=512"`
}

func TestValidateStructPasses(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		payload rankPayload
	}{
		{name: "empty payload uses defaults", payload: rankPayload{}},
		{name: "full valid payload", payload: rankPayload{MaxResults: 20, SortMode: "date", Query: "eclipse"}},
		{name: "relevance sort", payload: rankPayload{SortMode: "relevance"}},
		{name: "popularity sort", payload: rankPayload{SortMode: "popularity"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if verr := ValidateStruct(&tt.payload); verr != nil {
				t.Errorf("ValidateStruct: %v", verr)
			}
		})
	}
}

func TestValidateStructFails(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		payload   rankPayload
		wantField string
	}{
		{name: "max results too large", payload: rankPayload{MaxResults: 500}, wantField: "MaxResults"},
		{name: "unknown sort mode", payload: rankPayload{SortMode: "freshness"}, wantField: "SortMode"},
		{name: "query too long", payload: rankPayload{Query: strings.Repeat("q", 600)}, wantField: "Query"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			verr := ValidateStruct(&tt.payload)
			if verr == nil {
				t.Fatal("expected validation failure")
			}
			found := false
			for _, fe := range verr.Errors() {
				if fe.Field == tt.wantField {
					found = true
				}
			}
			if !found {
				t.Errorf("errors %v do not mention field %s", verr.Error(), tt.wantField)
			}
		})
	}
}

func TestToAPIErrorSingleError(t *testing.T) {
	t.Parallel()

	verr := ValidateStruct(&rankPayload{MaxResults: 500})
	if verr == nil {
		t.Fatal("expected validation failure")
	}

	apiErr := verr.ToAPIError()
	if apiErr.Code != "VALIDATION_ERROR" {
		t.Errorf("code = %s, want VALIDATION_ERROR", apiErr.Code)
	}
	if apiErr.Details["field"] != "MaxResults" {
		t.Errorf("details = %v, want field MaxResults", apiErr.Details)
	}
}

func TestToAPIErrorMultipleErrors(t *testing.T) {
	t.Parallel()

	verr := ValidateStruct(&rankPayload{MaxResults: 500, SortMode: "bogus"})
	if verr == nil {
		t.Fatal("expected validation failure")
	}
	if len(verr.Errors()) != 2 {
		t.Fatalf("got %d errors, want 2", len(verr.Errors()))
	}

	apiErr := verr.ToAPIError()
	if _, ok := apiErr.Details["fields"]; !ok {
		t.Errorf("details = %v, want aggregated fields list", apiErr.Details)
	}
}
