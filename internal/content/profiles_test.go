// NewsForge Ranking Core - Search & Recommendation Fusion Engine
// Copyright 2026 Sabq (sabq4org)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sabq4org/newsforge-ai-cms-sub005

package content

import (
	"context"
	"testing"

	"github.com/sabq4org/newsforge-ai-cms-sub005/internal/ranking"
)

func TestProfileStoreRoundTrip(t *testing.T) {
	t.Parallel()

	store := NewMemoryProfileStore()
	err := store.Upsert(ranking.UserContext{
		UserID:              "u7",
		PreferredCategories: []string{"science"},
		RecentQueries:       []string{"solar eclipse"},
	})
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	profile, ok := store.Profile(context.Background(), "u7")
	if !ok {
		t.Fatal("profile not found")
	}
	if len(profile.PreferredCategories) != 1 || profile.PreferredCategories[0] != "science" {
		t.Errorf("preferred categories = %v", profile.PreferredCategories)
	}

	if _, ok := store.Profile(context.Background(), "unknown"); ok {
		t.Error("unknown user resolved to a profile")
	}
}

func TestProfileStoreRejectsEmptyUserID(t *testing.T) {
	t.Parallel()

	store := NewMemoryProfileStore()
	if err := store.Upsert(ranking.UserContext{}); err == nil {
		t.Error("expected error for profile without user ID")
	}
}

func TestProfileStoreCopiesOnRead(t *testing.T) {
	t.Parallel()

	store := NewMemoryProfileStore()
	if err := store.Upsert(ranking.UserContext{UserID: "u7", RecentQueries: []string{"a"}}); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	profile, _ := store.Profile(context.Background(), "u7")
	profile.RecentQueries[0] = "mutated"

	again, _ := store.Profile(context.Background(), "u7")
	if again.RecentQueries[0] != "a" {
		t.Error("caller mutation leaked into the store")
	}
}

func TestProfileStoreDelete(t *testing.T) {
	t.Parallel()

	store := NewMemoryProfileStore()
	if err := store.Upsert(ranking.UserContext{UserID: "u7"}); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	store.Delete("u7")
	if _, ok := store.Profile(context.Background(), "u7"); ok {
		t.Error("deleted profile still resolvable")
	}
	if store.Len() != 0 {
		t.Errorf("Len = %d after delete, want 0", store.Len())
	}
}
