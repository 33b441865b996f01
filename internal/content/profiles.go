// NewsForge Ranking Core - Search & Recommendation Fusion Engine
// Copyright 2026 Sabq (sabq4org)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sabq4org/newsforge-ai-cms-sub005

package content

import (
	"context"
	"fmt"
	"sync"

	"github.com/sabq4org/newsforge-ai-cms-sub005/internal/ranking"
)

// UserProfileStore resolves a user ID into the personalization context the
// CMS holds for that reader. The ranking service is a read-only consumer;
// profiles are owned and pushed by the CMS.
type UserProfileStore interface {
	// Profile returns the stored context for the user. The second return is
	// false for unknown users.
	Profile(ctx context.Context, userID string) (ranking.UserContext, bool)
}

// MemoryProfileStore is an in-memory UserProfileStore with copy-on-read
// semantics, populated over the profile ingest API.
type MemoryProfileStore struct {
	mu       sync.RWMutex
	profiles map[string]ranking.UserContext
}

var _ UserProfileStore = (*MemoryProfileStore)(nil)

// NewMemoryProfileStore creates an empty profile store.
func NewMemoryProfileStore() *MemoryProfileStore {
	return &MemoryProfileStore{profiles: make(map[string]ranking.UserContext)}
}

// Upsert inserts or replaces a profile keyed by its UserID.
func (s *MemoryProfileStore) Upsert(profile ranking.UserContext) error {
	if profile.UserID == "" {
		return fmt.Errorf("profile without user ID")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[profile.UserID] = copyProfile(profile)
	return nil
}

// Delete removes a profile. Unknown IDs are a no-op.
func (s *MemoryProfileStore) Delete(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.profiles, userID)
}

// Profile implements UserProfileStore.
func (s *MemoryProfileStore) Profile(_ context.Context, userID string) (ranking.UserContext, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	profile, ok := s.profiles[userID]
	if !ok {
		return ranking.UserContext{}, false
	}
	return copyProfile(profile), true
}

// Len returns the number of stored profiles.
func (s *MemoryProfileStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.profiles)
}

// copyProfile deep-copies the slice fields so callers and the store never
// share backing arrays.
func copyProfile(p ranking.UserContext) ranking.UserContext {
	out := ranking.UserContext{UserID: p.UserID}
	if len(p.PreferredCategories) > 0 {
		out.PreferredCategories = append([]string(nil), p.PreferredCategories...)
	}
	if len(p.RecentQueries) > 0 {
		out.RecentQueries = append([]string(nil), p.RecentQueries...)
	}
	return out
}
