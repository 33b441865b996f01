// NewsForge Ranking Core - Search & Recommendation Fusion Engine
// Copyright 2026 Sabq (sabq4org)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sabq4org/newsforge-ai-cms-sub005

// Package content holds the candidate item store feeding the ranking
// engine. Items are owned by the CMS; this store is a read-optimized
// snapshot with a version that moves on every mutation, which is what the
// ranking cache keys its invalidation on.
package content

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/rs/zerolog"

	"github.com/sabq4org/newsforge-ai-cms-sub005/internal/metrics"
	"github.com/sabq4org/newsforge-ai-cms-sub005/internal/ranking"
)

// Store is the read surface the ranking engine and API consume.
type Store interface {
	// Candidates returns up to limit items, newest first.
	Candidates(ctx context.Context, limit int) ([]ranking.CandidateItem, error)

	// Get returns a single item by ID.
	Get(ctx context.Context, id string) (ranking.CandidateItem, bool)

	// Version identifies the current content snapshot.
	Version() string
}

// MemoryStore is an in-memory Store with copy-on-read semantics. Writes
// come from the CMS ingest path; every write bumps the version.
type MemoryStore struct {
	mu      sync.RWMutex
	items   map[string]ranking.CandidateItem
	ordered []string // IDs sorted newest first, rebuilt on write
	serial  uint64
	logger  zerolog.Logger
}

var _ Store = (*MemoryStore)(nil)
var _ ranking.CandidateSource = (*MemoryStore)(nil)

// NewMemoryStore creates an empty store.
func NewMemoryStore(logger zerolog.Logger) *MemoryStore {
	return &MemoryStore{
		items:  make(map[string]ranking.CandidateItem),
		logger: logger.With().Str("component", "content_store").Logger(),
	}
}

// Upsert inserts or replaces an item and bumps the store version.
func (s *MemoryStore) Upsert(item ranking.CandidateItem) error {
	if item.ID == "" {
		return fmt.Errorf("content item without ID")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[item.ID] = item
	s.rebuildOrderLocked()
	s.serial++
	metrics.ContentStoreItems.Set(float64(len(s.items)))
	return nil
}

// Delete removes an item. Deleting an unknown ID is a no-op that still does
// not bump the version.
func (s *MemoryStore) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[id]; !ok {
		return
	}
	delete(s.items, id)
	s.rebuildOrderLocked()
	s.serial++
	metrics.ContentStoreItems.Set(float64(len(s.items)))
}

// Candidates implements Store and ranking.CandidateSource.
func (s *MemoryStore) Candidates(ctx context.Context, limit int) ([]ranking.CandidateItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	n := len(s.ordered)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]ranking.CandidateItem, 0, n)
	for _, id := range s.ordered[:n] {
		out = append(out, s.items[id])
	}
	return out, nil
}

// Get implements Store.
func (s *MemoryStore) Get(ctx context.Context, id string) (ranking.CandidateItem, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	item, ok := s.items[id]
	return item, ok
}

// Version implements Store. The version is a monotonic serial; the ranking
// cache only compares for inequality.
func (s *MemoryStore) Version() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fmt.Sprintf("v%d", s.serial)
}

// Len returns the number of stored items.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Load bulk-replaces the store contents, bumping the version once. Used at
// boot to seed from a content snapshot.
func (s *MemoryStore) Load(items []ranking.CandidateItem) error {
	for _, item := range items {
		if item.ID == "" {
			return fmt.Errorf("content item without ID")
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = make(map[string]ranking.CandidateItem, len(items))
	for _, item := range items {
		s.items[item.ID] = item
	}
	s.rebuildOrderLocked()
	s.serial++
	metrics.ContentStoreItems.Set(float64(len(s.items)))
	s.logger.Info().Int("items", len(items)).Msg("Content snapshot loaded")
	return nil
}

// rebuildOrderLocked resorts the ID index newest first. Ties break on ID so
// iteration order is deterministic. Must be called with mu held.
func (s *MemoryStore) rebuildOrderLocked() {
	s.ordered = s.ordered[:0]
	for id := range s.items {
		s.ordered = append(s.ordered, id)
	}
	sort.Slice(s.ordered, func(i, j int) bool {
		a, b := s.items[s.ordered[i]], s.items[s.ordered[j]]
		if !a.PublishedAt.Equal(b.PublishedAt) {
			return a.PublishedAt.After(b.PublishedAt)
		}
		return a.ID < b.ID
	})
}
