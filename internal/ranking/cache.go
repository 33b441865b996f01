// NewsForge Ranking Core - Search & Recommendation Fusion Engine
// Copyright 2026 Sabq (sabq4org)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sabq4org/newsforge-ai-cms-sub005

package ranking

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// fingerprint computes a deterministic hash of a request's meaningful inputs:
// query text, the full user context (id, preferred categories, recent
// queries), filters, sort mode, max results, the enabled provider set, and
// the content-store version. Two requests with the same fingerprint are
// interchangeable, which is what makes coalescing safe.
func fingerprint(req Request, providerIDs []string, storeVersion string) string {
	h := sha256.New()

	writeField(h, req.QueryText)
	if req.UserContext != nil {
		writeField(h, req.UserContext.UserID)
		writeField(h, strings.Join(req.UserContext.PreferredCategories, ","))
		writeField(h, strings.Join(req.UserContext.RecentQueries, ","))
	}
	writeField(h, req.Filters.Category)
	writeField(h, req.Filters.Author)
	if req.Filters.DateRange != nil {
		writeField(h, req.Filters.DateRange.From.UTC().Format(time.RFC3339Nano))
		writeField(h, req.Filters.DateRange.To.UTC().Format(time.RFC3339Nano))
	}
	writeField(h, req.SortMode.String())
	fmt.Fprintf(h, "%d\x00", req.MaxResults)
	writeField(h, strings.Join(providerIDs, ","))
	writeField(h, storeVersion)

	return hex.EncodeToString(h.Sum(nil))
}

// writeField writes a NUL-terminated field so adjacent fields cannot collide.
func writeField(w io.Writer, s string) {
	io.WriteString(w, s) //nolint:errcheck // hash writes cannot fail
	w.Write([]byte{0})   //nolint:errcheck
}

// cacheEntry holds a cached ranking response.
type cacheEntry struct {
	response  *Response
	expiresAt time.Time
}

// resultCache memoizes ranking responses by request fingerprint and
// coalesces identical concurrent requests onto one in-flight computation.
//
// Entries carry a short TTL matching the UI debounce window. The cache is
// invalidated wholesale when the content-store version changes; the version
// is also part of the fingerprint, so even an un-purged stale entry can
// never be served.
type resultCache struct {
	cfg CacheConfig

	mu      sync.RWMutex
	entries map[string]cacheEntry
	version string

	group singleflight.Group
}

func newResultCache(cfg CacheConfig) *resultCache {
	return &resultCache{
		cfg:     cfg,
		entries: make(map[string]cacheEntry),
	}
}

// get returns a copy of the cached response for the key, or nil.
func (c *resultCache) get(key string) *Response {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[key]
	if !ok || time.Now().After(entry.expiresAt) {
		return nil
	}
	return copyResponse(entry.response)
}

// put stores a response under the key.
func (c *resultCache) put(key string, resp *Response) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.entries) >= c.cfg.MaxEntries {
		c.evictExpiredLocked()
	}
	// Still full after eviction: drop the write rather than grow unbounded.
	if len(c.entries) >= c.cfg.MaxEntries {
		return
	}

	c.entries[key] = cacheEntry{
		response:  copyResponse(resp),
		expiresAt: time.Now().Add(c.cfg.TTL),
	}
}

// syncVersion clears the cache if the content-store version moved.
func (c *resultCache) syncVersion(version string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.version == version {
		return
	}
	c.version = version
	c.entries = make(map[string]cacheEntry)
}

// do runs compute under singleflight so at most one computation per
// fingerprint is in flight. The shared return reports whether this caller
// joined another caller's computation.
func (c *resultCache) do(key string, compute func() (*Response, error)) (*Response, bool, error) {
	v, err, shared := c.group.Do(key, func() (interface{}, error) {
		return compute()
	})
	if err != nil {
		return nil, shared, err
	}
	// Copy per caller so no one mutates a shared response.
	return copyResponse(v.(*Response)), shared, nil
}

// evictExpiredLocked removes expired entries. Must be called with mu held.
func (c *resultCache) evictExpiredLocked() {
	now := time.Now()
	for key, entry := range c.entries {
		if now.After(entry.expiresAt) {
			delete(c.entries, key)
		}
	}
}

// len returns the current number of entries, expired or not.
func (c *resultCache) len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// copyResponse returns a shallow-plus-results copy safe to hand to a caller.
func copyResponse(resp *Response) *Response {
	results := make([]FusedResult, len(resp.Results))
	copy(results, resp.Results)

	out := *resp
	out.Results = results
	return &out
}
