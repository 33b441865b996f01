// NewsForge Ranking Core - Search & Recommendation Fusion Engine
// Copyright 2026 Sabq (sabq4org)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sabq4org/newsforge-ai-cms-sub005

package content

import (
	"fmt"
	"os"

	"github.com/goccy/go-json"

	"github.com/sabq4org/newsforge-ai-cms-sub005/internal/ranking"
)

// Config holds content store settings.
type Config struct {
	// SnapshotPath points to a JSON array of candidate items loaded at boot.
	// Empty means the store starts empty and is populated over the ingest
	// API. Default: empty.
	SnapshotPath string `json:"snapshot_path" koanf:"snapshot_path"`
}

// LoadSnapshotFile seeds the store from a JSON snapshot exported by the CMS.
// The file holds a JSON array of candidate items; a malformed snapshot fails
// the boot rather than silently serving an empty pool.
func LoadSnapshotFile(store *MemoryStore, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("content snapshot: read %s: %w", path, err)
	}

	var items []ranking.CandidateItem
	if err := json.Unmarshal(data, &items); err != nil {
		return fmt.Errorf("content snapshot: parse %s: %w", path, err)
	}

	if err := store.Load(items); err != nil {
		return fmt.Errorf("content snapshot: %w", err)
	}
	return nil
}
