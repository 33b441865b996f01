// NewsForge Ranking Core - Search & Recommendation Fusion Engine
// Copyright 2026 Sabq (sabq4org)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sabq4org/newsforge-ai-cms-sub005

// Package querylog persists recent search queries to BadgerDB. Appends are
// asynchronous and best-effort: the ranking path hands the query text off
// and moves on, and a log failure never fails a request. Entries expire via
// Badger TTL.
package querylog

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/sabq4org/newsforge-ai-cms-sub005/internal/metrics"
)

const (
	entryKeyPrefix = "query:"

	// appendQueueSize bounds the async append buffer. When full, appends
	// are dropped rather than blocking the ranking path.
	appendQueueSize = 256
)

// Entry is one logged search query.
type Entry struct {
	ID        string    `json:"id"`
	QueryText string    `json:"query_text"`
	Timestamp time.Time `json:"timestamp"`
}

// Config holds query log parameters.
type Config struct {
	// Dir is the Badger data directory.
	Dir string `json:"dir" koanf:"dir"`

	// Retention is how long entries are kept. Default: 7 days.
	Retention time.Duration `json:"retention" koanf:"retention"`

	// GCInterval is how often value-log garbage collection runs.
	// Default: 10m.
	GCInterval time.Duration `json:"gc_interval" koanf:"gc_interval"`
}

// DefaultConfig returns production defaults.
func DefaultConfig(dir string) Config {
	return Config{
		Dir:        dir,
		Retention:  7 * 24 * time.Hour,
		GCInterval: 10 * time.Minute,
	}
}

// Log is a Badger-backed recent-query log.
type Log struct {
	db     *badger.DB
	cfg    Config
	logger zerolog.Logger

	queue chan Entry
	done  chan struct{}
	wg    sync.WaitGroup

	closeOnce sync.Once

	dropped uint64
	mu      sync.Mutex
}

// Open opens (or creates) the query log in cfg.Dir and starts the async
// append worker.
func Open(cfg Config, logger zerolog.Logger) (*Log, error) {
	if cfg.Dir == "" {
		return nil, fmt.Errorf("querylog: dir is required")
	}
	if cfg.Retention <= 0 {
		cfg.Retention = 7 * 24 * time.Hour
	}
	if cfg.GCInterval <= 0 {
		cfg.GCInterval = 10 * time.Minute
	}

	opts := badger.DefaultOptions(cfg.Dir).
		WithLogger(nil).
		WithCompactL0OnClose(true)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("querylog: open badger: %w", err)
	}

	l := &Log{
		db:     db,
		cfg:    cfg,
		logger: logger.With().Str("component", "querylog").Logger(),
		queue:  make(chan Entry, appendQueueSize),
		done:   make(chan struct{}),
	}

	l.wg.Add(1)
	go l.appendWorker()

	return l, nil
}

// Record implements ranking.QueryRecorder. It never blocks: when the append
// queue is full the entry is dropped and counted.
func (l *Log) Record(queryText string) {
	entry := Entry{
		ID:        uuid.NewString(),
		QueryText: queryText,
		Timestamp: time.Now().UTC(),
	}

	select {
	case l.queue <- entry:
	default:
		l.mu.Lock()
		l.dropped++
		dropped := l.dropped
		l.mu.Unlock()
		metrics.QueryLogDropped.Inc()
		l.logger.Warn().Uint64("dropped_total", dropped).Msg("Query log queue full, dropping entry")
	}
}

// Recent returns up to n entries, newest first.
func (l *Log) Recent(ctx context.Context, n int) ([]Entry, error) {
	if n <= 0 {
		return nil, nil
	}

	var entries []Entry
	err := l.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(entryKeyPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			var entry Entry
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &entry)
			})
			if err != nil {
				// Skip corrupt entries; the log is best-effort.
				continue
			}
			entries = append(entries, entry)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("querylog: scan: %w", err)
	}

	sort.Slice(entries, func(i, j int) bool {
		if !entries[i].Timestamp.Equal(entries[j].Timestamp) {
			return entries[i].Timestamp.After(entries[j].Timestamp)
		}
		return entries[i].ID < entries[j].ID
	})
	if len(entries) > n {
		entries = entries[:n]
	}
	return entries, nil
}

// RunGC runs Badger value-log garbage collection until ctx is cancelled.
// Suitable as a supervised service body.
func (l *Log) RunGC(ctx context.Context) error {
	ticker := time.NewTicker(l.cfg.GCInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			// ErrNoRewrite just means there was nothing to collect.
			if err := l.db.RunValueLogGC(0.5); err != nil && !errors.Is(err, badger.ErrNoRewrite) {
				l.logger.Warn().Err(err).Msg("Query log GC pass failed")
			}
		}
	}
}

// Close drains the append queue and closes the database.
func (l *Log) Close() error {
	var err error
	l.closeOnce.Do(func() {
		close(l.done)
		l.wg.Wait()
		err = l.db.Close()
	})
	return err
}

// appendWorker writes queued entries until Close.
func (l *Log) appendWorker() {
	defer l.wg.Done()

	for {
		select {
		case entry := <-l.queue:
			l.write(entry)
		case <-l.done:
			// Drain what is already queued before shutting down.
			for {
				select {
				case entry := <-l.queue:
					l.write(entry)
				default:
					return
				}
			}
		}
	}
}

// write persists one entry with the retention TTL. Failures are logged,
// never propagated.
func (l *Log) write(entry Entry) {
	data, err := json.Marshal(entry)
	if err != nil {
		l.logger.Error().Err(err).Msg("Marshal query log entry failed")
		return
	}

	key := []byte(entryKeyPrefix + entry.Timestamp.Format(time.RFC3339Nano) + ":" + entry.ID)
	err = l.db.Update(func(txn *badger.Txn) error {
		e := badger.NewEntry(key, data).WithTTL(l.cfg.Retention)
		return txn.SetEntry(e)
	})
	if err != nil {
		l.logger.Warn().Err(err).Msg("Query log append failed")
		return
	}
	metrics.QueryLogAppends.Inc()
}
