// Package store keeps region price snapshots in a local SQLite database so
// repeated runs can skip the Pricing API while a snapshot is fresh.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// DefaultTTL is how long a stored region snapshot stays usable
const DefaultTTL = 24 * time.Hour

// PriceStore is a SQLite-backed region -> instance type -> price snapshot
type PriceStore struct {
	db  *sql.DB
	ttl time.Duration

	// now is swapped in tests
	now func() time.Time
}

// Open creates the directory, opens the SQLite database, sets WAL mode and
// ensures the price table exists.
func Open(path string, ttl time.Duration) (*PriceStore, error) {
	if path == "" {
		return nil, fmt.Errorf("price store path is empty")
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("creating price store directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening price store: %w", err)
	}

	// Loader tasks share one connection so pragmas apply to every query
	// and concurrent writers queue instead of failing with SQLITE_BUSY
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("setting pragma %q: %w", p, err)
		}
	}

	stmts := []string{
		`CREATE TABLE IF NOT EXISTS price_cache (
			region TEXT NOT NULL,
			instance_type TEXT NOT NULL,
			price_per_hour REAL NOT NULL,
			updated_at INTEGER NOT NULL,
			PRIMARY KEY (region, instance_type)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_price_cache_updated ON price_cache(region, updated_at)`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			db.Close()
			return nil, fmt.Errorf("creating price table: %w", err)
		}
	}

	return &PriceStore{db: db, ttl: ttl, now: time.Now}, nil
}

// Close closes the underlying database connection
func (s *PriceStore) Close() error {
	return s.db.Close()
}

// Get returns the snapshot for region when it was written within the TTL.
// A missing or expired snapshot reports ok=false without an error.
func (s *PriceStore) Get(ctx context.Context, region string) (map[string]float64, bool, error) {
	cutoff := s.now().Add(-s.ttl).Unix()

	rows, err := s.db.QueryContext(ctx,
		`SELECT instance_type, price_per_hour FROM price_cache
		 WHERE region = ? AND updated_at > ?`,
		region, cutoff,
	)
	if err != nil {
		return nil, false, fmt.Errorf("querying prices for %s: %w", region, err)
	}
	defer rows.Close()

	prices := make(map[string]float64)
	for rows.Next() {
		var instanceType string
		var price float64
		if err := rows.Scan(&instanceType, &price); err != nil {
			return nil, false, fmt.Errorf("scanning price row: %w", err)
		}
		prices[instanceType] = price
	}
	if err := rows.Err(); err != nil {
		return nil, false, fmt.Errorf("reading prices for %s: %w", region, err)
	}

	if len(prices) == 0 {
		return nil, false, nil
	}
	return prices, true, nil
}

// Put replaces the snapshot for region in a single transaction
func (s *PriceStore) Put(ctx context.Context, region string, prices map[string]float64) error {
	now := s.now().Unix()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM price_cache WHERE region = ?`, region); err != nil {
		return fmt.Errorf("clearing prices for %s: %w", region, err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT OR REPLACE INTO price_cache (region, instance_type, price_per_hour, updated_at)
		 VALUES (?, ?, ?, ?)`,
	)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for instanceType, price := range prices {
		if _, err := stmt.ExecContext(ctx, region, instanceType, price, now); err != nil {
			return fmt.Errorf("storing price of %s in %s: %w", instanceType, region, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing prices for %s: %w", region, err)
	}
	return nil
}
