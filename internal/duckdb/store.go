// Package duckdb persists enrichment runs in an append-only, queryable
// store. Each run is saved with its parameters and full ranked results so
// analyses can be compared or re-exported later.
package duckdb

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/marcboeker/go-duckdb"
)

// Store manages a DuckDB connection for persisting enrichment runs.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens or creates a DuckDB database at the given path.
// Use an empty string for an in-memory database.
func Open(path string) (*Store, error) {
	if path != "" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create store directory: %w", err)
		}
	}

	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}

	s := &Store{db: db, path: path}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB for direct access.
func (s *Store) DB() *sql.DB {
	return s.db
}

// ensureSchema creates tables if they don't exist.
func (s *Store) ensureSchema() error {
	if _, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS enrichment_runs (
		run_id VARCHAR PRIMARY KEY,
		created TIMESTAMP DEFAULT current_timestamp,
		label VARCHAR,
		query_size INTEGER,
		universe_size INTEGER,
		tested_sets INTEGER,
		fdr_threshold DOUBLE
	)`); err != nil {
		return err
	}

	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS enrichment_results (
		run_id VARCHAR,
		rank INTEGER,
		set_id VARCHAR,
		name VARCHAR,
		aops VARCHAR,
		overlap_count INTEGER,
		set_size INTEGER,
		percent_covered DOUBLE,
		odds_ratio DOUBLE,
		raw_p DOUBLE,
		adjusted_p DOUBLE,
		overlapping_genes VARCHAR,
		PRIMARY KEY (run_id, set_id)
	)`)
	return err
}
