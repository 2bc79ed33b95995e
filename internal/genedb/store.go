// Package genedb persists the gene catalog and read assignments in DuckDB,
// so repeated runs over the same annotation skip GTF parsing and results
// stay queryable with plain SQL.
package genedb

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/marcboeker/go-duckdb"
)

// Store manages a DuckDB connection holding the parsed gene catalog and
// assignment results.
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
			return nil, fmt.Errorf("create cache directory: %w", err)
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
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS genes (
			gene_id VARCHAR PRIMARY KEY,
			gene_name VARCHAR,
			chrom VARCHAR,
			strand TINYINT
		)`,
		`CREATE TABLE IF NOT EXISTS isoforms (
			isoform_id VARCHAR PRIMARY KEY,
			gene_id VARCHAR,
			chrom VARCHAR,
			strand TINYINT
		)`,
		`CREATE TABLE IF NOT EXISTS exons (
			isoform_id VARCHAR,
			exon_index INTEGER,
			exon_start BIGINT,
			exon_end BIGINT,
			PRIMARY KEY (isoform_id, exon_index)
		)`,
		`CREATE TABLE IF NOT EXISTS assignments (
			read_id VARCHAR,
			chrom VARCHAR,
			gene_id VARCHAR,
			assignment_type VARCHAR,
			isoforms VARCHAR,
			events VARCHAR,
			read_group VARCHAR,
			polya_found BOOLEAN
		)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// GeneCount returns the number of cached genes.
func (s *Store) GeneCount() (int, error) {
	var n int
	err := s.db.QueryRow("SELECT COUNT(*) FROM genes").Scan(&n)
	return n, err
}

// Clear removes the cached catalog and all assignments.
func (s *Store) Clear() error {
	for _, table := range []string{"assignments", "exons", "isoforms", "genes"} {
		if _, err := s.db.Exec("DELETE FROM " + table); err != nil {
			return err
		}
	}
	return nil
}
