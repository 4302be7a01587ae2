// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package history keeps a ledger of pipeline runs in a SQLite database,
// recording what each run pulled, ranked, and analyzed.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/daily-scholar/pkg/types"
)

const dbFile = "scholar.db"

// Store manages the run-history SQLite database.
type Store struct {
	db *sql.DB
}

// RunRecord summarizes one pipeline run.
type RunRecord struct {
	ID          int64
	TargetDay   time.Time
	StartedAt   time.Time
	FinishedAt  time.Time
	Pulled      int
	InWindow    int
	Ranked      int
	Analyzed    int
	CacheHits   int
	Fallback    bool
	Dispatched  bool
	FailedItems int
}

// RunPaper is one ranked paper as recorded for a run.
type RunPaper struct {
	Rank        int
	Fingerprint string
	Title       string
	URL         string
	Score       float64
}

// NewStore opens or creates the database at dir/scholar.db, creating
// the schema if it does not exist.
func NewStore(cfg types.HistoryConfig) (*Store, error) {
	dir := cfg.Dir
	if dir == "" {
		dir = filepath.Join("data", "index")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating history directory: %w", err)
	}

	dbPath := filepath.Join(dir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			target_day TEXT NOT NULL,
			started_at TEXT NOT NULL,
			finished_at TEXT NOT NULL,
			pulled INTEGER NOT NULL,
			in_window INTEGER NOT NULL,
			ranked INTEGER NOT NULL,
			analyzed INTEGER NOT NULL,
			cache_hits INTEGER NOT NULL,
			fallback INTEGER NOT NULL,
			dispatched INTEGER NOT NULL,
			failed_items INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_target_day ON runs(target_day)`,
		`CREATE TABLE IF NOT EXISTS run_papers (
			run_id INTEGER NOT NULL REFERENCES runs(id),
			rank INTEGER NOT NULL,
			fingerprint TEXT NOT NULL,
			title TEXT,
			url TEXT,
			score REAL,
			PRIMARY KEY (run_id, rank)
		)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// RecordRun inserts the run summary and its ranked papers in one
// transaction. Returns the new run's id.
func (s *Store) RecordRun(ctx context.Context, run RunRecord, papers []RunPaper) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO runs (target_day, started_at, finished_at, pulled, in_window, ranked,
			analyzed, cache_hits, fallback, dispatched, failed_items)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.TargetDay.UTC().Format("2006-01-02"),
		run.StartedAt.UTC().Format(time.RFC3339),
		run.FinishedAt.UTC().Format(time.RFC3339),
		run.Pulled, run.InWindow, run.Ranked, run.Analyzed, run.CacheHits,
		boolInt(run.Fallback), boolInt(run.Dispatched), run.FailedItems,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting run: %w", err)
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading run id: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO run_papers (run_id, rank, fingerprint, title, url, score)
		 VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, p := range papers {
		if _, err := stmt.ExecContext(ctx, runID, p.Rank, p.Fingerprint, p.Title, p.URL, p.Score); err != nil {
			return 0, fmt.Errorf("inserting run paper %d: %w", p.Rank, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing run: %w", err)
	}
	return runID, nil
}

// RecentRuns returns the latest runs, newest first.
func (s *Store) RecentRuns(ctx context.Context, limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, target_day, started_at, finished_at, pulled, in_window, ranked,
			analyzed, cache_hits, fallback, dispatched, failed_items
		 FROM runs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []RunRecord
	for rows.Next() {
		var (
			r                      RunRecord
			day, started, finished string
			fallback, dispatched   int
		)
		if err := rows.Scan(&r.ID, &day, &started, &finished, &r.Pulled, &r.InWindow,
			&r.Ranked, &r.Analyzed, &r.CacheHits, &fallback, &dispatched, &r.FailedItems); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		r.TargetDay, _ = time.Parse("2006-01-02", day)
		r.StartedAt, _ = time.Parse(time.RFC3339, started)
		r.FinishedAt, _ = time.Parse(time.RFC3339, finished)
		r.Fallback = fallback != 0
		r.Dispatched = dispatched != 0
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// RunPapers returns the ranked papers recorded for a run, by rank.
func (s *Store) RunPapers(ctx context.Context, runID int64) ([]RunPaper, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT rank, fingerprint, title, url, score
		 FROM run_papers WHERE run_id = ? ORDER BY rank`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying run papers: %w", err)
	}
	defer rows.Close()

	var papers []RunPaper
	for rows.Next() {
		var p RunPaper
		if err := rows.Scan(&p.Rank, &p.Fingerprint, &p.Title, &p.URL, &p.Score); err != nil {
			return nil, fmt.Errorf("scanning run paper: %w", err)
		}
		papers = append(papers, p)
	}
	return papers, rows.Err()
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
