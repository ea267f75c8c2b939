// Package history records enhancement runs in SQLite.
package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ziadkadry99/codetint/internal/db"
	"github.com/ziadkadry99/codetint/internal/enhance"
	"github.com/ziadkadry99/codetint/internal/pipeline"
)

// ErrNotFound is returned when a run ID is unknown.
var ErrNotFound = errors.New("run not found")

// Run is one recorded pass.
type Run struct {
	ID         string        `json:"id"`
	SiteDir    string        `json:"site_dir"`
	Trigger    string        `json:"trigger"`
	StartedAt  time.Time     `json:"started_at"`
	FinishedAt time.Time     `json:"finished_at"`
	Pages      int           `json:"pages"`
	Skipped    int           `json:"skipped"`
	Stats      enhance.Stats `json:"stats"`
}

// Duration is how long the run took.
func (r Run) Duration() time.Duration { return r.FinishedAt.Sub(r.StartedAt) }

// PageRow is the per-page record of a run.
type PageRow struct {
	Path      string `json:"path"`
	Blocks    int    `json:"blocks"`
	Brackets  int    `json:"brackets"`
	Unmatched int    `json:"unmatched"`
}

// Store provides access to recorded runs.
type Store struct {
	db *db.DB
}

// NewStore creates a Store backed by the given database.
func NewStore(database *db.DB) *Store {
	return &Store{db: database}
}

// Record inserts a run and its pages in one transaction.
func (s *Store) Record(ctx context.Context, report *pipeline.Report) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	st := report.Stats
	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (
			id, site_dir, triggered_by, started_at, finished_at, pages, skipped,
			blocks, brackets, pairs, unmatched, mismatched, expanded
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		report.RunID,
		report.SiteDir,
		report.Trigger,
		report.Started.UTC(),
		report.Finished.UTC(),
		len(report.Pages),
		report.Skipped,
		st.Blocks,
		st.Brackets,
		st.Pairs,
		st.Unmatched,
		st.Mismatched,
		st.Expanded,
	)
	if err != nil {
		return fmt.Errorf("inserting run: %w", err)
	}

	for _, p := range report.Pages {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO run_pages (run_id, path, blocks, brackets, unmatched)
			VALUES (?, ?, ?, ?, ?)`,
			report.RunID, p.Path, p.Stats.Blocks, p.Stats.Brackets, p.Stats.Unmatched)
		if err != nil {
			return fmt.Errorf("inserting page %s: %w", p.Path, err)
		}
	}

	return tx.Commit()
}

const runColumns = `id, site_dir, triggered_by, started_at, finished_at, pages, skipped,
	blocks, brackets, pairs, unmatched, mismatched, expanded`

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (*Run, error) {
	var r Run
	err := row.Scan(&r.ID, &r.SiteDir, &r.Trigger, &r.StartedAt, &r.FinishedAt,
		&r.Pages, &r.Skipped, &r.Stats.Blocks, &r.Stats.Brackets, &r.Stats.Pairs,
		&r.Stats.Unmatched, &r.Stats.Mismatched, &r.Stats.Expanded)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// List returns the most recent runs, newest first. limit <= 0 means 20.
func (s *Store) List(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+runColumns+` FROM runs ORDER BY started_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		runs = append(runs, *r)
	}
	return runs, rows.Err()
}

// Get returns a run and its pages.
func (s *Store) Get(ctx context.Context, id string) (*Run, []PageRow, error) {
	r, err := scanRun(s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil, ErrNotFound
	}
	if err != nil {
		return nil, nil, fmt.Errorf("querying run %s: %w", id, err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT path, blocks, brackets, unmatched FROM run_pages WHERE run_id = ? ORDER BY path`, id)
	if err != nil {
		return nil, nil, fmt.Errorf("querying pages: %w", err)
	}
	defer rows.Close()

	var pages []PageRow
	for rows.Next() {
		var p PageRow
		if err := rows.Scan(&p.Path, &p.Blocks, &p.Brackets, &p.Unmatched); err != nil {
			return nil, nil, fmt.Errorf("scanning page: %w", err)
		}
		pages = append(pages, p)
	}
	return r, pages, rows.Err()
}
