// Package journal records a history of compile runs against a
// knowledge base prefix in a small SQLite-backed log, so operators can
// see when and how a KB was last compiled without re-deriving it from
// file mtimes. It is audit/observability only, never part of the
// compile/query contract: a nil *Journal is a no-op everywhere it is
// used.
package journal

import (
	"context"
	"crypto/rand"
	"database/sql"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"

	_ "modernc.org/sqlite"
)

// Entry is one recorded compile run.
type Entry struct {
	ID          string
	Prefix      string
	NumAxioms   int
	MaxDistance float32
	StartedAt   time.Time
	FinishedAt  time.Time
	Err         string // empty on success
}

// Journal is a SQLite-backed log of compile runs. The zero value is not
// usable; construct with Open.
type Journal struct {
	db      *sql.DB
	entropy *ulid.MonotonicEntropy
}

// Open opens (creating if necessary) a journal database at path with
// WAL mode enabled.
func Open(ctx context.Context, path string) (*Journal, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("journal: open %s: %w", path, err)
	}

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("journal: enable WAL %s: %w", path, err)
	}

	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("journal: init schema %s: %w", path, err)
	}

	return &Journal{
		db:      db,
		entropy: ulid.Monotonic(rand.Reader, 0),
	}, nil
}

func initSchema(ctx context.Context, db *sql.DB) error {
	const schema = `
CREATE TABLE IF NOT EXISTS compile_runs (
	id TEXT PRIMARY KEY,
	prefix TEXT NOT NULL,
	num_axioms INTEGER NOT NULL,
	max_distance REAL NOT NULL,
	started_at TEXT NOT NULL,
	finished_at TEXT NOT NULL,
	error TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_compile_runs_prefix ON compile_runs(prefix);
`
	_, err := db.ExecContext(ctx, schema)
	return err
}

// Record inserts a completed compile run. Calling Record on a nil
// *Journal is a no-op.
func (j *Journal) Record(ctx context.Context, e Entry) error {
	if j == nil {
		return nil
	}
	if e.ID == "" {
		e.ID = ulid.MustNew(ulid.Now(), j.entropy).String()
	}
	_, err := j.db.ExecContext(ctx,
		`INSERT INTO compile_runs (id, prefix, num_axioms, max_distance, started_at, finished_at, error)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.Prefix, e.NumAxioms, e.MaxDistance,
		e.StartedAt.Format(time.RFC3339Nano), e.FinishedAt.Format(time.RFC3339Nano), e.Err,
	)
	if err != nil {
		return fmt.Errorf("journal: record: %w", err)
	}
	return nil
}

// Recent returns the most recent compile runs for prefix, newest first,
// up to limit entries. Calling Recent on a nil *Journal returns an
// empty slice.
func (j *Journal) Recent(ctx context.Context, prefix string, limit int) ([]Entry, error) {
	if j == nil {
		return nil, nil
	}
	rows, err := j.db.QueryContext(ctx,
		`SELECT id, prefix, num_axioms, max_distance, started_at, finished_at, error
		 FROM compile_runs WHERE prefix = ? ORDER BY started_at DESC LIMIT ?`,
		prefix, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("journal: recent: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var (
			e                     Entry
			startedAt, finishedAt string
		)
		if err := rows.Scan(&e.ID, &e.Prefix, &e.NumAxioms, &e.MaxDistance, &startedAt, &finishedAt, &e.Err); err != nil {
			return nil, fmt.Errorf("journal: recent: %w", err)
		}
		e.StartedAt, _ = time.Parse(time.RFC3339Nano, startedAt)
		e.FinishedAt, _ = time.Parse(time.RFC3339Nano, finishedAt)
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("journal: recent: %w", err)
	}
	return out, nil
}

// Close closes the underlying database. Calling Close on a nil
// *Journal is a no-op.
func (j *Journal) Close() error {
	if j == nil {
		return nil
	}
	return j.db.Close()
}
