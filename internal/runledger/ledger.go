package runledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"testreel/internal/runs"
)

// createdAtLayout is RFC 3339 with fixed-width fractional seconds, so the
// stored text sorts lexically in chronological order. time.RFC3339Nano drops
// trailing zeros, which would sort an exact-second run after a sub-second one.
const createdAtLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Record is one row of run history.
type Record struct {
	ID                int64
	RunDirectoryName  string
	RunDirectoryPath  string
	ManifestPath      string
	CombinedVideoPath string
	VideoCount        int
	FailedCount       int
	CreatedAt         time.Time
}

// Ledger is a best-effort SQLite index of past collector runs. It backs the
// `runs` listing; run resolution never depends on it, so every caller treats
// failures as log-and-continue.
type Ledger struct {
	db   *sql.DB
	path string
}

const schema = `
CREATE TABLE IF NOT EXISTS runs (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    run_name TEXT NOT NULL UNIQUE,
    run_dir TEXT NOT NULL,
    manifest_path TEXT NOT NULL,
    combined_path TEXT NOT NULL DEFAULT '',
    video_count INTEGER NOT NULL,
    failed_count INTEGER NOT NULL,
    created_at TEXT NOT NULL
);
`

// Open initializes or connects to the ledger database.
func Open(path string) (*Ledger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create ledger directory: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open ledger db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init ledger schema: %w", err)
	}
	return &Ledger{db: db, path: path}, nil
}

// Close releases the database handle.
func (l *Ledger) Close() error {
	if l == nil || l.db == nil {
		return nil
	}
	return l.db.Close()
}

// RecordRun inserts a row for a freshly collected run.
func (l *Ledger) RecordRun(ctx context.Context, manifest *runs.Manifest) error {
	if l == nil || manifest == nil {
		return errors.New("ledger and manifest are required")
	}
	failed := 0
	for _, entry := range manifest.Entries {
		if entry.Status == runs.StatusFailed {
			failed++
		}
	}
	_, err := l.db.ExecContext(ctx,
		`INSERT INTO runs (run_name, run_dir, manifest_path, video_count, failed_count, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(run_name) DO NOTHING`,
		manifest.RunDirectoryName,
		manifest.RunDirectoryPath,
		filepath.Join(manifest.RunDirectoryPath, runs.ManifestFileName),
		len(manifest.Entries),
		failed,
		manifest.CreatedAt.UTC().Format(createdAtLayout),
	)
	if err != nil {
		return fmt.Errorf("record run: %w", err)
	}
	return nil
}

// MarkCompiled stores the combined video path for a run once compilation
// succeeded.
func (l *Ledger) MarkCompiled(ctx context.Context, runName, combinedPath string) error {
	if l == nil {
		return errors.New("ledger is required")
	}
	_, err := l.db.ExecContext(ctx,
		`UPDATE runs SET combined_path = ? WHERE run_name = ?`,
		combinedPath, runName,
	)
	if err != nil {
		return fmt.Errorf("mark run compiled: %w", err)
	}
	return nil
}

// ListRuns returns the most recent runs, newest first. A limit of 0 means
// no limit.
func (l *Ledger) ListRuns(ctx context.Context, limit int) ([]Record, error) {
	if l == nil {
		return nil, errors.New("ledger is required")
	}
	query := `SELECT id, run_name, run_dir, manifest_path, combined_path, video_count, failed_count, created_at
	          FROM runs ORDER BY created_at DESC, id DESC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := l.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var rec Record
		var createdAt string
		if err := rows.Scan(&rec.ID, &rec.RunDirectoryName, &rec.RunDirectoryPath, &rec.ManifestPath,
			&rec.CombinedVideoPath, &rec.VideoCount, &rec.FailedCount, &createdAt); err != nil {
			return nil, fmt.Errorf("scan run row: %w", err)
		}
		if parsed, parseErr := time.Parse(time.RFC3339Nano, createdAt); parseErr == nil {
			rec.CreatedAt = parsed
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate run rows: %w", err)
	}
	return records, nil
}
