package database

import (
	"database/sql"
	"fmt"
	"time"

	"rbak/internal/backup"
	"rbak/internal/database/migrations"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// Run is one recorded backup run with aggregated job counts.
type Run struct {
	ID         int64
	Host       string
	Flags      string
	DryRun     bool
	Status     string
	StartedAt  time.Time
	FinishedAt sql.NullTime
	Succeeded  int
	Skipped    int
	Failed     int
}

// Job is one recorded sync job outcome.
type Job struct {
	ID          string
	RunID       int64
	Task        string
	Source      string
	Destination string
	Status      string
	ExitCode    int
	Detail      string
	CreatedAt   time.Time
}

// SQLiteDatabase stores run history in SQLite. It implements
// backup.Recorder for the orchestrator and adds the listing queries behind
// the history command.
type SQLiteDatabase struct {
	db   *sql.DB
	path string
}

// NewSQLiteDatabase opens (creating if needed) a run-history database and
// applies pending schema migrations. path can be a file path or ":memory:".
func NewSQLiteDatabase(path string) (*SQLiteDatabase, error) {
	db, err := OpenConnection(path)
	if err != nil {
		return nil, err
	}

	if err := migrations.MigrateUp(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating database: %w", err)
	}

	return &SQLiteDatabase{db: db, path: path}, nil
}

// OpenConnection opens and configures a SQLite database connection with
// appropriate PRAGMAs. Exported for tests that need a raw connection.
func OpenConnection(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable foreign key constraints (SQLite default is OFF for backward compatibility)
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return db, nil
}

// BeginRun opens a new run record and returns its auto-increment ID.
func (s *SQLiteDatabase) BeginRun(host string, dryRun bool, flags string, startedAt time.Time) (int64, error) {
	res, err := s.db.Exec(
		`INSERT INTO backup_run (host, flags, dry_run, status, started_at) VALUES (?, ?, ?, 'running', ?)`,
		host, flags, dryRun, startedAt,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting run: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading run id: %w", err)
	}
	return id, nil
}

// RecordJob appends one job result to a run.
func (s *SQLiteDatabase) RecordJob(runID int64, r backup.JobResult) error {
	_, err := s.db.Exec(
		`INSERT INTO sync_job (id, run_id, task, source, destination, status, exit_code, detail, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, runID, r.Task, r.Source, r.Destination, string(r.Status), r.ExitCode, r.Detail, r.At,
	)
	if err != nil {
		return fmt.Errorf("inserting job result: %w", err)
	}
	return nil
}

// FinishRun closes a run record with its final status.
func (s *SQLiteDatabase) FinishRun(runID int64, status string, finishedAt time.Time) error {
	_, err := s.db.Exec(
		`UPDATE backup_run SET status = ?, finished_at = ? WHERE id = ?`,
		status, finishedAt, runID,
	)
	if err != nil {
		return fmt.Errorf("finishing run: %w", err)
	}
	return nil
}

// ListRuns returns the most recent runs, newest first, with per-status job
// counts aggregated in.
func (s *SQLiteDatabase) ListRuns(limit int) ([]*Run, error) {
	rows, err := s.db.Query(
		`SELECT r.id, r.host, r.flags, r.dry_run, r.status, r.started_at, r.finished_at,
		        COALESCE(SUM(CASE WHEN j.status = 'success' THEN 1 ELSE 0 END), 0),
		        COALESCE(SUM(CASE WHEN j.status = 'skipped' THEN 1 ELSE 0 END), 0),
		        COALESCE(SUM(CASE WHEN j.status = 'failed' THEN 1 ELSE 0 END), 0)
		 FROM backup_run r
		 LEFT JOIN sync_job j ON j.run_id = r.id
		 GROUP BY r.id
		 ORDER BY r.id DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(
			&r.ID, &r.Host, &r.Flags, &r.DryRun, &r.Status, &r.StartedAt, &r.FinishedAt,
			&r.Succeeded, &r.Skipped, &r.Failed,
		); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		runs = append(runs, &r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating runs: %w", err)
	}
	return runs, nil
}

// ListJobs returns all job results for one run, in execution order.
func (s *SQLiteDatabase) ListJobs(runID int64) ([]*Job, error) {
	rows, err := s.db.Query(
		`SELECT id, run_id, task, source, destination, status, exit_code, detail, created_at
		 FROM sync_job WHERE run_id = ? ORDER BY rowid`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing jobs: %w", err)
	}
	defer rows.Close()

	var jobs []*Job
	for rows.Next() {
		var j Job
		if err := rows.Scan(
			&j.ID, &j.RunID, &j.Task, &j.Source, &j.Destination, &j.Status,
			&j.ExitCode, &j.Detail, &j.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning job: %w", err)
		}
		jobs = append(jobs, &j)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating jobs: %w", err)
	}
	return jobs, nil
}

// Close closes the database connection.
func (s *SQLiteDatabase) Close() error {
	return s.db.Close()
}

// Compile-time check that SQLiteDatabase satisfies the orchestrator's Recorder
var _ backup.Recorder = (*SQLiteDatabase)(nil)
