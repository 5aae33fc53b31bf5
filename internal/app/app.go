package app

import (
	"context"
	"fmt"
	"os"
	"time"

	"rbak/internal/backup"
	"rbak/internal/config"
	"rbak/internal/database"
	"rbak/internal/fs"
	"rbak/internal/rsync"
)

// App is the application layer between the CLI and the orchestrator.
// It constructs all dependencies from config and manages the database and
// log file lifecycle on Close.
type App struct {
	cfg     *config.Config
	db      *database.SQLiteDatabase
	orch    *backup.Orchestrator
	logFile *os.File
}

// New creates a fully wired App from the given config.
// The caller must call Close when done.
func New(cfg *config.Config) (*App, error) {
	db, err := database.NewFromConfig(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("creating run-history database: %w", err)
	}

	runID := time.Now().UTC().Format("20060102T150405Z")
	logger, logFile, err := newLogger(cfg.LogDir, runID)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating logger: %w", err)
	}

	runner := rsync.NewExecRunner(cfg.Rsync.Binary, cfg.Rsync.ModifyWindow)
	orch := backup.NewOrchestrator(
		runner,
		fs.NewOSFilesystemManager(),
		db,
		&slogAdapter{l: logger},
		backup.RealClock{},
		backup.UUIDGenerator{},
	)

	return &App{
		cfg:     cfg,
		db:      db,
		orch:    orch,
		logFile: logFile,
	}, nil
}

// Backup runs the selected backup tasks and returns the run summary.
func (a *App) Backup(ctx context.Context, sel backup.Selection) (*backup.RunSummary, error) {
	hostname, err := os.Hostname()
	if err != nil {
		return nil, fmt.Errorf("determining hostname: %w", err)
	}
	return a.orch.Run(ctx, ParamsFromConfig(a.cfg, hostname), sel)
}

// History returns the most recent backup runs, newest first.
func (a *App) History(limit int) ([]*database.Run, error) {
	return a.db.ListRuns(limit)
}

// RunJobs returns the job results recorded for one run.
func (a *App) RunJobs(runID int64) ([]*database.Job, error) {
	return a.db.ListJobs(runID)
}

// Close closes the database and the log file.
func (a *App) Close() error {
	var firstErr error
	if err := a.db.Close(); err != nil {
		firstErr = fmt.Errorf("closing database: %w", err)
	}
	if a.logFile != nil {
		a.logFile.Close()
	}
	return firstErr
}

// ParamsFromConfig translates the config file into orchestrator inputs.
// Tasks without their own source root inherit the global one.
func ParamsFromConfig(cfg *config.Config, hostname string) backup.Params {
	paths := make(map[string]backup.TaskPaths, len(cfg.Tasks))
	for name, tc := range cfg.Tasks {
		root := tc.SourceRoot
		if root == "" {
			root = cfg.SourceRoot
		}
		paths[name] = backup.TaskPaths{SourceRoot: root, Subdirs: tc.Subdirs}
	}
	return backup.Params{
		Hostname:     hostname,
		WorkHostname: cfg.WorkHostname,
		Destinations: cfg.Destinations,
		Paths:        paths,
	}
}
