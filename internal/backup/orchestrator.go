package backup

import (
	"context"
	"fmt"
	"path/filepath"

	"rbak/internal/fs"
	"rbak/internal/rsync"
)

// TaskPaths holds the resolved directories behind one task: a source root
// and the relative subdirectories synced beneath it.
type TaskPaths struct {
	SourceRoot string
	Subdirs    []string
}

// Params is everything a run needs beyond the selection itself. It is
// built once from configuration and host inspection; the orchestrator
// holds no mutable state between runs.
type Params struct {
	Hostname     string
	WorkHostname string
	Destinations []string // candidate backup roots, in priority order
	Paths        map[string]TaskPaths
}

// Orchestrator expands selected tasks into sync jobs and executes them
// strictly sequentially, one external transfer at a time. Tasks are
// independent: a missing prerequisite or a failed transfer never stops
// the remaining jobs.
//
// Concurrent invocations against the same destination root are not
// guaranteed safe; that is the caller's responsibility.
type Orchestrator struct {
	runner   rsync.Runner
	fsmgr    fs.FilesystemManager
	recorder Recorder
	logger   Logger
	clock    Clock
	idgen    IDGenerator
}

// NewOrchestrator creates an Orchestrator with the provided dependencies.
func NewOrchestrator(runner rsync.Runner, fsmgr fs.FilesystemManager, recorder Recorder, logger Logger, clock Clock, idgen IDGenerator) *Orchestrator {
	return &Orchestrator{
		runner:   runner,
		fsmgr:    fsmgr,
		recorder: recorder,
		logger:   logger,
		clock:    clock,
		idgen:    idgen,
	}
}

// Run executes the selected tasks in the fixed dispatch order and returns
// the aggregated summary. The only error conditions are an empty selection
// and a recorder that cannot open the run; everything downstream becomes a
// JobResult instead of an error.
func (o *Orchestrator) Run(ctx context.Context, params Params, sel Selection) (*RunSummary, error) {
	if err := sel.Validate(); err != nil {
		return nil, err
	}

	runID, err := o.recorder.BeginRun(params.Hostname, sel.DryRun, sel.String(), o.clock.Now())
	if err != nil {
		return nil, fmt.Errorf("opening run record: %w", err)
	}

	roots := o.resolveDestinations(params.Destinations)

	summary := &RunSummary{RunID: runID, DryRun: sel.DryRun}
	for _, t := range Tasks {
		if !sel.Includes(t) {
			continue
		}
		for _, res := range o.runTask(ctx, t, params, sel, roots) {
			o.record(runID, &res)
			summary.add(res)
		}
	}

	status := "success"
	if summary.AnyFailed() {
		status = "partial"
	}
	if err := o.recorder.FinishRun(runID, status, o.clock.Now()); err != nil {
		o.logger.Warn("closing run record failed", "error", err)
	}

	o.logger.Info("run complete",
		"succeeded", summary.Succeeded,
		"skipped", summary.Skipped,
		"failed", summary.Failed,
		"dry_run", sel.DryRun,
	)
	return summary, nil
}

// resolveDestinations filters the candidate roots to those currently
// mounted, preserving order. Absent candidates get a warning, never an
// error: backing up to whatever is plugged in is the whole point.
func (o *Orchestrator) resolveDestinations(candidates []string) []string {
	var roots []string
	for _, c := range candidates {
		if !o.fsmgr.DirExists(c) {
			o.logger.Warn("destination root not mounted", "path", c)
			continue
		}
		roots = append(roots, c)
	}
	return roots
}

// runTask expands one task into its (subdirectory x destination root)
// jobs and executes them. Prerequisite failures produce skipped results.
func (o *Orchestrator) runTask(ctx context.Context, t Task, params Params, sel Selection, roots []string) []JobResult {
	if t.WorkHostOnly && params.Hostname != params.WorkHostname {
		// Deliberate and expected on every non-work machine, so no warning.
		o.logger.Debug("task restricted to work computer", "task", t.Name, "host", params.Hostname)
		return []JobResult{o.skip(t.Name, "", "", "not the work computer")}
	}

	paths, ok := params.Paths[t.Name]
	if !ok || len(paths.Subdirs) == 0 {
		o.logger.Warn("task has no configured directories", "task", t.Name)
		return []JobResult{o.skip(t.Name, "", "", "no directories configured")}
	}

	if len(roots) == 0 {
		o.logger.Warn("no destination roots mounted, skipping task", "task", t.Name)
		return []JobResult{o.skip(t.Name, "", "", "no destination roots mounted")}
	}

	var results []JobResult
	for _, sub := range paths.Subdirs {
		source := filepath.Join(paths.SourceRoot, sub)
		if !o.fsmgr.DirExists(source) {
			o.logger.Warn("source directory not found", "task", t.Name, "path", source)
			results = append(results, o.skip(t.Name, source, "", "source directory not found"))
			continue
		}
		for _, root := range roots {
			results = append(results, o.syncDirectory(ctx, t, source, filepath.Join(root, sub), sel.DryRun))
		}
	}
	return results
}

// syncDirectory runs one sync job: ensure the destination directory
// exists, then mirror the source's contents into it.
func (o *Orchestrator) syncDirectory(ctx context.Context, t Task, source, destination string, dryRun bool) JobResult {
	res := JobResult{
		ID:          o.idgen.New(),
		Task:        t.Name,
		Source:      source,
		Destination: destination,
		Status:      StatusSuccess,
		At:          o.clock.Now(),
	}

	if !dryRun {
		if err := o.fsmgr.MkdirAll(destination); err != nil {
			o.logger.Warn("cannot create destination directory", "task", t.Name, "path", destination, "error", err)
			res.Status = StatusFailed
			res.ExitCode = -1
			res.Detail = err.Error()
			return res
		}
	}

	// Trailing separator: sync the directory's contents into the
	// same-named directory under the destination root.
	job := rsync.Job{
		Source:      source + string(filepath.Separator),
		Destination: destination,
		DryRun:      dryRun,
	}

	o.logger.Info("syncing directory", "task", t.Name, "source", job.Source, "destination", destination, "dry_run", dryRun)
	if err := o.runner.Run(ctx, job); err != nil {
		// rsync has already reported details on its own stderr; record
		// the outcome and keep going with the remaining jobs.
		o.logger.Warn("sync job failed", "task", t.Name, "destination", destination, "error", err)
		res.Status = StatusFailed
		res.ExitCode = rsync.ExitCode(err)
		res.Detail = err.Error()
	}
	return res
}

func (o *Orchestrator) skip(task, source, destination, reason string) JobResult {
	return JobResult{
		ID:          o.idgen.New(),
		Task:        task,
		Source:      source,
		Destination: destination,
		Status:      StatusSkipped,
		Detail:      reason,
		At:          o.clock.Now(),
	}
}

func (o *Orchestrator) record(runID int64, res *JobResult) {
	if err := o.recorder.RecordJob(runID, *res); err != nil {
		o.logger.Warn("recording job result failed", "job", res.ID, "error", err)
	}
}
