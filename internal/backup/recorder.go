package backup

import "time"

// Recorder persists run history. The orchestrator treats recording as
// best-effort bookkeeping: a failing RecordJob is logged, not fatal.
type Recorder interface {
	// BeginRun opens a new run record and returns its ID.
	BeginRun(host string, dryRun bool, flags string, startedAt time.Time) (int64, error)

	// RecordJob appends one job result to a run.
	RecordJob(runID int64, res JobResult) error

	// FinishRun closes a run record with its final status
	// ("success" or "partial").
	FinishRun(runID int64, status string, finishedAt time.Time) error
}

// NopRecorder discards all history. Use in tests.
type NopRecorder struct{}

func (NopRecorder) BeginRun(string, bool, string, time.Time) (int64, error) { return 0, nil }
func (NopRecorder) RecordJob(int64, JobResult) error                        { return nil }
func (NopRecorder) FinishRun(int64, string, time.Time) error                { return nil }
