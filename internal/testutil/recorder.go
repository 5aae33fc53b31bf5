package testutil

import (
	"fmt"
	"time"

	"rbak/internal/backup"
)

// RunRecord captures one BeginRun/FinishRun pair.
type RunRecord struct {
	ID         int64
	Host       string
	DryRun     bool
	Flags      string
	Status     string
	StartedAt  time.Time
	FinishedAt time.Time
	Finished   bool
}

// MemoryRecorder is an in-memory backup.Recorder for tests.
type MemoryRecorder struct {
	Runs   []*RunRecord
	Jobs   map[int64][]backup.JobResult
	nextID int64

	// FailBegin makes BeginRun return an error.
	FailBegin bool
}

func NewMemoryRecorder() *MemoryRecorder {
	return &MemoryRecorder{Jobs: make(map[int64][]backup.JobResult)}
}

func (r *MemoryRecorder) BeginRun(host string, dryRun bool, flags string, startedAt time.Time) (int64, error) {
	if r.FailBegin {
		return 0, fmt.Errorf("begin run: database is locked")
	}
	r.nextID++
	r.Runs = append(r.Runs, &RunRecord{
		ID:        r.nextID,
		Host:      host,
		DryRun:    dryRun,
		Flags:     flags,
		StartedAt: startedAt,
	})
	return r.nextID, nil
}

func (r *MemoryRecorder) RecordJob(runID int64, res backup.JobResult) error {
	r.Jobs[runID] = append(r.Jobs[runID], res)
	return nil
}

func (r *MemoryRecorder) FinishRun(runID int64, status string, finishedAt time.Time) error {
	for _, run := range r.Runs {
		if run.ID == runID {
			run.Status = status
			run.FinishedAt = finishedAt
			run.Finished = true
			return nil
		}
	}
	return fmt.Errorf("finish run: unknown run id %d", runID)
}
