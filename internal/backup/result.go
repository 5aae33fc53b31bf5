package backup

import "time"

// JobStatus classifies the outcome of one sync job.
type JobStatus string

const (
	StatusSuccess JobStatus = "success"
	StatusSkipped JobStatus = "skipped"
	StatusFailed  JobStatus = "failed"
)

// JobResult is the explicit per-job outcome: nothing the user requested is
// silently dropped, every skip carries its reason and every failure its
// exit code.
type JobResult struct {
	ID          string
	Task        string
	Source      string // empty for task-level skips
	Destination string // empty for task-level skips
	Status      JobStatus
	ExitCode    int    // rsync exit code for failed jobs, 0 otherwise
	Detail      string // skip reason or failure message
	At          time.Time
}

// RunSummary aggregates a run's job results.
type RunSummary struct {
	RunID     int64
	DryRun    bool
	Results   []JobResult
	Succeeded int
	Skipped   int
	Failed    int
}

// AnyFailed reports whether any job in the run failed. Skips alone do
// not make a run a failure.
func (s *RunSummary) AnyFailed() bool { return s.Failed > 0 }

func (s *RunSummary) add(res JobResult) {
	s.Results = append(s.Results, res)
	switch res.Status {
	case StatusSuccess:
		s.Succeeded++
	case StatusSkipped:
		s.Skipped++
	case StatusFailed:
		s.Failed++
	}
}
