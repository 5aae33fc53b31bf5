package testutil

import (
	"context"
	"fmt"

	"rbak/internal/rsync"
)

// StubRunner records every job instead of invoking rsync.
type StubRunner struct {
	// Jobs holds each job passed to Run, in invocation order.
	Jobs []rsync.Job

	// FailDestinations makes Run return an error for jobs targeting any
	// of these destination paths.
	FailDestinations map[string]bool
}

// NewStubRunner creates a runner that succeeds for every job.
func NewStubRunner() *StubRunner {
	return &StubRunner{FailDestinations: make(map[string]bool)}
}

func (r *StubRunner) Run(_ context.Context, job rsync.Job) error {
	r.Jobs = append(r.Jobs, job)
	if r.FailDestinations[job.Destination] {
		return fmt.Errorf("rsync %s -> %s: exit status 23", job.Source, job.Destination)
	}
	return nil
}
