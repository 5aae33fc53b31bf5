package rsync

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
)

// DefaultBinary is the rsync executable looked up on PATH when the config
// does not name one.
const DefaultBinary = "rsync"

// Job is a single directory synchronization unit: mirror the contents of
// Source into Destination. Source carries a trailing separator so rsync
// copies the directory's contents rather than the directory itself.
type Job struct {
	Source      string
	Destination string
	DryRun      bool
}

// Runner executes sync jobs. Implementations run one job to completion
// before returning; there is no internal parallelism.
type Runner interface {
	Run(ctx context.Context, job Job) error
}

// ExecRunner invokes the external rsync binary for each job, streaming its
// output through unchanged so transfer progress and errors reach the user
// directly.
type ExecRunner struct {
	binary       string
	modifyWindow int

	// Stdout and Stderr receive rsync's output. They default to the
	// process's own streams.
	Stdout io.Writer
	Stderr io.Writer
}

// NewExecRunner creates a runner for the given rsync binary.
// modifyWindow is the timestamp comparison tolerance in seconds
// (rsync --modify-window), useful when destinations sit on filesystems
// with coarse mtime resolution (FAT, some network mounts).
func NewExecRunner(binary string, modifyWindow int) *ExecRunner {
	if binary == "" {
		binary = DefaultBinary
	}
	return &ExecRunner{
		binary:       binary,
		modifyWindow: modifyWindow,
		Stdout:       os.Stdout,
		Stderr:       os.Stderr,
	}
}

// Args builds the rsync argument list for a job:
// archive semantics, compression, tolerant timestamp comparison, deletion
// of destination files absent from source, and progress reporting.
// Dry-run appends -n so rsync reports planned changes without applying them.
func (r *ExecRunner) Args(job Job) []string {
	args := []string{
		"-a", // archive: recursive, preserve permissions, times, symlinks
		"-z", // compress file data during transfer
		fmt.Sprintf("--modify-window=%d", r.modifyWindow),
		"--delete", // remove destination files absent from source
		"--progress",
	}
	if job.DryRun {
		args = append(args, "-n")
	}
	return append(args, job.Source, job.Destination)
}

// Run invokes rsync for the job and blocks until it exits.
// rsync's stdout/stderr are piped straight through for real-time progress.
func (r *ExecRunner) Run(ctx context.Context, job Job) error {
	cmd := exec.CommandContext(ctx, r.binary, r.Args(job)...)
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("rsync %s -> %s: %w", job.Source, job.Destination, err)
	}
	return nil
}

// ExitCode extracts the exit code of a failed rsync invocation.
// Returns -1 when the error does not carry one (binary not found,
// context cancelled before exec).
func ExitCode(err error) int {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}

// Compile-time check that ExecRunner implements Runner
var _ Runner = (*ExecRunner)(nil)
