package main

import (
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"rbak/internal/backup"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "unknown flag", err: &flagError{err: errors.New("unknown shorthand flag: 'x'")}, want: 2},
		{name: "no task selected", err: backup.ErrNoTaskSelected, want: 3},
		{name: "wrapped no task selected", err: fmt.Errorf("backup: %w", backup.ErrNoTaskSelected), want: 3},
		{name: "jobs failed", err: errJobsFailed, want: 4},
		{name: "generic error", err: errors.New("reading config: no such file"), want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := exitCode(tt.err); got != tt.want {
				t.Errorf("exitCode(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

// resetCommandTree clears flag state left behind by a previous Execute and
// silences cobra's output. The command tree is package state, so tests
// driving run() share it.
func resetCommandTree(t *testing.T) {
	t.Helper()
	rootCmd.SetOut(io.Discard)
	rootCmd.SetErr(io.Discard)

	var reset func(c *cobra.Command)
	reset = func(c *cobra.Command) {
		c.Flags().VisitAll(func(f *pflag.Flag) {
			f.Value.Set(f.DefValue)
			f.Changed = false
		})
		for _, sub := range c.Commands() {
			reset(sub)
		}
	}
	reset(rootCmd)
}

// Cobra parses the help flag itself and Execute returns nil, so these
// contracts only hold end to end, not in the exitCode mapping alone.
func TestRun_ExitCodes(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want int
	}{
		{name: "backup help", args: []string{"backup", "-h"}, want: 1},
		{name: "backup long help", args: []string{"backup", "--help"}, want: 1},
		{name: "sumtime help", args: []string{"sumtime", "-h"}, want: 1},
		{name: "backup unknown flag", args: []string{"backup", "-x"}, want: 2},
		{name: "backup no task selected", args: []string{"backup"}, want: 3},
		{name: "backup dry-run alone still needs a task", args: []string{"backup", "-n"}, want: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetCommandTree(t)
			if got := run(tt.args); got != tt.want {
				t.Errorf("run(%v) = %d, want %d", tt.args, got, tt.want)
			}
		})
	}
}

func TestBackupCmd_FlagsMatchTaskTable(t *testing.T) {
	for _, task := range backup.Tasks {
		f := backupCmd.Flags().Lookup(task.Name)
		if f == nil {
			t.Errorf("backup command missing flag --%s", task.Name)
			continue
		}
		if f.Shorthand != task.Flag {
			t.Errorf("flag --%s shorthand = %q, want %q", task.Name, f.Shorthand, task.Flag)
		}
	}

	for flag, shorthand := range map[string]string{"dry-run": "n", "all": "a", "help": "h"} {
		f := backupCmd.Flags().Lookup(flag)
		if f == nil {
			t.Errorf("backup command missing flag --%s", flag)
			continue
		}
		if f.Shorthand != shorthand {
			t.Errorf("flag --%s shorthand = %q, want %q", flag, f.Shorthand, shorthand)
		}
	}
}
