package rsync

import (
	"errors"
	"os/exec"
	"reflect"
	"testing"
)

func TestExecRunner_Args(t *testing.T) {
	tests := []struct {
		name         string
		modifyWindow int
		job          Job
		want         []string
	}{
		{
			name:         "normal run",
			modifyWindow: 2,
			job:          Job{Source: "/home/u/Pictures/", Destination: "/mnt/backup/Pictures"},
			want: []string{
				"-a", "-z", "--modify-window=2", "--delete", "--progress",
				"/home/u/Pictures/", "/mnt/backup/Pictures",
			},
		},
		{
			name:         "dry run forwards -n",
			modifyWindow: 2,
			job:          Job{Source: "/home/u/Videos/", Destination: "/mnt/backup/Videos", DryRun: true},
			want: []string{
				"-a", "-z", "--modify-window=2", "--delete", "--progress", "-n",
				"/home/u/Videos/", "/mnt/backup/Videos",
			},
		},
		{
			name:         "custom modify window",
			modifyWindow: 5,
			job:          Job{Source: "/a/", Destination: "/b"},
			want: []string{
				"-a", "-z", "--modify-window=5", "--delete", "--progress",
				"/a/", "/b",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewExecRunner("rsync", tt.modifyWindow)
			got := r.Args(tt.job)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Args() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewExecRunner_DefaultBinary(t *testing.T) {
	r := NewExecRunner("", 2)
	if r.binary != DefaultBinary {
		t.Errorf("binary = %q, want %q", r.binary, DefaultBinary)
	}
}

func TestExitCode(t *testing.T) {
	t.Run("non-exit error", func(t *testing.T) {
		if got := ExitCode(errors.New("boom")); got != -1 {
			t.Errorf("ExitCode() = %d, want -1", got)
		}
	})

	t.Run("exit error from a real process", func(t *testing.T) {
		// `false` exits 1 on every platform that has it.
		err := exec.Command("false").Run()
		if err == nil {
			t.Skip("false unexpectedly succeeded")
		}
		if got := ExitCode(err); got != 1 {
			t.Errorf("ExitCode() = %d, want 1", got)
		}
	})

	t.Run("wrapped exit error", func(t *testing.T) {
		err := exec.Command("false").Run()
		if err == nil {
			t.Skip("false unexpectedly succeeded")
		}
		wrapped := errors.Join(errors.New("rsync failed"), err)
		if got := ExitCode(wrapped); got != 1 {
			t.Errorf("ExitCode() = %d, want 1", got)
		}
	})
}
