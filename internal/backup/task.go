package backup

import (
	"errors"
	"sort"
	"strings"
)

// Task describes one named, independently selectable backup operation.
// The set of tasks is fixed; the directories behind each task come from
// configuration (Params.Paths).
type Task struct {
	Name string
	Flag string // single-character CLI flag selecting the task

	// WorkHostOnly restricts the task to the configured work computer.
	// On any other host the task is silently skipped.
	WorkHostOnly bool

	// ExplicitOnly excludes the task from the "all" shortcut; it runs
	// only when its own flag is given. Used for the Windows-partition
	// profile trees, which are host/mount specific.
	ExplicitOnly bool
}

// Tasks is the fixed dispatch table. Order matters: tasks always run in
// this sequence so repeated invocations behave identically.
var Tasks = []Task{
	{Name: "config", Flag: "c"},
	{Name: "dedup-backup", Flag: "d"},
	{Name: "videos", Flag: "v"},
	{Name: "source-code", Flag: "f", WorkHostOnly: true},
	{Name: "photos", Flag: "p"},
	{Name: "windows-profile-a", Flag: "w", ExplicitOnly: true},
	{Name: "windows-profile-b", Flag: "j", ExplicitOnly: true},
}

// ErrNoTaskSelected is returned when a backup run is requested with no
// task flags at all.
var ErrNoTaskSelected = errors.New("no backup task selected")

// Selection captures which tasks a run should execute, plus the
// process-wide dry-run switch.
type Selection struct {
	DryRun bool
	All    bool
	Names  map[string]bool // tasks selected by their own flag
}

// NewSelection creates an empty selection.
func NewSelection() Selection {
	return Selection{Names: make(map[string]bool)}
}

// Select marks a task as explicitly selected.
func (s Selection) Select(name string) {
	s.Names[name] = true
}

// Includes reports whether the task runs under this selection.
// "all" covers every task except those marked ExplicitOnly.
func (s Selection) Includes(t Task) bool {
	if s.Names[t.Name] {
		return true
	}
	return s.All && !t.ExplicitOnly
}

// Validate ensures at least one task is selected. Dry-run alone does not
// count: there must be something to (not) do.
func (s Selection) Validate() error {
	if s.All || len(s.Names) > 0 {
		return nil
	}
	return ErrNoTaskSelected
}

// String renders the selection for logging and run-history records,
// e.g. "all,dry-run" or "photos,videos".
func (s Selection) String() string {
	var parts []string
	if s.All {
		parts = append(parts, "all")
	}
	names := make([]string, 0, len(s.Names))
	for name := range s.Names {
		names = append(names, name)
	}
	sort.Strings(names)
	parts = append(parts, names...)
	if s.DryRun {
		parts = append(parts, "dry-run")
	}
	return strings.Join(parts, ",")
}
