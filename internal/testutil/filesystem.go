package testutil

import "fmt"

// MockFilesystemManager is an in-memory filesystem for testing the
// orchestrator's mount and directory checks without real mounts.
type MockFilesystemManager struct {
	dirs map[string]bool

	// Created records every MkdirAll call in order, letting tests assert
	// that dry-run performs no mutation.
	Created []string

	// FailMkdir, when non-empty, makes MkdirAll fail for that exact path.
	FailMkdir string
}

// NewMockFilesystemManager creates an empty mock filesystem.
func NewMockFilesystemManager() *MockFilesystemManager {
	return &MockFilesystemManager{dirs: make(map[string]bool)}
}

// AddDirectory marks a directory as existing.
func (m *MockFilesystemManager) AddDirectory(path string) {
	m.dirs[path] = true
}

func (m *MockFilesystemManager) DirExists(path string) bool {
	return m.dirs[path]
}

func (m *MockFilesystemManager) MkdirAll(path string) error {
	if m.FailMkdir != "" && path == m.FailMkdir {
		return fmt.Errorf("mkdir %s: permission denied", path)
	}
	m.Created = append(m.Created, path)
	m.dirs[path] = true
	return nil
}
