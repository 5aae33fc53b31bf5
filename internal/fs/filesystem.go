package fs

import (
	"fmt"
	"os"
)

// FilesystemManager provides the small filesystem surface the orchestrator
// needs. It abstracts file access to enable testing without real mounts.
type FilesystemManager interface {
	// DirExists reports whether path exists and is a directory.
	DirExists(path string) bool

	// MkdirAll creates a directory along with any missing parents.
	MkdirAll(path string) error
}

// OSFilesystemManager is the real filesystem implementation of FilesystemManager.
// It performs actual filesystem operations using the os package.
type OSFilesystemManager struct{}

// NewOSFilesystemManager creates a filesystem manager that operates on the
// real filesystem.
func NewOSFilesystemManager() *OSFilesystemManager {
	return &OSFilesystemManager{}
}

// DirExists reports whether path exists and is a directory.
// Stat errors (including permission errors) are treated as "does not exist";
// the caller only needs a go/no-go answer for a mount point.
func (m *OSFilesystemManager) DirExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}

// MkdirAll creates a directory and any missing parents with 0755 permissions.
func (m *OSFilesystemManager) MkdirAll(path string) error {
	if err := os.MkdirAll(path, 0755); err != nil {
		return fmt.Errorf("creating directory %s: %w", path, err)
	}
	return nil
}

// Compile-time check that OSFilesystemManager implements FilesystemManager
var _ FilesystemManager = (*OSFilesystemManager)(nil)
