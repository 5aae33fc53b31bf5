package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config represents the main configuration for rbak.
// It is built once at startup and passed explicitly into the orchestrator;
// nothing reads it through package globals.
type Config struct {
	WorkHostname string   `toml:"work_hostname"` // host on which the source-code task runs
	SourceRoot   string   `toml:"source_root"`   // default source root, usually the home directory
	Destinations []string `toml:"destinations"`  // candidate backup roots, in priority order
	LogDir       string   `toml:"log_dir"`

	Rsync    RsyncConfig           `toml:"rsync"`
	Tasks    map[string]TaskConfig `toml:"tasks"` // keyed by task name
	Database DatabaseConfig        `toml:"database"`
}

// RsyncConfig holds settings for the external rsync invocation.
type RsyncConfig struct {
	Binary       string `toml:"binary"`        // path to rsync; empty means look up on PATH
	ModifyWindow int    `toml:"modify_window"` // mtime comparison tolerance in seconds
}

// TaskConfig describes the directories behind one named backup task.
type TaskConfig struct {
	// Subdirs are the relative subdirectories synced by this task, each
	// expanded against every mounted destination root.
	Subdirs []string `toml:"subdirs"`

	// SourceRoot overrides the global source root, e.g. for trees that
	// live on a mounted Windows partition rather than under home.
	SourceRoot string `toml:"source_root,omitempty"`
}

// DatabaseConfig represents configuration for the run-history database.
// This uses a tagged union pattern - the Type field determines which other
// fields are relevant.
type DatabaseConfig struct {
	Type    string `toml:"type"`               // "sqlite" or "memory"
	DataDir string `toml:"data_dir,omitempty"` // only used for type=sqlite
}

// NewConfig creates a Config with sensible defaults for the given host and
// directories. The destination candidates and Windows-partition roots are
// starting points the user edits after `config init`.
func NewConfig(workHostname, homeDir, baseDir string) *Config {
	return &Config{
		WorkHostname: workHostname,
		SourceRoot:   homeDir,
		Destinations: []string{
			"/mnt/external",
			"/mnt/external2",
		},
		LogDir: filepath.Join(baseDir, "log"),
		Rsync: RsyncConfig{
			ModifyWindow: 2,
		},
		Tasks: map[string]TaskConfig{
			"config":       {Subdirs: []string{".config"}},
			"dedup-backup": {Subdirs: []string{"backup"}},
			"videos":       {Subdirs: []string{"Videos"}},
			"source-code":  {Subdirs: []string{"src"}},
			"photos":       {Subdirs: []string{"Pictures"}},
			"windows-profile-a": {
				SourceRoot: "/mnt/windows/Users/main",
				Subdirs:    []string{"Documents", "Desktop", "Pictures"},
			},
			"windows-profile-b": {
				SourceRoot: "/mnt/windows2/Users/main",
				Subdirs:    []string{"Documents", "Desktop", "Pictures"},
			},
		},
		Database: DatabaseConfig{
			Type:    "sqlite",
			DataDir: filepath.Join(baseDir, "db"),
		},
	}
}

// Manager handles reading and writing configuration.
type Manager struct{}

// Read decodes a Config from the provided reader.
func (m *Manager) Read(r io.Reader) (*Config, error) {
	var cfg Config
	if _, err := toml.NewDecoder(r).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return &cfg, nil
}

// Write encodes a Config to the provided writer.
func (m *Manager) Write(w io.Writer, cfg *Config) error {
	if err := toml.NewEncoder(w).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// ReadFromFile reads a Config from the specified file path.
func ReadFromFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	cfg, err := m.Read(f)
	if err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}
	return cfg, nil
}

// writeToFile writes a Config to the specified file path.
func writeToFile(path string, cfg *Config) error {
	// Ensure the directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	if err := m.Write(f, cfg); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// Init initializes a new config file at the specified path with the provided Config.
func Init(path string, cfg *Config) error {
	// Check if config already exists
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := writeToFile(path, cfg); err != nil {
		return fmt.Errorf("initializing config: %w", err)
	}
	return nil
}
