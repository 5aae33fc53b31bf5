package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestManager_ReadWrite_RoundTrip(t *testing.T) {
	original := &Config{
		WorkHostname: "work-box",
		SourceRoot:   "/home/user",
		Destinations: []string{"/mnt/external", "/media/user/spare"},
		LogDir:       "/home/user/.local/share/rbak/log",
		Rsync:        RsyncConfig{Binary: "/usr/bin/rsync", ModifyWindow: 2},
		Tasks: map[string]TaskConfig{
			"photos": {Subdirs: []string{"Pictures"}},
			"windows-profile-a": {
				SourceRoot: "/mnt/windows/Users/main",
				Subdirs:    []string{"Documents", "Desktop"},
			},
		},
		Database: DatabaseConfig{Type: "sqlite", DataDir: "/home/user/.local/share/rbak/db"},
	}

	var buf bytes.Buffer
	m := &Manager{}

	if err := m.Write(&buf, original); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	got, err := m.Read(&buf)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}

	if got.WorkHostname != original.WorkHostname {
		t.Errorf("WorkHostname = %q, want %q", got.WorkHostname, original.WorkHostname)
	}
	if got.SourceRoot != original.SourceRoot {
		t.Errorf("SourceRoot = %q, want %q", got.SourceRoot, original.SourceRoot)
	}
	if len(got.Destinations) != 2 {
		t.Fatalf("len(Destinations) = %d, want 2", len(got.Destinations))
	}
	if got.Destinations[0] != "/mnt/external" {
		t.Errorf("Destinations[0] = %q, want %q", got.Destinations[0], "/mnt/external")
	}
	if got.Rsync.ModifyWindow != 2 {
		t.Errorf("Rsync.ModifyWindow = %d, want 2", got.Rsync.ModifyWindow)
	}
	photos, ok := got.Tasks["photos"]
	if !ok {
		t.Fatal("Tasks missing photos entry")
	}
	if len(photos.Subdirs) != 1 || photos.Subdirs[0] != "Pictures" {
		t.Errorf("photos.Subdirs = %v, want [Pictures]", photos.Subdirs)
	}
	winA, ok := got.Tasks["windows-profile-a"]
	if !ok {
		t.Fatal("Tasks missing windows-profile-a entry")
	}
	if winA.SourceRoot != "/mnt/windows/Users/main" {
		t.Errorf("windows-profile-a.SourceRoot = %q, want %q", winA.SourceRoot, "/mnt/windows/Users/main")
	}
	if got.Database.Type != "sqlite" {
		t.Errorf("Database.Type = %q, want %q", got.Database.Type, "sqlite")
	}
}

func TestNewConfig(t *testing.T) {
	cfg := NewConfig("work-box", "/home/user", "/data/rbak")

	if cfg.WorkHostname != "work-box" {
		t.Errorf("WorkHostname = %q, want %q", cfg.WorkHostname, "work-box")
	}
	if cfg.SourceRoot != "/home/user" {
		t.Errorf("SourceRoot = %q, want %q", cfg.SourceRoot, "/home/user")
	}
	if cfg.LogDir != "/data/rbak/log" {
		t.Errorf("LogDir = %q, want %q", cfg.LogDir, "/data/rbak/log")
	}
	if cfg.Database.DataDir != "/data/rbak/db" {
		t.Errorf("Database.DataDir = %q, want %q", cfg.Database.DataDir, "/data/rbak/db")
	}
	if cfg.Rsync.ModifyWindow != 2 {
		t.Errorf("Rsync.ModifyWindow = %d, want 2", cfg.Rsync.ModifyWindow)
	}
	if len(cfg.Destinations) == 0 {
		t.Error("expected default destination candidates")
	}

	// Every task the orchestrator knows must have a default entry.
	for _, name := range []string{
		"config", "dedup-backup", "videos", "source-code", "photos",
		"windows-profile-a", "windows-profile-b",
	} {
		tc, ok := cfg.Tasks[name]
		if !ok {
			t.Errorf("Tasks missing default entry for %q", name)
			continue
		}
		if len(tc.Subdirs) == 0 {
			t.Errorf("Tasks[%q] has no subdirs", name)
		}
	}
}

func TestInit(t *testing.T) {
	t.Run("creates config file", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "rbak.toml")
		cfg := NewConfig("h1", "/home/u", dir)

		if err := Init(path, cfg); err != nil {
			t.Fatalf("Init() error = %v", err)
		}

		if _, err := os.Stat(path); err != nil {
			t.Fatalf("config file not created: %v", err)
		}
	})

	t.Run("fails if file already exists", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "rbak.toml")
		cfg := NewConfig("h1", "/home/u", dir)

		if err := Init(path, cfg); err != nil {
			t.Fatalf("first Init() error = %v", err)
		}

		err := Init(path, cfg)
		if err == nil {
			t.Fatal("second Init() expected error")
		}
	})
}

func TestReadFromFile(t *testing.T) {
	t.Run("reads valid config", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "rbak.toml")
		cfg := NewConfig("read-test", "/home/u", dir)

		if err := Init(path, cfg); err != nil {
			t.Fatalf("Init() error = %v", err)
		}

		got, err := ReadFromFile(path)
		if err != nil {
			t.Fatalf("ReadFromFile() error = %v", err)
		}
		if got.WorkHostname != "read-test" {
			t.Errorf("WorkHostname = %q, want %q", got.WorkHostname, "read-test")
		}
	})

	t.Run("returns error for missing file", func(t *testing.T) {
		_, err := ReadFromFile("/nonexistent/path/rbak.toml")
		if err == nil {
			t.Fatal("ReadFromFile() expected error for missing file")
		}
	})
}
