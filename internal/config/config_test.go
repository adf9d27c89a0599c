package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
}

// newWorkspace creates a temp dir marked as a workspace root so lookups
// never walk above it.
func newWorkspace(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	if err := os.Mkdir(filepath.Join(root, ".git"), 0755); err != nil {
		t.Fatalf("Mkdir: %v", err)
	}
	t.Setenv(ConfigDirEnv, filepath.Join(root, "global"))
	return root
}

func TestLoad(t *testing.T) {
	t.Run("defaults without any file", func(t *testing.T) {
		root := newWorkspace(t)

		cfg, err := Load(root)
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if cfg.Format.Dupes != "keep-first" || cfg.Sort.Method != "group" {
			t.Errorf("cfg = %+v", cfg)
		}
		if cfg.CheckRequired() || cfg.ErrorMode() {
			t.Error("validate flags should default to false")
		}
		if cfg.Validate.Example != ".env.example" {
			t.Errorf("Example = %q", cfg.Validate.Example)
		}
		if len(cfg.Sources) != 0 {
			t.Errorf("Sources = %v, want none", cfg.Sources)
		}
	})

	t.Run("project overrides global", func(t *testing.T) {
		root := newWorkspace(t)
		writeFile(t, GlobalPath(), "format:\n  dupes: keep-last\nsort:\n  method: alpha\n")
		writeFile(t, filepath.Join(root, ProjectFileName), "sort:\n  method: group\nvalidate:\n  error: true\n")

		cfg, err := Load(root)
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if cfg.Format.Dupes != "keep-last" {
			t.Errorf("Dupes = %q, want keep-last from global", cfg.Format.Dupes)
		}
		if cfg.Sort.Method != "group" {
			t.Errorf("Method = %q, want group from project", cfg.Sort.Method)
		}
		if !cfg.ErrorMode() {
			t.Error("ErrorMode() should be true from project")
		}
		if len(cfg.Sources) != 2 {
			t.Errorf("Sources = %v, want 2 files", cfg.Sources)
		}
	})

	t.Run("project file found from subdirectory", func(t *testing.T) {
		root := newWorkspace(t)
		writeFile(t, filepath.Join(root, ProjectFileName), "validate:\n  check_required: true\n  example: .env.sample\n")
		sub := filepath.Join(root, "apps", "api")
		if err := os.MkdirAll(sub, 0755); err != nil {
			t.Fatalf("MkdirAll: %v", err)
		}

		cfg, err := Load(sub)
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if !cfg.CheckRequired() || cfg.Validate.Example != ".env.sample" {
			t.Errorf("cfg.Validate = %+v", cfg.Validate)
		}
	})

	t.Run("malformed yaml is an error", func(t *testing.T) {
		root := newWorkspace(t)
		writeFile(t, filepath.Join(root, ProjectFileName), "format: [unclosed\n")

		if _, err := Load(root); err == nil {
			t.Error("Load() should error on malformed yaml")
		}
	})
}

func TestWriteProjectFile(t *testing.T) {
	root := newWorkspace(t)

	path, err := WriteProjectFile(root, Default())
	if err != nil {
		t.Fatalf("WriteProjectFile() error = %v", err)
	}
	if path != filepath.Join(root, ProjectFileName) {
		t.Errorf("path = %q", path)
	}

	cfg, err := Load(root)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Format.Dupes != "keep-first" || len(cfg.Sources) != 1 {
		t.Errorf("cfg = %+v", cfg)
	}

	if _, err := WriteProjectFile(root, Default()); err == nil {
		t.Error("WriteProjectFile() should refuse to overwrite")
	}
}
