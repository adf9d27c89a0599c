package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestConfigDir(t *testing.T) {
	t.Run("respects ENVY_CONFIG_DIR", func(t *testing.T) {
		tmpDir := t.TempDir()
		t.Setenv(ConfigDirEnv, tmpDir)

		got := ConfigDir()
		if got != tmpDir {
			t.Errorf("ConfigDir() = %q, want %q", got, tmpDir)
		}
	})

	t.Run("uses ~/.config/envy when ENVY_CONFIG_DIR unset", func(t *testing.T) {
		home, err := os.UserHomeDir()
		if err != nil {
			t.Skipf("cannot get user home dir: %v", err)
		}

		t.Setenv(ConfigDirEnv, "")

		got := ConfigDir()
		want := filepath.Join(home, ".config", ConfigSubdir)
		if got != want {
			t.Errorf("ConfigDir() = %q, want %q", got, want)
		}
	})
}

func TestGlobalPath(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv(ConfigDirEnv, tmpDir)

	got := GlobalPath()
	want := filepath.Join(tmpDir, GlobalFileName)
	if got != want {
		t.Errorf("GlobalPath() = %q, want %q", got, want)
	}
}
