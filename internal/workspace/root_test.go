package workspace

import (
	"os"
	"path/filepath"
	"testing"
)

func mkdirs(t *testing.T, dirs ...string) {
	t.Helper()
	for _, d := range dirs {
		if err := os.MkdirAll(d, 0755); err != nil {
			t.Fatal(err)
		}
	}
}

func touch(t *testing.T, paths ...string) {
	t.Helper()
	for _, p := range paths {
		mkdirs(t, filepath.Dir(p))
		if err := os.WriteFile(p, []byte("KEY=value\n"), 0644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestFindRoot(t *testing.T) {
	tests := []struct {
		name    string
		markers []string // relative to the temp dir
		start   string
		want    string
	}{
		{"project config", []string{".envy.yaml"}, "apps/web", "."},
		{"pnpm workspace", []string{"pnpm-workspace.yaml"}, "apps/web", "."},
		{"go workspace", []string{"go.work"}, "cmd/tool", "."},
		{"git as fallback", []string{".git/HEAD"}, "src", "."},
		{"nearest marker wins", []string{".git/HEAD", "packages/lib/turbo.json"}, "packages/lib/src", "packages/lib"},
		{"no markers", nil, "", "."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmp := t.TempDir()
			for _, m := range tt.markers {
				touch(t, filepath.Join(tmp, m))
			}
			start := filepath.Join(tmp, tt.start)
			mkdirs(t, start)

			got, err := FindRoot(start)
			if err != nil {
				t.Fatalf("FindRoot: %v", err)
			}
			want := filepath.Join(tmp, tt.want)
			if tt.markers == nil {
				want = start
			}
			if got != want {
				t.Errorf("FindRoot(%q) = %q, want %q", tt.start, got, want)
			}
		})
	}
}

func TestFindMarker(t *testing.T) {
	tmp := t.TempDir()
	if IsWorkspace(tmp) {
		t.Error("empty dir should not be a workspace")
	}
	if got := FormatMarkerForDisplay(FindMarker(tmp)); got != "unknown" {
		t.Errorf("display = %q, want unknown", got)
	}

	touch(t, filepath.Join(tmp, ".git", "HEAD"), filepath.Join(tmp, ".envy.yaml"))
	if !IsWorkspace(tmp) {
		t.Error("expected IsWorkspace true")
	}
	marker := FindMarker(tmp)
	if marker != ".envy.yaml" {
		t.Errorf("FindMarker = %q, want .envy.yaml ahead of .git", marker)
	}
	if got := FormatMarkerForDisplay(marker); got != "envy project" {
		t.Errorf("display = %q", got)
	}
	if got := FormatMarkerForDisplay(".git"); got != "git repository" {
		t.Errorf("display = %q", got)
	}
}
