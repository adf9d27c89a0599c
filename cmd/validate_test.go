package cmd

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRunValidate(t *testing.T) {
	t.Run("clean file passes", func(t *testing.T) {
		dir := setupProject(t, map[string]string{".env": "A=1\nB=${A}\n"})
		c, out, _ := newTestCmd()

		if err := runValidate(c, []string{filepath.Join(dir, ".env")}); err != nil {
			t.Fatalf("runValidate() error = %v", err)
		}
		if !strings.Contains(out.String(), "Validation passed: no issues found") {
			t.Errorf("stdout = %q", out.String())
		}
	})

	t.Run("duplicate reported without failing", func(t *testing.T) {
		dir := setupProject(t, map[string]string{".env": "A=1\nA=2\n"})
		c, out, _ := newTestCmd()

		if err := runValidate(c, []string{filepath.Join(dir, ".env")}); err != nil {
			t.Fatalf("runValidate() error = %v", err)
		}
		if !strings.Contains(out.String(), "Duplicate key: `A` (lines 1, 2)") {
			t.Errorf("stdout = %q", out.String())
		}
	})

	t.Run("error mode fails on duplicate", func(t *testing.T) {
		dir := setupProject(t, map[string]string{".env": "A=1\nA=2\n"})
		validateError = true
		c, out, _ := newTestCmd()

		err := runValidate(c, []string{filepath.Join(dir, ".env")})
		if !errors.Is(err, ErrValidationFailed) {
			t.Errorf("err = %v, want ErrValidationFailed", err)
		}
		if !strings.Contains(out.String(), "1 errors, 0 warnings") {
			t.Errorf("stdout = %q", out.String())
		}
	})

	t.Run("error mode ignores warnings", func(t *testing.T) {
		dir := setupProject(t, map[string]string{".env": "A=hello world\nB=${MISSING}\nnot an assignment\n"})
		validateError = true
		c, out, _ := newTestCmd()

		if err := runValidate(c, []string{filepath.Join(dir, ".env")}); err != nil {
			t.Fatalf("runValidate() error = %v", err)
		}
		for _, want := range []string{"consider quoting", "undefined variable `${MISSING}`", "Invalid line: `not an assignment`"} {
			if !strings.Contains(out.String(), want) {
				t.Errorf("stdout missing %q:\n%s", want, out.String())
			}
		}
	})

	t.Run("error mode from config", func(t *testing.T) {
		dir := setupProject(t, map[string]string{
			".env":       "A=1\nA=2\n",
			".envy.yaml": "validate:\n  error: true\n",
		})
		c, _, _ := newTestCmd()

		err := runValidate(c, []string{filepath.Join(dir, ".env")})
		if !errors.Is(err, ErrValidationFailed) {
			t.Errorf("err = %v, want ErrValidationFailed", err)
		}
	})

	t.Run("explicit flag overrides config", func(t *testing.T) {
		dir := setupProject(t, map[string]string{
			".env":       "A=1\nA=2\n",
			".envy.yaml": "validate:\n  error: true\n",
		})
		var out bytes.Buffer
		validateCmd.SetOut(&out)
		if err := validateCmd.Flags().Set("error", "false"); err != nil {
			t.Fatal(err)
		}
		t.Cleanup(func() {
			validateCmd.SetOut(nil)
			validateCmd.Flags().Lookup("error").Changed = false
		})

		if err := runValidate(validateCmd, []string{filepath.Join(dir, ".env")}); err != nil {
			t.Errorf("runValidate() error = %v, want nil with --error=false", err)
		}
	})

	t.Run("check required", func(t *testing.T) {
		dir := setupProject(t, map[string]string{
			".env":         "A=1\n",
			".env.example": "A=\nB=\n# comment\nC=\n",
		})
		validateCheckRequired = true
		validateError = true
		c, out, _ := newTestCmd()

		if err := runValidate(c, []string{filepath.Join(dir, ".env")}); err != nil {
			t.Fatalf("missing required keys should stay advisory, got %v", err)
		}
		for _, want := range []string{"Missing required key B", "Missing required key C"} {
			if !strings.Contains(out.String(), want) {
				t.Errorf("stdout missing %q:\n%s", want, out.String())
			}
		}
		if strings.Contains(out.String(), "Missing required key A") {
			t.Error("A is defined and should not be reported")
		}
	})

	t.Run("check required with custom example name", func(t *testing.T) {
		dir := setupProject(t, map[string]string{
			".env":        "A=1\n",
			".env.sample": "Z=\n",
			".envy.yaml":  "validate:\n  check_required: true\n  example: .env.sample\n",
		})
		c, out, _ := newTestCmd()

		if err := runValidate(c, []string{filepath.Join(dir, ".env")}); err != nil {
			t.Fatalf("runValidate() error = %v", err)
		}
		if !strings.Contains(out.String(), "Missing required key Z") {
			t.Errorf("stdout = %q", out.String())
		}
	})

	t.Run("missing example is fatal", func(t *testing.T) {
		dir := setupProject(t, map[string]string{".env": "A=1\n"})
		validateCheckRequired = true
		c, _, _ := newTestCmd()

		err := runValidate(c, []string{filepath.Join(dir, ".env")})
		if err == nil || errors.Is(err, ErrValidationFailed) {
			t.Errorf("err = %v, want an I/O error", err)
		}
		if !errors.Is(err, os.ErrNotExist) {
			t.Errorf("err = %v, want os.ErrNotExist", err)
		}
	})

	t.Run("several files get headers", func(t *testing.T) {
		dir := setupProject(t, map[string]string{
			"a/.env": "A=1\n",
			"b/.env": "B=1\nB=2\n",
		})
		validateError = true
		c, out, _ := newTestCmd()

		err := runValidate(c, []string{filepath.Join(dir, "*", ".env")})
		if !errors.Is(err, ErrValidationFailed) {
			t.Errorf("err = %v, want ErrValidationFailed from b/.env", err)
		}
		for _, want := range []string{filepath.Join(dir, "a", ".env"), filepath.Join(dir, "b", ".env")} {
			if !strings.Contains(out.String(), want) {
				t.Errorf("stdout missing header %q:\n%s", want, out.String())
			}
		}
	})
}

func TestRevalidateOnChange(t *testing.T) {
	run := func(t *testing.T, path string) (string, string) {
		t.Helper()
		c, out, errOut := newTestCmd()
		ctx, cancel := context.WithCancel(context.Background())
		changes := make(chan struct{})
		done := make(chan error, 1)
		go func() { done <- revalidateOnChange(ctx, c, []string{path}, changes) }()

		// unbuffered: returns once the loop has taken the signal
		changes <- struct{}{}
		changes <- struct{}{}
		cancel()

		if err := <-done; err != nil {
			t.Fatalf("revalidateOnChange() error = %v", err)
		}
		return out.String(), errOut.String()
	}

	t.Run("reports each change", func(t *testing.T) {
		dir := setupProject(t, map[string]string{".env": "A=1\nA=2\n"})
		out, _ := run(t, filepath.Join(dir, ".env"))

		if got := strings.Count(out, "Change detected"); got != 2 {
			t.Errorf("got %d re-runs, want 2:\n%s", got, out)
		}
		if !strings.Contains(out, "Duplicate key: `A`") {
			t.Errorf("stdout = %q", out)
		}
	})

	t.Run("missing file keeps watching", func(t *testing.T) {
		dir := setupProject(t, nil)
		out, errOut := run(t, filepath.Join(dir, ".env"))

		if got := strings.Count(errOut, "Error:"); got != 2 {
			t.Errorf("stderr = %q, want an error per change", errOut)
		}
		if got := strings.Count(out, "Change detected"); got != 2 {
			t.Errorf("stdout = %q", out)
		}
	})
}
