package e2e

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// cliResult holds the output from running the CLI binary.
type cliResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
	Duration time.Duration
}

// runCLI executes the binary with args in workDir, feeding stdin, and
// returns the result. env entries are appended to the environment.
func runCLI(t *testing.T, workDir, stdin string, env []string, args ...string) *cliResult {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cmd := exec.CommandContext(ctx, binaryPath, args...)
	cmd.Dir = workDir
	cmd.Env = append(os.Environ(), "NO_COLOR=1", "TERM=dumb", "XDG_CONFIG_HOME="+filepath.Join(workDir, ".xdg"))
	cmd.Env = append(cmd.Env, env...)
	cmd.Stdin = strings.NewReader(stdin)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	duration := time.Since(start)

	exitCode := 0
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			exitCode = exitErr.ExitCode()
		} else {
			t.Fatalf("failed to run %s %v: %v", binaryPath, args, err)
		}
	}

	return &cliResult{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		ExitCode: exitCode,
		Duration: duration,
	}
}

// combined returns stdout + stderr concatenated.
func (r *cliResult) combined() string {
	return r.Stdout + r.Stderr
}

// assertExit asserts the exit code matches expected.
func assertExit(t *testing.T, r *cliResult, code int) {
	t.Helper()
	if r.ExitCode != code {
		t.Errorf("expected exit code %d, got %d\nstdout: %s\nstderr: %s", code, r.ExitCode, r.Stdout, r.Stderr)
	}
}

// assertStdout asserts stdout is exactly want.
func assertStdout(t *testing.T, r *cliResult, want string) {
	t.Helper()
	if r.Stdout != want {
		t.Errorf("stdout = %q, want %q\nstderr: %s", r.Stdout, want, r.Stderr)
	}
}

// assertContains checks that the combined output contains substr.
func assertContains(t *testing.T, r *cliResult, substr string) {
	t.Helper()
	if !strings.Contains(r.combined(), substr) {
		t.Errorf("output does not contain %q\nstdout: %s\nstderr: %s", substr, r.Stdout, r.Stderr)
	}
}

// assertNotContains checks that the combined output does NOT contain substr.
func assertNotContains(t *testing.T, r *cliResult, substr string) {
	t.Helper()
	if strings.Contains(r.combined(), substr) {
		t.Errorf("output unexpectedly contains %q\nstdout: %s\nstderr: %s", substr, r.Stdout, r.Stderr)
	}
}

// newRepo creates a temp directory marked as a git repository root.
func newRepo(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, ".git"), 0o755); err != nil {
		t.Fatalf("creating .git: %v", err)
	}
	return dir
}

// writeFile writes content to dir/rel, creating parent directories.
func writeFile(t *testing.T, dir, rel, content string) string {
	t.Helper()
	path := filepath.Join(dir, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("creating dir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing file %s: %v", path, err)
	}
	return path
}
