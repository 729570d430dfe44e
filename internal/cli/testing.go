package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// CLI provides a clean interface for running CLI commands in tests.
// It manages a temp XDG tree and environment variables.
type CLI struct {
	t   *testing.T
	Dir string
	Env map[string]string
}

// NewCLI creates a new test CLI rooted in a temp directory. The XDG
// variables point below it and a config file limits the scan to
// [CLI.AppsDir].
func NewCLI(t *testing.T) *CLI {
	t.Helper()

	dir := t.TempDir()

	c := &CLI{
		t:   t,
		Dir: dir,
		Env: map[string]string{
			"HOME":            filepath.Join(dir, "home"),
			"XDG_CONFIG_HOME": filepath.Join(dir, "config"),
			"XDG_DATA_HOME":   filepath.Join(dir, "data"),
			"XDG_STATE_HOME":  filepath.Join(dir, "state"),
			"XDG_DATA_DIRS":   filepath.Join(dir, "system"),
			"TERMINAL":        "xterm",
		},
	}

	mustMkdir(t, c.AppsDir())
	c.WriteConfig(fmt.Sprintf(`{
  // generated by the test harness
  "sources": [{"dir": %q}],
}
`, c.AppsDir()))

	return c
}

// AppsDir returns the directory scanned for desktop files.
func (r *CLI) AppsDir() string {
	return filepath.Join(r.Dir, "apps")
}

// ConfigPath returns the path of the global config file.
func (r *CLI) ConfigPath() string {
	return filepath.Join(r.Env["XDG_CONFIG_HOME"], "shofi", "config.json")
}

// UsagePath returns the path of usage.json.
func (r *CLI) UsagePath() string {
	return filepath.Join(r.Env["XDG_DATA_HOME"], "shofi", "usage.json")
}

// LogPath returns the default log file path.
func (r *CLI) LogPath() string {
	return filepath.Join(r.Env["XDG_STATE_HOME"], "shofi", "shofi.log")
}

// Run executes the CLI with the given args and returns stdout, stderr, and exit code.
// Args should not include "shofi" - it is added automatically.
func (r *CLI) Run(args ...string) (string, string, int) {
	return r.RunWithInput("", args...)
}

// RunWithInput executes the CLI with stdin and returns stdout, stderr, and exit code.
// stdin must be a string or io.Reader; panics otherwise.
func (r *CLI) RunWithInput(stdin any, args ...string) (string, string, int) {
	var inReader io.Reader

	switch v := stdin.(type) {
	case string:
		inReader = strings.NewReader(v)
	case io.Reader:
		inReader = v
	default:
		panic(fmt.Sprintf("stdin must be string or io.Reader, got %T", stdin))
	}

	var outBuf, errBuf bytes.Buffer

	fullArgs := append([]string{"shofi"}, args...)
	code := Run(inReader, &outBuf, &errBuf, fullArgs, r.Env, nil)

	return outBuf.String(), errBuf.String(), code
}

// MustRun executes the CLI and fails the test if the command returns non-zero.
// Returns trimmed stdout on success.
func (r *CLI) MustRun(args ...string) string {
	r.t.Helper()

	stdout, stderr, code := r.Run(args...)
	if code != 0 {
		r.t.Fatalf("command %v failed with exit code %d\nstderr: %s", args, code, stderr)
	}

	return strings.TrimSpace(stdout)
}

// MustFail executes the CLI and fails the test if the command succeeds.
// Also fails if stdout is not empty. Returns trimmed stderr.
func (r *CLI) MustFail(args ...string) string {
	r.t.Helper()

	stdout, stderr, code := r.Run(args...)
	if code == 0 {
		r.t.Fatalf("command %v should have failed but succeeded\nstdout: %s", args, stdout)
	}

	if stdout != "" {
		r.t.Fatalf("command %v failed but stdout should be empty\nstdout: %s", args, stdout)
	}

	return strings.TrimSpace(stderr)
}

// WriteConfig writes the global config file.
func (r *CLI) WriteConfig(content string) {
	r.t.Helper()

	path := r.ConfigPath()
	mustMkdir(r.t, filepath.Dir(path))

	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		r.t.Fatalf("failed to write config: %v", err)
	}
}

// WriteDesktop writes an application desktop file into [CLI.AppsDir].
// id is the file name, e.g. "firefox.desktop".
func (r *CLI) WriteDesktop(id, name, comment, exec string) {
	r.t.Helper()

	var b strings.Builder

	b.WriteString("[Desktop Entry]\nType=Application\n")
	b.WriteString("Name=" + name + "\n")

	if comment != "" {
		b.WriteString("Comment=" + comment + "\n")
	}

	b.WriteString("Exec=" + exec + "\n")

	r.WriteFile(filepath.Join(r.AppsDir(), id), b.String())
}

// WriteFile writes raw content, creating parent directories.
func (r *CLI) WriteFile(path, content string) {
	r.t.Helper()

	mustMkdir(r.t, filepath.Dir(path))

	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		r.t.Fatalf("failed to write %s: %v", path, err)
	}
}

// ReadUsage returns the decoded usage file. A missing file yields nil.
func (r *CLI) ReadUsage() map[string]int {
	r.t.Helper()

	data, err := os.ReadFile(r.UsagePath())
	if os.IsNotExist(err) {
		return nil
	}

	if err != nil {
		r.t.Fatalf("failed to read usage: %v", err)
	}

	var counts map[string]int

	if err := json.Unmarshal(data, &counts); err != nil {
		r.t.Fatalf("failed to decode usage %q: %v", data, err)
	}

	return counts
}

// WriteUsage writes usage.json with the given counts.
func (r *CLI) WriteUsage(counts map[string]int) {
	r.t.Helper()

	data, err := json.Marshal(counts)
	if err != nil {
		r.t.Fatalf("failed to encode usage: %v", err)
	}

	r.WriteFile(r.UsagePath(), string(data))
}

func mustMkdir(t *testing.T, dir string) {
	t.Helper()

	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("failed to create %s: %v", dir, err)
	}
}

// AssertContains fails the test if content doesn't contain substr.
func AssertContains(t *testing.T, content, substr string) {
	t.Helper()

	if !strings.Contains(content, substr) {
		t.Errorf("content should contain %q\ncontent:\n%s", substr, content)
	}
}

// AssertNotContains fails the test if content contains substr.
func AssertNotContains(t *testing.T, content, substr string) {
	t.Helper()

	if strings.Contains(content, substr) {
		t.Errorf("content should NOT contain %q\ncontent:\n%s", substr, content)
	}
}
