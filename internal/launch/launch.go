// Package launch starts applications detached from the launcher.
package launch

import (
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"syscall"

	"github.com/calvinalkan/shofi/internal/registry"
)

// Starter starts cmd without waiting for it. The default starts the
// process in a new session and releases it.
type Starter func(cmd *exec.Cmd) error

// Launcher starts registry entries as detached processes.
type Launcher struct {
	terminal []string
	start    Starter
	logger   *slog.Logger
}

// Option configures a [Launcher].
type Option func(*Launcher)

// WithStarter replaces the function that starts the process.
func WithStarter(start Starter) Option {
	return func(l *Launcher) {
		l.start = start
	}
}

// WithLogger sets the logger. The default discards.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Launcher) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// New returns a launcher. terminal is the argv prefix for entries with
// Terminal=true, e.g. ["xterm", "-e"].
func New(terminal []string, opts ...Option) *Launcher {
	l := &Launcher{
		terminal: append([]string(nil), terminal...),
		start:    startDetached,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// Command builds the command for entry without starting it.
func (l *Launcher) Command(entry registry.Entry) (*exec.Cmd, error) {
	argv, err := Argv(entry, l.terminal)
	if err != nil {
		return nil, err
	}

	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.Dir = entry.WorkDir
	cmd.Stdin = nil
	cmd.Stdout = nil
	cmd.Stderr = nil
	cmd.SysProcAttr = &syscall.SysProcAttr{
		Setsid: true,
	}

	return cmd, nil
}

// Launch starts entry and returns once the process is running. It never
// waits for the process to exit.
func (l *Launcher) Launch(entry registry.Entry) error {
	cmd, err := l.Command(entry)
	if err != nil {
		return err
	}

	if err := l.start(cmd); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrStart, entry.ID, err)
	}

	l.logger.Info("Launch: started", "id", entry.ID, "argv", cmd.Args, "dir", cmd.Dir)

	return nil
}

func startDetached(cmd *exec.Cmd) error {
	if err := cmd.Start(); err != nil {
		return err
	}

	// Detach; the launcher exits right after and never reaps the child.
	if err := cmd.Process.Release(); err != nil {
		return fmt.Errorf("release process: %w", err)
	}

	return nil
}
