package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/calvinalkan/shofi/internal/config"
	"github.com/calvinalkan/shofi/internal/desktop"
	"github.com/calvinalkan/shofi/internal/fs"
	"github.com/calvinalkan/shofi/internal/launch"
	"github.com/calvinalkan/shofi/internal/registry"
	"github.com/calvinalkan/shofi/internal/session"
	"github.com/calvinalkan/shofi/internal/usage"
)

// app carries what every command needs: the effective config, the
// filesystem and a logger.
type app struct {
	cfg    *config.Config
	fs     fs.FS
	errOut io.Writer

	logger  *slog.Logger
	closeFn func() error
}

func newApp(cfg *config.Config, errOut io.Writer) *app {
	return &app{
		cfg:    cfg,
		fs:     fs.NewReal(),
		errOut: errOut,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// logToStderr routes logs to stderr. Used by non-interactive commands.
func (a *app) logToStderr() {
	a.logger = slog.New(slog.NewTextHandler(a.errOut, &slog.HandlerOptions{Level: a.cfg.Level()}))
}

// logToFile routes logs to the configured log file so they do not corrupt
// an interactive terminal. On failure logs are discarded and a warning is
// recorded.
func (a *app) logToFile(o *IO) {
	path := a.cfg.LogFile
	if path == "" {
		return
	}

	if err := a.fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		o.Warn("cannot create log directory "+filepath.Dir(path), "check permissions or set --log-file")

		return
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o640)
	if err != nil {
		o.Warn("cannot open log file "+path, "check permissions or set --log-file")

		return
	}

	a.logger = slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: a.cfg.Level()}))
	a.closeFn = f.Close
}

func (a *app) close() {
	if a.closeFn != nil {
		_ = a.closeFn()
		a.closeFn = nil
	}
}

// registry scans the configured sources.
func (a *app) registry() (*registry.Registry, error) {
	src := desktop.NewSource(a.fs, desktop.IsExecutable)

	return registry.Build(src, a.cfg.Sources, a.logger)
}

// usage loads the usage store. A corrupt file is logged and replaced by an
// empty history.
func (a *app) usage() *usage.Store {
	store, err := usage.Load(a.fs, a.cfg.UsagePath())
	if err != nil {
		a.logger.Warn("Usage: starting with empty history", "path", a.cfg.UsagePath(), "error", err)
	}

	return store
}

func (a *app) launcher() *launch.Launcher {
	return launch.New(a.cfg.Terminal, launch.WithLogger(a.logger))
}

// session builds a full session: registry, usage and launcher.
func (a *app) session() (*session.Session, *registry.Registry, error) {
	reg, err := a.registry()
	if err != nil {
		return nil, nil, err
	}

	return session.New(reg.Entries(), a.usage(), a.launcher(), a.logger), reg, nil
}

// reportOutcome turns a session outcome into warnings. Launch and persist
// failures are not fatal for a launcher that already closed.
func reportOutcome(o *IO, out session.Outcome) {
	if out.LaunchErr != nil {
		o.Warn(fmt.Sprintf("failed to launch %s: %v", out.Entry.ID, out.LaunchErr), "check the Exec line of "+out.Entry.File)
	}

	if out.PersistErr != nil {
		o.Warn(fmt.Sprintf("usage not saved: %v", out.PersistErr), "check that the data directory is writable")
	}
}

var errUnknownID = errors.New("unknown application id")
