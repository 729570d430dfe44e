// Package prompt is a line-mode front-end for terminals where a full
// screen UI is unwanted.
//
// Typing a query prints the numbered ranked results; typing a number
// launches that result. Tab completes the query to the names of the
// best matches. Queries are kept in a history file across runs.
package prompt

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/peterh/liner"

	"github.com/calvinalkan/shofi/internal/fs"
	"github.com/calvinalkan/shofi/internal/registry"
	"github.com/calvinalkan/shofi/internal/session"
)

const (
	promptText = "shofi> "

	// maxCompletions bounds the candidates offered on Tab.
	maxCompletions = 10
)

// LineReader reads one line of input. *liner.State implements it.
type LineReader interface {
	Prompt(prompt string) (string, error)
	AppendHistory(item string)
}

// Options configures [Run].
type Options struct {
	Out         io.Writer
	FS          fs.FS
	HistoryFile string // "" disables history
	Logger      *slog.Logger
}

// REPL reads queries and numbers until an entry is launched or input ends.
type REPL struct {
	session *session.Session
	out     io.Writer
	logger  *slog.Logger
}

// New returns a REPL over s writing to out.
func New(s *session.Session, out io.Writer, logger *slog.Logger) *REPL {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &REPL{session: s, out: out, logger: logger}
}

// Run starts an interactive prompt on the terminal.
func Run(s *session.Session, opts Options) error {
	fsys := opts.FS
	if fsys == nil {
		fsys = fs.NewReal()
	}

	r := New(s, opts.Out, opts.Logger)

	line := liner.NewLiner()
	defer line.Close()

	line.SetCtrlCAborts(true)
	line.SetCompleter(r.Complete)

	if opts.HistoryFile != "" {
		if data, err := fsys.ReadFile(opts.HistoryFile); err == nil {
			if _, err := line.ReadHistory(bytes.NewReader(data)); err != nil {
				r.logger.Warn("Prompt: cannot read history", "path", opts.HistoryFile, "error", err)
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			r.logger.Warn("Prompt: cannot read history", "path", opts.HistoryFile, "error", err)
		}
	}

	loopErr := r.Loop(line)

	if opts.HistoryFile != "" {
		if err := saveHistory(fsys, opts.HistoryFile, line); err != nil {
			r.logger.Warn("Prompt: cannot save history", "path", opts.HistoryFile, "error", err)
		}
	}

	return loopErr
}

func saveHistory(fsys fs.FS, path string, line *liner.State) error {
	var buf bytes.Buffer

	if _, err := line.WriteHistory(&buf); err != nil {
		return err
	}

	if err := fsys.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	return fsys.WriteFileAtomic(path, buf.Bytes())
}

// Loop runs the read-eval loop on in. It returns nil when input ends, the
// user aborts, or an entry was launched.
func (r *REPL) Loop(in LineReader) error {
	r.list(r.session.Results())

	for !r.session.Closed() {
		text, err := in.Prompt(promptText)
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
				r.session.Close()

				return nil
			}

			return fmt.Errorf("reading input: %w", err)
		}

		if strings.TrimSpace(text) != "" {
			in.AppendHistory(text)
		}

		r.eval(text)
	}

	return nil
}

func (r *REPL) eval(text string) {
	if n, err := strconv.Atoi(strings.TrimSpace(text)); err == nil {
		results := r.session.Results()
		if n < 1 || n > len(results) {
			fmt.Fprintf(r.out, "no result %d (1-%d)\n", n, len(results))

			return
		}

		r.session.ActivateIndex(n - 1)
		r.report()

		return
	}

	r.session.SetQuery(text)
	r.list(r.session.Results())
}

func (r *REPL) report() {
	out := r.session.Outcome()

	switch {
	case out.LaunchErr != nil:
		fmt.Fprintf(r.out, "failed to launch %s: %v\n", out.Entry.Name, out.LaunchErr)
	case out.Launched():
		fmt.Fprintf(r.out, "launched %s\n", out.Entry.Name)
	}
}

func (r *REPL) list(entries []registry.Entry) {
	if len(entries) == 0 {
		fmt.Fprintln(r.out, "no matches")

		return
	}

	for i, e := range entries {
		if e.Description != "" {
			fmt.Fprintf(r.out, "%2d) %s - %s\n", i+1, e.Name, e.Description)

			continue
		}

		fmt.Fprintf(r.out, "%2d) %s\n", i+1, e.Name)
	}
}

// Complete returns the names of the best matches for line.
func (r *REPL) Complete(line string) []string {
	if strings.TrimSpace(line) == "" {
		return nil
	}

	ranked := r.session.Rank(line)

	names := make([]string, 0, min(len(ranked), maxCompletions))
	for _, e := range ranked[:min(len(ranked), maxCompletions)] {
		names = append(names, e.Name)
	}

	return names
}
