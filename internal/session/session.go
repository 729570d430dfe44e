// Package session wires the ranker, the navigation state machine, the
// process launcher and the usage ledger into one launcher session.
//
// A [Session] owns the query, the current result list and the navigation
// state. Front-ends feed it input (query text, navigation keys, pointer
// activations) and render [Session.Results] and [Session.State]. Once an
// entry is activated or the user escapes, the session is closed and
// ignores further input.
package session

import (
	"io"
	"log/slog"
	"slices"

	"github.com/calvinalkan/shofi/internal/nav"
	"github.com/calvinalkan/shofi/internal/rank"
	"github.com/calvinalkan/shofi/internal/registry"
)

// Launcher starts an application.
type Launcher interface {
	Launch(entry registry.Entry) error
}

// Ledger records launches.
type Ledger interface {
	Count(id string) int
	Increment(id string) error
}

// Outcome describes how a session ended.
type Outcome struct {
	// Activated is true when the user picked an entry.
	Activated bool
	// Entry is the picked entry, zero unless Activated.
	Entry registry.Entry
	// LaunchErr is set when the launcher failed. Usage is not recorded then.
	LaunchErr error
	// PersistErr is set when the launch succeeded but the usage ledger
	// could not persist. The in-memory count was still incremented.
	PersistErr error
}

// Launched reports whether an entry was started successfully.
func (o Outcome) Launched() bool {
	return o.Activated && o.LaunchErr == nil
}

// Session is one launcher interaction. Not safe for concurrent use.
type Session struct {
	entries  []registry.Entry
	ledger   Ledger
	launcher Launcher
	logger   *slog.Logger

	query   string
	results []registry.Entry
	nav     *nav.Controller
	closed  bool
	outcome Outcome
}

// New returns a session over entries with an empty query.
func New(entries []registry.Entry, ledger Ledger, launcher Launcher, logger *slog.Logger) *Session {
	if ledger == nil {
		panic("ledger is nil")
	}

	if launcher == nil {
		panic("launcher is nil")
	}

	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	s := &Session{
		entries:  entries,
		ledger:   ledger,
		launcher: launcher,
		logger:   logger,
		nav:      nav.NewController(),
	}

	s.results = rank.Rank(s.entries, s.ledger, "")

	return s
}

// Query returns the current query text.
func (s *Session) Query() string {
	return s.query
}

// Rank ranks the session's entries for q without touching the session
// state. Front-ends use it for suggestions.
func (s *Session) Rank(q string) []registry.Entry {
	return rank.Rank(s.entries, s.ledger, q)
}

// Total returns the number of entries the session ranks over.
func (s *Session) Total() int {
	return len(s.entries)
}

// Results returns a copy of the current ranked result list.
func (s *Session) Results() []registry.Entry {
	return slices.Clone(s.results)
}

// State returns the navigation state.
func (s *Session) State() nav.State {
	return s.nav.State()
}

// Selected returns the selected entry, if any.
func (s *Session) Selected() (registry.Entry, bool) {
	st := s.nav.State()
	if st.Focus != nav.ListFocused || st.Selected < 0 || st.Selected >= len(s.results) {
		return registry.Entry{}, false
	}

	return s.results[st.Selected], true
}

// Closed reports whether the session ended.
func (s *Session) Closed() bool {
	return s.closed
}

// Outcome returns how the session ended. Meaningful once [Session.Closed].
func (s *Session) Outcome() Outcome {
	return s.outcome
}

// SetQuery replaces the query text, reranks and updates navigation.
// Setting the same text again is a no-op.
func (s *Session) SetQuery(q string) {
	if s.closed || q == s.query {
		return
	}

	s.query = q
	s.results = rank.Rank(s.entries, s.ledger, q)
	s.apply(s.nav.Handle(nav.QueryChanged(), len(s.results)))
}

// HandleKey feeds a navigation key.
func (s *Session) HandleKey(k nav.Key) {
	if s.closed {
		return
	}

	s.apply(s.nav.Handle(nav.KeyPress(k), len(s.results)))
}

// ActivateIndex activates result i, as a pointer click would.
func (s *Session) ActivateIndex(i int) {
	if s.closed {
		return
	}

	s.apply(s.nav.Handle(nav.PointerActivate(i), len(s.results)))
}

// Close ends the session without launching anything.
func (s *Session) Close() {
	s.closed = true
}

// Launch activates entry directly, bypassing the result list. It runs the
// same launch-then-record path as an activation from the list.
func (s *Session) Launch(entry registry.Entry) Outcome {
	if !s.closed {
		s.activate(entry)
	}

	return s.outcome
}

func (s *Session) apply(action nav.Action) {
	switch action.Kind {
	case nav.ActionActivate:
		s.activate(s.results[action.Index])
	case nav.ActionClose:
		s.logger.Debug("Session: closed without launch", "query", s.query)
		s.closed = true
	case nav.ActionNone, nav.ActionSelect, nav.ActionClearSelection:
	}
}

// activate launches entry, records usage on success and closes the
// session in every case.
func (s *Session) activate(entry registry.Entry) {
	s.closed = true
	s.outcome = Outcome{Activated: true, Entry: entry}

	if err := s.launcher.Launch(entry); err != nil {
		s.logger.Error("Session: launch failed", "id", entry.ID, "error", err)
		s.outcome.LaunchErr = err

		return
	}

	if err := s.ledger.Increment(entry.ID); err != nil {
		s.logger.Warn("Session: usage not persisted", "id", entry.ID, "error", err)
		s.outcome.PersistErr = err
	}
}
