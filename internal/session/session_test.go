package session_test

import (
	"bytes"
	"errors"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calvinalkan/shofi/internal/fs"
	"github.com/calvinalkan/shofi/internal/nav"
	"github.com/calvinalkan/shofi/internal/registry"
	"github.com/calvinalkan/shofi/internal/session"
	"github.com/calvinalkan/shofi/internal/usage"
)

type fakeLauncher struct {
	err      error
	launched []string
}

func (f *fakeLauncher) Launch(entry registry.Entry) error {
	if f.err != nil {
		return f.err
	}

	f.launched = append(f.launched, entry.ID)

	return nil
}

type memLedger struct {
	counts map[string]int
	err    error
}

func (m *memLedger) Count(id string) int { return m.counts[id] }

func (m *memLedger) Increment(id string) error {
	m.counts[id]++

	return m.err
}

func apps() []registry.Entry {
	return []registry.Entry{
		{ID: "files.desktop", Name: "Files", Description: "Access and organize files"},
		{ID: "firefox.desktop", Name: "Firefox", Description: "Web browser"},
		{ID: "fish.desktop", Name: "Fish Shell"},
		{ID: "gimp.desktop", Name: "GIMP", Description: "Image editor"},
	}
}

func ids(entries []registry.Entry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.ID)
	}

	return out
}

func newSession(t *testing.T, counts map[string]int) (*session.Session, *fakeLauncher, *memLedger) {
	t.Helper()

	if counts == nil {
		counts = map[string]int{}
	}

	launcher := &fakeLauncher{}
	ledger := &memLedger{counts: counts}

	return session.New(apps(), ledger, launcher, nil), launcher, ledger
}

func typeQuery(s *session.Session, q string) {
	for i := range len(q) {
		s.SetQuery(q[:i+1])
	}
}

func Test_Session_Initial_Results_Are_Most_Used(t *testing.T) {
	t.Parallel()

	s, _, _ := newSession(t, map[string]int{"gimp.desktop": 3})

	assert.Equal(t, []string{"gimp.desktop", "files.desktop", "firefox.desktop", "fish.desktop"}, ids(s.Results()))
	assert.Equal(t, nav.Initial(), s.State())
	assert.False(t, s.Closed())
}

func Test_Session_Type_Navigate_Activate(t *testing.T) {
	t.Parallel()

	s, launcher, ledger := newSession(t, map[string]int{"firefox.desktop": 5, "files.desktop": 1})

	typeQuery(s, "fi")
	assert.Equal(t, []string{"firefox.desktop", "files.desktop", "fish.desktop"}, ids(s.Results()))
	assert.Equal(t, nav.Initial(), s.State())

	s.HandleKey(nav.KeyDown)
	s.HandleKey(nav.KeyDown)

	selected, ok := s.Selected()
	require.True(t, ok)
	assert.Equal(t, "files.desktop", selected.ID)

	s.HandleKey(nav.KeyEnter)

	require.True(t, s.Closed())
	assert.Equal(t, []string{"files.desktop"}, launcher.launched)
	assert.Equal(t, 2, ledger.Count("files.desktop"))

	out := s.Outcome()
	assert.True(t, out.Launched())
	assert.Equal(t, "files.desktop", out.Entry.ID)
	require.NoError(t, out.LaunchErr)
	require.NoError(t, out.PersistErr)
}

func Test_Session_Refilter_While_In_List_Selects_First(t *testing.T) {
	t.Parallel()

	s, _, _ := newSession(t, nil)

	s.HandleKey(nav.KeyDown)
	s.HandleKey(nav.KeyDown)
	assert.Equal(t, nav.State{Focus: nav.ListFocused, Selected: 1}, s.State())

	s.SetQuery("f")
	assert.Equal(t, nav.State{Focus: nav.ListFocused, Selected: 0}, s.State())

	s.SetQuery("fzz")
	assert.Empty(t, s.Results())
	assert.Equal(t, nav.Initial(), s.State())

	s.SetQuery("f")
	assert.Equal(t, nav.Initial(), s.State(), "focus stays in search once dropped")
}

func Test_Session_Escape_Closes_Without_Launch(t *testing.T) {
	t.Parallel()

	s, launcher, ledger := newSession(t, nil)

	s.HandleKey(nav.KeyEscape)

	assert.True(t, s.Closed())
	assert.Empty(t, launcher.launched)
	assert.Empty(t, ledger.counts)
	assert.False(t, s.Outcome().Activated)

	s.HandleKey(nav.KeyDown)
	s.SetQuery("x")
	assert.Equal(t, nav.Initial(), s.State(), "closed session ignores input")
	assert.Empty(t, s.Query())
}

func Test_Session_Pointer_Activation(t *testing.T) {
	t.Parallel()

	s, launcher, _ := newSession(t, nil)

	s.ActivateIndex(99)
	assert.False(t, s.Closed())

	s.ActivateIndex(3)
	assert.True(t, s.Closed())
	assert.Equal(t, []string{"gimp.desktop"}, launcher.launched)
}

func Test_Session_Launch_Failure_Does_Not_Record_Usage(t *testing.T) {
	t.Parallel()

	var logs bytes.Buffer

	launcher := &fakeLauncher{err: errors.New("exec: not found")}
	ledger := &memLedger{counts: map[string]int{}}
	s := session.New(apps(), ledger, launcher, slog.New(slog.NewTextHandler(&logs, nil)))

	s.HandleKey(nav.KeyDown)
	s.HandleKey(nav.KeyEnter)

	require.True(t, s.Closed())
	assert.Empty(t, ledger.counts)

	out := s.Outcome()
	assert.True(t, out.Activated)
	assert.False(t, out.Launched())
	require.Error(t, out.LaunchErr)
	assert.Contains(t, logs.String(), "launch failed")
}

func Test_Session_Persist_Failure_Is_Warning(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	chaos := fs.NewChaos(fs.NewReal(), 1, fs.ChaosConfig{})
	chaos.SetPathState(dir, fs.PathReadOnly)

	store := usage.New(chaos, filepath.Join(dir, usage.FileName))
	launcher := &fakeLauncher{}
	s := session.New(apps(), store, launcher, nil)

	out := s.Launch(apps()[1])

	assert.True(t, out.Launched())
	require.ErrorIs(t, out.PersistErr, usage.ErrPersist)
	assert.Equal(t, 1, store.Count("firefox.desktop"))
	assert.Equal(t, []string{"firefox.desktop"}, launcher.launched)
}

func Test_Session_Launch_Then_Rank_Reflects_Usage(t *testing.T) {
	t.Parallel()

	store := usage.New(fs.NewReal(), filepath.Join(t.TempDir(), usage.FileName))

	first := session.New(apps(), store, &fakeLauncher{}, nil)
	first.Launch(apps()[3])

	second := session.New(apps(), store, &fakeLauncher{}, nil)
	assert.Equal(t, "gimp.desktop", second.Results()[0].ID)
}
