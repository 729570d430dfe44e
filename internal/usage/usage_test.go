package usage_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calvinalkan/shofi/internal/fs"
	"github.com/calvinalkan/shofi/internal/usage"
)

func Test_Load_Missing_File_Is_Empty_Without_Error(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "shofi", usage.FileName)

	store, err := usage.Load(fs.NewReal(), path)
	require.NoError(t, err)

	if got, want := store.Count("firefox.desktop"), 0; got != want {
		t.Errorf("Count=%d, want=%d", got, want)
	}

	assert.Empty(t, store.Counts())
}

func Test_Load_Reads_Counts(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), usage.FileName)
	require.NoError(t, os.WriteFile(path, []byte(`{"firefox.desktop": 5, "gimp.desktop": 1, "zero.desktop": 0}`), 0o644))

	store, err := usage.Load(fs.NewReal(), path)
	require.NoError(t, err)

	assert.Equal(t, 5, store.Count("firefox.desktop"))
	assert.Equal(t, 1, store.Count("gimp.desktop"))
	assert.Equal(t, map[string]int{"firefox.desktop": 5, "gimp.desktop": 1}, store.Counts())
}

func Test_Load_Corrupt_File_Is_Empty_With_ErrCorrupt(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
	}{
		{name: "garbage", content: "not json at all"},
		{name: "truncated", content: `{"firefox.desktop": 5`},
		{name: "array", content: `[1, 2, 3]`},
		{name: "string count", content: `{"a": "five"}`},
		{name: "fractional count", content: `{"a": 1.5}`},
		{name: "empty", content: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			path := filepath.Join(t.TempDir(), usage.FileName)
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))

			store, err := usage.Load(fs.NewReal(), path)
			require.ErrorIs(t, err, usage.ErrCorrupt)
			require.NotNil(t, store)
			assert.Empty(t, store.Counts())
		})
	}
}

func Test_Load_Drops_Negative_Counts(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), usage.FileName)
	require.NoError(t, os.WriteFile(path, []byte(`{"good": 2, "bad": -3}`), 0o644))

	store, err := usage.Load(fs.NewReal(), path)
	require.ErrorIs(t, err, usage.ErrCorrupt)

	assert.Equal(t, 2, store.Count("good"))
	assert.Equal(t, 0, store.Count("bad"))
}

func Test_Load_Read_Error_Is_Reported_As_Corrupt(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, usage.FileName)
	require.NoError(t, os.WriteFile(path, []byte(`{"a": 1}`), 0o644))

	chaos := fs.NewChaos(fs.NewReal(), 1, fs.ChaosConfig{})
	chaos.SetPathState(path, fs.PathIOError)

	store, err := usage.Load(chaos, path)
	require.ErrorIs(t, err, usage.ErrCorrupt)
	assert.True(t, fs.IsInjected(err))
	assert.Empty(t, store.Counts())
}

func Test_Increment_Persists_And_Roundtrips(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "shofi", usage.FileName)

	store, err := usage.Load(fs.NewReal(), path)
	require.NoError(t, err)

	require.NoError(t, store.Increment("firefox.desktop"))
	require.NoError(t, store.Increment("firefox.desktop"))
	require.NoError(t, store.Increment("gimp.desktop"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"firefox.desktop": 2, "gimp.desktop": 1}`, string(data))

	reloaded, err := usage.Load(fs.NewReal(), path)
	require.NoError(t, err)
	assert.Equal(t, store.Counts(), reloaded.Counts())
}

func Test_Increment_Is_Monotonic_From_Zero(t *testing.T) {
	t.Parallel()

	store := usage.New(fs.NewReal(), filepath.Join(t.TempDir(), usage.FileName))

	for _, id := range []string{"a", "b", "a", "c", "a"} {
		before := store.Count(id)

		require.NoError(t, store.Increment(id))

		if got, want := store.Count(id), before+1; got != want {
			t.Fatalf("Count(%q)=%d after Increment, want=%d", id, got, want)
		}
	}
}

func Test_Increment_Keeps_Memory_Count_When_Persist_Fails(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, usage.FileName)
	require.NoError(t, os.WriteFile(path, []byte(`{"a": 1}`), 0o644))

	chaos := fs.NewChaos(fs.NewReal(), 1, fs.ChaosConfig{})

	store, err := usage.Load(chaos, path)
	require.NoError(t, err)

	chaos.SetPathState(dir, fs.PathReadOnly)

	err = store.Increment("a")
	require.ErrorIs(t, err, usage.ErrPersist)
	assert.Equal(t, 2, store.Count("a"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"a": 1}`, string(data), "previous durable state must survive")

	chaos.SetPathState(dir, fs.PathNormal)

	require.NoError(t, store.Increment("a"))

	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"a": 3}`, string(data))
}

func Test_Counts_Returns_Copy(t *testing.T) {
	t.Parallel()

	store := usage.New(fs.NewReal(), filepath.Join(t.TempDir(), usage.FileName))
	require.NoError(t, store.Increment("a"))

	counts := store.Counts()
	counts["a"] = 100

	assert.Equal(t, 1, store.Count("a"))
}
