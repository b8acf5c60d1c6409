package state

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdvance(t *testing.T) {
	watermarks := []time.Time{
		time.Date(2024, 3, 1, 0, 0, 0, 0, time.Local),
		time.Date(2024, 2, 28, 0, 0, 0, 0, time.UTC), // leap year boundary
		time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 6, 15, 13, 42, 7, 0, time.UTC),
	}
	for _, w := range watermarks {
		win, next := Advance(w)
		assert.Equal(t, w, win.Start)
		assert.Equal(t, w.AddDate(0, 0, 1), win.End)
		assert.Equal(t, win.End, next)
		assert.Equal(t, 1, win.Days())
	}
}

func TestAdvance_ConsecutiveWindowsNeverOverlapOrSkip(t *testing.T) {
	w := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 60; i++ {
		win, next := Advance(w)
		assert.Equal(t, w, win.Start)
		assert.True(t, win.End.After(win.Start))
		w = next
	}
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), w)
}

func TestDefaultWatermark(t *testing.T) {
	now := time.Date(2024, 5, 10, 14, 30, 45, 123, time.Local)
	got := DefaultWatermark(now)
	assert.Equal(t, time.Date(2024, 5, 9, 0, 0, 0, 0, time.Local), got)
}

func TestFileStore_LoadMissing(t *testing.T) {
	fs, err := NewFileStore(filepath.Join(t.TempDir(), "state.json"))
	require.NoError(t, err)

	_, err = fs.Load(context.Background())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFileStore_RoundTrip(t *testing.T) {
	fs, err := NewFileStore(filepath.Join(t.TempDir(), "state.json"))
	require.NoError(t, err)

	in := DefaultState(time.Now())
	in.LastRun = time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	in.Debug = true
	in.Messages.NoItems = "nothing picked"
	require.NoError(t, fs.Save(context.Background(), in))

	out, err := fs.Load(context.Background())
	require.NoError(t, err)
	assert.True(t, out.LastRun.Equal(in.LastRun))
	assert.True(t, out.Debug)
	assert.Equal(t, "nothing picked", out.Messages.NoItems)
	// Empty templates get defaulted on load, saved ones survive.
	assert.Equal(t, DefaultMessages().NoUsedItems, out.Messages.NoUsedItems)
}

func TestSQLiteStore_RoundTrip(t *testing.T) {
	st, err := NewSQLiteStore(filepath.Join(t.TempDir(), "state.db"))
	require.NoError(t, err)
	defer st.Close()

	_, err = st.Load(context.Background())
	assert.ErrorIs(t, err, ErrNotFound)

	in := DefaultState(time.Now())
	in.LastRun = time.Date(2024, 8, 2, 0, 0, 0, 0, time.UTC)
	require.NoError(t, st.Save(context.Background(), in))

	// Second save overwrites the single row.
	in.LastRun = in.LastRun.AddDate(0, 0, 1)
	require.NoError(t, st.Save(context.Background(), in))

	out, err := st.Load(context.Background())
	require.NoError(t, err)
	assert.True(t, out.LastRun.Equal(time.Date(2024, 8, 3, 0, 0, 0, 0, time.UTC)))
}
