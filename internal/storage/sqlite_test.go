package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "nested", "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSQLiteStore_PreferenceRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, ok, err := store.GetPreference(ctx, "v1", "theme")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.SetPreference(ctx, "v1", "theme", "dark"))
	require.NoError(t, store.SetPreference(ctx, "v1", "theme", "light"))
	require.NoError(t, store.SetPreference(ctx, "v2", "theme", "dark"))

	v, ok, err := store.GetPreference(ctx, "v1", "theme")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "light", v)

	all, err := store.Preferences(ctx, "v2")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"theme": "dark"}, all)
}

func TestSQLiteStore_DeleteAndPrune(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	old := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return old }
	require.NoError(t, store.SetPreference(ctx, "stale", "theme", "dark"))
	store.now = time.Now
	require.NoError(t, store.SetPreference(ctx, "fresh", "theme", "dark"))
	require.NoError(t, store.SetPreference(ctx, "gone", "theme", "dark"))

	require.NoError(t, store.DeletePreferences(ctx, "gone"))
	_, ok, err := store.GetPreference(ctx, "gone", "theme")
	require.NoError(t, err)
	assert.False(t, ok)

	n, err := store.PruneBefore(ctx, old.Add(24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, ok, err = store.GetPreference(ctx, "fresh", "theme")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestSQLiteStore_ReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.db")
	ctx := context.Background()

	store, err := NewSQLiteStore(path)
	require.NoError(t, err)
	require.NoError(t, store.SetPreference(ctx, "v", "theme", "dark"))
	require.NoError(t, store.Close())

	store, err = NewSQLiteStore(path)
	require.NoError(t, err)
	defer store.Close()
	v, ok, err := store.GetPreference(ctx, "v", "theme")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "dark", v)
}
