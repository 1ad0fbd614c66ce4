package theme

import (
	"context"
	"path/filepath"
	"testing"

	"folio/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	assert.Equal(t, Light, Resolve(""))
	assert.Equal(t, Light, Resolve("purple"))
	assert.Equal(t, Dark, Resolve("dark"))
	assert.Equal(t, Dark, Resolve(" DARK "))
	assert.Equal(t, Light, Resolve("light"))
}

func TestToggle(t *testing.T) {
	assert.Equal(t, Dark, Light.Toggle())
	assert.Equal(t, Light, Dark.Toggle())
}

func TestParse(t *testing.T) {
	th, err := Parse("Light")
	require.NoError(t, err)
	assert.Equal(t, Light, th)

	_, err = Parse("sepia")
	assert.Error(t, err)
}

func TestService_PersistsChoice(t *testing.T) {
	store, err := storage.NewSQLiteStore(filepath.Join(t.TempDir(), "prefs.db"))
	require.NoError(t, err)
	defer store.Close()

	svc := NewService(store)
	ctx := context.Background()

	cur, err := svc.Current(ctx, "visitor")
	require.NoError(t, err)
	assert.Equal(t, Light, cur, "default before any choice")

	next, err := svc.Toggle(ctx, "visitor")
	require.NoError(t, err)
	assert.Equal(t, Dark, next)

	cur, err = NewService(store).Current(ctx, "visitor")
	require.NoError(t, err)
	assert.Equal(t, Dark, cur, "choice survives a new service")

	cur, err = svc.Current(ctx, "someone-else")
	require.NoError(t, err)
	assert.Equal(t, Light, cur)

	assert.Error(t, svc.Set(ctx, "", Dark))
}

func TestService_NoStore(t *testing.T) {
	svc := NewService(nil)
	th, err := svc.Toggle(context.Background(), "v")
	require.NoError(t, err)
	assert.Equal(t, Dark, th)
}

func TestService_Forget(t *testing.T) {
	store, err := storage.NewSQLiteStore(filepath.Join(t.TempDir(), "prefs.db"))
	require.NoError(t, err)
	defer store.Close()

	svc := NewService(store)
	ctx := context.Background()

	_, err = svc.Toggle(ctx, "visitor")
	require.NoError(t, err)
	saved, err := svc.Saved(ctx, "visitor")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{PreferenceKey: "dark"}, saved)

	require.NoError(t, svc.Forget(ctx, "visitor"))
	saved, err = svc.Saved(ctx, "visitor")
	require.NoError(t, err)
	assert.Empty(t, saved)

	cur, err := svc.Current(ctx, "visitor")
	require.NoError(t, err)
	assert.Equal(t, Light, cur)

	require.NoError(t, NewService(nil).Forget(ctx, "visitor"))
}
