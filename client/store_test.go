package client

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func storePath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "portal", "session.json")
}

func TestFileStore_SaveAndLoadSession(t *testing.T) {
	path := storePath(t)

	store, err := NewFileStore(path)
	require.NoError(t, err)

	sess := Session{
		AccessToken:  "access-1",
		RefreshToken: "refresh-1",
		Name:         "Jane Roe",
		Email:        "jane@example.com",
		IsAdmin:      true,
	}
	require.NoError(t, store.SaveSession(sess))

	// Reopen from disk to prove persistence, not just the in-memory map.
	reopened, err := NewFileStore(path)
	require.NoError(t, err)

	loaded, ok, err := reopened.LoadSession()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, sess, loaded)
}

func TestFileStore_LoadSession_Empty(t *testing.T) {
	store, err := NewFileStore(storePath(t))
	require.NoError(t, err)

	_, ok, err := store.LoadSession()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFileStore_UpdateAccessToken(t *testing.T) {
	store, err := NewFileStore(storePath(t))
	require.NoError(t, err)

	require.NoError(t, store.SaveSession(Session{
		AccessToken:  "access-1",
		RefreshToken: "refresh-1",
		Name:         "Jane Roe",
	}))
	require.NoError(t, store.UpdateAccessToken("access-2"))

	loaded, ok, err := store.LoadSession()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "access-2", loaded.AccessToken)
	assert.Equal(t, "refresh-1", loaded.RefreshToken)
	assert.Equal(t, "Jane Roe", loaded.Name)
}

func TestFileStore_ClearSession_KeepsTheme(t *testing.T) {
	store, err := NewFileStore(storePath(t))
	require.NoError(t, err)

	require.NoError(t, store.SaveSession(Session{AccessToken: "access-1"}))
	require.NoError(t, store.SaveTheme(ThemeDark))
	require.NoError(t, store.ClearSession())

	_, ok, err := store.LoadSession()
	require.NoError(t, err)
	assert.False(t, ok)

	theme, ok := store.LoadTheme()
	require.True(t, ok)
	assert.Equal(t, ThemeDark, theme)
}

func TestFileStore_UsesFlatKeys(t *testing.T) {
	path := storePath(t)

	store, err := NewFileStore(path)
	require.NoError(t, err)
	require.NoError(t, store.SaveSession(Session{AccessToken: "access-1", RefreshToken: "refresh-1"}))
	require.NoError(t, store.SaveTheme(ThemeLight))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Contains(t, raw, "token")
	assert.Contains(t, raw, "refreshToken")
	assert.Contains(t, raw, "user")
	assert.Contains(t, raw, "theme")
}

func TestFileStore_CorruptFileRejected(t *testing.T) {
	path := storePath(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o700))
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0o600))

	_, err := NewFileStore(path)
	assert.Error(t, err)
}
