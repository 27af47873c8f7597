package session

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/longkey1/gemchat/internal/gemchat"
)

func TestStore_SaveLoad(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "sessions"))

	sess := NewSession("gemini:gemini-2.5-flash")
	sess.Name = "jokes"
	sess.AddTurn(gemchat.Turn{Role: gemchat.RoleUser, Content: "tell me a joke"}, 0)
	sess.AddTurn(gemchat.Turn{Role: gemchat.RoleModel, Content: "no"}, gemchat.Response)
	require.NoError(t, store.Save(sess))

	loaded, err := store.Load(sess.ID)
	require.NoError(t, err)

	assert.Equal(t, sess.ID, loaded.ID)
	assert.Equal(t, "jokes", loaded.GetDisplayName())
	assert.Equal(t, sess.Turns(), loaded.Turns())
	assert.Equal(t, "", loaded.Messages[0].Outcome)
	assert.Equal(t, "response", loaded.Messages[1].Outcome)
}

func TestStore_LoadMissing(t *testing.T) {
	store := NewStore(t.TempDir())

	_, err := store.Load("00000000-0000-0000-0000-000000000000")
	assert.ErrorIs(t, err, ErrNotFound)

	err = store.Delete("00000000-0000-0000-0000-000000000000")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_ListSkipsCorruptAndSortsNewestFirst(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)

	older := NewSession("gemini:a")
	older.UpdatedAt = time.Now().Add(-time.Hour)
	newer := NewSession("gemini:b")
	require.NoError(t, store.Save(older))
	require.NoError(t, store.Save(newer))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.json"), []byte("{"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644))

	sessions, err := store.List()
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.Equal(t, newer.ID, sessions[0].ID)
	assert.Equal(t, older.ID, sessions[1].ID)

	latest, err := store.Latest()
	require.NoError(t, err)
	assert.Equal(t, newer.ID, latest.ID)
}

func TestStore_ListMissingDir(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "absent"))

	sessions, err := store.List()
	require.NoError(t, err)
	assert.Empty(t, sessions)

	_, err = store.Latest()
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_FindByPrefix(t *testing.T) {
	store := NewStore(t.TempDir())

	a := &Session{ID: "aaaa1111-0000-4000-8000-000000000001", Model: "gemini:x", UpdatedAt: time.Now()}
	b := &Session{ID: "aaaa2222-0000-4000-8000-000000000002", Model: "gemini:x", UpdatedAt: time.Now().Add(-time.Minute)}
	require.NoError(t, store.Save(a))
	require.NoError(t, store.Save(b))

	got, err := store.FindByPrefix("aaaa1")
	require.NoError(t, err)
	assert.Equal(t, a.ID, got.ID)

	got, err = store.FindByPrefix(b.ID)
	require.NoError(t, err)
	assert.Equal(t, b.ID, got.ID)

	got, err = store.FindByPrefix("latest")
	require.NoError(t, err)
	assert.Equal(t, a.ID, got.ID)

	_, err = store.FindByPrefix("aaaa")
	var ambiguous *AmbiguousIDError
	require.True(t, errors.As(err, &ambiguous))
	assert.Len(t, ambiguous.Matches, 2)

	_, err = store.FindByPrefix("aaa")
	assert.Error(t, err)

	_, err = store.FindByPrefix("bbbb")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_DeleteBefore(t *testing.T) {
	store := NewStore(t.TempDir())

	old := NewSession("gemini:x")
	old.UpdatedAt = time.Now().AddDate(0, 0, -40)
	fresh := NewSession("gemini:x")
	require.NoError(t, store.Save(old))
	require.NoError(t, store.Save(fresh))

	deleted, err := store.DeleteBefore(time.Now().AddDate(0, 0, -30))
	require.NoError(t, err)
	assert.Equal(t, 1, deleted)

	sessions, err := store.List()
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, fresh.ID, sessions[0].ID)
}

func TestDefaultDir(t *testing.T) {
	dir, err := DefaultDir("/etc/gemchat/config.toml")
	require.NoError(t, err)
	assert.Equal(t, "/etc/gemchat/sessions", dir)
}
