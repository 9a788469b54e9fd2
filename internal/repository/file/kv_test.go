package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rrens/smartchat/internal/domain"
)

func TestKVStore_PersistsAcrossInstances(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "state.json")

	s := NewKVStore(path)
	_, err := s.Get(ctx, "smartchat_active_session")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, s.Set(ctx, "smartchat_active_session", "session_a"))
	require.NoError(t, s.Set(ctx, "smartchat_chat_sessions", "[]"))

	reopened := NewKVStore(path)
	v, err := reopened.Get(ctx, "smartchat_active_session")
	require.NoError(t, err)
	assert.Equal(t, "session_a", v)

	require.NoError(t, reopened.Delete(ctx, "smartchat_active_session"))
	_, err = s.Get(ctx, "smartchat_active_session")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	v, err = s.Get(ctx, "smartchat_chat_sessions")
	require.NoError(t, err)
	assert.Equal(t, "[]", v)
}

func TestKVStore_NoTempFilesLeft(t *testing.T) {
	dir := t.TempDir()
	s := NewKVStore(filepath.Join(dir, "state.json"))
	require.NoError(t, s.Set(context.Background(), "k", "v"))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "state.json", entries[0].Name())
}

func TestKVStore_CorruptFileReadsAsEmpty(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	s := NewKVStore(path)
	_, err := s.Get(ctx, "k")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// the next write replaces the corrupt file
	require.NoError(t, s.Set(ctx, "k", "v"))
	v, err := NewKVStore(path).Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", v)
}
