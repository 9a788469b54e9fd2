package postgres_test

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rrens/smartchat/internal/domain"
	"github.com/Rrens/smartchat/internal/repository/postgres"
)

func TestKVStore_RoundTrip(t *testing.T) {
	dsn := os.Getenv("POSTGRES_TEST_DSN")
	if dsn == "" {
		t.Skip("POSTGRES_TEST_DSN not set - run as integration test")
	}
	ctx := context.Background()

	require.NoError(t, postgres.RunMigrations(dsn, ""))

	db, err := postgres.NewDB(ctx, dsn)
	require.NoError(t, err)
	store := postgres.NewKVStore(db, "test-"+uuid.NewString())
	defer store.Close()

	_, err = store.Get(ctx, "smartchat_chat_sessions")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, store.Set(ctx, "smartchat_chat_sessions", "[]"))
	require.NoError(t, store.Set(ctx, "smartchat_chat_sessions", `[{"id":"session_1"}]`))

	got, err := store.Get(ctx, "smartchat_chat_sessions")
	require.NoError(t, err)
	assert.Equal(t, `[{"id":"session_1"}]`, got)

	require.NoError(t, store.Delete(ctx, "smartchat_chat_sessions"))
	_, err = store.Get(ctx, "smartchat_chat_sessions")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
