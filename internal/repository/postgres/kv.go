package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/Rrens/smartchat/internal/domain"
)

// KVStore persists widget state in the widget_state table created by the
// 000001 migration. Rows are scoped by namespace.
type KVStore struct {
	db        *DB
	namespace string
}

// NewKVStore creates a new Postgres-backed key/value store
func NewKVStore(db *DB, namespace string) *KVStore {
	return &KVStore{db: db, namespace: namespace}
}

func (s *KVStore) Get(ctx context.Context, key string) (string, error) {
	query := `
		SELECT value
		FROM widget_state
		WHERE namespace = $1 AND state_key = $2
	`
	var value string
	err := s.db.Pool.QueryRow(ctx, query, s.namespace, key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", domain.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to get %s: %w", key, err)
	}
	return value, nil
}

func (s *KVStore) Set(ctx context.Context, key, value string) error {
	query := `
		INSERT INTO widget_state (namespace, state_key, value, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (namespace, state_key)
		DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()
	`
	if _, err := s.db.Pool.Exec(ctx, query, s.namespace, key, value); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}
	return nil
}

func (s *KVStore) Delete(ctx context.Context, key string) error {
	query := `DELETE FROM widget_state WHERE namespace = $1 AND state_key = $2`
	if _, err := s.db.Pool.Exec(ctx, query, s.namespace, key); err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

func (s *KVStore) Close() error {
	s.db.Close()
	return nil
}
