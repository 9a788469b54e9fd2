package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/Rrens/smartchat/internal/domain"
)

const kvPrefix = "smartchat:"

// KVStore keeps widget state under smartchat:<namespace>:<key>. Entries never expire.
type KVStore struct {
	client    *Client
	namespace string
}

// NewKVStore creates a namespaced key/value store
func NewKVStore(client *Client, namespace string) *KVStore {
	return &KVStore{client: client, namespace: namespace}
}

func (s *KVStore) key(k string) string {
	return fmt.Sprintf("%s%s:%s", kvPrefix, s.namespace, k)
}

// Get returns domain.ErrNotFound for a missing key
func (s *KVStore) Get(ctx context.Context, key string) (string, error) {
	val, err := s.client.rdb.Get(ctx, s.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", domain.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to get %s: %w", key, err)
	}
	return val, nil
}

func (s *KVStore) Set(ctx context.Context, key, value string) error {
	if err := s.client.rdb.Set(ctx, s.key(key), value, 0).Err(); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}
	return nil
}

func (s *KVStore) Delete(ctx context.Context, key string) error {
	if err := s.client.rdb.Del(ctx, s.key(key)).Err(); err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

// Flush removes every key in the namespace
func (s *KVStore) Flush(ctx context.Context) (int64, error) {
	pattern := s.key("*")
	var cursor uint64
	var deleted int64

	for {
		keys, nextCursor, err := s.client.rdb.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			return deleted, fmt.Errorf("failed to scan keys: %w", err)
		}

		if len(keys) > 0 {
			count, err := s.client.rdb.Del(ctx, keys...).Result()
			if err != nil {
				return deleted, fmt.Errorf("failed to delete keys: %w", err)
			}
			deleted += count
		}

		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}

	return deleted, nil
}

// Close closes the underlying client
func (s *KVStore) Close() error {
	return s.client.Close()
}
