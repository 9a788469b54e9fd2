package domain

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned by KVStore.Get when the key is absent
	ErrNotFound = errors.New("key not found")
	// ErrMalformed is returned by KVStore.Get when a stored value exists but cannot be read back
	ErrMalformed = errors.New("malformed stored value")
)

// KVStore is the persistent key/value backend behind the client session store.
// Values are opaque strings; every write replaces the previous value.
type KVStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Close() error
}
