package security

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/Rrens/smartchat/internal/domain"
)

// SaltKey holds the base64 scrypt salt next to the encrypted entries
const SaltKey = "smartchat_kdf_salt"

// EncryptedStore seals every value before handing it to the wrapped store.
// Keys stay in clear text.
type EncryptedStore struct {
	inner     domain.KVStore
	encryptor *Encryptor
}

// NewEncryptedStore wraps inner. The salt is read from inner under SaltKey,
// or generated and written there on first use.
func NewEncryptedStore(ctx context.Context, inner domain.KVStore, passphrase string) (*EncryptedStore, error) {
	salt, err := loadSalt(ctx, inner)
	if err != nil {
		return nil, err
	}

	encryptor, err := NewEncryptorFromPassphrase(passphrase, salt)
	if err != nil {
		return nil, err
	}

	return &EncryptedStore{inner: inner, encryptor: encryptor}, nil
}

func loadSalt(ctx context.Context, inner domain.KVStore) ([]byte, error) {
	encoded, err := inner.Get(ctx, SaltKey)
	if err == nil {
		salt, err := base64.StdEncoding.DecodeString(encoded)
		if err != nil {
			return nil, fmt.Errorf("failed to decode stored salt: %w", err)
		}
		return salt, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("failed to read salt: %w", err)
	}

	salt, err := GenerateSalt()
	if err != nil {
		return nil, err
	}
	if err := inner.Set(ctx, SaltKey, base64.StdEncoding.EncodeToString(salt)); err != nil {
		return nil, fmt.Errorf("failed to store salt: %w", err)
	}
	return salt, nil
}

func (s *EncryptedStore) Get(ctx context.Context, key string) (string, error) {
	sealed, err := s.inner.Get(ctx, key)
	if err != nil {
		return "", err
	}

	plaintext, err := s.encryptor.DecryptString(sealed)
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w: %w", key, domain.ErrMalformed, err)
	}
	return plaintext, nil
}

func (s *EncryptedStore) Set(ctx context.Context, key, value string) error {
	sealed, err := s.encryptor.EncryptString(value)
	if err != nil {
		return fmt.Errorf("failed to seal %s: %w", key, err)
	}
	return s.inner.Set(ctx, key, sealed)
}

func (s *EncryptedStore) Delete(ctx context.Context, key string) error {
	return s.inner.Delete(ctx, key)
}

func (s *EncryptedStore) Close() error {
	return s.inner.Close()
}
