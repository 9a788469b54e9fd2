package security_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rrens/smartchat/internal/domain"
	"github.com/Rrens/smartchat/internal/repository/memory"
	"github.com/Rrens/smartchat/internal/security"
)

func testKey() []byte {
	key := make([]byte, 32)
	for i := range key {
		key[i] = byte(i)
	}
	return key
}

func TestEncryptor_EncryptDecrypt(t *testing.T) {
	encryptor, err := security.NewEncryptor(testKey())
	require.NoError(t, err)

	tests := []struct {
		name      string
		plaintext string
	}{
		{"empty", ""},
		{"short", "hello"},
		{"session json", `[{"id":"session_1","title":"New Chat","messages":[]}]`},
		{"unicode", "héllo 日本語 🎉"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ciphertext, err := encryptor.EncryptString(tt.plaintext)
			require.NoError(t, err)
			assert.NotEqual(t, tt.plaintext, ciphertext)

			decrypted, err := encryptor.DecryptString(ciphertext)
			require.NoError(t, err)
			assert.Equal(t, tt.plaintext, decrypted)
		})
	}
}

func TestEncryptor_InvalidKeyLength(t *testing.T) {
	_, err := security.NewEncryptor([]byte("short"))
	assert.Error(t, err)
}

func TestEncryptor_WrongKey(t *testing.T) {
	a, err := security.NewEncryptor(testKey())
	require.NoError(t, err)
	other := testKey()
	other[0] = 0xff
	b, err := security.NewEncryptor(other)
	require.NoError(t, err)

	sealed, err := a.EncryptString("secret")
	require.NoError(t, err)
	_, err = b.DecryptString(sealed)
	assert.Error(t, err)
}

func TestNewEncryptorFromPassphrase_TooShort(t *testing.T) {
	_, err := security.NewEncryptorFromPassphrase("short", []byte("0123456789abcdef"))
	assert.Error(t, err)
}

func TestEncryptedStore(t *testing.T) {
	ctx := context.Background()
	inner := memory.NewKVStore()

	store, err := security.NewEncryptedStore(ctx, inner, "correct horse battery")
	require.NoError(t, err)

	require.NoError(t, store.Set(ctx, "smartchat_active_session", "session_a"))

	raw, err := inner.Get(ctx, "smartchat_active_session")
	require.NoError(t, err)
	assert.NotContains(t, raw, "session_a")

	_, err = inner.Get(ctx, security.SaltKey)
	require.NoError(t, err)

	// a second store over the same backend reuses the stored salt
	reopened, err := security.NewEncryptedStore(ctx, inner, "correct horse battery")
	require.NoError(t, err)
	v, err := reopened.Get(ctx, "smartchat_active_session")
	require.NoError(t, err)
	assert.Equal(t, "session_a", v)

	wrong, err := security.NewEncryptedStore(ctx, inner, "wrong passphrase")
	require.NoError(t, err)
	_, err = wrong.Get(ctx, "smartchat_active_session")
	assert.ErrorIs(t, err, domain.ErrMalformed)

	_, err = store.Get(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, store.Delete(ctx, "smartchat_active_session"))
	_, err = inner.Get(ctx, "smartchat_active_session")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
