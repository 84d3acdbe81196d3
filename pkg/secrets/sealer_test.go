package secrets_test

import (
	"bytes"
	"testing"

	"github.com/dmitrymomot/admin2fa/pkg/secrets"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSealer(t *testing.T) *secrets.Sealer {
	t.Helper()
	key, err := secrets.GenerateKey()
	require.NoError(t, err)
	s, err := secrets.NewSealer(key)
	require.NoError(t, err)
	return s
}

func TestSealer_RoundTrip(t *testing.T) {
	t.Parallel()
	s := newSealer(t)

	tests := []struct {
		name string
		data []byte
	}{
		{"empty", []byte{}},
		{"totp secret", []byte("12345678901234567890")},
		{"binary", []byte{0x00, 0xff, 0x10, 0x80}},
		{"large", bytes.Repeat([]byte("x"), 4096)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			sealed, err := s.Seal("admin-1", tt.data)
			require.NoError(t, err)
			if len(tt.data) > 0 {
				assert.False(t, bytes.Contains(sealed, tt.data))
			}

			opened, err := s.Open("admin-1", sealed)
			require.NoError(t, err)
			require.NotNil(t, opened)
			assert.Equal(t, tt.data, opened)
		})
	}
}

func TestSealer_NonceIsRandom(t *testing.T) {
	t.Parallel()
	s := newSealer(t)

	a, err := s.Seal("admin-1", []byte("secret"))
	require.NoError(t, err)
	b, err := s.Seal("admin-1", []byte("secret"))
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestSealer_BoundToAccount(t *testing.T) {
	t.Parallel()
	s := newSealer(t)

	sealed, err := s.Seal("admin-1", []byte("secret"))
	require.NoError(t, err)

	_, err = s.Open("admin-2", sealed)
	assert.ErrorIs(t, err, secrets.ErrDecryptionFailed)
}

func TestSealer_WrongKey(t *testing.T) {
	t.Parallel()

	sealed, err := newSealer(t).Seal("admin-1", []byte("secret"))
	require.NoError(t, err)

	_, err = newSealer(t).Open("admin-1", sealed)
	assert.ErrorIs(t, err, secrets.ErrDecryptionFailed)
}

func TestSealer_Tampered(t *testing.T) {
	t.Parallel()
	s := newSealer(t)

	sealed, err := s.Seal("admin-1", []byte("secret"))
	require.NoError(t, err)
	sealed[len(sealed)-1] ^= 0x01

	_, err = s.Open("admin-1", sealed)
	assert.ErrorIs(t, err, secrets.ErrDecryptionFailed)
}

func TestSealer_InvalidInput(t *testing.T) {
	t.Parallel()
	s := newSealer(t)

	_, err := s.Open("admin-1", []byte("short"))
	assert.ErrorIs(t, err, secrets.ErrInvalidCiphertext)

	_, err = s.Seal("", []byte("secret"))
	assert.ErrorIs(t, err, secrets.ErrMissingAccountID)

	_, err = s.Open("", []byte("whatever-long-enough-to-pass-length"))
	assert.ErrorIs(t, err, secrets.ErrMissingAccountID)

	_, err = secrets.NewSealer(make([]byte, 16))
	assert.ErrorIs(t, err, secrets.ErrInvalidKey)
}

func TestParseKey(t *testing.T) {
	t.Parallel()

	key, err := secrets.GenerateKey()
	require.NoError(t, err)

	parsed, err := secrets.ParseKey(" " + secrets.EncodeKey(key) + "\n")
	require.NoError(t, err)
	assert.Equal(t, key, parsed)

	_, err = secrets.ParseKey("not base64!")
	assert.ErrorIs(t, err, secrets.ErrInvalidKey)

	_, err = secrets.ParseKey(secrets.EncodeKey(make([]byte, 16)))
	assert.ErrorIs(t, err, secrets.ErrInvalidKey)
}
