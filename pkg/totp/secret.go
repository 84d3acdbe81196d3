package totp

import (
	"crypto/rand"
	"encoding/base32"
	"errors"
	"io"
	"strings"
)

// SecretSize is the length of generated shared secrets in bytes.
// 160 bits is the RFC 4226 recommendation for HMAC-SHA1.
const SecretSize = 20

var b32 = base32.StdEncoding.WithPadding(base32.NoPadding)

// GenerateSecret returns SecretSize bytes read from crypto/rand.
func GenerateSecret() ([]byte, error) {
	return GenerateSecretFrom(rand.Reader)
}

// GenerateSecretFrom reads a secret from the given source.
// A short read is never padded or retried: the error is returned as is.
func GenerateSecretFrom(r io.Reader) ([]byte, error) {
	secret := make([]byte, SecretSize)
	if _, err := io.ReadFull(r, secret); err != nil {
		return nil, errors.Join(ErrFailedToGenerateSecret, err)
	}
	return secret, nil
}

// EncodeSecret returns the unpadded Base32 form used by authenticator apps.
func EncodeSecret(secret []byte) string {
	return b32.EncodeToString(secret)
}

// DecodeSecret parses an unpadded (or padded) Base32 secret.
// Lowercase input and whitespace are accepted.
func DecodeSecret(s string) ([]byte, error) {
	s = strings.ToUpper(strings.Join(strings.Fields(s), ""))
	s = strings.TrimRight(s, "=")
	if s == "" {
		return nil, ErrInvalidSecret
	}
	secret, err := b32.DecodeString(s)
	if err != nil {
		return nil, errors.Join(ErrInvalidSecret, err)
	}
	return secret, nil
}
