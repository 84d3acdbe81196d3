package secrets

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"io"
)

// Sealer encrypts per-account secrets under a master key.
type Sealer struct {
	master []byte
}

// NewSealer copies the master key; it must be KeySize bytes.
func NewSealer(masterKey []byte) (*Sealer, error) {
	if len(masterKey) != KeySize {
		return nil, ErrInvalidKey
	}
	return &Sealer{master: append([]byte(nil), masterKey...)}, nil
}

// Seal returns nonce || ciphertext || tag for the given account.
func (s *Sealer) Seal(accountID string, plaintext []byte) ([]byte, error) {
	if accountID == "" {
		return nil, ErrMissingAccountID
	}
	aead, err := s.aead(accountID)
	if err != nil {
		return nil, errors.Join(ErrEncryptionFailed, err)
	}

	nonce := make([]byte, aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, errors.Join(ErrEncryptionFailed, err)
	}
	return aead.Seal(nonce, nonce, plaintext, []byte(accountID)), nil
}

// Open reverses Seal. It fails if the value was sealed for another account.
// The result is never nil, even for an empty plaintext.
func (s *Sealer) Open(accountID string, sealed []byte) ([]byte, error) {
	if accountID == "" {
		return nil, ErrMissingAccountID
	}
	aead, err := s.aead(accountID)
	if err != nil {
		return nil, errors.Join(ErrDecryptionFailed, err)
	}

	nonceSize := aead.NonceSize()
	if len(sealed) < nonceSize+aead.Overhead() {
		return nil, ErrInvalidCiphertext
	}
	nonce, ciphertext := sealed[:nonceSize], sealed[nonceSize:]

	plaintext, err := aead.Open(make([]byte, 0, len(ciphertext)), nonce, ciphertext, []byte(accountID))
	if err != nil {
		return nil, errors.Join(ErrDecryptionFailed, err)
	}
	return plaintext, nil
}

func (s *Sealer) aead(accountID string) (cipher.AEAD, error) {
	key, err := deriveKey(s.master, accountID)
	if err != nil {
		return nil, err
	}
	defer clearBytes(key)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}
