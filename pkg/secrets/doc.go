// Package secrets seals TOTP shared secrets for storage at rest.
//
// A single 32-byte master key is configured per deployment. For every
// administrator account a dedicated AES-256 key is derived from it with
// HKDF-SHA-256, using the account identifier as HKDF info. The account
// identifier is also bound to the ciphertext as GCM additional data, so a
// sealed secret copied onto another account's record fails to open.
//
// The nonce is prepended to the ciphertext so the sealed value is
// self-contained and can be stored as a single binary field.
//
// # Usage
//
//	key, err := secrets.ParseKey(os.Getenv("TWOFACTOR_ENCRYPTION_KEY"))
//	if err != nil {
//	    // handle error
//	}
//	sealer, _ := secrets.NewSealer(key)
//
//	sealed, err := sealer.Seal("admin-42", secret)
//	plain, err := sealer.Open("admin-42", sealed)
//
// Generate a master key with GenerateKey and EncodeKey, or with the
// `twofactorctl keygen` command.
//
// # Error Handling
//
// Errors wrap package sentinels such as ErrEncryptionFailed or
// ErrInvalidCiphertext and are matched with errors.Is. Error values never
// include plaintext or key material.
package secrets
