package twofactor

import (
	"context"
	"time"
)

// Store persists credentials. Every method that depends on a previously read
// value is conditional, so concurrent requests for the same account cannot
// both succeed on stale data.
type Store interface {
	// Get returns ErrCredentialNotFound when the account has no credential.
	Get(ctx context.Context, accountID string) (Credential, error)

	// SavePending stores cred as the account's pending credential, replacing
	// a previous pending one. Returns ErrAlreadyEnrolled if an active
	// credential exists.
	SavePending(ctx context.Context, cred Credential) error

	// Activate promotes the pending credential with the given ID if it was
	// created after createdAfter. Returns ErrCredentialNotFound if it is no
	// longer pending or was created at or before createdAfter.
	Activate(ctx context.Context, accountID, credentialID string, createdAfter, confirmedAt time.Time, step int64) error

	// AdvanceStep sets the last accepted step of the given active credential
	// only if the stored one is strictly lower. Returns ErrStepConflict
	// otherwise, including when the credential was replaced.
	AdvanceStep(ctx context.Context, accountID, credentialID string, step int64) error

	// Delete removes the credential in any state.
	Delete(ctx context.Context, accountID string) error

	// DeletePending removes the credential only while it is the given pending one.
	DeletePending(ctx context.Context, accountID, credentialID string) error

	// DeletePendingBefore removes pending credentials created before cutoff.
	DeletePendingBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
