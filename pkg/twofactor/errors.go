package twofactor

import (
	"errors"
	"fmt"
)

var (
	ErrAlreadyEnrolled        = errors.New("two-factor authentication is already enabled")
	ErrNoPendingEnrollment    = errors.New("no pending two-factor enrollment")
	ErrEnrollmentExpired      = fmt.Errorf("%w: enrollment window elapsed", ErrNoPendingEnrollment)
	ErrNotEnrolled            = errors.New("two-factor authentication is not enabled")
	ErrInvalidCode            = errors.New("invalid verification code")
	ErrSecretGenerationFailed = errors.New("failed to generate two-factor secret")
	ErrTooManyAttempts        = errors.New("too many verification attempts")
	ErrMissingAccountID       = errors.New("missing account id")

	// ErrVerificationFailed is the only verification outcome exposed to end users.
	ErrVerificationFailed = errors.New("verification failed")

	// Store errors.
	ErrCredentialNotFound = errors.New("credential not found")
	ErrStepConflict       = errors.New("time step already accepted")
)

// PublicError maps internal verification failures to ErrVerificationFailed so
// callers cannot tell a missing account from a wrong code. Other errors are
// returned unchanged; nil stays nil.
func PublicError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrInvalidCode),
		errors.Is(err, ErrNotEnrolled),
		errors.Is(err, ErrNoPendingEnrollment),
		errors.Is(err, ErrMissingAccountID):
		return ErrVerificationFailed
	default:
		return err
	}
}
