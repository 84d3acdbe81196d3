package totp

import "errors"

var (
	ErrFailedToGenerateSecret = errors.New("failed to generate TOTP secret")
	ErrSecretTooShort         = errors.New("TOTP secret is shorter than 160 bits")
	ErrInvalidSecret          = errors.New("invalid secret")
	ErrMissingAccountName     = errors.New("missing account name")
	ErrMissingIssuer          = errors.New("missing issuer")
	ErrInvalidLabel           = errors.New("issuer and account name must not contain a colon")
	ErrInvalidWindow          = errors.New("invalid verification window")
	ErrInvalidPeriod          = errors.New("invalid period")
)
