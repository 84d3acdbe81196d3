// Package totp implements the RFC 6238 time-based one-time password primitive
// used for administrator two-factor authentication.
//
// The package is self-contained: it generates shared secrets, builds otpauth
// provisioning URIs for authenticator apps, computes codes for a time step and
// verifies submitted codes against a small tolerance window while rejecting
// steps that were already accepted.
//
// # Architecture
//
//   • secret.go – GenerateSecret reads 160 bits from crypto/rand; EncodeSecret
//     and DecodeSecret convert to and from unpadded Base32.
//
//   • uri.go    – BuildProvisioningURI produces the Key URI consumed by Google
//     Authenticator, 1Password and compatible apps.
//
//   • otp.go    – GenerateHOTP (RFC 4226), ComputeCode, CurrentTimeStep and the
//     Verifier type.
//
// # Usage
//
//	secret, err := totp.GenerateSecret()
//	if err != nil {
//	    return err // entropy source failed, abort enrollment
//	}
//
//	uri, _ := totp.BuildProvisioningURI("Acme", "alice@example.com", secret)
//
//	// later
//	v := totp.DefaultVerifier()
//	step, ok := v.Verify(secret, "123456", time.Now(), lastAcceptedStep)
//	if ok {
//	    lastAcceptedStep = step // persist atomically with the check
//	}
//
// # Replay protection
//
// Verify only accepts a step strictly greater than the last accepted one. The
// caller persists the returned step; a second submission of the same code then
// matches a step that is no longer eligible and is rejected. Use NoStep for a
// secret that was never used.
//
// # Error Handling
//
// Exported operations return package level sentinels such as
// ErrFailedToGenerateSecret or ErrInvalidSecret, joined with the underlying
// cause through errors.Join. Verify itself never returns an error: any
// mismatch, malformed code or replay is a plain rejection.
//
// # See Also
//
//   • RFC 4226 – HMAC-Based One-Time Password (HOTP) Algorithm
//   • RFC 6238 – Time-Based One-Time Password (TOTP) Algorithm
package totp
