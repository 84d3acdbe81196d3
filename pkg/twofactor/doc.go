// Package twofactor implements TOTP two-factor authentication for
// administrator accounts.
//
// A credential moves through three states:
//
//	none --BeginEnrollment--> pending --ConfirmEnrollment--> active
//	pending --expire | CancelEnrollment | Disable--> none
//	active --Disable--> none
//
// BeginEnrollment returns the otpauth URI and a PNG QR code exactly once; the
// secret is never exposed again. ConfirmEnrollment and VerifyLogin record the
// accepted time step, so a code is usable once and older codes are refused
// after a newer one was accepted.
//
// Store implementations make every state change conditional on the state the
// service read, which keeps concurrent requests for one account consistent.
// MemoryStore is meant for tests; MongoStore keeps secrets sealed with
// pkg/secrets.
//
// Errors returned to end users should pass through PublicError, which folds
// every rejected verification into ErrVerificationFailed.
//
// # Usage
//
//	svc := twofactor.NewService(store,
//		twofactor.WithIssuer("Acme Admin"),
//		twofactor.WithLimiter(bucket),
//		twofactor.WithLogger(log),
//	)
//
//	enrollment, err := svc.BeginEnrollment(ctx, adminID, adminEmail)
//	// show enrollment.QRCode, then
//	err = svc.ConfirmEnrollment(ctx, adminID, code)
//
//	// on login
//	if err := svc.VerifyLogin(ctx, adminID, code); err != nil {
//		return twofactor.PublicError(err)
//	}
package twofactor
