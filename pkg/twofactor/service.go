package twofactor

import (
	"context"
	"crypto/rand"
	"errors"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/admin2fa/pkg/logger"
	"github.com/dmitrymomot/admin2fa/pkg/qrcode"
	"github.com/dmitrymomot/admin2fa/pkg/totp"
)

// Service coordinates enrollment and verification of administrator TOTP
// credentials.
type Service struct {
	store    Store
	verifier *totp.Verifier
	renderer *qrcode.Renderer
	limiter  Limiter
	issuer   string
	ttl      time.Duration
	now      func() time.Time
	entropy  io.Reader
	log      *slog.Logger
}

// NewService creates a Service backed by store.
func NewService(store Store, opts ...Option) *Service {
	s := &Service{
		store:    store,
		verifier: totp.DefaultVerifier(),
		renderer: qrcode.NewRenderer(qrcode.DefaultSize),
		issuer:   DefaultIssuer,
		ttl:      DefaultEnrollmentTTL,
		now:      time.Now,
		entropy:  rand.Reader,
		log:      slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With(logger.Component("twofactor"))
	return s
}

// BeginEnrollment issues a new secret for accountID and stores it as pending.
// accountLabel is the name shown in authenticator apps; accountID is used
// when it is empty. A previous pending enrollment is replaced.
func (s *Service) BeginEnrollment(ctx context.Context, accountID, accountLabel string) (*Enrollment, error) {
	if accountID == "" {
		return nil, ErrMissingAccountID
	}
	if strings.TrimSpace(accountLabel) == "" {
		accountLabel = accountID
	}

	current, err := s.status(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if _, err := transition(current, eventBegin); err != nil {
		s.log.WarnContext(ctx, "two-factor enrollment refused", logger.AccountID(accountID), logger.Error(ErrAlreadyEnrolled))
		return nil, ErrAlreadyEnrolled
	}

	secret, err := totp.GenerateSecretFrom(s.entropy)
	if err != nil {
		s.log.ErrorContext(ctx, "two-factor secret generation failed", logger.AccountID(accountID), logger.Error(err))
		return nil, errors.Join(ErrSecretGenerationFailed, err)
	}

	uri, err := totp.BuildProvisioningURI(s.issuer, accountLabel, secret)
	if err != nil {
		return nil, err
	}
	png, err := s.renderer.Render(uri)
	if err != nil {
		return nil, err
	}

	now := s.now()
	cred := Credential{
		ID:               uuid.NewString(),
		AccountID:        accountID,
		Secret:           secret,
		Status:           StatusPending,
		LastAcceptedStep: totp.NoStep,
		CreatedAt:        now,
	}
	if err := s.store.SavePending(ctx, cred); err != nil {
		if errors.Is(err, ErrAlreadyEnrolled) {
			return nil, ErrAlreadyEnrolled
		}
		return nil, err
	}

	s.log.InfoContext(ctx, "two-factor enrollment started", logger.AccountID(accountID))
	return &Enrollment{URI: uri, QRCode: png, ExpiresAt: now.Add(s.ttl)}, nil
}

// ConfirmEnrollment activates the pending credential when code is valid.
// A wrong code keeps the pending credential so the caller may retry until the
// enrollment window ends; an expired enrollment is discarded.
func (s *Service) ConfirmEnrollment(ctx context.Context, accountID, code string) error {
	err := s.confirm(ctx, accountID, code)
	s.logOutcome(ctx, eventConfirm, accountID, err)
	return err
}

func (s *Service) confirm(ctx context.Context, accountID, code string) error {
	if err := s.precheck(ctx, accountID, code); err != nil {
		return err
	}

	cred, err := s.load(ctx, accountID)
	if err != nil {
		return err
	}
	if _, err := transition(cred.Status, eventConfirm); err != nil {
		return ErrNoPendingEnrollment
	}

	now := s.now()
	if s.expired(cred, now) {
		if err := s.store.DeletePending(ctx, accountID, cred.ID); err != nil && !errors.Is(err, ErrCredentialNotFound) {
			return err
		}
		return ErrEnrollmentExpired
	}

	step, ok := s.verifier.Verify(cred.Secret, code, now, totp.NoStep)
	if !ok {
		return ErrInvalidCode
	}

	activatedAt := s.now()
	if err := s.store.Activate(ctx, accountID, cred.ID, activatedAt.Add(-s.ttl), activatedAt, step); err != nil {
		if !errors.Is(err, ErrCredentialNotFound) {
			return err
		}
		if s.expired(cred, activatedAt) {
			if err := s.store.DeletePending(ctx, accountID, cred.ID); err != nil && !errors.Is(err, ErrCredentialNotFound) {
				return err
			}
			return ErrEnrollmentExpired
		}
		// Confirmed, cancelled or replaced by a concurrent request.
		return ErrInvalidCode
	}
	s.log.DebugContext(ctx, "two-factor credential activated", logger.AccountID(accountID), logger.Step(step))
	return nil
}

// VerifyLogin checks code against the active credential and records the
// accepted time step so the same code cannot be used twice.
func (s *Service) VerifyLogin(ctx context.Context, accountID, code string) error {
	err := s.verify(ctx, accountID, code)
	s.logOutcome(ctx, eventVerify, accountID, err)
	return err
}

func (s *Service) verify(ctx context.Context, accountID, code string) error {
	if err := s.precheck(ctx, accountID, code); err != nil {
		return err
	}

	cred, err := s.load(ctx, accountID)
	if err != nil {
		if errors.Is(err, ErrNoPendingEnrollment) {
			return ErrNotEnrolled
		}
		return err
	}
	if _, err := transition(cred.Status, eventVerify); err != nil {
		return ErrNotEnrolled
	}

	step, ok := s.verifier.Verify(cred.Secret, code, s.now(), cred.LastAcceptedStep)
	if !ok {
		return ErrInvalidCode
	}

	if err := s.store.AdvanceStep(ctx, accountID, cred.ID, step); err != nil {
		if errors.Is(err, ErrStepConflict) {
			// Another request accepted this or a later step first.
			return ErrInvalidCode
		}
		return err
	}
	s.log.DebugContext(ctx, "two-factor time step accepted", logger.AccountID(accountID), logger.Step(step))
	return nil
}

// Disable removes the credential of accountID in any state, secret included.
func (s *Service) Disable(ctx context.Context, accountID string) error {
	if accountID == "" {
		return ErrMissingAccountID
	}
	if err := s.store.Delete(ctx, accountID); err != nil {
		if errors.Is(err, ErrCredentialNotFound) {
			return ErrNotEnrolled
		}
		return err
	}
	s.log.InfoContext(ctx, "two-factor disabled", logger.AccountID(accountID))
	return nil
}

// CancelEnrollment discards a pending credential. Active credentials are left
// untouched.
func (s *Service) CancelEnrollment(ctx context.Context, accountID string) error {
	if accountID == "" {
		return ErrMissingAccountID
	}
	cred, err := s.load(ctx, accountID)
	if err != nil {
		return err
	}
	if _, err := transition(cred.Status, eventCancel); err != nil {
		return ErrNoPendingEnrollment
	}
	if err := s.store.DeletePending(ctx, accountID, cred.ID); err != nil {
		if errors.Is(err, ErrCredentialNotFound) {
			return ErrNoPendingEnrollment
		}
		return err
	}
	s.log.InfoContext(ctx, "two-factor enrollment cancelled", logger.AccountID(accountID))
	return nil
}

// Status reports the lifecycle state of accountID. An expired pending
// credential reads as StatusNone.
func (s *Service) Status(ctx context.Context, accountID string) (Status, error) {
	if accountID == "" {
		return StatusNone, ErrMissingAccountID
	}
	return s.status(ctx, accountID)
}

func (s *Service) status(ctx context.Context, accountID string) (Status, error) {
	cred, err := s.store.Get(ctx, accountID)
	if err != nil {
		if errors.Is(err, ErrCredentialNotFound) {
			return StatusNone, nil
		}
		return StatusNone, err
	}
	if cred.Status == StatusPending && s.expired(cred, s.now()) {
		return StatusNone, nil
	}
	return cred.Status, nil
}

// precheck rejects malformed input and throttled accounts before any
// credential is loaded.
func (s *Service) precheck(ctx context.Context, accountID, code string) error {
	if accountID == "" {
		return ErrMissingAccountID
	}
	if s.limiter != nil {
		res, err := s.limiter.Allow(ctx, accountID)
		if err != nil {
			return err
		}
		if !res.Allowed() {
			return ErrTooManyAttempts
		}
	}
	if !totp.ValidCodeFormat(code) {
		return ErrInvalidCode
	}
	return nil
}

func (s *Service) load(ctx context.Context, accountID string) (Credential, error) {
	cred, err := s.store.Get(ctx, accountID)
	if err != nil {
		if errors.Is(err, ErrCredentialNotFound) {
			return Credential{}, ErrNoPendingEnrollment
		}
		return Credential{}, err
	}
	return cred, nil
}

func (s *Service) expired(cred Credential, now time.Time) bool {
	return !now.Before(cred.CreatedAt.Add(s.ttl))
}

func (s *Service) logOutcome(ctx context.Context, e event, accountID string, err error) {
	if err == nil {
		s.log.InfoContext(ctx, "two-factor code accepted", logger.Event(string(e)), logger.AccountID(accountID))
		return
	}
	s.log.WarnContext(ctx, "two-factor code rejected", logger.Event(string(e)), logger.AccountID(accountID), logger.Error(err))
}
