package twofactor

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/dmitrymomot/admin2fa/pkg/qrcode"
	"github.com/dmitrymomot/admin2fa/pkg/ratelimiter"
	"github.com/dmitrymomot/admin2fa/pkg/totp"
)

const (
	DefaultIssuer        = "Admin Console"
	DefaultEnrollmentTTL = 10 * time.Minute
)

// Limiter throttles verification attempts per account.
// *ratelimiter.Bucket satisfies it.
type Limiter interface {
	Allow(ctx context.Context, key string) (*ratelimiter.Result, error)
}

// Option configures a Service.
type Option func(*Service)

// WithIssuer sets the issuer shown in authenticator apps.
func WithIssuer(issuer string) Option {
	return func(s *Service) {
		if issuer != "" {
			s.issuer = issuer
		}
	}
}

// WithEnrollmentTTL bounds how long a pending credential can be confirmed.
func WithEnrollmentTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

func WithVerifier(v *totp.Verifier) Option {
	return func(s *Service) {
		if v != nil {
			s.verifier = v
		}
	}
}

func WithRenderer(r *qrcode.Renderer) Option {
	return func(s *Service) {
		if r != nil {
			s.renderer = r
		}
	}
}

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithEntropy replaces crypto/rand as the secret source.
// The reader must be cryptographically secure.
func WithEntropy(r io.Reader) Option {
	return func(s *Service) {
		if r != nil {
			s.entropy = r
		}
	}
}

// WithLimiter enables attempt throttling for ConfirmEnrollment and VerifyLogin.
func WithLimiter(l Limiter) Option {
	return func(s *Service) {
		s.limiter = l
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}
