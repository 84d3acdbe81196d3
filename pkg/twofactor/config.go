package twofactor

import (
	"time"

	"github.com/dmitrymomot/admin2fa/pkg/qrcode"
	"github.com/dmitrymomot/admin2fa/pkg/totp"
)

// Config holds environment driven settings for the two-factor subsystem.
type Config struct {
	Issuer          string        `env:"TWOFACTOR_ISSUER" envDefault:"Admin Console"`
	EnrollmentTTL   time.Duration `env:"TWOFACTOR_ENROLLMENT_TTL" envDefault:"10m"`
	Window          int           `env:"TWOFACTOR_WINDOW" envDefault:"1"`
	QRCodeSize      int           `env:"TWOFACTOR_QR_SIZE" envDefault:"256"`
	CleanupInterval time.Duration `env:"TWOFACTOR_CLEANUP_INTERVAL" envDefault:"5m"`
	EncryptionKey   string        `env:"TWOFACTOR_ENCRYPTION_KEY,required"` // base64, 32 bytes
	Collection      string        `env:"TWOFACTOR_COLLECTION" envDefault:"admin_totp_credentials"`

	// Attempt throttling per account: a bucket of AttemptsBurst tokens
	// refilled by one token every AttemptsRefill.
	AttemptsBurst  int           `env:"TWOFACTOR_ATTEMPTS_BURST" envDefault:"5"`
	AttemptsRefill time.Duration `env:"TWOFACTOR_ATTEMPTS_REFILL" envDefault:"1m"`
}

// Options translates the config into service options.
func (c Config) Options() ([]Option, error) {
	v, err := totp.NewVerifier(totp.DefaultPeriod, c.Window)
	if err != nil {
		return nil, err
	}
	return []Option{
		WithIssuer(c.Issuer),
		WithEnrollmentTTL(c.EnrollmentTTL),
		WithVerifier(v),
		WithRenderer(qrcode.NewRenderer(c.QRCodeSize)),
	}, nil
}
