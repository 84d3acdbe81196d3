package twofactor

import "time"

// Status is the lifecycle state of an account's TOTP credential.
type Status string

const (
	StatusNone    Status = "none"
	StatusPending Status = "pending"
	StatusActive  Status = "active"
)

func (s Status) String() string { return string(s) }

// Credential is the stored TOTP record of one administrator account.
type Credential struct {
	ID               string
	AccountID        string
	Secret           []byte
	Status           Status
	LastAcceptedStep int64 // totp.NoStep until the first accepted code
	CreatedAt        time.Time
	ConfirmedAt      time.Time
}

func (c Credential) clone() Credential {
	c.Secret = append([]byte(nil), c.Secret...)
	return c
}

// Enrollment is returned once by BeginEnrollment. It is the only value that
// carries the shared secret (inside URI and QRCode) out of the service.
type Enrollment struct {
	URI       string
	QRCode    []byte // PNG
	ExpiresAt time.Time
}
