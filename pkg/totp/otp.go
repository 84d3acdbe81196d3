package totp

import (
	"crypto/hmac"
	"crypto/sha1"
	"crypto/subtle"
	"encoding/binary"
	"fmt"
	"math"
	"time"
)

const (
	Digits        = 6                // Standard 6-digit TOTP codes
	Algorithm     = "SHA1"           // HMAC-SHA1 algorithm (RFC 6238 standard)
	DefaultPeriod = 30 * time.Second // RFC 6238 time step
	DefaultWindow = 1                // ±1 step tolerates 30s of clock drift
	MaxWindow     = 2
)

// NoStep marks a credential that has never accepted a code.
// Every real time step is strictly greater than it.
const NoStep int64 = math.MinInt64

// GenerateHOTP implements RFC 4226 HMAC-based One-Time Password algorithm.
// The algorithm converts a counter value into a numeric code using HMAC-SHA1.
func GenerateHOTP(key []byte, counter int64, digits int) int {
	var msg [8]byte
	binary.BigEndian.PutUint64(msg[:], uint64(counter))

	mac := hmac.New(sha1.New, key)
	mac.Write(msg[:])
	hash := mac.Sum(nil)

	// Dynamic truncation (RFC 4226): use last 4 bits as offset into hash
	offset := hash[len(hash)-1] & 0x0f
	code := binary.BigEndian.Uint32(hash[offset:offset+4]) & 0x7fffffff

	return int(code % uint32(math.Pow10(digits)))
}

// ComputeCode returns the zero-padded 6-digit code for the given time step.
func ComputeCode(secret []byte, step int64) string {
	return fmt.Sprintf("%0*d", Digits, GenerateHOTP(secret, step, Digits))
}

// CodeAt returns the code for the 30-second step containing t.
func CodeAt(secret []byte, t time.Time) string {
	return ComputeCode(secret, CurrentTimeStep(t, DefaultPeriod))
}

// CurrentTimeStep returns floor(unix(now) / period).
// A non-positive period falls back to DefaultPeriod.
func CurrentTimeStep(now time.Time, period time.Duration) int64 {
	p := int64(period / time.Second)
	if p <= 0 {
		p = int64(DefaultPeriod / time.Second)
	}
	sec := now.Unix()
	step := sec / p
	if sec%p != 0 && sec < 0 {
		step--
	}
	return step
}

// ValidCodeFormat reports whether code is exactly Digits ASCII digits.
func ValidCodeFormat(code string) bool {
	if len(code) != Digits {
		return false
	}
	for i := 0; i < len(code); i++ {
		if code[i] < '0' || code[i] > '9' {
			return false
		}
	}
	return true
}

// Verifier checks submitted codes against a tolerance window of time steps.
type Verifier struct {
	period time.Duration
	window int
}

// NewVerifier creates a verifier. window must be within [0, MaxWindow].
func NewVerifier(period time.Duration, window int) (*Verifier, error) {
	if period < time.Second || period%time.Second != 0 {
		return nil, ErrInvalidPeriod
	}
	if window < 0 || window > MaxWindow {
		return nil, ErrInvalidWindow
	}
	return &Verifier{period: period, window: window}, nil
}

// DefaultVerifier uses a 30 second period and a ±1 step window.
func DefaultVerifier() *Verifier {
	return &Verifier{period: DefaultPeriod, window: DefaultWindow}
}

func (v *Verifier) Period() time.Duration { return v.period }
func (v *Verifier) Window() int           { return v.window }

// Verify compares code with every step in [current-window, current+window]
// in constant time and returns the earliest matching step strictly greater
// than lastAccepted. Pass NoStep when the secret has never been used.
//
// Malformed codes are rejected before any HMAC is computed.
func (v *Verifier) Verify(secret []byte, code string, now time.Time, lastAccepted int64) (int64, bool) {
	if !ValidCodeFormat(code) || len(secret) == 0 {
		return 0, false
	}

	current := CurrentTimeStep(now, v.period)
	matched := int64(0)
	found := false
	for step := current - int64(v.window); step <= current+int64(v.window); step++ {
		expected := ComputeCode(secret, step)
		eq := subtle.ConstantTimeCompare([]byte(expected), []byte(code)) == 1
		if eq && step > lastAccepted && !found {
			matched, found = step, true
		}
	}
	return matched, found
}
