package twofactor_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"testing/iotest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/admin2fa/pkg/ratelimiter"
	"github.com/dmitrymomot/admin2fa/pkg/totp"
	"github.com/dmitrymomot/admin2fa/pkg/twofactor"
)

// rfcSecret is the RFC 4226 / RFC 6238 SHA1 test key.
var rfcSecret = []byte("12345678901234567890")

const (
	rfcSecretBase32 = "GEZDGNBVGY3TQOJQGEZDGNBVGY3TQOJQ"

	// Codes of rfcSecret with a 30 second period.
	code998  = "377369"
	code999  = "106154"
	code1000 = "450130"
	code1001 = "796651"
	code1002 = "609325"
)

// base is the start of time step 1000.
var base = time.Unix(30_000, 0).UTC()

func newTestService(t *testing.T, opts ...twofactor.Option) (*twofactor.Service, *twofactor.MemoryStore, *fakeClock) {
	t.Helper()
	store := twofactor.NewMemoryStore()
	clk := &fakeClock{now: base}
	opts = append([]twofactor.Option{
		twofactor.WithClock(clk.Now),
		twofactor.WithEntropy(bytes.NewReader(bytes.Repeat(rfcSecret, 4))),
	}, opts...)
	return twofactor.NewService(store, opts...), store, clk
}

func enroll(t *testing.T, svc *twofactor.Service, accountID string) {
	t.Helper()
	ctx := context.Background()
	_, err := svc.BeginEnrollment(ctx, accountID, "")
	require.NoError(t, err)
	require.NoError(t, svc.ConfirmEnrollment(ctx, accountID, code1000))
}

func TestService_EnrollAndVerify(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, _, clk := newTestService(t)

	enrollment, err := svc.BeginEnrollment(ctx, "admin-1", "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t,
		"otpauth://totp/Admin%20Console:alice@example.com?secret="+rfcSecretBase32+
			"&issuer=Admin+Console&algorithm=SHA1&digits=6&period=30",
		enrollment.URI)
	assert.True(t, bytes.HasPrefix(enrollment.QRCode, []byte("\x89PNG")))
	assert.Equal(t, base.Add(twofactor.DefaultEnrollmentTTL), enrollment.ExpiresAt)

	status, err := svc.Status(ctx, "admin-1")
	require.NoError(t, err)
	assert.Equal(t, twofactor.StatusPending, status)

	require.NoError(t, svc.ConfirmEnrollment(ctx, "admin-1", code1000))

	status, err = svc.Status(ctx, "admin-1")
	require.NoError(t, err)
	assert.Equal(t, twofactor.StatusActive, status)

	// The confirmation code has been consumed.
	assert.ErrorIs(t, svc.VerifyLogin(ctx, "admin-1", code1000), twofactor.ErrInvalidCode)

	clk.Advance(30 * time.Second)
	require.NoError(t, svc.VerifyLogin(ctx, "admin-1", code1001))
	assert.ErrorIs(t, svc.VerifyLogin(ctx, "admin-1", code1001), twofactor.ErrInvalidCode)
}

func TestService_BeginEnrollment_DefaultLabel(t *testing.T) {
	t.Parallel()
	svc, _, _ := newTestService(t, twofactor.WithIssuer("Acme"))

	enrollment, err := svc.BeginEnrollment(context.Background(), "admin-1", "  ")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(enrollment.URI, "otpauth://totp/Acme:admin-1?secret="))
}

func TestService_BeginEnrollment_AlreadyActive(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, store, _ := newTestService(t)
	enroll(t, svc, "admin-1")

	before, err := store.Get(ctx, "admin-1")
	require.NoError(t, err)

	_, err = svc.BeginEnrollment(ctx, "admin-1", "")
	assert.ErrorIs(t, err, twofactor.ErrAlreadyEnrolled)

	after, err := store.Get(ctx, "admin-1")
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestService_BeginEnrollment_ReplacesPending(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	other := bytes.Repeat([]byte{0x42}, totp.SecretSize)
	entropy := io.MultiReader(bytes.NewReader(rfcSecret), bytes.NewReader(other))
	svc, store, _ := newTestService(t, twofactor.WithEntropy(entropy))

	_, err := svc.BeginEnrollment(ctx, "admin-1", "")
	require.NoError(t, err)
	first, err := store.Get(ctx, "admin-1")
	require.NoError(t, err)

	enrollment, err := svc.BeginEnrollment(ctx, "admin-1", "")
	require.NoError(t, err)
	assert.Contains(t, enrollment.URI, "secret="+totp.EncodeSecret(other))

	second, err := store.Get(ctx, "admin-1")
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, other, second.Secret)

	// Codes of the abandoned secret no longer confirm.
	assert.ErrorIs(t, svc.ConfirmEnrollment(ctx, "admin-1", code1000), twofactor.ErrInvalidCode)
	require.NoError(t, svc.ConfirmEnrollment(ctx, "admin-1", totp.ComputeCode(other, 1000)))
}

func TestService_BeginEnrollment_EntropyFailure(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, store, _ := newTestService(t, twofactor.WithEntropy(iotest.ErrReader(errors.New("no entropy"))))

	_, err := svc.BeginEnrollment(ctx, "admin-1", "")
	assert.ErrorIs(t, err, twofactor.ErrSecretGenerationFailed)

	_, err = store.Get(ctx, "admin-1")
	assert.ErrorIs(t, err, twofactor.ErrCredentialNotFound)
}

func TestService_BeginEnrollment_InvalidLabel(t *testing.T) {
	t.Parallel()
	svc, _, _ := newTestService(t)
	_, err := svc.BeginEnrollment(context.Background(), "admin-1", "team:alice")
	assert.ErrorIs(t, err, totp.ErrInvalidLabel)
}

func TestService_ConfirmEnrollment(t *testing.T) {
	t.Parallel()

	t.Run("wrong code keeps pending", func(t *testing.T) {
		t.Parallel()
		ctx := context.Background()
		svc, _, _ := newTestService(t)
		_, err := svc.BeginEnrollment(ctx, "admin-1", "")
		require.NoError(t, err)

		assert.ErrorIs(t, svc.ConfirmEnrollment(ctx, "admin-1", "000000"), twofactor.ErrInvalidCode)

		status, err := svc.Status(ctx, "admin-1")
		require.NoError(t, err)
		assert.Equal(t, twofactor.StatusPending, status)

		require.NoError(t, svc.ConfirmEnrollment(ctx, "admin-1", code1000))
	})

	t.Run("expired", func(t *testing.T) {
		t.Parallel()
		ctx := context.Background()
		svc, store, clk := newTestService(t)
		_, err := svc.BeginEnrollment(ctx, "admin-1", "")
		require.NoError(t, err)

		clk.Advance(twofactor.DefaultEnrollmentTTL)
		err = svc.ConfirmEnrollment(ctx, "admin-1", totp.CodeAt(rfcSecret, clk.Now()))
		assert.ErrorIs(t, err, twofactor.ErrEnrollmentExpired)
		assert.ErrorIs(t, err, twofactor.ErrNoPendingEnrollment)

		_, err = store.Get(ctx, "admin-1")
		assert.ErrorIs(t, err, twofactor.ErrCredentialNotFound)
	})

	t.Run("window ends during confirmation", func(t *testing.T) {
		t.Parallel()
		ctx := context.Background()
		// Begin and the expiry check read base; activation reads the end of the window.
		var (
			mu    sync.Mutex
			times = []time.Time{base, base, base.Add(twofactor.DefaultEnrollmentTTL)}
		)
		now := func() time.Time {
			mu.Lock()
			defer mu.Unlock()
			next := times[0]
			if len(times) > 1 {
				times = times[1:]
			}
			return next
		}
		store := twofactor.NewMemoryStore()
		svc := twofactor.NewService(store,
			twofactor.WithClock(now),
			twofactor.WithEntropy(bytes.NewReader(rfcSecret)),
		)

		_, err := svc.BeginEnrollment(ctx, "admin-1", "")
		require.NoError(t, err)

		err = svc.ConfirmEnrollment(ctx, "admin-1", code1000)
		assert.ErrorIs(t, err, twofactor.ErrEnrollmentExpired)

		_, err = store.Get(ctx, "admin-1")
		assert.ErrorIs(t, err, twofactor.ErrCredentialNotFound)
	})

	t.Run("just before expiry", func(t *testing.T) {
		t.Parallel()
		ctx := context.Background()
		svc, _, clk := newTestService(t)
		_, err := svc.BeginEnrollment(ctx, "admin-1", "")
		require.NoError(t, err)

		clk.Advance(twofactor.DefaultEnrollmentTTL - time.Second)
		require.NoError(t, svc.ConfirmEnrollment(ctx, "admin-1", totp.CodeAt(rfcSecret, clk.Now())))
	})

	t.Run("nothing pending", func(t *testing.T) {
		t.Parallel()
		svc, _, _ := newTestService(t)
		err := svc.ConfirmEnrollment(context.Background(), "admin-1", code1000)
		assert.ErrorIs(t, err, twofactor.ErrNoPendingEnrollment)
	})

	t.Run("already active", func(t *testing.T) {
		t.Parallel()
		svc, _, clk := newTestService(t)
		enroll(t, svc, "admin-1")

		clk.Advance(30 * time.Second)
		err := svc.ConfirmEnrollment(context.Background(), "admin-1", code1001)
		assert.ErrorIs(t, err, twofactor.ErrNoPendingEnrollment)
	})
}

func TestService_MalformedCodes(t *testing.T) {
	t.Parallel()

	// The store must not be touched for malformed input.
	store := &MockStore{}
	svc := twofactor.NewService(store)
	ctx := context.Background()

	for _, code := range []string{"", "12345", "1234567", "abcdef", " 45013", "45013\n", "４５０１３０"} {
		assert.ErrorIs(t, svc.ConfirmEnrollment(ctx, "admin-1", code), twofactor.ErrInvalidCode, "confirm %q", code)
		assert.ErrorIs(t, svc.VerifyLogin(ctx, "admin-1", code), twofactor.ErrInvalidCode, "verify %q", code)
	}
	store.AssertExpectations(t)
}

func TestService_MissingAccountID(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc := twofactor.NewService(&MockStore{})

	_, err := svc.BeginEnrollment(ctx, "", "")
	assert.ErrorIs(t, err, twofactor.ErrMissingAccountID)
	assert.ErrorIs(t, svc.ConfirmEnrollment(ctx, "", code1000), twofactor.ErrMissingAccountID)
	assert.ErrorIs(t, svc.VerifyLogin(ctx, "", code1000), twofactor.ErrMissingAccountID)
	assert.ErrorIs(t, svc.Disable(ctx, ""), twofactor.ErrMissingAccountID)
	assert.ErrorIs(t, svc.CancelEnrollment(ctx, ""), twofactor.ErrMissingAccountID)
	_, err = svc.Status(ctx, "")
	assert.ErrorIs(t, err, twofactor.ErrMissingAccountID)
}

func TestService_VerifyLogin(t *testing.T) {
	t.Parallel()

	t.Run("not enrolled", func(t *testing.T) {
		t.Parallel()
		svc, _, _ := newTestService(t)
		assert.ErrorIs(t, svc.VerifyLogin(context.Background(), "admin-1", code1000), twofactor.ErrNotEnrolled)
	})

	t.Run("pending is not enrolled", func(t *testing.T) {
		t.Parallel()
		ctx := context.Background()
		svc, _, _ := newTestService(t)
		_, err := svc.BeginEnrollment(ctx, "admin-1", "")
		require.NoError(t, err)
		assert.ErrorIs(t, svc.VerifyLogin(ctx, "admin-1", code1000), twofactor.ErrNotEnrolled)
	})

	t.Run("later step then earlier step", func(t *testing.T) {
		t.Parallel()
		ctx := context.Background()
		svc, _, clk := newTestService(t)
		enroll(t, svc, "admin-1")

		clk.Advance(30 * time.Second)
		require.NoError(t, svc.VerifyLogin(ctx, "admin-1", code1002))
		assert.ErrorIs(t, svc.VerifyLogin(ctx, "admin-1", code1001), twofactor.ErrInvalidCode)
	})

	t.Run("window boundaries", func(t *testing.T) {
		t.Parallel()
		ctx := context.Background()
		svc, _, clk := newTestService(t)
		enroll(t, svc, "admin-1")

		// Current step 1001; window covers 1000..1002 but 1000 is consumed.
		clk.Advance(30 * time.Second)
		assert.ErrorIs(t, svc.VerifyLogin(ctx, "admin-1", code999), twofactor.ErrInvalidCode)
		assert.ErrorIs(t, svc.VerifyLogin(ctx, "admin-1", code1000), twofactor.ErrInvalidCode)
		require.NoError(t, svc.VerifyLogin(ctx, "admin-1", code1001))
	})

	t.Run("wider window", func(t *testing.T) {
		t.Parallel()
		ctx := context.Background()
		v, err := totp.NewVerifier(totp.DefaultPeriod, 2)
		require.NoError(t, err)
		svc, _, _ := newTestService(t, twofactor.WithVerifier(v))

		_, err = svc.BeginEnrollment(ctx, "admin-1", "")
		require.NoError(t, err)
		require.NoError(t, svc.ConfirmEnrollment(ctx, "admin-1", code998))
		require.NoError(t, svc.VerifyLogin(ctx, "admin-1", code1002))
	})

	t.Run("outside window", func(t *testing.T) {
		t.Parallel()
		ctx := context.Background()
		svc, _, _ := newTestService(t)
		_, err := svc.BeginEnrollment(ctx, "admin-1", "")
		require.NoError(t, err)
		assert.ErrorIs(t, svc.ConfirmEnrollment(ctx, "admin-1", code998), twofactor.ErrInvalidCode)
		assert.ErrorIs(t, svc.ConfirmEnrollment(ctx, "admin-1", code1002), twofactor.ErrInvalidCode)
	})
}

func TestService_VerifyLogin_ConcurrentReplay(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, _, clk := newTestService(t)
	enroll(t, svc, "admin-1")
	clk.Advance(30 * time.Second)

	var (
		wg       sync.WaitGroup
		accepted atomic.Int32
		rejected atomic.Int32
	)
	for range 32 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			switch err := svc.VerifyLogin(ctx, "admin-1", code1001); {
			case err == nil:
				accepted.Add(1)
			case errors.Is(err, twofactor.ErrInvalidCode):
				rejected.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), accepted.Load())
	assert.Equal(t, int32(31), rejected.Load())
}

func TestService_Disable(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, store, _ := newTestService(t)

	assert.ErrorIs(t, svc.Disable(ctx, "admin-1"), twofactor.ErrNotEnrolled)

	enroll(t, svc, "admin-1")
	require.NoError(t, svc.Disable(ctx, "admin-1"))

	_, err := store.Get(ctx, "admin-1")
	assert.ErrorIs(t, err, twofactor.ErrCredentialNotFound)
	assert.ErrorIs(t, svc.VerifyLogin(ctx, "admin-1", code1001), twofactor.ErrNotEnrolled)

	// A pending enrollment can be disabled as well.
	_, err = svc.BeginEnrollment(ctx, "admin-1", "")
	require.NoError(t, err)
	require.NoError(t, svc.Disable(ctx, "admin-1"))

	status, err := svc.Status(ctx, "admin-1")
	require.NoError(t, err)
	assert.Equal(t, twofactor.StatusNone, status)
}

func TestService_CancelEnrollment(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, _, _ := newTestService(t)

	assert.ErrorIs(t, svc.CancelEnrollment(ctx, "admin-1"), twofactor.ErrNoPendingEnrollment)

	_, err := svc.BeginEnrollment(ctx, "admin-1", "")
	require.NoError(t, err)
	require.NoError(t, svc.CancelEnrollment(ctx, "admin-1"))
	assert.ErrorIs(t, svc.ConfirmEnrollment(ctx, "admin-1", code1000), twofactor.ErrNoPendingEnrollment)

	enroll(t, svc, "admin-2")
	assert.ErrorIs(t, svc.CancelEnrollment(ctx, "admin-2"), twofactor.ErrNoPendingEnrollment)

	status, err := svc.Status(ctx, "admin-2")
	require.NoError(t, err)
	assert.Equal(t, twofactor.StatusActive, status)
}

func TestService_ExpiredPendingReadsAsNone(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, _, clk := newTestService(t, twofactor.WithEnrollmentTTL(time.Minute))

	_, err := svc.BeginEnrollment(ctx, "admin-1", "")
	require.NoError(t, err)
	clk.Advance(time.Minute)

	status, err := svc.Status(ctx, "admin-1")
	require.NoError(t, err)
	assert.Equal(t, twofactor.StatusNone, status)

	// A new enrollment may start over the stale one.
	_, err = svc.BeginEnrollment(ctx, "admin-1", "")
	require.NoError(t, err)
	require.NoError(t, svc.ConfirmEnrollment(ctx, "admin-1", totp.CodeAt(rfcSecret, clk.Now())))
}

func TestService_Limiter(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("bucket", func(t *testing.T) {
		t.Parallel()
		rlStore := ratelimiter.NewMemoryStore(ratelimiter.WithCleanupInterval(0))
		t.Cleanup(rlStore.Close)
		bucket, err := ratelimiter.NewBucket(rlStore, ratelimiter.Config{Capacity: 2, RefillRate: 1, RefillInterval: time.Hour})
		require.NoError(t, err)

		svc, _, _ := newTestService(t, twofactor.WithLimiter(bucket))
		_, err = svc.BeginEnrollment(ctx, "admin-1", "")
		require.NoError(t, err)

		assert.ErrorIs(t, svc.ConfirmEnrollment(ctx, "admin-1", "000000"), twofactor.ErrInvalidCode)
		assert.ErrorIs(t, svc.ConfirmEnrollment(ctx, "admin-1", "000001"), twofactor.ErrInvalidCode)
		assert.ErrorIs(t, svc.ConfirmEnrollment(ctx, "admin-1", code1000), twofactor.ErrTooManyAttempts)

		// Other accounts are unaffected.
		assert.ErrorIs(t, svc.VerifyLogin(ctx, "admin-2", code1000), twofactor.ErrNotEnrolled)
	})

	t.Run("limiter error", func(t *testing.T) {
		t.Parallel()
		limiter := &MockLimiter{}
		limiter.On("Allow", mock.Anything, "admin-1").Return(nil, ratelimiter.ErrStoreUnavailable).Once()

		svc := twofactor.NewService(&MockStore{}, twofactor.WithLimiter(limiter))
		assert.ErrorIs(t, svc.VerifyLogin(ctx, "admin-1", code1000), ratelimiter.ErrStoreUnavailable)
		limiter.AssertExpectations(t)
	})
}

func TestService_StoreErrors(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	boom := errors.New("store down")

	t.Run("get", func(t *testing.T) {
		t.Parallel()
		store := &MockStore{}
		store.On("Get", mock.Anything, "admin-1").Return(twofactor.Credential{}, boom)
		svc := twofactor.NewService(store)

		assert.ErrorIs(t, svc.VerifyLogin(ctx, "admin-1", code1000), boom)
		assert.ErrorIs(t, svc.ConfirmEnrollment(ctx, "admin-1", code1000), boom)
		_, err := svc.BeginEnrollment(ctx, "admin-1", "")
		assert.ErrorIs(t, err, boom)
		_, err = svc.Status(ctx, "admin-1")
		assert.ErrorIs(t, err, boom)

		// Store failures are not collapsed into a verification failure.
		assert.ErrorIs(t, twofactor.PublicError(svc.VerifyLogin(ctx, "admin-1", code1000)), boom)
	})

	t.Run("advance step", func(t *testing.T) {
		t.Parallel()
		clk := &fakeClock{now: base}
		store := &MockStore{}
		store.On("Get", mock.Anything, "admin-1").Return(twofactor.Credential{
			ID:               "cred-1",
			AccountID:        "admin-1",
			Secret:           rfcSecret,
			Status:           twofactor.StatusActive,
			LastAcceptedStep: 990,
		}, nil)
		store.On("AdvanceStep", mock.Anything, "admin-1", "cred-1", int64(1000)).Return(boom).Once()
		svc := twofactor.NewService(store, twofactor.WithClock(clk.Now))

		assert.ErrorIs(t, svc.VerifyLogin(ctx, "admin-1", code1000), boom)
		store.AssertExpectations(t)
	})

	t.Run("activate lost race", func(t *testing.T) {
		t.Parallel()
		clk := &fakeClock{now: base}
		store := &MockStore{}
		store.On("Get", mock.Anything, "admin-1").Return(twofactor.Credential{
			ID:               "cred-1",
			AccountID:        "admin-1",
			Secret:           rfcSecret,
			Status:           twofactor.StatusPending,
			LastAcceptedStep: totp.NoStep,
			CreatedAt:        base,
		}, nil)
		store.On("Activate", mock.Anything, "admin-1", "cred-1", base.Add(-twofactor.DefaultEnrollmentTTL), base, int64(1000)).
			Return(twofactor.ErrCredentialNotFound).Once()
		svc := twofactor.NewService(store, twofactor.WithClock(clk.Now))

		assert.ErrorIs(t, svc.ConfirmEnrollment(ctx, "admin-1", code1000), twofactor.ErrInvalidCode)
		store.AssertExpectations(t)
	})

	t.Run("save pending races with activation", func(t *testing.T) {
		t.Parallel()
		store := &MockStore{}
		store.On("Get", mock.Anything, "admin-1").Return(twofactor.Credential{}, twofactor.ErrCredentialNotFound)
		store.On("SavePending", mock.Anything, mock.AnythingOfType("twofactor.Credential")).
			Return(twofactor.ErrAlreadyEnrolled).Once()
		svc := twofactor.NewService(store)

		_, err := svc.BeginEnrollment(ctx, "admin-1", "")
		assert.ErrorIs(t, err, twofactor.ErrAlreadyEnrolled)
		store.AssertExpectations(t)
	})
}

func TestPublicError(t *testing.T) {
	t.Parallel()
	other := errors.New("other")

	tests := []struct {
		name string
		in   error
		want error
	}{
		{"nil", nil, nil},
		{"invalid code", twofactor.ErrInvalidCode, twofactor.ErrVerificationFailed},
		{"not enrolled", twofactor.ErrNotEnrolled, twofactor.ErrVerificationFailed},
		{"no pending", twofactor.ErrNoPendingEnrollment, twofactor.ErrVerificationFailed},
		{"expired", twofactor.ErrEnrollmentExpired, twofactor.ErrVerificationFailed},
		{"missing account", twofactor.ErrMissingAccountID, twofactor.ErrVerificationFailed},
		{"throttled", twofactor.ErrTooManyAttempts, twofactor.ErrTooManyAttempts},
		{"other", other, other},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, twofactor.PublicError(tt.in))
		})
	}
}

func TestService_PurgeExpired(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, store, clk := newTestService(t)

	enroll(t, svc, "active")
	_, err := svc.BeginEnrollment(ctx, "stale", "")
	require.NoError(t, err)
	clk.Advance(twofactor.DefaultEnrollmentTTL + time.Second)
	_, err = svc.BeginEnrollment(ctx, "fresh", "")
	require.NoError(t, err)

	n, err := svc.PurgeExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, err = store.Get(ctx, "stale")
	assert.ErrorIs(t, err, twofactor.ErrCredentialNotFound)
	_, err = store.Get(ctx, "fresh")
	assert.NoError(t, err)
	_, err = store.Get(ctx, "active")
	assert.NoError(t, err)
}

func TestService_StartCleanup(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	svc, store, clk := newTestService(t)
	_, err := svc.BeginEnrollment(ctx, "stale", "")
	require.NoError(t, err)
	clk.Advance(twofactor.DefaultEnrollmentTTL + time.Second)

	svc.StartCleanup(ctx, 10*time.Millisecond)
	assert.Eventually(t, func() bool {
		_, err := store.Get(context.Background(), "stale")
		return errors.Is(err, twofactor.ErrCredentialNotFound)
	}, time.Second, 10*time.Millisecond)
}
