package twofactor_test

import (
	"context"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/dmitrymomot/admin2fa/pkg/ratelimiter"
	"github.com/dmitrymomot/admin2fa/pkg/twofactor"
)

// MockStore is a mock implementation of twofactor.Store.
type MockStore struct {
	mock.Mock
}

func (m *MockStore) Get(ctx context.Context, accountID string) (twofactor.Credential, error) {
	args := m.Called(ctx, accountID)
	return args.Get(0).(twofactor.Credential), args.Error(1)
}

func (m *MockStore) SavePending(ctx context.Context, cred twofactor.Credential) error {
	args := m.Called(ctx, cred)
	return args.Error(0)
}

func (m *MockStore) Activate(ctx context.Context, accountID, credentialID string, createdAfter, confirmedAt time.Time, step int64) error {
	args := m.Called(ctx, accountID, credentialID, createdAfter, confirmedAt, step)
	return args.Error(0)
}

func (m *MockStore) AdvanceStep(ctx context.Context, accountID, credentialID string, step int64) error {
	args := m.Called(ctx, accountID, credentialID, step)
	return args.Error(0)
}

func (m *MockStore) Delete(ctx context.Context, accountID string) error {
	args := m.Called(ctx, accountID)
	return args.Error(0)
}

func (m *MockStore) DeletePending(ctx context.Context, accountID, credentialID string) error {
	args := m.Called(ctx, accountID, credentialID)
	return args.Error(0)
}

func (m *MockStore) DeletePendingBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

// MockLimiter is a mock implementation of twofactor.Limiter.
type MockLimiter struct {
	mock.Mock
}

func (m *MockLimiter) Allow(ctx context.Context, key string) (*ratelimiter.Result, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ratelimiter.Result), args.Error(1)
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}
