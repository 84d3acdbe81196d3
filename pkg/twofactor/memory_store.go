package twofactor

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is an in-process Store. Secrets are held in plain form, so it
// is meant for tests and single-node development setups.
type MemoryStore struct {
	mu    sync.Mutex
	creds map[string]Credential
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{creds: make(map[string]Credential)}
}

// Get returns a copy of the account's credential.
func (s *MemoryStore) Get(ctx context.Context, accountID string) (Credential, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.creds[accountID]
	if !ok {
		return Credential{}, ErrCredentialNotFound
	}
	return c.clone(), nil
}

// SavePending stores cred as pending unless the account is already active.
// The secret of a replaced pending credential is zeroed.
func (s *MemoryStore) SavePending(ctx context.Context, cred Credential) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c, ok := s.creds[cred.AccountID]; ok {
		if c.Status == StatusActive {
			return ErrAlreadyEnrolled
		}
		clear(c.Secret)
	}
	cred.Status = StatusPending
	s.creds[cred.AccountID] = cred.clone()
	return nil
}

// Activate promotes the pending credential credentialID if it was created
// after createdAfter and records step as its first accepted time step.
func (s *MemoryStore) Activate(ctx context.Context, accountID, credentialID string, createdAfter, confirmedAt time.Time, step int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.creds[accountID]
	if !ok || c.ID != credentialID || c.Status != StatusPending || !c.CreatedAt.After(createdAfter) {
		return ErrCredentialNotFound
	}
	c.Status = StatusActive
	c.ConfirmedAt = confirmedAt
	c.LastAcceptedStep = step
	s.creds[accountID] = c
	return nil
}

// AdvanceStep records step on the active credential credentialID when it is
// later than the last accepted one.
func (s *MemoryStore) AdvanceStep(ctx context.Context, accountID, credentialID string, step int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.creds[accountID]
	if !ok || c.ID != credentialID || c.Status != StatusActive || c.LastAcceptedStep >= step {
		return ErrStepConflict
	}
	c.LastAcceptedStep = step
	s.creds[accountID] = c
	return nil
}

// Delete removes the credential in any state and zeroes its secret.
func (s *MemoryStore) Delete(ctx context.Context, accountID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.creds[accountID]
	if !ok {
		return ErrCredentialNotFound
	}
	clear(c.Secret)
	delete(s.creds, accountID)
	return nil
}

// DeletePending removes the credential only while it is the given pending one.
func (s *MemoryStore) DeletePending(ctx context.Context, accountID, credentialID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.creds[accountID]
	if !ok || c.ID != credentialID || c.Status != StatusPending {
		return ErrCredentialNotFound
	}
	clear(c.Secret)
	delete(s.creds, accountID)
	return nil
}

// DeletePendingBefore removes pending credentials created before cutoff and
// returns how many were removed.
func (s *MemoryStore) DeletePendingBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int64
	for id, c := range s.creds {
		if c.Status == StatusPending && c.CreatedAt.Before(cutoff) {
			clear(c.Secret)
			delete(s.creds, id)
			n++
		}
	}
	return n, nil
}
