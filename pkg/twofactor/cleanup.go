package twofactor

import (
	"context"
	"log/slog"
	"time"

	"github.com/dmitrymomot/admin2fa/pkg/logger"
)

// PurgeExpired deletes pending credentials whose enrollment window has
// elapsed. Expiry is also enforced lazily by ConfirmEnrollment, so running
// this is optional housekeeping.
func (s *Service) PurgeExpired(ctx context.Context) (int64, error) {
	n, err := s.store.DeletePendingBefore(ctx, s.now().Add(-s.ttl))
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.log.InfoContext(ctx, "expired two-factor enrollments purged", slog.Int64("count", n))
	}
	return n, nil
}

// StartCleanup runs PurgeExpired every interval until ctx is done.
// It returns immediately; a non-positive interval disables the loop.
func (s *Service) StartCleanup(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if _, err := s.PurgeExpired(ctx); err != nil && ctx.Err() == nil {
					s.log.ErrorContext(ctx, "two-factor cleanup failed", logger.Error(err))
				}
			}
		}
	}()
}
