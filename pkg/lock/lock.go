// Package lock serialises check-then-write sequences per key across
// service instances.
package lock

import (
	"context"
	"errors"
	"net/http"
	"time"

	apperrors "deskly/pkg/errors"
	"deskly/pkg/metrics"
)

var (
	// ErrHeld is returned by a single attempt when another owner holds the key.
	ErrHeld = errors.New("lock is held by another owner")

	ErrWaitTimeout = errors.New("timed out waiting for lock")
)

// Release gives the lock back. It only removes the lock if the caller still
// owns it.
type Release func(ctx context.Context) error

type Locker interface {
	Acquire(ctx context.Context, key string) (Release, error)
}

type Options struct {
	TTL           time.Duration
	WaitTimeout   time.Duration
	RetryInterval time.Duration
}

// WorkspaceKey is the lock key guarding the bookings of one workspace.
func WorkspaceKey(workspaceID string) string {
	return "workspace:" + workspaceID
}

type tryFunc func(ctx context.Context) (Release, error)

// acquire calls try until it succeeds, fails with something other than
// ErrHeld, or the wait budget runs out.
func acquire(ctx context.Context, backend string, opts Options, try tryFunc) (Release, error) {
	started := time.Now()
	waitCtx, cancel := context.WithTimeout(ctx, opts.WaitTimeout)
	defer cancel()

	ticker := time.NewTicker(opts.RetryInterval)
	defer ticker.Stop()

	for {
		release, err := try(waitCtx)
		if err == nil {
			metrics.ObserveLockWait(backend, true, time.Since(started))
			return release, nil
		}
		if !errors.Is(err, ErrHeld) {
			if waitCtx.Err() == nil {
				return nil, apperrors.Unavailable("Lock store", err)
			}
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-waitCtx.Done():
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			metrics.ObserveLockWait(backend, false, time.Since(started))
			return nil, apperrors.Wrap(ErrWaitTimeout, apperrors.CodeUnavailable, "workspace is busy, please retry", http.StatusServiceUnavailable)
		case <-ticker.C:
		}
	}
}
