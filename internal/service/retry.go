package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/vidshelf/backend/internal/metrics"
	"github.com/vidshelf/backend/internal/repositories"
)

const (
	defaultMaxAttempts = 5
	retryBaseDelay     = 5 * time.Millisecond
	retryMaxDelay      = 100 * time.Millisecond
)

var errRetriesExhausted = errors.New("too many concurrent updates")

// retryOnStale runs attempt until it stops returning repositories.ErrStale,
// sleeping with jittered exponential backoff between tries.
func retryOnStale(ctx context.Context, op string, maxAttempts int, attempt func() error) error {
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}

	delay := retryBaseDelay
	for i := 1; ; i++ {
		err := attempt()
		if !errors.Is(err, repositories.ErrStale) {
			return err
		}
		metrics.VersionConflicts.WithLabelValues(op).Inc()
		if i >= maxAttempts {
			return fmt.Errorf("%s after %d attempts: %w", op, i, errRetriesExhausted)
		}

		wait := delay/2 + rand.N(delay/2+1)
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}

		delay *= 2
		if delay > retryMaxDelay {
			delay = retryMaxDelay
		}
	}
}
