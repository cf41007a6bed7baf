package mongo

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	apperrors "studio/pkg/errors"

	"go.mongodb.org/mongo-driver/mongo"
)

const (
	labelTransientTransaction = "TransientTransactionError"
	labelUnknownCommitResult  = "UnknownTransactionCommitResult"
)

var (
	// ErrWriteConflict is returned by a transaction body that observed state
	// another writer changed underneath it. The whole body is re-run.
	ErrWriteConflict = errors.New("write conflict")

	// ErrTxConflict means every attempt hit a conflict.
	ErrTxConflict = errors.New("transaction conflict: retries exhausted")
)

type RetryPolicy struct {
	MaxAttempts int
	BackoffBase time.Duration
	BackoffMax  time.Duration
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: 5,
		BackoffBase: 20 * time.Millisecond,
		BackoffMax:  500 * time.Millisecond,
	}
}

// Backoff returns the pause after the given failed attempt (1-based):
// base doubled per attempt, capped at BackoffMax, with the upper half jittered.
func (p RetryPolicy) Backoff(attempt int) time.Duration {
	if attempt < 1 || p.BackoffBase <= 0 {
		return 0
	}
	d := p.BackoffBase
	for i := 1; i < attempt && d < p.BackoffMax; i++ {
		d *= 2
	}
	if p.BackoffMax > 0 && d > p.BackoffMax {
		d = p.BackoffMax
	}
	half := d / 2
	if half <= 0 {
		return d
	}
	return half + rand.N(half+1)
}

// Run calls attempt until it succeeds, fails with a non-retryable error, or
// MaxAttempts is reached. Application errors are returned as is.
func (p RetryPolicy) Run(ctx context.Context, attempt func(ctx context.Context) error) error {
	maxAttempts := max(p.MaxAttempts, 1)

	for n := 1; ; n++ {
		err := attempt(ctx)
		if err == nil {
			return nil
		}
		if apperrors.IsAppError(err) || !IsRetryable(err) {
			return err
		}
		if n >= maxAttempts {
			return fmt.Errorf("%w after %d attempts: %v", ErrTxConflict, n, err)
		}

		timer := time.NewTimer(p.Backoff(n))
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

func IsRetryable(err error) bool {
	return errors.Is(err, ErrWriteConflict) || hasErrorLabel(err, labelTransientTransaction)
}

func hasErrorLabel(err error, label string) bool {
	var se mongo.ServerError
	return errors.As(err, &se) && se.HasErrorLabel(label)
}
