package mongo

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	apperrors "studio/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
)

func fastPolicy(attempts int) RetryPolicy {
	return RetryPolicy{MaxAttempts: attempts, BackoffBase: time.Microsecond, BackoffMax: 10 * time.Microsecond}
}

func TestRun_SucceedsFirstTime(t *testing.T) {
	calls := 0
	err := fastPolicy(3).Run(context.Background(), func(context.Context) error {
		calls++
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestRun_RetriesWriteConflictThenSucceeds(t *testing.T) {
	calls := 0
	err := fastPolicy(5).Run(context.Background(), func(context.Context) error {
		calls++
		if calls < 3 {
			return fmt.Errorf("slot update: %w", ErrWriteConflict)
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestRun_ExhaustedReturnsTxConflict(t *testing.T) {
	calls := 0
	err := fastPolicy(4).Run(context.Background(), func(context.Context) error {
		calls++
		return ErrWriteConflict
	})

	require.ErrorIs(t, err, ErrTxConflict)
	assert.Equal(t, 4, calls)
}

func TestRun_TransientLabelIsRetried(t *testing.T) {
	transient := mongo.CommandError{Code: 112, Name: "WriteConflict", Labels: []string{labelTransientTransaction}}
	calls := 0
	err := fastPolicy(2).Run(context.Background(), func(context.Context) error {
		calls++
		return transient
	})

	require.ErrorIs(t, err, ErrTxConflict)
	assert.Equal(t, 2, calls)
}

func TestRun_AppErrorIsNotRetried(t *testing.T) {
	calls := 0
	err := fastPolicy(5).Run(context.Background(), func(context.Context) error {
		calls++
		return apperrors.SlotFull("s1")
	})

	assert.True(t, apperrors.HasCode(err, apperrors.CodeSlotFull))
	assert.Equal(t, 1, calls)
}

func TestRun_OtherErrorIsNotRetried(t *testing.T) {
	boom := errors.New("network down")
	calls := 0
	err := fastPolicy(5).Run(context.Background(), func(context.Context) error {
		calls++
		return boom
	})

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, calls)
}

func TestRun_StopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	policy := RetryPolicy{MaxAttempts: 10, BackoffBase: time.Hour, BackoffMax: time.Hour}

	calls := 0
	err := policy.Run(ctx, func(context.Context) error {
		calls++
		cancel()
		return ErrWriteConflict
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestRun_ZeroAttemptsStillRunsOnce(t *testing.T) {
	calls := 0
	err := RetryPolicy{}.Run(context.Background(), func(context.Context) error {
		calls++
		return ErrWriteConflict
	})

	assert.ErrorIs(t, err, ErrTxConflict)
	assert.Equal(t, 1, calls)
}

func TestBackoff_GrowsAndCaps(t *testing.T) {
	p := RetryPolicy{MaxAttempts: 10, BackoffBase: 20 * time.Millisecond, BackoffMax: 100 * time.Millisecond}

	for i := 0; i < 50; i++ {
		first := p.Backoff(1)
		assert.GreaterOrEqual(t, first, 10*time.Millisecond)
		assert.LessOrEqual(t, first, 20*time.Millisecond)

		third := p.Backoff(3)
		assert.GreaterOrEqual(t, third, 40*time.Millisecond)
		assert.LessOrEqual(t, third, 80*time.Millisecond)

		capped := p.Backoff(9)
		assert.GreaterOrEqual(t, capped, 50*time.Millisecond)
		assert.LessOrEqual(t, capped, 100*time.Millisecond)
	}

	assert.Zero(t, p.Backoff(0))
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, IsRetryable(ErrWriteConflict))
	assert.True(t, IsRetryable(fmt.Errorf("wrapped: %w", ErrWriteConflict)))
	assert.True(t, IsRetryable(mongo.CommandError{Labels: []string{labelTransientTransaction}}))
	assert.False(t, IsRetryable(mongo.CommandError{Labels: []string{labelUnknownCommitResult}}))
	assert.False(t, IsRetryable(errors.New("other")))
	assert.False(t, IsRetryable(nil))
}

func TestInTransaction_PlainContext(t *testing.T) {
	assert.False(t, InTransaction(context.Background()))
}
