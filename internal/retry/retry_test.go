package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/arcana-app/arcana-go/internal/apperr"
)

func retryableErr() error {
	return &apperr.HTTPFailure{Op: "GET /x", StatusCode: 500}
}

func TestBackoffScheduleMonotonicAndCapped(t *testing.T) {
	b := newExponential(DefaultConfig())

	want := []time.Duration{
		1 * time.Second,
		2 * time.Second,
		4 * time.Second,
		8 * time.Second,
		10 * time.Second,
		10 * time.Second,
	}
	for i, expected := range want {
		require.Equal(t, expected, b.NextBackOff(), "delay %d", i)
	}
}

func TestDoSucceedsFirstTry(t *testing.T) {
	calls := 0
	v, err := Do(context.Background(), DefaultConfig(), func() (int, error) {
		calls++
		return 42, nil
	})
	require.NoError(t, err)
	require.Equal(t, 42, v)
	require.Equal(t, 1, calls)
}

func TestDoNonRetryableFailsOnce(t *testing.T) {
	calls := 0
	boom := errors.New("boom")
	_, err := Do(context.Background(), DefaultConfig(), func() (struct{}, error) {
		calls++
		return struct{}{}, boom
	})
	require.ErrorIs(t, err, boom)
	require.Equal(t, 1, calls, "non-retryable errors must not be re-attempted")
}

func TestDoRetryableExhaustsAttempts(t *testing.T) {
	cfg := Config{
		MaxRetries:    3,
		InitialDelay:  time.Millisecond,
		MaxDelay:      4 * time.Millisecond,
		BackoffFactor: 2,
	}
	calls := 0
	_, err := Do(context.Background(), cfg, func() (struct{}, error) {
		calls++
		return struct{}{}, retryableErr()
	})
	require.Error(t, err)
	require.Equal(t, 3, calls, "MaxRetries is a total attempt count")

	var httpf *apperr.HTTPFailure
	require.ErrorAs(t, err, &httpf, "the last error is rethrown")
}

func TestDoRecoversMidway(t *testing.T) {
	cfg := Config{
		MaxRetries:    5,
		InitialDelay:  time.Millisecond,
		MaxDelay:      4 * time.Millisecond,
		BackoffFactor: 2,
	}
	calls := 0
	v, err := Do(context.Background(), cfg, func() (string, error) {
		calls++
		if calls < 3 {
			return "", retryableErr()
		}
		return "ok", nil
	})
	require.NoError(t, err)
	require.Equal(t, "ok", v)
	require.Equal(t, 3, calls)
}

func TestDoOnRetryHook(t *testing.T) {
	var attempts []int
	cfg := Config{
		MaxRetries:    3,
		InitialDelay:  time.Millisecond,
		MaxDelay:      4 * time.Millisecond,
		BackoffFactor: 2,
		OnRetry: func(attempt int, err error) {
			attempts = append(attempts, attempt)
			require.Error(t, err)
		},
	}
	_, _ = Do(context.Background(), cfg, func() (struct{}, error) {
		return struct{}{}, retryableErr()
	})
	require.Equal(t, []int{2, 3}, attempts, "hook fires before each re-attempt")
}

func TestDoContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cfg := Config{
		MaxRetries:    10,
		InitialDelay:  50 * time.Millisecond,
		MaxDelay:      time.Second,
		BackoffFactor: 2,
	}
	calls := 0
	start := time.Now()
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()
	_, err := Do(ctx, cfg, func() (struct{}, error) {
		calls++
		return struct{}{}, retryableErr()
	})
	require.Error(t, err)
	require.Less(t, time.Since(start), time.Second, "cancellation stops the loop early")
	require.LessOrEqual(t, calls, 2)
}
