// Package retry wraps operations with exponential backoff. Whether a
// failure is worth re-attempting is decided by the apperr classifier, so
// every caller shares one retry policy.
package retry

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/arcana-app/arcana-go/internal/apperr"
)

// Config tunes one retry loop. The zero value is not usable; start from
// DefaultConfig.
type Config struct {
	// MaxRetries is the total number of attempts, the first included.
	MaxRetries int
	// InitialDelay is the wait before the second attempt.
	InitialDelay time.Duration
	// MaxDelay caps the growing delay.
	MaxDelay time.Duration
	// BackoffFactor multiplies the delay after each retry.
	BackoffFactor float64
	// OnRetry, when set, fires before each re-attempt with the attempt
	// number about to run (2-based) and the error that triggered it.
	OnRetry func(attempt int, err error)
}

// DefaultConfig matches the client-wide policy: three attempts, one second
// initial delay doubling to a ten second cap.
func DefaultConfig() Config {
	return Config{
		MaxRetries:    3,
		InitialDelay:  1 * time.Second,
		MaxDelay:      10 * time.Second,
		BackoffFactor: 2,
	}
}

// Do runs op, re-attempting on retryable failures with exponential backoff.
// Non-retryable failures surface immediately without delay. After
// MaxRetries total attempts the last error is returned. Cancelling ctx
// stops the loop at the next delay boundary.
func Do[T any](ctx context.Context, cfg Config, op func() (T, error)) (T, error) {
	if cfg.MaxRetries < 1 {
		cfg.MaxRetries = 1
	}

	attempt := 1
	wrapped := func() (T, error) {
		v, err := op()
		if err == nil {
			return v, nil
		}
		if !apperr.Retryable(err) {
			return v, backoff.Permanent(err)
		}
		return v, err
	}

	notify := func(err error, _ time.Duration) {
		attempt++
		if cfg.OnRetry != nil {
			cfg.OnRetry(attempt, err)
		}
	}

	b := newExponential(cfg)
	limited := backoff.WithMaxRetries(backoff.WithContext(b, ctx), uint64(cfg.MaxRetries-1))
	return backoff.RetryNotifyWithData(wrapped, limited, notify)
}

// newExponential builds the deterministic schedule: InitialDelay,
// multiplied by BackoffFactor per retry, capped at MaxDelay. Jitter is
// disabled so the delay sequence is exact.
func newExponential(cfg Config) *backoff.ExponentialBackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = cfg.InitialDelay
	b.MaxInterval = cfg.MaxDelay
	b.Multiplier = cfg.BackoffFactor
	b.RandomizationFactor = 0
	b.MaxElapsedTime = 0
	b.Reset()
	return b
}
