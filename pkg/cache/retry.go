package cache

import (
	"context"
	"errors"
	"time"
)

// RetryableError marks a backend failure, such as a dropped Redis or Mongo
// connection, that is worth retrying.
type RetryableError struct{ Err error }

// Retryable marks err as retryable. It returns nil for nil.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// IsRetryable reports whether err was marked with [Retryable].
func IsRetryable(err error) bool {
	var re *RetryableError
	return errors.As(err, &re)
}

// Backoff is an exponential retry schedule.
type Backoff struct {
	Attempts int
	Initial  time.Duration
	Max      time.Duration
}

// DefaultBackoff is used by [RetryWithBackoff] when dialing backends.
var DefaultBackoff = Backoff{Attempts: 3, Initial: time.Second, Max: 8 * time.Second}

// Retry calls fn until it succeeds, returns an error not marked with
// [Retryable], or runs out of attempts. The delay doubles after every
// failure up to Max. A done ctx stops the wait and returns ctx.Err().
func (b Backoff) Retry(ctx context.Context, fn func() error) error {
	delay := b.Initial
	var err error
	for i := 0; i < max(b.Attempts, 1); i++ {
		if i > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
			delay = min(delay*2, b.Max)
		}
		if err = fn(); err == nil || !IsRetryable(err) {
			return err
		}
	}
	return err
}

// RetryWithBackoff retries fn on the [DefaultBackoff] schedule.
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	return DefaultBackoff.Retry(ctx, fn)
}
