package utils

import (
	"errors"
	"fmt"
	"time"
)

// permanentError marks an error that retrying cannot fix. Do returns it to the
// caller immediately, unwrapped, so sentinel checks with errors.Is still work.
type permanentError struct {
	err error
}

func (p *permanentError) Error() string { return p.err.Error() }
func (p *permanentError) Unwrap() error { return p.err }

// Permanent wraps err so that RetryConfig.Do stops retrying when it is seen.
// Use it for expected-absence conditions that look like failures to the
// underlying driver but must not consume retry attempts.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// ErrAttemptsExhausted wraps the last error once every attempt has failed, so
// callers can tell "retryable but exhausted" apart from a permanent error.
var ErrAttemptsExhausted = errors.New("attempts exhausted")

// RetryConfig holds the parameters for the retry strategy.
type RetryConfig struct {
	MaxAttempts int
	BaseDelay   time.Duration
	Logger      *Logger
}

// Do executes fn with linear back-off: the wait before attempt n+1 is
// BaseDelay*n. A Permanent error aborts immediately.
func (r *RetryConfig) Do(operationName string, fn func() error) error {
	var lastErr error

	for attempt := 1; attempt <= r.MaxAttempts; attempt++ {
		lastErr = fn()
		if lastErr == nil {
			return nil
		}

		var perm *permanentError
		if errors.As(lastErr, &perm) {
			return perm.err
		}

		if attempt < r.MaxAttempts {
			delay := time.Duration(attempt) * r.BaseDelay
			r.Logger.Warn("[retry] %s failed (attempt %d/%d): %v — retrying in %v",
				operationName, attempt, r.MaxAttempts, lastErr, delay)
			time.Sleep(delay)
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w: %w",
		operationName, r.MaxAttempts, ErrAttemptsExhausted, lastErr)
}
