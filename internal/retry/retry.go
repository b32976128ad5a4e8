package retry

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"net/http"
	"time"
)

const (
	DefaultMaxAttempts = 3
	DefaultBaseDelay   = 1000 * time.Millisecond
	DefaultMaxJitter   = 1000 * time.Millisecond
)

// ErrExhausted is wrapped into the error returned once every attempt failed
// with a retryable error.
var ErrExhausted = errors.New("retries exhausted")

// Class describes how Do treats an error returned by the retried function.
type Class int

const (
	// ClassTerminal errors are returned immediately.
	ClassTerminal Class = iota
	// ClassRateLimited errors (HTTP 429) back off with jitter.
	ClassRateLimited
	// ClassTransient errors (connection failures, timeouts) back off without jitter.
	ClassTransient
)

func (c Class) String() string {
	switch c {
	case ClassRateLimited:
		return "rate_limited"
	case ClassTransient:
		return "transient"
	default:
		return "terminal"
	}
}

// StatusError is a non-success HTTP response.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("status %d %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("status %d %s: %s", e.StatusCode, http.StatusText(e.StatusCode), e.Body)
}

type permanentError struct{ err error }

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

// Permanent marks err as not worth retrying.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// RetryFunc is called before sleeping ahead of the next attempt.
// attempt is 1-based and counts the attempt that just failed.
type RetryFunc func(attempt int, maxAttempts int, backoff time.Duration, class Class, err error)

// Policy configures Do. The zero value is usable and picks the defaults.
type Policy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxJitter   time.Duration

	// OnRetry is optional.
	OnRetry RetryFunc

	// Sleep and Jitter default to a context-aware timer and a uniform
	// random duration in [0, MaxJitter).
	Sleep  func(ctx context.Context, d time.Duration) error
	Jitter func(limit time.Duration) time.Duration
}

// DefaultPolicy returns three attempts with a one second base delay and up
// to one second of jitter on rate-limited attempts.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts: DefaultMaxAttempts,
		BaseDelay:   DefaultBaseDelay,
		MaxJitter:   DefaultMaxJitter,
	}
}

func (p Policy) withDefaults() Policy {
	if p.MaxAttempts <= 0 {
		p.MaxAttempts = DefaultMaxAttempts
	}
	if p.BaseDelay < 0 {
		p.BaseDelay = 0
	}
	if p.MaxJitter < 0 {
		p.MaxJitter = 0
	}
	if p.Sleep == nil {
		p.Sleep = sleepContext
	}
	if p.Jitter == nil {
		p.Jitter = randomJitter
	}
	return p
}

// Backoff returns the delay before the attempt following the zero-based
// attemptIndex, excluding jitter.
func (p Policy) Backoff(attemptIndex int) time.Duration {
	return p.BaseDelay * time.Duration(1<<attemptIndex)
}

// Do executes fn until it succeeds, returns a terminal error, or
// MaxAttempts is reached. Rate-limited failures wait
// BaseDelay*2^i plus jitter; transient failures wait BaseDelay*2^i.
// There is no sleep after the last attempt, and exhaustion always
// returns an error wrapping ErrExhausted and the last failure.
func Do(ctx context.Context, p Policy, fn func(ctx context.Context) error) error {
	p = p.withDefaults()

	var lastErr error
	for i := 0; i < p.MaxAttempts; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		lastErr = fn(ctx)
		if lastErr == nil {
			return nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		class := Classify(lastErr)
		if class == ClassTerminal {
			return lastErr
		}

		// Don't sleep after the last attempt
		if i == p.MaxAttempts-1 {
			break
		}

		delay := p.Backoff(i)
		if class == ClassRateLimited && p.MaxJitter > 0 {
			delay += p.Jitter(p.MaxJitter)
		}
		if p.OnRetry != nil {
			p.OnRetry(i+1, p.MaxAttempts, delay, class, lastErr)
		}
		if err := p.Sleep(ctx, delay); err != nil {
			return err
		}
	}

	return fmt.Errorf("%w after %d attempts: %w", ErrExhausted, p.MaxAttempts, lastErr)
}

// Classify reports how Do treats err.
func Classify(err error) Class {
	if err == nil {
		return ClassTerminal
	}
	// Per-request timeouts stay transient; Do checks the caller's context itself.
	if errors.Is(err, context.Canceled) {
		return ClassTerminal
	}
	var perm *permanentError
	if errors.As(err, &perm) {
		return ClassTerminal
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		if statusErr.StatusCode == http.StatusTooManyRequests {
			return ClassRateLimited
		}
		return ClassTerminal
	}
	return ClassTransient
}

// IsRateLimited returns true if the error indicates rate limiting (HTTP 429).
func IsRateLimited(err error) bool {
	var statusErr *StatusError
	return errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusTooManyRequests
}

// IsRetryable returns true if Do would retry err.
func IsRetryable(err error) bool {
	return Classify(err) != ClassTerminal
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func randomJitter(limit time.Duration) time.Duration {
	if limit <= 0 {
		return 0
	}
	return time.Duration(rand.Int64N(int64(limit)))
}
