// Package retry runs fallible remote calls with bounded exponential backoff.
package retry

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"
)

const (
	DefaultMaxAttempts = 3
	DefaultBaseDelay   = 500 * time.Millisecond
	DefaultMaxJitter   = 200 * time.Millisecond
)

// TransientError is returned once every attempt has failed. It wraps the last failure.
type TransientError struct {
	Attempts int
	Err      error
}

func (e *TransientError) Error() string {
	return fmt.Sprintf("transient failure after %d attempts: %v", e.Attempts, e.Err)
}

// Unwrap returns the last observed failure.
func (e *TransientError) Unwrap() error { return e.Err }

type permanentError struct{ err error }

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

// Permanent marks err as not worth retrying. Do returns it unwrapped without further attempts.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// IsTransient reports whether err came out of an exhausted retry loop.
func IsTransient(err error) bool {
	var te *TransientError
	return errors.As(err, &te)
}

// Option configures Executor.
type Option func(*Executor)

// Executor retries an operation up to MaxAttempts times.
// Before attempt n+1 it sleeps BaseDelay*2^(n-1) plus a uniform jitter in [0, MaxJitter).
type Executor struct {
	maxAttempts int
	baseDelay   time.Duration
	maxJitter   time.Duration
	sleep       func(ctx context.Context, d time.Duration) error
	jitter      func(max time.Duration) time.Duration
	onRetry     func(attempt int, delay time.Duration, err error)
}

// New creates an Executor with the given options applied over the defaults.
func New(opts ...Option) *Executor {
	e := &Executor{
		maxAttempts: DefaultMaxAttempts,
		baseDelay:   DefaultBaseDelay,
		maxJitter:   DefaultMaxJitter,
		sleep:       sleepContext,
		jitter:      uniformJitter(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.maxAttempts < 1 {
		e.maxAttempts = 1
	}
	return e
}

// WithMaxAttempts sets the total number of attempts.
func WithMaxAttempts(n int) Option {
	return func(e *Executor) { e.maxAttempts = n }
}

// WithBaseDelay sets the delay before the second attempt.
func WithBaseDelay(d time.Duration) Option {
	return func(e *Executor) { e.baseDelay = d }
}

// WithMaxJitter sets the upper bound of the random jitter.
func WithMaxJitter(d time.Duration) Option {
	return func(e *Executor) { e.maxJitter = d }
}

// WithSleeper replaces the context-aware sleep.
func WithSleeper(fn func(ctx context.Context, d time.Duration) error) Option {
	return func(e *Executor) {
		if fn != nil {
			e.sleep = fn
		}
	}
}

// WithJitter replaces the jitter source.
func WithJitter(fn func(max time.Duration) time.Duration) Option {
	return func(e *Executor) {
		if fn != nil {
			e.jitter = fn
		}
	}
}

// WithOnRetry registers a callback invoked before every backoff sleep.
func WithOnRetry(fn func(attempt int, delay time.Duration, err error)) Option {
	return func(e *Executor) { e.onRetry = fn }
}

// MaxAttempts returns the configured attempt budget.
func (e *Executor) MaxAttempts() int { return e.maxAttempts }

// Backoff returns the deterministic part of the delay after the given failed attempt.
func (e *Executor) Backoff(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	return e.baseDelay * time.Duration(1<<uint(attempt-1))
}

// Do runs op until it succeeds, returns a Permanent error, the context ends,
// or the attempt budget is spent. In the last case the result is a *TransientError.
func (e *Executor) Do(ctx context.Context, op func(ctx context.Context) error) error {
	var last error
	for attempt := 1; attempt <= e.maxAttempts; attempt++ {
		err := op(ctx)
		if err == nil {
			return nil
		}
		var perm *permanentError
		if errors.As(err, &perm) {
			return perm.err
		}
		last = err
		if attempt == e.maxAttempts {
			break
		}

		delay := e.Backoff(attempt)
		if e.maxJitter > 0 {
			delay += e.jitter(e.maxJitter)
		}
		if e.onRetry != nil {
			e.onRetry(attempt, delay, err)
		}
		if serr := e.sleep(ctx, delay); serr != nil {
			return &TransientError{Attempts: attempt, Err: last}
		}
	}
	return &TransientError{Attempts: e.maxAttempts, Err: last}
}

// Value runs op through e and returns its result.
func Value[T any](ctx context.Context, e *Executor, op func(ctx context.Context) (T, error)) (T, error) {
	var out T
	err := e.Do(ctx, func(ctx context.Context) error {
		v, err := op(ctx)
		if err != nil {
			return err
		}
		out = v
		return nil
	})
	return out, err
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

func uniformJitter() func(time.Duration) time.Duration {
	var mu sync.Mutex
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	return func(max time.Duration) time.Duration {
		if max <= 0 {
			return 0
		}
		mu.Lock()
		defer mu.Unlock()
		return time.Duration(rng.Int63n(int64(max)))
	}
}
