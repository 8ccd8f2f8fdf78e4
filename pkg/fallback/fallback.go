// Package fallback models tiered degradation with explicit outcome values
// instead of error-driven control flow.
package fallback

import (
	"context"
	"errors"
)

// ErrNoData marks a tier that ran without failing but produced nothing usable.
var ErrNoData = errors.New("no data")

// Result is the outcome of one tier. Tag records which tier produced it.
type Result[T any] struct {
	Value T
	Tag   string
	Err   error
	// Trail lists the tags of every tier consulted, in order.
	Trail []string
}

// Ok builds a successful result.
func Ok[T any](v T, tag string) Result[T] {
	return Result[T]{Value: v, Tag: tag, Trail: []string{tag}}
}

// Empty builds a result for a tier that had nothing to offer.
func Empty[T any](tag string) Result[T] {
	return Result[T]{Tag: tag, Err: ErrNoData, Trail: []string{tag}}
}

// Fail builds a failed result.
func Fail[T any](tag string, err error) Result[T] {
	if err == nil {
		err = ErrNoData
	}
	return Result[T]{Tag: tag, Err: err, Trail: []string{tag}}
}

// OK reports whether the tier succeeded.
func (r Result[T]) OK() bool { return r.Err == nil }

// IsEmpty reports whether the tier ran cleanly but had no data.
func (r Result[T]) IsEmpty() bool { return errors.Is(r.Err, ErrNoData) }

// Step is one tier of a fallback chain.
type Step[T any] func(ctx context.Context) Result[T]

// Or runs primary and, unless it succeeded, secondary.
func Or[T any](ctx context.Context, primary, secondary Step[T]) Result[T] {
	return First(ctx, primary, secondary)
}

// First runs steps in order and returns the first successful result.
// When none succeeds the last result is returned. Steps after a success never run.
func First[T any](ctx context.Context, steps ...Step[T]) Result[T] {
	var (
		res   Result[T]
		trail []string
	)
	if len(steps) == 0 {
		return Empty[T]("none")
	}
	for _, step := range steps {
		res = step(ctx)
		trail = append(trail, res.Trail...)
		if res.OK() {
			break
		}
	}
	res.Trail = trail
	return res
}

// Then adapts a plain function into a Step that always succeeds.
func Then[T any](tag string, fn func(ctx context.Context) T) Step[T] {
	return func(ctx context.Context) Result[T] {
		return Ok(fn(ctx), tag)
	}
}
