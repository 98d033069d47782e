package pipeline

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"sitegen_ai_server/internal/types"
)

// Outcome is the result of a stage run through WithFallback. Err holds the recovered error
// when Source is SourceFallback.
type Outcome[T any] struct {
	Value  T
	Source types.Source
	Err    error
}

// Result is the outcome of one independent unit of work (a section's copy, an image render).
type Result[T any] struct {
	Value T
	Err   error
}

// Ok wraps a successful value.
func Ok[T any](v T) Result[T] { return Result[T]{Value: v} }

// Err wraps a failure.
func Err[T any](err error) Result[T] { return Result[T]{Err: err} }

// call runs primary with a per-call timeout and returns as soon as either primary finishes or
// the deadline passes, even if primary ignores its context. A panic inside primary is reported
// as a malformed response.
func call[T any](ctx context.Context, stage string, timeout time.Duration, primary func(context.Context) (T, error)) (T, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, Classify(stage, err)
	}
	callCtx := ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	done := make(chan Result[T], 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- Err[T](malformed(stage, "panic while handling response", fmt.Errorf("%v", r)))
			}
		}()
		v, err := primary(callCtx)
		done <- Result[T]{Value: v, Err: err}
	}()

	select {
	case r := <-done:
		if r.Err != nil {
			return zero, Classify(stage, r.Err)
		}
		return r.Value, nil
	case <-callCtx.Done():
		return zero, Classify(stage, callCtx.Err())
	}
}

// WithFallback runs primary under timeout and substitutes fallback on any error. It never
// returns an error: the recovered one is carried on the Outcome.
func WithFallback[T any](ctx context.Context, stage string, timeout time.Duration, primary func(context.Context) (T, error), fallback func() T) Outcome[T] {
	v, err := call(ctx, stage, timeout, primary)
	if err != nil {
		return Outcome[T]{Value: fallback(), Source: types.SourceFallback, Err: err}
	}
	return Outcome[T]{Value: v, Source: types.SourceAI}
}

// RunUnits executes n independent units with at most limit in flight and returns their
// results in index order. Units never cancel each other.
func RunUnits[T any](ctx context.Context, limit, n int, unit func(ctx context.Context, i int) Result[T]) []Result[T] {
	results := make([]Result[T], n)
	var g errgroup.Group
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i := 0; i < n; i++ {
		g.Go(func() error {
			results[i] = unit(ctx, i)
			return nil
		})
	}
	_ = g.Wait()
	return results
}

// Merge replaces every failed result with its fallback and reports which indices fell back.
func Merge[T any](results []Result[T], fallback func(i int) T) (values []T, fellBack []int) {
	values = make([]T, len(results))
	for i, r := range results {
		if r.Err != nil {
			values[i] = fallback(i)
			fellBack = append(fellBack, i)
			continue
		}
		values[i] = r.Value
	}
	return values, fellBack
}

// sourceOf summarises a per-section stage.
func sourceOf(total, fellBack int) types.Source {
	switch {
	case fellBack == 0:
		return types.SourceAI
	case fellBack == total:
		return types.SourceFallback
	default:
		return types.SourceMixed
	}
}
