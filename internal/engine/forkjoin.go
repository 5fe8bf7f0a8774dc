package engine

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// ctxCheckInterval is how many elements a partition folds between
// cancellation checks.
const ctxCheckInterval = 256

// Reducer describes an associative reduction of T values into an A.
//
// Merge must be associative, and Merge(Zero(), a) must equal a. Merge is
// always applied in input order (left partial first), so it need not be
// commutative. Merge may reuse the storage of its left operand.
type Reducer[T, A any] struct {
	// Zero returns a fresh, empty accumulator. Called once per partition.
	Zero func() A

	// Step folds one element into the accumulator.
	Step func(A, T) (A, error)

	// Merge combines two partials; left holds the earlier elements.
	Merge func(left, right A) A
}

// span is a half-open index range [lo, hi) into the input.
type span struct {
	lo, hi int
}

// Reduce folds items with r using the executor's mode.
//
// In Parallel mode the input is partitioned with split, partitions are
// reduced concurrently on at most Workers goroutines, and partials are
// merged pairwise in input order. Inputs of at most Threshold elements are
// reduced on the calling goroutine in either mode.
//
// Returns the first Step error; no partial result is returned.
func Reduce[T, A any](ctx context.Context, e *Executor, items []T, r Reducer[T, A]) (A, error) {
	if e.mode != Parallel || e.workers <= 1 || len(items) <= e.threshold {
		return reduceSpan(ctx, items, r)
	}

	parts := split(span{0, len(items)}, e.threshold)
	e.logger.Debug("fork",
		"run_id", RunIDFrom(ctx),
		"items", len(items),
		"partitions", len(parts),
		"workers", e.workers,
	)

	partials := make([]A, len(parts))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)
	for i, p := range parts {
		g.Go(func() error {
			acc, err := reduceSpan(gctx, items[p.lo:p.hi], r)
			if err != nil {
				return err
			}
			partials[i] = acc
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		var zero A
		return zero, err
	}

	return mergePairwise(partials, r.Merge), nil
}

// split halves s until every piece holds at most threshold elements.
// Pieces are returned in input order.
func split(s span, threshold int) []span {
	if s.hi-s.lo <= threshold {
		return []span{s}
	}
	mid := s.lo + (s.hi-s.lo)/2
	return append(split(span{s.lo, mid}, threshold), split(span{mid, s.hi}, threshold)...)
}

// mergePairwise merges adjacent partials as a balanced binary tree.
// partials must be non-empty.
func mergePairwise[A any](partials []A, merge func(A, A) A) A {
	if len(partials) == 1 {
		return partials[0]
	}
	mid := len(partials) / 2
	return merge(mergePairwise(partials[:mid], merge), mergePairwise(partials[mid:], merge))
}

// reduceSpan folds items left to right into a fresh accumulator.
func reduceSpan[T, A any](ctx context.Context, items []T, r Reducer[T, A]) (A, error) {
	var zero A
	acc := r.Zero()
	for i, item := range items {
		if i%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return zero, fmt.Errorf("reduction cancelled: %w", err)
			}
		}
		var err error
		acc, err = r.Step(acc, item)
		if err != nil {
			return zero, err
		}
	}
	return acc, nil
}
