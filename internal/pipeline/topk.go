package pipeline

import (
	"context"
	"slices"
	"sort"

	"github.com/roach88/tally/internal/engine"
)

// TopK returns at most k items ordered best first, where better(a, b)
// reports that a ranks strictly ahead of b.
//
// Each partition keeps only its own best k; partials are merged two at a
// time, keeping k. Ties keep input order (earlier first) in both modes, so
// sequential and parallel runs return the same items.
func TopK[T any](ctx context.Context, e *engine.Executor, items []T, k int, better func(a, b T) bool) ([]T, error) {
	if k <= 0 {
		return nil, nil
	}
	// k may far exceed the input; never size buffers by k alone.
	limit := min(k, len(items))
	return engine.Reduce(ctx, e, items, engine.Reducer[T, []T]{
		Zero: func() []T { return make([]T, 0, limit) },
		Step: func(acc []T, item T) ([]T, error) {
			// First position whose element item beats; ties go after.
			i := sort.Search(len(acc), func(i int) bool { return better(item, acc[i]) })
			if i >= k {
				return acc, nil
			}
			acc = slices.Insert(acc, i, item)
			if len(acc) > k {
				acc = acc[:k]
			}
			return acc, nil
		},
		Merge: func(left, right []T) []T {
			return mergeBest(left, right, k, better)
		},
	})
}

// mergeBest merges two best-first lists, keeping at most k. On ties the left
// element wins.
func mergeBest[T any](left, right []T, k int, better func(a, b T) bool) []T {
	out := make([]T, 0, min(k, len(left)+len(right)))
	i, j := 0, 0
	for len(out) < k && (i < len(left) || j < len(right)) {
		if j >= len(right) || (i < len(left) && !better(right[j], left[i])) {
			out = append(out, left[i])
			i++
		} else {
			out = append(out, right[j])
			j++
		}
	}
	return out
}
