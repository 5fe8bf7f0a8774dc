package pipeline

import (
	"context"

	"github.com/roach88/tally/internal/engine"
)

// Filter returns the items satisfying pred, in input order.
func Filter[T any](ctx context.Context, e *engine.Executor, items []T, pred func(T) (bool, error)) ([]T, error) {
	return engine.Reduce(ctx, e, items, engine.Reducer[T, []T]{
		Zero: func() []T { return nil },
		Step: func(acc []T, item T) ([]T, error) {
			keep, err := pred(item)
			if err != nil || !keep {
				return acc, err
			}
			return append(acc, item), nil
		},
		Merge: concat[T],
	})
}

// Map applies f to every item, preserving order.
func Map[T, U any](ctx context.Context, e *engine.Executor, items []T, f func(T) (U, error)) ([]U, error) {
	return engine.Reduce(ctx, e, items, engine.Reducer[T, []U]{
		Zero: func() []U { return nil },
		Step: func(acc []U, item T) ([]U, error) {
			u, err := f(item)
			if err != nil {
				return acc, err
			}
			return append(acc, u), nil
		},
		Merge: concat[U],
	})
}

// FlatMap applies f to every item and concatenates the results in order.
func FlatMap[T, U any](ctx context.Context, e *engine.Executor, items []T, f func(T) ([]U, error)) ([]U, error) {
	return engine.Reduce(ctx, e, items, engine.Reducer[T, []U]{
		Zero: func() []U { return nil },
		Step: func(acc []U, item T) ([]U, error) {
			us, err := f(item)
			if err != nil {
				return acc, err
			}
			return append(acc, us...), nil
		},
		Merge: concat[U],
	})
}

// SumBy adds up f over every item. The empty sum is 0.
func SumBy[T any](ctx context.Context, e *engine.Executor, items []T, f func(T) (float64, error)) (float64, error) {
	total, err := engine.Reduce(ctx, e, items, engine.Reducer[T, Sum]{
		Zero: func() Sum { return 0 },
		Step: func(acc Sum, item T) (Sum, error) {
			v, err := f(item)
			if err != nil {
				return acc, err
			}
			return acc + Sum(v), nil
		},
		Merge: Sum.Merge,
	})
	return float64(total), err
}

// CountIf counts the items satisfying pred.
func CountIf[T any](ctx context.Context, e *engine.Executor, items []T, pred func(T) (bool, error)) (int64, error) {
	n, err := engine.Reduce(ctx, e, items, engine.Reducer[T, Count]{
		Zero: func() Count { return 0 },
		Step: func(acc Count, item T) (Count, error) {
			ok, err := pred(item)
			if err != nil || !ok {
				return acc, err
			}
			return acc + 1, nil
		},
		Merge: Count.Merge,
	})
	return int64(n), err
}

// Distinct returns the set of keys derived from items.
func Distinct[T any, K comparable](ctx context.Context, e *engine.Executor, items []T, key func(T) (K, error)) (Set[K], error) {
	return engine.Reduce(ctx, e, items, engine.Reducer[T, Set[K]]{
		Zero: func() Set[K] { return make(Set[K]) },
		Step: func(acc Set[K], item T) (Set[K], error) {
			k, err := key(item)
			if err != nil {
				return acc, err
			}
			acc[k] = struct{}{}
			return acc, nil
		},
		Merge: Set[K].Merge,
	})
}

// concat appends right to left; left is owned by the caller.
func concat[T any](left, right []T) []T {
	return append(left, right...)
}
