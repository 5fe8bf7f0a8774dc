package pipeline

import (
	"context"

	"github.com/roach88/tally/internal/engine"
)

// Emit records one contribution of partial p to group k.
type Emit[K comparable, P any] func(k K, p P)

// GroupBy partitions items into groups and reduces each group to a
// mergeable partial.
//
// contribute is called once per item and may emit zero or more (key,
// partial) contributions; a key appears in the result only if something was
// emitted for it, so there are no zero-filled groups. In Parallel mode each
// partition builds its own map and partition maps are merged per key;
// nothing is re-scanned.
func GroupBy[T any, K comparable, P Mergeable[P]](
	ctx context.Context,
	e *engine.Executor,
	items []T,
	contribute func(item T, emit Emit[K, P]) error,
) (map[K]P, error) {
	return engine.Reduce(ctx, e, items, engine.Reducer[T, map[K]P]{
		Zero: func() map[K]P { return make(map[K]P) },
		Step: func(acc map[K]P, item T) (map[K]P, error) {
			err := contribute(item, func(k K, p P) {
				acc[k] = acc[k].Merge(p)
			})
			return acc, err
		},
		Merge: mergeGroups[K, P],
	})
}

// GroupByKey is GroupBy for the common case of exactly one contribution per
// item.
func GroupByKey[T any, K comparable, P Mergeable[P]](
	ctx context.Context,
	e *engine.Executor,
	items []T,
	key func(T) (K, error),
	value func(T) (P, error),
) (map[K]P, error) {
	return GroupBy(ctx, e, items, func(item T, emit Emit[K, P]) error {
		k, err := key(item)
		if err != nil {
			return err
		}
		p, err := value(item)
		if err != nil {
			return err
		}
		emit(k, p)
		return nil
	})
}

// MapValues converts every partial in groups with f.
func MapValues[K comparable, P, V any](groups map[K]P, f func(P) V) map[K]V {
	out := make(map[K]V, len(groups))
	for k, p := range groups {
		out[k] = f(p)
	}
	return out
}

// mergeGroups folds right's partials into left, key by key.
func mergeGroups[K comparable, P Mergeable[P]](left, right map[K]P) map[K]P {
	for k, p := range right {
		left[k] = left[k].Merge(p)
	}
	return left
}
