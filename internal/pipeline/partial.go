package pipeline

import (
	"cmp"
	"maps"
	"slices"
)

// Mergeable is a partial aggregate that can absorb another partial of the
// same type. Merge must be associative; partials are merged in input order,
// so it need not be commutative. The zero value
// of the type must be its identity. Merge may reuse the receiver's storage;
// callers must use the returned value and drop the receiver.
type Mergeable[P any] interface {
	Merge(P) P
}

// Sum is a running float64 total.
type Sum float64

// Merge adds two totals.
func (s Sum) Merge(o Sum) Sum { return s + o }

// Count is a running element count.
type Count int64

// Merge adds two counts.
func (c Count) Merge(o Count) Count { return c + o }

// Mean is the two-stage partial for an arithmetic mean: sum and count are
// merged, and divided only when the final value is read.
type Mean struct {
	Total float64
	N     int64
}

// MeanOf returns the partial for a single observation.
func MeanOf(v float64) Mean {
	return Mean{Total: v, N: 1}
}

// Merge adds totals and counts.
func (m Mean) Merge(o Mean) Mean {
	return Mean{Total: m.Total + o.Total, N: m.N + o.N}
}

// Value returns Total/N. The mean of no observations is 0; group-by never
// produces such a partial.
func (m Mean) Value() float64 {
	if m.N == 0 {
		return 0
	}
	return m.Total / float64(m.N)
}

// Set is an unordered set of comparable values.
type Set[E comparable] map[E]struct{}

// SetOf returns a set holding elems.
func SetOf[E comparable](elems ...E) Set[E] {
	s := make(Set[E], len(elems))
	for _, e := range elems {
		s[e] = struct{}{}
	}
	return s
}

// Merge returns the union. The receiver is extended in place when non-nil;
// o is never modified or aliased.
func (s Set[E]) Merge(o Set[E]) Set[E] {
	if s == nil {
		s = make(Set[E], len(o))
	}
	for e := range o {
		s[e] = struct{}{}
	}
	return s
}

// Has reports membership.
func (s Set[E]) Has(e E) bool {
	_, ok := s[e]
	return ok
}

// Len returns the number of elements.
func (s Set[E]) Len() int { return len(s) }

// Equal reports whether both sets hold exactly the same elements.
func (s Set[E]) Equal(o Set[E]) bool {
	if len(s) != len(o) {
		return false
	}
	for e := range s {
		if !o.Has(e) {
			return false
		}
	}
	return true
}

// Sorted returns the elements of s in ascending order.
func Sorted[E cmp.Ordered](s Set[E]) []E {
	return slices.Sorted(maps.Keys(s))
}
