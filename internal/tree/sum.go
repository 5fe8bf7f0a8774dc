package tree

import (
	"fmt"

	"github.com/roach88/tally/internal/plist"
)

// Number is the set of value types a tree can be summed over.
type Number interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

// SumStructural sums every value in t using only recursive case analysis on
// the children list:
//
//	sum(leaf)                  = value
//	sum(node(v, head :: tail)) = v + sum(head) + sum(node(0, tail))
//
// No loop and no accumulator is used; the recursion peels one child per call.
// The error is non-nil only if the list contract is broken (Head or Tail
// failing on a list that reported itself non-empty).
func SumStructural[N Number](t Tree[N]) (N, error) {
	if t.children.IsEmpty() {
		return t.value, nil
	}

	first, err := t.children.Head()
	if err != nil {
		return 0, fmt.Errorf("structural sum: %w", err)
	}
	rest, err := t.children.Tail()
	if err != nil {
		return 0, fmt.Errorf("structural sum: %w", err)
	}

	firstSum, err := SumStructural(first)
	if err != nil {
		return 0, err
	}
	restSum, err := SumStructural(NodeOf(N(0), rest))
	if err != nil {
		return 0, err
	}
	return t.value + firstSum + restSum, nil
}

// SumFold sums every value in t by folding over each node's children list:
//
//	sum(node) = value + children.fold(0, (acc, child) -> acc + sum(child))
func SumFold[N Number](t Tree[N]) N {
	return t.value + plist.Fold(t.children, N(0), func(acc N, child Tree[N]) N {
		return acc + SumFold(child)
	})
}

// SumTreeFold sums every value in t with the pre-order tree Fold.
func SumTreeFold[N Number](t Tree[N]) N {
	return Fold(t, N(0), func(acc, v N) N { return acc + v })
}
