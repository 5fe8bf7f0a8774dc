// Package tree implements an immutable N-ary tree whose children are held in
// a persistent list.
//
// Trees are built once and never mutated. There are no parent pointers, so a
// tree built with Leaf and Node is acyclic by construction; no cycle
// detection is performed.
//
// Every traversal in this package is recursive descent over the children
// list. Sums come in three forms that agree on every finite tree:
//
//   - SumStructural: case split on empty / non-empty children using Head and Tail
//   - SumFold: the children list's own Fold threads the accumulator
//   - SumTreeFold: the generic pre-order tree Fold
package tree

import "github.com/roach88/tally/internal/plist"

// Tree is an immutable node holding a value and a list of child trees.
type Tree[T any] struct {
	value    T
	children plist.List[Tree[T]]
}

// Leaf returns a tree with no children.
func Leaf[T any](v T) Tree[T] {
	return Tree[T]{value: v}
}

// Node returns a tree with the given children, in order.
func Node[T any](v T, children ...Tree[T]) Tree[T] {
	return Tree[T]{value: v, children: plist.FromSlice(children)}
}

// NodeOf returns a tree whose children list is children, shared not copied.
func NodeOf[T any](v T, children plist.List[Tree[T]]) Tree[T] {
	return Tree[T]{value: v, children: children}
}

// Value returns the node's value.
func (t Tree[T]) Value() T {
	return t.value
}

// Children returns the node's children. A leaf returns the empty list.
func (t Tree[T]) Children() plist.List[Tree[T]] {
	return t.children
}

// IsLeaf reports whether the node has no children.
func (t Tree[T]) IsLeaf() bool {
	return t.children.IsEmpty()
}

// Fold visits every node in pre-order (node, then children left to right),
// threading the accumulator through combine.
func Fold[T, A any](t Tree[T], seed A, combine func(A, T) A) A {
	return plist.Fold(t.children, combine(seed, t.value), func(acc A, child Tree[T]) A {
		return Fold(child, acc, combine)
	})
}

// Map returns a tree of the same shape with f applied to every value.
func Map[T, U any](t Tree[T], f func(T) U) Tree[U] {
	return Tree[U]{
		value: f(t.value),
		children: plist.Map(t.children, func(child Tree[T]) Tree[U] {
			return Map(child, f)
		}),
	}
}

// Size returns the number of nodes.
func Size[T any](t Tree[T]) int {
	return Fold(t, 0, func(n int, _ T) int { return n + 1 })
}

// Depth returns the number of nodes on the longest root-to-leaf path.
// A leaf has depth 1.
func Depth[T any](t Tree[T]) int {
	deepest := plist.Fold(t.children, 0, func(best int, child Tree[T]) int {
		if d := Depth(child); d > best {
			return d
		}
		return best
	})
	return deepest + 1
}
