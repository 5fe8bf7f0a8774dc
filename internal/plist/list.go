package plist

import (
	"fmt"
	"strings"
)

// List is an immutable singly-linked list. The zero value is empty.
type List[T any] struct {
	node *node[T]
}

type node[T any] struct {
	value T
	rest  List[T]
}

// Empty returns the empty list.
func Empty[T any]() List[T] {
	return List[T]{}
}

// Cons returns a new list with v in front of rest. rest is shared, not copied.
func Cons[T any](v T, rest List[T]) List[T] {
	return List[T]{node: &node[T]{value: v, rest: rest}}
}

// Of builds a list holding values in order.
func Of[T any](values ...T) List[T] {
	return FromSlice(values)
}

// FromSlice builds a list holding the elements of s in order.
// The list does not alias s.
func FromSlice[T any](s []T) List[T] {
	if len(s) == 0 {
		return Empty[T]()
	}
	return Cons(s[0], FromSlice(s[1:]))
}

// IsEmpty reports whether the list has no elements.
func (l List[T]) IsEmpty() bool {
	return l.node == nil
}

// Head returns the first element.
// Returns *EmptyStructureError if the list is empty.
func (l List[T]) Head() (T, error) {
	if l.node == nil {
		var zero T
		return zero, &EmptyStructureError{Op: "head"}
	}
	return l.node.value, nil
}

// Tail returns the list without its first element.
// Returns *EmptyStructureError if the list is empty.
func (l List[T]) Tail() (List[T], error) {
	if l.node == nil {
		return List[T]{}, &EmptyStructureError{Op: "tail"}
	}
	return l.node.rest, nil
}

// Filter returns the elements satisfying pred, in their original order.
func (l List[T]) Filter(pred func(T) bool) List[T] {
	if l.node == nil {
		return l
	}
	rest := l.node.rest.Filter(pred)
	if !pred(l.node.value) {
		return rest
	}
	if rest == l.node.rest {
		// Every element was kept; share the original node.
		return l
	}
	return Cons(l.node.value, rest)
}

// Len returns the number of elements.
func (l List[T]) Len() int {
	return Fold(l, 0, func(n int, _ T) int { return n + 1 })
}

// ToSlice copies the elements into a new slice, in order.
func (l List[T]) ToSlice() []T {
	return Fold(l, make([]T, 0, l.Len()), func(acc []T, v T) []T { return append(acc, v) })
}

// Reverse returns a new list with the elements in reverse order.
func (l List[T]) Reverse() List[T] {
	return Fold(l, Empty[T](), func(acc List[T], v T) List[T] { return Cons(v, acc) })
}

// String renders the list as "[a b c]".
func (l List[T]) String() string {
	parts := Fold(l, []string(nil), func(acc []string, v T) []string {
		return append(acc, fmt.Sprint(v))
	})
	return "[" + strings.Join(parts, " ") + "]"
}

// Map returns a new list holding f applied to each element, in order.
func Map[T, U any](l List[T], f func(T) U) List[U] {
	if l.node == nil {
		return Empty[U]()
	}
	return Cons(f(l.node.value), Map(l.node.rest, f))
}

// Fold threads an accumulator through the list from left to right:
//
//	Fold(Empty, seed, f)        == seed
//	Fold(Cons(v, rest), seed, f) == Fold(rest, f(seed, v), f)
func Fold[T, A any](l List[T], seed A, combine func(A, T) A) A {
	if l.node == nil {
		return seed
	}
	return Fold(l.node.rest, combine(seed, l.node.value), combine)
}
