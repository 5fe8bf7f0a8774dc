// Package plist provides an immutable, persistent singly-linked list.
//
// A List is either empty or a node holding a value and the rest of the list.
// The zero value is the empty list. Lists are never mutated after
// construction: Cons, Map, Filter and Reverse all return new lists that
// share structure with their inputs where possible.
//
// Because Go methods cannot declare their own type parameters, the
// type-changing combinators are package functions:
//
//	doubled := plist.Map(l, func(v int) int { return v * 2 })
//	total := plist.Fold(doubled, 0, func(acc, v int) int { return acc + v })
//
// Head and Tail on an empty list return *EmptyStructureError; they never
// return a default value.
package plist
