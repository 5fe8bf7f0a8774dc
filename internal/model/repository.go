package model

import (
	"context"
	"fmt"
)

// Repository returns the full collection of one entity kind.
//
// Implementations hand back a complete, already-loaded view; the analytics
// code never asks for a subset and never writes back.
type Repository[T any] interface {
	FindAll(ctx context.Context) ([]T, error)
}

// StaticRepository serves a fixed in-memory collection.
type StaticRepository[T any] []T

// FindAll returns a copy of the collection.
func (r StaticRepository[T]) FindAll(context.Context) ([]T, error) {
	return append([]T(nil), r...), nil
}

// LoadSnapshot reads every collection from its repository and assembles a
// linked, validated snapshot.
func LoadSnapshot(
	ctx context.Context,
	customers Repository[*Customer],
	products Repository[*Product],
	orders Repository[*Order],
) (*Snapshot, error) {
	cs, err := customers.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load customers: %w", err)
	}
	ps, err := products.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load products: %w", err)
	}
	ords, err := orders.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load orders: %w", err)
	}

	snap, err := NewSnapshot(cs, ps, ords)
	if err != nil {
		return nil, fmt.Errorf("invalid snapshot: %w", err)
	}
	return snap, nil
}
