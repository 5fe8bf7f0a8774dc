// Package model defines the read-only entity snapshot that analytic queries
// run over: customers, products and orders.
//
// This package contains entity types and the snapshot invariants only. All
// other internal packages may import model; model imports nothing internal.
//
// Key constraints:
//   - Every Order references exactly one Customer (non-nil)
//   - Product prices are non-negative
//   - Product.Orders is the back-reference set built by Snapshot.Link
//   - Order dates are civil dates (UTC midnight); only the calendar day matters
//   - A snapshot is never mutated once handed to a query
package model
