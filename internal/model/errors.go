package model

import (
	"errors"
	"fmt"
)

// Entity kinds used in error reports.
const (
	EntityCustomer = "customer"
	EntityProduct  = "product"
	EntityOrder    = "order"
)

// MissingReferenceError reports a data-integrity violation in a snapshot:
// an order without a customer, or a reference to an entity that is not part
// of the snapshot.
//
// Queries abort on this error rather than skipping the record, since a
// partial aggregate would be misleading.
type MissingReferenceError struct {
	// Entity and ID identify the record holding the bad reference.
	Entity string
	ID     int64

	// Ref is the kind of entity that is missing.
	Ref string

	// RefID is the dangling ID, if there was one. Zero when the reference
	// was absent altogether.
	RefID int64
}

// Error implements the error interface.
func (e *MissingReferenceError) Error() string {
	if e.RefID != 0 {
		return fmt.Sprintf("MISSING_REFERENCE: %s %d references unknown %s %d", e.Entity, e.ID, e.Ref, e.RefID)
	}
	return fmt.Sprintf("MISSING_REFERENCE: %s %d has no %s", e.Entity, e.ID, e.Ref)
}

// IsMissingReference reports whether err is (or wraps) a MissingReferenceError.
func IsMissingReference(err error) bool {
	var mr *MissingReferenceError
	return errors.As(err, &mr)
}

// InvalidEntityError reports an entity whose own fields break an invariant
// (for example a negative price or a duplicate ID).
type InvalidEntityError struct {
	Entity  string
	ID      int64
	Message string
}

// Error implements the error interface.
func (e *InvalidEntityError) Error() string {
	return fmt.Sprintf("INVALID_ENTITY: %s %d: %s", e.Entity, e.ID, e.Message)
}
