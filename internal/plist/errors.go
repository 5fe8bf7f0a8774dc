package plist

import (
	"errors"
	"fmt"
)

// EmptyStructureError is returned when Head or Tail is called on an empty list.
type EmptyStructureError struct {
	// Op is the operation that was attempted ("head" or "tail").
	Op string
}

// Error implements the error interface.
func (e *EmptyStructureError) Error() string {
	return fmt.Sprintf("EMPTY_STRUCTURE: %s of empty list", e.Op)
}

// IsEmptyStructure reports whether err is (or wraps) an EmptyStructureError.
func IsEmptyStructure(err error) bool {
	var ee *EmptyStructureError
	return errors.As(err, &ee)
}
