package tensor

import (
	"errors"
	"fmt"
)

// Common errors.
var (
	ErrUnsupportedDtype = errors.New("unsupported dtype")
	ErrShapeMismatch    = errors.New("shape mismatch")
	ErrInvalidShape     = errors.New("invalid shape")
)

// UnsupportedDtypeError names a descriptor or Go type that has no element type.
type UnsupportedDtypeError struct {
	Descr string // Offending descriptor or apparent Go type name
}

// Error implements the error interface.
func (e *UnsupportedDtypeError) Error() string {
	return fmt.Sprintf("unsupported dtype: %s", e.Descr)
}

// Is reports whether target is ErrUnsupportedDtype.
func (e *UnsupportedDtypeError) Is(target error) bool {
	return target == ErrUnsupportedDtype
}

// ShapeMismatchError reports that a shape does not describe the number of available elements.
type ShapeMismatchError struct {
	Shape    Shape
	Expected int // Elements implied by Shape
	Actual   int // Elements available
}

// Error implements the error interface.
func (e *ShapeMismatchError) Error() string {
	return fmt.Sprintf("cannot reshape array of size %d into shape %s (needs %d elements)",
		e.Actual, e.Shape, e.Expected)
}

// Is reports whether target is ErrShapeMismatch.
func (e *ShapeMismatchError) Is(target error) bool {
	return target == ErrShapeMismatch
}
