package tensor

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Shape represents the dimensions of an array. An empty shape denotes a scalar.
type Shape []int

// NumElements returns the total number of elements described by the shape.
func (s Shape) NumElements() int {
	n := 1 // Scalar has 1 element
	for _, dim := range s {
		n *= dim
	}
	return n
}

// CheckedNumElements is NumElements with overflow detection.
func (s Shape) CheckedNumElements() (int, bool) {
	n := 1
	for _, dim := range s {
		if dim < 0 {
			return 0, false
		}
		if dim != 0 && n > math.MaxInt/dim {
			return 0, false
		}
		n *= dim
	}
	return n, true
}

// Validate checks that every dimension is non-negative.
func (s Shape) Validate() error {
	for i, dim := range s {
		if dim < 0 {
			return fmt.Errorf("%w: dimension %d is %d (must be >= 0)", ErrInvalidShape, i, dim)
		}
	}
	return nil
}

// Equal checks if two shapes are equal.
func (s Shape) Equal(other Shape) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}

// Clone returns a copy of the shape.
func (s Shape) Clone() Shape {
	if s == nil {
		return nil
	}
	clone := make(Shape, len(s))
	copy(clone, s)
	return clone
}

// ComputeStrides calculates row-major strides for the shape.
// Strides define memory layout: stride[i] = product of all dimensions after i.
func (s Shape) ComputeStrides() []int {
	strides := make([]int, len(s))
	if len(s) == 0 {
		return strides
	}

	strides[len(s)-1] = 1
	for i := len(s) - 2; i >= 0; i-- {
		strides[i] = strides[i+1] * s[i+1]
	}
	return strides
}

// ComputeFortranStrides calculates column-major strides for the shape.
// stride[i] = product of all dimensions before i.
func (s Shape) ComputeFortranStrides() []int {
	strides := make([]int, len(s))
	stride := 1
	for i, dim := range s {
		strides[i] = stride
		stride *= dim
	}
	return strides
}

// String formats the shape as a tuple, e.g. (2, 3) or (5,).
func (s Shape) String() string {
	parts := make([]string, len(s))
	for i, dim := range s {
		parts[i] = strconv.Itoa(dim)
	}
	if len(s) == 1 {
		return "(" + parts[0] + ",)"
	}
	return "(" + strings.Join(parts, ", ") + ")"
}
