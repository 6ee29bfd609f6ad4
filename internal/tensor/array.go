package tensor

import (
	"fmt"
	"reflect"
)

// Element is the set of Go element types an Array can hold.
type Element interface {
	~bool | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64 | ~string
}

// Array is a decoded .npy array.
//
// Data holds a flat typed slice in host byte order:
//   - Bool: []bool
//   - Int8..Int64, Uint8..Uint64, Float32, Float64: the matching Go slice
//   - Float16: []float32 when widened, []uint16 raw bit patterns otherwise
//   - Unicode: []string with trailing NUL code points stripped
//
// The elements are laid out in storage order: row-major, or column-major when FortranOrder is set.
type Array struct {
	Descr        Descr // Descriptor as stored in the header
	Data         any
	Shape        Shape
	FortranOrder bool
}

// DType returns the element type.
func (a *Array) DType() DataType {
	return a.Descr.Type
}

// NumElements returns the number of elements described by the shape.
func (a *Array) NumElements() int {
	return a.Shape.NumElements()
}

// Len returns the length of the flat data slice.
func (a *Array) Len() int {
	if a.Data == nil {
		return 0
	}
	return reflect.ValueOf(a.Data).Len()
}

// Nested reshapes the flat data by the array's shape and layout order. See Reshape.
func (a *Array) Nested() (any, error) {
	switch d := a.Data.(type) {
	case []bool:
		return Reshape(d, a.Shape, a.FortranOrder)
	case []int8:
		return Reshape(d, a.Shape, a.FortranOrder)
	case []int16:
		return Reshape(d, a.Shape, a.FortranOrder)
	case []int32:
		return Reshape(d, a.Shape, a.FortranOrder)
	case []int64:
		return Reshape(d, a.Shape, a.FortranOrder)
	case []uint8:
		return Reshape(d, a.Shape, a.FortranOrder)
	case []uint16:
		return Reshape(d, a.Shape, a.FortranOrder)
	case []uint32:
		return Reshape(d, a.Shape, a.FortranOrder)
	case []uint64:
		return Reshape(d, a.Shape, a.FortranOrder)
	case []float32:
		return Reshape(d, a.Shape, a.FortranOrder)
	case []float64:
		return Reshape(d, a.Shape, a.FortranOrder)
	case []string:
		return Reshape(d, a.Shape, a.FortranOrder)
	default:
		return nil, &UnsupportedDtypeError{Descr: fmt.Sprintf("%T", a.Data)}
	}
}

// Values returns the flat data as []T.
func Values[T Element](a *Array) ([]T, error) {
	v, ok := a.Data.([]T)
	if !ok {
		var zero T
		return nil, fmt.Errorf("array data is %T, not []%T", a.Data, zero)
	}
	return v, nil
}
