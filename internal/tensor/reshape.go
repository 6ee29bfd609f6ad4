package tensor

import "fmt"

// maxEmptySlices bounds the nested slices built for a shape with a zero dimension,
// where the element count no longer limits the outer dimensions.
const maxEmptySlices = 1 << 24

// Reshape arranges a flat sequence into nested slices mirroring shape.
//
// The outermost slice indexes the first dimension and the innermost level is a []T
// of leaf elements. With fortranOrder the flat data is read column-major (first index
// varies fastest), otherwise row-major; the nesting order always follows shape.
// An empty shape returns the sole element itself.
func Reshape[T any](flat []T, shape Shape, fortranOrder bool) (any, error) {
	if err := shape.Validate(); err != nil {
		return nil, err
	}

	total, ok := shape.CheckedNumElements()
	if !ok || total != len(flat) {
		return nil, &ShapeMismatchError{Shape: shape.Clone(), Expected: total, Actual: len(flat)}
	}

	if len(shape) == 0 {
		return flat[0], nil
	}
	if total == 0 {
		if err := checkEmptyNesting(shape); err != nil {
			return nil, err
		}
	}

	var strides []int
	if fortranOrder {
		strides = shape.ComputeFortranStrides()
	} else {
		strides = shape.ComputeStrides()
	}

	return build(flat, shape, strides, 0, 0), nil
}

// checkEmptyNesting rejects zero-size shapes whose dimensions before the first
// zero would need more than maxEmptySlices slices.
func checkEmptyNesting(shape Shape) error {
	slices, level := 0, 1
	for i, dim := range shape[:len(shape)-1] {
		if dim == 0 {
			break
		}
		if level > maxEmptySlices/dim {
			return fmt.Errorf("%w: %s has too many empty slices at dimension %d", ErrInvalidShape, shape, i)
		}
		level *= dim
		slices += level
		if slices > maxEmptySlices {
			return fmt.Errorf("%w: %s has too many empty slices at dimension %d", ErrInvalidShape, shape, i)
		}
	}
	return nil
}

// build materializes dimension dim starting at flat offset base.
func build[T any](flat []T, shape Shape, strides []int, dim, base int) any {
	n := shape[dim]
	if dim == len(shape)-1 {
		leaves := make([]T, n)
		for i := range leaves {
			leaves[i] = flat[base+i*strides[dim]]
		}
		return leaves
	}

	out := make([]any, n)
	for i := range out {
		out[i] = build(flat, shape, strides, dim+1, base+i*strides[dim])
	}
	return out
}
