package serialization

import (
	"encoding/binary"
	"fmt"
	"math"
	"unsafe"

	"github.com/born-ml/npy/internal/tensor"
)

// WriteOptions configures encoding.
type WriteOptions struct {
	DType        tensor.DataType  // Element type; zero value infers it from the values
	Shape        tensor.Shape     // nil means one dimension of len(values); empty means scalar
	FortranOrder bool             // Values are laid out column-major
	ByteOrder    tensor.ByteOrder // Payload byte order; zero value means host order
}

// Format encodes values as a complete .npy buffer.
//
// values is either a typed slice ([]bool, []int8..[]int64, []uint8..[]uint64,
// []float32, []float64), whose element type is used directly, or a plain sequence
// ([]int, []uint, []string, []any, ...) whose element type is inferred.
// With opts.DType set, values are converted to it, except that a []uint16
// written as Float16 is taken as raw half-precision bits.
// values is never modified.
func Format(values any, opts WriteOptions) ([]byte, error) {
	order := opts.ByteOrder.Resolve()
	if order != tensor.LittleEndian && order != tensor.BigEndian {
		return nil, fmt.Errorf("invalid byte order %q", opts.ByteOrder)
	}

	dt, count, payload, err := encodeValues(values, opts.DType, order)
	if err != nil {
		return nil, err
	}

	shape := opts.Shape
	if shape == nil {
		shape = tensor.Shape{count}
	}
	if err := shape.Validate(); err != nil {
		return nil, err
	}
	if n, ok := shape.CheckedNumElements(); !ok || n != count {
		return nil, &tensor.ShapeMismatchError{Shape: shape.Clone(), Expected: n, Actual: count}
	}

	dict := FormatHeaderDict(Metadata{
		Descr:        tensor.DescrWithOrder(dt, order).String(),
		FortranOrder: opts.FortranOrder,
		Shape:        shape,
	})
	text, major, err := paddedHeader(dict)
	if err != nil {
		return nil, err
	}

	prefix := prefixSize(major)
	buf := make([]byte, prefix+len(text)+len(payload))
	writePrefix(buf, major, len(text))
	copy(buf[prefix:], text)
	copy(buf[prefix+len(text):], payload)

	return buf, nil
}

// encodeValues resolves the element type of values and renders the payload bytes in order.
func encodeValues(values any, want tensor.DataType, order tensor.ByteOrder) (tensor.DataType, int, []byte, error) {
	if dt, count, payload, ok := typedPayload(values); ok {
		// []uint16 under f2 holds raw half-precision bits, as decoded without widening.
		if dt == tensor.Uint16 && want == tensor.Float16 {
			dt = tensor.Float16
		}
		if want != (tensor.DataType{}) && want != dt {
			return encodeConverted(values, want, order)
		}
		if order != tensor.HostOrder {
			swapUnits(payload, dt.Size())
		}
		return dt, count, payload, nil
	}
	return encodeConverted(values, want, order)
}

// encodeConverted renders values element by element, converting each to want
// or to the inferred type when want is zero.
func encodeConverted(values any, want tensor.DataType, order tensor.ByteOrder) (tensor.DataType, int, []byte, error) {
	scalars, err := toScalars(values)
	if err != nil {
		return tensor.DataType{}, 0, nil, err
	}

	dt := want
	if dt == (tensor.DataType{}) {
		if dt, err = inferDataType(scalars); err != nil {
			return tensor.DataType{}, 0, nil, err
		}
	} else if !dt.IsValid() {
		return tensor.DataType{}, 0, nil, &tensor.UnsupportedDtypeError{Descr: dt.String()}
	}

	bo := binaryOrder(order)
	size := dt.Size()
	payload := make([]byte, len(scalars)*size)
	for i, s := range scalars {
		if err := putScalar(payload[i*size:(i+1)*size], s, dt, bo); err != nil {
			return tensor.DataType{}, 0, nil, fmt.Errorf("element %d: %w", i, err)
		}
	}

	return dt, len(scalars), payload, nil
}

// typedPayload copies the bytes of a fixed-width typed slice in host order.
func typedPayload(values any) (tensor.DataType, int, []byte, bool) {
	switch v := values.(type) {
	case []bool:
		payload := make([]byte, len(v))
		for i, b := range v {
			if b {
				payload[i] = 1
			}
		}
		return tensor.Bool, len(v), payload, true
	case []int8:
		return tensor.Int8, len(v), cloneBytes(v), true
	case []uint8:
		return tensor.Uint8, len(v), cloneBytes(v), true
	case []int16:
		return tensor.Int16, len(v), cloneBytes(v), true
	case []uint16:
		return tensor.Uint16, len(v), cloneBytes(v), true
	case []int32:
		return tensor.Int32, len(v), cloneBytes(v), true
	case []uint32:
		return tensor.Uint32, len(v), cloneBytes(v), true
	case []int64:
		return tensor.Int64, len(v), cloneBytes(v), true
	case []uint64:
		return tensor.Uint64, len(v), cloneBytes(v), true
	case []float32:
		return tensor.Float32, len(v), cloneBytes(v), true
	case []float64:
		return tensor.Float64, len(v), cloneBytes(v), true
	default:
		return tensor.DataType{}, 0, nil, false
	}
}

func cloneBytes[T number](s []T) []byte {
	var zero T
	out := make([]byte, len(s)*int(unsafe.Sizeof(zero)))
	copy(out, bytesOf(s))
	return out
}

func binaryOrder(order tensor.ByteOrder) binary.ByteOrder {
	if order == tensor.BigEndian {
		return binary.BigEndian
	}
	return binary.LittleEndian
}

// putScalar converts s to dt and writes it into dst. Numeric conversions follow Go
// conversion rules: floats truncate toward zero and integers wrap.
func putScalar(dst []byte, s scalar, dt tensor.DataType, bo binary.ByteOrder) error {
	if dt.Kind() == tensor.KindUnicode {
		if s.kind != tensor.KindUnicode {
			return &tensor.UnsupportedDtypeError{Descr: fmt.Sprintf("%s value for %s", s.kind, dt)}
		}
		chars := dt.Chars()
		j := 0
		for _, r := range s.s {
			if j == chars {
				break
			}
			bo.PutUint32(dst[j*4:], uint32(r)) //nolint:gosec // G115: runes are non-negative
			j++
		}
		return nil
	}
	if s.kind == tensor.KindUnicode {
		return &tensor.UnsupportedDtypeError{Descr: fmt.Sprintf("string value for %s", dt)}
	}

	switch dt.Kind() {
	case tensor.KindBool:
		if s.truthy() {
			dst[0] = 1
		}
	case tensor.KindInt, tensor.KindUint:
		putUint(dst, s.bits(), bo)
	case tensor.KindFloat:
		f := s.float()
		switch dt {
		case tensor.Float16:
			bo.PutUint16(dst, tensor.Float32ToFloat16(float32(f)))
		case tensor.Float32:
			bo.PutUint32(dst, math.Float32bits(float32(f)))
		default:
			bo.PutUint64(dst, math.Float64bits(f))
		}
	}
	return nil
}

// putUint writes the low len(dst) bytes of v.
func putUint(dst []byte, v uint64, bo binary.ByteOrder) {
	switch len(dst) {
	case 1:
		dst[0] = byte(v)
	case 2:
		bo.PutUint16(dst, uint16(v)) //nolint:gosec // G115: intentional truncation
	case 4:
		bo.PutUint32(dst, uint32(v)) //nolint:gosec // G115: intentional truncation
	default:
		bo.PutUint64(dst, v)
	}
}

func (s scalar) truthy() bool {
	switch s.kind {
	case tensor.KindBool:
		return s.b
	case tensor.KindInt:
		return s.i != 0
	case tensor.KindUint:
		return s.u != 0
	default:
		return s.f != 0
	}
}

// bits returns the two's complement representation of s as an integer.
func (s scalar) bits() uint64 {
	switch s.kind {
	case tensor.KindBool:
		if s.b {
			return 1
		}
		return 0
	case tensor.KindInt:
		return uint64(s.i) //nolint:gosec // G115: two's complement reinterpretation
	case tensor.KindUint:
		return s.u
	default:
		if s.f < 0 {
			return uint64(int64(s.f)) //nolint:gosec // G115: two's complement reinterpretation
		}
		return uint64(s.f)
	}
}

func (s scalar) float() float64 {
	switch s.kind {
	case tensor.KindBool:
		if s.b {
			return 1
		}
		return 0
	case tensor.KindInt:
		return float64(s.i)
	case tensor.KindUint:
		return float64(s.u)
	default:
		return s.f
	}
}
