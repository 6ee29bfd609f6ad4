package serialization

import (
	"strings"
	"unsafe"

	"golang.org/x/exp/constraints"

	"github.com/born-ml/npy/internal/parallel"
	"github.com/born-ml/npy/internal/tensor"
)

// parallelConfig splits byte swapping and float16 widening of large payloads across CPUs.
var parallelConfig = parallel.DefaultConfig()

// number is the set of fixed-width element types stored verbatim in a payload.
type number interface {
	constraints.Integer | constraints.Float
}

// decodePayload converts count elements from payload into a typed slice in host order.
func decodePayload(descr tensor.Descr, count int, payload []byte, opts ReadOptions) (any, error) {
	dt := descr.Type
	src := payload[:count*dt.Size()]
	swap := descr.NeedsSwap()

	switch dt {
	case tensor.Bool:
		out := make([]bool, count)
		for i, b := range src {
			out[i] = b != 0
		}
		return out, nil
	case tensor.Int8:
		return decodeNumbers[int8](src, swap, opts.ZeroCopy), nil
	case tensor.Uint8:
		return decodeNumbers[uint8](src, swap, opts.ZeroCopy), nil
	case tensor.Int16:
		return decodeNumbers[int16](src, swap, opts.ZeroCopy), nil
	case tensor.Uint16:
		return decodeNumbers[uint16](src, swap, opts.ZeroCopy), nil
	case tensor.Int32:
		return decodeNumbers[int32](src, swap, opts.ZeroCopy), nil
	case tensor.Uint32:
		return decodeNumbers[uint32](src, swap, opts.ZeroCopy), nil
	case tensor.Int64:
		return decodeNumbers[int64](src, swap, opts.ZeroCopy), nil
	case tensor.Uint64:
		return decodeNumbers[uint64](src, swap, opts.ZeroCopy), nil
	case tensor.Float32:
		return decodeNumbers[float32](src, swap, opts.ZeroCopy), nil
	case tensor.Float64:
		return decodeNumbers[float64](src, swap, opts.ZeroCopy), nil
	case tensor.Float16:
		bits := decodeNumbers[uint16](src, swap, opts.ZeroCopy && !opts.ConvertFloat16)
		if !opts.ConvertFloat16 {
			return bits, nil
		}
		out := make([]float32, len(bits))
		parallel.Chunks(len(bits), func(start, end int) {
			for i := start; i < end; i++ {
				out[i] = tensor.Float16ToFloat32(bits[i])
			}
		}, parallelConfig)
		return out, nil
	}

	if dt.Kind() == tensor.KindUnicode {
		return decodeUnicode(src, dt.Chars(), swap), nil
	}

	return nil, &tensor.UnsupportedDtypeError{Descr: descr.String()}
}

// decodeNumbers reinterprets src as []T. The result aliases src when zeroCopy is set,
// no swap is needed and src is suitably aligned; otherwise it is a fresh copy.
func decodeNumbers[T number](src []byte, swap, zeroCopy bool) []T {
	var zero T
	size := int(unsafe.Sizeof(zero))
	n := len(src) / size
	if n == 0 {
		return []T{}
	}

	if zeroCopy && !swap && uintptr(unsafe.Pointer(&src[0]))%unsafe.Alignof(zero) == 0 {
		//nolint:gosec // unsafe.Slice for zero-copy views, length bounded by len(src)
		return unsafe.Slice((*T)(unsafe.Pointer(&src[0])), n)
	}

	out := make([]T, n)
	dst := bytesOf(out)
	copy(dst, src)
	if swap {
		swapUnits(dst, size)
	}
	return out
}

// decodeUnicode splits UTF-32 code points into strings of chars characters each,
// dropping trailing NUL code points.
func decodeUnicode(src []byte, chars int, swap bool) []string {
	points := decodeNumbers[uint32](src, swap, false)
	n := 0
	if chars > 0 {
		n = len(points) / chars
	}

	out := make([]string, n)
	var sb strings.Builder
	for i := range out {
		elem := points[i*chars : (i+1)*chars]
		end := len(elem)
		for end > 0 && elem[end-1] == 0 {
			end--
		}
		sb.Reset()
		for _, cp := range elem[:end] {
			sb.WriteRune(rune(cp)) //nolint:gosec // G115: invalid code points become U+FFFD
		}
		out[i] = sb.String()
	}
	return out
}

// bytesOf returns the memory of s as a byte slice without copying.
func bytesOf[T number](s []T) []byte {
	if len(s) == 0 {
		return nil
	}
	var zero T
	//nolint:gosec // unsafe.Slice over the same backing array, length in bytes
	return unsafe.Slice((*byte)(unsafe.Pointer(&s[0])), len(s)*int(unsafe.Sizeof(zero)))
}

// swapUnits reverses the byte order of every unit-sized group in b.
func swapUnits(b []byte, unit int) {
	if unit < 2 {
		return
	}
	parallel.Chunks(len(b)/unit, func(start, end int) {
		for i := start; i < end; i++ {
			u := b[i*unit : (i+1)*unit]
			for l, r := 0, unit-1; l < r; l, r = l+1, r-1 {
				u[l], u[r] = u[r], u[l]
			}
		}
	}, parallelConfig)
}
