package serialization

import (
	"fmt"
	"math"
	"reflect"
	"unicode/utf8"

	"github.com/born-ml/npy/internal/tensor"
)

// scalar is one element of a plain (untyped) input sequence.
type scalar struct {
	kind tensor.Kind
	i    int64   // KindInt
	u    uint64  // KindUint
	f    float64 // KindFloat
	s    string  // KindUnicode
	b    bool    // KindBool
}

// toScalars flattens a slice or array of Go scalars. Elements may be any
// bool, integer, float or string kind, directly or behind an interface.
func toScalars(values any) ([]scalar, error) {
	v := reflect.ValueOf(values)
	if !v.IsValid() || (v.Kind() != reflect.Slice && v.Kind() != reflect.Array) {
		return nil, &tensor.UnsupportedDtypeError{Descr: fmt.Sprintf("%T", values)}
	}

	out := make([]scalar, v.Len())
	for i := range out {
		s, ok := scalarOf(v.Index(i))
		if !ok {
			return nil, &tensor.UnsupportedDtypeError{
				Descr: fmt.Sprintf("%T (element %d is %s)", values, i, elemTypeName(v.Index(i))),
			}
		}
		out[i] = s
	}
	return out, nil
}

func scalarOf(v reflect.Value) (scalar, bool) {
	if v.Kind() == reflect.Interface {
		if v.IsNil() {
			return scalar{}, false
		}
		v = v.Elem()
	}

	switch v.Kind() {
	case reflect.Bool:
		return scalar{kind: tensor.KindBool, b: v.Bool()}, true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return scalar{kind: tensor.KindInt, i: v.Int()}, true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return scalar{kind: tensor.KindUint, u: v.Uint()}, true
	case reflect.Float32, reflect.Float64:
		return scalar{kind: tensor.KindFloat, f: v.Float()}, true
	case reflect.String:
		return scalar{kind: tensor.KindUnicode, s: v.String()}, true
	default:
		return scalar{}, false
	}
}

func elemTypeName(v reflect.Value) string {
	if v.Kind() == reflect.Interface {
		if v.IsNil() {
			return "nil"
		}
		v = v.Elem()
	}
	return v.Type().String()
}

// inferDataType picks the element type for a plain sequence.
//
// Order of preference:
//   - all strings: unicode sized to the longest element (at least 1)
//   - all bools: bool
//   - any float: float32 if every finite magnitude fits float32, else float64
//   - integers: narrowest unsigned type when nothing is negative,
//     otherwise the narrowest signed type holding both extremes
func inferDataType(values []scalar) (tensor.DataType, error) {
	if len(values) == 0 {
		return tensor.DataType{}, &tensor.UnsupportedDtypeError{Descr: "empty sequence"}
	}

	var (
		nBool, nStr, nFloat int
		maxChars            int
		maxAbs              float64
		minInt              int64
		maxUint             uint64
	)

	for _, v := range values {
		switch v.kind {
		case tensor.KindBool:
			nBool++
		case tensor.KindUnicode:
			nStr++
			maxChars = max(maxChars, utf8.RuneCountInString(v.s))
		case tensor.KindFloat:
			nFloat++
			if !math.IsInf(v.f, 0) && !math.IsNaN(v.f) {
				maxAbs = max(maxAbs, math.Abs(v.f))
			}
		case tensor.KindInt:
			minInt = min(minInt, v.i)
			if v.i > 0 {
				maxUint = max(maxUint, uint64(v.i))
			}
			maxAbs = max(maxAbs, math.Abs(float64(v.i)))
		case tensor.KindUint:
			maxUint = max(maxUint, v.u)
			maxAbs = max(maxAbs, float64(v.u))
		}
	}

	switch {
	case nStr == len(values):
		return tensor.Unicode(max(1, maxChars)), nil
	case nBool == len(values):
		return tensor.Bool, nil
	case nStr > 0 || nBool > 0:
		return tensor.DataType{}, &tensor.UnsupportedDtypeError{Descr: "mixed element kinds"}
	case nFloat > 0:
		if maxAbs <= math.MaxFloat32 {
			return tensor.Float32, nil
		}
		return tensor.Float64, nil
	}

	if minInt >= 0 {
		switch {
		case maxUint <= math.MaxUint8:
			return tensor.Uint8, nil
		case maxUint <= math.MaxUint16:
			return tensor.Uint16, nil
		case maxUint <= math.MaxUint32:
			return tensor.Uint32, nil
		default:
			return tensor.Uint64, nil
		}
	}

	switch {
	case minInt >= math.MinInt8 && maxUint <= math.MaxInt8:
		return tensor.Int8, nil
	case minInt >= math.MinInt16 && maxUint <= math.MaxInt16:
		return tensor.Int16, nil
	case minInt >= math.MinInt32 && maxUint <= math.MaxInt32:
		return tensor.Int32, nil
	case maxUint <= math.MaxInt64:
		return tensor.Int64, nil
	default:
		return tensor.DataType{}, &tensor.UnsupportedDtypeError{
			Descr: fmt.Sprintf("integers from %d to %d", minInt, maxUint),
		}
	}
}
