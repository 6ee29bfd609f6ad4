package tensor

import "math"

// Float16ToFloat32 widens an IEEE 754 half precision bit pattern to float32.
//
// Layout: sign bit 15, 5-bit exponent, 10-bit fraction.
// Exponent 0 encodes zero and subnormals, exponent 31 encodes infinity and NaN.
func Float16ToFloat32(h uint16) float32 {
	sign := uint32(h>>15) & 0x1
	exp := int(h>>10) & 0x1F
	frac := uint32(h & 0x3FF)

	switch exp {
	case 0:
		// 2^-14 * frac/1024, signed zero when frac is 0.
		v := float32(math.Ldexp(float64(frac), -24))
		if sign == 1 {
			return -v
		}
		return v
	case 0x1F:
		// Inf when frac is 0, NaN otherwise. The payload is kept.
		return math.Float32frombits(sign<<31 | 0x7F800000 | frac<<13)
	default:
		return math.Float32frombits(sign<<31 | uint32(exp-15+127)<<23 | frac<<13)
	}
}

// Float32ToFloat16 narrows a float32 to an IEEE 754 half precision bit pattern,
// rounding to nearest even. Values beyond the half range become infinity.
func Float32ToFloat16(f float32) uint16 {
	bits := math.Float32bits(f)
	sign := uint16(bits>>16) & 0x8000
	exp := int(bits>>23) & 0xFF
	mant := bits & 0x7FFFFF

	if exp == 0xFF {
		if mant != 0 {
			return sign | 0x7E00
		}
		return sign | 0x7C00
	}

	// Rebias: float32 bias=127, float16 bias=15.
	e := exp - 127 + 15
	if e >= 0x1F {
		return sign | 0x7C00
	}

	if e <= 0 {
		if e < -10 {
			return sign
		}
		// Subnormal half: shift the full significand including the implicit bit.
		mant |= 0x800000
		shift := uint32(14 - e)
		h := mant >> shift
		rem := mant & (1<<shift - 1)
		half := uint32(1) << (shift - 1)
		if rem > half || (rem == half && h&1 == 1) {
			h++
		}
		return sign | uint16(h)
	}

	h := uint32(e)<<10 | mant>>13
	rem := mant & 0x1FFF
	if rem > 0x1000 || (rem == 0x1000 && h&1 == 1) {
		// A carry into the exponent is the correct rounding, up to infinity.
		h++
	}
	return sign | uint16(h)
}
