// Package tensor provides the element types, shapes and array values handled by the npy codec.
package tensor

import (
	"fmt"
	"strconv"
	"strings"
	"unsafe"
)

// Kind classifies the element type of an array.
type Kind uint8

// Supported element kinds.
const (
	KindInvalid Kind = iota
	KindBool
	KindInt
	KindUint
	KindFloat
	KindUnicode
)

// String returns a human-readable kind name.
func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindUint:
		return "uint"
	case KindFloat:
		return "float"
	case KindUnicode:
		return "unicode"
	default:
		return "invalid"
	}
}

// letter returns the descriptor kind letter.
func (k Kind) letter() byte {
	switch k {
	case KindBool:
		return 'b'
	case KindInt:
		return 'i'
	case KindUint:
		return 'u'
	case KindFloat:
		return 'f'
	case KindUnicode:
		return 'U'
	default:
		return '?'
	}
}

// DataType represents runtime type information for array elements.
//
// For numeric and boolean kinds width is the element size in bytes.
// For KindUnicode it is the number of characters, each stored as a 4-byte code point.
// The zero value is invalid and is used by WriteOptions to request inference.
type DataType struct {
	kind  Kind
	width int
}

// Supported fixed-width data types.
var (
	Bool    = DataType{kind: KindBool, width: 1}
	Int8    = DataType{kind: KindInt, width: 1}
	Int16   = DataType{kind: KindInt, width: 2}
	Int32   = DataType{kind: KindInt, width: 4}
	Int64   = DataType{kind: KindInt, width: 8}
	Uint8   = DataType{kind: KindUint, width: 1}
	Uint16  = DataType{kind: KindUint, width: 2}
	Uint32  = DataType{kind: KindUint, width: 4}
	Uint64  = DataType{kind: KindUint, width: 8}
	Float16 = DataType{kind: KindFloat, width: 2}
	Float32 = DataType{kind: KindFloat, width: 4}
	Float64 = DataType{kind: KindFloat, width: 8}
)

// maxUnicodeChars bounds unicode widths so element sizes fit in 32 bits.
const maxUnicodeChars = (1<<31 - 1) / 4

// Unicode returns the fixed-width unicode type holding chars code points per element.
func Unicode(chars int) DataType {
	return DataType{kind: KindUnicode, width: chars}
}

// registry maps the kind+width part of a descriptor to its data type.
// It is populated once at package initialization and never mutated afterwards.
var registry = func() map[string]DataType {
	m := make(map[string]DataType)
	for _, dt := range []DataType{
		Bool, Int8, Int16, Int32, Int64, Uint8, Uint16, Uint32, Uint64, Float16, Float32, Float64,
	} {
		m[dt.code()] = dt
	}
	return m
}()

// Kind returns the element kind.
func (dt DataType) Kind() Kind {
	return dt.kind
}

// Chars returns the character count of a unicode type, or 0 for other kinds.
func (dt DataType) Chars() int {
	if dt.kind != KindUnicode {
		return 0
	}
	return dt.width
}

// IsValid reports whether dt names a supported element type.
func (dt DataType) IsValid() bool {
	if dt.kind == KindUnicode {
		return dt.width > 0 && dt.width <= maxUnicodeChars
	}
	_, ok := registry[dt.code()]
	return ok && dt.kind != KindInvalid
}

// Size returns the byte size of one element.
func (dt DataType) Size() int {
	if dt.kind == KindUnicode {
		return dt.width * 4
	}
	return dt.width
}

// Bits returns the bit width of one element.
func (dt DataType) Bits() int {
	return dt.Size() * 8
}

// unitSize returns the size of the byte-order sensitive unit of an element.
func (dt DataType) unitSize() int {
	if dt.kind == KindUnicode {
		return 4
	}
	return dt.width
}

// String returns the canonical name of the data type.
func (dt DataType) String() string {
	switch dt.kind {
	case KindBool:
		return "bool"
	case KindInt:
		return fmt.Sprintf("int%d", dt.Bits())
	case KindUint:
		return fmt.Sprintf("uint%d", dt.Bits())
	case KindFloat:
		return fmt.Sprintf("float%d", dt.Bits())
	case KindUnicode:
		return fmt.Sprintf("unicode%d", dt.width)
	default:
		return "invalid"
	}
}

// code returns the kind letter followed by the width, e.g. "f4" or "U10".
func (dt DataType) code() string {
	return string(dt.kind.letter()) + strconv.Itoa(dt.width)
}

// ByteOrder is the byte-order marker of a descriptor.
type ByteOrder byte

// Byte-order markers. The zero value means "unspecified" and resolves to the host order.
const (
	LittleEndian  ByteOrder = '<'
	BigEndian     ByteOrder = '>'
	NotApplicable ByteOrder = '|'
	NativeEndian  ByteOrder = '='
)

// HostOrder is the byte order of the running machine.
var HostOrder = func() ByteOrder {
	x := uint16(1)
	//nolint:gosec // reading the first byte of a uint16 to detect endianness
	if *(*byte)(unsafe.Pointer(&x)) == 1 {
		return LittleEndian
	}
	return BigEndian
}()

// Resolve replaces the native and unspecified markers with the concrete host order.
func (o ByteOrder) Resolve() ByteOrder {
	if o == NativeEndian || o == 0 {
		return HostOrder
	}
	return o
}

// String returns the marker character.
func (o ByteOrder) String() string {
	if o == 0 {
		return string(HostOrder)
	}
	return string(byte(o))
}

// Descr is a parsed dtype descriptor: a byte order plus an element type.
type Descr struct {
	Order ByteOrder
	Type  DataType
}

// ParseDescr parses a descriptor string such as "<f4", "|u1" or ">U12".
func ParseDescr(s string) (Descr, error) {
	if len(s) < 3 {
		return Descr{}, &UnsupportedDtypeError{Descr: s}
	}

	order := ByteOrder(s[0])
	switch order {
	case LittleEndian, BigEndian, NotApplicable, NativeEndian:
	default:
		return Descr{}, &UnsupportedDtypeError{Descr: s}
	}

	code := s[1:]
	var dt DataType
	if code[0] == 'U' {
		n, err := strconv.Atoi(code[1:])
		if err != nil || n <= 0 || n > maxUnicodeChars || strings.HasPrefix(code[1:], "+") {
			return Descr{}, &UnsupportedDtypeError{Descr: s}
		}
		dt = Unicode(n)
	} else {
		var ok bool
		if dt, ok = registry[code]; !ok {
			return Descr{}, &UnsupportedDtypeError{Descr: s}
		}
	}

	// "|" only makes sense where byte order does not matter.
	if order == NotApplicable && dt.unitSize() > 1 {
		return Descr{}, &UnsupportedDtypeError{Descr: s}
	}

	return Descr{Order: order, Type: dt}, nil
}

// NativeDescr returns the descriptor that encodes dt in host byte order,
// using the neutral marker for byte-sized types.
func NativeDescr(dt DataType) Descr {
	return DescrWithOrder(dt, HostOrder)
}

// DescrWithOrder returns the descriptor for dt in the requested byte order.
// Byte-sized types always get the neutral marker.
func DescrWithOrder(dt DataType, order ByteOrder) Descr {
	if dt.unitSize() == 1 {
		return Descr{Order: NotApplicable, Type: dt}
	}
	order = order.Resolve()
	if order == NotApplicable {
		order = HostOrder
	}
	return Descr{Order: order, Type: dt}
}

// String formats the descriptor as it appears in a header.
func (d Descr) String() string {
	return d.Order.String() + d.Type.code()
}

// NeedsSwap reports whether payload units must be byte swapped to match the host.
func (d Descr) NeedsSwap() bool {
	if d.Type.unitSize() == 1 || d.Order == NotApplicable {
		return false
	}
	return d.Order.Resolve() != HostOrder
}

// UnitSize returns the size of the byte-order sensitive unit of the element type.
func (d Descr) UnitSize() int {
	return d.Type.unitSize()
}
