// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package npy

import (
	"context"
	"io"

	"github.com/born-ml/npy/internal/serialization"
	"github.com/born-ml/npy/internal/source"
	"github.com/born-ml/npy/internal/tensor"
)

// Array is a decoded array: descriptor, flat data, shape and layout order.
type Array = tensor.Array

// DataType identifies an element type.
type DataType = tensor.DataType

// Kind is the category of a DataType.
type Kind = tensor.Kind

// ByteOrder is a descriptor byte order marker.
type ByteOrder = tensor.ByteOrder

// Descr is a parsed dtype descriptor such as "<f4".
type Descr = tensor.Descr

// Shape is the list of array dimensions.
type Shape = tensor.Shape

// ReadOptions configures decoding.
type ReadOptions = serialization.ReadOptions

// WriteOptions configures encoding.
type WriteOptions = serialization.WriteOptions

// ValidationLevel controls the strictness of decoding.
type ValidationLevel = serialization.ValidationLevel

// HeaderInfo locates the header inside a buffer.
type HeaderInfo = serialization.HeaderInfo

// Metadata is the parsed header dictionary.
type Metadata = serialization.Metadata

// Summary describes an array whose payload was hashed but not decoded.
type Summary = serialization.Summary

// MmapReader provides memory-mapped access to a .npy file.
type MmapReader = serialization.MmapReader

// Validation levels.
const (
	ValidationStrict = serialization.ValidationStrict
	ValidationNormal = serialization.ValidationNormal
	ValidationNone   = serialization.ValidationNone
)

// Element kinds.
const (
	KindBool    = tensor.KindBool
	KindInt     = tensor.KindInt
	KindUint    = tensor.KindUint
	KindFloat   = tensor.KindFloat
	KindUnicode = tensor.KindUnicode
)

// Byte order markers.
const (
	LittleEndian  = tensor.LittleEndian
	BigEndian     = tensor.BigEndian
	NotApplicable = tensor.NotApplicable
	NativeEndian  = tensor.NativeEndian
)

// Supported fixed-width element types.
var (
	Bool    = tensor.Bool
	Int8    = tensor.Int8
	Int16   = tensor.Int16
	Int32   = tensor.Int32
	Int64   = tensor.Int64
	Uint8   = tensor.Uint8
	Uint16  = tensor.Uint16
	Uint32  = tensor.Uint32
	Uint64  = tensor.Uint64
	Float16 = tensor.Float16
	Float32 = tensor.Float32
	Float64 = tensor.Float64
)

// Unicode returns the fixed-width unicode type of chars code points.
func Unicode(chars int) DataType {
	return tensor.Unicode(chars)
}

// ParseDescr parses a descriptor string such as "<f4", "|b1" or ">U12".
func ParseDescr(s string) (Descr, error) {
	return tensor.ParseDescr(s)
}

// DefaultReadOptions returns options with float16 widening and strict validation.
func DefaultReadOptions() ReadOptions {
	return serialization.DefaultReadOptions()
}

// Parse decodes a complete .npy buffer with default options.
func Parse(buf []byte) (*Array, error) {
	return serialization.Parse(buf)
}

// ParseWithOptions decodes a complete .npy buffer.
func ParseWithOptions(buf []byte, opts ReadOptions) (*Array, error) {
	return serialization.ParseWithOptions(buf, opts)
}

// Format encodes values as a complete .npy buffer.
//
// values is a typed slice such as []float32, whose element type is kept, or a plain
// sequence such as []int or []any, whose element type is inferred unless opts.DType is set.
func Format(values any, opts WriteOptions) ([]byte, error) {
	return serialization.Format(values, opts)
}

// Reshape turns flat into nested slices of the given shape.
//
// The innermost level is []T, outer levels are []any. An empty shape returns flat[0].
// With fortranOrder set, flat is read column-major.
func Reshape[T any](flat []T, shape Shape, fortranOrder bool) (any, error) {
	return tensor.Reshape(flat, shape, fortranOrder)
}

// Values returns the flat data of a as []T.
func Values[T tensor.Element](a *Array) ([]T, error) {
	return tensor.Values[T](a)
}

// Load reads and decodes the array at src, a file path or an http(s) URL.
func Load(ctx context.Context, src string, opts ReadOptions) (*Array, error) {
	return New(opts).Load(ctx, src)
}

// LoadFile reads and decodes the .npy file at path.
func LoadFile(path string, opts ReadOptions) (*Array, error) {
	return serialization.ReadFile(path, opts)
}

// LoadReader drains r and decodes its contents as one array.
func LoadReader(ctx context.Context, r io.Reader, opts ReadOptions) (*Array, error) {
	return New(opts).LoadReader(ctx, r)
}

// ReadFrom decodes exactly one array from r, leaving any following bytes unread.
func ReadFrom(r io.Reader, opts ReadOptions) (*Array, error) {
	return serialization.ReadFrom(r, opts)
}

// Inspect reads the header of one array from r and hashes the rest of r as its payload.
func Inspect(r io.Reader, level ValidationLevel) (*Summary, error) {
	return serialization.Inspect(r, level)
}

// Dump encodes values and writes the .npy bytes to w.
func Dump(w io.Writer, values any, opts WriteOptions) (int64, error) {
	return serialization.WriteTo(w, values, opts)
}

// WriteFile encodes values into a new .npy file at path.
func WriteFile(path string, values any, opts WriteOptions) error {
	return serialization.WriteFile(path, values, opts)
}

// OpenMmap memory-maps the .npy file at path. Call Close when done.
func OpenMmap(path string) (*MmapReader, error) {
	return serialization.NewMmapReader(path)
}

// PayloadChecksum returns the SHA-256 checksum of the payload of a .npy buffer.
func PayloadChecksum(buf []byte) ([32]byte, error) {
	return serialization.PayloadChecksum(buf)
}

// ReadHeader locates the header inside buf.
func ReadHeader(buf []byte) (HeaderInfo, error) {
	return serialization.ReadHeader(buf)
}

// Float16ToFloat32 widens IEEE 754 half precision bits to float32.
func Float16ToFloat32(h uint16) float32 {
	return tensor.Float16ToFloat32(h)
}

// Float32ToFloat16 narrows f to half precision bits, rounding to nearest even.
func Float32ToFloat16(f float32) uint16 {
	return tensor.Float32ToFloat16(f)
}

// IsURL reports whether src is loaded over HTTP rather than from disk.
func IsURL(src string) bool {
	return source.IsURL(src)
}
