// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package npy reads and writes NumPy .npy array files.
//
// # Overview
//
// A .npy file stores one n-dimensional array: a magic prefix, a textual header
// describing element type, shape and layout order, and a raw payload. This package
// provides:
//   - Decoding of boolean, integer, float (including float16) and fixed-width unicode arrays
//   - Encoding of typed Go slices or plain sequences with element type inference
//   - Little- and big-endian payloads, row-major and column-major layouts
//   - Reshaping flat data into nested slices
//   - Loading from files, HTTP(S) URLs and readers
//
// # Basic Usage
//
//	buf, err := npy.Format([]float32{1, 2, 3, 4, 5, 6}, npy.WriteOptions{Shape: npy.Shape{2, 3}})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	arr, err := npy.Parse(buf)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(arr.DType(), arr.Shape) // float32 (2, 3)
//
//	nested, _ := arr.Nested() // []any{[]float32{1, 2, 3}, []float32{4, 5, 6}}
//
// # Element Types
//
// Decoded data is a flat typed slice in host byte order:
//   - b1: []bool
//   - i1, i2, i4, i8: []int8, []int16, []int32, []int64
//   - u1, u2, u4, u8: []uint8, []uint16, []uint32, []uint64
//   - f2: []float32 (widened by default) or []uint16 bit patterns
//   - f4, f8: []float32, []float64
//   - U<n>: []string
//
// Complex, datetime, object and structured types are rejected with ErrUnsupportedDtype.
//
// # Inference
//
// Plain sequences ([]int, []any, []string, ...) get the narrowest fitting element type:
// strings become unicode sized to the longest element, integers the smallest unsigned
// type when none is negative and the smallest signed type otherwise, floats float32
// unless a finite magnitude exceeds its range. Set WriteOptions.DType to override.
package npy
