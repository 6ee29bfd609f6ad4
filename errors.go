// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package npy

import (
	"github.com/born-ml/npy/internal/serialization"
	"github.com/born-ml/npy/internal/tensor"
)

// Sentinel errors. Match them with errors.Is.
var (
	ErrFormat           = serialization.ErrFormat
	ErrMalformedHeader  = serialization.ErrMalformedHeader
	ErrHeaderTooLarge   = serialization.ErrHeaderTooLarge
	ErrUnsupportedDtype = tensor.ErrUnsupportedDtype
	ErrShapeMismatch    = tensor.ErrShapeMismatch
	ErrInvalidShape     = tensor.ErrInvalidShape
)

// FormatError reports a buffer that is not a valid .npy file.
type FormatError = serialization.FormatError

// MalformedHeaderError reports a header dictionary field that cannot be parsed.
type MalformedHeaderError = serialization.MalformedHeaderError

// UnsupportedDtypeError names a descriptor or Go type with no supported element type.
type UnsupportedDtypeError = tensor.UnsupportedDtypeError

// ShapeMismatchError reports a shape that does not match the number of elements.
type ShapeMismatchError = tensor.ShapeMismatchError
