package serialization

import (
	"fmt"
	"math"

	"github.com/born-ml/npy/internal/tensor"
)

// ValidationLevel controls the strictness of validation.
type ValidationLevel int

const (
	// ValidationStrict performs all validation checks (default, recommended for untrusted input).
	ValidationStrict ValidationLevel = iota
	// ValidationNormal allows trailing bytes after the payload.
	ValidationNormal
	// ValidationNone skips the header size limit as well. Only checks needed to decode safely remain.
	ValidationNone
)

// ValidateHeaderInfo checks the header length against MaxHeaderSize.
func ValidateHeaderInfo(info HeaderInfo, level ValidationLevel) error {
	if level == ValidationNone {
		return nil
	}
	if info.Length > MaxHeaderSize {
		return fmt.Errorf("%w: %d bytes, max %d", ErrHeaderTooLarge, info.Length, MaxHeaderSize)
	}
	return nil
}

// PayloadSize returns the number of payload bytes the metadata declares.
func PayloadSize(meta Metadata, descr tensor.Descr) (int, error) {
	count, ok := meta.Shape.CheckedNumElements()
	size := descr.Type.Size()
	if !ok || (count > 0 && size > math.MaxInt/count) {
		return 0, &MalformedHeaderError{Field: "shape", Header: meta.Shape.String()}
	}
	return count * size, nil
}

// ValidatePayload checks that payloadLen bytes hold exactly the elements the metadata
// declares and returns the element count. Trailing bytes are rejected in strict mode only.
func ValidatePayload(meta Metadata, descr tensor.Descr, payloadLen int, level ValidationLevel) (int, error) {
	count, ok := meta.Shape.CheckedNumElements()
	if !ok {
		return 0, &MalformedHeaderError{Field: "shape", Header: meta.Shape.String()}
	}

	size := descr.Type.Size()
	if count > 0 && size > payloadLen/count {
		return 0, formatErrorf("truncated payload: need %d elements of %d bytes, got %d bytes", count, size, payloadLen)
	}

	need := count * size
	if level == ValidationStrict && payloadLen != need {
		return 0, formatErrorf("payload size mismatch: need %d bytes, got %d bytes", need, payloadLen)
	}

	return count, nil
}
