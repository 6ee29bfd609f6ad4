package serialization

import "github.com/born-ml/npy/internal/tensor"

// Format constants.
const (
	MagicString     = "\x93NUMPY"
	MagicSize       = 6
	HeaderAlignment = 64 // Payload offset is a multiple of this on write
	MaxHeaderSize   = 1 << 20

	prefixSizeV1 = 10 // magic + version + uint16 length
	prefixSizeV2 = 12 // magic + version + uint32 length
)

// Supported major versions.
const (
	VersionV1 = 1
	VersionV2 = 2
	VersionV3 = 3 // v2 layout with a UTF-8 header
)

// HeaderInfo locates the header text inside a buffer.
type HeaderInfo struct {
	Major  uint8
	Minor  uint8
	Offset int // Offset of the header text
	Length int // Length of the header text including padding and newline
}

// DataOffset returns the offset of the first payload byte.
func (h HeaderInfo) DataOffset() int {
	return h.Offset + h.Length
}

// Metadata is the content of the header dictionary.
type Metadata struct {
	Descr        string
	FortranOrder bool
	Shape        tensor.Shape
}
