package serialization

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/born-ml/npy/internal/tensor"
)

// ReadOptions configures decoding.
type ReadOptions struct {
	ConvertFloat16  bool            // Widen f2 payloads to []float32 instead of raw []uint16
	ZeroCopy        bool            // Alias the source buffer where byte order and alignment allow
	ValidationLevel ValidationLevel // Validation strictness level
}

// DefaultReadOptions returns options with float16 widening and strict validation.
func DefaultReadOptions() ReadOptions {
	return ReadOptions{
		ConvertFloat16:  true,
		ValidationLevel: ValidationStrict,
	}
}

// Parse decodes a complete .npy buffer with default options.
func Parse(buf []byte) (*tensor.Array, error) {
	return ParseWithOptions(buf, DefaultReadOptions())
}

// ParseWithOptions decodes a complete .npy buffer.
//
// buf is never modified. Unless opts.ZeroCopy is set the returned array owns its data.
func ParseWithOptions(buf []byte, opts ReadOptions) (*tensor.Array, error) {
	info, err := ReadHeader(buf)
	if err != nil {
		return nil, err
	}
	if err := ValidateHeaderInfo(info, opts.ValidationLevel); err != nil {
		return nil, err
	}

	meta, err := ParseHeaderDict(headerText(buf[info.Offset:info.DataOffset()], info.Major))
	if err != nil {
		return nil, err
	}

	return decodeArray(meta, buf[info.DataOffset():], opts)
}

// decodeArray resolves the descriptor and decodes payload according to meta.
func decodeArray(meta Metadata, payload []byte, opts ReadOptions) (*tensor.Array, error) {
	descr, err := tensor.ParseDescr(meta.Descr)
	if err != nil {
		return nil, err
	}

	count, err := ValidatePayload(meta, descr, len(payload), opts.ValidationLevel)
	if err != nil {
		return nil, err
	}

	data, err := decodePayload(descr, count, payload, opts)
	if err != nil {
		return nil, err
	}

	return &tensor.Array{
		Descr:        descr,
		Data:         data,
		Shape:        meta.Shape,
		FortranOrder: meta.FortranOrder,
	}, nil
}

// ReadHeaderFrom reads the prefix and header dictionary of one array from r,
// leaving r positioned at the first payload byte.
func ReadHeaderFrom(r io.Reader) (HeaderInfo, Metadata, error) {
	prefix := make([]byte, prefixSizeV2)
	if _, err := io.ReadFull(r, prefix[:prefixSizeV1]); err != nil {
		return HeaderInfo{}, Metadata{}, truncated("prefix", err)
	}
	if string(prefix[:MagicSize]) != MagicString {
		return HeaderInfo{}, Metadata{}, formatErrorf("invalid magic bytes %q", prefix[:MagicSize])
	}

	var info HeaderInfo
	info.Major, info.Minor = prefix[6], prefix[7]
	switch info.Major {
	case VersionV1:
		info.Offset = prefixSizeV1
		info.Length = int(binary.LittleEndian.Uint16(prefix[8:10]))
	case VersionV2, VersionV3:
		if _, err := io.ReadFull(r, prefix[prefixSizeV1:]); err != nil {
			return HeaderInfo{}, Metadata{}, truncated("prefix", err)
		}
		info.Offset = prefixSizeV2
		length := binary.LittleEndian.Uint32(prefix[8:12])
		// The length field is untrusted here, so the size limit always applies.
		if length > MaxHeaderSize {
			return HeaderInfo{}, Metadata{}, fmt.Errorf("%w: %d bytes, max %d", ErrHeaderTooLarge, length, MaxHeaderSize)
		}
		info.Length = int(length)
	default:
		return HeaderInfo{}, Metadata{}, formatErrorf("unsupported format version %d.%d", info.Major, info.Minor)
	}

	raw := make([]byte, info.Length)
	if _, err := io.ReadFull(r, raw); err != nil {
		return HeaderInfo{}, Metadata{}, truncated("header", err)
	}

	meta, err := ParseHeaderDict(headerText(raw, info.Major))
	if err != nil {
		return HeaderInfo{}, Metadata{}, err
	}
	return info, meta, nil
}

// ReadFrom decodes one array from r, consuming exactly the header and payload bytes.
// This is useful for reading from network connections or concatenated streams.
//
// The payload buffer grows with the bytes actually received, so a header that
// declares more data than the stream holds fails as truncated without allocating it.
func ReadFrom(r io.Reader, opts ReadOptions) (*tensor.Array, error) {
	_, meta, err := ReadHeaderFrom(r)
	if err != nil {
		return nil, err
	}

	descr, err := tensor.ParseDescr(meta.Descr)
	if err != nil {
		return nil, err
	}
	need, err := PayloadSize(meta, descr)
	if err != nil {
		return nil, err
	}

	var payload bytes.Buffer
	if _, err := io.CopyN(&payload, r, int64(need)); err != nil {
		return nil, truncated("payload", err)
	}

	return decodeArray(meta, payload.Bytes(), opts)
}

// Summary describes one array without decoding its payload.
type Summary struct {
	Info         HeaderInfo
	Metadata     Metadata
	Descr        tensor.Descr
	Count        int      // Elements declared by the shape
	PayloadBytes int64    // Bytes following the header
	Checksum     [32]byte // SHA-256 of those bytes
}

// Inspect reads the header from r and hashes the remaining bytes as the payload.
// The payload is streamed, never held in memory, and checked against the header
// like a decode at the given validation level.
func Inspect(r io.Reader, level ValidationLevel) (*Summary, error) {
	info, meta, err := ReadHeaderFrom(r)
	if err != nil {
		return nil, err
	}
	descr, err := tensor.ParseDescr(meta.Descr)
	if err != nil {
		return nil, err
	}

	sum, n, err := ComputeChecksumReader(r)
	if err != nil {
		return nil, truncated("payload", err)
	}
	if n > math.MaxInt {
		return nil, formatErrorf("payload of %d bytes too large", n)
	}
	count, err := ValidatePayload(meta, descr, int(n), level)
	if err != nil {
		return nil, err
	}

	return &Summary{
		Info:         info,
		Metadata:     meta,
		Descr:        descr,
		Count:        count,
		PayloadBytes: n,
		Checksum:     sum,
	}, nil
}

// ReadFile reads and decodes the .npy file at path.
func ReadFile(path string, opts ReadOptions) (*tensor.Array, error) {
	//nolint:gosec // G304: File path comes from user input, which is expected for array loading
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	// buf is private to this call, so aliasing it is safe.
	return ParseWithOptions(buf, opts)
}

func truncated(section string, err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return formatErrorf("truncated %s", section)
	}
	return fmt.Errorf("failed to read %s: %w", section, err)
}
