package serialization

import (
	"errors"
	"fmt"
	"os"

	"github.com/born-ml/npy/internal/tensor"
)

// ErrReaderClosed is returned by MmapReader methods after Close.
var ErrReaderClosed = errors.New("reader is closed")

// MmapReader provides memory-mapped access to .npy files.
// Only the header is parsed when the reader is opened; the payload is paged in by the OS
// on demand.
type MmapReader struct {
	file   *os.File
	data   []byte // mmap'd region (read-only)
	info   HeaderInfo
	meta   Metadata
	closed bool
}

// NewMmapReader opens path read-only, maps it into memory and parses its header.
//
// Important: Always call Close() when done to unmap the file (use defer).
func NewMmapReader(path string) (*MmapReader, error) {
	//nolint:gosec // G304: File path comes from user input, which is expected for array loading
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}

	stat, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}
	if stat.Size() < prefixSizeV1 {
		_ = file.Close()
		return nil, formatErrorf("file too small: %d bytes (minimum %d bytes required)", stat.Size(), prefixSizeV1)
	}

	// Memory map the file (platform-specific implementation)
	data, err := mmapFile(file, stat.Size())
	if err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("mmap failed: %w", err)
	}

	r := &MmapReader{
		file: file,
		data: data,
	}

	if err := r.parseHeader(); err != nil {
		_ = r.Close()
		return nil, fmt.Errorf("failed to parse header: %w", err)
	}

	return r, nil
}

func (r *MmapReader) parseHeader() error {
	info, err := ReadHeader(r.data)
	if err != nil {
		return err
	}
	if err := ValidateHeaderInfo(info, ValidationStrict); err != nil {
		return err
	}

	meta, err := ParseHeaderDict(headerText(r.data[info.Offset:info.DataOffset()], info.Major))
	if err != nil {
		return err
	}

	r.info = info
	r.meta = meta
	return nil
}

// Info returns the location and version of the header.
func (r *MmapReader) Info() HeaderInfo {
	return r.info
}

// Metadata returns the parsed header dictionary.
func (r *MmapReader) Metadata() Metadata {
	return r.meta
}

// Payload returns a zero-copy slice of the payload bytes.
// The returned slice is valid only while the reader is open.
// WARNING: The data is read-only - writing to it will cause undefined behavior.
func (r *MmapReader) Payload() ([]byte, error) {
	if r.closed {
		return nil, ErrReaderClosed
	}
	return r.data[r.info.DataOffset():], nil
}

// Array decodes the payload. With opts.ZeroCopy the array data may point into the
// mapping and must not be used after Close; otherwise it is an independent copy.
func (r *MmapReader) Array(opts ReadOptions) (*tensor.Array, error) {
	payload, err := r.Payload()
	if err != nil {
		return nil, err
	}
	return decodeArray(r.meta, payload, opts)
}

// Checksum returns the SHA-256 checksum of the payload.
func (r *MmapReader) Checksum() ([32]byte, error) {
	payload, err := r.Payload()
	if err != nil {
		return [32]byte{}, err
	}
	return ComputeChecksum(payload), nil
}

// Close unmaps and closes the file.
func (r *MmapReader) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true

	var err error
	if r.data != nil {
		err = munmapFile(r.data)
		r.data = nil
	}

	if closeErr := r.file.Close(); closeErr != nil && err == nil {
		err = closeErr
	}

	return err
}
