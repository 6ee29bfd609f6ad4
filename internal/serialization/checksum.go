package serialization

import (
	"crypto/sha256"
	"io"
)

// ComputeChecksum computes the SHA-256 checksum of data.
func ComputeChecksum(data []byte) [32]byte {
	return sha256.Sum256(data)
}

// ComputeChecksumReader hashes r to EOF and returns the checksum and byte count.
func ComputeChecksumReader(r io.Reader) ([32]byte, int64, error) {
	h := sha256.New()
	n, err := io.Copy(h, r)
	if err != nil {
		return [32]byte{}, n, err
	}
	var sum [32]byte
	h.Sum(sum[:0])
	return sum, n, nil
}

// PayloadChecksum computes the SHA-256 checksum of the payload of a .npy buffer,
// so that files differing only in header padding compare equal.
func PayloadChecksum(buf []byte) ([32]byte, error) {
	info, err := ReadHeader(buf)
	if err != nil {
		return [32]byte{}, err
	}
	return ComputeChecksum(buf[info.DataOffset():]), nil
}
