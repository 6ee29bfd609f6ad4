package serialization

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestComputeChecksum verifies SHA-256 checksum computation.
func TestComputeChecksum(t *testing.T) {
	data := []byte("test data")
	assert.Equal(t, ComputeChecksum(data), ComputeChecksum(data))
	assert.NotEqual(t, ComputeChecksum(data), ComputeChecksum([]byte("different data")))
}

// TestComputeChecksumReader verifies checksum computation from reader.
func TestComputeChecksumReader(t *testing.T) {
	data := []byte("test data for reader")

	checksum, n, err := ComputeChecksumReader(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, ComputeChecksum(data), checksum)
	assert.Equal(t, int64(len(data)), n)
}

// TestPayloadChecksum verifies the checksum ignores the header.
func TestPayloadChecksum(t *testing.T) {
	le, err := Format([]int32{1, 2, 3}, WriteOptions{})
	require.NoError(t, err)
	fortran, err := Format([]int32{1, 2, 3}, WriteOptions{FortranOrder: true})
	require.NoError(t, err)

	a, err := PayloadChecksum(le)
	require.NoError(t, err)
	b, err := PayloadChecksum(fortran)
	require.NoError(t, err)
	assert.Equal(t, a, b)

	_, err = PayloadChecksum([]byte("nope"))
	assert.ErrorIs(t, err, ErrFormat)
}
