package serialization

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"unsafe"

	"github.com/born-ml/npy/internal/tensor"
)

// createTestFile writes values as a .npy file for testing.
func createTestFile(t *testing.T, path string, values any, opts WriteOptions) {
	t.Helper()

	if err := WriteFile(path, values, opts); err != nil {
		t.Fatalf("Failed to write array: %v", err)
	}
}

func TestMmapReaderBasic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.npy")
	createTestFile(t, path, []float32{1, 2, 3, 4, 5, 6}, WriteOptions{Shape: tensor.Shape{2, 3}})

	reader, err := NewMmapReader(path)
	if err != nil {
		t.Fatalf("Failed to create mmap reader: %v", err)
	}
	defer reader.Close()

	meta := reader.Metadata()
	if !meta.Shape.Equal(tensor.Shape{2, 3}) {
		t.Errorf("Shape = %v, want (2, 3)", meta.Shape)
	}
	if meta.FortranOrder {
		t.Errorf("FortranOrder = true, want false")
	}

	info := reader.Info()
	if info.Major != VersionV1 {
		t.Errorf("Major = %d, want %d", info.Major, VersionV1)
	}
	if info.DataOffset()%HeaderAlignment != 0 {
		t.Errorf("DataOffset %d is not aligned to %d", info.DataOffset(), HeaderAlignment)
	}

	arr, err := reader.Array(DefaultReadOptions())
	if err != nil {
		t.Fatalf("Failed to decode array: %v", err)
	}
	want := []float32{1, 2, 3, 4, 5, 6}
	if !reflect.DeepEqual(arr.Data, want) {
		t.Errorf("Data = %v, want %v", arr.Data, want)
	}
}

func TestMmapReaderZeroCopy(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.npy")
	createTestFile(t, path, []float64{1, 2, 3, 4}, WriteOptions{})

	reader, err := NewMmapReader(path)
	if err != nil {
		t.Fatalf("Failed to create mmap reader: %v", err)
	}
	defer reader.Close()

	mmapStart := uintptr(unsafe.Pointer(&reader.data[0]))
	mmapEnd := mmapStart + uintptr(len(reader.data))

	opts := DefaultReadOptions()
	opts.ZeroCopy = true
	view, err := reader.Array(opts)
	if err != nil {
		t.Fatalf("Failed to decode array: %v", err)
	}
	viewData := view.Data.([]float64)
	viewStart := uintptr(unsafe.Pointer(&viewData[0]))
	if viewStart < mmapStart || viewStart >= mmapEnd {
		t.Errorf("zero-copy data outside mmap region:\nMmap: [%x, %x)\nData: %x", mmapStart, mmapEnd, viewStart)
	}

	copied, err := reader.Array(DefaultReadOptions())
	if err != nil {
		t.Fatalf("Failed to decode array: %v", err)
	}
	copiedData := copied.Data.([]float64)
	copiedStart := uintptr(unsafe.Pointer(&copiedData[0]))
	if copiedStart >= mmapStart && copiedStart < mmapEnd {
		t.Errorf("copied data inside mmap region (should be a copy)")
	}

	if !reflect.DeepEqual(viewData, copiedData) {
		t.Errorf("Copied data doesn't match original")
	}
}

func TestMmapReaderNotFound(t *testing.T) {
	_, err := NewMmapReader(filepath.Join(t.TempDir(), "missing.npy"))
	if err == nil {
		t.Fatal("Expected error for missing file")
	}
}

func TestMmapReaderClosed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.npy")
	createTestFile(t, path, []uint8{1}, WriteOptions{})

	reader, err := NewMmapReader(path)
	if err != nil {
		t.Fatalf("Failed to create mmap reader: %v", err)
	}
	if err := reader.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	if _, err := reader.Payload(); err != ErrReaderClosed {
		t.Errorf("Payload after Close: err = %v, want %v", err, ErrReaderClosed)
	}
	if _, err := reader.Array(DefaultReadOptions()); err != ErrReaderClosed {
		t.Errorf("Array after Close: err = %v, want %v", err, ErrReaderClosed)
	}
	if _, err := reader.Checksum(); err != ErrReaderClosed {
		t.Errorf("Checksum after Close: err = %v, want %v", err, ErrReaderClosed)
	}

	// Second Close is a no-op.
	if err := reader.Close(); err != nil {
		t.Errorf("Second Close failed: %v", err)
	}
}

func TestMmapReaderInvalidFile(t *testing.T) {
	tests := []struct {
		name    string
		content []byte
	}{
		{"too_small", []byte("tiny")},
		{"bad_magic", []byte("NOT A NUMPY FILE AT ALL")},
		{"bad_header", rawNpy(1, "{'shape': (1,)}", []byte{0})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "invalid.npy")
			if err := os.WriteFile(path, tt.content, 0o600); err != nil {
				t.Fatalf("Failed to write file: %v", err)
			}

			reader, err := NewMmapReader(path)
			if err == nil {
				reader.Close()
				t.Fatal("Expected error for invalid file")
			}
		})
	}
}

func TestMmapReaderChecksum(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.npy")
	createTestFile(t, path, []int16{-1, 2, -3}, WriteOptions{})

	buf, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file: %v", err)
	}
	want, err := PayloadChecksum(buf)
	if err != nil {
		t.Fatalf("PayloadChecksum failed: %v", err)
	}

	reader, err := NewMmapReader(path)
	if err != nil {
		t.Fatalf("Failed to create mmap reader: %v", err)
	}
	defer reader.Close()

	got, err := reader.Checksum()
	if err != nil {
		t.Fatalf("Checksum failed: %v", err)
	}
	if got != want {
		t.Errorf("Checksum = %x, want %x", got, want)
	}
}

func BenchmarkMmapVsRegularSmall(b *testing.B) {
	benchmarkMmapVsRegular(b, 1000)
}

func BenchmarkMmapVsRegularLarge(b *testing.B) {
	benchmarkMmapVsRegular(b, 1_000_000)
}

func benchmarkMmapVsRegular(b *testing.B, numElements int) {
	path := filepath.Join(b.TempDir(), "bench.npy")
	if err := WriteFile(path, make([]float32, numElements), WriteOptions{}); err != nil {
		b.Fatalf("Failed to write array: %v", err)
	}

	b.Run("Regular", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			if _, err := ReadFile(path, DefaultReadOptions()); err != nil {
				b.Fatalf("Failed to read array: %v", err)
			}
		}
	})

	b.Run("MmapZeroCopy", func(b *testing.B) {
		opts := DefaultReadOptions()
		opts.ZeroCopy = true
		for i := 0; i < b.N; i++ {
			reader, err := NewMmapReader(path)
			if err != nil {
				b.Fatalf("Failed to create reader: %v", err)
			}
			if _, err := reader.Array(opts); err != nil {
				b.Fatalf("Failed to decode array: %v", err)
			}
			reader.Close()
		}
	})
}
