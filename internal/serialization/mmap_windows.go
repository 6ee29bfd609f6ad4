//go:build windows

package serialization

import (
	"os"
	"syscall"
	"unsafe"
)

// mmapFile maps size bytes of f read-only (Windows implementation).
func mmapFile(f *os.File, size int64) ([]byte, error) {
	handle, err := syscall.CreateFileMapping(
		syscall.Handle(f.Fd()),
		nil,
		syscall.PAGE_READONLY,
		uint32(size>>32), //nolint:gosec // G115: high half of the mapping size
		uint32(size),     //nolint:gosec // G115: low half of the mapping size
		nil,
	)
	if err != nil {
		return nil, err
	}
	// The view keeps the mapping alive after the handle is closed.
	defer func() { _ = syscall.CloseHandle(handle) }()

	addr, err := syscall.MapViewOfFile(handle, syscall.FILE_MAP_READ, 0, 0, uintptr(size))
	if err != nil {
		return nil, err
	}

	//nolint:gosec // G103: addr is a valid read-only view of exactly size bytes
	return unsafe.Slice((*byte)(unsafe.Pointer(addr)), int(size)), nil
}

// munmapFile releases a mapping created by mmapFile (Windows implementation).
func munmapFile(data []byte) error {
	//nolint:gosec // G103: data starts at the address returned by MapViewOfFile
	return syscall.UnmapViewOfFile(uintptr(unsafe.Pointer(&data[0])))
}
