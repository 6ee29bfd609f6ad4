package serialization

import (
	"fmt"
	"io"
	"os"
)

// WriteTo encodes values and writes the .npy bytes to w.
func WriteTo(w io.Writer, values any, opts WriteOptions) (int64, error) {
	buf, err := Format(values, opts)
	if err != nil {
		return 0, err
	}
	n, err := w.Write(buf)
	if err != nil {
		return int64(n), fmt.Errorf("failed to write array: %w", err)
	}
	return int64(n), nil
}

// WriteFile encodes values into a new .npy file at path.
// The file is removed again if encoding or writing fails.
func WriteFile(path string, values any, opts WriteOptions) (err error) {
	buf, err := Format(values, opts)
	if err != nil {
		return err
	}

	//nolint:gosec // G304: File path comes from user input, which is expected for array saving
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close file: %w", closeErr)
		}
		if err != nil {
			_ = os.Remove(path) // Best effort cleanup
		}
	}()

	if _, err := file.Write(buf); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}
