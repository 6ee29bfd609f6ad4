// Package source fetches raw bytes from file paths, HTTP(S) URLs and readers.
package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

// ErrTooLarge is returned when a source exceeds the fetcher's size limit.
var ErrTooLarge = errors.New("source exceeds size limit")

// StatusError reports a non-2xx HTTP response.
type StatusError struct {
	URL    string
	Status string
	Code   int
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: %s", e.URL, e.Status)
}

// Header is a set of request headers sent with every HTTP fetch.
type Header map[string]string

// Fetcher loads sources into memory.
type Fetcher struct {
	Client  *http.Client
	Header  Header
	MaxSize int64 // Upper bound on bytes read into memory; 0 means unlimited
}

// New returns a fetcher whose HTTP client gives up after timeout. A zero timeout disables it.
func New(timeout time.Duration) *Fetcher {
	return &Fetcher{
		Client: &http.Client{Timeout: timeout},
	}
}

// IsURL reports whether src names an http or https resource.
func IsURL(src string) bool {
	return strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://")
}

// Open returns a stream for src, which is a file path or an http(s) URL.
func (f *Fetcher) Open(ctx context.Context, src string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if IsURL(src) {
		return f.get(ctx, src)
	}

	//nolint:gosec // G304: File path comes from user input, which is expected for array loading
	file, err := os.Open(src)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	return file, nil
}

// Fetch reads the whole of src into memory.
func (f *Fetcher) Fetch(ctx context.Context, src string) ([]byte, error) {
	rc, err := f.Open(ctx, src)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	return f.ReadAll(ctx, rc)
}

// ReadAll drains r, checking ctx between chunks and enforcing MaxSize.
func (f *Fetcher) ReadAll(ctx context.Context, r io.Reader) ([]byte, error) {
	limit := f.MaxSize
	if limit > 0 {
		r = io.LimitReader(r, limit+1)
	}

	var out []byte
	chunk := make([]byte, 64*1024)
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		n, err := r.Read(chunk)
		out = append(out, chunk[:n]...)
		if limit > 0 && int64(len(out)) > limit {
			return nil, fmt.Errorf("%w: more than %d bytes", ErrTooLarge, limit)
		}
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read source: %w", err)
		}
	}
}

func (f *Fetcher) get(ctx context.Context, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	for k, v := range f.Header {
		req.Header.Add(k, v)
	}

	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_ = resp.Body.Close()
		return nil, &StatusError{URL: url, Status: resp.Status, Code: resp.StatusCode}
	}
	return resp.Body, nil
}
