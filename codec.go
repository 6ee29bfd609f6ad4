// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package npy

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/born-ml/npy/internal/serialization"
	"github.com/born-ml/npy/internal/source"
)

// Codec bundles read options with a byte-source fetcher.
//
// Example:
//
//	codec := npy.New(npy.DefaultReadOptions()).WithHTTPTimeout(10 * time.Second)
//	arr, err := codec.Load(ctx, "https://example.com/weights.npy")
type Codec struct {
	opts    ReadOptions
	fetcher *source.Fetcher
}

// New returns a codec that decodes with opts.
func New(opts ReadOptions) *Codec {
	return &Codec{
		opts:    opts,
		fetcher: source.New(0),
	}
}

// WithHTTPTimeout sets the timeout of remote fetches and returns c.
func (c *Codec) WithHTTPTimeout(d time.Duration) *Codec {
	c.fetcher.Client = &http.Client{Timeout: d}
	return c
}

// WithHeader adds a request header sent with remote fetches and returns c.
func (c *Codec) WithHeader(key, value string) *Codec {
	if c.fetcher.Header == nil {
		c.fetcher.Header = source.Header{}
	}
	c.fetcher.Header[key] = value
	return c
}

// WithMaxSize bounds the number of bytes Fetch, Load and LoadReader hold in memory and returns c.
func (c *Codec) WithMaxSize(n int64) *Codec {
	c.fetcher.MaxSize = n
	return c
}

// Options returns the read options.
func (c *Codec) Options() ReadOptions {
	return c.opts
}

// Parse decodes a complete .npy buffer.
func (c *Codec) Parse(buf []byte) (*Array, error) {
	return serialization.ParseWithOptions(buf, c.opts)
}

// Fetch returns the raw bytes of src, a file path or an http(s) URL.
func (c *Codec) Fetch(ctx context.Context, src string) ([]byte, error) {
	return c.fetcher.Fetch(ctx, src)
}

// Inspect streams src, reading its header and hashing its payload without decoding it.
func (c *Codec) Inspect(ctx context.Context, src string) (*Summary, error) {
	rc, err := c.fetcher.Open(ctx, src)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	return serialization.Inspect(rc, c.opts.ValidationLevel)
}

// Load fetches src and decodes it.
func (c *Codec) Load(ctx context.Context, src string) (*Array, error) {
	buf, err := c.fetcher.Fetch(ctx, src)
	if err != nil {
		return nil, err
	}
	return c.Parse(buf)
}

// LoadReader drains r and decodes its contents.
func (c *Codec) LoadReader(ctx context.Context, r io.Reader) (*Array, error) {
	buf, err := c.fetcher.ReadAll(ctx, r)
	if err != nil {
		return nil, err
	}
	return c.Parse(buf)
}

// Dump encodes values as a complete .npy buffer.
func (c *Codec) Dump(values any, opts WriteOptions) ([]byte, error) {
	return serialization.Format(values, opts)
}
