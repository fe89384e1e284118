// Package zio provides transparent decompression for database files.
// Compression is detected by magic bytes, not file extension, so renamed
// files keep working.
package zio

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

var (
	gzipMagic = []byte{0x1f, 0x8b}
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
	lz4Magic  = []byte{0x04, 0x22, 0x4d, 0x18}
)

type readCloser struct {
	io.Reader
	closers []io.Closer
}

func (rc *readCloser) Close() error {
	var err error
	for _, c := range rc.closers {
		if cerr := c.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}

func hasMagic(buf, magic []byte) bool {
	if len(buf) < len(magic) {
		return false
	}
	for i := range magic {
		if buf[i] != magic[i] {
			return false
		}
	}
	return true
}

// NewReader wraps r with transparent decompression for gzip, zstd and lz4
// input. Plain input passes through unchanged. Closing the returned reader
// does not close r.
func NewReader(r io.Reader) (io.ReadCloser, error) {
	br := bufio.NewReader(r)
	magic, err := br.Peek(4)
	if err != nil && err != io.EOF {
		return nil, err
	}

	switch {
	case hasMagic(magic, gzipMagic):
		zr, err := gzip.NewReader(br)
		if err != nil {
			return nil, err
		}
		return &readCloser{Reader: zr, closers: []io.Closer{zr}}, nil
	case hasMagic(magic, zstdMagic):
		dec, err := zstd.NewReader(br)
		if err != nil {
			return nil, err
		}
		return dec.IOReadCloser(), nil
	case hasMagic(magic, lz4Magic):
		return io.NopCloser(lz4.NewReader(br)), nil
	default:
		return io.NopCloser(br), nil
	}
}

// Open opens a possibly compressed file for reading. "-" reads stdin.
func Open(path string) (io.ReadCloser, error) {
	if path == "-" {
		return NewReader(os.Stdin)
	}
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	rc, err := NewReader(fh)
	if err != nil {
		_ = fh.Close()
		return nil, err
	}
	return &readCloser{Reader: rc, closers: []io.Closer{rc, fh}}, nil
}

// Create opens path for writing, compressing output when the file name ends
// in .gz, .zst or .lz4. "-" writes stdout uncompressed.
func Create(path string) (io.WriteCloser, error) {
	if path == "-" {
		return nopWriteCloser{os.Stdout}, nil
	}
	fh, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	switch {
	case strings.HasSuffix(path, ".gz"):
		zw := gzip.NewWriter(fh)
		return &writeCloser{Writer: zw, closers: []io.Closer{zw, fh}}, nil
	case strings.HasSuffix(path, ".zst"):
		zw, err := zstd.NewWriter(fh)
		if err != nil {
			_ = fh.Close()
			return nil, err
		}
		return &writeCloser{Writer: zw, closers: []io.Closer{zw, fh}}, nil
	case strings.HasSuffix(path, ".lz4"):
		zw := lz4.NewWriter(fh)
		return &writeCloser{Writer: zw, closers: []io.Closer{zw, fh}}, nil
	default:
		return fh, nil
	}
}

type writeCloser struct {
	io.Writer
	closers []io.Closer
}

func (wc *writeCloser) Close() error {
	var err error
	for _, c := range wc.closers {
		if cerr := c.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }
