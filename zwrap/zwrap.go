// Package zwrap opens files that may or may not be gzipped. The reader
// it returns closes the decompressor and then the file.
package zwrap

import (
	"compress/gzip"
	"errors"
	"io"
	"os"
)

// Reader reads through a decompressor if there is one.
type Reader struct {
	fp   io.ReadCloser
	zrdr *gzip.Reader
}

// Read reads from the decompressed stream, if the source was
// compressed.
func (r *Reader) Read(p []byte) (int, error) {
	if r.zrdr != nil {
		return r.zrdr.Read(p)
	}
	return r.fp.Read(p)
}

// Compressed says if the source was gzipped.
func (r *Reader) Compressed() bool { return r.zrdr != nil }

// Close closes the decompressor and the underlying file. Both are
// closed even if the first fails.
func (r *Reader) Close() error {
	var err error
	if r.zrdr != nil {
		err = r.zrdr.Close()
	}
	return errors.Join(err, r.fp.Close())
}

// WrapMaybe looks at the start of fp and wraps it in a decompressor if
// it is gzipped. Otherwise it rewinds fp and reads it as is.
func WrapMaybe(fp io.ReadSeekCloser) (*Reader, error) {
	if zr, err := gzip.NewReader(fp); err == nil {
		return &Reader{fp: fp, zrdr: zr}, nil
	}
	if _, err := fp.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}
	return &Reader{fp: fp}, nil
}

// Open opens a file for reading, compressed or not.
func Open(fname string) (*Reader, error) {
	fp, err := os.Open(fname)
	if err != nil {
		return nil, err
	}
	r, err := WrapMaybe(fp)
	if err != nil {
		fp.Close()
		return nil, err
	}
	return r, nil
}
