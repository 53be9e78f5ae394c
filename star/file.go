package star

import (
	"bytes"
	"compress/gzip"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/edsrzf/mmap-go"
)

// ErrEmptyFile is returned for a file with nothing in it.
var ErrEmptyFile = errors.New("zero length file")

var gzipMagic = []byte{0x1f, 0x8b}

// ReadFile maps a file into memory and parses it. Files that start with
// the gzip magic number are decompressed on the way. Deposited NMR-STAR
// files can be tens of megabytes, so we avoid copying them into a
// buffer before lexing.
func ReadFile(fname string) (*Document, error) {
	fp, err := os.Open(fname)
	if err != nil {
		return nil, err
	}
	defer fp.Close()
	fi, err := fp.Stat()
	if err != nil {
		return nil, err
	}
	if fi.Size() == 0 {
		return nil, fmt.Errorf("%s: %w", fname, ErrEmptyFile)
	}
	mm, err := mmap.Map(fp, mmap.RDONLY, 0)
	if err != nil {
		return nil, fmt.Errorf("mapping %s: %w", fname, err)
	}
	defer mm.Unmap()

	doc, err := parseMaybeGzip(mm)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(fname), err)
	}
	return doc, nil
}

// parseMaybeGzip decides if the bytes are compressed. The string built
// for the lexer is a copy, so it is safe to unmap afterwards.
func parseMaybeGzip(b []byte) (*Document, error) {
	if !bytes.HasPrefix(b, gzipMagic) {
		return Parse(string(b))
	}
	zr, err := gzip.NewReader(bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	defer zr.Close()
	return Read(zr)
}

// WriteFile writes a document to a file, creating or truncating it.
func WriteFile(fname string, doc *Document, opts WriteOptions) error {
	fp, err := os.Create(fname)
	if err != nil {
		return err
	}
	if err := doc.Write(fp, opts); err != nil {
		fp.Close()
		return err
	}
	return fp.Close()
}
