// Package zwrap opens input files which may or may not be gzipped.
// Proteomes often arrive as .faa.gz, so everything which reads a
// sequence file goes through Open. Calling Close on what we return
// closes the decompressor, followed by the underlying file.

package zwrap

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"errors"
	"io"
	"os"
)

var gzMagic = []byte{0x1f, 0x8b}

// FpGzip is what we return. If zrdr is nil, the file was not compressed
// and we read from the buffered file.
type FpGzip struct {
	fp   io.Closer
	brdr *bufio.Reader
	zrdr *gzip.Reader
}

// Read makes sure we read from the decompressor if there is one.
func (fz *FpGzip) Read(p []byte) (int, error) {
	if fz.zrdr != nil {
		return fz.zrdr.Read(p)
	}
	return fz.brdr.Read(p)
}

// Close closes the decompressor, then the backing file.
func (fz *FpGzip) Close() error {
	var e1 error
	if fz.zrdr != nil {
		e1 = fz.zrdr.Close()
	}
	return errors.Join(e1, fz.fp.Close())
}

// Compressed says whether we are reading through gzip
func (fz *FpGzip) Compressed() bool { return fz.zrdr != nil }

// Wrap looks at the first two bytes of rc and, if they are the gzip
// magic number, puts a decompressor in front. Nothing is consumed,
// so it works on pipes which cannot seek.
func Wrap(rc io.ReadCloser) (*FpGzip, error) {
	fz := &FpGzip{fp: rc, brdr: bufio.NewReader(rc)}
	head, err := fz.brdr.Peek(len(gzMagic))
	if err != nil && err != io.EOF { // short files are fine
		return nil, err
	}
	if bytes.Equal(head, gzMagic) {
		if fz.zrdr, err = gzip.NewReader(fz.brdr); err != nil {
			return nil, err
		}
	}
	return fz, nil
}

// Open opens fname and wraps it. The caller must Close.
func Open(fname string) (*FpGzip, error) {
	fp, err := os.Open(fname)
	if err != nil {
		return nil, err
	}
	fz, err := Wrap(fp)
	if err != nil {
		fp.Close()
		return nil, err
	}
	return fz, nil
}

// IsGzipped opens fname just long enough to look at the magic number.
func IsGzipped(fname string) (bool, error) {
	fp, err := os.Open(fname)
	if err != nil {
		return false, err
	}
	defer fp.Close()
	var head [2]byte
	n, err := io.ReadFull(fp, head[:])
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		return false, nil
	} else if err != nil {
		return false, err
	}
	return bytes.Equal(head[:n], gzMagic), nil
}
