// brokenio is a wrapper around an io.Reader which goes wrong on
// purpose. It lets us check that parsers report a failed read instead
// of quietly returning a short answer.
// Typical use: wrap the reader of a hit table or fasta file so it fails
// after some number of bytes, or so it looks like a zero length file.

package brokenio

import (
	"errors"
	"fmt"
	"io"
)

// ErrBroken is returned once the reader decides to fail.
var ErrBroken = errors.New("brokenio: simulated read failure")

// BrknRdr passes data through from the wrapped reader until failAfter
// bytes have been delivered, then returns ErrBroken.
type BrknRdr struct {
	rdrOrig   io.Reader
	failAfter int  // negative means never fail
	zeroFile  bool // return EOF on the first read
	nCalled   int
	nByte     int
}

// NewReader returns a reader which fails after failAfter bytes. With
// failAfter < 0 it never fails and just counts.
func NewReader(rIn io.Reader, failAfter int) *BrknRdr {
	return &BrknRdr{rdrOrig: rIn, failAfter: failAfter}
}

// NewZeroReader returns a reader which looks like an empty file.
func NewZeroReader(rIn io.Reader) *BrknRdr {
	return &BrknRdr{rdrOrig: rIn, failAfter: -1, zeroFile: true}
}

// Read wraps the original reader, never handing out more than the
// allowance before failure.
func (r *BrknRdr) Read(p []byte) (int, error) {
	r.nCalled++
	if r.zeroFile {
		return 0, io.EOF
	}
	if len(p) == 0 {
		return 0, nil
	}
	if r.failAfter >= 0 {
		left := r.failAfter - r.nByte
		if left <= 0 {
			return 0, ErrBroken
		}
		if len(p) > left {
			p = p[:left]
		}
	}
	n, err := r.rdrOrig.Read(p)
	r.nByte += n
	return n, err
}

// String is for debugging
func (r *BrknRdr) String() string {
	return fmt.Sprintf("brokenio: %d calls %d bytes", r.nCalled, r.nByte)
}

// NBytes is the amount of data which went through
func (r *BrknRdr) NBytes() int { return r.nByte }
