// Package brokenio wraps an io.Reader so that reads fail at set rates.
// It is for testing readers of deposited files, which arrive truncated,
// empty or cut off by a dropped connection.
//
// When a read fails, the tail of the buffer is zeroed and an error is
// returned. When the file is made to look empty, the first read
// returns io.EOF and no error.
package brokenio

import (
	"fmt"
	"io"
	"math/rand/v2"
)

// Reader is an io.Reader with artificial failures. The rates are
// fractions, so 0.05 means a failure in 5 % of calls.
type Reader struct {
	rdr          io.Reader
	rnd          *rand.Rand
	probZeroFile float32 // chance the first read says EOF
	probFail     float32 // chance any read fails
	fracFail     float32 // how much of a failed read is lost
	nCalled      int
	nByte        int
}

// New wraps r. The seed makes the failures repeatable.
func New(r io.Reader, seed uint64) *Reader {
	return &Reader{
		rdr:      r,
		rnd:      rand.New(rand.NewPCG(seed, seed)),
		fracFail: 0.5,
	}
}

// SetProbZeroFile sets the chance that the first read returns nothing.
func (r *Reader) SetProbZeroFile(p float32) { r.probZeroFile = p }

// SetProbFail sets the chance of a read failing.
func (r *Reader) SetProbFail(p float32) { r.probFail = p }

// SetFracFail sets the fraction of a failed read that is wiped out.
func (r *Reader) SetFracFail(f float32) { r.fracFail = f }

// Counts says how often Read was called and how many bytes got through.
func (r *Reader) Counts() (calls, bytes int) { return r.nCalled, r.nByte }

// trash zeroes the last frac of p and says how much was kept.
func trash(p []byte, frac float32) (int, error) {
	nkeep := int(float32(len(p)) * (1 - frac))
	if nkeep == len(p) {
		return nkeep, nil
	}
	clear(p[nkeep:])
	return nkeep, fmt.Errorf("wiped out last %d of %d bytes", len(p)-nkeep, len(p))
}

func (r *Reader) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if r.nCalled == 0 && r.probZeroFile > 0 && r.rnd.Float32() < r.probZeroFile {
		r.nCalled++
		return 0, io.EOF
	}
	n, err := r.rdr.Read(p)
	r.nCalled++
	if r.probFail > 0 && r.fracFail > 0 && r.rnd.Float32() < r.probFail {
		m, ferr := trash(p[:n], r.fracFail)
		r.nByte += m
		if ferr != nil {
			return m, ferr
		}
		return m, err
	}
	r.nByte += n
	return n, err
}
