package coord

import (
	"bufio"
	"io"
	"strconv"
)

const maxMsgLen = 70

// readError saves the line number and the line we were trying to read.
type readError struct {
	n      int    // line number
	inline string // the line that provoked the error
	desc   string
}

func firstPart(s string) string {
	if len(s) > maxMsgLen {
		return s[:maxMsgLen]
	}
	return s
}

// Error gives the line number, the description and the start of the
// offending line.
func (e readError) Error() string {
	var errmsg string
	if e.n != 0 {
		errmsg = "Line: " + strconv.Itoa(e.n) + " "
	}
	errmsg += e.desc
	if e.n != 0 {
		errmsg += "\nLine starting with\n" + firstPart(e.inline)
	}
	return errmsg
}

// cmmtScanner wraps bufio.Scanner. It jumps over blank lines and lines
// starting with the comment character and counts lines for error
// messages.
type cmmtScanner struct {
	*bufio.Scanner
	lErr   readError
	ctoken []byte
	n      int
	cmmt   byte
	Ok     bool
}

func newCmmtScanner(r io.Reader, cmmt byte) cmmtScanner {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	return cmmtScanner{Scanner: s, cmmt: cmmt, Ok: true}
}

// fill stores the problem for later. A second error is appended to the
// first.
func (s *cmmtScanner) fill(desc string, saveLine bool) {
	if !s.Ok {
		desc = s.lErr.desc + "\nNew error, but there was already an error from line " +
			strconv.Itoa(s.n) + ":\n" + desc + "\n"
	}
	s.Ok = false
	if saveLine {
		s.lErr.n = s.n
	}
	s.lErr.inline = string(s.cbytes())
	s.lErr.desc = desc
}

// cscan moves to the next line with something on it. It returns false
// on a read error. At EOF it returns true and cbytes() is nil.
func (s *cmmtScanner) cscan() bool {
	if !s.Ok {
		s.ctoken = nil
		return false
	}
	var b []byte
	for len(b) == 0 {
		if !s.Scan() {
			s.ctoken = nil
			if s.Err() != nil {
				s.fill(s.Err().Error(), true)
				return false
			}
			return true
		}
		s.n++
		b = s.Bytes()
		if len(b) > 0 && b[0] == s.cmmt {
			b = nil
		}
	}
	s.ctoken = b
	return true
}

func (s *cmmtScanner) cbytes() []byte { return s.ctoken }
