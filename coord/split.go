package coord

import (
	"errors"
)

const (
	squote byte = '\''
	dquote byte = '"'
)

var asciiSpace = [256]bool{
	'\t': true, '\n': true, '\v': true, '\f': true, '\r': true, ' ': true,
}

func iswhite(b byte) bool { return asciiSpace[b] }

// isquote also stores the kind of quote, so we can look for the
// matching one.
func isquote(b byte, qtype *byte) bool {
	if b == squote || b == dquote {
		*qtype = b
		return true
	}
	return false
}

type sInfo struct {
	err     error
	ret     [][]byte
	byteIn  []byte
	nxtIndx int
	qtype   byte
}

type sfn func(i int, c byte, s *sInfo) sfn

func sfnInQuote(i int, c byte, s *sInfo) sfn {
	if c == s.qtype {
		return sfnExitQuote
	}
	if c == '\n' {
		s.err = errors.New("unterminated quote line: " + string(s.byteIn))
		return sfnWhite
	}
	return sfnInQuote
}

// A quote only closes a value when white space follows it.
func sfnExitQuote(i int, c byte, s *sInfo) sfn {
	if iswhite(c) {
		s.ret = append(s.ret, s.byteIn[s.nxtIndx:i-1])
		return sfnWhite
	}
	return sfnInQuote
}

func sfnInText(i int, c byte, s *sInfo) sfn {
	if iswhite(c) {
		s.ret = append(s.ret, s.byteIn[s.nxtIndx:i])
		return sfnWhite
	}
	return sfnInText
}

func sfnWhite(i int, c byte, s *sInfo) sfn {
	switch {
	case iswhite(c):
		return sfnWhite
	case isquote(c, &s.qtype):
		s.nxtIndx = i + 1
		return sfnInQuote
	default:
		s.nxtIndx = i
		return sfnInText
	}
}

// splitCifLine breaks a line into words separated by white space, with
// quoted words kept together. retIn is reused for the result.
func splitCifLine(byteIn []byte, retIn [][]byte) ([][]byte, error) {
	if len(byteIn) < 1 {
		return nil, nil
	}
	s := sInfo{ret: retIn[:0], byteIn: byteIn}
	state := sfnWhite
	for i, c := range byteIn {
		state = state(i, c, &s)
	}
	state(len(byteIn), '\n', &s)
	if s.err != nil {
		return nil, s.err
	}
	return s.ret, nil
}
