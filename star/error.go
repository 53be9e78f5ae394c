package star

import (
	"strconv"
)

const maxNearLen = 70

// ParseError saves the line number and the start of the line that
// gave us trouble.
type ParseError struct {
	Line int    // line number, from 1
	Near string // text that provoked the error
	Desc string // what went wrong
}

func firstPart(s string) string {
	if len(s) > maxNearLen {
		return s[:maxNearLen]
	}
	return s
}

// Error puts the line number, the description and the offending text in
// one string.
func (e ParseError) Error() string {
	var msg string
	if e.Line != 0 {
		msg = "line " + strconv.Itoa(e.Line) + ": "
	}
	msg += e.Desc
	if e.Near != "" {
		msg += "\nnear: " + firstPart(e.Near)
	}
	return msg
}
