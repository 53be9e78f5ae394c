package star

import (
	"strings"
)

type itemType byte

const (
	itemError itemType = iota
	itemEOF
	itemDataBlock // data_NAME
	itemSaveStart // save_NAME
	itemSaveEnd   // save_
	itemLoop      // loop_
	itemStop      // stop_
	itemTag       // _cat.tag
	itemValue     // anything else
)

func (t itemType) String() string {
	switch t {
	case itemError:
		return "error"
	case itemEOF:
		return "end of file"
	case itemDataBlock:
		return "data block"
	case itemSaveStart:
		return "save frame start"
	case itemSaveEnd:
		return "save frame end"
	case itemLoop:
		return "loop_"
	case itemStop:
		return "stop_"
	case itemTag:
		return "tag"
	}
	return "value"
}

type item struct {
	typ    itemType
	val    string
	line   int
	quoted bool // value came from quotes or a text field
}

const eof = 0

// lexer walks the input and builds a slice of items. It is driven
// by state functions, each returning the next state.
type lexer struct {
	input string
	start int
	pos   int
	line  int
	items []item
	err   *ParseError
}

type stateFn func(*lexer) stateFn

func lex(input string) ([]item, error) {
	lx := &lexer{input: input, line: 1}
	for state := lexTop; state != nil; {
		state = state(lx)
	}
	if lx.err != nil {
		return nil, *lx.err
	}
	return lx.items, nil
}

func (lx *lexer) emit(t itemType, val string, quoted bool) {
	lx.items = append(lx.items, item{typ: t, val: val, line: lx.line, quoted: quoted})
}

func (lx *lexer) errf(desc string) stateFn {
	lx.err = &ParseError{Line: lx.line, Near: lx.near(), Desc: desc}
	return nil
}

// near returns the rest of the current line, for error messages.
func (lx *lexer) near() string {
	s := lx.input[lx.start:]
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return s
}

func (lx *lexer) peek() byte {
	if lx.pos >= len(lx.input) {
		return eof
	}
	return lx.input[lx.pos]
}

// atLineStart says if pos is in column one.
func (lx *lexer) atLineStart() bool {
	return lx.pos == 0 || lx.input[lx.pos-1] == '\n'
}

func isWhite(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\v' || c == '\f'
}

// lexTop skips white space and comments and decides what comes next.
func lexTop(lx *lexer) stateFn {
	for {
		c := lx.peek()
		switch {
		case c == eof:
			lx.emit(itemEOF, "", false)
			return nil
		case c == '\n':
			lx.line++
			lx.pos++
		case isWhite(c):
			lx.pos++
		case c == '#':
			return lexComment
		default:
			lx.start = lx.pos
			return lexToken
		}
	}
}

// lexComment eats everything up to the end of the line.
func lexComment(lx *lexer) stateFn {
	for c := lx.peek(); c != eof && c != '\n'; c = lx.peek() {
		lx.pos++
	}
	return lexTop
}

// lexToken looks at the first character of a token.
func lexToken(lx *lexer) stateFn {
	switch c := lx.peek(); {
	case c == ';' && lx.atLineStart():
		return lexTextField
	case c == '\'' || c == '"':
		return lexQuoted
	case c == '_':
		return lexTag
	}
	return lexBare
}

// lexTag reads a tag up to the next white space.
func lexTag(lx *lexer) stateFn {
	for c := lx.peek(); c != eof && !isWhite(c); c = lx.peek() {
		lx.pos++
	}
	lx.emit(itemTag, lx.input[lx.start:lx.pos], false)
	return lexTop
}

// lexBare reads an unquoted token and sorts out the reserved words.
func lexBare(lx *lexer) stateFn {
	for c := lx.peek(); c != eof && !isWhite(c); c = lx.peek() {
		lx.pos++
	}
	tok := lx.input[lx.start:lx.pos]
	low := strings.ToLower(tok)
	switch {
	case strings.HasPrefix(low, "data_"):
		lx.emit(itemDataBlock, tok[5:], false)
	case low == "save_":
		lx.emit(itemSaveEnd, "", false)
	case strings.HasPrefix(low, "save_"):
		lx.emit(itemSaveStart, tok[5:], false)
	case low == "loop_":
		lx.emit(itemLoop, "", false)
	case low == "stop_":
		lx.emit(itemStop, "", false)
	case low == "global_":
		return lx.errf("global_ blocks are not supported")
	default:
		lx.emit(itemValue, tok, false)
	}
	return lexTop
}

// lexQuoted reads a value delimited by ' or ". The closing quote
// only counts if white space or the end of file follows.
func lexQuoted(lx *lexer) stateFn {
	q := lx.peek()
	lx.pos++
	for {
		c := lx.peek()
		switch {
		case c == eof || c == '\n':
			return lx.errf("unterminated quoted value")
		case c == q:
			lx.pos++
			if n := lx.peek(); n == eof || isWhite(n) {
				lx.emit(itemValue, lx.input[lx.start+1:lx.pos-1], true)
				return lexTop
			}
		default:
			lx.pos++
		}
	}
}

// lexTextField reads a ;-delimited text field. The value is everything
// between the opening ";" and a line starting with ";". The newline
// in front of the closing ";" is not part of the value.
func lexTextField(lx *lexer) stateFn {
	startLine := lx.line
	lx.pos++
	body := lx.pos
	for {
		i := strings.Index(lx.input[lx.pos:], "\n;")
		if i < 0 {
			lx.line = startLine
			return lx.errf("unterminated text field")
		}
		end := lx.pos + i
		lx.line += strings.Count(lx.input[lx.pos:end+1], "\n")
		lx.pos = end + 2
		val := lx.input[body:end]
		val = strings.TrimPrefix(val, "\r")
		val = strings.TrimPrefix(val, "\n")
		val = strings.TrimSuffix(val, "\r")
		lx.items = append(lx.items, item{typ: itemValue, val: val, line: startLine, quoted: true})
		return lexTop
	}
}
