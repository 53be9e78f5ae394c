package schema

import (
	"strconv"

	"github.com/andrew-torda/nefstar/star"
)

// CellKind says what a Cell holds.
type CellKind byte

const (
	Null CellKind = iota
	String
	Integer
	Real
	Boolean
)

// Cell is one coerced value. Raw keeps the text the value came from so
// that an untouched number is written back exactly as it was read.
type Cell struct {
	Kind CellKind
	Raw  string
	S    string
	I    int
	F    float64
	B    bool
}

// NullCell is the empty value.
var NullCell = Cell{}

func StrCell(s string) Cell    { return Cell{Kind: String, S: s, Raw: s} }
func IntCell(i int) Cell       { return Cell{Kind: Integer, I: i} }
func FloatCell(f float64) Cell { return Cell{Kind: Real, F: f} }
func BoolCell(b bool) Cell     { return Cell{Kind: Boolean, B: b} }

// IsNull is true for the empty value.
func (c Cell) IsNull() bool { return c.Kind == Null }

// Text returns the value as it should be written in dialect d.
// Null comes back as ".".
func (c Cell) Text(d Dialect) string {
	switch c.Kind {
	case Null:
		return star.Omitted
	case String:
		return c.S
	case Integer:
		if c.Raw != "" {
			return c.Raw
		}
		return strconv.Itoa(c.I)
	case Real:
		if c.Raw != "" {
			return c.Raw
		}
		return strconv.FormatFloat(c.F, 'f', -1, 64)
	}
	return BoolToken(d, c.B)
}

// Float returns the value as a float for Integer and Real cells.
func (c Cell) Float() (float64, bool) {
	switch c.Kind {
	case Integer:
		return float64(c.I), true
	case Real:
		return c.F, true
	}
	return 0, false
}

// Equal compares two cells by meaning, not by how they were written.
func (c Cell) Equal(o Cell) bool {
	if c.Kind != o.Kind {
		a, ok1 := c.Float()
		b, ok2 := o.Float()
		return ok1 && ok2 && a == b
	}
	switch c.Kind {
	case String:
		return c.S == o.S
	case Integer:
		return c.I == o.I
	case Real:
		return c.F == o.F
	case Boolean:
		return c.B == o.B
	}
	return true
}

// Key returns a string usable in map keys. Numbers are normalised so
// that "1" and "01" collide.
func (c Cell) Key() string {
	switch c.Kind {
	case Null:
		return ""
	case String:
		return c.S
	case Integer:
		return strconv.Itoa(c.I)
	case Real:
		return strconv.FormatFloat(c.F, 'g', -1, 64)
	}
	return strconv.FormatBool(c.B)
}

// Row is a coerced loop row keyed by tag name.
type Row map[string]Cell

// Get returns the cell for a tag, Null if absent.
func (r Row) Get(tag string) Cell { return r[tag] }

// Str returns the string form of a cell, "" for null.
func (r Row) Str(tag string) string {
	c := r[tag]
	if c.IsNull() {
		return ""
	}
	return c.Text(NEF)
}
