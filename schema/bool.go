package schema

import (
	"strings"

	"github.com/andrew-torda/nefstar/star"
)

// Dialect is one of the two file formats.
type Dialect byte

const (
	NEF Dialect = iota
	STAR
)

func (d Dialect) String() string {
	if d == NEF {
		return "nef"
	}
	return "nmr-star"
}

// Other returns the dialect we translate into.
func (d Dialect) Other() Dialect {
	if d == NEF {
		return STAR
	}
	return NEF
}

var truthy = map[string]bool{
	"true": true, "t": true, "yes": true, "y": true, "1": true,
}

var falsy = map[string]bool{
	"false": true, "f": true, "no": true, "n": true, "0": true,
}

// ParseBool accepts any of the words either dialect, or a careless
// user, might have used. ok is false if the word is not recognised.
func ParseBool(s string) (b, ok bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch {
	case truthy[s]:
		return true, true
	case falsy[s]:
		return false, true
	}
	return false, false
}

// BoolToken is the word dialect d uses for b.
func BoolToken(d Dialect, b bool) string {
	switch {
	case d == NEF && b:
		return "true"
	case d == NEF:
		return "false"
	case b:
		return "yes"
	}
	return "no"
}

// TranslateBool rewrites a boolean word into dialect d. Empty values
// and words we do not know are passed through.
func TranslateBool(d Dialect, s string) string {
	if star.IsEmpty(s) {
		return s
	}
	if b, ok := ParseBool(s); ok {
		return BoolToken(d, b)
	}
	return s
}
