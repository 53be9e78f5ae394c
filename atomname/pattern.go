package atomname

import (
	"regexp"
	"strings"
)

// Shape is the form of a NEF atom name.
type Shape int

const (
	Literal     Shape = iota // HB2
	StereoGroup              // HDx%
	Family                   // HD1% or HD*
	Stereo                   // HBx
	Prefixed                 // %H or *H
	Aggregate                // MD1, QB, QQD, QR
)

var shapeNames = [...]string{"literal", "stereo-group", "family", "stereo", "prefixed", "aggregate"}

func (s Shape) String() string { return shapeNames[s] }

// One pattern with a named alternative per shape. The alternatives
// cannot match the same text.
var shapeRE = regexp.MustCompile(`^(?:` +
	`(?P<sg>[A-Z][A-Z0-9']*)(?P<sgxy>[xy])%` + `|` +
	`(?P<fam>[A-Z][A-Z0-9']*)(?P<famw>[%*])` + `|` +
	`(?P<st>[A-Z][A-Z0-9']*)(?P<stxy>[xy])` + `|` +
	`(?P<pw>[%*])(?P<pre>[A-Z0-9'][A-Z0-9']*)` + `|` +
	`(?P<agg>[MQ][A-Z0-9']*)` +
	`)$`)

var groupIdx = func() map[string]int {
	m := make(map[string]int)
	for i, n := range shapeRE.SubexpNames() {
		if n != "" {
			m[n] = i
		}
	}
	return m
}()

// parsed is an atom name split into its parts. Stem is the part
// without wildcard or stereo letter, Mark is the wildcard or x/y.
type parsed struct {
	Shape Shape
	Stem  string
	Mark  string
	Name  string
}

// normalize applies the spelling rules: # is %, doubled wildcards are
// single.
func normalize(name string) string {
	name = strings.TrimSpace(name)
	name = strings.ReplaceAll(name, "#", "%")
	for strings.Contains(name, "%%") {
		name = strings.ReplaceAll(name, "%%", "%")
	}
	for strings.Contains(name, "**") {
		name = strings.ReplaceAll(name, "**", "*")
	}
	return name
}

// classify assigns a shape. It does not know the residue, so an atom
// whose real name starts with M or Q comes back as an aggregate and the
// caller checks the dictionary first.
func classify(name string) parsed {
	m := shapeRE.FindStringSubmatch(name)
	if m == nil {
		return parsed{Shape: Literal, Stem: name, Name: name}
	}
	g := func(s string) string { return m[groupIdx[s]] }
	switch {
	case g("sg") != "":
		return parsed{StereoGroup, g("sg"), g("sgxy"), name}
	case g("fam") != "":
		return parsed{Family, g("fam"), g("famw"), name}
	case g("st") != "":
		return parsed{Stereo, g("st"), g("stxy"), name}
	case g("pw") != "":
		return parsed{Prefixed, g("pre"), g("pw"), name}
	case g("agg") != "":
		return parsed{Aggregate, g("agg"), "", name}
	}
	return parsed{Shape: Literal, Stem: name, Name: name}
}

// ShapeOf reports how a NEF atom name would be read.
func ShapeOf(name string) Shape { return classify(normalize(name)).Shape }
