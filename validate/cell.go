package validate

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/andrew-torda/nefstar/schema"
	"github.com/andrew-torda/nefstar/star"
)

// badPattern matches characters that have no place in a name or a
// number and would upset a shell or our quoting.
var badPattern = regexp.MustCompile("[\"`$;|&<>\\\\\\s]")

// angles wrap with this period
const circle = 360.0

// coerce turns text into a typed cell. The message is "" on success.
func coerce(it *schema.Item, v string) (schema.Cell, string) {
	v = strings.TrimSpace(v)
	k := it.Kind
	switch {
	case k == schema.Str || k == schema.Enum:
		if it.Uppercase {
			v = strings.ToUpper(v)
		}
		return schema.StrCell(v), ""
	case k == schema.Bool:
		b, ok := schema.ParseBool(v)
		if !ok {
			return schema.NullCell, fmt.Sprintf("%q is not a boolean", v)
		}
		return schema.BoolCell(b), ""
	case k == schema.PositiveIntAsStr:
		i, err := strconv.Atoi(v)
		if err != nil && it.DefaultFrom == schema.SelfDefault {
			if d, ok := schema.LetterToDigit(v); ok {
				i, err = strconv.Atoi(d)
			}
		}
		if err != nil || i <= 0 {
			return schema.NullCell, fmt.Sprintf("%q is not a positive integer", v)
		}
		return schema.StrCell(strconv.Itoa(i)), ""
	case k.IsInt():
		i, err := strconv.Atoi(v)
		if err != nil {
			return schema.NullCell, fmt.Sprintf("%q is not an integer", v)
		}
		switch k {
		case schema.IndexInt, schema.PositiveInt, schema.PointerIndex:
			if i <= 0 {
				return schema.NullCell, fmt.Sprintf("%d is not positive", i)
			}
		}
		if it.EnforceNonZero && i == 0 {
			return schema.NullCell, "zero is not allowed"
		}
		c := schema.IntCell(i)
		c.Raw = v
		return c, ""
	case k.IsFloat():
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return schema.NullCell, fmt.Sprintf("%q is not a number", v)
		}
		if k == schema.PositiveFloat && f < 0 {
			return schema.NullCell, fmt.Sprintf("%s is negative", v)
		}
		if it.EnforceNonZero && f == 0 {
			return schema.NullCell, "zero is not allowed"
		}
		c := schema.FloatCell(f)
		c.Raw = v
		return c, ""
	}
	return schema.StrCell(v), ""
}

// problem is what bounds found. fixed means the cell was changed and
// only a warning is due.
type problem struct {
	msg   string
	fixed bool
}

// bounds applies the enumeration and range rules to a coerced cell.
func bounds(it *schema.Item, c schema.Cell) (schema.Cell, *problem) {
	switch it.Kind {
	case schema.Enum, schema.EnumInt:
		return enum(it, c)
	}
	f, ok := c.Float()
	if !ok {
		return c, nil
	}
	if it.VoidZero && f == 0 {
		return schema.NullCell, nil
	}
	if it.EnforceSign && f < 0 {
		return c, &problem{msg: fmt.Sprintf("%s must not be negative", c.Text(schema.NEF))}
	}
	if it.Range == nil || it.Range.Contains(f) {
		return c, nil
	}
	if it.CircularShift {
		g := f
		for g < it.Range.Min.Val && it.Range.Min.Set {
			g += circle
		}
		for g > it.Range.Max.Val && it.Range.Max.Set {
			g -= circle
		}
		if it.Range.Contains(g) {
			return schema.FloatCell(g), &problem{
				msg: fmt.Sprintf("%s shifted to %s", c.Text(schema.NEF), strconv.FormatFloat(g, 'f', -1, 64)), fixed: true}
		}
	}
	return c, &problem{msg: fmt.Sprintf("%s is out of range", c.Text(schema.NEF))}
}

func enum(it *schema.Item, c schema.Cell) (schema.Cell, *problem) {
	s := c.Key()
	var p *problem
	if alt, ok := it.EnumAlt[s]; ok {
		p = &problem{msg: fmt.Sprintf("%q taken as %q", s, alt), fixed: true}
		s = alt
	}
	if !it.InEnum(s) {
		for _, e := range it.Enum {
			if strings.EqualFold(e, s) {
				s = e
				break
			}
		}
	}
	if !it.InEnum(s) {
		msg := fmt.Sprintf("%q is not one of %s", s, strings.Join(it.Enum, ", "))
		if len(it.Enum) > 8 {
			msg = fmt.Sprintf("%q is not an allowed value", s)
		}
		return c, &problem{msg: msg, fixed: !it.EnforceEnum}
	}
	if it.Kind == schema.EnumInt {
		i, _ := strconv.Atoi(s)
		return schema.IntCell(i), p
	}
	return schema.StrCell(s), p
}

// derive builds a default from the value of another tag in the row.
// An element comes from the first letters of an atom name, an isotope
// number from the element.
func derive(it *schema.Item, src schema.Cell, row schema.Row) (string, bool) {
	if src.IsNull() {
		return "", false
	}
	s := src.Text(schema.NEF)
	name := strings.ToLower(it.Name)
	switch {
	case strings.Contains(name, "isotope"):
		iso, ok := schema.IsotopeOf(s)
		return strconv.Itoa(iso), ok
	case name == "element" || name == "atom_type":
		comp := row.Str("residue_name")
		if comp == "" {
			comp = row.Str("Comp_ID")
		}
		el := schema.ElementOf(s, comp)
		return el, el != ""
	}
	return s, true
}

// fallback finds the value of an empty cell: an explicit default, the
// parent list ID, a value derived from another tag or the row number.
func fallback(it *schema.Item, n, parent int, row schema.Row) (string, bool) {
	if it.Kind == schema.PointerIndex && parent > 0 {
		return strconv.Itoa(parent), true
	}
	if it.Default != "" {
		return it.Default, true
	}
	if it.DefaultFrom != "" && it.DefaultFrom != schema.SelfDefault {
		if v, ok := derive(it, row.Get(it.DefaultFrom), row); ok {
			return v, true
		}
	}
	if it.AutoIncrement {
		return strconv.Itoa(n + 1), true
	}
	return "", false
}

// resolvable says if a missing column can be filled in.
func resolvable(it *schema.Item, lp *star.Loop, parent int) bool {
	switch {
	case it.Kind == schema.PointerIndex && parent > 0, it.Default != "", it.AutoIncrement:
		return true
	case it.DefaultFrom != "" && it.DefaultFrom != schema.SelfDefault:
		return lp.HasTag(it.DefaultFrom)
	}
	return false
}
