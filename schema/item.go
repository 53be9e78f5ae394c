package schema

// Kind is the type of an item. It decides how the validator coerces
// a cell and which checks apply.
type Kind byte

const (
	Str              Kind = iota // any non-empty text
	Bool                         // truthy or falsy word
	Int                          // any integer
	IndexInt                     // dense 1-based integer, unique in the loop
	PositiveInt                  // integer > 0
	PositiveIntAsStr             // positive integer kept as text (chain IDs)
	PointerIndex                 // constant within a loop, points at a parent
	Float
	PositiveFloat
	RangeFloat // float constrained by Range
	Enum
	EnumInt
)

var kindNames = [...]string{
	"str", "bool", "int", "index-int", "positive-int", "positive-int-as-str",
	"pointer-index", "float", "positive-float", "range-float", "enum", "enum-int",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// IsInt is true for the integer kinds.
func (k Kind) IsInt() bool {
	switch k {
	case Int, IndexInt, PositiveInt, PositiveIntAsStr, PointerIndex, EnumInt:
		return true
	}
	return false
}

// IsFloat is true for the floating point kinds.
func (k Kind) IsFloat() bool {
	return k == Float || k == PositiveFloat || k == RangeFloat
}

// Bound is one end of a Range.
type Bound struct {
	Set       bool
	Val       float64
	Exclusive bool
}

// Range limits a numeric item. An unset bound does not limit anything.
type Range struct {
	Min, Max Bound
}

// Contains reports if f lies inside the range.
func (r Range) Contains(f float64) bool {
	if r.Min.Set {
		if r.Min.Exclusive && f <= r.Min.Val || !r.Min.Exclusive && f < r.Min.Val {
			return false
		}
	}
	if r.Max.Set {
		if r.Max.Exclusive && f >= r.Max.Val || !r.Max.Exclusive && f > r.Max.Val {
			return false
		}
	}
	return true
}

// Width is max - min for a range with both ends set, else 0.
func (r Range) Width() float64 {
	if r.Min.Set && r.Max.Set {
		return r.Max.Val - r.Min.Val
	}
	return 0
}

// Incl returns a range with both ends inclusive.
func Incl(min, max float64) *Range {
	return &Range{Min: Bound{Set: true, Val: min}, Max: Bound{Set: true, Val: max}}
}

// MinIncl returns a range with only an inclusive lower bound.
func MinIncl(min float64) *Range {
	return &Range{Min: Bound{Set: true, Val: min}}
}

// MinExcl returns a range with only an exclusive lower bound.
func MinExcl(min float64) *Range {
	return &Range{Min: Bound{Set: true, Val: min, Exclusive: true}}
}

// Group holds the rules that relate an item to others in the same row.
// Every field names other tags.
type Group struct {
	CoexistWith []string // all must be present if this one is
	MemberWith  []string // at least one must be present if this one is
	SmallerThan []string
	LargerThan  []string
	NotEqualTo  []string
}

// SelfDefault in DefaultFrom means the value is rebuilt from itself.
const SelfDefault = "self"

// Item describes one tag.
type Item struct {
	Name      string
	Kind      Kind
	Mandatory bool

	Default       string
	DefaultFrom   string // tag in the same row, or SelfDefault
	AutoIncrement bool

	Enum        []string
	EnumAlt     map[string]string // rewrites applied before the enum check
	EnforceEnum bool              // unknown enum value is an error, not a warning

	Range *Range
	Group *Group

	RemoveBadPattern bool // drop the row
	ClearBadPattern  bool // null the cell

	Uppercase      bool
	EnforceNonZero bool
	EnforceSign    bool
	VoidZero       bool
	CircularShift  bool
}

// InEnum reports if v is one of the enumerated values.
func (it *Item) InEnum(v string) bool {
	for _, e := range it.Enum {
		if e == v {
			return true
		}
	}
	return false
}

// Items is an ordered list of descriptors.
type Items []Item

// Names returns the tag names in order.
func (items Items) Names() []string {
	names := make([]string, len(items))
	for i, it := range items {
		names[i] = it.Name
	}
	return names
}

// Find returns the descriptor for a tag, nil if there is none.
func (items Items) Find(name string) *Item {
	for i := range items {
		if items[i].Name == name {
			return &items[i]
		}
	}
	return nil
}
