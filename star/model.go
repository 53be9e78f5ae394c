package star

import (
	"fmt"
	"strings"
)

// Empty value markers.
const (
	Omitted = "." // not appropriate or left out on purpose
	Missing = "?" // unknown
)

// IsEmpty returns true for the strings that mean "no value".
func IsEmpty(v string) bool {
	return v == "" || v == Omitted || v == Missing
}

// Tag is one tag/value pair in a save frame. Name is without the
// category prefix, so for _nef_nmr_meta_data.format_name it is just
// "format_name".
type Tag struct {
	Name  string
	Value string
}

// Loop is a table. Category carries the leading underscore, as
// in "_nef_chemical_shift". Tags are the short names.
type Loop struct {
	Category string
	Tags     []string
	Data     [][]string
}

// NewLoop makes an empty loop. A missing leading underscore is added.
func NewLoop(category string) *Loop {
	return &Loop{Category: fmtCategory(category)}
}

// fmtCategory makes sure we have exactly one leading underscore.
func fmtCategory(s string) string {
	return "_" + strings.TrimLeft(s, "_")
}

// SplitTag breaks "_cat.tag" into its two halves. With no dot, the
// whole thing is the tag and the category is empty.
func SplitTag(full string) (category, tag string) {
	full = strings.TrimSpace(full)
	i := strings.IndexByte(full, '.')
	if i < 0 {
		return "", strings.TrimLeft(full, "_")
	}
	return fmtCategory(full[:i]), full[i+1:]
}

// AddTag adds new columns. It refuses duplicates and refuses to add a
// column when rows are already present; use AddColumn for that.
func (lp *Loop) AddTag(names ...string) error {
	if len(lp.Data) > 0 {
		return fmt.Errorf("loop %s: cannot add tags to a loop that has data", lp.Category)
	}
	for _, n := range names {
		cat, tag := SplitTag(n)
		if cat != "" && !strings.EqualFold(cat, lp.Category) {
			return fmt.Errorf("loop %s: tag %s belongs to another category", lp.Category, n)
		}
		if lp.TagIndex(tag) >= 0 {
			return fmt.Errorf("loop %s: duplicate tag %s", lp.Category, tag)
		}
		lp.Tags = append(lp.Tags, tag)
	}
	return nil
}

// AddColumn appends a tag and fills every existing row with value.
func (lp *Loop) AddColumn(name, value string) error {
	_, tag := SplitTag(name)
	if lp.TagIndex(tag) >= 0 {
		return fmt.Errorf("loop %s: duplicate tag %s", lp.Category, tag)
	}
	lp.Tags = append(lp.Tags, tag)
	for i := range lp.Data {
		lp.Data[i] = append(lp.Data[i], value)
	}
	return nil
}

// AddData appends a row. It must have one value per tag.
func (lp *Loop) AddData(row []string) error {
	if len(row) != len(lp.Tags) {
		return fmt.Errorf("loop %s: row has %d values, expected %d", lp.Category, len(row), len(lp.Tags))
	}
	r := make([]string, len(row))
	copy(r, row)
	lp.Data = append(lp.Data, r)
	return nil
}

// TagIndex returns the column of a tag, or -1. The name may carry its
// category. Comparison ignores case, as STAR does.
func (lp *Loop) TagIndex(name string) int {
	_, tag := SplitTag(name)
	for i, t := range lp.Tags {
		if strings.EqualFold(t, tag) {
			return i
		}
	}
	return -1
}

// HasTag reports if the loop has a column.
func (lp *Loop) HasTag(name string) bool { return lp.TagIndex(name) >= 0 }

// Col returns one column. A missing tag gives nil.
func (lp *Loop) Col(name string) []string {
	j := lp.TagIndex(name)
	if j < 0 {
		return nil
	}
	ret := make([]string, len(lp.Data))
	for i, row := range lp.Data {
		ret[i] = row[j]
	}
	return ret
}

// GetTag returns, for each row, the values of the named tags in the
// order given. Missing tags give empty strings so the caller can
// decide what to do.
func (lp *Loop) GetTag(names ...string) [][]string {
	idx := make([]int, len(names))
	for i, n := range names {
		idx[i] = lp.TagIndex(n)
	}
	ret := make([][]string, len(lp.Data))
	for i, row := range lp.Data {
		r := make([]string, len(idx))
		for k, j := range idx {
			if j >= 0 {
				r[k] = row[j]
			}
		}
		ret[i] = r
	}
	return ret
}

// Value gets a single cell by row and tag name.
func (lp *Loop) Value(row int, name string) string {
	j := lp.TagIndex(name)
	if j < 0 || row < 0 || row >= len(lp.Data) {
		return ""
	}
	return lp.Data[row][j]
}

// Set changes a single cell. It returns false if the tag is not there.
func (lp *Loop) Set(row int, name, value string) bool {
	j := lp.TagIndex(name)
	if j < 0 || row < 0 || row >= len(lp.Data) {
		return false
	}
	lp.Data[row][j] = value
	return true
}

// Len is the number of rows.
func (lp *Loop) Len() int { return len(lp.Data) }

// Empty is true for a loop with no rows, or with rows that hold
// nothing but empty values.
func (lp *Loop) Empty() bool {
	for _, row := range lp.Data {
		for _, v := range row {
			if !IsEmpty(v) {
				return false
			}
		}
	}
	return true
}

// FullTags returns tags written as _category.tag.
func (lp *Loop) FullTags() []string {
	ret := make([]string, len(lp.Tags))
	for i, t := range lp.Tags {
		ret[i] = lp.Category + "." + t
	}
	return ret
}

// Saveframe is a named block. TagPrefix is the category carried on the
// tags, like "_nef_chemical_shift_list".
type Saveframe struct {
	Name      string
	TagPrefix string
	Tags      []Tag
	Loops     []*Loop
}

// NewSaveframe makes a save frame with its framecode and tag prefix.
func NewSaveframe(name, tagPrefix string) *Saveframe {
	return &Saveframe{Name: name, TagPrefix: fmtCategory(tagPrefix)}
}

// Category returns the value of the sf_category tag, checking both the
// NEF and the NMR-STAR spelling.
func (sf *Saveframe) Category() string {
	if v, ok := sf.GetTag("sf_category"); ok {
		return v
	}
	return ""
}

// GetTag looks up a save frame tag, ignoring case.
func (sf *Saveframe) GetTag(name string) (string, bool) {
	_, tag := SplitTag(name)
	for _, t := range sf.Tags {
		if strings.EqualFold(t.Name, tag) {
			return t.Value, true
		}
	}
	return "", false
}

// AddTag appends a tag. Duplicates are an error.
func (sf *Saveframe) AddTag(name, value string) error {
	_, tag := SplitTag(name)
	if _, ok := sf.GetTag(tag); ok {
		return fmt.Errorf("save frame %s: duplicate tag %s", sf.Name, tag)
	}
	sf.Tags = append(sf.Tags, Tag{Name: tag, Value: value})
	return nil
}

// SetTag replaces a value, adding the tag if it is not there.
func (sf *Saveframe) SetTag(name, value string) {
	_, tag := SplitTag(name)
	for i, t := range sf.Tags {
		if strings.EqualFold(t.Name, tag) {
			sf.Tags[i].Value = value
			return
		}
	}
	sf.Tags = append(sf.Tags, Tag{Name: tag, Value: value})
}

// GetLoop returns the loop with a category, or nil.
func (sf *Saveframe) GetLoop(category string) *Loop {
	c := fmtCategory(category)
	for _, lp := range sf.Loops {
		if strings.EqualFold(lp.Category, c) {
			return lp
		}
	}
	return nil
}

// AddLoop appends a loop. Two loops of the same category are an error.
func (sf *Saveframe) AddLoop(lp *Loop) error {
	if sf.GetLoop(lp.Category) != nil {
		return fmt.Errorf("save frame %s: duplicate loop %s", sf.Name, lp.Category)
	}
	sf.Loops = append(sf.Loops, lp)
	return nil
}

// Entry is one data block.
type Entry struct {
	ID     string
	Frames []*Saveframe
}

// NewEntry makes an empty entry.
func NewEntry(id string) *Entry { return &Entry{ID: id} }

// FrameList returns the save frames in file order.
func (e *Entry) FrameList() []*Saveframe { return e.Frames }

// AddSaveframe appends a save frame. Framecodes must be unique, but only
// exactly; case-insensitive collisions are resolved by the translator.
func (e *Entry) AddSaveframe(sf *Saveframe) error {
	if e.Saveframe(sf.Name) != nil {
		return fmt.Errorf("entry %s: duplicate save frame %s", e.ID, sf.Name)
	}
	e.Frames = append(e.Frames, sf)
	return nil
}

// Saveframe finds a save frame by exact framecode.
func (e *Entry) Saveframe(name string) *Saveframe {
	for _, sf := range e.Frames {
		if sf.Name == name {
			return sf
		}
	}
	return nil
}

// SaveframesByCategory returns save frames with a given sf_category.
func (e *Entry) SaveframesByCategory(category string) []*Saveframe {
	var ret []*Saveframe
	for _, sf := range e.Frames {
		if sf.Category() == category {
			ret = append(ret, sf)
		}
	}
	return ret
}

// LoopsByCategory returns every loop of a category in any save frame.
func (e *Entry) LoopsByCategory(category string) []*Loop {
	var ret []*Loop
	for _, sf := range e.Frames {
		if lp := sf.GetLoop(category); lp != nil {
			ret = append(ret, lp)
		}
	}
	return ret
}

// Shape says what was at the top level of a file.
type Shape byte

const (
	ShapeEntry     Shape = iota // data_ block with save frames
	ShapeSaveframe              // save frames without a data_ header
	ShapeLoop                   // loops only
)

func (s Shape) String() string {
	switch s {
	case ShapeEntry:
		return "entry"
	case ShapeSaveframe:
		return "saveframe"
	}
	return "loop"
}

// Document is what Read gives back. For ShapeLoop, the loops are put in
// a single save frame with no name, so callers can use the same walk.
type Document struct {
	Shape Shape
	Entry *Entry
}
