package validate

import (
	"sort"
	"strconv"
	"strings"

	"github.com/andrew-torda/nefstar/schema"
	"github.com/andrew-torda/nefstar/star"
)

// Policy tunes CheckData and CheckSfTag.
type Policy struct {
	Dialect    schema.Dialect // of the loop being checked
	Allowed    []string       // tags allowed beyond the schema; nil allows any
	Disallowed []string
	Parent     int  // value every pointer-index item must take, 0 for no check
	Repair     bool // write defaults and coerced values back, drop bad rows
	AllowEmpty bool // an empty mandatory loop is only a warning
	Limit      int  // rows above which keys are not checked, 0 for the default
}

func (p Policy) limit() int {
	if p.Limit > 0 {
		return p.Limit
	}
	return schema.UniqueRowsLimit
}

// Row is a coerced row. Index is its place in the loop, from 0, after
// any repair.
type Row struct {
	Index int
	Cells schema.Row
}

var water = map[string]bool{"HOH": true, "WAT": true, "DOD": true, "H2O": true}

// sentinel is true for rows we skip without a word: rows with empty
// keys that belong to a water or carry a pseudo dihedral name.
func sentinel(lp *star.Loop, raw []string, keys schema.Items) bool {
	empty := false
	for _, it := range keys {
		if j := lp.TagIndex(it.Name); j >= 0 && it.Mandatory && star.IsEmpty(raw[j]) {
			empty = true
		}
	}
	if !empty {
		return false
	}
	for j, t := range lp.Tags {
		lt := strings.ToLower(t)
		switch {
		case strings.HasPrefix(lt, "residue_name"), strings.HasPrefix(lt, "comp_id"):
			if water[strings.ToUpper(raw[j])] {
				return true
			}
		case lt == "name", lt == "torsion_angle_name":
			if strings.Contains(strings.ToUpper(raw[j]), "PSEUDO") {
				return true
			}
		}
	}
	return false
}

type checker struct {
	lp    *star.Loop
	p     Policy
	rep   *Report
	items schema.Items
	cols  []int
	skip  []bool // missing column with no way to fill it
}

func (c *checker) errf(tag string, n int, format string, v ...interface{}) {
	c.rep.Addf(Schema, c.lp.Category, tag, n+1, format, v...)
}

func (c *checker) warnf(tag string, n int, format string, v ...interface{}) {
	c.rep.Warnf(Schema, c.lp.Category, tag, n+1, format, v...)
}

// tags looks at the columns as a whole.
func (c *checker) tags() {
	lp := c.lp
	seen := make(map[string]bool)
	for _, t := range lp.Tags {
		lt := strings.ToLower(t)
		if seen[lt] {
			c.rep.Addf(Structural, lp.Category, t, 0, "duplicate tag")
		}
		seen[lt] = true
	}
	for _, t := range c.p.Disallowed {
		if lp.HasTag(t) {
			c.rep.Addf(Schema, lp.Category, t, 0, "tag not allowed here")
		}
	}
	if c.p.Allowed != nil {
		known := make(map[string]bool)
		for _, n := range append(c.items.Names(), c.p.Allowed...) {
			known[strings.ToLower(n)] = true
		}
		for _, t := range lp.Tags {
			if !known[strings.ToLower(t)] {
				c.rep.Warnf(Schema, lp.Category, t, 0, "unknown tag")
			}
		}
	}
	c.cols = make([]int, len(c.items))
	c.skip = make([]bool, len(c.items))
	for i := range c.items {
		it := &c.items[i]
		c.cols[i] = lp.TagIndex(it.Name)
		if c.cols[i] < 0 && it.Mandatory && !resolvable(it, lp, c.p.Parent) {
			c.rep.Addf(Schema, lp.Category, it.Name, 0, "missing mandatory tag")
			c.skip[i] = true
		}
	}
}

// row coerces one row. remove is true when a bad pattern asks for the
// row to go.
func (c *checker) row(n int, raw []string) (row schema.Row, remove bool) {
	row = make(schema.Row, len(c.items))
	for i := range c.items {
		it := &c.items[i]
		if c.skip[i] {
			continue
		}
		v := ""
		if j := c.cols[i]; j >= 0 {
			v = raw[j]
		}
		if !star.IsEmpty(v) && (it.RemoveBadPattern || it.ClearBadPattern) && badPattern.MatchString(v) {
			if it.RemoveBadPattern {
				c.warnf(it.Name, n, "%q has a bad character, row removed", v)
				return nil, true
			}
			c.warnf(it.Name, n, "%q has a bad character, cleared", v)
			v = ""
		}
		if star.IsEmpty(v) {
			d, ok := fallback(it, n, c.p.Parent, row)
			if !ok {
				if it.Mandatory {
					c.errf(it.Name, n, "missing mandatory value")
				}
				continue
			}
			v = d
		}
		cell, msg := coerce(it, v)
		if msg != "" {
			if it.RemoveBadPattern {
				c.warnf(it.Name, n, "%s, row removed", msg)
				return nil, true
			}
			c.errf(it.Name, n, "%s", msg)
			continue
		}
		cell, pr := bounds(it, cell)
		if pr != nil {
			switch {
			case pr.fixed:
				c.warnf(it.Name, n, "%s", pr.msg)
			case !it.Mandatory && c.p.Repair:
				c.warnf(it.Name, n, "%s, cleared", pr.msg)
				cell = schema.NullCell
			default:
				c.errf(it.Name, n, "%s", pr.msg)
			}
		}
		if !cell.IsNull() {
			row[it.Name] = cell
		}
	}
	c.groups(n, row)
	return row, false
}

// groups applies the rules that tie items of a row together.
func (c *checker) groups(n int, row schema.Row) {
	for i := range c.items {
		it := &c.items[i]
		g := it.Group
		cell, ok := row[it.Name]
		if g == nil || !ok {
			continue
		}
		for _, o := range g.CoexistWith {
			if row.Get(o).IsNull() {
				c.errf(it.Name, n, "needs %s as well", o)
			}
		}
		if len(g.MemberWith) > 0 {
			found := false
			for _, o := range g.MemberWith {
				found = found || !row.Get(o).IsNull()
			}
			if !found {
				c.errf(it.Name, n, "needs one of %s", strings.Join(g.MemberWith, ", "))
			}
		}
		f, isNum := cell.Float()
		for _, o := range g.SmallerThan {
			if of, ok := row.Get(o).Float(); isNum && ok && f > of {
				c.errf(it.Name, n, "%s is larger than %s %s", cell.Text(c.p.Dialect), o, row.Get(o).Text(c.p.Dialect))
			}
		}
		for _, o := range g.LargerThan {
			if of, ok := row.Get(o).Float(); isNum && ok && f < of {
				c.errf(it.Name, n, "%s is smaller than %s %s", cell.Text(c.p.Dialect), o, row.Get(o).Text(c.p.Dialect))
			}
		}
		for _, o := range g.NotEqualTo {
			if oc := row.Get(o); !oc.IsNull() && cell.Equal(oc) {
				c.errf(it.Name, n, "must differ from %s", o)
			}
		}
	}
}

// keyNames are the tags whose values together must be unique: the key
// items and any positive integer data item, such as a restraint ID. An
// empty restraint combination ID adds nothing to a key.
func keyNames(ls schema.LoopSchema) []string {
	names := ls.Keys.Names()
	for _, it := range ls.Data {
		if it.Kind == schema.PositiveInt {
			names = append(names, it.Name)
		}
	}
	return names
}

// CheckData checks every row of a loop. Rows are coerced item by item
// (mandatory values, types, ranges and enumerations, then the group
// rules) before keys are checked across the loop. Rows left out are
// those a bad pattern removed and the sentinel rows of waters and
// pseudo dihedrals. With Policy.Repair the loop itself is brought in
// line: missing columns are added, coerced values written back and
// removed rows dropped.
func CheckData(lp *star.Loop, ls schema.LoopSchema, p Policy) ([]Row, *Report) {
	c := &checker{lp: lp, p: p, rep: &Report{}, items: ls.All()}
	c.tags()
	var rows []Row
	drop := make(map[int]bool)
	for n, raw := range lp.Data {
		if sentinel(lp, raw, ls.Keys) {
			drop[n] = true
			continue
		}
		row, remove := c.row(n, raw)
		if remove {
			drop[n] = true
			continue
		}
		rows = append(rows, Row{Index: n, Cells: row})
	}
	c.indices(rows)
	c.pointers(rows)
	if len(rows) <= p.limit() {
		c.unique(rows, keyNames(ls))
	}
	if p.Repair {
		c.writeBack(rows, drop)
	}
	return rows, c.rep
}

// indices checks index-int items are unique and run 1, 2, .... A
// repair renumbers them.
func (c *checker) indices(rows []Row) {
	for _, it := range c.items {
		if it.Kind != schema.IndexInt {
			continue
		}
		vals := make([]int, 0, len(rows))
		for _, r := range rows {
			if cell, ok := r.Cells[it.Name]; ok {
				vals = append(vals, cell.I)
			}
		}
		sort.Ints(vals)
		dense := len(vals) == len(rows)
		for i, v := range vals {
			dense = dense && v == i+1
		}
		if dense {
			continue
		}
		if c.p.Repair {
			c.rep.Warnf(Schema, c.lp.Category, it.Name, 0, "renumbered from 1")
			for i := range rows {
				rows[i].Cells[it.Name] = schema.IntCell(i + 1)
			}
			continue
		}
		c.rep.Addf(Schema, c.lp.Category, it.Name, 0, "values are not unique and dense from 1")
	}
}

// pointers checks pointer-index items hold one value.
func (c *checker) pointers(rows []Row) {
	for _, it := range c.items {
		if it.Kind != schema.PointerIndex {
			continue
		}
		want := c.p.Parent
		for _, r := range rows {
			cell, ok := r.Cells[it.Name]
			if !ok {
				continue
			}
			if want == 0 {
				want = cell.I
			}
			if cell.I == want {
				continue
			}
			if c.p.Repair {
				c.rep.Warnf(Schema, c.lp.Category, it.Name, r.Index+1, "%d changed to %d", cell.I, want)
				r.Cells[it.Name] = schema.IntCell(want)
				continue
			}
			c.rep.Addf(Schema, c.lp.Category, it.Name, r.Index+1, "%d differs from %d", cell.I, want)
		}
	}
}

func (c *checker) unique(rows []Row, names []string) {
	keys := make([][]string, len(rows))
	for i, r := range rows {
		k := make([]string, len(names))
		for j, n := range names {
			k[j] = r.Cells.Get(n).Key()
		}
		keys[i] = k
	}
	for _, class := range conflictClasses(keys, true) {
		members := make([]int, len(class))
		for i, k := range class {
			members[i] = rows[k].Index + 1
		}
		c.rep.Add(Issue{
			Kind: Uniqueness, Category: c.lp.Category, Tag: strings.Join(names, ","),
			Row: members[1], Rows: members,
			Msg: "same key as row " + strconv.Itoa(members[0]),
		})
	}
}

// writeBack puts the coerced rows into the loop.
func (c *checker) writeBack(rows []Row, drop map[int]bool) {
	lp := c.lp
	for i := range c.items {
		it := &c.items[i]
		if c.cols[i] >= 0 {
			continue
		}
		for _, r := range rows {
			if _, ok := r.Cells[it.Name]; ok {
				if err := lp.AddColumn(it.Name, star.Omitted); err == nil {
					c.cols[i] = len(lp.Tags) - 1
				}
				break
			}
		}
	}
	for _, r := range rows {
		raw := lp.Data[r.Index]
		for i := range c.items {
			if j := c.cols[i]; j >= 0 {
				if cell, ok := r.Cells[c.items[i].Name]; ok {
					raw[j] = cell.Text(c.p.Dialect)
				}
			}
		}
	}
	if len(drop) == 0 {
		return
	}
	kept := lp.Data[:0]
	for n, raw := range lp.Data {
		if !drop[n] {
			kept = append(kept, raw)
		}
	}
	lp.Data = kept
	for i := range rows {
		rows[i].Index = i
	}
}
