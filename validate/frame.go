package validate

import (
	"strings"

	"github.com/andrew-torda/nefstar/schema"
	"github.com/andrew-torda/nefstar/star"
)

// CheckSfTag checks the tags of a save frame and returns their coerced
// values. An empty framecode tag takes the save frame name. With
// Policy.Repair the defaults and coerced values are written back.
func CheckSfTag(sf *star.Saveframe, fs schema.FrameSchema, p Policy) (schema.Row, *Report) {
	rep := &Report{}
	where := fs.Prefix
	if got := sf.Category(); got != "" && !strings.EqualFold(got, fs.Category) {
		rep.Addf(Structural, where, "", 0, "save frame %s has category %s, not %s", sf.Name, got, fs.Category)
	}
	for _, t := range p.Disallowed {
		if _, ok := sf.GetTag(t); ok {
			rep.Addf(Schema, where, t, 0, "tag not allowed here")
		}
	}
	if p.Allowed != nil {
		known := make(map[string]bool)
		for _, n := range append(fs.Tags.Names(), p.Allowed...) {
			known[strings.ToLower(n)] = true
		}
		for _, t := range sf.Tags {
			if !known[strings.ToLower(t.Name)] {
				rep.Warnf(Schema, where, t.Name, 0, "unknown tag")
			}
		}
	}
	row := make(schema.Row, len(fs.Tags))
	for i := range fs.Tags {
		it := &fs.Tags[i]
		v, _ := sf.GetTag(it.Name)
		if star.IsEmpty(v) {
			switch {
			case strings.EqualFold(it.Name, "sf_framecode"):
				v = sf.Name
			case it.Default != "":
				v = it.Default
			case it.DefaultFrom != "" && it.DefaultFrom != schema.SelfDefault:
				v, _ = derive(it, row.Get(it.DefaultFrom), row)
			}
		}
		if star.IsEmpty(v) {
			if it.Mandatory {
				rep.Addf(Schema, where, it.Name, 0, "missing mandatory value")
			}
			continue
		}
		cell, msg := coerce(it, v)
		if msg != "" {
			rep.Addf(Schema, where, it.Name, 0, "%s", msg)
			continue
		}
		cell, pr := bounds(it, cell)
		if pr != nil {
			if pr.fixed {
				rep.Warnf(Schema, where, it.Name, 0, "%s", pr.msg)
			} else {
				rep.Addf(Schema, where, it.Name, 0, "%s", pr.msg)
			}
		}
		if cell.IsNull() {
			continue
		}
		row[it.Name] = cell
		if p.Repair {
			sf.SetTag(it.Name, cell.Text(p.Dialect))
		}
	}
	return row, rep
}
