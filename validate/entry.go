package validate

import (
	"strconv"
	"strings"

	"github.com/andrew-torda/nefstar/schema"
	"github.com/andrew-torda/nefstar/star"
)

// LoopSchema finds the schema for a loop of a save frame. Peak loops
// get as many dimensions as the save frame declares.
func LoopSchema(d schema.Dialect, sf *star.Saveframe, lp *star.Loop) (schema.LoopSchema, bool) {
	peak := "_nef_peak"
	dims := "num_dimensions"
	if d == schema.STAR {
		peak, dims = "_Peak_row_format", "Number_of_spectral_dimensions"
	}
	if strings.EqualFold(lp.Category, peak) && sf != nil {
		if v, ok := sf.GetTag(dims); ok {
			if n, err := strconv.Atoi(v); err == nil && n > 0 {
				return schema.PeakLoop(d, n), true
			}
		}
	}
	return schema.Loop(d, lp.Category)
}

// Entry checks a whole entry without changing it: the save frames an
// entry must have, then the tags and loops of every save frame of a
// known category.
func Entry(e *star.Entry, d schema.Dialect, p Policy) *Report {
	p.Repair = false
	return entry(e, d, p, true)
}

// Repair checks like Entry, but writes defaults and coerced values
// back and drops bad rows. The mandatory save frames are only looked
// for when whole is set; a file of bare save frames need not have them.
func Repair(e *star.Entry, d schema.Dialect, p Policy, whole bool) *Report {
	p.Repair = true
	return entry(e, d, p, whole)
}

func entry(e *star.Entry, d schema.Dialect, p Policy, whole bool) *Report {
	p.Dialect = d
	rep := &Report{}
	structural := func(where, format string, v ...interface{}) {
		if p.AllowEmpty {
			rep.Warnf(Structural, where, "", 0, format, v...)
			return
		}
		rep.Addf(Structural, where, "", 0, format, v...)
	}
	for _, cat := range schema.MandatoryFrames(d) {
		if whole && len(e.SaveframesByCategory(cat)) == 0 {
			structural(cat, "no save frame of this category")
		}
	}
	for _, sf := range e.Frames {
		fs, ok := schema.Frame(d, sf.Category())
		if !ok {
			continue
		}
		_, r := CheckSfTag(sf, fs, p)
		rep.Merge(r)
		for _, cat := range fs.MandatoryLoops {
			lp := sf.GetLoop(cat)
			switch {
			case lp == nil:
				structural(sf.Name, "no %s loop", cat)
			case lp.Empty():
				structural(sf.Name, "%s loop is empty", cat)
			}
		}
		for _, lp := range sf.Loops {
			ls, ok := LoopSchema(d, sf, lp)
			if !ok {
				continue
			}
			_, r := CheckData(lp, ls, p)
			rep.Merge(r)
			for _, n := range GetConflictAtomID(lp, d) {
				rep.Warnf(Schema, lp.Category, "", n+1, "same atom at two positions")
			}
		}
	}
	return rep
}
