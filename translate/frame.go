package translate

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/andrew-torda/nefstar/rewrite"
	"github.com/andrew-torda/nefstar/schema"
	"github.com/andrew-torda/nefstar/star"
	"github.com/andrew-torda/nefstar/tagmap"
	"github.com/andrew-torda/nefstar/validate"
)

// rank puts sequences before shifts and shifts before everything else,
// so the names chosen for the shifts are there for the restraints.
func rank(category string) int {
	switch strings.ToLower(category) {
	case "_nef_sequence", "_chem_comp_assembly":
		return 0
	case "_nef_chemical_shift", "_atom_chem_shift":
		return 1
	}
	return 2
}

func frameRank(sf *star.Saveframe) int {
	best := 2
	for _, lp := range sf.Loops {
		if k := rank(lp.Category); k < best {
			best = k
		}
	}
	return best
}

// byRank gives the indices of things in the order they are worked on.
func byRank(n int, rankOf func(i int) int) []int {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return rankOf(idx[a]) < rankOf(idx[b]) })
	return idx
}

func frameTag(d schema.Dialect, tag string) string {
	if d == schema.STAR {
		return strings.ToUpper(tag[:1]) + tag[1:]
	}
	return tag
}

func (r *run) entryID() string {
	if id := r.in.Entry.ID; id != "" {
		return id
	}
	return star.Omitted
}

// translate is the work of Translate after the checks.
func (r *run) translate() (*star.Document, error) {
	b, err := r.bind()
	if err != nil {
		r.rep.Addf(validate.Schema, "", "", 0, "%v", err)
		return nil, err
	}
	r.ctx = rewrite.NewContext(r.t.atoms, b, rewrite.Options{
		LeaveUnmatched:    r.t.opts.LeaveUnmatched,
		InsertOriginalPDB: r.t.opts.InsertOriginalPDB,
		EntryID:           r.entryID(),
	})

	frames := r.in.Entry.Frames
	outs := make([]*star.Saveframe, len(frames))
	for _, i := range byRank(len(frames), func(i int) int { return frameRank(frames[i]) }) {
		sf, err := r.frame(frames[i])
		if err != nil {
			return nil, err
		}
		outs[i] = sf
	}
	r.rep.Merge(r.ctx.Report)

	out := &star.Document{Shape: r.in.Shape, Entry: star.NewEntry(r.in.Entry.ID)}
	for _, sf := range outs {
		if sf != nil {
			out.Entry.Frames = append(out.Entry.Frames, sf)
		}
	}
	if r.in.Shape == star.ShapeLoop {
		return out, nil
	}
	if r.in.Shape == star.ShapeEntry {
		r.meta(out.Entry)
	}
	r.framecodes(out.Entry.Frames, r.to)
	r.references(out.Entry.Frames)
	r.finish(out.Entry.Frames)
	return out, nil
}

// frame translates one save frame. A category with no counterpart
// gives nil.
func (r *run) frame(sf *star.Saveframe) (*star.Saveframe, error) {
	cat := sf.Category()
	if cat == "" {
		out := &star.Saveframe{Name: sf.Name}
		return out, r.loops(sf, out, 1)
	}
	var fm *tagmap.FrameMap
	if r.to == schema.STAR {
		fm = tagmap.FrameByNEF(cat)
	} else {
		fm = tagmap.FrameBySTAR(cat)
	}
	if fm == nil {
		r.rep.Warnf(validate.Structural, sf.Name, "", 0, "save frame category %s has no %s form, left out", cat, r.to)
		return nil, nil
	}
	target, prefix := fm.STAR, fm.STARPrefix
	if r.to == schema.NEF {
		target, prefix = fm.NEF, fm.NEFPrefix
	}
	id := r.next(target)
	out := star.NewSaveframe(framecode(target, frameName(sf.Name, cat)), prefix)
	r.byName[fold(sf.Name)] = out
	r.tags(sf, out, fm, id)
	out.SetTag(frameTag(r.to, "sf_category"), target)
	out.SetTag(frameTag(r.to, "sf_framecode"), out.Name)
	if r.to == schema.STAR {
		if target == tagmap.MetaData.STAR {
			out.SetTag("ID", r.entryID())
		} else {
			out.SetTag("ID", strconv.Itoa(id))
			out.SetTag("Entry_ID", r.entryID())
		}
	}
	return out, r.loops(sf, out, id)
}

// starOnly are save frame tags NEF has no place for and nobody misses.
var starOnly = map[string]bool{"id": true, "entry_id": true, "nmr_star_version": true}

// tags copies the save frame tags with known counterparts.
func (r *run) tags(sf, out *star.Saveframe, fm *tagmap.FrameMap, id int) {
	for _, tg := range sf.Tags {
		var (
			t  tagmap.Tag
			ok bool
		)
		if r.to == schema.STAR {
			t, ok = fm.ByNEF(tg.Name)
		} else {
			if starOnly[strings.ToLower(tg.Name)] {
				continue
			}
			t, ok = fm.ByData(tg.Name)
		}
		if !ok {
			r.rep.Warnf(validate.Schema, sf.Name, tg.Name, 0, "no %s form, left out", r.to)
			continue
		}
		if r.to == schema.STAR {
			out.SetTag(t.Data, t.ToStar(tg.Value))
		} else {
			out.SetTag(t.NEF, t.ToNef(tg.Value))
		}
	}
}

// loops translates the loops of sf into out, keeping their order.
func (r *run) loops(sf, out *star.Saveframe, parent int) error {
	got := make([][]*star.Loop, len(sf.Loops))
	peaksDone := false
	for _, i := range byRank(len(sf.Loops), func(i int) int { return rank(sf.Loops[i].Category) }) {
		lp := sf.Loops[i]
		var (
			ls  []*star.Loop
			err error
		)
		if r.to == schema.STAR {
			ls, err = r.loopToStar(lp, parent)
		} else {
			ls, err = r.loopToNef(sf, lp, &peaksDone)
		}
		if err != nil {
			if err = r.fail(lp.Category, err); err != nil {
				return err
			}
			continue
		}
		got[i] = ls
	}
	for _, ls := range got {
		for _, lp := range ls {
			if err := out.AddLoop(lp); err != nil {
				if err = r.fail(lp.Category, err); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func (r *run) leftOut(lp *star.Loop) {
	r.rep.Warnf(validate.Structural, lp.Category, "", 0, "no %s form, left out", r.to)
}

func (r *run) loopToStar(lp *star.Loop, parent int) ([]*star.Loop, error) {
	if strings.EqualFold(lp.Category, tagmap.Sequence.NEF) {
		seq, deleted, err := rewrite.SequenceToStar(r.ctx, lp, parent)
		if err != nil {
			return nil, err
		}
		ls := []*star.Loop{seq}
		if deleted != nil {
			ls = append(ls, deleted)
		}
		return ls, nil
	}
	got, err := rewrite.LoopToStar(r.ctx, lp, parent)
	if err != nil {
		return nil, err
	}
	if got == nil {
		r.leftOut(lp)
		return nil, nil
	}
	return []*star.Loop{got}, nil
}

func isCanonicalPeak(category string) bool {
	for _, c := range tagmap.CanonicalPeakLoops {
		if strings.EqualFold(category, c) {
			return true
		}
	}
	return false
}

func (r *run) loopToNef(sf *star.Saveframe, lp *star.Loop, peaksDone *bool) ([]*star.Loop, error) {
	switch {
	case strings.EqualFold(lp.Category, tagmap.Sequence.STAR):
		got, err := rewrite.SequenceToNef(r.ctx, lp, sf.GetLoop(tagmap.DeletedAtom))
		if err != nil {
			return nil, err
		}
		return []*star.Loop{got}, nil
	case strings.EqualFold(lp.Category, tagmap.DeletedAtom):
		if sf.GetLoop(tagmap.Sequence.STAR) == nil {
			r.leftOut(lp)
		}
		return nil, nil
	case isCanonicalPeak(lp.Category):
		if sf.GetLoop(tagmap.Peak.STAR) != nil || *peaksDone {
			return nil, nil
		}
		*peaksDone = true
		ndim := 0
		if v, ok := sf.GetTag("Number_of_spectral_dimensions"); ok {
			ndim, _ = strconv.Atoi(v)
		}
		got, err := rewrite.CanonicalPeakToNef(r.ctx, sf, ndim)
		if err != nil {
			return nil, err
		}
		return []*star.Loop{got}, nil
	}
	got, err := rewrite.LoopToNef(r.ctx, lp)
	if err != nil {
		return nil, err
	}
	if got == nil {
		r.leftOut(lp)
		return nil, nil
	}
	return []*star.Loop{got}, nil
}

func fold(s string) string { return cases.Fold().String(s) }

// frameName is a framecode without its category.
func frameName(code, category string) string {
	if len(code) >= len(category) && strings.EqualFold(code[:len(category)], category) {
		code = code[len(category):]
	}
	return strings.TrimLeft(code, "_")
}

func framecode(category, name string) string {
	if name == "" {
		return category
	}
	return category + "_" + name
}

// framecodes makes the framecodes unique without regard to case.
// Frames that clash are all renamed, in order, to the lower case name
// with _1, _2 and so on added. The framecode tags follow.
func (r *run) framecodes(frames []*star.Saveframe, d schema.Dialect) {
	count := make(map[string]int)
	for _, sf := range frames {
		count[fold(sf.Name)]++
	}
	taken := make(map[string]bool)
	for _, sf := range frames {
		if k := fold(sf.Name); count[k] == 1 {
			taken[k] = true
		}
	}
	lower := cases.Lower(language.Und)
	seen := make(map[string]int)
	for _, sf := range frames {
		cat := sf.Category()
		if cat == "" {
			continue
		}
		if k := fold(sf.Name); count[k] > 1 {
			base := framecode(cat, lower.String(frameName(sf.Name, cat)))
			for {
				seen[k]++
				name := base + "_" + strconv.Itoa(seen[k])
				if !taken[fold(name)] {
					sf.Name = name
					taken[fold(name)] = true
					break
				}
			}
		}
		sf.SetTag(frameTag(d, "sf_framecode"), sf.Name)
	}
}

// references points the spectra at the new names of their shift lists.
// NMR-STAR writes the reference with a leading $.
func (r *run) references(frames []*star.Saveframe) {
	from, to := tagmap.Spectrum.NEF, "chemical_shift_list"
	if r.to == schema.STAR {
		from, to = tagmap.Spectrum.STAR, "Assigned_chem_shift_list_label"
	}
	for _, sf := range frames {
		if !strings.EqualFold(sf.Category(), from) {
			continue
		}
		v, ok := sf.GetTag(to)
		if !ok || star.IsEmpty(v) {
			continue
		}
		target, ok := r.byName[fold(strings.TrimPrefix(v, "$"))]
		if !ok {
			r.rep.Warnf(validate.Structural, sf.Name, to, 0, "no shift list %s", v)
			continue
		}
		if r.to == schema.STAR {
			sf.SetTag(to, "$"+target.Name)
		} else {
			sf.SetTag(to, target.Name)
		}
	}
}

func first(e *star.Entry, category string) *star.Saveframe {
	if sfs := e.SaveframesByCategory(category); len(sfs) > 0 {
		return sfs[0]
	}
	return nil
}

func setIfEmpty(sf *star.Saveframe, tag, v string) {
	if old, _ := sf.GetTag(tag); star.IsEmpty(old) {
		sf.SetTag(tag, v)
	}
}

// addRow appends a row to lp, setting the named columns.
func addRow(lp *star.Loop, vals map[string]string) {
	row := make([]string, len(lp.Tags))
	for i := range row {
		row[i] = star.Omitted
	}
	for k, v := range vals {
		if i := lp.TagIndex(k); i >= 0 {
			row[i] = v
		}
	}
	lp.Data = append(lp.Data, row)
}

// meta makes sure a whole entry says what it is and what wrote it.
func (r *run) meta(e *star.Entry) {
	fm := tagmap.MetaData
	if r.to == schema.STAR {
		sf := first(e, fm.STAR)
		if sf == nil {
			sf = star.NewSaveframe(fm.STAR, fm.STARPrefix)
			sf.SetTag("Sf_category", fm.STAR)
			sf.SetTag("Sf_framecode", fm.STAR)
			sf.SetTag("ID", r.entryID())
			e.Frames = append([]*star.Saveframe{sf}, e.Frames...)
		}
		sf.SetTag("NMR_STAR_version", schema.NmrStarVersion)
		setIfEmpty(sf, "Source_data_format", schema.NefFormatName)
		setIfEmpty(sf, "Source_data_format_version", schema.NefVersion)
		lp := r.scriptLoop(sf, tagmap.ProgramScript.STAR, "Software_name", "Script_name", "Script", "Entry_ID")
		addRow(lp, map[string]string{
			"Software_name": Program, "Script_name": "nef2star",
			"Script": Program + " " + Version, "Entry_ID": r.entryID(),
		})
		return
	}

	sf := first(e, fm.NEF)
	if sf == nil {
		sf = star.NewSaveframe(fm.NEF, fm.NEFPrefix)
		sf.SetTag("sf_category", fm.NEF)
		sf.SetTag("sf_framecode", fm.NEF)
		e.Frames = append([]*star.Saveframe{sf}, e.Frames...)
	}
	sf.SetTag("format_name", schema.NefFormatName)
	sf.SetTag("format_version", schema.NefVersion)
	if name, _ := sf.GetTag("program_name"); star.IsEmpty(name) {
		sf.SetTag("program_name", Program)
		sf.SetTag("program_version", Version)
	}
	setIfEmpty(sf, "creation_date", time.Now().UTC().Format(time.RFC3339))
	setIfEmpty(sf, "uuid", uuid.NewString())
	lp := r.scriptLoop(sf, tagmap.ProgramScript.NEF, "program_name", "script_name", "script")
	addRow(lp, map[string]string{
		"program_name": Program, "script_name": "star2nef", "script": Program + " " + Version,
	})
}

// scriptLoop finds or adds the loop listing the programs run.
func (r *run) scriptLoop(sf *star.Saveframe, category string, tags ...string) *star.Loop {
	if lp := sf.GetLoop(category); lp != nil {
		return lp
	}
	lp := star.NewLoop(category)
	if err := lp.AddTag(tags...); err != nil {
		r.rep.Warnf(validate.Structural, category, "", 0, "%v", err)
	}
	if err := sf.AddLoop(lp); err != nil {
		r.rep.Warnf(validate.Structural, category, "", 0, "%v", err)
	}
	return lp
}

// finish checks the frames written against the target dictionary,
// tags and then loops, filling defaults and missing mandatory columns.
func (r *run) finish(frames []*star.Saveframe) {
	for _, sf := range frames {
		fs, ok := schema.Frame(r.to, sf.Category())
		if !ok {
			continue
		}
		p := validate.Policy{Dialect: r.to, Repair: true, AllowEmpty: r.t.opts.AllowEmpty}
		_, rep := validate.CheckSfTag(sf, fs, p)
		r.rep.Merge(rep)
		if r.to == schema.STAR {
			if v, ok := sf.GetTag("ID"); ok {
				p.Parent, _ = strconv.Atoi(v)
			}
		}
		for _, lp := range sf.Loops {
			ls, ok := validate.LoopSchema(r.to, sf, lp)
			if !ok {
				continue
			}
			_, rep := validate.CheckData(lp, ls, p)
			r.rep.Merge(rep)
		}
	}
}

// same handles input already in the target dialect: only the
// framecodes change.
func (r *run) same() *star.Document {
	if r.in.Shape == star.ShapeLoop {
		return r.in
	}
	for _, sf := range r.in.Entry.Frames {
		if cat := sf.Category(); cat != "" {
			sf.Name = framecode(cat, frameName(sf.Name, cat))
		}
	}
	r.framecodes(r.in.Entry.Frames, r.to)
	return r.in
}
