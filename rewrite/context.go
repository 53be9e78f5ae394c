// Package rewrite translates the loops of one dialect into the other,
// a category at a time. Chains and residues go through a chain.Binding,
// atom names through an atomname.Engine. The rewriters of one
// translation share a Context, so that names chosen for the chemical
// shifts are used again for the restraints and peaks.
package rewrite

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/andrew-torda/nefstar/atomname"
	"github.com/andrew-torda/nefstar/chain"
	"github.com/andrew-torda/nefstar/schema"
	"github.com/andrew-torda/nefstar/star"
	"github.com/andrew-torda/nefstar/tagmap"
	"github.com/andrew-torda/nefstar/validate"
)

// Options change what the rewriters emit.
type Options struct {
	LeaveUnmatched    bool   // keep atom names that cannot be expanded
	InsertOriginalPDB bool   // add the Original_PDB_* columns to shifts
	EntryID           string // value of the Entry_ID column of STAR loops
}

type atomKey struct {
	chain string
	seq   int
	atom  string
}

// Context is what the rewriters of one translation share. It is not
// safe for concurrent use.
type Context struct {
	Atoms   *atomname.Engine
	Binding *chain.Binding
	Opts    Options
	Report  *validate.Report

	atomMap map[atomKey]string // STAR atom to NEF name
}

// NewContext returns a context with an empty atom map.
func NewContext(atoms *atomname.Engine, b *chain.Binding, opts Options) *Context {
	return &Context{
		Atoms:   atoms,
		Binding: b,
		Opts:    opts,
		Report:  &validate.Report{},
		atomMap: make(map[atomKey]string),
	}
}

// AtomMapLen is the number of STAR atoms with a NEF name from a shift
// list.
func (c *Context) AtomMapLen() int { return len(c.atomMap) }

// NefAtom gives the NEF name of an atom of a STAR residue. The name
// chosen for the shift list wins; without one the atom is collapsed
// on its own.
func (c *Context) NefAtom(chainID string, seq int, comp, atom string) string {
	if n, ok := c.atomMap[atomKey{chainID, seq, atom}]; ok {
		return n
	}
	return c.Atoms.NefName(comp, atom)
}

// RowError is a row that could not be translated.
type RowError struct {
	Kind     validate.Kind
	Category string
	Row      int // from 1
	Msg      string
}

func (e *RowError) Error() string {
	return fmt.Sprintf("%s row %d: %s", e.Category, e.Row, e.Msg)
}

func rowErr(k validate.Kind, lp *star.Loop, n int, format string, v ...interface{}) error {
	return &RowError{Kind: k, Category: lp.Category, Row: n + 1, Msg: fmt.Sprintf(format, v...)}
}

// cols looks up the columns of an input loop once.
type cols struct {
	lp  *star.Loop
	idx map[string]int
}

func colsOf(lp *star.Loop) cols {
	idx := make(map[string]int, len(lp.Tags))
	for i, t := range lp.Tags {
		idx[strings.ToLower(t)] = i
	}
	return cols{lp, idx}
}

func (c cols) has(name string) bool {
	_, ok := c.idx[strings.ToLower(name)]
	return ok
}

// get is "" for a missing column and for the empty markers.
func (c cols) get(raw []string, name string) string {
	j, ok := c.idx[strings.ToLower(name)]
	if !ok || star.IsEmpty(raw[j]) {
		return ""
	}
	return raw[j]
}

// out builds an output loop row by row.
type out struct {
	lp  *star.Loop
	idx map[string]int
}

func newOut(category string, tags []string) *out {
	o := &out{lp: star.NewLoop(category), idx: make(map[string]int, len(tags))}
	for _, t := range tags {
		if _, dup := o.idx[t]; dup {
			continue
		}
		o.idx[t] = len(o.lp.Tags)
		o.lp.Tags = append(o.lp.Tags, t)
	}
	return o
}

func (o *out) row() []string {
	r := make([]string, len(o.lp.Tags))
	for i := range r {
		r[i] = star.Omitted
	}
	return r
}

func (o *out) set(r []string, tag, v string) {
	if tag == "" {
		return
	}
	if j, ok := o.idx[tag]; ok {
		if v == "" {
			v = star.Omitted
		}
		r[j] = v
	}
}

func (o *out) add(r []string) { o.lp.Data = append(o.lp.Data, r) }

// tail fills the pointer to the parent save frame and the entry ID.
func (c *Context) tail(o *out, r []string, lm *tagmap.LoopMap, parent int) {
	for _, t := range lm.Tail {
		switch {
		case t == "Entry_ID":
			o.set(r, t, c.Opts.EntryID)
		case t == "Assembly_ID", strings.HasSuffix(t, "list_ID"):
			o.set(r, t, strconv.Itoa(parent))
		}
	}
}

// position is one place of a loop that names a residue and maybe an
// atom: chain_code_1, sequence_code_1 and so on.
type position struct {
	chain, seq, comp, atom tagmap.Tag
}

func positionsOf(lm *tagmap.LoopMap) []position {
	bySfx := make(map[string]*position)
	var order []string
	for _, t := range lm.Tags {
		var field string
		for _, f := range []string{"chain_code", "sequence_code", "residue_name", "atom_name"} {
			if strings.HasPrefix(t.NEF, f) {
				field = f
				break
			}
		}
		if field == "" {
			continue
		}
		sfx := strings.TrimPrefix(t.NEF, field)
		p, ok := bySfx[sfx]
		if !ok {
			p = &position{}
			bySfx[sfx] = p
			order = append(order, sfx)
		}
		switch field {
		case "chain_code":
			p.chain = t
		case "sequence_code":
			p.seq = t
		case "residue_name":
			p.comp = t
		case "atom_name":
			p.atom = t
		}
	}
	pos := make([]position, len(order))
	for i, sfx := range order {
		pos[i] = *bySfx[sfx]
	}
	return pos
}

func isPositionTag(t tagmap.Tag) bool {
	for _, f := range []string{"chain_code", "sequence_code", "residue_name", "atom_name"} {
		if strings.HasPrefix(t.NEF, f) {
			return true
		}
	}
	return false
}

// residue is one place after mapping. ok is false when the input did
// not say which residue.
type residue struct {
	chain, comp string
	seq         int
	authChain   string
	authSeq     int
	ok          bool
}

func (r residue) seqText() string {
	if !r.ok {
		return ""
	}
	return strconv.Itoa(r.seq)
}

// starResidue maps a NEF chain and residue number.
func (c *Context) starResidue(lp *star.Loop, n int, ch, seq, comp string) (residue, error) {
	if ch == "" || seq == "" {
		return residue{chain: ch, comp: comp}, nil
	}
	s, err := strconv.Atoi(seq)
	if err != nil {
		return residue{}, rowErr(validate.Schema, lp, n, "residue number %q is not an integer", seq)
	}
	target, ts, ok := c.Binding.Map(ch, s)
	if !ok {
		return residue{}, rowErr(validate.Schema, lp, n, "chain %s is not in the molecular system", ch)
	}
	ac, as := c.Binding.Auth(ch, s)
	return residue{chain: target, seq: ts, comp: comp, authChain: ac, authSeq: as, ok: true}, nil
}

// nefResidue maps a STAR entity assembly and residue number. The
// author chain and number are those of the input.
func (c *Context) nefResidue(lp *star.Loop, n int, ch, seq, comp string) (residue, error) {
	if ch == "" || seq == "" {
		return residue{chain: ch, comp: comp}, nil
	}
	s, err := strconv.Atoi(seq)
	if err != nil {
		return residue{}, rowErr(validate.Schema, lp, n, "residue number %q is not an integer", seq)
	}
	target, ts, ok := c.Binding.Map(ch, s)
	if !ok {
		return residue{}, rowErr(validate.Schema, lp, n, "entity assembly %s is not in the assembly", ch)
	}
	return residue{chain: target, seq: ts, comp: comp, authChain: ch, authSeq: s, ok: true}, nil
}

// boolTags are the tags of a category that hold booleans.
func boolTags(d schema.Dialect, category string) map[string]bool {
	m := make(map[string]bool)
	ls, ok := schema.Loop(d, category)
	if !ok {
		return m
	}
	for _, it := range ls.All() {
		if it.Kind == schema.Bool {
			m[it.Name] = true
		}
	}
	return m
}

// starValue translates a plain value going to STAR.
func starValue(t tagmap.Tag, bools map[string]bool, v string) string {
	if bools[t.Data] {
		return schema.TranslateBool(schema.STAR, v)
	}
	return t.ToStar(v)
}

func nefValue(t tagmap.Tag, bools map[string]bool, v string) string {
	if bools[t.NEF] {
		return schema.TranslateBool(schema.NEF, v)
	}
	return t.ToNef(v)
}

// plainStar copies the tags of a NEF row that are not positions.
func plainStar(lm *tagmap.LoopMap, in cols, raw []string, o *out, r []string, bools map[string]bool) {
	for _, t := range lm.Tags {
		if isPositionTag(t) || !in.has(t.NEF) {
			continue
		}
		o.set(r, t.Data, starValue(t, bools, in.get(raw, t.NEF)))
	}
}

func plainNef(lm *tagmap.LoopMap, in cols, raw []string, o *out, r []string, bools map[string]bool) {
	for _, t := range lm.Tags {
		if isPositionTag(t) || !in.has(t.Data) {
			continue
		}
		o.set(r, t.NEF, nefValue(t, bools, in.get(raw, t.Data)))
	}
}

// starResidues maps every position of a NEF row and writes the residue
// columns, data and author. Atoms are left to the caller.
func (c *Context) starResidues(pos []position, in cols, raw []string, o *out, r []string, n int) ([]residue, error) {
	res := make([]residue, len(pos))
	for i, p := range pos {
		ch, seq, comp := in.get(raw, p.chain.NEF), in.get(raw, p.seq.NEF), in.get(raw, p.comp.NEF)
		rs, err := c.starResidue(in.lp, n, ch, seq, comp)
		if err != nil {
			return nil, err
		}
		res[i] = rs
		o.set(r, p.chain.Data, rs.chain)
		o.set(r, p.seq.Data, rs.seqText())
		o.set(r, p.comp.Data, comp)
		if rs.ok {
			o.set(r, p.chain.Auth, rs.authChain)
			o.set(r, p.seq.Auth, strconv.Itoa(rs.authSeq))
		} else {
			o.set(r, p.chain.Auth, ch)
			o.set(r, p.seq.Auth, seq)
		}
		o.set(r, p.comp.Auth, comp)
	}
	return res, nil
}

// nefResidues does the same for a STAR row. The residue name falls
// back on the author's.
func (c *Context) nefResidues(pos []position, in cols, raw []string, o *out, r []string, n int) ([]residue, error) {
	res := make([]residue, len(pos))
	for i, p := range pos {
		comp := in.get(raw, p.comp.Data)
		if comp == "" && p.comp.Auth != "" {
			comp = in.get(raw, p.comp.Auth)
		}
		rs, err := c.nefResidue(in.lp, n, in.get(raw, p.chain.Data), in.get(raw, p.seq.Data), comp)
		if err != nil {
			return nil, err
		}
		res[i] = rs
		o.set(r, p.chain.NEF, rs.chain)
		o.set(r, p.seq.NEF, rs.seqText())
		o.set(r, p.comp.NEF, comp)
	}
	return res, nil
}

// nefTagsFor lists the NEF tags of lm, in table order, that the input
// had or that are asked for.
func nefTagsFor(lm *tagmap.LoopMap, starTags []string, force ...string) []string {
	want := make(map[string]bool)
	for _, t := range lm.NefTags(starTags) {
		want[t] = true
	}
	for _, f := range force {
		want[f] = true
	}
	var tags []string
	for _, t := range lm.Tags {
		if want[t.NEF] {
			tags = append(tags, t.NEF)
			delete(want, t.NEF)
		}
	}
	return tags
}

// expand turns a NEF atom into STAR atoms. A name that cannot be
// expanded is an error, unless it may be left as it is; then details
// says why.
func (c *Context) expand(lp *star.Loop, n int, comp, atom string) (atoms []string, amb int, details string, err error) {
	if atom == "" {
		return []string{""}, 0, "", nil
	}
	r := c.Atoms.ToStar(comp, atom, atomname.Options{LeaveUnmatched: c.Opts.LeaveUnmatched})
	if r.Matched {
		return r.Atoms, r.Ambiguity, "", nil
	}
	if !c.Opts.LeaveUnmatched {
		return nil, 0, "", rowErr(validate.Nomenclature, lp, n, "%s", r.Details)
	}
	c.Report.Warnf(validate.Nomenclature, lp.Category, "", n+1, "%s, kept as it is", r.Details)
	return r.Atoms, 0, r.Details, nil
}
