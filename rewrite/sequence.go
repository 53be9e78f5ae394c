package rewrite

import (
	"strconv"
	"strings"

	"github.com/andrew-torda/nefstar/atomname"
	"github.com/andrew-torda/nefstar/schema"
	"github.com/andrew-torda/nefstar/star"
	"github.com/andrew-torda/nefstar/tagmap"
	"github.com/andrew-torda/nefstar/validate"
)

var deletedTags = []string{
	"ID", "Entity_assembly_ID", "Comp_index_ID", "Comp_ID", "Atom_ID",
	"Auth_asym_ID", "Auth_seq_ID", "Auth_atom_ID", "Assembly_ID", "Entry_ID",
}

// deletions are the atoms a residue variant such as "-H3,+HD1"
// removes, as written.
func deletions(variant string) []string {
	var del []string
	for _, tok := range strings.Split(variant, ",") {
		tok = strings.TrimSpace(tok)
		if len(tok) > 1 && tok[0] == '-' {
			del = append(del, tok[1:])
		}
	}
	return del
}

// SequenceToStar rewrites _nef_sequence as _Chem_comp_assembly. Atoms
// that a residue variant removes go to a second loop,
// _Entity_deleted_atom, which is nil if there are none.
func SequenceToStar(c *Context, in *star.Loop, parent int) (seq, deleted *star.Loop, err error) {
	lm := tagmap.Sequence
	pos := positionsOf(lm)
	bools := boolTags(schema.STAR, lm.STAR)
	o := newOut(lm.STAR, lm.StarTags(in.Tags))
	del := newOut(tagmap.DeletedAtom, deletedTags)
	cl := colsOf(in)
	for n, raw := range in.Data {
		r := o.row()
		plainStar(lm, cl, raw, o, r, bools)
		res, err := c.starResidues(pos, cl, raw, o, r, n)
		if err != nil {
			return nil, nil, err
		}
		c.tail(o, r, lm, parent)
		o.add(r)

		rs := res[0]
		for _, name := range deletions(cl.get(raw, "residue_variant")) {
			x := c.Atoms.ToStar(rs.comp, name, atomname.Options{LeaveUnmatched: true})
			if !x.Matched {
				c.Report.Warnf(validate.Nomenclature, in.Category, "residue_variant", n+1, "%s, kept as it is", x.Details)
			}
			for _, a := range x.Atoms {
				d := del.row()
				del.set(d, "ID", strconv.Itoa(len(del.lp.Data)+1))
				del.set(d, "Entity_assembly_ID", rs.chain)
				del.set(d, "Comp_index_ID", rs.seqText())
				del.set(d, "Comp_ID", rs.comp)
				del.set(d, "Atom_ID", a)
				del.set(d, "Auth_asym_ID", rs.authChain)
				if rs.ok {
					del.set(d, "Auth_seq_ID", strconv.Itoa(rs.authSeq))
				}
				del.set(d, "Auth_atom_ID", name)
				del.set(d, "Assembly_ID", strconv.Itoa(parent))
				del.set(d, "Entry_ID", c.Opts.EntryID)
				del.add(d)
			}
		}
	}
	if len(del.lp.Data) > 0 {
		deleted = del.lp
	}
	return o.lp, deleted, nil
}

type resKey struct {
	chain string
	seq   string
}

// SequenceToNef rewrites _Chem_comp_assembly as _nef_sequence. The
// index runs 1, 2, ... whether or not the input had one. A residue with
// no author variant gets one made from the deleted atoms, which may be
// nil.
func SequenceToNef(c *Context, in, deleted *star.Loop) (*star.Loop, error) {
	lm := tagmap.Sequence
	pos := positionsOf(lm)
	bools := boolTags(schema.NEF, lm.NEF)
	force := []string{"index", "chain_code", "sequence_code", "residue_name"}

	gone := make(map[resKey][]atomname.StarAtom)
	if deleted != nil {
		dc := colsOf(deleted)
		for _, raw := range deleted.Data {
			k := resKey{dc.get(raw, "Entity_assembly_ID"), dc.get(raw, "Comp_index_ID")}
			if a := dc.get(raw, "Atom_ID"); a != "" {
				gone[k] = append(gone[k], atomname.StarAtom{ID: a, Ambiguity: 1})
			}
		}
		if len(gone) > 0 {
			force = append(force, "residue_variant")
		}
	}

	o := newOut(lm.NEF, nefTagsFor(lm, in.Tags, force...))
	cl := colsOf(in)
	for n, raw := range in.Data {
		r := o.row()
		plainNef(lm, cl, raw, o, r, bools)
		res, err := c.nefResidues(pos, cl, raw, o, r, n)
		if err != nil {
			return nil, err
		}
		o.set(r, "index", strconv.Itoa(n+1))
		if cl.get(raw, "Auth_variant_ID") == "" {
			k := resKey{cl.get(raw, "Entity_assembly_ID"), cl.get(raw, "Comp_index_ID")}
			if atoms := gone[k]; len(atoms) > 0 {
				names, _ := c.Atoms.ToNef(res[0].comp, atoms)
				var parts []string
				for _, nm := range names {
					parts = append(parts, "-"+nm.Name)
				}
				o.set(r, "residue_variant", strings.Join(parts, ","))
			}
		}
		o.add(r)
	}
	return o.lp, nil
}
