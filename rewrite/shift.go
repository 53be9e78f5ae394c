package rewrite

import (
	"strconv"

	"github.com/andrew-torda/nefstar/atomname"
	"github.com/andrew-torda/nefstar/schema"
	"github.com/andrew-torda/nefstar/star"
	"github.com/andrew-torda/nefstar/tagmap"
	"github.com/andrew-torda/nefstar/validate"
)

// shiftKey identifies an atom for the one-shift-per-atom check. Rows
// with no residue never match each other, so row is set for them.
type shiftKey struct {
	atomKey
	row int
}

// ShiftToStar rewrites _nef_chemical_shift as _Atom_chem_shift. Each
// NEF atom becomes one row per atom it stands for, all with the same
// value and with the ambiguity code of the name. An atom already given
// a shift keeps the first one.
func ShiftToStar(c *Context, in *star.Loop, parent int) (*star.Loop, error) {
	lm := tagmap.ChemShift
	p := positionsOf(lm)[0]
	bools := boolTags(schema.STAR, lm.STAR)
	tags := lm.StarTags(append(append([]string(nil), in.Tags...), "element", "isotope_number"))
	if c.Opts.InsertOriginalPDB {
		tags = append(tags, tagmap.OriginalPDBTags...)
	}
	o := newOut(lm.STAR, tags)
	cl := colsOf(in)
	seen := make(map[shiftKey]int)
	for n, raw := range in.Data {
		base := o.row()
		plainStar(lm, cl, raw, o, base, bools)
		res, err := c.starResidues([]position{p}, cl, raw, o, base, n)
		if err != nil {
			return nil, err
		}
		rs := res[0]
		nefAtom := cl.get(raw, p.atom.NEF)
		atoms, amb, details, err := c.expand(in, n, rs.comp, nefAtom)
		if err != nil {
			return nil, err
		}
		if c.Opts.InsertOriginalPDB {
			o.set(base, "Original_PDB_strand_ID", cl.get(raw, p.chain.NEF))
			o.set(base, "Original_PDB_residue_no", cl.get(raw, p.seq.NEF))
			o.set(base, "Original_PDB_residue_name", rs.comp)
			o.set(base, "Original_PDB_atom_name", nefAtom)
		}
		element := cl.get(raw, "element")
		isotope := cl.get(raw, "isotope_number")
		for _, a := range atoms {
			k := shiftKey{atomKey: atomKey{rs.chain, rs.seq, a}}
			if !rs.ok {
				k.row = n + 1
			}
			if first, dup := seen[k]; dup {
				c.Report.Warnf(validate.Uniqueness, in.Category, p.atom.NEF, n+1,
					"%s %d %s already has a shift from row %d", rs.chain, rs.seq, a, first)
				continue
			}
			seen[k] = n + 1
			r := append([]string(nil), base...)
			o.set(r, p.atom.Data, a)
			o.set(r, p.atom.Auth, nefAtom)
			el, iso := element, isotope
			if el == "" {
				el = schema.ElementOf(a, rs.comp)
			}
			if iso == "" {
				if i, ok := schema.IsotopeOf(el); ok {
					iso = strconv.Itoa(i)
				}
			}
			o.set(r, "Atom_type", el)
			o.set(r, "Atom_isotope_number", iso)
			if amb > 0 {
				o.set(r, "Ambiguity_code", strconv.Itoa(amb))
			}
			o.set(r, "Details", details)
			o.set(r, "ID", strconv.Itoa(len(o.lp.Data)+1))
			c.tail(o, r, lm, parent)
			o.add(r)
		}
	}
	return o.lp, nil
}

// ShiftToNef rewrites _Atom_chem_shift as _nef_chemical_shift. The
// atoms of each residue are collapsed together, so methyl protons with
// one shift give one HX% row and stereo pairs that are not assigned
// stereospecifically give x and y. The names chosen are remembered for
// the restraint and peak loops that follow.
func ShiftToNef(c *Context, in *star.Loop) (*star.Loop, error) {
	lm := tagmap.ChemShift
	p := positionsOf(lm)[0]
	bools := boolTags(schema.NEF, lm.NEF)
	o := newOut(lm.NEF, nefTagsFor(lm, in.Tags,
		"chain_code", "sequence_code", "residue_name", "atom_name", "value"))
	cl := colsOf(in)

	type group struct {
		rows  []int
		atoms []atomname.StarAtom
	}
	groups := make(map[resKey]*group)
	var order []resKey
	for n, raw := range in.Data {
		k := resKey{cl.get(raw, p.chain.Data), cl.get(raw, p.seq.Data)}
		g, ok := groups[k]
		if !ok {
			g = &group{}
			groups[k] = g
			order = append(order, k)
		}
		a := atomname.StarAtom{ID: cl.get(raw, p.atom.Data)}
		if a.ID == "" {
			a.ID = cl.get(raw, p.atom.Auth)
		}
		a.Ambiguity, _ = strconv.Atoi(cl.get(raw, "Ambiguity_code"))
		if v, err := strconv.ParseFloat(cl.get(raw, "Val"), 64); err == nil {
			a.Value, a.HasValue = v, true
		}
		g.rows = append(g.rows, n)
		g.atoms = append(g.atoms, a)
	}

	for _, k := range order {
		g := groups[k]
		first := g.rows[0]
		raw0 := in.Data[first]
		comp := cl.get(raw0, p.comp.Data)
		if comp == "" {
			comp = cl.get(raw0, p.comp.Auth)
		}
		rs, err := c.nefResidue(in, first, k.chain, k.seq, comp)
		if err != nil {
			return nil, err
		}
		rowOf := make(map[string]int, len(g.rows))
		for i, a := range g.atoms {
			if _, ok := rowOf[a.ID]; !ok {
				rowOf[a.ID] = g.rows[i]
			}
		}
		names, byAtom := c.Atoms.ToNef(comp, g.atoms)
		if rs.ok {
			for a, nm := range byAtom {
				c.atomMap[atomKey{k.chain, rs.authSeq, a}] = nm
			}
		}
		for _, nm := range names {
			raw := in.Data[rowOf[nm.Members[0]]]
			r := o.row()
			plainNef(lm, cl, raw, o, r, bools)
			o.set(r, p.chain.NEF, rs.chain)
			o.set(r, p.seq.NEF, rs.seqText())
			o.set(r, p.comp.NEF, comp)
			o.set(r, p.atom.NEF, nm.Name)
			if cl.get(raw, "Atom_type") == "" {
				o.set(r, "element", schema.ElementOf(nm.Members[0], comp))
			}
			o.add(r)
		}
	}
	return o.lp, nil
}
