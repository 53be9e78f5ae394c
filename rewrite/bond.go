package rewrite

import (
	"strconv"
	"strings"

	"github.com/andrew-torda/nefstar/schema"
	"github.com/andrew-torda/nefstar/star"
	"github.com/andrew-torda/nefstar/tagmap"
)

var metals = map[string]bool{
	"LI": true, "NA": true, "K": true, "MG": true, "CA": true, "MN": true, "FE": true,
	"CO": true, "NI": true, "CU": true, "ZN": true, "CD": true, "HG": true,
}

// isMetal looks at the residue first: atom FE of residue FE is iron,
// atom CA of an amino acid is carbon.
func isMetal(comp, atom string) bool {
	comp, atom = strings.ToUpper(comp), strings.ToUpper(atom)
	if metals[comp] && strings.HasPrefix(atom, comp) {
		return true
	}
	return metals[schema.ElementOf(atom, comp)]
}

type bondEnd struct {
	chain string
	seq   int
	comp  string
	atom  string
}

// bondType guesses the kind of a bond from the two atoms.
func bondType(a, b bondEnd) string {
	switch {
	case a.atom == "SG" && b.atom == "SG":
		return "disulfide"
	case a.atom == "SE" && b.atom == "SE":
		return "diselenide"
	case isMetal(a.comp, a.atom) != isMetal(b.comp, b.atom):
		return "metal coordination"
	}
	if a.chain == b.chain {
		if a.atom == "N" && b.atom == "C" {
			a, b = b, a
		}
		if a.atom == "C" && b.atom == "N" && b.seq-a.seq == 1 {
			return "peptide"
		}
	}
	return "covalent"
}

// BondToStar rewrites _nef_covalent_links as _Bond. A link between
// atom groups becomes one bond per pair of atoms; bonds listed twice
// are kept once.
func BondToStar(c *Context, in *star.Loop, parent int) (*star.Loop, error) {
	lm := tagmap.Bond
	pos := positionsOf(lm)
	o := newOut(lm.STAR, lm.StarTags(in.Tags))
	cl := colsOf(in)
	seen := make(map[string]bool)
	for n, raw := range in.Data {
		base := o.row()
		res, err := c.starResidues(pos, cl, raw, o, base, n)
		if err != nil {
			return nil, err
		}
		var ends [2][]bondEnd
		for i := range ends {
			nefAtom := cl.get(raw, pos[i].atom.NEF)
			atoms, _, _, err := c.expand(in, n, res[i].comp, nefAtom)
			if err != nil {
				return nil, err
			}
			for _, a := range atoms {
				ends[i] = append(ends[i], bondEnd{res[i].chain, res[i].seq, res[i].comp, a})
			}
		}
		for _, a := range ends[0] {
			for _, b := range ends[1] {
				k := strings.Join([]string{a.chain, strconv.Itoa(a.seq), a.atom, b.chain, strconv.Itoa(b.seq), b.atom}, "\x00")
				if seen[k] {
					continue
				}
				seen[k] = true
				r := append([]string(nil), base...)
				o.set(r, pos[0].atom.Data, a.atom)
				o.set(r, pos[1].atom.Data, b.atom)
				o.set(r, pos[0].atom.Auth, cl.get(raw, pos[0].atom.NEF))
				o.set(r, pos[1].atom.Auth, cl.get(raw, pos[1].atom.NEF))
				o.set(r, "ID", strconv.Itoa(len(o.lp.Data)+1))
				o.set(r, "Type", bondType(a, b))
				o.set(r, "Value_order", "sing")
				c.tail(o, r, lm, parent)
				o.add(r)
			}
		}
	}
	return o.lp, nil
}

// BondToNef rewrites _Bond as _nef_covalent_links. Methyl protons
// collapse to their group, so rows may merge.
func BondToNef(c *Context, in *star.Loop) (*star.Loop, error) {
	lm := tagmap.Bond
	pos := positionsOf(lm)
	var force []string
	for _, p := range pos {
		force = append(force, p.chain.NEF, p.seq.NEF, p.comp.NEF, p.atom.NEF)
	}
	o := newOut(lm.NEF, nefTagsFor(lm, in.Tags, force...))
	cl := colsOf(in)
	seen := make(map[string]bool)
	for n, raw := range in.Data {
		r := o.row()
		res, err := c.nefResidues(pos, cl, raw, o, r, n)
		if err != nil {
			return nil, err
		}
		for i, p := range pos {
			o.set(r, p.atom.NEF, c.nefAtomOf(res[i], cl, raw, p))
		}
		k := strings.Join(r, "\x00")
		if seen[k] {
			continue
		}
		seen[k] = true
		o.add(r)
	}
	return o.lp, nil
}

// nefAtomOf reads the atom of one position of a STAR row and gives its
// NEF name.
func (c *Context) nefAtomOf(rs residue, cl cols, raw []string, p position) string {
	atom := cl.get(raw, p.atom.Data)
	if atom == "" && p.atom.Auth != "" {
		return cl.get(raw, p.atom.Auth)
	}
	if atom == "" || !rs.ok {
		return atom
	}
	return c.NefAtom(rs.authChain, rs.authSeq, rs.comp, atom)
}
