package rewrite

import (
	"strconv"

	"github.com/andrew-torda/nefstar/schema"
	"github.com/andrew-torda/nefstar/star"
	"github.com/andrew-torda/nefstar/tagmap"
)

// CopyToStar translates a loop tag for tag. Chains and residues are
// mapped, booleans and enumerated values translated and atom names
// left alone.
func CopyToStar(c *Context, lm *tagmap.LoopMap, in *star.Loop, parent int) (*star.Loop, error) {
	pos := positionsOf(lm)
	bools := boolTags(schema.STAR, lm.STAR)
	o := newOut(lm.STAR, lm.StarTags(in.Tags))
	cl := colsOf(in)
	for n, raw := range in.Data {
		r := o.row()
		plainStar(lm, cl, raw, o, r, bools)
		if _, err := c.starResidues(pos, cl, raw, o, r, n); err != nil {
			return nil, err
		}
		for _, p := range pos {
			o.set(r, p.atom.Data, cl.get(raw, p.atom.NEF))
			o.set(r, p.atom.Auth, cl.get(raw, p.atom.NEF))
		}
		c.tail(o, r, lm, parent)
		o.add(r)
	}
	return o.lp, nil
}

// CopyToNef is CopyToStar the other way.
func CopyToNef(c *Context, lm *tagmap.LoopMap, in *star.Loop) (*star.Loop, error) {
	pos := positionsOf(lm)
	bools := boolTags(schema.NEF, lm.NEF)
	o := newOut(lm.NEF, nefTagsFor(lm, in.Tags))
	cl := colsOf(in)
	for n, raw := range in.Data {
		r := o.row()
		plainNef(lm, cl, raw, o, r, bools)
		if _, err := c.nefResidues(pos, cl, raw, o, r, n); err != nil {
			return nil, err
		}
		for _, p := range pos {
			o.set(r, p.atom.NEF, cl.get(raw, p.atom.Data))
		}
		o.add(r)
	}
	return o.lp, nil
}

// SpectralDimToStar rewrites _nef_spectrum_dimension. The atom type
// and isotope of each dimension come from its axis code.
func SpectralDimToStar(c *Context, in *star.Loop, parent int) (*star.Loop, error) {
	lp, err := CopyToStar(c, tagmap.SpectrumDim, in, parent)
	if err != nil {
		return nil, err
	}
	for n := range lp.Data {
		el, iso, ok := schema.ElementFromAxis(lp.Value(n, "Axis_code"))
		if !ok {
			continue
		}
		lp.Set(n, "Atom_type", el)
		lp.Set(n, "Atom_isotope_number", strconv.Itoa(iso))
	}
	return lp, nil
}

// LoopToStar picks the rewriter for a NEF loop of a save frame. Loops
// with no STAR form give nil. The sequence loop is not handled here
// because it gives two loops.
func LoopToStar(c *Context, in *star.Loop, parent int) (*star.Loop, error) {
	lm := tagmap.LoopByNEF(in.Category)
	if lm == nil {
		return nil, nil
	}
	switch lm {
	case tagmap.Bond:
		return BondToStar(c, in, parent)
	case tagmap.ChemShift:
		return ShiftToStar(c, in, parent)
	case tagmap.Distance, tagmap.Dihedral, tagmap.RDC:
		return RestraintToStar(c, lm, in, parent)
	case tagmap.Peak:
		return PeakToStar(c, in, parent)
	case tagmap.SpectrumDim:
		return SpectralDimToStar(c, in, parent)
	}
	return CopyToStar(c, lm, in, parent)
}

// LoopToNef picks the rewriter for a STAR loop.
func LoopToNef(c *Context, in *star.Loop) (*star.Loop, error) {
	lm := tagmap.LoopBySTAR(in.Category)
	if lm == nil {
		return nil, nil
	}
	switch lm {
	case tagmap.Bond:
		return BondToNef(c, in)
	case tagmap.ChemShift:
		return ShiftToNef(c, in)
	case tagmap.Distance, tagmap.Dihedral, tagmap.RDC:
		return RestraintToNef(c, lm, in)
	case tagmap.Peak:
		return PeakToNef(c, in)
	}
	return CopyToNef(c, lm, in)
}
