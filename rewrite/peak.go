package rewrite

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/andrew-torda/nefstar/schema"
	"github.com/andrew-torda/nefstar/star"
	"github.com/andrew-torda/nefstar/tagmap"
	"github.com/andrew-torda/nefstar/validate"
)

// peakDims is the number of dimensions a flat peak loop uses: the
// highest position column it has.
func peakDims(lp *star.Loop, position string) int {
	n := 0
	for i := 1; i <= schema.MaxPeakDim; i++ {
		if lp.HasTag(schema.Suffix(position, i)) {
			n = i
		}
	}
	return n
}

func peakForce(pos []position, ndim int) []string {
	force := []string{"index", "peak_id"}
	for i := 1; i <= ndim; i++ {
		p := pos[i-1]
		force = append(force, schema.Suffix("position", i), schema.Suffix("position_uncertainty", i),
			p.chain.NEF, p.seq.NEF, p.comp.NEF, p.atom.NEF)
	}
	return force
}

// PeakToStar rewrites _nef_peak as _Peak_row_format. Positions,
// heights and volumes are copied; assigned atoms are expanded, one row
// for each combination, as for restraints.
func PeakToStar(c *Context, in *star.Loop, parent int) (*star.Loop, error) {
	lm := tagmap.Peak
	ndim := peakDims(in, "position")
	pos := positionsOf(lm)[:ndim]
	bools := boolTags(schema.STAR, lm.STAR)
	o := newOut(lm.STAR, lm.StarTags(in.Tags))
	cl := colsOf(in)
	seen := make(map[string]bool)
	for n, raw := range in.Data {
		base := o.row()
		plainStar(lm, cl, raw, o, base, bools)
		res, err := c.starResidues(pos, cl, raw, o, base, n)
		if err != nil {
			return nil, err
		}
		lists := make([][]string, len(pos))
		var details []string
		for i, p := range pos {
			atoms, _, d, err := c.expand(in, n, res[i].comp, cl.get(raw, p.atom.NEF))
			if err != nil {
				return nil, err
			}
			lists[i] = atoms
			if d != "" {
				details = append(details, d)
			}
		}
		for _, atoms := range product(lists) {
			parts := []string{cl.get(raw, "peak_id")}
			for i, a := range atoms {
				parts = append(parts, res[i].chain, res[i].seqText(), a)
			}
			k := strings.Join(parts, "\x00")
			if seen[k] {
				continue
			}
			seen[k] = true
			r := append([]string(nil), base...)
			for i, p := range pos {
				o.set(r, p.atom.Data, atoms[i])
				o.set(r, p.atom.Auth, cl.get(raw, p.atom.NEF))
			}
			o.set(r, "Index_ID", strconv.Itoa(len(o.lp.Data)+1))
			o.set(r, "Details", strings.Join(details, "; "))
			c.tail(o, r, lm, parent)
			o.add(r)
		}
	}
	return o.lp, nil
}

// PeakToNef rewrites _Peak_row_format as _nef_peak.
func PeakToNef(c *Context, in *star.Loop) (*star.Loop, error) {
	lm := tagmap.Peak
	ndim := peakDims(in, "Position")
	pos := positionsOf(lm)[:ndim]
	bools := boolTags(schema.NEF, lm.NEF)
	o := newOut(lm.NEF, nefTagsFor(lm, in.Tags, peakForce(pos, ndim)...))
	cl := colsOf(in)
	iIdx := o.idx["index"]
	seen := make(map[string]bool)
	for n, raw := range in.Data {
		r := o.row()
		plainNef(lm, cl, raw, o, r, bools)
		res, err := c.nefResidues(pos, cl, raw, o, r, n)
		if err != nil {
			return nil, err
		}
		for i, p := range pos {
			o.set(r, p.atom.NEF, c.nefAtomOf(res[i], cl, raw, p))
		}
		r[iIdx] = ""
		k := strings.Join(r, "\x00")
		if seen[k] {
			continue
		}
		seen[k] = true
		r[iIdx] = strconv.Itoa(len(o.lp.Data) + 1)
		o.add(r)
	}
	return o.lp, nil
}

// assignment is one row of _Assigned_peak_chem_shift.
type assignment struct {
	chain, seq, comp, atom string
}

type peakDim struct {
	pos, err string
	assign   []assignment
}

type canonPeak struct {
	id                string
	height, heightErr string
	volume, volumeErr string
	dims              map[int]*peakDim
	sets              map[string]map[int]assignment
	setOrder          []string
}

func (p *canonPeak) dim(d int) *peakDim {
	pd, ok := p.dims[d]
	if !ok {
		pd = &peakDim{}
		p.dims[d] = pd
	}
	return pd
}

// HasCanonicalPeaks is true when a save frame keeps its peaks in the
// STAR peak tables rather than the row format.
func HasCanonicalPeaks(sf *star.Saveframe) bool {
	return sf.GetLoop("_Peak_char") != nil || sf.GetLoop("_Assigned_peak_chem_shift") != nil
}

// CanonicalPeakToNef joins the STAR peak tables of a save frame,
// _Peak, _Peak_general_char, _Peak_char and _Assigned_peak_chem_shift,
// by peak and spectral dimension into one _nef_peak loop. A peak with
// assignment sets gives a row per set; without sets, a row per
// combination of the atoms assigned to each dimension. ndim of 0 means
// as many dimensions as the tables use.
func CanonicalPeakToNef(c *Context, sf *star.Saveframe, ndim int) (*star.Loop, error) {
	if ndim < 0 || ndim > schema.MaxPeakDim {
		return nil, &RowError{
			Kind:     validate.Schema,
			Category: sf.TagPrefix,
			Msg:      fmt.Sprintf("%d spectral dimensions, at most %d allowed", ndim, schema.MaxPeakDim),
		}
	}
	peaks := make(map[string]*canonPeak)
	var order []string
	get := func(id string) *canonPeak {
		p, ok := peaks[id]
		if !ok {
			p = &canonPeak{id: id, dims: make(map[int]*peakDim), sets: make(map[string]map[int]assignment)}
			peaks[id] = p
			order = append(order, id)
		}
		return p
	}
	dimOf := func(lp *star.Loop, cl cols, raw []string, n int) (int, error) {
		d, err := strconv.Atoi(cl.get(raw, "Spectral_dim_ID"))
		if err != nil || d < 1 || d > schema.MaxPeakDim {
			return 0, rowErr(validate.Schema, lp, n, "bad spectral dimension %q", cl.get(raw, "Spectral_dim_ID"))
		}
		if d > ndim {
			ndim = d
		}
		return d, nil
	}
	if lp := sf.GetLoop("_Peak"); lp != nil {
		for _, id := range lp.Col("ID") {
			if !star.IsEmpty(id) {
				get(id)
			}
		}
	}
	if lp := sf.GetLoop("_Peak_general_char"); lp != nil {
		cl := colsOf(lp)
		for _, raw := range lp.Data {
			p := get(cl.get(raw, "Peak_ID"))
			v, e := cl.get(raw, "Intensity_val"), cl.get(raw, "Intensity_val_err")
			if strings.Contains(strings.ToLower(cl.get(raw, "Measurement_method")), "volume") {
				p.volume, p.volumeErr = v, e
			} else {
				p.height, p.heightErr = v, e
			}
		}
	}
	if lp := sf.GetLoop("_Peak_char"); lp != nil {
		cl := colsOf(lp)
		for n, raw := range lp.Data {
			d, err := dimOf(lp, cl, raw, n)
			if err != nil {
				return nil, err
			}
			pd := get(cl.get(raw, "Peak_ID")).dim(d)
			pd.pos, pd.err = cl.get(raw, "Chem_shift_val"), cl.get(raw, "Chem_shift_val_err")
		}
	}
	if lp := sf.GetLoop("_Assigned_peak_chem_shift"); lp != nil {
		cl := colsOf(lp)
		for n, raw := range lp.Data {
			d, err := dimOf(lp, cl, raw, n)
			if err != nil {
				return nil, err
			}
			a := assignment{
				chain: cl.get(raw, "Entity_assembly_ID"), seq: cl.get(raw, "Comp_index_ID"),
				comp: cl.get(raw, "Comp_ID"), atom: cl.get(raw, "Atom_ID"),
			}
			if a.comp == "" {
				a.comp = cl.get(raw, "Auth_comp_ID")
			}
			if a.atom == "" {
				a.atom = cl.get(raw, "Auth_atom_ID")
			}
			p := get(cl.get(raw, "Peak_ID"))
			if set := cl.get(raw, "Set_ID"); set != "" {
				if _, ok := p.sets[set]; !ok {
					p.sets[set] = make(map[int]assignment)
					p.setOrder = append(p.setOrder, set)
				}
				p.sets[set][d] = a
				continue
			}
			pd := p.dim(d)
			pd.assign = append(pd.assign, a)
		}
	}

	lm := tagmap.Peak
	pos := positionsOf(lm)[:ndim]
	force := peakForce(pos, ndim)
	for _, p := range peaks {
		if p.height != "" {
			force = append(force, "height", "height_uncertainty")
		}
		if p.volume != "" {
			force = append(force, "volume", "volume_uncertainty")
		}
	}
	o := newOut(lm.NEF, nefTagsFor(lm, nil, force...))
	for _, id := range order {
		p := peaks[id]
		var combos []map[int]assignment
		if len(p.setOrder) > 0 {
			for _, s := range p.setOrder {
				combos = append(combos, p.sets[s])
			}
		} else {
			combos = p.combinations(ndim)
		}
		for _, combo := range combos {
			r := o.row()
			o.set(r, "index", strconv.Itoa(len(o.lp.Data)+1))
			o.set(r, "peak_id", p.id)
			o.set(r, "height", p.height)
			o.set(r, "height_uncertainty", p.heightErr)
			o.set(r, "volume", p.volume)
			o.set(r, "volume_uncertainty", p.volumeErr)
			for d := 1; d <= ndim; d++ {
				if pd, ok := p.dims[d]; ok {
					o.set(r, schema.Suffix("position", d), pd.pos)
					o.set(r, schema.Suffix("position_uncertainty", d), pd.err)
				}
				a, ok := combo[d]
				if !ok {
					continue
				}
				rs, err := c.nefResidue(o.lp, len(o.lp.Data), a.chain, a.seq, a.comp)
				if err != nil {
					return nil, err
				}
				pp := pos[d-1]
				o.set(r, pp.chain.NEF, rs.chain)
				o.set(r, pp.seq.NEF, rs.seqText())
				o.set(r, pp.comp.NEF, a.comp)
				atom := a.atom
				if rs.ok && atom != "" {
					atom = c.NefAtom(rs.authChain, rs.authSeq, a.comp, atom)
				}
				o.set(r, pp.atom.NEF, atom)
			}
			o.add(r)
		}
	}
	return o.lp, nil
}

// combinations of the atoms assigned to each dimension, dimensions in
// order. A peak with no assignment gives one empty combination.
func (p *canonPeak) combinations(ndim int) []map[int]assignment {
	combos := []map[int]assignment{{}}
	dims := make([]int, 0, len(p.dims))
	for d := range p.dims {
		dims = append(dims, d)
	}
	sort.Ints(dims)
	for _, d := range dims {
		as := p.dims[d].assign
		if len(as) == 0 || d > ndim {
			continue
		}
		var next []map[int]assignment
		for _, cmb := range combos {
			for _, a := range as {
				m := make(map[int]assignment, len(cmb)+1)
				for k, v := range cmb {
					m[k] = v
				}
				m[d] = a
				next = append(next, m)
			}
		}
		combos = next
	}
	return combos
}
