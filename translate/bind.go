package translate

import (
	"strings"

	"github.com/andrew-torda/nefstar/chain"
	"github.com/andrew-torda/nefstar/schema"
	"github.com/andrew-torda/nefstar/star"
	"github.com/andrew-torda/nefstar/tagmap"
	"github.com/andrew-torda/nefstar/validate"
)

// resCols names the chain, residue number and residue name columns of
// one place in a loop. sfx is "" or "_1", "_2"...
type resCols struct {
	chain, seq, comp, sfx string
}

// residueColumns lists the places of a loop map in dialect d.
func residueColumns(lm *tagmap.LoopMap, d schema.Dialect) []resCols {
	var cs []resCols
	for _, t := range lm.Tags {
		if !strings.HasPrefix(t.NEF, "chain_code") {
			continue
		}
		sfx := strings.TrimPrefix(t.NEF, "chain_code")
		if d == schema.NEF {
			cs = append(cs, resCols{t.NEF, "sequence_code" + sfx, "residue_name" + sfx, sfx})
		} else {
			cs = append(cs, resCols{t.Data, "Comp_index_ID" + sfx, "Comp_ID" + sfx, sfx})
		}
	}
	return cs
}

func loopMap(d schema.Dialect, category string) *tagmap.LoopMap {
	if d == schema.NEF {
		return tagmap.LoopByNEF(category)
	}
	return tagmap.LoopBySTAR(category)
}

// eachLoop calls fn for every loop of the input with residue columns,
// once per place.
func (r *run) eachLoop(fn func(lp *star.Loop, c resCols)) {
	for _, sf := range r.in.Entry.Frames {
		for _, lp := range sf.Loops {
			if lm := loopMap(r.from, lp.Category); lm != nil {
				for _, c := range residueColumns(lm, r.from) {
					fn(lp, c)
				}
				continue
			}
			if r.from == schema.STAR && strings.EqualFold(lp.Category, "_Assigned_peak_chem_shift") {
				fn(lp, resCols{"Entity_assembly_ID", "Comp_index_ID", "Comp_ID", ""})
			}
		}
	}
}

// inventory collects the chains of the input. The sequence loops are
// enough when there are any; otherwise every residue any loop names
// goes in.
func (r *run) inventory() (*chain.Inventory, error) {
	inv := chain.NewInventory()
	seq := resCols{"chain_code", "sequence_code", "residue_name", ""}
	if r.from == schema.STAR {
		seq = resCols{"Entity_assembly_ID", "Comp_index_ID", "Comp_ID", ""}
	}
	seqLoops := r.in.Entry.LoopsByCategory(loopCategory(tagmap.Sequence, r.from))
	for _, lp := range seqLoops {
		if err := inv.AddLoop(lp, seq.chain, seq.seq, seq.comp); err != nil {
			return nil, err
		}
	}
	if len(seqLoops) > 0 {
		return inv, nil
	}
	var err error
	r.eachLoop(func(lp *star.Loop, c resCols) {
		if err != nil || !lp.HasTag(c.chain) || !lp.HasTag(c.seq) {
			return
		}
		comp := c.comp
		if !lp.HasTag(comp) {
			comp = ""
		}
		err = inv.AddLoop(lp, c.chain, c.seq, comp)
	})
	if err != nil {
		return nil, err
	}
	if inv.Len() == 0 {
		r.rep.Warnf(validate.Structural, "", "", 0, "no residues found")
	}
	return inv, nil
}

func loopCategory(lm *tagmap.LoopMap, d schema.Dialect) string {
	if d == schema.NEF {
		return lm.NEF
	}
	return lm.STAR
}

// bind builds the chain binding of the run. NMR-STAR input may be
// rescued first.
func (r *run) bind() (*chain.Binding, error) {
	o := r.t.opts
	copts := chain.Options{BMRBOnly: o.BMRBOnly, Coords: o.Coords}
	if r.from == schema.NEF {
		inv, err := r.inventory()
		if err != nil {
			return nil, err
		}
		return chain.NefToStar(inv, copts), nil
	}

	if o.Rescue && o.ResetAuthSeq && o.Coords != nil {
		r.eachLoop(func(lp *star.Loop, c resCols) {
			cols := chain.StarColumns(strings.TrimPrefix(c.sfx, "_"))
			for _, msg := range chain.ResetAuthSeq(lp, cols, o.Coords) {
				r.note(lp.Category, msg)
			}
		})
	}
	inv, err := r.inventory()
	if err != nil {
		return nil, err
	}
	if o.Rescue && o.AdoptAuthChain {
		r.eachLoop(func(lp *star.Loop, c resCols) {
			if strings.EqualFold(lp.Category, tagmap.Sequence.STAR) {
				return
			}
			cols := chain.StarColumns(strings.TrimPrefix(c.sfx, "_"))
			msgs, err := chain.AdoptAuthChain(lp, cols, inv)
			if err != nil {
				r.rep.Warnf(validate.Rescue, lp.Category, cols.Chain, 0, "%v", err)
				return
			}
			for _, msg := range msgs {
				r.note(lp.Category, msg)
			}
		})
	}
	return chain.StarToNef(inv, copts), nil
}

// note records something a rescue changed.
func (r *run) note(category, msg string) {
	r.rep.Add(validate.Issue{Kind: validate.Rescue, Category: category, Msg: msg})
	r.t.log.Printf("%s: %s", category, msg)
}
