package rewrite

import (
	"sort"
	"strconv"
	"strings"

	"github.com/andrew-torda/nefstar/schema"
	"github.com/andrew-torda/nefstar/star"
	"github.com/andrew-torda/nefstar/tagmap"
)

// emptyColumn is true when no row has a value for the tag.
func emptyColumn(lp *star.Loop, tag string) bool {
	j := lp.TagIndex(tag)
	if j < 0 {
		return true
	}
	for _, raw := range lp.Data {
		if !star.IsEmpty(raw[j]) {
			return false
		}
	}
	return true
}

// withoutEmpty drops the named tags from a tag list when their columns
// hold nothing.
func withoutEmpty(lp *star.Loop, tags []string, names ...string) []string {
	drop := make(map[string]bool)
	for _, n := range names {
		if emptyColumn(lp, n) {
			drop[strings.ToLower(n)] = true
		}
	}
	var kept []string
	for _, t := range tags {
		if !drop[strings.ToLower(t)] {
			kept = append(kept, t)
		}
	}
	return kept
}

// product gives every combination of one atom from each position, in
// lexicographic order.
func product(lists [][]string) [][]string {
	combos := [][]string{nil}
	for _, l := range lists {
		sorted := append([]string(nil), l...)
		sort.Strings(sorted)
		var next [][]string
		for _, c := range combos {
			for _, a := range sorted {
				next = append(next, append(append([]string(nil), c...), a))
			}
		}
		combos = next
	}
	return combos
}

// selfPair is true when two positions of a combination name the same
// atom of the same residue.
func selfPair(res []residue, atoms []string) bool {
	for i := range atoms {
		for j := i + 1; j < len(atoms); j++ {
			if atoms[i] != "" && atoms[i] == atoms[j] && res[i].chain == res[j].chain && res[i].seq == res[j].seq {
				return true
			}
		}
	}
	return false
}

type memberRow struct {
	id  string
	row []string
}

// RestraintToStar rewrites a distance, dihedral or RDC restraint loop.
// Rows are taken a restraint ID at a time. Every atom position is
// expanded and each combination of the expanded atoms becomes a row,
// less the combinations that pair an atom with itself and repeats of
// one already made. A restraint with more than one row has its rows
// joined by OR. An empty combination ID column is left out.
func RestraintToStar(c *Context, lm *tagmap.LoopMap, in *star.Loop, parent int) (*star.Loop, error) {
	pos := positionsOf(lm)
	bools := boolTags(schema.STAR, lm.STAR)
	inTags := withoutEmpty(in, in.Tags, "restraint_combination_id")
	o := newOut(lm.STAR, lm.StarTags(inTags))
	cl := colsOf(in)

	var members []memberRow
	counts := make(map[string]int)
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
		id := cl.get(raw, "restraint_id")
		comb := cl.get(raw, "restraint_combination_id")
		for _, atoms := range product(lists) {
			if selfPair(res, atoms) {
				continue
			}
			parts := []string{id, comb}
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
			o.set(r, "Details", strings.Join(details, "; "))
			c.tail(o, r, lm, parent)
			members = append(members, memberRow{id: id, row: r})
			counts[id]++
		}
	}
	for i, m := range members {
		o.set(m.row, "Index_ID", strconv.Itoa(i+1))
		if counts[m.id] > 1 {
			o.set(m.row, "Member_logic_code", "OR")
		}
		o.add(m.row)
	}
	return o.lp, nil
}

// RestraintToNef rewrites a STAR restraint loop. Atoms take the names
// given to them in the shift list; rows that then say the same thing
// are kept once.
func RestraintToNef(c *Context, lm *tagmap.LoopMap, in *star.Loop) (*star.Loop, error) {
	pos := positionsOf(lm)
	bools := boolTags(schema.NEF, lm.NEF)
	force := []string{"index", "restraint_id"}
	for _, p := range pos {
		force = append(force, p.chain.NEF, p.seq.NEF, p.comp.NEF, p.atom.NEF)
	}
	inTags := withoutEmpty(in, in.Tags, "Combination_ID")
	o := newOut(lm.NEF, nefTagsFor(lm, inTags, force...))
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
