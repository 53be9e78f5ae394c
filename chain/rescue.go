package chain

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/andrew-torda/nefstar/coord"
	"github.com/andrew-torda/nefstar/gotoh"
	"github.com/andrew-torda/nefstar/star"
)

// Columns names the residue columns of a STAR loop. Restraint and peak
// loops carry a suffix, as in Entity_assembly_ID_1.
type Columns struct {
	Chain, Seq, Comp, AuthChain, AuthSeq string
}

// StarColumns are the columns of a loop with one atom per row, with the
// suffix added when it is not "".
func StarColumns(suffix string) Columns {
	s := func(n string) string {
		if suffix == "" {
			return n
		}
		return n + "_" + suffix
	}
	return Columns{s("Entity_assembly_ID"), s("Comp_index_ID"), s("Comp_ID"), s("Auth_asym_ID"), s("Auth_seq_ID")}
}

type colIdx struct{ chain, seq, comp, authChain, authSeq int }

func (cols Columns) index(lp *star.Loop) (colIdx, bool) {
	ix := colIdx{lp.TagIndex(cols.Chain), lp.TagIndex(cols.Seq), lp.TagIndex(cols.Comp),
		lp.TagIndex(cols.AuthChain), lp.TagIndex(cols.AuthSeq)}
	ok := ix.chain >= 0 && ix.seq >= 0 && ix.comp >= 0 && ix.authChain >= 0 && ix.authSeq >= 0
	return ix, ok
}

// ResetAuthSeq repairs loops whose sequential residue numbers disagree
// with the author numbers. It only acts when every disagreeing row
// names a residue the coordinates have under its author chain and
// number; the sequential number then comes from the coordinates. It
// returns one message per changed row.
func ResetAuthSeq(lp *star.Loop, cols Columns, m *coord.Model) []string {
	if m == nil {
		return nil
	}
	ix, ok := cols.index(lp)
	if !ok {
		return nil
	}
	type fix struct {
		row, seq int
	}
	var fixes []fix
	for n, row := range lp.Data {
		if star.IsEmpty(row[ix.authSeq]) || row[ix.authSeq] == row[ix.seq] {
			continue
		}
		authSeq, err := strconv.Atoi(row[ix.authSeq])
		if err != nil {
			return nil
		}
		c := m.ByAuth(row[ix.authChain])
		if c == nil {
			return nil
		}
		seq, ok := c.AuthToSeq(authSeq)
		if !ok || c.Residues[seqIndex(c, seq)].Comp != row[ix.comp] {
			return nil
		}
		fixes = append(fixes, fix{n, seq})
	}
	var msgs []string
	for _, f := range fixes {
		row := lp.Data[f.row]
		msgs = append(msgs, fmt.Sprintf("%s row %d: %s %s reset to %d from author number %s",
			lp.Category, f.row+1, cols.Seq, row[ix.seq], f.seq, row[ix.authSeq]))
		row[ix.seq] = strconv.Itoa(f.seq)
	}
	return msgs
}

func seqIndex(c *coord.Chain, seq int) int {
	for i, r := range c.Residues {
		if r.Seq == seq {
			return i
		}
	}
	return 0
}

// AdoptAuthChain fills in missing chain IDs from the author chain. The
// author residues of each author chain are aligned with every chain of
// ref and the best scoring chain is taken; residue numbers follow the
// alignment. Rows that do not align stay as they were.
func AdoptAuthChain(lp *star.Loop, cols Columns, ref *Inventory) ([]string, error) {
	ix, ok := cols.index(lp)
	if !ok || ref == nil || ref.Len() == 0 {
		return nil, nil
	}
	byAuth := make(map[string][]int) // author chain to rows
	var order []string
	for n, row := range lp.Data {
		if !star.IsEmpty(row[ix.chain]) || star.IsEmpty(row[ix.authChain]) {
			continue
		}
		a := row[ix.authChain]
		if _, seen := byAuth[a]; !seen {
			order = append(order, a)
		}
		byAuth[a] = append(byAuth[a], n)
	}
	var msgs []string
	for _, a := range order {
		rows := byAuth[a]
		inv := NewInventory()
		for _, n := range rows {
			row := lp.Data[n]
			seq, err := strconv.Atoi(row[ix.authSeq])
			if err != nil {
				return nil, fmt.Errorf("%s row %d: author residue %q is not a number", lp.Category, n+1, row[ix.authSeq])
			}
			comp := row[ix.comp]
			if star.IsEmpty(comp) {
				comp = ""
			}
			if err := inv.Add(a, seq, comp); err != nil {
				return nil, fmt.Errorf("%s row %d: %w", lp.Category, n+1, err)
			}
		}
		auth := inv.Chain(a)
		sort.SliceStable(auth.Residues, func(i, j int) bool { return auth.Residues[i].Seq < auth.Residues[j].Seq })
		var best *Chain
		var bestMap map[int]int
		var bestScr float32
		for _, c := range ref.Chains() {
			m, scr := gotoh.Residues(auth.Comps(), c.Comps())
			if scr > bestScr {
				best, bestMap, bestScr = c, m, scr
			}
		}
		if best == nil {
			msgs = append(msgs, fmt.Sprintf("%s: author chain %s matches no chain", lp.Category, a))
			continue
		}
		seqOf := make(map[int]int)
		for i, j := range bestMap {
			seqOf[auth.Residues[i].Seq] = best.Residues[j].Seq
		}
		changed := 0
		for _, n := range rows {
			row := lp.Data[n]
			authSeq, _ := strconv.Atoi(row[ix.authSeq])
			seq, ok := seqOf[authSeq]
			if !ok {
				continue
			}
			row[ix.chain] = best.ID
			row[ix.seq] = strconv.Itoa(seq)
			changed++
		}
		msgs = append(msgs, fmt.Sprintf("%s: author chain %s taken as chain %s for %d rows", lp.Category, a, best.ID, changed))
	}
	return msgs, nil
}
