// Package chain keeps track of chains and residues. It builds the list
// of residues of each chain from a loop and maps chain codes and
// residue numbers between NEF, NMR-STAR and coordinate files.
package chain

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/andrew-torda/nefstar/star"
)

// Residue is a sequence number and a residue name.
type Residue struct {
	Seq  int
	Comp string
}

// Chain is one chain of an inventory, residues in the order seen.
type Chain struct {
	ID        string
	Residues  []Residue
	Identical []string // chains with the same sequence
}

// Comps lists the residue names.
func (c *Chain) Comps() []string {
	s := make([]string, len(c.Residues))
	for i, r := range c.Residues {
		s[i] = r.Comp
	}
	return s
}

// First is the lowest residue number.
func (c *Chain) First() int {
	if len(c.Residues) == 0 {
		return 0
	}
	first := c.Residues[0].Seq
	for _, r := range c.Residues[1:] {
		if r.Seq < first {
			first = r.Seq
		}
	}
	return first
}

// ConflictError says one residue number was given two residue names.
type ConflictError struct {
	Chain string
	Seq   int
	Comps [2]string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("chain %s residue %d is both %s and %s", e.Chain, e.Seq, e.Comps[0], e.Comps[1])
}

type resKey struct {
	chain string
	seq   int
}

// Inventory is the set of chains of a molecular system.
type Inventory struct {
	chains []*Chain
	byID   map[string]*Chain
	comp   map[resKey]string
}

// NewInventory returns an empty inventory.
func NewInventory() *Inventory {
	return &Inventory{byID: make(map[string]*Chain), comp: make(map[resKey]string)}
}

// Add a residue. A residue seen before must have the same name; an
// empty name is taken as agreeing with anything.
func (inv *Inventory) Add(chain string, seq int, comp string) error {
	k := resKey{chain, seq}
	if old, ok := inv.comp[k]; ok {
		switch {
		case comp == "" || old == comp:
			return nil
		case old == "":
			inv.comp[k] = comp
			c := inv.byID[chain]
			for i := range c.Residues {
				if c.Residues[i].Seq == seq {
					c.Residues[i].Comp = comp
				}
			}
			return nil
		}
		return &ConflictError{chain, seq, [2]string{old, comp}}
	}
	c, ok := inv.byID[chain]
	if !ok {
		c = &Chain{ID: chain}
		inv.byID[chain] = c
		inv.chains = append(inv.chains, c)
	}
	c.Residues = append(c.Residues, Residue{seq, comp})
	inv.comp[k] = comp
	return nil
}

// AddLoop adds the residues of a loop. Rows with no chain or residue
// number are passed over. The residue column may be "".
func (inv *Inventory) AddLoop(lp *star.Loop, chainTag, seqTag, compTag string) error {
	ci, si := lp.TagIndex(chainTag), lp.TagIndex(seqTag)
	if ci < 0 || si < 0 {
		return fmt.Errorf("%s: need %s and %s", lp.Category, chainTag, seqTag)
	}
	ki := -1
	if compTag != "" {
		ki = lp.TagIndex(compTag)
	}
	for n, row := range lp.Data {
		if star.IsEmpty(row[ci]) || star.IsEmpty(row[si]) {
			continue
		}
		seq, err := strconv.Atoi(row[si])
		if err != nil {
			return fmt.Errorf("%s row %d: %s %q is not a number", lp.Category, n+1, seqTag, row[si])
		}
		comp := ""
		if ki >= 0 && !star.IsEmpty(row[ki]) {
			comp = row[ki]
		}
		if err := inv.Add(row[ci], seq, comp); err != nil {
			return fmt.Errorf("%s row %d: %w", lp.Category, n+1, err)
		}
	}
	return nil
}

// FromLoop builds an inventory from one loop.
func FromLoop(lp *star.Loop, chainTag, seqTag, compTag string) (*Inventory, error) {
	inv := NewInventory()
	if err := inv.AddLoop(lp, chainTag, seqTag, compTag); err != nil {
		return nil, err
	}
	return inv, nil
}

// Chains in the order they were first seen.
func (inv *Inventory) Chains() []*Chain { return inv.chains }

// Chain returns a chain or nil.
func (inv *Inventory) Chain(id string) *Chain { return inv.byID[id] }

// Comp gives the residue name at a position.
func (inv *Inventory) Comp(chain string, seq int) (string, bool) {
	c, ok := inv.comp[resKey{chain, seq}]
	return c, ok
}

// Len is the number of chains.
func (inv *Inventory) Len() int { return len(inv.chains) }

// IDs are the chain codes sorted. Codes that are all digits sort as
// numbers, so 2 comes before 10.
func (inv *Inventory) IDs() []string {
	ids := make([]string, 0, len(inv.chains))
	for _, c := range inv.chains {
		ids = append(ids, c.ID)
	}
	sort.Slice(ids, func(i, j int) bool { return idLess(ids[i], ids[j]) })
	return ids
}

func idLess(a, b string) bool {
	na, errA := strconv.Atoi(a)
	nb, errB := strconv.Atoi(b)
	switch {
	case errA == nil && errB == nil:
		return na < nb
	case errA == nil:
		return true
	case errB == nil:
		return false
	}
	if len(a) != len(b) {
		return len(a) < len(b)
	}
	return a < b
}

// sameSequence is true when two chains agree at every residue number
// they share and share at least one.
func sameSequence(a, b *Chain) bool {
	common := 0
	m := make(map[int]string, len(a.Residues))
	for _, r := range a.Residues {
		m[r.Seq] = r.Comp
	}
	for _, r := range b.Residues {
		if c, ok := m[r.Seq]; ok {
			if c != r.Comp {
				return false
			}
			common++
		}
	}
	return common > 0
}

// MarkIdentical fills in Identical for every chain.
func (inv *Inventory) MarkIdentical() {
	for _, c := range inv.chains {
		c.Identical = nil
	}
	for i, a := range inv.chains {
		for _, b := range inv.chains[i+1:] {
			if sameSequence(a, b) {
				a.Identical = append(a.Identical, b.ID)
				b.Identical = append(b.Identical, a.ID)
			}
		}
	}
}
