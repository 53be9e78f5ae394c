package chain

import (
	"strconv"

	"github.com/andrew-torda/nefstar/coord"
	"github.com/andrew-torda/nefstar/gotoh"
)

// Options for binding chains.
type Options struct {
	BMRBOnly bool         // keep the author residue numbers
	Coords   *coord.Model // optional coordinates with author labels
}

// Binding maps the chains and residue numbers of one dialect to the
// other. It belongs to one translation.
type Binding struct {
	toStar  bool
	inv     *Inventory
	chains  map[string]string
	back    map[string]string
	offset  map[string]int
	cif     map[string]*coord.Chain
	cifSeq  map[string]map[int]int // input residue number to coordinate residue index
	ordered []string
}

// Letter gives chain codes A to Z, then AA, AB and so on.
func Letter(i int) string {
	s := ""
	for i++; i > 0; i = (i - 1) / 26 {
		s = string(rune('A'+(i-1)%26)) + s
	}
	return s
}

func newBinding(inv *Inventory, toStar bool) *Binding {
	return &Binding{
		toStar: toStar,
		inv:    inv,
		chains: make(map[string]string),
		back:   make(map[string]string),
		offset: make(map[string]int),
		cif:    make(map[string]*coord.Chain),
		cifSeq: make(map[string]map[int]int),
	}
}

// matchCoords pairs each input chain with a polymer of the coordinates.
// A chain whose code is an author chain of the coordinates takes that
// one; the others take the unused polymer their residue names align
// with best.
func (b *Binding) matchCoords(m *coord.Model, ids []string, sameCode bool) {
	used := make(map[*coord.Chain]bool)
	if sameCode {
		for _, id := range ids {
			if c := m.ByAuth(id); c != nil && c.Polymer && !used[c] {
				b.cif[id] = c
				used[c] = true
			}
		}
	}
	for _, id := range ids {
		if b.cif[id] != nil {
			continue
		}
		var best *coord.Chain
		var bestScr float32
		comps := b.inv.Chain(id).Comps()
		for _, c := range m.PolymerSequence() {
			if used[c] {
				continue
			}
			if _, scr := gotoh.Residues(comps, c.Comps()); scr > bestScr {
				best, bestScr = c, scr
			}
		}
		if best != nil {
			b.cif[id] = best
			used[best] = true
		}
	}
	for id, c := range b.cif {
		ch := b.inv.Chain(id)
		m, _ := gotoh.Residues(ch.Comps(), c.Comps())
		seq := make(map[int]int, len(m))
		for i, j := range m {
			seq[ch.Residues[i].Seq] = j
		}
		b.cifSeq[id] = seq
	}
}

// NefToStar numbers the NEF chains 1, 2, ... in sorted order. With
// coordinates, the chains found there come first, in their order.
// Residue numbers are shifted so each chain starts at 1, unless
// BMRBOnly asks to keep them and they are positive.
func NefToStar(inv *Inventory, opts Options) *Binding {
	b := newBinding(inv, true)
	ids := inv.IDs()
	if opts.Coords != nil {
		b.matchCoords(opts.Coords, ids, true)
		var first, rest []string
		for _, auth := range opts.Coords.AuthChains() {
			for _, id := range ids {
				if c := b.cif[id]; c != nil && c.Auth == auth {
					first = append(first, id)
				}
			}
		}
		for _, id := range ids {
			if b.cif[id] == nil {
				rest = append(rest, id)
			}
		}
		ids = append(first, rest...)
	}
	for i, id := range ids {
		target := strconv.Itoa(i + 1)
		b.chains[id] = target
		b.back[target] = id
		start := inv.Chain(id).First()
		if !opts.BMRBOnly || start < 1 {
			b.offset[id] = 1 - start
		}
	}
	b.ordered = ids
	inv.MarkIdentical()
	return b
}

// StarToNef gives the entity assemblies, sorted, the codes A, B, ....
// With coordinates, a chain takes the author chain code of the polymer
// it aligns with.
func StarToNef(inv *Inventory, opts Options) *Binding {
	b := newBinding(inv, false)
	ids := inv.IDs()
	if opts.Coords != nil {
		b.matchCoords(opts.Coords, ids, false)
	}
	taken := make(map[string]bool)
	for _, id := range ids {
		if c := b.cif[id]; c != nil && !taken[c.Auth] {
			b.chains[id] = c.Auth
			taken[c.Auth] = true
		}
	}
	next := 0
	for _, id := range ids {
		if _, ok := b.chains[id]; ok {
			continue
		}
		for taken[Letter(next)] {
			next++
		}
		b.chains[id] = Letter(next)
		taken[Letter(next)] = true
	}
	for id, code := range b.chains {
		b.back[code] = id
	}
	b.ordered = ids
	inv.MarkIdentical()
	return b
}

// Chain maps a chain code.
func (b *Binding) Chain(in string) (string, bool) {
	c, ok := b.chains[in]
	return c, ok
}

// Input maps a target chain code back to the input one.
func (b *Binding) Input(target string) (string, bool) {
	c, ok := b.back[target]
	return c, ok
}

// Seq maps a residue number of a chain.
func (b *Binding) Seq(chain string, seq int) int {
	if !b.toStar {
		if c := b.cif[chain]; c != nil {
			if j, ok := b.cifSeq[chain][seq]; ok {
				return c.Residues[j].AuthSeq
			}
		}
	}
	return seq + b.offset[chain]
}

// Map maps a chain and residue number. ok is false for a chain we do
// not know.
func (b *Binding) Map(chain string, seq int) (string, int, bool) {
	c, ok := b.chains[chain]
	if !ok {
		return "", 0, false
	}
	return c, b.Seq(chain, seq), true
}

// Auth gives the author chain and residue number for a residue: those
// of the coordinates when the residue aligned with one, else the input
// values.
func (b *Binding) Auth(chain string, seq int) (string, int) {
	if c := b.cif[chain]; c != nil {
		if j, ok := b.cifSeq[chain][seq]; ok {
			return c.Auth, c.Residues[j].AuthSeq
		}
	}
	return chain, seq
}

// Identical lists the target codes of the chains with the same
// sequence as the input chain.
func (b *Binding) Identical(chain string) []string {
	c := b.inv.Chain(chain)
	if c == nil {
		return nil
	}
	var out []string
	for _, id := range c.Identical {
		out = append(out, b.chains[id])
	}
	return out
}

// Chains lists the input chains in target order.
func (b *Binding) Chains() []string { return b.ordered }

// Inventory is the one the binding was made from.
func (b *Binding) Inventory() *Inventory { return b.inv }
