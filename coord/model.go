// Package coord reads the residue numbering of a coordinate file in
// mmCIF format. Only the poly and non-poly residue schemes are kept;
// they say how the author chain and residue labels of the coordinates
// relate to the sequential numbering of each entity. The atom table is
// read over without being stored.
package coord

import (
	"fmt"
	"strconv"
)

const (
	polyScheme    = "_pdbx_poly_seq_scheme"
	nonpolyScheme = "_pdbx_nonpoly_scheme"
)

// Residue is one residue of a chain. Seq is the sequential number,
// AuthSeq the author's.
type Residue struct {
	Seq     int
	AuthSeq int
	Comp    string
	InsCode string
}

// Chain is one label asym. Auth is the author chain (the PDB strand).
type Chain struct {
	Asym     string
	Auth     string
	Entity   string
	Polymer  bool
	Residues []Residue
}

// Comps lists the residue names in order.
func (c *Chain) Comps() []string {
	s := make([]string, len(c.Residues))
	for i, r := range c.Residues {
		s[i] = r.Comp
	}
	return s
}

// AuthToSeq converts an author residue number to the sequential one.
func (c *Chain) AuthToSeq(authSeq int) (int, bool) {
	for _, r := range c.Residues {
		if r.AuthSeq == authSeq {
			return r.Seq, true
		}
	}
	return 0, false
}

// SeqToAuth is the reverse of AuthToSeq.
func (c *Chain) SeqToAuth(seq int) (int, bool) {
	for _, r := range c.Residues {
		if r.Seq == seq {
			return r.AuthSeq, true
		}
	}
	return 0, false
}

// Model is what we keep from a coordinate file.
type Model struct {
	ID     string
	Chains []*Chain
}

// PolymerSequence lists polymer chains in file order.
func (m *Model) PolymerSequence() []*Chain {
	var out []*Chain
	for _, c := range m.Chains {
		if c.Polymer {
			out = append(out, c)
		}
	}
	return out
}

// NonPolymer lists ligand and ion chains.
func (m *Model) NonPolymer() []*Chain {
	var out []*Chain
	for _, c := range m.Chains {
		if !c.Polymer {
			out = append(out, c)
		}
	}
	return out
}

// ByAuth returns the first polymer chain with the author chain ID, or
// any chain if no polymer has it.
func (m *Model) ByAuth(auth string) *Chain {
	var found *Chain
	for _, c := range m.Chains {
		if c.Auth != auth {
			continue
		}
		if c.Polymer {
			return c
		}
		if found == nil {
			found = c
		}
	}
	return found
}

// AuthChains lists the author chain IDs of the polymers, each once, in
// file order.
func (m *Model) AuthChains() []string {
	var out []string
	seen := make(map[string]bool)
	for _, c := range m.PolymerSequence() {
		if !seen[c.Auth] {
			seen[c.Auth] = true
			out = append(out, c.Auth)
		}
	}
	return out
}

func empty(s string) bool { return s == "" || s == "." || s == "?" }

// pick returns the first usable value of the named columns.
func pick(t table, row []string, names ...string) string {
	for _, n := range names {
		if i := t.col(n); i >= 0 && !empty(row[i]) {
			return row[i]
		}
	}
	return ""
}

func build(d *data) (*Model, error) {
	m := &Model{ID: d.items["_entry.id"]}
	byAsym := make(map[string]*Chain)
	for _, cat := range []string{polyScheme, nonpolyScheme} {
		t, ok := d.tables[cat]
		if !ok {
			continue
		}
		polymer := cat == polyScheme
		for _, row := range t.Vals {
			asym := pick(t, row, "asym_id")
			if asym == "" {
				return nil, fmt.Errorf("%s: row without asym_id", cat)
			}
			c, ok := byAsym[asym]
			if !ok {
				c = &Chain{Asym: asym, Polymer: polymer,
					Auth:   pick(t, row, "pdb_strand_id", "auth_asym_id"),
					Entity: pick(t, row, "entity_id")}
				if c.Auth == "" {
					c.Auth = asym
				}
				byAsym[asym] = c
				m.Chains = append(m.Chains, c)
			}
			r := Residue{Comp: pick(t, row, "mon_id", "pdb_mon_id"), InsCode: pick(t, row, "pdb_ins_code")}
			var err error
			seq := pick(t, row, "seq_id", "ndb_seq_num")
			if seq == "" {
				r.Seq = len(c.Residues) + 1
			} else if r.Seq, err = strconv.Atoi(seq); err != nil {
				return nil, fmt.Errorf("%s: bad sequence number %q", cat, seq)
			}
			auth := pick(t, row, "auth_seq_num", "pdb_seq_num")
			if auth == "" {
				r.AuthSeq = r.Seq
			} else if r.AuthSeq, err = strconv.Atoi(auth); err != nil {
				return nil, fmt.Errorf("%s: bad author sequence number %q", cat, auth)
			}
			c.Residues = append(c.Residues, r)
		}
	}
	if len(m.Chains) == 0 {
		return nil, fmt.Errorf("no %s or %s loop", polyScheme, nonpolyScheme)
	}
	return m, nil
}
