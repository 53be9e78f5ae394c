// Package ccd is a small chemical component dictionary. It knows the
// atoms of each residue, which of them are aromatic or leave on
// polymerisation, and how they are bonded.
//
// The standard residues are compiled in. More components can be read
// from a TOML file with the same layout as standard.toml.
package ccd

import (
	"sort"
	"strings"
)

// Atom is one atom of a component.
type Atom struct {
	ID       string
	Element  string
	Aromatic bool
	Leaving  bool
}

// Component is one residue or ligand.
type Component struct {
	ID        string
	Name      string
	Type      string
	OneLetter string
	Atoms     []Atom
	Bonds     [][2]string

	idx map[string]int
	adj map[string][]string
}

func (c *Component) build() {
	c.idx = make(map[string]int, len(c.Atoms))
	for i, a := range c.Atoms {
		c.idx[a.ID] = i
	}
	c.adj = make(map[string][]string)
	for _, b := range c.Bonds {
		c.adj[b[0]] = append(c.adj[b[0]], b[1])
		c.adj[b[1]] = append(c.adj[b[1]], b[0])
	}
}

// Has reports if the component has an atom.
func (c *Component) Has(atom string) bool {
	_, ok := c.idx[atom]
	return ok
}

// AtomIDs lists the atom names in dictionary order.
func (c *Component) AtomIDs() []string {
	ids := make([]string, len(c.Atoms))
	for i, a := range c.Atoms {
		ids[i] = a.ID
	}
	return ids
}

// Atom returns the record for one atom.
func (c *Component) Atom(atom string) (Atom, bool) {
	i, ok := c.idx[atom]
	if !ok {
		return Atom{}, false
	}
	return c.Atoms[i], true
}

// Element of an atom, "" if the atom is not there.
func (c *Component) Element(atom string) string {
	a, _ := c.Atom(atom)
	return a.Element
}

// IsPeptide is true for amino acids.
func (c *Component) IsPeptide() bool { return strings.Contains(strings.ToLower(c.Type), "peptide") }

// IsNucleotide is true for DNA and RNA residues.
func (c *Component) IsNucleotide() bool {
	t := strings.ToLower(c.Type)
	return strings.Contains(t, "dna") || strings.Contains(t, "rna")
}

// BondedAtoms lists the neighbours of an atom in dictionary order.
func (c *Component) BondedAtoms(atom string) []string {
	nb := append([]string(nil), c.adj[atom]...)
	sort.Slice(nb, func(i, j int) bool { return c.idx[nb[i]] < c.idx[nb[j]] })
	return nb
}

// protons returns the hydrogens bonded to a heavy atom.
func (c *Component) protons(heavy string) []string {
	var hs []string
	for _, b := range c.BondedAtoms(heavy) {
		if c.Element(b) == "H" {
			hs = append(hs, b)
		}
	}
	return hs
}

// Heavy returns the atom a hydrogen is bonded to, or the atom itself if
// it is not a hydrogen.
func (c *Component) Heavy(atom string) string {
	if c.Element(atom) != "H" {
		return atom
	}
	for _, b := range c.adj[atom] {
		return b
	}
	return ""
}

// ProtonsInSameGroup lists all the protons on the heavy atom that
// carries proton. The proton itself is included.
func (c *Component) ProtonsInSameGroup(proton string) []string {
	if c.Element(proton) != "H" {
		return nil
	}
	return c.protons(c.Heavy(proton))
}

// Methyls maps each methyl carbon to its three protons.
func (c *Component) Methyls() map[string][]string {
	m := make(map[string][]string)
	for _, a := range c.Atoms {
		if a.Element != "C" {
			continue
		}
		if hs := c.protons(a.ID); len(hs) == 3 {
			m[a.ID] = hs
		}
	}
	return m
}

// MethylCarbons lists methyl carbons in dictionary order.
func (c *Component) MethylCarbons() []string {
	var mc []string
	for _, a := range c.Atoms {
		if a.Element == "C" && len(c.protons(a.ID)) == 3 {
			mc = append(mc, a.ID)
		}
	}
	return mc
}

// IsMethylProton is true for a hydrogen on a methyl carbon.
func (c *Component) IsMethylProton(atom string) bool {
	if c.Element(atom) != "H" {
		return false
	}
	h := c.Heavy(atom)
	return c.Element(h) == "C" && len(c.protons(h)) == 3
}

// aminoGroups lists the protons of each nitrogen that carries exactly
// two of them.
func (c *Component) aminoGroups() [][]string {
	var groups [][]string
	for _, a := range c.Atoms {
		if a.Element != "N" || a.ID == "N" {
			continue
		}
		if hs := c.protons(a.ID); len(hs) == 2 {
			groups = append(groups, hs)
		}
	}
	return groups
}

// RepAminoProtons gives the first proton of each side chain or base
// amino group.
func (c *Component) RepAminoProtons() []string {
	var out []string
	for _, g := range c.aminoGroups() {
		out = append(out, g[0])
	}
	return out
}

// NonRepAminoProtons gives the second proton of each amino group.
func (c *Component) NonRepAminoProtons() []string {
	var out []string
	for _, g := range c.aminoGroups() {
		out = append(out, g[1])
	}
	return out
}

// ImideProtons are single protons on a side chain or base nitrogen.
func (c *Component) ImideProtons() []string {
	var out []string
	for _, a := range c.Atoms {
		if a.Element != "N" || a.ID == "N" {
			continue
		}
		if hs := c.protons(a.ID); len(hs) == 1 {
			out = append(out, hs[0])
		}
	}
	return out
}

const greek = "ABGDEZH"

var backbone = map[string]bool{"N": true, "C": true, "O": true, "OXT": true}

// greekPositions walks the heavy atoms out from CA. CA is alpha, its
// side chain neighbours beta and so on.
func (c *Component) greekPositions() map[string]byte {
	pos := make(map[string]byte)
	if !c.Has("CA") {
		return pos
	}
	pos["CA"] = greek[0]
	front := []string{"CA"}
	for depth := 1; depth < len(greek) && len(front) > 0; depth++ {
		var next []string
		for _, at := range front {
			for _, nb := range c.adj[at] {
				if _, done := pos[nb]; done || backbone[nb] || c.Element(nb) == "H" {
					continue
				}
				pos[nb] = greek[depth]
				next = append(next, nb)
			}
		}
		front = next
	}
	return pos
}

// AtomsByGreekLetter lists atoms of element el whose position, or that
// of the heavy atom carrying them, is the greek letter given as A, B,
// G, D, E, Z or H.
func (c *Component) AtomsByGreekLetter(el string, letter byte) []string {
	pos := c.greekPositions()
	var out []string
	for _, a := range c.Atoms {
		if a.Element != el {
			continue
		}
		if p, ok := pos[c.Heavy(a.ID)]; ok && p == letter {
			out = append(out, a.ID)
		}
	}
	return out
}
