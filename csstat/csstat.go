// Package csstat answers the questions the atom name code asks of
// chemical shift statistics: which atoms are methyls, which are
// aromatic, which pairs are geminal and how ambiguous an assignment to
// an atom can be. The answers come from the bond graph of each
// component, so they hold for every residue the dictionary knows.
package csstat

import (
	"sync"

	"github.com/andrew-torda/nefstar/ccd"
)

// Ambiguity codes.
const (
	AmbigUnique   = 1
	AmbigGeminal  = 2
	AmbigAromatic = 3
)

// CompType says what kind of polymer a component belongs to.
type CompType struct {
	Peptide, Nucleotide, Carbohydrate bool
}

type compStat struct {
	methyl   []string // methyl carbons and protons
	aromatic []string
	ambig    map[string]int
	geminal  map[string]string
	repMe    []string
}

// Stat is safe for concurrent use.
type Stat struct {
	dict *ccd.Dictionary
	mu   sync.Mutex
	memo map[string]*compStat
}

// New builds statistics on top of a dictionary.
func New(dict *ccd.Dictionary) *Stat {
	return &Stat{dict: dict, memo: make(map[string]*compStat)}
}

// Dict returns the dictionary the statistics are built on.
func (s *Stat) Dict() *ccd.Dictionary { return s.dict }

func (s *Stat) get(comp string) (*ccd.Component, *compStat) {
	c, ok := s.dict.Get(comp)
	if !ok {
		return nil, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if cs, ok := s.memo[c.ID]; ok {
		return c, cs
	}
	cs := analyse(c)
	s.memo[c.ID] = cs
	return c, cs
}

// HasCompID reports if we know the component.
func (s *Stat) HasCompID(comp string) bool {
	_, ok := s.dict.Get(comp)
	return ok
}

// PeptideLike is true for amino acids.
func (s *Stat) PeptideLike(comp string) bool {
	c, _ := s.get(comp)
	return c != nil && c.IsPeptide()
}

// TypeOfCompID classifies a component.
func (s *Stat) TypeOfCompID(comp string) CompType {
	c, _ := s.get(comp)
	if c == nil {
		return CompType{}
	}
	return CompType{Peptide: c.IsPeptide(), Nucleotide: c.IsNucleotide(),
		Carbohydrate: !c.IsPeptide() && !c.IsNucleotide() && c.Type == "saccharide"}
}

// AllAtoms lists every atom of a component.
func (s *Stat) AllAtoms(comp string) []string {
	c, _ := s.get(comp)
	if c == nil {
		return nil
	}
	return c.AtomIDs()
}

// MethylAtoms lists methyl carbons and their protons.
func (s *Stat) MethylAtoms(comp string) []string {
	_, cs := s.get(comp)
	if cs == nil {
		return nil
	}
	return cs.methyl
}

// RepMethylProtons gives the first proton of each methyl.
func (s *Stat) RepMethylProtons(comp string) []string {
	_, cs := s.get(comp)
	if cs == nil {
		return nil
	}
	return cs.repMe
}

// AromaticAtoms lists aromatic atoms and the protons on them.
func (s *Stat) AromaticAtoms(comp string) []string {
	_, cs := s.get(comp)
	if cs == nil {
		return nil
	}
	return cs.aromatic
}

// MaxAmbigCode is the largest ambiguity code an assignment to the atom
// may carry without an ambiguity set: 1, 2 for geminal atoms and
// methyl pairs, 3 for symmetric aromatic ring positions. It is 0 for an
// atom we do not know.
func (s *Stat) MaxAmbigCode(comp, atom string) int {
	_, cs := s.get(comp)
	if cs == nil {
		return 0
	}
	return cs.ambig[atom]
}

// GeminalAtom returns the partner of a geminal or symmetric atom, ""
// if there is none.
func (s *Stat) GeminalAtom(comp, atom string) string {
	_, cs := s.get(comp)
	if cs == nil {
		return ""
	}
	return cs.geminal[atom]
}
