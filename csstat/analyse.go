package csstat

import (
	"github.com/andrew-torda/nefstar/ccd"
)

// mirror finds the heavy atom that is the symmetric partner of a: the
// names differ only in a final 1 or 2, the two atoms share a neighbour
// and have the same kinds of neighbours. CD1 and CD2 of leucine or of
// phenylalanine are partners, CG1 and CG2 of isoleucine are not.
func mirror(c *ccd.Component, a string) string {
	n := len(a)
	if n < 2 {
		return ""
	}
	var other string
	switch a[n-1] {
	case '1':
		other = a[:n-1] + "2"
	case '2':
		other = a[:n-1] + "1"
	default:
		return ""
	}
	if !c.Has(other) || c.Element(a) != c.Element(other) || c.Element(a) == "H" {
		return ""
	}
	shared := false
	nbA, nbB := c.BondedAtoms(a), c.BondedAtoms(other)
	for _, x := range nbA {
		for _, y := range nbB {
			if x == y {
				shared = true
			}
		}
	}
	if !shared || len(nbA) != len(nbB) {
		return ""
	}
	count := func(nb []string) map[string]int {
		m := make(map[string]int)
		for _, x := range nb {
			m[c.Element(x)]++
		}
		return m
	}
	ca, cb := count(nbA), count(nbB)
	for el, k := range ca {
		if cb[el] != k {
			return ""
		}
	}
	return other
}

func protonsOn(c *ccd.Component, heavy string) []string {
	var hs []string
	for _, b := range c.BondedAtoms(heavy) {
		if c.Element(b) == "H" {
			hs = append(hs, b)
		}
	}
	return hs
}

func analyse(c *ccd.Component) *compStat {
	cs := &compStat{ambig: make(map[string]int), geminal: make(map[string]string)}
	methyls := c.Methyls()
	for _, a := range c.Atoms {
		if hs, ok := methyls[a.ID]; ok {
			cs.repMe = append(cs.repMe, hs[0])
		}
		heavy := c.Heavy(a.ID)
		if _, ok := methyls[heavy]; ok {
			cs.methyl = append(cs.methyl, a.ID)
		}
		if h, ok := c.Atom(heavy); ok && h.Aromatic {
			cs.aromatic = append(cs.aromatic, a.ID)
		}
	}

	for _, a := range c.Atoms {
		if a.Element != "H" {
			m := mirror(c, a.ID)
			switch {
			case m == "":
				cs.ambig[a.ID] = AmbigUnique
			case a.Aromatic:
				cs.ambig[a.ID] = AmbigAromatic
				cs.geminal[a.ID] = m
			default:
				cs.ambig[a.ID] = AmbigGeminal
				cs.geminal[a.ID] = m
			}
			continue
		}
		heavy := c.Heavy(a.ID)
		group := protonsOn(c, heavy)
		m := mirror(c, heavy)
		switch {
		case len(group) == 2:
			cs.ambig[a.ID] = AmbigGeminal
			if group[0] == a.ID {
				cs.geminal[a.ID] = group[1]
			} else {
				cs.geminal[a.ID] = group[0]
			}
		case m != "":
			if h, _ := c.Atom(heavy); h.Aromatic {
				cs.ambig[a.ID] = AmbigAromatic
			} else {
				cs.ambig[a.ID] = AmbigGeminal
			}
			other := protonsOn(c, m)
			if len(other) == len(group) {
				for i, p := range group {
					if p == a.ID {
						cs.geminal[a.ID] = other[i]
					}
				}
			}
		default:
			cs.ambig[a.ID] = AmbigUnique
		}
	}
	return cs
}
