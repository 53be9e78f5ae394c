package atomname

import (
	"sort"
	"strings"

	"github.com/andrew-torda/nefstar/csstat"
)

// StarAtom is one assigned atom of a residue as NMR-STAR has it.
type StarAtom struct {
	ID        string
	Ambiguity int
	Value     float64
	HasValue  bool
}

// NefAtom is a NEF name and the STAR atoms it stands for.
type NefAtom struct {
	Name    string
	Members []string
}

type collapsed struct {
	NefAtom
	pos int // input position of the first member
}

// commonPrefix of methyl protons gives the NEF name: HD11 HD12 HD13 is HD1.
func commonPrefix(names []string) string {
	if len(names) == 0 {
		return ""
	}
	p := names[0]
	for _, s := range names[1:] {
		for !strings.HasPrefix(s, p) {
			p = p[:len(p)-1]
		}
	}
	return p
}

// samePlace says if two methyl prefixes differ only in their last
// letter, as HD1 and HD2 do.
func samePlace(a, b string) bool {
	return len(a) == len(b) && len(a) > 1 && a[:len(a)-1] == b[:len(b)-1]
}

func ambiguous(a int) bool { return a == csstat.AmbigGeminal || a == csstat.AmbigAromatic }

// lower reports if a should be called x when paired with b.
func lower(a, b StarAtom) bool {
	if a.HasValue && b.HasValue && a.Value != b.Value {
		return a.Value < b.Value
	}
	return a.ID < b.ID
}

type methylGroup struct {
	carbon  string
	protons []string
	first   StarAtom
	pos     int
}

// ToNef collapses the STAR atoms of one residue to NEF names. Methyl
// protons with one shift become HX%, a stereo pair that is not assigned
// stereospecifically becomes HXx and HXy with the lower shift on x. The
// rest keep their names. The result follows the order of the input and
// the map gives the NEF name of each STAR atom.
func (e *Engine) ToNef(comp string, atoms []StarAtom) ([]NefAtom, map[string]string) {
	names := make(map[string]string, len(atoms))
	c, ok := e.dict.Get(comp)
	if !ok {
		out := make([]NefAtom, 0, len(atoms))
		for _, a := range atoms {
			if _, dup := names[a.ID]; dup {
				continue
			}
			names[a.ID] = a.ID
			out = append(out, NefAtom{Name: a.ID, Members: []string{a.ID}})
		}
		return out, names
	}
	pos := make(map[string]int, len(atoms))
	byID := make(map[string]StarAtom, len(atoms))
	for i, a := range atoms {
		if _, dup := byID[a.ID]; !dup {
			byID[a.ID] = a
			pos[a.ID] = i
		}
	}
	used := make(map[string]bool)
	var res []collapsed
	emit := func(name string, members ...string) {
		p := len(atoms)
		for _, m := range members {
			used[m] = true
			names[m] = name
			if pos[m] < p {
				p = pos[m]
			}
		}
		res = append(res, collapsed{NefAtom{name, members}, p})
	}

	// Methyls whose three protons are all present with one shift.
	methyls := c.Methyls()
	groups := make(map[string]*methylGroup)
	var order []string
	for _, mc := range c.MethylCarbons() {
		hs := methyls[mc]
		g := &methylGroup{carbon: mc, protons: hs, pos: len(atoms)}
		ok := true
		for i, h := range hs {
			a, there := byID[h]
			if !there {
				ok = false
				break
			}
			if i == 0 {
				g.first = a
			} else if a.HasValue != g.first.HasValue || a.Value != g.first.Value || a.Ambiguity != g.first.Ambiguity {
				ok = false
				break
			}
			if pos[h] < g.pos {
				g.pos = pos[h]
			}
		}
		if ok {
			groups[mc] = g
			order = append(order, mc)
		}
	}
	for _, mc := range order {
		g := groups[mc]
		if used[g.protons[0]] {
			continue
		}
		prefix := commonPrefix(g.protons)
		if !ambiguous(g.first.Ambiguity) || len(prefix) < 2 {
			emit(prefix+"%", g.protons...)
			continue
		}
		stem := prefix[:len(prefix)-1]
		other := groups[e.stat.GeminalAtom(c.ID, mc)]
		if other == nil || other.first.Ambiguity != g.first.Ambiguity ||
			!samePlace(commonPrefix(other.protons), prefix) {
			emit(stem+"x%", g.protons...)
			continue
		}
		x, y := g, other
		if !lower(g.first, other.first) {
			x, y = other, g
		}
		emit(stem+"x%", x.protons...)
		emit(stem+"y%", y.protons...)
	}

	// Geminal pairs and lone ambiguous atoms, then everything else.
	for _, a := range atoms {
		if used[a.ID] {
			continue
		}
		a = byID[a.ID]
		if !ambiguous(a.Ambiguity) || len(a.ID) < 2 {
			emit(a.ID, a.ID)
			continue
		}
		partner := e.stat.GeminalAtom(c.ID, a.ID)
		stem := a.ID[:len(a.ID)-1]
		if partner == "" || !strings.HasPrefix(partner, stem) || len(partner) != len(a.ID) {
			emit(a.ID, a.ID)
			continue
		}
		b, there := byID[partner]
		if !there || used[partner] || b.Ambiguity != a.Ambiguity {
			emit(stem+"x", a.ID)
			continue
		}
		if lower(a, b) {
			emit(stem+"x", a.ID)
			emit(stem+"y", b.ID)
		} else {
			emit(stem+"y", a.ID)
			emit(stem+"x", b.ID)
		}
	}

	sort.SliceStable(res, func(i, j int) bool { return res[i].pos < res[j].pos })
	out := make([]NefAtom, len(res))
	for i, r := range res {
		out[i] = r.NefAtom
	}
	return out, names
}

// NefName is the one-shot reverse mapping used where no shift list
// gives ambiguity codes: a methyl proton becomes its HX% group, any
// other atom keeps its name.
func (e *Engine) NefName(comp, atom string) string {
	k := revKey{comp, atom}
	if n, ok := e.rev[k]; ok {
		return n
	}
	n := atom
	if c, ok := e.dict.Get(comp); ok && c.IsMethylProton(atom) {
		n = commonPrefix(c.ProtonsInSameGroup(atom)) + "%"
	}
	e.rev[k] = n
	return n
}
