// Package atomname translates atom names between NEF and NMR-STAR.
//
// NEF writes groups of atoms with wildcards (HB%, HD1%, HG*), with x/y
// for stereo pairs that were not assigned stereospecifically (HBx,
// HDx%) and with the M and Q pseudo atoms of older programs. NMR-STAR
// writes every atom by name and says how ambiguous an assignment is
// with an ambiguity code. ToStar expands a NEF name to atoms and a
// code, ToNef collapses a residue's STAR atoms back to NEF names.
package atomname

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/andrew-torda/nefstar/ccd"
	"github.com/andrew-torda/nefstar/csstat"
)

// Options change how a name is expanded.
type Options struct {
	LeaveUnmatched bool // return the name as it is when nothing matches
	MethylOnly     bool // keep only methyl protons
}

// Result of expanding one NEF name. Ambiguity is 0 when there is no
// code to give. Details explains a name that could not be matched.
type Result struct {
	Atoms     []string
	Ambiguity int
	Matched   bool
	Details   string
}

type fwdKey struct {
	comp, atom string
	opts       Options
}

type revKey struct{ comp, atom string }

// Engine holds the caches. It is not safe for concurrent use; give
// each translation its own and share the statistics.
type Engine struct {
	stat *csstat.Stat
	dict *ccd.Dictionary
	fwd  map[fwdKey]Result
	rev  map[revKey]string
	pats map[string]*regexp.Regexp // compiled name patterns, kept across Reset
}

// New returns an engine over the statistics and their dictionary.
func New(stat *csstat.Stat) *Engine {
	return &Engine{
		stat: stat,
		dict: stat.Dict(),
		fwd:  make(map[fwdKey]Result),
		rev:  make(map[revKey]string),
		pats: make(map[string]*regexp.Regexp),
	}
}

// compile returns the compiled form of a name pattern. The parts of
// the pattern taken from atom names are quoted, so it always compiles.
func (e *Engine) compile(pat string) *regexp.Regexp {
	re, ok := e.pats[pat]
	if !ok {
		re = regexp.MustCompile(pat)
		e.pats[pat] = re
	}
	return re
}

// Reset empties the caches. Call it between entries.
func (e *Engine) Reset() {
	e.fwd = make(map[fwdKey]Result)
	e.rev = make(map[revKey]string)
}

// CacheLen is the number of cached forward and reverse lookups.
func (e *Engine) CacheLen() int { return len(e.fwd) + len(e.rev) }

// Stat returns the statistics the engine uses.
func (e *Engine) Stat() *csstat.Stat { return e.stat }

// ToStar expands a NEF atom name of residue comp.
func (e *Engine) ToStar(comp, atom string, opts Options) Result {
	k := fwdKey{comp, atom, opts}
	r, ok := e.fwd[k]
	if !ok {
		r = e.toStar(strings.ToUpper(comp), atom, opts)
		e.fwd[k] = r
	}
	r.Atoms = append([]string(nil), r.Atoms...)
	return r
}

func (e *Engine) toStar(comp, atom string, opts Options) Result {
	c, ok := e.dict.Get(comp)
	if !ok {
		return unmatched(atom, opts, fmt.Sprintf("residue %s is not in the dictionary", comp))
	}
	name := normalize(atom)
	if name == "HN" && !c.Has("HN") && c.Has("H") {
		name = "H"
	}
	atoms, amb := e.expand(c, name, opts)
	if len(atoms) == 0 && !strings.ContainsAny(name, "%*") {
		atoms, amb = e.expand(c, name+"%", opts)
	}
	if len(atoms) == 0 {
		atoms = e.greek(c, name, opts)
		amb = csstat.AmbigUnique
	}
	if len(atoms) == 0 {
		return unmatched(atom, opts, fmt.Sprintf("atom %s does not match any atom of %s", atom, comp))
	}
	return Result{Atoms: atoms, Ambiguity: amb, Matched: true}
}

func unmatched(atom string, opts Options, why string) Result {
	r := Result{Details: why}
	if opts.LeaveUnmatched {
		r.Atoms = []string{atom}
	}
	return r
}

// elementOf is the element a name stem refers to. Only the common
// elements are checked; for anything else every atom may match.
func elementOf(stem string) string {
	if stem == "" {
		return ""
	}
	switch el := stem[:1]; el {
	case "H", "C", "N", "O", "P", "S":
		return el
	}
	return ""
}

// match returns atoms whose names match re and whose element is el,
// in dictionary order.
func match(c *ccd.Component, re *regexp.Regexp, el string) []string {
	var out []string
	for _, a := range c.Atoms {
		if re.MatchString(a.ID) && (el == "" || a.Element == el) {
			out = append(out, a.ID)
		}
	}
	return out
}

func (e *Engine) expand(c *ccd.Component, name string, opts Options) ([]string, int) {
	p := classify(name)
	if c.Has(name) {
		p = parsed{Shape: Literal, Stem: name, Name: name}
	}
	var atoms []string
	amb := csstat.AmbigUnique
	stem := regexp.QuoteMeta(p.Stem)
	switch p.Shape {
	case Literal:
		if c.Has(name) {
			atoms = []string{name}
		}
	case Family:
		pat := `^` + stem + `\d+$`
		if p.Mark == "*" {
			pat = `^` + stem + `.+$`
		}
		atoms = match(c, e.compile(pat), elementOf(p.Stem))
	case StereoGroup:
		atoms, amb = e.stereoGroup(c, p)
	case Stereo:
		atoms, amb = e.stereo(c, p)
	case Prefixed:
		pat := `^.` + stem + `$`
		if p.Mark == "*" {
			pat = `^.+` + stem + `$`
		}
		atoms = match(c, e.compile(pat), elementOf(p.Stem))
	case Aggregate:
		atoms = e.aggregate(c, p.Stem)
	}
	if opts.MethylOnly {
		atoms = methylOnly(c, atoms)
	}
	return atoms, amb
}

func methylOnly(c *ccd.Component, atoms []string) []string {
	var out []string
	for _, a := range atoms {
		if c.IsMethylProton(a) {
			out = append(out, a)
		}
	}
	return out
}

// stereoAmbig is the code for one member of a stereo pair: what the
// statistics say if that is 2 or more, else 2.
func (e *Engine) stereoAmbig(comp, atom string) int {
	if a := e.stat.MaxAmbigCode(comp, atom); a >= csstat.AmbigGeminal {
		return a
	}
	return csstat.AmbigGeminal
}

// stereoGroup handles HDx%. The atoms matching HD<digits> are grouped
// by the heavy atom carrying them; x takes the group with the lowest
// first sub-index, y the highest.
func (e *Engine) stereoGroup(c *ccd.Component, p parsed) ([]string, int) {
	re := e.compile(`^` + regexp.QuoteMeta(p.Stem) + `\d+$`)
	cands := match(c, re, elementOf(p.Stem))
	var order []string
	groups := make(map[string][]string)
	for _, a := range cands {
		h := c.Heavy(a)
		if _, ok := groups[h]; !ok {
			order = append(order, h)
		}
		groups[h] = append(groups[h], a)
	}
	var multi []string
	for _, h := range order {
		if len(groups[h]) >= 2 {
			multi = append(multi, h)
		}
	}
	if len(multi) < 2 {
		return nil, 0
	}
	sort.SliceStable(multi, func(i, j int) bool {
		return subIndex(groups[multi[i]][0], p.Stem) < subIndex(groups[multi[j]][0], p.Stem)
	})
	pick := groups[multi[0]]
	if p.Mark == "y" {
		pick = groups[multi[len(multi)-1]]
	}
	return pick, e.stereoAmbig(c.ID, pick[0])
}

// subIndex is the first digit after the stem, HD12 with stem HD gives 1.
func subIndex(atom, stem string) byte {
	if len(atom) > len(stem) {
		return atom[len(stem)]
	}
	return 0
}

// stereo handles HBx: the atoms named stem plus one digit, x the lower,
// y the higher.
func (e *Engine) stereo(c *ccd.Component, p parsed) ([]string, int) {
	re := e.compile(`^` + regexp.QuoteMeta(p.Stem) + `\d$`)
	cands := match(c, re, elementOf(p.Stem))
	if len(cands) < 2 {
		return nil, 0
	}
	sort.Strings(cands)
	pick := cands[0]
	if p.Mark == "y" {
		pick = cands[len(cands)-1]
	}
	return []string{pick}, e.stereoAmbig(c.ID, pick)
}

// aggregate resolves the pseudo atoms. QQx is both methyls on one
// carbon, QR and QX the protons of the aromatic ring, Mx the methyl
// protons called Hx and Qx all protons called Hx.
func (e *Engine) aggregate(c *ccd.Component, stem string) []string {
	switch {
	case strings.HasPrefix(stem, "QQ"):
		return methylPair(c, stem[2:])
	case stem == "QR" || stem == "QX":
		var out []string
		for _, a := range e.stat.AromaticAtoms(c.ID) {
			if c.Element(a) == "H" {
				out = append(out, a)
			}
		}
		return out
	}
	re := e.compile(`^H` + regexp.QuoteMeta(stem[1:]) + `\d+$`)
	atoms := match(c, re, "H")
	if stem[0] == 'M' {
		atoms = methylOnly(c, atoms)
	}
	return atoms
}

// methylPair walks the bond graph for a heavy atom that carries two
// methyl carbons whose names continue with pos, as CG of leucine
// carries CD1 and CD2.
func methylPair(c *ccd.Component, pos string) []string {
	methyls := c.Methyls()
	for _, a := range c.Atoms {
		if a.Element == "H" {
			continue
		}
		var pair []string
		for _, nb := range c.BondedAtoms(a.ID) {
			if _, ok := methyls[nb]; ok && strings.HasPrefix(nb[1:], pos) {
				pair = append(pair, nb)
			}
		}
		if len(pair) == 2 {
			return append(append([]string(nil), methyls[pair[0]]...), methyls[pair[1]]...)
		}
	}
	return nil
}

var greekRE = regexp.MustCompile(`^([HCNO])([ABGDEZH])$`)

// greek is the last try for names like HB that mean every proton at a
// position of the side chain.
func (e *Engine) greek(c *ccd.Component, name string, opts Options) []string {
	m := greekRE.FindStringSubmatch(name)
	if m == nil {
		return nil
	}
	atoms := c.AtomsByGreekLetter(m[1], m[2][0])
	if opts.MethylOnly {
		atoms = methylOnly(c, atoms)
	}
	return atoms
}
