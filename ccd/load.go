package ccd

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"sync"

	toml "github.com/pelletier/go-toml/v2"
)

//go:embed standard.toml
var standardTOML []byte

// entry is a component or fragment as it is written in TOML.
type entry struct {
	Name      string              `toml:"name"`
	Type      string              `toml:"type"`
	OneLetter string              `toml:"one_letter"`
	Extends   string              `toml:"extends"`
	Atoms     []string            `toml:"atoms"`
	Paths     []string            `toml:"paths"`
	Hydrogens map[string][]string `toml:"hydrogens"`
	Aromatic  []string            `toml:"aromatic"`
	Leaving   []string            `toml:"leaving"`
	Elements  map[string]string   `toml:"elements"`
}

type file struct {
	Fragment  map[string]entry `toml:"fragment"`
	Component map[string]entry `toml:"component"`
}

// Dictionary holds components by their three letter (or shorter) ID.
// It is read-only once loaded and may be shared between goroutines.
type Dictionary struct {
	comps     map[string]*Component
	fragments map[string]entry
}

var (
	stdOnce sync.Once
	stdDict *Dictionary
	stdErr  error
)

// Standard returns the compiled in dictionary.
func Standard() (*Dictionary, error) {
	stdOnce.Do(func() {
		stdDict = &Dictionary{comps: make(map[string]*Component), fragments: make(map[string]entry)}
		stdErr = stdDict.Add(standardTOML)
	})
	return stdDict, stdErr
}

// Load returns the standard dictionary extended by the components in
// the named TOML files. The standard dictionary itself is not changed.
func Load(paths ...string) (*Dictionary, error) {
	std, err := Standard()
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return std, nil
	}
	d := std.clone()
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("reading components: %w", err)
		}
		if err := d.Add(data); err != nil {
			return nil, fmt.Errorf("%s: %w", p, err)
		}
	}
	return d, nil
}

func (d *Dictionary) clone() *Dictionary {
	n := &Dictionary{
		comps:     make(map[string]*Component, len(d.comps)),
		fragments: make(map[string]entry, len(d.fragments)),
	}
	for k, v := range d.comps {
		n.comps[k] = v
	}
	for k, v := range d.fragments {
		n.fragments[k] = v
	}
	return n
}

// Add decodes TOML and adds its fragments and components. A component
// with an ID already present replaces the old one.
func (d *Dictionary) Add(data []byte) error {
	var f file
	if err := toml.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("parsing components: %w", err)
	}
	for name, fr := range f.Fragment {
		d.fragments[name] = fr
	}
	for id, e := range f.Component {
		c, err := d.build(strings.ToUpper(id), e)
		if err != nil {
			return err
		}
		d.comps[c.ID] = c
	}
	return nil
}

// Get returns a component, ok is false if we do not know it.
func (d *Dictionary) Get(comp string) (*Component, bool) {
	c, ok := d.comps[strings.ToUpper(comp)]
	return c, ok
}

// Len is the number of components.
func (d *Dictionary) Len() int { return len(d.comps) }

// build turns the written form into a Component with its atom list and
// bonds. Fragment atoms come first, then the component's own heavy
// atoms, then all hydrogens.
func (d *Dictionary) build(id string, e entry) (*Component, error) {
	var paths, leaving, aromatic, atoms []string
	hydrogens := make(map[string][]string)
	elements := make(map[string]string)
	if e.Extends != "" {
		fr, ok := d.fragments[e.Extends]
		if !ok {
			return nil, fmt.Errorf("component %s extends unknown fragment %q", id, e.Extends)
		}
		paths = append(paths, fr.Paths...)
		leaving = append(leaving, fr.Leaving...)
		aromatic = append(aromatic, fr.Aromatic...)
		atoms = append(atoms, fr.Atoms...)
		for k, v := range fr.Hydrogens {
			hydrogens[k] = v
		}
		for k, v := range fr.Elements {
			elements[k] = v
		}
	}
	paths = append(paths, e.Paths...)
	leaving = append(leaving, e.Leaving...)
	aromatic = append(aromatic, e.Aromatic...)
	atoms = append(atoms, e.Atoms...)
	for k, v := range e.Hydrogens {
		hydrogens[k] = v
	}
	for k, v := range e.Elements {
		elements[k] = v
	}

	c := &Component{ID: id, Name: e.Name, Type: e.Type, OneLetter: e.OneLetter}
	seen := make(map[string]bool)
	addAtom := func(a string) {
		if !seen[a] {
			seen[a] = true
			c.Atoms = append(c.Atoms, Atom{ID: a})
		}
	}
	bonded := make(map[[2]string]bool)
	addBond := func(a, b string) {
		if a > b {
			a, b = b, a
		}
		if !bonded[[2]string{a, b}] {
			bonded[[2]string{a, b}] = true
			c.Bonds = append(c.Bonds, [2]string{a, b})
		}
	}
	for _, a := range atoms {
		addAtom(a)
	}
	for _, p := range paths {
		names := strings.Split(p, "-")
		for i, a := range names {
			if a == "" {
				return nil, fmt.Errorf("component %s: empty atom in path %q", id, p)
			}
			addAtom(a)
			if i > 0 {
				addBond(names[i-1], a)
			}
		}
	}
	heavy := append([]Atom(nil), c.Atoms...)
	for _, h := range heavy {
		for _, p := range hydrogens[h.ID] {
			addAtom(p)
			addBond(h.ID, p)
			elements[p] = "H"
		}
	}
	for k := range hydrogens {
		if !seen[k] {
			return nil, fmt.Errorf("component %s: hydrogens on unknown atom %s", id, k)
		}
	}
	flag := func(names []string) map[string]bool {
		m := make(map[string]bool, len(names))
		for _, n := range names {
			m[n] = true
		}
		return m
	}
	isLeaving, isAromatic := flag(leaving), flag(aromatic)
	for i := range c.Atoms {
		a := &c.Atoms[i]
		if el, ok := elements[a.ID]; ok {
			a.Element = el
		} else {
			a.Element = a.ID[:1]
		}
		a.Leaving = isLeaving[a.ID]
		a.Aromatic = isAromatic[a.ID]
	}
	c.build()
	return c, nil
}
