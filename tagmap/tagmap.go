// Package tagmap holds the fixed correspondence between NEF and
// NMR-STAR saveframe categories, loop categories and tags.
//
// A NEF loop tag maps to a pair of STAR tags. The author tag carries
// the value as it was written in the NEF file, the data tag carries the
// value after chains, residues and atoms have been mapped. Tags that
// have no author form have an empty Auth.
package tagmap

import (
	"sort"
	"strings"

	"github.com/andrew-torda/nefstar/star"
)

// Tag is one row of the equivalence table.
type Tag struct {
	NEF     string
	Auth    string
	Data    string
	Ordinal int
	Values  map[string]string // NEF value to STAR value
}

// ToStar translates a value going from NEF to STAR.
func (t Tag) ToStar(v string) string {
	if s, ok := t.Values[v]; ok {
		return s
	}
	return v
}

// ToNef translates a value going from STAR to NEF.
func (t Tag) ToNef(v string) string {
	for n, s := range t.Values {
		if s == v {
			return n
		}
	}
	return v
}

// LoopMap is the table for one pair of loop categories.
type LoopMap struct {
	NEF  string // with leading underscore
	STAR string
	Tags []Tag
	Tail []string // STAR tags with no NEF counterpart, filled by the rewriters

	byNEF  map[string]int
	byData map[string]int
	byAuth map[string]int
}

func (lm *LoopMap) index() {
	lm.byNEF = make(map[string]int, len(lm.Tags))
	lm.byData = make(map[string]int, len(lm.Tags))
	lm.byAuth = make(map[string]int, len(lm.Tags))
	for i, t := range lm.Tags {
		lm.byNEF[strings.ToLower(t.NEF)] = i
		lm.byData[strings.ToLower(t.Data)] = i
		if t.Auth != "" {
			lm.byAuth[strings.ToLower(t.Auth)] = i
		}
	}
}

func lookup(m map[string]int, tags []Tag, name string) (Tag, bool) {
	_, name = star.SplitTag(name)
	if i, ok := m[strings.ToLower(name)]; ok {
		return tags[i], true
	}
	return Tag{}, false
}

// ByNEF finds the entry for a NEF tag.
func (lm *LoopMap) ByNEF(tag string) (Tag, bool) { return lookup(lm.byNEF, lm.Tags, tag) }

// ByData finds the entry for a STAR data tag.
func (lm *LoopMap) ByData(tag string) (Tag, bool) { return lookup(lm.byData, lm.Tags, tag) }

// ByAuth finds the entry for a STAR author tag.
func (lm *LoopMap) ByAuth(tag string) (Tag, bool) { return lookup(lm.byAuth, lm.Tags, tag) }

// StarTags gives the STAR tag list for a loop that had the NEF tags
// nefTags. Data tags come first in ordinal order, then author tags,
// then the tail.
func (lm *LoopMap) StarTags(nefTags []string) []string {
	type ord struct {
		name string
		auth bool
		key  int
	}
	var ords []ord
	for _, n := range nefTags {
		t, ok := lm.ByNEF(n)
		if !ok {
			continue
		}
		ords = append(ords, ord{t.Data, false, t.Ordinal})
		if t.Auth != "" {
			ords = append(ords, ord{t.Auth, true, t.Ordinal})
		}
	}
	sort.SliceStable(ords, func(i, j int) bool {
		if ords[i].auth != ords[j].auth {
			return !ords[i].auth
		}
		return ords[i].key < ords[j].key
	})
	out := make([]string, 0, len(ords)+len(lm.Tail))
	seen := make(map[string]bool)
	for _, o := range ords {
		if !seen[o.name] {
			seen[o.name] = true
			out = append(out, o.name)
		}
	}
	for _, t := range lm.Tail {
		if !seen[t] {
			out = append(out, t)
		}
	}
	return out
}

// NefTags gives the NEF tag list for a loop that had the STAR tags
// starTags, in ordinal order. Author tags and tail tags do not produce
// NEF tags of their own.
func (lm *LoopMap) NefTags(starTags []string) []string {
	var got []Tag
	seen := make(map[string]bool)
	for _, s := range starTags {
		t, ok := lm.ByData(s)
		if !ok || seen[t.NEF] {
			continue
		}
		seen[t.NEF] = true
		got = append(got, t)
	}
	sort.SliceStable(got, func(i, j int) bool { return got[i].Ordinal < got[j].Ordinal })
	out := make([]string, len(got))
	for i, t := range got {
		out[i] = t.NEF
	}
	return out
}

// FrameMap is the table for one pair of saveframe categories.
type FrameMap struct {
	NEF        string
	STAR       string
	NEFPrefix  string
	STARPrefix string
	Tags       []Tag // Auth is always empty
	Loops      []*LoopMap

	byNEF  map[string]int
	byData map[string]int
}

// ByNEF finds a saveframe tag by its NEF name.
func (fm *FrameMap) ByNEF(tag string) (Tag, bool) { return lookup(fm.byNEF, fm.Tags, tag) }

// ByData finds a saveframe tag by its STAR name.
func (fm *FrameMap) ByData(tag string) (Tag, bool) { return lookup(fm.byData, fm.Tags, tag) }

var (
	framesByNEF  = map[string]*FrameMap{}
	framesBySTAR = map[string]*FrameMap{}
	loopsByNEF   = map[string]*LoopMap{}
	loopsBySTAR  = map[string]*LoopMap{}
	frameList    []*FrameMap
)

// the tail tag every STAR loop and saveframe carries
const entryID = "Entry_ID"

func add(fm *FrameMap) {
	fm.byNEF = make(map[string]int)
	fm.byData = make(map[string]int)
	for i, t := range fm.Tags {
		fm.byNEF[strings.ToLower(t.NEF)] = i
		fm.byData[strings.ToLower(t.Data)] = i
	}
	for _, lm := range fm.Loops {
		lm.Tail = append(lm.Tail, entryID)
		lm.index()
		loopsByNEF[strings.ToLower(lm.NEF)] = lm
		loopsBySTAR[strings.ToLower(lm.STAR)] = lm
	}
	framesByNEF[strings.ToLower(fm.NEF)] = fm
	framesBySTAR[strings.ToLower(fm.STAR)] = fm
	frameList = append(frameList, fm)
}

// FrameByNEF returns the map for a NEF saveframe category, nil if there
// is none.
func FrameByNEF(category string) *FrameMap { return framesByNEF[strings.ToLower(category)] }

// FrameBySTAR returns the map for a STAR saveframe category.
func FrameBySTAR(category string) *FrameMap { return framesBySTAR[strings.ToLower(category)] }

// LoopByNEF returns the map for a NEF loop category, with or without
// the leading underscore.
func LoopByNEF(category string) *LoopMap { return loopsByNEF[strings.ToLower(underscore(category))] }

// LoopBySTAR returns the map for a STAR loop category.
func LoopBySTAR(category string) *LoopMap { return loopsBySTAR[strings.ToLower(underscore(category))] }

// Frames lists every saveframe map in the order they were defined.
func Frames() []*FrameMap { return frameList }

func underscore(s string) string {
	if strings.HasPrefix(s, "_") {
		return s
	}
	return "_" + s
}

// StarTag maps a full NEF tag such as _nef_chemical_shift.atom_name to
// its STAR author and data tags. ok is false if there is no entry.
func StarTag(nefTag string) (auth, data string, ok bool) {
	cat, name := star.SplitTag(nefTag)
	if lm := LoopByNEF(cat); lm != nil {
		if t, found := lm.ByNEF(name); found {
			if t.Auth != "" {
				auth = lm.STAR + "." + t.Auth
			}
			return auth, lm.STAR + "." + t.Data, true
		}
	}
	for _, fm := range frameList {
		if strings.EqualFold(fm.NEFPrefix, cat) {
			if t, found := fm.ByNEF(name); found {
				return "", fm.STARPrefix + "." + t.Data, true
			}
		}
	}
	return "", "", false
}

// NefTag maps a full STAR data or author tag back to NEF.
func NefTag(starTag string) (string, bool) {
	cat, name := star.SplitTag(starTag)
	if lm := LoopBySTAR(cat); lm != nil {
		if t, ok := lm.ByData(name); ok {
			return lm.NEF + "." + t.NEF, true
		}
		if t, ok := lm.ByAuth(name); ok {
			return lm.NEF + "." + t.NEF, true
		}
		return "", false
	}
	for _, fm := range frameList {
		if strings.EqualFold(fm.STARPrefix, cat) {
			if t, ok := fm.ByData(name); ok {
				return fm.NEFPrefix + "." + t.NEF, true
			}
		}
	}
	return "", false
}

// IsNefCategory is true for a saveframe category of the NEF dialect.
func IsNefCategory(category string) bool {
	return strings.HasPrefix(strings.ToLower(category), "nef_")
}
