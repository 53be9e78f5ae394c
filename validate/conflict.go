package validate

import (
	"sort"
	"strconv"
	"strings"

	"github.com/andrew-torda/nefstar/schema"
	"github.com/andrew-torda/nefstar/star"
)

// normKey makes "01" and "1", or "1.0" and "1.00", the same key.
func normKey(v string) string {
	v = strings.TrimSpace(v)
	if star.IsEmpty(v) {
		return ""
	}
	if i, err := strconv.Atoi(v); err == nil {
		return strconv.Itoa(i)
	}
	if f, err := strconv.ParseFloat(v, 64); err == nil {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	return v
}

// conflictClasses groups the rows whose keys repeat. With withFirst
// the first row of each key leads its class, otherwise a class holds
// only the repeats.
func conflictClasses(keys [][]string, withFirst bool) [][]int {
	first := make(map[string]int)
	byKey := make(map[string][]int)
	var order []string
	for n, k := range keys {
		s := strings.Join(k, "\x00")
		if f, seen := first[s]; seen {
			if len(byKey[s]) == 0 {
				order = append(order, s)
				if withFirst {
					byKey[s] = append(byKey[s], f)
				}
			}
			byKey[s] = append(byKey[s], n)
			continue
		}
		first[s] = n
	}
	classes := make([][]int, len(order))
	for i, s := range order {
		classes[i] = byKey[s]
	}
	return classes
}

func loopKeys(lp *star.Loop, names []string) [][]string {
	idx := make([]int, len(names))
	for i, n := range names {
		idx[i] = lp.TagIndex(n)
	}
	keys := make([][]string, len(lp.Data))
	for r, row := range lp.Data {
		k := make([]string, len(idx))
		for i, j := range idx {
			if j >= 0 {
				k[i] = normKey(row[j])
			}
		}
		keys[r] = k
	}
	return keys
}

// GetConflictIDSet finds rows that repeat the key of an earlier row.
// Each class holds the rows, from 0, that repeat one key; the first row
// with the key is not in it, so the union of the classes is exactly
// the set of repeats.
func GetConflictIDSet(lp *star.Loop, keys []string) [][]int {
	return conflictClasses(loopKeys(lp, keys), false)
}

// GetConflictID lists, in order, the rows that repeat an earlier key.
func GetConflictID(lp *star.Loop, keys []string) []int {
	var out []int
	for _, c := range GetConflictIDSet(lp, keys) {
		out = append(out, c...)
	}
	sort.Ints(out)
	return out
}

// atomTags gives the chain, residue and atom tags of each atom position
// of a restraint loop, 1, 2, ... until one is missing.
func atomTags(lp *star.Loop, d schema.Dialect) [][3]int {
	names := [3]string{"chain_code", "sequence_code", "atom_name"}
	if d == schema.STAR {
		names = [3]string{"Entity_assembly_ID", "Comp_index_ID", "Atom_ID"}
	}
	var pos [][3]int
	for n := 1; ; n++ {
		var p [3]int
		for i, t := range names {
			p[i] = lp.TagIndex(schema.Suffix(t, n))
		}
		if p[0] < 0 || p[1] < 0 || p[2] < 0 {
			return pos
		}
		pos = append(pos, p)
	}
}

// GetConflictAtomID lists the rows of a restraint loop that name the
// same atom at two positions.
func GetConflictAtomID(lp *star.Loop, d schema.Dialect) []int {
	pos := atomTags(lp, d)
	if len(pos) < 2 {
		return nil
	}
	var out []int
	for n, row := range lp.Data {
		seen := make(map[string]bool, len(pos))
		for _, p := range pos {
			if star.IsEmpty(row[p[2]]) {
				continue
			}
			k := row[p[0]] + "\x00" + normKey(row[p[1]]) + "\x00" + row[p[2]]
			if seen[k] {
				out = append(out, n)
				break
			}
			seen[k] = true
		}
	}
	return out
}

// GetBadPatternID lists the rows with a bad character in a cell whose
// item asks for the check, or a value that does not fit an item that
// asks for bad rows to be removed.
func GetBadPatternID(lp *star.Loop, ls schema.LoopSchema) []int {
	items := ls.All()
	var out []int
	for n, row := range lp.Data {
		for i := range items {
			it := &items[i]
			if !it.RemoveBadPattern && !it.ClearBadPattern {
				continue
			}
			j := lp.TagIndex(it.Name)
			if j < 0 || star.IsEmpty(row[j]) {
				continue
			}
			bad := badPattern.MatchString(row[j])
			if !bad && it.RemoveBadPattern {
				_, msg := coerce(it, row[j])
				bad = msg != ""
			}
			if bad {
				out = append(out, n)
				break
			}
		}
	}
	return out
}
