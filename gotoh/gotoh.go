// Package gotoh implements the Gotoh version of pair-wise alignments.
// We use a full scoring matrix and sum into it during the alignment.
// Here the sequences are residue names, so the score matrix comes from
// comparing names, but anything comparable can be aligned.
package gotoh

import (
	"fmt"
	"io"
	"strings"

	"github.com/andrew-torda/matrix"
)

// Al_type says if an alignment is global or local.
type Al_type byte

// Local/Global are the kinds of alignment one can ask for.
const (
	Local  Al_type = iota // Local alignment
	Global                // global alignment
)

// Pnlty has the gap opening and widening values. Opening costs
// -(Open+Wdn), each extension costs -Wdn.
type Pnlty struct {
	Open float32
	Wdn  float32
}

// Match_scr gives the score for identical and different symbols.
type Match_scr struct {
	Match    float32
	Mismatch float32
}

// Al_score tells Align how to score an alignment.
type Al_score struct {
	Pnlty
	Al_type Al_type
}

// Residue names are aligned with a strong reward for identity, so a
// renumbered or truncated chain still lines up with its full sequence.
var (
	SeqMatch = Match_scr{Match: 5, Mismatch: -3}
	SeqScore = Al_score{Pnlty{Open: 3, Wdn: 1}, Global}
)

const (
	diag byte = iota // diagonal movement
	pway             // along the P direction, vertical, over rows
	qway             // Q direction, horizontal, over columns
	stop             // traceback should stop
)

// Pair is one column of an alignment. I or J is -1 for a gap.
type Pair struct {
	I, J int
}

const bigf float32 = -1e+38

// String for the alignment type is mainly for debugging.
func (a Al_type) String() string {
	if a == Local {
		return "local"
	}
	return "global"
}

// IdentScore fills out a score matrix using identity. For an M x N
// pair, we have an M x N matrix with no extra room at the edges.
func IdentScore[T comparable](s, t []T, scr *Match_scr) *matrix.FMatrix2d {
	smat := matrix.NewFMatrix2d(len(s), len(t))
	mat := smat.Mat
	for i, cs := range s {
		for j, ct := range t {
			if cs == ct {
				mat[i][j] = scr.Match
			} else {
				mat[i][j] = scr.Mismatch
			}
		}
	}
	return smat
}

// PrintSeqDebug writes two aligned sequences of names, one above the
// other.
func PrintSeqDebug(w io.Writer, pairlist []Pair, s, t []string) {
	var out1, out2 []string
	for _, p := range pairlist {
		a, b := "-", "-"
		if p.I != -1 {
			a = s[p.I]
		}
		if p.J != -1 {
			b = t[p.J]
		}
		n := len(a)
		if len(b) > n {
			n = len(b)
		}
		out1 = append(out1, fmt.Sprintf("%-*s", n, a))
		out2 = append(out2, fmt.Sprintf("%-*s", n, b))
	}
	fmt.Fprintln(w, strings.Join(out1, " "))
	fmt.Fprintln(w, strings.Join(out2, " "))
}

// traceback returns the aligned pairs and the best total score. dir has
// the directions, scr_mat the summed scores.
func traceback(dir [][]byte, scr_mat [][]float32, al_type Al_type) ([]Pair, float32) {
	nr := len(scr_mat)
	nc := len(scr_mat[0])
	max_scr := scr_mat[nr-1][nc-1]
	max_i, max_j := nr-1, nc-1
	bigger := nr
	if nc > bigger {
		bigger = nc
	}
	pairlist := make([]Pair, 0, bigger+bigger/10)
	if al_type == Local { //             Local alignments start from
		for i, row := range scr_mat { // the highest score, even if it
			for j := range row { //      is not at one of the edges
				if scr_mat[i][j] > max_scr {
					max_scr = scr_mat[i][j]
					max_i, max_j = i, j
				}
			}
		}
	} else {
		for i, col := 0, nc-1; i < nr; i++ { // Look in last column
			if scr_mat[i][col] > max_scr {
				max_scr = scr_mat[i][col]
				max_i, max_j = i, col
			}
		}
		for j, row := 0, nr-1; j < nc; j++ { // and last row
			if scr_mat[row][j] > max_scr {
				max_scr = scr_mat[row][j]
				max_i, max_j = row, j
			}
		}
	}

	walk := func(i, j int, more func(i, j int) bool) (int, int) {
		for dir[i][j] != stop && more(i, j) {
			switch dir[i][j] {
			case diag:
				pairlist = append(pairlist, Pair{i, j})
				i--
				j--
			case pway:
				pairlist = append(pairlist, Pair{i, -1})
				i--
			case qway:
				pairlist = append(pairlist, Pair{-1, j})
				j--
			}
		}
		return i, j
	}

	if al_type == Local {
		const thresh = 0
		i, j := walk(max_i, max_j, func(i, j int) bool { return scr_mat[i][j] > thresh })
		if scr_mat[i][j] > thresh {
			pairlist = append(pairlist, Pair{i, j})
		}
	} else {
		if max_i == nr-1 {
			for jj := nc - 1; jj > max_j; jj-- {
				pairlist = append(pairlist, Pair{-1, jj})
			}
		} else if max_j == nc-1 {
			for ii := nr - 1; ii > max_i; ii-- {
				pairlist = append(pairlist, Pair{ii, -1})
			}
		}
		i, j := walk(max_i, max_j, func(int, int) bool { return true })
		pairlist = append(pairlist, Pair{i, j})
		for i--; i >= 0; i-- {
			pairlist = append(pairlist, Pair{i, -1})
		}
		for j--; j >= 0; j-- {
			pairlist = append(pairlist, Pair{-1, j})
		}
	}

	for i, j := 0, len(pairlist)-1; i < j; i, j = i+1, j-1 {
		pairlist[i], pairlist[j] = pairlist[j], pairlist[i]
	}
	return pairlist, max_scr
}

// Align implements Gotoh, O. J. Mol. Biol. (1982) 162, 705-708.
// It does not have the bugs described in Flouri, T, Kobert, K., Rognes, T
// and Stamatakis, doi: http://dx.doi.org/10.1101/031500 (2015).
// The score matrix is overwritten.
func Align(scr_mat_mat *matrix.FMatrix2d, scr_scheme *Al_score) ([]Pair, float32) {
	var max = func(a, b float32) float32 {
		if a > b {
			return a
		}
		return b
	}

	opn := -scr_scheme.Open
	wdn := -scr_scheme.Wdn
	w1 := opn - scr_scheme.Wdn
	scr_mat := scr_mat_mat.Mat
	nrow := len(scr_mat)
	if nrow < 1 || len(scr_mat[0]) < 1 {
		return nil, 0
	}
	ncol := len(scr_mat[0])
	dir := make([][]byte, nrow)
	backing := make([]byte, nrow*ncol)
	for i := range dir {
		dir[i] = backing[i*ncol : (i+1)*ncol]
		dir[i][0] = stop
	}
	for i := range dir[0] {
		dir[0][i] = stop
	}

	p := make([]float32, ncol)

	if scr_scheme.Al_type == Local { //  Start row and column can not be
		for _, row := range scr_mat { // negative in a local alignment
			row[0] = max(row[0], 0)
		}
		for i := range scr_mat[0] {
			scr_mat[0][i] = max(scr_mat[0][i], 0)
		}
	}
	for i, qprev := 1, bigf; i < ncol; i++ { //  special case first row
		q := max(scr_mat[0][i-1]+w1, qprev+wdn)
		if q >= scr_mat[0][i] {
			scr_mat[0][i] = q
			dir[0][i] = qway
		}
		qprev = q
	}

	for i, qprev := 1, bigf; i < nrow; i++ { // special case first column
		q := max(scr_mat[i-1][0]+w1, qprev+wdn)
		if q >= scr_mat[i][0] {
			scr_mat[i][0] = q
			dir[i][0] = pway
		}
		qprev = q
	}
	for i := range p {
		p[i] = bigf
	}

	for i := 1; i < nrow; i++ { // Indexing is such that we walk
		qprev := bigf //     along each row, left to right.
		for j := 1; j < ncol; j++ {
			best := scr_mat[i][j] + scr_mat[i-1][j-1]
			drctn := diag
			p[j] = max(scr_mat[i-1][j]+w1, p[j]+wdn)
			q := max(scr_mat[i][j-1]+w1, qprev+wdn)
			if p[j] > best {
				best, drctn = p[j], pway
			}
			if q > best {
				best, drctn = q, qway
			}
			scr_mat[i][j] = best
			dir[i][j] = drctn
			qprev = q
		}
	}
	return traceback(dir, scr_mat, scr_scheme.Al_type)
}

// Residues aligns two lists of residue names with the default scores.
// The map takes an index in s to its partner in t; residues opposite a
// gap or a different name are left out.
func Residues(s, t []string) (map[int]int, float32) {
	if len(s) == 0 || len(t) == 0 {
		return map[int]int{}, 0
	}
	pairs, scr := Align(IdentScore(s, t, &SeqMatch), &SeqScore)
	m := make(map[int]int, len(pairs))
	for _, p := range pairs {
		if p.I >= 0 && p.J >= 0 && s[p.I] == t[p.J] {
			m[p.I] = p.J
		}
	}
	return m, scr
}
