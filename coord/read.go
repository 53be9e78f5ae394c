package coord

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/andrew-torda/nefstar/zwrap"
)

// table is a loop we keep: column names without the category and one
// slice of values per row.
type table struct {
	Names []string
	Vals  [][]string
}

func (t table) col(name string) int {
	for i, n := range t.Names {
		if n == name {
			return i
		}
	}
	return -1
}

type data struct {
	items  map[string]string
	tables map[string]table
}

// reader holds instructions for the state functions: which items and
// tables are worth keeping.
type reader struct {
	cmmtScanner
	itemsToKeep  map[string]bool
	tablesToKeep map[string]bool
	headers      [][]byte
	scrtch       [][]byte
}

func newReader(r io.Reader) *reader {
	return &reader{
		cmmtScanner:  newCmmtScanner(r, '#'),
		itemsToKeep:  map[string]bool{"_entry.id": true},
		tablesToKeep: map[string]bool{polyScheme: true, nonpolyScheme: true},
		scrtch:       make([][]byte, 0, 25),
	}
}

type stateFn func(*reader, *data) stateFn

func stateTop(rd *reader, _ *data) stateFn {
	b := rd.cbytes()
	switch {
	case !rd.Ok || b == nil:
		return nil
	case bytes.HasPrefix(b, []byte("loop_")):
		return stateLoop
	case bytes.HasPrefix(b, []byte("data")):
		return stateData
	case bytes.HasPrefix(b, []byte("_")):
		return stateDItem
	}
	rd.fill("do not know what to do with line", true)
	return nil
}

func stateData(rd *reader, _ *data) stateFn {
	if !rd.cscan() {
		return nil
	}
	return stateTop
}

func stateLoop(rd *reader, _ *data) stateFn {
	if !rd.cscan() || rd.cbytes() == nil {
		rd.fill("loop_ at end of file", true)
		return nil
	}
	return stateLoopHdr
}

// isSpecial is true when a line does not continue a table.
func isSpecial(b []byte) bool {
	return b == nil || bytes.HasPrefix(b, []byte("_")) ||
		bytes.HasPrefix(b, []byte("loop_")) || bytes.HasPrefix(b, []byte("data_"))
}

// stateLoopHdr collects the column names and decides whether the table
// is kept.
func stateLoopHdr(rd *reader, _ *data) stateFn {
	rd.headers = rd.headers[:0]
	for ok := true; ok && rd.cbytes() != nil && rd.cbytes()[0] == '_'; ok = rd.cscan() {
		h := bytes.TrimRight(rd.cbytes(), " \t")
		rd.headers = append(rd.headers, append([]byte(nil), h...))
	}
	if len(rd.headers) == 0 {
		rd.fill("no contents found while reading loop headers", true)
		return nil
	}
	cat, _, _ := strings.Cut(string(rd.headers[0]), ".")
	if rd.tablesToKeep[cat] {
		return stateLoopTable
	}
	rd.headers = rd.headers[:0]
	return stateSkipLoopTable
}

func stateLoopTable(rd *reader, d *data) stateFn {
	cat, _, _ := strings.Cut(string(rd.headers[0]), ".")
	var t table
	for _, h := range rd.headers {
		_, name, ok := strings.Cut(string(h), ".")
		if !ok {
			rd.fill("could not split string at dot: "+string(h), true)
			return nil
		}
		t.Names = append(t.Names, name)
	}
	rd.headers = rd.headers[:0]
	ncol := len(t.Names)
	for {
		row, ok := getNpieces(rd, ncol)
		if !ok {
			return nil
		}
		if len(row) == 0 {
			break
		}
		if len(row) != ncol {
			rd.fill(fmt.Sprintf("%s: wanted %d values, got %d", cat, ncol, len(row)), true)
			return nil
		}
		t.Vals = append(t.Vals, row)
	}
	d.tables[cat] = t
	return stateTop
}

// stateSkipLoopTable reads over a table we do not want, like the
// coordinates.
func stateSkipLoopTable(rd *reader, _ *data) stateFn {
	for !isSpecial(rd.cbytes()) {
		if rd.cbytes()[0] == ';' {
			for ok := rd.cscan(); ; ok = rd.cscan() {
				if !ok || rd.cbytes() == nil {
					rd.fill("unterminated text field", true)
					return nil
				}
				if rd.cbytes()[0] == ';' {
					break
				}
			}
		}
		if !rd.cscan() {
			return nil
		}
	}
	return stateTop
}

// textField reads a ; delimited value. The current line starts with
// the opening semicolon.
func textField(rd *reader) (string, bool) {
	var sb strings.Builder
	sb.Write(rd.cbytes()[1:])
	for {
		if !rd.cscan() || rd.cbytes() == nil {
			rd.fill("unterminated text field", true)
			return "", false
		}
		if rd.cbytes()[0] == ';' {
			rd.cscan()
			return sb.String(), true
		}
		sb.WriteByte('\n')
		sb.Write(rd.cbytes())
	}
}

// stateDItem reads a single data item. The value is on the same line or
// on the lines after.
func stateDItem(rd *reader, d *data) stateFn {
	t, err := splitCifLine(rd.cbytes(), rd.scrtch)
	if err != nil {
		rd.fill(err.Error(), true)
		return nil
	}
	name := string(t[0])
	var value string
	switch len(t) {
	case 2:
		value = string(t[1])
		if !rd.cscan() {
			return nil
		}
	case 1:
		if !rd.cscan() || rd.cbytes() == nil {
			rd.fill("data item without a value", true)
			return nil
		}
		if rd.cbytes()[0] == ';' {
			v, ok := textField(rd)
			if !ok {
				return nil
			}
			value = v
		} else {
			t, err := splitCifLine(rd.cbytes(), rd.scrtch)
			if err != nil || len(t) != 1 {
				rd.fill("data item split over lines", true)
				return nil
			}
			value = string(t[0])
			rd.cscan()
		}
	default:
		rd.fill("too many values for data item "+name, true)
		return nil
	}
	if rd.itemsToKeep[name] {
		d.items[name] = value
	}
	return stateTop
}

// getNpieces reads words until it has n of them or meets the end of
// the table. It returns nil at the end of the table and false on an
// error.
func getNpieces(rd *reader, n int) ([]string, bool) {
	var ret []string
	for len(ret) < n {
		b := rd.cbytes()
		if isSpecial(b) {
			return ret, rd.Ok
		}
		if b[0] == ';' {
			v, ok := textField(rd)
			if !ok {
				return nil, false
			}
			ret = append(ret, v)
			continue
		}
		var words [][]byte
		if bytes.IndexByte(b, squote) < 0 && bytes.IndexByte(b, dquote) < 0 {
			words = bytes.Fields(b)
		} else {
			var err error
			if words, err = splitCifLine(b, rd.scrtch); err != nil {
				rd.fill(err.Error(), true)
				return nil, false
			}
		}
		for _, w := range words {
			ret = append(ret, string(w))
		}
		if !rd.cscan() {
			return nil, false
		}
	}
	return ret, true
}

// Read parses mmCIF text and builds the model from its residue
// schemes.
func Read(r io.Reader) (*Model, error) {
	if r == nil {
		return nil, errors.New("nil reader")
	}
	rd := newReader(r)
	if !rd.cscan() {
		return nil, rd.lErr
	}
	if rd.cbytes() == nil {
		return nil, errors.New("zero length file")
	}
	d := &data{items: make(map[string]string), tables: make(map[string]table)}
	for state := stateTop; state != nil && rd.Ok; {
		state = state(rd, d)
	}
	if !rd.Ok {
		return nil, rd.lErr
	}
	return build(d)
}

// ReadFile reads a possibly gzipped mmCIF file.
func ReadFile(fname string) (*Model, error) {
	r, err := zwrap.Open(fname)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	m, err := Read(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fname, err)
	}
	return m, nil
}
