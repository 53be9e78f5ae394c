package star

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// WriteOptions control what gets written.
type WriteOptions struct {
	SkipEmptyLoops bool // leave out loops with no real values
	SkipEmptyTags  bool // leave out save frame tags whose value is empty
}

type writeError struct{ err error }

type writer struct {
	w    *bufio.Writer
	opts WriteOptions
}

func (w writer) pf(format string, v ...interface{}) {
	if _, err := fmt.Fprintf(w.w, format, v...); err != nil {
		panic(writeError{err})
	}
}

// Write writes a document in the same shape it was read.
func (d *Document) Write(out io.Writer, opts WriteOptions) error {
	switch d.Shape {
	case ShapeEntry:
		return d.Entry.Write(out, opts)
	}
	return write(out, opts, func(w writer) {
		for _, sf := range d.Entry.Frames {
			if d.Shape == ShapeLoop {
				for _, lp := range sf.Loops {
					w.writeLoop(lp, "")
				}
				continue
			}
			w.writeSaveframe(sf)
		}
	})
}

// Write writes the entry as data_ID with all its save frames.
func (e *Entry) Write(out io.Writer, opts WriteOptions) error {
	return write(out, opts, func(w writer) {
		w.pf("data_%s\n\n", e.ID)
		for _, sf := range e.Frames {
			w.writeSaveframe(sf)
		}
	})
}

func write(out io.Writer, opts WriteOptions, body func(writer)) (err error) {
	w := writer{w: bufio.NewWriter(out), opts: opts}
	defer func() {
		if r := recover(); r != nil {
			e, ok := r.(writeError)
			if !ok {
				panic(r)
			}
			err = e.err
		}
	}()
	body(w)
	return w.w.Flush()
}

func (w writer) writeSaveframe(sf *Saveframe) {
	w.pf("save_%s\n", sf.Name)
	width := 0
	for _, t := range sf.Tags {
		if n := len(sf.TagPrefix) + 1 + len(t.Name); n > width {
			width = n
		}
	}
	for _, t := range sf.Tags {
		if w.opts.SkipEmptyTags && IsEmpty(t.Value) {
			continue
		}
		v := formatValue(t.Value)
		if strings.HasPrefix(v, ";") {
			w.pf("   %s.%s\n%s\n", sf.TagPrefix, t.Name, v)
			continue
		}
		w.pf("   %-*s   %s\n", width, sf.TagPrefix+"."+t.Name, v)
	}
	for _, lp := range sf.Loops {
		if w.opts.SkipEmptyLoops && lp.Empty() {
			continue
		}
		w.pf("\n")
		w.writeLoop(lp, "   ")
	}
	w.pf("\nsave_\n\n")
}

// writeLoop lines up the columns. Text fields go on their own lines.
func (w writer) writeLoop(lp *Loop, indent string) {
	w.pf("%sloop_\n", indent)
	for _, t := range lp.FullTags() {
		w.pf("%s   %s\n", indent, t)
	}
	w.pf("\n")
	strs := make([][]string, len(lp.Data))
	width := make([]int, len(lp.Tags))
	for i, row := range lp.Data {
		strs[i] = make([]string, len(row))
		for j, v := range row {
			s := formatValue(v)
			strs[i][j] = s
			if !strings.HasPrefix(s, ";") && len(s) > width[j] {
				width[j] = len(s)
			}
		}
	}
	for _, row := range strs {
		w.pf("%s  ", indent)
		for j, s := range row {
			if strings.HasPrefix(s, ";") {
				w.pf("\n%s\n", s)
				continue
			}
			if j == len(row)-1 {
				w.pf(" %s", s)
			} else {
				w.pf(" %-*s", width[j], s)
			}
		}
		w.pf("\n")
	}
	w.pf("\n%sstop_\n", indent)
}

var reserved = []string{"data_", "save_", "loop_", "stop_", "global_"}

// formatValue decides how a value is written: bare, single quoted, double
// quoted or as a text field. Empty strings become ".".
func formatValue(s string) string {
	if s == "" {
		return Omitted
	}
	if strings.ContainsAny(s, "\n\r") {
		return ";" + s + "\n;"
	}
	needQuote := strings.ContainsAny(s, " \t") || strings.ContainsAny(s[:1], "_#$'\"[];")
	low := strings.ToLower(s)
	for _, r := range reserved {
		if strings.HasPrefix(low, r) {
			needQuote = true
		}
	}
	if !needQuote {
		return s
	}
	switch {
	case !strings.Contains(s, "'"):
		return "'" + s + "'"
	case !strings.Contains(s, "\""):
		return "\"" + s + "\""
	}
	return ";" + s + "\n;"
}
