// Package validate checks loops and save frames against the item
// schema. It coerces cells to their types, fills in defaults and
// collects what it finds in a Report rather than stopping at the first
// problem.
package validate

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind sorts issues by what went wrong.
type Kind byte

const (
	Structural   Kind = iota // missing save frame or loop, empty loop
	Schema                   // a cell breaks its item description
	Uniqueness               // a key repeats within a loop
	Nomenclature             // an atom name could not be mapped
	Rescue                   // a value was repaired; advisory only
)

var kindNames = [...]string{"structural", "schema", "uniqueness", "nomenclature", "rescue"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Issue is one finding.
type Issue struct {
	Kind     Kind
	Warning  bool   // reported, but a translation may carry on
	Category string // loop or save frame category
	Tag      string
	Row      int   // from 1, 0 when the issue is not about a row
	Rows     []int // every row involved, for uniqueness
	Msg      string
}

// Fatal is true for an issue that should stop a strict translation.
func (is Issue) Fatal() bool { return !is.Warning && is.Kind != Rescue }

func (is Issue) String() string {
	sev := "error"
	switch {
	case is.Kind == Rescue:
		sev = "note"
	case is.Warning:
		sev = "warning"
	}
	where := is.Category
	if is.Row > 0 {
		where += " row " + strconv.Itoa(is.Row)
	}
	if is.Tag != "" {
		where += " " + is.Tag
	}
	where = strings.TrimSpace(where)
	if where == "" {
		return fmt.Sprintf("%s %s: %s", is.Kind, sev, is.Msg)
	}
	return fmt.Sprintf("%s %s: %s: %s", is.Kind, sev, where, is.Msg)
}

// Report collects issues. A nil *Report is an empty one. It is an
// error when it holds at least one fatal issue.
type Report struct {
	Issues []Issue
}

// Add appends an issue.
func (r *Report) Add(is Issue) { r.Issues = append(r.Issues, is) }

// Addf appends an error.
func (r *Report) Addf(k Kind, category, tag string, row int, format string, v ...interface{}) {
	r.Add(Issue{Kind: k, Category: category, Tag: tag, Row: row, Msg: fmt.Sprintf(format, v...)})
}

// Warnf appends a warning.
func (r *Report) Warnf(k Kind, category, tag string, row int, format string, v ...interface{}) {
	r.Add(Issue{Kind: k, Warning: true, Category: category, Tag: tag, Row: row, Msg: fmt.Sprintf(format, v...)})
}

// Merge appends the issues of o.
func (r *Report) Merge(o *Report) {
	if o != nil {
		r.Issues = append(r.Issues, o.Issues...)
	}
}

// Len is the number of issues.
func (r *Report) Len() int {
	if r == nil {
		return 0
	}
	return len(r.Issues)
}

// Fatal is true if any issue is.
func (r *Report) Fatal() bool {
	if r == nil {
		return false
	}
	for _, is := range r.Issues {
		if is.Fatal() {
			return true
		}
	}
	return false
}

// Of returns the issues of one kind.
func (r *Report) Of(k Kind) []Issue {
	if r == nil {
		return nil
	}
	var out []Issue
	for _, is := range r.Issues {
		if is.Kind == k {
			out = append(out, is)
		}
	}
	return out
}

// Err returns the report as an error if it has fatal issues, else nil.
func (r *Report) Err() error {
	if !r.Fatal() {
		return nil
	}
	return r
}

// Errors lists the fatal issues as text.
func (r *Report) Errors() []string { return r.strings(true) }

// Info lists warnings and notes as text.
func (r *Report) Info() []string { return r.strings(false) }

func (r *Report) strings(fatal bool) []string {
	if r == nil {
		return nil
	}
	var out []string
	for _, is := range r.Issues {
		if is.Fatal() == fatal {
			out = append(out, is.String())
		}
	}
	return out
}

func (r *Report) Error() string { return strings.Join(r.Errors(), "\n") }
