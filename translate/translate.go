// Package translate converts whole NEF documents into NMR-STAR and back.
// It finds the dialect and shape of the input, checks it, binds the
// chains, and walks the save frames handing each loop to package
// rewrite. The result carries the messages for the caller, split into
// information and errors.
package translate

import (
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/andrew-torda/nefstar/atomname"
	"github.com/andrew-torda/nefstar/coord"
	"github.com/andrew-torda/nefstar/csstat"
	"github.com/andrew-torda/nefstar/rewrite"
	"github.com/andrew-torda/nefstar/schema"
	"github.com/andrew-torda/nefstar/star"
	"github.com/andrew-torda/nefstar/tagmap"
	"github.com/andrew-torda/nefstar/validate"
)

// Program and Version go into the meta data of everything we write.
const (
	Program = "nefstar"
	Version = "1.0.0"
)

var (
	ErrUnknownDialect = errors.New("neither NEF nor NMR-STAR")
	ErrEmptyInput     = errors.New("nothing to translate")
)

// Options for a translator.
type Options struct {
	LeaveUnmatched    bool         // keep atom names that cannot be expanded
	InsertOriginalPDB bool         // keep NEF atoms in the Original_PDB_* shift columns
	BMRBOnly          bool         // keep residue numbers that are already positive
	AllowEmpty        bool         // missing or empty mandatory parts are only warnings
	Strict            bool         // stop at the first error
	Rescue            bool         // allow the rescue routines below
	ResetAuthSeq      bool         // renumber STAR residues from the coordinates
	AdoptAuthChain    bool         // fill STAR chains from the author chains
	Coords            *coord.Model // optional coordinates with the author labels
	Verbose           bool         // log notes as well as errors
	Logger            *log.Logger  // nil discards everything
}

// Result is what a translation has to say. Error is empty when it
// went through.
type Result struct {
	Info  []string `yaml:"info"`
	Error []string `yaml:"error"`
}

// OK is true when there are no errors.
func (r Result) OK() bool { return len(r.Error) == 0 }

// Translator holds the atom name engine and its caches. The chemistry
// under it may be shared, a Translator may not.
type Translator struct {
	opts  Options
	atoms *atomname.Engine
	log   *log.Logger
}

// New makes a translator on the shift statistics (and through them the
// component dictionary).
func New(stat *csstat.Stat, opts Options) *Translator {
	lg := opts.Logger
	if lg == nil {
		lg = log.New(io.Discard, "", 0)
	}
	return &Translator{opts: opts, atoms: atomname.New(stat), log: lg}
}

// Options returns what the translator was made with.
func (t *Translator) Options() Options { return t.opts }

// Detect says which dialect an entry is in. Any NEF save frame or loop
// category makes it NEF; otherwise a category we know from NMR-STAR
// makes it NMR-STAR.
func Detect(e *star.Entry) (schema.Dialect, error) {
	isStar := false
	for _, sf := range e.Frames {
		if cat := sf.Category(); cat != "" {
			if tagmap.IsNefCategory(cat) {
				return schema.NEF, nil
			}
			if tagmap.FrameBySTAR(cat) != nil {
				isStar = true
			}
		}
		if strings.HasPrefix(strings.ToLower(sf.TagPrefix), "_nef_") {
			return schema.NEF, nil
		}
		for _, lp := range sf.Loops {
			if strings.HasPrefix(strings.ToLower(lp.Category), "_nef_") {
				return schema.NEF, nil
			}
			if tagmap.LoopBySTAR(lp.Category) != nil || isStarOnlyLoop(lp.Category) {
				isStar = true
			}
		}
	}
	if isStar {
		return schema.STAR, nil
	}
	return schema.NEF, ErrUnknownDialect
}

func isStarOnlyLoop(category string) bool {
	if strings.EqualFold(category, tagmap.DeletedAtom) {
		return true
	}
	for _, c := range tagmap.CanonicalPeakLoops {
		if strings.EqualFold(category, c) {
			return true
		}
	}
	return false
}

func empty(doc *star.Document) bool {
	if doc == nil || doc.Entry == nil {
		return true
	}
	for _, sf := range doc.Entry.Frames {
		if len(sf.Tags) > 0 {
			return false
		}
		for _, lp := range sf.Loops {
			if lp.Len() > 0 {
				return false
			}
		}
	}
	return true
}

// Translate converts a document into dialect to. A document already in
// that dialect only has its framecodes put in order. In strict mode the
// first error stops everything and is returned; otherwise errors go to
// the Result and the translation carries on without the parts that
// failed.
func (t *Translator) Translate(doc *star.Document, to schema.Dialect) (*star.Document, Result, error) {
	var res Result
	if empty(doc) {
		return nil, res, ErrEmptyInput
	}
	from, err := Detect(doc.Entry)
	if err != nil {
		return nil, res, err
	}
	t.atoms.Reset()
	r := &run{
		t:        t,
		from:     from,
		to:       to,
		in:       doc,
		rep:      &validate.Report{},
		counters: make(map[string]int),
		byName:   make(map[string]*star.Saveframe),
	}
	if from == to {
		res.Info = append(res.Info, fmt.Sprintf("input is already %s", to))
		out := r.same()
		return out, res, nil
	}

	p := validate.Policy{AllowEmpty: t.opts.AllowEmpty}
	r.rep.Merge(validate.Repair(doc.Entry, from, p, doc.Shape == star.ShapeEntry))
	if t.opts.Strict && r.rep.Fatal() {
		r.settle(&res)
		return nil, res, r.rep
	}

	out, err := r.translate()
	r.settle(&res)
	if err != nil {
		if res.OK() {
			res.Error = append(res.Error, err.Error())
		}
		return nil, res, err
	}
	if t.opts.Strict && !res.OK() {
		return nil, res, r.rep
	}
	return out, res, nil
}

// settle moves the report into the result and logs it.
func (r *run) settle(res *Result) {
	for _, s := range r.rep.Errors() {
		r.t.log.Print(s)
	}
	if r.t.opts.Verbose {
		for _, s := range r.rep.Info() {
			r.t.log.Print(s)
		}
	}
	res.Info = append(res.Info, r.rep.Info()...)
	res.Error = append(res.Error, r.rep.Errors()...)
}

// convertFile reads, translates and writes. The output is written
// unless the translation failed outright.
func (t *Translator) convertFile(in, out string, to schema.Dialect) (bool, Result) {
	doc, err := star.ReadFile(in)
	if err != nil {
		return false, Result{Error: []string{err.Error()}}
	}
	got, res, err := t.Translate(doc, to)
	if err != nil {
		if len(res.Error) == 0 {
			res.Error = append(res.Error, err.Error())
		}
		return false, res
	}
	opts := star.WriteOptions{SkipEmptyLoops: true, SkipEmptyTags: true}
	if err := star.WriteFile(out, got, opts); err != nil {
		res.Error = append(res.Error, fmt.Sprintf("writing %s: %v", out, err))
		return false, res
	}
	if t.opts.Verbose {
		t.log.Printf("%s -> %s", in, out)
	}
	return res.OK(), res
}

// NefToNmrStar translates the NEF file in into the NMR-STAR file out.
func (t *Translator) NefToNmrStar(in, out string) (bool, Result) {
	return t.convertFile(in, out, schema.STAR)
}

// NmrStarToNef translates the NMR-STAR file in into the NEF file out.
func (t *Translator) NmrStarToNef(in, out string) (bool, Result) {
	return t.convertFile(in, out, schema.NEF)
}

// Check runs the checks alone, changing nothing.
func (t *Translator) Check(doc *star.Document) (schema.Dialect, *validate.Report, error) {
	if empty(doc) {
		return schema.NEF, nil, ErrEmptyInput
	}
	d, err := Detect(doc.Entry)
	if err != nil {
		return d, nil, err
	}
	p := validate.Policy{AllowEmpty: t.opts.AllowEmpty}
	rep := validate.Entry(doc.Entry, d, p)
	if doc.Shape != star.ShapeEntry {
		rep = dropStructural(rep, d)
	}
	return d, rep, nil
}

// dropStructural forgets the missing mandatory save frames, which a
// file without a data block need not have.
func dropStructural(rep *validate.Report, d schema.Dialect) *validate.Report {
	mandatory := make(map[string]bool)
	for _, c := range schema.MandatoryFrames(d) {
		mandatory[c] = true
	}
	out := &validate.Report{}
	for _, is := range rep.Issues {
		if is.Kind == validate.Structural && mandatory[is.Category] {
			continue
		}
		out.Add(is)
	}
	return out
}

// run is one translation.
type run struct {
	t        *Translator
	from, to schema.Dialect
	in       *star.Document
	rep      *validate.Report
	ctx      *rewrite.Context
	counters map[string]int             // list number per target category
	byName   map[string]*star.Saveframe // input framecode, folded, to output
}

// fail records an error of one part. In strict mode it is returned.
func (r *run) fail(where string, err error) error {
	var re *rewrite.RowError
	if errors.As(err, &re) {
		if re.Kind == validate.Nomenclature && r.t.opts.LeaveUnmatched {
			r.rep.Warnf(re.Kind, re.Category, "", re.Row, "%s", re.Msg)
			return nil
		}
		r.rep.Addf(re.Kind, re.Category, "", re.Row, "%s", re.Msg)
	} else {
		r.rep.Addf(validate.Schema, where, "", 0, "%v", err)
	}
	if r.t.opts.Strict {
		return fmt.Errorf("%s: %w", where, err)
	}
	return nil
}

// next gives the next list number of a target category.
func (r *run) next(category string) int {
	r.counters[category]++
	return r.counters[category]
}
