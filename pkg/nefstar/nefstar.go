// Package nefstar runs translations for the command line: single
// files, batches of them and a watched directory. The chemistry is
// read once and shared; every job gets its own translator.
package nefstar

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"golang.org/x/sync/errgroup"

	"github.com/andrew-torda/nefstar/csstat"
	. "github.com/andrew-torda/nefstar/pkg/common"
	"github.com/andrew-torda/nefstar/pkg/config"
	"github.com/andrew-torda/nefstar/pkg/report"
	"github.com/andrew-torda/nefstar/schema"
	"github.com/andrew-torda/nefstar/star"
	"github.com/andrew-torda/nefstar/translate"
)

// Job is one file to translate.
type Job struct {
	In     string
	Out    string // "" to name it after In
	OutDir string // where a named output goes, "" for next to In
	To     schema.Dialect
	Auto   bool // translate into whichever dialect In is not in
}

// Runner holds what the jobs of a run share.
type Runner struct {
	Rep *report.Report

	cfg  config.Config
	stat *csstat.Stat
	opts translate.Options
	log  *log.Logger
}

// NewRunner reads the component dictionary and any coordinates.
func NewRunner(cfg config.Config, lg *log.Logger) (*Runner, error) {
	if lg == nil {
		lg = log.New(io.Discard, "", 0)
	}
	stat, err := cfg.Stat()
	if err != nil {
		return nil, err
	}
	opts, err := cfg.Options(lg)
	if err != nil {
		return nil, err
	}
	return &Runner{
		Rep:  report.New(translate.Program, translate.Version),
		cfg:  cfg,
		stat: stat,
		opts: opts,
		log:  lg,
	}, nil
}

// Direction names a translation into to.
func Direction(to schema.Dialect) string {
	if to == schema.STAR {
		return "nef2star"
	}
	return "star2nef"
}

// OutputName is in with its extension (and any .gz) replaced by the
// one of dialect to, moved to dir if dir is not "".
func OutputName(in, dir string, to schema.Dialect) string {
	base := strings.TrimSuffix(in, ".gz")
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if dir != "" {
		base = filepath.Join(dir, filepath.Base(base))
	}
	if to == schema.STAR {
		return base + ".str"
	}
	return base + ".nef"
}

// IsInput says if a file name looks like something we translate.
func IsInput(name string) bool {
	n := strings.TrimSuffix(strings.ToLower(name), ".gz")
	return strings.HasSuffix(n, ".nef") || strings.HasSuffix(n, ".str")
}

func (r *Runner) convert(tr *translate.Translator, j Job) report.File {
	f := report.File{Input: j.In}
	if fi, err := os.Stat(j.In); err == nil {
		f.Size = humanize.Bytes(uint64(fi.Size()))
	}
	doc, err := star.ReadFile(j.In)
	if err != nil {
		f.Error = []string{err.Error()}
		return f
	}
	to := j.To
	if j.Auto {
		d, err := translate.Detect(doc.Entry)
		if err != nil {
			f.Error = []string{fmt.Sprintf("%s: %v", j.In, err)}
			return f
		}
		to = d.Other()
	}
	f.Direction = Direction(to)
	f.Output = j.Out
	if f.Output == "" {
		f.Output = OutputName(j.In, j.OutDir, to)
	}

	got, res, err := tr.Translate(doc, to)
	f.Info, f.Error = res.Info, res.Error
	if err != nil {
		if len(f.Error) == 0 {
			f.Error = append(f.Error, err.Error())
		}
		return f
	}
	opts := star.WriteOptions{SkipEmptyLoops: true, SkipEmptyTags: true}
	if err := star.WriteFile(f.Output, got, opts); err != nil {
		f.Error = append(f.Error, fmt.Sprintf("writing %s: %v", f.Output, err))
		return f
	}
	f.OK = res.OK()
	return f
}

func (r *Runner) logFile(f report.File) {
	if f.OK {
		if r.cfg.Verbose {
			r.log.Printf("%s (%s) -> %s", f.Input, f.Size, f.Output)
		}
		return
	}
	for _, e := range f.Error {
		r.log.Printf("%s: %s", f.Input, e)
	}
}

// Run translates the jobs, cfg.Workers at a time. In a strict run the
// first failure stops the jobs not yet started.
func (r *Runner) Run(ctx context.Context, jobs []Job) int {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.cfg.Workers)
	for _, j := range jobs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			f := r.convert(translate.New(r.stat, r.opts), j)
			r.Rep.Add(f)
			r.logFile(f)
			if !f.OK && r.cfg.Strict {
				return fmt.Errorf("%s: %s", f.Input, strings.Join(f.Error, "; "))
			}
			return nil
		})
	}
	err := g.Wait()
	r.finish()
	if err != nil || !r.Rep.OK() {
		return ExitFailure
	}
	return ExitSuccess
}

// Validate checks files without translating them and lists the issues
// on w.
func (r *Runner) Validate(files []string, w io.Writer) int {
	tr := translate.New(r.stat, r.opts)
	code := ExitSuccess
	for _, name := range files {
		f := report.File{Input: name}
		doc, err := star.ReadFile(name)
		if err != nil {
			fmt.Fprintf(w, "%s: %v\n", name, err)
			f.Error = []string{err.Error()}
			r.Rep.Add(f)
			code = ExitFailure
			continue
		}
		d, rep, err := tr.Check(doc)
		if err != nil {
			fmt.Fprintf(w, "%s: %v\n", name, err)
			f.Error = []string{err.Error()}
			r.Rep.Add(f)
			code = ExitFailure
			continue
		}
		fmt.Fprintf(w, "%s: %s, %d issues\n", name, d, rep.Len())
		for _, is := range rep.Issues {
			fmt.Fprintf(w, "    %s\n", is)
		}
		f.OK = !rep.Fatal()
		f.Info, f.Error = rep.Info(), rep.Errors()
		r.Rep.Add(f)
		if !f.OK {
			code = ExitFailure
		}
	}
	r.finish()
	return code
}

// finish writes the report if one was asked for.
func (r *Runner) finish() {
	if r.cfg.Report == "" {
		return
	}
	if err := r.Rep.WriteFile(r.cfg.Report); err != nil {
		r.log.Printf("report: %v", err)
	}
}
