// Package report writes what a run of nefstar did as YAML.
package report

import (
	"fmt"
	"io"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// File is the outcome for one input.
type File struct {
	Input     string   `yaml:"input"`
	Output    string   `yaml:"output,omitempty"`
	Direction string   `yaml:"direction,omitempty"` // nef2star or star2nef
	Size      string   `yaml:"size,omitempty"`
	OK        bool     `yaml:"ok"`
	Info      []string `yaml:"info,omitempty"`
	Error     []string `yaml:"error,omitempty"`
}

// Report is one run. Add may be called from many goroutines.
type Report struct {
	RunID   string `yaml:"run_id"`
	Program string `yaml:"program"`
	Version string `yaml:"version"`
	Date    string `yaml:"date"`
	Files   []File `yaml:"files"`

	mu sync.Mutex
}

// New starts a report with a fresh run id.
func New(program, version string) *Report {
	return &Report{
		RunID:   uuid.NewString(),
		Program: program,
		Version: version,
		Date:    time.Now().UTC().Format(time.RFC3339),
	}
}

// Add records one file.
func (r *Report) Add(f File) {
	r.mu.Lock()
	r.Files = append(r.Files, f)
	r.mu.Unlock()
}

// OK is true if every file went through.
func (r *Report) OK() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, f := range r.Files {
		if !f.OK {
			return false
		}
	}
	return true
}

// Write puts the report on w, files sorted by input name.
func (r *Report) Write(w io.Writer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	sort.SliceStable(r.Files, func(i, j int) bool { return r.Files[i].Input < r.Files[j].Input })
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("report: %w", err)
	}
	return enc.Close()
}

// WriteFile writes the report to the named file.
func (r *Report) WriteFile(name string) error {
	fp, err := os.Create(name)
	if err != nil {
		return err
	}
	if err := r.Write(fp); err != nil {
		fp.Close()
		return err
	}
	return fp.Close()
}

// Read decodes a report written by Write.
func Read(rd io.Reader) (*Report, error) {
	var r Report
	if err := yaml.NewDecoder(rd).Decode(&r); err != nil {
		return nil, fmt.Errorf("report: %w", err)
	}
	return &r, nil
}
