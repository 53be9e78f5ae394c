package nefstar

import (
	"context"
	"errors"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/andrew-torda/nefstar/translate"
)

// Watcher reports NEF and NMR-STAR files written into a directory,
// once they have been quiet for a moment.
type Watcher struct {
	Dir   string
	Files <-chan string

	files   chan string
	quit    chan struct{}
	done    chan struct{}
	watcher *fsnotify.Watcher
}

// NewWatcher creates a watcher for dir. Nothing happens until Start.
func NewWatcher(dir string) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	ch := make(chan string, 16)
	return &Watcher{
		Dir:     dir,
		Files:   ch,
		files:   ch,
		quit:    make(chan struct{}),
		done:    make(chan struct{}),
		watcher: fw,
	}, nil
}

// Start begins watching.
func (w *Watcher) Start() error {
	if err := w.watcher.Add(w.Dir); err != nil {
		return err
	}
	go w.loop()
	return nil
}

// Stop closes the watcher and then Files.
func (w *Watcher) Stop() {
	close(w.quit)
	w.watcher.Close()
	<-w.done
	close(w.files)
}

const debounce = 200 * time.Millisecond

func (w *Watcher) loop() {
	defer close(w.done)
	pending := make(map[string]time.Time)
	ticker := time.NewTicker(debounce / 2)
	defer ticker.Stop()

	for {
		select {
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !IsInput(ev.Name) {
				continue
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) {
				pending[ev.Name] = time.Now()
			}
			if ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename) {
				delete(pending, ev.Name)
			}
		case now := <-ticker.C:
			for name, t := range pending {
				if now.Sub(t) < debounce {
					continue
				}
				delete(pending, name)
				select {
				case w.files <- name:
				case <-w.quit:
					return
				}
			}
		case _, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
		}
	}
}

var ErrSameDir = errors.New("output directory is the watched directory")

// Watch translates every file that arrives in dir into the other
// dialect, writing to outDir, until ctx is done.
func (r *Runner) Watch(ctx context.Context, dir, outDir string) error {
	a, err := filepath.Abs(dir)
	if err != nil {
		return err
	}
	b, err := filepath.Abs(outDir)
	if err != nil {
		return err
	}
	if a == b {
		return ErrSameDir
	}
	w, err := NewWatcher(dir)
	if err != nil {
		return err
	}
	if err := w.Start(); err != nil {
		w.watcher.Close()
		return err
	}
	defer w.Stop()

	r.log.Printf("watching %s", dir)
	for {
		select {
		case <-ctx.Done():
			r.finish()
			return nil
		case name := <-w.Files:
			f := r.convert(translate.New(r.stat, r.opts), Job{In: name, OutDir: outDir, Auto: true})
			r.Rep.Add(f)
			r.logFile(f)
		}
	}
}
