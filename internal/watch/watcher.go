// Package watch re-runs an analysis when project sources change
package watch

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Op is the kind of a file change
type Op int

const (
	OpCreate Op = iota
	OpWrite
	OpRemove
	OpRename
)

// String returns the name of the operation
func (op Op) String() string {
	switch op {
	case OpCreate:
		return "create"
	case OpWrite:
		return "write"
	case OpRemove:
		return "remove"
	case OpRename:
		return "rename"
	default:
		return "unknown"
	}
}

// Change is one file system change
type Change struct {
	Path string
	Op   Op
	Time time.Time
}

// Handler receives a debounced batch of changes, at most one change per path
type Handler func(changes []Change)

// Options configures a Watcher
type Options struct {
	// Debounce is the quiet period after the last change before the handler runs
	Debounce time.Duration

	// IgnoredFolders are directory names never watched
	IgnoredFolders []string

	// Extensions limits reported changes to these file extensions; empty reports all
	Extensions []string

	// BufferSize is the capacity of the pending change channel
	BufferSize int

	Logger *slog.Logger
}

// DefaultOptions returns the options used by the analyze --watch flag
func DefaultOptions() Options {
	return Options{
		Debounce:       300 * time.Millisecond,
		IgnoredFolders: []string{".git", "node_modules", "dist", "build", ".next"},
		BufferSize:     1000,
	}
}

// Watcher watches a directory tree and batches changes. The handler is
// called from a single goroutine.
type Watcher struct {
	root       string
	fsw        *fsnotify.Watcher
	handler    Handler
	debounce   time.Duration
	ignored    map[string]bool
	extensions map[string]bool
	logger     *slog.Logger

	changes  chan Change
	done     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup

	mu       sync.Mutex
	watching bool
}

// New creates a watcher for root. Call Start or Run to begin watching.
func New(root string, handler Handler, opts Options) (*Watcher, error) {
	defaults := DefaultOptions()
	if opts.Debounce <= 0 {
		opts.Debounce = defaults.Debounce
	}
	if opts.BufferSize <= 0 {
		opts.BufferSize = defaults.BufferSize
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		root:       root,
		fsw:        fsw,
		handler:    handler,
		debounce:   opts.Debounce,
		ignored:    make(map[string]bool, len(opts.IgnoredFolders)),
		extensions: make(map[string]bool, len(opts.Extensions)),
		logger:     opts.Logger,
		changes:    make(chan Change, opts.BufferSize),
		done:       make(chan struct{}),
	}
	for _, name := range opts.IgnoredFolders {
		w.ignored[name] = true
	}
	for _, ext := range opts.Extensions {
		w.extensions[strings.ToLower(ext)] = true
	}
	return w, nil
}

// Start registers the directory tree and starts the event and debounce
// goroutines. Both stop when ctx is cancelled or Stop is called.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.watching {
		w.mu.Unlock()
		return nil
	}
	w.watching = true
	w.mu.Unlock()

	if err := w.addRecursive(w.root); err != nil {
		return err
	}

	w.wg.Add(2)
	go w.processEvents(ctx)
	go w.debounceLoop(ctx)
	return nil
}

// Run starts watching and blocks until ctx is cancelled
func (w *Watcher) Run(ctx context.Context) error {
	if err := w.Start(ctx); err != nil {
		return err
	}
	<-ctx.Done()
	w.Stop()
	return nil
}

// Stop stops watching and waits for pending handler calls to finish
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.done)
		w.fsw.Close()
		w.wg.Wait()

		w.mu.Lock()
		w.watching = false
		w.mu.Unlock()
	})
}

func (w *Watcher) addRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && w.ignored[d.Name()] {
			return filepath.SkipDir
		}
		return w.fsw.Add(path)
	})
}

// inIgnoredFolder reports whether any directory of path below root is ignored
func (w *Watcher) inIgnoredFolder(path string) bool {
	rel, err := filepath.Rel(w.root, path)
	if err != nil {
		return false
	}
	parts := strings.Split(filepath.ToSlash(rel), "/")
	for _, part := range parts[:len(parts)-1] {
		if w.ignored[part] {
			return true
		}
	}
	return false
}

func (w *Watcher) relevant(path string) bool {
	if w.inIgnoredFolder(path) {
		return false
	}
	if len(w.extensions) == 0 {
		return true
	}
	return w.extensions[strings.ToLower(filepath.Ext(path))]
}

func (w *Watcher) processEvents(ctx context.Context) {
	defer w.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.done:
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}

			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if !w.ignored[filepath.Base(event.Name)] && !w.inIgnoredFolder(event.Name) {
						if err := w.addRecursive(event.Name); err != nil {
							w.logger.Warn("cannot watch directory", "path", event.Name, "error", err)
						}
					}
					continue
				}
			}

			if !w.relevant(event.Name) {
				continue
			}

			change := Change{Path: event.Name, Op: convertOp(event.Op), Time: time.Now()}
			select {
			case w.changes <- change:
			default:
				w.logger.Warn("change buffer full, dropping event", "path", event.Name)
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watch error", "error", err)
		}
	}
}

func convertOp(op fsnotify.Op) Op {
	switch {
	case op.Has(fsnotify.Create):
		return OpCreate
	case op.Has(fsnotify.Write):
		return OpWrite
	case op.Has(fsnotify.Remove):
		return OpRemove
	case op.Has(fsnotify.Rename):
		return OpRename
	default:
		return OpWrite
	}
}

func (w *Watcher) debounceLoop(ctx context.Context) {
	defer w.wg.Done()

	var batch []Change
	var timer *time.Timer
	var timerC <-chan time.Time

	flush := func() {
		if len(batch) > 0 && w.handler != nil {
			w.handler(deduplicate(batch))
		}
		batch = nil
		if timer != nil {
			timer.Stop()
			timer = nil
			timerC = nil
		}
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.done:
			return
		case change := <-w.changes:
			batch = append(batch, change)
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				timerC = timer.C
			} else {
				timer.Reset(w.debounce)
			}
		case <-timerC:
			flush()
		}
	}
}

// deduplicate keeps the latest change per path, in first-seen order
func deduplicate(changes []Change) []Change {
	seen := make(map[string]int, len(changes))
	out := make([]Change, 0, len(changes))
	for _, c := range changes {
		if i, ok := seen[c.Path]; ok {
			out[i] = c
			continue
		}
		seen[c.Path] = len(out)
		out = append(out, c)
	}
	return out
}
