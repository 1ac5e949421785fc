package service

import (
	"io"
	"os"
	"sync"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"

	"github.com/ludo-technologies/depscope/domain"
	"github.com/ludo-technologies/depscope/internal/scanner"
)

// IsInteractiveEnvironment reports whether stderr is a terminal outside CI
func IsInteractiveEnvironment() bool {
	if os.Getenv("CI") != "" || os.Getenv("TERM") == "dumb" {
		return false
	}
	fd := os.Stderr.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// NewProgressManager returns terminal progress bars on stderr when enabled
// and interactive, and NoProgress otherwise.
func NewProgressManager(enabled bool) domain.ProgressManager {
	if !enabled || !IsInteractiveEnvironment() {
		return NoProgress{}
	}
	return newBarProgress(os.Stderr)
}

// BarProgress draws one progressbar per started task. Bars left open are
// finished by Close.
type BarProgress struct {
	out  io.Writer
	mu   sync.Mutex
	open []*progressbar.ProgressBar
}

func newBarProgress(out io.Writer) *BarProgress {
	return &BarProgress{out: out}
}

func (p *BarProgress) StartTask(description string, total int) domain.TaskProgress {
	bar := progressbar.NewOptions(total,
		progressbar.OptionSetWriter(p.out),
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWidth(24),
		progressbar.OptionShowCount(),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetPredictTime(false),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "|",
			BarEnd:        "|",
		}),
	)

	p.mu.Lock()
	p.open = append(p.open, bar)
	p.mu.Unlock()
	return barTask{bar}
}

func (p *BarProgress) IsInteractive() bool { return true }

func (p *BarProgress) Close() {
	p.mu.Lock()
	open := p.open
	p.open = nil
	p.mu.Unlock()

	for _, bar := range open {
		if !bar.IsFinished() {
			_ = bar.Finish()
		}
	}
}

type barTask struct {
	bar *progressbar.ProgressBar
}

func (t barTask) Increment(n int)             { _ = t.bar.Add(n) }
func (t barTask) Describe(description string) { t.bar.Describe(description) }
func (t barTask) Complete()                   { _ = t.bar.Finish() }

// ScanProgress bridges a progress manager to the scanner callback. The scanner
// only knows the file total once it reports the first file, so the task
// starts there. finish completes the task if one was started and prevents a
// late start.
func ScanProgress(pm domain.ProgressManager, description string) (scanner.ProgressFunc, func()) {
	var (
		once sync.Once
		task domain.TaskProgress
	)

	progress := func(_ string, _ int, total int) {
		once.Do(func() { task = pm.StartTask(description, total) })
		task.Increment(1)
	}
	finish := func() {
		once.Do(func() {})
		if task != nil {
			task.Complete()
		}
	}
	return progress, finish
}

// NoProgress discards all progress. It serves as both manager and task.
type NoProgress struct{}

func (NoProgress) StartTask(string, int) domain.TaskProgress { return NoProgress{} }
func (NoProgress) IsInteractive() bool                       { return false }
func (NoProgress) Close()                                    {}
func (NoProgress) Increment(int)                             {}
func (NoProgress) Describe(string)                           {}
func (NoProgress) Complete()                                 {}
