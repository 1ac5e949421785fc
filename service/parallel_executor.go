package service

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ludo-technologies/depscope/domain"
)

// DefaultTaskTimeout bounds one Execute call when no timeout is configured
const DefaultTaskTimeout = 5 * time.Minute

// TaskFailure is the error returned by one named task
type TaskFailure struct {
	Task string
	Err  error
}

func (f TaskFailure) Error() string {
	return fmt.Sprintf("[%s] %v", f.Task, f.Err)
}

func (f TaskFailure) Unwrap() error {
	return f.Err
}

// TaskFailures holds every failure of one Execute call, ordered by task name
type TaskFailures []TaskFailure

func (f TaskFailures) Error() string {
	if len(f) == 1 {
		return f[0].Error()
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%d tasks failed:", len(f))
	for _, failure := range f {
		fmt.Fprintf(&b, "\n  %s", failure.Error())
	}
	return b.String()
}

// Unwrap exposes each task error to errors.Is and errors.As
func (f TaskFailures) Unwrap() []error {
	errs := make([]error, len(f))
	for i, failure := range f {
		errs[i] = failure.Err
	}
	return errs
}

// ParallelExecutor runs independent tasks, such as report exports, with
// bounded concurrency. A failing task does not cancel its siblings.
type ParallelExecutor struct {
	limit    int
	timeout  time.Duration
	progress domain.ProgressManager
	logger   *slog.Logger
}

// ExecutorOption configures a ParallelExecutor
type ExecutorOption func(*ParallelExecutor)

// WithMaxConcurrency caps the number of tasks running at once. Values below
// one are ignored.
func WithMaxConcurrency(n int) ExecutorOption {
	return func(e *ParallelExecutor) {
		if n > 0 {
			e.limit = n
		}
	}
}

// WithTaskTimeout bounds a whole Execute call. Values below one are ignored.
func WithTaskTimeout(d time.Duration) ExecutorOption {
	return func(e *ParallelExecutor) {
		if d > 0 {
			e.timeout = d
		}
	}
}

// WithTaskProgress reports task completion to pm
func WithTaskProgress(pm domain.ProgressManager) ExecutorOption {
	return func(e *ParallelExecutor) {
		e.progress = pm
	}
}

// WithTaskLogger sets the logger used for per-task timings
func WithTaskLogger(logger *slog.Logger) ExecutorOption {
	return func(e *ParallelExecutor) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// NewParallelExecutor creates an executor with one slot per CPU
func NewParallelExecutor(opts ...ExecutorOption) *ParallelExecutor {
	e := &ParallelExecutor{
		limit:   runtime.NumCPU(),
		timeout: DefaultTaskTimeout,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Execute runs the enabled tasks and waits for all of them. Failures come
// back together as TaskFailures; nil means every task succeeded.
func (e *ParallelExecutor) Execute(ctx context.Context, tasks []domain.ExecutableTask) error {
	enabled := make([]domain.ExecutableTask, 0, len(tasks))
	for _, t := range tasks {
		if t.IsEnabled() {
			enabled = append(enabled, t)
		}
	}
	if len(enabled) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	var bar domain.TaskProgress = NoProgress{}
	if e.progress != nil {
		bar = e.progress.StartTask(fmt.Sprintf("Running %d tasks", len(enabled)), len(enabled))
	}
	defer bar.Complete()

	var (
		mu       sync.Mutex
		failures TaskFailures
	)

	g := new(errgroup.Group)
	g.SetLimit(e.limit)
	for _, t := range enabled {
		g.Go(func() error {
			start := time.Now()
			err := ctx.Err()
			if err == nil {
				err = t.Execute(ctx)
			}
			e.logger.Debug("task finished", "task", t.Name(), "duration", time.Since(start), "error", err)

			mu.Lock()
			bar.Describe(t.Name())
			bar.Increment(1)
			if err != nil {
				failures = append(failures, TaskFailure{Task: t.Name(), Err: err})
			}
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	if len(failures) == 0 {
		return nil
	}
	sort.Slice(failures, func(i, j int) bool {
		return failures[i].Task < failures[j].Task
	})
	return failures
}
