// Package scanner walks a JavaScript/TypeScript project and produces the
// per-file import descriptors consumed by the analysis engine.
package scanner

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"sync/atomic"

	ignore "github.com/sabhiram/go-gitignore"
	"golang.org/x/sync/errgroup"

	"github.com/ludo-technologies/depscope/domain"
	"github.com/ludo-technologies/depscope/internal/constants"
	"github.com/ludo-technologies/depscope/internal/parser"
)

// ProgressFunc is called once per ingested file with the number of files
// finished so far and the total to ingest. Calls may come from several
// goroutines.
type ProgressFunc func(relPath string, done, total int)

// Scanner implements domain.ProjectScanner
type Scanner struct {
	logger   *slog.Logger
	progress ProgressFunc
}

// Option configures a Scanner
type Option func(*Scanner)

// WithLogger sets the logger used for skipped and unparsable files
func WithLogger(logger *slog.Logger) Option {
	return func(s *Scanner) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithProgress registers a per-file progress callback
func WithProgress(fn ProgressFunc) Option {
	return func(s *Scanner) {
		s.progress = fn
	}
}

// New creates a scanner
func New(opts ...Option) *Scanner {
	s := &Scanner{logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// DefaultOptions returns the scan options used when nothing is configured
func DefaultOptions() domain.ScanOptions {
	return domain.ScanOptions{
		IncludeExtensions: append([]string(nil), constants.DefaultIncludeExtensions...),
		IgnoredFolders:    append([]string(nil), constants.DefaultIgnoredFolders...),
		AliasPrefixes:     append([]string(nil), constants.DefaultAliasPrefixes...),
		RespectGitignore:  true,
		MaxFileSize:       constants.DefaultMaxFileSize,
		MaxGoroutines:     constants.DefaultMaxGoroutines,
	}
}

type candidate struct {
	abs string
	rel string
}

// Scan walks root and extracts import facts for every included file
func (s *Scanner) Scan(ctx context.Context, root string, opts domain.ScanOptions) (*domain.ScanResult, error) {
	if root == "" {
		return nil, domain.NewInvalidInputError("project root is required", nil)
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, domain.NewInvalidInputError("invalid project root", err)
	}
	info, err := os.Stat(absRoot)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, domain.NewFileNotFoundError(root, err)
		}
		return nil, domain.NewInvalidInputError("cannot access project root", err)
	}
	if !info.IsDir() {
		return nil, domain.NewInvalidInputError("project root is not a directory: "+root, nil)
	}

	opts = normalizeOptions(opts)

	var matcher *ignore.GitIgnore
	if opts.RespectGitignore {
		matcher = loadGitignore(absRoot)
	}

	files, skipped, err := s.collect(ctx, absRoot, opts, matcher)
	if err != nil {
		return nil, err
	}

	descriptors := make([]domain.ProjectFile, len(files))
	contents := make([]string, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.MaxGoroutines)

	var mu sync.Mutex
	var done atomic.Int64
	for i, c := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			desc, content, warn := s.ingest(gctx, c, opts)
			descriptors[i] = desc
			contents[i] = content
			if warn != "" {
				mu.Lock()
				skipped = append(skipped, warn)
				mu.Unlock()
			}
			n := done.Add(1)
			if s.progress != nil {
				s.progress(c.rel, int(n), len(files))
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, domain.NewAnalysisError("scan interrupted", err)
	}

	result := &domain.ScanResult{
		Root:      absRoot,
		Structure: domain.FileStructure{},
		Contents:  make(map[string]string, len(files)),
		Skipped:   skipped,
	}
	for i, desc := range descriptors {
		dir := path.Dir(desc.Path)
		result.Structure[dir] = append(result.Structure[dir], desc)
		result.Contents[desc.Path] = contents[i]
	}
	sort.Strings(result.Skipped)

	s.logger.Debug("scan complete",
		slog.String("root", absRoot),
		slog.Int("files", len(files)),
		slog.Int("skipped", len(result.Skipped)))

	return result, nil
}

// collect walks the tree and returns included files in lexical order
func (s *Scanner) collect(ctx context.Context, absRoot string, opts domain.ScanOptions, matcher *ignore.GitIgnore) ([]candidate, []string, error) {
	ignored := make(map[string]bool, len(opts.IgnoredFolders))
	for _, name := range opts.IgnoredFolders {
		ignored[name] = true
	}
	include := make(map[string]bool, len(opts.IncludeExtensions))
	for _, ext := range opts.IncludeExtensions {
		include[strings.ToLower(ext)] = true
	}

	var files []candidate
	var skipped []string

	err := filepath.WalkDir(absRoot, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			s.logger.Warn("cannot read path", slog.String("path", p), slog.Any("error", err))
			if d != nil && d.IsDir() && p != absRoot {
				return filepath.SkipDir
			}
			return nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if p == absRoot {
			return nil
		}

		rel, relErr := filepath.Rel(absRoot, p)
		if relErr != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if ignored[d.Name()] || (matcher != nil && matcher.MatchesPath(rel+"/")) {
				return filepath.SkipDir
			}
			return nil
		}

		// symlinked directories are never descended into
		if d.Type()&fs.ModeSymlink != 0 {
			if !opts.FollowSymlinks {
				return nil
			}
			target, statErr := os.Stat(p)
			if statErr != nil || !target.Mode().IsRegular() {
				return nil
			}
		}

		if matcher != nil && matcher.MatchesPath(rel) {
			return nil
		}
		if isSensitive(d.Name()) {
			return nil
		}
		if !include[strings.ToLower(filepath.Ext(d.Name()))] {
			return nil
		}
		if opts.MaxFileSize > 0 {
			fi, statErr := os.Stat(p)
			if statErr == nil && fi.Size() > opts.MaxFileSize {
				s.logger.Warn("file exceeds size limit",
					slog.String("path", rel),
					slog.Int64("size", fi.Size()),
					slog.Int64("limit", opts.MaxFileSize))
				skipped = append(skipped, rel)
				return nil
			}
		}

		files = append(files, candidate{abs: p, rel: rel})
		return nil
	})
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, nil, domain.NewAnalysisError("scan interrupted", err)
		}
		return nil, nil, domain.NewAnalysisError("failed to walk project", err)
	}

	sort.Slice(files, func(i, j int) bool { return files[i].rel < files[j].rel })
	return files, skipped, nil
}

// ingest reads and parses one file. The returned warning is non-empty when
// the file could not be read; descriptors are produced regardless.
func (s *Scanner) ingest(ctx context.Context, c candidate, opts domain.ScanOptions) (domain.ProjectFile, string, string) {
	name := path.Base(c.rel)
	desc := domain.ProjectFile{
		Name: name,
		Path: c.rel,
		Analysis: domain.FileAnalysis{
			FileName:        name,
			FullPath:        c.rel,
			FileType:        domain.ClassifyFileKind(c.rel),
			LocalImports:    []string{},
			ExternalImports: []string{},
		},
	}

	data, err := os.ReadFile(c.abs)
	if err != nil {
		s.logger.Warn("cannot read file", slog.String("path", c.rel), slog.Any("error", err))
		return desc, "", c.rel
	}
	content := string(data)
	desc.Size = int64(len(data))
	desc.Analysis.LinesOfCode = countLines(content)

	if !parser.IsSourceFile(name) {
		return desc, content, ""
	}

	imports, err := parser.ExtractImports(ctx, c.rel, data)
	if err != nil {
		s.logger.Warn("cannot parse file", slog.String("path", c.rel), slog.Any("error", err))
		return desc, content, ""
	}
	local, external := parser.Split(imports, opts.AliasPrefixes, opts.IncludeTypeImports)
	desc.Analysis.LocalImports = local
	desc.Analysis.ExternalImports = external
	return desc, content, ""
}

func normalizeOptions(opts domain.ScanOptions) domain.ScanOptions {
	defaults := DefaultOptions()
	if len(opts.IncludeExtensions) == 0 {
		opts.IncludeExtensions = defaults.IncludeExtensions
	}
	if opts.IgnoredFolders == nil {
		opts.IgnoredFolders = defaults.IgnoredFolders
	}
	if opts.MaxGoroutines <= 0 {
		opts.MaxGoroutines = defaults.MaxGoroutines
	}
	return opts
}

func loadGitignore(root string) *ignore.GitIgnore {
	m, err := ignore.CompileIgnoreFile(filepath.Join(root, ".gitignore"))
	if err != nil {
		return nil
	}
	return m
}

// isSensitive matches environment files that must never be ingested
func isSensitive(name string) bool {
	lower := strings.ToLower(name)
	return strings.HasPrefix(lower, ".env") && !strings.Contains(lower, ".example")
}

func countLines(content string) int {
	if content == "" {
		return 0
	}
	n := strings.Count(content, "\n")
	if !strings.HasSuffix(content, "\n") {
		n++
	}
	return n
}
