package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/ludo-technologies/depscope/domain"
	"github.com/ludo-technologies/depscope/internal/analyzer"
	"github.com/ludo-technologies/depscope/internal/version"
)

// Sources recorded on analysis metrics
const (
	SourceProject   = "project"
	SourceStructure = "structure"
)

// AnalysisServiceImpl runs ingestion, the engine and the optional error
// detector for one request. It is safe for concurrent use; every call gets
// its own engine.
type AnalysisServiceImpl struct {
	scanner domain.ProjectScanner
	logger  *slog.Logger
	now     func() time.Time
}

// AnalysisOption configures an AnalysisServiceImpl
type AnalysisOption func(*AnalysisServiceImpl)

// WithLogger sets the service logger
func WithLogger(logger *slog.Logger) AnalysisOption {
	return func(s *AnalysisServiceImpl) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock sets the clock used for GeneratedAt and report timestamps
func WithClock(now func() time.Time) AnalysisOption {
	return func(s *AnalysisServiceImpl) {
		if now != nil {
			s.now = now
		}
	}
}

// NewAnalysisService creates a new analysis service
func NewAnalysisService(scanner domain.ProjectScanner, opts ...AnalysisOption) *AnalysisServiceImpl {
	s := &AnalysisServiceImpl{
		scanner: scanner,
		logger:  slog.Default(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Analyze scans req.Root and analyzes the result
func (s *AnalysisServiceImpl) Analyze(ctx context.Context, req domain.AnalysisRequest) (*domain.AnalysisResponse, error) {
	resp, _, err := s.AnalyzeProject(ctx, req)
	return resp, err
}

// AnalyzeProject is Analyze that also returns the engine holding the graph,
// for follow-up impact queries and report rendering
func (s *AnalysisServiceImpl) AnalyzeProject(ctx context.Context, req domain.AnalysisRequest) (*domain.AnalysisResponse, *analyzer.Engine, error) {
	if s.scanner == nil {
		return nil, nil, domain.NewAnalysisError("no project scanner configured", nil)
	}
	if req.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, req.Timeout)
		defer cancel()
	}

	start := time.Now()
	ctx, span := startSpan(ctx, "AnalysisService.Analyze", attribute.String("depscope.root", req.Root))

	scanCtx, scanSpan := startSpan(ctx, "Scanner.Scan")
	result, err := s.scanner.Scan(scanCtx, req.Root, ScanOptionsFromRequest(req))
	endSpan(scanSpan, err)
	if err != nil {
		endSpan(span, err)
		recordAnalysisMetrics(ctx, SourceProject, time.Since(start), nil, false)
		return nil, nil, err
	}

	s.logger.Debug("scan finished",
		"root", result.Root,
		"files", result.Structure.FileCount(),
		"skipped", len(result.Skipped))

	engine, resp := s.analyze(ctx, result.Structure, result.Contents, req.DetectErrors)
	resp.Root = result.Root
	resp.SkippedFiles = result.Skipped

	setInsightAttributes(span, resp.Insight)
	endSpan(span, nil)
	recordAnalysisMetrics(ctx, SourceProject, time.Since(start), resp.Insight, true)

	return resp, engine, nil
}

// AnalyzeStructure analyzes an already ingested structure, as posted to the
// HTTP API
func (s *AnalysisServiceImpl) AnalyzeStructure(ctx context.Context, structure domain.FileStructure, contents map[string]string, detectErrors bool) (*domain.AnalysisResponse, *analyzer.Engine) {
	start := time.Now()
	ctx, span := startSpan(ctx, "AnalysisService.AnalyzeStructure")

	engine, resp := s.analyze(ctx, structure, contents, detectErrors)

	setInsightAttributes(span, resp.Insight)
	endSpan(span, nil)
	recordAnalysisMetrics(ctx, SourceStructure, time.Since(start), resp.Insight, true)

	return resp, engine
}

func (s *AnalysisServiceImpl) analyze(ctx context.Context, structure domain.FileStructure, contents map[string]string, detectErrors bool) (*analyzer.Engine, *domain.AnalysisResponse) {
	generatedAt := s.now()
	engine := analyzer.NewEngine(analyzer.WithClock(func() time.Time { return generatedAt }))

	_, span := startSpan(ctx, "Engine.Analyze")
	insight := engine.Analyze(structure, contents)
	endSpan(span, nil)

	resp := &domain.AnalysisResponse{
		Insight:           insight,
		Nodes:             engine.Nodes(),
		ExternalLibraries: engine.ExternalLibraries(),
		Coupling:          engine.Coupling(),
		Warnings:          unresolvedWarnings(engine.Unresolved()),
		GeneratedAt:       generatedAt,
		Version:           version.GetVersion(),
	}

	if detectErrors {
		_, span := startSpan(ctx, "ErrorDetector.Detect")
		resp.Findings = analyzer.NewErrorDetector().Detect(engine.Records(), engine.Contents())
		span.SetAttributes(attribute.Int("depscope.findings", len(resp.Findings)))
		endSpan(span, nil)
	}

	s.logger.Debug("analysis complete",
		"files", insight.Stats.TotalFiles,
		"dependencies", insight.Stats.TotalDependencies,
		"cycles", len(insight.Cycles),
		"maintainability", insight.Stats.MaintainabilityScore)

	return engine, resp
}

func unresolvedWarnings(unresolved []analyzer.UnresolvedImport) []string {
	if len(unresolved) == 0 {
		return nil
	}
	warnings := make([]string, len(unresolved))
	for i, u := range unresolved {
		warnings[i] = fmt.Sprintf("%s: cannot resolve import '%s'", u.From, u.Specifier)
	}
	return warnings
}

// ScanOptionsFromRequest extracts the scanner options of a request
func ScanOptionsFromRequest(req domain.AnalysisRequest) domain.ScanOptions {
	return domain.ScanOptions{
		IncludeExtensions:  req.IncludeExtensions,
		IgnoredFolders:     req.IgnoredFolders,
		AliasPrefixes:      req.AliasPrefixes,
		IncludeTypeImports: req.IncludeTypeImports,
		RespectGitignore:   req.RespectGitignore,
		FollowSymlinks:     req.FollowSymlinks,
		MaxFileSize:        req.MaxFileSize,
		MaxGoroutines:      req.MaxGoroutines,
	}
}
