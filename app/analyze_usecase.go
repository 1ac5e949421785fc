package app

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/ludo-technologies/depscope/domain"
	"github.com/ludo-technologies/depscope/internal/analyzer"
)

// ProjectAnalyzer scans a project and returns the analysis with the engine
// that produced it
type ProjectAnalyzer interface {
	AnalyzeProject(ctx context.Context, req domain.AnalysisRequest) (*domain.AnalysisResponse, *analyzer.Engine, error)
}

// ReportExporter writes several formats of one analysis into a directory
type ReportExporter interface {
	Export(ctx context.Context, response *domain.AnalysisResponse, dir string, formats ...domain.OutputFormat) ([]string, error)
}

// AnalyzeUseCase orchestrates a project analysis: validation, scanning,
// rendering to the requested destination and the optional directory export
type AnalyzeUseCase struct {
	analyzer   ProjectAnalyzer
	formatter  domain.OutputFormatter
	exporter   ReportExporter
	fileHelper *FileHelper
	logger     *slog.Logger
}

// AnalyzeResult holds the outcome of one analyze run
type AnalyzeResult struct {
	Response *domain.AnalysisResponse
	Engine   *analyzer.Engine
	Duration time.Duration

	// OutputPath is the file the report was written to, if any
	OutputPath string

	// Exported lists the files written to the export directory
	Exported []string
}

// Execute runs the analysis described by req. The rendered report goes to
// req.OutputPath when set, otherwise to req.OutputWriter; with neither the
// report is only returned in the result. A non-empty OutputDir also exports
// the default report set.
func (uc *AnalyzeUseCase) Execute(ctx context.Context, req domain.AnalysisRequest) (*AnalyzeResult, error) {
	if err := uc.validateRequest(req); err != nil {
		return nil, err
	}

	start := time.Now()
	response, engine, err := uc.analyzer.AnalyzeProject(ctx, req)
	if err != nil {
		return nil, err
	}

	result := &AnalyzeResult{
		Response: response,
		Engine:   engine,
		Duration: time.Since(start),
	}

	switch {
	case req.OutputPath != "":
		var buf bytes.Buffer
		if err := uc.formatter.Write(response, req.OutputFormat, &buf); err != nil {
			return nil, err
		}
		if err := uc.fileHelper.WriteOutputFile(req.OutputPath, buf.Bytes()); err != nil {
			return nil, domain.NewOutputError(fmt.Sprintf("failed to write %s", req.OutputPath), err)
		}
		result.OutputPath = req.OutputPath
	case req.OutputWriter != nil:
		if err := uc.formatter.Write(response, req.OutputFormat, req.OutputWriter); err != nil {
			return nil, err
		}
	}

	if req.OutputDir != "" && uc.exporter != nil {
		exported, err := uc.exporter.Export(ctx, response, req.OutputDir)
		if err != nil {
			return nil, err
		}
		result.Exported = exported
	}

	uc.logger.Info("analysis finished",
		"root", response.Root,
		"files", response.Insight.Stats.TotalFiles,
		"duration_ms", result.Duration.Milliseconds())

	return result, nil
}

// Render writes a finished analysis in another format
func (uc *AnalyzeUseCase) Render(result *AnalyzeResult, format domain.OutputFormat, w io.Writer) error {
	if result == nil {
		return domain.NewInvalidInputError("no analysis to render", nil)
	}
	return uc.formatter.Write(result.Response, format, w)
}

func (uc *AnalyzeUseCase) validateRequest(req domain.AnalysisRequest) error {
	if req.Root == "" {
		return domain.NewInvalidInputError("project root is required", nil)
	}
	if _, err := domain.ParseOutputFormat(string(req.OutputFormat)); err != nil {
		return domain.NewInvalidInputError(fmt.Sprintf("invalid output format: %s", req.OutputFormat), err)
	}
	isDir, err := uc.fileHelper.IsDirectory(req.Root)
	if err != nil {
		return domain.NewFileNotFoundError(req.Root, err)
	}
	if !isDir {
		return domain.NewInvalidInputError(fmt.Sprintf("not a directory: %s", req.Root), nil)
	}
	return nil
}

// AnalyzeUseCaseBuilder builds an AnalyzeUseCase
type AnalyzeUseCaseBuilder struct {
	analyzer   ProjectAnalyzer
	formatter  domain.OutputFormatter
	exporter   ReportExporter
	fileHelper *FileHelper
	logger     *slog.Logger
}

// NewAnalyzeUseCaseBuilder creates a new builder
func NewAnalyzeUseCaseBuilder() *AnalyzeUseCaseBuilder {
	return &AnalyzeUseCaseBuilder{}
}

// WithAnalyzer sets the project analyzer
func (b *AnalyzeUseCaseBuilder) WithAnalyzer(a ProjectAnalyzer) *AnalyzeUseCaseBuilder {
	b.analyzer = a
	return b
}

// WithFormatter sets the output formatter
func (b *AnalyzeUseCaseBuilder) WithFormatter(f domain.OutputFormatter) *AnalyzeUseCaseBuilder {
	b.formatter = f
	return b
}

// WithExporter sets the report exporter used for OutputDir
func (b *AnalyzeUseCaseBuilder) WithExporter(e ReportExporter) *AnalyzeUseCaseBuilder {
	b.exporter = e
	return b
}

// WithFileHelper sets the file helper
func (b *AnalyzeUseCaseBuilder) WithFileHelper(fh *FileHelper) *AnalyzeUseCaseBuilder {
	b.fileHelper = fh
	return b
}

// WithLogger sets the logger
func (b *AnalyzeUseCaseBuilder) WithLogger(logger *slog.Logger) *AnalyzeUseCaseBuilder {
	b.logger = logger
	return b
}

// Build creates the AnalyzeUseCase
func (b *AnalyzeUseCaseBuilder) Build() (*AnalyzeUseCase, error) {
	if b.analyzer == nil {
		return nil, fmt.Errorf("project analyzer is required")
	}
	if b.formatter == nil {
		return nil, fmt.Errorf("output formatter is required")
	}

	uc := &AnalyzeUseCase{
		analyzer:   b.analyzer,
		formatter:  b.formatter,
		exporter:   b.exporter,
		fileHelper: b.fileHelper,
		logger:     b.logger,
	}

	if uc.fileHelper == nil {
		uc.fileHelper = NewFileHelper()
	}
	if uc.logger == nil {
		uc.logger = slog.Default()
	}

	return uc, nil
}
