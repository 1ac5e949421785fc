package service

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/ludo-technologies/depscope/domain"
)

// ExportFileNames maps each output format to its file name inside an export
// directory
var ExportFileNames = map[domain.OutputFormat]string{
	domain.OutputFormatText:         "summary.txt",
	domain.OutputFormatJSON:         "analysis.json",
	domain.OutputFormatYAML:         "analysis.yaml",
	domain.OutputFormatMarkdown:     "report.md",
	domain.OutputFormatPrompt:       "prompt.txt",
	domain.OutputFormatCompact:      "summary.json",
	domain.OutputFormatRelationship: "relationships.txt",
	domain.OutputFormatDOT:          "graph.dot",
	domain.OutputFormatMermaid:      "graph.mmd",
}

// DefaultExportFormats are written when no formats are requested
var DefaultExportFormats = []domain.OutputFormat{
	domain.OutputFormatMarkdown,
	domain.OutputFormatPrompt,
	domain.OutputFormatCompact,
	domain.OutputFormatRelationship,
	domain.OutputFormatDOT,
	domain.OutputFormatMermaid,
}

// exportTask writes one format of a response to a file
type exportTask struct {
	formatter domain.OutputFormatter
	response  *domain.AnalysisResponse
	format    domain.OutputFormat
	path      string
}

func (t *exportTask) Name() string {
	return filepath.Base(t.path)
}

func (t *exportTask) IsEnabled() bool {
	return t.response != nil
}

func (t *exportTask) Execute(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	tmp := t.path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return domain.NewOutputError(fmt.Sprintf("cannot create %s", tmp), err)
	}
	if err := t.formatter.Write(t.response, t.format, f); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return domain.NewOutputError(fmt.Sprintf("cannot write %s", tmp), err)
	}
	return os.Rename(tmp, t.path)
}

// ReportExporter writes several output formats of one analysis into a
// directory concurrently
type ReportExporter struct {
	formatter domain.OutputFormatter
	executor  *ParallelExecutor
	logger    *slog.Logger
}

// NewReportExporter creates an exporter. A nil executor uses NewParallelExecutor.
func NewReportExporter(formatter domain.OutputFormatter, executor *ParallelExecutor, logger *slog.Logger) *ReportExporter {
	if formatter == nil {
		formatter = NewOutputFormatter()
	}
	if executor == nil {
		executor = NewParallelExecutor()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ReportExporter{formatter: formatter, executor: executor, logger: logger}
}

// Export writes the given formats (DefaultExportFormats when empty) into dir,
// creating it if needed, and returns the written file paths in format order.
// Each file is written to a temporary name first, so a failed export never
// leaves a truncated report behind.
func (e *ReportExporter) Export(ctx context.Context, response *domain.AnalysisResponse, dir string, formats ...domain.OutputFormat) ([]string, error) {
	if response == nil {
		return nil, domain.NewOutputError("nothing to export", nil)
	}
	if dir == "" {
		return nil, domain.NewInvalidInputError("export directory is required", nil)
	}
	if len(formats) == 0 {
		formats = DefaultExportFormats
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, domain.NewOutputError(fmt.Sprintf("cannot create export directory %s", dir), err)
	}

	tasks := make([]domain.ExecutableTask, 0, len(formats))
	paths := make([]string, 0, len(formats))
	seen := make(map[domain.OutputFormat]bool, len(formats))
	for _, format := range formats {
		name, ok := ExportFileNames[format]
		if !ok {
			return nil, domain.NewUnsupportedFormatError(string(format))
		}
		if seen[format] {
			continue
		}
		seen[format] = true

		path := filepath.Join(dir, name)
		paths = append(paths, path)
		tasks = append(tasks, &exportTask{
			formatter: e.formatter,
			response:  response,
			format:    format,
			path:      path,
		})
	}

	if err := e.executor.Execute(ctx, tasks); err != nil {
		return nil, err
	}

	e.logger.Debug("reports exported", "dir", dir, "files", len(paths))
	return paths, nil
}
