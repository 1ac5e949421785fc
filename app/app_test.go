package app

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ludo-technologies/depscope/domain"
	"github.com/ludo-technologies/depscope/internal/scanner"
	"github.com/ludo-technologies/depscope/internal/testutil"
	"github.com/ludo-technologies/depscope/service"
)

func writeSampleProject(t *testing.T) string {
	t.Helper()
	return testutil.WriteProject(t, map[string]string{
		"app/page.tsx":          "import { Header } from '../components/Header'\nimport { cn } from '../lib/utils'\n",
		"components/Header.tsx": "import { cn } from '../lib/utils'\nexport const Header = () => null\n",
		"lib/utils.ts":          "import clsx from 'clsx'\nexport const cn = clsx\n",
	})
}

func newUseCase(t *testing.T) *AnalyzeUseCase {
	t.Helper()
	uc, err := NewAnalyzeUseCaseBuilder().
		WithAnalyzer(service.NewAnalysisService(scanner.New(), service.WithClock(testutil.FixedClock))).
		WithFormatter(service.NewOutputFormatter()).
		WithExporter(service.NewReportExporter(nil, nil, nil)).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	return uc
}

func TestAnalyzeUseCaseBuilder_RequiresDependencies(t *testing.T) {
	if _, err := NewAnalyzeUseCaseBuilder().Build(); err == nil {
		t.Error("Expected error without an analyzer")
	}
	_, err := NewAnalyzeUseCaseBuilder().
		WithAnalyzer(service.NewAnalysisService(scanner.New())).
		Build()
	if err == nil {
		t.Error("Expected error without a formatter")
	}
}

func TestAnalyzeUseCase_WritesToWriter(t *testing.T) {
	root := writeSampleProject(t)
	var buf bytes.Buffer

	result, err := newUseCase(t).Execute(context.Background(), domain.AnalysisRequest{
		Root:         root,
		OutputFormat: domain.OutputFormatMermaid,
		OutputWriter: &buf,
	})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	if result.Response.Insight.Stats.TotalFiles != 3 {
		t.Errorf("Expected 3 files, got %d", result.Response.Insight.Stats.TotalFiles)
	}
	if result.Engine == nil {
		t.Error("Expected the engine in the result")
	}
	if !strings.Contains(buf.String(), "app_page_tsx --> components_Header_tsx") {
		t.Errorf("Expected mermaid output, got:\n%s", buf.String())
	}
}

func TestAnalyzeUseCase_WritesToFileAndExports(t *testing.T) {
	root := writeSampleProject(t)
	out := filepath.Join(t.TempDir(), "nested", "analysis.json")
	exportDir := filepath.Join(t.TempDir(), "reports")

	result, err := newUseCase(t).Execute(context.Background(), domain.AnalysisRequest{
		Root:         root,
		OutputFormat: domain.OutputFormatJSON,
		OutputPath:   out,
		OutputDir:    exportDir,
	})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	if result.OutputPath != out {
		t.Errorf("Expected output path %s, got %s", out, result.OutputPath)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("Expected output file: %v", err)
	}
	if !strings.Contains(string(data), `"insight"`) {
		t.Errorf("Expected JSON analysis in output file, got %s", data)
	}
	if len(result.Exported) != len(service.DefaultExportFormats) {
		t.Errorf("Expected %d exported files, got %v", len(service.DefaultExportFormats), result.Exported)
	}
}

func TestAnalyzeUseCase_Validation(t *testing.T) {
	uc := newUseCase(t)
	ctx := context.Background()

	_, err := uc.Execute(ctx, domain.AnalysisRequest{OutputFormat: domain.OutputFormatText})
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("Expected invalid input for missing root, got %v", err)
	}

	_, err = uc.Execute(ctx, domain.AnalysisRequest{Root: t.TempDir(), OutputFormat: "html"})
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("Expected invalid input for bad format, got %v", err)
	}

	_, err = uc.Execute(ctx, domain.AnalysisRequest{Root: filepath.Join(t.TempDir(), "missing"), OutputFormat: domain.OutputFormatText})
	if !errors.Is(err, domain.ErrFileNotFound) {
		t.Errorf("Expected file not found for missing root, got %v", err)
	}
}

func TestAnalyzeUseCase_Render(t *testing.T) {
	root := writeSampleProject(t)
	uc := newUseCase(t)

	result, err := uc.Execute(context.Background(), domain.AnalysisRequest{Root: root, OutputFormat: domain.OutputFormatText})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	var buf bytes.Buffer
	if err := uc.Render(result, domain.OutputFormatDOT, &buf); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if !strings.Contains(buf.String(), "digraph dependencies") {
		t.Errorf("Expected DOT output, got:\n%s", buf.String())
	}
	if err := uc.Render(nil, domain.OutputFormatDOT, &buf); err == nil {
		t.Error("Expected error rendering a nil result")
	}
}

func TestImpactUseCase(t *testing.T) {
	root := writeSampleProject(t)
	uc := NewImpactUseCase(service.NewAnalysisService(scanner.New(), service.WithClock(testutil.FixedClock)))

	result, err := uc.Execute(context.Background(), domain.AnalysisRequest{Root: root}, "lib/utils.ts")
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	if result.Target != "lib/utils.ts" {
		t.Errorf("Expected target lib/utils.ts, got %s", result.Target)
	}
	testutil.AssertStrings(t, []string{"app/page.tsx", "components/Header.tsx"}, result.Impact.DirectDependents)
	if !strings.Contains(result.Report, "utils") {
		t.Errorf("Expected impact report for utils, got:\n%s", result.Report)
	}

	_, err = uc.Execute(context.Background(), domain.AnalysisRequest{Root: root}, "lib/missing.ts")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Expected not found for unknown file, got %v", err)
	}

	_, err = uc.Execute(context.Background(), domain.AnalysisRequest{Root: root}, "../outside.ts")
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("Expected invalid input for file outside root, got %v", err)
	}
}

func TestEstimateTokens(t *testing.T) {
	root := writeSampleProject(t)
	result, err := newUseCase(t).Execute(context.Background(), domain.AnalysisRequest{Root: root, OutputFormat: domain.OutputFormatText})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	estimates := EstimateTokens(result.Engine)
	if len(estimates) != len(domain.ReportFormats) {
		t.Fatalf("Expected %d estimates, got %d", len(domain.ReportFormats), len(estimates))
	}
	for i, e := range estimates {
		if e.Format != domain.ReportFormats[i] {
			t.Errorf("Expected format %s at %d, got %s", domain.ReportFormats[i], i, e.Format)
		}
		if e.Tokens <= 0 {
			t.Errorf("Expected positive token count for %s, got %d", e.Format, e.Tokens)
		}
	}
}

func TestFileHelper_ResolveTarget(t *testing.T) {
	helper := NewFileHelper()
	root := t.TempDir()

	tests := []struct {
		target   string
		expected string
		wantErr  bool
	}{
		{"src/app.ts", "src/app.ts", false},
		{"./src/../lib/utils.ts", "lib/utils.ts", false},
		{filepath.Join(root, "lib", "a.ts"), "lib/a.ts", false},
		{"../escape.ts", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		got, err := helper.ResolveTarget(root, tt.target)
		if (err != nil) != tt.wantErr {
			t.Errorf("ResolveTarget(%q) error = %v, wantErr %v", tt.target, err, tt.wantErr)
			continue
		}
		if got != tt.expected {
			t.Errorf("ResolveTarget(%q) = %q, expected %q", tt.target, got, tt.expected)
		}
	}
}

func TestFileHelper_IsSourceFile(t *testing.T) {
	helper := NewFileHelper()
	exts := []string{".ts", ".tsx"}

	tests := []struct {
		path     string
		expected bool
	}{
		{"a.ts", true},
		{"a.TSX", true},
		{"a.js", false},
		{"README", false},
	}
	for _, tt := range tests {
		if got := helper.IsSourceFile(tt.path, exts); got != tt.expected {
			t.Errorf("IsSourceFile(%s) = %v, expected %v", tt.path, got, tt.expected)
		}
	}
}

func TestFileHelper_WriteOutputFile(t *testing.T) {
	helper := NewFileHelper()
	p := filepath.Join(t.TempDir(), "a", "b", "out.txt")

	if err := helper.WriteOutputFile(p, []byte("hello")); err != nil {
		t.Fatalf("WriteOutputFile failed: %v", err)
	}
	data, _ := os.ReadFile(p)
	if string(data) != "hello" {
		t.Errorf("Expected hello, got %q", data)
	}
	if exists, _ := helper.FileExists(p + ".tmp"); exists {
		t.Error("Expected temporary file to be removed")
	}
	if isDir, _ := helper.IsDirectory(filepath.Dir(p)); !isDir {
		t.Error("Expected parent directory to exist")
	}
}
