package analyzer

import (
	"reflect"
	"strings"
	"testing"

	"github.com/ludo-technologies/depscope/domain"
	"github.com/ludo-technologies/depscope/internal/reporter"
	"github.com/ludo-technologies/depscope/internal/testutil"
)

func sampleStructure() domain.FileStructure {
	return testutil.Structure(
		testutil.File("app/page.tsx", domain.FileKindPage, "../components/Header", "../lib/utils"),
		testutil.File("components/Header.tsx", domain.FileKindComponent, "../lib/utils"),
		testutil.File("lib/utils.ts", domain.FileKindUtil),
		testutil.File("types/index.d.ts", domain.FileKindType),
	)
}

func TestEngine_Analyze(t *testing.T) {
	e := NewEngine(WithClock(testutil.FixedClock))
	insight := e.Analyze(sampleStructure(), nil)

	if insight.Stats.TotalFiles != 4 {
		t.Errorf("Expected 4 files, got %d", insight.Stats.TotalFiles)
	}
	if insight.Stats.TotalDependencies != 3 {
		t.Errorf("Expected 3 dependencies, got %d", insight.Stats.TotalDependencies)
	}
	// Header: 2*1 + 1 + 5, utils: 2*2 + 0 + 3
	testutil.AssertStrings(t, []string{"components/Header.tsx", "lib/utils.ts"}, nodePaths(insight.Hotspots))
	testutil.AssertStrings(t, []string{"types/index.d.ts"}, nodePaths(insight.Orphans))
	if insight.Depth != 2 {
		t.Errorf("Expected depth 2, got %d", insight.Depth)
	}
	if len(insight.Cycles) != 0 {
		t.Errorf("Expected no cycles, got %v", insight.Cycles)
	}
	if insight.Errors == nil || len(insight.Errors) != 0 {
		t.Errorf("Expected empty non-nil errors, got %v", insight.Errors)
	}
}

func TestEngine_Idempotent(t *testing.T) {
	e := NewEngine(WithClock(testutil.FixedClock))
	first := e.Analyze(sampleStructure(), nil)
	second := e.Analyze(sampleStructure(), nil)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("Expected identical insights across runs")
	}
	if e.Graph().EdgeCount() != 3 {
		t.Errorf("Expected graph rebuilt from scratch, got %d edges", e.Graph().EdgeCount())
	}
	if e.MarkdownReport() != e.MarkdownReport() {
		t.Error("Expected stable report output with a fixed clock")
	}
}

func TestEngine_StoresContents(t *testing.T) {
	e := NewEngine()
	e.Analyze(sampleStructure(), map[string]string{"lib/utils.ts": "export const cn = 1"})

	if e.Contents()["lib/utils.ts"] != "export const cn = 1" {
		t.Errorf("Expected contents to be stored, got %v", e.Contents())
	}
}

func TestEngine_ContentsResetPerAnalyze(t *testing.T) {
	e := NewEngine()
	e.Analyze(sampleStructure(), map[string]string{"lib/utils.ts": "export const cn = 1"})
	e.Analyze(sampleStructure(), map[string]string{"app/page.tsx": "export default 1"})

	if _, ok := e.Contents()["lib/utils.ts"]; ok {
		t.Error("Expected contents of the previous analysis to be dropped")
	}
	if len(e.Contents()) != 1 {
		t.Errorf("Expected only the latest contents, got %v", e.Contents())
	}

	e.Analyze(sampleStructure(), nil)
	if len(e.Contents()) != 0 {
		t.Errorf("Expected no contents after an analysis without texts, got %v", e.Contents())
	}
}

func TestEngine_ShortSpecifierCycle(t *testing.T) {
	// app/page.tsx comes first and contains both "a" and "b" in its path
	structure := testutil.Structure(
		testutil.File("app/page.tsx", domain.FileKindPage, "../components/Header", "../lib/utils"),
		testutil.File("components/Header.tsx", domain.FileKindComponent, "../lib/utils"),
		testutil.File("lib/utils.ts", domain.FileKindUtil),
		testutil.File("types/index.d.ts", domain.FileKindType),
		testutil.File("core/a.ts", domain.FileKindOther, "./b"),
		testutil.File("core/b.ts", domain.FileKindOther, "./a"),
	)

	e := NewEngine()
	insight := e.Analyze(structure, nil)

	if len(insight.Cycles) != 1 {
		t.Fatalf("Expected 1 cycle, got %v", insight.Cycles)
	}
	testutil.AssertStrings(t, []string{"core/a.ts", "core/b.ts", "core/a.ts"}, insight.Cycles[0])

	for _, n := range e.Nodes() {
		switch n.Path {
		case "core/a.ts":
			testutil.AssertStrings(t, []string{"core/b.ts"}, n.Imports)
		case "core/b.ts":
			testutil.AssertStrings(t, []string{"core/a.ts"}, n.Imports)
		case "app/page.tsx":
			testutil.AssertStrings(t, []string{}, n.ImportedBy)
		}
	}
	if len(e.Unresolved()) != 0 {
		t.Errorf("Expected every specifier to resolve, got %v", e.Unresolved())
	}
}

func TestEngine_EmptyProject(t *testing.T) {
	e := NewEngine()
	insight := e.Analyze(domain.FileStructure{}, nil)

	if insight.HasFiles() {
		t.Error("Expected empty insight")
	}
	if e.AIPrompt() != "" {
		t.Error("Expected empty prompt for empty project")
	}
	if e.MarkdownReport() != "" {
		t.Error("Expected empty markdown for empty project")
	}
	if e.CompactJSON() != "{}" {
		t.Errorf("Expected {} for empty project, got %s", e.CompactJSON())
	}
	if e.CompactSummary() != nil {
		t.Error("Expected nil compact summary")
	}
	if e.EstimateTokens(domain.ReportFormatPrompt) != 0 {
		t.Error("Expected 0 tokens for empty prompt")
	}
}

func TestEngine_InsightBeforeAnalyze(t *testing.T) {
	e := NewEngine()
	insight := e.Insight()
	if insight == nil {
		t.Fatal("Expected insight to not be nil")
	}
	if insight.Stats.TotalFiles != 0 || insight.Stats.MaintainabilityScore != 50 {
		t.Errorf("Unexpected stats for empty engine: %+v", insight.Stats)
	}
}

func TestEngine_Reports(t *testing.T) {
	e := NewEngine(WithClock(testutil.FixedClock))
	e.Analyze(sampleStructure(), nil)

	if e.Report(domain.ReportFormatImpact) != e.RelationshipMap() {
		t.Error("Expected impact format to render the relationship map")
	}
	if e.Report(domain.ReportFormatJSON) != e.CompactJSON() {
		t.Error("Expected json format to render compact JSON")
	}
	if e.Report(domain.ReportFormat("bogus")) != "" {
		t.Error("Expected unknown format to render nothing")
	}

	md := e.Report(domain.ReportFormatMarkdown)
	if !strings.Contains(md, "2025-01-02T03:04:05.000Z") {
		t.Error("Expected fixed clock timestamp in markdown report")
	}

	for _, format := range domain.ReportFormats {
		report := e.Report(format)
		want := (reporter.CharCount(report) + 3) / 4
		if got := e.EstimateTokens(format); got != want {
			t.Errorf("EstimateTokens(%s): expected %d, got %d", format, want, got)
		}
	}
}

func TestEngine_ChangeImpact(t *testing.T) {
	e := NewEngine()
	e.Analyze(sampleStructure(), nil)

	impact := e.ChangeImpact("lib/utils.ts")
	testutil.AssertStrings(t, []string{"app/page.tsx", "components/Header.tsx"}, impact.DirectDependents)
	testutil.AssertStrings(t, []string{}, impact.IndirectDependents)

	report := e.ImpactReport("lib/utils.ts")
	if !strings.Contains(report, "utils.ts") {
		t.Errorf("Expected impact report to mention target, got %s", report)
	}
}

func TestEngine_WithResolver(t *testing.T) {
	e := NewEngine(WithResolver(&ImportResolver{}))
	insight := e.Analyze(sampleStructure(), nil)

	if insight.Stats.TotalDependencies != 0 {
		t.Errorf("Expected no edges with an empty predicate chain, got %d", insight.Stats.TotalDependencies)
	}
	if len(e.Unresolved()) != 3 {
		t.Errorf("Expected 3 unresolved imports, got %d", len(e.Unresolved()))
	}
}
