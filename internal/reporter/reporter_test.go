package reporter

import (
	"strings"
	"testing"

	"github.com/ludo-technologies/depscope/domain"
	"github.com/ludo-technologies/depscope/internal/testutil"
)

func sampleNodes() *Snapshot {
	return NewSnapshot([]domain.GraphNode{
		{Path: "app/page.tsx", Name: "page.tsx", Kind: domain.FileKindPage, Imports: []string{"lib/utils.ts"}, ImportedBy: []string{}, Score: 11, Risk: domain.RiskLevelLow},
		{Path: "lib/utils.ts", Name: "utils.ts", Kind: domain.FileKindUtil, Imports: []string{}, ImportedBy: []string{"app/page.tsx"}, Score: 5, Risk: domain.RiskLevelLow},
		{Path: "types/index.d.ts", Name: "index.d.ts", Kind: domain.FileKindType, Imports: []string{}, ImportedBy: []string{}, Risk: domain.RiskLevelLow},
	})
}

func sampleInsight() *domain.Insight {
	return &domain.Insight{
		Hotspots: []domain.GraphNode{
			{Path: "lib/utils.ts", Name: "utils.ts", Kind: domain.FileKindUtil, ImportedBy: []string{"app/page.tsx", "app/layout.tsx"}, Risk: domain.RiskLevelLow},
		},
		Orphans:     []domain.GraphNode{{Path: "types/index.d.ts", Name: "index.d.ts"}},
		Cycles:      [][]string{},
		Depth:       2,
		Suggestions: []string{"🗑️ 1 unused files found. Consider removal."},
		Stats: domain.ProjectStats{
			TotalFiles:            3,
			TotalDependencies:     2,
			AverageImportsPerFile: 0.7,
			ReuseabilityScore:     67,
			ComplexityScore:       70,
			MaintainabilityScore:  69,
		},
		Errors: []domain.CodeError{},
	}
}

func newTestReporter() *Reporter {
	return New(sampleNodes(), WithClock(testutil.FixedClock))
}

func TestAIPrompt(t *testing.T) {
	got := newTestReporter().AIPrompt(sampleInsight())
	want := "# Project Analysis Request\n\n" +
		"## Context\n" +
		"I'm sharing my project's dependency analysis. Please review and provide architectural guidance.\n\n" +
		"## Project Health Score: B\n\n" +
		"### Key Metrics\n" +
		"- **Files**: 3\n" +
		"- **Dependencies**: 2  \n" +
		"- **Reusability**: 67%\n" +
		"- **Maintainability**: 69%\n\n" +
		"### Critical Files (Hotspots)\n" +
		"- **utils.ts** (2 dependencies)\n\n" +
		"### Issues Found\n" +
		"- 🗑️ 1 unused files found. Consider removal.\n\n" +
		"### Circular Dependencies\n" +
		"- None detected ✅\n\n" +
		"## What I Need Help With:\n" +
		"1. **Architecture Review** - Is my current structure scalable?\n" +
		"2. **Refactoring Priority** - Which issues should I tackle first?\n" +
		"3. **Best Practices** - What patterns should I adopt?\n" +
		"4. **Performance** - Any potential bottlenecks?\n\n" +
		"Please provide specific, actionable advice for improvement."

	if got != want {
		t.Errorf("Unexpected prompt:\n%s\n\nwant:\n%s", got, want)
	}
}

func TestAIPrompt_Cycles(t *testing.T) {
	in := sampleInsight()
	in.Cycles = [][]string{{"src/a.ts", "src/b.ts", "src/a.ts"}}

	got := newTestReporter().AIPrompt(in)
	if !strings.Contains(got, "### Circular Dependencies\n- Cycle 1: a.ts → b.ts → a.ts\n\n") {
		t.Errorf("Expected short cycle listing, got:\n%s", got)
	}
}

func TestAIPrompt_Empty(t *testing.T) {
	r := newTestReporter()
	if got := r.AIPrompt(&domain.Insight{}); got != "" {
		t.Errorf("Expected empty prompt, got %q", got)
	}
	if got := r.AIPrompt(nil); got != "" {
		t.Errorf("Expected empty prompt for nil insight, got %q", got)
	}
}

func TestMarkdown(t *testing.T) {
	got := newTestReporter().Markdown(sampleInsight())

	wants := []string{
		"# 🔍 Smart Dependency Analysis Report\n\n## 📊 Project Overview\n",
		"- **Generated**: 2025-01-02T03:04:05.000Z\n",
		"- **Average Imports/File**: 0.7\n",
		"- **Health Grade**: B\n\n",
		"| Reusability | 67% | ⚠️ Good |\n",
		"| Complexity | 70% | ⚠️ Good |\n",
		"1. **utils.ts** `lib/utils.ts`\n   - Referenced by: 2 files\n   - Risk Level: low\n\n\n## ⚠️ Issues Detected\n",
		"- 🗑️ 1 unused files found. Consider removal.\n\n",
		"## 🔄 Circular Dependencies\n✅ No circular dependencies found.\n\n",
		"## 🗑️ Unused Files\n- `types/index.d.ts`\n\n",
	}
	for _, w := range wants {
		if !strings.Contains(got, w) {
			t.Errorf("Expected markdown to contain %q", w)
		}
	}
	if !strings.HasSuffix(got, "---\n*Generated by Smart Dependency Analyzer*") {
		t.Error("Expected markdown footer")
	}
}

func TestMarkdown_NoFindings(t *testing.T) {
	in := sampleInsight()
	in.Hotspots = nil
	in.Suggestions = nil
	in.Orphans = nil
	in.Cycles = [][]string{{"a.ts", "b.ts", "a.ts"}, {"c.ts", "d.ts", "c.ts"}}

	got := newTestReporter().Markdown(in)
	wants := []string{
		"## 🔥 Critical Files (Hotspots)\nNo critical dependencies found.\n\n",
		"## ⚠️ Issues Detected\n✅ No issues detected!\n\n",
		"### Cycle 1\n```\na.ts → b.ts → a.ts\n```\n\n### Cycle 2\n```\nc.ts → d.ts → c.ts\n```\n\n",
		"## 🗑️ Unused Files\n✅ No unused files found.\n\n",
	}
	for _, w := range wants {
		if !strings.Contains(got, w) {
			t.Errorf("Expected markdown to contain %q", w)
		}
	}
}

func TestMarkdown_Empty(t *testing.T) {
	if got := newTestReporter().Markdown(&domain.Insight{}); got != "" {
		t.Errorf("Expected empty markdown, got %q", got)
	}
}

func TestCompactSummary_Caps(t *testing.T) {
	in := sampleInsight()
	in.Hotspots = nil
	for _, name := range []string{"a", "b", "c", "d", "e"} {
		in.Hotspots = append(in.Hotspots, domain.GraphNode{Path: name + ".ts", Name: name + ".ts", ImportedBy: []string{"x"}, Risk: domain.RiskLevelLow})
	}
	in.Suggestions = []string{"1", "2", "3", "4", "5", "6", "7"}

	summary := newTestReporter().CompactSummary(in)
	if summary == nil {
		t.Fatal("Expected summary to not be nil")
	}
	if len(summary.Hotspots) != 3 {
		t.Errorf("Expected 3 hotspots, got %d", len(summary.Hotspots))
	}
	if len(summary.Suggestions) != 5 {
		t.Errorf("Expected 5 suggestions, got %d", len(summary.Suggestions))
	}
	if summary.Meta.HealthGrade != "B" {
		t.Errorf("Expected grade B, got %s", summary.Meta.HealthGrade)
	}
	if summary.Meta.Timestamp != "2025-01-02T03:04:05.000Z" {
		t.Errorf("Unexpected timestamp %s", summary.Meta.Timestamp)
	}
	if summary.Issues.Unused != 1 || summary.Issues.MaxDepth != 2 {
		t.Errorf("Unexpected issues %+v", summary.Issues)
	}
	if summary.Hotspots[0].Dependencies != 1 {
		t.Errorf("Expected 1 dependency, got %d", summary.Hotspots[0].Dependencies)
	}
}

func TestCompactJSON(t *testing.T) {
	in := sampleInsight()
	in.Suggestions = append(in.Suggestions, "Split <Header> & <Footer>")

	got := newTestReporter().CompactJSON(in)
	if !strings.HasPrefix(got, "{\n  \"meta\": {\n    \"timestamp\": \"2025-01-02T03:04:05.000Z\",") {
		t.Errorf("Unexpected JSON prefix:\n%s", got)
	}
	if !strings.Contains(got, `"healthGrade": "B"`) {
		t.Error("Expected health grade in JSON")
	}
	if !strings.Contains(got, `"reuseabilityScore": 67`) {
		t.Error("Expected metrics in JSON")
	}
	if !strings.Contains(got, "Split <Header> & <Footer>") {
		t.Error("Expected HTML characters to stay unescaped")
	}
	if strings.HasSuffix(got, "\n") {
		t.Error("Expected no trailing newline")
	}
	if newTestReporter().CompactJSON(&domain.Insight{}) != "{}" {
		t.Error("Expected {} for empty insight")
	}
}

func TestRelationshipMap(t *testing.T) {
	got := newTestReporter().RelationshipMap()
	want := "# Project Relationship Map\n\n" +
		"**Generated**: 2025-01-02T03:04:05.000Z\n" +
		"**Files**: 3\n\n" +
		"## PAGE Files\n\n" +
		"### `page.tsx`\n" +
		"**Imports** (1):\n" +
		"  ↳ utils.ts\n\n" +
		"## UTIL Files\n\n" +
		"### `utils.ts`\n" +
		"**Imported by** (1):\n" +
		"  ↰ page.tsx\n\n" +
		"## TYPE Files\n\n"

	if got != want {
		t.Errorf("Unexpected relationship map:\n%s\n\nwant:\n%s", got, want)
	}
}

func TestRelationshipMap_Empty(t *testing.T) {
	got := New(nil, WithClock(testutil.FixedClock)).RelationshipMap()
	want := "# Project Relationship Map\n\n**Generated**: 2025-01-02T03:04:05.000Z\n**Files**: 0\n\n"
	if got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

func TestImpactReport_NotFound(t *testing.T) {
	got := newTestReporter().ImpactReport("nope.ts", domain.EmptyChangeImpact())
	want := "# File not found: nope.ts\n\nPlease check the file path and try again."
	if got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

func TestImpactReport_Isolated(t *testing.T) {
	got := newTestReporter().ImpactReport("types/index.d.ts", domain.EmptyChangeImpact())
	if !strings.Contains(got, "## Target File: `index.d.ts`\n**Path**: `types/index.d.ts`\n**Type**: type\n**Risk Level**: low\n\n") {
		t.Errorf("Unexpected header:\n%s", got)
	}
	if !strings.Contains(got, "## ✅ Isolated File\n") {
		t.Error("Expected isolated file section")
	}
	if strings.Contains(got, "AI Sharing Summary") {
		t.Error("Expected no sharing summary for isolated file")
	}
}

func TestImpactReport_Dependents(t *testing.T) {
	impact := domain.ChangeImpact{
		DirectDependents:   []string{"app/page.tsx"},
		IndirectDependents: []string{"app/ghost.tsx"},
		AllAffectedFiles:   []string{"app/page.tsx", "app/ghost.tsx"},
		RequiredFiles:      []string{"types/index.d.ts"},
	}

	got := newTestReporter().ImpactReport("lib/utils.ts", impact)
	wants := []string{
		"## 📋 Required Files (Dependencies)\n**Include these files when modifying `utils.ts`:**\n\n- `index.d.ts` - type\n\n",
		"## ⚠️ Direct Impact (Files Using This File)\n",
		"- `page.tsx` - page\n",
		"- `ghost.tsx` - unknown\n",
		"**When asking AI about `utils.ts`, include these 3 related files:**\n\n```\nindex.d.ts\npage.tsx\nghost.tsx\n```\n\n",
		"**Total context size**: ~75 tokens (estimated)\n\n",
	}
	for _, w := range wants {
		if !strings.Contains(got, w) {
			t.Errorf("Expected impact report to contain %q, got:\n%s", w, got)
		}
	}
	if strings.Contains(got, "Isolated File") {
		t.Error("Expected no isolated section")
	}
}

func TestErrorReport(t *testing.T) {
	findings := []domain.CodeError{
		{Type: domain.CodeErrorUnresolvedImport, Severity: domain.SeverityError, File: "a.ts", Line: 3, Message: "Cannot resolve import './x'", QuickFix: "Check the path"},
		{Type: domain.CodeErrorUnusedFile, Severity: domain.SeverityWarning, File: "b.ts", Message: "File appears to be unused", Details: "Not imported"},
		{Type: "type_error", Severity: domain.SeverityInfo, File: "c.ts", Line: 1, Message: "Variable 'v' is declared but never used"},
	}

	got := newTestReporter().ErrorReport(findings)
	wants := []string{
		"**Generated**: 2025-01-02T03:04:05.000Z\n\n",
		"- 🔴 **Errors**: 1\n- 🟡 **Warnings**: 1\n- 🔵 **Info**: 1\n\n",
		"## 🔴 Errors (1)\n\n### 1. Cannot resolve import './x'\n- **File**: `a.ts` (line 3)\n- **Type**: unresolved import\n- **Quick Fix**: Check the path\n\n",
		"## 🟡 Warnings (1)\n\n### 1. File appears to be unused\n- **File**: `b.ts`\n- **Details**: Not imported\n\n",
		"## 🔵 Info (1)\n\n- Variable 'v' is declared but never used in `c.ts` (line 1)\n",
	}
	for _, w := range wants {
		if !strings.Contains(got, w) {
			t.Errorf("Expected error report to contain %q", w)
		}
	}
	if strings.Contains(got, "No Issues Found") {
		t.Error("Expected no clean section when findings exist")
	}
}

func TestErrorReport_Clean(t *testing.T) {
	got := newTestReporter().ErrorReport(nil)
	if !strings.Contains(got, "## ✅ No Issues Found!\n\nYour code looks clean! Keep up the good work.\n") {
		t.Errorf("Expected clean section, got:\n%s", got)
	}
}

func TestHealthGrade(t *testing.T) {
	tests := map[int]string{100: "A+", 90: "A+", 89: "A", 80: "A", 75: "B+", 60: "B", 50: "C+", 40: "C", 39: "D", 0: "D"}
	for score, want := range tests {
		if got := HealthGrade(score); got != want {
			t.Errorf("HealthGrade(%d): expected %s, got %s", score, want, got)
		}
	}
}

func TestScoreStatus(t *testing.T) {
	tests := map[int]string{80: "✅ Excellent", 79: "⚠️ Good", 60: "⚠️ Good", 40: "🔶 Fair", 10: "❌ Poor"}
	for score, want := range tests {
		if got := ScoreStatus(score); got != want {
			t.Errorf("ScoreStatus(%d): expected %s, got %s", score, want, got)
		}
	}
}

func TestCharCountAndTokens(t *testing.T) {
	if CharCount("abc") != 3 {
		t.Errorf("Expected 3, got %d", CharCount("abc"))
	}
	if CharCount("a😀") != 3 {
		t.Errorf("Expected astral rune to count as 2, got %d", CharCount("a😀"))
	}
	if CharCount("é✅") != 2 {
		t.Errorf("Expected BMP runes to count as 1, got %d", CharCount("é✅"))
	}

	tests := map[string]int{"": 0, "a": 1, "abcd": 1, "abcde": 2, "abcdefgh": 2}
	for in, want := range tests {
		if got := EstimateTokens(in); got != want {
			t.Errorf("EstimateTokens(%q): expected %d, got %d", in, want, got)
		}
	}
}

func TestShortName(t *testing.T) {
	tests := map[string]string{
		"src/lib/utils.ts": "utils.ts",
		"utils.ts":         "utils.ts",
		"dir/":             "dir/",
		"":                 "",
	}
	for in, want := range tests {
		if got := ShortName(in); got != want {
			t.Errorf("ShortName(%q): expected %q, got %q", in, want, got)
		}
	}
}

func TestFormatNumber(t *testing.T) {
	tests := map[float64]string{0: "0", 0.7: "0.7", 2: "2", 1.5: "1.5"}
	for in, want := range tests {
		if got := formatNumber(in); got != want {
			t.Errorf("formatNumber(%v): expected %s, got %s", in, want, got)
		}
	}
}
