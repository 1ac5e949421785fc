package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ludo-technologies/depscope/app"
	"github.com/ludo-technologies/depscope/domain"
	"github.com/ludo-technologies/depscope/internal/constants"
	"github.com/ludo-technologies/depscope/internal/testutil"
	"github.com/ludo-technologies/depscope/internal/version"
)

// writeSampleProject writes a five-file project with one two-file cycle
func writeSampleProject(t *testing.T) string {
	t.Helper()
	return testutil.WriteProject(t, map[string]string{
		"app/page.tsx":          "import { Header } from '../components/Header'\nimport React from 'react'\n",
		"components/Header.tsx": "import { cn } from '../lib/utils'\nexport const Header = () => null\n",
		"lib/utils.ts":          "export const cn = (...c: string[]) => c.join(' ')\n",
		"core/a.ts":             "import { b } from './b'\nexport const a = 1\n",
		"core/b.ts":             "import { a } from './a'\nexport const b = 2\n",
	})
}

// runCLI executes the root command with args and returns stdout
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRootCmd_Subcommands(t *testing.T) {
	cmd := newRootCmd()

	expected := []string{"analyze", "impact", "tokens", "check", "init", "serve", "ask", "version"}
	for _, name := range expected {
		found := false
		for _, sub := range cmd.Commands() {
			if sub.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("Missing expected subcommand: %s", name)
		}
	}
}

func TestAnalyzeCmd_FlagsExist(t *testing.T) {
	cmd := analyzeCmd()

	expectedFlags := []string{"format", "output", "output-dir", "config", "no-progress", "watch", "detect-errors", "dot-group-dirs", "dot-rankdir"}
	for _, flagName := range expectedFlags {
		if cmd.Flags().Lookup(flagName) == nil {
			t.Errorf("Missing expected flag: --%s", flagName)
		}
	}

	shortFlags := map[string]string{"f": "format", "o": "output", "d": "output-dir", "c": "config", "w": "watch"}
	for short, long := range shortFlags {
		if cmd.Flags().ShorthandLookup(short) == nil {
			t.Errorf("Missing short flag -%s for --%s", short, long)
		}
	}
}

func TestAnalyzeCmd_JSON(t *testing.T) {
	root := writeSampleProject(t)

	out, err := runCLI(t, "analyze", root, "--format", "json", "--no-progress")
	if err != nil {
		t.Fatalf("analyze failed: %v", err)
	}

	var resp domain.AnalysisResponse
	if err := json.Unmarshal([]byte(out), &resp); err != nil {
		t.Fatalf("Expected JSON output, got %v: %s", err, out)
	}
	if resp.Insight.Stats.TotalFiles != 5 {
		t.Errorf("Expected 5 files, got %d", resp.Insight.Stats.TotalFiles)
	}
	if len(resp.Insight.Cycles) != 1 {
		t.Errorf("Expected 1 cycle, got %v", resp.Insight.Cycles)
	}
}

func TestAnalyzeCmd_DOT(t *testing.T) {
	root := writeSampleProject(t)

	out, err := runCLI(t, "analyze", root, "--format", "dot", "--no-progress", "--dot-group-dirs", "--dot-rankdir", "lr")
	if err != nil {
		t.Fatalf("analyze failed: %v", err)
	}
	for _, want := range []string{"digraph dependencies {", "rankdir=LR;", `label="components";`, "cluster_cycle_0"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected DOT output to contain %q\n%s", want, out)
		}
	}

	if _, err := runCLI(t, "analyze", root, "--format", "dot", "--no-progress", "--dot-rankdir", "XY"); err == nil {
		t.Error("Expected an error for an unknown rank direction")
	}
}

func TestAnalyzeCmd_OutputFileAndDir(t *testing.T) {
	root := writeSampleProject(t)
	outDir := t.TempDir()
	outFile := filepath.Join(outDir, "report.md")
	exportDir := filepath.Join(outDir, "reports")

	out, err := runCLI(t, "analyze", root, "-f", "markdown", "-o", outFile, "-d", exportDir, "--no-progress")
	if err != nil {
		t.Fatalf("analyze failed: %v", err)
	}
	if out != "" {
		t.Errorf("Expected nothing on stdout when writing to a file, got %q", out)
	}

	content, err := os.ReadFile(outFile)
	if err != nil {
		t.Fatalf("Report file not written: %v", err)
	}
	if !strings.HasPrefix(string(content), "#") {
		t.Errorf("Expected a markdown report, got %q", string(content)[:min(40, len(content))])
	}

	for _, name := range []string{"report.md", "prompt.txt", "summary.json", "relationships.txt", "graph.dot", "graph.mmd"} {
		if _, err := os.Stat(filepath.Join(exportDir, name)); err != nil {
			t.Errorf("Expected exported %s: %v", name, err)
		}
	}
}

func TestAnalyzeCmd_InvalidFormat(t *testing.T) {
	root := writeSampleProject(t)
	if _, err := runCLI(t, "analyze", root, "--format", "html"); err == nil {
		t.Error("Expected error for unsupported format")
	}
}

func TestAnalyzeCmd_MissingPath(t *testing.T) {
	if _, err := runCLI(t, "analyze", filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("Expected error for missing path")
	}
}

func TestImpactCmd_JSON(t *testing.T) {
	root := writeSampleProject(t)

	out, err := runCLI(t, "impact", "lib/utils.ts", "--root", root, "--format", "json")
	if err != nil {
		t.Fatalf("impact failed: %v", err)
	}

	var result app.ImpactResult
	if err := json.Unmarshal([]byte(out), &result); err != nil {
		t.Fatalf("Expected JSON output, got %v: %s", err, out)
	}
	if result.Target != "lib/utils.ts" {
		t.Errorf("Expected target lib/utils.ts, got %s", result.Target)
	}
	if len(result.Impact.DirectDependents) != 1 || result.Impact.DirectDependents[0] != "components/Header.tsx" {
		t.Errorf("Expected Header.tsx as direct dependent, got %v", result.Impact.DirectDependents)
	}
}

func TestImpactCmd_Markdown(t *testing.T) {
	root := writeSampleProject(t)

	out, err := runCLI(t, "impact", "lib/utils.ts", "--root", root)
	if err != nil {
		t.Fatalf("impact failed: %v", err)
	}
	if !strings.Contains(out, "# Change Impact Analysis") {
		t.Errorf("Expected impact report header, got %q", out)
	}
}

func TestImpactCmd_Errors(t *testing.T) {
	root := writeSampleProject(t)

	if _, err := runCLI(t, "impact", "nope.ts", "--root", root); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Expected not found error, got %v", err)
	}
	if _, err := runCLI(t, "impact", "lib/utils.ts", "--root", root, "--format", "yaml"); err == nil {
		t.Error("Expected error for invalid format")
	}
	if _, err := runCLI(t, "impact"); err == nil {
		t.Error("Expected error without a file argument")
	}
}

func TestTokensCmd(t *testing.T) {
	root := writeSampleProject(t)

	out, err := runCLI(t, "tokens", root, "--json")
	if err != nil {
		t.Fatalf("tokens failed: %v", err)
	}

	var estimates []app.TokenEstimate
	if err := json.Unmarshal([]byte(out), &estimates); err != nil {
		t.Fatalf("Expected JSON output, got %v: %s", err, out)
	}
	if len(estimates) != len(domain.ReportFormats) {
		t.Fatalf("Expected %d estimates, got %d", len(domain.ReportFormats), len(estimates))
	}
	for _, e := range estimates {
		if e.Tokens <= 0 {
			t.Errorf("Expected positive estimate for %s, got %d", e.Format, e.Tokens)
		}
	}

	table, err := runCLI(t, "tokens", root)
	if err != nil {
		t.Fatalf("tokens failed: %v", err)
	}
	if !strings.HasPrefix(table, "FORMAT") || !strings.Contains(table, "prompt") {
		t.Errorf("Expected a table, got %q", table)
	}
}

func TestCheckCmd_FlagsExist(t *testing.T) {
	cmd := checkCmd()

	expectedFlags := []string{"max-cycles", "min-maintainability", "max-depth", "allow-orphans", "details", "json", "config"}
	for _, flagName := range expectedFlags {
		if cmd.Flags().Lookup(flagName) == nil {
			t.Errorf("Missing expected flag: --%s", flagName)
		}
	}
}

func TestCheckCmd_Pass(t *testing.T) {
	root := writeSampleProject(t)

	out, err := runCLI(t, "check", root, "--max-cycles", "1", "--min-maintainability", "0", "--max-depth", "0")
	if err != nil {
		t.Fatalf("Expected check to pass, got %v (%s)", err, out)
	}
	if !strings.Contains(out, "PASS") {
		t.Errorf("Expected PASS, got %q", out)
	}
}

func TestCheckCmd_Violation(t *testing.T) {
	root := writeSampleProject(t)

	out, err := runCLI(t, "check", root, "--max-cycles", "0", "--json")

	var exitErr *CheckExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("Expected CheckExitError, got %v", err)
	}
	if exitErr.Code != constants.ExitCodeViolation {
		t.Errorf("Expected exit code %d, got %d", constants.ExitCodeViolation, exitErr.Code)
	}

	var result domain.CheckResult
	if err := json.Unmarshal([]byte(out), &result); err != nil {
		t.Fatalf("Expected JSON output, got %v: %s", err, out)
	}
	if result.Passed || result.Summary.CircularDependencies != 1 {
		t.Errorf("Expected a failed check with one cycle, got %+v", result)
	}
}

func TestCheckCmd_Error(t *testing.T) {
	_, err := runCLI(t, "check", filepath.Join(t.TempDir(), "missing"))

	var exitErr *CheckExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("Expected CheckExitError, got %v", err)
	}
	if exitErr.Code != constants.ExitCodeError {
		t.Errorf("Expected exit code %d, got %d", constants.ExitCodeError, exitErr.Code)
	}
}

func TestExitCode(t *testing.T) {
	if got := exitCode(&CheckExitError{Code: 1}); got != 1 {
		t.Errorf("Expected 1, got %d", got)
	}
	if got := exitCode(&CheckExitError{Code: 2, Message: "boom"}); got != 2 {
		t.Errorf("Expected 2, got %d", got)
	}
	if got := exitCode(errors.New("plain")); got != 1 {
		t.Errorf("Expected 1 for plain errors, got %d", got)
	}
}

func TestVersionCmd(t *testing.T) {
	out, err := runCLI(t, "version")
	if err != nil {
		t.Fatalf("version failed: %v", err)
	}
	if !strings.Contains(out, "depscope version "+version.GetVersion()) {
		t.Errorf("Unexpected version output %q", out)
	}

	out, err = runCLI(t, "version", "--json")
	if err != nil {
		t.Fatalf("version --json failed: %v", err)
	}
	var info version.Info
	if err := json.Unmarshal([]byte(out), &info); err != nil {
		t.Fatalf("Expected JSON, got %v: %s", err, out)
	}
	if info.Version != version.GetVersion() || info.GoVersion == "" {
		t.Errorf("Unexpected version info %+v", info)
	}
}

func TestAskCmd_PrintPrompt(t *testing.T) {
	root := writeSampleProject(t)

	out, err := runCLI(t, "ask", root, "--print-prompt")
	if err != nil {
		t.Fatalf("ask failed: %v", err)
	}
	if !strings.Contains(out, "# Project Analysis Request") {
		t.Errorf("Expected the consultation prompt, got %q", out)
	}
}

func TestAskCmd_MissingKey(t *testing.T) {
	root := writeSampleProject(t)
	t.Setenv("OPENAI_API_KEY", "")

	if _, err := runCLI(t, "ask", root); err == nil {
		t.Error("Expected error without an API key")
	}
}
