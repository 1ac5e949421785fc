package analyzer

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ludo-technologies/depscope/domain"
	"github.com/ludo-technologies/depscope/internal/reporter"
)

// Additional finding types reported from file contents
const (
	CodeErrorMissingExport = "missing_export"
	CodeErrorType          = "type_error"
)

var (
	namedImportPattern = regexp.MustCompile("import\\s*(?:type\\s*)?\\{([^}]+)\\}\\s*from\\s*['\"`]([^'\"`]*)['\"`]")
	varDeclPattern     = regexp.MustCompile(`^\s*(const|let|var)\s+(\w+)\s*=`)
	exportStarPattern  = regexp.MustCompile(`export\s*\*\s*from`)
)

// ErrorDetector produces code findings for a project. It runs separately from
// the engine and never populates Insight.Errors.
type ErrorDetector struct {
	builder  *GraphBuilder
	resolver *ImportResolver
	cycles   *CircularDependencyDetector
}

// NewErrorDetector creates a detector using the default resolver
func NewErrorDetector() *ErrorDetector {
	resolver := NewImportResolver()
	return &ErrorDetector{
		builder:  NewGraphBuilder(resolver),
		resolver: resolver,
		cycles:   NewCircularDependencyDetector(),
	}
}

// Detect reports unresolved imports, missing named exports and simple type
// issues per file, followed by circular dependencies and unused files.
// Content-based checks run only for files present in contents.
func (d *ErrorDetector) Detect(records []domain.FileRecord, contents map[string]string) []domain.CodeError {
	g, unresolved := d.builder.Build(records)

	candidates := make([]Candidate, len(g.nodes))
	for i, n := range g.nodes {
		candidates[i] = Candidate{Path: n.path, Name: n.name}
	}

	unresolvedByFile := make(map[string][]string)
	for _, u := range unresolved {
		unresolvedByFile[u.From] = append(unresolvedByFile[u.From], u.Specifier)
	}

	findings := []domain.CodeError{}
	done := make(map[string]bool, len(records))
	for _, rec := range records {
		if done[rec.Path] {
			continue
		}
		done[rec.Path] = true

		findings = append(findings, d.unresolvedFindings(rec.Path, unresolvedByFile[rec.Path], contents)...)
		if content, ok := contents[rec.Path]; ok {
			findings = append(findings, d.missingExports(g, candidates, rec.Path, content, contents)...)
			findings = append(findings, typeFindings(rec.Path, content)...)
		}
	}

	for _, cycle := range d.cycles.DetectCycles(g) {
		findings = append(findings, domain.CodeError{
			Type:     domain.CodeErrorCircular,
			Severity: domain.SeverityError,
			File:     cycle[0],
			Message:  "Circular dependency detected",
			Details:  "Dependency chain: " + strings.Join(shortPaths(cycle), " → "),
		})
	}

	for _, o := range orphans(g) {
		findings = append(findings, domain.CodeError{
			Type:     domain.CodeErrorUnusedFile,
			Severity: domain.SeverityWarning,
			File:     o.Path,
			Message:  "File appears to be unused",
			Details:  "This file is not imported anywhere and doesn't import anything",
			QuickFix: "Consider removing this file or adding it to the project",
		})
	}

	return findings
}

func (d *ErrorDetector) unresolvedFindings(path string, specs []string, contents map[string]string) []domain.CodeError {
	var out []domain.CodeError
	content, hasContent := contents[path]
	for _, spec := range specs {
		clean := strings.Trim(spec, "'\"`")
		line := 0
		if hasContent {
			for i, l := range strings.Split(content, "\n") {
				if strings.Contains(l, spec) || strings.Contains(l, clean) {
					line = i + 1
					break
				}
			}
		}
		out = append(out, domain.CodeError{
			Type:     domain.CodeErrorUnresolvedImport,
			Severity: domain.SeverityError,
			File:     path,
			Line:     line,
			Message:  fmt.Sprintf("Cannot resolve import '%s'", clean),
			Details:  fmt.Sprintf("The imported module '%s' could not be found", clean),
			QuickFix: "Check if the file exists or if the import path is correct",
		})
	}
	return out
}

// missingExports checks the named imports other files take from target
func (d *ErrorDetector) missingExports(g *DependencyGraph, candidates []Candidate, target, content string, contents map[string]string) []domain.CodeError {
	ti, ok := g.Lookup(target)
	if !ok {
		return nil
	}
	targetName := g.nodes[ti].name

	var out []domain.CodeError
	for _, from := range g.nodes[ti].importedBy.order {
		importer := g.nodes[from].path
		importerContent, ok := contents[importer]
		if !ok {
			continue
		}
		for _, m := range namedImportPattern.FindAllStringSubmatch(importerContent, -1) {
			if d.resolver.Resolve(m[2], candidates) != ti {
				continue
			}
			for _, name := range importedNames(m[1]) {
				if exportExists(content, name) {
					continue
				}
				out = append(out, domain.CodeError{
					Type:     CodeErrorMissingExport,
					Severity: domain.SeverityError,
					File:     importer,
					Message:  fmt.Sprintf("Named export '%s' not found", name),
					Details:  fmt.Sprintf("'%s' is not exported from '%s'", name, targetName),
					QuickFix: fmt.Sprintf("Add 'export' to %s in %s", name, targetName),
				})
			}
		}
	}
	return out
}

func importedNames(clause string) []string {
	var names []string
	for _, part := range strings.Split(clause, ",") {
		name := strings.TrimSpace(part)
		name = strings.TrimPrefix(name, "type ")
		if i := strings.Index(name, " as "); i >= 0 {
			name = strings.TrimSpace(name[:i])
		}
		if name != "" {
			names = append(names, name)
		}
	}
	return names
}

func exportExists(content, name string) bool {
	q := regexp.QuoteMeta(name)
	patterns := []*regexp.Regexp{
		regexp.MustCompile(`export\s+(const|let|var|function|class|interface|type|enum)\s+` + q + `\b`),
		regexp.MustCompile(`export\s*\{[^}]*\b` + q + `\b[^}]*\}`),
		exportStarPattern,
		regexp.MustCompile(`export\s+default\s+` + q + `\b`),
	}
	for _, p := range patterns {
		if p.MatchString(content) {
			return true
		}
	}
	return false
}

func typeFindings(path, content string) []domain.CodeError {
	var out []domain.CodeError
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		if strings.Contains(line, ": any") && !strings.Contains(line, "// eslint-disable") {
			out = append(out, domain.CodeError{
				Type:     CodeErrorType,
				Severity: domain.SeverityWarning,
				File:     path,
				Line:     i + 1,
				Message:  "Avoid using 'any' type",
				Details:  "Using 'any' type defeats the purpose of TypeScript",
				QuickFix: "Replace with a specific type or 'unknown'",
			})
		}
		if m := varDeclPattern.FindStringSubmatch(line); m != nil {
			rest := strings.Join(lines[i+1:], "\n")
			if !strings.Contains(rest, m[2]) {
				out = append(out, domain.CodeError{
					Type:     CodeErrorType,
					Severity: domain.SeverityInfo,
					File:     path,
					Line:     i + 1,
					Message:  fmt.Sprintf("Variable '%s' is declared but never used", m[2]),
					QuickFix: "Remove unused variable or use it",
				})
			}
		}
	}
	return out
}

func shortPaths(paths []string) []string {
	out := make([]string, len(paths))
	for i, p := range paths {
		out[i] = reporter.ShortName(p)
	}
	return out
}
