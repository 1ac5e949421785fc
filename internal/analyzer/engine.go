package analyzer

import (
	"time"

	"github.com/ludo-technologies/depscope/domain"
	"github.com/ludo-technologies/depscope/internal/reporter"
)

// Engine runs the analysis pipeline over one project snapshot and keeps the
// most recent graph and insight for report rendering. An Engine is not safe
// for concurrent use; create one per caller.
type Engine struct {
	builder  *GraphBuilder
	detector *CircularDependencyDetector
	now      func() time.Time

	graph      *DependencyGraph
	records    []domain.FileRecord
	unresolved []UnresolvedImport
	insight    *domain.Insight
	contents   map[string]string
}

// EngineOption configures an Engine
type EngineOption func(*Engine)

// WithResolver replaces the default import resolver
func WithResolver(r *ImportResolver) EngineOption {
	return func(e *Engine) {
		e.builder = NewGraphBuilder(r)
	}
}

// WithClock sets the timestamp source used by reports
func WithClock(now func() time.Time) EngineOption {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// NewEngine creates an Engine with an empty graph
func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{
		builder:  NewGraphBuilder(nil),
		detector: NewCircularDependencyDetector(),
		now:      time.Now,
		graph:    NewDependencyGraph(),
		contents: make(map[string]string),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Analyze builds a fresh graph from the structure and computes its insight.
// Contents replace those of the previous call; they are kept for
// content-based collaborators and not consumed here.
func (e *Engine) Analyze(structure domain.FileStructure, contents map[string]string) *domain.Insight {
	e.contents = make(map[string]string, len(contents))
	for path, text := range contents {
		e.contents[path] = text
	}
	return e.AnalyzeRecords(structure.Records())
}

// AnalyzeRecords is Analyze over an already flattened record list
func (e *Engine) AnalyzeRecords(records []domain.FileRecord) *domain.Insight {
	e.records = records
	e.graph, e.unresolved = e.builder.Build(records)
	scoreNodes(e.graph)
	e.insight = e.computeInsight()
	return e.insight
}

func (e *Engine) computeInsight() *domain.Insight {
	g := e.graph
	hot := hotspots(g)
	orphaned := orphans(g)
	cycles := e.detector.DetectCycles(g)
	depth := maxDepth(g)

	return &domain.Insight{
		Hotspots:    hot,
		Orphans:     orphaned,
		Cycles:      cycles,
		Depth:       depth,
		Suggestions: suggestions(g, hot, orphaned, cycles, depth),
		Stats:       computeStats(g, depth),
		Errors:      []domain.CodeError{},
	}
}

// Insight returns the current insight, computing it over the current graph
// when no analysis has run yet
func (e *Engine) Insight() *domain.Insight {
	if e.insight == nil {
		e.insight = e.computeInsight()
	}
	return e.insight
}

// Graph returns the most recently built graph
func (e *Engine) Graph() *DependencyGraph {
	return e.graph
}

// Records returns the records of the last analysis
func (e *Engine) Records() []domain.FileRecord {
	return e.records
}

// Contents returns the stored file texts
func (e *Engine) Contents() map[string]string {
	return e.contents
}

// Unresolved returns local specifiers that matched no file in the last analysis
func (e *Engine) Unresolved() []UnresolvedImport {
	return e.unresolved
}

// Nodes returns snapshots of all nodes in insertion order
func (e *Engine) Nodes() []domain.GraphNode {
	return e.graph.Nodes()
}

// ExternalLibraries returns external package usage counts
func (e *Engine) ExternalLibraries() []domain.ExternalLibrary {
	return e.graph.ExternalLibraries()
}

// Coupling computes per-directory coupling metrics over the current graph
func (e *Engine) Coupling() *domain.CouplingAnalysis {
	return NewCouplingMetricsCalculator(nil).Calculate(e.graph)
}

// ChangeImpact reports the files affected by changing path
func (e *Engine) ChangeImpact(path string) domain.ChangeImpact {
	return changeImpact(e.graph, path)
}

func (e *Engine) reporter() *reporter.Reporter {
	return reporter.New(e.graph, reporter.WithClock(e.now))
}

// AIPrompt renders the assistant consultation prompt
func (e *Engine) AIPrompt() string {
	return e.reporter().AIPrompt(e.Insight())
}

// MarkdownReport renders the full Markdown report
func (e *Engine) MarkdownReport() string {
	return e.reporter().Markdown(e.Insight())
}

// CompactSummary returns the compact summary structure
func (e *Engine) CompactSummary() *reporter.CompactSummary {
	return e.reporter().CompactSummary(e.Insight())
}

// CompactJSON renders the compact summary as indented JSON
func (e *Engine) CompactJSON() string {
	return e.reporter().CompactJSON(e.Insight())
}

// RelationshipMap renders the per-kind relationship listing
func (e *Engine) RelationshipMap() string {
	return e.reporter().RelationshipMap()
}

// ImpactReport renders the change impact of one file
func (e *Engine) ImpactReport(path string) string {
	return e.reporter().ImpactReport(path, e.ChangeImpact(path))
}

// Report renders a report by format. The impact format renders the
// relationship map since it has no target file.
func (e *Engine) Report(format domain.ReportFormat) string {
	switch format {
	case domain.ReportFormatMarkdown:
		return e.MarkdownReport()
	case domain.ReportFormatJSON:
		return e.CompactJSON()
	case domain.ReportFormatPrompt:
		return e.AIPrompt()
	case domain.ReportFormatImpact, domain.ReportFormatRelationship:
		return e.RelationshipMap()
	default:
		return ""
	}
}

// EstimateTokens renders the report for format and returns ceil(chars/4)
func (e *Engine) EstimateTokens(format domain.ReportFormat) int {
	return reporter.EstimateTokens(e.Report(format))
}
