package service

import (
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/ludo-technologies/depscope/domain"
)

// DOTFormatterConfig configures the Graphviz output
type DOTFormatterConfig struct {
	// ClusterCycles draws every reported cycle inside its own subgraph
	ClusterCycles bool

	// GroupByDirectory clusters the remaining files by directory
	GroupByDirectory bool

	// ShowLegend appends a legend of file kinds and risk borders
	ShowLegend bool

	// MaxDepth keeps files within this many hops of an entry file (0 = unlimited)
	MaxDepth int

	// MinScore hides files scoring below this value
	MinScore int

	// RankDir is the layout direction: TB, LR, BT, RL
	RankDir string
}

// DefaultDOTFormatterConfig returns the configuration used by analyze --format dot
func DefaultDOTFormatterConfig() *DOTFormatterConfig {
	return &DOTFormatterConfig{
		ClusterCycles: true,
		ShowLegend:    true,
		RankDir:       "TB",
	}
}

// DOTFormatter renders the dependency graph for Graphviz. Files are filled by
// kind and outlined by change risk; cycle edges are drawn in red.
type DOTFormatter struct {
	config *DOTFormatterConfig
}

// NewDOTFormatter creates a DOT formatter
func NewDOTFormatter(config *DOTFormatterConfig) *DOTFormatter {
	if config == nil {
		config = DefaultDOTFormatterConfig()
	}
	return &DOTFormatter{config: config}
}

var validRankDirs = map[string]bool{"TB": true, "LR": true, "BT": true, "RL": true}

type dotBorder struct {
	color string
	width int
}

var dotRiskBorders = map[domain.RiskLevel]dotBorder{
	domain.RiskLevelLow:    {"#374151", 1},
	domain.RiskLevelMedium: {"#f97316", 2},
	domain.RiskLevelHigh:   {"#dc2626", 3},
}

const (
	dotCycleColor = "#dc2626"
	dotOtherFill  = "#6b7280"
)

// Format returns the DOT source of the response graph
func (f *DOTFormatter) Format(response *domain.AnalysisResponse) (string, error) {
	var sb strings.Builder
	if err := f.Write(response, &sb); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// Write writes the DOT source of the response graph. Nodes and edges follow
// the node order of the response.
func (f *DOTFormatter) Write(response *domain.AnalysisResponse, writer io.Writer) error {
	if response == nil {
		return fmt.Errorf("nil response")
	}
	if !validRankDirs[f.config.RankDir] {
		return fmt.Errorf("invalid rank direction %q: must be one of TB, LR, BT, RL", f.config.RankDir)
	}

	byPath := make(map[string]*domain.GraphNode, len(response.Nodes))
	for i := range response.Nodes {
		byPath[response.Nodes[i].Path] = &response.Nodes[i]
	}
	visible := f.visible(response.Nodes, byPath)

	w := &dotWriter{}
	w.line("// depscope dependency graph, generated %s", response.GeneratedAt.UTC().Format(time.RFC3339))
	if response.Version != "" {
		w.line("// version %s", response.Version)
	}
	w.open("digraph dependencies {")
	if len(visible) == 0 {
		w.line("// no files match the filter")
		w.close()
		return w.flush(writer)
	}

	w.line("rankdir=%s;", f.config.RankDir)
	w.line(`node [shape=box, style="rounded,filled", fontname="Helvetica", fontcolor="#ffffff"];`)
	w.line(`edge [color="#6b7280", arrowsize=0.7];`)

	var cycles [][]string
	if response.Insight != nil {
		cycles = response.Insight.Cycles
	}

	placed := make(map[string]bool, len(visible))
	if f.config.ClusterCycles {
		for i, cycle := range cycles {
			members := cycleMembers(cycle)
			var drawn []string
			for _, p := range members {
				if visible[p] && !placed[p] {
					drawn = append(drawn, p)
					placed[p] = true
				}
			}
			if len(drawn) == 0 {
				continue
			}
			w.blank()
			w.open(fmt.Sprintf("subgraph cluster_cycle_%d {", i))
			w.line("label=%s;", dotQuote("cycle: "+formatCycleLabel(members)))
			w.line(`style=dashed; color="%s"; fontcolor="%s";`, dotCycleColor, dotCycleColor)
			for _, p := range drawn {
				f.writeNode(w, byPath[p])
			}
			w.close()
		}
	}

	var rest []*domain.GraphNode
	for i := range response.Nodes {
		n := &response.Nodes[i]
		if visible[n.Path] && !placed[n.Path] {
			rest = append(rest, n)
			placed[n.Path] = true
		}
	}
	if f.config.GroupByDirectory {
		f.writeDirectories(w, rest)
	} else if len(rest) > 0 {
		w.blank()
		for _, n := range rest {
			f.writeNode(w, n)
		}
	}

	cycleEdges := make(map[[2]string]bool)
	for _, cycle := range cycles {
		for i := 0; i+1 < len(cycle); i++ {
			cycleEdges[[2]string{cycle[i], cycle[i+1]}] = true
		}
	}

	w.blank()
	for _, n := range response.Nodes {
		if !visible[n.Path] {
			continue
		}
		for _, to := range n.Imports {
			if !visible[to] {
				continue
			}
			if cycleEdges[[2]string{n.Path, to}] {
				w.line(`%s -> %s [color="%s", penwidth=2];`, dotQuote(n.Path), dotQuote(to), dotCycleColor)
				continue
			}
			w.line("%s -> %s;", dotQuote(n.Path), dotQuote(to))
		}
	}

	if f.config.ShowLegend {
		f.writeLegend(w)
	}

	w.close()
	return w.flush(writer)
}

// visible returns the files passing MinScore and, when set, the MaxDepth
// filter
func (f *DOTFormatter) visible(nodes []domain.GraphNode, byPath map[string]*domain.GraphNode) map[string]bool {
	keep := make(map[string]bool, len(nodes))
	for _, n := range nodes {
		if n.Score >= f.config.MinScore {
			keep[n.Path] = true
		}
	}
	if f.config.MaxDepth <= 0 {
		return keep
	}

	// Walk level by level from entry files, the ones nothing imports. When
	// every file has an importer there is no entry and nothing is cut.
	var frontier []string
	seen := make(map[string]bool)
	for _, n := range nodes {
		if len(n.ImportedBy) == 0 {
			frontier = append(frontier, n.Path)
			seen[n.Path] = true
		}
	}
	if len(frontier) == 0 {
		return keep
	}

	reached := make(map[string]bool)
	for depth := 0; len(frontier) > 0; depth++ {
		var next []string
		for _, p := range frontier {
			if keep[p] {
				reached[p] = true
			}
			n := byPath[p]
			if n == nil || depth == f.config.MaxDepth {
				continue
			}
			for _, to := range n.Imports {
				if !seen[to] {
					seen[to] = true
					next = append(next, to)
				}
			}
		}
		frontier = next
	}
	return reached
}

// writeDirectories clusters nodes by directory in first-seen order. Files at
// the project root stay outside any cluster.
func (f *DOTFormatter) writeDirectories(w *dotWriter, nodes []*domain.GraphNode) {
	var dirs []string
	groups := make(map[string][]*domain.GraphNode)
	for _, n := range nodes {
		dir := path.Dir(n.Path)
		if _, ok := groups[dir]; !ok {
			dirs = append(dirs, dir)
		}
		groups[dir] = append(groups[dir], n)
	}

	for i, dir := range dirs {
		w.blank()
		if dir == "." {
			for _, n := range groups[dir] {
				f.writeNode(w, n)
			}
			continue
		}
		w.open(fmt.Sprintf("subgraph cluster_dir_%d {", i))
		w.line("label=%s;", dotQuote(dir))
		w.line(`style=rounded; color="#d1d5db"; fontcolor="#374151";`)
		for _, n := range groups[dir] {
			f.writeNode(w, n)
		}
		w.close()
	}
}

func (f *DOTFormatter) writeNode(w *dotWriter, n *domain.GraphNode) {
	name := n.Name
	if name == "" {
		name = path.Base(n.Path)
	}
	border, ok := dotRiskBorders[n.Risk]
	if !ok {
		border = dotRiskBorders[domain.RiskLevelLow]
	}
	w.line(`%s [label=%s, fillcolor="%s", color="%s", penwidth=%d, tooltip=%s];`,
		dotQuote(n.Path),
		dotQuote(fmt.Sprintf("%s\nscore %d", name, n.Score)),
		dotKindFill(n.Kind), border.color, border.width,
		dotQuote(fmt.Sprintf("%s, imported by %d, imports %d", n.Kind, len(n.ImportedBy), len(n.Imports))))
}

func (f *DOTFormatter) writeLegend(w *dotWriter) {
	w.blank()
	w.open("subgraph cluster_legend {")
	w.line(`label="legend"; style=rounded; color="#d1d5db"; fontcolor="#374151";`)
	for _, kind := range domain.FileKinds {
		w.line(`%s [label=%s, fillcolor="%s"];`, dotQuote("legend_"+string(kind)), dotQuote(string(kind)), dotKindFill(kind))
	}
	for _, risk := range []domain.RiskLevel{domain.RiskLevelLow, domain.RiskLevelMedium, domain.RiskLevelHigh} {
		b := dotRiskBorders[risk]
		w.line(`%s [label=%s, fillcolor="#ffffff", fontcolor="#111827", color="%s", penwidth=%d];`,
			dotQuote("legend_risk_"+string(risk)), dotQuote(string(risk)+" risk"), b.color, b.width)
	}
	w.close()
}

// dotKindFill shares the per-kind palette of the Mermaid output
func dotKindFill(kind domain.FileKind) string {
	if style, ok := mermaidKindStyles[kind]; ok {
		return style[0]
	}
	return dotOtherFill
}

// cycleMembers drops the closing repeat of a closed cycle path
func cycleMembers(cycle []string) []string {
	if len(cycle) > 1 && cycle[0] == cycle[len(cycle)-1] {
		return cycle[:len(cycle)-1]
	}
	return cycle
}

// formatCycleLabel names a cycle after its first files
func formatCycleLabel(members []string) string {
	switch len(members) {
	case 0:
		return "empty"
	case 1:
		return fileStem(members[0])
	case 2:
		return fmt.Sprintf("%s <-> %s", fileStem(members[0]), fileStem(members[1]))
	}
	return fmt.Sprintf("%s -> ... (%d files)", fileStem(members[0]), len(members))
}

// fileStem returns the file name of p up to its first dot
func fileStem(p string) string {
	name := path.Base(p)
	if i := strings.Index(name, "."); i > 0 {
		name = name[:i]
	}
	return name
}

var dotEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`, "\r", "", "\t", " ")

// dotQuote returns s as a quoted DOT string
func dotQuote(s string) string {
	return `"` + dotEscaper.Replace(s) + `"`
}

// dotWriter accumulates indented DOT lines
type dotWriter struct {
	b     strings.Builder
	depth int
}

func (w *dotWriter) line(format string, args ...any) {
	w.b.WriteString(strings.Repeat("  ", w.depth))
	fmt.Fprintf(&w.b, format, args...)
	w.b.WriteByte('\n')
}

func (w *dotWriter) open(header string) {
	w.line("%s", header)
	w.depth++
}

func (w *dotWriter) close() {
	w.depth--
	w.line("}")
}

func (w *dotWriter) blank() {
	w.b.WriteByte('\n')
}

func (w *dotWriter) flush(writer io.Writer) error {
	_, err := io.WriteString(writer, w.b.String())
	return err
}
