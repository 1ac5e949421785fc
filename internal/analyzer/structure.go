package analyzer

import (
	"fmt"
	"sort"

	"github.com/ludo-technologies/depscope/domain"
)

// Result caps
const (
	MaxHotspots      = 5
	MaxCycles        = 3
	DeepChainWarning = 5
)

// hotspots returns nodes with at least one dependent, stable-sorted by score
// descending and truncated to MaxHotspots
func hotspots(g *DependencyGraph) []domain.GraphNode {
	var idx []int
	for i, n := range g.nodes {
		if n.importedBy.len() > 0 {
			idx = append(idx, i)
		}
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return g.nodes[idx[a]].score > g.nodes[idx[b]].score
	})
	if len(idx) > MaxHotspots {
		idx = idx[:MaxHotspots]
	}
	out := make([]domain.GraphNode, len(idx))
	for k, i := range idx {
		out[k] = g.snapshot(i)
	}
	return out
}

// orphans returns fully isolated nodes in insertion order
func orphans(g *DependencyGraph) []domain.GraphNode {
	out := []domain.GraphNode{}
	for i, n := range g.nodes {
		if n.imports.len() == 0 && n.importedBy.len() == 0 {
			out = append(out, g.snapshot(i))
		}
	}
	return out
}

func highRiskCount(g *DependencyGraph) int {
	count := 0
	for _, n := range g.nodes {
		if n.risk == domain.RiskLevelHigh {
			count++
		}
	}
	return count
}

// suggestions evaluates the fixed checklist in order
func suggestions(g *DependencyGraph, hot, orphaned []domain.GraphNode, cycles [][]string, depth int) []string {
	out := []string{}
	if len(hot) > 0 {
		top := hot[0]
		out = append(out, fmt.Sprintf("🔥 \"%s\" is referenced by %d files. Consider abstraction.", top.Name, len(top.ImportedBy)))
	}
	if len(orphaned) > 0 {
		out = append(out, fmt.Sprintf("🗑️ %d unused files found. Consider removal.", len(orphaned)))
	}
	if len(cycles) > 0 {
		out = append(out, fmt.Sprintf("♻️ %d circular dependencies detected. Refactoring needed.", len(cycles)))
	}
	if depth > DeepChainWarning {
		out = append(out, fmt.Sprintf("📊 Dependency depth is %d levels deep. Consider structural review.", depth))
	}
	if n := highRiskCount(g); n > 0 {
		out = append(out, fmt.Sprintf("⚠️ %d files have high change risk. Monitor closely.", n))
	}
	return out
}
