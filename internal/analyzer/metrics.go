package analyzer

import (
	"math"
	"sort"

	"github.com/ludo-technologies/depscope/domain"
)

// Risk thresholds on the number of dependents
const (
	HighRiskDependents   = 10
	MediumRiskDependents = 5
)

// Score weights
const (
	importedByWeight = 2
	importsWeight    = 1
)

// KindBonus returns the fixed score bonus for a file kind
func KindBonus(kind domain.FileKind) int {
	switch kind {
	case domain.FileKindPage:
		return 10
	case domain.FileKindComponent:
		return 5
	case domain.FileKindUtil:
		return 3
	case domain.FileKindType:
		return 1
	default:
		return 0
	}
}

// Score computes 2*|importedBy| + |imports| + kind bonus
func Score(imports, importedBy int, kind domain.FileKind) int {
	return importedByWeight*importedBy + importsWeight*imports + KindBonus(kind)
}

// Risk classifies the change risk from the dependent count
func Risk(importedBy int) domain.RiskLevel {
	switch {
	case importedBy > HighRiskDependents:
		return domain.RiskLevelHigh
	case importedBy > MediumRiskDependents:
		return domain.RiskLevelMedium
	default:
		return domain.RiskLevelLow
	}
}

// scoreNodes assigns score and risk to every node. Must run after all edges exist.
func scoreNodes(g *DependencyGraph) {
	for _, n := range g.nodes {
		n.score = Score(n.imports.len(), n.importedBy.len(), n.kind)
		n.risk = Risk(n.importedBy.len())
	}
}

// computeStats derives the project-wide metrics from a scored graph and its depth
func computeStats(g *DependencyGraph, depth int) domain.ProjectStats {
	total := g.NodeCount()
	deps := g.EdgeCount()

	stats := domain.ProjectStats{
		TotalFiles:        total,
		TotalDependencies: deps,
	}

	if total > 0 {
		stats.AverageImportsPerFile = math.Round(float64(deps)/float64(total)*10) / 10

		withDependents := 0
		for _, n := range g.nodes {
			if n.importedBy.len() > 0 {
				withDependents++
			}
		}
		stats.ReuseabilityScore = clampScore(int(math.Round(float64(withDependents) / float64(total) * 100)))
	}

	stats.ComplexityScore = clampScore(100 - depth*15)
	stats.MaintainabilityScore = clampScore(int(math.Round(float64(stats.ReuseabilityScore+stats.ComplexityScore) / 2)))
	return stats
}

func clampScore(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func sortExternalLibraries(libs []domain.ExternalLibrary) {
	sort.SliceStable(libs, func(i, j int) bool {
		if libs[i].Count != libs[j].Count {
			return libs[i].Count > libs[j].Count
		}
		return libs[i].Name < libs[j].Name
	})
}
