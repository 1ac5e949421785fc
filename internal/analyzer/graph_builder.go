package analyzer

import (
	"github.com/ludo-technologies/depscope/domain"
)

// UnresolvedImport is a local specifier that matched no project file
type UnresolvedImport struct {
	From      string
	Specifier string
}

// GraphBuilder builds a DependencyGraph from file records
type GraphBuilder struct {
	resolver *ImportResolver
}

// NewGraphBuilder creates a builder. A nil resolver selects the default chain.
func NewGraphBuilder(resolver *ImportResolver) *GraphBuilder {
	if resolver == nil {
		resolver = NewImportResolver()
	}
	return &GraphBuilder{resolver: resolver}
}

// Build creates one node per distinct path and resolves every local
// specifier into an edge. Unresolved specifiers and self-references produce
// no edge. The returned unresolved list is in discovery order.
func (b *GraphBuilder) Build(records []domain.FileRecord) (*DependencyGraph, []UnresolvedImport) {
	g := NewDependencyGraph()

	owners := make([]int, len(records))
	for k, rec := range records {
		owners[k] = g.addNode(rec)
	}

	candidates := make([]Candidate, len(g.nodes))
	for i, n := range g.nodes {
		candidates[i] = Candidate{Path: n.path, Name: n.name}
	}

	var unresolved []UnresolvedImport
	for k, rec := range records {
		from := owners[k]
		for _, spec := range rec.LocalImports {
			to := b.resolver.Resolve(spec, candidates)
			if to < 0 {
				unresolved = append(unresolved, UnresolvedImport{From: rec.Path, Specifier: spec})
				continue
			}
			g.addEdge(from, to)
		}
		for _, ext := range rec.ExternalImports {
			g.addExternal(ext)
		}
	}

	return g, unresolved
}
