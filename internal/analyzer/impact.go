package analyzer

import (
	"github.com/ludo-technologies/depscope/domain"
)

// MaxIndirectDepth bounds the dependents-of-dependents walk, counted in
// importedBy hops from the target. Nodes at this distance are collected but
// not expanded.
const MaxIndirectDepth = 4

// changeImpact computes the direct and transitive dependents of a file along
// with the files it requires. Unknown paths yield four empty lists.
func changeImpact(g *DependencyGraph, path string) domain.ChangeImpact {
	target, ok := g.Lookup(path)
	if !ok {
		return domain.EmptyChangeImpact()
	}

	t := g.nodes[target]
	impact := domain.EmptyChangeImpact()
	impact.DirectDependents = g.paths(t.importedBy.order)
	impact.RequiredFiles = g.paths(t.imports.order)

	// The target itself is not excluded: when it sits in a cycle it is
	// reached again through its dependents and listed as indirect.
	collected := make(map[int]bool, t.importedBy.len())
	for _, d := range t.importedBy.order {
		collected[d] = true
	}

	var indirect []int
	visited := make(map[int]bool)

	var walk func(node, depth int)
	walk = func(node, depth int) {
		if depth >= MaxIndirectDepth || visited[node] {
			return
		}
		visited[node] = true
		for _, dep := range g.nodes[node].importedBy.order {
			if collected[dep] {
				continue
			}
			collected[dep] = true
			indirect = append(indirect, dep)
			walk(dep, depth+1)
		}
	}
	for _, d := range t.importedBy.order {
		walk(d, 1)
	}

	impact.IndirectDependents = g.paths(indirect)
	impact.AllAffectedFiles = append(append([]string{}, impact.DirectDependents...), impact.IndirectDependents...)
	return impact
}
