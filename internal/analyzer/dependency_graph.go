package analyzer

import (
	"github.com/ludo-technologies/depscope/domain"
)

// indexSet is an insertion-ordered set of node indices
type indexSet struct {
	order []int
	seen  map[int]struct{}
}

func (s *indexSet) add(i int) bool {
	if s.seen == nil {
		s.seen = make(map[int]struct{})
	}
	if _, ok := s.seen[i]; ok {
		return false
	}
	s.seen[i] = struct{}{}
	s.order = append(s.order, i)
	return true
}

func (s *indexSet) contains(i int) bool {
	_, ok := s.seen[i]
	return ok
}

func (s *indexSet) len() int {
	return len(s.order)
}

// fileNode is the arena entry for one file
type fileNode struct {
	path       string
	name       string
	kind       domain.FileKind
	imports    indexSet
	importedBy indexSet
	score      int
	risk       domain.RiskLevel
}

// DependencyGraph is a file-level import graph stored as an arena.
// Nodes live in a slice and are identified by their index; a path lookup
// table maps file paths to indices.
type DependencyGraph struct {
	nodes []*fileNode
	index map[string]int

	// external specifier -> number of import statements referencing it
	externals     map[string]int
	externalOrder []string
}

// NewDependencyGraph creates an empty graph
func NewDependencyGraph() *DependencyGraph {
	return &DependencyGraph{
		index:     make(map[string]int),
		externals: make(map[string]int),
	}
}

// addNode inserts a node for the record or overwrites the attributes of an
// existing node with the same path. The node keeps its original position.
func (g *DependencyGraph) addNode(rec domain.FileRecord) int {
	kind := rec.Kind
	if kind == "" {
		kind = domain.FileKindOther
	}
	if i, ok := g.index[rec.Path]; ok {
		n := g.nodes[i]
		n.name = rec.Name
		n.kind = kind
		return i
	}
	g.nodes = append(g.nodes, &fileNode{
		path: rec.Path,
		name: rec.Name,
		kind: kind,
		risk: domain.RiskLevelLow,
	})
	i := len(g.nodes) - 1
	g.index[rec.Path] = i
	return i
}

// addEdge records from -> to in both adjacency directions. It is the only
// place adjacency is mutated. Self-loops and duplicates are ignored.
func (g *DependencyGraph) addEdge(from, to int) bool {
	if from == to {
		return false
	}
	if !g.nodes[from].imports.add(to) {
		return false
	}
	g.nodes[to].importedBy.add(from)
	return true
}

func (g *DependencyGraph) addExternal(spec string) {
	if _, ok := g.externals[spec]; !ok {
		g.externalOrder = append(g.externalOrder, spec)
	}
	g.externals[spec]++
}

// NodeCount returns the number of nodes
func (g *DependencyGraph) NodeCount() int {
	if g == nil {
		return 0
	}
	return len(g.nodes)
}

// EdgeCount returns the number of distinct import edges
func (g *DependencyGraph) EdgeCount() int {
	if g == nil {
		return 0
	}
	total := 0
	for _, n := range g.nodes {
		total += n.imports.len()
	}
	return total
}

// Lookup returns the index of the node with the given path
func (g *DependencyGraph) Lookup(path string) (int, bool) {
	if g == nil {
		return 0, false
	}
	i, ok := g.index[path]
	return i, ok
}

// Node returns a snapshot of the node with the given path
func (g *DependencyGraph) Node(path string) (domain.GraphNode, bool) {
	i, ok := g.Lookup(path)
	if !ok {
		return domain.GraphNode{}, false
	}
	return g.snapshot(i), true
}

// Nodes returns snapshots of all nodes in insertion order
func (g *DependencyGraph) Nodes() []domain.GraphNode {
	if g == nil {
		return []domain.GraphNode{}
	}
	out := make([]domain.GraphNode, len(g.nodes))
	for i := range g.nodes {
		out[i] = g.snapshot(i)
	}
	return out
}

// HasEdge reports whether from imports to
func (g *DependencyGraph) HasEdge(from, to string) bool {
	fi, ok := g.Lookup(from)
	if !ok {
		return false
	}
	ti, ok := g.Lookup(to)
	if !ok {
		return false
	}
	return g.nodes[fi].imports.contains(ti)
}

func (g *DependencyGraph) snapshot(i int) domain.GraphNode {
	n := g.nodes[i]
	return domain.GraphNode{
		Path:       n.path,
		Name:       n.name,
		Kind:       n.kind,
		Imports:    g.paths(n.imports.order),
		ImportedBy: g.paths(n.importedBy.order),
		Score:      n.score,
		Risk:       n.risk,
	}
}

func (g *DependencyGraph) paths(indices []int) []string {
	out := make([]string, len(indices))
	for k, i := range indices {
		out[k] = g.nodes[i].path
	}
	return out
}

// ExternalLibraries returns external specifier usage sorted by count desc,
// then by name
func (g *DependencyGraph) ExternalLibraries() []domain.ExternalLibrary {
	if g == nil {
		return []domain.ExternalLibrary{}
	}
	libs := make([]domain.ExternalLibrary, 0, len(g.externalOrder))
	for _, name := range g.externalOrder {
		libs = append(libs, domain.ExternalLibrary{Name: name, Count: g.externals[name]})
	}
	sortExternalLibraries(libs)
	return libs
}
