package reporter

import (
	"fmt"
	"strings"

	"github.com/ludo-technologies/depscope/domain"
)

// RelationshipMap lists every connected file grouped by kind with its
// imports and dependents
func (r *Reporter) RelationshipMap() string {
	nodes := r.nodes.Nodes()

	var b strings.Builder
	b.WriteString("# Project Relationship Map\n\n")
	fmt.Fprintf(&b, "**Generated**: %s\n", r.timestamp())
	fmt.Fprintf(&b, "**Files**: %d\n\n", len(nodes))

	groups := make(map[domain.FileKind][]domain.GraphNode, len(domain.FileKinds))
	for _, n := range nodes {
		kind := domain.ParseFileKind(string(n.Kind))
		groups[kind] = append(groups[kind], n)
	}

	for _, kind := range domain.FileKinds {
		files := groups[kind]
		if len(files) == 0 {
			continue
		}
		fmt.Fprintf(&b, "## %s Files\n\n", strings.ToUpper(string(kind)))

		for _, f := range files {
			if len(f.Imports) == 0 && len(f.ImportedBy) == 0 {
				continue
			}
			fmt.Fprintf(&b, "### `%s`\n", ShortName(f.Path))
			if len(f.Imports) > 0 {
				fmt.Fprintf(&b, "**Imports** (%d):\n", len(f.Imports))
				for _, imp := range f.Imports {
					fmt.Fprintf(&b, "  ↳ %s\n", ShortName(imp))
				}
			}
			if len(f.ImportedBy) > 0 {
				fmt.Fprintf(&b, "**Imported by** (%d):\n", len(f.ImportedBy))
				for _, dep := range f.ImportedBy {
					fmt.Fprintf(&b, "  ↰ %s\n", ShortName(dep))
				}
			}
			b.WriteString("\n")
		}
	}

	return b.String()
}
