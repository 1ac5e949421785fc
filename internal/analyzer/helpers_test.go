package analyzer

import (
	"github.com/ludo-technologies/depscope/domain"
	"github.com/ludo-technologies/depscope/internal/testutil"
)

// buildGraph builds and scores a graph from descriptors in argument order
func buildGraph(files ...domain.ProjectFile) *DependencyGraph {
	g, _ := NewGraphBuilder(nil).Build(testutil.Records(files...))
	scoreNodes(g)
	return g
}

// chainFiles returns name[0] -> name[1] -> ... as .ts files of kind other
func chainFiles(names ...string) []domain.ProjectFile {
	files := make([]domain.ProjectFile, len(names))
	for i, name := range names {
		var imports []string
		if i+1 < len(names) {
			imports = []string{"./" + names[i+1]}
		}
		files[i] = testutil.File(name+".ts", domain.FileKindOther, imports...)
	}
	return files
}
