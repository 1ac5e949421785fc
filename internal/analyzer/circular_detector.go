package analyzer

// cycleFrame is one level of the explicit DFS stack
type cycleFrame struct {
	node int
	next int
}

// CircularDependencyDetector finds import cycles with a depth-first search
// that tracks the current path. Each top-level unvisited node seeds a new
// search; a back edge to a node on the path closes a cycle running from
// that node's position to the current node and back.
type CircularDependencyDetector struct {
	limit int
}

// NewCircularDependencyDetector creates a detector reporting at most MaxCycles cycles
func NewCircularDependencyDetector() *CircularDependencyDetector {
	return &CircularDependencyDetector{limit: MaxCycles}
}

// DetectCycles returns the first cycles found, each as a closed path list
// where the first and last entries are equal.
func (d *CircularDependencyDetector) DetectCycles(g *DependencyGraph) [][]string {
	cycles := [][]string{}
	if g.NodeCount() == 0 || d.limit <= 0 {
		return cycles
	}

	n := len(g.nodes)
	visited := make([]bool, n)
	onStack := make([]bool, n)

	for seed := 0; seed < n; seed++ {
		if visited[seed] {
			continue
		}
		visited[seed] = true
		onStack[seed] = true
		stack := []cycleFrame{{node: seed}}

		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			imports := g.nodes[top.node].imports.order

			if top.next < len(imports) {
				child := imports[top.next]
				top.next++

				if onStack[child] {
					cycles = append(cycles, d.closePath(g, stack, child))
					if len(cycles) >= d.limit {
						return cycles
					}
					continue
				}
				if visited[child] {
					continue
				}
				visited[child] = true
				onStack[child] = true
				stack = append(stack, cycleFrame{node: child})
				continue
			}

			onStack[top.node] = false
			stack = stack[:len(stack)-1]
		}
	}

	return cycles
}

// closePath renders the stack slice from child's position plus child itself
func (d *CircularDependencyDetector) closePath(g *DependencyGraph, stack []cycleFrame, child int) []string {
	start := 0
	for k, f := range stack {
		if f.node == child {
			start = k
			break
		}
	}
	cycle := make([]string, 0, len(stack)-start+1)
	for _, f := range stack[start:] {
		cycle = append(cycle, g.nodes[f.node].path)
	}
	return append(cycle, g.nodes[child].path)
}
