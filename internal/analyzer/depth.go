package analyzer

// depthFrame is one level of the explicit longest-chain walk
type depthFrame struct {
	node  int
	depth int
	next  int
	best  int
}

// maxDepth returns the longest import chain over all start nodes.
// A node already on the current path ends the chain at the current depth.
func maxDepth(g *DependencyGraph) int {
	n := g.NodeCount()
	if n == 0 {
		return 0
	}
	onPath := make([]bool, n)
	deepest := 0
	for start := 0; start < n; start++ {
		if d := chainDepth(g, start, onPath); d > deepest {
			deepest = d
		}
	}
	return deepest
}

// chainDepth walks every simple import path from start. onPath must be all
// false on entry and is all false again on return.
func chainDepth(g *DependencyGraph, start int, onPath []bool) int {
	onPath[start] = true
	stack := []depthFrame{{node: start}}
	result := 0

	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		imports := g.nodes[top.node].imports.order

		if top.next < len(imports) {
			child := imports[top.next]
			top.next++
			d := top.depth + 1
			if onPath[child] {
				if d > top.best {
					top.best = d
				}
				continue
			}
			onPath[child] = true
			stack = append(stack, depthFrame{node: child, depth: d, best: d})
			continue
		}

		res := top.best
		onPath[top.node] = false
		stack = stack[:len(stack)-1]
		if len(stack) == 0 {
			result = res
		} else if parent := &stack[len(stack)-1]; res > parent.best {
			parent.best = res
		}
	}

	return result
}
