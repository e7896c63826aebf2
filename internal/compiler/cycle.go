package compiler

import (
	"fmt"
	"sort"
	"strings"

	"github.com/roach88/relayts/internal/ir"
)

// FragmentCycle is a set of fragments that spread each other.
type FragmentCycle struct {
	Path    []string `json:"path"`    // Cycle path: ["A", "B", "A"]
	Message string   `json:"message"` // Human-readable description
}

// AnalyzeFragmentCycles finds fragments that transitively spread
// themselves. Such documents cannot be normalized: inlining the spreads
// would never terminate.
//
// The algorithm:
//  1. Build a fragment → spread fragments graph over every document
//  2. Use Tarjan's algorithm to find strongly connected components
//  3. Report each SCC with size > 1 or a self-loop as a cycle
//
// Nodes are visited in sorted order so results are deterministic. Spreads
// of fragments outside the set are ignored here; Validate reports them.
func AnalyzeFragmentCycles(ctx *ir.Context) []FragmentCycle {
	graph := buildSpreadGraph(ctx)
	if len(graph) == 0 {
		return nil
	}

	var cycles []FragmentCycle
	for _, scc := range tarjanSCC(graph) {
		if len(scc) > 1 || (len(scc) == 1 && hasSelfLoop(scc[0], graph)) {
			cycles = append(cycles, sccToCycle(scc, graph))
		}
	}
	sort.Slice(cycles, func(i, j int) bool { return cycles[i].Path[0] < cycles[j].Path[0] })
	return cycles
}

// spreadGraph maps fragment name → fragments it spreads.
type spreadGraph map[string][]string

func buildSpreadGraph(ctx *ir.Context) spreadGraph {
	graph := make(spreadGraph)
	for _, doc := range ctx.Documents() {
		frag, ok := doc.(*ir.Fragment)
		if !ok {
			continue
		}
		var edges []string
		for _, name := range ir.FragmentSpreads(frag.Selections) {
			if _, known := ctx.Fragment(name); known {
				edges = append(edges, name)
			}
		}
		sort.Strings(edges)
		graph[frag.Name] = edges
	}
	return graph
}

// hasSelfLoop checks if a node has an edge to itself.
func hasSelfLoop(node string, graph spreadGraph) bool {
	for _, neighbor := range graph[node] {
		if neighbor == node {
			return true
		}
	}
	return false
}

// tarjanSCC finds strongly connected components using Tarjan's algorithm.
//
// Returns a list of SCCs, where each SCC is a list of fragment names.
// Single-node SCCs without self-loops are NOT cycles.
func tarjanSCC(graph spreadGraph) [][]string {
	var (
		index   = 0
		stack   []string
		indices = make(map[string]int)
		lowlink = make(map[string]int)
		onStack = make(map[string]bool)
		sccs    [][]string
	)

	var strongConnect func(string)
	strongConnect = func(v string) {
		indices[v] = index
		lowlink[v] = index
		index++
		stack = append(stack, v)
		onStack[v] = true

		for _, w := range graph[v] {
			if _, visited := indices[w]; !visited {
				strongConnect(w)
				lowlink[v] = min(lowlink[v], lowlink[w])
			} else if onStack[w] {
				lowlink[v] = min(lowlink[v], indices[w])
			}
		}

		// v is a root node: pop the stack and emit an SCC
		if lowlink[v] == indices[v] {
			var scc []string
			for {
				w := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				onStack[w] = false
				scc = append(scc, w)
				if w == v {
					break
				}
			}
			sccs = append(sccs, scc)
		}
	}

	nodes := make([]string, 0, len(graph))
	for node := range graph {
		nodes = append(nodes, node)
	}
	sort.Strings(nodes)
	for _, node := range nodes {
		if _, visited := indices[node]; !visited {
			strongConnect(node)
		}
	}

	return sccs
}

// sccToCycle converts an SCC to a FragmentCycle starting at its smallest
// name.
func sccToCycle(scc []string, graph spreadGraph) FragmentCycle {
	sorted := append([]string(nil), scc...)
	sort.Strings(sorted)

	if len(sorted) == 1 {
		name := sorted[0]
		return FragmentCycle{
			Path:    []string{name, name},
			Message: fmt.Sprintf("fragment %s spreads itself", name),
		}
	}

	path := reconstructCyclePath(sorted, graph)
	return FragmentCycle{
		Path:    path,
		Message: fmt.Sprintf("fragment cycle: %s", strings.Join(path, " → ")),
	}
}

// reconstructCyclePath builds a cycle path from an SCC.
//
// Strategy: Start at first node in SCC, follow edges to other SCC members,
// continue until we return to start node.
func reconstructCyclePath(scc []string, graph spreadGraph) []string {
	if len(scc) == 0 {
		return []string{}
	}

	sccSet := make(map[string]bool)
	for _, node := range scc {
		sccSet[node] = true
	}

	start := scc[0]
	current := start
	path := []string{current}
	visited := make(map[string]bool)

	for {
		visited[current] = true

		var next string
		for _, neighbor := range graph[current] {
			if sccSet[neighbor] && (!visited[neighbor] || neighbor == start) {
				next = neighbor
				break
			}
		}

		if next == "" {
			break
		}

		path = append(path, next)

		if next == start {
			break
		}

		current = next
	}

	return path
}
