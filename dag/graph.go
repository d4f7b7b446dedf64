package dag

import (
	"container/heap"
	"fmt"
	"sort"
	"strings"
)

// Edge represents a dependency: To depends on From.
type Edge struct {
	From string
	To   string
}

// Graph is a directed dependency graph whose nodes keep the order in
// which they were added. That insertion order is the tie-breaker for
// every ordering the graph produces, so results are deterministic.
type Graph struct {
	index      map[string]int
	names      []string
	deps       [][]int // node -> nodes it depends on, in declaration order
	dependents [][]int // node -> nodes that depend on it
	edges      map[[2]int]struct{}
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		index: make(map[string]int),
		edges: make(map[[2]int]struct{}),
	}
}

// FromEdges builds a graph from an ordered node list and a set of edges.
func FromEdges(nodes []string, edges []Edge) (*Graph, error) {
	g := New()
	for _, n := range nodes {
		g.AddNode(n)
	}
	for _, e := range edges {
		if err := g.AddEdge(e.From, e.To); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// AddNode adds a node. It reports false if the node already existed.
func (g *Graph) AddNode(name string) bool {
	if _, ok := g.index[name]; ok {
		return false
	}
	g.index[name] = len(g.names)
	g.names = append(g.names, name)
	g.deps = append(g.deps, nil)
	g.dependents = append(g.dependents, nil)
	return true
}

// AddEdge records that to depends on from. Both nodes must exist.
// Repeated edges are ignored.
func (g *Graph) AddEdge(from, to string) error {
	f, ok := g.index[from]
	if !ok {
		return &UnknownNodeError{Name: from, Referrer: to}
	}
	t, ok := g.index[to]
	if !ok {
		return &UnknownNodeError{Name: to, Referrer: from}
	}
	key := [2]int{f, t}
	if _, dup := g.edges[key]; dup {
		return nil
	}
	g.edges[key] = struct{}{}
	g.deps[t] = append(g.deps[t], f)
	g.dependents[f] = append(g.dependents[f], t)
	return nil
}

// Has reports whether the node exists.
func (g *Graph) Has(name string) bool {
	_, ok := g.index[name]
	return ok
}

// Len returns the number of nodes.
func (g *Graph) Len() int { return len(g.names) }

// Nodes returns node names in insertion order.
func (g *Graph) Nodes() []string {
	out := make([]string, len(g.names))
	copy(out, g.names)
	return out
}

// DependenciesOf returns the direct dependencies of a node in declaration order.
func (g *Graph) DependenciesOf(name string) []string {
	i, ok := g.index[name]
	if !ok {
		return nil
	}
	return g.namesOf(g.deps[i])
}

// DependentsOf returns the nodes that directly depend on name.
func (g *Graph) DependentsOf(name string) []string {
	i, ok := g.index[name]
	if !ok {
		return nil
	}
	return g.namesOf(g.dependents[i])
}

func (g *Graph) namesOf(idx []int) []string {
	out := make([]string, 0, len(idx))
	for _, i := range idx {
		out = append(out, g.names[i])
	}
	return out
}

type intMinHeap []int

func (h intMinHeap) Len() int           { return len(h) }
func (h intMinHeap) Less(i, j int) bool { return h[i] < h[j] }
func (h intMinHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *intMinHeap) Push(x any)        { *h = append(*h, x.(int)) }
func (h *intMinHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}

// TopologicalOrder returns every node such that each node appears after
// all of its dependencies. Among nodes that are ready at the same time the
// one added first wins. A cycle yields a *CycleError.
func (g *Graph) TopologicalOrder() ([]string, error) {
	indeg := make([]int, len(g.names))
	for i := range g.deps {
		indeg[i] = len(g.deps[i])
	}

	ready := &intMinHeap{}
	for i, d := range indeg {
		if d == 0 {
			heap.Push(ready, i)
		}
	}

	out := make([]string, 0, len(g.names))
	for ready.Len() > 0 {
		n := heap.Pop(ready).(int)
		out = append(out, g.names[n])
		for _, m := range g.dependents[n] {
			indeg[m]--
			if indeg[m] == 0 {
				heap.Push(ready, m)
			}
		}
	}

	if len(out) != len(g.names) {
		return nil, &CycleError{Path: g.FindCycle()}
	}
	return out, nil
}

// Levels uses Kahn's algorithm to group nodes by dependency depth: level 0
// has no dependencies, level n depends on at least one node of level n-1.
// Each level is in insertion order.
func (g *Graph) Levels() ([][]string, error) {
	indeg := make([]int, len(g.names))
	var queue []int
	for i := range g.deps {
		indeg[i] = len(g.deps[i])
		if indeg[i] == 0 {
			queue = append(queue, i)
		}
	}

	var levels [][]string
	visited := 0
	for len(queue) > 0 {
		levels = append(levels, g.namesOf(queue))
		visited += len(queue)

		var next []int
		for _, n := range queue {
			for _, m := range g.dependents[n] {
				indeg[m]--
				if indeg[m] == 0 {
					next = append(next, m)
				}
			}
		}
		sort.Ints(next)
		queue = next
	}

	if visited != len(g.names) {
		return nil, &CycleError{Path: g.FindCycle()}
	}
	return levels, nil
}

// FindCycle returns one cycle following dependency edges, with the first
// node repeated at the end (a depends on b, b depends on a: [a b a]).
// The search starts from nodes in insertion order so the witness is stable.
// It returns nil for an acyclic graph.
func (g *Graph) FindCycle() []string {
	const (
		white = 0
		gray  = 1
		black = 2
	)

	color := make([]int, len(g.names))
	parent := make([]int, len(g.names))
	for i := range parent {
		parent[i] = -1
	}

	var cycle []int

	var dfs func(u int) bool
	dfs = func(u int) bool {
		color[u] = gray
		for _, v := range g.deps[u] {
			if color[v] == white {
				parent[v] = u
				if dfs(v) {
					return true
				}
				continue
			}
			if color[v] == gray {
				// Back edge u -> v: walk parents from u to v.
				cycle = append(cycle, v)
				for cur := u; cur != -1 && cur != v; cur = parent[cur] {
					cycle = append(cycle, cur)
				}
				cycle = append(cycle, v)
				return true
			}
		}
		color[u] = black
		return false
	}

	for i := range g.names {
		if color[i] == white && dfs(i) {
			break
		}
	}

	if len(cycle) == 0 {
		return nil
	}

	out := make([]string, 0, len(cycle))
	for i := len(cycle) - 1; i >= 0; i-- {
		out = append(out, g.names[cycle[i]])
	}
	return out
}

// Reverse returns a graph with every edge flipped and the same node order.
func (g *Graph) Reverse() *Graph {
	r := New()
	for _, n := range g.names {
		r.AddNode(n)
	}
	for t, deps := range g.deps {
		for _, f := range deps {
			// Both nodes exist in r.
			_ = r.AddEdge(g.names[t], g.names[f])
		}
	}
	return r
}

// String renders the graph as "node <- dep, dep" lines for debugging.
func (g *Graph) String() string {
	var b strings.Builder
	for i, n := range g.names {
		fmt.Fprintf(&b, "%s <- %v\n", n, g.namesOf(g.deps[i]))
	}
	return b.String()
}
