// Package graph builds the compressed, transposed adjacency view the
// pagerank package iterates over, and loads that view from common graph
// file formats.
package graph

// TransposedGraph is the input contract for CSR construction. Vertices
// are visited in a caller-chosen, stable order which becomes the internal
// compressed index order; OutEdges for a vertex must yield the vertices
// that hold a directed edge INTO it (i.e. the graph's transpose), which is
// what the rank-update kernel needs to sum contributions efficiently.
type TransposedGraph interface {
	// Order returns the number of vertices.
	Order() int
	// Vertices yields every vertex key exactly once, in a stable order.
	Vertices(yield func(key int64) bool)
	// OutEdges yields, for key, every vertex u such that the original
	// graph has an edge u -> key.
	OutEdges(key int64, yield func(u int64) bool)
	// VertexData returns the original (non-transposed) out-degree of key.
	VertexData(key int64) int
}

// EdgeListGraph is a TransposedGraph built incrementally from directed
// edges. It is the in-memory representation produced by the file readers
// in this package and is also convenient to build by hand in tests.
type EdgeListGraph struct {
	order  []int64
	index  map[int64]int
	preds  [][]int64
	outDeg []int
}

// NewEdgeListGraph creates an empty graph.
func NewEdgeListGraph() *EdgeListGraph {
	return &EdgeListGraph{
		index: make(map[int64]int),
	}
}

// ensure registers key if unseen and returns its internal slot.
func (g *EdgeListGraph) ensure(key int64) int {
	if i, ok := g.index[key]; ok {
		return i
	}
	i := len(g.order)
	g.index[key] = i
	g.order = append(g.order, key)
	g.preds = append(g.preds, nil)
	g.outDeg = append(g.outDeg, 0)
	return i
}

// AddEdge records a directed edge u -> v in the original graph.
func (g *EdgeListGraph) AddEdge(u, v int64) {
	ui := g.ensure(u)
	vi := g.ensure(v)
	g.outDeg[ui]++
	g.preds[vi] = append(g.preds[vi], u)
}

// AddVertex registers a vertex with no edges, so it is present even if it
// never appears as an edge endpoint.
func (g *EdgeListGraph) AddVertex(key int64) {
	g.ensure(key)
}

// Order implements TransposedGraph.
func (g *EdgeListGraph) Order() int { return len(g.order) }

// Vertices implements TransposedGraph.
func (g *EdgeListGraph) Vertices(yield func(key int64) bool) {
	for _, k := range g.order {
		if !yield(k) {
			return
		}
	}
}

// OutEdges implements TransposedGraph.
func (g *EdgeListGraph) OutEdges(key int64, yield func(u int64) bool) {
	i, ok := g.index[key]
	if !ok {
		return
	}
	for _, u := range g.preds[i] {
		if !yield(u) {
			return
		}
	}
}

// VertexData implements TransposedGraph.
func (g *EdgeListGraph) VertexData(key int64) int {
	i, ok := g.index[key]
	if !ok {
		return 0
	}
	return g.outDeg[i]
}

// AddSelfLoops adds a self-loop to every vertex, the convention callers
// apply before solving so that no vertex is a dead end. Looping every
// vertex rather than only the dangling ones keeps the rewrite uniform:
// relative rank ordering is preserved and the solvers can skip the
// dangling-mass teleport reduction entirely.
func (g *EdgeListGraph) AddSelfLoops() {
	for _, k := range append([]int64(nil), g.order...) {
		g.AddEdge(k, k)
	}
}
