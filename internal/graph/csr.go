package graph

// CSR is the compressed-sparse-row view of a transposed graph used by the
// solver core: for compressed vertex index v, its in-neighbors (original
// edges pointing at v) are xe[xv[v]:xv[v+1]].
type CSR struct {
	// Keys maps compressed index -> original vertex key, in the order the
	// graph was visited. Decompress uses this.
	Keys []int64
	// Xv holds N+1 offsets into Xe.
	Xv []int
	// Xe holds M compressed source-vertex indices, grouped by destination.
	Xe []int
	// Vdeg holds the original out-degree of each compressed vertex,
	// needed to detect dangling vertices and to build the contribution
	// factor f.
	Vdeg []int

	index map[int64]int
}

// Order returns the number of vertices (N).
func (c *CSR) Order() int { return len(c.Keys) }

// Size returns the number of edges (M).
func (c *CSR) Size() int { return len(c.Xe) }

// Compress maps an original vertex key to its compressed index, or -1 if
// the key is unknown.
func (c *CSR) Compress(key int64) int {
	if i, ok := c.index[key]; ok {
		return i
	}
	return -1
}

// Decompress maps a compressed index back to its original vertex key.
func (c *CSR) Decompress(i int) int64 {
	if i < 0 || i >= len(c.Keys) {
		return -1
	}
	return c.Keys[i]
}

// BuildCSR flattens a TransposedGraph into a CSR view. Vertex order is the
// graph's own iteration order, establishing the key bijection used to
// decompress the final rank vector.
func BuildCSR(g TransposedGraph) *CSR {
	n := g.Order()
	c := &CSR{
		Keys:  make([]int64, 0, n),
		Xv:    make([]int, n+1),
		Vdeg:  make([]int, n),
		index: make(map[int64]int, n),
	}
	index := c.index
	i := 0
	g.Vertices(func(key int64) bool {
		c.Keys = append(c.Keys, key)
		index[key] = i
		c.Vdeg[i] = g.VertexData(key)
		i++
		return true
	})

	// First pass: count in-edges per vertex to size Xv.
	degrees := make([]int, n)
	for vi, key := range c.Keys {
		cnt := 0
		g.OutEdges(key, func(int64) bool { cnt++; return true })
		degrees[vi] = cnt
	}
	offset := 0
	for vi := 0; vi < n; vi++ {
		c.Xv[vi] = offset
		offset += degrees[vi]
	}
	c.Xv[n] = offset
	c.Xe = make([]int, offset)

	// Second pass: fill Xe, tracking a cursor per vertex.
	cursor := make([]int, n)
	copy(cursor, c.Xv[:n])
	for vi, key := range c.Keys {
		g.OutEdges(key, func(u int64) bool {
			ui, ok := index[u]
			if !ok {
				return true
			}
			c.Xe[cursor[vi]] = ui
			cursor[vi]++
			return true
		})
	}
	return c
}
