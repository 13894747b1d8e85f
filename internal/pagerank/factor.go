package pagerank

// Factor computes the fixed teleport mass (1-P)/N used when dangling-mass
// redistribution (Options.Dead) is disabled.
func Factor(n int, damping float64) float64 {
	return (1 - damping) / float64(n)
}

// Teleport computes the full teleport mass C0 including dangling-vertex
// redistribution: the fixed (1-P)/N term plus, for every dangling vertex u
// (vdeg[u] == 0), its share P*r[u]/N of rank mass that would otherwise
// vanish because u has no out-edges to propagate it through.
func Teleport(r []float64, vdeg []int, damping float64, n int) float64 {
	c0 := Factor(n, damping)
	var dangling float64
	for u, d := range vdeg {
		if d == 0 {
			dangling += r[u]
		}
	}
	return c0 + damping*dangling/float64(n)
}
