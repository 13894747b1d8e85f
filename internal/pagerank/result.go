package pagerank

// Result holds the outcome of a PageRank solve.
type Result struct {
	// Ranks holds the final rank vector, indexed by original vertex key
	// order (already decompressed; see internal/graph.CSR.Decompress).
	Ranks []float64
	// Keys holds the original vertex key for Ranks[i], i.e. Keys[i] is
	// the vertex Ranks[i] belongs to.
	Keys []int64
	// Iterations is the number of power-iteration steps taken. For the
	// barrier-free variant this is the maximum iteration count observed
	// across workers.
	Iterations int
	// TimeMs is the wall-clock duration of the solve, averaged across
	// Options.Repeat runs.
	TimeMs float64
	// CorrectedTimeMs is the minimum per-worker active duration,
	// averaged across Options.Repeat runs; it excludes scheduling and
	// join overhead that wall-clock time includes.
	CorrectedTimeMs float64
	// Variant names the loop driver that produced this result.
	Variant string
}
