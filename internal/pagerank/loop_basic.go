package pagerank

import (
	"context"
	"time"
)

// BasicLoopSeq runs the sequential synchronous power-iteration loop: each
// step recomputes the whole rank vector from contributions, refreshes
// contributions for the next step, measures whole-vector error, and
// (unless opts.Async) swaps the new and old rank buffers. When opts.Async
// is true the caller is expected to pass a and r as the same backing
// slice, so no swap is made and the new ranks overwrite r in place: the
// unordered variant. Vertex sums read the contribution vector c, which is
// refreshed only after the whole pass, so a rank written earlier in a
// pass does not feed later vertices' sums until the next step.
func BasicLoopSeq(a, r, c, f []float64, xv, xe, vdeg []int, n int, opts Options, pad *Scratchpad, hook VertexHook) int {
	pad.Clear()
	pad.Start = time.Now()
	if hook == nil {
		hook = opts.Hook
	}
	l := 0
	for l < opts.MaxIterations {
		c0 := teleportOrFactor(r, vdeg, opts, n)
		CalculateRanks(a, c, xv, xe, c0, 0, n, pad, hook)
		l++
		MultiplyValuesW(c, a, f)
		el := Error(a, r, opts.ToleranceNorm, 0, n)
		if !opts.Async {
			a, r = r, a
		}
		if el < opts.Tolerance {
			break
		}
	}
	pad.Iterations = l
	pad.Stop = time.Now()
	return l
}

// BasicLoopPar is the parallel twin of BasicLoopSeq, chunking the rank
// update, contribution refresh, and error computation across opts.Workers
// goroutines per step. Structurally identical to the sequential loop;
// only the inner passes are parallelized, since the loop itself is an
// inherently serial dependency chain (step l+1 needs step l's full
// result). The chunk workers are transient, so per-step timing is
// attributed to the pads wholesale rather than per worker.
func BasicLoopPar(ctx context.Context, a, r, c, f []float64, xv, xe, vdeg []int, n int, opts Options, pads []*Scratchpad) int {
	for _, pad := range pads {
		pad.Clear()
		pad.Start = time.Now()
	}
	l := 0
	for l < opts.MaxIterations {
		c0 := teleportOrFactor(r, vdeg, opts, n)
		CalculateRanksOmp(ctx, a, c, xv, xe, c0, opts.Workers)
		l++
		MultiplyValuesOmpW(ctx, c, a, f, opts.Workers)
		el := ErrorOmp(ctx, a, r, opts.ToleranceNorm, opts.Workers)
		if !opts.Async {
			a, r = r, a
		}
		if el < opts.Tolerance {
			break
		}
	}
	now := time.Now()
	for _, pad := range pads {
		pad.Iterations = l
		pad.Stop = now
	}
	return l
}

func teleportOrFactor(r []float64, vdeg []int, opts Options, n int) float64 {
	if opts.Dead {
		return Teleport(r, vdeg, opts.Damping, n)
	}
	return Factor(n, opts.Damping)
}
