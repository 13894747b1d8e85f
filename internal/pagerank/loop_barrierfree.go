package pagerank

import (
	"math"
	"time"

	"github.com/pagerank-bench/pkg/collections"
	"github.com/pagerank-bench/pkg/parallel"
)

// BarrierFreeLoop runs the static-partition, barrier-free asynchronous
// power iteration: each worker owns a fixed contiguous vertex slice and
// repeatedly updates it in place, with no synchronization against other
// workers between steps. r doubles as both the current and the
// in-progress next rank vector; a write to r[v] is immediately visible to
// any worker (including the writer) summing over v's successors on its
// next pass. Convergence is judged per vertex: once a vertex's update
// falls within tolerance its flag is set and never cleared, and a worker
// exits as soon as every vertex in its slice is flagged. Flags are
// per-worker because the partition is static, so no vertex is ever
// flagged by two workers. Each worker stamps its own Start/Stop on its
// scratchpad; the spread between the earliest Stop and the join is what
// the orchestrator's corrected time subtracts out.
//
// The returned iteration count is the maximum step count reached by any
// single worker, the bound a caller needs to reason about worst-case
// latency.
func BarrierFreeLoop(r, f []float64, xv, xe, vdeg []int, n int, opts Options, pads []*Scratchpad) int {
	ranges := parallel.StaticPartition(n, opts.Workers)
	for _, pad := range pads {
		pad.Clear()
	}
	hook := opts.Hook
	if hook == nil {
		hook = noopHook
	}

	c0 := Factor(n, opts.Damping)

	parallel.RunStatic(ranges, func(rg parallel.Range) {
		pad := pads[rg.WorkerID]
		pad.Start = time.Now()
		converged := collections.NewBitset(rg.Hi - rg.Lo)
		settled := 0
		for l := 0; l < opts.MaxIterations; l++ {
			pad.Iterations = l + 1
			localC0 := c0
			if opts.Dead {
				localC0 = Teleport(r, vdeg, opts.Damping, n)
			}
			for v := rg.Lo; v < rg.Hi; v++ {
				delta := CalculateRankDelta(r, f, xv, xe, localC0, v)
				if math.Abs(delta) <= opts.Tolerance && !converged.Test(v-rg.Lo) {
					converged.Set(v - rg.Lo)
					settled++
				}
				hook(pad, v)
			}
			if settled == rg.Hi-rg.Lo {
				break
			}
		}
		pad.Stop = time.Now()
	})

	max := 0
	for _, pad := range pads {
		if pad.Iterations > max {
			max = pad.Iterations
		}
	}
	return max
}
