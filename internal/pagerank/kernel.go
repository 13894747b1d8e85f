package pagerank

import (
	"context"

	"github.com/pagerank-bench/pkg/parallel"
)

// VertexHook is invoked once per vertex during a rank-update pass, after
// that vertex's new value has been published, carrying the worker's
// scratchpad so the hook can attribute the update to a thread. It exists
// purely for test instrumentation (tracing per-vertex convergence order,
// simulating straggler workers with a sleep); the hot-path default is a
// no-op so it costs nothing in production use.
type VertexHook func(pad *Scratchpad, v int)

func noopHook(*Scratchpad, int) {}

// CalculateRanks computes a[v] = c0 + sum(c[u] for u in in-neighbors of v)
// for every v in [i, i+n), the contribution-based rank update kernel
// shared by the basic and monolithic loops.
func CalculateRanks(a, c []float64, xv, xe []int, c0 float64, i, n int, pad *Scratchpad, hook VertexHook) {
	if hook == nil {
		hook = noopHook
	}
	for v := i; v < i+n; v++ {
		var sum float64
		for _, u := range xe[xv[v]:xv[v+1]] {
			sum += c[u]
		}
		a[v] = c0 + sum
		hook(pad, v)
	}
}

// CalculateRanksOmp is the parallel-chunked twin of CalculateRanks. It
// takes no scratchpad or VertexHook and calls no hook.
func CalculateRanksOmp(ctx context.Context, a, c []float64, xv, xe []int, c0 float64, workers int) {
	n := len(a)
	if n == 0 {
		return
	}
	config := parallel.DefaultPoolConfig().WithWorkers(workers)
	proc := parallel.NewChunkProcessor[int, struct{}](config)
	indices := make([]int, n)
	for i := range indices {
		indices[i] = i
	}
	proc.ProcessChunks(ctx, indices,
		func(_ context.Context, chunk []int, _ int) struct{} {
			for _, v := range chunk {
				var sum float64
				for _, u := range xe[xv[v]:xv[v+1]] {
					sum += c[u]
				}
				a[v] = c0 + sum
			}
			return struct{}{}
		},
		func([]struct{}) struct{} { return struct{}{} },
	)
}

// CalculateRankDelta recomputes the rank of a single vertex v in place
// from r[u]*f[u] over its in-neighbors, publishes the new value to r[v],
// and returns the signed change. Unlike CalculateRanks it reads the rank
// and factor vectors directly instead of a precomputed contribution
// vector, so it stays correct when neighboring ranks move underneath it
// mid-pass, which is the situation the barrier-free loop puts it in.
func CalculateRankDelta(r, f []float64, xv, xe []int, c0 float64, v int) float64 {
	var sum float64
	for _, u := range xe[xv[v]:xv[v+1]] {
		sum += r[u] * f[u]
	}
	delta := c0 + sum - r[v]
	r[v] += delta
	return delta
}
