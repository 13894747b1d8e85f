package pagerank

import (
	"context"
	"time"

	"github.com/pagerank-bench/pkg/parallel"
)

// MonolithicLoopSeq runs the monolithic ordered/unordered loop: unlike
// BasicLoopSeq, which makes two whole-vector passes per step (update a,
// then refresh c), this folds both into a single per-vertex pass;
// c[v] is refreshed immediately after a[v] is computed, so later vertices
// in the same pass can already observe it. opts.Async again selects
// whether a and r are the same backing slice (unordered, no swap) or
// distinct buffers swapped each step (ordered).
func MonolithicLoopSeq(a, r, c, f []float64, xv, xe, vdeg []int, n int, opts Options, pad *Scratchpad, hook VertexHook) int {
	if hook == nil {
		hook = opts.Hook
	}
	if hook == nil {
		hook = noopHook
	}
	pad.Clear()
	pad.Start = time.Now()
	l := 0
	for l < opts.MaxIterations {
		c0 := teleportOrFactor(r, vdeg, opts, n)
		for v := 0; v < n; v++ {
			var sum float64
			for _, u := range xe[xv[v]:xv[v+1]] {
				sum += c[u]
			}
			a[v] = c0 + sum
			c[v] = a[v] * f[v]
			hook(pad, v)
		}
		l++
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

// MonolithicLoopPar is the parallel twin of MonolithicLoopSeq, dynamically
// chunking the combined update+refresh pass across opts.Workers
// goroutines via pkg/parallel.ChunkProcessor.
func MonolithicLoopPar(ctx context.Context, a, r, c, f []float64, xv, xe, vdeg []int, n int, opts Options, pads []*Scratchpad) int {
	for _, pad := range pads {
		pad.Clear()
		pad.Start = time.Now()
	}
	config := parallel.DefaultPoolConfig().WithWorkers(opts.Workers)
	proc := parallel.NewChunkProcessor[int, struct{}](config)
	indices := make([]int, n)
	for i := range indices {
		indices[i] = i
	}

	l := 0
	for l < opts.MaxIterations {
		c0 := teleportOrFactor(r, vdeg, opts, n)
		proc.ProcessChunks(ctx, indices,
			func(_ context.Context, chunk []int, _ int) struct{} {
				for _, v := range chunk {
					var sum float64
					for _, u := range xe[xv[v]:xv[v+1]] {
						sum += c[u]
					}
					a[v] = c0 + sum
					c[v] = a[v] * f[v]
				}
				return struct{}{}
			},
			func([]struct{}) struct{} { return struct{}{} },
		)
		l++
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
