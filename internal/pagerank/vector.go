package pagerank

import (
	"context"

	"github.com/pagerank-bench/pkg/parallel"
)

// FillValues sets every element of x to v.
func FillValues(x []float64, v float64) {
	for i := range x {
		x[i] = v
	}
}

// CopyValues copies src into dst. dst and src must have equal length.
func CopyValues(dst, src []float64) {
	copy(dst, src)
}

// MultiplyValuesW writes dst[i] = a[i]*b[i] for i in [0, len(dst)), the
// contribution refresh step c <- a*f in the power-iteration loops.
func MultiplyValuesW(dst, a, b []float64) {
	for i := range dst {
		dst[i] = a[i] * b[i]
	}
}

// MultiplyValuesOmpW is the parallel-chunked twin of MultiplyValuesW, used
// by the parallel basic loop on every step, whatever the vector length.
func MultiplyValuesOmpW(ctx context.Context, dst, a, b []float64, workers int) {
	n := len(dst)
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
			for _, i := range chunk {
				dst[i] = a[i] * b[i]
			}
			return struct{}{}
		},
		func([]struct{}) struct{} { return struct{}{} },
	)
}

// ContributionFactors builds the contribution factor vector f, where
// f[v] = P/vdeg[v] for non-dangling vertices and 0 for dangling ones
// (vdeg[v] == 0). The damping factor is folded in here once, so the
// kernels' per-edge reads of c[u] or r[u]*f[u] are already damped.
// Dangling mass is instead handled by the teleport term when
// Options.Dead is set (see factor.go).
func ContributionFactors(vdeg []int, damping float64) []float64 {
	f := make([]float64, len(vdeg))
	for i, d := range vdeg {
		if d > 0 {
			f[i] = damping / float64(d)
		}
	}
	return f
}
