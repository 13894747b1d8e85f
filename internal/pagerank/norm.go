package pagerank

import (
	"context"
	"math"

	"github.com/pagerank-bench/pkg/parallel"
)

// Error computes the selected norm of (a-r) over the half-open range
// [i, i+n) of a and r, the whole-vector convergence test used by the
// basic and monolithic loops.
func Error(a, r []float64, norm Norm, i, n int) float64 {
	switch norm {
	case NormL1:
		return errorL1(a, r, i, n)
	case NormL2:
		return errorL2(a, r, i, n)
	default:
		return errorLInf(a, r, i, n)
	}
}

func errorL1(a, r []float64, i, n int) float64 {
	var sum float64
	for v := i; v < i+n; v++ {
		sum += math.Abs(a[v] - r[v])
	}
	return sum
}

func errorL2(a, r []float64, i, n int) float64 {
	var sum float64
	for v := i; v < i+n; v++ {
		d := a[v] - r[v]
		sum += d * d
	}
	return math.Sqrt(sum)
}

func errorLInf(a, r []float64, i, n int) float64 {
	var max float64
	for v := i; v < i+n; v++ {
		if d := math.Abs(a[v] - r[v]); d > max {
			max = d
		}
	}
	return max
}

// ErrorOmp is the parallel-chunked twin of Error, reducing per-chunk
// partial norms according to norm's combination rule (sum for L1/L2,
// max for L-infinity).
func ErrorOmp(ctx context.Context, a, r []float64, norm Norm, workers int) float64 {
	n := len(a)
	if n == 0 {
		return 0
	}
	config := parallel.DefaultPoolConfig().WithWorkers(workers)
	proc := parallel.NewChunkProcessor[int, float64](config)
	indices := make([]int, n)
	for i := range indices {
		indices[i] = i
	}

	switch norm {
	case NormL1:
		total := proc.ProcessChunks(ctx, indices,
			func(_ context.Context, chunk []int, _ int) float64 {
				var sum float64
				for _, v := range chunk {
					sum += math.Abs(a[v] - r[v])
				}
				return sum
			},
			sumReduce,
		)
		return total
	case NormL2:
		total := proc.ProcessChunks(ctx, indices,
			func(_ context.Context, chunk []int, _ int) float64 {
				var sum float64
				for _, v := range chunk {
					d := a[v] - r[v]
					sum += d * d
				}
				return sum
			},
			sumReduce,
		)
		return math.Sqrt(total)
	default:
		return proc.ProcessChunks(ctx, indices,
			func(_ context.Context, chunk []int, _ int) float64 {
				var max float64
				for _, v := range chunk {
					if d := math.Abs(a[v] - r[v]); d > max {
						max = d
					}
				}
				return max
			},
			maxReduce,
		)
	}
}

func sumReduce(parts []float64) float64 {
	var total float64
	for _, p := range parts {
		total += p
	}
	return total
}

func maxReduce(parts []float64) float64 {
	var max float64
	for _, p := range parts {
		if p > max {
			max = p
		}
	}
	return max
}
