package pagerank

import (
	"context"
	"math"
	"time"

	"github.com/pagerank-bench/internal/graph"
	"github.com/pagerank-bench/pkg/collections"
	appErrors "github.com/pagerank-bench/pkg/errors"
	"github.com/pagerank-bench/pkg/utils"
)

// variantName returns the observability label for a Variant.
func variantName(v Variant, async bool) string {
	switch v {
	case VariantBarrierFree:
		return "barrierfree"
	case VariantMonolithic:
		if async {
			return "monolithic-unordered"
		}
		return "monolithic-ordered"
	default:
		if async {
			return "basic-unordered"
		}
		return "basic-ordered"
	}
}

// Run solves PageRank over g with the given options. seed, if non-nil,
// supplies an initial rank per original vertex key and must cover every
// vertex in g; a nil seed starts from the uniform distribution 1/N. An
// empty graph (N=0) is not an error: Run returns an empty, zero-iteration
// Result immediately.
func Run(ctx context.Context, g graph.TransposedGraph, opts Options, seed map[int64]float64, logger utils.Logger) (*Result, error) {
	if logger == nil {
		logger = &utils.NullLogger{}
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if opts.Workers < 1 {
		opts.Workers = 1
	}

	n := g.Order()
	if n == 0 {
		logger.Debug("pagerank: empty graph, returning immediately")
		return &Result{Variant: variantName(opts.Variant, opts.Async)}, nil
	}

	csr := graph.BuildCSR(g)
	f := ContributionFactors(csr.Vdeg, opts.Damping)

	r0 := make([]float64, n)
	if seed == nil {
		uniform := 1 / float64(n)
		FillValues(r0, uniform)
	} else {
		if len(seed) != n {
			return nil, appErrors.New(appErrors.CodeSeedMismatch, "seed rank vector does not cover every vertex")
		}
		for key, val := range seed {
			idx := csr.Compress(key)
			if idx < 0 {
				return nil, appErrors.New(appErrors.CodeSeedMismatch, "seed contains a key not present in the graph")
			}
			r0[idx] = val
		}
	}

	if opts.Variant == VariantBarrierFree && opts.ToleranceNorm != NormLInf {
		logger.Warn("pagerank: barrier-free variant cannot honor a whole-vector tolerance norm, skipping solve")
		return decompress(csr, r0, 0, 0, 0, variantName(opts.Variant, opts.Async)), nil
	}

	var (
		wallTotal      time.Duration
		correctedTotal time.Duration
		iterations     int
		final          []float64
	)

	for rep := 0; rep < opts.Repeat; rep++ {
		r := make([]float64, n)
		copy(r, r0)

		pads := NewScratchpads(opts.Workers, time.Now().UnixNano())

		wallStart := time.Now()
		switch opts.Variant {
		case VariantBarrierFree:
			iterations = BarrierFreeLoop(r, f, csr.Xv, csr.Xe, csr.Vdeg, n, opts, pads)
			final = r
		case VariantMonolithic:
			cbuf, c := contributionBuffer(n)
			MultiplyValuesW(c, r, f)
			a := r
			if !opts.Async {
				a = make([]float64, n)
			}
			if opts.Workers <= 1 {
				iterations = MonolithicLoopSeq(a, r, c, f, csr.Xv, csr.Xe, csr.Vdeg, n, opts, pads[0], opts.Hook)
			} else {
				iterations = MonolithicLoopPar(ctx, a, r, c, f, csr.Xv, csr.Xe, csr.Vdeg, n, opts, pads)
			}
			final = finalBuffer(iterations, opts.Async, a, r)
			collections.PutFloat64Slice(cbuf)
		default:
			cbuf, c := contributionBuffer(n)
			MultiplyValuesW(c, r, f)
			a := r
			if !opts.Async {
				a = make([]float64, n)
			}
			if opts.Workers <= 1 {
				iterations = BasicLoopSeq(a, r, c, f, csr.Xv, csr.Xe, csr.Vdeg, n, opts, pads[0], opts.Hook)
			} else {
				iterations = BasicLoopPar(ctx, a, r, c, f, csr.Xv, csr.Xe, csr.Vdeg, n, opts, pads)
			}
			final = finalBuffer(iterations, opts.Async, a, r)
			collections.PutFloat64Slice(cbuf)
		}
		wall := time.Since(wallStart)
		wallTotal += wall

		corrected := minDuration(pads)
		if corrected == 0 {
			corrected = wall
		}
		correctedTotal += corrected
	}

	repeats := float64(opts.Repeat)
	result := decompress(csr, final, iterations,
		wallTotal.Seconds()*1000/repeats,
		correctedTotal.Seconds()*1000/repeats,
		variantName(opts.Variant, opts.Async))
	logger.WithFields(map[string]interface{}{
		"variant":    result.Variant,
		"iterations": result.Iterations,
		"time_ms":    result.TimeMs,
	}).Info("pagerank: solve complete")
	return result, nil
}

// contributionBuffer takes a pooled float64 slice, sized to n, for the
// contribution vector c. Contents are garbage; every element is
// overwritten by the c <- r*f refresh before first read. The pool handle
// must be returned with collections.PutFloat64Slice once the repeat's
// loop has run.
func contributionBuffer(n int) (*[]float64, []float64) {
	buf := collections.GetFloat64Slice()
	if cap(*buf) < n {
		*buf = make([]float64, n)
	} else {
		*buf = (*buf)[:n]
	}
	return buf, *buf
}

// finalBuffer picks which of a/r holds the converged rank vector: for the
// async (unordered) path a and r are the same slice, so either reference
// works; for the sync (ordered) path the buffers were swapped once per
// completed iteration, so an odd iteration count leaves the result in a.
func finalBuffer(iterations int, async bool, a, r []float64) []float64 {
	if async {
		return r
	}
	if iterations%2 == 1 {
		return a
	}
	return r
}

// minDuration returns the smallest recorded duration among pads that
// actually ran (Stop after Start), the "corrected time" measuring
// earliest worker completion, a latency-floor estimate distinct from the
// slowest-worker wall time. Zero when no worker stamped a stop; the
// caller substitutes wall-clock time then.
func minDuration(pads []*Scratchpad) time.Duration {
	min := time.Duration(math.MaxInt64)
	found := false
	for _, pad := range pads {
		d := pad.Duration()
		if d <= 0 {
			continue
		}
		if d < min {
			min = d
			found = true
		}
	}
	if !found {
		return 0
	}
	return min
}

func decompress(csr *graph.CSR, ranks []float64, iterations int, timeMs, correctedMs float64, variant string) *Result {
	n := csr.Order()
	out := &Result{
		Ranks:           make([]float64, n),
		Keys:            make([]int64, n),
		Iterations:      iterations,
		TimeMs:          timeMs,
		CorrectedTimeMs: correctedMs,
		Variant:         variant,
	}
	copy(out.Ranks, ranks)
	copy(out.Keys, csr.Keys)
	return out
}

