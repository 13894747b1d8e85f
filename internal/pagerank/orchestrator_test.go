package pagerank

import (
	"context"
	"math"
	"testing"

	"github.com/pagerank-bench/internal/graph"
	appErrors "github.com/pagerank-bench/pkg/errors"
)

func sumRanks(r *Result) float64 {
	var sum float64
	for _, v := range r.Ranks {
		sum += v
	}
	return sum
}

// TestRun_TwoNodeCycle: a symmetric 2-cycle must converge to equal ranks
// for the basic and monolithic variants, each vertex receiving half the
// total probability mass.
func TestRun_TwoNodeCycle(t *testing.T) {
	g := graph.NewEdgeListGraph()
	g.AddEdge(1, 2)
	g.AddEdge(2, 1)

	for _, variant := range []Variant{VariantBasic, VariantMonolithic} {
		opts := DefaultOptions()
		opts.Variant = variant
		res, err := Run(context.Background(), g, opts, nil, nil)
		if err != nil {
			t.Fatalf("variant %v: unexpected error: %v", variant, err)
		}
		if len(res.Ranks) != 2 {
			t.Fatalf("variant %v: expected 2 ranks, got %d", variant, len(res.Ranks))
		}
		if diff := res.Ranks[0] - res.Ranks[1]; math.Abs(diff) > 1e-6 {
			t.Errorf("variant %v: expected symmetric ranks, got %v", variant, res.Ranks)
		}
		if diff := sumRanks(res) - 1.0; math.Abs(diff) > 1e-6 {
			t.Errorf("variant %v: expected ranks to sum to ~1, got %v", variant, sumRanks(res))
		}
	}
}

// TestRun_ChainOfThree exercises the dangling-sink teleport path: vertex
// 3 has no out-edges, so with Dead enabled its rank mass must be
// redistributed rather than vanish (total mass still sums to ~1).
func TestRun_ChainOfThree(t *testing.T) {
	g := graph.NewEdgeListGraph()
	g.AddEdge(1, 2)
	g.AddEdge(2, 3)

	opts := DefaultOptions()
	opts.Dead = true
	opts.MaxIterations = 200
	res, err := Run(context.Background(), g, opts, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := sumRanks(res) - 1.0; math.Abs(diff) > 1e-4 {
		t.Errorf("expected dangling mass to be redistributed, ranks sum to %v", sumRanks(res))
	}
}

// TestRun_BarrierFreeThreeCycle checks the barrier-free variant runs at
// least one iteration on a simple 3-cycle and keeps the total rank mass
// at ~1.
func TestRun_BarrierFreeThreeCycle(t *testing.T) {
	g := graph.NewEdgeListGraph()
	g.AddEdge(1, 2)
	g.AddEdge(2, 3)
	g.AddEdge(3, 1)

	opts := DefaultOptions()
	opts.Variant = VariantBarrierFree
	opts.Workers = 2
	res, err := Run(context.Background(), g, opts, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Iterations <= 0 {
		t.Errorf("expected at least one iteration, got %d", res.Iterations)
	}
	if diff := sumRanks(res) - 1.0; math.Abs(diff) > 1e-3 {
		t.Errorf("expected ranks to sum to ~1 on a 3-cycle, got %v", sumRanks(res))
	}
}

// TestRun_BarrierFreeUnsupportedNorm verifies the documented edge case:
// a whole-vector norm other than LInf is not honored by the barrier-free
// loop, and Run reports zero iterations instead of erroring.
func TestRun_BarrierFreeUnsupportedNorm(t *testing.T) {
	g := graph.NewEdgeListGraph()
	g.AddEdge(1, 2)
	g.AddEdge(2, 1)

	opts := DefaultOptions()
	opts.Variant = VariantBarrierFree
	opts.ToleranceNorm = NormL1
	res, err := Run(context.Background(), g, opts, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Iterations != 0 {
		t.Errorf("expected 0 iterations for unsupported norm, got %d", res.Iterations)
	}
}

// TestRun_SeededFastPath verifies that seeding with the already-converged
// ranks makes the solve terminate in very few iterations.
func TestRun_SeededFastPath(t *testing.T) {
	g := graph.NewEdgeListGraph()
	g.AddEdge(1, 2)
	g.AddEdge(2, 1)

	cold, err := Run(context.Background(), g, DefaultOptions(), nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	seed := map[int64]float64{1: cold.Ranks[0], 2: cold.Ranks[1]}
	warm, err := Run(context.Background(), g, DefaultOptions(), seed, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if warm.Iterations > cold.Iterations {
		t.Errorf("seeded solve should not need more iterations than cold start: warm=%d cold=%d", warm.Iterations, cold.Iterations)
	}
}

// TestRun_EmptyGraph verifies the N=0 early return.
func TestRun_EmptyGraph(t *testing.T) {
	g := graph.NewEdgeListGraph()
	res, err := Run(context.Background(), g, DefaultOptions(), nil, nil)
	if err != nil {
		t.Fatalf("unexpected error for empty graph: %v", err)
	}
	if len(res.Ranks) != 0 || res.Iterations != 0 {
		t.Errorf("expected empty, zero-iteration result, got %+v", res)
	}
}

func TestRun_SeedMismatch(t *testing.T) {
	g := graph.NewEdgeListGraph()
	g.AddEdge(1, 2)
	g.AddEdge(2, 1)

	_, err := Run(context.Background(), g, DefaultOptions(), map[int64]float64{1: 0.5}, nil)
	if err == nil {
		t.Fatal("expected an error for a seed that does not cover every vertex")
	}
	if appErrors.GetErrorCode(err) != appErrors.CodeSeedMismatch {
		t.Errorf("expected CodeSeedMismatch, got %s", appErrors.GetErrorCode(err))
	}
}

func TestRun_InvalidOptions(t *testing.T) {
	g := graph.NewEdgeListGraph()
	g.AddEdge(1, 2)

	opts := DefaultOptions()
	opts.Damping = 1.5
	if _, err := Run(context.Background(), g, opts, nil, nil); err == nil {
		t.Fatal("expected an error for damping out of (0,1)")
	}
}

// TestRun_ParallelMatchesSequential checks that enabling multiple workers
// on the basic loop does not change the converged result beyond the
// configured tolerance.
func TestRun_ParallelMatchesSequential(t *testing.T) {
	g := graph.NewEdgeListGraph()
	g.AddEdge(1, 2)
	g.AddEdge(2, 3)
	g.AddEdge(3, 1)
	g.AddEdge(1, 3)

	seq := DefaultOptions()
	seq.Workers = 1
	seqRes, err := Run(context.Background(), g, seq, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	par := DefaultOptions()
	par.Workers = 4
	parRes, err := Run(context.Background(), g, par, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i := range seqRes.Ranks {
		if math.Abs(seqRes.Ranks[i]-parRes.Ranks[i]) > 1e-6 {
			t.Errorf("rank %d diverged: seq=%v par=%v", i, seqRes.Ranks[i], parRes.Ranks[i])
		}
	}
}

// TestRun_NormSelectionOrdering: for a fixed difference vector the norms
// order L1 >= L2 >= LInf, so the same tolerance is crossed soonest under
// LInf and latest under L1, giving a monotone iteration-count ordering.
func TestRun_NormSelectionOrdering(t *testing.T) {
	iters := make(map[Norm]int)
	for _, norm := range []Norm{NormL1, NormL2, NormLInf} {
		g := graph.NewEdgeListGraph()
		g.AddEdge(0, 1)
		g.AddEdge(1, 2)
		g.AddVertex(2)
		g.AddSelfLoops()

		opts := DefaultOptions()
		opts.Tolerance = 1e-3
		opts.ToleranceNorm = norm
		res, err := Run(context.Background(), g, opts, nil, nil)
		if err != nil {
			t.Fatalf("norm %v: unexpected error: %v", norm, err)
		}
		if res.Iterations >= opts.MaxIterations {
			t.Errorf("norm %v: did not converge before the iteration cap", norm)
		}
		iters[norm] = res.Iterations
	}
	if iters[NormLInf] < iters[NormL2] || iters[NormL2] < iters[NormL1] {
		t.Errorf("expected iterations(LInf) >= iterations(L2) >= iterations(L1), got %v", iters)
	}
}

// TestRun_RepeatAveragesTimings: repeats re-run the same solve and the
// reported timings are per-repeat averages, so they must stay
// non-negative and the ranks must match a single-run solve.
func TestRun_RepeatAveragesTimings(t *testing.T) {
	g := graph.NewEdgeListGraph()
	g.AddEdge(1, 2)
	g.AddEdge(2, 1)

	opts := DefaultOptions()
	opts.Repeat = 3
	res, err := Run(context.Background(), g, opts, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.TimeMs < 0 || res.CorrectedTimeMs < 0 {
		t.Errorf("expected non-negative averaged timings, got %v / %v", res.TimeMs, res.CorrectedTimeMs)
	}
	if res.CorrectedTimeMs > res.TimeMs+1 {
		t.Errorf("corrected time should not exceed wall time: %v > %v", res.CorrectedTimeMs, res.TimeMs)
	}

	single, err := Run(context.Background(), g, DefaultOptions(), nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := range res.Ranks {
		if math.Abs(res.Ranks[i]-single.Ranks[i]) > 1e-12 {
			t.Errorf("repeat changed converged ranks at %d: %v vs %v", i, res.Ranks[i], single.Ranks[i])
		}
	}
}
