package model

import (
	"testing"

	"github.com/pagerank-bench/internal/pagerank"
)

func TestRunOptions_ToPagerankOptions_Defaults(t *testing.T) {
	opts := RunOptions{}.ToPagerankOptions()
	def := pagerank.DefaultOptions()
	if opts.Damping != def.Damping || opts.Tolerance != def.Tolerance {
		t.Errorf("expected zero-value RunOptions to fall back to defaults, got %+v", opts)
	}
	if opts.Variant != pagerank.VariantBasic {
		t.Errorf("expected default variant Basic, got %v", opts.Variant)
	}
}

func TestRunOptions_ToPagerankOptions_Variants(t *testing.T) {
	cases := map[string]pagerank.Variant{
		"barrierfree": pagerank.VariantBarrierFree,
		"monolithic":  pagerank.VariantMonolithic,
		"basic":       pagerank.VariantBasic,
	}
	for name, want := range cases {
		opts := RunOptions{Variant: name}.ToPagerankOptions()
		if opts.Variant != want {
			t.Errorf("variant %q: got %v, want %v", name, opts.Variant, want)
		}
	}
}

func TestNewRankVector(t *testing.T) {
	res := &pagerank.Result{
		Ranks:   []float64{0.5, 0.5},
		Keys:    []int64{1, 2},
		Variant: "basic-ordered",
	}
	rv := NewRankVector("abc", res)
	if rv.Ranks["1"] != 0.5 || rv.Ranks["2"] != 0.5 {
		t.Errorf("unexpected rank vector: %+v", rv.Ranks)
	}
}

func TestRun_ApplyResult(t *testing.T) {
	r := NewRun("abc", "graph.mtx", RunOptions{Variant: "basic"})
	res := &pagerank.Result{Ranks: []float64{0.3, 0.7}, Iterations: 12, TimeMs: 1.5, Variant: "basic-ordered"}
	r.ApplyResult(res)
	if r.Iterations != 12 || r.GraphOrder != 2 || r.Variant != "basic-ordered" {
		t.Errorf("ApplyResult did not copy fields correctly: %+v", r)
	}
}
