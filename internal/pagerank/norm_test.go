package pagerank

import (
	"context"
	"testing"
)

func TestError_Norms(t *testing.T) {
	a := []float64{1, 2, -3}
	r := []float64{0, 2, 0}
	// diffs: 1, 0, -3

	if got := Error(a, r, NormLInf, 0, 3); got != 3 {
		t.Errorf("LInf = %v, want 3", got)
	}
	if got := Error(a, r, NormL1, 0, 3); got != 4 {
		t.Errorf("L1 = %v, want 4", got)
	}
	want := 10.0 // sqrt(1^2+0^2+3^2) = sqrt(10)
	if got := Error(a, r, NormL2, 0, 3); got*got < want-1e-9 || got*got > want+1e-9 {
		t.Errorf("L2^2 = %v, want %v", got*got, want)
	}
}

func TestErrorOmp_MatchesSequential(t *testing.T) {
	a := []float64{1, 2, -3, 4, 5, -6}
	r := []float64{0, 2, 0, 4, 1, 0}
	for _, norm := range []Norm{NormLInf, NormL1, NormL2} {
		seq := Error(a, r, norm, 0, len(a))
		par := ErrorOmp(context.Background(), a, r, norm, 3)
		if diff := seq - par; diff > 1e-9 || diff < -1e-9 {
			t.Errorf("norm %v: sequential=%v parallel=%v", norm, seq, par)
		}
	}
}
