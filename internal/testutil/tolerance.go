package testutil

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

// RequireSliceNearlyEqual fails t at the first element pair that differs by
// more than eps. NaN matches NaN and infinities match by sign, so dB
// conversions of zero or negative power can be compared directly.
func RequireSliceNearlyEqual(t testing.TB, got, want []float64, eps float64) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("length mismatch: got %d %v, want %d %v", len(got), got, len(want), want)
	}
	for i, g := range got {
		w := want[i]
		switch {
		case math.IsNaN(g) && math.IsNaN(w):
		case math.IsInf(w, 0) && g == w:
		case math.Abs(g-w) <= eps:
		default:
			t.Fatalf("index %d: got %v, want %v (eps %v)", i, g, w, eps)
		}
	}
}

// RequireDenseNearlyEqual fails t if got and want differ in shape or if any
// element pair exceeds eps (absolute tolerance).
func RequireDenseNearlyEqual(t testing.TB, got, want mat.Matrix, eps float64) {
	t.Helper()
	gr, gc := got.Dims()
	wr, wc := want.Dims()
	if gr != wr || gc != wc {
		t.Fatalf("shape mismatch: got %dx%d, want %dx%d", gr, gc, wr, wc)
	}
	if !mat.EqualApprox(got, want, eps) {
		t.Fatalf("matrices differ by more than %v:\ngot  %v\nwant %v", eps, mat.Formatted(got), mat.Formatted(want))
	}
}
