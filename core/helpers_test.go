package core_test

import (
	"math/rand/v2"
	"testing"

	"fastcorr/core"
)

const tolerance = 1e-9

func randomSequence(rng *rand.Rand, n int) []core.Complex {
	x := make([]core.Complex, n)
	for i := range x {
		x[i] = core.NewComplex(rng.Float64()*2-1, rng.Float64()*2-1)
	}
	return x
}

func randomGrid(rng *rand.Rand, n int) core.RealGrid {
	g := core.NewRealGrid(n)
	for i := range g {
		for j := range g[i] {
			g[i][j] = float64(rng.IntN(256))
		}
	}
	return g
}

func toComplex128(x []core.Complex) []complex128 {
	out := make([]complex128, len(x))
	for i, v := range x {
		out[i] = complex(v.Real(), v.Imag())
	}
	return out
}

func assertSequenceNear(t *testing.T, want, got []core.Complex, tol float64) {
	t.Helper()
	if len(want) != len(got) {
		t.Fatalf("length mismatch: want %d, got %d", len(want), len(got))
	}
	for i := range want {
		if d := want[i].Sub(got[i]); abs(d.Real()) > tol || abs(d.Imag()) > tol {
			t.Fatalf("index %d: want %v, got %v", i, want[i], got[i])
		}
	}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// directCorrelation evaluates Σ a[r+dr][c+dc]·b[r][c] cell by cell.
func directCorrelation(a, b core.RealGrid) core.RealGrid {
	n := len(a)
	out := core.NewRealGrid(n)
	for dr := 0; dr < n; dr++ {
		for dc := 0; dc < n; dc++ {
			var sum float64
			for r := 0; r < n; r++ {
				for c := 0; c < n; c++ {
					sum += a[(r+dr)%n][(c+dc)%n] * b[r][c]
				}
			}
			out[dr][dc] = sum
		}
	}
	return out
}
