/*
Package core computes FFT-based cross-correlation surfaces between two square
intensity grids and classifies every cell of the surface against its peak.

The Fourier Transform decomposes a signal into a sum of complex sinusoids. The
Discrete Fourier Transform does this in O(N²); the Cooley-Tukey FFT reduces the
cost to O(N log N) by splitting the input into even-indexed and odd-indexed
samples, transforming each half recursively and combining the halves with
twiddle factors.

Mathematical Foundation:
For a sequence x[n] of length N, the DFT is defined as:

	X[k] = Σ(n=0 to N-1) x[n] · e^(-2πikn/N)

Splitting into even and odd indices yields:

	X[k]     = E[k] + W^k · O[k]       for k = 0 to N/2-1
	X[k+N/2] = E[k] - W^k · O[k]       for k = 0 to N/2-1

where W^k = e^(-2πik/N) is the twiddle factor. The forward pass applies no 1/N
scaling; the inverse pass conjugates, runs the forward pass, conjugates again
and divides by N.

Correlation:
Multiplying the spectrum of one grid by the conjugate of the spectrum of the
other and transforming back gives the circular cross-correlation of the two
grids. Cell (dr, dc) of the surface holds Σ a[r+dr][c+dc] · b[r][c] with indices
taken modulo N. No zero padding is applied; callers that need linear
correlation pad their grids first (see PadForLinear).

Implementation Notes:
  - Sequence lengths must be a power of two, including 1
  - Each recursion level allocates its own even and odd buffers
  - No operation mutates its input; every stage returns a new slice or grid
*/
package core

import (
	"math"
)

// FFT converts a real sequence to complex samples with zero imaginary parts and
// returns its forward transform.
func FFT(input []float64) ([]Complex, error) {
	complexArray := make([]Complex, len(input))
	for k, v := range input {
		complexArray[k] = NewComplex(v, 0)
	}
	return ForwardFFT(complexArray)
}

// ForwardFFT returns the unnormalised DFT of x. len(x) must be a power of two.
func ForwardFFT(x []Complex) ([]Complex, error) {
	if err := checkLength("ForwardFFT", len(x)); err != nil {
		return nil, err
	}
	return recursiveFFT(x), nil
}

// InverseFFT returns the inverse DFT of x, scaled by 1/N, so that
// InverseFFT(ForwardFFT(x)) ≈ x.
func InverseFFT(x []Complex) ([]Complex, error) {
	n := len(x)
	if err := checkLength("InverseFFT", n); err != nil {
		return nil, err
	}

	conj := make([]Complex, n)
	for i, v := range x {
		conj[i] = v.Conjugate()
	}

	y := recursiveFFT(conj)

	scale := 1.0 / float64(n)
	for i, v := range y {
		y[i] = v.Conjugate().Scale(scale)
	}

	return y, nil
}

func recursiveFFT(input []Complex) []Complex {
	n := len(input)
	//base case
	if n == 1 {
		return []Complex{input[0]}
	}

	even := make([]Complex, n/2)
	odd := make([]Complex, n/2)

	for i := 0; i < n/2; i++ {
		even[i] = input[2*i]
		odd[i] = input[2*i+1]
	}

	//divide
	q := recursiveFFT(even)
	r := recursiveFFT(odd)

	fftResult := make([]Complex, n)

	for k := 0; k < n/2; k++ {
		kth := -2 * math.Pi * float64(k) / float64(n)
		wk := NewComplex(math.Cos(kth), math.Sin(kth))
		t := wk.Mul(r[k])
		fftResult[k] = q[k].Add(t)     //lower frequencies
		fftResult[k+n/2] = q[k].Sub(t) //higher frequencies
	}

	return fftResult
}

// checkLength rejects lengths the radix-2 recursion cannot split down to 1.
// Any non power-of-two length eventually produces an odd remainder.
func checkLength(op string, n int) error {
	if n < 1 {
		return sizeError(op, n, "empty sequence")
	}
	for m := n; m > 1; m /= 2 {
		if m%2 != 0 {
			return sizeError(op, n, "length %d is not a power of 2", n)
		}
	}
	return nil
}

// IsPowerOfTwo reports whether n is a positive power of two.
func IsPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}
