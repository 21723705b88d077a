package core

// CircularConvolve returns the circular convolution of x and y, which must have
// the same power-of-two length.
func CircularConvolve(x, y []Complex) ([]Complex, error) {
	if len(x) != len(y) {
		return nil, sizeError("CircularConvolve", len(x), "lengths differ: %d vs %d", len(x), len(y))
	}

	a, err := ForwardFFT(x)
	if err != nil {
		return nil, err
	}
	b, err := ForwardFFT(y)
	if err != nil {
		return nil, err
	}

	c := make([]Complex, len(a))
	for i := range a {
		c[i] = a[i].Mul(b[i])
	}

	return InverseFFT(c)
}

// LinearConvolve zero-pads x and y to twice their length and convolves them
// circularly. The result has length 2*len(x); its last element is always zero.
func LinearConvolve(x, y []Complex) ([]Complex, error) {
	if len(x) != len(y) {
		return nil, sizeError("LinearConvolve", len(x), "lengths differ: %d vs %d", len(x), len(y))
	}

	a := make([]Complex, 2*len(x))
	copy(a, x)
	b := make([]Complex, 2*len(y))
	copy(b, y)

	return CircularConvolve(a, b)
}
