package core

// RealGrid is a square, row-major matrix of real samples: g[row][col].
type RealGrid [][]float64

// ComplexGrid is a square, row-major matrix of complex samples.
type ComplexGrid [][]Complex

func NewRealGrid(n int) RealGrid {
	g := make(RealGrid, n)
	for i := range g {
		g[i] = make([]float64, n)
	}
	return g
}

func NewComplexGrid(n int) ComplexGrid {
	g := make(ComplexGrid, n)
	for i := range g {
		g[i] = make([]Complex, n)
	}
	return g
}

// Size returns N for an N x N grid. It does not validate squareness.
func (g RealGrid) Size() int { return len(g) }

func (g ComplexGrid) Size() int { return len(g) }

// Clone returns a deep copy.
func (g RealGrid) Clone() RealGrid {
	out := make(RealGrid, len(g))
	for i, row := range g {
		out[i] = append([]float64(nil), row...)
	}
	return out
}

// ToComplex lifts a real grid to a complex grid with zero imaginary parts.
func ToComplex(g RealGrid) ComplexGrid {
	out := make(ComplexGrid, len(g))
	for i, row := range g {
		out[i] = make([]Complex, len(row))
		for j, v := range row {
			out[i][j] = NewComplex(v, 0)
		}
	}
	return out
}

// RealPart keeps the real component of every cell.
func RealPart(g ComplexGrid) RealGrid {
	out := make(RealGrid, len(g))
	for i, row := range g {
		out[i] = make([]float64, len(row))
		for j, v := range row {
			out[i][j] = v.Real()
		}
	}
	return out
}

// PadForLinear zero-pads g to 2N x 2N. Correlating padded grids yields the
// linear (non wrap-around) correlation for every shift up to N-1.
func PadForLinear(g RealGrid) (RealGrid, error) {
	n, err := squareSize("PadForLinear", g)
	if err != nil {
		return nil, err
	}
	out := NewRealGrid(2 * n)
	for i, row := range g {
		copy(out[i], row)
	}
	return out, nil
}

func squareSize[T any](op string, g [][]T) (int, error) {
	n := len(g)
	if n == 0 {
		return 0, sizeError(op, 0, "empty grid")
	}
	for i, row := range g {
		if len(row) != n {
			return 0, sizeError(op, n, "row %d has %d columns, want %d", i, len(row), n)
		}
	}
	return n, nil
}
