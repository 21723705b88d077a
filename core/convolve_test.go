package core_test

import (
	"testing"

	"fastcorr/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reals(vs ...float64) []core.Complex {
	out := make([]core.Complex, len(vs))
	for i, v := range vs {
		out[i] = core.NewComplex(v, 0)
	}
	return out
}

func TestCircularConvolve(t *testing.T) {
	x := reals(1, 2, 3, 4)
	y := reals(1, 0, 0, 1)

	got, err := core.CircularConvolve(x, y)
	require.NoError(t, err)

	// z[k] = x[k] + x[k+1 mod 4]
	assertSequenceNear(t, reals(3, 5, 7, 5), got, tolerance)
}

func TestLinearConvolve(t *testing.T) {
	x := reals(1, 2, 3, 4)
	y := reals(1, 1, 0, 0)

	got, err := core.LinearConvolve(x, y)
	require.NoError(t, err)
	require.Len(t, got, 8)

	assertSequenceNear(t, reals(1, 3, 5, 7, 4, 0, 0, 0), got, tolerance)
}

func TestConvolve_RejectsMismatchedLengths(t *testing.T) {
	_, err := core.CircularConvolve(reals(1, 2), reals(1, 2, 3, 4))
	assert.ErrorIs(t, err, core.ErrSize)

	_, err = core.LinearConvolve(reals(1), reals(1, 2))
	assert.ErrorIs(t, err, core.ErrSize)

	_, err = core.CircularConvolve(reals(1, 2, 3), reals(1, 2, 3))
	assert.ErrorIs(t, err, core.ErrSize)
}
