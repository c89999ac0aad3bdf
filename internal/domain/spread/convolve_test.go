package spread

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"

	"github.com/Jhuly1215/SimulacionInvasores/pkg/errors"
)

func TestConvolve_ImpulseReproducesKernel(t *testing.T) {
	k, err := Gaussian(1)
	require.NoError(t, err)
	const w, h = 9, 9
	src := make([]float64, w*h)
	src[4*w+4] = 2

	dst := make([]float64, w*h)
	require.NoError(t, Convolve(dst, src, w, h, k))
	for r := 0; r < h; r++ {
		for c := 0; c < w; c++ {
			assert.InDelta(t, 2*k.At(r-4, c-4), dst[r*w+c], 1e-15)
		}
	}
	assert.InDelta(t, 2.0, floats.Sum(dst), 1e-12)
}

func TestConvolve_ZeroFillLosesMassAtEdge(t *testing.T) {
	k, err := Gaussian(1)
	require.NoError(t, err)
	const w, h = 5, 5
	src := make([]float64, w*h)
	src[0] = 1

	dst := make([]float64, w*h)
	require.NoError(t, Convolve(dst, src, w, h, k))
	assert.Less(t, floats.Sum(dst), 1.0)
	assert.InDelta(t, k.At(0, 0), dst[0], 1e-15)
	assert.InDelta(t, k.At(1, 1), dst[w+1], 1e-15)
}

func TestConvolve_LinearInSource(t *testing.T) {
	k, err := Gaussian(0.8)
	require.NoError(t, err)
	const w, h = 6, 4
	a := []float64{
		0, 1, 0, 0, 0.5, 0,
		0, 0, 0, 0, 0, 0,
		0.2, 0, 0, 3, 0, 0,
		0, 0, 0, 0, 0, 1,
	}
	dst := make([]float64, w*h)
	require.NoError(t, Convolve(dst, a, w, h, k))

	// Gather form for comparison.
	for r := 0; r < h; r++ {
		for c := 0; c < w; c++ {
			var want float64
			for rr := 0; rr < h; rr++ {
				for cc := 0; cc < w; cc++ {
					want += a[rr*w+cc] * k.At(r-rr, c-cc)
				}
			}
			assert.InDelta(t, want, dst[r*w+c], 1e-14, "(%d,%d)", r, c)
		}
	}
}

func TestConvolve_ClearsDestination(t *testing.T) {
	k, err := Gaussian(1)
	require.NoError(t, err)
	dst := []float64{9, 9, 9, 9}
	require.NoError(t, Convolve(dst, make([]float64, 4), 2, 2, k))
	assert.Equal(t, []float64{0, 0, 0, 0}, dst)
}

func TestConvolve_ShapeMismatch(t *testing.T) {
	k, err := Gaussian(1)
	require.NoError(t, err)
	err = Convolve(make([]float64, 4), make([]float64, 6), 2, 2, k)
	assert.True(t, errors.IsCode(err, errors.CodeInternalError))

	err = Convolve(make([]float64, 4), make([]float64, 4), 2, 2, &Kernel{Radius: 1, Weights: []float64{1}})
	assert.True(t, errors.IsCode(err, errors.CodeInternalError))
}

//Personal.AI order the ending
