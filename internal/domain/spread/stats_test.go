package spread

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Jhuly1215/SimulacionInvasores/internal/domain/raster"
)

func TestCountPatches(t *testing.T) {
	occ := []float64{
		1, 1, 0, 0,
		0, 1, 0, 1,
		0, 0, 0, 1,
		1, 0, 1, 0,
	}
	assert.Equal(t, 4, countPatches(occ, 4, 4))
	assert.Equal(t, 0, countPatches(make([]float64, 9), 3, 3))
}

func TestCountPatches_DiagonalIsSeparate(t *testing.T) {
	assert.Equal(t, 2, countPatches([]float64{1, 0, 0, 1}, 2, 2))
}

func TestComputeStats_Projected(t *testing.T) {
	g := uniform(t, 3, 3, 0)
	occ := []float64{1, 1, 0, 0, 0, 0, 0, 0, 1}
	dens := []float64{0.5, 0.25, 0.01, 0, 0, 0, 0, 0, 0.3}
	s := computeStats(g, occ, dens)
	assert.Equal(t, 3, s.Occupied)
	assert.Equal(t, 2, s.Patches)
	assert.InDelta(t, 0.03, s.AreaKm2, 1e-12)
	assert.InDelta(t, 1.06, s.TotalDensity, 1e-12)
}

func TestComputeStats_Geographic(t *testing.T) {
	g, err := raster.New(2, 1, raster.NorthUp(10, 0.01, 0.01, 0.01), raster.EPSG4326)
	require.NoError(t, err)
	s := computeStats(g, []float64{1, 1}, []float64{1, 1})
	// Two ~1.1 km pixels at the equator.
	assert.InDelta(t, 2*1.11320*1.10574, s.AreaKm2, 1e-4)
}

//Personal.AI order the ending
