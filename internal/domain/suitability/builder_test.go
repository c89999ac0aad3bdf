package suitability

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Jhuly1215/SimulacionInvasores/internal/domain/raster"
	"github.com/Jhuly1215/SimulacionInvasores/internal/domain/species"
	"github.com/Jhuly1215/SimulacionInvasores/pkg/errors"
)

const testCRS = "EPSG:32633"

func filled(t *testing.T, w, h int, v float64) *raster.Grid {
	t.Helper()
	g, err := raster.NewFilled(w, h, raster.NorthUp(0, float64(h)*100, 100, 100), testCRS, v)
	require.NoError(t, err)
	return g
}

func testSpecies() *species.Params {
	return &species.Params{
		Name:              "test",
		GrowthRate:        0.1,
		DispersalMeters:   100,
		InitialPopulation: 0.05,
		Timesteps:         5,
		Dt:                1,
		Mobility:          species.Ground,
	}
}

// midInput is a 1x1 scene where every climate variable sits at the middle
// of its normalisation range and the elevation at the default peak.
func midInput(t *testing.T, class float64) Input {
	return Input{
		Class:     filled(t, 1, 1, class),
		Elevation: filled(t, 1, 1, 1500),
		Climate: map[string]*raster.Grid{
			species.Bio1:  filled(t, 1, 1, 17.5),
			species.Bio5:  filled(t, 1, 1, 27.5),
			species.Bio6:  filled(t, 1, 1, 5),
			species.Bio12: filled(t, 1, 1, 1500),
			species.Bio15: filled(t, 1, 1, 50),
		},
		Species: testSpecies(),
	}
}

func TestParseBioclimVariant(t *testing.T) {
	v, err := ParseBioclimVariant("")
	require.NoError(t, err)
	assert.Equal(t, Additive, v)

	v, err = ParseBioclimVariant("five-variable")
	require.NoError(t, err)
	assert.Equal(t, FiveVariable, v)

	_, err = ParseBioclimVariant("six")
	assert.True(t, errors.IsCode(err, errors.CodeInvalidInput))

	assert.Equal(t, Additive, NewBuilder("bogus").Variant())
}

func TestBuild_AdditiveComposite(t *testing.T) {
	suit, barrier, err := NewBuilder(Additive).Build(midInput(t, 111))
	require.NoError(t, err)

	// class 0.9, elevation 1.0, bioclim 0.95*0.5 + 0.05*(22.5/75)
	want := 0.3*0.9 + 0.3*1.0 + 0.4*(0.475+0.05*0.3)
	assert.InDelta(t, want, suit.Data[0], 1e-9)
	assert.Equal(t, 0.0, barrier.Data[0])
}

func TestBuild_FiveVariableComposite(t *testing.T) {
	suit, _, err := NewBuilder(FiveVariable).Build(midInput(t, 111))
	require.NoError(t, err)
	assert.InDelta(t, 0.3*0.9+0.3+0.4*0.475, suit.Data[0], 1e-9)
}

func TestBuild_OutputGeometryMatchesClass(t *testing.T) {
	in := midInput(t, 111)
	suit, barrier, err := NewBuilder(Additive).Build(in)
	require.NoError(t, err)
	assert.True(t, suit.SameGeometry(in.Class))
	assert.True(t, barrier.SameGeometry(in.Class))
	assert.False(t, suit.HasNoData)
}

func TestBuild_Barrier(t *testing.T) {
	cases := map[float64]float64{80: 1.0, 50: 0.7, 60: 0, 111: 0, 999: 0}
	for code, want := range cases {
		_, barrier, err := NewBuilder(Additive).Build(midInput(t, code))
		require.NoError(t, err)
		assert.Equal(t, want, barrier.Data[0], "code %v", code)
	}
}

func TestBuild_UnknownClassDefaultsWeight(t *testing.T) {
	in := midInput(t, 255)
	suit, _, err := NewBuilder(FiveVariable).Build(in)
	require.NoError(t, err)
	assert.InDelta(t, 0.3*DefaultClassWeight+0.3+0.4*0.475, suit.Data[0], 1e-9)
}

func TestBuild_HabitatPreferenceMultiplies(t *testing.T) {
	in := midInput(t, 121) // open canopy, 0.7
	in.Species.HabitatPreferences = map[species.Habitat]float64{species.HabitatOpenCanopy: 0.5}
	suit, _, err := NewBuilder(FiveVariable).Build(in)
	require.NoError(t, err)
	assert.InDelta(t, 0.3*0.35+0.3+0.4*0.475, suit.Data[0], 1e-9)
}

func TestBuild_AltitudeTolerance(t *testing.T) {
	in := midInput(t, 111)
	in.Species.AltitudeTolerance = &species.Range{Min: 0, Max: 1000}

	in.Elevation = filled(t, 1, 1, 1500)
	suit, _, err := NewBuilder(FiveVariable).Build(in)
	require.NoError(t, err)
	assert.InDelta(t, 0.27+0.4*0.475, suit.Data[0], 1e-9, "outside tolerance")

	in.Elevation = filled(t, 1, 1, 500)
	suit, _, err = NewBuilder(FiveVariable).Build(in)
	require.NoError(t, err)
	assert.InDelta(t, 0.27+0.3+0.4*0.475, suit.Data[0], 1e-9, "at tolerance midpoint")
}

func TestBuild_ElevationTriangle(t *testing.T) {
	in := midInput(t, 111)
	in.Elevation = filled(t, 1, 1, 750) // quarter of the default range
	suit, _, err := NewBuilder(FiveVariable).Build(in)
	require.NoError(t, err)
	assert.InDelta(t, 0.27+0.3*0.5+0.4*0.475, suit.Data[0], 1e-9)
}

func TestBuild_ClimateToleranceZeroesAndDropsRangeTerm(t *testing.T) {
	in := midInput(t, 111)
	in.Species.ClimateTolerance = map[string]species.Range{species.Bio1: {Min: 20, Max: 30}}
	suit, _, err := NewBuilder(Additive).Build(in)
	require.NoError(t, err)
	assert.InDelta(t, 0.27+0.3+0.4*(0.475-0.125), suit.Data[0], 1e-9)
}

func TestBuild_NoDataPixelsScoreZero(t *testing.T) {
	in := midInput(t, 80)
	in.Elevation.HasNoData, in.Elevation.NoData = true, -32768
	in.Elevation.Data[0] = -32768
	suit, barrier, err := NewBuilder(Additive).Build(in)
	require.NoError(t, err)
	assert.Equal(t, 0.0, suit.Data[0])
	assert.Equal(t, 0.0, barrier.Data[0])
}

func TestBuild_MissingLayers(t *testing.T) {
	for _, name := range species.ClimateVariables {
		in := midInput(t, 111)
		delete(in.Climate, name)
		_, _, err := NewBuilder(Additive).Build(in)
		require.True(t, errors.IsCode(err, errors.CodeMissingLayer), name)
		var ae *errors.AppError
		require.ErrorAs(t, err, &ae)
		assert.Equal(t, "layer="+name, ae.Detail)
	}

	in := midInput(t, 111)
	in.Class = nil
	_, _, err := NewBuilder(Additive).Build(in)
	assert.True(t, errors.IsCode(err, errors.CodeMissingLayer))

	in = midInput(t, 111)
	in.Elevation = nil
	_, _, err = NewBuilder(Additive).Build(in)
	assert.True(t, errors.IsCode(err, errors.CodeMissingLayer))
}

func TestBuild_Misaligned(t *testing.T) {
	in := midInput(t, 111)
	in.Climate[species.Bio12] = filled(t, 2, 1, 1500)
	_, _, err := NewBuilder(Additive).Build(in)
	assert.True(t, errors.IsCode(err, errors.CodeAlignmentError))
}

func TestBuild_InvalidSpecies(t *testing.T) {
	in := midInput(t, 111)
	in.Species.GrowthRate = -1
	_, _, err := NewBuilder(Additive).Build(in)
	assert.True(t, errors.IsCode(err, errors.CodeInvalidInput))

	in.Species = nil
	_, _, err = NewBuilder(Additive).Build(in)
	assert.True(t, errors.IsCode(err, errors.CodeInvalidInput))
}

func TestBuild_ClippingInvariant(t *testing.T) {
	const w, h = 16, 16
	rng := rand.New(rand.NewSource(3))
	codes := []float64{111, 112, 121, 20, 30, 40, 50, 60, 70, 80, 90, 100, 7, 250}

	random := func(lo, hi float64) *raster.Grid {
		g := filled(t, w, h, 0)
		for i := range g.Data {
			g.Data[i] = lo + rng.Float64()*(hi-lo)
		}
		return g
	}
	class := filled(t, w, h, 0)
	for i := range class.Data {
		class.Data[i] = codes[rng.Intn(len(codes))]
	}

	sp := testSpecies()
	sp.HabitatPreferences = map[species.Habitat]float64{species.HabitatClosedCanopy: 5, species.HabitatShrub: 0}
	for _, variant := range []BioclimVariant{Additive, FiveVariable} {
		in := Input{
			Class:     class,
			Elevation: random(-500, 6000),
			Climate: map[string]*raster.Grid{
				species.Bio1:  random(-60, 80),
				species.Bio5:  random(-30, 90),
				species.Bio6:  random(-70, 50),
				species.Bio12: random(-100, 9000),
				species.Bio15: random(-10, 300),
			},
			Species: sp,
		}
		suit, barrier, err := NewBuilder(variant).Build(in)
		require.NoError(t, err)
		for i := range suit.Data {
			assert.GreaterOrEqual(t, suit.Data[i], 0.0)
			assert.LessOrEqual(t, suit.Data[i], 1.0)
			assert.GreaterOrEqual(t, barrier.Data[i], 0.0)
			assert.LessOrEqual(t, barrier.Data[i], 1.0)
		}
	}
}

func TestBuild_DoesNotMutateInputs(t *testing.T) {
	in := midInput(t, 111)
	before := in.Climate[species.Bio5].Clone()
	_, _, err := NewBuilder(Additive).Build(in)
	require.NoError(t, err)
	assert.Equal(t, before.Data, in.Climate[species.Bio5].Data)
}

//Personal.AI order the ending
