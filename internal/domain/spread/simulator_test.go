package spread

import (
	"context"
	stderrors "errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Jhuly1215/SimulacionInvasores/internal/domain/raster"
	"github.com/Jhuly1215/SimulacionInvasores/internal/domain/region"
	"github.com/Jhuly1215/SimulacionInvasores/internal/domain/species"
	"github.com/Jhuly1215/SimulacionInvasores/pkg/errors"
)

const utm = "EPSG:32633"

func uniform(t *testing.T, w, h int, v float64) *raster.Grid {
	t.Helper()
	g, err := raster.NewFilled(w, h, raster.NorthUp(500000, 4000000+float64(h)*100, 100, 100), utm, v)
	require.NoError(t, err)
	return g
}

func centreOf(g *raster.Grid, row, col int) *region.Point {
	x, y := g.Transform.PixelCenter(row, col)
	return &region.Point{X: x, Y: y}
}

func scenarioSpecies(T int) *species.Params {
	return &species.Params{
		Name:              "scenario",
		GrowthRate:        0.1,
		DispersalMeters:   100,
		InitialPopulation: 0.05,
		Timesteps:         T,
		Dt:                1,
		Mobility:          species.Ground,
	}
}

func newSim(t *testing.T, mutate ...func(*Options)) *Simulator {
	t.Helper()
	opts := DefaultOptions()
	for _, m := range mutate {
		m(&opts)
	}
	s, err := NewSimulator(opts)
	require.NoError(t, err)
	return s
}

func collect(t *testing.T, s *Simulator, in Input) ([]Step, *Summary) {
	t.Helper()
	var steps []Step
	sum, err := s.Run(context.Background(), in, func(st Step) error {
		st.Density = st.Density.Clone()
		steps = append(steps, st)
		return nil
	})
	require.NoError(t, err)
	return steps, sum
}

func TestOptions_Validate(t *testing.T) {
	assert.NoError(t, DefaultOptions().Validate())

	bad := []func(*Options){
		func(o *Options) { o.PixelSizeMeters = 0 },
		func(o *Options) { o.Epsilon = -1 },
		func(o *Options) { o.CapacityScale = 0 },
		func(o *Options) { o.JumpPolicy = "retry" },
		func(o *Options) { o.JumpPolicy, o.MaxJumpAttempts = JumpResample, 0 },
	}
	for i, m := range bad {
		o := DefaultOptions()
		m(&o)
		_, err := NewSimulator(o)
		assert.True(t, errors.IsCode(err, errors.CodeInvalidInput), "case %d", i)
	}
}

func TestParseJumpPolicy(t *testing.T) {
	p, err := ParseJumpPolicy("")
	require.NoError(t, err)
	assert.Equal(t, JumpDrop, p)
	p, err = ParseJumpPolicy("Resample")
	require.NoError(t, err)
	assert.Equal(t, JumpResample, p)
	_, err = ParseJumpPolicy("bounce")
	assert.True(t, errors.IsCode(err, errors.CodeInvalidInput))
}

func TestInit_SeedsCentroidPixel(t *testing.T) {
	suit := uniform(t, 10, 10, 0.8)
	x0, y0 := suit.Transform.Apply(3, 5)
	poly, err := region.New([]region.Point{
		{X: x0, Y: y0}, {X: x0 + 100, Y: y0}, {X: x0 + 100, Y: y0 - 100}, {X: x0, Y: y0 - 100},
	}, utm)
	require.NoError(t, err)

	st, err := newSim(t).Init(Input{Suitability: suit, Barrier: uniform(t, 10, 10, 0), Region: poly, Species: scenarioSpecies(5)})
	require.NoError(t, err)
	assert.True(t, st.Seeded)
	assert.Equal(t, Pixel{Row: 5, Col: 3}, st.Seed)
	assert.Equal(t, 0.05, st.Density.At(5, 3))
	assert.Equal(t, 1.0, st.Occupancy.At(5, 3))
	assert.Equal(t, 0.05, st.Density.ComputeStats().Sum)
}

func TestInit_SeedOutsideGrid(t *testing.T) {
	suit := uniform(t, 4, 4, 0.8)
	st, err := newSim(t).Init(Input{
		Suitability: suit,
		Barrier:     uniform(t, 4, 4, 0),
		Seed:        &region.Point{X: 0, Y: 0},
		Species:     scenarioSpecies(3),
	})
	require.NoError(t, err)
	assert.False(t, st.Seeded)
	assert.Equal(t, 0, st.Occupancy.ComputeStats().NonZero)

	steps, sum := collect(t, newSim(t), Input{
		Suitability: suit, Barrier: uniform(t, 4, 4, 0), Seed: &region.Point{X: 0, Y: 0}, Species: scenarioSpecies(3),
	})
	require.Len(t, steps, 3)
	for _, s := range steps {
		assert.Equal(t, 0, s.Stats.Occupied)
	}
	assert.False(t, sum.Seeded)
}

func TestInit_Errors(t *testing.T) {
	suit := uniform(t, 4, 4, 0.8)
	bar := uniform(t, 4, 4, 0)
	sim := newSim(t)
	seed := centreOf(suit, 1, 1)

	_, err := sim.Init(Input{Suitability: suit, Barrier: bar, Species: scenarioSpecies(1)})
	assert.True(t, errors.IsCode(err, errors.CodeInvalidInput), "no seed")

	_, err = sim.Init(Input{Suitability: suit, Barrier: uniform(t, 5, 4, 0), Seed: seed, Species: scenarioSpecies(1)})
	assert.True(t, errors.IsCode(err, errors.CodeAlignmentError), "misaligned")

	_, err = sim.Init(Input{Barrier: bar, Seed: seed, Species: scenarioSpecies(1)})
	assert.True(t, errors.IsCode(err, errors.CodeMissingLayer), "no suitability")

	bad := scenarioSpecies(1)
	bad.DispersalMeters = 0
	_, err = sim.Init(Input{Suitability: suit, Barrier: bar, Seed: seed, Species: bad})
	assert.True(t, errors.IsCode(err, errors.CodeInvalidInput), "bad species")

	geo, err := region.New([]region.Point{{X: 14, Y: 36}, {X: 14.1, Y: 36}, {X: 14.1, Y: 36.1}}, raster.EPSG4326)
	require.NoError(t, err)
	_, err = sim.Init(Input{Suitability: suit, Barrier: bar, Region: geo, Species: scenarioSpecies(1)})
	assert.True(t, errors.IsCode(err, errors.CodeAlignmentError), "region CRS")
}

func TestRun_ZeroTimestepsIsEmpty(t *testing.T) {
	suit := uniform(t, 5, 5, 0.8)
	grids, err := newSim(t).Simulate(context.Background(), Input{
		Suitability: suit, Barrier: uniform(t, 5, 5, 0), Seed: centreOf(suit, 2, 2), Species: scenarioSpecies(0),
	})
	require.NoError(t, err)
	assert.Empty(t, grids)
}

func TestRun_ScenarioA_SpreadGrows(t *testing.T) {
	suit := uniform(t, 21, 21, 0.8)
	in := Input{Suitability: suit, Barrier: uniform(t, 21, 21, 0), Seed: centreOf(suit, 10, 10), Species: scenarioSpecies(5)}
	steps, sum := collect(t, newSim(t), in)
	require.Len(t, steps, 5)

	// Counted against the empty field before seeding.
	increases, prev := 0, 0
	for _, s := range steps {
		if s.Stats.Occupied > prev {
			increases++
		}
		assert.GreaterOrEqual(t, s.Stats.Occupied, prev)
		prev = s.Stats.Occupied
	}
	assert.GreaterOrEqual(t, increases, 3)
	assert.Greater(t, sum.Final.Occupied, 1)
	assert.Equal(t, 5, sum.Steps)
	assert.Equal(t, 5.0, sum.Years)
	assert.Equal(t, 1, sum.Final.Patches)
	assert.InDelta(t, float64(sum.Final.Occupied)*0.01, sum.Final.AreaKm2, 1e-9)
}

func TestRun_ScenarioB_FullBarrier(t *testing.T) {
	suit := uniform(t, 11, 11, 0.8)
	bar := uniform(t, 11, 11, 1)
	bar.Set(5, 5, 0)
	steps, _ := collect(t, newSim(t), Input{Suitability: suit, Barrier: bar, Seed: centreOf(suit, 5, 5), Species: scenarioSpecies(5)})
	require.Len(t, steps, 5)
	for _, s := range steps {
		assert.Equal(t, 1, s.Stats.Occupied, "step %d", s.Index)
		assert.Equal(t, 1.0, s.Occupancy.At(5, 5))
	}
}

func TestRun_ScenarioC_NoGrowthNoSpread(t *testing.T) {
	suit := uniform(t, 9, 9, 0)
	steps, _ := collect(t, newSim(t), Input{Suitability: suit, Barrier: uniform(t, 9, 9, 0), Seed: centreOf(suit, 4, 4), Species: scenarioSpecies(5)})
	require.Len(t, steps, 5)
	for _, s := range steps {
		for i, d := range s.Density.Data {
			if i == suit.Index(4, 4) {
				assert.Equal(t, 0.05, d)
				continue
			}
			assert.Equal(t, 0.0, d)
		}
		assert.Equal(t, 1, s.Stats.Occupied)
	}
}

func TestRun_ZeroSuitabilityCellsNeverGrow(t *testing.T) {
	suit := uniform(t, 12, 12, 0.9)
	rng := rand.New(rand.NewSource(7))
	zero := map[int]bool{}
	for len(zero) < 30 {
		i := rng.Intn(suit.Len())
		if i == suit.Index(6, 6) {
			continue
		}
		zero[i] = true
		suit.Data[i] = 0
	}
	sp := scenarioSpecies(8)
	sp.GrowthRate = 0.6
	steps, _ := collect(t, newSim(t), Input{Suitability: suit, Barrier: uniform(t, 12, 12, 0), Seed: centreOf(suit, 6, 6), Species: sp})
	for _, s := range steps {
		for i := range zero {
			assert.Equal(t, 0.0, s.Density.Data[i])
		}
	}
}

func TestRun_OccupancyMonotone(t *testing.T) {
	const w, h = 15, 15
	suit := uniform(t, w, h, 0)
	rng := rand.New(rand.NewSource(11))
	for i := range suit.Data {
		suit.Data[i] = 0.3 + 0.7*rng.Float64()
	}
	sp := scenarioSpecies(12)
	sp.GrowthRate = 0.2
	sp.DispersalMeters = 150

	steps, _ := collect(t, newSim(t), Input{Suitability: suit, Barrier: uniform(t, w, h, 0), Seed: centreOf(suit, 7, 7), Species: sp})
	require.Len(t, steps, 12)
	for i := 1; i < len(steps); i++ {
		for j, v := range steps[i-1].Occupancy.Data {
			if v == 1 {
				assert.Equal(t, 1.0, steps[i].Occupancy.Data[j], "cell %d lost at step %d", j, i)
			}
		}
		for _, d := range steps[i].Density.Data {
			assert.GreaterOrEqual(t, d, 0.0)
		}
	}
}

func TestRun_DensityNonNegativeUnderOvershoot(t *testing.T) {
	suit := uniform(t, 5, 5, 0.01)
	sp := scenarioSpecies(4)
	sp.GrowthRate = 5
	sp.InitialPopulation = 1
	steps, _ := collect(t, newSim(t), Input{Suitability: suit, Barrier: uniform(t, 5, 5, 0), Seed: centreOf(suit, 2, 2), Species: sp})
	for _, s := range steps {
		for _, d := range s.Density.Data {
			assert.GreaterOrEqual(t, d, 0.0)
		}
	}
}

func TestRun_EmitErrorStopsRun(t *testing.T) {
	suit := uniform(t, 5, 5, 0.8)
	boom := stderrors.New("sink down")
	calls := 0
	sum, err := newSim(t).Run(context.Background(),
		Input{Suitability: suit, Barrier: uniform(t, 5, 5, 0), Seed: centreOf(suit, 2, 2), Species: scenarioSpecies(5)},
		func(st Step) error {
			calls++
			if st.Index == 1 {
				return boom
			}
			return nil
		})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 2, calls)
	require.NotNil(t, sum)
	assert.Equal(t, 1, sum.Steps)
}

func TestRun_Cancellation(t *testing.T) {
	suit := uniform(t, 5, 5, 0.8)
	in := Input{Suitability: suit, Barrier: uniform(t, 5, 5, 0), Seed: centreOf(suit, 2, 2), Species: scenarioSpecies(6)}

	ctx, cancel := context.WithCancel(context.Background())
	var emitted []int
	sum, err := newSim(t).Run(ctx, in, func(st Step) error {
		emitted = append(emitted, st.Index)
		if st.Index == 2 {
			cancel()
		}
		return nil
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, []int{0, 1, 2}, emitted)
	assert.Equal(t, 3, sum.Steps)

	expired, cancel2 := context.WithTimeout(context.Background(), 0)
	defer cancel2()
	<-expired.Done()
	_, err = newSim(t).Simulate(expired, in)
	assert.True(t, errors.IsCode(err, errors.ErrCodeTimeout))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func flightSpecies(T int, maxKm float64) *species.Params {
	sp := scenarioSpecies(T)
	sp.Mobility = species.Flight
	sp.JumpProbability = 1
	sp.MaxDispersalKm = maxKm
	return sp
}

func TestRun_JumpsDropOffGrid(t *testing.T) {
	suit := uniform(t, 21, 21, 0.8)
	in := Input{Suitability: suit, Barrier: uniform(t, 21, 21, 0), Seed: centreOf(suit, 10, 10), Species: flightSpecies(20, 5)}
	_, sum := collect(t, newSim(t, func(o *Options) { o.RandomSeed = 42 }), in)
	assert.Equal(t, 20, sum.JumpsLanded+sum.JumpsDropped)
	assert.Greater(t, sum.JumpsDropped, 0)
}

func TestRun_JumpsResample(t *testing.T) {
	suit := uniform(t, 21, 21, 0.8)
	in := Input{Suitability: suit, Barrier: uniform(t, 21, 21, 0), Seed: centreOf(suit, 10, 10), Species: flightSpecies(10, 5)}
	sim := newSim(t, func(o *Options) {
		o.RandomSeed = 42
		o.JumpPolicy = JumpResample
		o.MaxJumpAttempts = 200
	})
	_, sum := collect(t, sim, in)
	assert.Equal(t, 10, sum.JumpsLanded)
	assert.Equal(t, 0, sum.JumpsDropped)
}

func TestRun_JumpsReproducibleWithSeed(t *testing.T) {
	suit := uniform(t, 31, 31, 0.8)
	in := Input{Suitability: suit, Barrier: uniform(t, 31, 31, 0), Seed: centreOf(suit, 15, 15), Species: flightSpecies(8, 2)}
	seeded := func(o *Options) { o.RandomSeed = 99 }

	a, _ := newSim(t, seeded).Simulate(context.Background(), in)
	b, _ := newSim(t, seeded).Simulate(context.Background(), in)
	require.Len(t, a, 8)
	for i := range a {
		assert.Equal(t, a[i].Data, b[i].Data)
	}
}

func TestRun_GroundSpeciesNeverJump(t *testing.T) {
	suit := uniform(t, 11, 11, 0.8)
	sp := flightSpecies(5, 1)
	sp.Mobility = species.Ground
	_, sum := collect(t, newSim(t), Input{Suitability: suit, Barrier: uniform(t, 11, 11, 0), Seed: centreOf(suit, 5, 5), Species: sp})
	assert.Zero(t, sum.JumpsLanded+sum.JumpsDropped)
}

func TestRun_OccupancyGridsAreIndependent(t *testing.T) {
	suit := uniform(t, 7, 7, 0.8)
	grids, err := newSim(t).Simulate(context.Background(), Input{
		Suitability: suit, Barrier: uniform(t, 7, 7, 0), Seed: centreOf(suit, 3, 3), Species: scenarioSpecies(3),
	})
	require.NoError(t, err)
	require.Len(t, grids, 3)
	grids[0].Data[0] = 42
	assert.NotEqual(t, 42.0, grids[1].Data[0])
	for _, g := range grids {
		assert.True(t, g.SameGeometry(suit))
	}
}

//Personal.AI order the ending
