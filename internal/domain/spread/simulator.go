package spread

import (
	"context"
	stderrors "errors"
	"fmt"
	"math"
	"math/rand"

	"github.com/Jhuly1215/SimulacionInvasores/internal/domain/raster"
	"github.com/Jhuly1215/SimulacionInvasores/internal/domain/region"
	"github.com/Jhuly1215/SimulacionInvasores/internal/domain/species"
	"github.com/Jhuly1215/SimulacionInvasores/pkg/errors"
)

// thresholdFraction of the seed density marks a cell as occupied.
const thresholdFraction = 0.5

// Options are the numerical knobs of a run.
type Options struct {
	PixelSizeMeters float64
	Epsilon         float64
	CapacityScale   float64
	JumpPolicy      JumpPolicy
	MaxJumpAttempts int
	RandomSeed      int64
}

// DefaultOptions returns 100 m pixels, ε = 1e-6, carrying capacity equal to
// suitability and dropped off-grid jumps.
func DefaultOptions() Options {
	return Options{
		PixelSizeMeters: 100,
		Epsilon:         1e-6,
		CapacityScale:   1,
		JumpPolicy:      JumpDrop,
		MaxJumpAttempts: 10,
	}
}

// Validate reports the first invalid option as InvalidInput.
func (o Options) Validate() error {
	switch {
	case !(o.PixelSizeMeters > 0):
		return errors.InvalidInput("pixel size must be positive").WithDetailf("pixel_size_m=%g", o.PixelSizeMeters)
	case !(o.Epsilon > 0):
		return errors.InvalidInput("epsilon must be positive").WithDetailf("epsilon=%g", o.Epsilon)
	case !(o.CapacityScale > 0):
		return errors.InvalidInput("capacity scale must be positive").WithDetailf("capacity_scale=%g", o.CapacityScale)
	case o.JumpPolicy != JumpDrop && o.JumpPolicy != JumpResample:
		return errors.InvalidInput("unknown jump policy").WithDetail("jump_policy=" + string(o.JumpPolicy))
	case o.JumpPolicy == JumpResample && o.MaxJumpAttempts < 1:
		return errors.InvalidInput("max jump attempts must be ≥ 1").WithDetailf("max_jump_attempts=%d", o.MaxJumpAttempts)
	}
	return nil
}

// Input is one run's read-only inputs.  Region and Seed are in the grid CRS;
// Seed, when set, overrides the region centroid.
type Input struct {
	Suitability *raster.Grid
	Barrier     *raster.Grid
	Region      *region.Polygon
	Seed        *region.Point
	Species     *species.Params
}

// Pixel addresses one cell.
type Pixel struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// State is the density / occupancy pair at one point in time.
type State struct {
	Density   *raster.Grid
	Occupancy *raster.Grid
	Origin    region.Point
	Seed      Pixel
	Seeded    bool
}

// Step is emitted once per advanced timestep.  Occupancy is owned by the
// receiver; Density is only valid for the duration of the callback.
type Step struct {
	Index        int
	Occupancy    *raster.Grid
	Density      *raster.Grid
	Stats        StepStats
	JumpsLanded  int
	JumpsDropped int
}

// Summary describes a finished run.
type Summary struct {
	Steps        int       `json:"steps"`
	Years        float64   `json:"years"`
	Seed         Pixel     `json:"seed"`
	Seeded       bool      `json:"seeded"`
	Final        StepStats `json:"final"`
	PeakOccupied int       `json:"peak_occupied"`
	JumpsLanded  int       `json:"jumps_landed"`
	JumpsDropped int       `json:"jumps_dropped"`
}

// Simulator runs the growth / dispersal / jump model.  It keeps no per-run
// state and may be shared between goroutines.
type Simulator struct {
	opts Options
}

// NewSimulator validates opts.
func NewSimulator(opts Options) (*Simulator, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &Simulator{opts: opts}, nil
}

// Options returns the simulator's options.
func (s *Simulator) Options() Options { return s.opts }

// Init validates in and returns the seeded state S₀.  A seed outside the grid
// leaves the field empty without error.
func (s *Simulator) Init(in Input) (*State, error) {
	if err := in.Species.Validate(); err != nil {
		return nil, err
	}
	if in.Suitability == nil {
		return nil, errors.MissingLayer("suitability")
	}
	if in.Barrier == nil {
		return nil, errors.MissingLayer("barrier")
	}
	if err := raster.CheckAligned(in.Suitability, in.Barrier); err != nil {
		return nil, err
	}

	var origin region.Point
	switch {
	case in.Seed != nil:
		origin = *in.Seed
	case in.Region != nil:
		if !raster.SameCRS(in.Region.CRS, in.Suitability.CRS) {
			return nil, errors.Alignment("region and grid CRS differ").
				WithDetailf("region=%s grid=%s", in.Region.CRS, in.Suitability.CRS)
		}
		origin = in.Region.Centroid()
	default:
		return nil, errors.InvalidInput("a region or seed point is required")
	}

	st := &State{
		Density:   in.Suitability.Like(),
		Occupancy: in.Suitability.Like(),
		Origin:    origin,
	}
	row, col := in.Suitability.Transform.PixelOf(origin.X, origin.Y)
	st.Seed = Pixel{Row: row, Col: col}
	if in.Suitability.InBounds(row, col) {
		st.Seeded = true
		st.Density.Set(row, col, in.Species.InitialPopulation)
		st.Occupancy.Set(row, col, 1)
	}
	return st, nil
}

// Run advances T steps, calling emit after each.  Cancellation is checked
// before every step; an error at step t leaves steps 0..t-1 emitted and
// counted in the summary.
func (s *Simulator) Run(ctx context.Context, in Input, emit func(Step) error) (*Summary, error) {
	st, err := s.Init(in)
	if err != nil {
		return nil, err
	}
	sp := in.Species
	sum := &Summary{Years: sp.TotalYears(), Seed: st.Seed, Seeded: st.Seeded}
	if sp.Timesteps == 0 {
		return sum, nil
	}

	r, err := s.newRun(in, st)
	if err != nil {
		return nil, err
	}
	for t := 0; t < sp.Timesteps; t++ {
		if err := ctx.Err(); err != nil {
			return sum, abortError(err, t)
		}
		landed, dropped, err := r.advance()
		if err != nil {
			return sum, errors.Wrap(err, errors.CodeUnknown, fmt.Sprintf("step %d", t))
		}
		occ := r.occupancy()
		stats := computeStats(r.grid, occ.Data, r.cur)

		if emit != nil {
			density := r.grid.Like()
			density.Data = r.cur
			step := Step{
				Index:        t,
				Occupancy:    occ,
				Density:      density,
				Stats:        stats,
				JumpsLanded:  landed,
				JumpsDropped: dropped,
			}
			if err := emit(step); err != nil {
				return sum, err
			}
		}
		sum.Steps = t + 1
		sum.Final = stats
		sum.PeakOccupied = max(sum.PeakOccupied, stats.Occupied)
		sum.JumpsLanded += landed
		sum.JumpsDropped += dropped
	}
	return sum, nil
}

// Simulate collects the T occupancy grids of a run.
func (s *Simulator) Simulate(ctx context.Context, in Input) ([]*raster.Grid, error) {
	var out []*raster.Grid
	_, err := s.Run(ctx, in, func(st Step) error {
		out = append(out, st.Occupancy)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func abortError(err error, t int) error {
	code := errors.CodeInternal
	if stderrors.Is(err, context.DeadlineExceeded) {
		code = errors.ErrCodeTimeout
	}
	return errors.Wrap(err, code, fmt.Sprintf("simulation aborted before step %d", t))
}

// run holds the double-buffered density field of one simulation.
type run struct {
	grid      *raster.Grid
	suit      []float64
	barrier   []float64
	capacity  []float64
	kernel    *Kernel
	sp        *species.Params
	eps       float64
	threshold float64
	jumps     *jumper

	cur, next, spread []float64
}

func (s *Simulator) newRun(in Input, st *State) (*run, error) {
	sp := in.Species
	k, err := DispersalKernel(sp.DispersalMeters, s.opts.PixelSizeMeters, sp.Mobility)
	if err != nil {
		return nil, err
	}
	g := in.Suitability
	n := g.Len()
	r := &run{
		grid:      g.Like(),
		suit:      in.Suitability.Data,
		barrier:   in.Barrier.Data,
		capacity:  make([]float64, n),
		kernel:    k,
		sp:        sp,
		eps:       s.opts.Epsilon,
		threshold: sp.InitialPopulation * thresholdFraction,
		cur:       st.Density.Data,
		next:      make([]float64, n),
		spread:    make([]float64, n),
	}
	for i, v := range r.suit {
		r.capacity[i] = v * s.opts.CapacityScale
	}
	if sp.Mobility.CanFly() && sp.JumpProbability > 0 && sp.MaxDispersalKm > 0 {
		r.jumps = &jumper{
			origin:     st.Origin,
			maxMeters:  sp.MaxDispersalKm * 1000,
			geographic: raster.IsGeographic(g.CRS),
			transform:  g.Transform,
			width:      g.Width,
			height:     g.Height,
			policy:     s.opts.JumpPolicy,
			attempts:   s.opts.MaxJumpAttempts,
			rng:        rand.New(rand.NewSource(s.opts.RandomSeed)),
		}
	}
	return r, nil
}

// advance computes the next density field from cur and swaps buffers.
func (r *run) advance() (landed, dropped int, err error) {
	rate := r.sp.GrowthRate * r.sp.Dt
	for i, d := range r.cur {
		if r.suit[i] <= 0 || d == 0 {
			r.next[i] = d
			continue
		}
		g := d + rate*d*(1-d/(r.capacity[i]+r.eps))
		r.next[i] = math.Max(0, g)
	}

	if err := Convolve(r.spread, r.next, r.grid.Width, r.grid.Height, r.kernel); err != nil {
		return 0, 0, err
	}
	for i, v := range r.spread {
		if v == 0 {
			continue
		}
		r.next[i] += v * r.suit[i] * (1 - r.barrier[i])
	}

	if r.jumps != nil && r.jumps.rng.Float64() < r.sp.JumpProbability {
		if row, col, ok := r.jumps.target(); ok {
			r.next[r.grid.Index(row, col)] += r.sp.InitialPopulation
			landed++
		} else {
			dropped++
		}
	}

	r.cur, r.next = r.next, r.cur
	return landed, dropped, nil
}

// occupancy thresholds cur into a fresh grid.
func (r *run) occupancy() *raster.Grid {
	occ := r.grid.Like()
	for i, d := range r.cur {
		if d > r.threshold {
			occ.Data[i] = 1
		}
	}
	return occ
}

//Personal.AI order the ending
