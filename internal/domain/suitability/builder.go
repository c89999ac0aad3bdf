package suitability

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/Jhuly1215/SimulacionInvasores/internal/domain/raster"
	"github.com/Jhuly1215/SimulacionInvasores/internal/domain/species"
	"github.com/Jhuly1215/SimulacionInvasores/pkg/errors"
)

// Logical layer names consumed by the builder.
const (
	LayerClass     = "landcover"
	LayerElevation = "elevation"
)

// BioclimVariant selects whether the warm/cold-month range term is added on
// top of the five weighted bioclimatic variables.
type BioclimVariant string

const (
	// Additive adds 0.05 × normalised (bio5 − bio6) when the species carries
	// no climate tolerance.
	Additive BioclimVariant = "additive"
	// FiveVariable uses the five weighted variables only.
	FiveVariable BioclimVariant = "five-variable"
)

// ParseBioclimVariant parses a variant name; empty defaults to Additive.
func ParseBioclimVariant(s string) (BioclimVariant, error) {
	switch v := BioclimVariant(s); v {
	case "":
		return Additive, nil
	case Additive, FiveVariable:
		return v, nil
	default:
		return "", errors.InvalidInput("unknown bioclim variant: " + s)
	}
}

// Composite weights.
const (
	classWeight     = 0.3
	elevationWeight = 0.3
	bioclimWeight   = 0.4
	rangeWeight     = 0.05
)

// climateScale holds the fixed normalisation range and weight of one
// bioclimatic variable.
type climateScale struct {
	name     string
	min, max float64
	weight   float64
}

var climateScales = []climateScale{
	{species.Bio1, -10, 45, 0.25},
	{species.Bio5, 0, 55, 0.20},
	{species.Bio6, -20, 30, 0.20},
	{species.Bio12, 0, 3000, 0.25},
	{species.Bio15, 0, 100, 0.05},
}

// temperatureRangeSpan is max(bio5) − min(bio6) over the fixed ranges.
const temperatureRangeSpan = 55.0 - (-20.0)

// DefaultAltitude is used when the species has no altitude tolerance.
var DefaultAltitude = species.Range{Min: 0, Max: 3000}

// Input bundles the aligned layers for one run.
type Input struct {
	Class     *raster.Grid
	Elevation *raster.Grid
	Climate   map[string]*raster.Grid
	Species   *species.Params
}

// Builder computes suitability and barrier grids.  It holds no state beyond
// its options and is safe for concurrent use.
type Builder struct {
	variant BioclimVariant
}

// NewBuilder returns a Builder using the given bioclim variant; an invalid
// or empty variant falls back to Additive.
func NewBuilder(variant BioclimVariant) *Builder {
	if variant != FiveVariable {
		variant = Additive
	}
	return &Builder{variant: variant}
}

// Variant reports the configured bioclim variant.
func (b *Builder) Variant() BioclimVariant { return b.variant }

// Build scores every pixel.  Both outputs share the class grid's geometry
// and hold values in [0, 1].  Pixels where any input is nodata score 0
// suitability and 0 barrier.
func (b *Builder) Build(in Input) (suit, barrier *raster.Grid, err error) {
	if err := in.Species.Validate(); err != nil {
		return nil, nil, err
	}
	if in.Class == nil {
		return nil, nil, errors.MissingLayer(LayerClass)
	}
	if in.Elevation == nil {
		return nil, nil, errors.MissingLayer(LayerElevation)
	}
	layers := []*raster.Grid{in.Class, in.Elevation}
	climate := make([]*raster.Grid, len(climateScales))
	for i, cs := range climateScales {
		g := in.Climate[cs.name]
		if g == nil {
			return nil, nil, errors.MissingLayer(cs.name)
		}
		climate[i] = g
		layers = append(layers, g)
	}
	if err := raster.CheckAligned(layers...); err != nil {
		return nil, nil, err
	}

	n := in.Class.Len()
	sp := in.Species

	sClass := make([]float64, n)
	barrierData := make([]float64, n)
	for i, v := range in.Class.Data {
		sClass[i] = ClassWeight(v, sp)
		barrierData[i] = ClassBarrier(v)
	}

	sEl := elevationScore(in.Elevation.Data, sp.AltitudeTolerance)

	sBio := make([]float64, n)
	norm := make([]float64, n)
	for i, cs := range climateScales {
		normalise(norm, climate[i].Data, cs.min, cs.max)
		if r, ok := sp.ClimateTolerance[cs.name]; ok {
			applyTolerance(norm, climate[i].Data, r)
		}
		floats.AddScaled(sBio, cs.weight, norm)
	}
	if b.variant == Additive && len(sp.ClimateTolerance) == 0 {
		floats.SubTo(norm, climate[1].Data, climate[2].Data)
		floats.Scale(1/temperatureRangeSpan, norm)
		clip01(norm)
		floats.AddScaled(sBio, rangeWeight, norm)
	}

	suitData := make([]float64, n)
	floats.AddScaled(suitData, classWeight, sClass)
	floats.AddScaled(suitData, elevationWeight, sEl)
	floats.AddScaled(suitData, bioclimWeight, sBio)
	clip01(suitData)
	clip01(barrierData)

	for i := 0; i < n; i++ {
		if anyNoData(layers, i) {
			suitData[i] = 0
			barrierData[i] = 0
		}
	}

	suit = in.Class.Like()
	suit.Data = suitData
	barrier = in.Class.Like()
	barrier.Data = barrierData
	return suit, barrier, nil
}

// elevationScore is triangular over the altitude range, peaking at its
// midpoint.  With an explicit tolerance, pixels outside it score 0.
func elevationScore(elev []float64, tol *species.Range) []float64 {
	r := DefaultAltitude
	if tol != nil {
		r = *tol
	}
	mid := 0.5 * (r.Min + r.Max)
	half := 0.5 * (r.Max - r.Min)

	out := make([]float64, len(elev))
	for i, e := range elev {
		switch {
		case tol != nil && !r.Contains(e):
			out[i] = 0
		case half == 0:
			if e == mid {
				out[i] = 1
			}
		default:
			out[i] = 1 - math.Abs(e-mid)/half
		}
	}
	clip01(out)
	return out
}

// normalise writes clip((src − lo)/(hi − lo), 0, 1) into dst.
func normalise(dst, src []float64, lo, hi float64) {
	floats.AddConst(-lo, floats.ScaleTo(dst, 1, src))
	floats.Scale(1/(hi-lo), dst)
	clip01(dst)
}

func applyTolerance(dst, src []float64, r species.Range) {
	for i, v := range src {
		if !r.Contains(v) {
			dst[i] = 0
		}
	}
}

// clip01 clamps in place; NaN becomes 0.
func clip01(s []float64) {
	for i, v := range s {
		switch {
		case math.IsNaN(v) || v < 0:
			s[i] = 0
		case v > 1:
			s[i] = 1
		}
	}
}

func anyNoData(layers []*raster.Grid, i int) bool {
	for _, g := range layers {
		if g.IsNoData(g.Data[i]) {
			return true
		}
	}
	return false
}

//Personal.AI order the ending
