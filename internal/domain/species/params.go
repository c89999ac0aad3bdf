// Package species describes the biological traits that drive suitability
// scoring and spread dynamics.
package species

import (
	"math"
	"sort"
	"strings"

	"github.com/Jhuly1215/SimulacionInvasores/pkg/errors"
)

// Mobility gates long-distance dispersal and kernel widening.
type Mobility string

const (
	Ground Mobility = "ground"
	Flight Mobility = "flight"
	Water  Mobility = "water"
)

// IsValid reports whether m is a known mobility.
func (m Mobility) IsValid() bool {
	switch m {
	case Ground, Flight, Water:
		return true
	default:
		return false
	}
}

// CanFly reports whether the species uses the widened kernel and jumps.
func (m Mobility) CanFly() bool { return m == Flight }

// Habitat is a land-cover category that preference multipliers apply to.
type Habitat string

const (
	HabitatClosedCanopy Habitat = "closed-canopy"
	HabitatOpenCanopy   Habitat = "open-canopy"
	HabitatShrub        Habitat = "shrub"
	HabitatHerbaceous   Habitat = "herbaceous"
	HabitatCropland     Habitat = "cropland"
	HabitatUrban        Habitat = "urban"
	HabitatSnowIce      Habitat = "snow-ice"
	HabitatWater        Habitat = "water"
	HabitatWetland      Habitat = "wetland"
	HabitatMossLichen   Habitat = "moss-lichen"
)

var habitats = map[Habitat]struct{}{
	HabitatClosedCanopy: {}, HabitatOpenCanopy: {}, HabitatShrub: {}, HabitatHerbaceous: {},
	HabitatCropland: {}, HabitatUrban: {}, HabitatSnowIce: {},
	HabitatWater: {}, HabitatWetland: {}, HabitatMossLichen: {},
}

// Bioclimatic variable names.
const (
	Bio1  = "bio1"  // annual mean temperature (°C)
	Bio5  = "bio5"  // max temperature of warmest month (°C)
	Bio6  = "bio6"  // min temperature of coldest month (°C)
	Bio12 = "bio12" // annual precipitation (mm)
	Bio15 = "bio15" // precipitation seasonality (CV)
)

// ClimateVariables lists the required bioclimatic layers in scoring order.
var ClimateVariables = []string{Bio1, Bio5, Bio6, Bio12, Bio15}

// Range is a closed interval.
type Range struct {
	Min float64 `yaml:"min" json:"min"`
	Max float64 `yaml:"max" json:"max"`
}

// Contains reports whether v ∈ [Min, Max].
func (r Range) Contains(v float64) bool { return v >= r.Min && v <= r.Max }

// Params holds one species' traits.
type Params struct {
	Name              string  `yaml:"name" json:"name"`
	GrowthRate        float64 `yaml:"growth_rate" json:"growth_rate"`               // r, per year
	DispersalMeters   float64 `yaml:"dispersal_m" json:"dispersal_m"`               // σ
	InitialPopulation float64 `yaml:"initial_population" json:"initial_population"` // p0
	Timesteps         int     `yaml:"timesteps" json:"timesteps"`
	Dt                float64 `yaml:"dt" json:"dt"` // years per step

	Mobility        Mobility `yaml:"mobility" json:"mobility"`
	JumpProbability float64  `yaml:"jump_probability" json:"jump_probability"`
	MaxDispersalKm  float64  `yaml:"max_dispersal_km" json:"max_dispersal_km"`

	HabitatPreferences map[Habitat]float64 `yaml:"habitat_preferences,omitempty" json:"habitat_preferences,omitempty"`
	ClimateTolerance   map[string]Range    `yaml:"climate_tolerance,omitempty" json:"climate_tolerance,omitempty"`
	AltitudeTolerance  *Range              `yaml:"altitude_tolerance,omitempty" json:"altitude_tolerance,omitempty"`
}

// ApplyDefaults fills dt = 1 year and ground mobility when unset.
func (p *Params) ApplyDefaults() {
	if p.Dt == 0 {
		p.Dt = 1
	}
	if p.Mobility == "" {
		p.Mobility = Ground
	}
	p.Mobility = Mobility(strings.ToLower(string(p.Mobility)))
}

// Validate returns an InvalidInput AppError describing the first violated
// constraint.
func (p *Params) Validate() error {
	if p == nil {
		return errors.InvalidInput("species parameters are required")
	}
	positive := []struct {
		name string
		v    float64
	}{
		{"growth_rate", p.GrowthRate},
		{"dispersal_m", p.DispersalMeters},
		{"dt", p.Dt},
	}
	for _, f := range positive {
		if !(f.v > 0) || math.IsInf(f.v, 0) {
			return errors.InvalidInput("species parameter must be positive").WithDetailf("%s=%g", f.name, f.v)
		}
	}
	if !(p.InitialPopulation > 0 && p.InitialPopulation <= 1) {
		return errors.InvalidInput("initial_population must be in (0, 1]").
			WithDetailf("initial_population=%g", p.InitialPopulation)
	}
	if p.Timesteps < 0 {
		return errors.InvalidInput("timesteps must be ≥ 0").WithDetailf("timesteps=%d", p.Timesteps)
	}
	if !p.Mobility.IsValid() {
		return errors.InvalidInput("unknown mobility").WithDetail("mobility=" + string(p.Mobility))
	}
	if !(p.JumpProbability >= 0 && p.JumpProbability <= 1) {
		return errors.InvalidInput("jump_probability must be in [0, 1]").
			WithDetailf("jump_probability=%g", p.JumpProbability)
	}
	if !(p.MaxDispersalKm >= 0) || math.IsInf(p.MaxDispersalKm, 0) {
		return errors.InvalidInput("max_dispersal_km must be ≥ 0").
			WithDetailf("max_dispersal_km=%g", p.MaxDispersalKm)
	}
	for _, h := range sortedHabitats(p.HabitatPreferences) {
		if _, ok := habitats[h]; !ok {
			return errors.InvalidInput("unknown habitat category").WithDetail("habitat=" + string(h))
		}
		if m := p.HabitatPreferences[h]; !(m >= 0) {
			return errors.InvalidInput("habitat multiplier must be ≥ 0").WithDetailf("%s=%g", h, m)
		}
	}
	for _, name := range sortedKeys(p.ClimateTolerance) {
		if !isClimateVariable(name) {
			return errors.InvalidInput("unknown climate variable").WithDetail("variable=" + name)
		}
		r := p.ClimateTolerance[name]
		if !(r.Min <= r.Max) {
			return errors.InvalidInput("climate tolerance min exceeds max").WithDetailf("%s=[%g,%g]", name, r.Min, r.Max)
		}
	}
	if r := p.AltitudeTolerance; r != nil && !(r.Min <= r.Max) {
		return errors.InvalidInput("altitude tolerance min exceeds max").WithDetailf("[%g,%g]", r.Min, r.Max)
	}
	return nil
}

// TotalYears is the simulated span T × dt.
func (p *Params) TotalYears() float64 { return float64(p.Timesteps) * p.Dt }

// HabitatMultiplier returns the preference for h, 1.0 when unset.
func (p *Params) HabitatMultiplier(h Habitat) float64 {
	if m, ok := p.HabitatPreferences[h]; ok {
		return m
	}
	return 1.0
}

func isClimateVariable(name string) bool {
	for _, v := range ClimateVariables {
		if v == name {
			return true
		}
	}
	return false
}

func sortedHabitats(m map[Habitat]float64) []Habitat {
	out := make([]Habitat, 0, len(m))
	for h := range m {
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func sortedKeys(m map[string]Range) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

//Personal.AI order the ending
