// Package suitability turns aligned land-cover, elevation and bioclimatic
// grids into per-pixel habitat suitability and dispersal barrier scores.
package suitability

import (
	"math"

	"github.com/Jhuly1215/SimulacionInvasores/internal/domain/species"
)

// DefaultClassWeight applies to land-cover codes absent from the table.
const DefaultClassWeight = 0.1

// LandClass describes one Copernicus global land-cover code.
type LandClass struct {
	Code    int
	Weight  float64
	Habitat species.Habitat
	Barrier float64
}

// landClasses is keyed by Copernicus code.
var landClasses = map[int]LandClass{
	111: {111, 0.9, species.HabitatClosedCanopy, 0},
	112: {112, 0.85, species.HabitatClosedCanopy, 0},
	113: {113, 0.8, species.HabitatClosedCanopy, 0},
	114: {114, 0.75, species.HabitatClosedCanopy, 0},
	115: {115, 0.8, species.HabitatClosedCanopy, 0},
	116: {116, 0.5, species.HabitatClosedCanopy, 0},
	121: {121, 0.7, species.HabitatOpenCanopy, 0},
	122: {122, 0.7, species.HabitatOpenCanopy, 0},
	123: {123, 0.65, species.HabitatOpenCanopy, 0},
	124: {124, 0.6, species.HabitatOpenCanopy, 0},
	125: {125, 0.6, species.HabitatOpenCanopy, 0},
	126: {126, 0.5, species.HabitatOpenCanopy, 0},
	20:  {20, 0.4, species.HabitatShrub, 0},
	30:  {30, 0.4, species.HabitatHerbaceous, 0},
	40:  {40, 0.3, species.HabitatCropland, 0},
	50:  {50, 0.0, species.HabitatUrban, 0.7},
	60:  {60, 0.2, species.HabitatHerbaceous, 0}, // bare / sparse vegetation
	70:  {70, 0.1, species.HabitatSnowIce, 0},
	80:  {80, 0.0, species.HabitatWater, 1.0},
	90:  {90, 0.3, species.HabitatWetland, 0},
	100: {100, 0.2, species.HabitatMossLichen, 0},
}

// LookupClass returns the table entry for a (possibly fractional) code
// sample.  ok is false for codes outside the table.
func LookupClass(v float64) (LandClass, bool) {
	c, ok := landClasses[int(math.Round(v))]
	return c, ok
}

// ClassWeight returns the base weight of code v multiplied by the species'
// preference for the code's habitat category.
func ClassWeight(v float64, p *species.Params) float64 {
	c, ok := LookupClass(v)
	if !ok {
		return DefaultClassWeight
	}
	if p == nil {
		return c.Weight
	}
	return c.Weight * p.HabitatMultiplier(c.Habitat)
}

// ClassBarrier returns the dispersal barrier for code v.
func ClassBarrier(v float64) float64 {
	c, ok := LookupClass(v)
	if !ok {
		return 0
	}
	return c.Barrier
}

//Personal.AI order the ending
