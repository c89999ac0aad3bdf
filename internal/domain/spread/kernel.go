// Package spread advances the coupled growth and dispersal model over an
// aligned suitability / barrier pair, one occupancy grid per step.
package spread

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/Jhuly1215/SimulacionInvasores/internal/domain/species"
	"github.com/Jhuly1215/SimulacionInvasores/pkg/errors"
)

// Flight-capable species blend the base kernel with a wider one.
const (
	flightBaseShare = 0.8
	flightWideShare = 0.2
	flightWideScale = 3.0
)

// MaxKernelRadius bounds the support radius in pixels.  A radius of 1500 is
// a 3001×3001 kernel, about 72 MB of weights; wider dispersal needs a coarser
// pixel size.
const MaxKernelRadius = 1500

// Kernel is a square, symmetric, normalised weight matrix of side 2*Radius+1,
// stored row-major.
type Kernel struct {
	Radius  int
	Weights []float64
}

// Size is the side length.
func (k *Kernel) Size() int { return 2*k.Radius + 1 }

// At returns the weight at offset (dy, dx) from the centre.
func (k *Kernel) At(dy, dx int) float64 {
	if dy < -k.Radius || dy > k.Radius || dx < -k.Radius || dx > k.Radius {
		return 0
	}
	return k.Weights[(dy+k.Radius)*k.Size()+dx+k.Radius]
}

// Sum returns the total weight; 1 up to rounding.
func (k *Kernel) Sum() float64 { return floats.Sum(k.Weights) }

// kernelRadius is floor(3σ) clamped to at least one pixel.
func kernelRadius(sigmaPx float64) int {
	r := int(math.Floor(3 * sigmaPx))
	if r < 1 {
		r = 1
	}
	return r
}

// Gaussian returns the isotropic kernel exp(-(dx²+dy²)/(2σ²)) for σ in pixels,
// truncated at floor(3σ) and normalised to sum 1.
func Gaussian(sigmaPx float64) (*Kernel, error) {
	if !(sigmaPx > 0) || math.IsInf(sigmaPx, 0) {
		return nil, errors.InvalidInput("kernel sigma must be positive").WithDetailf("sigma_px=%g", sigmaPx)
	}
	if math.Floor(3*sigmaPx) > MaxKernelRadius {
		return nil, errors.InvalidInput("kernel radius exceeds limit, use a coarser pixel size").
			WithDetailf("sigma_px=%g max_radius=%d", sigmaPx, MaxKernelRadius)
	}
	return gaussianOn(sigmaPx, kernelRadius(sigmaPx)), nil
}

func gaussianOn(sigma float64, radius int) *Kernel {
	k := &Kernel{Radius: radius}
	size := k.Size()
	k.Weights = make([]float64, size*size)
	denom := 2 * sigma * sigma
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			k.Weights[(dy+radius)*size+dx+radius] = math.Exp(-float64(dx*dx+dy*dy) / denom)
		}
	}
	floats.Scale(1/floats.Sum(k.Weights), k.Weights)
	return k
}

// embed copies k into the centre of a larger zero kernel.
func (k *Kernel) embed(radius int) *Kernel {
	out := &Kernel{Radius: radius}
	size := out.Size()
	out.Weights = make([]float64, size*size)
	off := radius - k.Radius
	for row := 0; row < k.Size(); row++ {
		copy(out.Weights[(row+off)*size+off:], k.Weights[row*k.Size():(row+1)*k.Size()])
	}
	return out
}

// DispersalKernel builds the kernel for a species: σ_px = sigmaMeters /
// pixelMeters.  Flight-capable species get 0.8·base + 0.2·wide where the wide
// kernel uses 3σ and sets the support radius.
func DispersalKernel(sigmaMeters, pixelMeters float64, m species.Mobility) (*Kernel, error) {
	if !(pixelMeters > 0) {
		return nil, errors.InvalidInput("pixel size must be positive").WithDetailf("pixel_size_m=%g", pixelMeters)
	}
	base, err := Gaussian(sigmaMeters / pixelMeters)
	if err != nil {
		return nil, err
	}
	if !m.CanFly() {
		return base, nil
	}
	wide, err := Gaussian(flightWideScale * sigmaMeters / pixelMeters)
	if err != nil {
		return nil, err
	}
	blend := base.embed(wide.Radius)
	floats.Scale(flightBaseShare, blend.Weights)
	floats.AddScaled(blend.Weights, flightWideShare, wide.Weights)
	floats.Scale(1/floats.Sum(blend.Weights), blend.Weights)
	return blend, nil
}

//Personal.AI order the ending
