package raster

import (
	"math"

	"github.com/ctessum/geom/proj"

	"github.com/Jhuly1215/SimulacionInvasores/pkg/errors"
)

// DefaultNoData marks resampled pixels that have no source coverage when the
// source grid declares no nodata value of its own.
const DefaultNoData = -9999.0

// Resampling selects how source samples are interpolated onto a target grid.
type Resampling string

const (
	// Nearest keeps categorical codes intact (land cover).
	Nearest Resampling = "nearest"
	// Bilinear suits continuous layers (elevation, climate).
	Bilinear Resampling = "bilinear"
)

// IsValid reports whether r is a known method.
func (r Resampling) IsValid() bool { return r == Nearest || r == Bilinear }

// ParseResampling parses a method name; empty defaults to Bilinear.
func ParseResampling(s string) (Resampling, error) {
	if s == "" {
		return Bilinear, nil
	}
	r := Resampling(s)
	if !r.IsValid() {
		return "", errors.InvalidInput("unsupported resampling method: " + s)
	}
	return r, nil
}

// Geometry is the georeferencing part of a grid.
type Geometry struct {
	Width     int
	Height    int
	Transform Transform
	CRS       string
}

// Geometry returns g's georeferencing.
func (g *Grid) Geometry() Geometry {
	return Geometry{Width: g.Width, Height: g.Height, Transform: g.Transform, CRS: g.CRS}
}

// Resample interpolates src onto target.  toSource maps target-CRS
// coordinates into src's CRS; nil means both share a CRS.  Target pixels
// without source coverage are set to nodata.
func Resample(src *Grid, target Geometry, method Resampling, toSource proj.Transformer) (*Grid, error) {
	if err := src.Validate(); err != nil {
		return nil, err
	}
	if !method.IsValid() {
		return nil, errors.InvalidInput("unsupported resampling method: " + string(method))
	}
	inv, err := src.Transform.Invert()
	if err != nil {
		return nil, err
	}

	noData := DefaultNoData
	if src.HasNoData {
		noData = src.NoData
	}
	out := &Grid{
		Width:     target.Width,
		Height:    target.Height,
		Transform: target.Transform,
		CRS:       target.CRS,
		NoData:    noData,
		HasNoData: true,
		Data:      make([]float64, target.Width*target.Height),
	}

	for row := 0; row < target.Height; row++ {
		for col := 0; col < target.Width; col++ {
			x, y := target.Transform.PixelCenter(row, col)
			if toSource != nil {
				x, y, err = toSource(x, y)
				if err != nil {
					return nil, errors.Wrap(err, errors.CodeAlignmentError, "reproject pixel centre")
				}
			}
			c, r := inv.Apply(x, y)

			v, ok := 0.0, false
			if method == Nearest {
				v, ok = src.sampleNearest(r, c)
			} else {
				v, ok = src.sampleBilinear(r, c)
			}
			if !ok {
				v = noData
			}
			out.Data[row*target.Width+col] = v
		}
	}
	return out, nil
}

func (g *Grid) sampleNearest(r, c float64) (float64, bool) {
	if math.IsNaN(r) || math.IsNaN(c) {
		return 0, false
	}
	row, col := int(math.Floor(r)), int(math.Floor(c))
	if !g.InBounds(row, col) {
		return 0, false
	}
	v := g.At(row, col)
	if g.IsNoData(v) {
		return 0, false
	}
	return v, true
}

// sampleBilinear interpolates between the four nearest pixel centres.
// Neighbours that are out of bounds or nodata drop out and the remaining
// weights are renormalised.
func (g *Grid) sampleBilinear(r, c float64) (float64, bool) {
	if math.IsNaN(r) || math.IsNaN(c) {
		return 0, false
	}
	if r < 0 || c < 0 || r > float64(g.Height) || c > float64(g.Width) {
		return 0, false
	}
	u, v := c-0.5, r-0.5
	c0, r0 := int(math.Floor(u)), int(math.Floor(v))
	fx, fy := u-float64(c0), v-float64(r0)

	var sum, wsum float64
	for _, n := range [4]struct {
		row, col int
		w        float64
	}{
		{r0, c0, (1 - fx) * (1 - fy)},
		{r0, c0 + 1, fx * (1 - fy)},
		{r0 + 1, c0, (1 - fx) * fy},
		{r0 + 1, c0 + 1, fx * fy},
	} {
		if n.w == 0 || !g.InBounds(n.row, n.col) {
			continue
		}
		s := g.At(n.row, n.col)
		if g.IsNoData(s) {
			continue
		}
		sum += s * n.w
		wsum += n.w
	}
	if wsum == 0 {
		return 0, false
	}
	return sum / wsum, true
}

//Personal.AI order the ending
