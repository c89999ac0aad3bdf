// Package raster holds the in-memory grid model shared by the alignment,
// suitability and spread stages: a single-band row-major sample array with
// its affine transform, CRS and nodata marker.
package raster

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/Jhuly1215/SimulacionInvasores/pkg/errors"
)

// Grid is a single-band raster.  Data is row-major: index = row*Width + col.
type Grid struct {
	Width     int
	Height    int
	Transform Transform
	CRS       string
	NoData    float64
	HasNoData bool
	Data      []float64
}

// New allocates a zero-filled grid.
func New(width, height int, t Transform, crs string) (*Grid, error) {
	if width <= 0 || height <= 0 {
		return nil, errors.InvalidInput("grid dimensions must be positive").
			WithDetailf("width=%d height=%d", width, height)
	}
	return &Grid{
		Width:     width,
		Height:    height,
		Transform: t,
		CRS:       crs,
		Data:      make([]float64, width*height),
	}, nil
}

// NewFilled allocates a grid with every sample set to v.
func NewFilled(width, height int, t Transform, crs string, v float64) (*Grid, error) {
	g, err := New(width, height, t, crs)
	if err != nil {
		return nil, err
	}
	if v != 0 {
		for i := range g.Data {
			g.Data[i] = v
		}
	}
	return g, nil
}

// Len returns the number of samples.
func (g *Grid) Len() int { return g.Width * g.Height }

// Index returns the flat index of (row, col).
func (g *Grid) Index(row, col int) int { return row*g.Width + col }

// InBounds reports whether (row, col) lies inside the grid.
func (g *Grid) InBounds(row, col int) bool {
	return row >= 0 && row < g.Height && col >= 0 && col < g.Width
}

// At returns the sample at (row, col).  It panics when out of bounds.
func (g *Grid) At(row, col int) float64 { return g.Data[g.Index(row, col)] }

// Set writes the sample at (row, col).
func (g *Grid) Set(row, col int, v float64) { g.Data[g.Index(row, col)] = v }

// IsNoData reports whether v is the grid's nodata marker.  NaN is always
// treated as nodata.
func (g *Grid) IsNoData(v float64) bool {
	if math.IsNaN(v) {
		return true
	}
	return g.HasNoData && v == g.NoData
}

// Validate checks that the sample slice matches the declared dimensions.
func (g *Grid) Validate() error {
	if g == nil {
		return errors.Internal("nil grid")
	}
	if g.Width <= 0 || g.Height <= 0 {
		return errors.InvalidInput("grid dimensions must be positive").
			WithDetailf("width=%d height=%d", g.Width, g.Height)
	}
	if len(g.Data) != g.Width*g.Height {
		return errors.Internal("grid sample count does not match dimensions").
			WithDetailf("len=%d width=%d height=%d", len(g.Data), g.Width, g.Height)
	}
	if g.Transform.PixelArea() == 0 {
		return errors.InvalidInput("grid transform is degenerate")
	}
	return nil
}

// Clone returns a deep copy.
func (g *Grid) Clone() *Grid {
	c := *g
	c.Data = make([]float64, len(g.Data))
	copy(c.Data, g.Data)
	return &c
}

// Like returns a zero-filled grid with the same geometry and no nodata marker.
func (g *Grid) Like() *Grid {
	return &Grid{
		Width:     g.Width,
		Height:    g.Height,
		Transform: g.Transform,
		CRS:       g.CRS,
		Data:      make([]float64, g.Width*g.Height),
	}
}

// SameGeometry reports whether g and o share width, height, transform and CRS.
func (g *Grid) SameGeometry(o *Grid) bool {
	return g.Width == o.Width &&
		g.Height == o.Height &&
		g.Transform.Equal(o.Transform) &&
		SameCRS(g.CRS, o.CRS)
}

// CheckAligned returns an AlignmentError unless every grid shares the first
// grid's geometry.  nil grids are skipped.
func CheckAligned(grids ...*Grid) error {
	var ref *Grid
	for i, g := range grids {
		if g == nil {
			continue
		}
		if err := g.Validate(); err != nil {
			return err
		}
		if ref == nil {
			ref = g
			continue
		}
		if !ref.SameGeometry(g) {
			return errors.Alignment("grids are not aligned").
				WithDetailf("grid %d: %dx%d %s vs %dx%d %s", i, g.Width, g.Height, g.CRS, ref.Width, ref.Height, ref.CRS)
		}
	}
	return nil
}

// Stats summarises the valid samples of a grid.
type Stats struct {
	Valid  int     `json:"valid"`
	NoData int     `json:"nodata"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
	Sum    float64 `json:"sum"`
	// NonZero counts valid samples different from zero.
	NonZero int `json:"non_zero"`
}

// ComputeStats scans g once.  Min, Max and Mean are zero when no sample is
// valid.
func (g *Grid) ComputeStats() Stats {
	valid := make([]float64, 0, len(g.Data))
	var s Stats
	for _, v := range g.Data {
		if g.IsNoData(v) {
			s.NoData++
			continue
		}
		if v != 0 {
			s.NonZero++
		}
		valid = append(valid, v)
	}
	s.Valid = len(valid)
	if s.Valid == 0 {
		return s
	}
	s.Min = floats.Min(valid)
	s.Max = floats.Max(valid)
	s.Sum = floats.Sum(valid)
	s.Mean = s.Sum / float64(s.Valid)
	return s
}

//Personal.AI order the ending
