package raster

import (
	"math"

	"github.com/Jhuly1215/SimulacionInvasores/pkg/errors"
)

// Window is a rectangular pixel range [Col0, Col0+Cols) × [Row0, Row0+Rows).
type Window struct {
	Row0, Col0 int
	Rows, Cols int
}

// Empty reports whether the window covers no pixel.
func (w Window) Empty() bool { return w.Rows <= 0 || w.Cols <= 0 }

// WindowFor returns the pixel window of g covering the world-coordinate box
// [minX,maxX]×[minY,maxY], padded by pad pixels on every side and clamped to
// the grid.  Boxes entirely outside the grid yield an empty window.
func (g *Grid) WindowFor(minX, minY, maxX, maxY float64, pad int) (Window, error) {
	inv, err := g.Transform.Invert()
	if err != nil {
		return Window{}, err
	}
	c0, r0 := math.Inf(1), math.Inf(1)
	c1, r1 := math.Inf(-1), math.Inf(-1)
	for _, p := range [][2]float64{{minX, minY}, {minX, maxY}, {maxX, minY}, {maxX, maxY}} {
		c, r := inv.Apply(p[0], p[1])
		c0, c1 = math.Min(c0, c), math.Max(c1, c)
		r0, r1 = math.Min(r0, r), math.Max(r1, r)
	}
	col0 := clampInt(int(math.Floor(c0))-pad, 0, g.Width)
	row0 := clampInt(int(math.Floor(r0))-pad, 0, g.Height)
	col1 := clampInt(int(math.Ceil(c1))+pad, 0, g.Width)
	row1 := clampInt(int(math.Ceil(r1))+pad, 0, g.Height)
	return Window{Row0: row0, Col0: col0, Rows: row1 - row0, Cols: col1 - col0}, nil
}

// Crop extracts w into a new grid whose transform is shifted to the window's
// origin.
func (g *Grid) Crop(w Window) (*Grid, error) {
	if w.Empty() || w.Row0 < 0 || w.Col0 < 0 || w.Row0+w.Rows > g.Height || w.Col0+w.Cols > g.Width {
		return nil, errors.Alignment("crop window outside grid").
			WithDetailf("window=%+v grid=%dx%d", w, g.Width, g.Height)
	}
	x0, y0 := g.Transform.Apply(float64(w.Col0), float64(w.Row0))
	t := g.Transform
	t[0], t[3] = x0, y0
	out := &Grid{
		Width:     w.Cols,
		Height:    w.Rows,
		Transform: t,
		CRS:       g.CRS,
		NoData:    g.NoData,
		HasNoData: g.HasNoData,
		Data:      make([]float64, w.Rows*w.Cols),
	}
	for r := 0; r < w.Rows; r++ {
		src := g.Data[(w.Row0+r)*g.Width+w.Col0 : (w.Row0+r)*g.Width+w.Col0+w.Cols]
		copy(out.Data[r*w.Cols:(r+1)*w.Cols], src)
	}
	return out, nil
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

//Personal.AI order the ending
