package raster

import (
	"math"

	"github.com/Jhuly1215/SimulacionInvasores/pkg/errors"
)

// Transform holds the six affine coefficients in GDAL order:
//
//	x = T[0] + col*T[1] + row*T[2]
//	y = T[3] + col*T[4] + row*T[5]
//
// (col, row) address pixel corners; T[5] is negative for north-up grids.
type Transform [6]float64

// NorthUp builds a rotation-free transform.  pixelHeight is the absolute
// pixel height; the stored coefficient is negated.
func NorthUp(originX, originY, pixelWidth, pixelHeight float64) Transform {
	return Transform{originX, pixelWidth, 0, originY, 0, -math.Abs(pixelHeight)}
}

func (t Transform) OriginX() float64     { return t[0] }
func (t Transform) OriginY() float64     { return t[3] }
func (t Transform) PixelWidth() float64  { return t[1] }
func (t Transform) PixelHeight() float64 { return t[5] }

// IsRotated reports whether the transform carries rotation terms.
func (t Transform) IsRotated() bool { return t[2] != 0 || t[4] != 0 }

// Apply maps fractional pixel coordinates to world coordinates.
func (t Transform) Apply(col, row float64) (x, y float64) {
	return t[0] + col*t[1] + row*t[2], t[3] + col*t[4] + row*t[5]
}

// PixelCenter returns the world coordinate of the centre of (row, col).
func (t Transform) PixelCenter(row, col int) (x, y float64) {
	return t.Apply(float64(col)+0.5, float64(row)+0.5)
}

// Invert returns the transform mapping world coordinates back to fractional
// pixel coordinates.
func (t Transform) Invert() (Transform, error) {
	det := t[1]*t[5] - t[2]*t[4]
	if det == 0 {
		return Transform{}, errors.Alignment("affine transform is not invertible")
	}
	inv := 1 / det
	return Transform{
		(t[2]*t[3] - t[0]*t[5]) * inv,
		t[5] * inv,
		-t[2] * inv,
		(-t[1]*t[3] + t[0]*t[4]) * inv,
		-t[4] * inv,
		t[1] * inv,
	}, nil
}

// PixelOf locates the pixel containing world point (x, y):
//
//	col = floor((x - originX) / pixelWidth)
//	row = floor((originY - y) / |pixelHeight|)
//
// The result may lie outside the grid; callers check bounds.
func (t Transform) PixelOf(x, y float64) (row, col int) {
	col = int(math.Floor((x - t[0]) / t[1]))
	row = int(math.Floor((t[3] - y) / math.Abs(t[5])))
	return row, col
}

// PixelArea returns the area of one pixel in squared CRS units.
func (t Transform) PixelArea() float64 {
	return math.Abs(t[1]*t[5] - t[2]*t[4])
}

// transformTolerance bounds coefficient differences treated as equal.
const transformTolerance = 1e-9

// Equal compares coefficients with a relative tolerance.
func (t Transform) Equal(o Transform) bool {
	for i := range t {
		d := math.Abs(t[i] - o[i])
		scale := math.Max(1, math.Max(math.Abs(t[i]), math.Abs(o[i])))
		if d > transformTolerance*scale {
			return false
		}
	}
	return true
}

// Bounds returns the world-coordinate envelope of a width×height grid.
func (t Transform) Bounds(width, height int) (minX, minY, maxX, maxY float64) {
	minX, minY = math.Inf(1), math.Inf(1)
	maxX, maxY = math.Inf(-1), math.Inf(-1)
	for _, c := range [][2]float64{{0, 0}, {float64(width), 0}, {0, float64(height)}, {float64(width), float64(height)}} {
		x, y := t.Apply(c[0], c[1])
		minX, maxX = math.Min(minX, x), math.Max(maxX, x)
		minY, maxY = math.Min(minY, y), math.Max(maxY, y)
	}
	return minX, minY, maxX, maxY
}

//Personal.AI order the ending
