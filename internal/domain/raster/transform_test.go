package raster

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNorthUp(t *testing.T) {
	tr := NorthUp(500000, 4600000, 100, 100)
	assert.Equal(t, 500000.0, tr.OriginX())
	assert.Equal(t, 4600000.0, tr.OriginY())
	assert.Equal(t, 100.0, tr.PixelWidth())
	assert.Equal(t, -100.0, tr.PixelHeight())
	assert.False(t, tr.IsRotated())
}

func TestTransform_ApplyAndCenter(t *testing.T) {
	tr := NorthUp(10, 20, 2, 2)
	x, y := tr.Apply(1, 1)
	assert.Equal(t, 12.0, x)
	assert.Equal(t, 18.0, y)

	x, y = tr.PixelCenter(0, 0)
	assert.Equal(t, 11.0, x)
	assert.Equal(t, 19.0, y)
}

func TestTransform_InvertRoundTrip(t *testing.T) {
	tr := Transform{100, 3, 0.5, 200, 0.25, -4}
	inv, err := tr.Invert()
	require.NoError(t, err)

	x, y := tr.Apply(7.5, 2.25)
	c, r := inv.Apply(x, y)
	assert.InDelta(t, 7.5, c, 1e-9)
	assert.InDelta(t, 2.25, r, 1e-9)
}

func TestTransform_InvertSingular(t *testing.T) {
	_, err := Transform{0, 0, 0, 0, 0, 0}.Invert()
	assert.Error(t, err)
}

func TestTransform_PixelOf(t *testing.T) {
	tr := NorthUp(0, 1000, 100, 100)

	row, col := tr.PixelOf(250, 850)
	assert.Equal(t, 1, row)
	assert.Equal(t, 2, col)

	// A point on a pixel edge belongs to the pixel to its lower right.
	row, col = tr.PixelOf(100, 900)
	assert.Equal(t, 1, row)
	assert.Equal(t, 1, col)

	row, col = tr.PixelOf(-1, 1001)
	assert.Equal(t, -1, row)
	assert.Equal(t, -1, col)
}

func TestTransform_PixelArea(t *testing.T) {
	assert.Equal(t, 10000.0, NorthUp(0, 0, 100, 100).PixelArea())
	assert.Equal(t, 6.0, NorthUp(0, 0, 2, 3).PixelArea())
}

func TestTransform_Equal(t *testing.T) {
	a := NorthUp(500000, 4600000, 100, 100)
	b := a
	b[0] += 1e-6
	assert.True(t, a.Equal(b))
	b[0] += 1
	assert.False(t, a.Equal(b))
}

func TestTransform_Bounds(t *testing.T) {
	minX, minY, maxX, maxY := NorthUp(10, 50, 1, 2).Bounds(4, 5)
	assert.Equal(t, 10.0, minX)
	assert.Equal(t, 40.0, minY)
	assert.Equal(t, 14.0, maxX)
	assert.Equal(t, 50.0, maxY)
}

//Personal.AI order the ending
