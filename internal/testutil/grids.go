package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Jhuly1215/SimulacionInvasores/internal/domain/raster"
)

// Test geometry: UTM 19S, 100 m pixels.
const (
	TestCRS     = "EPSG:32719"
	TestOriginX = 600000.0
	TestOriginY = 8100000.0
	TestPixel   = 100.0
)

// TestTransform returns the default north-up transform.
func TestTransform() raster.Transform {
	return raster.NorthUp(TestOriginX, TestOriginY, TestPixel, TestPixel)
}

// FilledGrid returns a width×height grid on the test geometry with every
// sample set to v.
func FilledGrid(t testing.TB, width, height int, v float64) *raster.Grid {
	t.Helper()
	g, err := raster.NewFilled(width, height, TestTransform(), TestCRS, v)
	require.NoError(t, err)
	return g
}

// GridFrom wraps row-major data on the test geometry.
func GridFrom(t testing.TB, width, height int, data []float64) *raster.Grid {
	t.Helper()
	require.Len(t, data, width*height)
	g, err := raster.New(width, height, TestTransform(), TestCRS)
	require.NoError(t, err)
	copy(g.Data, data)
	return g
}

// GeoGrid returns a filled EPSG:4326 grid whose upper-left corner is
// (lon, lat) with square pixels of deg degrees.
func GeoGrid(t testing.TB, width, height int, lon, lat, deg, v float64) *raster.Grid {
	t.Helper()
	g, err := raster.NewFilled(width, height, raster.NorthUp(lon, lat, deg, deg), raster.EPSG4326, v)
	require.NoError(t, err)
	return g
}

// WithNoData marks the grid's nodata value and writes it at idx.
func WithNoData(g *raster.Grid, nodata float64, idx ...int) *raster.Grid {
	g.NoData = nodata
	g.HasNoData = true
	for _, i := range idx {
		g.Data[i] = nodata
	}
	return g
}

//Personal.AI order the ending
