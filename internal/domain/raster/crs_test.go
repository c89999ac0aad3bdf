package raster

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Jhuly1215/SimulacionInvasores/pkg/errors"
)

func TestEPSGCode(t *testing.T) {
	n, ok := EPSGCode("epsg:32633")
	assert.True(t, ok)
	assert.Equal(t, 32633, n)

	_, ok = EPSGCode("+proj=longlat")
	assert.False(t, ok)
	_, ok = EPSGCode("EPSG:abc")
	assert.False(t, ok)
}

func TestNormalizeCRS(t *testing.T) {
	assert.Equal(t, EPSG4326, NormalizeCRS(""))
	assert.Equal(t, "EPSG:3857", NormalizeCRS(" epsg:3857 "))
	assert.Equal(t, "+proj=longlat +datum=WGS84", NormalizeCRS("+proj=longlat   +datum=WGS84"))
	assert.True(t, SameCRS("epsg:4326", "EPSG:4326"))
	assert.False(t, SameCRS("EPSG:4326", "EPSG:3857"))
}

func TestProj4(t *testing.T) {
	s, err := Proj4("EPSG:32633")
	require.NoError(t, err)
	assert.Contains(t, s, "+zone=33")
	assert.NotContains(t, s, "+south")

	s, err = Proj4("EPSG:32719")
	require.NoError(t, err)
	assert.Contains(t, s, "+zone=19 +south")

	s, err = Proj4("+proj=longlat +datum=WGS84")
	require.NoError(t, err)
	assert.Equal(t, "+proj=longlat +datum=WGS84", s)

	_, err = Proj4("EPSG:2193")
	assert.True(t, errors.IsCode(err, errors.CodeAlignmentError))

	_, err = Proj4("WGS 84 / nonsense")
	assert.True(t, errors.IsCode(err, errors.CodeAlignmentError))
}

func TestIsGeographic(t *testing.T) {
	assert.True(t, IsGeographic("EPSG:4326"))
	assert.True(t, IsGeographic(""))
	assert.True(t, IsGeographic("+proj=longlat +datum=WGS84 +no_defs"))
	assert.False(t, IsGeographic("EPSG:3857"))
	assert.False(t, IsGeographic("EPSG:32633"))
}

func TestNewCRSTransform_Identity(t *testing.T) {
	tr, err := NewCRSTransform("EPSG:32633", "epsg:32633")
	require.NoError(t, err)
	x, y, err := tr(1.5, 2.5)
	require.NoError(t, err)
	assert.Equal(t, 1.5, x)
	assert.Equal(t, 2.5, y)
}

func TestNewCRSTransform_GeographicToWebMercator(t *testing.T) {
	tr, err := NewCRSTransform(EPSG4326, "EPSG:3857")
	require.NoError(t, err)

	x, y, err := tr(0, 0)
	require.NoError(t, err)
	assert.InDelta(t, 0, x, 1e-6)
	assert.InDelta(t, 0, y, 1e-6)

	x, _, err = tr(10, 0)
	require.NoError(t, err)
	assert.InDelta(t, 6378137*10*math.Pi/180, x, 1)
}

func TestNewCRSTransform_Unsupported(t *testing.T) {
	_, err := NewCRSTransform(EPSG4326, "EPSG:9999999")
	assert.True(t, errors.IsCode(err, errors.CodeAlignmentError))
}

//Personal.AI order the ending
