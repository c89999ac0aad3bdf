package raster

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ctessum/geom/proj"

	"github.com/Jhuly1215/SimulacionInvasores/pkg/errors"
)

// EPSG4326 is the geographic WGS84 CRS used by region polygons.
const EPSG4326 = "EPSG:4326"

// EPSGCode extracts n from "EPSG:n".
func EPSGCode(crs string) (int, bool) {
	s := strings.ToUpper(strings.TrimSpace(crs))
	if !strings.HasPrefix(s, "EPSG:") {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimPrefix(s, "EPSG:"))
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

// NormalizeCRS canonicalises an EPSG identifier ("epsg:4326" -> "EPSG:4326")
// and trims proj4 strings.  An empty CRS is treated as EPSG:4326.
func NormalizeCRS(crs string) string {
	s := strings.TrimSpace(crs)
	if s == "" {
		return EPSG4326
	}
	if n, ok := EPSGCode(s); ok {
		return "EPSG:" + strconv.Itoa(n)
	}
	return strings.Join(strings.Fields(s), " ")
}

// SameCRS compares two CRS identifiers after normalisation.
func SameCRS(a, b string) bool {
	return NormalizeCRS(a) == NormalizeCRS(b)
}

// Proj4 resolves a CRS identifier to a proj4 definition.  Supported EPSG
// codes: 4326, 4269, 3857, WGS84 UTM north (32601-32660) and south
// (32701-32760).  Strings starting with "+proj" pass through.
func Proj4(crs string) (string, error) {
	s := NormalizeCRS(crs)
	if strings.HasPrefix(s, "+proj") {
		return s, nil
	}
	n, ok := EPSGCode(s)
	if !ok {
		return "", errors.Alignment("unrecognised CRS").WithDetail("crs=" + crs)
	}
	switch {
	case n == 4326:
		return "+proj=longlat +datum=WGS84 +no_defs", nil
	case n == 4269:
		return "+proj=longlat +datum=NAD83 +no_defs", nil
	case n == 3857:
		return "+proj=merc +a=6378137 +b=6378137 +lat_ts=0.0 +lon_0=0.0 +x_0=0.0 +y_0=0 +k=1.0 +units=m +nadgrids=@null +no_defs", nil
	case n >= 32601 && n <= 32660:
		return fmt.Sprintf("+proj=utm +zone=%d +datum=WGS84 +units=m +no_defs", n-32600), nil
	case n >= 32701 && n <= 32760:
		return fmt.Sprintf("+proj=utm +zone=%d +south +datum=WGS84 +units=m +no_defs", n-32700), nil
	default:
		return "", errors.Alignment("unsupported EPSG code").WithDetailf("crs=%s", crs)
	}
}

// IsGeographic reports whether the CRS uses longitude/latitude degrees.
func IsGeographic(crs string) bool {
	s := NormalizeCRS(crs)
	if n, ok := EPSGCode(s); ok {
		return n == 4326 || n == 4269
	}
	return strings.Contains(s, "+proj=longlat") || strings.Contains(s, "+proj=latlong")
}

// NewCRSTransform returns a coordinate transformer from src to dst.  When
// both identify the same CRS an identity transformer is returned.
func NewCRSTransform(src, dst string) (proj.Transformer, error) {
	if SameCRS(src, dst) {
		return func(x, y float64) (float64, float64, error) { return x, y, nil }, nil
	}
	srcDef, err := Proj4(src)
	if err != nil {
		return nil, err
	}
	dstDef, err := Proj4(dst)
	if err != nil {
		return nil, err
	}
	srcSR, err := proj.Parse(srcDef)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeAlignmentError, "parse source CRS "+src)
	}
	dstSR, err := proj.Parse(dstDef)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeAlignmentError, "parse target CRS "+dst)
	}
	t, err := srcSR.NewTransform(dstSR)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeAlignmentError, "build transform "+src+" -> "+dst)
	}
	return t, nil
}

//Personal.AI order the ending
