// Package region models the user-defined study area: a single closed ring
// of vertices with its CRS.
package region

import (
	"math"

	"github.com/ctessum/geom"

	"github.com/Jhuly1215/SimulacionInvasores/internal/domain/raster"
	"github.com/Jhuly1215/SimulacionInvasores/pkg/errors"
)

// Point is a vertex.  For geographic CRSs X is longitude and Y latitude.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Polygon is a closed ring: the first and last vertices are equal.
type Polygon struct {
	Ring []Point
	CRS  string
}

// New validates points and returns a closed polygon.  At least three
// distinct, non-collinear vertices are required; an open ring is closed
// automatically.
func New(points []Point, crs string) (*Polygon, error) {
	crs = raster.NormalizeCRS(crs)
	geographic := raster.IsGeographic(crs)

	ring := make([]Point, 0, len(points)+1)
	seen := make(map[Point]struct{}, len(points))
	for i, p := range points {
		if math.IsNaN(p.X) || math.IsNaN(p.Y) || math.IsInf(p.X, 0) || math.IsInf(p.Y, 0) {
			return nil, errors.InvalidInput("polygon vertex is not finite").WithDetailf("index=%d", i)
		}
		if geographic && (p.X < -180 || p.X > 180 || p.Y < -90 || p.Y > 90) {
			return nil, errors.InvalidInput("polygon vertex outside geographic range").
				WithDetailf("index=%d lon=%g lat=%g", i, p.X, p.Y)
		}
		seen[p] = struct{}{}
		ring = append(ring, p)
	}
	if len(seen) < 3 {
		return nil, errors.InvalidInput("polygon needs at least 3 distinct vertices").
			WithDetailf("distinct=%d", len(seen))
	}
	if ring[0] != ring[len(ring)-1] {
		ring = append(ring, ring[0])
	}
	poly := &Polygon{Ring: ring, CRS: crs}
	if !(poly.Area() > 0) {
		return nil, errors.InvalidInput("polygon has zero area").WithDetailf("vertices=%d", len(seen))
	}
	return poly, nil
}

// LatLon is the vertex encoding used by region documents.
type LatLon struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// FromLatLon builds an EPSG:4326 polygon from latitude/longitude pairs.
func FromLatLon(points []LatLon) (*Polygon, error) {
	pts := make([]Point, len(points))
	for i, p := range points {
		pts[i] = Point{X: p.Longitude, Y: p.Latitude}
	}
	return New(pts, raster.EPSG4326)
}

func (p *Polygon) geom() geom.Polygon {
	pts := make([]geom.Point, len(p.Ring))
	for i, v := range p.Ring {
		pts[i] = geom.Point{X: v.X, Y: v.Y}
	}
	return geom.Polygon{pts}
}

// Bounds returns the envelope of the ring.
func (p *Polygon) Bounds() (minX, minY, maxX, maxY float64) {
	b := p.geom().Bounds()
	return b.Min.X, b.Min.Y, b.Max.X, b.Max.Y
}

// Area returns the unsigned planar area in squared CRS units.
func (p *Polygon) Area() float64 { return math.Abs(p.geom().Area()) }

// Centroid returns the area-weighted centroid.  A ring that collapsed to zero
// area in reprojection falls back to the mean of its distinct vertices.
func (p *Polygon) Centroid() Point {
	if p.Area() > 0 {
		c := p.geom().Centroid()
		if !math.IsNaN(c.X) && !math.IsNaN(c.Y) {
			return Point{X: c.X, Y: c.Y}
		}
	}
	var sx, sy float64
	n := len(p.Ring) - 1
	for _, v := range p.Ring[:n] {
		sx += v.X
		sy += v.Y
	}
	return Point{X: sx / float64(n), Y: sy / float64(n)}
}

// Reproject returns the polygon transformed into dst.
func (p *Polygon) Reproject(dst string) (*Polygon, error) {
	if raster.SameCRS(p.CRS, dst) {
		c := *p
		c.Ring = append([]Point(nil), p.Ring...)
		return &c, nil
	}
	t, err := raster.NewCRSTransform(p.CRS, dst)
	if err != nil {
		return nil, err
	}
	g, err := p.geom().Transform(t)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeAlignmentError, "reproject polygon to "+dst)
	}
	poly, ok := g.(geom.Polygon)
	if !ok || len(poly) == 0 {
		return nil, errors.Alignment("reprojected geometry is not a polygon")
	}
	ring := make([]Point, len(poly[0]))
	for i, v := range poly[0] {
		ring[i] = Point{X: v.X, Y: v.Y}
	}
	return &Polygon{Ring: ring, CRS: raster.NormalizeCRS(dst)}, nil
}

// ReprojectPoint transforms a single point from src to dst.
func ReprojectPoint(pt Point, src, dst string) (Point, error) {
	t, err := raster.NewCRSTransform(src, dst)
	if err != nil {
		return Point{}, err
	}
	x, y, err := t(pt.X, pt.Y)
	if err != nil {
		return Point{}, errors.Wrap(err, errors.CodeAlignmentError, "reproject point to "+dst)
	}
	return Point{X: x, Y: y}, nil
}

//Personal.AI order the ending
