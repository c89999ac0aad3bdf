package spread

import (
	"math"
	"math/rand"
	"strings"

	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"

	"github.com/Jhuly1215/SimulacionInvasores/internal/domain/raster"
	"github.com/Jhuly1215/SimulacionInvasores/internal/domain/region"
	"github.com/Jhuly1215/SimulacionInvasores/pkg/errors"
)

// EarthRadiusMeters is the mean Earth radius used for geodesic offsets.
const EarthRadiusMeters = 6371000.0

// JumpPolicy decides what happens to a jump whose target leaves the grid.
type JumpPolicy string

const (
	// JumpDrop discards the jump.
	JumpDrop JumpPolicy = "drop"
	// JumpResample draws a new offset, up to MaxJumpAttempts in total.
	JumpResample JumpPolicy = "resample"
)

// ParseJumpPolicy parses a policy name; empty defaults to JumpDrop.
func ParseJumpPolicy(s string) (JumpPolicy, error) {
	switch p := JumpPolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return JumpDrop, nil
	case JumpDrop, JumpResample:
		return p, nil
	default:
		return "", errors.InvalidInput("unknown jump policy: " + s)
	}
}

// jumper samples long-distance jump targets around a fixed origin.
type jumper struct {
	origin     region.Point
	maxMeters  float64
	geographic bool
	transform  raster.Transform
	width      int
	height     int
	policy     JumpPolicy
	attempts   int
	rng        *rand.Rand
}

// target draws a destination pixel.  ok is false when every permitted attempt
// landed off the grid.
func (j *jumper) target() (row, col int, ok bool) {
	tries := 1
	if j.policy == JumpResample && j.attempts > 1 {
		tries = j.attempts
	}
	for i := 0; i < tries; i++ {
		dist := j.rng.Float64() * j.maxMeters
		bearing := j.rng.Float64() * 2 * math.Pi
		x, y := j.offset(dist, bearing)
		row, col = j.transform.PixelOf(x, y)
		if row >= 0 && row < j.height && col >= 0 && col < j.width {
			return row, col, true
		}
	}
	return 0, 0, false
}

// offset moves the origin by dist metres along bearing (radians clockwise
// from north).  Geographic grids follow the great circle; projected grids
// are assumed to use metres.
func (j *jumper) offset(dist, bearing float64) (x, y float64) {
	if !j.geographic {
		return j.origin.X + dist*math.Sin(bearing), j.origin.Y + dist*math.Cos(bearing)
	}
	ll := destination(s2.LatLngFromDegrees(j.origin.Y, j.origin.X), bearing, dist)
	return ll.Lng.Degrees(), ll.Lat.Degrees()
}

// destination is the point reached from p after dist metres on the sphere.
func destination(p s2.LatLng, bearing, dist float64) s2.LatLng {
	ang := dist / EarthRadiusMeters
	lat1, lon1 := p.Lat.Radians(), p.Lng.Radians()
	lat2 := math.Asin(math.Sin(lat1)*math.Cos(ang) + math.Cos(lat1)*math.Sin(ang)*math.Cos(bearing))
	lon2 := lon1 + math.Atan2(
		math.Sin(bearing)*math.Sin(ang)*math.Cos(lat1),
		math.Cos(ang)-math.Sin(lat1)*math.Sin(lat2))
	return s2.LatLng{Lat: s1.Angle(lat2), Lng: s1.Angle(lon2)}.Normalized()
}

//Personal.AI order the ending
