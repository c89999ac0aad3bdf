package spread

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/Jhuly1215/SimulacionInvasores/internal/domain/raster"
)

// Spherical degree lengths used to size geographic pixels.
const (
	kmPerDegreeLat = 110.574
	kmPerDegreeLon = 111.320
)

// StepStats summarises one occupancy snapshot.
type StepStats struct {
	Occupied     int     `json:"occupied"`
	AreaKm2      float64 `json:"area_km2"`
	TotalDensity float64 `json:"total_density"`
	Patches      int     `json:"patches"`
}

// computeStats measures occupancy and density on the grid geometry g.
func computeStats(g *raster.Grid, occ, density []float64) StepStats {
	s := StepStats{TotalDensity: floats.Sum(density)}
	geographic := raster.IsGeographic(g.CRS)
	projectedArea := g.Transform.PixelArea() / 1e6
	for i, v := range occ {
		if v == 0 {
			continue
		}
		s.Occupied++
		if geographic {
			s.AreaKm2 += geographicPixelKm2(g, i/g.Width)
		} else {
			s.AreaKm2 += projectedArea
		}
	}
	s.Patches = countPatches(occ, g.Width, g.Height)
	return s
}

func geographicPixelKm2(g *raster.Grid, row int) float64 {
	_, lat := g.Transform.PixelCenter(row, 0)
	return math.Abs(g.Transform.PixelWidth()) * kmPerDegreeLon * math.Cos(lat*math.Pi/180) *
		math.Abs(g.Transform.PixelHeight()) * kmPerDegreeLat
}

// countPatches counts 4-connected components of non-zero cells.
func countPatches(occ []float64, w, h int) int {
	seen := make([]bool, len(occ))
	var queue []int
	patches := 0
	for start, v := range occ {
		if v == 0 || seen[start] {
			continue
		}
		patches++
		seen[start] = true
		queue = append(queue[:0], start)
		for len(queue) > 0 {
			i := queue[len(queue)-1]
			queue = queue[:len(queue)-1]
			r, c := i/w, i%w
			for _, n := range [4][2]int{{r - 1, c}, {r + 1, c}, {r, c - 1}, {r, c + 1}} {
				if n[0] < 0 || n[0] >= h || n[1] < 0 || n[1] >= w {
					continue
				}
				j := n[0]*w + n[1]
				if occ[j] != 0 && !seen[j] {
					seen[j] = true
					queue = append(queue, j)
				}
			}
		}
	}
	return patches
}

//Personal.AI order the ending
