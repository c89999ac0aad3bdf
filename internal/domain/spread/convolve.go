package spread

import (
	"gonum.org/v1/gonum/floats"

	"github.com/Jhuly1215/SimulacionInvasores/pkg/errors"
)

// Convolve writes the zero-filled convolution of src (w×h, row-major) with k
// into dst.  Cells beyond the edge contribute nothing and receive nothing.
// The kernel is symmetric, so each non-zero source cell scatters its weighted
// kernel into dst; empty regions of the field cost nothing.
func Convolve(dst, src []float64, w, h int, k *Kernel) error {
	n := w * h
	if len(src) != n || len(dst) != n {
		return errors.Internal("convolution shape mismatch").
			WithDetailf("grid=%dx%d src=%d dst=%d", w, h, len(src), len(dst))
	}
	if k == nil || len(k.Weights) != k.Size()*k.Size() {
		return errors.Internal("malformed dispersal kernel")
	}
	for i := range dst {
		dst[i] = 0
	}
	rad, size := k.Radius, k.Size()
	for r := 0; r < h; r++ {
		for c := 0; c < w; c++ {
			v := src[r*w+c]
			if v == 0 {
				continue
			}
			c0, c1 := max(0, c-rad), min(w-1, c+rad)
			kc0 := c0 - c + rad
			kc1 := c1 - c + rad
			for rr := max(0, r-rad); rr <= min(h-1, r+rad); rr++ {
				krow := (rr - r + rad) * size
				floats.AddScaled(dst[rr*w+c0:rr*w+c1+1], v, k.Weights[krow+kc0:krow+kc1+1])
			}
		}
	}
	return nil
}

//Personal.AI order the ending
