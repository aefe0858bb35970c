package engine

import "math"

// Bilinear blends the four raw samples nearest to (x, y).
// Coordinates are clamped into the plane and the second sample index is
// clamped inward on the last row and column, so it never fails.
func Bilinear(p *Plane, x, y float64) float64 {
	return BilinearFunc(p.Width, p.Height, x, y, p.At)
}

// BilinearFunc is Bilinear over a width x height lattice read through at,
// which is called for the four samples only.
func BilinearFunc(width, height int, x, y float64, at func(x, y int) float64) float64 {
	x = clampCoord(x, float64(width-1))
	y = clampCoord(y, float64(height-1))

	x0, fx := splitCoord(x, width)
	y0, fy := splitCoord(y, height)
	x1 := min(x0+1, width-1)
	y1 := min(y0+1, height-1)

	top := lerp(at(x0, y0), at(x1, y0), fx)
	bottom := lerp(at(x0, y1), at(x1, y1), fx)
	return lerp(top, bottom, fy)
}

// BilinearPlane samples p at every (xs[i], ys[j]) into dst (len(xs) wide).
func BilinearPlane(dst []float64, p *Plane, xs, ys []float64) {
	cols := len(xs)
	for j, y := range ys {
		out := dst[j*cols : (j+1)*cols]
		for i, x := range xs {
			out[i] = Bilinear(p, x, y)
		}
	}
}

func clampCoord(v, hi float64) float64 {
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	if v > hi {
		return hi
	}
	return v
}

func splitCoord(v float64, n int) (int, float64) {
	i := int(v)
	if i >= n-1 {
		// Exactly on the last sample: weight the inward neighbour by zero.
		return n - 1, 0
	}
	return i, v - float64(i)
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}
