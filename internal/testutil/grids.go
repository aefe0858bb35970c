package testutil

import (
	"math"
	"math/rand/v2"
)

// Ramp returns row-major samples v(x, y) = y*width + x.
func Ramp(width, height int) []float64 {
	data := make([]float64, width*height)
	for i := range data {
		data[i] = float64(i)
	}
	return data
}

// Constant returns width*height copies of v.
func Constant(width, height int, v float64) []float64 {
	data := make([]float64, width*height)
	for i := range data {
		data[i] = v
	}
	return data
}

// Smooth returns a band-limited test pattern made of low frequency sines.
func Smooth(width, height int) []float64 {
	data := make([]float64, width*height)
	for y := range height {
		for x := range width {
			fx := float64(x) / float64(width)
			fy := float64(y) / float64(height)
			data[y*width+x] = 100 +
				40*math.Sin(2*math.Pi*1.3*fx+0.4) +
				25*math.Cos(2*math.Pi*0.9*fy-0.2) +
				10*math.Sin(2*math.Pi*(0.7*fx+0.6*fy))
		}
	}
	return data
}

// Random returns uniformly distributed samples in [0, scale) from a fixed seed.
func Random(width, height int, scale float64, seed uint64) []float64 {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	data := make([]float64, width*height)
	for i := range data {
		data[i] = rng.Float64() * scale
	}
	return data
}

// Interior returns the samples of the region [margin, width-margin) x
// [margin, height-margin) in row-major order.
func Interior(data []float64, width, height, margin int) []float64 {
	var out []float64
	for y := margin; y < height-margin; y++ {
		out = append(out, data[y*width+margin:y*width+width-margin]...)
	}
	return out
}
