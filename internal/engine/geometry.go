package engine

import (
	"math"
)

// Center returns the geometric centre ((w-1)/2, (h-1)/2) of a plane.
func Center(width, height int) (float64, float64) {
	return float64(width-1) / 2, float64(height-1) / 2
}

// Rotate resamples the surface rotated by angle radians about the plane
// centre into a new plane of the same size. Pre-images outside the grid
// are snapped to the nearest integer on each offending axis; cells still
// outside are zero-filled. It returns the plane and the zero-filled count.
func Rotate(ip *Interpolator, angle float64, workers int) (*Plane, int) {
	w, h := ip.coeffs.Width, ip.coeffs.Height
	out := &Plane{Width: w, Height: h, Data: make([]float64, w*h)}
	cx, cy := Center(w, h)
	filled := make([]int, h)

	forEachChunk(h, workers, func(start, end int) {
		for j := start; j < end; j++ {
			row := out.Row(j)
			dy := float64(j) - cy
			for i := range w {
				dx := float64(i) - cx
				r := math.Hypot(dx, dy)
				theta := math.Atan2(dy, dx) - angle
				sx := cx + r*math.Cos(theta)
				sy := cy + r*math.Sin(theta)

				if !ip.InBounds(sx, sy) {
					sx, sy = ip.snap(sx, sy)
					if !ip.InBounds(sx, sy) {
						filled[j]++
						continue
					}
				}
				row[i] = ip.At(sx, sy)
			}
		}
	})

	return out, sum(filled)
}

// Recenter resamples the surface so that source point (cx, cy) lands on the
// plane centre. Pre-images outside the grid are zero-filled. It returns the
// plane and the zero-filled count.
func Recenter(ip *Interpolator, cx, cy float64, workers int) (*Plane, int) {
	w, h := ip.coeffs.Width, ip.coeffs.Height
	out := &Plane{Width: w, Height: h, Data: make([]float64, w*h)}
	ox, oy := Center(w, h)
	shiftX, shiftY := cx-ox, cy-oy
	filled := make([]int, h)

	forEachChunk(h, workers, func(start, end int) {
		for j := start; j < end; j++ {
			row := out.Row(j)
			sy := float64(j) + shiftY
			for i := range w {
				sx := float64(i) + shiftX
				if !ip.InBounds(sx, sy) {
					filled[j]++
					continue
				}
				row[i] = ip.At(sx, sy)
			}
		}
	})

	return out, sum(filled)
}

// snap rounds each out-of-range coordinate to the nearest integer.
func (ip *Interpolator) snap(x, y float64) (float64, float64) {
	if x < 0 || x > ip.maxX {
		x = math.Round(x)
	}
	if y < 0 || y > ip.maxY {
		y = math.Round(y)
	}
	return x, y
}

func sum(counts []int) int {
	total := 0
	for _, c := range counts {
		total += c
	}
	return total
}
