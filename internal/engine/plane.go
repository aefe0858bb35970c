// Package engine implements the spline coefficient, point interpolation,
// geometric remap and separable resize kernels on float64 sample planes.
package engine

import (
	"fmt"

	"github.com/tphakala/go-grid-resampler/internal/mathutil"
)

// Plane is a dense row-major float64 grid addressed (x, y) = (column, row).
type Plane struct {
	Width  int
	Height int
	Data   []float64
}

// NewPlane allocates a zeroed plane.
func NewPlane(width, height int) (*Plane, error) {
	if width < 1 || height < 1 {
		return nil, fmt.Errorf("%w: %dx%d", mathutil.ErrIncompatibleShape, width, height)
	}
	return &Plane{Width: width, Height: height, Data: make([]float64, width*height)}, nil
}

// WrapPlane validates data against the shape and wraps it without copying.
func WrapPlane(width, height int, data []float64) (*Plane, error) {
	if width < 1 || height < 1 || len(data) != width*height {
		return nil, fmt.Errorf("%w: %d samples for %dx%d",
			mathutil.ErrIncompatibleShape, len(data), width, height)
	}
	return &Plane{Width: width, Height: height, Data: data}, nil
}

// Row returns row y as a subslice of Data.
func (p *Plane) Row(y int) []float64 {
	return p.Data[y*p.Width : (y+1)*p.Width]
}

// At returns the sample at column x, row y.
func (p *Plane) At(x, y int) float64 {
	return p.Data[y*p.Width+x]
}

// Clone returns a deep copy.
func (p *Plane) Clone() *Plane {
	data := make([]float64, len(p.Data))
	copy(data, p.Data)
	return &Plane{Width: p.Width, Height: p.Height, Data: data}
}

// SameShape reports whether both planes have equal dimensions.
func (p *Plane) SameShape(o *Plane) bool {
	return p.Width == o.Width && p.Height == o.Height
}

// column copies column x into dst.
func (p *Plane) column(dst []float64, x int) {
	for y := range p.Height {
		dst[y] = p.Data[y*p.Width+x]
	}
}

// setColumn writes src into column x.
func (p *Plane) setColumn(x int, src []float64) {
	for y := range p.Height {
		p.Data[y*p.Width+x] = src[y]
	}
}
