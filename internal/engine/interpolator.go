package engine

import (
	"fmt"

	"github.com/tphakala/go-grid-resampler/internal/filter"
	"github.com/tphakala/go-grid-resampler/internal/mathutil"
	"github.com/tphakala/simd/f64"
)

// Interpolator evaluates the spline surface described by a coefficient plane.
// It only reads the plane and is safe for concurrent use.
type Interpolator struct {
	coeffs *Plane
	kernel filter.Kernel
	maxX   float64
	maxY   float64
}

// NewInterpolator binds a coefficient plane to the kernel of degree 2 to 9.
func NewInterpolator(coeffs *Plane, degree int) (*Interpolator, error) {
	if !mathutil.IsSupportedDegree(degree) {
		return nil, fmt.Errorf("%w: %d", mathutil.ErrUnsupportedDegree, degree)
	}
	if coeffs == nil || coeffs.Width < 1 || coeffs.Height < 1 ||
		len(coeffs.Data) != coeffs.Width*coeffs.Height {
		return nil, fmt.Errorf("%w: invalid coefficient plane", mathutil.ErrIncompatibleShape)
	}
	kernel, err := filter.NewKernel(degree)
	if err != nil {
		return nil, err
	}
	return &Interpolator{
		coeffs: coeffs,
		kernel: kernel,
		maxX:   float64(coeffs.Width - 1),
		maxY:   float64(coeffs.Height - 1),
	}, nil
}

// Degree returns the kernel degree.
func (ip *Interpolator) Degree() int { return ip.kernel.Degree() }

// InBounds reports whether (x, y) lies in [0, width-1] x [0, height-1].
func (ip *Interpolator) InBounds(x, y float64) bool {
	return x >= 0 && x <= ip.maxX && y >= 0 && y <= ip.maxY
}

// Evaluate returns the surface value at (x, y) or ErrOutOfBounds.
func (ip *Interpolator) Evaluate(x, y float64) (float64, error) {
	if !ip.InBounds(x, y) {
		return 0, fmt.Errorf("%w: (%g, %g) outside [0, %g]x[0, %g]",
			mathutil.ErrOutOfBounds, x, y, ip.maxX, ip.maxY)
	}
	return ip.At(x, y), nil
}

// At evaluates the surface without a bounds check. Window indices outside
// the plane are mirrored, so any finite coordinate yields a value.
func (ip *Interpolator) At(x, y float64) float64 {
	var wx, wy [filter.MaxKernelDegree + 1]float64
	width := ip.kernel.Width()
	xs := ip.kernel.Weights(wx[:], x)
	ys := ip.kernel.Weights(wy[:], y)

	w := ip.coeffs.Width
	h := ip.coeffs.Height
	data := ip.coeffs.Data
	interiorX := xs >= 0 && xs+width <= w

	var sum float64
	for j := range width {
		row := mathutil.MirrorIndex(ys+j, h) * w
		var inner float64
		if interiorX {
			inner = f64.DotProductUnsafe(wx[:width], data[row+xs:row+xs+width])
		} else {
			for i := range width {
				inner += wx[i] * data[row+mathutil.MirrorIndex(xs+i, w)]
			}
		}
		sum += wy[j] * inner
	}
	return sum
}
