package resampler

import (
	"fmt"

	"github.com/tphakala/go-grid-resampler/internal/engine"
)

// CoefficientGrid holds the B-spline coefficients of a grid. It has the
// shape of its source and is immutable once built, so any number of
// goroutines may evaluate it concurrently.
type CoefficientGrid struct {
	plane     *engine.Plane
	interp    *engine.Interpolator
	tolerance float64
}

// NewCoefficientGrid converts g into spline coefficients of cfg.Degree.
// A nil cfg selects the defaults.
func NewCoefficientGrid[T Number](g *Grid[T], cfg *Config) (*CoefficientGrid, error) {
	if g == nil {
		return nil, fmt.Errorf("%w: grid is nil", ErrIncompatibleShape)
	}
	if cfg == nil {
		cfg = &Config{}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return buildCoefficients(g.plane(), cfg.degree(), cfg.tolerance(), cfg.workers())
}

// buildCoefficients converts p in place and binds it to an interpolator.
func buildCoefficients(p *engine.Plane, degree int, tolerance float64, workers int) (*CoefficientGrid, error) {
	conv, err := engine.NewConverter(degree, tolerance)
	if err != nil {
		return nil, err
	}
	conv.ConvertPlane(p, workers)

	interp, err := engine.NewInterpolator(p, degree)
	if err != nil {
		return nil, err
	}
	return &CoefficientGrid{plane: p, interp: interp, tolerance: tolerance}, nil
}

// Degree returns the spline degree.
func (c *CoefficientGrid) Degree() int { return c.interp.Degree() }

// Tolerance returns the prefilter tolerance the coefficients were built with.
func (c *CoefficientGrid) Tolerance() float64 { return c.tolerance }

// Width returns the number of columns.
func (c *CoefficientGrid) Width() int { return c.plane.Width }

// Height returns the number of rows.
func (c *CoefficientGrid) Height() int { return c.plane.Height }

// Coefficient returns the coefficient at column x, row y.
func (c *CoefficientGrid) Coefficient(x, y int) float64 { return c.plane.At(x, y) }

// InBounds reports whether (x, y) lies in [0, width-1] x [0, height-1].
// Callers looping over many points should test this before Evaluate.
func (c *CoefficientGrid) InBounds(x, y float64) bool { return c.interp.InBounds(x, y) }

// Evaluate returns the spline surface at (x, y), or ErrOutOfBounds.
func (c *CoefficientGrid) Evaluate(x, y float64) (float64, error) {
	return c.interp.Evaluate(x, y)
}

// EvaluateMany evaluates the points (xs[i], ys[i]) into dst. Points outside
// the grid yield fill and are counted.
func (c *CoefficientGrid) EvaluateMany(dst, xs, ys []float64, fill float64) (int, error) {
	if len(xs) != len(ys) || len(dst) < len(xs) {
		return 0, fmt.Errorf("%w: %d x, %d y coordinates into %d values",
			ErrIncompatibleShape, len(xs), len(ys), len(dst))
	}
	outside := 0
	for i := range xs {
		if !c.interp.InBounds(xs[i], ys[i]) {
			dst[i] = fill
			outside++
			continue
		}
		dst[i] = c.interp.At(xs[i], ys[i])
	}
	return outside, nil
}
