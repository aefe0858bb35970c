package engine

import (
	"fmt"
	"math"

	"github.com/tphakala/go-grid-resampler/internal/mathutil"
	"github.com/tphakala/simd/f64"
)

// Converter turns samples into B-spline coefficients by running the
// causal/anticausal recursive prefilter once per pole.
//
// A Converter is immutable after construction and safe for concurrent use.
type Converter struct {
	degree    int
	poles     []float64
	horizons  []int
	gain      float64
	tolerance float64
}

// NewConverter creates a converter for degree 0 to 9. Degrees 0 and 1 have
// no poles and leave samples unchanged. The tolerance bounds the truncation
// error of the causal initialisation and must lie in (0, 1).
func NewConverter(degree int, tolerance float64) (*Converter, error) {
	if !(tolerance > 0 && tolerance < 1) {
		return nil, fmt.Errorf("%w: tolerance %g must be in (0, 1)", mathutil.ErrInvalidConfig, tolerance)
	}
	poles, err := mathutil.Poles(degree)
	if err != nil {
		return nil, err
	}

	horizons := make([]int, len(poles))
	for i, z := range poles {
		horizons[i] = mathutil.Horizon(z, tolerance)
	}

	return &Converter{
		degree:    degree,
		poles:     poles,
		horizons:  horizons,
		gain:      mathutil.Gain(poles),
		tolerance: tolerance,
	}, nil
}

// Degree returns the spline degree.
func (c *Converter) Degree() int { return c.degree }

// Tolerance returns the causal initialisation tolerance.
func (c *Converter) Tolerance() float64 { return c.tolerance }

// ConvertLine replaces the samples in line with their spline coefficients.
func (c *Converter) ConvertLine(line []float64) {
	n := len(line)
	if n < 2 || len(c.poles) == 0 {
		return
	}

	f64.Scale(line, line, c.gain)

	for p, z := range c.poles {
		line[0] = causalInit(line, z, c.horizons[p])
		for i := 1; i < n; i++ {
			line[i] += z * line[i-1]
		}

		line[n-1] = anticausalInit(line, z)
		for i := n - 2; i >= 0; i-- {
			line[i] = z * (line[i+1] - line[i])
		}
	}
}

// ConvertPlane converts p in place: every row, then every column.
func (c *Converter) ConvertPlane(p *Plane, workers int) {
	if len(c.poles) == 0 {
		return
	}

	if p.Width > 1 {
		forEachChunk(p.Height, workers, func(start, end int) {
			for y := start; y < end; y++ {
				c.ConvertLine(p.Row(y))
			}
		})
	}

	if p.Height > 1 {
		forEachChunk(p.Width, workers, func(start, end int) {
			col := make([]float64, p.Height)
			for x := start; x < end; x++ {
				p.column(col, x)
				c.ConvertLine(col)
				p.setColumn(x, col)
			}
		})
	}
}

// causalInit returns the initial value of the causal recursion assuming a
// whole-sample mirror extension of the line.
func causalInit(c []float64, z float64, horizon int) float64 {
	n := len(c)

	if horizon < n {
		zn := z
		sum := c[0]
		for k := 1; k < horizon; k++ {
			sum += zn * c[k]
			zn *= z
		}
		return sum
	}

	// Full closed form over the mirrored period.
	zn := z
	iz := 1 / z
	z2n := math.Pow(z, float64(n-1))
	sum := c[0] + z2n*c[n-1]
	z2n *= z2n * iz
	for k := 1; k <= n-2; k++ {
		sum += (zn + z2n) * c[k]
		zn *= z
		z2n *= iz
	}
	return sum / (1 - zn*zn)
}

// anticausalInit returns the initial value of the anticausal recursion.
func anticausalInit(c []float64, z float64) float64 {
	n := len(c)
	return (z / (z*z - 1)) * (z*c[n-2] + c[n-1])
}
