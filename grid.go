package resampler

import (
	"fmt"
	"math"

	"github.com/tphakala/go-grid-resampler/internal/engine"
)

// Number is the set of sample types a Grid can hold.
type Number interface {
	int8 | uint8 | int16 | uint16 | int32 | uint32 | float32 | float64
}

// Grid is a dense width x height array of samples addressed (x, y) =
// (column, row) and stored row-major. A Grid owns its storage: constructors
// copy caller data and transforms return new grids.
type Grid[T Number] struct {
	width  int
	height int
	data   []T
}

// NewGrid allocates a zeroed grid.
func NewGrid[T Number](width, height int) (*Grid[T], error) {
	if width < 1 || height < 1 {
		return nil, fmt.Errorf("%w: grid must be at least 1x1, got %dx%d",
			ErrIncompatibleShape, width, height)
	}
	return &Grid[T]{width: width, height: height, data: make([]T, width*height)}, nil
}

// NewGridFromData copies row-major data into a new grid.
func NewGridFromData[T Number](width, height int, data []T) (*Grid[T], error) {
	g, err := NewGrid[T](width, height)
	if err != nil {
		return nil, err
	}
	if len(data) != width*height {
		return nil, fmt.Errorf("%w: %d samples for %dx%d grid",
			ErrIncompatibleShape, len(data), width, height)
	}
	copy(g.data, data)
	return g, nil
}

// Width returns the number of columns.
func (g *Grid[T]) Width() int { return g.width }

// Height returns the number of rows.
func (g *Grid[T]) Height() int { return g.height }

// At returns the sample at column x, row y. It panics outside the grid.
func (g *Grid[T]) At(x, y int) T {
	g.check(x, y)
	return g.data[y*g.width+x]
}

// Set stores v at column x, row y. It panics outside the grid.
func (g *Grid[T]) Set(x, y int, v T) {
	g.check(x, y)
	g.data[y*g.width+x] = v
}

// Data returns a row-major copy of the samples.
func (g *Grid[T]) Data() []T {
	out := make([]T, len(g.data))
	copy(out, g.data)
	return out
}

// Clone returns a deep copy.
func (g *Grid[T]) Clone() *Grid[T] {
	return &Grid[T]{width: g.width, height: g.height, data: g.Data()}
}

// SameShape reports whether both grids have equal dimensions.
func (g *Grid[T]) SameShape(width, height int) bool {
	return g.width == width && g.height == height
}

// Float64 returns the grid converted to float64.
func (g *Grid[T]) Float64() *Grid[float64] {
	return &Grid[float64]{width: g.width, height: g.height, data: toFloat64(g.data)}
}

func (g *Grid[T]) check(x, y int) {
	if x < 0 || x >= g.width || y < 0 || y >= g.height {
		panic(fmt.Sprintf("resampler: index (%d, %d) outside %dx%d grid", x, y, g.width, g.height))
	}
}

// sample returns the value at (x, y) as float64 without bounds checks.
func (g *Grid[T]) sample(x, y int) float64 {
	return float64(g.data[y*g.width+x])
}

// plane returns a float64 working copy of the grid.
func (g *Grid[T]) plane() *engine.Plane {
	return &engine.Plane{Width: g.width, Height: g.height, Data: toFloat64(g.data)}
}

// gridFromPlane takes ownership of the plane data.
func gridFromPlane(p *engine.Plane) *Grid[float64] {
	return &Grid[float64]{width: p.Width, height: p.Height, data: p.Data}
}

func toFloat64[T Number](src []T) []float64 {
	out := make([]float64, len(src))
	for i, v := range src {
		out[i] = float64(v)
	}
	return out
}

// Convert turns a float64 grid into element type T. Integer types are
// rounded half away from zero and saturated at the limits of T; NaN becomes
// zero. Float types convert directly.
func Convert[T Number](g *Grid[float64]) *Grid[T] {
	out := &Grid[T]{width: g.width, height: g.height, data: make([]T, len(g.data))}
	lo, hi, integer := limits[T]()
	if !integer {
		for i, v := range g.data {
			out.data[i] = T(v)
		}
		return out
	}
	for i, v := range g.data {
		switch {
		case math.IsNaN(v):
			out.data[i] = 0
		case v <= lo:
			out.data[i] = T(lo)
		case v >= hi:
			out.data[i] = T(hi)
		default:
			out.data[i] = T(math.Round(v))
		}
	}
	return out
}

// limits returns the representable range of an integer T.
func limits[T Number]() (lo, hi float64, integer bool) {
	var zero T
	switch any(zero).(type) {
	case int8:
		return math.MinInt8, math.MaxInt8, true
	case uint8:
		return 0, math.MaxUint8, true
	case int16:
		return math.MinInt16, math.MaxInt16, true
	case uint16:
		return 0, math.MaxUint16, true
	case int32:
		return math.MinInt32, math.MaxInt32, true
	case uint32:
		return 0, math.MaxUint32, true
	default:
		return 0, 0, false
	}
}
