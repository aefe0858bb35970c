package resampler

import (
	"log/slog"

	"github.com/tphakala/go-grid-resampler/internal/engine"
)

// Center returns the rotation centre ((width-1)/2, (height-1)/2) of a grid.
func Center[T Number](g *Grid[T]) (float64, float64) {
	return engine.Center(g.width, g.height)
}

// Rotate returns g rotated by angle radians about its centre, in the sense
// of increasing atan2(y, x) with x along columns and y along rows. Cells
// whose pre-image lies outside the grid, after snapping to the nearest
// sample, are set to zero. A nil cfg selects the defaults.
func Rotate[T Number](g *Grid[T], angle float64, cfg *Config) (*Grid[float64], error) {
	cg, err := NewCoefficientGrid(g, cfg)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		cfg = &Config{}
	}
	return rotate(cg, angle, cfg), nil
}

// Recenter returns g translated so that the source point (cx, cy) lands on
// the grid centre. Cells whose pre-image lies outside the grid are set to
// zero. A nil cfg selects the defaults.
func Recenter[T Number](g *Grid[T], cx, cy float64, cfg *Config) (*Grid[float64], error) {
	cg, err := NewCoefficientGrid(g, cfg)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		cfg = &Config{}
	}
	return recenter(cg, cx, cy, cfg), nil
}

func rotate(cg *CoefficientGrid, angle float64, cfg *Config) *Grid[float64] {
	out, filled := engine.Rotate(cg.interp, angle, cfg.workers())
	if filled > 0 {
		cfg.logger().Debug("rotation zero-filled cells outside the source grid",
			slog.Float64("angle", angle),
			slog.Int("cells", filled),
			slog.Int("width", out.Width),
			slog.Int("height", out.Height))
	}
	return gridFromPlane(out)
}

func recenter(cg *CoefficientGrid, cx, cy float64, cfg *Config) *Grid[float64] {
	out, filled := engine.Recenter(cg.interp, cx, cy, cfg.workers())
	if filled > 0 {
		cfg.logger().Debug("recenter zero-filled cells outside the source grid",
			slog.Float64("cx", cx),
			slog.Float64("cy", cy),
			slog.Int("cells", filled))
	}
	return gridFromPlane(out)
}
