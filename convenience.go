package resampler

import (
	"fmt"

	"github.com/tphakala/go-grid-resampler/internal/engine"
)

// Interpolate evaluates the spline of the given degree through g at (x, y).
// It builds the coefficients on every call; use a CoefficientGrid or a
// Session for repeated queries.
func Interpolate[T Number](g *Grid[T], x, y float64, degree int) (float64, error) {
	cg, err := NewCoefficientGrid(g, &Config{Degree: degree})
	if err != nil {
		return 0, err
	}
	return cg.Evaluate(x, y)
}

// Bilinear blends the four raw samples of g around (x, y), clamping the
// coordinates into the grid. Only those four samples are read.
func Bilinear[T Number](g *Grid[T], x, y float64) float64 {
	return engine.BilinearFunc(g.width, g.height, x, y, g.sample)
}

// BilinearSample evaluates Bilinear at every (xs[i], ys[j]) and returns a
// len(xs) x len(ys) grid. The samples are converted once for the batch.
func BilinearSample[T Number](g *Grid[T], xs, ys []float64) (*Grid[float64], error) {
	if g == nil {
		return nil, fmt.Errorf("%w: grid is nil", ErrIncompatibleShape)
	}
	out, err := NewGrid[float64](len(xs), len(ys))
	if err != nil {
		return nil, err
	}
	engine.BilinearPlane(out.data, g.plane(), xs, ys)
	return out, nil
}

// Zoom scales both axes of g by factor using a quality preset. Factors
// above 1 are allowed.
func Zoom[T Number](g *Grid[T], factor float64, quality QualityPreset) (*Grid[float64], error) {
	return Resize(g, &ResizeConfig{
		ZoomX:        factor,
		ZoomY:        factor,
		AllowEnlarge: true,
		Quality:      QualitySpec{Preset: quality},
	})
}

// Shrink reduces g by an integer factor with the least-squares preset,
// which suppresses the aliasing plain decimation would cause.
func Shrink[T Number](g *Grid[T], factor int) (*Grid[float64], error) {
	if factor < 1 {
		return nil, fmt.Errorf("%w: shrink factor %d must be at least 1", ErrInvalidConfig, factor)
	}
	z := 1 / float64(factor)
	return Resize(g, &ResizeConfig{ZoomX: z, ZoomY: z, Quality: QualitySpec{Preset: QualityHigh}})
}

// DeinterleaveChannels splits interleaved multi-channel samples
// [c0, c1, ..., c0, c1, ...] into one grid per channel.
func DeinterleaveChannels[T Number](width, height, channels int, interleaved []T) ([]*Grid[T], error) {
	if channels < 1 {
		return nil, fmt.Errorf("%w: channels must be at least 1", ErrInvalidConfig)
	}
	if len(interleaved) != width*height*channels {
		return nil, fmt.Errorf("%w: %d samples for %dx%d with %d channels",
			ErrIncompatibleShape, len(interleaved), width, height, channels)
	}
	grids := make([]*Grid[T], channels)
	for c := range grids {
		g, err := NewGrid[T](width, height)
		if err != nil {
			return nil, err
		}
		for i := range g.data {
			g.data[i] = interleaved[i*channels+c]
		}
		grids[c] = g
	}
	return grids, nil
}

// InterleaveChannels merges equally sized grids into interleaved samples.
func InterleaveChannels[T Number](grids []*Grid[T]) ([]T, error) {
	if len(grids) == 0 {
		return nil, fmt.Errorf("%w: no channels", ErrInvalidConfig)
	}
	w, h := grids[0].width, grids[0].height
	for c, g := range grids {
		if !g.SameShape(w, h) {
			return nil, fmt.Errorf("%w: channel %d is %dx%d, channel 0 is %dx%d",
				ErrIncompatibleShape, c, g.width, g.height, w, h)
		}
	}
	channels := len(grids)
	out := make([]T, w*h*channels)
	for c, g := range grids {
		for i, v := range g.data {
			out[i*channels+c] = v
		}
	}
	return out, nil
}

// ResizeChannels resizes every channel with one shared Resizer.
func ResizeChannels[T Number](grids []*Grid[T], config *ResizeConfig) ([]*Grid[float64], error) {
	if len(grids) == 0 {
		return nil, fmt.Errorf("%w: no channels", ErrInvalidConfig)
	}
	r, err := NewResizer(grids[0].width, grids[0].height, config)
	if err != nil {
		return nil, err
	}
	out := make([]*Grid[float64], len(grids))
	for c, g := range grids {
		if !g.SameShape(r.width, r.height) {
			return nil, fmt.Errorf("%w: channel %d is %dx%d, channel 0 is %dx%d",
				ErrIncompatibleShape, c, g.width, g.height, r.width, r.height)
		}
		if out[c], err = r.processPlane(g.plane()); err != nil {
			return nil, fmt.Errorf("channel %d: %w", c, err)
		}
	}
	return out, nil
}
