package resampler

import (
	"fmt"
	"log/slog"

	"github.com/tphakala/go-grid-resampler/internal/engine"
	"github.com/tphakala/go-grid-resampler/internal/pipeline"
	"github.com/tphakala/simd/cpu"
)

// Resizer scales grids of one input size by independent factors along x and
// y. The axis plans are built once; a Resizer holds no per-call state and
// is safe for concurrent use.
type Resizer struct {
	config  ResizeConfig
	quality QualitySpec
	width   int
	height  int
	workers int
	logger  *slog.Logger

	rows *engine.AxisResizer
	cols *engine.AxisResizer
}

// NewResizer prepares a resizer for width x height grids.
func NewResizer(width, height int, config *ResizeConfig) (*Resizer, error) {
	if config == nil {
		return nil, fmt.Errorf("%w: config is nil", ErrInvalidConfig)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if width < 1 || height < 1 {
		return nil, fmt.Errorf("%w: grid must be at least 1x1, got %dx%d",
			ErrIncompatibleShape, width, height)
	}

	quality := config.Quality.resolved()
	if err := quality.degrees().Validate(); err != nil {
		return nil, err
	}

	r := &Resizer{
		config:  *config,
		quality: quality,
		width:   width,
		height:  height,
		workers: config.workers(),
		logger:  config.logger(),
	}

	var err error
	r.rows, err = r.buildAxis("x", width, config.zoomX(), config.ShiftX)
	if err != nil {
		return nil, err
	}
	r.cols, err = r.buildAxis("y", height, config.zoomY(), config.ShiftY)
	if err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Resizer) buildAxis(axis string, n int, zoom, shift float64) (*engine.AxisResizer, error) {
	plan, err := pipeline.BuildAxisPlan(pipeline.AxisSpec{
		InputLen:   n,
		Zoom:       zoom,
		Shift:      shift,
		Invertible: r.config.Invertible,
		Degrees:    r.quality.degrees(),
		Boundary:   r.config.Boundary,
		Tolerance:  r.config.tolerance(),
	})
	if err != nil {
		return nil, fmt.Errorf("axis %s: %w", axis, err)
	}
	if plan.WorkingLen != n {
		r.logger.Debug("invertible size adjusted",
			slog.String("axis", axis),
			slog.Int("input", n),
			slog.Int("working", plan.WorkingLen),
			slog.Int("output", plan.OutputLen))
	}
	return engine.NewAxisResizer(plan)
}

// OutputSize returns the size of the grids produced by Process.
func (r *Resizer) OutputSize() (int, int) {
	return r.rows.Plan().OutputLen, r.cols.Plan().OutputLen
}

// Process resizes g, which must match the size the Resizer was built for.
// Rows are resized first, then columns.
func (r *Resizer) Process(g *Grid[float64]) (*Grid[float64], error) {
	if g == nil {
		return nil, fmt.Errorf("%w: grid is nil", ErrIncompatibleShape)
	}
	if !g.SameShape(r.width, r.height) {
		return nil, fmt.Errorf("%w: resizer expects %dx%d, got %dx%d",
			ErrIncompatibleShape, r.width, r.height, g.width, g.height)
	}
	return r.processPlane(g.plane())
}

func (r *Resizer) processPlane(p *engine.Plane) (*Grid[float64], error) {
	wide, err := r.rows.ResizeRows(p, r.workers)
	if err != nil {
		return nil, err
	}
	out, err := r.cols.ResizeColumns(wide, r.workers)
	if err != nil {
		return nil, err
	}
	return gridFromPlane(out), nil
}

// Info returns information about the resizer.
func (r *Resizer) Info() Info {
	px, py := r.rows.Plan(), r.cols.Plan()
	outW, outH := r.OutputSize()
	return Info{
		Algorithm:     r.algorithm(),
		Quality:       r.quality,
		InputWidth:    r.width,
		InputHeight:   r.height,
		WorkingWidth:  px.WorkingLen,
		WorkingHeight: py.WorkingLen,
		OutputWidth:   outW,
		OutputHeight:  outH,
		StagesX:       stageNames(px.Stages),
		StagesY:       stageNames(py.Stages),
		MemoryUsage:   px.MemoryUsage() + py.MemoryUsage(),
		Workers:       r.workers,
		SIMDType:      cpu.Info(),
	}
}

func (r *Resizer) algorithm() string {
	if r.rows.Plan().Identity() && r.cols.Plan().Identity() {
		return algorithmCopy
	}
	switch a := r.quality.AnalysisDegree; {
	case a < 0:
		return algorithmInterpolation
	case a == r.quality.InterpolationDegree:
		return algorithmLeastSquares
	default:
		return algorithmOblique
	}
}

func stageNames(stages []pipeline.StageType) []string {
	names := make([]string, len(stages))
	for i, s := range stages {
		names[i] = s.String()
	}
	return names
}

// Resize scales g by config.ZoomX and config.ZoomY.
func Resize[T Number](g *Grid[T], config *ResizeConfig) (*Grid[float64], error) {
	if g == nil {
		return nil, fmt.Errorf("%w: grid is nil", ErrIncompatibleShape)
	}
	r, err := NewResizer(g.width, g.height, config)
	if err != nil {
		return nil, err
	}
	return r.processPlane(g.plane())
}

// ResizeTo scales g to exactly width x height. The zoom factors in config
// are replaced by the size ratios; a nil config selects QualityHigh and
// allows enlargement. The invertible size rule does not apply here.
func ResizeTo[T Number](g *Grid[T], width, height int, config *ResizeConfig) (*Grid[float64], error) {
	if g == nil {
		return nil, fmt.Errorf("%w: grid is nil", ErrIncompatibleShape)
	}
	if width < 1 || height < 1 {
		return nil, fmt.Errorf("%w: target must be at least 1x1, got %dx%d",
			ErrIncompatibleShape, width, height)
	}
	cfg := ResizeConfig{AllowEnlarge: true, Quality: QualitySpec{Preset: QualityHigh}}
	if config != nil {
		cfg = *config
	}
	cfg.Invertible = false
	cfg.ZoomX = float64(width) / float64(g.width)
	cfg.ZoomY = float64(height) / float64(g.height)

	r, err := NewResizer(g.width, g.height, &cfg)
	if err != nil {
		return nil, err
	}
	if w, h := r.OutputSize(); w != width || h != height {
		return nil, fmt.Errorf("%w: ratio rounding gives %dx%d for requested %dx%d",
			ErrInvalidConfig, w, h, width, height)
	}
	return r.processPlane(g.plane())
}

// OutputSize returns the size a width x height grid takes under config
// without building a Resizer.
func OutputSize(width, height int, config *ResizeConfig) (int, int, error) {
	if config == nil {
		return 0, 0, fmt.Errorf("%w: config is nil", ErrInvalidConfig)
	}
	if err := config.Validate(); err != nil {
		return 0, 0, err
	}
	w, _, err := pipeline.OutputSize(width, config.zoomX(), config.Invertible)
	if err != nil {
		return 0, 0, fmt.Errorf("axis x: %w", err)
	}
	h, _, err := pipeline.OutputSize(height, config.zoomY(), config.Invertible)
	if err != nil {
		return 0, 0, fmt.Errorf("axis y: %w", err)
	}
	return w, h, nil
}
