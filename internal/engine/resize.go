package engine

import (
	"fmt"

	"github.com/tphakala/go-grid-resampler/internal/mathutil"
	"github.com/tphakala/go-grid-resampler/internal/pipeline"
	"github.com/tphakala/simd/f64"
)

// AxisResizer executes one axis plan over lines of samples.
// It holds no per-line state and is safe for concurrent use as long as each
// goroutine brings its own LineBuffer.
type AxisResizer struct {
	plan   *pipeline.AxisPlan
	interp *Converter
	corr   *Converter
}

// NewAxisResizer prepares the prefilters of plan.
func NewAxisResizer(plan *pipeline.AxisPlan) (*AxisResizer, error) {
	deg := plan.Spec.Degrees
	interp, err := NewConverter(deg.Interpolation, plan.Spec.Tolerance)
	if err != nil {
		return nil, fmt.Errorf("interpolation prefilter: %w", err)
	}
	corr, err := NewConverter(deg.Correction(), plan.Spec.Tolerance)
	if err != nil {
		return nil, fmt.Errorf("correction prefilter: %w", err)
	}
	return &AxisResizer{
		plan:   plan,
		interp: interp,
		corr:   corr,
	}, nil
}

// Plan returns the axis plan.
func (r *AxisResizer) Plan() *pipeline.AxisPlan { return r.plan }

// ResizeLine resizes src (InputLen samples) into dst (OutputLen samples).
func (r *AxisResizer) ResizeLine(dst, src []float64, buf *pipeline.LineBuffer) {
	plan := r.plan
	if plan.Identity() {
		copy(dst, src)
		return
	}

	line := buf.Line
	copy(line, src)
	avg := f64.Sum(line) / float64(len(line))
	addScalar(line, -avg)

	r.interp.ConvertLine(line)

	ext := buf.Ext
	plan.Extender.Fill(ext, line, plan.ExtStart)

	// The zoom tables already carry the integration and the differences.
	coeffs := buf.Zoom
	for q := range plan.TapCount() {
		coeffs[q] = f64.DotProductUnsafe(plan.TapWeights(q), ext[plan.IndexMin[q]:plan.IndexMax[q]+1])
	}

	r.corr.ConvertLine(coeffs)

	synthesize(dst, coeffs, plan.Taps, buf.Padded)
	addScalar(dst, avg)
}

// ResizeRows resizes every row of src along x.
func (r *AxisResizer) ResizeRows(src *Plane, workers int) (*Plane, error) {
	if src.Width != r.plan.Spec.InputLen {
		return nil, fmt.Errorf("%w: plane width %d, plan expects %d",
			mathutil.ErrIncompatibleShape, src.Width, r.plan.Spec.InputLen)
	}
	out := &Plane{Width: r.plan.OutputLen, Height: src.Height,
		Data: make([]float64, r.plan.OutputLen*src.Height)}

	forEachChunk(src.Height, workers, func(start, end int) {
		buf := pipeline.NewLineBuffer(r.plan)
		for y := start; y < end; y++ {
			r.ResizeLine(out.Row(y), src.Row(y), buf)
		}
	})
	return out, nil
}

// ResizeColumns resizes every column of src along y.
func (r *AxisResizer) ResizeColumns(src *Plane, workers int) (*Plane, error) {
	if src.Height != r.plan.Spec.InputLen {
		return nil, fmt.Errorf("%w: plane height %d, plan expects %d",
			mathutil.ErrIncompatibleShape, src.Height, r.plan.Spec.InputLen)
	}
	out := &Plane{Width: src.Width, Height: r.plan.OutputLen,
		Data: make([]float64, src.Width*r.plan.OutputLen)}

	forEachChunk(src.Width, workers, func(start, end int) {
		buf := pipeline.NewLineBuffer(r.plan)
		in := make([]float64, src.Height)
		res := make([]float64, r.plan.OutputLen)
		for x := start; x < end; x++ {
			src.column(in, x)
			r.ResizeLine(res, in, buf)
			out.setColumn(x, res)
		}
	})
	return out, nil
}

// synthesize filters coeffs with the symmetric taps into dst using a
// whole-sample mirror at both ends.
func synthesize(dst, coeffs, taps, padded []float64) {
	half := len(taps) / 2
	if half == 0 {
		copy(dst, coeffs)
		return
	}
	n := len(coeffs)
	for i := range padded {
		padded[i] = coeffs[mathutil.MirrorIndex(i-half, n)]
	}
	f64.ConvolveValid(dst, padded, taps)
}

func addScalar(s []float64, v float64) {
	for i := range s {
		s[i] += v
	}
}
