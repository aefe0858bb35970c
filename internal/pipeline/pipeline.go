// Package pipeline builds the per-axis plans of the separable resize.
//
// A plan fixes the output length, the stage sequence and the zoom
// convolution tables (first coefficient index and weights per output tap)
// for one axis. Plans are built once and never mutated, so a single plan
// can drive any number of lines concurrently.
package pipeline

import (
	"fmt"
	"math"

	"github.com/tphakala/go-grid-resampler/internal/filter"
	"github.com/tphakala/go-grid-resampler/internal/mathutil"
)

// StageType identifies a step of the line pipeline.
type StageType int

const (
	// StageCopy passes the line through unchanged (unit zoom, no shift).
	StageCopy StageType = iota

	// StageMeanRemoval subtracts the line mean and restores it at the end.
	StageMeanRemoval

	// StageInterpolationCoefficients converts samples to spline coefficients.
	StageInterpolationCoefficients

	// StageIntegration is the running sums of the analysis step. They are
	// folded, transposed, into the zoom tables.
	StageIntegration

	// StageZoomConvolution evaluates the combined spline at the output taps.
	StageZoomConvolution

	// StageDifference is the finite differences that undo the integration,
	// also folded into the zoom tables.
	StageDifference

	// StageCorrection applies the correction coefficients of degree
	// analysis+synthesis+1.
	StageCorrection

	// StageSynthesisFIR reconstructs samples with the sampled B-spline taps.
	StageSynthesisFIR
)

// String returns the stage name.
func (s StageType) String() string {
	switch s {
	case StageCopy:
		return "copy"
	case StageMeanRemoval:
		return "mean-removal"
	case StageInterpolationCoefficients:
		return "interpolation-coefficients"
	case StageIntegration:
		return "integration"
	case StageZoomConvolution:
		return "zoom-convolution"
	case StageDifference:
		return "difference"
	case StageCorrection:
		return "correction"
	case StageSynthesisFIR:
		return "synthesis-fir"
	default:
		return fmt.Sprintf("StageType(%d)", int(s))
	}
}

// Degrees holds the three spline degrees of a resize.
type Degrees struct {
	Interpolation int // n, 0 to 9
	Analysis      int // n1, -1 disables the analysis step
	Synthesis     int // n2, 0 to 7
}

// Total returns the degree n+n1+1 of the zoom convolution kernel.
func (d Degrees) Total() int { return d.Interpolation + d.Analysis + 1 }

// Correction returns the degree n1+n2+1 of the correction prefilter.
func (d Degrees) Correction() int { return d.Analysis + d.Synthesis + 1 }

// Validate checks every degree and the derived degrees against their limits.
func (d Degrees) Validate() error {
	switch {
	case d.Interpolation < 0 || d.Interpolation > mathutil.MaxDegree:
		return fmt.Errorf("%w: interpolation degree %d not in [0, %d]",
			mathutil.ErrUnsupportedDegree, d.Interpolation, mathutil.MaxDegree)
	case d.Analysis < noAnalysis || d.Analysis > mathutil.MaxDegree:
		return fmt.Errorf("%w: analysis degree %d not in [%d, %d]",
			mathutil.ErrUnsupportedDegree, d.Analysis, noAnalysis, mathutil.MaxDegree)
	case d.Synthesis < 0 || d.Synthesis > maxSynthesisDegree:
		return fmt.Errorf("%w: synthesis degree %d not in [0, %d]",
			mathutil.ErrUnsupportedDegree, d.Synthesis, maxSynthesisDegree)
	case d.Total() > mathutil.MaxDegree:
		return fmt.Errorf("%w: interpolation+analysis+1 = %d exceeds %d",
			mathutil.ErrUnsupportedDegree, d.Total(), mathutil.MaxDegree)
	case d.Correction() > mathutil.MaxDegree:
		return fmt.Errorf("%w: analysis+synthesis+1 = %d exceeds %d",
			mathutil.ErrUnsupportedDegree, d.Correction(), mathutil.MaxDegree)
	}
	return nil
}

// AxisSpec describes the resize of one axis.
type AxisSpec struct {
	InputLen   int
	Zoom       float64
	Shift      float64 // Extra translation in input samples
	Invertible bool
	Degrees    Degrees
	Boundary   mathutil.BoundaryMode
	Tolerance  float64
}

// AxisPlan is the immutable execution plan of one axis.
type AxisPlan struct {
	Spec AxisSpec

	// OutputLen is the number of output samples.
	OutputLen int

	// WorkingLen is the input length after the invertible size search
	// (equal to InputLen otherwise).
	WorkingLen int

	// Order is the number of integration passes (analysis degree + 1).
	Order int

	// TotalDegree is the degree of the zoom convolution kernel.
	TotalDegree int

	// ExtStart is the first input index covered by the extended buffer and
	// ExtLen its length.
	ExtStart int
	ExtLen   int

	// IndexMin and IndexMax bound, relative to ExtStart, the coefficients
	// read by output sample q. Tap q keeps its IndexMax-IndexMin+1 weights
	// at Weights[q*Stride:].
	IndexMin []int
	IndexMax []int
	Weights  []float64
	Stride   int

	// Taps are the symmetric synthesis FIR taps.
	Taps []float64

	// Extender folds input indices for the extended buffer.
	Extender mathutil.Extender

	Stages []StageType
}

// Identity reports whether the axis is copied unchanged.
func (p *AxisPlan) Identity() bool {
	return len(p.Stages) == 1 && p.Stages[0] == StageCopy
}

// TapCount returns the number of zoom convolution taps, one per output
// sample.
func (p *AxisPlan) TapCount() int {
	return len(p.IndexMin)
}

// TapWeights returns the weights of tap q.
func (p *AxisPlan) TapWeights(q int) []float64 {
	start := q * p.Stride
	return p.Weights[start : start+p.IndexMax[q]-p.IndexMin[q]+1]
}

// MemoryUsage returns the approximate bytes held by the plan tables plus one
// line of working buffers.
func (p *AxisPlan) MemoryUsage() int64 {
	tables := len(p.Weights) + len(p.Taps)
	ints := len(p.IndexMin) + len(p.IndexMax)
	return int64(tables+p.lineBufferLen())*bytesPerFloat64 + int64(ints)*bytesPerInt
}

// OutputSize returns the output length and the working length for an axis of
// n samples scaled by zoom.
//
// The non-invertible size is round(n*zoom). The invertible size grows the
// working length w from n until round(round((w-1)*zoom)/zoom) == w-1 and
// returns round((w-1)*zoom)+1; the search gives up after
// maxInvertibleSearch steps. Outputs longer than MaxAxisLen are rejected.
func OutputSize(n int, zoom float64, invertible bool) (int, int, error) {
	if n < 1 {
		return 0, 0, fmt.Errorf("%w: axis length %d", mathutil.ErrIncompatibleShape, n)
	}
	if !(zoom > 0) || math.IsInf(zoom, 0) {
		return 0, 0, fmt.Errorf("%w: zoom %g must be positive and finite", mathutil.ErrInvalidConfig, zoom)
	}

	if float64(n)*zoom > MaxAxisLen {
		return 0, 0, fmt.Errorf("%w: zoom %g of %d samples exceeds %d output samples",
			mathutil.ErrInvalidConfig, zoom, n, MaxAxisLen)
	}

	if !invertible {
		out := int(math.Round(float64(n) * zoom))
		if out < 1 {
			return 0, 0, fmt.Errorf("%w: zoom %g leaves no samples from %d", mathutil.ErrInvalidConfig, zoom, n)
		}
		return out, n, nil
	}

	w := n
	for range maxInvertibleSearch {
		span := float64(w - 1)
		scaled := math.Round(span * zoom)
		if math.Round(scaled/zoom) == span {
			if scaled >= MaxAxisLen {
				return 0, 0, fmt.Errorf("%w: invertible size %d exceeds %d output samples",
					mathutil.ErrInvalidConfig, int(scaled)+1, MaxAxisLen)
			}
			return int(scaled) + 1, w, nil
		}
		w++
	}
	return 0, 0, fmt.Errorf("%w: no invertible size for %d samples at zoom %g within %d steps",
		mathutil.ErrInvalidConfig, n, zoom, maxInvertibleSearch)
}

// BuildAxisPlan validates spec and precomputes the tables of one axis.
func BuildAxisPlan(spec AxisSpec) (*AxisPlan, error) {
	if err := spec.Degrees.Validate(); err != nil {
		return nil, err
	}
	if !(spec.Tolerance > 0 && spec.Tolerance < 1) {
		return nil, fmt.Errorf("%w: tolerance %g must be in (0, 1)", mathutil.ErrInvalidConfig, spec.Tolerance)
	}
	if math.IsNaN(spec.Shift) || math.IsInf(spec.Shift, 0) {
		return nil, fmt.Errorf("%w: shift must be finite", mathutil.ErrInvalidConfig)
	}

	outLen, workLen, err := OutputSize(spec.InputLen, spec.Zoom, spec.Invertible)
	if err != nil {
		return nil, err
	}

	ext, err := mathutil.NewExtender(spec.InputLen, spec.Boundary)
	if err != nil {
		return nil, err
	}

	plan := &AxisPlan{
		Spec:        spec,
		OutputLen:   outLen,
		WorkingLen:  workLen,
		Order:       spec.Degrees.Analysis + 1,
		TotalDegree: spec.Degrees.Total(),
		Extender:    ext,
	}

	if spec.Zoom == 1 && spec.Shift == 0 {
		plan.Stages = []StageType{StageCopy}
		return plan, nil
	}

	plan.Stages = stagesFor(spec.Degrees)
	plan.Taps = filter.SampledKernel(spec.Degrees.Synthesis)
	if err := plan.buildZoomTables(); err != nil {
		return nil, err
	}
	return plan, nil
}

// Origin returns the input coordinate of output sample 0.
func (p *AxisPlan) Origin() float64 {
	if p.Spec.Invertible {
		return p.Spec.Shift
	}
	return pixelCenterOffset/p.Spec.Zoom - pixelCenterOffset + p.Spec.Shift
}

// buildZoomTables evaluates the window of every zoom tap
//
//	u_q = origin + (q - m/2)/zoom - m/2,  q = 0 .. OutputLen+m-1
//
// with the kernel of degree n+n1+1, where m is the integration order.
//
// Integrating the line m times, sampling it at the taps and taking m
// forward differences is linear, so output sample q only depends on the
// coefficients under taps q..q+m. The differences are applied to the tap
// weights and the running sums are applied transposed (as suffix sums over
// that window). Weights outside the window cancel because the kernel
// reproduces polynomials of degree below m. Rounding error then depends on
// the window width and not on the line length.
func (p *AxisPlan) buildZoomTables() error {
	kernel, err := filter.NewKernel(p.TotalDegree)
	if err != nil {
		return err
	}

	m := float64(p.Order)
	step := 1 / p.Spec.Zoom
	origin := p.Origin()
	count := p.OutputLen + p.Order
	width := kernel.Width()

	raw := make([]float64, count*width)
	starts := make([]int, count)
	for q := range count {
		u := origin + step*(float64(q)-m/2) - m/2
		starts[q] = kernel.Weights(raw[q*width:(q+1)*width], u)
	}

	lo := make([]int, p.OutputLen)
	hi := make([]int, p.OutputLen)
	p.Stride = 0
	for q := range p.OutputLen {
		lo[q], hi[q] = starts[q], starts[q]
		for k := 1; k <= p.Order; k++ {
			lo[q] = min(lo[q], starts[q+k])
			hi[q] = max(hi[q], starts[q+k])
		}
		hi[q] += width - 1
		p.Stride = max(p.Stride, hi[q]-lo[q]+1)
	}

	signs := differenceWeights(p.Order)
	scale := math.Pow(p.Spec.Zoom, m)
	p.Weights = make([]float64, p.OutputLen*p.Stride)
	for q := range p.OutputLen {
		w := p.Weights[q*p.Stride : q*p.Stride+hi[q]-lo[q]+1]
		for k, sign := range signs {
			off := starts[q+k] - lo[q]
			for i, v := range raw[(q+k)*width : (q+k+1)*width] {
				w[off+i] += sign * v
			}
		}
		for range p.Order {
			for i := len(w) - 2; i >= 0; i-- {
				w[i] += w[i+1]
			}
		}
		if p.Order > 0 {
			for i := range w {
				w[i] *= scale
			}
		}
	}

	p.ExtStart = lo[0]
	last := hi[0]
	for q := range p.OutputLen {
		p.ExtStart = min(p.ExtStart, lo[q])
		last = max(last, hi[q])
	}
	p.ExtLen = last + 1 - p.ExtStart

	p.IndexMin = make([]int, p.OutputLen)
	p.IndexMax = make([]int, p.OutputLen)
	for q := range p.OutputLen {
		p.IndexMin[q] = lo[q] - p.ExtStart
		p.IndexMax[q] = hi[q] - p.ExtStart
	}
	return nil
}

// differenceWeights returns the weights (-1)^(m-k) C(m, k), k = 0..m, of the
// m-th forward difference.
func differenceWeights(m int) []float64 {
	w := make([]float64, m+1)
	c := 1.0
	for k := range w {
		w[k] = c
		if (m-k)%2 == 1 {
			w[k] = -c
		}
		c = c * float64(m-k) / float64(k+1)
	}
	return w
}

func stagesFor(d Degrees) []StageType {
	stages := []StageType{StageMeanRemoval}
	if d.Interpolation >= minPrefilterDegree {
		stages = append(stages, StageInterpolationCoefficients)
	}
	if d.Analysis >= 0 {
		stages = append(stages, StageIntegration)
	}
	stages = append(stages, StageZoomConvolution)
	if d.Analysis >= 0 {
		stages = append(stages, StageDifference)
	}
	if d.Correction() >= minPrefilterDegree {
		stages = append(stages, StageCorrection)
	}
	if d.Synthesis >= minPrefilterDegree {
		stages = append(stages, StageSynthesisFIR)
	}
	return stages
}
