// Command analyze-filter prints the gain and frequency response of the
// B-spline kernels and of the zoom convolution tables built for each quality
// preset.
package main

import (
	"flag"
	"fmt"
	"log"
	"math"

	"github.com/tphakala/go-grid-resampler/internal/filter"
	"github.com/tphakala/go-grid-resampler/internal/mathutil"
	"github.com/tphakala/go-grid-resampler/internal/pipeline"
)

const (
	defaultOversample = 32   // Kernel samples per input sample
	defaultFFTSize    = 8192 // Points for the numeric response
	defaultInputLen   = 512  // Axis length for zoom table analysis
	nyquist           = 0.5  // Cycles per sample
)

// Frequencies reported for the cardinal spline response.
var probeFrequencies = []float64{0.1, 0.25, 0.4, 0.45, nyquist}

var presets = []struct {
	name    string
	degrees pipeline.Degrees
}{
	{"quick", pipeline.Degrees{Interpolation: 1, Analysis: -1, Synthesis: 1}},
	{"low", pipeline.Degrees{Interpolation: 3, Analysis: -1, Synthesis: 3}},
	{"medium", pipeline.Degrees{Interpolation: 3, Analysis: 0, Synthesis: 3}},
	{"high", pipeline.Degrees{Interpolation: 3, Analysis: 3, Synthesis: 3}},
	{"very-high", pipeline.Degrees{Interpolation: 5, Analysis: 3, Synthesis: 5}},
}

var zooms = []struct {
	zoom float64
	name string
}{
	{0.5, "2x reduction"},
	{44100.0 / 48000.0, "48k -> 44.1k"},
	{1.0 / 3.0, "3x reduction"},
	{1.5, "3:2 enlargement"},
	{2.0, "2x enlargement"},
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	oversample := flag.Int("oversample", defaultOversample, "Kernel samples per input sample")
	inputLen := flag.Int("n", defaultInputLen, "Axis length for zoom table analysis")
	flag.Parse()

	fmt.Println("=== B-spline Kernels ===")
	for degree := mathutil.MinDegree; degree <= mathutil.MaxDegree; degree++ {
		if err := analyzeKernel(degree, *oversample); err != nil {
			return err
		}
	}

	fmt.Println("\n=== Zoom Convolution DC Gain ===")
	for _, z := range zooms {
		fmt.Printf("\n%s (zoom = %.6f)\n", z.name, z.zoom)
		for _, p := range presets {
			if err := analyzeZoom(p.name, p.degrees, *inputLen, z.zoom); err != nil {
				return err
			}
		}
	}
	return nil
}

// analyzeKernel compares the numeric spectrum of the oversampled B-spline
// with sinc^(n+1) and prints the response of the cardinal spline, the
// B-spline divided by its sampled spectrum.
func analyzeKernel(degree, oversample int) error {
	poles, err := mathutil.Poles(degree)
	if err != nil {
		return err
	}
	horizons := make([]int, len(poles))
	for i, z := range poles {
		horizons[i] = mathutil.Horizon(z, mathutil.DefaultTolerance)
	}

	taps := filter.SampledKernel(degree)
	var dc float64
	for _, t := range taps {
		dc += t
	}

	impulse := oversampledKernel(degree, oversample)
	response := filter.ComputeFrequencyResponse(impulse, oversample, defaultFFTSize)

	fmt.Printf("\nDegree %d: poles %v, gain %.6f, horizons %v, sampled DC %.12f\n",
		degree, poles, mathutil.Gain(poles), horizons, dc)
	for _, f := range probeFrequencies {
		analytic := filter.BSplineSpectrum(degree, f)
		numeric := response.MagnitudeAt(f)
		cardinal := analytic / sampledSpectrum(taps, f)
		fmt.Printf("  f=%.2f  B-spline %8.2f dB (numeric %8.2f dB)  cardinal %8.2f dB\n",
			f, filter.MagnitudeDB(analytic), filter.MagnitudeDB(numeric), filter.MagnitudeDB(math.Abs(cardinal)))
	}
	return nil
}

// oversampledKernel samples β^n on a grid of 1/oversample covering its
// support.
func oversampledKernel(degree, oversample int) []float64 {
	half := float64(degree+1) / 2
	count := (degree+1)*oversample + 1
	out := make([]float64, count)
	for i := range out {
		x := -half + float64(i)/float64(oversample)
		out[i] = filter.BSpline(degree, x)
	}
	return out
}

// sampledSpectrum evaluates the transfer function of symmetric FIR taps.
func sampledSpectrum(taps []float64, f float64) float64 {
	half := len(taps) / 2
	var sum float64
	for i, t := range taps {
		sum += t * math.Cos(2*math.Pi*f*float64(i-half))
	}
	return sum
}

// analyzeZoom builds the axis plan and reports the spread of the per-tap
// weight sums, which must all be one, and the synthesis tap DC gain.
func analyzeZoom(name string, degrees pipeline.Degrees, n int, zoom float64) error {
	plan, err := pipeline.BuildAxisPlan(pipeline.AxisSpec{
		InputLen:  n,
		Zoom:      zoom,
		Degrees:   degrees,
		Boundary:  mathutil.BoundarySymmetric,
		Tolerance: mathutil.DefaultResizeTolerance,
	})
	if err != nil {
		return fmt.Errorf("%s at zoom %g: %w", name, zoom, err)
	}

	minGain, maxGain := math.Inf(1), math.Inf(-1)
	for q := range plan.TapCount() {
		var sum float64
		for _, w := range plan.TapWeights(q) {
			sum += w
		}
		minGain = min(minGain, sum)
		maxGain = max(maxGain, sum)
	}

	var synth float64
	for _, t := range plan.Taps {
		synth += t
	}

	fmt.Printf("  %-9s out %4d  window %3d  kernel degree %d  weight sums [%.12f, %.12f]  synthesis DC %.12f\n",
		name, plan.OutputLen, plan.Stride, plan.TotalDegree, minGain, maxGain, synth)
	return nil
}
