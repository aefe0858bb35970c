package resampler

import "github.com/tphakala/go-grid-resampler/internal/mathutil"

// Spline defaults
const (
	// DefaultDegree is the point interpolation degree used when Config.Degree is zero.
	DefaultDegree = 3

	// MinDegree and MaxDegree bound the point interpolation degree.
	MinDegree = mathutil.MinDegree
	MaxDegree = mathutil.MaxDegree

	// DefaultTolerance truncates the causal initialisation of the
	// interpolation prefilter.
	DefaultTolerance = mathutil.DefaultTolerance

	// DefaultResizeTolerance is the prefilter tolerance of the resize pipeline.
	DefaultResizeTolerance = mathutil.DefaultResizeTolerance
)

// Quality preset degrees (interpolation, analysis, synthesis)
const (
	quickInterpolation = 1
	quickAnalysis      = -1
	quickSynthesis     = 1

	lowInterpolation = 3
	lowAnalysis      = -1
	lowSynthesis     = 3

	mediumInterpolation = 3
	mediumAnalysis      = 0
	mediumSynthesis     = 3

	highInterpolation = 3
	highAnalysis      = 3
	highSynthesis     = 3

	veryHighInterpolation = 5
	veryHighAnalysis      = 3
	veryHighSynthesis     = 5
)

// Algorithm names reported by Info
const (
	algorithmCopy          = "copy"
	algorithmInterpolation = "spline interpolation"
	algorithmOblique       = "oblique projection"
	algorithmLeastSquares  = "least-squares projection"
)
