package filter

// Kernel limits
const (
	// MaxKernelDegree is the highest spline degree with a weight table.
	MaxKernelDegree = 9
)

// Closed-form quadratic constants
const (
	quadraticCenter = 0.5  // Offset from the window origin to the kernel centre
	quadraticPeak   = 0.75 // β²(0)
)

// Frequency response defaults
const (
	defaultFFTSize    = 4096
	minFFTSize        = 16
	minMagnitudeDB    = -300.0 // Floor for log of zero magnitude
	decibelsPerDecade = 20.0
	nyquistNormalized = 0.5
	defaultOversample = 1
	magnitudeFloorLin = 1e-15
)
