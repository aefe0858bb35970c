package pipeline

// Degree limits
const (
	noAnalysis         = -1 // Analysis degree that disables integration
	maxSynthesisDegree = 7
	minPrefilterDegree = 2 // Degrees below this have no poles
)

// Geometry
const (
	// pixelCenterOffset aligns output pixel centres with input pixel
	// centres: x_l = (l + 0.5)/zoom - 0.5.
	pixelCenterOffset = 0.5

	// maxInvertibleSearch caps the invertible working length search.
	maxInvertibleSearch = 4096

	// MaxAxisLen caps the output length of one axis.
	MaxAxisLen = 1 << 24
)

// Memory accounting
const (
	bytesPerFloat64 = 8
	bytesPerInt     = 8
)
