package mathutil

// Coefficient tolerances.
const (
	// DefaultTolerance is the causal initialisation tolerance for point
	// interpolation.
	DefaultTolerance = 1e-14

	// DefaultResizeTolerance is the tolerance used by the resize
	// correction stage.
	DefaultResizeTolerance = 1e-9
)
