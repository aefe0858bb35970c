package mathutil

import (
	"errors"
	"fmt"
)

// Sentinel errors shared by the internal packages. The root package
// re-exports them so callers can match with errors.Is.
var (
	// ErrInvalidConfig indicates invalid configuration parameters.
	ErrInvalidConfig = errors.New("invalid resampler configuration")

	// ErrUnsupportedDegree indicates a spline degree outside the supported set.
	// It wraps ErrInvalidConfig.
	ErrUnsupportedDegree = fmt.Errorf("%w: unsupported spline degree", ErrInvalidConfig)

	// ErrOutOfBounds indicates a query point outside the grid domain.
	ErrOutOfBounds = errors.New("coordinate out of bounds")

	// ErrIncompatibleShape indicates mismatched grid dimensions or data length.
	ErrIncompatibleShape = errors.New("incompatible grid shape")
)
