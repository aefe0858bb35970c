package mathutil

import "fmt"

// BoundaryMode selects how indices outside [0, n-1] are folded back.
type BoundaryMode int

const (
	// BoundarySymmetric mirrors about the first and last samples
	// (whole-sample symmetry, period 2n-2): -1 -> 1, n -> n-2.
	BoundarySymmetric BoundaryMode = iota

	// BoundaryAntisymmetric mirrors about the half-sample points with a sign
	// flip (period 2n): -1 -> 0, n -> n-1, both negated.
	BoundaryAntisymmetric
)

// String returns the mode name.
func (m BoundaryMode) String() string {
	switch m {
	case BoundarySymmetric:
		return "symmetric"
	case BoundaryAntisymmetric:
		return "antisymmetric"
	default:
		return fmt.Sprintf("BoundaryMode(%d)", int(m))
	}
}

// Extender maps arbitrary integer indices into [0, n-1].
// It is a value type with no mutable state and is safe for concurrent use.
type Extender struct {
	n      int
	period int
	mode   BoundaryMode
}

// NewExtender returns an extender for a line of n samples using the
// default period of the mode.
func NewExtender(n int, mode BoundaryMode) (Extender, error) {
	return NewExtenderWithPeriod(n, mode, DefaultPeriod(n, mode))
}

// NewExtenderWithPeriod returns an extender with an explicit mirror period.
// The period must lie in [n-1, 2n] (any value for n == 1).
func NewExtenderWithPeriod(n int, mode BoundaryMode, period int) (Extender, error) {
	if n < 1 {
		return Extender{}, fmt.Errorf("%w: line length %d", ErrIncompatibleShape, n)
	}
	if mode != BoundarySymmetric && mode != BoundaryAntisymmetric {
		return Extender{}, fmt.Errorf("%w: unknown boundary mode %d", ErrInvalidConfig, int(mode))
	}
	if n > 1 && (period < n-1 || period > 2*n) {
		return Extender{}, fmt.Errorf("%w: mirror period %d outside [%d, %d]",
			ErrInvalidConfig, period, n-1, 2*n)
	}
	return Extender{n: n, period: period, mode: mode}, nil
}

// DefaultPeriod returns the natural mirror period of mode for n samples:
// 2n-2 for symmetric and 2n for antisymmetric, the exact period of the
// half-sample mirror. The shorter antisymmetric period 2n-3 found in other
// B-spline resize codes is accepted by NewExtenderWithPeriod.
func DefaultPeriod(n int, mode BoundaryMode) int {
	if n <= 1 {
		return 1
	}
	if mode == BoundaryAntisymmetric {
		return 2 * n
	}
	return 2*n - 2
}

// Len returns the line length.
func (e Extender) Len() int { return e.n }

// Period returns the mirror period.
func (e Extender) Period() int { return e.period }

// Mode returns the boundary mode.
func (e Extender) Mode() BoundaryMode { return e.mode }

// Extend folds k into [0, n-1] and returns the index together with the
// sign to apply to the sample found there (+1 or -1).
func (e Extender) Extend(k int) (int, float64) {
	if e.n == 1 {
		return 0, 1
	}
	if k >= 0 && k < e.n {
		return k, 1
	}
	if e.mode == BoundarySymmetric {
		return mirror(k, e.n, e.period), 1
	}

	sign := 1.0
	if k < 0 {
		k = -k - 1
		sign = -sign
	}
	k %= e.period
	if k >= e.n {
		k = e.period - 1 - k
		sign = -sign
	}
	// Periods shorter than 2n can still land outside the line.
	k = clampIndex(k, e.n)
	return k, sign
}

// Fill writes the extended line for indices [first, first+len(dst)) into dst.
func (e Extender) Fill(dst, line []float64, first int) {
	for i := range dst {
		idx, sign := e.Extend(first + i)
		dst[i] = sign * line[idx]
	}
}

// MirrorIndex folds k into [0, n-1] with whole-sample symmetry (period 2n-2).
// It is the allocation free path used by the point interpolator.
func MirrorIndex(k, n int) int {
	if n == 1 {
		return 0
	}
	if k >= 0 && k < n {
		return k
	}
	return mirror(k, n, 2*n-2)
}

func mirror(k, n, period int) int {
	if k < 0 {
		k = -k
	}
	k %= period
	if k >= n {
		k = period - k
	}
	return clampIndex(k, n)
}

func clampIndex(k, n int) int {
	if k < 0 {
		return 0
	}
	if k >= n {
		return n - 1
	}
	return k
}
