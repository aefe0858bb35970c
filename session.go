package resampler

import (
	"fmt"
	"sync"

	"github.com/tphakala/go-grid-resampler/internal/engine"
)

// Session holds a working grid and lazily computed spline coefficients.
// Mutating calls replace the grid, drop the coefficients and hand back a
// Snapshot of the previous state. A Session is safe for concurrent use;
// calls are serialized by an internal mutex.
type Session struct {
	config Config

	mu     sync.Mutex
	grid   *Grid[float64]
	coeffs *CoefficientGrid
}

// Snapshot is a caller-owned copy of a session grid.
type Snapshot struct {
	grid *Grid[float64]
}

// Grid returns a copy of the snapshot grid.
func (s *Snapshot) Grid() *Grid[float64] { return s.grid.Clone() }

// Width returns the snapshot grid width.
func (s *Snapshot) Width() int { return s.grid.width }

// Height returns the snapshot grid height.
func (s *Snapshot) Height() int { return s.grid.height }

// NewSession starts a session on a float64 copy of g. A nil config selects
// the defaults.
func NewSession[T Number](g *Grid[T], config *Config) (*Session, error) {
	if g == nil {
		return nil, fmt.Errorf("%w: grid is nil", ErrIncompatibleShape)
	}
	cfg := Config{}
	if config != nil {
		cfg = *config
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Session{config: cfg, grid: g.Float64()}, nil
}

// Degree returns the current spline degree.
func (s *Session) Degree() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.config.degree()
}

// SetDegree changes the spline degree. The coefficients are recomputed on
// the next query.
func (s *Session) SetDegree(degree int) error {
	cfg := s.configSnapshot()
	cfg.Degree = degree
	if err := cfg.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.config.degree() != degree {
		s.config.Degree = degree
		s.coeffs = nil
	}
	return nil
}

func (s *Session) configSnapshot() Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.config
}

// Grid returns a copy of the current grid.
func (s *Session) Grid() *Grid[float64] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.grid.Clone()
}

// Width returns the current grid width.
func (s *Session) Width() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.grid.width
}

// Height returns the current grid height.
func (s *Session) Height() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.grid.height
}

// Coefficients returns the spline coefficients of the current grid,
// computing them on first use.
func (s *Session) Coefficients() (*CoefficientGrid, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.coefficientsLocked()
}

func (s *Session) coefficientsLocked() (*CoefficientGrid, error) {
	if s.coeffs != nil {
		return s.coeffs, nil
	}
	cg, err := buildCoefficients(s.grid.plane(), s.config.degree(), s.config.tolerance(), s.config.workers())
	if err != nil {
		return nil, err
	}
	s.coeffs = cg
	return cg, nil
}

// InBounds reports whether (x, y) lies inside the current grid.
func (s *Session) InBounds(x, y float64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return x >= 0 && x <= float64(s.grid.width-1) && y >= 0 && y <= float64(s.grid.height-1)
}

// Evaluate returns the spline surface at (x, y), or ErrOutOfBounds.
func (s *Session) Evaluate(x, y float64) (float64, error) {
	cg, err := s.Coefficients()
	if err != nil {
		return 0, err
	}
	return cg.Evaluate(x, y)
}

// EvaluateBilinear blends the four raw samples around (x, y). Coordinates
// outside the grid are clamped to it, so it never fails.
func (s *Session) EvaluateBilinear(x, y float64) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return engine.BilinearFunc(s.grid.width, s.grid.height, x, y, s.grid.sample)
}

// Rotate replaces the grid with its rotation by angle radians about the
// centre and returns the previous state.
func (s *Session) Rotate(angle float64) (*Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cg, err := s.coefficientsLocked()
	if err != nil {
		return nil, err
	}
	return s.replaceLocked(rotate(cg, angle, &s.config)), nil
}

// Recenter replaces the grid with its translation that brings (cx, cy) to
// the centre and returns the previous state.
func (s *Session) Recenter(cx, cy float64) (*Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cg, err := s.coefficientsLocked()
	if err != nil {
		return nil, err
	}
	return s.replaceLocked(recenter(cg, cx, cy, &s.config)), nil
}

// Resize replaces the grid with its resized version and returns the
// previous state.
func (s *Session) Resize(config *ResizeConfig) (*Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, err := NewResizer(s.grid.width, s.grid.height, config)
	if err != nil {
		return nil, err
	}
	out, err := r.Process(s.grid)
	if err != nil {
		return nil, err
	}
	return s.replaceLocked(out), nil
}

// SetGrid replaces the grid with a copy of g and returns the previous state.
func (s *Session) SetGrid(g *Grid[float64]) (*Snapshot, error) {
	if g == nil {
		return nil, fmt.Errorf("%w: grid is nil", ErrIncompatibleShape)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.replaceLocked(g.Clone()), nil
}

// Restore reinstates the grid held by snap. The snapshot stays valid and
// may be restored again.
func (s *Session) Restore(snap *Snapshot) error {
	if snap == nil || snap.grid == nil {
		return fmt.Errorf("%w: snapshot is empty", ErrInvalidConfig)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.replaceLocked(snap.grid.Clone())
	return nil
}

// replaceLocked swaps in g, drops the coefficients and returns the old grid.
// The old grid is never referenced by the session again, so the snapshot
// can take it without copying.
func (s *Session) replaceLocked(g *Grid[float64]) *Snapshot {
	prev := &Snapshot{grid: s.grid}
	s.grid = g
	s.coeffs = nil
	return prev
}
