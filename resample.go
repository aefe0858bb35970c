package resampler

import (
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/tphakala/go-grid-resampler/internal/engine"
	"github.com/tphakala/go-grid-resampler/internal/mathutil"
	"github.com/tphakala/go-grid-resampler/internal/pipeline"
)

// Common errors returned by the resampler. They are shared with the
// internal packages, so errors.Is works on every wrapped error.
var (
	// ErrInvalidConfig indicates invalid configuration parameters.
	ErrInvalidConfig = mathutil.ErrInvalidConfig

	// ErrUnsupportedDegree indicates a spline degree outside the supported
	// set. It wraps ErrInvalidConfig.
	ErrUnsupportedDegree = mathutil.ErrUnsupportedDegree

	// ErrOutOfBounds indicates a query point outside the grid.
	ErrOutOfBounds = mathutil.ErrOutOfBounds

	// ErrIncompatibleShape indicates mismatched grid dimensions.
	ErrIncompatibleShape = mathutil.ErrIncompatibleShape
)

// BoundaryMode selects the mirror rule used to extend lines in the resize
// pipeline.
type BoundaryMode = mathutil.BoundaryMode

const (
	// BoundarySymmetric mirrors about the end samples without a sign change.
	BoundarySymmetric = mathutil.BoundarySymmetric

	// BoundaryAntisymmetric mirrors about the half-sample points with a
	// sign flip.
	BoundaryAntisymmetric = mathutil.BoundaryAntisymmetric
)

// Config holds the point interpolation and geometric transform settings.
// The zero value is usable: cubic splines, default tolerance, sequential.
type Config struct {
	// Degree is the spline degree, 2 to 9. Zero selects DefaultDegree.
	Degree int

	// Tolerance truncates the causal initialisation of the prefilter.
	// Zero selects DefaultTolerance.
	Tolerance float64

	// EnableParallel spreads rows across goroutines. Results are identical
	// to the sequential path.
	EnableParallel bool

	// Workers bounds the goroutines used when EnableParallel is set.
	// Zero means GOMAXPROCS.
	Workers int

	// Logger receives debug records (zero-filled cell counts). Nil discards.
	Logger *slog.Logger
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Degree != 0 && !mathutil.IsSupportedDegree(c.Degree) {
		return fmt.Errorf("%w: degree %d not in [%d, %d]",
			ErrUnsupportedDegree, c.Degree, MinDegree, MaxDegree)
	}
	if err := validateTolerance(c.Tolerance); err != nil {
		return err
	}
	if c.Workers < 0 {
		return fmt.Errorf("%w: workers must not be negative", ErrInvalidConfig)
	}
	return nil
}

func (c *Config) degree() int {
	if c.Degree == 0 {
		return DefaultDegree
	}
	return c.Degree
}

func (c *Config) tolerance() float64 {
	if c.Tolerance == 0 {
		return DefaultTolerance
	}
	return c.Tolerance
}

func (c *Config) workers() int {
	return resolveWorkers(c.EnableParallel, c.Workers)
}

func (c *Config) logger() *slog.Logger {
	return loggerOrDiscard(c.Logger)
}

// QualitySpec defines the three spline degrees of a resize.
// Users can either use a preset or set the degrees with QualityCustom.
type QualitySpec struct {
	// Preset selects predefined degrees. Any preset other than
	// QualityCustom overrides the degree fields.
	Preset QualityPreset

	// InterpolationDegree (0 to 9) is the degree of the spline that models
	// the input.
	InterpolationDegree int

	// AnalysisDegree (-1 to 9) is the degree of the analysis kernel. -1
	// disables analysis and gives plain interpolation; equal to
	// InterpolationDegree it gives the least-squares projection.
	AnalysisDegree int

	// SynthesisDegree (0 to 7) is the degree of the spline that models the
	// output.
	SynthesisDegree int
}

// QualityPreset enumerates predefined degree combinations.
type QualityPreset int

const (
	// QualityQuick uses linear interpolation. Fastest, aliases on reduction.
	QualityQuick QualityPreset = iota

	// QualityLow uses cubic spline interpolation without analysis.
	QualityLow

	// QualityMedium uses the cubic oblique projection.
	QualityMedium

	// QualityHigh uses the cubic least-squares projection.
	QualityHigh

	// QualityVeryHigh uses quintic interpolation and synthesis with cubic
	// analysis.
	QualityVeryHigh

	// QualityCustom indicates manual configuration of the degrees.
	QualityCustom
)

// String returns the preset name.
func (p QualityPreset) String() string {
	switch p {
	case QualityQuick:
		return "quick"
	case QualityLow:
		return "low"
	case QualityMedium:
		return "medium"
	case QualityHigh:
		return "high"
	case QualityVeryHigh:
		return "very-high"
	case QualityCustom:
		return "custom"
	default:
		return fmt.Sprintf("QualityPreset(%d)", int(p))
	}
}

// ParseQualityPreset maps a preset name, as returned by String, back to the
// preset. Matching ignores case and "veryhigh" is accepted for QualityVeryHigh.
func ParseQualityPreset(name string) (QualityPreset, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "quick":
		return QualityQuick, nil
	case "low":
		return QualityLow, nil
	case "medium":
		return QualityMedium, nil
	case "high":
		return QualityHigh, nil
	case "very-high", "veryhigh":
		return QualityVeryHigh, nil
	case "custom":
		return QualityCustom, nil
	default:
		return QualityHigh, fmt.Errorf("%w: unknown quality preset %q", ErrInvalidConfig, name)
	}
}

// GetPresetSpec returns the quality specification for a preset.
func GetPresetSpec(preset QualityPreset) QualitySpec {
	switch preset {
	case QualityQuick:
		return QualitySpec{
			Preset:              QualityQuick,
			InterpolationDegree: quickInterpolation,
			AnalysisDegree:      quickAnalysis,
			SynthesisDegree:     quickSynthesis,
		}

	case QualityLow:
		return QualitySpec{
			Preset:              QualityLow,
			InterpolationDegree: lowInterpolation,
			AnalysisDegree:      lowAnalysis,
			SynthesisDegree:     lowSynthesis,
		}

	case QualityMedium:
		return QualitySpec{
			Preset:              QualityMedium,
			InterpolationDegree: mediumInterpolation,
			AnalysisDegree:      mediumAnalysis,
			SynthesisDegree:     mediumSynthesis,
		}

	case QualityHigh:
		return QualitySpec{
			Preset:              QualityHigh,
			InterpolationDegree: highInterpolation,
			AnalysisDegree:      highAnalysis,
			SynthesisDegree:     highSynthesis,
		}

	case QualityVeryHigh:
		return QualitySpec{
			Preset:              QualityVeryHigh,
			InterpolationDegree: veryHighInterpolation,
			AnalysisDegree:      veryHighAnalysis,
			SynthesisDegree:     veryHighSynthesis,
		}

	default:
		return GetPresetSpec(QualityHigh)
	}
}

// resolved returns the spec with preset degrees applied.
func (q QualitySpec) resolved() QualitySpec {
	if q.Preset == QualityCustom {
		return q
	}
	return GetPresetSpec(q.Preset)
}

func (q QualitySpec) degrees() pipeline.Degrees {
	return pipeline.Degrees{
		Interpolation: q.InterpolationDegree,
		Analysis:      q.AnalysisDegree,
		Synthesis:     q.SynthesisDegree,
	}
}

// Validate checks if the quality specification is valid.
func (q *QualitySpec) Validate() error {
	if q.Preset < QualityQuick || q.Preset > QualityCustom {
		return fmt.Errorf("%w: unknown quality preset %d", ErrInvalidConfig, int(q.Preset))
	}
	if q.Preset == QualityCustom {
		return q.degrees().Validate()
	}
	return nil
}

// ResizeConfig holds separable resize settings.
type ResizeConfig struct {
	// ZoomX and ZoomY are the output/input length ratios. Zero means 1.
	ZoomX float64
	ZoomY float64

	// ShiftX and ShiftY translate the sampling positions, in input samples.
	ShiftX float64
	ShiftY float64

	// Invertible selects the size rule under which a reduction followed by
	// the inverse enlargement restores the working size exactly. The
	// working size is the smallest length w >= n with
	// round(round((w-1)*zoom)/zoom) == w-1 (Info.WorkingWidth and
	// WorkingHeight), so an input of n samples comes back as w samples;
	// crop the result when the original n are needed. Output samples are
	// aligned on the first input sample instead of on pixel centres.
	Invertible bool

	// AllowEnlarge must be set for a zoom above 1 on either axis.
	AllowEnlarge bool

	// Quality selects the spline degrees. The zero value is QualityQuick.
	Quality QualitySpec

	// Boundary selects the line extension rule.
	Boundary BoundaryMode

	// Tolerance of the resize prefilters. Zero selects DefaultResizeTolerance.
	Tolerance float64

	// EnableParallel spreads lines across goroutines.
	EnableParallel bool

	// Workers bounds the goroutines used when EnableParallel is set.
	// Zero means GOMAXPROCS.
	Workers int

	// Logger receives debug records (invertible size adjustments). Nil discards.
	Logger *slog.Logger
}

// Validate checks if the configuration is valid.
func (c *ResizeConfig) Validate() error {
	for _, z := range []struct {
		axis string
		v    float64
	}{{"x", c.ZoomX}, {"y", c.ZoomY}} {
		if z.v < 0 || math.IsNaN(z.v) || math.IsInf(z.v, 0) {
			return fmt.Errorf("%w: zoom %s = %g must be positive and finite", ErrInvalidConfig, z.axis, z.v)
		}
	}
	if !c.AllowEnlarge && (c.zoomX() > 1 || c.zoomY() > 1) {
		return fmt.Errorf("%w: zoom (%g, %g) enlarges and AllowEnlarge is not set",
			ErrInvalidConfig, c.zoomX(), c.zoomY())
	}
	if math.IsNaN(c.ShiftX) || math.IsInf(c.ShiftX, 0) || math.IsNaN(c.ShiftY) || math.IsInf(c.ShiftY, 0) {
		return fmt.Errorf("%w: shift must be finite", ErrInvalidConfig)
	}
	if c.Boundary != BoundarySymmetric && c.Boundary != BoundaryAntisymmetric {
		return fmt.Errorf("%w: unknown boundary mode %d", ErrInvalidConfig, int(c.Boundary))
	}
	if err := validateTolerance(c.Tolerance); err != nil {
		return err
	}
	if c.Workers < 0 {
		return fmt.Errorf("%w: workers must not be negative", ErrInvalidConfig)
	}
	return c.Quality.Validate()
}

func (c *ResizeConfig) zoomX() float64 { return zoomOrUnit(c.ZoomX) }
func (c *ResizeConfig) zoomY() float64 { return zoomOrUnit(c.ZoomY) }

func (c *ResizeConfig) tolerance() float64 {
	if c.Tolerance == 0 {
		return DefaultResizeTolerance
	}
	return c.Tolerance
}

func (c *ResizeConfig) workers() int {
	return resolveWorkers(c.EnableParallel, c.Workers)
}

func (c *ResizeConfig) logger() *slog.Logger {
	return loggerOrDiscard(c.Logger)
}

func zoomOrUnit(z float64) float64 {
	if z == 0 {
		return 1
	}
	return z
}

func validateTolerance(tol float64) error {
	if tol != 0 && !(tol > 0 && tol < 1) {
		return fmt.Errorf("%w: tolerance %g must be in (0, 1)", ErrInvalidConfig, tol)
	}
	return nil
}

func resolveWorkers(parallel bool, requested int) int {
	if !parallel {
		return 1
	}
	return engine.Workers(requested)
}

func loggerOrDiscard(l *slog.Logger) *slog.Logger {
	if l == nil {
		return slog.New(slog.DiscardHandler)
	}
	return l
}

// Info reports how a Resizer processes grids.
type Info struct {
	// Algorithm describes the resize method in use.
	Algorithm string

	// Quality holds the resolved spline degrees.
	Quality QualitySpec

	// Input, working and output sizes per axis. The working size differs
	// from the input size only in invertible mode.
	InputWidth, InputHeight     int
	WorkingWidth, WorkingHeight int
	OutputWidth, OutputHeight   int

	// Stages lists the line pipeline of the x and y axes.
	StagesX []string
	StagesY []string

	// MemoryUsage is the approximate memory of the plans plus one set of
	// line buffers, in bytes.
	MemoryUsage int64

	// Workers is the number of goroutines used per pass.
	Workers int

	// SIMDType describes the SIMD instruction set in use.
	SIMDType string
}
