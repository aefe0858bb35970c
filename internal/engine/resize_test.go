package engine

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tphakala/go-grid-resampler/internal/filter"
	"github.com/tphakala/go-grid-resampler/internal/mathutil"
	"github.com/tphakala/go-grid-resampler/internal/pipeline"
	"github.com/tphakala/go-grid-resampler/internal/testutil"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

var resizeDegrees = []pipeline.Degrees{
	{Interpolation: 0, Analysis: -1, Synthesis: 0},
	{Interpolation: 1, Analysis: -1, Synthesis: 1},
	{Interpolation: 3, Analysis: -1, Synthesis: 3},
	{Interpolation: 3, Analysis: 0, Synthesis: 3},
	{Interpolation: 3, Analysis: 3, Synthesis: 3},
	{Interpolation: 2, Analysis: 2, Synthesis: 2},
	{Interpolation: 5, Analysis: 3, Synthesis: 5},
	{Interpolation: 1, Analysis: 1, Synthesis: 1},
}

func newAxisResizer(t testing.TB, spec pipeline.AxisSpec) *AxisResizer {
	t.Helper()
	if spec.Tolerance == 0 {
		spec.Tolerance = mathutil.DefaultResizeTolerance
	}
	plan, err := pipeline.BuildAxisPlan(spec)
	require.NoError(t, err)
	r, err := NewAxisResizer(plan)
	require.NoError(t, err)
	return r
}

func resizeLine(r *AxisResizer, src []float64) []float64 {
	dst := make([]float64, r.Plan().OutputLen)
	r.ResizeLine(dst, src, pipeline.NewLineBuffer(r.Plan()))
	return dst
}

func TestResizeLine_UnitZoomCopies(t *testing.T) {
	src := testutil.Random(23, 1, 100, 1)
	r := newAxisResizer(t, pipeline.AxisSpec{InputLen: 23, Zoom: 1, Degrees: resizeDegrees[4]})
	require.True(t, r.Plan().Identity())
	assert.Equal(t, src, resizeLine(r, src))
}

// A zoom a hair away from one runs every stage and must still reproduce
// the input.
func TestResizeLine_NearUnitZoomReproducesInput(t *testing.T) {
	src := testutil.Random(23, 1, 100, 1)
	for _, deg := range resizeDegrees {
		r := newAxisResizer(t, pipeline.AxisSpec{InputLen: 23, Zoom: 1 + 1e-12, Degrees: deg})
		require.False(t, r.Plan().Identity())
		require.Equal(t, 23, r.Plan().OutputLen)
		got := resizeLine(r, src)
		assert.Less(t, testutil.MaxAbsDiff(src, got), 1e-6, "degrees %+v", deg)
	}
}

func TestResizeLine_IntegerShiftInterpolation(t *testing.T) {
	const n = 21
	src := testutil.Random(n, 1, 100, 2)
	for _, shift := range []float64{3, -2} {
		r := newAxisResizer(t, pipeline.AxisSpec{
			InputLen: n, Zoom: 1, Shift: shift,
			Degrees: pipeline.Degrees{Interpolation: 3, Analysis: -1, Synthesis: 3},
		})
		got := resizeLine(r, src)
		for l := range n {
			want := src[mathutil.MirrorIndex(l+int(shift), n)]
			assert.InDelta(t, want, got[l], 1e-6, "shift %v sample %d", shift, l)
		}
	}
}

func TestResizeLine_ConstantPreserved(t *testing.T) {
	for _, n := range []int{5, 18, 37, 80} {
		src := testutil.Constant(n, 1, 42)
		for _, zoom := range []float64{0.37, 0.5, 0.8, 1.7, 2.5} {
			for _, deg := range resizeDegrees {
				for _, inv := range []bool{false, true} {
					r := newAxisResizer(t, pipeline.AxisSpec{
						InputLen: n, Zoom: zoom, Invertible: inv, Degrees: deg,
					})
					testutil.AssertAllEqual(t, resizeLine(r, src), 42, 1e-9)
				}
			}
		}
	}
}

func TestResizeLine_DownsampleSmoothSignal(t *testing.T) {
	const n, zoom, freq = 80, 0.5, 0.03
	src := make([]float64, n)
	for i := range src {
		src[i] = math.Sin(2 * math.Pi * freq * float64(i))
	}

	r := newAxisResizer(t, pipeline.AxisSpec{InputLen: n, Zoom: zoom, Degrees: resizeDegrees[4]})
	got := resizeLine(r, src)
	require.Len(t, got, 40)

	origin := r.Plan().Origin()
	for l := 5; l < len(got)-5; l++ {
		x := origin + float64(l)/zoom
		assert.InDelta(t, math.Sin(2*math.Pi*freq*x), got[l], 0.02, "sample %d", l)
	}
}

// Least squares downsampling removes a signal at the input Nyquist rate
// that plain interpolation would alias.
func TestResizeLine_SuppressesAliasing(t *testing.T) {
	const n = 40
	src := make([]float64, n)
	for i := range src {
		src[i] = float64(1 - 2*(i%2))
	}

	ls := newAxisResizer(t, pipeline.AxisSpec{InputLen: n, Zoom: 0.5, Degrees: resizeDegrees[4]})
	got := resizeLine(ls, src)
	for l := 3; l < len(got)-3; l++ {
		assert.InDelta(t, 0, got[l], 1e-6, "sample %d", l)
	}
}

// integrateDifferenceLine runs the analysis step the direct way: running
// sums over the whole extended line, the zoom taps, then the differences.
// It is only accurate on short lines.
func integrateDifferenceLine(t *testing.T, r *AxisResizer, src []float64) []float64 {
	t.Helper()
	plan := r.Plan()
	kernel, err := filter.NewKernel(plan.TotalDegree)
	require.NoError(t, err)

	m := plan.Order
	count := plan.OutputLen + m
	width := kernel.Width()
	weights := make([]float64, count*width)
	starts := make([]int, count)
	for q := range count {
		u := plan.Origin() + (float64(q)-float64(m)/2)/plan.Spec.Zoom - float64(m)/2
		starts[q] = kernel.Weights(weights[q*width:(q+1)*width], u)
	}

	line := append([]float64(nil), src...)
	avg := stat.Mean(line, nil)
	addScalar(line, -avg)
	r.interp.ConvertLine(line)

	first := starts[0]
	ext := make([]float64, starts[count-1]+width-first)
	plan.Extender.Fill(ext, line, first)
	for range m {
		for i := 1; i < len(ext); i++ {
			ext[i] += ext[i-1]
		}
		addScalar(ext, -stat.Mean(ext, nil))
	}

	zoom := make([]float64, count)
	for q := range count {
		off := starts[q] - first
		zoom[q] = floats.Dot(weights[q*width:(q+1)*width], ext[off:off+width])
	}
	for pass := range m {
		for i := 0; i < count-1-pass; i++ {
			zoom[i] = zoom[i+1] - zoom[i]
		}
	}
	coeffs := zoom[:plan.OutputLen]
	floats.Scale(math.Pow(plan.Spec.Zoom, float64(m)), coeffs)
	r.corr.ConvertLine(coeffs)

	dst := make([]float64, plan.OutputLen)
	synthesize(dst, coeffs, plan.Taps, make([]float64, plan.OutputLen+len(plan.Taps)-1))
	addScalar(dst, avg)
	return dst
}

func TestResizeLine_MatchesIntegrateDifference(t *testing.T) {
	const n = 37
	src := testutil.Random(n, 1, 100, 9)
	for _, deg := range resizeDegrees {
		for _, zoom := range []float64{0.37, 0.5, 0.8, 1.7} {
			for _, inv := range []bool{false, true} {
				r := newAxisResizer(t, pipeline.AxisSpec{
					InputLen: n, Zoom: zoom, Invertible: inv, Degrees: deg,
				})
				want := integrateDifferenceLine(t, r, src)
				got := resizeLine(r, src)
				assert.Less(t, testutil.MaxAbsDiff(want, got), 1e-8,
					"degrees %+v zoom %v invertible %v", deg, zoom, inv)
			}
		}
	}
}

// Long lines must not lose precision in the analysis step. Samples in the
// middle half are compared against the exact value at the output position.
func TestResizeLine_LongLinePrecision(t *testing.T) {
	ramp := func(n int) ([]float64, func(x float64) float64) {
		slope := 255 / float64(n-1)
		src := make([]float64, n)
		for i := range src {
			src[i] = slope * float64(i)
		}
		return src, func(x float64) float64 { return slope * x }
	}
	smooth := func(n int) ([]float64, func(x float64) float64) {
		f := func(x float64) float64 {
			u := x / float64(n-1)
			return 1000*u + 50*math.Sin(16*math.Pi*u)
		}
		src := make([]float64, n)
		for i := range src {
			src[i] = f(float64(i))
		}
		return src, f
	}

	tests := []struct {
		name   string
		signal func(n int) ([]float64, func(x float64) float64)
		deg    pipeline.Degrees
		tol    float64
	}{
		{"ramp least squares", ramp, resizeDegrees[4], 1e-6},
		{"ramp oblique", ramp, resizeDegrees[3], 1e-6},
		{"ramp quintic", ramp, resizeDegrees[6], 1e-6},
		{"smooth least squares", smooth, resizeDegrees[4], 1e-3},
	}
	for _, tt := range tests {
		for _, n := range []int{8192, 16384} {
			t.Run(fmt.Sprintf("%s/%d", tt.name, n), func(t *testing.T) {
				src, exact := tt.signal(n)
				r := newAxisResizer(t, pipeline.AxisSpec{InputLen: n, Zoom: 0.5, Degrees: tt.deg})
				got := resizeLine(r, src)
				require.Len(t, got, n/2)

				origin := r.Plan().Origin()
				for l := len(got) / 4; l < 3*len(got)/4; l++ {
					x := origin + float64(l)/0.5
					if !assert.InDelta(t, exact(x), got[l], tt.tol, "sample %d", l) {
						return
					}
				}
			})
		}
	}
}

// Linear splines read the boundary extension directly, so the samples that
// fall beyond the ends show the mirror rule exactly.
func TestResizeLine_AntisymmetricBoundary(t *testing.T) {
	src := []float64{6, 7, 1, 5, 1} // mean 4
	deg := pipeline.Degrees{Interpolation: 1, Analysis: -1, Synthesis: 1}

	anti := newAxisResizer(t, pipeline.AxisSpec{
		InputLen: 5, Zoom: 2, Degrees: deg, Boundary: mathutil.BoundaryAntisymmetric,
	})
	sym := newAxisResizer(t, pipeline.AxisSpec{InputLen: 5, Zoom: 2, Degrees: deg})
	got := resizeLine(anti, src)
	want := resizeLine(sym, src)
	require.Len(t, got, 10)

	// x = -0.25: 0.75*(6-4) - 0.25*(6-4) + 4 against 0.75*6 + 0.25*7.
	assert.InDelta(t, 5.0, got[0], 1e-12)
	assert.InDelta(t, 6.25, want[0], 1e-12)
	// x = 4.25: 0.75*(1-4) - 0.25*(1-4) + 4 against 0.75*1 + 0.25*5.
	assert.InDelta(t, 2.5, got[9], 1e-12)
	assert.InDelta(t, 2.0, want[9], 1e-12)

	for l := 1; l < 9; l++ {
		assert.InDelta(t, want[l], got[l], 1e-12, "sample %d", l)
	}
}

// The antisymmetric rule is the same at both ends: a mean-free line that is
// odd under reversal stays odd.
func TestResizeLine_AntisymmetricBoundaryOddLine(t *testing.T) {
	const n = 64
	src := make([]float64, n)
	for i := range src {
		src[i] = math.Sin(4 * math.Pi * (float64(i) + 0.5) / n)
	}

	for _, deg := range []pipeline.Degrees{resizeDegrees[1], resizeDegrees[4], resizeDegrees[6]} {
		r := newAxisResizer(t, pipeline.AxisSpec{
			InputLen: n, Zoom: 0.5, Degrees: deg, Boundary: mathutil.BoundaryAntisymmetric,
		})
		got := resizeLine(r, src)
		require.Len(t, got, n/2)
		testutil.AssertNoNaNOrInf(t, got)
		for l := range len(got) / 2 {
			assert.InDelta(t, -got[len(got)-1-l], got[l], 1e-6, "degrees %+v sample %d", deg, l)
		}
	}
}

func TestResizeRowsColumns_Transpose(t *testing.T) {
	const w, h = 19, 11
	data := testutil.Random(w, h, 255, 6)
	src, err := WrapPlane(w, h, data)
	require.NoError(t, err)

	transposed := make([]float64, w*h)
	for y := range h {
		for x := range w {
			transposed[x*h+y] = data[y*w+x]
		}
	}
	srcT, err := WrapPlane(h, w, transposed)
	require.NoError(t, err)

	r := newAxisResizer(t, pipeline.AxisSpec{InputLen: w, Zoom: 0.63, Degrees: resizeDegrees[3]})
	rows, err := r.ResizeRows(src, 1)
	require.NoError(t, err)
	cols, err := r.ResizeColumns(srcT, 1)
	require.NoError(t, err)

	require.Equal(t, rows.Width, cols.Height)
	require.Equal(t, rows.Height, cols.Width)
	for y := range rows.Height {
		for x := range rows.Width {
			assert.InDelta(t, rows.At(x, y), cols.At(y, x), 1e-12)
		}
	}
}

func TestResizeRows_ParallelMatchesSequential(t *testing.T) {
	const w, h = 64, 48
	src, err := WrapPlane(w, h, testutil.Random(w, h, 255, 12))
	require.NoError(t, err)

	r := newAxisResizer(t, pipeline.AxisSpec{InputLen: w, Zoom: 0.41, Degrees: resizeDegrees[6]})
	seq, err := r.ResizeRows(src, 1)
	require.NoError(t, err)
	par, err := r.ResizeRows(src, 4)
	require.NoError(t, err)
	assert.Equal(t, seq.Data, par.Data)

	c := newAxisResizer(t, pipeline.AxisSpec{InputLen: h, Zoom: 0.41, Degrees: resizeDegrees[6]})
	seqC, err := c.ResizeColumns(seq, 1)
	require.NoError(t, err)
	parC, err := c.ResizeColumns(par, 3)
	require.NoError(t, err)
	assert.Equal(t, seqC.Data, parC.Data)
}

func TestResizeRows_ShapeMismatch(t *testing.T) {
	src, err := NewPlane(10, 4)
	require.NoError(t, err)
	r := newAxisResizer(t, pipeline.AxisSpec{InputLen: 12, Zoom: 0.5, Degrees: resizeDegrees[2]})

	_, err = r.ResizeRows(src, 1)
	require.ErrorIs(t, err, mathutil.ErrIncompatibleShape)
	_, err = r.ResizeColumns(src, 1)
	require.ErrorIs(t, err, mathutil.ErrIncompatibleShape)
}

func TestResizeLine_SingleSample(t *testing.T) {
	r := newAxisResizer(t, pipeline.AxisSpec{InputLen: 1, Zoom: 3, Degrees: resizeDegrees[4]})
	got := resizeLine(r, []float64{9})
	testutil.AssertAllEqual(t, got, 9, 1e-12)
}

func BenchmarkResizeRows(b *testing.B) {
	const w, h = 512, 64
	src, err := WrapPlane(w, h, testutil.Random(w, h, 255, 1))
	require.NoError(b, err)
	r := newAxisResizer(b, pipeline.AxisSpec{InputLen: w, Zoom: 0.37, Degrees: resizeDegrees[4]})

	for b.Loop() {
		_, _ = r.ResizeRows(src, 1)
	}
}
