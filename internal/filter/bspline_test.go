package filter

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tphakala/go-grid-resampler/internal/mathutil"
	"github.com/tphakala/go-grid-resampler/internal/testutil"
)

const (
	weightSumTolerance = 1e-12
	referenceTolerance = 1e-10
)

// truncatedPower evaluates the centred B-spline directly from its definition.
func truncatedPower(degree int, x float64) float64 {
	var sum float64
	half := float64(degree+1) / 2
	for j := 0; j <= degree+1; j++ {
		t := x + half - float64(j)
		if t <= 0 {
			continue
		}
		term := float64(binomial(degree+1, j)) * math.Pow(t, float64(degree))
		if j%2 == 1 {
			term = -term
		}
		sum += term
	}
	return sum / float64(factorial(degree))
}

func factorial(n int) int64 {
	f := int64(1)
	for i := int64(2); i <= int64(n); i++ {
		f *= i
	}
	return f
}

func sampleCoordinates() []float64 {
	var xs []float64
	for x := -3.0; x <= 12.0; x += 0.0625 {
		xs = append(xs, x)
	}
	return append(xs, 0.4999999, 0.5, 1.5000001, 7.999999)
}

func TestKernel_WeightsSumToOne(t *testing.T) {
	w := make([]float64, MaxKernelDegree+1)
	for degree := 0; degree <= MaxKernelDegree; degree++ {
		k, err := NewKernel(degree)
		require.NoError(t, err)
		for _, x := range sampleCoordinates() {
			k.Weights(w, x)
			testutil.AssertDCGain(t, w[:k.Width()], 1.0, weightSumTolerance)
		}
	}
}

func TestKernel_MatchesTruncatedPower(t *testing.T) {
	w := make([]float64, MaxKernelDegree+1)
	for degree := 1; degree <= MaxKernelDegree; degree++ {
		k, err := NewKernel(degree)
		require.NoError(t, err)
		for _, x := range sampleCoordinates() {
			start := k.Weights(w, x)
			for i := range k.Width() {
				want := truncatedPower(degree, x-float64(start+i))
				assert.InDelta(t, want, w[i], referenceTolerance,
					"degree %d x=%v tap %d", degree, x, i)
			}
		}
	}
}

// The closed forms for degrees 2 and 3 must agree with the generic tables.
func TestKernel_ClosedFormsMatchTables(t *testing.T) {
	for _, degree := range []int{2, 3} {
		closed := make([]float64, degree+1)
		table := make([]float64, degree+1)
		generic := polynomialWeights(polyTable[degree])
		for v := 0.0; v < 1; v += 1.0 / 64 {
			weightFuncs[degree](closed, v)
			generic(table, v)
			for i := range closed {
				assert.InDelta(t, table[i], closed[i], 1e-14, "degree %d v=%v tap %d", degree, v, i)
			}
		}
	}
}

func TestWindow_CentringParity(t *testing.T) {
	tests := []struct {
		name      string
		x         float64
		degree    int
		wantStart int
		wantV     float64
	}{
		{"cubic integer", 5, 3, 4, 0},
		{"cubic fraction", 5.25, 3, 4, 0.25},
		{"cubic negative", -0.5, 3, -2, 0.5},
		{"quadratic integer", 5, 2, 4, 0.5},
		{"quadratic below half", 5.25, 2, 4, 0.75},
		{"quadratic above half", 5.75, 2, 5, 0.25},
		{"quartic", 2.4, 4, 0, 0.9},
		{"quintic", 2.4, 5, 0, 0.4},
		{"linear", 3.7, 1, 3, 0.7},
		{"constant", 3.7, 0, 4, 0.2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, v := Window(tt.x, tt.degree)
			assert.Equal(t, tt.wantStart, start)
			assert.InDelta(t, tt.wantV, v, 1e-12)
		})
	}
}

func TestWeights_SupportedDegrees(t *testing.T) {
	for degree := mathutil.MinDegree; degree <= mathutil.MaxDegree; degree++ {
		start, w, err := Weights(4.3, degree)
		require.NoError(t, err)
		assert.Len(t, w, degree+1)
		testutil.AssertDCGain(t, w, 1.0, weightSumTolerance)
		assert.LessOrEqual(t, float64(start), 4.3)
		assert.GreaterOrEqual(t, float64(start+degree), 4.3)
	}

	for _, degree := range []int{-1, 0, 1, 10} {
		_, _, err := Weights(1, degree)
		require.ErrorIs(t, err, mathutil.ErrUnsupportedDegree, "degree %d", degree)
	}
}

func TestNewKernel_Errors(t *testing.T) {
	_, err := NewKernel(10)
	require.ErrorIs(t, err, mathutil.ErrUnsupportedDegree)
	_, err = NewKernel(-1)
	require.ErrorIs(t, err, mathutil.ErrUnsupportedDegree)
}

func TestBSpline_ReferenceValues(t *testing.T) {
	tests := []struct {
		degree int
		x      float64
		want   float64
	}{
		{2, 0, 3.0 / 4},
		{2, 1, 1.0 / 8},
		{3, 0, 2.0 / 3},
		{3, 1, 1.0 / 6},
		{3, 2, 0},
		{4, 0, 115.0 / 192},
		{4, 1, 19.0 / 96},
		{4, 2, 1.0 / 384},
		{5, 0, 11.0 / 20},
		{5, 1, 13.0 / 60},
		{5, 2, 1.0 / 120},
		{6, 0, 5887.0 / 11520},
		{6, 1, 10543.0 / 46080},
		{6, 2, 361.0 / 23040},
		{6, 3, 1.0 / 46080},
		{7, 0, 151.0 / 315},
		{7, 1, 397.0 / 1680},
		{7, 2, 1.0 / 42},
		{7, 3, 1.0 / 5040},
		{1, 0.25, 0.75},
		{0, 0.25, 1},
		{0, 0.75, 0},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, BSpline(tt.degree, tt.x), 1e-13, "β%d(%v)", tt.degree, tt.x)
		assert.InDelta(t, tt.want, BSpline(tt.degree, -tt.x), 1e-13, "β%d(%v)", tt.degree, -tt.x)
	}
	assert.Zero(t, BSpline(11, 0))
}

func TestSampledKernel(t *testing.T) {
	for degree := 0; degree <= MaxKernelDegree; degree++ {
		taps := SampledKernel(degree)
		if degree < 2 {
			assert.Equal(t, []float64{1}, taps)
			continue
		}
		testutil.AssertOddLength(t, taps)
		testutil.AssertSymmetric(t, taps, 1e-12)
		testutil.AssertCenterIsMax(t, taps)
		testutil.AssertDCGain(t, taps, 1.0, 1e-12)
	}
	assert.InDeltaSlice(t, []float64{1.0 / 6, 2.0 / 3, 1.0 / 6}, SampledKernel(3), 1e-15)
}

func BenchmarkKernelWeights(b *testing.B) {
	for _, degree := range []int{3, 5, 9} {
		k, err := NewKernel(degree)
		require.NoError(b, err)
		w := make([]float64, k.Width())
		b.Run(fmt.Sprintf("degree%d", degree), func(b *testing.B) {
			x := 0.0
			for b.Loop() {
				k.Weights(w, x)
				x += 0.37
			}
		})
	}
}
