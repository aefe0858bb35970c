package mathutil

import (
	"cmp"
	"math"
	"math/cmplx"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tphakala/go-grid-resampler/internal/testutil"
	"gonum.org/v1/gonum/mat"
)

// bsplineRef evaluates the centred B-spline of the given degree with the
// truncated power expansion.
func bsplineRef(degree int, x float64) float64 {
	var sum float64
	half := float64(degree+1) / 2
	binom := 1.0
	for j := 0; j <= degree+1; j++ {
		t := x + half - float64(j)
		if t > 0 {
			term := binom * math.Pow(t, float64(degree))
			if j%2 == 1 {
				term = -term
			}
			sum += term
		}
		binom = binom * float64(degree+1-j) / float64(j+1)
	}
	fact := 1.0
	for i := 2; i <= degree; i++ {
		fact *= float64(i)
	}
	return sum / fact
}

// companionRoots returns the roots of the symmetric Laurent polynomial
// Σ β(k) z^k, k = -m..m, as the eigenvalues of its companion matrix.
func companionRoots(t *testing.T, degree int) []complex128 {
	t.Helper()
	m := degree / 2
	n := 2 * m
	coeffs := make([]float64, n+1) // coeffs[i] multiplies z^i
	for i := range coeffs {
		coeffs[i] = bsplineRef(degree, float64(i-m))
	}
	lead := coeffs[n]

	comp := mat.NewDense(n, n, nil)
	for i := 1; i < n; i++ {
		comp.Set(i, i-1, 1)
	}
	for i := range n {
		comp.Set(i, n-1, -coeffs[i]/lead)
	}

	var eig mat.Eigen
	ok := eig.Factorize(comp, mat.EigenNone)
	require.True(t, ok, "eigen decomposition failed for degree %d", degree)
	return eig.Values(nil)
}

func TestPoles_MatchCompanionEigenvalues(t *testing.T) {
	for degree := MinDegree; degree <= MaxDegree; degree++ {
		poles, err := Poles(degree)
		require.NoError(t, err)
		require.Len(t, poles, degree/2, "degree %d", degree)

		roots := companionRoots(t, degree)
		var inside []float64
		for _, r := range roots {
			if cmplx.Abs(r) < 1 {
				assert.InDelta(t, 0, imag(r), 1e-9, "degree %d root %v not real", degree, r)
				inside = append(inside, real(r))
			}
		}
		require.Len(t, inside, len(poles), "degree %d", degree)

		// Poles are stored by decreasing magnitude.
		slices.SortFunc(inside, func(a, b float64) int { return cmp.Compare(a, b) })
		for i, z := range poles {
			assert.Less(t, math.Abs(z), 1.0)
			rel := math.Abs(inside[i]-z) / math.Abs(z)
			assert.Less(t, rel, 1e-5, "degree %d pole %d: table %v, eigen %v", degree, i, z, inside[i])
		}
	}
}

func TestPoles_AreRootsOfSampledKernel(t *testing.T) {
	for degree := MinDegree; degree <= MaxDegree; degree++ {
		poles, err := Poles(degree)
		require.NoError(t, err)
		m := degree / 2
		for _, z := range poles {
			var p, scale float64
			for k := -m; k <= m; k++ {
				term := bsplineRef(degree, float64(k)) * math.Pow(z, float64(k+m))
				p += term
				scale += math.Abs(term)
			}
			assert.Less(t, math.Abs(p)/scale, 1e-10, "degree %d pole %v", degree, z)
		}
	}
}

func TestPoles_LowDegreesAndErrors(t *testing.T) {
	for _, d := range []int{0, 1} {
		p, err := Poles(d)
		require.NoError(t, err)
		assert.Empty(t, p)
	}

	_, err := Poles(10)
	require.ErrorIs(t, err, ErrUnsupportedDegree)
	require.ErrorIs(t, err, ErrInvalidConfig)

	_, err = Poles(-1)
	require.ErrorIs(t, err, ErrUnsupportedDegree)
}

func TestPoles_ReturnsCopy(t *testing.T) {
	p, err := Poles(3)
	require.NoError(t, err)
	p[0] = 42

	again, err := Poles(3)
	require.NoError(t, err)
	assert.InDelta(t, math.Sqrt(3)-2, again[0], 1e-15)
}

func TestGain(t *testing.T) {
	poles, err := Poles(3)
	require.NoError(t, err)
	// Cubic: (1-z)(1-1/z) = 6 for z = √3-2.
	testutil.AssertRelativeError(t, 6.0, Gain(poles), 1e-12)

	poles, err = Poles(2)
	require.NoError(t, err)
	testutil.AssertRelativeError(t, 8.0, Gain(poles), 1e-12)

	assert.InDelta(t, 1.0, Gain(nil), 0)
}

func TestHorizon(t *testing.T) {
	z := math.Sqrt(3) - 2
	h := Horizon(z, DefaultTolerance)
	assert.Equal(t, 25, h)
	assert.Less(t, math.Pow(math.Abs(z), float64(h)), DefaultTolerance)
	assert.GreaterOrEqual(t, math.Pow(math.Abs(z), float64(h-1)), DefaultTolerance)

	assert.Equal(t, math.MaxInt32, Horizon(z, 0))
}

func TestIsSupportedDegree(t *testing.T) {
	assert.False(t, IsSupportedDegree(1))
	assert.True(t, IsSupportedDegree(2))
	assert.True(t, IsSupportedDegree(9))
	assert.False(t, IsSupportedDegree(10))
}
