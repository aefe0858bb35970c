// Package filter provides the B-spline basis functions used by the
// interpolation and resize engines.
//
// Every degree from 0 to 9 has a weight function that fills the degree+1
// weights of the sampling window around a continuous coordinate. Degrees 2
// and 3 use hand-written closed forms; the others are built once at package
// initialisation from exact integer polynomial coefficients.
package filter

import (
	"fmt"
	"math"

	"github.com/tphakala/go-grid-resampler/internal/mathutil"
)

// weightFunc fills w[0:degree+1] for fractional offset v in [0, 1).
type weightFunc func(w []float64, v float64)

var (
	// polyTable[d][k] holds the ascending polynomial coefficients of tap k.
	polyTable [MaxKernelDegree + 1][][]float64

	weightFuncs [MaxKernelDegree + 1]weightFunc
)

func init() {
	for d := 0; d <= MaxKernelDegree; d++ {
		polyTable[d] = tapPolynomials(d)
		weightFuncs[d] = polynomialWeights(polyTable[d])
	}
	weightFuncs[2] = quadraticWeights
	weightFuncs[3] = cubicWeights
}

// tapPolynomials expands the truncated power form of the degree-d B-spline
// into per-tap polynomials in v:
//
//	w_k(v) = 1/d! Σ_{j=0}^{d-k} (-1)^j C(d+1, j) (v + d - k - j)^d
//
// Integer arithmetic keeps the expansion exact before the final division.
func tapPolynomials(d int) [][]float64 {
	fact := int64(1)
	for i := int64(2); i <= int64(d); i++ {
		fact *= i
	}

	taps := make([][]float64, d+1)
	for k := 0; k <= d; k++ {
		acc := make([]int64, d+1)
		for j := 0; j <= d-k; j++ {
			sign := int64(1)
			if j%2 == 1 {
				sign = -1
			}
			outer := sign * binomial(d+1, j)
			a := int64(d - k - j)
			for i := 0; i <= d; i++ {
				acc[i] += outer * binomial(d, i) * ipow(a, d-i)
			}
		}
		coeffs := make([]float64, d+1)
		for i, c := range acc {
			coeffs[i] = float64(c) / float64(fact)
		}
		taps[k] = coeffs
	}
	return taps
}

func binomial(n, k int) int64 {
	if k < 0 || k > n {
		return 0
	}
	r := int64(1)
	for i := 1; i <= k; i++ {
		r = r * int64(n-k+i) / int64(i)
	}
	return r
}

func ipow(a int64, e int) int64 {
	r := int64(1)
	for range e {
		r *= a
	}
	return r
}

func polynomialWeights(taps [][]float64) weightFunc {
	return func(w []float64, v float64) {
		for k, coeffs := range taps {
			acc := coeffs[len(coeffs)-1]
			for i := len(coeffs) - 2; i >= 0; i-- {
				acc = acc*v + coeffs[i]
			}
			w[k] = acc
		}
	}
}

func quadraticWeights(w []float64, v float64) {
	t := v - quadraticCenter
	w[1] = quadraticPeak - t*t
	w[2] = (t - w[1] + 1) / 2
	w[0] = 1 - w[1] - w[2]
}

func cubicWeights(w []float64, v float64) {
	w[3] = v * v * v / 6
	w[0] = 1.0/6 + v*(v-1)/2 - w[3]
	w[2] = v + w[0] - 2*w[3]
	w[1] = 1 - w[0] - w[2] - w[3]
}

// Window returns the first sample index of the degree+1 wide window around x
// and the fractional offset passed to the weight function.
// Odd degrees centre on floor(x), even degrees on the nearest integer.
func Window(x float64, degree int) (int, float64) {
	if degree%2 == 1 {
		f := math.Floor(x)
		return int(f) - (degree-1)/2, x - f
	}
	r := math.Floor(x + 0.5)
	return int(r) - degree/2, x - r + 0.5
}

// Kernel evaluates the sampling weights of one spline degree.
// The zero value is not usable; construct with NewKernel.
type Kernel struct {
	degree int
	fn     weightFunc
}

// NewKernel returns the kernel for degree 0 to 9. Degrees 0 and 1 are
// accepted for the resize pipeline.
func NewKernel(degree int) (Kernel, error) {
	if degree < 0 || degree > MaxKernelDegree {
		return Kernel{}, fmt.Errorf("%w: %d", mathutil.ErrUnsupportedDegree, degree)
	}
	return Kernel{degree: degree, fn: weightFuncs[degree]}, nil
}

// Degree returns the spline degree.
func (k Kernel) Degree() int { return k.degree }

// Width returns the number of weights per window.
func (k Kernel) Width() int { return k.degree + 1 }

// Weights fills dst[:Width()] with the weights of the window around x and
// returns the index of the first sample.
func (k Kernel) Weights(dst []float64, x float64) int {
	start, v := Window(x, k.degree)
	k.fn(dst[:k.degree+1], v)
	return start
}

// Weights returns the first sample index and the degree+1 weights for
// coordinate x. Only degrees 2 to 9 are accepted.
func Weights(x float64, degree int) (int, []float64, error) {
	if !mathutil.IsSupportedDegree(degree) {
		return 0, nil, fmt.Errorf("%w: %d", mathutil.ErrUnsupportedDegree, degree)
	}
	w := make([]float64, degree+1)
	start := Kernel{degree: degree, fn: weightFuncs[degree]}.Weights(w, x)
	return start, w, nil
}

// BSpline evaluates the centred B-spline basis of the given degree at x.
func BSpline(degree int, x float64) float64 {
	if degree < 0 || degree > MaxKernelDegree {
		return 0
	}
	if math.Abs(x) >= float64(degree+1)/2 {
		return 0
	}
	var w [MaxKernelDegree + 1]float64
	start := Kernel{degree: degree, fn: weightFuncs[degree]}.Weights(w[:], x)
	// Weight of sample 0 for a window placed at x is β(x).
	k := -start
	if k < 0 || k > degree {
		return 0
	}
	return w[k]
}

// SampledKernel returns β(k) for k = -degree/2..degree/2, the symmetric FIR
// taps of the discrete B-spline. Degrees below 2 yield the identity [1].
func SampledKernel(degree int) []float64 {
	if degree < 2 {
		return []float64{1}
	}
	half := degree / 2
	taps := make([]float64, 2*half+1)
	for i := range taps {
		taps[i] = BSpline(degree, float64(i-half))
	}
	return taps
}
