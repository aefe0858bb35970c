package mathutil

import (
	"fmt"
	"math"
)

// Supported interpolation degrees for the point interpolator.
const (
	MinDegree = 2
	MaxDegree = 9
)

// poleTable holds the poles of the discrete B-spline filter, indexed by degree.
// Degrees 0 and 1 have no poles. Values are the roots of the sampled B-spline
// polynomial inside the unit circle.
var poleTable = [MaxDegree + 1][]float64{
	0: nil,
	1: nil,
	2: {math.Sqrt(8) - 3},
	3: {math.Sqrt(3) - 2},
	4: {
		-0.361341225900220177092212841325675255,
		-0.013725429297339121360331226939128204,
	},
	5: {
		-0.43057534709997379,
		-0.043096288203264653,
	},
	6: {
		-0.48829458930304475513,
		-0.081679271076237512597,
		-0.0014141518083258177511,
	},
	7: {
		-0.53528043079643816554,
		-0.12255461519232669052,
		-0.0091486948096082769286,
	},
	8: {
		-0.57468690924876543053,
		-0.16303526929728093524,
		-0.023632294694844850023,
		-0.00015382131064169091173,
	},
	9: {
		-0.60799738916862577900,
		-0.20175052019315323879,
		-0.043222608540481752133,
		-0.0021213069031808184203,
	},
}

// IsSupportedDegree reports whether degree is a valid point-interpolation degree.
func IsSupportedDegree(degree int) bool {
	return degree >= MinDegree && degree <= MaxDegree
}

// Poles returns a copy of the pole set for degree (0 to 9).
func Poles(degree int) ([]float64, error) {
	if degree < 0 || degree > MaxDegree {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedDegree, degree)
	}
	src := poleTable[degree]
	if len(src) == 0 {
		return nil, nil
	}
	out := make([]float64, len(src))
	copy(out, src)
	return out, nil
}

// Gain returns the overall prefilter gain Π(1-z)(1-1/z).
func Gain(poles []float64) float64 {
	g := 1.0
	for _, z := range poles {
		g *= (1 - z) * (1 - 1/z)
	}
	return g
}

// Horizon returns the number of terms needed for z^k to fall below tolerance.
func Horizon(z, tolerance float64) int {
	if tolerance <= 0 || tolerance >= 1 {
		return math.MaxInt32
	}
	return int(math.Ceil(math.Log(tolerance) / math.Log(math.Abs(z))))
}
