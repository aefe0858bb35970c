package filter

import (
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"
)

// FilterResponse represents the frequency response of a sampled kernel.
type FilterResponse struct {
	// Frequencies in cycles per input sample, 0 to oversample/2.
	Frequencies []float64

	// Magnitude response at each frequency (linear scale, unit DC gain for
	// an interpolating kernel).
	Magnitude []float64

	// Phase response at each frequency (radians)
	Phase []float64
}

// ComputeFrequencyResponse calculates the frequency response of an impulse
// response sampled oversample times per input sample.
//
// The response is computed with a zero padded real FFT of fftSize points
// (rounded up to a power of two, at least the impulse length). The magnitude
// is divided by oversample so that a kernel whose samples sum to oversample
// reports unit gain at DC.
func ComputeFrequencyResponse(impulse []float64, oversample, fftSize int) FilterResponse {
	if oversample < 1 {
		oversample = defaultOversample
	}
	if fftSize <= 0 {
		fftSize = defaultFFTSize
	}
	size := minFFTSize
	for size < fftSize || size < len(impulse) {
		size *= 2
	}

	padded := make([]float64, size)
	copy(padded, impulse)

	fft := fourier.NewFFT(size)
	coeffs := fft.Coefficients(nil, padded)

	response := FilterResponse{
		Frequencies: make([]float64, len(coeffs)),
		Magnitude:   make([]float64, len(coeffs)),
		Phase:       make([]float64, len(coeffs)),
	}
	scale := 1 / float64(oversample)
	for k, c := range coeffs {
		response.Frequencies[k] = fft.Freq(k) * float64(oversample)
		response.Magnitude[k] = cmplx.Abs(c) * scale
		response.Phase[k] = cmplx.Phase(c)
	}
	return response
}

// MagnitudeAt returns the linearly interpolated magnitude at freq.
func (r FilterResponse) MagnitudeAt(freq float64) float64 {
	n := len(r.Frequencies)
	if n == 0 {
		return 0
	}
	if freq <= r.Frequencies[0] {
		return r.Magnitude[0]
	}
	if freq >= r.Frequencies[n-1] {
		return r.Magnitude[n-1]
	}
	step := r.Frequencies[1] - r.Frequencies[0]
	pos := (freq - r.Frequencies[0]) / step
	i := int(pos)
	frac := pos - float64(i)
	return r.Magnitude[i]*(1-frac) + r.Magnitude[i+1]*frac
}

// MagnitudeDB converts linear magnitude to decibels.
func MagnitudeDB(magnitude float64) float64 {
	if magnitude < magnitudeFloorLin {
		return minMagnitudeDB
	}
	return decibelsPerDecade * math.Log10(magnitude)
}

// BSplineSpectrum returns the analytic spectrum sinc(f)^(degree+1) of the
// centred B-spline at frequency f in cycles per sample.
func BSplineSpectrum(degree int, f float64) float64 {
	if f == 0 {
		return 1
	}
	s := math.Sin(math.Pi*f) / (math.Pi * f)
	return math.Pow(s, float64(degree+1))
}
