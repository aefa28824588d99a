package analysis

import (
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// PowerSpectrum returns the magnitude of each frequency bin up to Nyquist.
// Bin k corresponds to k/(len(samples)*dt) Hz.
func PowerSpectrum(samples []float64) []float64 {
	n := len(samples)
	if n < 2 {
		return nil
	}

	mean := 0.0
	for _, v := range samples {
		mean += v
	}
	mean /= float64(n)

	windowed := make([]float64, n)
	for i, v := range samples {
		w := 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(n-1)))
		windowed[i] = (v - mean) * w
	}

	spectrum := fft.FFTReal(windowed)
	ps := make([]float64, n/2)
	for i := range ps {
		ps[i] = cmplx.Abs(spectrum[i])
	}
	return ps
}

// DominantFrequency returns the strongest non-zero frequency in Hz of a
// signal sampled every dt seconds. It reports false when the signal is too
// short or has no variation.
func DominantFrequency(samples []float64, dt float64) (float64, bool) {
	if dt <= 0 {
		return 0, false
	}
	ps := PowerSpectrum(samples)
	if len(ps) < 2 {
		return 0, false
	}

	best, bestIdx := 0.0, 0
	for i := 1; i < len(ps); i++ {
		if ps[i] > best {
			best, bestIdx = ps[i], i
		}
	}
	if bestIdx == 0 || best < 1e-9 {
		return 0, false
	}

	return float64(bestIdx) / (float64(len(samples)) * dt), true
}

// Period is 1/DominantFrequency.
func Period(samples []float64, dt float64) (float64, bool) {
	f, ok := DominantFrequency(samples, dt)
	if !ok {
		return 0, false
	}
	return 1 / f, true
}
