package analysis

import (
	"math"
	"testing"
)

func sine(freq, dt float64, n int, offset float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = offset + math.Sin(2*math.Pi*freq*float64(i)*dt)
	}
	return out
}

func TestDominantFrequency(t *testing.T) {
	dt := 1.0 / 60
	tests := []struct {
		name string
		freq float64
	}{
		{"slow", 0.5},
		{"two hertz", 2},
		{"fast", 7.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := DominantFrequency(sine(tt.freq, dt, 600, 400), dt)
			if !ok {
				t.Fatal("expected a frequency")
			}
			if math.Abs(got-tt.freq) > 0.1 {
				t.Errorf("expected %.2f Hz, got %.2f Hz", tt.freq, got)
			}
		})
	}
}

func TestDominantFrequencyFlatSignal(t *testing.T) {
	flat := make([]float64, 128)
	for i := range flat {
		flat[i] = 400
	}
	if _, ok := DominantFrequency(flat, 1.0/60); ok {
		t.Error("a constant signal has no dominant frequency")
	}
	if _, ok := DominantFrequency([]float64{1}, 1.0/60); ok {
		t.Error("a single sample has no dominant frequency")
	}
	if _, ok := DominantFrequency(sine(1, 0.1, 64, 0), 0); ok {
		t.Error("dt must be positive")
	}
}

func TestPeriod(t *testing.T) {
	dt := 0.01
	p, ok := Period(sine(1, dt, 1000, 0), dt)
	if !ok {
		t.Fatal("expected a period")
	}
	if math.Abs(p-1) > 0.05 {
		t.Errorf("expected period 1s, got %.3f", p)
	}
}

func TestPowerSpectrumLength(t *testing.T) {
	ps := PowerSpectrum(sine(1, 0.01, 100, 0))
	if len(ps) != 50 {
		t.Errorf("expected 50 bins, got %d", len(ps))
	}
	if PowerSpectrum(nil) != nil {
		t.Error("expected nil spectrum for empty input")
	}
}
