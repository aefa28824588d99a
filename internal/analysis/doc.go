// Package analysis inspects recorded point motion in the frequency domain.
//
// The typical use is finding how fast a hanging rope swings:
//
//	ys := make([]float64, len(frames))
//	for i, f := range frames {
//	    ys[i] = f.Points[bob].X
//	}
//	freq, ok := analysis.DominantFrequency(ys, dt)
//
// Spectra are computed with a Hann window after removing the mean, so a
// constant offset never shows up as the dominant component.
package analysis
