package window

import "math"

// Analysis holds numerically computed spectral properties of a window.
type Analysis struct {
	// CoherentGain is sum(w[n]) / N, the DC response of the window.
	CoherentGain float64
	// ENBW is the equivalent noise bandwidth in bins.
	ENBW float64
	// Bandwidth3dB is the 3 dB (half-power) main lobe width in bins.
	Bandwidth3dB float64
	// HighestSidelobedB is the highest sidelobe level relative to DC in dB.
	HighestSidelobedB float64
	// ScallopLossdB is the worst-case amplitude error for an off-bin signal.
	ScallopLossdB float64
}

// Analyze evaluates the DFT of coeffs at fractional bin positions and
// reports the leakage properties relevant for picking an analysis window.
func Analyze(coeffs []float64) Analysis {
	n := len(coeffs)
	if n == 0 {
		return Analysis{}
	}

	dcRef := dftMagSq(coeffs, 0)
	if dcRef == 0 {
		return Analysis{}
	}

	enbw, _ := EquivalentNoiseBandwidth(coeffs)

	sum := 0.0
	for _, c := range coeffs {
		sum += c
	}

	scallop := 0.0
	if half := dftMagSq(coeffs, 0.5/float64(n)); half > 0 {
		scallop = 10 * math.Log10(half/dcRef)
	}

	return Analysis{
		CoherentGain:      sum / float64(n),
		ENBW:              enbw,
		Bandwidth3dB:      halfPowerWidth(coeffs, dcRef),
		HighestSidelobedB: highestSidelobe(coeffs, dcRef),
		ScallopLossdB:     scallop,
	}
}

// dftMagSq evaluates |DFT(freq)|^2 at a normalised frequency [0,1).
func dftMagSq(coeffs []float64, freq float64) float64 {
	re, im := 0.0, 0.0
	w := 2 * math.Pi * freq
	for k, c := range coeffs {
		phase := w * float64(k)
		re += c * math.Cos(phase)
		im -= c * math.Sin(phase)
	}
	return re*re + im*im
}

// halfPowerWidth bisects for |H(f)|^2/|H(0)|^2 = 0.5 and returns the
// two-sided width in bins.
func halfPowerWidth(coeffs []float64, dcRef float64) float64 {
	lo, hi := 0.0, 0.5
	for range 80 {
		mid := (lo + hi) / 2
		if dftMagSq(coeffs, mid)/dcRef > 0.5 {
			lo = mid
		} else {
			hi = mid
		}
	}
	return 2 * lo * float64(len(coeffs))
}

// highestSidelobe scans past the main lobe in 1/8-bin steps and returns the
// peak level in dB relative to DC.
func highestSidelobe(coeffs []float64, dcRef float64) float64 {
	n := float64(len(coeffs))
	step := 1 / (n * 8)

	// Walk down the main lobe until the response turns upward.
	prev := dcRef
	freq := step
	for ; freq < 0.5; freq += step {
		v := dftMagSq(coeffs, freq)
		if v > prev && prev < dcRef*0.1 {
			break
		}
		prev = v
	}

	peak, peakFreq := 0.0, freq
	for ; freq < 0.5; freq += step {
		if v := dftMagSq(coeffs, freq); v > peak {
			peak, peakFreq = v, freq
		}
	}

	fine := step / 32
	for f := peakFreq - step; f <= peakFreq+step; f += fine {
		if v := dftMagSq(coeffs, f); v > peak {
			peak = v
		}
	}

	if peak <= 0 {
		return math.Inf(-1)
	}
	return 10 * math.Log10(peak/dcRef)
}
