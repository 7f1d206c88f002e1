package features

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// DefaultRolloff is the energy fraction used by Summarize for the rolloff
// frequency.
const DefaultRolloff = 0.85

// Summary describes the shape of a single magnitude spectrum, typically the
// whole-signal spectrum.
type Summary struct {
	Bins int
	// Peak is the frequency of the strongest bin in Hz.
	Peak   float64
	PeakdB float64
	// Centroid and Spread are the magnitude-weighted mean and standard
	// deviation of frequency in Hz.
	Centroid float64
	Spread   float64
	// Flatness is the geometric over the arithmetic mean magnitude, DC
	// excluded. Zero when any bin is silent.
	Flatness float64
	// Rolloff is the frequency below which DefaultRolloff of the energy lies.
	Rolloff float64
	// Bandwidth3dB is the width in Hz of the region around the peak that
	// stays above peak/sqrt(2).
	Bandwidth3dB float64
}

// Summarize computes Summary for mags sampled at the ascending frequencies
// freqs. Spectra with fewer than two bins yield a zero Summary apart from
// Bins and PeakdB.
func Summarize(freqs, mags []float64) Summary {
	s := Summary{Bins: len(mags), PeakdB: math.Inf(-1)}
	if len(mags) < 2 || len(freqs) < len(mags) {
		return s
	}
	freqs = freqs[:len(mags)]

	peak := floats.MaxIdx(mags)
	s.PeakdB = toDB(mags[peak])

	sum := floats.Sum(mags)
	if sum == 0 {
		return s
	}
	s.Peak = freqs[peak]
	s.Centroid = floats.Dot(freqs, mags) / sum

	spread := 0.0
	for i, m := range mags {
		d := freqs[i] - s.Centroid
		spread += d * d * m
	}
	s.Spread = math.Sqrt(spread / sum)
	s.Flatness = wienerEntropy(mags[1:])
	s.Rolloff = rolloff(freqs, mags, DefaultRolloff)
	s.Bandwidth3dB = halfPowerBandwidth(freqs, mags, peak)

	return s
}

func toDB(m float64) float64 {
	if m <= 0 {
		return math.Inf(-1)
	}
	return 20 * math.Log10(m)
}

func wienerEntropy(mags []float64) float64 {
	mean := floats.Sum(mags) / float64(len(mags))
	if mean == 0 {
		return 0
	}

	logSum := 0.0
	for _, m := range mags {
		if m <= 0 {
			return 0
		}
		logSum += math.Log(m)
	}
	return math.Exp(logSum/float64(len(mags))) / mean
}

func rolloff(freqs, mags []float64, fraction float64) float64 {
	threshold := fraction * sumSquares(mags)
	cum := 0.0
	for i, m := range mags {
		cum += m * m
		if cum >= threshold {
			return freqs[i]
		}
	}
	return freqs[len(freqs)-1]
}

// halfPowerBandwidth walks outwards from the peak bin to the first bins at
// or below peak/sqrt(2) and interpolates the crossing frequencies.
func halfPowerBandwidth(freqs, mags []float64, peak int) float64 {
	threshold := mags[peak] / math.Sqrt2
	n := len(mags)

	lower := freqs[0]
	for i := peak; i >= 1; i-- {
		if mags[i-1] <= threshold {
			lower = crossing(freqs[i-1], freqs[i], mags[i-1], mags[i], threshold)
			break
		}
	}

	upper := freqs[n-1]
	for i := peak; i < n-1; i++ {
		if mags[i+1] <= threshold {
			upper = crossing(freqs[i], freqs[i+1], mags[i], mags[i+1], threshold)
			break
		}
	}

	return max(0, upper-lower)
}

func crossing(f0, f1, m0, m1, threshold float64) float64 {
	if m1 == m0 {
		return (f0 + f1) / 2
	}
	return f0 + (threshold-m0)/(m1-m0)*(f1-f0)
}
