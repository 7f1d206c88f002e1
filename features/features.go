package features

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Volume returns (1/B) * sum(S^2) per frame, B being the bin count.
func Volume(spectra [][]float64) []float64 {
	return perFrame(spectra, func(s []float64) float64 {
		return sumSquares(s) / float64(len(s))
	})
}

// FrequencyCentroid returns the amplitude-weighted mean frequency
// sum(F*S) / sum(S) per frame.
func FrequencyCentroid(spectra [][]float64, freqs []float64) []float64 {
	return perFrame(spectra, func(s []float64) float64 {
		return floats.Dot(freqs[:len(s)], s) / floats.Sum(s)
	})
}

// EffectiveBandwidth returns the power spread around the centroid,
// sum((F-c)^2 * S^2) / sum(S^2), using the per-frame centroids c.
func EffectiveBandwidth(spectra [][]float64, freqs, centroid []float64) []float64 {
	out := make([]float64, len(spectra))
	for k, s := range spectra {
		num, den := 0.0, 0.0
		for f, m := range s {
			d := freqs[f] - centroid[k]
			p := m * m
			num += d * d * p
			den += p
		}
		out[k] = num / den
	}
	return out
}

// BandEnergy returns sum(S^2) over the bins inside band, per frame.
// The energy is deliberately not normalised by the total frame power.
func BandEnergy(spectra [][]float64, freqs []float64, band Band) []float64 {
	lo, hi := band.binRange(freqs)
	return perFrame(spectra, func(s []float64) float64 {
		return sumSquares(s[min(lo, len(s)):min(hi, len(s))])
	})
}

// BandEnergyRatio divides band energy by volume frame by frame.
func BandEnergyRatio(bandEnergy, volume []float64) []float64 {
	out := make([]float64, len(bandEnergy))
	for k := range out {
		out[k] = bandEnergy[k] / volume[k]
	}
	return out
}

// SpectralFlatness returns (prod S^2)^(1/D) * D / sum(S^2) over the bins of
// band, D being band.Width(). The geometric term is evaluated in the log
// domain so long bands do not underflow.
func SpectralFlatness(spectra [][]float64, freqs []float64, band Band) []float64 {
	lo, hi := band.binRange(freqs)
	d := band.Width()
	return perFrame(spectra, func(s []float64) float64 {
		in := s[min(lo, len(s)):min(hi, len(s))]

		logSum, sum := 0.0, 0.0
		for _, m := range in {
			p := m * m
			logSum += math.Log(p)
			sum += p
		}
		return math.Exp(logSum/d) * d / sum
	})
}

// SpectralCrestFactor returns argmax_f(S^2) * D / sum_band(S^2).
//
// The numerator is the index of the strongest bin of the whole frame, not of
// the band. See SpectralCrestFactorLocal for the conventional per-band
// peak ratio.
func SpectralCrestFactor(spectra [][]float64, freqs []float64, band Band) []float64 {
	lo, hi := band.binRange(freqs)
	d := band.Width()
	return perFrame(spectra, func(s []float64) float64 {
		if len(s) == 0 {
			return math.NaN()
		}
		// S^2 is monotonic in S, so the argmax is taken on magnitudes.
		peak := floats.MaxIdx(s)
		return float64(peak) * d / sumSquares(s[min(lo, len(s)):min(hi, len(s))])
	})
}

// SpectralCrestFactorLocal returns max_band(S^2) / mean_band(S^2), the
// conventional crest factor of the bins inside band.
func SpectralCrestFactorLocal(spectra [][]float64, freqs []float64, band Band) []float64 {
	lo, hi := band.binRange(freqs)
	return perFrame(spectra, func(s []float64) float64 {
		in := s[min(lo, len(s)):min(hi, len(s))]
		if len(in) == 0 {
			return math.NaN()
		}
		peak := floats.Max(in)
		return peak * peak * float64(len(in)) / sumSquares(in)
	})
}

func perFrame(spectra [][]float64, fn func([]float64) float64) []float64 {
	out := make([]float64, len(spectra))
	for k, s := range spectra {
		out[k] = fn(s)
	}
	return out
}

func sumSquares(s []float64) float64 {
	return floats.Dot(s, s)
}
