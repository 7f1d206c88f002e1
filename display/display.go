// Package display prepares feature series and spectra for plotting.
package display

import (
	"image"
	"image/color"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/cwbudde/algo-soundparams/analysis"
	"github.com/cwbudde/algo-soundparams/dsp/spectrum"
)

// RangePadding is the fraction of the value span added above and below a
// plotted series.
const RangePadding = 0.05

// Sanitize returns a copy of values with NaN and infinities replaced by 0.
func Sanitize(values []float64) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			out[i] = v
		}
	}
	return out
}

// PlotRange returns y-axis limits for values: the value range padded by
// RangePadding of its span, or by 1 when all values are equal. Non-finite
// values are ignored. ok is false when nothing finite remains.
func PlotRange(values []float64) (lo, hi float64, ok bool) {
	lo, hi, ok = finiteBounds(values)
	if !ok {
		return 0, 0, false
	}

	pad := 1.0
	if hi != lo {
		pad = (hi - lo) * RangePadding
	}
	return lo - pad, hi + pad, true
}

// WaveRange returns y-axis limits for a waveform: 0.9 times the minimum and
// 1.1 times the maximum sample.
func WaveRange(samples []float64) (lo, hi float64, ok bool) {
	lo, hi, ok = finiteBounds(samples)
	if !ok {
		return 0, 0, false
	}
	return lo * 0.9, hi * 1.1, true
}

func finiteBounds(values []float64) (lo, hi float64, ok bool) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		lo = min(lo, v)
		hi = max(hi, v)
		ok = true
	}
	return lo, hi, ok
}

// LogMagnitude converts magnitudes to decibels with spectrum.LogFloor added
// so silent bins stay finite.
func LogMagnitude(mags []float64) []float64 {
	out := make([]float64, len(mags))
	for i, m := range mags {
		out[i] = 20 * math.Log10(m+spectrum.LogFloor)
	}
	return out
}

// SpectrogramImage renders sg as a grayscale image with one column per frame
// and one row per bin. Row 0 holds the highest frequency. Intensities are
// log magnitudes scaled between the quietest and loudest bin.
func SpectrogramImage(sg analysis.Spectrogram) *image.Gray {
	frames := len(sg.Magnitudes)
	bins := len(sg.Freqs)
	img := image.NewGray(image.Rect(0, 0, frames, bins))
	if frames == 0 || bins == 0 {
		return img
	}

	db := make([][]float64, frames)
	for x, row := range sg.Magnitudes {
		db[x] = LogMagnitude(row)
	}

	lo, hi := math.Inf(1), math.Inf(-1)
	for _, row := range db {
		lo = min(lo, floats.Min(row))
		hi = max(hi, floats.Max(row))
	}
	scale := 0.0
	if hi > lo {
		scale = 255 / (hi - lo)
	}

	for x, row := range db {
		for f, v := range row {
			img.SetGray(x, bins-1-f, color.Gray{Y: uint8(math.Round((v - lo) * scale))})
		}
	}
	return img
}
