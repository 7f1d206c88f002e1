package sound

import (
	"math"

	"github.com/cwbudde/algo-vecmath"
	"gonum.org/v1/gonum/floats"
)

// Stats summarises the samples of a selection in the time domain.
type Stats struct {
	Samples  int
	Duration float64
	DC       float64
	RMS      float64
	Peak     float64
	// CrestFactordB is 20*log10(Peak/RMS), zero for silence.
	CrestFactordB float64
	// ZeroCrossingRate is the number of sign changes per second.
	ZeroCrossingRate float64
}

// Stats returns time-domain statistics of the selected samples. An empty
// selection yields a zero Stats.
func (s *Selection) Stats() Stats {
	_, samples := s.Data()
	return Summarize(samples, s.signal.rate)
}

// Summarize computes Stats for samples recorded at sampleRate.
func Summarize(samples []float64, sampleRate int) Stats {
	n := len(samples)
	if n == 0 || sampleRate <= 0 {
		return Stats{}
	}

	st := Stats{
		Samples:  n,
		Duration: float64(n) / float64(sampleRate),
		DC:       floats.Sum(samples) / float64(n),
		RMS:      math.Sqrt(floats.Dot(samples, samples) / float64(n)),
		Peak:     vecmath.MaxAbs(samples),
	}
	if st.RMS > 0 {
		st.CrestFactordB = 20 * math.Log10(st.Peak/st.RMS)
	}

	crossings := 0
	for i := 1; i < n; i++ {
		if samples[i-1]*samples[i] < 0 {
			crossings++
		}
	}
	st.ZeroCrossingRate = float64(crossings) / st.Duration

	return st
}
