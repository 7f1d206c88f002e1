package sound

import (
	"fmt"

	"github.com/cwbudde/algo-vecmath"
)

// Signal is an immutable mono waveform normalised to [-1, 1].
//
// Identity names the source (usually the file path). Two signals with the
// same identity are treated as the same data by caches.
type Signal struct {
	identity string
	samples  []float64
	times    []float64
	rate     int
}

// NewSignal copies samples, divides them by their peak absolute value and
// precomputes the per-sample timestamps t[i] = i / sampleRate.
// A silent buffer is kept as-is.
func NewSignal(identity string, samples []float64, sampleRate int) (*Signal, error) {
	if len(samples) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrEmptySignal, identity)
	}
	if sampleRate <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSampleRate, sampleRate)
	}

	normalized := make([]float64, len(samples))
	if peak := vecmath.MaxAbs(samples); peak > 0 {
		vecmath.ScaleBlock(normalized, samples, 1/peak)
	} else {
		copy(normalized, samples)
	}

	times := make([]float64, len(samples))
	step := 1 / float64(sampleRate)
	for i := range times {
		times[i] = float64(i) * step
	}

	return &Signal{
		identity: identity,
		samples:  normalized,
		times:    times,
		rate:     sampleRate,
	}, nil
}

// Identity returns the cache identity of the signal.
func (s *Signal) Identity() string { return s.identity }

// SampleRate returns the sample rate in Hz.
func (s *Signal) SampleRate() int { return s.rate }

// Len returns the number of samples.
func (s *Signal) Len() int { return len(s.samples) }

// Duration returns the length in seconds.
func (s *Signal) Duration() float64 { return float64(len(s.samples)) / float64(s.rate) }

// Samples returns the normalised samples. The slice must not be modified.
func (s *Signal) Samples() []float64 { return s.samples }

// Times returns the timestamp of every sample. The slice must not be modified.
func (s *Signal) Times() []float64 { return s.times }
