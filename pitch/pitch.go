package pitch

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/cwbudde/algo-soundparams/dsp/spectrum"
)

const (
	// DefaultMinHz is the lowest fundamental searched for.
	DefaultMinHz = 50.0
	// DefaultMaxHz is the highest fundamental searched for.
	DefaultMaxHz = 400.0
)

// ErrInvalidRange is returned when the lag search range is empty or does not
// fit into the frame.
var ErrInvalidRange = errors.New("pitch: invalid cepstral search range")

// Option configures an Estimator.
type Option func(*config)

type config struct {
	minHz, maxHz float64
}

// WithRange limits the search to fundamentals in [minHz, maxHz].
func WithRange(minHz, maxHz float64) Option {
	return func(c *config) {
		c.minHz = minHz
		c.maxHz = maxHz
	}
}

// Estimator finds the cepstral peak of fixed-size frames.
// An Estimator is not safe for concurrent use.
type Estimator struct {
	sampleRate     float64
	size           int
	minLag, maxLag int

	fft  *spectrum.FFT
	ceps []float64
}

// NewEstimator prepares an estimator for frames of size samples at
// sampleRate. The lag range [round(rate/maxHz), round(rate/minHz)) must be
// non-empty, start above zero and fit into the frame.
func NewEstimator(sampleRate, size int, opts ...Option) (*Estimator, error) {
	cfg := config{minHz: DefaultMinHz, maxHz: DefaultMaxHz}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	minLag, maxLag, err := LagRange(sampleRate, size, cfg.minHz, cfg.maxHz)
	if err != nil {
		return nil, err
	}

	fft, err := spectrum.NewFFT(size)
	if err != nil {
		return nil, fmt.Errorf("pitch: %w", err)
	}

	return &Estimator{
		sampleRate: float64(sampleRate),
		size:       size,
		minLag:     minLag,
		maxLag:     maxLag,
		fft:        fft,
		ceps:       make([]float64, size),
	}, nil
}

// LagRange returns the half-open quefrency range in samples searched for
// fundamentals between minHz and maxHz.
func LagRange(sampleRate, size int, minHz, maxHz float64) (minLag, maxLag int, err error) {
	if sampleRate <= 0 || size <= 0 {
		return 0, 0, fmt.Errorf("%w: sample rate %d, frame size %d", ErrInvalidRange, sampleRate, size)
	}
	if !(minHz > 0) || !(maxHz > minHz) {
		return 0, 0, fmt.Errorf("%w: frequency range [%g, %g] Hz", ErrInvalidRange, minHz, maxHz)
	}

	rate := float64(sampleRate)
	minLag = int(math.Round(rate / maxHz))
	maxLag = int(math.Round(rate / minHz))

	switch {
	case minLag < 1:
		return 0, 0, fmt.Errorf("%w: minimum lag %d below one sample", ErrInvalidRange, minLag)
	case maxLag <= minLag:
		return 0, 0, fmt.Errorf("%w: empty lag range [%d, %d)", ErrInvalidRange, minLag, maxLag)
	case maxLag > size:
		return 0, 0, fmt.Errorf("%w: lag range [%d, %d) exceeds frame size %d", ErrInvalidRange, minLag, maxLag, size)
	}

	return minLag, maxLag, nil
}

// LagRange returns the searched quefrency range of e.
func (e *Estimator) LagRange() (minLag, maxLag int) { return e.minLag, e.maxLag }

// Size returns the expected frame length.
func (e *Estimator) Size() int { return e.size }

// Cepstrum returns the real cepstrum of frame in a new slice.
func (e *Estimator) Cepstrum(frame []float64) ([]float64, error) {
	out := make([]float64, e.size)
	if err := e.fft.RealCepstrum(out, frame); err != nil {
		return nil, fmt.Errorf("pitch: %w", err)
	}
	return out, nil
}

// Estimate returns sampleRate / lag for the cepstral peak of an already
// windowed frame.
func (e *Estimator) Estimate(frame []float64) (float64, error) {
	if err := e.fft.RealCepstrum(e.ceps, frame); err != nil {
		return 0, fmt.Errorf("pitch: %w", err)
	}

	lag := e.minLag + floats.MaxIdx(e.ceps[e.minLag:e.maxLag])
	return e.sampleRate / float64(lag), nil
}
