package analysis

import (
	"fmt"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/cwbudde/algo-soundparams/dsp/spectrum"
	"github.com/cwbudde/algo-soundparams/dsp/window"
	"github.com/cwbudde/algo-soundparams/pitch"
	"github.com/cwbudde/algo-soundparams/sound"
)

// frameData holds the magnitude spectra of every frame of a signal.
type frameData struct {
	hop     int
	spectra [][]float64
	// times[k] is the timestamp of the first sample of frame k.
	times []float64
	// freqs[f] is the centre frequency of bin f.
	freqs []float64
}

// computeFrames windows and transforms every frame of sig.
func computeFrames(sig *sound.Signal, spec WindowSpec, workers int) (*frameData, error) {
	coeffs, err := window.Generate(spec.Type, spec.Size)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfiguration, err)
	}

	count := spec.FrameCount(sig.Len())
	bins := spec.Bins()

	fd := &frameData{
		hop:     spec.Hop,
		spectra: make([][]float64, count),
		times:   make([]float64, count),
		freqs:   spectrum.BinFrequencies(bins, spec.Size, float64(sig.SampleRate())),
	}

	backing := make([]float64, count*bins)
	times := sig.Times()
	for k := range fd.spectra {
		fd.spectra[k] = backing[k*bins : (k+1)*bins : (k+1)*bins]
		fd.times[k] = times[k*spec.Hop]
	}

	samples := sig.Samples()
	err = forEachFrame(count, workers, func() (func(k int) error, error) {
		fft, err := spectrum.NewFFT(spec.Size)
		if err != nil {
			return nil, err
		}
		buf := make([]float64, spec.Size)

		return func(k int) error {
			start := k * spec.Hop
			if err := window.ApplyCoefficientsInto(buf, samples[start:start+spec.Size], coeffs); err != nil {
				return err
			}
			return fft.RealMagnitude(fd.spectra[k], buf)
		}, nil
	})
	if err != nil {
		return nil, fmt.Errorf("analysis: frame spectra: %w", err)
	}

	return fd, nil
}

// computePitch runs the cepstral estimator on every windowed frame.
func computePitch(sig *sound.Signal, spec WindowSpec, cfg Config) ([]float64, error) {
	coeffs, err := window.Generate(spec.Type, spec.Size)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfiguration, err)
	}

	count := spec.FrameCount(sig.Len())
	out := make([]float64, count)
	samples := sig.Samples()

	err = forEachFrame(count, cfg.workers(), func() (func(k int) error, error) {
		est, err := pitch.NewEstimator(sig.SampleRate(), spec.Size, pitch.WithRange(cfg.PitchMinHz, cfg.PitchMaxHz))
		if err != nil {
			return nil, err
		}
		buf := make([]float64, spec.Size)

		return func(k int) error {
			start := k * spec.Hop
			if err := window.ApplyCoefficientsInto(buf, samples[start:start+spec.Size], coeffs); err != nil {
				return err
			}
			f0, err := est.Estimate(buf)
			out[k] = f0
			return err
		}, nil
	})
	if err != nil {
		return nil, fmt.Errorf("analysis: fundamental frequency: %w", err)
	}

	return out, nil
}

// computeFullSpectrum transforms the whole signal under a window of its own
// length and keeps the first n/2 magnitudes.
func computeFullSpectrum(sig *sound.Signal, t window.Type) (*fullSpectrum, error) {
	n := sig.Len()

	// The coefficients are multiplied by the samples in place.
	windowed, err := window.Generate(t, n)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfiguration, err)
	}
	if err := window.ApplyCoefficientsInPlace(windowed, sig.Samples()); err != nil {
		return nil, err
	}

	fft, err := spectrum.NewFFT(n)
	if err != nil {
		return nil, fmt.Errorf("analysis: full spectrum: %w", err)
	}

	mags := make([]float64, n/2)
	if err := fft.RealMagnitude(mags, windowed); err != nil {
		return nil, fmt.Errorf("analysis: full spectrum: %w", err)
	}

	return &fullSpectrum{
		freqs: spectrum.BinFrequencies(n/2, n, float64(sig.SampleRate())),
		mags:  mags,
	}, nil
}

// forEachFrame splits [0, count) into contiguous chunks, one per worker.
// newWorker is called once per chunk so each goroutine owns its buffers.
func forEachFrame(count, workers int, newWorker func() (func(k int) error, error)) error {
	if count == 0 {
		return nil
	}

	workers = max(1, min(workers, count))
	chunk := (count + workers - 1) / workers

	var g errgroup.Group
	for first := 0; first < count; first += chunk {
		last := min(first+chunk, count)
		g.Go(func() error {
			fn, err := newWorker()
			if err != nil {
				return err
			}
			for k := first; k < last; k++ {
				if err := fn(k); err != nil {
					return err
				}
			}
			return nil
		})
	}

	return g.Wait()
}

// frameRange maps the sample range [start, end) to the frames whose first
// sample lies inside it, using binary search over the frame starts k*hop.
func frameRange(start, end, hop, count int) (first, last int) {
	if end <= start {
		return 0, 0
	}
	first = sort.Search(count, func(k int) bool { return k*hop >= start })
	last = sort.Search(count, func(k int) bool { return k*hop > end-1 })
	return first, last
}
