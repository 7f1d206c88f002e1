package analysis

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/cwbudde/algo-soundparams/features"
	"github.com/cwbudde/algo-soundparams/pitch"
	"github.com/cwbudde/algo-soundparams/sound"
)

// Source is a signal together with a half-open sample range [start, end).
// *sound.Selection satisfies it.
type Source interface {
	Signal() *sound.Signal
	Bounds() (start, end int)
}

// Series is a feature sampled once per frame.
type Series struct {
	Times  []float64
	Values []float64
}

// Len returns the number of frames in the series.
func (s Series) Len() int { return len(s.Values) }

// Spectrogram holds the magnitude rows of the frames inside a selection.
type Spectrogram struct {
	Times      []float64
	Freqs      []float64
	Magnitudes [][]float64
}

// Stats counts cache activity since the engine was created.
type Stats struct {
	// Computations counts cache misses that ran a transform or a formula.
	Computations int
	// Hits counts lookups answered from the cache.
	Hits int
	// Invalidations counts how often populated entries were dropped.
	Invalidations int
	// Entries is the number of entries currently held.
	Entries int
}

// Engine computes framed spectra and derived features for one signal at a
// time and caches everything under the (signal identity, window) pair.
//
// An Engine is not safe for concurrent use.
type Engine struct {
	cfg    Config
	logger *slog.Logger
	cache  *store
	stats  Stats
}

// New returns an engine configured by opts on top of DefaultConfig.
func New(opts ...Option) (*Engine, error) {
	o := options{
		cfg:    DefaultConfig(),
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(&o)
	}

	if err := o.cfg.Validate(); err != nil {
		return nil, err
	}

	return &Engine{
		cfg:    o.cfg,
		logger: o.logger,
		cache:  newStore(),
	}, nil
}

// Window returns the current framing parameters.
func (e *Engine) Window() WindowSpec { return e.cfg.Window }

// Config returns a copy of the engine configuration.
func (e *Engine) Config() Config { return e.cfg.clone() }

// Stats returns the cache counters.
func (e *Engine) Stats() Stats {
	s := e.stats
	s.Entries = e.cache.len()
	return s
}

// SetWindow replaces the framing parameters and drops every cached entry.
// An invalid spec is rejected and leaves both the window and the cache as
// they were.
func (e *Engine) SetWindow(spec WindowSpec) error {
	if err := spec.Validate(e.cfg.MaxComplexity); err != nil {
		return err
	}

	e.logger.Debug("window changed", "from", e.cfg.Window, "to", spec)
	e.cfg.Window = spec
	e.Invalidate()

	return nil
}

// Invalidate drops every cached entry.
func (e *Engine) Invalidate() {
	if e.cache.len() > 0 {
		e.stats.Invalidations++
	}
	e.cache.reset()
}

// FrameTimes returns the start time of every frame inside src.
func (e *Engine) FrameTimes(src Source) ([]float64, error) {
	fd, err := e.frames(src.Signal())
	if err != nil {
		return nil, err
	}

	first, last := frameSpan(src, fd)
	return slices.Clone(fd.times[first:last]), nil
}

// Spectra returns copies of the magnitude rows of the frames inside src.
func (e *Engine) Spectra(src Source) ([][]float64, error) {
	fd, err := e.frames(src.Signal())
	if err != nil {
		return nil, err
	}

	first, last := frameSpan(src, fd)
	out := make([][]float64, 0, last-first)
	for _, row := range fd.spectra[first:last] {
		out = append(out, slices.Clone(row))
	}
	return out, nil
}

// Spectrogram returns the frames inside src with their time and frequency
// axes.
func (e *Engine) Spectrogram(src Source) (Spectrogram, error) {
	mags, err := e.Spectra(src)
	if err != nil {
		return Spectrogram{}, err
	}

	fd, err := e.frames(src.Signal())
	if err != nil {
		return Spectrogram{}, err
	}
	first, last := frameSpan(src, fd)

	return Spectrogram{
		Times:      slices.Clone(fd.times[first:last]),
		Freqs:      slices.Clone(fd.freqs),
		Magnitudes: mags,
	}, nil
}

// FullSpectrum returns the magnitude spectrum of the whole signal under a
// single window of the configured type and the frequency of each bin.
func (e *Engine) FullSpectrum(sig *sound.Signal) (freqs, mags []float64, err error) {
	e.ensure(sig)

	if e.cache.full != nil {
		e.stats.Hits++
	} else {
		full, err := computeFullSpectrum(sig, e.cfg.Window.Type)
		if err != nil {
			return nil, nil, err
		}
		e.stats.Computations++
		e.logger.Debug("computed full spectrum", "signal", sig.Identity(), "bins", len(full.mags))
		e.cache.full = full
	}

	return slices.Clone(e.cache.full.freqs), slices.Clone(e.cache.full.mags), nil
}

// Series returns the feature kind over the frames inside src. band is an
// index into Config.Bands and is ignored by kinds that are not band scoped.
func (e *Engine) Series(src Source, kind Kind, band int) (Series, error) {
	values, err := e.series(src.Signal(), kind, band)
	if err != nil {
		return Series{}, err
	}

	fd := e.cache.frames
	first, last := frameSpan(src, fd)

	return Series{
		Times:  slices.Clone(fd.times[first:last]),
		Values: slices.Clone(values[first:last]),
	}, nil
}

// FullSeries returns the feature kind over every frame of sig.
func (e *Engine) FullSeries(sig *sound.Signal, kind Kind, band int) (Series, error) {
	values, err := e.series(sig, kind, band)
	if err != nil {
		return Series{}, err
	}

	return Series{
		Times:  slices.Clone(e.cache.frames.times),
		Values: slices.Clone(values),
	}, nil
}

// Volume returns the mean spectral power per frame.
func (e *Engine) Volume(src Source) (Series, error) {
	return e.Series(src, KindVolume, 0)
}

// FrequencyCentroid returns the magnitude-weighted mean frequency per frame.
func (e *Engine) FrequencyCentroid(src Source) (Series, error) {
	return e.Series(src, KindFrequencyCentroid, 0)
}

// EffectiveBandwidth returns the power spread around the centroid per frame.
func (e *Engine) EffectiveBandwidth(src Source) (Series, error) {
	return e.Series(src, KindEffectiveBandwidth, 0)
}

// FundamentalFrequency returns the cepstral pitch estimate per frame.
func (e *Engine) FundamentalFrequency(src Source) (Series, error) {
	return e.Series(src, KindFundamentalFrequency, 0)
}

// BandEnergy returns the in-band power per frame.
func (e *Engine) BandEnergy(src Source, band int) (Series, error) {
	return e.Series(src, KindBandEnergy, band)
}

// BandEnergyRatio returns band energy divided by volume per frame.
func (e *Engine) BandEnergyRatio(src Source, band int) (Series, error) {
	return e.Series(src, KindBandEnergyRatio, band)
}

// SpectralFlatness returns the in-band flatness per frame.
func (e *Engine) SpectralFlatness(src Source, band int) (Series, error) {
	return e.Series(src, KindSpectralFlatness, band)
}

// SpectralCrestFactor returns the crest factor per frame. The peak is the
// strongest bin of the whole frame.
func (e *Engine) SpectralCrestFactor(src Source, band int) (Series, error) {
	return e.Series(src, KindSpectralCrestFactor, band)
}

// SpectralCrestFactorLocal returns the in-band peak-to-mean power ratio per
// frame.
func (e *Engine) SpectralCrestFactorLocal(src Source, band int) (Series, error) {
	return e.Series(src, KindSpectralCrestFactorLocal, band)
}

// ensure binds the cache to sig and the current window.
func (e *Engine) ensure(sig *sound.Signal) {
	key := cacheKey{identity: sig.Identity(), window: e.cfg.Window}
	if e.cache.bound && e.cache.key != key {
		e.logger.Debug("cache rebound", "signal", key.identity, "window", key.window)
	}
	populated := e.cache.len() > 0
	if e.cache.bind(key) && populated {
		e.stats.Invalidations++
	}
}

// frames returns the cached per-frame spectra of sig, computing them on a
// miss.
func (e *Engine) frames(sig *sound.Signal) (*frameData, error) {
	e.ensure(sig)

	if e.cache.frames != nil {
		e.stats.Hits++
		return e.cache.frames, nil
	}

	fd, err := computeFrames(sig, e.cfg.Window, e.cfg.workers())
	if err != nil {
		return nil, err
	}
	e.stats.Computations++
	e.logger.Debug("computed frame spectra",
		"signal", sig.Identity(),
		"window", e.cfg.Window,
		"frames", len(fd.spectra))

	e.cache.frames = fd
	return fd, nil
}

// series returns the full-length cached values of kind, validating the
// request before the cache is touched.
func (e *Engine) series(sig *sound.Signal, kind Kind, band int) ([]float64, error) {
	key, err := e.seriesKey(kind, band)
	if err != nil {
		return nil, err
	}
	if kind == KindFundamentalFrequency {
		_, _, err := pitch.LagRange(sig.SampleRate(), e.cfg.Window.Size, e.cfg.PitchMinHz, e.cfg.PitchMaxHz)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrConfiguration, err)
		}
	}

	fd, err := e.frames(sig)
	if err != nil {
		return nil, err
	}

	if v, ok := e.cache.lookup(key); ok {
		e.stats.Hits++
		return v, nil
	}

	var values []float64
	switch kind {
	case KindVolume:
		values = features.Volume(fd.spectra)
	case KindFrequencyCentroid:
		values = features.FrequencyCentroid(fd.spectra, fd.freqs)
	case KindEffectiveBandwidth:
		centroid, err := e.series(sig, KindFrequencyCentroid, 0)
		if err != nil {
			return nil, err
		}
		values = features.EffectiveBandwidth(fd.spectra, fd.freqs, centroid)
	case KindFundamentalFrequency:
		values, err = computePitch(sig, e.cfg.Window, e.cfg)
		if err != nil {
			return nil, err
		}
	case KindBandEnergy:
		values = features.BandEnergy(fd.spectra, fd.freqs, e.cfg.Bands[band])
	case KindBandEnergyRatio:
		energy, err := e.series(sig, KindBandEnergy, band)
		if err != nil {
			return nil, err
		}
		volume, err := e.series(sig, KindVolume, 0)
		if err != nil {
			return nil, err
		}
		values = features.BandEnergyRatio(energy, volume)
	case KindSpectralFlatness:
		values = features.SpectralFlatness(fd.spectra, fd.freqs, e.cfg.Bands[band])
	case KindSpectralCrestFactor:
		values = features.SpectralCrestFactor(fd.spectra, fd.freqs, e.cfg.Bands[band])
	case KindSpectralCrestFactorLocal:
		values = features.SpectralCrestFactorLocal(fd.spectra, fd.freqs, e.cfg.Bands[band])
	}

	e.stats.Computations++
	e.logger.Debug("computed series", "signal", sig.Identity(), "kind", kind, "band", key.band)
	e.cache.put(key, values)

	return values, nil
}

func (e *Engine) seriesKey(kind Kind, band int) (seriesKey, error) {
	if !kind.Valid() {
		return seriesKey{}, fmt.Errorf("%w: %d", ErrUnknownKind, int(kind))
	}
	if !kind.BandScoped() {
		return seriesKey{kind: kind, band: -1}, nil
	}
	if band < 0 || band >= len(e.cfg.Bands) {
		return seriesKey{}, fmt.Errorf("%w: %d (have %d)", ErrUnknownBand, band, len(e.cfg.Bands))
	}
	return seriesKey{kind: kind, band: band}, nil
}

// frameSpan maps the bounds of src to a frame index range of fd.
func frameSpan(src Source, fd *frameData) (first, last int) {
	start, end := src.Bounds()
	return frameRange(start, end, fd.hop, len(fd.spectra))
}
