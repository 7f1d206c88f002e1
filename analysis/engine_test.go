package analysis

import (
	"math"
	"math/cmplx"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-soundparams/dsp/window"
	"github.com/cwbudde/algo-soundparams/features"
	"github.com/cwbudde/algo-soundparams/internal/testutil"
	"github.com/cwbudde/algo-soundparams/sound"
)

const testRate = 44100

func newSignal(t *testing.T, identity string, samples []float64) *sound.Signal {
	t.Helper()

	sig, err := sound.NewSignal(identity, samples, testRate)
	require.NoError(t, err)
	return sig
}

func newEngine(t *testing.T, opts ...Option) *Engine {
	t.Helper()

	e, err := New(opts...)
	require.NoError(t, err)
	return e
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	_, err := New(WithWindow(WindowSpec{Size: 2048, Hop: 0}))
	require.ErrorIs(t, err, ErrConfiguration)

	_, err = New(WithBands())
	require.ErrorIs(t, err, ErrConfiguration)

	_, err = New(WithPitchRange(400, 50))
	require.ErrorIs(t, err, ErrConfiguration)

	_, err = New(WithWorkers(-1))
	require.ErrorIs(t, err, ErrConfiguration)
}

func TestFrameCount(t *testing.T) {
	cases := []struct {
		n, size, hop, want int
	}{
		{10000, 2048, 1024, 8},
		{2048, 2048, 1024, 1},
		{2047, 2048, 1024, 0},
		{4096, 2048, 2048, 2},
		{4095, 1024, 100, 31},
	}
	for _, tc := range cases {
		spec := WindowSpec{Size: tc.size, Hop: tc.hop}
		require.Equal(t, tc.want, spec.FrameCount(tc.n), "n=%d size=%d hop=%d", tc.n, tc.size, tc.hop)
	}

	e := newEngine(t)
	sig := newSignal(t, "noise", testutil.DeterministicNoise(1, 1, 10000))
	vol, err := e.FullSeries(sig, KindVolume, 0)
	require.NoError(t, err)
	require.Equal(t, 8, vol.Len())
	require.Len(t, vol.Times, 8)
	for k, ts := range vol.Times {
		require.Equal(t, sig.Times()[k*1024], ts)
	}
}

func TestShortSignalYieldsEmptySeries(t *testing.T) {
	e := newEngine(t)
	sig := newSignal(t, "short", testutil.DeterministicSine(220, testRate, 1, 1000))

	vol, err := e.FullSeries(sig, KindVolume, 0)
	require.NoError(t, err)
	require.Zero(t, vol.Len())

	f0, err := e.FundamentalFrequency(sound.NewSelection(sig))
	require.NoError(t, err)
	require.Zero(t, f0.Len())
}

func TestSeriesIsCached(t *testing.T) {
	e := newEngine(t)
	sel := sound.NewSelection(newSignal(t, "sine", testutil.DeterministicSine(440, testRate, 1, testRate)))

	first, err := e.Volume(sel)
	require.NoError(t, err)
	computed := e.Stats().Computations
	require.Equal(t, 2, computed, "frame spectra and volume")

	second, err := e.Volume(sel)
	require.NoError(t, err)
	require.Equal(t, computed, e.Stats().Computations)
	require.Positive(t, e.Stats().Hits)
	require.Equal(t, first, second)

	// Returned slices are copies.
	second.Values[0] = -1
	third, err := e.Volume(sel)
	require.NoError(t, err)
	require.Equal(t, first.Values[0], third.Values[0])
}

func TestDerivedSeriesReuseCachedInputs(t *testing.T) {
	e := newEngine(t)
	sel := sound.NewSelection(newSignal(t, "sine", testutil.DeterministicSine(440, testRate, 1, testRate)))

	_, err := e.BandEnergyRatio(sel, 0)
	require.NoError(t, err)
	// spectra, band energy, volume, ratio
	require.Equal(t, 4, e.Stats().Computations)

	_, err = e.BandEnergy(sel, 0)
	require.NoError(t, err)
	_, err = e.Volume(sel)
	require.NoError(t, err)
	require.Equal(t, 4, e.Stats().Computations)

	_, err = e.EffectiveBandwidth(sel)
	require.NoError(t, err)
	// centroid and bandwidth
	require.Equal(t, 6, e.Stats().Computations)
}

func TestSetWindowInvalidatesEverything(t *testing.T) {
	e := newEngine(t)
	sig := newSignal(t, "noise", testutil.DeterministicNoise(7, 1, testRate))
	sel := sound.NewSelection(sig)

	before, err := e.BandEnergy(sel, 1)
	require.NoError(t, err)
	_, err = e.SpectralFlatness(sel, 2)
	require.NoError(t, err)
	require.Equal(t, 3, e.Stats().Entries)

	spec := WindowSpec{Size: 1024, Hop: 256, Type: window.TypeHanning}
	require.NoError(t, e.SetWindow(spec))
	require.Equal(t, spec, e.Window())
	require.Zero(t, e.Stats().Entries)
	require.Equal(t, 1, e.Stats().Invalidations)

	after, err := e.BandEnergy(sel, 1)
	require.NoError(t, err)
	require.Equal(t, spec.FrameCount(sig.Len()), after.Len())
	require.NotEqual(t, before.Len(), after.Len())
}

func TestSetWindowRejectsInvalidSpecs(t *testing.T) {
	e := newEngine(t)
	sel := sound.NewSelection(newSignal(t, "noise", testutil.DeterministicNoise(3, 1, testRate)))

	_, err := e.Volume(sel)
	require.NoError(t, err)
	entries := e.Stats().Entries
	prev := e.Window()

	bad := []WindowSpec{
		{Size: 2048, Hop: 0, Type: window.TypeHanning},
		{Size: 0, Hop: 10, Type: window.TypeHanning},
		{Size: 3000, Hop: 100, Type: window.TypeHanning},
		{Size: 2048, Hop: 1024, Type: window.Type(42)},
	}
	for _, spec := range bad {
		err := e.SetWindow(spec)
		require.ErrorIs(t, err, ErrConfiguration, "spec %+v", spec)
		require.Equal(t, prev, e.Window())
		require.Equal(t, entries, e.Stats().Entries)
		require.Zero(t, e.Stats().Invalidations)
	}

	// Size/Hop == MaxComplexity is accepted.
	require.NoError(t, e.SetWindow(WindowSpec{Size: 2500, Hop: 100, Type: window.TypeHanning}))
}

func TestIdentityChangeInvalidates(t *testing.T) {
	e := newEngine(t)
	a := sound.NewSelection(newSignal(t, "a", testutil.DeterministicSine(440, testRate, 1, testRate)))
	b := sound.NewSelection(newSignal(t, "b", testutil.DeterministicSine(880, testRate, 1, testRate)))

	va, err := e.FrequencyCentroid(a)
	require.NoError(t, err)
	vb, err := e.FrequencyCentroid(b)
	require.NoError(t, err)
	require.Equal(t, 1, e.Stats().Invalidations)
	require.NotEqual(t, va.Values, vb.Values)
	require.Equal(t, 4, e.Stats().Computations)
}

func TestEmptySelection(t *testing.T) {
	e := newEngine(t)
	sel := sound.NewSelection(newSignal(t, "sine", testutil.DeterministicSine(440, testRate, 1, testRate)))
	sel.SelectIndices(5000, 5000)

	vol, err := e.Volume(sel)
	require.NoError(t, err)
	require.Zero(t, vol.Len())
	require.Empty(t, vol.Times)

	times, err := e.FrameTimes(sel)
	require.NoError(t, err)
	require.Empty(t, times)
}

func TestSeriesSlicing(t *testing.T) {
	const rate = 8000

	sig, err := sound.NewSignal("noise", testutil.DeterministicNoise(11, 1, rate), rate)
	require.NoError(t, err)

	e := newEngine(t, WithWindow(WindowSpec{Size: 256, Hop: 128}))
	full, err := e.FullSeries(sig, KindVolume, 0)
	require.NoError(t, err)
	require.Equal(t, 61, full.Len())

	sel := sound.NewSelection(sig)
	sel.SelectIndices(1000, 3000)

	got, err := e.Volume(sel)
	require.NoError(t, err)

	// Frames whose first sample lies in [1000, 3000): ceil(1000/128) = 8
	// through floor(2999/128) = 23.
	require.Equal(t, full.Values[8:24], got.Values)
	require.Equal(t, full.Times[8:24], got.Times)
	require.InDelta(t, 1024.0/rate, got.Times[0], 1e-12)

	// A selection starting exactly on a frame start includes that frame.
	sel.SelectIndices(1024, 1025)
	got, err = e.Volume(sel)
	require.NoError(t, err)
	require.Equal(t, full.Values[8:9], got.Values)
}

func TestFundamentalFrequencyOfHarmonicTone(t *testing.T) {
	e := newEngine(t, WithWindow(WindowSpec{Size: 2048, Hop: 1024, Type: window.TypeHanning}))
	sel := sound.NewSelection(newSignal(t, "tone", testutil.Harmonic(220, testRate, 8, testRate/2)))

	f0, err := e.FundamentalFrequency(sel)
	require.NoError(t, err)
	require.NotZero(t, f0.Len())
	for k, v := range f0.Values {
		require.InDelta(t, 220, v, 5, "frame %d", k)
	}
}

func TestFundamentalFrequencyRejectsShortWindow(t *testing.T) {
	e := newEngine(t, WithWindow(WindowSpec{Size: 512, Hop: 256}))
	sel := sound.NewSelection(newSignal(t, "tone", testutil.DeterministicSine(220, testRate, 1, testRate)))

	_, err := e.FundamentalFrequency(sel)
	require.ErrorIs(t, err, ErrConfiguration)
	require.Zero(t, e.Stats().Entries)
}

func TestUnknownBandAndKind(t *testing.T) {
	e := newEngine(t)
	sel := sound.NewSelection(newSignal(t, "sine", testutil.DeterministicSine(440, testRate, 1, testRate)))

	_, err := e.BandEnergy(sel, len(features.DefaultBands()))
	require.ErrorIs(t, err, ErrUnknownBand)
	_, err = e.SpectralFlatness(sel, -1)
	require.ErrorIs(t, err, ErrUnknownBand)
	_, err = e.Series(sel, Kind(99), 0)
	require.ErrorIs(t, err, ErrUnknownKind)
	require.Zero(t, e.Stats().Entries)

	// Band is ignored by frame-wide kinds.
	_, err = e.Series(sel, KindVolume, 17)
	require.NoError(t, err)
}

func TestBandEnergyRatioBoundedByBinCount(t *testing.T) {
	e := newEngine(t)
	sel := sound.NewSelection(newSignal(t, "noise", testutil.DeterministicNoise(5, 1, testRate)))
	bins := float64(e.Window().Bins())

	total := make([]float64, 0)
	for b := range e.Config().Bands {
		ratio, err := e.BandEnergyRatio(sel, b)
		require.NoError(t, err)
		if len(total) == 0 {
			total = make([]float64, ratio.Len())
		}
		for k, v := range ratio.Values {
			share := v / bins
			require.GreaterOrEqual(t, share, 0.0)
			require.LessOrEqual(t, share, 1+1e-9)
			total[k] += share
		}
	}
	// The default bands cover 0 to 11025 Hz of a 22050 Hz wide spectrum.
	for _, v := range total {
		require.LessOrEqual(t, v, 1+1e-9)
	}
}

func TestSpectralFlatnessBounds(t *testing.T) {
	e := newEngine(t)
	sel := sound.NewSelection(newSignal(t, "noise", testutil.DeterministicNoise(9, 1, testRate)))

	for b := range e.Config().Bands {
		flat, err := e.SpectralFlatness(sel, b)
		require.NoError(t, err)
		for _, v := range flat.Values {
			require.False(t, math.IsNaN(v))
			require.GreaterOrEqual(t, v, 0.0)
		}
	}
}

func TestParallelMatchesSequential(t *testing.T) {
	sig := newSignal(t, "noise", testutil.DeterministicNoise(13, 1, 3*testRate))
	sel := sound.NewSelection(sig)

	seq := newEngine(t, WithWorkers(1))
	par := newEngine(t, WithWorkers(4))

	want, err := seq.Spectra(sel)
	require.NoError(t, err)
	got, err := par.Spectra(sel)
	require.NoError(t, err)
	require.Equal(t, want, got)

	wantF0, err := seq.FundamentalFrequency(sel)
	require.NoError(t, err)
	gotF0, err := par.FundamentalFrequency(sel)
	require.NoError(t, err)
	require.Equal(t, wantF0, gotF0)
}

func TestSpectrogram(t *testing.T) {
	e := newEngine(t, WithWindow(WindowSpec{Size: 512, Hop: 256, Type: window.TypeHamming}))
	sel := sound.NewSelection(newSignal(t, "sine", testutil.DeterministicSine(1000, testRate, 1, testRate)))
	sel.Select(0.25, 0.5)

	sg, err := e.Spectrogram(sel)
	require.NoError(t, err)
	require.Len(t, sg.Freqs, 256)
	require.Len(t, sg.Magnitudes, len(sg.Times))
	require.NotEmpty(t, sg.Times)
	require.GreaterOrEqual(t, sg.Times[0], 0.25)
	require.Less(t, sg.Times[len(sg.Times)-1], 0.5)
	for _, row := range sg.Magnitudes {
		require.Len(t, row, 256)
	}
}

func TestFullSpectrumPeak(t *testing.T) {
	e := newEngine(t)
	sig := newSignal(t, "sine", testutil.DeterministicSine(220, testRate, 1, testRate/2))

	freqs, mags, err := e.FullSpectrum(sig)
	require.NoError(t, err)
	require.Len(t, mags, sig.Len()/2)
	require.Len(t, freqs, sig.Len()/2)

	peak := 0
	for i, m := range mags {
		if m > mags[peak] {
			peak = i
		}
	}
	require.InDelta(t, 220, freqs[peak], 2)

	computed := e.Stats().Computations
	_, _, err = e.FullSpectrum(sig)
	require.NoError(t, err)
	require.Equal(t, computed, e.Stats().Computations)
}

func TestFullSpectrumPrimeLength(t *testing.T) {
	const n = 88211 // prime

	e := newEngine(t)
	sig := newSignal(t, "prime", testutil.DeterministicSine(1000, testRate, 1, n))

	begin := time.Now()
	freqs, mags, err := e.FullSpectrum(sig)
	require.NoError(t, err)
	require.Less(t, time.Since(begin), 5*time.Second)
	require.Len(t, mags, n/2)

	peak := 0
	for i, m := range mags {
		if m > mags[peak] {
			peak = i
		}
	}
	require.InDelta(t, 1000, freqs[peak], 1)
}

func TestFullSpectrumMatchesDirectDFT(t *testing.T) {
	const n = 101

	sig := newSignal(t, "noise", testutil.DeterministicNoise(7, 1, n))
	samples := sig.Samples()

	e := newEngine(t)
	_, mags, err := e.FullSpectrum(sig)
	require.NoError(t, err)
	require.Len(t, mags, n/2)

	for k := range mags {
		var sum complex128
		for i, v := range samples {
			sum += complex(v, 0) * cmplx.Exp(complex(0, -2*math.Pi*float64(k*i)/n))
		}
		require.InDelta(t, cmplx.Abs(sum), mags[k], 1e-9, "bin %d", k)
	}
}

func TestInvalidate(t *testing.T) {
	e := newEngine(t)
	sel := sound.NewSelection(newSignal(t, "sine", testutil.DeterministicSine(440, testRate, 1, testRate)))

	_, err := e.Volume(sel)
	require.NoError(t, err)
	e.Invalidate()
	require.Zero(t, e.Stats().Entries)

	_, err = e.Volume(sel)
	require.NoError(t, err)
	require.Equal(t, 4, e.Stats().Computations)
}
