package pitch

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-soundparams/dsp/window"
	"github.com/cwbudde/algo-soundparams/internal/testutil"
)

func TestLagRangeDefaults(t *testing.T) {
	lo, hi, err := LagRange(44100, 2048, DefaultMinHz, DefaultMaxHz)
	if err != nil {
		t.Fatal(err)
	}

	if lo != 110 || hi != 882 {
		t.Fatalf("lag range=[%d, %d), want [110, 882)", lo, hi)
	}
}

func TestLagRangeRejectsDegenerateConfigurations(t *testing.T) {
	cases := []struct {
		name         string
		rate, size   int
		minHz, maxHz float64
	}{
		{"window too short", 44100, 512, 50, 400},
		{"empty range", 100, 64, 50, 60},
		{"lag below one", 100, 64, 50, 400},
		{"reversed", 44100, 2048, 400, 50},
		{"zero rate", 0, 2048, 50, 400},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := LagRange(tc.rate, tc.size, tc.minHz, tc.maxHz)
			if !errors.Is(err, ErrInvalidRange) {
				t.Fatalf("expected ErrInvalidRange, got %v", err)
			}
		})
	}

	if _, err := NewEstimator(44100, 512); !errors.Is(err, ErrInvalidRange) {
		t.Fatalf("NewEstimator: expected ErrInvalidRange, got %v", err)
	}
}

func TestEstimatePureTone(t *testing.T) {
	const (
		rate = 44100
		size = 2048
	)

	est, err := NewEstimator(rate, size)
	if err != nil {
		t.Fatal(err)
	}

	frame := testutil.DeterministicSine(220, rate, 1, size)

	f0, err := est.Estimate(frame)
	if err != nil {
		t.Fatal(err)
	}

	// Near lag 200 one lag step is about 1.1 Hz. A lone unwindowed sine has
	// no harmonic ripple, so its cepstral peak sits at lag 196 (225 Hz)
	// instead of 200.5.
	if lag := math.Round(rate / f0); lag != 196 {
		t.Fatalf("f0=%v (lag %v), want lag 196", f0, lag)
	}
}

func TestEstimateHarmonicTone(t *testing.T) {
	const (
		rate = 44100
		size = 2048
	)

	frame := make([]float64, size)
	for h := 1; h <= 10; h++ {
		partial := testutil.DeterministicSine(150*float64(h), rate, 1, size)
		for i, v := range partial {
			frame[i] += v
		}
	}

	if err := window.Apply(window.TypeHanning, frame); err != nil {
		t.Fatal(err)
	}

	est, err := NewEstimator(rate, size)
	if err != nil {
		t.Fatal(err)
	}

	f0, err := est.Estimate(frame)
	if err != nil {
		t.Fatal(err)
	}

	if math.Abs(f0-150) > 5 {
		t.Fatalf("f0=%v, want ~150", f0)
	}
}

func TestWithRange(t *testing.T) {
	est, err := NewEstimator(8000, 1024, WithRange(80, 800))
	if err != nil {
		t.Fatal(err)
	}

	lo, hi := est.LagRange()
	if lo != 10 || hi != 100 {
		t.Fatalf("lag range=[%d, %d), want [10, 100)", lo, hi)
	}

	if est.Size() != 1024 {
		t.Fatalf("size=%d", est.Size())
	}
}

func TestEstimateRejectsWrongFrameLength(t *testing.T) {
	est, err := NewEstimator(44100, 2048)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := est.Estimate(make([]float64, 100)); err == nil {
		t.Fatal("expected frame length error")
	}

	ceps, err := est.Cepstrum(testutil.Impulse(2048, 0))
	if err != nil {
		t.Fatal(err)
	}

	testutil.RequireFinite(t, ceps)
}
