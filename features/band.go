package features

import (
	"fmt"
	"sort"
)

// Band is a half-open frequency interval [Lo, Hi) in Hz.
type Band struct {
	Lo float64 `yaml:"lo"`
	Hi float64 `yaml:"hi"`
}

// DefaultBands returns the four fixed analysis bands.
func DefaultBands() []Band {
	return []Band{
		{Lo: 0, Hi: 630},
		{Lo: 630, Hi: 1720},
		{Lo: 1720, Hi: 4400},
		{Lo: 4400, Hi: 11025},
	}
}

// Contains reports whether f lies in [Lo, Hi).
func (b Band) Contains(f float64) bool {
	return f >= b.Lo && f < b.Hi
}

// Width returns Hi - Lo + 1, the bandwidth term D used by the flatness and
// crest factor formulas.
func (b Band) Width() float64 {
	return b.Hi - b.Lo + 1
}

// Validate reports a band whose bounds are reversed or negative.
func (b Band) Validate() error {
	if b.Lo < 0 || b.Hi <= b.Lo {
		return fmt.Errorf("features: invalid band [%g, %g)", b.Lo, b.Hi)
	}
	return nil
}

func (b Band) String() string {
	return fmt.Sprintf("%g-%g Hz", b.Lo, b.Hi)
}

// binRange returns the [lo, hi) bin indices whose ascending frequencies
// fall inside b.
func (b Band) binRange(freqs []float64) (lo, hi int) {
	lo = sort.SearchFloat64s(freqs, b.Lo)
	hi = sort.SearchFloat64s(freqs, b.Hi)
	return lo, hi
}
