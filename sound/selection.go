package sound

import "math"

// DefaultShiftStep is the fraction of the current span moved by one shift.
const DefaultShiftStep = 0.1

// Selection is a half-open sample range [start, end) over a Signal.
//
// After every operation 0 <= start <= end <= Len()-1 holds, so the
// last sample is never part of a selection.
type Selection struct {
	signal     *Signal
	start, end int
}

// NewSelection returns a selection spanning the whole signal.
func NewSelection(sig *Signal) *Selection {
	s := &Selection{signal: sig}
	s.Reset()
	return s
}

// Signal returns the signal the selection refers to.
func (s *Selection) Signal() *Signal { return s.signal }

// Bounds returns the current [start, end) sample indices.
func (s *Selection) Bounds() (start, end int) { return s.start, s.end }

// Span returns end - start.
func (s *Selection) Span() int { return s.end - s.start }

// Select sets the selection from times in seconds. The start is rounded to
// the nearest sample, the end rounded up; both are clamped to the signal.
// Reversed bounds are swapped and infinite times select up to the signal
// edge. A NaN bound leaves the selection unchanged.
func (s *Selection) Select(startTime, endTime float64) {
	if math.IsNaN(startTime) || math.IsNaN(endTime) {
		return
	}
	if endTime < startTime {
		startTime, endTime = endTime, startTime
	}

	rate := float64(s.signal.rate)
	last := float64(s.last())
	s.SelectIndices(
		int(clampFloat(math.Round(startTime*rate), 0, last)),
		int(clampFloat(math.Ceil(endTime*rate), 0, last)),
	)
}

// SelectIndices sets the selection from sample indices, clamped to the signal.
func (s *Selection) SelectIndices(start, end int) {
	last := s.last()
	start = clampInt(start, 0, last)
	end = clampInt(end, 0, last)
	if end < start {
		start, end = end, start
	}
	s.start, s.end = start, end
}

// ShiftRight moves the selection towards the end by fraction of its span,
// at least one sample. The span is kept; at the end of the signal the
// selection stops against the boundary.
func (s *Selection) ShiftRight(fraction float64) {
	span := s.Span()
	s.end = min(s.end+s.step(span, fraction), s.last())
	s.start = s.end - span
}

// ShiftLeft is the mirror of ShiftRight.
func (s *Selection) ShiftLeft(fraction float64) {
	span := s.Span()
	s.start = max(s.start-s.step(span, fraction), 0)
	s.end = s.start + span
}

// Reset selects the whole signal.
func (s *Selection) Reset() {
	s.start, s.end = 0, s.last()
}

// Data returns the timestamps and samples of the selection. Both slices are
// empty for a zero span.
func (s *Selection) Data() (times, samples []float64) {
	return s.signal.times[s.start:s.end], s.signal.samples[s.start:s.end]
}

// TimeRange returns the time of the first and last selected sample.
// ok is false for an empty selection.
func (s *Selection) TimeRange() (first, last float64, ok bool) {
	if s.start == s.end {
		return 0, 0, false
	}
	return s.signal.times[s.start], s.signal.times[s.end-1], true
}

func (s *Selection) step(span int, fraction float64) int {
	return int(clampFloat(math.Round(float64(span)*fraction), 1, float64(s.signal.Len())))
}

func (s *Selection) last() int {
	return s.signal.Len() - 1
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// clampFloat limits v to [lo, hi] before any integer conversion. NaN maps
// to lo.
func clampFloat(v, lo, hi float64) float64 {
	switch {
	case math.IsNaN(v) || v < lo:
		return lo
	case v > hi:
		return hi
	}
	return v
}
