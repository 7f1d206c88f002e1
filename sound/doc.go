// Package sound holds the analysed waveform and the selection over it.
//
// A [Signal] is an immutable, peak-normalised mono sample buffer. A
// [Selection] is the mutable half-open sample range the user is looking at.
// All conversions between seconds and sample indices happen here; the
// analysis engine only ever sees index ranges.
package sound
