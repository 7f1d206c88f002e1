// Package features implements the scalar spectral descriptors computed per
// analysis frame.
//
// Every function takes the per-frame magnitude spectra S[k][f] of the first
// size/2 bins together with the bin frequencies F[f] = f*sampleRate/size and
// returns one value per frame. Degenerate inputs such as silent frames or
// empty bands produce NaN or Inf rather than errors.
//
// [Summarize] describes one spectrum as a whole, such as the whole-signal
// spectrum shown next to the framed series.
package features
