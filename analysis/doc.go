// Package analysis implements the framed spectral-feature engine.
//
// An [Engine] splits a whole [sound.Signal] into overlapping frames, windows
// them, keeps the magnitude spectrum of every frame and derives feature series
// from those spectra. Everything is computed once per (signal identity,
// [WindowSpec]) on first access and cached; requests for a selection only
// slice the cached series. Changing the window or analysing a different
// signal drops the whole cache.
//
// The engine is owned by a single caller and is not safe for concurrent use.
// Per-frame transforms are spread over worker goroutines internally, but every
// call returns only after all work has finished and results are always in
// frame order.
package analysis
