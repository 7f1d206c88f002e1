// Package spectrum provides the FFT backend and magnitude helpers used by the
// framed feature engine and the cepstral pitch estimator.
//
// Transforms of every size are planned with algo-fft, so analysis windows
// and whole-signal spectra of arbitrary length, prime lengths included, are
// supported.
package spectrum
