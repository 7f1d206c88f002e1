package sound

import "errors"

var (
	// ErrEmptySignal is returned when a signal has no samples.
	ErrEmptySignal = errors.New("sound: signal has no samples")
	// ErrInvalidSampleRate is returned for non-positive sample rates.
	ErrInvalidSampleRate = errors.New("sound: sample rate must be > 0")
	// ErrInvalidFile is returned when the input is not a readable WAV stream.
	ErrInvalidFile = errors.New("sound: invalid WAV file")
)
