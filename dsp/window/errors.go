package window

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownType is returned for window types outside the supported set.
	ErrUnknownType = errors.New("unknown window type")
	// ErrInvalidLength is returned for non-positive window lengths.
	ErrInvalidLength = errors.New("invalid window length")

	errEmptyCoeffs      = errors.New("window coefficients must not be empty")
	errZeroCoherentGain = errors.New("window coherent gain is zero")
	errMismatchedLength = errors.New("samples and coefficients must have same length")
)

func validateLength(size int) error {
	if size <= 0 {
		return fmt.Errorf("%w: size must be > 0: %d", ErrInvalidLength, size)
	}
	return nil
}

func validateType(t Type) error {
	if !t.Valid() {
		return fmt.Errorf("%w: %d", ErrUnknownType, int(t))
	}
	return nil
}
