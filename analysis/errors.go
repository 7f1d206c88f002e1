package analysis

import "errors"

var (
	// ErrConfiguration reports a rejected window, band or pitch configuration.
	// The previous configuration and cache stay untouched.
	ErrConfiguration = errors.New("analysis: configuration error")
	// ErrUnknownBand is returned for band indices outside the configured bands.
	ErrUnknownBand = errors.New("analysis: unknown band")
	// ErrUnknownKind is returned for feature kinds the engine does not know.
	ErrUnknownKind = errors.New("analysis: unknown feature kind")
)
