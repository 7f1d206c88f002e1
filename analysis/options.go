package analysis

import (
	"log/slog"

	"github.com/cwbudde/algo-soundparams/features"
)

// Option mutates engine settings before validation.
type Option func(*options)

type options struct {
	cfg    Config
	logger *slog.Logger
}

// WithConfig replaces the whole configuration.
func WithConfig(cfg Config) Option {
	return func(o *options) {
		o.cfg = cfg.clone()
	}
}

// WithWindow sets the initial window.
func WithWindow(spec WindowSpec) Option {
	return func(o *options) {
		o.cfg.Window = spec
	}
}

// WithBands replaces the analysis bands.
func WithBands(bands ...features.Band) Option {
	copied := append([]features.Band(nil), bands...)

	return func(o *options) {
		o.cfg.Bands = copied
	}
}

// WithMaxComplexity sets the Size/Hop bound.
func WithMaxComplexity(n int) Option {
	return func(o *options) {
		o.cfg.MaxComplexity = n
	}
}

// WithWorkers sets the number of transform goroutines.
func WithWorkers(n int) Option {
	return func(o *options) {
		o.cfg.Workers = n
	}
}

// WithPitchRange sets the fundamental search range in Hz.
func WithPitchRange(minHz, maxHz float64) Option {
	return func(o *options) {
		o.cfg.PitchMinHz = minHz
		o.cfg.PitchMaxHz = maxHz
	}
}

// WithLogger routes debug output about cache activity to logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}
