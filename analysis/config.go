package analysis

import (
	"fmt"
	"os"
	"runtime"

	"gopkg.in/yaml.v3"

	"github.com/cwbudde/algo-soundparams/dsp/window"
	"github.com/cwbudde/algo-soundparams/features"
	"github.com/cwbudde/algo-soundparams/pitch"
)

const (
	// DefaultWindowSize is the default frame length in samples.
	DefaultWindowSize = 2048
	// DefaultHopSize is the default stride between frame starts.
	DefaultHopSize = DefaultWindowSize / 2
	// DefaultMaxComplexity bounds WindowSpec.Size / WindowSpec.Hop.
	DefaultMaxComplexity = 25
)

// WindowSpec describes how the signal is cut into frames.
type WindowSpec struct {
	Size int         `yaml:"window_size"`
	Hop  int         `yaml:"hop_size"`
	Type window.Type `yaml:"window_type"`
}

// DefaultWindowSpec returns a 2048-sample rectangular window with 50% overlap.
func DefaultWindowSpec() WindowSpec {
	return WindowSpec{
		Size: DefaultWindowSize,
		Hop:  DefaultHopSize,
		Type: window.TypeRectangular,
	}
}

// Complexity returns Size / Hop, the number of frames covering each sample.
func (w WindowSpec) Complexity() float64 {
	return float64(w.Size) / float64(w.Hop)
}

// Validate checks sizes, window type and the complexity bound.
func (w WindowSpec) Validate(maxComplexity int) error {
	if w.Size <= 0 {
		return fmt.Errorf("%w: window size must be > 0: %d", ErrConfiguration, w.Size)
	}
	if w.Hop <= 0 {
		return fmt.Errorf("%w: hop size must be > 0: %d", ErrConfiguration, w.Hop)
	}
	if !w.Type.Valid() {
		return fmt.Errorf("%w: %w: %d", ErrConfiguration, window.ErrUnknownType, int(w.Type))
	}
	if c := w.Complexity(); c > float64(maxComplexity) {
		return fmt.Errorf("%w: window complexity %g (size %d / hop %d) exceeds %d",
			ErrConfiguration, c, w.Size, w.Hop, maxComplexity)
	}
	return nil
}

// FrameCount returns floor((n - Size) / Hop) + 1, or 0 when n < Size.
func (w WindowSpec) FrameCount(n int) int {
	if n < w.Size {
		return 0
	}
	return (n-w.Size)/w.Hop + 1
}

// Bins returns the number of magnitude bins kept per frame.
func (w WindowSpec) Bins() int {
	return w.Size / 2
}

func (w WindowSpec) String() string {
	return fmt.Sprintf("%s/%d/%d", w.Type, w.Size, w.Hop)
}

// Config is the immutable engine configuration. Only the window can be
// replaced after construction, through Engine.SetWindow.
type Config struct {
	Window        WindowSpec      `yaml:",inline"`
	Bands         []features.Band `yaml:"bands"`
	MaxComplexity int             `yaml:"max_complexity"`
	// Workers is the number of goroutines used for per-frame transforms.
	// Zero means GOMAXPROCS.
	Workers    int     `yaml:"workers"`
	PitchMinHz float64 `yaml:"pitch_min_hz"`
	PitchMaxHz float64 `yaml:"pitch_max_hz"`
}

// DefaultConfig returns the default analysis settings.
func DefaultConfig() Config {
	return Config{
		Window:        DefaultWindowSpec(),
		Bands:         features.DefaultBands(),
		MaxComplexity: DefaultMaxComplexity,
		PitchMinHz:    pitch.DefaultMinHz,
		PitchMaxHz:    pitch.DefaultMaxHz,
	}
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if c.MaxComplexity <= 0 {
		return fmt.Errorf("%w: max complexity must be > 0: %d", ErrConfiguration, c.MaxComplexity)
	}
	if err := c.Window.Validate(c.MaxComplexity); err != nil {
		return err
	}
	if len(c.Bands) == 0 {
		return fmt.Errorf("%w: at least one band is required", ErrConfiguration)
	}
	for i, b := range c.Bands {
		if err := b.Validate(); err != nil {
			return fmt.Errorf("%w: band %d: %w", ErrConfiguration, i, err)
		}
	}
	if c.Workers < 0 {
		return fmt.Errorf("%w: workers must be >= 0: %d", ErrConfiguration, c.Workers)
	}
	if !(c.PitchMinHz > 0) || !(c.PitchMaxHz > c.PitchMinHz) {
		return fmt.Errorf("%w: pitch range [%g, %g] Hz", ErrConfiguration, c.PitchMinHz, c.PitchMaxHz)
	}
	return nil
}

func (c Config) workers() int {
	if c.Workers > 0 {
		return c.Workers
	}
	return runtime.GOMAXPROCS(0)
}

func (c Config) clone() Config {
	c.Bands = append([]features.Band(nil), c.Bands...)
	return c
}

// ParseConfig decodes YAML on top of DefaultConfig and validates the result.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("%w: decode: %w", ErrConfiguration, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadConfig reads and parses a YAML configuration file.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("analysis: read config: %w", err)
	}
	return ParseConfig(data)
}
