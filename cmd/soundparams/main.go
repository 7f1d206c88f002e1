// Command soundparams prints framed spectral features of a WAV file.
//
// Usage:
//
//	soundparams [flags] file.wav
//
// Examples:
//
//	soundparams speech.wav
//	soundparams -start 0.5 -end 1.5 -window hanning speech.wav
//	soundparams -config analysis.yaml -bands speech.wav
//	soundparams -spectrogram spec.png -export part.wav -start 1 -end 2 speech.wav
package main

import (
	"errors"
	"flag"
	"fmt"
	"image/png"
	"io"
	"log/slog"
	"math"
	"os"

	"github.com/cwbudde/algo-soundparams/analysis"
	"github.com/cwbudde/algo-soundparams/display"
	"github.com/cwbudde/algo-soundparams/dsp/window"
	"github.com/cwbudde/algo-soundparams/sound"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
		os.Exit(1)
	}
}

type params struct {
	configPath  string
	size, hop   int
	windowName  string
	workers     int
	start, end  float64
	shift       float64
	bands       bool
	spectrogram string
	export      string
	verbose     bool
}

func run(args []string, stdout, stderr io.Writer) error {
	var p params

	fs := flag.NewFlagSet("soundparams", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&p.configPath, "config", "", "YAML analysis configuration")
	fs.IntVar(&p.size, "size", 0, "window size in samples (overrides config)")
	fs.IntVar(&p.hop, "hop", 0, "hop size in samples (overrides config)")
	fs.StringVar(&p.windowName, "window", "", "window type: rectangular, triangular, hanning, hamming, blackman")
	fs.IntVar(&p.workers, "workers", -1, "transform goroutines, 0 for GOMAXPROCS (overrides config)")
	fs.Float64Var(&p.start, "start", math.NaN(), "selection start in seconds")
	fs.Float64Var(&p.end, "end", math.NaN(), "selection end in seconds")
	fs.Float64Var(&p.shift, "shift", 0, "shift the selection by this fraction of its span (negative moves left)")
	fs.BoolVar(&p.bands, "bands", false, "print per-band features")
	fs.StringVar(&p.spectrogram, "spectrogram", "", "write the selection spectrogram as PNG")
	fs.StringVar(&p.export, "export", "", "write the selected samples as WAV")
	fs.BoolVar(&p.verbose, "v", false, "log cache activity")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: soundparams [flags] file.wav\n\n")
		fmt.Fprintf(stderr, "Prints framed spectral features of the first channel of a WAV file.\n\n")
		fmt.Fprintf(stderr, "Flags:\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return errors.New("expected exactly one WAV file")
	}

	level := slog.LevelInfo
	if p.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	cfg, err := p.config()
	if err != nil {
		return err
	}

	sig, err := sound.Load(fs.Arg(0))
	if err != nil {
		return err
	}
	logger.Info("loaded", "file", sig.Identity(), "rate", sig.SampleRate(), "samples", sig.Len())

	engine, err := analysis.New(analysis.WithConfig(cfg), analysis.WithLogger(logger))
	if err != nil {
		return err
	}

	sel := p.selection(sig)
	start, end := sel.Bounds()
	logger.Info("selection", "start", start, "end", end, "window", engine.Window())

	if p.export != "" {
		_, samples := sel.Data()
		if err := sound.Save(p.export, samples, sig.SampleRate()); err != nil {
			return err
		}
	}
	if p.spectrogram != "" {
		if err := writeSpectrogram(engine, sel, p.spectrogram); err != nil {
			return err
		}
	}

	if err := printSummary(stdout, engine, sel); err != nil {
		return err
	}
	if err := printFrameFeatures(stdout, logger, engine, sel); err != nil {
		return err
	}
	if p.bands {
		return printBandFeatures(stdout, engine, sel)
	}
	return nil
}

// config loads the optional YAML file and applies flag overrides.
func (p params) config() (analysis.Config, error) {
	cfg := analysis.DefaultConfig()
	if p.configPath != "" {
		var err error
		if cfg, err = analysis.LoadConfig(p.configPath); err != nil {
			return analysis.Config{}, err
		}
	}

	if p.size > 0 {
		cfg.Window.Size = p.size
		if p.hop <= 0 {
			cfg.Window.Hop = max(1, p.size/2)
		}
	}
	if p.hop > 0 {
		cfg.Window.Hop = p.hop
	}
	if p.windowName != "" {
		t, err := window.ParseType(p.windowName)
		if err != nil {
			return analysis.Config{}, err
		}
		cfg.Window.Type = t
	}
	if p.workers >= 0 {
		cfg.Workers = p.workers
	}

	return cfg, cfg.Validate()
}

func (p params) selection(sig *sound.Signal) *sound.Selection {
	sel := sound.NewSelection(sig)

	start, end := p.start, p.end
	if !math.IsNaN(start) || !math.IsNaN(end) {
		if math.IsNaN(start) {
			start = 0
		}
		if math.IsNaN(end) {
			end = sig.Duration()
		}
		sel.Select(start, end)
	}

	switch {
	case p.shift > 0:
		sel.ShiftRight(p.shift)
	case p.shift < 0:
		sel.ShiftLeft(-p.shift)
	}
	return sel
}

func writeSpectrogram(engine *analysis.Engine, sel *sound.Selection, path string) error {
	sg, err := engine.Spectrogram(sel)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, display.SpectrogramImage(sg)); err != nil {
		f.Close()
		return fmt.Errorf("encode spectrogram: %w", err)
	}
	return f.Close()
}
