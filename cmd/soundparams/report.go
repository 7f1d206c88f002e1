package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"text/tabwriter"

	"github.com/cwbudde/algo-soundparams/analysis"
	"github.com/cwbudde/algo-soundparams/display"
	"github.com/cwbudde/algo-soundparams/features"
	"github.com/cwbudde/algo-soundparams/pitch"
	"github.com/cwbudde/algo-soundparams/sound"
)

func printSummary(w io.Writer, engine *analysis.Engine, sel *sound.Selection) error {
	sig := sel.Signal()
	freqs, mags, err := engine.FullSpectrum(sig)
	if err != nil {
		return err
	}
	spec := features.Summarize(freqs, mags)
	st := sel.Stats()
	start, end := sel.Bounds()

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "File\t%s\n", sig.Identity())
	fmt.Fprintf(tw, "Sample rate\t%d Hz\n", sig.SampleRate())
	fmt.Fprintf(tw, "Duration\t%.3f s\n", sig.Duration())
	fmt.Fprintf(tw, "Window\t%s\n", engine.Window())
	fmt.Fprintf(tw, "Spectral peak\t%.1f Hz (%.1f dB)\n", spec.Peak, spec.PeakdB)
	fmt.Fprintf(tw, "Spectral centroid\t%.1f Hz (spread %.1f Hz)\n", spec.Centroid, spec.Spread)
	fmt.Fprintf(tw, "Spectral rolloff\t%.1f Hz\n", spec.Rolloff)
	fmt.Fprintf(tw, "Spectral flatness\t%.4f\n", spec.Flatness)
	fmt.Fprintf(tw, "Selection\t%d-%d (%.3f s)\n", start, end, st.Duration)
	fmt.Fprintf(tw, "Selection RMS\t%.4f (crest %.2f dB)\n", st.RMS, st.CrestFactordB)
	fmt.Fprintf(tw, "Zero crossings\t%.1f /s\n", st.ZeroCrossingRate)
	fmt.Fprintln(tw)
	return tw.Flush()
}

var frameKinds = []analysis.Kind{
	analysis.KindVolume,
	analysis.KindFrequencyCentroid,
	analysis.KindEffectiveBandwidth,
	analysis.KindFundamentalFrequency,
}

var bandKinds = []analysis.Kind{
	analysis.KindBandEnergy,
	analysis.KindBandEnergyRatio,
	analysis.KindSpectralFlatness,
	analysis.KindSpectralCrestFactor,
	analysis.KindSpectralCrestFactorLocal,
}

// printFrameFeatures skips the fundamental frequency column when the window
// is too short for the pitch search range.
func printFrameFeatures(w io.Writer, logger *slog.Logger, engine *analysis.Engine, sel *sound.Selection) error {
	kinds := make([]analysis.Kind, 0, len(frameKinds))
	columns := make([]analysis.Series, 0, len(frameKinds))
	for _, k := range frameKinds {
		s, err := engine.Series(sel, k, 0)
		if k == analysis.KindFundamentalFrequency && errors.Is(err, pitch.ErrInvalidRange) {
			logger.Warn("skipping fundamental frequency", "window", engine.Window(), "err", err)
			continue
		}
		if err != nil {
			return fmt.Errorf("%s: %w", k, err)
		}
		kinds = append(kinds, k)
		columns = append(columns, s)
	}
	return printTable(w, kinds, columns)
}

func printBandFeatures(w io.Writer, engine *analysis.Engine, sel *sound.Selection) error {
	for b, band := range engine.Config().Bands {
		columns := make([]analysis.Series, len(bandKinds))
		for i, k := range bandKinds {
			s, err := engine.Series(sel, k, b)
			if err != nil {
				return fmt.Errorf("%s band %d: %w", k, b, err)
			}
			columns[i] = s
		}

		fmt.Fprintf(w, "\nBand %d: %s\n", b, band)
		if err := printTable(w, bandKinds, columns); err != nil {
			return err
		}
	}
	return nil
}

// printTable writes one row per frame followed by the plot range of every
// column. Series of the same selection share their time axis.
func printTable(w io.Writer, kinds []analysis.Kind, columns []analysis.Series) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)

	fmt.Fprint(tw, "time [s]\t")
	for _, k := range kinds {
		fmt.Fprintf(tw, "%s\t", k)
	}
	fmt.Fprintln(tw)

	if len(columns) == 0 || columns[0].Len() == 0 {
		fmt.Fprintln(tw, "(no frames in selection)\t")
		return tw.Flush()
	}

	sanitized := make([][]float64, len(columns))
	for i, c := range columns {
		sanitized[i] = display.Sanitize(c.Values)
	}

	for k, ts := range columns[0].Times {
		fmt.Fprintf(tw, "%.4f\t", ts)
		for _, v := range sanitized {
			fmt.Fprintf(tw, "%.6g\t", v[k])
		}
		fmt.Fprintln(tw)
	}

	fmt.Fprint(tw, "range\t")
	for _, c := range columns {
		lo, hi, ok := display.PlotRange(c.Values)
		if !ok {
			fmt.Fprint(tw, "-\t")
			continue
		}
		fmt.Fprintf(tw, "[%.4g, %.4g]\t", lo, hi)
	}
	fmt.Fprintln(tw)

	return tw.Flush()
}
