// Command wininfo prints spectral properties of the analysis windows.
//
// Usage:
//
//	wininfo [flags] [window-name ...]
//
// Without arguments it prints info for all window types.
//
// Examples:
//
//	wininfo hanning
//	wininfo -size 1024 blackman hamming
//	wininfo -coeffs -size 8 triangular
//	wininfo -list
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/cwbudde/algo-soundparams/dsp/window"
)

func main() {
	size := flag.Int("size", 2048, "window length in samples")
	list := flag.Bool("list", false, "list available window names")
	coeffs := flag.Bool("coeffs", false, "print the coefficients instead of the analysis")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: wininfo [flags] [window-name ...]\n\n")
		fmt.Fprintf(os.Stderr, "Prints spectral properties of the analysis windows.\n")
		fmt.Fprintf(os.Stderr, "Without arguments, prints info for all windows.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  wininfo hanning blackman\n")
		fmt.Fprintf(os.Stderr, "  wininfo -coeffs -size 8 triangular\n")
		fmt.Fprintf(os.Stderr, "  wininfo -list\n")
	}
	flag.Parse()

	if *list {
		for _, t := range window.Types() {
			fmt.Println(t)
		}
		return
	}

	types := resolveTypes(flag.Args())
	if len(types) == 0 {
		fmt.Fprintf(os.Stderr, "error: no matching window types\n")
		os.Exit(1)
	}

	var err error
	if *coeffs {
		err = printCoefficients(os.Stdout, types, *size)
	} else {
		err = printAnalysis(os.Stdout, types, *size)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func resolveTypes(names []string) []window.Type {
	if len(names) == 0 {
		return window.Types()
	}

	var result []window.Type
	for _, name := range names {
		t, err := window.ParseType(name)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: %v (use -list to see available)\n", err)
			continue
		}
		result = append(result, t)
	}
	return result
}

func printAnalysis(w io.Writer, types []window.Type, size int) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Window\tSize\tCoherent Gain\tENBW [bins]\tBW 3dB [bins]\tSidelobe [dB]\tScallop [dB]\n")
	fmt.Fprintf(tw, "------\t----\t-------------\t-----------\t-------------\t-------------\t------------\n")

	for _, t := range types {
		c, err := window.Generate(t, size)
		if err != nil {
			return err
		}
		a := window.Analyze(c)

		if _, err := fmt.Fprintf(tw, "%s\t%d\t%.6f\t%.4f\t%.4f\t%.2f\t%.4f\n",
			t,
			size,
			a.CoherentGain,
			a.ENBW,
			a.Bandwidth3dB,
			a.HighestSidelobedB,
			a.ScallopLossdB,
		); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	return tw.Flush()
}

func printCoefficients(w io.Writer, types []window.Type, size int) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)

	header := []string{"n"}
	columns := make([][]float64, len(types))
	for i, t := range types {
		c, err := window.Generate(t, size)
		if err != nil {
			return err
		}
		columns[i] = c
		header = append(header, t.String())
	}
	fmt.Fprintf(tw, "%s\t\n", strings.Join(header, "\t"))

	for n := range size {
		row := []string{fmt.Sprint(n)}
		for _, c := range columns {
			row = append(row, fmt.Sprintf("%.6f", c[n]))
		}
		if _, err := fmt.Fprintf(tw, "%s\t\n", strings.Join(row, "\t")); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	return tw.Flush()
}
