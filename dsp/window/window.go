package window

import (
	"fmt"
	"math"
	"strings"

	"github.com/cwbudde/algo-vecmath"
)

// Type identifies a window function.
type Type int

const (
	TypeRectangular Type = iota
	TypeTriangular
	TypeHanning
	TypeHamming
	TypeBlackman
)

type entry struct {
	name string
	// eval returns the coefficient at the normalised position x = n/(N-1).
	eval func(x float64) float64
}

var (
	hanningCoeffs  = []float64{0.5, -0.5}
	hammingCoeffs  = []float64{0.54, -0.46}
	blackmanCoeffs = []float64{0.42, -0.5, 0.08}
)

var table = [...]entry{
	TypeRectangular: {"rectangular", func(float64) float64 { return 1 }},
	TypeTriangular:  {"triangular", func(x float64) float64 { return 1 - math.Abs(2*x-1) }},
	TypeHanning:     {"hanning", func(x float64) float64 { return cosineFromCoeffs(x, hanningCoeffs) }},
	TypeHamming:     {"hamming", func(x float64) float64 { return cosineFromCoeffs(x, hammingCoeffs) }},
	TypeBlackman:    {"blackman", func(x float64) float64 { return cosineFromCoeffs(x, blackmanCoeffs) }},
}

var aliases = map[string]Type{
	"rect":     TypeRectangular,
	"boxcar":   TypeRectangular,
	"triangle": TypeTriangular,
	"hann":     TypeHanning,
}

// Types returns all supported window types in declaration order.
func Types() []Type {
	out := make([]Type, len(table))
	for i := range table {
		out[i] = Type(i)
	}
	return out
}

// Valid reports whether t is one of the supported window types.
func (t Type) Valid() bool {
	return t >= 0 && int(t) < len(table)
}

// String returns the canonical lower-case name of t.
func (t Type) String() string {
	if !t.Valid() {
		return fmt.Sprintf("window.Type(%d)", int(t))
	}
	return table[t].name
}

// MarshalText implements encoding.TextMarshaler.
func (t Type) MarshalText() ([]byte, error) {
	if err := validateType(t); err != nil {
		return nil, err
	}
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *Type) UnmarshalText(text []byte) error {
	parsed, err := ParseType(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// ParseType resolves a window name such as "hanning" or "blackman".
// Matching is case-insensitive.
func ParseType(name string) (Type, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	for i, e := range table {
		if e.name == key {
			return Type(i), nil
		}
	}
	if t, ok := aliases[key]; ok {
		return t, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownType, name)
}

// Generate returns the symmetric window coefficients of the given length.
//
// A length of one always yields [1], since the cosine and triangular forms
// are undefined there.
func Generate(t Type, length int) ([]float64, error) {
	if err := validateType(t); err != nil {
		return nil, err
	}
	if err := validateLength(length); err != nil {
		return nil, err
	}

	out := make([]float64, length)
	if length == 1 {
		out[0] = 1
		return out, nil
	}

	eval := table[t].eval
	den := float64(length - 1)
	for i := range out {
		out[i] = eval(float64(i) / den)
	}

	return out, nil
}

// Apply multiplies buf in-place by the selected window.
func Apply(t Type, buf []float64) error {
	if len(buf) == 0 {
		return validateType(t)
	}

	coeffs, err := Generate(t, len(buf))
	if err != nil {
		return err
	}

	vecmath.MulBlockInPlace(buf, coeffs)

	return nil
}

// EquivalentNoiseBandwidth returns the ENBW in bins for a window.
func EquivalentNoiseBandwidth(coeffs []float64) (float64, error) {
	if len(coeffs) == 0 {
		return 0, errEmptyCoeffs
	}

	sum := 0.0
	sumSquares := 0.0

	for _, c := range coeffs {
		sum += c
		sumSquares += c * c
	}

	if sum == 0 {
		return 0, errZeroCoherentGain
	}

	return float64(len(coeffs)) * sumSquares / (sum * sum), nil
}

// ApplyCoefficients multiplies samples with coefficients and returns a new slice.
func ApplyCoefficients(samples, coeffs []float64) ([]float64, error) {
	if len(samples) != len(coeffs) {
		return nil, errMismatchedLength
	}

	out := make([]float64, len(samples))
	vecmath.MulBlock(out, samples, coeffs)

	return out, nil
}

// ApplyCoefficientsInto writes samples[i]*coeffs[i] into dst.
func ApplyCoefficientsInto(dst, samples, coeffs []float64) error {
	if len(samples) != len(coeffs) || len(dst) != len(samples) {
		return errMismatchedLength
	}

	vecmath.MulBlock(dst, samples, coeffs)

	return nil
}

// ApplyCoefficientsInPlace multiplies samples with coefficients in place.
func ApplyCoefficientsInPlace(samples, coeffs []float64) error {
	if len(samples) != len(coeffs) {
		return errMismatchedLength
	}

	vecmath.MulBlockInPlace(samples, coeffs)

	return nil
}

func cosineFromCoeffs(x float64, coeffs []float64) float64 {
	phase := 2 * math.Pi * x

	sum := 0.0
	for k, c := range coeffs {
		sum += c * math.Cos(float64(k)*phase)
	}

	return sum
}
