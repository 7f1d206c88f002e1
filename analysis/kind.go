package analysis

import (
	"fmt"
	"strings"
)

// Kind selects a per-frame feature series.
type Kind int

const (
	KindVolume Kind = iota
	KindFrequencyCentroid
	KindEffectiveBandwidth
	KindFundamentalFrequency
	KindBandEnergy
	KindBandEnergyRatio
	KindSpectralFlatness
	KindSpectralCrestFactor
	KindSpectralCrestFactorLocal
)

var kindNames = [...]string{
	KindVolume:                   "volume",
	KindFrequencyCentroid:        "frequency-centroid",
	KindEffectiveBandwidth:       "effective-bandwidth",
	KindFundamentalFrequency:     "fundamental-frequency",
	KindBandEnergy:               "band-energy",
	KindBandEnergyRatio:          "band-energy-ratio",
	KindSpectralFlatness:         "spectral-flatness",
	KindSpectralCrestFactor:      "spectral-crest-factor",
	KindSpectralCrestFactorLocal: "spectral-crest-factor-local",
}

// Kinds returns every feature kind in declaration order.
func Kinds() []Kind {
	out := make([]Kind, len(kindNames))
	for i := range kindNames {
		out[i] = Kind(i)
	}
	return out
}

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	return k >= 0 && int(k) < len(kindNames)
}

// BandScoped reports whether the kind is computed per band.
func (k Kind) BandScoped() bool {
	return k >= KindBandEnergy && k.Valid()
}

func (k Kind) String() string {
	if !k.Valid() {
		return fmt.Sprintf("analysis.Kind(%d)", int(k))
	}
	return kindNames[k]
}

// ParseKind resolves names such as "volume" or "spectral_flatness".
func ParseKind(name string) (Kind, error) {
	key := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "_", "-")
	for i, n := range kindNames {
		if n == key {
			return Kind(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownKind, name)
}
