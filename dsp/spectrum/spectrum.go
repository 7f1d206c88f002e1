package spectrum

import (
	"sync"

	"github.com/cwbudde/algo-vecmath"
)

// scratchBuf holds pooled scratch memory for complex-to-real unpacking.
type scratchBuf struct {
	data []float64
}

var scratchPool = sync.Pool{
	New: func() any { return &scratchBuf{} },
}

func getScratch(n int) (re, im []float64, buf *scratchBuf) {
	buf = scratchPool.Get().(*scratchBuf)
	need := 2 * n
	if cap(buf.data) < need {
		buf.data = make([]float64, need)
	} else {
		buf.data = buf.data[:need]
	}
	return buf.data[:n], buf.data[n:need], buf
}

func putScratch(buf *scratchBuf) {
	scratchPool.Put(buf)
}

// Magnitude returns |X[k]| for each complex spectrum bin.
func Magnitude(in []complex128) []float64 {
	if len(in) == 0 {
		return nil
	}

	out := make([]float64, len(in))
	MagnitudeInto(out, in)
	return out
}

// MagnitudeInto writes |X[k]| for the first len(dst) bins of in.
// in must hold at least len(dst) bins.
func MagnitudeInto(dst []float64, in []complex128) {
	if len(dst) == 0 {
		return
	}

	re, im, buf := getScratch(len(dst))
	for i := range dst {
		re[i] = real(in[i])
		im[i] = imag(in[i])
	}

	vecmath.Magnitude(dst, re, im)
	putScratch(buf)
}

// Power returns |X[k]|^2 for each complex spectrum bin.
func Power(in []complex128) []float64 {
	if len(in) == 0 {
		return nil
	}

	out := make([]float64, len(in))
	re, im, buf := getScratch(len(in))

	for i, c := range in {
		re[i] = real(c)
		im[i] = imag(c)
	}

	vecmath.Power(out, re, im)
	putScratch(buf)
	return out
}

// BinFrequencies returns the centre frequency in Hz of the first count bins
// of a size-point transform at sampleRate: f[k] = k * sampleRate / size.
func BinFrequencies(count, size int, sampleRate float64) []float64 {
	if count <= 0 || size <= 0 {
		return []float64{}
	}

	out := make([]float64, count)
	step := sampleRate / float64(size)
	for k := range out {
		out[k] = float64(k) * step
	}
	return out
}
