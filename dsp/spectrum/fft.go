package spectrum

import (
	"errors"
	"fmt"
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"
)

// LogFloor is added to magnitudes before taking the logarithm.
const LogFloor = 1e-10

var (
	errInvalidSize = errors.New("fft size must be > 0")
	errBufferSize  = errors.New("fft buffer length mismatch")
)

// FFT is a complex transform of fixed size with reusable work buffers.
// An FFT is not safe for concurrent use; give each goroutine its own.
//
// Sizes with factors 2, 3 and 5 use mixed-radix kernels, every other size
// Bluestein's algorithm, so all sizes run in O(n log n).
type FFT struct {
	size int
	plan *algofft.Plan[complex128] // nil for size 1

	in  []complex128
	out []complex128
}

// NewFFT prepares a transform of the given size.
func NewFFT(size int) (*FFT, error) {
	if size <= 0 {
		return nil, fmt.Errorf("spectrum: %w: %d", errInvalidSize, size)
	}

	f := &FFT{
		size: size,
		in:   make([]complex128, size),
		out:  make([]complex128, size),
	}

	if size > 1 {
		plan, err := algofft.NewPlan64(size)
		if err != nil {
			return nil, fmt.Errorf("spectrum: fft plan %d: %w", size, err)
		}
		f.plan = plan
	}

	return f, nil
}

// Size returns the transform length.
func (f *FFT) Size() int { return f.size }

// Forward computes the unnormalised forward DFT of src into dst.
func (f *FFT) Forward(dst, src []complex128) error {
	if len(dst) != f.size || len(src) != f.size {
		return fmt.Errorf("spectrum: %w: dst=%d src=%d size=%d", errBufferSize, len(dst), len(src), f.size)
	}

	if f.plan == nil {
		copy(dst, src)
		return nil
	}

	if err := f.plan.Forward(dst, src); err != nil {
		return fmt.Errorf("spectrum: forward fft: %w", err)
	}
	return nil
}

// Inverse computes the inverse DFT of src into dst, scaled by 1/size.
func (f *FFT) Inverse(dst, src []complex128) error {
	if len(dst) != f.size || len(src) != f.size {
		return fmt.Errorf("spectrum: %w: dst=%d src=%d size=%d", errBufferSize, len(dst), len(src), f.size)
	}

	if f.plan == nil {
		copy(dst, src)
		return nil
	}

	if err := f.plan.Inverse(dst, src); err != nil {
		return fmt.Errorf("spectrum: inverse fft: %w", err)
	}
	return nil
}

// RealMagnitude transforms the real frame and writes the magnitudes of the
// first len(dst) bins into dst. len(frame) must equal Size and len(dst) must
// not exceed it.
func (f *FFT) RealMagnitude(dst, frame []float64) error {
	if len(frame) != f.size || len(dst) > f.size {
		return fmt.Errorf("spectrum: %w: frame=%d dst=%d size=%d", errBufferSize, len(frame), len(dst), f.size)
	}

	for i, v := range frame {
		f.in[i] = complex(v, 0)
	}

	if err := f.Forward(f.out, f.in); err != nil {
		return err
	}

	MagnitudeInto(dst, f.out)
	return nil
}

// RealCepstrum writes the real cepstrum of frame into dst:
// real(ifft(log(|fft(frame)| + LogFloor))). Both slices must have length Size.
func (f *FFT) RealCepstrum(dst, frame []float64) error {
	if len(frame) != f.size || len(dst) != f.size {
		return fmt.Errorf("spectrum: %w: frame=%d dst=%d size=%d", errBufferSize, len(frame), len(dst), f.size)
	}

	for i, v := range frame {
		f.in[i] = complex(v, 0)
	}

	if err := f.Forward(f.out, f.in); err != nil {
		return err
	}

	// Reuse dst for the magnitudes before the inverse overwrites it.
	MagnitudeInto(dst, f.out)
	for i, m := range dst {
		f.in[i] = complex(math.Log(m+LogFloor), 0)
	}

	if err := f.Inverse(f.out, f.in); err != nil {
		return err
	}

	for i := range dst {
		dst[i] = real(f.out[i])
	}
	return nil
}
