package sound

import (
	"fmt"
	"io"
	"math"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// Load decodes a WAV file and returns its first channel as a Signal whose
// identity is the path.
func Load(path string) (*Signal, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("sound: open %s: %w", path, err)
	}
	defer f.Close()

	return Decode(path, f)
}

// Decode reads a WAV stream. Only the first channel is kept.
func Decode(identity string, r io.ReadSeeker) (*Signal, error) {
	decoder := wav.NewDecoder(r)
	if !decoder.IsValidFile() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidFile, identity)
	}

	buf, err := decoder.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("sound: read PCM %q: %w", identity, err)
	}

	if buf.Format == nil {
		return nil, fmt.Errorf("%w: %q has no format chunk", ErrInvalidFile, identity)
	}

	return NewSignal(identity, firstChannel(buf), buf.Format.SampleRate)
}

func firstChannel(buf *audio.IntBuffer) []float64 {
	channels := max(buf.Format.NumChannels, 1)

	out := make([]float64, 0, len(buf.Data)/channels)
	for i := 0; i < len(buf.Data); i += channels {
		out = append(out, float64(buf.Data[i]))
	}
	return out
}

// Save writes samples as a 16-bit mono WAV file. Samples are expected in
// [-1, 1] and are clipped outside it.
func Save(path string, samples []float64, sampleRate int) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("sound: create %s: %w", path, err)
	}

	if err := Encode(f, samples, sampleRate); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Encode writes samples as 16-bit mono PCM.
func Encode(w io.WriteSeeker, samples []float64, sampleRate int) error {
	if sampleRate <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidSampleRate, sampleRate)
	}

	data := make([]int, len(samples))
	for i, v := range samples {
		data[i] = int(math.Round(math.Max(-1, math.Min(1, v)) * math.MaxInt16))
	}

	enc := wav.NewEncoder(w, sampleRate, 16, 1, 1)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: sampleRate},
		Data:           data,
		SourceBitDepth: 16,
	}
	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("sound: encode: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("sound: encode: %w", err)
	}
	return nil
}
