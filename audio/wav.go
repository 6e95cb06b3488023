// Package audio reads and writes WAV containers in the engine's fixed
// format: mono 16-bit PCM at 16 kHz. Anything else is rejected before
// the samples reach the engine.
package audio

import (
	"fmt"
	"os"

	gaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// Fixed audio format expected by the engine.
const (
	SampleRate  = 16000
	BitDepth    = 16
	NumChannels = 1

	formatPCM = 1
)

// ReadFile decodes a WAV file and returns its raw int16 samples.
// It returns an error if the container is not 16-bit PCM mono at 16kHz.
func ReadFile(path string) ([]int16, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	d := wav.NewDecoder(f)
	d.ReadInfo()
	if !d.IsValidFile() {
		return nil, fmt.Errorf("%s: not a valid WAV file", path)
	}
	if d.WavAudioFormat != formatPCM {
		return nil, fmt.Errorf("%s: unsupported audio format %d (only PCM=%d supported)", path, d.WavAudioFormat, formatPCM)
	}
	if d.NumChans != NumChannels {
		return nil, fmt.Errorf("%s: unsupported channel count %d (only mono supported)", path, d.NumChans)
	}
	if d.SampleRate != SampleRate {
		return nil, fmt.Errorf("%s: unsupported sample rate %d (only %d supported)", path, d.SampleRate, SampleRate)
	}
	if d.BitDepth != BitDepth {
		return nil, fmt.Errorf("%s: unsupported bits per sample %d (only %d supported)", path, d.BitDepth, BitDepth)
	}

	buf, err := d.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("read PCM data: %w", err)
	}

	samples := make([]int16, len(buf.Data))
	for i, v := range buf.Data {
		samples[i] = int16(v)
	}
	return samples, nil
}

// WriteFile encodes samples as a mono 16-bit 16kHz PCM WAV file.
func WriteFile(path string, samples []int16) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	enc := wav.NewEncoder(f, SampleRate, BitDepth, NumChannels, formatPCM)
	buf := &gaudio.IntBuffer{
		Format: &gaudio.Format{
			NumChannels: NumChannels,
			SampleRate:  SampleRate,
		},
		SourceBitDepth: BitDepth,
		Data:           make([]int, len(samples)),
	}
	for i, v := range samples {
		buf.Data[i] = int(v)
	}

	if err := enc.Write(buf); err != nil {
		f.Close()
		return fmt.Errorf("write PCM data: %w", err)
	}
	if err := enc.Close(); err != nil {
		f.Close()
		return fmt.Errorf("finalize WAV: %w", err)
	}
	return f.Close()
}
