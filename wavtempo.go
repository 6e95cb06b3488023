// Package wavtempo adjusts the playback tempo of mono 16 kHz 16-bit
// WAV audio without altering pitch, using a waveform-similarity
// overlap-add time-stretching engine.
package wavtempo

import (
	"fmt"
	"math"

	"github.com/soundkit/wavtempo/audio"
	"github.com/soundkit/wavtempo/stretch"
)

// Processor is the top-level file processor: decode, stretch, encode.
// It is safe for concurrent use on independent files.
type Processor struct {
	stretcher *stretch.Stretcher
	tempo     float64
}

// Option configures a Processor.
type Option func(*Processor)

// WithTempo sets the tempo multiplier (default 1.0 = no change).
// A factor above 1 speeds playback up and shortens the audio; below 1
// slows it down and lengthens it.
func WithTempo(tempo float64) Option {
	return func(p *Processor) {
		p.tempo = tempo
	}
}

// New creates a Processor with the engine's default frame geometry.
// Use NewWithConfig for custom geometry.
func New(opts ...Option) (*Processor, error) {
	return NewWithConfig(stretch.DefaultConfig(), opts...)
}

// NewWithConfig creates a Processor with custom engine frame geometry.
func NewWithConfig(cfg stretch.Config, opts ...Option) (*Processor, error) {
	stretcher, err := stretch.New(cfg)
	if err != nil {
		return nil, err
	}
	p := &Processor{
		stretcher: stretcher,
		tempo:     1.0,
	}
	for _, opt := range opts {
		opt(p)
	}
	if math.IsNaN(p.tempo) || math.IsInf(p.tempo, 0) || p.tempo <= 0 {
		return nil, fmt.Errorf("%w: %v", stretch.ErrInvalidTempo, p.tempo)
	}
	return p, nil
}

// Tempo returns the configured tempo multiplier.
func (p *Processor) Tempo() float64 { return p.tempo }

// ProcessSamples stretches a decoded sample buffer by the configured
// tempo.
func (p *Processor) ProcessSamples(samples []int16) ([]int16, error) {
	return p.stretcher.Process(samples, p.tempo)
}

// ProcessFile reads a WAV file, stretches it, and writes the result.
// The input must be mono 16-bit PCM at 16kHz; the output keeps the same
// format with the adjusted duration.
func (p *Processor) ProcessFile(inputPath, outputPath string) error {
	samples, err := audio.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("read WAV: %w", err)
	}
	stretched, err := p.ProcessSamples(samples)
	if err != nil {
		return fmt.Errorf("stretch: %w", err)
	}
	if err := audio.WriteFile(outputPath, stretched); err != nil {
		return fmt.Errorf("write WAV: %w", err)
	}
	return nil
}
