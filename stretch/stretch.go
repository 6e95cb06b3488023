// Package stretch implements pitch-preserving time stretching for
// mono 16-bit PCM sample buffers using waveform-similarity overlap-add.
// The engine changes playback duration by a tempo factor while keeping
// perceived pitch unchanged, operating purely on sample data.
package stretch

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidTempo reports a tempo factor that is non-finite, zero, or
// negative. The engine rejects such calls outright rather than
// clamping, so callers cannot produce a corrupted stretch unnoticed.
var ErrInvalidTempo = errors.New("invalid tempo factor")

// identityEps is the tolerance within which a tempo factor is treated
// as exactly 1.0 and the input is returned bit-for-bit.
const identityEps = 1e-9

// Config holds the fixed frame geometry of the engine. All values are
// in samples at the engine's sample rate.
type Config struct {
	// FrameLen is the analysis/synthesis frame length. Must be strictly
	// larger than SynthesisHop so consecutive frames overlap.
	FrameLen int
	// SynthesisHop is the constant output advance per step. The nominal
	// input advance per step is SynthesisHop * tempo.
	SynthesisHop int
	// Tolerance bounds the similarity search to offsets within
	// [nominal-Tolerance, nominal+Tolerance] of the nominal analysis
	// position.
	Tolerance int
}

// DefaultConfig returns frame geometry tuned for 16 kHz speech:
// 64 ms frames, 32 ms hop, 16 ms search radius.
func DefaultConfig() Config {
	return Config{
		FrameLen:     1024,
		SynthesisHop: 512,
		Tolerance:    256,
	}
}

func (c Config) validate() error {
	if c.SynthesisHop < 1 {
		return fmt.Errorf("synthesis hop must be positive: %d", c.SynthesisHop)
	}
	if c.FrameLen <= c.SynthesisHop {
		return fmt.Errorf("frame length must exceed synthesis hop: frame=%d hop=%d", c.FrameLen, c.SynthesisHop)
	}
	if c.Tolerance < 0 {
		return fmt.Errorf("search tolerance must be non-negative: %d", c.Tolerance)
	}
	return nil
}

// Stretcher is the time-stretching engine. It precomputes the frame
// taper once and retains no per-call state, so a single Stretcher is
// safe for concurrent Process calls on independent inputs.
type Stretcher struct {
	cfg    Config
	window []float64
}

// New creates a Stretcher with the given frame geometry.
func New(cfg Config) (*Stretcher, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &Stretcher{
		cfg:    cfg,
		window: HannWindow(cfg.FrameLen),
	}, nil
}

// Stretch runs a single batch stretch with the default frame geometry.
// See Stretcher.Process for semantics.
func Stretch(samples []int16, tempo float64) ([]int16, error) {
	s, err := New(DefaultConfig())
	if err != nil {
		return nil, err
	}
	return s.Process(samples, tempo)
}

// Process stretches samples by the tempo factor and returns the output
// buffer. tempo > 1 shortens the output (speeds playback up), tempo < 1
// lengthens it. The output length is exactly ceil(len(samples)/tempo).
// A tempo of 1.0 returns a bit-for-bit copy; an empty input returns an
// empty output. Non-finite, zero, or negative tempo factors are
// rejected with ErrInvalidTempo before any work is done.
func (s *Stretcher) Process(samples []int16, tempo float64) ([]int16, error) {
	if math.IsNaN(tempo) || math.IsInf(tempo, 0) || tempo <= 0 {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTempo, tempo)
	}
	if len(samples) == 0 {
		return []int16{}, nil
	}
	if math.Abs(tempo-1) <= identityEps {
		out := make([]int16, len(samples))
		copy(out, samples)
		return out, nil
	}

	targetLen := int(math.Ceil(float64(len(samples)) / tempo))
	if len(samples) < s.cfg.FrameLen {
		// Not enough signal to window meaningfully; trim or zero-pad a
		// plain copy to the target duration.
		out := make([]int16, targetLen)
		copy(out, samples)
		return out, nil
	}

	input := samplesToFloat(samples)
	n := len(input)
	hop := s.cfg.SynthesisHop
	nominalHop := float64(hop) * tempo

	ext := NewExtractor(s.window, hop)
	syn := NewSynthesizer(targetLen, s.cfg.FrameLen, hop)
	sr := newSearcher(s.cfg.FrameLen - hop)

	// The opening frame is emitted verbatim; there is no prior output
	// to match against yet.
	syn.Seed(input, s.cfg.FrameLen)
	analysisPos := nominalHop

	// Frames starting past maxOffset would run off the input end and
	// lose amplitude to zero padding, so extraction pins there.
	maxOffset := n - s.cfg.FrameLen

	for analysisPos < float64(n) {
		nominal := int(math.Round(analysisPos))
		ref, _ := syn.Reference()
		offset := sr.bestOffset(input, nominal, s.cfg.Tolerance, ref)
		if offset > maxOffset {
			offset = maxOffset
		}
		syn.Mix(ext.Extract(input, offset))
		// The nominal tracker advances by the ideal amount regardless
		// of the searched offset, so drift never accumulates.
		analysisPos += nominalHop
	}

	// Draining: the last full frame repeats until the target length is
	// covered, so the output holds the input's closing waveform instead
	// of fading into padding.
	for syn.Pos() < targetLen {
		syn.Mix(ext.Extract(input, maxOffset))
	}

	return samplesToInt16(syn.Finalize(targetLen)), nil
}

// samplesToFloat normalizes int16 amplitudes to float64 in [-1, 1).
func samplesToFloat(samples []int16) []float64 {
	out := make([]float64, len(samples))
	for i, v := range samples {
		out[i] = float64(v) / 32768.0
	}
	return out
}

// samplesToInt16 denormalizes float64 amplitudes back to int16,
// rounding and clamping to the representable range.
func samplesToInt16(samples []float64) []int16 {
	out := make([]int16, len(samples))
	for i, v := range samples {
		f := math.Round(v * 32768.0)
		if f > 32767 {
			f = 32767
		}
		if f < -32768 {
			f = -32768
		}
		out[i] = int16(f)
	}
	return out
}
