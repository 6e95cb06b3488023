package stretch

// Synthesizer owns the growing output buffer and the rolling synthesis
// position. Each Mix blends one windowed frame into the buffer at the
// current position and advances by the fixed synthesis hop. Alongside
// the amplitudes it accumulates the window weight contributed to every
// output sample, so Finalize can divide the two and keep the result
// amplitude-consistent even where the taper coverage is partial.
type Synthesizer struct {
	out     []float64
	weights []float64
	pos     int
	hop     int
	ref     []float64
	hasRef  bool
}

// NewSynthesizer pre-sizes the output for targetLen samples plus one
// frame length of slack to absorb the final partial overlap.
func NewSynthesizer(targetLen, frameLen, hop int) *Synthesizer {
	size := targetLen + frameLen
	return &Synthesizer{
		out:     make([]float64, size),
		weights: make([]float64, size),
		hop:     hop,
		ref:     make([]float64, frameLen-hop),
	}
}

// Pos returns the current synthesis position.
func (s *Synthesizer) Pos() int { return s.pos }

// Seed writes the opening frame of input verbatim at full weight and
// advances one hop. The untapered start keeps the first samples
// bit-faithful to the source and bootstraps the search reference before
// any output has been blended.
func (s *Synthesizer) Seed(input []float64, frameLen int) {
	n := frameLen
	if n > len(input) {
		n = len(input)
	}
	if n > len(s.out) {
		n = len(s.out)
	}
	for i := 0; i < n; i++ {
		s.out[i] = input[i]
		s.weights[i] = 1
	}
	s.setRef(input, s.hop)
	s.pos = s.hop
}

// Mix adds the frame's windowed samples and weights into the output at
// the current synthesis position, accumulating with whatever previous
// frames already wrote there, then advances the synthesis hop. The
// frame's continuation tail becomes the next search reference.
func (s *Synthesizer) Mix(f Frame) {
	for i, v := range f.Samples {
		j := s.pos + i
		if j >= len(s.out) {
			break
		}
		s.out[j] += v
		s.weights[j] += f.Weights[i]
	}
	copy(s.ref, f.Tail)
	s.hasRef = true
	s.pos += s.hop
}

// Reference returns a read-only view of the tail of the most recently
// synthesized frame, the segment the next frame must continue. ok is
// false before anything has been mixed.
func (s *Synthesizer) Reference() (ref []float64, ok bool) {
	return s.ref, s.hasRef
}

// Finalize normalizes every accumulated sample by its window weight and
// trims the buffer to exactly targetLen. Samples nothing ever covered
// stay silent.
func (s *Synthesizer) Finalize(targetLen int) []float64 {
	if targetLen > len(s.out) {
		targetLen = len(s.out)
	}
	out := s.out[:targetLen]
	for i, w := range s.weights[:targetLen] {
		if w > 0 {
			out[i] /= w
		} else {
			out[i] = 0
		}
	}
	return out
}

func (s *Synthesizer) setRef(input []float64, offset int) {
	for i := range s.ref {
		idx := offset + i
		if idx >= 0 && idx < len(input) {
			s.ref[i] = input[idx]
		} else {
			s.ref[i] = 0
		}
	}
	s.hasRef = true
}
