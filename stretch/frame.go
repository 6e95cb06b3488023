package stretch

// Frame is one windowed analysis frame ready for overlap-add mixing.
// The slices alias the extractor's scratch buffers and are only valid
// until the next Extract call.
type Frame struct {
	// Samples holds the window-tapered amplitudes.
	Samples []float64
	// Weights holds the taper coefficient where the sample was read
	// from the input, and 0 where it was zero padding.
	Weights []float64
	// Tail holds the unwindowed samples following the synthesis hop
	// inside this frame. It is the natural continuation of the frame
	// and serves as the reference for the next similarity search.
	Tail []float64
}

// Extractor copies windowed frames out of an input buffer, zero-padding
// reads that fall outside it. Buffers are reused across extractions.
type Extractor struct {
	window  []float64
	hop     int
	samples []float64
	weights []float64
	tail    []float64
}

// NewExtractor creates an extractor for the given taper and synthesis hop.
// hop must be smaller than len(window) so consecutive frames overlap.
func NewExtractor(window []float64, hop int) *Extractor {
	return &Extractor{
		window:  window,
		hop:     hop,
		samples: make([]float64, len(window)),
		weights: make([]float64, len(window)),
		tail:    make([]float64, len(window)-hop),
	}
}

// Extract copies len(window) samples starting at offset, tapered by the
// window. Samples before the start or past the end of input are treated
// as silence and carry zero weight, so every frame has full length no
// matter how close to either buffer edge it is drawn.
func (e *Extractor) Extract(input []float64, offset int) Frame {
	for i := range e.window {
		idx := offset + i
		if idx >= 0 && idx < len(input) {
			e.samples[i] = input[idx] * e.window[i]
			e.weights[i] = e.window[i]
		} else {
			e.samples[i] = 0
			e.weights[i] = 0
		}
	}
	for i := range e.tail {
		idx := offset + e.hop + i
		if idx >= 0 && idx < len(input) {
			e.tail[i] = input[idx]
		} else {
			e.tail[i] = 0
		}
	}
	return Frame{Samples: e.samples, Weights: e.weights, Tail: e.tail}
}
