package stretch

import (
	"math"
	"testing"
)

func TestExtract_Interior(t *testing.T) {
	input := make([]float64, 200)
	for i := range input {
		input[i] = float64(i) / 200
	}
	w := HannWindow(64)
	ext := NewExtractor(w, 32)

	f := ext.Extract(input, 50)
	if len(f.Samples) != 64 {
		t.Fatalf("frame length = %d, want 64", len(f.Samples))
	}
	for i := range f.Samples {
		want := input[50+i] * w[i]
		if math.Abs(f.Samples[i]-want) > 1e-12 {
			t.Errorf("samples[%d] = %g, want %g", i, f.Samples[i], want)
		}
		if f.Weights[i] != w[i] {
			t.Errorf("weights[%d] = %g, want %g", i, f.Weights[i], w[i])
		}
	}
}

func TestExtract_Tail(t *testing.T) {
	input := make([]float64, 200)
	for i := range input {
		input[i] = float64(i)
	}
	ext := NewExtractor(HannWindow(64), 48)

	f := ext.Extract(input, 10)
	if len(f.Tail) != 16 {
		t.Fatalf("tail length = %d, want 16", len(f.Tail))
	}
	// The tail is the unwindowed continuation one hop into the frame.
	for i := range f.Tail {
		if f.Tail[i] != input[10+48+i] {
			t.Errorf("tail[%d] = %g, want %g", i, f.Tail[i], input[58+i])
		}
	}
}

func TestExtract_PastEnd(t *testing.T) {
	input := []float64{1, 1, 1, 1}
	w := HannWindow(8)
	ext := NewExtractor(w, 4)

	f := ext.Extract(input, 2)
	for i := 0; i < 2; i++ {
		if f.Weights[i] != w[i] {
			t.Errorf("weights[%d] = %g, want taper weight %g for in-range sample", i, f.Weights[i], w[i])
		}
	}
	for i := 2; i < 8; i++ {
		if f.Samples[i] != 0 || f.Weights[i] != 0 {
			t.Errorf("padded sample %d = (%g, %g), want (0, 0)", i, f.Samples[i], f.Weights[i])
		}
	}
}

func TestExtract_BeforeStart(t *testing.T) {
	input := []float64{1, 1, 1, 1, 1, 1, 1, 1}
	ext := NewExtractor(HannWindow(8), 4)

	f := ext.Extract(input, -3)
	for i := 0; i < 3; i++ {
		if f.Samples[i] != 0 || f.Weights[i] != 0 {
			t.Errorf("padded sample %d = (%g, %g), want (0, 0)", i, f.Samples[i], f.Weights[i])
		}
	}
	for i := 3; i < 8; i++ {
		if f.Weights[i] == 0 && i != 0 {
			// w[0] is genuinely zero for a Hann taper; every other
			// in-range sample must carry weight.
			t.Errorf("weights[%d] = 0, want taper weight", i)
		}
	}
}

func TestExtract_BuffersReused(t *testing.T) {
	input := make([]float64, 100)
	for i := range input {
		input[i] = float64(i)
	}
	ext := NewExtractor(HannWindow(16), 8)

	f1 := ext.Extract(input, 0)
	before := f1.Samples[8]
	f2 := ext.Extract(input, 40)
	if &f1.Samples[0] != &f2.Samples[0] {
		t.Error("expected frames to alias the extractor's scratch buffers")
	}
	if f1.Samples[8] == before {
		t.Error("expected the second extraction to overwrite the scratch buffer")
	}
}
