package stretch

import (
	"math"
	"testing"
)

func TestSeed_CopiesOpeningFrame(t *testing.T) {
	input := testSignal(4000)
	syn := NewSynthesizer(2000, 64, 32)

	syn.Seed(input, 64)
	if syn.Pos() != 32 {
		t.Fatalf("pos = %d, want 32", syn.Pos())
	}
	out := syn.Finalize(64)
	for i := range out {
		if out[i] != input[i] {
			t.Errorf("out[%d] = %g, want %g", i, out[i], input[i])
		}
	}
}

func TestSeed_SetsReference(t *testing.T) {
	input := testSignal(4000)
	syn := NewSynthesizer(2000, 64, 32)

	if _, ok := syn.Reference(); ok {
		t.Fatal("Reference ok before Seed, want false")
	}
	syn.Seed(input, 64)
	ref, ok := syn.Reference()
	if !ok {
		t.Fatal("Reference not ok after Seed")
	}
	if len(ref) != 32 {
		t.Fatalf("ref length = %d, want 32", len(ref))
	}
	for i := range ref {
		if ref[i] != input[32+i] {
			t.Errorf("ref[%d] = %g, want %g", i, ref[i], input[32+i])
		}
	}
}

func TestMix_AccumulatesAndAdvances(t *testing.T) {
	w := HannWindow(8)
	syn := NewSynthesizer(64, 8, 4)

	f := Frame{
		Samples: []float64{0, 0.2, 0.4, 0.6, 0.8, 0.6, 0.4, 0.2},
		Weights: w,
		Tail:    []float64{1, 2, 3, 4},
	}
	syn.Mix(f)
	if syn.Pos() != 4 {
		t.Fatalf("pos = %d, want 4", syn.Pos())
	}
	syn.Mix(f)
	if syn.Pos() != 8 {
		t.Fatalf("pos = %d, want 8", syn.Pos())
	}

	// Sample 5 got frame 1's w[5] tap and frame 2's w[1] tap; after
	// weight normalization it is their weighted average.
	out := syn.Finalize(12)
	want := (f.Samples[5] + f.Samples[1]) / (w[5] + w[1])
	if math.Abs(out[5]-want) > 1e-12 {
		t.Errorf("out[5] = %g, want %g", out[5], want)
	}
}

func TestMix_TailBecomesReference(t *testing.T) {
	syn := NewSynthesizer(64, 8, 4)
	f := Frame{
		Samples: make([]float64, 8),
		Weights: HannWindow(8),
		Tail:    []float64{9, 8, 7, 6},
	}
	syn.Mix(f)
	ref, ok := syn.Reference()
	if !ok {
		t.Fatal("Reference not ok after Mix")
	}
	for i, want := range []float64{9, 8, 7, 6} {
		if ref[i] != want {
			t.Errorf("ref[%d] = %g, want %g", i, ref[i], want)
		}
	}
}

func TestFinalize_TrimsAndSilencesUncovered(t *testing.T) {
	input := testSignal(100)
	syn := NewSynthesizer(90, 16, 8)
	syn.Seed(input, 16)

	out := syn.Finalize(90)
	if len(out) != 90 {
		t.Fatalf("len = %d, want 90", len(out))
	}
	// Nothing was ever mixed past the seeded frame.
	for i := 16; i < 90; i++ {
		if out[i] != 0 {
			t.Errorf("out[%d] = %g, want 0 for uncovered sample", i, out[i])
		}
	}
}

// Pre-windowed constant frames must come back out at exactly the
// original level once weights are divided through.
func TestFinalize_NormalizesConstantLevel(t *testing.T) {
	const level = 0.75
	w := HannWindow(16)
	ext := NewExtractor(w, 8)
	input := make([]float64, 256)
	for i := range input {
		input[i] = level
	}

	syn := NewSynthesizer(128, 16, 8)
	syn.Seed(input, 16)
	for syn.Pos() < 128 {
		syn.Mix(ext.Extract(input, syn.Pos()))
	}
	out := syn.Finalize(128)
	for i, v := range out {
		if math.Abs(v-level) > 1e-9 {
			t.Errorf("out[%d] = %g, want %g", i, v, level)
		}
	}
}
