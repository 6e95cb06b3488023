package stretch

import (
	"math"

	"github.com/soundkit/wavtempo/internal/vecmath"
)

// varianceEps is the threshold below which a segment is treated as
// silence or constant signal, where normalized cross-correlation is
// undefined (0/0).
const varianceEps = 1e-9

// searcher finds the input offset whose waveform best continues the
// previously synthesized output. It holds only scratch storage; given
// its inputs the search is stateless.
type searcher struct {
	seg []float64
}

func newSearcher(refLen int) *searcher {
	return &searcher{seg: make([]float64, refLen)}
}

// bestOffset scans offsets in [nominal-tolerance, nominal+tolerance],
// clipped to the valid input range, and returns the one maximizing the
// normalized cross-correlation between the candidate segment and ref.
// Ties break toward the offset closest to nominal so drift stays
// bounded. A zero-variance ref falls back to the clipped nominal
// offset directly; zero-variance candidates never win.
func (s *searcher) bestOffset(input []float64, nominal, tolerance int, ref []float64) int {
	lo := nominal - tolerance
	hi := nominal + tolerance
	last := len(input) - 1
	if lo < 0 {
		lo = 0
	}
	if lo > last {
		lo = last
	}
	if hi > last {
		hi = last
	}
	if hi < lo {
		hi = lo
	}

	target := nominal
	if target < lo {
		target = lo
	}
	if target > hi {
		target = hi
	}

	refMean := vecmath.Mean(ref)
	refVar := vecmath.CenteredEnergy(ref, refMean)
	if refVar <= varianceEps {
		return target
	}

	best := target
	bestScore := math.Inf(-1)
	bestDist := math.MaxInt
	for cand := lo; cand <= hi; cand++ {
		s.fill(input, cand)
		candMean := vecmath.Mean(s.seg)
		candVar := vecmath.CenteredEnergy(s.seg, candMean)
		if candVar <= varianceEps {
			continue
		}
		cov := vecmath.CenteredDot(s.seg, candMean, ref, refMean)
		score := cov / math.Sqrt(refVar*candVar)
		dist := cand - target
		if dist < 0 {
			dist = -dist
		}
		if score > bestScore || (score == bestScore && dist < bestDist) {
			best = cand
			bestScore = score
			bestDist = dist
		}
	}
	return best
}

// fill copies len(s.seg) samples starting at offset into the scratch
// segment, zero-padding reads past the end of input.
func (s *searcher) fill(input []float64, offset int) {
	n := len(s.seg)
	avail := len(input) - offset
	if avail > n {
		avail = n
	}
	if avail < 0 {
		avail = 0
	}
	if avail > 0 {
		copy(s.seg[:avail], input[offset:offset+avail])
	}
	for i := avail; i < n; i++ {
		s.seg[i] = 0
	}
}
