package stretch

import "math"

// HannWindow returns a periodic Hann taper of length n: coefficients in
// [0,1], zero at the left edge, peaking at 1 in the middle. Consecutive
// windows placed half a length apart sum to exactly 1 over the overlap,
// so overlap-added frames stay amplitude-consistent.
func HannWindow(n int) []float64 {
	w := make([]float64, n)
	for i := range w {
		w[i] = 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(n)))
	}
	return w
}
