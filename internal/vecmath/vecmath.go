// Package vecmath provides the accumulation primitives used by the
// waveform similarity search hot loop.
package vecmath

// Mean returns the arithmetic mean of x, or 0 for an empty slice.
func Mean(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range x {
		sum += v
	}
	return sum / float64(len(x))
}

// CenteredEnergy computes sum((x[i]-mean)^2) for i in 0..len(x)-1.
func CenteredEnergy(x []float64, mean float64) float64 {
	e := 0.0
	for _, v := range x {
		d := v - mean
		e += d * d
	}
	return e
}

// CenteredDot computes sum((a[i]-meanA) * (b[i]-meanB)) for i in 0..len(a)-1.
// a and b must have equal length.
func CenteredDot(a []float64, meanA float64, b []float64, meanB float64) float64 {
	dot := 0.0
	for i, av := range a {
		dot += (av - meanA) * (b[i] - meanB)
	}
	return dot
}
