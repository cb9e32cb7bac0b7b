// Package blockops provides small zero-allocation block-arithmetic helpers
// shared by the routing matrix and the per-channel processing stages.
//
// Block sizes in this pipeline are small (32-128 samples), so the helpers
// here are plain scalar loops rather than SIMD-dispatched kernels: at that
// size the dispatch and feature-detection overhead outweighs any gain.
package blockops

// ScaleBlock multiplies every sample in buf by gain, in place.
func ScaleBlock(buf []float64, gain float64) {
	if gain == 1 {
		return
	}

	for i, x := range buf {
		buf[i] = x * gain
	}
}

// ScaleBlockTo writes src scaled by gain into dst. dst and src must have
// the same length.
func ScaleBlockTo(dst, src []float64, gain float64) {
	_ = dst[len(src)-1] // bounds check hint
	for i, x := range src {
		dst[i] = x * gain
	}
}

// MixBlock adds src scaled by gain into dst, sample by sample. dst and src
// must have the same length.
func MixBlock(dst, src []float64, gain float64) {
	_ = dst[len(src)-1] // bounds check hint
	for i, x := range src {
		dst[i] += x * gain
	}
}

// SumBlockInPlace adds b into a, sample by sample. a and b must have the
// same length.
func SumBlockInPlace(a, b []float64) {
	_ = a[len(b)-1] // bounds check hint
	for i, x := range b {
		a[i] += x
	}
}

// AverageBlock writes (a[i]+b[i])/2 into dst. All three slices must have
// the same length. Used for the routing matrix's mono-sum mode.
func AverageBlock(dst, a, b []float64) {
	_ = a[len(dst)-1]
	_ = b[len(dst)-1]
	for i := range dst {
		dst[i] = (a[i] + b[i]) * 0.5
	}
}

// ZeroBlock sets every sample in buf to 0.
func ZeroBlock(buf []float64) {
	for i := range buf {
		buf[i] = 0
	}
}

// PeakAbs returns the maximum absolute sample value in buf, or 0 if empty.
func PeakAbs(buf []float64) float64 {
	var peak float64
	for _, x := range buf {
		if x < 0 {
			x = -x
		}

		if x > peak {
			peak = x
		}
	}

	return peak
}
