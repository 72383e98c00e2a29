// Package acg post-processes autocorrelograms. Computing the ACG itself from
// a spike train is delegated to an external collaborator behind the Func
// type; this package only clips, halves and resamples already-computed
// histograms so that every row of a dataset ends up with the same length.
package acg

import "gonum.org/v1/gonum/floats"

const (
	// BinMS and WindowMS are the fixed parameters every Func invocation uses,
	// per the archive's existing convention.
	BinMS    = 4
	WindowMS = 200

	// DefaultResampleWindow is how many leading samples Resample enhances.
	DefaultResampleWindow = 20

	// clipCeiling bounds clip-normalised ACG values.
	clipCeiling = 10
)

// Func computes an autocorrelogram from a spike train of integer sample
// indices. It is a pure function supplied by the caller.
type Func func(train []int64, binMS, windowMS float64) ([]float64, error)

// ClipNormalise divides the ACG by its own maximum and clips the result to
// [0, 10]. An all-zero input is returned unchanged.
func ClipNormalise(a []float64) []float64 {
	out := make([]float64, len(a))
	if len(a) == 0 {
		return out
	}

	max := floats.Max(a)
	for i, v := range a {
		if max != 0 {
			v /= max
		}
		if v < 0 {
			v = 0
		}
		if v > clipCeiling {
			v = clipCeiling
		}
		out[i] = v
	}

	return out
}

// CausalHalf keeps the non-negative-lag half of a symmetric ACG, from the
// index at len/2 onward.
func CausalHalf(a []float64) []float64 {
	out := make([]float64, len(a)-len(a)/2)
	copy(out, a[len(a)/2:])

	return out
}

// Resample inserts one synthetic point between each of the first windowSize
// samples by pairwise averaging with the next sample; the circular average at
// the window boundary is dropped, so the enhanced head holds 2*windowSize - 1
// points, concatenated with the unmodified remainder. With keepSameSize,
// every other point among the final 2*(windowSize-1) samples is discarded so
// the total length equals the input length — a short stretch of
// double-resolution early-lag detail at fixed array size. Inputs shorter than
// windowSize cannot fill the enhanced head and are returned as plain copies.
func Resample(a []float64, windowSize int, keepSameSize bool) []float64 {
	if windowSize < 2 || len(a) < windowSize {
		out := make([]float64, len(a))
		copy(out, a)
		return out
	}

	enhanced := make([]float64, 0, len(a)+windowSize-1)
	for i := 0; i < windowSize; i++ {
		enhanced = append(enhanced, a[i])
		if i < windowSize-1 {
			enhanced = append(enhanced, (a[i]+a[i+1])/2)
		}
	}
	enhanced = append(enhanced, a[windowSize:]...)

	if !keepSameSize {
		return enhanced
	}

	drop := make(map[int]bool, windowSize-1)
	for i := len(enhanced) - 2*(windowSize-1); i < len(enhanced); i += 2 {
		drop[i] = true
	}

	out := make([]float64, 0, len(a))
	for i, v := range enhanced {
		if drop[i] {
			continue
		}
		out = append(out, v)
	}

	return out
}
