package stones

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// madScale makes the median absolute deviation a consistent estimator of
// the standard deviation for normal data.
const madScale = 1.4826

// median of xs; xs is not modified. Returns 0 for no values.
func median(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sorted := append([]float64(nil), xs...)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return stat.Mean(sorted[mid-1:mid+1], nil)
}

// robustSpread returns the median and the scaled MAD of xs, the spread
// floored at minSigma.
func robustSpread(xs []float64, minSigma float64) (center, spread float64) {
	center = median(xs)
	dev := make([]float64, len(xs))
	for i, x := range xs {
		dev[i] = math.Abs(x - center)
	}
	spread = math.Max(madScale*median(dev), minSigma)
	return center, spread
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
