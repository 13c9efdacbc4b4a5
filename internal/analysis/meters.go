package analysis

import (
	"math"

	"github.com/tphakala/go-audio-delay/internal/simdops"
)

// RMS returns the root-mean-square level of x.
func RMS[F simdops.Float](x []F) float64 {
	if len(x) == 0 {
		return 0
	}
	energy := simdops.For[F]().DotProductUnsafe(x, x)
	return math.Sqrt(float64(energy) / float64(len(x)))
}

// DC returns the mean of x.
func DC[F simdops.Float](x []F) float64 {
	if len(x) == 0 {
		return 0
	}
	return float64(simdops.For[F]().Sum(x)) / float64(len(x))
}

// Peak returns the largest absolute sample value in x.
func Peak[F simdops.Float](x []F) float64 {
	var peak float64
	for _, v := range x {
		peak = max(peak, math.Abs(float64(v)))
	}
	return peak
}
