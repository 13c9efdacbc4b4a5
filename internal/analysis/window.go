package analysis

import "math"

// KaiserWindow generates a Kaiser window of the specified length and beta,
// scaled so its peak is 1.
//
//	w[n] = I0(beta * sqrt(1 - ((n - a)/a)^2)) / I0(beta),  a = (length-1)/2
//
// beta 0 gives a rectangular window; larger values trade main lobe width for
// lower sidelobes.
func KaiserWindow(length int, beta float64) []float64 {
	if length < 1 {
		return []float64{}
	}

	window := make([]float64, length)
	if length == 1 {
		window[0] = 1
		return window
	}

	alpha := float64(length-1) / windowNormalizationFactor
	i0Beta := besselI0(beta)

	for n := range length {
		x := (float64(n) - alpha) / alpha
		window[n] = besselI0(beta*math.Sqrt(max(0, 1.0-x*x))) / i0Beta
	}

	return window
}

// besselI0 computes the modified Bessel function of the first kind, order
// zero, with the polynomial approximations from Abramowitz & Stegun.
func besselI0(x float64) float64 {
	ax := math.Abs(x)

	if ax < besselSmallArgThreshold {
		t := x / besselSmallArgThreshold
		t *= t
		return 1.0 + t*(besselI0Coeff1+t*(besselI0Coeff2+t*(besselI0Coeff3+
			t*(besselI0Coeff4+t*(besselI0Coeff5+t*besselI0Coeff6)))))
	}

	t := besselSmallArgThreshold / ax
	result := besselI0AsympCoeff0 + t*(besselI0AsympCoeff1+t*(besselI0AsympCoeff2+
		t*(besselI0AsympCoeff3+t*(besselI0AsympCoeff4+t*(besselI0AsympCoeff5+
			t*(besselI0AsympCoeff6+t*(besselI0AsympCoeff7+t*besselI0AsympCoeff8)))))))

	return math.Exp(ax) * result / math.Sqrt(ax)
}
