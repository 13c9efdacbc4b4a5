package analysis

const (
	msPerSecond = 1000.0

	// Decibel conversion for amplitudes: 20*log10(a).
	dbMultiplier = 20.0

	// Amplitudes below this read as the dB floor (-200 dB).
	minMagnitude = 1e-10

	// Real FFT of size N has N/2 + 1 unique bins.
	fftHermitianDivisor = 2

	// Window normalization
	windowNormalizationFactor = 2.0

	// One-sided spectrum scaling: a sine of amplitude A reads A at its bin.
	oneSidedGain = 2.0
)

// Bessel I0 approximation (Abramowitz & Stegun 9.8.1, 9.8.2).
const (
	besselSmallArgThreshold = 3.75

	besselI0Coeff1 = 3.5156229
	besselI0Coeff2 = 3.0899424
	besselI0Coeff3 = 1.2067492
	besselI0Coeff4 = 0.2659732
	besselI0Coeff5 = 0.360768e-1
	besselI0Coeff6 = 0.45813e-2

	besselI0AsympCoeff0 = 0.39894228
	besselI0AsympCoeff1 = 0.1328592e-1
	besselI0AsympCoeff2 = 0.225319e-2
	besselI0AsympCoeff3 = -0.157565e-2
	besselI0AsympCoeff4 = 0.916281e-2
	besselI0AsympCoeff5 = -0.2057706e-1
	besselI0AsympCoeff6 = 0.2635537e-1
	besselI0AsympCoeff7 = -0.1647633e-1
	besselI0AsympCoeff8 = 0.392377e-2
)

// DefaultKaiserBeta gives roughly 60 dB sidelobe suppression.
const DefaultKaiserBeta = 8.0
