package analysis

import (
	"fmt"
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/floats"

	"github.com/tphakala/go-audio-delay/internal/engine"
)

// Response holds a one-sided frequency response.
type Response struct {
	Frequencies []float64 // Hz
	Magnitude   []float64 // linear
	Phase       []float64 // radians
}

// MagnitudeDB returns the magnitudes in decibels.
func (r Response) MagnitudeDB() []float64 {
	db := make([]float64, len(r.Magnitude))
	for i, m := range r.Magnitude {
		db[i] = ToDB(m)
	}
	return db
}

// Peak returns the frequency and linear magnitude of the strongest bin.
func (r Response) Peak() (freq, magnitude float64) {
	if len(r.Magnitude) == 0 {
		return 0, 0
	}
	i := floats.MaxIdx(r.Magnitude)
	return r.Frequencies[i], r.Magnitude[i]
}

// MagnitudeResponse computes the frequency response of a delay setting from
// the FFT of its impulse response truncated to fftSize samples. With feedback
// the truncation adds ripple unless fftSize covers the tail.
func MagnitudeResponse(sampleRate int, p engine.Params, fftSize int) (Response, error) {
	if fftSize < fftHermitianDivisor {
		return Response{}, fmt.Errorf("%w: fft size %d", ErrInvalidSize, fftSize)
	}

	ir, err := ImpulseResponse(sampleRate, p, fftSize)
	if err != nil {
		return Response{}, err
	}

	fft := fourier.NewFFT(fftSize)
	coeffs := fft.Coefficients(nil, ir)
	return newResponse(coeffs, fftSize, sampleRate, 1), nil
}

// Spectrum returns the one-sided amplitude spectrum of signal after applying
// a Kaiser window with the given beta. A sine of amplitude A centred on a bin
// reads A at that bin.
func Spectrum(signal []float64, sampleRate int, beta float64) (Response, error) {
	n := len(signal)
	if n < fftHermitianDivisor {
		return Response{}, fmt.Errorf("%w: signal length %d", ErrInvalidSize, n)
	}

	window := KaiserWindow(n, beta)
	windowed := make([]float64, n)
	floats.MulTo(windowed, signal, window)

	fft := fourier.NewFFT(n)
	coeffs := fft.Coefficients(nil, windowed)
	return newResponse(coeffs, n, sampleRate, oneSidedGain/floats.Sum(window)), nil
}

func newResponse(coeffs []complex128, size, sampleRate int, gain float64) Response {
	r := Response{
		Frequencies: make([]float64, len(coeffs)),
		Magnitude:   make([]float64, len(coeffs)),
		Phase:       make([]float64, len(coeffs)),
	}
	for i, c := range coeffs {
		r.Frequencies[i] = float64(i) * float64(sampleRate) / float64(size)
		r.Magnitude[i] = cmplx.Abs(c) * gain
		r.Phase[i] = cmplx.Phase(c)
	}
	return r
}

// CombNotches returns the notch frequencies below Nyquist of a feed-forward
// comb with the given delay in samples: (2k+1) * sampleRate / (2 * delay).
// The notches are complete only at 50% mix without feedback.
func CombNotches(sampleRate int, delaySamples float64) []float64 {
	if sampleRate <= 0 || delaySamples <= 0 {
		return nil
	}
	nyquist := float64(sampleRate) / windowNormalizationFactor
	spacing := float64(sampleRate) / delaySamples

	var notches []float64
	for f := spacing / windowNormalizationFactor; f < nyquist; f += spacing {
		notches = append(notches, f)
	}
	return notches
}

// ToDB converts a linear amplitude to decibels, flooring at -200 dB.
func ToDB(amplitude float64) float64 {
	amplitude = math.Abs(amplitude)
	if amplitude < minMagnitude {
		amplitude = minMagnitude
	}
	return dbMultiplier * math.Log10(amplitude)
}
