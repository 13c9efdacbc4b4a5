// Command analyze-delay prints the echo train and the comb-filter frequency
// response of a delay setting.
package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"math/rand/v2"

	"github.com/tphakala/go-audio-delay/internal/analysis"
	"github.com/tphakala/go-audio-delay/internal/engine"
)

const (
	defaultSampleRate = 48000
	defaultDelayMs    = 5.0 // short enough for audible comb spacing
	defaultFeedback   = 50.0
	defaultMix        = 50.0
	defaultFFTSize    = 8192
	defaultThreshold  = 1e-3

	// Display limits
	maxEchoesToShow  = 10
	maxNotchesToShow = 8

	noiseSeed1     = 0x5eed
	noiseSeed2     = 0xdecaf
	noiseAmplitude = 0.25
	msPerSecond    = 1000.0
)

func main() {
	var (
		sampleRate = flag.Int("rate", defaultSampleRate, "Sample rate in Hz")
		delayMs    = flag.Float64("delay", defaultDelayMs, "Delay time in milliseconds")
		feedback   = flag.Float64("feedback", defaultFeedback, "Feedback in percent")
		mix        = flag.Float64("mix", defaultMix, "Wet/dry mix in percent")
		fftSize    = flag.Int("fft", defaultFFTSize, "FFT size for the frequency response")
		threshold  = flag.Float64("threshold", defaultThreshold, "Echo detection threshold")
	)
	flag.Parse()

	params := engine.Params{DelayMs: *delayMs, Feedback: *feedback, Mix: *mix}.Clamped()
	delaySamples := float64(*sampleRate) * params.DelayMs / msPerSecond

	fmt.Println("=== Analyzing Delay ===")
	fmt.Printf("  Sample rate: %d Hz\n", *sampleRate)
	fmt.Printf("  Delay: %.3f ms (%.3f samples)\n", params.DelayMs, delaySamples)
	fmt.Printf("  Feedback: %.0f%%  Mix: %.0f%%\n\n", params.Feedback, params.Mix)

	if err := printEchoes(*sampleRate, params, *fftSize, *threshold); err != nil {
		log.Fatal(err)
	}
	if err := printResponse(*sampleRate, params, *fftSize, delaySamples); err != nil {
		log.Fatal(err)
	}
	if err := printNoiseSpectrum(*sampleRate, params, *fftSize); err != nil {
		log.Fatal(err)
	}
}

func printEchoes(sampleRate int, params engine.Params, n int, threshold float64) error {
	ir, err := analysis.ImpulseResponse(sampleRate, params, n)
	if err != nil {
		return err
	}

	echoes := analysis.FindEchoes(ir, sampleRate, threshold)
	fmt.Printf("Echo train (%d above %g):\n", len(echoes), threshold)
	for i, e := range echoes {
		if i == maxEchoesToShow {
			fmt.Printf("  ... (%d more echoes)\n", len(echoes)-maxEchoesToShow)
			break
		}
		fmt.Printf("  %2d: %10.3f samples  %9.3f ms  %+.6f (%.1f dB)\n",
			i, e.Position, e.TimeMs, e.Amplitude, analysis.ToDB(e.Amplitude))
	}
	fmt.Printf("  Tail to -60 dB: %d samples\n\n", engine.TailSamples(sampleRate, params, -60))
	return nil
}

func printResponse(sampleRate int, params engine.Params, fftSize int, delaySamples float64) error {
	resp, err := analysis.MagnitudeResponse(sampleRate, params, fftSize)
	if err != nil {
		return err
	}

	db := resp.MagnitudeDB()
	peakFreq, peakMag := resp.Peak()
	minIdx := 0
	for i, v := range db {
		if v < db[minIdx] {
			minIdx = i
		}
	}
	fmt.Println("Frequency response:")
	fmt.Printf("  Peak: %.1f Hz at %+.2f dB\n", peakFreq, analysis.ToDB(peakMag))
	fmt.Printf("  Deepest: %.1f Hz at %+.2f dB\n", resp.Frequencies[minIdx], db[minIdx])

	notches := analysis.CombNotches(sampleRate, delaySamples)
	fmt.Printf("  Comb notches (%d below Nyquist):\n", len(notches))
	binWidth := float64(sampleRate) / float64(fftSize)
	for i, f := range notches {
		if i == maxNotchesToShow {
			fmt.Printf("    ... (%d more notches)\n", len(notches)-maxNotchesToShow)
			break
		}
		bin := int(math.Round(f / binWidth))
		fmt.Printf("    %9.1f Hz: %+.2f dB\n", f, db[bin])
	}
	fmt.Println()
	return nil
}

// printNoiseSpectrum runs seeded white noise through a line and reports the
// level meters and the windowed spectrum around the first notch.
func printNoiseSpectrum(sampleRate int, params engine.Params, n int) error {
	line, err := engine.NewLine[float64](sampleRate, params.DelayMs, params.Feedback, params.Mix)
	if err != nil {
		return err
	}

	rng := rand.New(rand.NewPCG(noiseSeed1, noiseSeed2))
	dry := make([]float64, n)
	for i := range dry {
		dry[i] = noiseAmplitude * (2*rng.Float64() - 1)
	}
	wet := make([]float64, n)
	line.Process(wet, dry)

	fmt.Println("White noise through the line:")
	fmt.Printf("  RMS in/out: %.2f / %.2f dB\n",
		analysis.ToDB(analysis.RMS(dry)), analysis.ToDB(analysis.RMS(wet)))
	fmt.Printf("  Peak in/out: %.4f / %.4f\n", analysis.Peak(dry), analysis.Peak(wet))
	fmt.Printf("  DC out: %+.6f\n", analysis.DC(wet))

	spec, err := analysis.Spectrum(wet, sampleRate, analysis.DefaultKaiserBeta)
	if err != nil {
		return err
	}
	freq, mag := spec.Peak()
	fmt.Printf("  Strongest component: %.1f Hz at %.2f dB\n", freq, analysis.ToDB(mag))
	return nil
}
