// Package analysis measures what a delay setting does to a signal: its echo
// train, its comb-filter frequency response and simple level meters.
//
// It is used by the command-line tools and by tests; nothing here runs on the
// audio path.
package analysis

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/tphakala/go-audio-delay/internal/engine"
)

// ErrInvalidSize is returned for a non-positive analysis length.
var ErrInvalidSize = errors.New("analysis size must be positive")

// ImpulseResponse feeds a unit impulse through a fresh float64 line built
// from p and returns the first n output samples.
func ImpulseResponse(sampleRate int, p engine.Params, n int) ([]float64, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSize, n)
	}

	line, err := engine.NewLine[float64](sampleRate, p.DelayMs, p.Feedback, p.Mix)
	if err != nil {
		return nil, err
	}
	line.SetBypass(p.Bypass)

	response := make([]float64, n)
	response[0] = 1
	line.ProcessBlock(response)
	return response, nil
}

// Echo is one audible repeat found in an impulse response.
type Echo struct {
	// Sample is the index of the largest sample of the echo.
	Sample int
	// Position is the magnitude-weighted centre of the echo in samples.
	// A fractional delay spreads an echo over neighbouring samples.
	Position float64
	// TimeMs is Position converted to milliseconds.
	TimeMs float64
	// Amplitude is the sum of the echo's samples.
	Amplitude float64
}

// FindEchoes splits response into runs of samples whose magnitude exceeds
// threshold and reports each run as an echo. The dry signal, when present,
// is the echo at position 0. Echoes less than two samples apart merge.
func FindEchoes(response []float64, sampleRate int, threshold float64) []Echo {
	var echoes []Echo
	abs := make([]float64, len(response))
	for i, v := range response {
		abs[i] = math.Abs(v)
	}

	for start := 0; start < len(response); {
		if abs[start] <= threshold {
			start++
			continue
		}
		end := start
		for end < len(response) && abs[end] > threshold {
			end++
		}

		run := abs[start:end]
		weight := floats.Sum(run)
		var centre float64
		for i, a := range run {
			centre += float64(start+i) * a
		}
		centre /= weight

		echo := Echo{
			Sample:    start + floats.MaxIdx(run),
			Position:  centre,
			Amplitude: floats.Sum(response[start:end]),
		}
		if sampleRate > 0 {
			echo.TimeMs = centre * msPerSecond / float64(sampleRate)
		}
		echoes = append(echoes, echo)
		start = end
	}

	return echoes
}
