package delay

import (
	"github.com/tphakala/go-audio-delay/internal/simdops"
)

// Common sample rates for convenience functions.
const (
	// RateCD is the CD quality sample rate (Red Book standard).
	RateCD = 44100

	// RateDAT is the DAT/DVD sample rate.
	RateDAT = 48000

	// RateHiRes88 is the high-resolution 2x CD sample rate.
	RateHiRes88 = 88200

	// RateHiRes96 is the high-resolution 2x DAT sample rate.
	RateHiRes96 = 96000

	// RateHiRes192 is the very high resolution 4x DAT sample rate.
	RateHiRes192 = 192000

	// RateTelephony is the telephony (PSTN narrowband) sample rate.
	RateTelephony = 8000

	// RateSpeech is the speech recognition common sample rate.
	RateSpeech = 22050
)

// NewMono creates a single-channel processor.
func NewMono(sampleRate int, s State) (*Processor, error) {
	return newWithState(sampleRate, monoChannels, s)
}

// NewStereo creates a two-channel processor.
func NewStereo(sampleRate int, s State) (*Processor, error) {
	return newWithState(sampleRate, stereoChannels, s)
}

func newWithState(sampleRate, channels int, s State) (*Processor, error) {
	return New(&Config{
		SampleRate: sampleRate,
		Channels:   channels,
		Delay:      s.Delay,
		Feedback:   s.Feedback,
		Mix:        s.Mix,
		Bypass:     s.Bypass,
	})
}

// ApplyMono is a convenience function for one-shot processing. It runs input
// through a fresh line and appends the ring-out down to DefaultTailFloorDB,
// so the result is longer than input whenever echoes are audible.
func ApplyMono(input []float64, sampleRate int, s State) ([]float64, error) {
	l, err := NewLine(sampleRate, s.Delay, s.Feedback, s.Mix)
	if err != nil {
		return nil, err
	}
	l.SetBypass(s.Bypass)

	output := make([]float64, len(input)+l.TailSamples(DefaultTailFloorDB))
	copy(output, input)
	l.ProcessBlock(output)
	return output, nil
}

// ApplyStereo is a convenience function for one-shot stereo processing.
// Each channel gets its own line.
func ApplyStereo(left, right []float64, sampleRate int, s State) (leftOut, rightOut []float64, err error) {
	leftOut, err = ApplyMono(left, sampleRate, s)
	if err != nil {
		return nil, nil, err
	}

	rightOut, err = ApplyMono(right, sampleRate, s)
	if err != nil {
		return nil, nil, err
	}

	return leftOut, rightOut, nil
}

// ApplyMonoFloat32 is the float32 equivalent of ApplyMono.
func ApplyMonoFloat32(input []float32, sampleRate int, s State) ([]float32, error) {
	l, err := NewLineFloat32(sampleRate, s.Delay, s.Feedback, s.Mix)
	if err != nil {
		return nil, err
	}
	l.SetBypass(s.Bypass)

	output := make([]float32, len(input)+l.TailSamples(DefaultTailFloorDB))
	copy(output, input)
	l.ProcessBlock(output)
	return output, nil
}

// ApplyStereoFloat32 is the float32 equivalent of ApplyStereo.
func ApplyStereoFloat32(left, right []float32, sampleRate int, s State) (leftOut, rightOut []float32, err error) {
	leftOut, err = ApplyMonoFloat32(left, sampleRate, s)
	if err != nil {
		return nil, nil, err
	}

	rightOut, err = ApplyMonoFloat32(right, sampleRate, s)
	if err != nil {
		return nil, nil, err
	}

	return leftOut, rightOut, nil
}

// InterleaveToStereo converts two mono channels to interleaved stereo.
// Output format: [L0, R0, L1, R1, L2, R2, ...]
// The longer channel is truncated.
func InterleaveToStereo(left, right []float64) []float64 {
	return interleave(left, right)
}

// DeinterleaveFromStereo converts interleaved stereo to two mono channels.
// Input format: [L0, R0, L1, R1, L2, R2, ...]
func DeinterleaveFromStereo(interleaved []float64) (left, right []float64) {
	return deinterleave(interleaved)
}

// InterleaveToStereoFloat32 is the float32 equivalent of InterleaveToStereo.
func InterleaveToStereoFloat32(left, right []float32) []float32 {
	return interleave(left, right)
}

// DeinterleaveFromStereoFloat32 is the float32 equivalent of DeinterleaveFromStereo.
func DeinterleaveFromStereoFloat32(interleaved []float32) (left, right []float32) {
	return deinterleave(interleaved)
}

func interleave[F simdops.Float](left, right []F) []F {
	n := min(len(left), len(right))
	result := make([]F, n*stereoChannels)
	if n > 0 {
		simdops.For[F]().Interleave2(result, left[:n], right[:n])
	}
	return result
}

func deinterleave[F simdops.Float](interleaved []F) (left, right []F) {
	numSamples := len(interleaved) / stereoChannels
	left = make([]F, numSamples)
	right = make([]F, numSamples)
	for i := range numSamples {
		left[i] = interleaved[i*stereoChannels]
		right[i] = interleaved[i*stereoChannels+1]
	}
	return left, right
}
