// Package engine implements the feedback delay line.
package engine

import (
	"errors"
	"fmt"
	"math"

	"github.com/tphakala/go-audio-delay/internal/simdops"
)

// ErrInvalidSampleRate is returned when a line is created or re-targeted
// with a non-positive sample rate.
var ErrInvalidSampleRate = errors.New("sample rate must be positive")

// Line is a single-channel feedback delay line.
//
// Type parameter F must be float32 or float64 and controls the precision of the
// buffered samples. The delay-to-samples conversion always runs in float64 so
// high sample rates do not lose the fractional part.
//
// The buffer holds exactly MaxDelayMs of audio at the line's sample rate and is
// indexed by two cursors. Changing the delay moves the read cursor only; the
// buffer is never resized while processing.
//
// A Line is not safe for concurrent use. Parameter changes coming from another
// goroutine should go through a ParamStore and be applied with Apply at block
// boundaries.
type Line[F simdops.Float] struct {
	sampleRate int

	// Parameters as set by the caller (ms and percent).
	delayMs     float64
	feedbackPct float64
	mixPct      float64
	bypassed    bool

	// Gains derived from the percentages.
	feedback F
	mix      F

	buffer          []F
	maxDelaySamples int
	writePos        int
	readPos         int
	delaySamples    int // integer part of the delay in samples
	delayFraction   F   // fractional part, in [0, 1)

	// Version of the last Params snapshot applied.
	appliedVersion uint64

	// Statistics
	samplesProcessed int64
	samplesBypassed  int64
}

// NewLine creates a delay line for the given sample rate. Feedback and mix are
// percentages (0-100); out-of-range values are clamped, as is a delay above
// MaxDelayMs.
func NewLine[F simdops.Float](sampleRate int, delayMs, feedbackPct, mixPct float64) (*Line[F], error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSampleRate, sampleRate)
	}

	l := &Line[F]{
		sampleRate:      sampleRate,
		maxDelaySamples: MaxDelaySamples(sampleRate),
		delayMs:         clampDelay(delayMs),
	}
	l.SetFeedback(feedbackPct)
	l.SetMix(mixPct)
	l.Reset()

	return l, nil
}

// MaxDelaySamples returns the buffer capacity for a sample rate.
func MaxDelaySamples(sampleRate int) int {
	return int(math.Ceil(float64(sampleRate) * MaxDelayMs / msPerSecond))
}

// Reset discards all buffered audio and rewinds both cursors. The read cursor
// is then placed according to the current delay. Reset is idempotent; the
// buffer is only allocated when missing or after a sample rate change.
func (l *Line[F]) Reset() {
	if len(l.buffer) != l.maxDelaySamples {
		l.buffer = make([]F, l.maxDelaySamples)
	} else {
		clear(l.buffer)
	}
	l.writePos = 0
	l.readPos = 0
	l.recomputeReadPosition()
}

// SetSampleRate re-targets the line to a new sample rate and resets it.
// This reallocates the buffer when the capacity changes and must not be called
// from the audio callback.
func (l *Line[F]) SetSampleRate(sampleRate int) error {
	if sampleRate <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidSampleRate, sampleRate)
	}
	l.sampleRate = sampleRate
	l.maxDelaySamples = MaxDelaySamples(sampleRate)
	l.Reset()
	return nil
}

// SetDelay sets the delay time in milliseconds, clamped to [0, MaxDelayMs].
// Buffered samples are left alone; the new delay is heard on the next sample.
func (l *Line[F]) SetDelay(ms float64) {
	l.delayMs = clampDelay(ms)
	l.recomputeReadPosition()
}

// SetFeedback sets the feedback amount in percent, clamped to [0, 100].
func (l *Line[F]) SetFeedback(pct float64) {
	l.feedbackPct = clampPercent(pct)
	l.feedback = F(l.feedbackPct / percentScale)
}

// SetMix sets the wet amount in percent, clamped to [0, 100].
// 0 is fully dry, 100 fully delayed.
func (l *Line[F]) SetMix(pct float64) {
	l.mixPct = clampPercent(pct)
	l.mix = F(l.mixPct / percentScale)
}

// SetBypass enables or disables bypass. While bypassed the line passes input
// through and its buffer and cursors stay frozen.
func (l *Line[F]) SetBypass(bypass bool) {
	l.bypassed = bypass
}

// Apply copies a parameter snapshot into the line. Snapshots that were
// already applied are skipped, so calling Apply once per block is cheap.
func (l *Line[F]) Apply(p *Params) {
	if p == nil || (p.version != 0 && p.version == l.appliedVersion) {
		return
	}
	if delay := clampDelay(p.DelayMs); delay != l.delayMs {
		l.SetDelay(delay)
	}
	l.SetFeedback(p.Feedback)
	l.SetMix(p.Mix)
	l.SetBypass(p.Bypass)
	l.appliedVersion = p.version
}

// Params returns the line's current parameters.
func (l *Line[F]) Params() Params {
	return Params{
		DelayMs:  l.delayMs,
		Feedback: l.feedbackPct,
		Mix:      l.mixPct,
		Bypass:   l.bypassed,
	}
}

// ProcessSample runs one input sample through the line and returns the mixed
// output. It does not allocate.
//
// Below one sample of delay the tap is not a plain passthrough of the input:
// a fractional delay d in (0, 1) yields (1-d)*x[n] + d*x[n-1], so short
// fractional settings still delay the signal.
func (l *Line[F]) ProcessSample(input F) F {
	if l.bypassed {
		l.samplesBypassed++
		return input
	}

	var out F
	if l.delaySamples < 1 {
		// Read and write cursors coincide below one sample of delay, so the
		// current tap is the input itself.
		out = input
	} else {
		out = l.buffer[l.readPos]
	}

	if l.delayFraction != 0 {
		prev := l.readPos - 1
		if prev < 0 {
			prev = l.maxDelaySamples - 1
		}
		out = l.delayFraction*l.buffer[prev] + (1-l.delayFraction)*out
	}

	l.buffer[l.writePos] = input + l.feedback*out

	l.writePos++
	if l.writePos >= l.maxDelaySamples {
		l.writePos = 0
	}
	l.readPos++
	if l.readPos >= l.maxDelaySamples {
		l.readPos = 0
	}
	l.samplesProcessed++

	return l.mix*out + (1-l.mix)*input
}

// ProcessBlock processes buf in place.
func (l *Line[F]) ProcessBlock(buf []F) {
	if l.bypassed {
		l.samplesBypassed += int64(len(buf))
		return
	}
	for i, x := range buf {
		buf[i] = l.ProcessSample(x)
	}
}

// Process writes the processed src into dst and returns the number of samples
// written, which is the shorter of the two lengths.
func (l *Line[F]) Process(dst, src []F) int {
	n := min(len(dst), len(src))
	for i := range n {
		dst[i] = l.ProcessSample(src[i])
	}
	return n
}

// recomputeReadPosition derives the integer and fractional delay from the
// current delay time and places the read cursor behind the write cursor.
func (l *Line[F]) recomputeReadPosition() {
	samples := float64(l.sampleRate) * l.delayMs / msPerSecond
	whole := math.Floor(samples)

	l.delaySamples = int(whole)
	l.delayFraction = F(samples - whole)
	if l.delayFraction >= 1 {
		// float32 rounding of a fraction just below 1
		l.delayFraction = 0
		l.delaySamples++
	}
	if l.delaySamples > l.maxDelaySamples {
		l.delaySamples = l.maxDelaySamples
		l.delayFraction = 0
	}

	l.readPos = l.writePos - l.delaySamples
	if l.readPos < 0 {
		l.readPos += l.maxDelaySamples
	}
}

// TailSamples estimates how many samples of silence must follow the input for
// the echoes to decay below floorDB (a negative level relative to the input).
func (l *Line[F]) TailSamples(floorDB float64) int {
	return TailSamples(l.sampleRate, l.Params(), floorDB)
}

// TailSamples estimates the ring-out of a line with parameters p. It returns 0
// when nothing would be heard: bypassed, fully dry or no delay. Sustained
// feedback is capped at one minute.
func TailSamples(sampleRate int, p Params, floorDB float64) int {
	p = p.Clamped()
	if sampleRate <= 0 || p.Bypass || p.Mix == 0 {
		return 0
	}
	delay := int(math.Ceil(float64(sampleRate) * p.DelayMs / msPerSecond))
	if delay == 0 {
		return 0
	}

	maxTail := maxTailSeconds * sampleRate
	gain := p.Feedback / percentScale
	if gain == 0 || floorDB >= 0 {
		return delay
	}
	if gain >= 1 {
		return maxTail
	}

	repeats := math.Ceil(floorDB / (amplitudeDBFactor * math.Log10(gain)))
	tail := (repeats + 1) * float64(delay)
	if tail > float64(maxTail) {
		return maxTail
	}
	return int(tail)
}

// SampleRate returns the sample rate in Hz.
func (l *Line[F]) SampleRate() int {
	return l.sampleRate
}

// MaxDelaySamples returns the buffer capacity in samples.
func (l *Line[F]) MaxDelaySamples() int {
	return l.maxDelaySamples
}

// Delay returns the delay time in milliseconds.
func (l *Line[F]) Delay() float64 {
	return l.delayMs
}

// DelaySamples returns the delay in samples including the fractional part.
func (l *Line[F]) DelaySamples() float64 {
	return float64(l.delaySamples) + float64(l.delayFraction)
}

// Feedback returns the feedback amount in percent.
func (l *Line[F]) Feedback() float64 {
	return l.feedbackPct
}

// Mix returns the wet amount in percent.
func (l *Line[F]) Mix() float64 {
	return l.mixPct
}

// Bypassed reports whether the line is bypassed.
func (l *Line[F]) Bypassed() bool {
	return l.bypassed
}

// GetMemoryUsage returns the buffer size in bytes.
func (l *Line[F]) GetMemoryUsage() int64 {
	var zero F
	bytesPerElement := int64(bytesPerFloat32)
	if _, ok := any(zero).(float64); ok {
		bytesPerElement = bytesPerFloat64
	}
	return int64(cap(l.buffer)) * bytesPerElement
}

// GetStatistics returns processing statistics.
func (l *Line[F]) GetStatistics() map[string]int64 {
	return map[string]int64{
		"samplesProcessed": l.samplesProcessed,
		"samplesBypassed":  l.samplesBypassed,
	}
}

func clampDelay(ms float64) float64 {
	switch {
	case math.IsNaN(ms) || ms < 0:
		return 0
	case ms > MaxDelayMs:
		return MaxDelayMs
	default:
		return ms
	}
}

func clampPercent(pct float64) float64 {
	switch {
	case math.IsNaN(pct) || pct < 0:
		return 0
	case pct > maxPercent:
		return maxPercent
	default:
		return pct
	}
}
