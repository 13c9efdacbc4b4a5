package delay

import (
	"fmt"

	"github.com/tphakala/go-audio-delay/internal/engine"
)

// Line is a single-channel delay line with float64 samples.
//
// Use a Line to process one channel directly; it is not safe for concurrent
// use. For several channels sharing parameters that change while audio runs,
// use a Processor.
type Line struct {
	engine *engine.Line[float64]
}

// NewLine creates a delay line. Feedback and mix are percentages; values out
// of range are clamped, as is a delay above MaxDelayMs.
func NewLine(sampleRate int, delayMs, feedbackPct, mixPct float64) (*Line, error) {
	l, err := engine.NewLine[float64](sampleRate, delayMs, feedbackPct, mixPct)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return &Line{engine: l}, nil
}

// ProcessSample processes one sample.
func (l *Line) ProcessSample(x float64) float64 { return l.engine.ProcessSample(x) }

// ProcessBlock processes buf in place.
func (l *Line) ProcessBlock(buf []float64) { l.engine.ProcessBlock(buf) }

// Process writes processed src into dst and returns the samples written.
func (l *Line) Process(dst, src []float64) int { return l.engine.Process(dst, src) }

// SetDelay sets the delay in milliseconds.
func (l *Line) SetDelay(ms float64) { l.engine.SetDelay(ms) }

// SetFeedback sets the feedback in percent.
func (l *Line) SetFeedback(pct float64) { l.engine.SetFeedback(pct) }

// SetMix sets the wet amount in percent.
func (l *Line) SetMix(pct float64) { l.engine.SetMix(pct) }

// SetBypass enables or disables bypass.
func (l *Line) SetBypass(bypass bool) { l.engine.SetBypass(bypass) }

// SetState applies all four parameters.
func (l *Line) SetState(s State) {
	l.engine.SetDelay(s.Delay)
	l.engine.SetFeedback(s.Feedback)
	l.engine.SetMix(s.Mix)
	l.engine.SetBypass(s.Bypass)
}

// State returns the current parameters.
func (l *Line) State() State { return lineState(l.engine) }

// SetSampleRate re-targets the line and clears it.
func (l *Line) SetSampleRate(sampleRate int) error {
	if err := l.engine.SetSampleRate(sampleRate); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// Reset clears the buffered audio.
func (l *Line) Reset() { l.engine.Reset() }

// Delay returns the delay in milliseconds.
func (l *Line) Delay() float64 { return l.engine.Delay() }

// Feedback returns the feedback in percent.
func (l *Line) Feedback() float64 { return l.engine.Feedback() }

// Mix returns the wet amount in percent.
func (l *Line) Mix() float64 { return l.engine.Mix() }

// Bypassed reports whether the line is bypassed.
func (l *Line) Bypassed() bool { return l.engine.Bypassed() }

// SampleRate returns the sample rate in Hz.
func (l *Line) SampleRate() int { return l.engine.SampleRate() }

// MaxDelaySamples returns the buffer capacity in samples.
func (l *Line) MaxDelaySamples() int { return l.engine.MaxDelaySamples() }

// TailSamples returns the samples needed for the echoes to fall below floorDB.
func (l *Line) TailSamples(floorDB float64) int { return l.engine.TailSamples(floorDB) }

// GetStatistics returns processing statistics.
func (l *Line) GetStatistics() map[string]int64 { return l.engine.GetStatistics() }

// =============================================================================
// Float32 Native API
// =============================================================================

// LineFloat32 is a Line with float32 samples. It halves the buffer memory
// and matches the sample format most audio hosts use.
type LineFloat32 struct {
	engine *engine.Line[float32]
}

// NewLineFloat32 creates a float32 delay line.
func NewLineFloat32(sampleRate int, delayMs, feedbackPct, mixPct float64) (*LineFloat32, error) {
	l, err := engine.NewLine[float32](sampleRate, delayMs, feedbackPct, mixPct)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return &LineFloat32{engine: l}, nil
}

// ProcessSample processes one sample.
func (l *LineFloat32) ProcessSample(x float32) float32 { return l.engine.ProcessSample(x) }

// ProcessBlock processes buf in place.
func (l *LineFloat32) ProcessBlock(buf []float32) { l.engine.ProcessBlock(buf) }

// Process writes processed src into dst and returns the samples written.
func (l *LineFloat32) Process(dst, src []float32) int { return l.engine.Process(dst, src) }

// SetDelay sets the delay in milliseconds.
func (l *LineFloat32) SetDelay(ms float64) { l.engine.SetDelay(ms) }

// SetFeedback sets the feedback in percent.
func (l *LineFloat32) SetFeedback(pct float64) { l.engine.SetFeedback(pct) }

// SetMix sets the wet amount in percent.
func (l *LineFloat32) SetMix(pct float64) { l.engine.SetMix(pct) }

// SetBypass enables or disables bypass.
func (l *LineFloat32) SetBypass(bypass bool) { l.engine.SetBypass(bypass) }

// State returns the current parameters.
func (l *LineFloat32) State() State { return lineState(l.engine) }

// Reset clears the buffered audio.
func (l *LineFloat32) Reset() { l.engine.Reset() }

// TailSamples returns the samples needed for the echoes to fall below floorDB.
func (l *LineFloat32) TailSamples(floorDB float64) int { return l.engine.TailSamples(floorDB) }

func lineState[F float32 | float64](l *engine.Line[F]) State {
	return State{
		Delay:    l.Delay(),
		Feedback: l.Feedback(),
		Mix:      l.Mix(),
		Bypass:   l.Bypassed(),
	}
}
