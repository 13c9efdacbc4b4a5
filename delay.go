package delay

import (
	"errors"
	"fmt"
	"math"
)

// Common errors returned by the delay.
var (
	// ErrInvalidConfig indicates invalid configuration parameters.
	ErrInvalidConfig = errors.New("invalid delay configuration")

	// ErrInvalidParameter indicates an unknown parameter identifier.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrChannelMismatch indicates buffers that do not match the processor's
	// channel layout.
	ErrChannelMismatch = errors.New("channel count mismatch")

	// ErrUnsupportedFormat indicates a state document that cannot be read.
	ErrUnsupportedFormat = errors.New("unsupported state format")
)

// Config holds processor configuration.
//
// A zero Mix is a valid setting (fully dry), so Config has no implicit
// parameter defaults; use DefaultConfig to start from the plugin defaults.
type Config struct {
	// SampleRate is the sample rate of the audio in Hz.
	SampleRate int

	// Channels is the number of delay lines. 0 means stereo.
	Channels int

	// Delay is the delay time in milliseconds (0 to MaxDelayMs).
	Delay float64

	// Feedback is the amount of output fed back into the line, in percent.
	Feedback float64

	// Mix is the wet amount in percent. 0 is fully dry, 100 fully delayed.
	Mix float64

	// Bypass passes audio through untouched and freezes the lines.
	Bypass bool

	// EnableParallel processes channels concurrently in ProcessBlock.
	// This is meant for offline rendering of long blocks; it spawns one
	// goroutine per channel per call and has no effect on mono audio.
	EnableParallel bool
}

// DefaultConfig returns a stereo configuration with the default parameter
// values: no delay, no feedback, 50% mix, bypass off.
func DefaultConfig(sampleRate int) Config {
	return Config{
		SampleRate: sampleRate,
		Channels:   defaultChannels,
		Delay:      defaultDelayMs,
		Feedback:   defaultFeedbackPct,
		Mix:        defaultMixPct,
	}
}

// Validate checks if the configuration is valid. Parameter values are not
// checked; out-of-range values are clamped when applied.
func (c *Config) Validate() error {
	if c.SampleRate <= 0 {
		return fmt.Errorf("%w: sample rate must be positive", ErrInvalidConfig)
	}

	if c.Channels < 0 {
		return fmt.Errorf("%w: channels must not be negative", ErrInvalidConfig)
	}

	if c.Channels > maxChannels {
		return fmt.Errorf("%w: too many channels (max %d)", ErrInvalidConfig, maxChannels)
	}

	return nil
}

// State returns the four persisted parameters of the configuration.
func (c *Config) State() State {
	return State{
		Delay:    c.Delay,
		Feedback: c.Feedback,
		Mix:      c.Mix,
		Bypass:   c.Bypass,
	}
}

// ParamID identifies one of the user-facing parameters.
type ParamID int

const (
	// ParamDelay is the delay time in milliseconds.
	ParamDelay ParamID = iota

	// ParamFeedback is the feedback amount in percent.
	ParamFeedback

	// ParamMix is the wet amount in percent.
	ParamMix

	// ParamBypass is 1 when bypassed and 0 otherwise.
	ParamBypass

	// NumParams is the number of parameters.
	NumParams = int(ParamBypass) + 1
)

// String returns the parameter name as used in saved state.
func (id ParamID) String() string {
	if spec, err := Spec(id); err == nil {
		return spec.Name
	}
	return fmt.Sprintf("ParamID(%d)", int(id))
}

// ParamSpec describes the range of a parameter.
type ParamSpec struct {
	Name    string
	Unit    string
	Min     float64
	Max     float64
	Step    float64
	Default float64
}

var paramSpecs = [NumParams]ParamSpec{
	ParamDelay:    {Name: "Delay", Unit: "ms", Min: 0, Max: MaxDelayMs, Step: delayStepMs, Default: defaultDelayMs},
	ParamFeedback: {Name: "Feedback", Unit: "%", Min: 0, Max: maxPercent, Step: percentStep, Default: defaultFeedbackPct},
	ParamMix:      {Name: "Mix", Unit: "%", Min: 0, Max: maxPercent, Step: percentStep, Default: defaultMixPct},
	ParamBypass:   {Name: "Bypass", Min: 0, Max: bypassOn, Step: bypassOn, Default: 0},
}

// Spec returns the range and default of a parameter.
func Spec(id ParamID) (ParamSpec, error) {
	if id < 0 || int(id) >= NumParams {
		return ParamSpec{}, fmt.Errorf("%w: %d", ErrInvalidParameter, int(id))
	}
	return paramSpecs[id], nil
}

// Clamp limits v to the parameter's range. NaN becomes the minimum.
func (s ParamSpec) Clamp(v float64) float64 {
	switch {
	case math.IsNaN(v) || v < s.Min:
		return s.Min
	case v > s.Max:
		return s.Max
	default:
		return v
	}
}

// Info describes a processor.
type Info struct {
	// Channels is the number of delay lines.
	Channels int

	// SampleRate is the current sample rate in Hz.
	SampleRate int

	// MaxDelaySamples is the per-channel buffer capacity.
	MaxDelaySamples int

	// MemoryUsage is the approximate memory usage in bytes.
	MemoryUsage int64

	// Parallel reports whether channels are processed concurrently.
	Parallel bool

	// SIMDEnabled indicates if SIMD optimizations are active for the
	// block helpers (interleaving, metering).
	SIMDEnabled bool

	// SIMDType describes the SIMD instruction set in use.
	SIMDType string
}
