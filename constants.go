package delay

import "github.com/tphakala/go-audio-delay/internal/engine"

// Channel constants
const (
	monoChannels    = 1   // Mono channel count
	stereoChannels  = 2   // Stereo channel count (used by interleave functions)
	defaultChannels = 2   // Channels created when Config.Channels is zero
	maxChannels     = 256 // Maximum supported channel count
)

// Parameter ranges
const (
	// MaxDelayMs is the longest supported delay. Longer delays are clamped.
	MaxDelayMs = engine.MaxDelayMs

	delayStepMs = 0.01  // Delay resolution in ms
	percentStep = 1.0   // Feedback/mix resolution in percent
	maxPercent  = 100.0 // Upper bound of feedback and mix
	bypassOn    = 1.0   // Parameter value of an engaged bypass
)

// Parameter defaults
const (
	defaultDelayMs     = 0.0
	defaultFeedbackPct = 0.0
	defaultMixPct      = 50.0
)

// DefaultTailFloorDB is the level below which echoes are considered silent
// by the one-shot helpers.
const DefaultTailFloorDB = -60.0
