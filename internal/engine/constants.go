package engine

// Delay capacity
const (
	// MaxDelayMs is the longest delay a line can hold. The buffer is sized for
	// it at construction regardless of the current delay time.
	MaxDelayMs = 2000.0

	msPerSecond = 1000.0
)

// Parameter scaling
const (
	// Feedback and mix arrive as percentages and are stored as gains.
	percentScale = 100.0
	maxPercent   = 100.0
)

// Tail estimation
const (
	// Upper bound on the reported tail for sustaining feedback (gain of 1).
	maxTailSeconds = 60

	// Amplitude ratio to decibels: 20 * log10(a).
	amplitudeDBFactor = 20.0
)

// Byte sizes for float types.
const (
	bytesPerFloat32 = 4
	bytesPerFloat64 = 8
)
