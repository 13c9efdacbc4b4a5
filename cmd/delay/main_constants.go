package main

import "time"

// Default command-line flag values
const (
	defaultSampleRate = 48000 // DAT/DVD sample rate
	defaultChannels   = 2     // Stereo
	defaultDelayMs    = 250.0
	defaultFeedback   = 50.0
	defaultMix        = 50.0
)

// Impulse test parameters
const (
	impulseBlockSize  = 512
	impulseThreshold  = 1e-3
	impulseMaxEchoes  = 8
	tailFloorDB       = -60.0
	msPerSecond       = 1000.0
	bytesPerKilobyte  = 1024
	percentScale      = 100
	demoBlocks        = 400
	demoBlockSize     = 256
	demoSweepSteps    = 20
	demoSweepMaxMs    = 500.0
	demoToneFrequency = 440.0

	demoControlInterval = 100 * time.Microsecond
)

// Demo channel configurations
const (
	monoChannels   = 1
	stereoChannels = 2
)
