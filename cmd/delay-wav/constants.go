package main

const (
	// Frames per processing chunk
	bufferSize = 65536

	monoChannels   = 1
	stereoChannels = 2

	bitsPerSample8  = 8
	bitsPerSample16 = 16
	bitsPerSample24 = 24
	bitsPerSample32 = 32

	fullScale8 = 128.0 // re-centred 8-bit PCM spans -128..127
	pcm8Offset = 128
	maxInt16   = 32767.0
	maxInt24   = 8388607.0
	maxInt32   = 2147483647.0

	// WAVE_FORMAT_PCM
	wavFormatPCM = 1

	progressInterval = 10 // Print progress every N%
	percentScale     = 100

	// CLI defaults
	defaultDelayMs  = 250.0
	defaultFeedback = 35.0
	defaultMix      = 50.0
	defaultFloorDB  = -60.0
	minRequiredArgs = 2
)
