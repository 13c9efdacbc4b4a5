package main

import (
	"fmt"
	"log"
	"math"
	"os"
	"sync"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/tphakala/go-audio-delay/internal/engine"
	"github.com/tphakala/go-audio-delay/internal/simdops"
)

// getMaxValue returns the full-scale integer value for a PCM bit depth.
func getMaxValue(bitDepth int) float64 {
	switch bitDepth {
	case bitsPerSample8:
		return fullScale8
	case bitsPerSample24:
		return maxInt24
	case bitsPerSample32:
		return maxInt32
	default:
		return maxInt16
	}
}

func supportedBitDepth(bits int) bool {
	return bits == bitsPerSample16 || bits == bitsPerSample24 || bits == bitsPerSample32
}

// outputBitDepth picks the requested depth, falling back to the input's.
// 8-bit input is written as 16-bit.
func outputBitDepth(requested, input int) (int, error) {
	if requested != 0 {
		if !supportedBitDepth(requested) {
			return 0, fmt.Errorf("unsupported output bit depth: %d (use 16, 24 or 32)", requested)
		}
		return requested, nil
	}
	if input == bitsPerSample8 {
		return bitsPerSample16, nil
	}
	if !supportedBitDepth(input) {
		return 0, fmt.Errorf("%w: %d-bit PCM", errUnsupportedInput, input)
	}
	return input, nil
}

// createChannelLines creates one delay line per input channel.
func createChannelLines[F Float](numChannels, sampleRate int, opts options) ([]*engine.Line[F], error) {
	lines := make([]*engine.Line[F], numChannels)
	for ch := range numChannels {
		l, err := engine.NewLine[F](sampleRate, opts.delayMs, opts.feedback, opts.mix)
		if err != nil {
			return nil, fmt.Errorf("failed to create delay line for channel %d: %w", ch, err)
		}
		l.SetBypass(opts.bypass)
		lines[ch] = l
	}
	return lines, nil
}

// wavOutputWriter wraps the output file and its encoder.
type wavOutputWriter struct {
	file    *os.File
	encoder *wav.Encoder
	buf     *audio.IntBuffer
}

// createWAVOutput creates the output file and a PCM encoder for it.
func createWAVOutput(path string, sampleRate, bitDepth, channels int) (*wavOutputWriter, error) {
	outputFile, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}

	return &wavOutputWriter{
		file:    outputFile,
		encoder: wav.NewEncoder(outputFile, sampleRate, bitDepth, channels, wavFormatPCM),
		buf: &audio.IntBuffer{
			Format:         &audio.Format{NumChannels: channels, SampleRate: sampleRate},
			SourceBitDepth: bitDepth,
		},
	}, nil
}

// WriteSamples writes interleaved samples to the output file.
func (w *wavOutputWriter) WriteSamples(samples []int) error {
	w.buf.Data = samples
	if err := w.encoder.Write(w.buf); err != nil {
		return fmt.Errorf("failed to write samples: %w", err)
	}
	return nil
}

// Close patches the WAV header and closes the file.
func (w *wavOutputWriter) Close() error {
	if err := w.encoder.Close(); err != nil {
		_ = w.file.Close()
		return err
	}
	return w.file.Close()
}

// delayBuffers holds all preallocated buffers for one run.
type delayBuffers[F Float] struct {
	inputInts   []int
	channelBufs [][]F
	outputBufs  [][]F
	scratch     []F
	outputInts  []int
	invInputMax float64
	outputMax   float64
}

// newDelayBuffers preallocates the processing buffers. outputBufs aliases
// channelBufs, with channel 0 repeated for a mono-to-stereo upmix.
func newDelayBuffers[F Float](inChannels, outChannels, inBits, outBits int) *delayBuffers[F] {
	channelBufs := make([][]F, inChannels)
	for ch := range inChannels {
		channelBufs[ch] = make([]F, bufferSize)
	}

	outputBufs := make([][]F, outChannels)
	for ch := range outChannels {
		outputBufs[ch] = channelBufs[min(ch, inChannels-1)]
	}

	return &delayBuffers[F]{
		inputInts:   make([]int, bufferSize*inChannels),
		channelBufs: channelBufs,
		outputBufs:  outputBufs,
		scratch:     make([]F, bufferSize),
		outputInts:  make([]int, bufferSize*outChannels),
		invInputMax: 1.0 / getMaxValue(inBits),
		outputMax:   getMaxValue(outBits),
	}
}

// progressTracker handles progress reporting.
type progressTracker struct {
	totalFrames  int64
	lastProgress int
	verbose      bool
}

func newProgressTracker(totalFrames int64, verbose bool) *progressTracker {
	return &progressTracker{
		totalFrames: totalFrames,
		verbose:     verbose,
	}
}

// reportIfNeeded reports progress if threshold crossed.
func (p *progressTracker) reportIfNeeded(currentFrames int64) {
	if !p.verbose || p.totalFrames == 0 {
		return
	}

	progress := int(float64(currentFrames) / float64(p.totalFrames) * percentScale)
	if progress >= p.lastProgress+progressInterval {
		log.Printf("Progress: %d%%", progress)
		p.lastProgress = progress
	}
}

// deinterleaveInto splits interleaved PCM into per-channel buffers and
// normalizes them to [-1, 1].
func deinterleaveInto[F Float](channelBufs [][]F, samples []int, frames int, invMaxVal float64) {
	channels := len(channelBufs)
	if channels == monoChannels {
		buf := channelBufs[0][:frames]
		for i := range buf {
			buf[i] = F(samples[i])
		}
	} else {
		for ch, buf := range channelBufs {
			buf = buf[:frames]
			for i := range buf {
				buf[i] = F(samples[i*channels+ch])
			}
		}
	}

	ops := simdops.For[F]()
	for _, buf := range channelBufs {
		ops.Scale(buf[:frames], buf[:frames], F(invMaxVal))
	}
}

// interleaveInto scales per-channel buffers to full scale and writes them as
// interleaved, clipped integers. scratch must hold at least frames samples.
func interleaveInto[F Float](dst []int, channelBufs [][]F, scratch []F, frames int, maxVal float64) {
	channels := len(channelBufs)
	ops := simdops.For[F]()
	scaled := scratch[:frames]
	for ch, buf := range channelBufs {
		ops.Scale(scaled, buf[:frames], F(maxVal))
		for i, v := range scaled {
			dst[i*channels+ch] = toPCM(float64(v), maxVal)
		}
	}
}

func toPCM(v, maxVal float64) int {
	switch {
	case v >= maxVal:
		return int(maxVal)
	case v <= -maxVal:
		return -int(maxVal)
	case math.IsNaN(v):
		return 0
	default:
		return int(math.Round(v))
	}
}

// processChannelData runs each channel buffer through its own line.
func processChannelData[F Float](lines []*engine.Line[F], channelBufs [][]F, frames int, parallel bool) {
	if parallel && len(lines) > 1 {
		var wg sync.WaitGroup
		for ch, l := range lines {
			wg.Add(1)
			go func(l *engine.Line[F], buf []F) {
				defer wg.Done()
				l.ProcessBlock(buf)
			}(l, channelBufs[ch][:frames])
		}
		wg.Wait()
		return
	}

	for ch, l := range lines {
		l.ProcessBlock(channelBufs[ch][:frames])
	}
}

func writeFrames[F Float](out *wavOutputWriter, bufs *delayBuffers[F], frames int) error {
	n := frames * len(bufs.outputBufs)
	interleaveInto(bufs.outputInts[:n], bufs.outputBufs, bufs.scratch, frames, bufs.outputMax)
	return out.WriteSamples(bufs.outputInts[:n])
}

// renderTail feeds silence through the lines so the echoes ring out.
func renderTail[F Float](out *wavOutputWriter, lines []*engine.Line[F], bufs *delayBuffers[F], tailFrames int, parallel bool) error {
	for remaining := tailFrames; remaining > 0; {
		frames := min(remaining, bufferSize)
		for _, buf := range bufs.channelBufs {
			clear(buf[:frames])
		}
		processChannelData(lines, bufs.channelBufs, frames, parallel)
		if err := writeFrames(out, bufs, frames); err != nil {
			return err
		}
		remaining -= frames
	}
	return nil
}
