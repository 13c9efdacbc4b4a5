package main

import (
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeTestWAV writes interleaved 16-bit PCM to a temporary file.
func writeTestWAV(t *testing.T, sampleRate, channels int, samples []int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "input.wav")
	f, err := os.Create(path)
	require.NoError(t, err)

	enc := wav.NewEncoder(f, sampleRate, bitsPerSample16, channels, wavFormatPCM)
	require.NoError(t, enc.Write(&audio.IntBuffer{
		Format:         &audio.Format{NumChannels: channels, SampleRate: sampleRate},
		Data:           samples,
		SourceBitDepth: bitsPerSample16,
	}))
	require.NoError(t, enc.Close())
	require.NoError(t, f.Close())
	return path
}

// writeTestWAV8 writes unsigned 8-bit mono PCM with a canonical 44-byte header.
func writeTestWAV8(t *testing.T, sampleRate int, samples []byte) string {
	t.Helper()
	le := binary.LittleEndian
	header := make([]byte, 0, 44)
	header = append(header, "RIFF"...)
	header = le.AppendUint32(header, uint32(36+len(samples)))
	header = append(header, "WAVEfmt "...)
	header = le.AppendUint32(header, 16)
	header = le.AppendUint16(header, wavFormatPCM)
	header = le.AppendUint16(header, 1)
	header = le.AppendUint32(header, uint32(sampleRate))
	header = le.AppendUint32(header, uint32(sampleRate)) // byte rate
	header = le.AppendUint16(header, 1)                  // block align
	header = le.AppendUint16(header, bitsPerSample8)
	header = append(header, "data"...)
	header = le.AppendUint32(header, uint32(len(samples)))

	path := filepath.Join(t.TempDir(), "input8.wav")
	require.NoError(t, os.WriteFile(path, append(header, samples...), 0o644))
	return path
}

func readTestWAV(t *testing.T, path string) *audio.IntBuffer {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	dec := wav.NewDecoder(f)
	require.True(t, dec.IsValidFile())
	buf, err := dec.FullPCMBuffer()
	require.NoError(t, err)
	return buf
}

// =============================================================================
// Input
// =============================================================================

func TestOpenInput_FileNotFound(t *testing.T) {
	_, err := openInput("/nonexistent/file.wav", false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open input file")
}

func TestOpenInput_InvalidWAV(t *testing.T) {
	invalidFile := filepath.Join(t.TempDir(), "invalid.wav")
	require.NoError(t, os.WriteFile(invalidFile, []byte("not a wav file"), 0o644))

	_, err := openInput(invalidFile, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid WAV file")
}

func TestOpenInput_InvalidOgg(t *testing.T) {
	invalidFile := filepath.Join(t.TempDir(), "invalid.ogg")
	require.NoError(t, os.WriteFile(invalidFile, []byte("not an ogg stream at all"), 0o644))

	_, err := openInput(invalidFile, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid Ogg Vorbis file")
}

func TestOpenInput_UnsupportedExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "input.flac")
	require.NoError(t, os.WriteFile(path, []byte("fLaC"), 0o644))

	_, err := openInput(path, false)
	require.ErrorIs(t, err, errUnsupportedInput)
}

func TestOpenInput_WAV(t *testing.T) {
	path := writeTestWAV(t, 8000, 2, make([]int, 200))

	src, err := openInput(path, false)
	require.NoError(t, err)
	defer func() { _ = src.Close() }()

	assert.Equal(t, 8000, src.SampleRate())
	assert.Equal(t, 2, src.Channels())
	assert.Equal(t, bitsPerSample16, src.BitDepth())

	buf := make([]int, 1024)
	n, err := src.ReadInts(buf)
	require.NoError(t, err)
	assert.Equal(t, 200, n)
}

func TestOpenInput_EightBitWAVIsCentred(t *testing.T) {
	path := writeTestWAV8(t, 8000, []byte{128, 255, 0, 192, 64})

	src, err := openInput(path, false)
	require.NoError(t, err)
	defer func() { _ = src.Close() }()
	require.Equal(t, bitsPerSample8, src.BitDepth())

	ints := make([]int, 16)
	n, err := src.ReadInts(ints)
	require.NoError(t, err)
	require.Equal(t, 5, n)
	assert.Equal(t, []int{0, 127, -128, 64, -64}, ints[:n])

	bufs := newDelayBuffers[float64](1, 1, src.BitDepth(), bitsPerSample16)
	deinterleaveInto(bufs.channelBufs, ints[:n], n, bufs.invInputMax)
	want := []float64{0, 127.0 / 128, -1, 0.5, -0.5}
	for i, w := range want {
		assert.InDelta(t, w, bufs.channelBufs[0][i], 1e-12, "sample %d", i)
	}
}

func TestProcessFile_EightBitInput(t *testing.T) {
	inPath := writeTestWAV8(t, 8000, []byte{128, 255, 0, 192, 64})
	outPath := filepath.Join(t.TempDir(), "out.wav")

	_, err := processFile[float64](inPath, outPath, options{})
	require.NoError(t, err)

	written, err := openInput(outPath, false)
	require.NoError(t, err)
	assert.Equal(t, bitsPerSample16, written.BitDepth())
	require.NoError(t, written.Close())

	out := readTestWAV(t, outPath)
	want := []float64{0, 32511, -32767, 16384, -16384}
	require.Len(t, out.Data, len(want))
	for i, w := range want {
		assert.InDelta(t, w, float64(out.Data[i]), 1, "sample %d", i)
	}
}

// =============================================================================
// Setup
// =============================================================================

func TestCreateChannelLines(t *testing.T) {
	opts := options{delayMs: 10, feedback: 50, mix: 100, bypass: true}
	lines, err := createChannelLines[float64](8, 48000, opts)
	require.NoError(t, err)
	require.Len(t, lines, 8)
	for i, l := range lines {
		assert.InDelta(t, 480.0, l.DelaySamples(), 1e-9, "line %d", i)
		assert.True(t, l.Bypassed(), "line %d", i)
	}
}

func TestCreateChannelLines_InvalidRate(t *testing.T) {
	_, err := createChannelLines[float32](2, 0, options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "channel 0")
}

func TestOutputBitDepth(t *testing.T) {
	tests := []struct {
		name      string
		requested int
		input     int
		want      int
		wantErr   bool
	}{
		{"keep_input", 0, 24, 24, false},
		{"override", 16, 24, 16, false},
		{"bad_request", 12, 16, 0, true},
		{"eight_bit_input_widens", 0, 8, 16, false},
		{"unsupported_input", 0, 12, 0, true},
		{"request_overrides_eight_bit", 32, 8, 32, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := outputBitDepth(tt.requested, tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCreateWAVOutput_InvalidDirectory(t *testing.T) {
	_, err := createWAVOutput("/nonexistent/dir/output.wav", 48000, 16, 2)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create output file")
}

// =============================================================================
// Conversion
// =============================================================================

func TestInterleaveRoundTrip(t *testing.T) {
	samples := []int{0, 100, -100, 32767, -32767, 16384, 1, -1}
	bufs := newDelayBuffers[float64](2, 2, bitsPerSample16, bitsPerSample16)

	deinterleaveInto(bufs.channelBufs, samples, 4, bufs.invInputMax)
	assert.InDelta(t, 1.0, bufs.channelBufs[1][1], 1e-12)

	out := make([]int, len(samples))
	interleaveInto(out, bufs.outputBufs, bufs.scratch, 4, bufs.outputMax)
	assert.Equal(t, samples, out)
}

func TestInterleave_Upmix(t *testing.T) {
	bufs := newDelayBuffers[float32](1, 2, bitsPerSample16, bitsPerSample16)
	deinterleaveInto(bufs.channelBufs, []int{10, 20, 30}, 3, bufs.invInputMax)

	out := make([]int, 6)
	interleaveInto(out, bufs.outputBufs, bufs.scratch, 3, bufs.outputMax)
	assert.Equal(t, []int{10, 10, 20, 20, 30, 30}, out)
}

func TestToPCM_Clips(t *testing.T) {
	assert.Equal(t, 32767, toPCM(40000, maxInt16))
	assert.Equal(t, -32767, toPCM(-40000, maxInt16))
	assert.Equal(t, 3, toPCM(2.6, maxInt16))
	assert.Equal(t, 0, toPCM(math.NaN(), maxInt16))
}

// =============================================================================
// End to end
// =============================================================================

func TestProcessFile_ImpulseWithTail(t *testing.T) {
	const (
		rate   = 8000
		frames = 100
		delay  = 80 // 10 ms at 8 kHz
	)
	input := make([]int, frames)
	input[0] = 16384
	inPath := writeTestWAV(t, rate, 1, input)
	outPath := filepath.Join(t.TempDir(), "out.wav")

	opts := options{delayMs: 10, mix: 100, tail: true, floorDB: -60, parallel: true}
	stats, err := processFile[float64](inPath, outPath, opts)
	require.NoError(t, err)
	assert.Equal(t, int64(frames), stats.framesRead)
	assert.Equal(t, delay, stats.tailFrames)
	assert.Equal(t, int64(frames+delay), stats.framesWritten)

	out := readTestWAV(t, outPath)
	require.Len(t, out.Data, frames+delay)
	for i, v := range out.Data {
		if i == delay {
			assert.Equal(t, 16384, v)
			continue
		}
		assert.Zero(t, v, "frame %d", i)
	}
}

func TestProcessFile_StereoUpmixNoTail(t *testing.T) {
	input := []int{1000, 2000, 3000, 4000}
	inPath := writeTestWAV(t, 8000, 1, input)
	outPath := filepath.Join(t.TempDir(), "out.wav")

	opts := options{upmix: true, bitDepth: bitsPerSample24}
	stats, err := processFile[float32](inPath, outPath, opts)
	require.NoError(t, err)
	assert.Zero(t, stats.tailFrames)

	out := readTestWAV(t, outPath)
	assert.Equal(t, 2, out.Format.NumChannels)
	require.Len(t, out.Data, 2*len(input))
	for i := range input {
		assert.Equal(t, out.Data[2*i], out.Data[2*i+1], "frame %d", i)
		assert.InDelta(t, float64(input[i])*256, float64(out.Data[2*i]), 256, "frame %d", i)
	}
}

func TestProcessFile_Bypass(t *testing.T) {
	input := []int{5, -5, 500, -500, 32767, -32767}
	inPath := writeTestWAV(t, 8000, 2, input)
	outPath := filepath.Join(t.TempDir(), "out.wav")

	opts := options{delayMs: 1, feedback: 50, mix: 100, bypass: true, tail: true, floorDB: -60}
	stats, err := processFile[float64](inPath, outPath, opts)
	require.NoError(t, err)
	assert.Zero(t, stats.tailFrames)
	assert.Equal(t, input, readTestWAV(t, outPath).Data)
}
