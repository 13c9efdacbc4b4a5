package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	gomp3 "github.com/hajimehoshi/go-mp3"
	"github.com/jfreymuth/oggvorbis"
)

var errUnsupportedInput = errors.New("unsupported input format")

// audioSource yields interleaved integer PCM at a fixed bit depth.
type audioSource interface {
	SampleRate() int
	Channels() int
	BitDepth() int

	// TotalFrames is the expected length, or 0 when unknown.
	TotalFrames() int64

	// ReadInts fills dst with interleaved samples and returns the number of
	// samples (not frames) written. It returns io.EOF after the last sample.
	ReadInts(dst []int) (int, error)

	Close() error
}

// openInput opens path with a decoder chosen by its extension.
func openInput(path string, verbose bool) (audioSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input file: %w", err)
	}

	var src audioSource
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".wav", ".wave":
		src, err = newWAVSource(f)
	case ".mp3":
		src, err = newMP3Source(f)
	case ".ogg", ".oga":
		src, err = newOggSource(f)
	default:
		err = fmt.Errorf("%w: %q", errUnsupportedInput, ext)
	}
	if err != nil {
		_ = f.Close()
		return nil, err
	}

	if verbose {
		log.Printf("Input format: %d Hz, %d channels, %d-bit", src.SampleRate(), src.Channels(), src.BitDepth())
	}
	return src, nil
}

// =============================================================================
// WAV
// =============================================================================

type wavSource struct {
	file        *os.File
	decoder     *wav.Decoder
	format      *audio.Format
	bitDepth    int
	totalFrames int64
	buf         *audio.IntBuffer
}

func newWAVSource(f *os.File) (*wavSource, error) {
	decoder := wav.NewDecoder(f)
	if !decoder.IsValidFile() {
		return nil, fmt.Errorf("invalid WAV file: %s", f.Name())
	}

	format := decoder.Format()
	var totalFrames int64
	if duration, err := decoder.Duration(); err == nil {
		totalFrames = int64(duration.Seconds() * float64(format.SampleRate))
	}

	return &wavSource{
		file:        f,
		decoder:     decoder,
		format:      format,
		bitDepth:    int(decoder.BitDepth),
		totalFrames: totalFrames,
		buf:         &audio.IntBuffer{Format: format},
	}, nil
}

func (s *wavSource) SampleRate() int    { return s.format.SampleRate }
func (s *wavSource) Channels() int      { return s.format.NumChannels }
func (s *wavSource) BitDepth() int      { return s.bitDepth }
func (s *wavSource) TotalFrames() int64 { return s.totalFrames }
func (s *wavSource) Close() error       { return s.file.Close() }

func (s *wavSource) ReadInts(dst []int) (int, error) {
	s.buf.Data = dst
	n, err := s.decoder.PCMBuffer(s.buf)
	if err != nil && !errors.Is(err, io.EOF) {
		return 0, fmt.Errorf("failed to read audio data: %w", err)
	}
	if n == 0 {
		return 0, io.EOF
	}
	// 8-bit PCM is unsigned
	if s.bitDepth == bitsPerSample8 {
		for i := range dst[:n] {
			dst[i] -= pcm8Offset
		}
	}
	return n, nil
}

// =============================================================================
// MP3
// =============================================================================

// go-mp3 always decodes to 16-bit little-endian stereo.
const (
	mp3Channels       = 2
	mp3BitDepth       = 16
	mp3BytesPerSample = 2
	mp3BytesPerFrame  = mp3Channels * mp3BytesPerSample
)

type mp3Source struct {
	file    *os.File
	decoder *gomp3.Decoder
	buf     []byte
}

func newMP3Source(f *os.File) (*mp3Source, error) {
	decoder, err := gomp3.NewDecoder(f)
	if err != nil {
		return nil, fmt.Errorf("invalid MP3 file: %w", err)
	}
	return &mp3Source{file: f, decoder: decoder}, nil
}

func (s *mp3Source) SampleRate() int    { return s.decoder.SampleRate() }
func (s *mp3Source) Channels() int      { return mp3Channels }
func (s *mp3Source) BitDepth() int      { return mp3BitDepth }
func (s *mp3Source) TotalFrames() int64 { return s.decoder.Length() / mp3BytesPerFrame }
func (s *mp3Source) Close() error       { return s.file.Close() }

func (s *mp3Source) ReadInts(dst []int) (int, error) {
	needed := len(dst) * mp3BytesPerSample
	if cap(s.buf) < needed {
		s.buf = make([]byte, needed)
	}
	s.buf = s.buf[:needed]

	n, err := io.ReadFull(s.decoder, s.buf)
	samples := n / mp3BytesPerSample
	for i := range samples {
		dst[i] = int(int16(uint16(s.buf[2*i]) | uint16(s.buf[2*i+1])<<8))
	}

	switch {
	case samples > 0:
		return samples, nil
	case err == nil || errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF):
		return 0, io.EOF
	default:
		return 0, fmt.Errorf("failed to decode MP3: %w", err)
	}
}

// =============================================================================
// Ogg Vorbis
// =============================================================================

// Vorbis decodes to float; it is quantized to 24 bits for the PCM pipeline.
const oggBitDepth = 24

type oggSource struct {
	file   *os.File
	reader *oggvorbis.Reader
	buf    []float32
}

func newOggSource(f *os.File) (*oggSource, error) {
	reader, err := oggvorbis.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("invalid Ogg Vorbis file: %w", err)
	}
	return &oggSource{file: f, reader: reader}, nil
}

func (s *oggSource) SampleRate() int    { return s.reader.SampleRate() }
func (s *oggSource) Channels() int      { return s.reader.Channels() }
func (s *oggSource) BitDepth() int      { return oggBitDepth }
func (s *oggSource) TotalFrames() int64 { return s.reader.Length() }
func (s *oggSource) Close() error       { return s.file.Close() }

func (s *oggSource) ReadInts(dst []int) (int, error) {
	// Whole frames only
	want := len(dst) - len(dst)%s.Channels()
	if cap(s.buf) < want {
		s.buf = make([]float32, want)
	}
	s.buf = s.buf[:want]

	n, err := s.reader.Read(s.buf)
	scale := getMaxValue(oggBitDepth)
	for i := range n {
		v := math.Max(-1, math.Min(1, float64(s.buf[i])))
		dst[i] = int(math.Round(v * scale))
	}

	switch {
	case n > 0:
		return n, nil
	case err == nil || errors.Is(err, io.EOF):
		return 0, io.EOF
	default:
		return 0, fmt.Errorf("failed to decode Ogg Vorbis: %w", err)
	}
}
