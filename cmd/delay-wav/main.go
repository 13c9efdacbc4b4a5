// Command delay-wav applies the delay effect to an audio file and writes the
// result as PCM WAV.
//
// Usage:
//
//	delay-wav -delay 250 -feedback 35 -mix 50 input.wav output.wav
//	delay-wav -delay 120 -stereo voice.mp3 voice_delay.wav     # mono source, stereo output
//	delay-wav -fast -bits 16 music.ogg music_delay.wav          # float32 engine, 16-bit output
//	delay-wav -tail=false input.wav out.wav                     # keep the input length
//
// Input format is chosen by extension: .wav, .mp3 or .ogg. Channels are
// processed in parallel by default.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"runtime/pprof"
	"time"

	"github.com/tphakala/go-audio-delay/internal/simdops"
)

// Float is the sample type the delay lines run in.
type Float = simdops.Float

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	delayMs := flag.Float64("delay", defaultDelayMs, "Delay time in milliseconds (0-2000)")
	feedback := flag.Float64("feedback", defaultFeedback, "Feedback in percent (0-100)")
	mix := flag.Float64("mix", defaultMix, "Wet/dry mix in percent (0 = dry, 100 = wet)")
	bypass := flag.Bool("bypass", false, "Pass audio through unchanged")
	tail := flag.Bool("tail", true, "Append silence so the echoes can ring out")
	floorDB := flag.Float64("floor", defaultFloorDB, "Level in dB below which the tail is cut")
	stereo := flag.Bool("stereo", false, "Write mono input as stereo")
	bits := flag.Int("bits", 0, "Output bit depth: 16, 24 or 32 (default: same as input)")
	fast := flag.Bool("fast", false, "Use float32 precision")
	parallel := flag.Bool("parallel", true, "Enable parallel channel processing")
	verbose := flag.Bool("v", false, "Verbose output")
	cpuprofile := flag.String("cpuprofile", "", "Write CPU profile to file")
	flag.Parse()

	args := flag.Args()
	if len(args) < minRequiredArgs {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] input.{wav,mp3,ogg} output.wav\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s -delay 250 -feedback 35 in.wav out.wav  # Quarter-second echo\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -delay 30 -mix 30 vocal.mp3 double.wav  # Doubling\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -stereo -delay 500 mono.ogg wide.wav     # Mono to stereo\n", os.Args[0])
		return errors.New("insufficient arguments")
	}

	if *cpuprofile != "" {
		f, err := os.Create(*cpuprofile)
		if err != nil {
			return fmt.Errorf("could not create CPU profile: %w", err)
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			_ = f.Close()
			return fmt.Errorf("could not start CPU profile: %w", err)
		}
		defer func() {
			pprof.StopCPUProfile()
			_ = f.Close()
		}()
	}

	opts := options{
		delayMs:  *delayMs,
		feedback: *feedback,
		mix:      *mix,
		bypass:   *bypass,
		tail:     *tail,
		floorDB:  *floorDB,
		upmix:    *stereo,
		bitDepth: *bits,
		parallel: *parallel,
		verbose:  *verbose,
	}

	inputPath, outputPath := args[0], args[1]
	if *verbose {
		log.Printf("Input: %s", inputPath)
		log.Printf("Output: %s", outputPath)
		log.Printf("Delay: %.2f ms, feedback %.0f%%, mix %.0f%%", opts.delayMs, opts.feedback, opts.mix)
		if *fast {
			log.Printf("Precision: float32 (fast mode)")
		} else {
			log.Printf("Precision: float64")
		}
	}

	start := time.Now()
	var (
		stats processStats
		err   error
	)
	if *fast {
		stats, err = processFile[float32](inputPath, outputPath, opts)
	} else {
		stats, err = processFile[float64](inputPath, outputPath, opts)
	}
	if err != nil {
		return err
	}

	if *verbose {
		elapsed := time.Since(start)
		audioSeconds := float64(stats.framesWritten) / float64(stats.sampleRate)
		log.Printf("Wrote %d frames (%d tail) in %v", stats.framesWritten, stats.tailFrames, elapsed.Round(time.Millisecond))
		if elapsed > 0 {
			log.Printf("Speed: %.1fx realtime", audioSeconds/elapsed.Seconds())
		}
	}
	return nil
}

// options carries the effect settings and output choices for one run.
type options struct {
	delayMs  float64
	feedback float64
	mix      float64
	bypass   bool
	tail     bool
	floorDB  float64
	upmix    bool
	bitDepth int
	parallel bool
	verbose  bool
}

type processStats struct {
	sampleRate    int
	framesRead    int64
	framesWritten int64
	tailFrames    int
}

// processFile runs the whole input through one delay line per channel and
// writes the wet signal, plus the ring-out when requested.
func processFile[F Float](inputPath, outputPath string, opts options) (stats processStats, err error) {
	src, err := openInput(inputPath, opts.verbose)
	if err != nil {
		return stats, err
	}
	defer func() { _ = src.Close() }()

	inChannels := src.Channels()
	if inChannels < monoChannels {
		return stats, fmt.Errorf("%w: %d channels", errUnsupportedInput, inChannels)
	}
	outChannels := inChannels
	if opts.upmix && inChannels == monoChannels {
		outChannels = stereoChannels
	}

	outBits, err := outputBitDepth(opts.bitDepth, src.BitDepth())
	if err != nil {
		return stats, err
	}

	stats.sampleRate = src.SampleRate()
	lines, err := createChannelLines[F](inChannels, stats.sampleRate, opts)
	if err != nil {
		return stats, err
	}

	out, err := createWAVOutput(outputPath, stats.sampleRate, outBits, outChannels)
	if err != nil {
		return stats, err
	}
	defer func() {
		if closeErr := out.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to finalize output: %w", closeErr)
		}
	}()

	if opts.verbose {
		log.Printf("Output format: %d Hz, %d channels, %d-bit", stats.sampleRate, outChannels, outBits)
	}

	bufs := newDelayBuffers[F](inChannels, outChannels, src.BitDepth(), outBits)
	progress := newProgressTracker(src.TotalFrames(), opts.verbose)

	for {
		n, readErr := src.ReadInts(bufs.inputInts)
		if errors.Is(readErr, io.EOF) {
			break
		}
		if readErr != nil {
			return stats, readErr
		}

		frames := n / inChannels
		if frames == 0 {
			continue
		}
		deinterleaveInto(bufs.channelBufs, bufs.inputInts[:frames*inChannels], frames, bufs.invInputMax)
		processChannelData(lines, bufs.channelBufs, frames, opts.parallel)
		if err := writeFrames(out, bufs, frames); err != nil {
			return stats, err
		}

		stats.framesRead += int64(frames)
		stats.framesWritten += int64(frames)
		progress.reportIfNeeded(stats.framesRead)
	}

	if opts.tail {
		stats.tailFrames = lines[0].TailSamples(opts.floorDB)
		if opts.verbose && stats.tailFrames > 0 {
			log.Printf("Tail: %d frames (%.2f s)", stats.tailFrames,
				float64(stats.tailFrames)/float64(stats.sampleRate))
		}
		if err := renderTail(out, lines, bufs, stats.tailFrames, opts.parallel); err != nil {
			return stats, err
		}
		stats.framesWritten += int64(stats.tailFrames)
	}

	return stats, nil
}
