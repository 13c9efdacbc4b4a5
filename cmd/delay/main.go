// Command delay prints the configuration of a delay processor, runs an
// impulse through it and, with -demo, shows live parameter changes.
package main

import (
	"bytes"
	"flag"
	"fmt"
	"log"
	"math"
	"sync"
	"time"

	delay "github.com/tphakala/go-audio-delay"
)

func main() {
	var (
		sampleRate = flag.Int("rate", defaultSampleRate, "Sample rate in Hz")
		channels   = flag.Int("channels", defaultChannels, "Number of audio channels")
		delayMs    = flag.Float64("delay", defaultDelayMs, "Delay time in milliseconds (0-2000)")
		feedback   = flag.Float64("feedback", defaultFeedback, "Feedback in percent")
		mix        = flag.Float64("mix", defaultMix, "Wet/dry mix in percent")
		bypass     = flag.Bool("bypass", false, "Bypass the effect")
		demo       = flag.Bool("demo", false, "Run a demonstration")
	)
	flag.Parse()

	if *demo {
		runDemo(*sampleRate)
		return
	}

	config := delay.Config{
		SampleRate: *sampleRate,
		Channels:   *channels,
		Delay:      *delayMs,
		Feedback:   *feedback,
		Mix:        *mix,
		Bypass:     *bypass,
	}

	p, err := delay.New(&config)
	if err != nil {
		log.Fatalf("Failed to create processor: %v", err)
	}

	info := p.Info()
	state := p.State()
	fmt.Printf("Processor created:\n")
	fmt.Printf("  Channels: %d @ %d Hz\n", info.Channels, info.SampleRate)
	fmt.Printf("  Delay: %.2f ms (%.2f samples)\n", state.Delay, state.Delay*float64(info.SampleRate)/msPerSecond)
	fmt.Printf("  Feedback: %.0f%%  Mix: %.0f%%  Bypass: %v\n", state.Feedback, state.Mix, state.Bypass)
	fmt.Printf("  Buffer: %d samples per channel\n", info.MaxDelaySamples)
	fmt.Printf("  Memory usage: %.2f KB\n", float64(info.MemoryUsage)/bytesPerKilobyte)
	fmt.Printf("  SIMD: %v (%s)\n", info.SIMDEnabled, info.SIMDType)

	tail := p.TailSamples(tailFloorDB)
	fmt.Printf("  Tail to %.0f dB: %d samples (%.3f s)\n", tailFloorDB, tail, float64(tail)/float64(info.SampleRate))

	fmt.Println("\nProcessing impulse...")
	echoes, err := impulseEchoes(p, tail+1)
	if err != nil {
		log.Fatalf("Processing failed: %v", err)
	}
	if len(echoes) == 0 {
		fmt.Println("  No echoes above threshold")
	}
	for _, e := range echoes {
		fmt.Printf("  %8d samples  %9.3f ms  %+.6f\n",
			e.index, float64(e.index)*msPerSecond/float64(info.SampleRate), e.value)
	}
}

type echo struct {
	index int
	value float32
}

// impulseEchoes feeds a unit impulse on channel 0 and collects the first
// samples whose magnitude exceeds impulseThreshold.
func impulseEchoes(p *delay.Processor, length int) ([]echo, error) {
	buffers := make([][]float32, p.Channels())
	for ch := range buffers {
		buffers[ch] = make([]float32, impulseBlockSize)
	}

	var echoes []echo
	for offset := 0; offset < length && len(echoes) < impulseMaxEchoes; offset += impulseBlockSize {
		for _, buf := range buffers {
			clear(buf)
		}
		if offset == 0 {
			buffers[0][0] = 1
		}
		if err := p.ProcessBlock(buffers, p.Channels()); err != nil {
			return nil, err
		}
		for i, v := range buffers[0] {
			if math.Abs(float64(v)) >= impulseThreshold && len(echoes) < impulseMaxEchoes {
				echoes = append(echoes, echo{index: offset + i, value: v})
			}
		}
	}
	return echoes, nil
}

func runDemo(sampleRate int) {
	fmt.Println("=== Go Audio Delay Demo ===")

	fmt.Println("\n1. Tail length by feedback")
	fmt.Println("--------------------------")
	for _, fb := range []float64{0, 25, 50, 75, 90, 100} {
		config := delay.DefaultConfig(sampleRate)
		config.Delay = defaultDelayMs
		config.Feedback = fb
		p, err := delay.New(&config)
		if err != nil {
			fmt.Printf("  %3.0f%%: Error - %v\n", fb, err)
			continue
		}
		tail := p.TailSamples(tailFloorDB)
		fmt.Printf("  %3.0f%%: %8d samples (%.2f s)\n", fb, tail, float64(tail)/float64(sampleRate))
	}

	fmt.Println("\n2. Live parameter changes")
	fmt.Println("-------------------------")
	runLiveDemo(sampleRate)

	fmt.Println("\n3. Mono input to stereo output")
	fmt.Println("------------------------------")
	runUpmixDemo(sampleRate)

	fmt.Println("\n4. Saved state")
	fmt.Println("--------------")
	config := delay.DefaultConfig(sampleRate)
	config.Delay, config.Feedback, config.Mix = 375, 40, 30
	p, err := delay.New(&config)
	if err != nil {
		log.Fatalf("Failed to create processor: %v", err)
	}
	var doc bytes.Buffer
	if err := p.SaveState(&doc); err != nil {
		log.Fatalf("Failed to save state: %v", err)
	}
	fmt.Printf("  %s\n", doc.String())

	restored, err := delay.NewStereo(sampleRate, delay.DefaultState())
	if err != nil {
		log.Fatalf("Failed to create processor: %v", err)
	}
	if err := restored.LoadState(&doc); err != nil {
		log.Fatalf("Failed to load state: %v", err)
	}
	fmt.Printf("  Restored: %+v\n", restored.State())
}

// runLiveDemo sweeps the delay from a control goroutine while the audio
// goroutine keeps rendering blocks.
func runLiveDemo(sampleRate int) {
	config := delay.DefaultConfig(sampleRate)
	config.Channels = stereoChannels
	p, err := delay.New(&config)
	if err != nil {
		log.Fatalf("Failed to create processor: %v", err)
	}

	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for step := 0; ; step++ {
			select {
			case <-done:
				return
			default:
			}
			ms := demoSweepMaxMs * float64(step%demoSweepSteps) / demoSweepSteps
			_ = p.SetParameter(delay.ParamDelay, ms)
			_ = p.SetParameter(delay.ParamFeedback, float64(step%percentScale))
			time.Sleep(demoControlInterval)
		}
	}()

	buffers := [][]float32{make([]float32, demoBlockSize), make([]float32, demoBlockSize)}
	omega := 2 * math.Pi * demoToneFrequency / float64(sampleRate)
	var peak float64
	for block := range demoBlocks {
		for i := range demoBlockSize {
			s := float32(0.5 * math.Sin(omega*float64(block*demoBlockSize+i)))
			buffers[0][i], buffers[1][i] = s, s
		}
		if err := p.ProcessBlock(buffers, stereoChannels); err != nil {
			log.Fatalf("Processing failed: %v", err)
		}
		for _, v := range buffers[0] {
			peak = math.Max(peak, math.Abs(float64(v)))
		}
	}
	close(done)
	wg.Wait()

	stats := p.Statistics()
	fmt.Printf("  Blocks: %d, samples: %d, parameter versions: %d\n",
		stats["blocksProcessed"], stats["samplesProcessed"], stats["parameterVersion"])
	fmt.Printf("  Output peak: %.3f\n", peak)
}

func runUpmixDemo(sampleRate int) {
	p, err := delay.NewStereo(sampleRate, delay.State{Delay: 10, Mix: 100})
	if err != nil {
		log.Fatalf("Failed to create processor: %v", err)
	}

	delaySamples := 10 * sampleRate / int(msPerSecond)
	buffers := [][]float32{make([]float32, 2*delaySamples), make([]float32, 2*delaySamples)}
	buffers[0][0] = 1
	if err := p.ProcessBlock(buffers, monoChannels); err != nil {
		log.Fatalf("Processing failed: %v", err)
	}
	fmt.Printf("  Left[%d] = %.3f, Right[%d] = %.3f\n",
		delaySamples, buffers[0][delaySamples], delaySamples, buffers[1][delaySamples])
}
