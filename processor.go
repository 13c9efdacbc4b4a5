package delay

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/tphakala/simd/cpu"

	"github.com/tphakala/go-audio-delay/internal/engine"
)

// Processor runs one delay line per channel, all driven by the same
// parameters.
//
// Parameters may be changed from any goroutine with SetParameter or
// SetState. ProcessBlock picks up the latest values at the start of each
// block without locking. ProcessBlock, ProcessMulti, Prepare and Reset must
// not run concurrently with each other.
type Processor struct {
	sampleRate int
	parallel   atomic.Bool

	params *engine.ParamStore
	lines  []*engine.Line[float32]

	// Statistics
	blocksProcessed  atomic.Int64
	samplesProcessed atomic.Int64
}

// New creates a new processor with the specified configuration.
func New(config *Config) (*Processor, error) {
	if config == nil {
		return nil, fmt.Errorf("%w: config is nil", ErrInvalidConfig)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	channels := config.Channels
	if channels == 0 {
		channels = defaultChannels
	}

	p := &Processor{
		sampleRate: config.SampleRate,
		params: engine.NewParamStore(engine.Params{
			DelayMs:  config.Delay,
			Feedback: config.Feedback,
			Mix:      config.Mix,
			Bypass:   config.Bypass,
		}),
		lines: make([]*engine.Line[float32], channels),
	}
	p.parallel.Store(config.EnableParallel)

	snap := p.params.Load()
	for ch := range p.lines {
		line, err := engine.NewLine[float32](config.SampleRate, snap.DelayMs, snap.Feedback, snap.Mix)
		if err != nil {
			return nil, fmt.Errorf("%w: channel %d: %w", ErrInvalidConfig, ch, err)
		}
		line.Apply(snap)
		p.lines[ch] = line
	}

	return p, nil
}

// SetParameter sets a parameter. Values outside the parameter's range are
// clamped; for ParamBypass any non-zero value engages bypass.
func (p *Processor) SetParameter(id ParamID, value float64) error {
	spec, err := Spec(id)
	if err != nil {
		return err
	}
	value = spec.Clamp(value)

	p.params.Update(func(params *engine.Params) {
		switch id {
		case ParamDelay:
			params.DelayMs = value
		case ParamFeedback:
			params.Feedback = value
		case ParamMix:
			params.Mix = value
		case ParamBypass:
			params.Bypass = value != 0
		}
	})
	return nil
}

// Parameter returns the current value of a parameter.
func (p *Processor) Parameter(id ParamID) (float64, error) {
	if _, err := Spec(id); err != nil {
		return 0, err
	}

	params := p.params.Load()
	switch id {
	case ParamDelay:
		return params.DelayMs, nil
	case ParamFeedback:
		return params.Feedback, nil
	case ParamMix:
		return params.Mix, nil
	default:
		if params.Bypass {
			return bypassOn, nil
		}
		return 0, nil
	}
}

// State returns the current parameters.
func (p *Processor) State() State {
	params := p.params.Load()
	return State{
		Delay:    params.DelayMs,
		Feedback: params.Feedback,
		Mix:      params.Mix,
		Bypass:   params.Bypass,
	}
}

// SetState replaces all four parameters at once.
func (p *Processor) SetState(s State) {
	p.params.Store(engine.Params{
		DelayMs:  s.Delay,
		Feedback: s.Feedback,
		Mix:      s.Mix,
		Bypass:   s.Bypass,
	})
}

// EnableParallel turns concurrent per-channel processing on or off.
func (p *Processor) EnableParallel(enabled bool) {
	p.parallel.Store(enabled)
}

// ProcessBlock processes a block of planar audio in place.
//
// buffers holds one slice per output channel, all of the same length;
// the first inputChannels of them carry input. Each input channel runs
// through its own line. A mono input with two or more outputs is copied to
// the second output, and any output left without signal is cleared.
func (p *Processor) ProcessBlock(buffers [][]float32, inputChannels int) error {
	outputs := len(buffers)
	if inputChannels < 1 || inputChannels > outputs {
		return fmt.Errorf("%w: %d input channels for %d buffers", ErrChannelMismatch, inputChannels, outputs)
	}
	if inputChannels > len(p.lines) {
		return fmt.Errorf("%w: %d input channels, processor has %d", ErrChannelMismatch, inputChannels, len(p.lines))
	}
	frames := len(buffers[0])
	for ch, buf := range buffers {
		if len(buf) != frames {
			return fmt.Errorf("%w: channel %d has %d samples, want %d", ErrChannelMismatch, ch, len(buf), frames)
		}
	}

	snap := p.params.Load()
	for _, line := range p.lines[:inputChannels] {
		line.Apply(snap)
	}

	if p.parallel.Load() && inputChannels > 1 {
		var wg sync.WaitGroup
		for ch := range inputChannels {
			wg.Add(1)
			go func(channel int) {
				defer wg.Done()
				p.lines[channel].ProcessBlock(buffers[channel])
			}(ch)
		}
		wg.Wait()
	} else {
		for ch := range inputChannels {
			p.lines[ch].ProcessBlock(buffers[ch])
		}
	}

	filled := inputChannels
	if inputChannels == monoChannels && outputs >= stereoChannels {
		copy(buffers[1], buffers[0])
		filled = stereoChannels
	}
	for ch := filled; ch < outputs; ch++ {
		clear(buffers[ch])
	}

	p.blocksProcessed.Add(1)
	p.samplesProcessed.Add(int64(frames))
	return nil
}

// ProcessMulti processes one slice per channel and returns new slices,
// leaving input untouched.
func (p *Processor) ProcessMulti(input [][]float32) ([][]float32, error) {
	if len(input) != len(p.lines) {
		return nil, fmt.Errorf("%w: expected %d channels, got %d", ErrChannelMismatch, len(p.lines), len(input))
	}

	output := make([][]float32, len(input))
	for ch, samples := range input {
		output[ch] = append([]float32(nil), samples...)
	}

	if err := p.ProcessBlock(output, len(output)); err != nil {
		return nil, err
	}
	return output, nil
}

// Prepare re-targets all lines to a new sample rate and clears them.
// It reallocates the delay buffers when the rate changes and must not be
// called while a block is being processed.
func (p *Processor) Prepare(sampleRate int) error {
	if sampleRate <= 0 {
		return fmt.Errorf("%w: sample rate must be positive", ErrInvalidConfig)
	}
	for _, line := range p.lines {
		if err := line.SetSampleRate(sampleRate); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}
	}
	p.sampleRate = sampleRate
	return nil
}

// Reset clears the audio held by all lines. Parameters are kept.
func (p *Processor) Reset() {
	for _, line := range p.lines {
		line.Reset()
	}
}

// Channels returns the number of delay lines.
func (p *Processor) Channels() int {
	return len(p.lines)
}

// SampleRate returns the current sample rate in Hz.
func (p *Processor) SampleRate() int {
	return p.sampleRate
}

// TailSamples reports how long the current settings ring out after the
// input stops, for echoes to fall below floorDB.
func (p *Processor) TailSamples(floorDB float64) int {
	return engine.TailSamples(p.sampleRate, *p.params.Load(), floorDB)
}

// Info returns information about the processor.
func (p *Processor) Info() Info {
	info := Info{
		Channels:   len(p.lines),
		SampleRate: p.sampleRate,
		Parallel:   p.parallel.Load(),
	}

	for _, line := range p.lines {
		info.MemoryUsage += line.GetMemoryUsage()
	}
	if len(p.lines) > 0 {
		info.MaxDelaySamples = p.lines[0].MaxDelaySamples()
	}

	if simd := cpu.Info(); simd != "" {
		info.SIMDEnabled = true
		info.SIMDType = simd
	}

	return info
}

// Statistics returns processing statistics. It is safe to call while
// processing.
func (p *Processor) Statistics() map[string]int64 {
	return map[string]int64{
		"blocksProcessed":  p.blocksProcessed.Load(),
		"samplesProcessed": p.samplesProcessed.Load(),
		"parameterVersion": int64(p.params.Load().Version()),
	}
}
