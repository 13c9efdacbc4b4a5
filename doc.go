// Package delay provides a real-time feedback delay effect in pure Go.
//
// Each channel runs through a delay line: a fixed circular buffer holding
// two seconds of audio, read at a configurable distance behind the write
// position. Fractional delays are linearly interpolated, the delayed signal
// is fed back into the line, and the output is a blend of the dry input and
// the delayed signal.
//
// # Features
//
//   - Delays from 0 to 2000 ms with sub-sample resolution
//   - Feedback and wet/dry mix in percent, clamped to their ranges
//   - Bypass that leaves the signal and the line's state untouched
//   - Lock-free parameter updates from control goroutines
//   - float32 and float64 processing
//   - Allocation-free per-sample and per-block processing
//   - XML state save and restore
//
// # Quick Start
//
// For one-shot processing of a whole signal:
//
//	output, err := delay.ApplyMono(input, 48000, delay.State{Delay: 250, Feedback: 40, Mix: 50})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// The output includes the echo tail, so it is longer than the input.
//
// For streaming with parameters changed while audio runs:
//
//	config := delay.DefaultConfig(48000)
//	config.Delay = 375
//	p, err := delay.New(&config)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Audio goroutine
//	for block := range blocks {
//	    if err := p.ProcessBlock(block, 2); err != nil {
//	        log.Fatal(err)
//	    }
//	}
//
//	// Any other goroutine
//	_ = p.SetParameter(delay.ParamFeedback, 60)
//
// # Parameters
//
//   - [ParamDelay]: 0 to 2000 ms, default 0
//   - [ParamFeedback]: 0 to 100 %, default 0
//   - [ParamMix]: 0 to 100 %, default 50
//   - [ParamBypass]: 0 or 1, default 0
//
// Out-of-range values are clamped and NaN reads as the minimum. Changing the
// delay moves the read position only; audio already in the line is kept.
//
// # Thread Safety
//
// [Line] and [LineFloat32] are not safe for concurrent use. A [Processor]
// accepts parameter changes from any goroutine; block processing, Prepare
// and Reset must be serialized by the caller.
package delay
