package delay

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/go-audio-delay/internal/testutil"
)

func TestLine(t *testing.T) {
	l, err := NewLine(1000, 2.5, 0, 100)
	require.NoError(t, err)

	out := make([]float64, 6)
	n := l.Process(out, testutil.Impulse[float64](6))
	assert.Equal(t, 6, n)
	testutil.AssertImpulses(t, out, map[int]float64{2: 0.5, 3: 0.5}, testutil.DefaultTolerance)

	l.SetState(State{Delay: 4000, Feedback: 200, Mix: -1, Bypass: true})
	assert.Equal(t, State{Delay: MaxDelayMs, Feedback: 100, Mix: 0, Bypass: true}, l.State())
	assert.True(t, l.Bypassed())
	assert.InDelta(t, 0.25, l.ProcessSample(0.25), 0)

	require.NoError(t, l.SetSampleRate(RateCD))
	assert.Equal(t, RateCD, l.SampleRate())
	assert.Equal(t, 88200, l.MaxDelaySamples())
	require.ErrorIs(t, l.SetSampleRate(0), ErrInvalidConfig)

	assert.Equal(t, int64(6), l.GetStatistics()["samplesProcessed"])
}

func TestLine_Setters(t *testing.T) {
	l, err := NewLine(RateDAT, 0, 0, 0)
	require.NoError(t, err)

	l.SetDelay(125)
	l.SetFeedback(33)
	l.SetMix(66)
	l.SetBypass(false)

	assert.InDelta(t, 125.0, l.Delay(), 0)
	assert.InDelta(t, 33.0, l.Feedback(), 0)
	assert.InDelta(t, 66.0, l.Mix(), 0)
	assert.Equal(t, 8*6000, l.TailSamples(DefaultTailFloorDB)) // 0.33^7 < -60 dB

	block := testutil.Ramp[float64](32)
	l.ProcessBlock(block)
	l.Reset()
	out := make([]float64, 7000)
	l.ProcessBlock(out)
	testutil.AssertSilent(t, out, 0)
}

func TestNewLine_InvalidRate(t *testing.T) {
	_, err := NewLine(0, 0, 0, 0)
	require.ErrorIs(t, err, ErrInvalidConfig)

	_, err = NewLineFloat32(-1, 0, 0, 0)
	require.ErrorIs(t, err, ErrInvalidConfig)
}

func TestLineFloat32(t *testing.T) {
	l, err := NewLineFloat32(1000, 3, 50, 100)
	require.NoError(t, err)

	block := testutil.Impulse[float32](10)
	l.ProcessBlock(block)
	testutil.AssertImpulses(t, block, map[int]float64{3: 1, 6: 0.5, 9: 0.25}, testutil.Float32Tolerance)

	l.SetDelay(1)
	l.SetFeedback(0)
	l.SetMix(50)
	l.SetBypass(false)
	assert.Equal(t, State{Delay: 1, Feedback: 0, Mix: 50}, l.State())

	l.Reset()
	dst := make([]float32, 3)
	assert.Equal(t, 3, l.Process(dst, []float32{1, 0, 0}))
	assert.Equal(t, []float32{0.5, 0.5, 0}, dst)
	assert.InDelta(t, 0.0, float64(l.ProcessSample(0)), 0)
	assert.Equal(t, 1, l.TailSamples(DefaultTailFloorDB))
}
