package delay

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/go-audio-delay/internal/testutil"
)

func TestApplyMono_AppendsTail(t *testing.T) {
	input := testutil.Impulse[float64](10)

	output, err := ApplyMono(input, 1000, State{Delay: 20, Feedback: 50, Mix: 100})
	require.NoError(t, err)

	// 0.5^k reaches -60 dB after 10 repeats: (10+1) * 20 samples of tail.
	require.Len(t, output, 10+220)
	testutil.AssertImpulses(t, output, map[int]float64{
		20: 1, 40: 0.5, 60: 0.25, 80: 0.125, 100: 0.0625,
		120: 0.03125, 140: 0.015625, 160: 0.0078125, 180: 0.00390625,
		200: 0.001953125, 220: 0.0009765625,
	}, testutil.DefaultTolerance)
}

func TestApplyMono_NoTailWhenDry(t *testing.T) {
	input := testutil.Ramp[float64](64)

	output, err := ApplyMono(input, RateCD, State{Delay: 100, Feedback: 90, Mix: 0})
	require.NoError(t, err)
	assert.Equal(t, input, output)

	output, err = ApplyMono(input, RateCD, State{Delay: 100, Feedback: 90, Mix: 100, Bypass: true})
	require.NoError(t, err)
	assert.Equal(t, input, output)
}

func TestApplyMono_DoesNotModifyInput(t *testing.T) {
	input := testutil.Impulse[float64](8)
	_, err := ApplyMono(input, 1000, State{Delay: 2, Mix: 50})
	require.NoError(t, err)
	assert.Equal(t, testutil.Impulse[float64](8), input)
}

func TestApplyMono_InvalidRate(t *testing.T) {
	_, err := ApplyMono([]float64{1}, 0, DefaultState())
	require.ErrorIs(t, err, ErrInvalidConfig)

	_, _, err = ApplyStereoFloat32([]float32{1}, []float32{1}, -1, DefaultState())
	require.ErrorIs(t, err, ErrInvalidConfig)
}

func TestApplyStereo(t *testing.T) {
	left := testutil.Impulse[float64](4)
	right := make([]float64, 4)
	right[1] = 1

	leftOut, rightOut, err := ApplyStereo(left, right, 1000, State{Delay: 3, Mix: 100})
	require.NoError(t, err)

	require.Len(t, leftOut, 7)
	require.Len(t, rightOut, 7)
	testutil.AssertImpulses(t, leftOut, map[int]float64{3: 1}, testutil.DefaultTolerance)
	testutil.AssertImpulses(t, rightOut, map[int]float64{4: 1}, testutil.DefaultTolerance)
}

func TestApplyFloat32MatchesFloat64(t *testing.T) {
	s := State{Delay: 7.77, Feedback: 35, Mix: 40}
	in64 := testutil.Sine[float64](4096, 523.25, RateCD, 0.8)
	in32 := testutil.Sine[float32](4096, 523.25, RateCD, 0.8)

	out64, err := ApplyMono(in64, RateCD, s)
	require.NoError(t, err)
	out32, err := ApplyMonoFloat32(in32, RateCD, s)
	require.NoError(t, err)

	require.Len(t, out32, len(out64))
	for i := range out64 {
		require.InDelta(t, out64[i], float64(out32[i]), 1e-5, "sample %d", i)
	}
}

func TestNewMonoStereo(t *testing.T) {
	s := State{Delay: 10, Feedback: 20, Mix: 30, Bypass: true}

	mono, err := NewMono(RateDAT, s)
	require.NoError(t, err)
	assert.Equal(t, 1, mono.Channels())
	assert.Equal(t, s, mono.State())

	stereo, err := NewStereo(RateDAT, s)
	require.NoError(t, err)
	assert.Equal(t, 2, stereo.Channels())
	assert.Equal(t, s, stereo.State())
}

func TestInterleave(t *testing.T) {
	left := []float64{1, 3, 5}
	right := []float64{2, 4, 6, 8}

	interleaved := InterleaveToStereo(left, right)
	assert.Equal(t, []float64{1, 2, 3, 4, 5, 6}, interleaved)

	l, r := DeinterleaveFromStereo(interleaved)
	assert.Equal(t, left, l)
	assert.Equal(t, right[:3], r)

	assert.Empty(t, InterleaveToStereo(nil, right))
}

func TestInterleaveFloat32(t *testing.T) {
	left := testutil.Ramp[float32](257)
	right := testutil.Sine[float32](257, 100, RateCD, 1)

	l, r := DeinterleaveFromStereoFloat32(InterleaveToStereoFloat32(left, right))
	assert.Equal(t, left, l)
	assert.Equal(t, right, r)

	// Odd trailing sample is dropped
	l, r = DeinterleaveFromStereoFloat32([]float32{1, 2, 3})
	assert.Equal(t, []float32{1}, l)
	assert.Equal(t, []float32{2}, r)
}
