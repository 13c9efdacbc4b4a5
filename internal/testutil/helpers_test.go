package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerators(t *testing.T) {
	imp := Impulse[float32](4)
	assert.Equal(t, []float32{1, 0, 0, 0}, imp)
	assert.Empty(t, Impulse[float64](0))

	sine := Sine[float64](48, 1000, 48000, 0.5)
	AssertAllInRange(t, sine, -0.5, 0.5)
	assert.InDelta(t, 0.0, sine[0], DefaultTolerance)

	ramp := Ramp[float64](4)
	assert.Equal(t, []float64{-1, -0.5, 0, 0.5}, ramp)
}

func TestAssertImpulses(t *testing.T) {
	s := []float64{0, 0, 1, 0, 0.5}
	assert.True(t, AssertImpulses(t, s, map[int]float64{2: 1, 4: 0.5}, DefaultTolerance))
	assert.True(t, AssertSilent(t, []float32{0, 1e-9, -1e-9}, Float32Tolerance))
}
