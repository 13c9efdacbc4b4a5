package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tphakala/go-audio-delay/internal/testutil"
)

func TestKaiserWindow(t *testing.T) {
	assert.Empty(t, KaiserWindow(0, 8))
	assert.Equal(t, []float64{1}, KaiserWindow(1, 8))

	w := KaiserWindow(65, 8)
	assert.InDelta(t, 1.0, w[32], testutil.DefaultTolerance, "peak at centre")
	for i := range w {
		assert.InDelta(t, w[i], w[len(w)-1-i], testutil.DefaultTolerance, "symmetric at %d", i)
		testutil.AssertInRange(t, w[i], 0, 1+testutil.DefaultTolerance)
	}
	assert.Less(t, w[0], 0.01, "edges taper")

	for _, v := range KaiserWindow(16, 0) {
		assert.InDelta(t, 1.0, v, testutil.DefaultTolerance, "beta 0 is rectangular")
	}
}

func TestBesselI0(t *testing.T) {
	testCases := []struct {
		x    float64
		want float64
	}{
		{0, 1},
		{1, 1.2660658777520082},
		{-1, 1.2660658777520082},
		{3, 4.880792585865024},
		{5, 27.239871823604442},
		{10, 2815.716628466254},
	}

	for _, tc := range testCases {
		testutil.AssertRelativeError(t, tc.want, besselI0(tc.x), 1e-6, "I0(%v)", tc.x)
	}
}
