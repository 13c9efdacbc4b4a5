// Package testutil provides reusable test helpers for the delay line tests.
package testutil

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tphakala/go-audio-delay/internal/simdops"
)

// Default tolerances for various test scenarios.
const (
	DefaultTolerance = 1e-10
	Float32Tolerance = 1e-6
	DBTolerance      = 0.01
)

// Impulse returns n samples with a unit impulse at index 0.
func Impulse[F simdops.Float](n int) []F {
	s := make([]F, n)
	if n > 0 {
		s[0] = 1
	}
	return s
}

// Sine returns n samples of a sine at freq Hz and the given amplitude.
func Sine[F simdops.Float](n int, freq, sampleRate, amplitude float64) []F {
	s := make([]F, n)
	omega := 2 * math.Pi * freq / sampleRate
	for i := range s {
		s[i] = F(amplitude * math.Sin(omega*float64(i)))
	}
	return s
}

// Ramp returns n samples rising linearly from -1 towards 1.
func Ramp[F simdops.Float](n int) []F {
	s := make([]F, n)
	for i := range s {
		s[i] = F(2*float64(i)/float64(n) - 1)
	}
	return s
}

// AssertNoNaNOrInf verifies that no elements in the slice are NaN or Inf.
func AssertNoNaNOrInf[F simdops.Float](t *testing.T, s []F) bool {
	t.Helper()
	for i, v := range s {
		f := float64(v)
		if math.IsNaN(f) {
			return assert.Fail(t, "found NaN", "s[%d] is NaN", i)
		}
		if math.IsInf(f, 0) {
			return assert.Fail(t, "found Inf", "s[%d] is Inf", i)
		}
	}
	return true
}

// AssertAllInRange verifies that all elements are within [min, max].
func AssertAllInRange[F simdops.Float](t *testing.T, s []F, minVal, maxVal float64) bool {
	t.Helper()
	for i, v := range s {
		if float64(v) < minVal || float64(v) > maxVal {
			return assert.Fail(t, "value out of range",
				"s[%d]=%f is outside range [%f, %f]", i, float64(v), minVal, maxVal)
		}
	}
	return true
}

// AssertSilent verifies that every sample is within tolerance of zero.
func AssertSilent[F simdops.Float](t *testing.T, s []F, tolerance float64) bool {
	t.Helper()
	for i, v := range s {
		if math.Abs(float64(v)) > tolerance {
			return assert.Fail(t, "signal not silent",
				"s[%d]=%g exceeds %g", i, float64(v), tolerance)
		}
	}
	return true
}

// AssertImpulses verifies that s holds the given amplitudes at the given
// indices and is silent everywhere else.
func AssertImpulses[F simdops.Float](t *testing.T, s []F, want map[int]float64, tolerance float64) bool {
	t.Helper()
	ok := true
	for i, v := range s {
		expected := want[i]
		if !assert.InDelta(t, expected, float64(v), tolerance, "sample %d", i) {
			ok = false
		}
	}
	return ok
}

// AssertEqualSlices verifies two slices are identical sample for sample.
func AssertEqualSlices[F simdops.Float](t *testing.T, expected, actual []F) bool {
	t.Helper()
	if !assert.Len(t, actual, len(expected)) {
		return false
	}
	for i := range expected {
		if expected[i] != actual[i] {
			return assert.Fail(t, "slices differ",
				"index %d: expected %v, got %v", i, expected[i], actual[i])
		}
	}
	return true
}

// AssertRelativeError verifies that the relative error between actual and expected is within tolerance.
func AssertRelativeError(t *testing.T, expected, actual, tolerance float64, msgAndArgs ...any) bool {
	t.Helper()
	if expected == 0 {
		return assert.InDelta(t, expected, actual, tolerance, msgAndArgs...)
	}
	relError := math.Abs(actual-expected) / math.Abs(expected)
	return assert.LessOrEqual(t, relError, tolerance,
		"relative error %e exceeds tolerance %e (expected=%f, actual=%f)",
		relError, tolerance, expected, actual)
}

// AssertInRange verifies that a value is within [min, max].
func AssertInRange(t *testing.T, value, minVal, maxVal float64) bool {
	t.Helper()
	if value < minVal || value > maxVal {
		return assert.Fail(t, "value out of range",
			"value %f is outside range [%f, %f]", value, minVal, maxVal)
	}
	return true
}
