package easing

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/valerio/go-tempo/tempo/errs"
)

func TestCurves_Boundaries(t *testing.T) {
	for _, id := range IDs() {
		t.Run(id.String(), func(t *testing.T) {
			f := id.Func()
			require.NotNil(t, f)
			assert.Equal(t, 0.0, f(0), "f(0) must be exactly 0")
			assert.Equal(t, 1.0, f(1), "f(1) must be exactly 1")
		})
	}
}

func TestCurves_Deterministic(t *testing.T) {
	for _, id := range IDs() {
		f := id.Func()
		for _, x := range []float64{0.1, 0.25, 0.5, 0.75, 0.9} {
			assert.Equal(t, f(x), f(x), "%s(%v)", id, x)
		}
	}
}

func TestCurves_OutOfRangeInputDoesNotPanic(t *testing.T) {
	inputs := []float64{-10, -1, -0.5, 1.5, 2, 10, math.Inf(1), math.Inf(-1)}
	for _, id := range IDs() {
		f := id.Func()
		for _, x := range inputs {
			assert.NotPanics(t, func() { f(x) }, "%s(%v)", id, x)
		}
	}
}

func TestCurves_CircularStaysRealOutsideDomain(t *testing.T) {
	for _, id := range []ID{InCirc, OutCirc, InOutCirc} {
		for _, x := range []float64{-2, 1.5, 3} {
			assert.False(t, math.IsNaN(id.Func()(x)), "%s(%v)", id, x)
		}
	}
}

func TestCurves_Values(t *testing.T) {
	tests := []struct {
		name string
		id   ID
		t    float64
		want float64
	}{
		{"linear half", Linear, 0.5, 0.5},
		{"in quad half", InQuad, 0.5, 0.25},
		{"out quad half", OutQuad, 0.5, 0.75},
		{"in out quad half", InOutQuad, 0.5, 0.5},
		{"in out quad quarter", InOutQuad, 0.25, 0.125},
		{"in cubic half", InCubic, 0.5, 0.125},
		{"out cubic half", OutCubic, 0.5, 0.875},
		{"in out cubic half", InOutCubic, 0.5, 0.5},
		{"in quart half", InQuart, 0.5, 0.0625},
		{"in quint half", InQuint, 0.5, 0.03125},
		{"in out sine half", InOutSine, 0.5, 0.5},
		{"out sine half", OutSine, 0.5, math.Sqrt2 / 2},
		{"in out expo half", InOutExpo, 0.5, 0.5},
		{"in out circ half", InOutCirc, 0.5, 0.5},
		{"in circ half", InCirc, 0.5, 1 - math.Sqrt(0.75)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, tt.id.Func()(tt.t), 1e-12)
		})
	}
}

func TestCurves_Monotonic(t *testing.T) {
	// Elastic curves overshoot by design and are excluded.
	for _, id := range IDs() {
		if id == InElastic || id == OutElastic || id == InOutElastic {
			continue
		}
		f := id.Func()
		prev := f(0)
		for i := 1; i <= 100; i++ {
			cur := f(float64(i) / 100)
			assert.GreaterOrEqual(t, cur, prev-1e-12, "%s at step %d", id, i)
			prev = cur
		}
	}
}

func TestCurves_ElasticOvershoots(t *testing.T) {
	f := OutElastic.Func()
	peak := 0.0
	for i := 1; i < 100; i++ {
		peak = math.Max(peak, f(float64(i)/100))
	}
	assert.Greater(t, peak, 1.0)
}

func TestEase_MatchesNormalizedForm(t *testing.T) {
	const (
		start    = -20.0
		change   = 150.0
		duration = 800.0
	)
	for _, id := range IDs() {
		f := id.Func()
		for step := 0; step <= 16; step++ {
			elapsed := duration * float64(step) / 16
			want := start + change*f(elapsed/duration)
			assert.Equal(t, want, Ease(id, elapsed, start, change, duration), "%s at %v", id, elapsed)
		}
		assert.Equal(t, start, Ease(id, 0, start, change, duration))
		assert.Equal(t, start+change, Ease(id, duration, start, change, duration))
	}
}

func TestEase_ZeroDurationYieldsEnd(t *testing.T) {
	assert.Equal(t, 15.0, Ease(InOutQuad, 0, 5, 10, 0))
}

func TestParse(t *testing.T) {
	t.Run("known names round trip", func(t *testing.T) {
		for _, id := range IDs() {
			got, err := Parse(id.String())
			require.NoError(t, err)
			assert.Equal(t, id, got)
		}
	})

	t.Run("unknown name is a configuration error", func(t *testing.T) {
		_, err := Parse("easeInOutWobble")
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrUnknownCurve))

		var cfgErr *errs.ConfigError
		require.True(t, errors.As(err, &cfgErr))
		assert.Equal(t, "easeInOutWobble", cfgErr.Value)
	})

	t.Run("lookup returns the registered function", func(t *testing.T) {
		f, err := Lookup("easeInQuad")
		require.NoError(t, err)
		assert.Equal(t, 0.25, f(0.5))

		_, err = Lookup("")
		assert.ErrorIs(t, err, ErrUnknownCurve)
	})
}

func TestNames(t *testing.T) {
	names := Names()
	assert.Len(t, names, int(curveCount))
	assert.Contains(t, names, "linear")
	assert.Contains(t, names, "easeInOutCirc")
	assert.IsNonDecreasing(t, names)
}

func TestID_Invalid(t *testing.T) {
	bad := ID(999)
	assert.False(t, bad.Valid())
	assert.Nil(t, bad.Func())
	assert.Equal(t, "easing.ID(999)", bad.String())
	assert.True(t, math.IsNaN(Ease(bad, 5, 0, 10, 10)), "unknown ids have no curve")
	assert.True(t, math.IsNaN(Ease(bad, 5, 0, 10, 0)))
}
