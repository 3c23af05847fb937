package descriptor

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/valerio/go-tempo/tempo/bus"
	"github.com/valerio/go-tempo/tempo/easing"
	"github.com/valerio/go-tempo/tempo/errs"
	"github.com/valerio/go-tempo/tempo/timer"
	"github.com/valerio/go-tempo/tempo/tween"
)

const sampleYAML = `
fps: 30
tweens:
  - name: fade
    from: [0]
    to: [100]
    duration: 1s
    easing: easeInOutQuad
  - name: move
    from: [0, 0]
    to: [10, -10]
    duration: 250
    repeat: -1
    paused: true
timers:
  - name: spawn
    duration: 750ms
    mode: repeating
    laps: 4
  - duration: 2s
`

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scene.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleYAML), 0o600))

	d, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 30.0, d.FPS)
	require.Len(t, d.Tweens, 2)
	assert.Equal(t, "fade", d.Tweens[0].Name)
	assert.Equal(t, Duration(time.Second), d.Tweens[0].Duration)
	assert.Equal(t, "easeInOutQuad", d.Tweens[0].Easing)
	assert.Equal(t, []float64{10, -10}, d.Tweens[1].To)
	assert.Equal(t, 250.0, d.Tweens[1].Duration.Milliseconds())
	assert.Equal(t, tween.Infinite, d.Tweens[1].Repeat)
	assert.True(t, d.Tweens[1].Paused)

	require.Len(t, d.Timers, 2)
	assert.Equal(t, "repeating", d.Timers[0].Mode)
	assert.Equal(t, 750.0, d.Timers[0].Duration.Milliseconds())
	assert.Equal(t, 4, d.Timers[0].Laps)
	assert.NoError(t, d.Validate())
}

func TestLoad_ExpandsEnv(t *testing.T) {
	t.Setenv("TEMPO_FADE_MS", "400ms")
	t.Setenv("TEMPO_CURVE", "easeOutCubic")

	dir := t.TempDir()
	path := filepath.Join(dir, "scene.yaml")
	content := `
tweens:
  - name: fade
    from: [0]
    to: [1]
    duration: ${TEMPO_FADE_MS}
    easing: ${TEMPO_CURVE}
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	d, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 400.0, d.Tweens[0].Duration.Milliseconds())
	assert.Equal(t, "easeOutCubic", d.Tweens[0].Easing)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"unknown field", "tweens:\n  - name: a\n    form: [0]\n"},
		{"bad duration", "timers:\n  - duration: soon\n"},
		{"duration not scalar", "timers:\n  - duration: [1]\n"},
		{"malformed yaml", "tweens: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestParse_Empty(t *testing.T) {
	d, err := Parse(nil)
	require.NoError(t, err)
	assert.Empty(t, d.Tweens)
	assert.Empty(t, d.Timers)
	assert.NoError(t, d.Validate())
}

func TestValidate_ReportsEverything(t *testing.T) {
	d := Descriptor{
		FPS: -1,
		Tweens: []TweenSpec{
			{Name: "a", From: []float64{0}, To: []float64{1}, Duration: Duration(time.Second), Easing: "wobbly"},
			{Name: "a", From: []float64{0}, To: []float64{1}, Duration: Duration(time.Second)},
			{Name: "b", From: []float64{0, 1}, To: []float64{1}, Duration: Duration(time.Second)},
		},
		Timers: []TimerSpec{
			{Name: "t", Duration: Duration(time.Second), Mode: "sometimes"},
			{Name: "u", Duration: 0, Mode: "repeating"},
		},
	}

	err := d.Validate()
	require.Error(t, err)

	var merr *multierror.Error
	require.True(t, errors.As(err, &merr))
	assert.Len(t, merr.Errors, 6)

	assert.ErrorIs(t, err, ErrInvalidFPS)
	assert.ErrorIs(t, err, easing.ErrUnknownCurve)
	assert.ErrorIs(t, err, ErrDuplicateName)
	assert.ErrorIs(t, err, errs.ErrLengthMismatch)
	assert.ErrorIs(t, err, errs.ErrInvalidMode)
	assert.ErrorIs(t, err, errs.ErrNonPositiveDuration)

	_, buildErr := d.Build(nil)
	assert.Error(t, buildErr)
}

func TestValidate_RejectsShortRepeatPeriods(t *testing.T) {
	d, err := Parse([]byte(`
tweens:
  - name: spin
    from: [0]
    to: [1]
    duration: 1ns
    repeat: -1
  - name: blink
    from: [0]
    to: [1]
    duration: 1ns
    repeat: 3
timers:
  - name: flood
    duration: 0.5
    mode: repeating
  - name: once
    duration: 1ns
  - name: tick
    duration: 1ms
    mode: repeating
`))
	require.NoError(t, err)

	err = d.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPeriodTooShort)

	var merr *multierror.Error
	require.True(t, errors.As(err, &merr))
	require.Len(t, merr.Errors, 2, "finite repeats, one-shots and the floor itself are accepted")
	assert.Contains(t, merr.Errors[0].Error(), `tween "spin"`)
	assert.Contains(t, merr.Errors[1].Error(), `timer "flood"`)
}

func TestBuild_Yoyo(t *testing.T) {
	d, err := Parse([]byte(`
tweens:
  - name: swing
    from: [0]
    to: [10]
    duration: 100ms
    repeat: 1
    yoyo: true
`))
	require.NoError(t, err)
	scene, err := d.Build(nil)
	require.NoError(t, err)

	var swing *tween.Tween
	scene.Group.Each(func(_ tween.Handle, tw *tween.Tween) { swing = tw })
	require.NotNil(t, swing)
	assert.True(t, swing.Yoyo())

	require.NoError(t, scene.Group.Update(150))
	assert.Equal(t, 5.0, swing.Value())
	require.NoError(t, scene.Group.Update(50))
	assert.Equal(t, 0, scene.Group.Len())
	assert.Equal(t, 0.0, swing.Value())
}

func TestBuild(t *testing.T) {
	d, err := Parse([]byte(sampleYAML))
	require.NoError(t, err)

	shared := bus.New()
	scene, err := d.Build(shared)
	require.NoError(t, err)

	assert.Same(t, shared, scene.Bus)
	assert.Same(t, shared, scene.Group.Bus())
	assert.Equal(t, 30.0, scene.FPS)
	assert.Equal(t, 2, scene.Group.Len())

	var names []string
	scene.Group.Each(func(_ tween.Handle, tw *tween.Tween) {
		names = append(names, tw.Name())
		assert.Same(t, shared, tw.Bus())
	})
	assert.Equal(t, []string{"fade", "move"}, names)

	require.Len(t, scene.Timers, 2)
	assert.Equal(t, "spawn", scene.Timers[0].Name())
	assert.Equal(t, timer.Repeating, scene.Timers[0].Mode())
	assert.Equal(t, 4, scene.Timers[0].Laps())
	assert.Equal(t, timer.Running, scene.Timers[0].State())
	assert.Equal(t, "timer-2", scene.Timers[1].Name())
	assert.Equal(t, timer.OneShot, scene.Timers[1].Mode())

	faded := false
	shared.Subscribe("fade/complete", func(bus.Event) error {
		faded = true
		return nil
	})
	laps := 0
	shared.Subscribe("spawn/interval", func(bus.Event) error {
		laps++
		return nil
	})

	require.NoError(t, scene.Group.Update(1000))
	for _, tm := range scene.Timers {
		require.NoError(t, tm.Update(1000))
	}

	assert.True(t, faded)
	assert.Equal(t, 1, laps)
	assert.Equal(t, 1, scene.Group.Len(), "fade completes, paused move stays")
}

func TestBuild_PausedTimer(t *testing.T) {
	d := Descriptor{Timers: []TimerSpec{{Name: "later", Duration: Duration(time.Second), Paused: true}}}
	scene, err := d.Build(nil)
	require.NoError(t, err)
	require.NotNil(t, scene.Bus)

	tm := scene.Timers[0]
	assert.Equal(t, timer.Paused, tm.State())
	require.NoError(t, tm.Update(5000))
	assert.Equal(t, 0.0, tm.Elapsed())
}
